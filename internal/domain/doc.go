// Package domain defines the core value objects of the Pokedex service.
//
// Types in this package are validated value objects with no database
// dependencies and no HTTP concerns. They are the shared language between
// handlers, services, and repositories.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - Constructors validate; a value obtained from a constructor is always valid
//   - Limits and enumerations are package-level constants shared by every caller
package domain
