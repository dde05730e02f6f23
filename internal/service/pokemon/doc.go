// Package pokemon implements the Pokedex use-cases: create, fetch one,
// fetch all and delete.
//
// Each use-case validates its input through the domain constructors, calls
// the Repository defined in repository.go, and maps the storage outcome to
// one of four error kinds (bad request, conflict, not found, unknown).
// Validation failures never reach the repository and nothing is retried.
//
// The service layer never imports net/http or database/sql directly.
package pokemon
