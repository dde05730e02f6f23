package pokemon

import (
	"context"
	"errors"

	"github.com/ignite/pokedex/internal/domain"
)

// Storage-level outcomes. Any other error returned by a Repository is treated
// as an opaque backend failure.
var (
	ErrRecordExists   = errors.New("pokemon number already stored")
	ErrRecordNotFound = errors.New("pokemon number not stored")
)

// Repository defines the data access contract for the Pokemon catalog.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Insert stores a new record. Returns ErrRecordExists if the number is
	// already taken; the stored record is never overwritten.
	Insert(ctx context.Context, number domain.PokemonNumber, name domain.PokemonName, types domain.PokemonTypes) (*domain.Pokemon, error)

	// FetchAll returns a snapshot of every record ordered by number.
	FetchAll(ctx context.Context) ([]domain.Pokemon, error)

	// FetchOne returns the record with the given number, or ErrRecordNotFound.
	FetchOne(ctx context.Context, number domain.PokemonNumber) (*domain.Pokemon, error)

	// Delete removes the record with the given number, or returns ErrRecordNotFound.
	Delete(ctx context.Context, number domain.PokemonNumber) error
}
