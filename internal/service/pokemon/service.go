package pokemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/ignite/pokedex/internal/domain"
)

// Service implements the Pokedex use-cases. It is safe for concurrent use if
// the underlying repository is concurrency-safe.
type Service struct {
	repo Repository
}

// NewService creates a pokemon service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateRequest holds the raw fields for a new record.
type CreateRequest struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Types  []string `json:"types"`
}

// Response is the boundary representation of a stored record.
type Response struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Types  []string `json:"types"`
}

func toResponse(p domain.Pokemon) Response {
	return Response{
		Number: p.Number.Int(),
		Name:   p.Name.String(),
		Types:  p.Types.Strings(),
	}
}

// Create validates the request and inserts a new record. Returns
// ErrBadRequest, ErrConflict or ErrUnknown on failure.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Response, error) {
	number, err := domain.NewPokemonNumber(req.Number)
	if err != nil {
		return nil, badRequest(err)
	}
	name, err := domain.NewPokemonName(req.Name)
	if err != nil {
		return nil, badRequest(err)
	}
	types, err := domain.NewPokemonTypes(req.Types)
	if err != nil {
		return nil, badRequest(err)
	}

	p, err := s.repo.Insert(ctx, number, name, types)
	switch {
	case err == nil:
		resp := toResponse(*p)
		return &resp, nil
	case errors.Is(err, ErrRecordExists):
		return nil, fmt.Errorf("%w: number %d", ErrConflict, number.Int())
	default:
		return nil, unknown("insert", err)
	}
}

// FetchOne returns the record with the given number. Returns ErrBadRequest,
// ErrNotFound or ErrUnknown on failure.
func (s *Service) FetchOne(ctx context.Context, number int) (*Response, error) {
	n, err := domain.NewPokemonNumber(number)
	if err != nil {
		return nil, badRequest(err)
	}

	p, err := s.repo.FetchOne(ctx, n)
	switch {
	case err == nil:
		resp := toResponse(*p)
		return &resp, nil
	case errors.Is(err, ErrRecordNotFound):
		return nil, fmt.Errorf("%w: number %d", ErrNotFound, number)
	default:
		return nil, unknown("fetch one", err)
	}
}

// FetchAll returns every record. The only failure is ErrUnknown.
func (s *Service) FetchAll(ctx context.Context) ([]Response, error) {
	list, err := s.repo.FetchAll(ctx)
	if err != nil {
		return nil, unknown("fetch all", err)
	}
	out := make([]Response, 0, len(list))
	for _, p := range list {
		out = append(out, toResponse(p))
	}
	return out, nil
}

// Delete removes the record with the given number. Returns ErrBadRequest,
// ErrNotFound or ErrUnknown on failure.
func (s *Service) Delete(ctx context.Context, number int) error {
	n, err := domain.NewPokemonNumber(number)
	if err != nil {
		return badRequest(err)
	}

	err = s.repo.Delete(ctx, n)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrRecordNotFound):
		return fmt.Errorf("%w: number %d", ErrNotFound, number)
	default:
		return unknown("delete", err)
	}
}

func badRequest(cause error) error {
	return fmt.Errorf("%w: %w", ErrBadRequest, cause)
}

// unknown keeps the backend message but not its error chain, so a backend
// error can never be classified as anything other than ErrUnknown.
func unknown(op string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnknown, op, cause)
}
