// Package memory provides an in-process implementation of pokemon.Repository.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/ignite/pokedex/internal/domain"
	"github.com/ignite/pokedex/internal/service/pokemon"
)

var _ pokemon.Repository = (*PokemonRepo)(nil)

// ErrSimulated is returned by every operation of a repo built with WithError.
var ErrSimulated = errors.New("memory repository: simulated backend failure")

// PokemonRepo keeps the catalog in a map guarded by a single lock. The map is
// never handed out; callers only see copies.
type PokemonRepo struct {
	mu      sync.RWMutex
	records map[domain.PokemonNumber]domain.Pokemon
	failing bool
}

// NewPokemonRepo creates an empty in-memory repository.
func NewPokemonRepo() *PokemonRepo {
	return &PokemonRepo{records: make(map[domain.PokemonNumber]domain.Pokemon)}
}

// WithError makes every subsequent operation fail with ErrSimulated.
func (r *PokemonRepo) WithError() *PokemonRepo {
	r.mu.Lock()
	r.failing = true
	r.mu.Unlock()
	return r
}

func (r *PokemonRepo) Insert(_ context.Context, number domain.PokemonNumber, name domain.PokemonName, types domain.PokemonTypes) (*domain.Pokemon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return nil, ErrSimulated
	}
	if _, exists := r.records[number]; exists {
		return nil, pokemon.ErrRecordExists
	}
	p := domain.Pokemon{Number: number, Name: name, Types: types}
	r.records[number] = p
	return &p, nil
}

func (r *PokemonRepo) FetchAll(_ context.Context) ([]domain.Pokemon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failing {
		return nil, ErrSimulated
	}
	out := make([]domain.Pokemon, 0, len(r.records))
	for _, p := range r.records {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *PokemonRepo) FetchOne(_ context.Context, number domain.PokemonNumber) (*domain.Pokemon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failing {
		return nil, ErrSimulated
	}
	p, ok := r.records[number]
	if !ok {
		return nil, pokemon.ErrRecordNotFound
	}
	return &p, nil
}

func (r *PokemonRepo) Delete(_ context.Context, number domain.PokemonNumber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return ErrSimulated
	}
	if _, ok := r.records[number]; !ok {
		return pokemon.ErrRecordNotFound
	}
	delete(r.records, number)
	return nil
}
