// Package postgres implements pokemon.Repository against PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/pokedex/internal/domain"
	"github.com/ignite/pokedex/internal/service/pokemon"
)

var _ pokemon.Repository = (*PokemonRepo)(nil)

// uniqueViolation is the SQLSTATE for a primary key / unique constraint failure.
const uniqueViolation = "23505"

// PokemonRepo implements pokemon.Repository against PostgreSQL.
type PokemonRepo struct{ db *sql.DB }

// NewPokemonRepo creates a Postgres-backed pokemon repository.
func NewPokemonRepo(db *sql.DB) *PokemonRepo { return &PokemonRepo{db: db} }

func (r *PokemonRepo) Insert(ctx context.Context, number domain.PokemonNumber, name domain.PokemonName, types domain.PokemonTypes) (*domain.Pokemon, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pokemons (number, name, types) VALUES ($1, $2, $3)`,
		number.Int(), name.String(), pq.Array(types.Strings()),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, pokemon.ErrRecordExists
		}
		return nil, fmt.Errorf("insert pokemon: %w", err)
	}
	return &domain.Pokemon{Number: number, Name: name, Types: types}, nil
}

func (r *PokemonRepo) FetchAll(ctx context.Context) ([]domain.Pokemon, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT number, name, types FROM pokemons ORDER BY number`,
	)
	if err != nil {
		return nil, fmt.Errorf("list pokemons: %w", err)
	}
	defer rows.Close()

	out := []domain.Pokemon{}
	for rows.Next() {
		p, err := scanPokemon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pokemons: %w", err)
	}
	return out, nil
}

func (r *PokemonRepo) FetchOne(ctx context.Context, number domain.PokemonNumber) (*domain.Pokemon, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT number, name, types FROM pokemons WHERE number = $1`,
		number.Int(),
	)
	p, err := scanPokemon(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pokemon.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PokemonRepo) Delete(ctx context.Context, number domain.PokemonNumber) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM pokemons WHERE number = $1`,
		number.Int(),
	)
	if err != nil {
		return fmt.Errorf("delete pokemon: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete pokemon rows affected: %w", err)
	}
	if n == 0 {
		return pokemon.ErrRecordNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanPokemon reads one row and re-validates it; a row that no longer passes
// domain validation is reported as a backend error.
func scanPokemon(s scanner) (domain.Pokemon, error) {
	var (
		number int
		name   string
		types  []string
	)
	if err := s.Scan(&number, &name, pq.Array(&types)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Pokemon{}, err
		}
		return domain.Pokemon{}, fmt.Errorf("scan pokemon: %w", err)
	}
	p, err := domain.NewPokemon(number, name, types)
	if err != nil {
		return domain.Pokemon{}, fmt.Errorf("malformed pokemon row %d: %v", number, err)
	}
	return p, nil
}
