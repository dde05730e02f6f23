package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ignite/pokedex/internal/domain"
	"github.com/ignite/pokedex/internal/service/pokemon"
)

var _ pokemon.Repository = (*PokemonRepo)(nil)

// dbPokemon is a pokemons row.
type dbPokemon struct {
	Number int    `db:"number"`
	Name   string `db:"name"`
}

// dbType is a types row; position keeps the caller's order.
type dbType struct {
	PokemonNumber int    `db:"pokemon_number"`
	Position      int    `db:"position"`
	Name          string `db:"name"`
}

// PokemonRepo stores records in two tables, pokemons and types.
type PokemonRepo struct {
	dbConn *sqlx.DB
}

// NewPokemonRepo wraps an open connection (see Open).
func NewPokemonRepo(db *sqlx.DB) *PokemonRepo {
	return &PokemonRepo{dbConn: db}
}

// Close terminates the database connection.
func (repo *PokemonRepo) Close() error {
	if err := repo.dbConn.Close(); err != nil {
		return fmt.Errorf("closing repo : %w", err)
	}
	return nil
}

func (repo *PokemonRepo) Insert(ctx context.Context, number domain.PokemonNumber, name domain.PokemonName, types domain.PokemonTypes) (*domain.Pokemon, error) {
	tx, err := repo.dbConn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting insert transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO pokemons(number, name) VALUES (?, ?)`, number.Int(), name.String())
	if err != nil {
		if isPrimaryKeyViolation(err) {
			return nil, pokemon.ErrRecordExists
		}
		return nil, fmt.Errorf("inserting pokemon %d: %w", number.Int(), err)
	}

	for i, t := range types.Strings() {
		_, err = tx.ExecContext(ctx, `INSERT INTO types(pokemon_number, position, name) VALUES (?, ?, ?)`, number.Int(), i, t)
		if err != nil {
			return nil, fmt.Errorf("inserting type %s for pokemon %d: %w", t, number.Int(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing pokemon %d: %w", number.Int(), err)
	}
	return &domain.Pokemon{Number: number, Name: name, Types: types}, nil
}

func (repo *PokemonRepo) FetchAll(ctx context.Context) ([]domain.Pokemon, error) {
	tx, err := repo.dbConn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting read transaction: %w", err)
	}
	defer tx.Rollback()

	var rows []dbPokemon
	if err := tx.SelectContext(ctx, &rows, `SELECT number, name FROM pokemons ORDER BY number`); err != nil {
		return nil, fmt.Errorf("getting pokemons: %w", err)
	}
	var typeRows []dbType
	if err := tx.SelectContext(ctx, &typeRows, `SELECT pokemon_number, position, name FROM types ORDER BY pokemon_number, position`); err != nil {
		return nil, fmt.Errorf("getting types: %w", err)
	}

	typesByNumber := make(map[int][]string, len(rows))
	for _, t := range typeRows {
		typesByNumber[t.PokemonNumber] = append(typesByNumber[t.PokemonNumber], t.Name)
	}

	out := make([]domain.Pokemon, 0, len(rows))
	for _, row := range rows {
		p, err := toDomainPokemon(row, typesByNumber[row.Number])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (repo *PokemonRepo) FetchOne(ctx context.Context, number domain.PokemonNumber) (*domain.Pokemon, error) {
	tx, err := repo.dbConn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting read transaction: %w", err)
	}
	defer tx.Rollback()

	var row dbPokemon
	err = tx.GetContext(ctx, &row, `SELECT number, name FROM pokemons WHERE number = ?`, number.Int())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pokemon.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting pokemon %d: %w", number.Int(), err)
	}

	var types []string
	if err := tx.SelectContext(ctx, &types, `SELECT name FROM types WHERE pokemon_number = ? ORDER BY position`, number.Int()); err != nil {
		return nil, fmt.Errorf("getting types for pokemon %d: %w", number.Int(), err)
	}

	p, err := toDomainPokemon(row, types)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (repo *PokemonRepo) Delete(ctx context.Context, number domain.PokemonNumber) error {
	result, err := repo.dbConn.ExecContext(ctx, `DELETE FROM pokemons WHERE number = ?`, number.Int())
	if err != nil {
		return fmt.Errorf("deleting pokemon %d: %w", number.Int(), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("fetching rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return pokemon.ErrRecordNotFound
	}
	return nil
}

// toDomainPokemon converts stored rows back into a validated domain.Pokemon.
func toDomainPokemon(row dbPokemon, types []string) (domain.Pokemon, error) {
	p, err := domain.NewPokemon(row.Number, row.Name, types)
	if err != nil {
		return domain.Pokemon{}, fmt.Errorf("malformed pokemon row %d: %v", row.Number, err)
	}
	return p, nil
}

func isPrimaryKeyViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
