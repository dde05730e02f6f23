package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/pokedex/internal/repository/repotest"
	"github.com/ignite/pokedex/internal/service/pokemon"
)

func setupTestDB(t *testing.T) (*PokemonRepo, func()) {
	t.Helper()

	dbConn, err := Open(context.Background(), filepath.Join(t.TempDir(), "pokedex_test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	repo := NewPokemonRepo(dbConn)
	return repo, func() { repo.Close() }
}

func TestPokemonRepo_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) pokemon.Repository {
		repo, teardown := setupTestDB(t)
		t.Cleanup(teardown)
		return repo
	})
}

func TestPokemonRepo_DeleteCascadesTypes(t *testing.T) {
	repo, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	p := repotest.MustPokemon(t, 6, "Charizard", "Fire", "Flying")

	_, err := repo.Insert(ctx, p.Number, p.Name, p.Types)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, p.Number))

	var n int
	require.NoError(t, repo.dbConn.GetContext(ctx, &n, `SELECT COUNT(*) FROM types WHERE pokemon_number = ?`, 6))
	assert.Equal(t, 0, n)
}

func TestPokemonRepo_ConflictLeavesNoStrayTypes(t *testing.T) {
	repo, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	first := repotest.MustPokemon(t, 25, "Pikachu", "Electric")
	second := repotest.MustPokemon(t, 25, "Raichu", "Electric", "Psychic")

	_, err := repo.Insert(ctx, first.Number, first.Name, first.Types)
	require.NoError(t, err)
	_, err = repo.Insert(ctx, second.Number, second.Name, second.Types)
	require.ErrorIs(t, err, pokemon.ErrRecordExists)

	var n int
	require.NoError(t, repo.dbConn.GetContext(ctx, &n, `SELECT COUNT(*) FROM types WHERE pokemon_number = ?`, 25))
	assert.Equal(t, 1, n)
}

func TestPokemonRepo_MalformedRowIsBackendError(t *testing.T) {
	repo, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	_, err := repo.dbConn.ExecContext(ctx, `INSERT INTO pokemons(number, name) VALUES (7, 'Squirtle')`)
	require.NoError(t, err)
	_, err = repo.dbConn.ExecContext(ctx, `INSERT INTO types(pokemon_number, position, name) VALUES (7, 0, 'Plasma')`)
	require.NoError(t, err)

	p := repotest.MustPokemon(t, 7, "Squirtle", "Water")
	_, err = repo.FetchOne(ctx, p.Number)
	require.Error(t, err)
	assert.NotErrorIs(t, err, pokemon.ErrRecordNotFound)
}

func TestMigrationStatus(t *testing.T) {
	repo, teardown := setupTestDB(t)
	defer teardown()

	lines, err := MigrationStatus(context.Background(), repo.dbConn.DB)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "00001_create_pokemons.sql")
}
