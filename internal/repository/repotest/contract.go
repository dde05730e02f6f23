// Package repotest holds the behavioural suite every pokemon.Repository
// implementation must pass. Adapters call Run from their own tests.
package repotest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/pokedex/internal/domain"
	"github.com/ignite/pokedex/internal/service/pokemon"
)

// Factory returns a fresh, empty repository for one subtest.
type Factory func(t *testing.T) pokemon.Repository

// MustPokemon builds a valid record or fails the test.
func MustPokemon(t *testing.T, number int, name string, types ...string) domain.Pokemon {
	t.Helper()
	p, err := domain.NewPokemon(number, name, types)
	require.NoError(t, err)
	return p
}

// Run executes the repository contract against repositories built by newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Run("insert then fetch one", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := MustPokemon(t, 25, "Pikachu", "Electric")

		got, err := repo.Insert(ctx, p.Number, p.Name, p.Types)
		require.NoError(t, err)
		assert.Equal(t, p, *got)

		fetched, err := repo.FetchOne(ctx, p.Number)
		require.NoError(t, err)
		assert.Equal(t, 25, fetched.Number.Int())
		assert.Equal(t, "Pikachu", fetched.Name.String())
		assert.Equal(t, []string{"Electric"}, fetched.Types.Strings())
	})

	t.Run("insert keeps type order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := MustPokemon(t, 6, "Charizard", "Fire", "Flying")

		_, err := repo.Insert(ctx, p.Number, p.Name, p.Types)
		require.NoError(t, err)

		fetched, err := repo.FetchOne(ctx, p.Number)
		require.NoError(t, err)
		assert.Equal(t, []string{"Fire", "Flying"}, fetched.Types.Strings())
	})

	t.Run("duplicate insert conflicts and keeps first record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		first := MustPokemon(t, 25, "Pikachu", "Electric")
		second := MustPokemon(t, 25, "Charmander", "Fire")

		_, err := repo.Insert(ctx, first.Number, first.Name, first.Types)
		require.NoError(t, err)
		_, err = repo.Insert(ctx, second.Number, second.Name, second.Types)
		require.ErrorIs(t, err, pokemon.ErrRecordExists)

		fetched, err := repo.FetchOne(ctx, first.Number)
		require.NoError(t, err)
		assert.Equal(t, "Pikachu", fetched.Name.String())
	})

	t.Run("fetch one missing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FetchOne(context.Background(), MustPokemon(t, 1, "Bulbasaur", "Grass").Number)
		require.ErrorIs(t, err, pokemon.ErrRecordNotFound)
	})

	t.Run("fetch all empty", func(t *testing.T) {
		repo := newRepo(t)
		all, err := repo.FetchAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("fetch all ordered by number", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		for _, p := range []domain.Pokemon{
			MustPokemon(t, 150, "Mewtwo", "Psychic"),
			MustPokemon(t, 1, "Bulbasaur", "Grass", "Poison"),
			MustPokemon(t, 25, "Pikachu", "Electric"),
		} {
			_, err := repo.Insert(ctx, p.Number, p.Name, p.Types)
			require.NoError(t, err)
		}

		all, err := repo.FetchAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, 1, all[0].Number.Int())
		assert.Equal(t, []string{"Grass", "Poison"}, all[0].Types.Strings())
		assert.Equal(t, 25, all[1].Number.Int())
		assert.Equal(t, 150, all[2].Number.Int())
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := MustPokemon(t, 25, "Pikachu", "Electric")

		require.ErrorIs(t, repo.Delete(ctx, p.Number), pokemon.ErrRecordNotFound)

		_, err := repo.Insert(ctx, p.Number, p.Name, p.Types)
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, p.Number))

		_, err = repo.FetchOne(ctx, p.Number)
		require.ErrorIs(t, err, pokemon.ErrRecordNotFound)
		require.ErrorIs(t, repo.Delete(ctx, p.Number), pokemon.ErrRecordNotFound)

		// the number is free again
		_, err = repo.Insert(ctx, p.Number, p.Name, p.Types)
		require.NoError(t, err)
	})

	t.Run("concurrent inserts of one number", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := MustPokemon(t, 133, "Eevee", "Normal")

		const writers = 16
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Insert(ctx, p.Number, p.Name, p.Types)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var ok, conflicts int
		for err := range errs {
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, pokemon.ErrRecordExists):
				conflicts++
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, writers-1, conflicts)

		all, err := repo.FetchAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}
