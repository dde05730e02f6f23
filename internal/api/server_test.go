package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/pokedex/internal/repository/memory"
	"github.com/ignite/pokedex/internal/service/pokemon"
)

func TestServer_ShutdownBeforeListen(t *testing.T) {
	srv := NewServer(testConfig(), pokemon.NewService(memory.NewPokemonRepo()), Dependencies{})

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()))

	err := srv.ListenAndServe("127.0.0.1:0")
	assert.True(t, errors.Is(err, http.ErrServerClosed), "got %v", err)
}

func TestServer_HandlerServesHealthAndCatalog(t *testing.T) {
	h := NewServer(testConfig(), pokemon.NewService(memory.NewPokemonRepo()), Dependencies{Storage: "memory"}).Handler()

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), healthMessage)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/", "").Code)
}
