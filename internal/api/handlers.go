package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/pokedex/internal/pkg/httputil"
	"github.com/ignite/pokedex/internal/pkg/metrics"
	"github.com/ignite/pokedex/internal/service/pokemon"
)

// PokemonService is the set of use-cases the handlers call.
type PokemonService interface {
	Create(ctx context.Context, req pokemon.CreateRequest) (*pokemon.Response, error)
	FetchOne(ctx context.Context, number int) (*pokemon.Response, error)
	FetchAll(ctx context.Context) ([]pokemon.Response, error)
	Delete(ctx context.Context, number int) error
}

var _ PokemonService = (*pokemon.Service)(nil)

var errInvalidNumber = errors.New("number must be an integer")

// Handlers contains the pokemon HTTP handlers.
type Handlers struct {
	svc PokemonService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(svc PokemonService) *Handlers {
	return &Handlers{svc: svc}
}

// CreatePokemon handles POST /
func (h *Handlers) CreatePokemon(w http.ResponseWriter, r *http.Request) {
	var req pokemon.CreateRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	resp, err := h.svc.Create(r.Context(), req)
	metrics.RecordUseCase("create", string(pokemon.KindOf(err)))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.Created(w, resp)
}

// ListPokemons handles GET /
func (h *Handlers) ListPokemons(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.FetchAll(r.Context())
	metrics.RecordUseCase("fetch_all", string(pokemon.KindOf(err)))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.OK(w, resp)
}

// GetPokemon handles GET /{number}
func (h *Handlers) GetPokemon(w http.ResponseWriter, r *http.Request) {
	number, ok := parseNumber(w, r)
	if !ok {
		return
	}

	resp, err := h.svc.FetchOne(r.Context(), number)
	metrics.RecordUseCase("fetch_one", string(pokemon.KindOf(err)))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.OK(w, resp)
}

// DeletePokemon handles DELETE /{number}
func (h *Handlers) DeletePokemon(w http.ResponseWriter, r *http.Request) {
	number, ok := parseNumber(w, r)
	if !ok {
		return
	}

	err := h.svc.Delete(r.Context(), number)
	metrics.RecordUseCase("delete", string(pokemon.KindOf(err)))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.NoContent(w)
}

// parseNumber reads the {number} path segment. Non-integers are a 400; range
// checks are left to the service.
func parseNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, string(pokemon.KindBadRequest), errInvalidNumber.Error())
		return 0, false
	}
	return number, true
}
