// Package redis stores each record as a JSON string under "<prefix>:pokemon:<number>"
// and keeps the set of stored numbers in "<prefix>:pokemons".
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/pokedex/internal/domain"
	"github.com/ignite/pokedex/internal/service/pokemon"
)

var _ pokemon.Repository = (*PokemonRepo)(nil)

// insertScript writes the record only if the key is free and indexes it in
// the same step.
var insertScript = redis.NewScript(`
	if redis.call("setnx", KEYS[1], ARGV[1]) == 1 then
		redis.call("sadd", KEYS[2], ARGV[2])
		return 1
	end
	return 0
`)

var deleteScript = redis.NewScript(`
	if redis.call("del", KEYS[1]) == 1 then
		redis.call("srem", KEYS[2], ARGV[1])
		return 1
	end
	return 0
`)

type record struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Types  []string `json:"types"`
}

// PokemonRepo implements pokemon.Repository on Redis.
type PokemonRepo struct {
	client *redis.Client
	prefix string
}

// NewPokemonRepo uses prefix to namespace keys; an empty prefix means "pokedex".
func NewPokemonRepo(client *redis.Client, prefix string) *PokemonRepo {
	if prefix == "" {
		prefix = "pokedex"
	}
	return &PokemonRepo{client: client, prefix: prefix}
}

func (r *PokemonRepo) recordKey(number int) string {
	return fmt.Sprintf("%s:pokemon:%d", r.prefix, number)
}

func (r *PokemonRepo) indexKey() string {
	return r.prefix + ":pokemons"
}

func (r *PokemonRepo) Insert(ctx context.Context, number domain.PokemonNumber, name domain.PokemonName, types domain.PokemonTypes) (*domain.Pokemon, error) {
	data, err := json.Marshal(record{Number: number.Int(), Name: name.String(), Types: types.Strings()})
	if err != nil {
		return nil, fmt.Errorf("marshaling pokemon: %w", err)
	}

	created, err := insertScript.Run(ctx, r.client,
		[]string{r.recordKey(number.Int()), r.indexKey()}, data, number.Int()).Int()
	if err != nil {
		return nil, fmt.Errorf("inserting pokemon %d: %w", number.Int(), err)
	}
	if created == 0 {
		return nil, pokemon.ErrRecordExists
	}
	return &domain.Pokemon{Number: number, Name: name, Types: types}, nil
}

func (r *PokemonRepo) FetchAll(ctx context.Context) ([]domain.Pokemon, error) {
	members, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("listing pokemon numbers: %w", err)
	}
	out := make([]domain.Pokemon, 0, len(members))
	if len(members) == 0 {
		return out, nil
	}

	keys := make([]string, 0, len(members))
	for _, m := range members {
		n, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("malformed index entry %q: %v", m, err)
		}
		keys = append(keys, r.recordKey(n))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("getting pokemons: %w", err)
	}
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			// removed between SMEMBERS and MGET
			continue
		}
		p, err := decode(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *PokemonRepo) FetchOne(ctx context.Context, number domain.PokemonNumber) (*domain.Pokemon, error) {
	s, err := r.client.Get(ctx, r.recordKey(number.Int())).Result()
	if errors.Is(err, redis.Nil) {
		return nil, pokemon.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting pokemon %d: %w", number.Int(), err)
	}
	p, err := decode(s)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PokemonRepo) Delete(ctx context.Context, number domain.PokemonNumber) error {
	deleted, err := deleteScript.Run(ctx, r.client,
		[]string{r.recordKey(number.Int()), r.indexKey()}, number.Int()).Int()
	if err != nil {
		return fmt.Errorf("deleting pokemon %d: %w", number.Int(), err)
	}
	if deleted == 0 {
		return pokemon.ErrRecordNotFound
	}
	return nil
}

func decode(s string) (domain.Pokemon, error) {
	var rec record
	if err := json.Unmarshal([]byte(s), &rec); err != nil {
		return domain.Pokemon{}, fmt.Errorf("malformed pokemon value: %v", err)
	}
	p, err := domain.NewPokemon(rec.Number, rec.Name, rec.Types)
	if err != nil {
		return domain.Pokemon{}, fmt.Errorf("malformed pokemon %d: %v", rec.Number, err)
	}
	return p, nil
}
