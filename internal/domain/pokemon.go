package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinPokemonNumber     = 1
	MaxPokemonNumber     = 999
	MaxPokemonNameLength = 32
)

// PokemonNumber is the national dex number. It is the unique key of a record.
type PokemonNumber uint16

// NewPokemonNumber validates n against [MinPokemonNumber, MaxPokemonNumber].
func NewPokemonNumber(n int) (PokemonNumber, error) {
	if n < MinPokemonNumber || n > MaxPokemonNumber {
		return 0, fmt.Errorf("%w: %d", ErrInvalidNumber, n)
	}
	return PokemonNumber(n), nil
}

// Int returns the number as a plain int.
func (n PokemonNumber) Int() int { return int(n) }

// PokemonName is a non-blank display name of bounded length.
type PokemonName string

// NewPokemonName rejects invalid UTF-8, blank names and names longer than
// MaxPokemonNameLength runes.
func NewPokemonName(s string) (PokemonName, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("%w: name is not valid UTF-8", ErrInvalidName)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if utf8.RuneCountInString(s) > MaxPokemonNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxPokemonNameLength)
	}
	return PokemonName(s), nil
}

func (n PokemonName) String() string { return string(n) }

// PokemonType is one elemental type from the fixed enumeration below.
type PokemonType string

const (
	TypeNormal   PokemonType = "Normal"
	TypeFire     PokemonType = "Fire"
	TypeWater    PokemonType = "Water"
	TypeElectric PokemonType = "Electric"
	TypeGrass    PokemonType = "Grass"
	TypeIce      PokemonType = "Ice"
	TypeFighting PokemonType = "Fighting"
	TypePoison   PokemonType = "Poison"
	TypeGround   PokemonType = "Ground"
	TypeFlying   PokemonType = "Flying"
	TypePsychic  PokemonType = "Psychic"
	TypeBug      PokemonType = "Bug"
	TypeRock     PokemonType = "Rock"
	TypeGhost    PokemonType = "Ghost"
	TypeDragon   PokemonType = "Dragon"
	TypeDark     PokemonType = "Dark"
	TypeSteel    PokemonType = "Steel"
	TypeFairy    PokemonType = "Fairy"
)

var knownTypes = map[PokemonType]struct{}{
	TypeNormal: {}, TypeFire: {}, TypeWater: {}, TypeElectric: {}, TypeGrass: {},
	TypeIce: {}, TypeFighting: {}, TypePoison: {}, TypeGround: {}, TypeFlying: {},
	TypePsychic: {}, TypeBug: {}, TypeRock: {}, TypeGhost: {}, TypeDragon: {},
	TypeDark: {}, TypeSteel: {}, TypeFairy: {},
}

// ParsePokemonType matches s exactly (case-sensitive) against the enumeration.
func ParsePokemonType(s string) (PokemonType, error) {
	t := PokemonType(s)
	if _, ok := knownTypes[t]; !ok {
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidTypes, s)
	}
	return t, nil
}

// PokemonTypes is an ordered, non-empty list of distinct types.
// The backing slice is never exposed, so a value cannot be changed after construction.
type PokemonTypes struct {
	types []PokemonType
}

// NewPokemonTypes validates every entry and keeps the caller's order.
func NewPokemonTypes(values []string) (PokemonTypes, error) {
	if len(values) == 0 {
		return PokemonTypes{}, fmt.Errorf("%w: at least one type is required", ErrInvalidTypes)
	}
	seen := make(map[PokemonType]struct{}, len(values))
	types := make([]PokemonType, 0, len(values))
	for _, v := range values {
		t, err := ParsePokemonType(v)
		if err != nil {
			return PokemonTypes{}, err
		}
		if _, dup := seen[t]; dup {
			return PokemonTypes{}, fmt.Errorf("%w: duplicate type %q", ErrInvalidTypes, v)
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}
	return PokemonTypes{types: types}, nil
}

// Strings returns a copy of the types in their original order.
func (t PokemonTypes) Strings() []string {
	out := make([]string, len(t.types))
	for i, v := range t.types {
		out[i] = string(v)
	}
	return out
}

// Len returns the number of types.
func (t PokemonTypes) Len() int { return len(t.types) }

// Pokemon is the catalog record. Number is unique across the whole collection.
type Pokemon struct {
	Number PokemonNumber
	Name   PokemonName
	Types  PokemonTypes
}

// NewPokemon validates raw fields into a Pokemon. Storage adapters use it to
// re-check rows read back from a backend.
func NewPokemon(number int, name string, types []string) (Pokemon, error) {
	n, err := NewPokemonNumber(number)
	if err != nil {
		return Pokemon{}, err
	}
	nm, err := NewPokemonName(name)
	if err != nil {
		return Pokemon{}, err
	}
	ts, err := NewPokemonTypes(types)
	if err != nil {
		return Pokemon{}, err
	}
	return Pokemon{Number: n, Name: nm, Types: ts}, nil
}
