package domain

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNewPokemonNumber(t *testing.T) {
	tests := []struct {
		name    string
		in      int
		wantErr bool
	}{
		{"zero rejected", 0, true},
		{"negative rejected", -25, true},
		{"lower bound", MinPokemonNumber, false},
		{"pikachu", 25, false},
		{"upper bound", MaxPokemonNumber, false},
		{"above upper bound", MaxPokemonNumber + 1, true},
		{"way above", 65536, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPokemonNumber(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("NewPokemonNumber(%d) err = %v, want ErrValidation", tt.in, err)
				}
				if !errors.Is(err, ErrInvalidNumber) {
					t.Errorf("NewPokemonNumber(%d) err = %v, want ErrInvalidNumber", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPokemonNumber(%d) unexpected error: %v", tt.in, err)
			}
			if got.Int() != tt.in {
				t.Errorf("round trip = %d, want %d", got.Int(), tt.in)
			}
		})
	}
}

func TestNewPokemonNumber_WholeRangeRoundTrips(t *testing.T) {
	for n := MinPokemonNumber; n <= MaxPokemonNumber; n++ {
		got, err := NewPokemonNumber(n)
		if err != nil {
			t.Fatalf("NewPokemonNumber(%d): %v", n, err)
		}
		if got.Int() != n {
			t.Fatalf("round trip = %d, want %d", got.Int(), n)
		}
	}
}

func TestNewPokemonName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"simple", "Pikachu", false},
		{"with symbols", "Mr. Mime", false},
		{"unicode counted as runes", strings.Repeat("é", MaxPokemonNameLength), false},
		{"at limit", strings.Repeat("a", MaxPokemonNameLength), false},
		{"over limit", strings.Repeat("a", MaxPokemonNameLength+1), true},
		{"invalid utf-8", "Pika\xffchu", true},
		{"truncated rune", "Pok\xc3", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPokemonName(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidName) || !errors.Is(err, ErrValidation) {
					t.Fatalf("NewPokemonName(%q) err = %v, want ErrInvalidName", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPokemonName(%q) unexpected error: %v", tt.in, err)
			}
			if got.String() != tt.in {
				t.Errorf("round trip = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestNewPokemonTypes(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		wantErr bool
	}{
		{"nil", nil, true},
		{"empty", []string{}, true},
		{"unknown", []string{"Electric", "Plasma"}, true},
		{"wrong case", []string{"electric"}, true},
		{"duplicate", []string{"Fire", "Fire"}, true},
		{"single", []string{"Electric"}, false},
		{"order kept", []string{"Poison", "Grass"}, false},
		{"three", []string{"Water", "Ground", "Dragon"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPokemonTypes(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTypes) || !errors.Is(err, ErrValidation) {
					t.Fatalf("NewPokemonTypes(%v) err = %v, want ErrInvalidTypes", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPokemonTypes(%v) unexpected error: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got.Strings(), tt.in) {
				t.Errorf("round trip = %v, want %v", got.Strings(), tt.in)
			}
			if got.Len() != len(tt.in) {
				t.Errorf("Len() = %d, want %d", got.Len(), len(tt.in))
			}
		})
	}
}

func TestPokemonTypes_StringsReturnsCopy(t *testing.T) {
	types, err := NewPokemonTypes([]string{"Fire", "Flying"})
	if err != nil {
		t.Fatalf("NewPokemonTypes: %v", err)
	}
	out := types.Strings()
	out[0] = "Water"
	if got := types.Strings()[0]; got != "Fire" {
		t.Errorf("mutating Strings() result changed the value: got %q", got)
	}
}

func TestNewPokemon(t *testing.T) {
	p, err := NewPokemon(25, "Pikachu", []string{"Electric"})
	if err != nil {
		t.Fatalf("NewPokemon: %v", err)
	}
	if p.Number.Int() != 25 || p.Name.String() != "Pikachu" || p.Types.Strings()[0] != "Electric" {
		t.Errorf("unexpected pokemon: %+v", p)
	}

	for _, bad := range []struct {
		number int
		name   string
		types  []string
	}{
		{0, "Pikachu", []string{"Electric"}},
		{25, "", []string{"Electric"}},
		{25, "Pikachu", nil},
	} {
		if _, err := NewPokemon(bad.number, bad.name, bad.types); !errors.Is(err, ErrValidation) {
			t.Errorf("NewPokemon(%d, %q, %v) err = %v, want ErrValidation", bad.number, bad.name, bad.types, err)
		}
	}
}
