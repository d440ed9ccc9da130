package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "pandas", "pandas", 100},
		{"disjoint", "abc", "xyz", 0},
		{"one edit", "docker", "dockr", 91},
		{"empty left", "", "abc", 0},
		{"both empty", "", "", 0},
		{"unicode", "café", "cafe", 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ratio(tt.a, tt.b))
		})
	}
}

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"contained", "pandas", "pandas help", 100},
		{"contained reversed", "pandas help", "pandas", 100},
		{"border overlap", "dockr", "docker", 89},
		{"disjoint", "xyz", "pandas", 0},
		{"empty", "", "pandas", 0},
		{"single rune hit", "p", "pandas", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PartialRatio(tt.a, tt.b))
		})
	}
}

func TestPartialRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"docker compose", "compose"},
		{"week 3 notebook", "notebok"},
		{"git", "github actions"},
	}
	for _, p := range pairs {
		assert.Equal(t, PartialRatio(p[0], p[1]), PartialRatio(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestPartialRatio_Bounds(t *testing.T) {
	inputs := []string{"", "a", "pandas", "zzzzznomatch", "docker desktop", "ñandú"}
	for _, a := range inputs {
		for _, b := range inputs {
			score := PartialRatio(a, b)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}
