package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	t.Parallel()
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"until", "until", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"untll", "until", 1},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"loop", "until", 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Distance(tt.a, tt.b), "Distance(%q, %q)", tt.a, tt.b)
		assert.Equal(t, tt.want, Distance(tt.b, tt.a), "distance must be symmetric")
	}
}

func TestRank(t *testing.T) {
	t.Parallel()
	candidates := []string{"loop", "until", "unless", "repeat"}

	ranked := Rank("untll", candidates)
	assert.Equal(t, []string{"until", "unless", "loop", "repeat"}, ranked)

	// input slice must not be reordered
	assert.Equal(t, []string{"loop", "until", "unless", "repeat"}, candidates)
}

func TestRankTiesAreLexical(t *testing.T) {
	t.Parallel()
	ranked := Rank("ab", []string{"ax", "ay", "aw"})
	assert.Equal(t, []string{"aw", "ax", "ay"}, ranked)
}
