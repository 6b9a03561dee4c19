package header

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"no duplicates", []string{"a", "b"}, []string{"a", "b"}},
		{"pair", []string{"Power (MW)", "Temp", "Temp", "Eff"}, []string{"Power (MW)", "Temp", "Temp.1", "Eff"}},
		{"triple", []string{"Temp", "Temp", "Temp"}, []string{"Temp", "Temp.1", "Temp.2"}},
		{"interleaved", []string{"a", "b", "a", "b", "a"}, []string{"a", "b", "a.1", "b.1", "a.2"}},
		{"collision with later label", []string{"Temp", "Temp", "Temp.1"}, []string{"Temp", "Temp.2", "Temp.1"}},
		{"collision with earlier label", []string{"Temp.1", "Temp", "Temp"}, []string{"Temp.1", "Temp", "Temp.2"}},
		{"empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Dedupe(tt.in))
		})
	}
}

func TestDedupe_UniqueAndIdempotent(t *testing.T) {
	t.Parallel()

	inputs := [][]string{
		{"x", "x", "x.1", "x.2", "x", "y"},
		{"", "", "Unnamed: 0", "Unnamed: 0"},
		{"a.1", "a", "a", "a", "a.2"},
	}

	for _, in := range inputs {
		out := Dedupe(in)
		assert.Len(t, out, len(in))

		seen := map[string]bool{}
		for _, h := range out {
			assert.False(t, seen[h], "duplicate %q in %v", h, out)
			seen[h] = true
		}
		assert.Equal(t, out, Dedupe(out))
	}
}

func TestDedupe_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []string{"a", "a"}
	_ = Dedupe(in)
	assert.Equal(t, []string{"a", "a"}, in)
}
