package autotile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePattern(t *testing.T) {
	cases := []struct {
		In     string
		Expect Pattern
	}{
		{"000000000", Empty},
		{"100000000", 1 << 8},
		{"000010000", 1 << 4},
		{"000000001", 1},
		{"111111111", 511},
	}

	for _, tt := range cases {
		p, err := ParsePattern(tt.In)

		assert.Nil(t, err)
		assert.Equal(t, tt.Expect, p, tt.In)
		assert.Equal(t, tt.In, p.String())
	}
}

func TestParsePatternInvalid(t *testing.T) {
	for _, in := range []string{"", "0000", "0000000000", "00000000x", "*00000000"} {
		_, err := ParsePattern(in)
		assert.NotNil(t, err, in)
	}
}

func TestExpand(t *testing.T) {
	cases := []struct {
		In     string
		Expect []string
	}{
		{"100000000", []string{"100000000"}},
		{"*00000001", []string{"000000001", "100000001"}},
		{"0*000000*", []string{"000000000", "000000001", "010000000", "010000001"}},
	}

	for _, tt := range cases {
		out, err := Expand(tt.In)

		assert.Nil(t, err)
		assert.Equal(t, tt.Expect, out)
	}
}

func TestExpandWildcardCount(t *testing.T) {
	for _, r := range DefaultRules() {
		n := 0
		for _, c := range r.Template {
			if c == wildcard {
				n++
			}
		}

		out, err := Expand(r.Template)

		assert.Nil(t, err)
		assert.Len(t, out, 1<<n, r.Template)
	}
}

func TestExpandInvalid(t *testing.T) {
	for _, in := range []string{"", "********", "0000000001", "00000000?"} {
		_, err := Expand(in)
		assert.True(t, errors.Is(err, ErrInvalidRule), in)
	}
}

func TestDefaultPatternTable(t *testing.T) {
	table, err := NewPatternTable(DefaultRules())
	require.Nil(t, err)

	// the default rules don't overlap
	assert.Equal(t, 36, table.Len())
	assert.Len(t, table.Patterns(), 36)

	_, ok := table.Lookup(Empty)
	assert.False(t, ok)

	for _, p := range table.Patterns() {
		v, ok := table.Lookup(p)
		assert.True(t, ok)
		assert.True(t, v.Resolved(), "%s -> %v", p, v)
	}
}

func TestPatternTableLookup(t *testing.T) {
	table, err := NewPatternTable(DefaultRules())
	require.Nil(t, err)

	cases := []struct {
		In     string
		Expect Variant
	}{
		{"000100000", 5},  // filled to the left
		{"000001000", 7},  // filled to the right
		{"010000000", 1},  // filled above
		{"000000010", 11}, // filled below
		{"100000000", 3},
		{"001000000", 4},
		{"000000100", 8},
		{"000000001", 9},
		{"110100000", 0},
		{"011001000", 2},
		{"000100110", 10},
		{"000001011", 12},
	}

	for _, tt := range cases {
		p, err := ParsePattern(tt.In)
		require.Nil(t, err)

		v, ok := table.Lookup(p)

		assert.True(t, ok, tt.In)
		assert.Equal(t, tt.Expect, v, tt.In)
	}

	// filled on both sides is not covered by any rule
	p, _ := ParsePattern("000101000")
	_, ok := table.Lookup(p)
	assert.False(t, ok)
}

func TestPatternTableLaterRuleWins(t *testing.T) {
	table, err := NewPatternTable([]Rule{
		{"100000000", 3},
		{"1*0000000", 5},
	})
	require.Nil(t, err)

	assert.Equal(t, 2, table.Len())

	p, _ := ParsePattern("100000000")
	v, ok := table.Lookup(p)
	assert.True(t, ok)
	assert.Equal(t, Variant(5), v)

	p, _ = ParsePattern("110000000")
	v, ok = table.Lookup(p)
	assert.True(t, ok)
	assert.Equal(t, Variant(5), v)

	assert.Equal(t, "100000000=5\n110000000=5", table.String())
}

func TestPatternTableInvalidRules(t *testing.T) {
	cases := []Rule{
		{"100000000", Filled},
		{"100000000", Default},
		{"100000000", -1},
		{"100000000", 14},
		{"10000000", 3},
		{"10000000x", 3},
		{"*********", 3},
		{"000000000", 3},
	}

	for _, r := range cases {
		_, err := NewPatternTable([]Rule{r})
		assert.True(t, errors.Is(err, ErrInvalidRule), "%+v", r)
	}
}
