package autotile

import (
	"fmt"
	"strings"
)

const (
	// neighbourhood is the number of cells in a 3x3 window
	neighbourhood = 9

	// numPatterns is every possible 3x3 occupancy
	numPatterns = 1 << neighbourhood

	wildcard = '*'
)

// Pattern is the occupancy of a 3x3 window as a 9 bit integer.
// The bits are read row major from the top left cell, the top left cell
// being the most significant bit; so "100000000" is 1<<8 and the
// center cell is 1<<4.
type Pattern uint16

// Empty is the pattern of a window with nothing filled in it.
const Empty Pattern = 0

// ParsePattern reads a 9 character bitstring of '0' and '1'.
func ParsePattern(s string) (Pattern, error) {
	if len(s) != neighbourhood {
		return 0, fmt.Errorf("pattern %q must be %d characters", s, neighbourhood)
	}

	var p Pattern
	for i := 0; i < len(s); i++ {
		p <<= 1
		switch s[i] {
		case '1':
			p |= 1
		case '0':
		default:
			return 0, fmt.Errorf("pattern %q has invalid character %q", s, s[i])
		}
	}
	return p, nil
}

// String returns the pattern as a 9 character bitstring.
func (p Pattern) String() string {
	b := make([]byte, neighbourhood)
	for i := range b {
		if p&(1<<(neighbourhood-1-i)) != 0 {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

// Rule maps every bitstring matching Template to Variant.
// A template is 9 characters of '0', '1' or '*' (either).
type Rule struct {
	Template string  `yaml:"template" json:"template"`
	Variant  Variant `yaml:"variant" json:"variant"`
}

// DefaultRules returns the rule set for a 5x3 sheet laid out as
//
//	0  1  2  3  4
//	5  6  7  8  9
//	10 11 12 13 14
//
// where 6 is the interior / empty tile and 13 the filled tile.
func DefaultRules() []Rule {
	return []Rule{
		{"11*100*00", 0},
		{"*1*000000", 1},
		{"*1100100*", 2},
		{"100000000", 3},
		{"001000000", 4},
		{"*00100*00", 5},
		{"00*00100*", 7},
		{"000000100", 8},
		{"000000001", 9},
		{"*0010011*", 10},
		{"000000*1*", 11},
		{"00*001*11", 12},
	}
}

// Expand turns a template into every concrete bitstring it matches,
// in order. A template with k wildcards expands to 2^k strings.
func Expand(template string) ([]string, error) {
	if len(template) != neighbourhood {
		return nil, fmt.Errorf("%w: template %q must be %d characters", ErrInvalidRule, template, neighbourhood)
	}

	candidates := []string{""}
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch c {
		case '0', '1':
			for j := range candidates {
				candidates[j] += string(c)
			}
		case wildcard:
			next := make([]string, 0, len(candidates)*2)
			for _, s := range candidates {
				next = append(next, s+"0", s+"1")
			}
			candidates = next
		default:
			return nil, fmt.Errorf("%w: template %q has invalid character %q", ErrInvalidRule, template, c)
		}
	}

	return candidates, nil
}

// PatternTable maps occupancy patterns to the variant a cell should show.
// It is immutable once built.
type PatternTable struct {
	variants [numPatterns]Variant
	mapped   [numPatterns]bool
	size     int
}

// NewPatternTable builds a table from the given rules. Where the expansions
// of two rules collide the later rule wins.
func NewPatternTable(rules []Rule) (*PatternTable, error) {
	t := &PatternTable{}

	for _, r := range rules {
		if !r.Variant.Resolved() {
			return nil, fmt.Errorf("%w: template %q targets %v", ErrInvalidRule, r.Template, r.Variant)
		}

		concrete, err := Expand(r.Template)
		if err != nil {
			return nil, err
		}

		for _, s := range concrete {
			p, err := ParsePattern(s)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
			}
			if p == Empty {
				// an all empty window means "nothing here", see Engine.resolve
				return nil, fmt.Errorf("%w: template %q matches the empty pattern", ErrInvalidRule, r.Template)
			}
			if !t.mapped[p] {
				t.size++
			}
			t.variants[p] = r.Variant
			t.mapped[p] = true
		}
	}

	return t, nil
}

// Lookup returns the variant for the given pattern, if any rule matched it.
func (t *PatternTable) Lookup(p Pattern) (Variant, bool) {
	if int(p) >= numPatterns {
		return 0, false
	}
	return t.variants[p], t.mapped[p]
}

// Len returns the number of mapped patterns.
func (t *PatternTable) Len() int {
	return t.size
}

// Patterns returns every mapped pattern, ascending.
func (t *PatternTable) Patterns() []Pattern {
	out := make([]Pattern, 0, t.size)
	for i, ok := range t.mapped {
		if ok {
			out = append(out, Pattern(i))
		}
	}
	return out
}

// String dumps the table one "bitstring=variant" per line; handy in tests
// and debug output.
func (t *PatternTable) String() string {
	lines := []string{}
	for _, p := range t.Patterns() {
		lines = append(lines, fmt.Sprintf("%s=%d", p, t.variants[p]))
	}
	return strings.Join(lines, "\n")
}
