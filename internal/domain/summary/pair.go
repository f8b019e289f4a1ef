package summary

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxSub is the largest sub-count the pair encoding carries unambiguously.
const MaxSub = 999

// Pair is a hit count with an embedded count of hits on the opposing faction.
type Pair struct {
	Total int
	Sub   int
}

// String packs the pair as "{total}.{sub:03d}", e.g. 7 and 2 as "7.002".
// Sub-counts above MaxSub still render, but no longer round-trip.
func (p Pair) String() string {
	return fmt.Sprintf("%d.%03d", p.Total, p.Sub)
}

// Add returns the element-wise sum of two pairs.
func (p Pair) Add(o Pair) Pair {
	return Pair{Total: p.Total + o.Total, Sub: p.Sub + o.Sub}
}

// ParsePair reverses Pair.String. The fractional part must be exactly three
// digits and both parts non-negative integers.
func ParsePair(s string) (Pair, error) {
	whole, frac, ok := strings.Cut(s, ".")
	if !ok || len(frac) != 3 || !digits(whole) || !digits(frac) {
		return Pair{}, fmt.Errorf("%w: %q", ErrInvalidPair, s)
	}
	total, err := strconv.Atoi(whole)
	if err != nil {
		return Pair{}, fmt.Errorf("%w: %q: %w", ErrInvalidPair, s, err)
	}
	sub, _ := strconv.Atoi(frac)
	return Pair{Total: total, Sub: sub}, nil
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
