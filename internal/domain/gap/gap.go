// Package gap classifies the elapsed time between two consecutive chain hits.
package gap

import "fmt"

// Bucket is a discrete time-gap label. The zero value means "unset".
type Bucket uint8

// Buckets in ascending order of elapsed time.
const (
	Unset Bucket = iota
	UnderOneMinute
	OneToTwoMinutes
	TwoToThreeMinutes
	ThreeToFourMinutes
	FourToFiveMinutes
)

// Width is the span of a single bucket in seconds.
const Width = 60

// Limit is the first elapsed value that no longer maps to a bucket. A chain
// times out after five minutes without a hit.
const Limit = 5 * Width

// All lists the classifiable buckets in ascending order.
var All = [...]Bucket{
	UnderOneMinute,
	OneToTwoMinutes,
	TwoToThreeMinutes,
	ThreeToFourMinutes,
	FourToFiveMinutes,
}

var labels = [...]string{
	Unset:              "",
	UnderOneMinute:     "<1 minute",
	OneToTwoMinutes:    "1-2 minutes",
	TwoToThreeMinutes:  "2-3 minutes",
	ThreeToFourMinutes: "3-4 minutes",
	FourToFiveMinutes:  "4-5 minutes",
}

// String returns the bucket label, or an empty string for Unset.
func (b Bucket) String() string {
	if int(b) >= len(labels) {
		return fmt.Sprintf("bucket(%d)", uint8(b))
	}
	return labels[b]
}

// IsSet reports whether b is one of the five classifiable buckets.
func (b Bucket) IsSet() bool {
	return b >= UnderOneMinute && b <= FourToFiveMinutes
}

// Index returns the zero-based position of b in All, or -1 for Unset.
func (b Bucket) Index() int {
	if !b.IsSet() {
		return -1
	}
	return int(b) - 1
}

// Classify maps elapsed seconds to a bucket. Bounds are half-open with an
// inclusive lower bound, so exactly 60 seconds is OneToTwoMinutes.
// Negative values and values of Limit or more return ErrOutOfRange.
func Classify(seconds int64) (Bucket, error) {
	if seconds < 0 || seconds >= Limit {
		return Unset, fmt.Errorf("%w: %ds", ErrOutOfRange, seconds)
	}
	return All[seconds/Width], nil
}

// Parse returns the bucket for a label produced by String.
func Parse(label string) (Bucket, error) {
	for _, b := range All {
		if labels[b] == label {
			return b, nil
		}
	}
	if label == "" {
		return Unset, nil
	}
	return Unset, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
}
