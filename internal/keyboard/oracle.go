package keyboard

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

type pair struct {
	a rune
	b rune
}

func canonicalPair(a, b rune) pair {
	if b < a {
		a, b = b, a
	}
	return pair{a: a, b: b}
}

// Oracle computes memoized key-to-key distances on a layout.
// It is safe for concurrent use.
type Oracle struct {
	layout *Layout
	cache  *lru.Cache[pair, float64]
}

// NewOracle returns an oracle for layout, or for qwerty when layout is nil.
func NewOracle(layout *Layout) *Oracle {
	if layout == nil {
		layout = Qwerty()
	}
	n := len(layout.keys)
	// Room for every unordered pair, so nothing is ever evicted.
	cache, err := lru.New[pair, float64](n*(n+1)/2 + 1)
	if err != nil {
		panic(err)
	}
	return &Oracle{layout: layout, cache: cache}
}

// Layout returns the layout the oracle measures on.
func (o *Oracle) Layout() *Layout {
	return o.layout
}

// Distance returns the Euclidean distance between a and b in millimeters,
// rounded to 2 decimal places.
func (o *Oracle) Distance(a, b rune) (float64, error) {
	key := canonicalPair(a, b)
	if d, ok := o.cache.Get(key); ok {
		return d, nil
	}
	pa, err := o.layout.Coordinate(a)
	if err != nil {
		return 0, err
	}
	pb, err := o.layout.Coordinate(b)
	if err != nil {
		return 0, err
	}
	d := Round2(math.Hypot(pa.X-pb.X, pa.Y-pb.Y))
	o.cache.Add(key, d)
	return d, nil
}

// Cached returns the number of memoized pairs.
func (o *Oracle) Cached() int {
	return o.cache.Len()
}

// Reset drops all memoized distances.
func (o *Oracle) Reset() {
	o.cache.Purge()
}

// Round2 rounds v to 2 decimal places, halves away from zero.
// A value whose nearest float lies just below a decimal half, such as
// 147.95/2, still rounds up.
func Round2(v float64) float64 {
	f := math.Round(v * 100)
	switch {
	case v > 0 && (f+0.5)/100 <= v:
		f++
	case v < 0 && (f-0.5)/100 >= v:
		f--
	}
	return f / 100
}
