// Package keyboard models key positions on staggered keyboard layouts.
package keyboard

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Pitch is the distance between adjacent key centers in millimeters,
// both horizontally and vertically.
const Pitch = 19.05

// DefaultOffsets is the horizontal stagger of each row, in pitch units.
var DefaultOffsets = []float64{0.0, 0.25, 0.75}

// Point is a key center. Lower rows have decreasing Y.
type Point struct {
	X float64
	Y float64
}

type position struct {
	row int
	col int
	pt  Point
}

// Layout is an immutable named arrangement of keys into rows.
type Layout struct {
	name    string
	rows    [][]rune
	offsets []float64
	keys    map[rune]position
}

// NewLayout validates rows and precomputes every key coordinate.
// A nil offsets slice selects DefaultOffsets.
func NewLayout(name string, rows []string, offsets []float64) (*Layout, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("%w: name is empty", ErrInvalidLayout)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no rows", ErrInvalidLayout, name)
	}
	if offsets == nil {
		offsets = DefaultOffsets
	}
	if len(rows) > len(offsets) {
		return nil, fmt.Errorf("%w: %s has %d rows but only %d row offsets", ErrInvalidLayout, name, len(rows), len(offsets))
	}

	l := &Layout{
		name:    name,
		rows:    make([][]rune, 0, len(rows)),
		offsets: append([]float64(nil), offsets[:len(rows)]...),
		keys:    make(map[rune]position),
	}
	for r, row := range rows {
		if row == "" {
			return nil, fmt.Errorf("%w: %s row %d is empty", ErrInvalidLayout, name, r)
		}
		if !utf8.ValidString(row) {
			return nil, fmt.Errorf("%w: %s row %d is not valid UTF-8", ErrInvalidLayout, name, r)
		}
		keys := []rune(row)
		for c, key := range keys {
			if prev, ok := l.keys[key]; ok {
				return nil, fmt.Errorf("%w: %s key %q appears in rows %d and %d", ErrInvalidLayout, name, key, prev.row, r)
			}
			l.keys[key] = position{
				row: r,
				col: c,
				pt: Point{
					X: Pitch * (l.offsets[r] + float64(c)),
					Y: Pitch * (-1.0 * float64(r)),
				},
			}
		}
		l.rows = append(l.rows, keys)
	}
	return l, nil
}

// Qwerty returns the built-in qwerty layout.
func Qwerty() *Layout {
	l, err := NewLayout("qwerty", []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"}, nil)
	if err != nil {
		panic(err)
	}
	return l
}

// Name returns the layout name.
func (l *Layout) Name() string {
	return l.name
}

// Rows returns a copy of the key rows, top to bottom.
func (l *Layout) Rows() []string {
	out := make([]string, len(l.rows))
	for i, row := range l.rows {
		out[i] = string(row)
	}
	return out
}

// Keys returns every key in row order.
func (l *Layout) Keys() []rune {
	out := make([]rune, 0, len(l.keys))
	for _, row := range l.rows {
		out = append(out, row...)
	}
	return out
}

// Has reports whether key is on the layout.
func (l *Layout) Has(key rune) bool {
	_, ok := l.keys[key]
	return ok
}

// Coordinate returns the center of key.
func (l *Layout) Coordinate(key rune) (Point, error) {
	pos, ok := l.keys[key]
	if !ok {
		return Point{}, &UnknownKeyError{Key: key, Layout: l.name}
	}
	return pos.pt, nil
}

// RowIndex returns the zero-based row of key.
func (l *Layout) RowIndex(key rune) (int, error) {
	pos, ok := l.keys[key]
	if !ok {
		return 0, &UnknownKeyError{Key: key, Layout: l.name}
	}
	return pos.row, nil
}
