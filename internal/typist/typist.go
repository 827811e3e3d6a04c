// Package typist estimates finger travel for typing text with different strategies.
package typist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/keytravel/internal/keyboard"
)

// ErrEmptyLineDivision is returned when a per-character average is requested
// for a line with no typeable characters.
var ErrEmptyLineDivision = errors.New("per-character travel of an empty line")

// Strategy names a typing strategy.
type Strategy string

// Supported strategies.
const (
	OneFingerStrategy Strategy = "one-finger"
	TwoFingerStrategy Strategy = "two-finger"
)

// Stroke is a single keystroke of a trace.
type Stroke struct {
	Key    rune
	Finger int
	Cost   float64
}

// Typist estimates the travel distance of typing text.
type Typist interface {
	Strategy() Strategy
	// Distance returns the total travel in millimeters, rounded to 2 decimals.
	Distance(text string) (float64, error)
	// Trace returns every keystroke with the finger used and the travel charged.
	Trace(text string) ([]Stroke, error)
	// Fingers returns the key each finger rests on after typing text.
	Fingers(text string) ([]rune, error)
}

// Options configures a typist. Options are fixed at construction.
type Options struct {
	// Onsite starts each finger on the first key it types, at no cost.
	Onsite bool
	// Start overrides the strategy's home keys, one key per finger.
	Start string
}

// ParseStrategy maps user input to a strategy.
func ParseStrategy(value string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "one", "one-finger":
		return OneFingerStrategy, nil
	case "2", "two", "two-finger", "":
		return TwoFingerStrategy, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (expected one-finger or two-finger)", value)
	}
}

// New constructs the typist for strategy. A nil oracle measures on qwerty.
func New(strategy Strategy, oracle *keyboard.Oracle, opts Options) (Typist, error) {
	switch strategy {
	case OneFingerStrategy:
		return NewOneFinger(oracle, opts)
	case TwoFingerStrategy:
		return NewTwoFinger(oracle, opts)
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}

// Clean lowercases line and keeps only the letters a-z.
func Clean(line string) []rune {
	out := make([]rune, 0, len(line))
	for _, r := range strings.ToLower(line) {
		if r >= 'a' && r <= 'z' {
			out = append(out, r)
		}
	}
	return out
}

// PerCharacter returns total divided by chars, rounded to 2 decimals.
func PerCharacter(total float64, chars int) (float64, error) {
	if chars <= 0 {
		return 0, ErrEmptyLineDivision
	}
	return keyboard.Round2(total / float64(chars)), nil
}

func startKeys(layout *keyboard.Layout, start, fallback string, fingers int) ([]rune, error) {
	if start == "" {
		start = fallback
	}
	keys := []rune(strings.ToLower(start))
	if len(keys) != fingers {
		return nil, fmt.Errorf("expected %d start key(s), got %q", fingers, start)
	}
	for _, k := range keys {
		if !layout.Has(k) {
			return nil, &keyboard.UnknownKeyError{Key: k, Layout: layout.Name()}
		}
	}
	return keys, nil
}

func sumStrokes(strokes []Stroke) float64 {
	var total float64
	for _, s := range strokes {
		total += s.Cost
	}
	return keyboard.Round2(total)
}
