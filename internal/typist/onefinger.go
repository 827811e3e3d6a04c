package typist

import "github.com/verte-zerg/keytravel/internal/keyboard"

const defaultOneFingerStart = "h"

// OneFinger types every key with a single finger, in order.
type OneFinger struct {
	oracle *keyboard.Oracle
	start  rune
	onsite bool
}

// NewOneFinger returns a single-finger typist starting at "h" unless opts.Start is set.
func NewOneFinger(oracle *keyboard.Oracle, opts Options) (*OneFinger, error) {
	if oracle == nil {
		oracle = keyboard.NewOracle(nil)
	}
	keys, err := startKeys(oracle.Layout(), opts.Start, defaultOneFingerStart, 1)
	if err != nil {
		return nil, err
	}
	return &OneFinger{oracle: oracle, start: keys[0], onsite: opts.Onsite}, nil
}

// Strategy implements Typist.
func (t *OneFinger) Strategy() Strategy {
	return OneFingerStrategy
}

// Distance implements Typist.
func (t *OneFinger) Distance(text string) (float64, error) {
	strokes, err := t.Trace(text)
	if err != nil {
		return 0, err
	}
	return sumStrokes(strokes), nil
}

// Trace implements Typist. In onsite mode the first key costs nothing.
func (t *OneFinger) Trace(text string) ([]Stroke, error) {
	keys := Clean(text)
	strokes := make([]Stroke, 0, len(keys))
	prev := t.start
	for i, key := range keys {
		if i == 0 && t.onsite {
			strokes = append(strokes, Stroke{Key: key})
			prev = key
			continue
		}
		d, err := t.oracle.Distance(prev, key)
		if err != nil {
			return nil, err
		}
		strokes = append(strokes, Stroke{Key: key, Cost: d})
		prev = key
	}
	return strokes, nil
}

// Fingers implements Typist.
func (t *OneFinger) Fingers(text string) ([]rune, error) {
	strokes, err := t.Trace(text)
	if err != nil {
		return nil, err
	}
	if len(strokes) == 0 {
		return []rune{t.start}, nil
	}
	return []rune{strokes[len(strokes)-1].Key}, nil
}
