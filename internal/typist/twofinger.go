package typist

import "github.com/verte-zerg/keytravel/internal/keyboard"

const defaultTwoFingerStart = "fj"

// TwoFinger types with two fingers, each key struck by whichever finger is
// currently closer. The choice is greedy: only current positions count.
type TwoFinger struct {
	oracle *keyboard.Oracle
	homes  [2]rune
	onsite bool
}

// NewTwoFinger returns a two-finger typist resting on "f" and "j" unless opts.Start is set.
func NewTwoFinger(oracle *keyboard.Oracle, opts Options) (*TwoFinger, error) {
	if oracle == nil {
		oracle = keyboard.NewOracle(nil)
	}
	keys, err := startKeys(oracle.Layout(), opts.Start, defaultTwoFingerStart, 2)
	if err != nil {
		return nil, err
	}
	return &TwoFinger{oracle: oracle, homes: [2]rune{keys[0], keys[1]}, onsite: opts.Onsite}, nil
}

// Strategy implements Typist.
func (t *TwoFinger) Strategy() Strategy {
	return TwoFingerStrategy
}

// Assign picks the finger that strikes key. Finger 0 is chosen only when it
// is strictly closer; ties go to finger 1.
func (t *TwoFinger) Assign(key rune, position [2]rune) (int, error) {
	d0, err := t.oracle.Distance(position[0], key)
	if err != nil {
		return 0, err
	}
	d1, err := t.oracle.Distance(position[1], key)
	if err != nil {
		return 0, err
	}
	if d0-d1 < 0 {
		return 0, nil
	}
	return 1, nil
}

// Distance implements Typist.
func (t *TwoFinger) Distance(text string) (float64, error) {
	strokes, err := t.Trace(text)
	if err != nil {
		return 0, err
	}
	return sumStrokes(strokes), nil
}

// Trace implements Typist.
func (t *TwoFinger) Trace(text string) ([]Stroke, error) {
	strokes, _, err := t.trace(text)
	return strokes, err
}

// Fingers implements Typist.
func (t *TwoFinger) Fingers(text string) ([]rune, error) {
	_, position, err := t.trace(text)
	if err != nil {
		return nil, err
	}
	return position[:], nil
}

func (t *TwoFinger) trace(text string) ([]Stroke, [2]rune, error) {
	keys := Clean(text)
	position := t.homes
	initial := [2]bool{true, true}
	strokes := make([]Stroke, 0, len(keys))
	for _, key := range keys {
		f, err := t.Assign(key, position)
		if err != nil {
			return nil, position, err
		}
		stroke := Stroke{Key: key, Finger: f}
		if !(t.onsite && initial[f]) {
			d, err := t.oracle.Distance(position[f], key)
			if err != nil {
				return nil, position, err
			}
			stroke.Cost = d
		}
		initial[f] = false
		position[f] = key
		strokes = append(strokes, stroke)
	}
	return strokes, position, nil
}
