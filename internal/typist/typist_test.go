package typist

import (
	"errors"
	"testing"

	"github.com/verte-zerg/keytravel/internal/keyboard"
)

func TestClean(t *testing.T) {
	cases := map[string]string{
		"Hello, World! 123": "helloworld",
		"":                  "",
		"  \t\n":            "",
		"ÀBC-déf":           "bcdf",
		"The quick brown":   "thequickbrown",
	}
	for in, want := range cases {
		if got := string(Clean(in)); got != want {
			t.Fatalf("Clean(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestPerCharacter(t *testing.T) {
	got, err := PerCharacter(126.33, 5)
	if err != nil {
		t.Fatalf("per character: %v", err)
	}
	if got != 25.27 {
		t.Fatalf("expected 25.27, got %v", got)
	}
	if got, _ := PerCharacter(147.95, 2); got != 73.98 {
		t.Fatalf("expected 73.98, got %v", got)
	}
	if _, err := PerCharacter(10, 0); !errors.Is(err, ErrEmptyLineDivision) {
		t.Fatalf("expected ErrEmptyLineDivision, got %v", err)
	}
}

func TestParseStrategy(t *testing.T) {
	cases := map[string]Strategy{
		"1":          OneFingerStrategy,
		"one":        OneFingerStrategy,
		"One-Finger": OneFingerStrategy,
		"2":          TwoFingerStrategy,
		"two-finger": TwoFingerStrategy,
		"":           TwoFingerStrategy,
	}
	for in, want := range cases {
		got, err := ParseStrategy(in)
		if err != nil {
			t.Fatalf("ParseStrategy(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseStrategy(%q): expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParseStrategy("three"); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestNewSelectsStrategy(t *testing.T) {
	oracle := keyboard.NewOracle(nil)
	for _, s := range []Strategy{OneFingerStrategy, TwoFingerStrategy} {
		ty, err := New(s, oracle, Options{})
		if err != nil {
			t.Fatalf("new %s: %v", s, err)
		}
		if ty.Strategy() != s {
			t.Fatalf("expected %s, got %s", s, ty.Strategy())
		}
	}
	if _, err := New("pinky", oracle, Options{}); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestStartKeysValidated(t *testing.T) {
	var unknown *keyboard.UnknownKeyError
	if _, err := NewOneFinger(nil, Options{Start: "1"}); !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownKeyError, got %v", err)
	}
	if _, err := NewTwoFinger(nil, Options{Start: "f"}); err == nil {
		t.Fatalf("expected error for a single two-finger start key")
	}
	if _, err := NewTwoFinger(nil, Options{Start: "DK"}); err != nil {
		t.Fatalf("expected uppercase start keys to be accepted: %v", err)
	}
}

func TestUnknownKeyOnSmallLayout(t *testing.T) {
	small, err := keyboard.NewLayout("small", []string{"abcdefghij"}, nil)
	if err != nil {
		t.Fatalf("new layout: %v", err)
	}
	ty, err := NewOneFinger(keyboard.NewOracle(small), Options{Start: "a"})
	if err != nil {
		t.Fatalf("new typist: %v", err)
	}
	var unknown *keyboard.UnknownKeyError
	if _, err := ty.Distance("abz"); !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownKeyError, got %v", err)
	}
}
