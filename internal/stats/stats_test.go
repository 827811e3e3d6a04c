package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/keytravel/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestDownsample(t *testing.T) {
	got := Downsample([]float64{1, 3, 5, 7, 9, 11}, 3)
	want := []float64{2, 6, 10}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if short := Downsample([]float64{1, 2}, 10); len(short) != 2 {
		t.Fatalf("expected short series unchanged, got %v", short)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}

func TestRenderHistory(t *testing.T) {
	runs := []model.RunAggregate{
		{RunID: 1, EndedAt: time.Unix(0, 0), Layout: "qwerty", Strategy: "two-finger", Lines: 2, Chars: 10, Total: 252.66},
		{RunID: 2, EndedAt: time.Unix(60, 0), Layout: "qwerty", Strategy: "one-finger", Onsite: true, Lines: 1, Chars: 5, Total: 205},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, runs); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if err := RenderRunTable(&buf, runs); err != nil {
		t.Fatalf("table: %v", err)
	}
	if err := RenderTrend(&buf, runs, 1, 20); err != nil {
		t.Fatalf("trend: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Runs: 2", "Total travel: 457.66 mm", "Best run: 25.27 mm/character", "one-finger (onsite)", "mm/char  @"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if buf.String() != "No runs found.\n" {
		t.Fatalf("unexpected empty summary %q", buf.String())
	}
}
