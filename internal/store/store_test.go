package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/keytravel/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "keytravel.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []int64
	for i := 0; i < 3; i++ {
		strategy := "two-finger"
		if i == 1 {
			strategy = "one-finger"
		}
		run := model.RunRecord{
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			EndedAt:   base.Add(time.Duration(i)*time.Hour + time.Second),
			Layout:    "qwerty",
			Strategy:  strategy,
			Onsite:    i == 2,
			Source:    "stdin",
			Lines:     2,
			Chars:     5,
			Total:     126.33,
		}
		lines := []model.LineResult{
			{Line: 1, Chars: 5, Total: 126.33, PerChar: 25.27},
			{Line: 2},
		}
		id, err := st.InsertRun(ctx, run, lines)
		if err != nil {
			t.Fatalf("insert run: %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := st.ListRuns(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].RunID != ids[0] || !runs[2].Onsite || runs[1].Onsite {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	twoFinger, err := st.ListRuns(ctx, model.HistoryConfig{Strategy: "two-finger", Layout: "QWERTY"})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(twoFinger) != 2 {
		t.Fatalf("expected 2 two-finger runs, got %d", len(twoFinger))
	}

	since := base.Add(90 * time.Minute)
	recent, err := st.ListRuns(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(recent) != 1 || recent[0].RunID != ids[2] {
		t.Fatalf("unexpected runs since %s: %+v", since, recent)
	}

	last, err := st.ListRuns(ctx, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(last) != 2 || last[0].RunID != ids[1] {
		t.Fatalf("unexpected last runs: %+v", last)
	}

	lines, err := st.ListLineResults(ctx, ids[0])
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}
	if len(lines) != 2 || lines[0].PerChar != 25.27 || lines[1].Chars != 0 {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestInsertRunWithoutLines(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	id, err := st.InsertRun(ctx, model.RunRecord{StartedAt: now, EndedAt: now, Layout: "qwerty", Strategy: "one-finger"}, nil)
	if err != nil {
		t.Fatalf("insert run: %v", err)
	}
	lines, err := st.ListLineResults(ctx, id)
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(lines))
	}
}

func TestListRunsOrdersAcrossZones(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	summer := time.FixedZone("CEST", 2*60*60)
	winter := time.FixedZone("CET", 60*60)
	ended := []time.Time{
		time.Date(2024, 10, 27, 1, 30, 0, 0, summer),
		time.Date(2024, 10, 27, 1, 10, 0, 0, winter),
		time.Date(2024, 10, 27, 0, 10, 0, 500_000_000, time.UTC),
		time.Date(2024, 10, 27, 0, 10, 1, 0, time.UTC),
	}
	// Insert newest first so ids do not decide the order.
	for i := len(ended) - 1; i >= 0; i-- {
		run := model.RunRecord{StartedAt: ended[i], EndedAt: ended[i], Layout: "qwerty", Strategy: "two-finger", Lines: i}
		if _, err := st.InsertRun(ctx, run, nil); err != nil {
			t.Fatalf("insert run: %v", err)
		}
	}

	runs, err := st.ListRuns(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != len(ended) {
		t.Fatalf("expected %d runs, got %d", len(ended), len(runs))
	}
	for i, run := range runs {
		if run.Lines != i || !run.EndedAt.Equal(ended[i]) {
			t.Fatalf("run %d: expected end %s, got lines %d ended %s", i, ended[i], run.Lines, run.EndedAt)
		}
	}

	since := time.Date(2024, 10, 27, 1, 5, 0, 0, winter)
	recent, err := st.ListRuns(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(recent) != 3 || recent[0].Lines != 1 {
		t.Fatalf("unexpected runs since %s: %+v", since, recent)
	}
}
