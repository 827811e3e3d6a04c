package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/keytravel/internal/model"
	"github.com/verte-zerg/keytravel/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "keytravel.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).UTC().Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		run := model.RunRecord{
			StartedAt: start,
			EndedAt:   end,
			Layout:    "qwerty",
			Strategy:  "two-finger",
			Source:    "stdin",
			Lines:     i + 1,
			Chars:     5 * (i + 1),
			Total:     126.33 * float64(i+1),
		}
		lines := make([]model.LineResult, 0, i+1)
		for l := 0; l <= i; l++ {
			lines = append(lines, model.LineResult{Line: l + 1, Chars: 5, Total: 126.33, PerChar: 25.27})
		}
		id, err := st.InsertRun(ctx, run, lines)
		if err != nil {
			t.Fatalf("insert run: %v", err)
		}
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.HistoryConfig{Strategy: "two-finger", Last: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(report.Runs))
	}
	if report.Runs[0].RunID != ids[1] || report.Runs[1].RunID != ids[2] {
		t.Fatalf("unexpected run ids: %+v", report.Runs)
	}
	if len(report.Latest) != 3 {
		t.Fatalf("expected 3 lines for latest run, got %d", len(report.Latest))
	}

	empty, err := BuildReport(ctx, st, model.HistoryConfig{Layout: "colemak"})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(empty.Runs) != 0 || len(empty.Latest) != 0 {
		t.Fatalf("expected empty report, got %+v", empty)
	}
}
