package stats

import (
	"context"

	"github.com/verte-zerg/keytravel/internal/model"
	"github.com/verte-zerg/keytravel/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Runs []model.RunAggregate
	// Latest holds the per-line results of the most recent run.
	Latest []model.LineResult
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	runs, err := st.ListRuns(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if len(runs) == 0 {
		return Report{}, nil
	}
	latest, err := st.ListLineResults(ctx, runs[len(runs)-1].RunID)
	if err != nil {
		return Report{}, err
	}
	return Report{Runs: runs, Latest: latest}, nil
}
