package measure

import (
	"fmt"
	"io"

	"github.com/verte-zerg/keytravel/internal/model"
)

// Reporter writes per-line and final results.
type Reporter struct {
	Out io.Writer
	// Quiet suppresses the per-line travel on Out.
	Quiet bool
	// Records receives a tab-separated total and per-character travel per line, when set.
	Records io.Writer
}

// Line reports a single line result.
func (rp *Reporter) Line(res model.LineResult) error {
	if !rp.Quiet {
		if _, err := fmt.Fprintf(rp.Out, "Travel: %.2f mm or %.2f mm/character\n", res.Total, res.PerChar); err != nil {
			return err
		}
	}
	if rp.Records != nil {
		if _, err := fmt.Fprintf(rp.Records, "%.2f\t%.2f\n", res.Total, res.PerChar); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	return nil
}

// Total reports the accumulated travel.
func (rp *Reporter) Total(t Totals) error {
	_, err := fmt.Fprintf(rp.Out, "Total travel: %.2f mm\n", t.Total)
	return err
}
