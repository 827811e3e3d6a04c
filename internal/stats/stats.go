// Package stats contains travel statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/keytravel/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
)

// RunMetrics computes average travel per character and per line for a run.
func RunMetrics(run model.RunAggregate) (perChar, perLine float64) {
	if run.Chars > 0 {
		perChar = run.Total / float64(run.Chars)
	}
	if run.Lines > 0 {
		perLine = run.Total / float64(run.Lines)
	}
	return perChar, perLine
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Downsample averages values into at most width buckets.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary of the runs.
func RenderSummary(w io.Writer, runs []model.RunAggregate) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	var total float64
	var chars, lines int
	best := math.Inf(1)
	for _, r := range runs {
		total += r.Total
		chars += r.Chars
		lines += r.Lines
		if perChar, _ := RunMetrics(r); r.Chars > 0 && perChar < best {
			best = perChar
		}
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Runs: %d\n", len(runs)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Lines: %d\n", lines); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Characters: %d\n", chars); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total travel: %.2f mm (%.2f m)\n", total, total/1000); err != nil {
		return err
	}
	if chars > 0 {
		if _, err := fmt.Fprintf(w, "Avg travel: %.2f mm/character\n", total/float64(chars)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Best run: %.2f mm/character\n", best); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderRunTable prints one row per run.
func RenderRunTable(w io.Writer, runs []model.RunAggregate) error {
	if len(runs) == 0 {
		return nil
	}
	runTable := newTable(
		column{title: "Run", numeric: true},
		column{title: "Ended"},
		column{title: "Layout"},
		column{title: "Strategy"},
		column{title: "Lines", numeric: true},
		column{title: "Chars", numeric: true},
		column{title: "Travel (mm)", numeric: true},
		column{title: "mm/char", numeric: true},
	)
	for _, r := range runs {
		perChar, _ := RunMetrics(r)
		strategy := r.Strategy
		if r.Onsite {
			strategy += " (onsite)"
		}
		runTable.addRow(
			fmt.Sprintf("%d", r.RunID),
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			r.Layout,
			strategy,
			fmt.Sprintf("%d", r.Lines),
			fmt.Sprintf("%d", r.Chars),
			fmt.Sprintf("%.2f", r.Total),
			fmt.Sprintf("%.2f", perChar),
		)
	}
	if _, err := fmt.Fprintln(w, "Runs"); err != nil {
		return err
	}
	if err := runTable.render(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderTrend prints a sparkline of mm/character across runs, smoothed over window
// runs and fitted to width columns. A width of 0 uses the terminal width.
func RenderTrend(w io.Writer, runs []model.RunAggregate, window, width int) error {
	if len(runs) < 2 {
		return nil
	}
	values := make([]float64, len(runs))
	for i, r := range runs {
		values[i], _ = RunMetrics(r)
	}
	values = MovingAverage(values, window)
	if width <= 0 {
		width = terminalWidth() - len("mm/char ")
	}
	values = Downsample(values, width)
	if _, err := fmt.Fprintln(w, "Trend"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "mm/char %s\n", Sparkline(values)); err != nil {
		return err
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
