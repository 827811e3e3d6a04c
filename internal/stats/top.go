package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/verte-zerg/keytravel/internal/model"
)

// TopLinesByTravel returns the n lines with the most travel, longest first.
func TopLinesByTravel(lines []model.LineResult, n int) []model.LineResult {
	if n <= 0 || len(lines) == 0 {
		return nil
	}
	items := make([]model.LineResult, len(lines))
	copy(items, lines)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Total == items[j].Total {
			return items[i].Line < items[j].Line
		}
		return items[i].Total > items[j].Total
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

// RenderTopLines prints the lines of a run with the most travel.
func RenderTopLines(w io.Writer, lines []model.LineResult, n int) error {
	top := TopLinesByTravel(lines, n)
	if len(top) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Longest Lines (Latest Run)"); err != nil {
		return err
	}
	lineTable := newTable(
		column{title: "Line", numeric: true},
		column{title: "Chars", numeric: true},
		column{title: "Travel (mm)", numeric: true},
		column{title: "mm/char", numeric: true},
	)
	for _, lr := range top {
		lineTable.addRow(
			fmt.Sprintf("%d", lr.Line),
			fmt.Sprintf("%d", lr.Chars),
			fmt.Sprintf("%.2f", lr.Total),
			fmt.Sprintf("%.2f", lr.PerChar),
		)
	}
	if err := lineTable.render(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
