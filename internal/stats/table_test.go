package stats

import (
	"bytes"
	"testing"
)

func TestTableAlignsNumericColumns(t *testing.T) {
	tbl := newTable(
		column{title: "Line", numeric: true},
		column{title: "Travel", numeric: true},
		column{title: "mm/char", numeric: true},
	)
	tbl.addRow("1", "126.33", "25.27")
	tbl.addRow("12", "0.00", "0.00")

	lines := tbl.lines()
	want := []string{
		"Line  Travel  mm/char",
		"   1  126.33    25.27",
		"  12    0.00     0.00",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestTableWideRunesAndShortRows(t *testing.T) {
	tbl := newTable(column{title: "Name"}, column{title: "Layout"})
	tbl.addRow("日本", "qwerty")
	tbl.addRow("ab")

	var buf bytes.Buffer
	if err := tbl.render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "Name  Layout\n日本  qwerty\nab\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}
