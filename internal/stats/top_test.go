package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/keytravel/internal/model"
)

func TestTopLinesByTravel(t *testing.T) {
	lines := []model.LineResult{
		{Line: 1, Total: 10},
		{Line: 2, Total: 30},
		{Line: 3, Total: 10},
		{Line: 4, Total: 5},
	}
	top := TopLinesByTravel(lines, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(top))
	}
	if top[0].Line != 2 || top[1].Line != 1 || top[2].Line != 3 {
		t.Fatalf("unexpected order: %+v", top)
	}
	if lines[0].Line != 1 || lines[1].Line != 2 {
		t.Fatalf("input must not be reordered: %+v", lines)
	}
	if got := TopLinesByTravel(lines, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %+v", got)
	}
}

func TestRenderTopLines(t *testing.T) {
	var buf bytes.Buffer
	err := RenderTopLines(&buf, []model.LineResult{{Line: 7, Chars: 5, Total: 126.33, PerChar: 25.27}}, 5)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Longest Lines") || !strings.Contains(out, "126.33") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
