// Package measure drives typists over input text line by line.
package measure

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/keytravel/internal/keyboard"
	"github.com/verte-zerg/keytravel/internal/model"
	"github.com/verte-zerg/keytravel/internal/typist"
)

const linesPerJob = 64

// Totals accumulates results over a run.
type Totals struct {
	Lines int
	Chars int
	Total float64
}

// Runner evaluates every line of an input with a typist.
type Runner struct {
	Typist typist.Typist
	// Jobs is the number of lines evaluated concurrently. Values below 2 run sequentially.
	Jobs   int
	Logger *slog.Logger
}

// Run reads in line by line and calls emit with each result, in input order.
// The returned total is rounded to 2 decimals.
func (r *Runner) Run(ctx context.Context, in io.Reader, emit func(model.LineResult) error) (Totals, error) {
	if r.Typist == nil {
		return Totals{}, errors.New("runner has no typist")
	}
	reader := bufio.NewReader(in)

	var totals Totals
	accept := func(res model.LineResult) error {
		totals.Lines++
		totals.Chars += res.Chars
		totals.Total += res.Total
		return emit(res)
	}

	batchSize := 1
	if r.Jobs > 1 {
		batchSize = r.Jobs * linesPerJob
	}
	batch := make([]string, 0, batchSize)
	lineNo := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		first := lineNo - len(batch) + 1
		results, err := r.evaluateBatch(ctx, first, batch)
		batch = batch[:0]
		if err != nil {
			return err
		}
		for _, res := range results {
			if err := accept(res); err != nil {
				return err
			}
		}
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return totals, err
		}
		text, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return totals, fmt.Errorf("failed to read line %d: %w", lineNo+1, err)
		}
		if text == "" && err != nil {
			break
		}
		lineNo++
		batch = append(batch, trimEOL(text))
		if len(batch) == batchSize {
			if ferr := flush(); ferr != nil {
				return totals, ferr
			}
		}
		if err != nil {
			break
		}
	}
	if err := flush(); err != nil {
		return totals, err
	}
	totals.Total = keyboard.Round2(totals.Total)
	return totals, nil
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

func (r *Runner) evaluateBatch(ctx context.Context, first int, lines []string) ([]model.LineResult, error) {
	results := make([]model.LineResult, len(lines))
	if len(lines) == 1 {
		res, err := r.Evaluate(first, lines[0])
		if err != nil {
			return nil, err
		}
		results[0] = res
		return results, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Jobs)
	for i, line := range lines {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.Evaluate(first+i, line)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Evaluate measures a single line. An empty line travels 0 mm at 0 mm/character.
func (r *Runner) Evaluate(lineNo int, text string) (model.LineResult, error) {
	total, err := r.Typist.Distance(text)
	if err != nil {
		return model.LineResult{}, fmt.Errorf("line %d: %w", lineNo, err)
	}
	chars := len(typist.Clean(text))
	perChar, err := typist.PerCharacter(total, chars)
	if errors.Is(err, typist.ErrEmptyLineDivision) {
		r.logger().Debug("no typeable characters", "line", lineNo)
		perChar = 0
	} else if err != nil {
		return model.LineResult{}, fmt.Errorf("line %d: %w", lineNo, err)
	}
	return model.LineResult{Line: lineNo, Chars: chars, Total: total, PerChar: perChar}, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}
