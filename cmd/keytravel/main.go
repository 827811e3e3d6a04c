// Package main provides the CLI entrypoint for keytravel.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/keytravel/internal/config"
	"github.com/verte-zerg/keytravel/internal/input"
	"github.com/verte-zerg/keytravel/internal/keyboard"
	"github.com/verte-zerg/keytravel/internal/measure"
	"github.com/verte-zerg/keytravel/internal/model"
	"github.com/verte-zerg/keytravel/internal/stats"
	"github.com/verte-zerg/keytravel/internal/store"
	"github.com/verte-zerg/keytravel/internal/tui"
	"github.com/verte-zerg/keytravel/internal/typist"
)

const (
	defaultLayout   = "qwerty"
	defaultStrategy = string(typist.TwoFingerStrategy)
	defaultJobs     = 1
	defaultWindow   = 5
	defaultTop      = 5
)

var (
	verbose bool

	measureLayout    string
	measureStrategy  string
	measureOnsite    bool
	measureStart     string
	measureQuiet     bool
	measureOutput    string
	measureJobs      int
	measureRecord    bool
	liveLayout       string
	liveOnsite       bool
	liveRecord       bool
	historyLayout    string
	historyStrategy  string
	historySince     string
	historyLast      int
	historyWindow    int
	historyTop       int
	layoutsShow      bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "keytravel [file...]",
		Short: "Estimate finger travel when typing text",
		Long: `Estimate the distance fingers travel when typing text, line by line.

Text is read from the given files, or from standard input.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runMeasureCmd,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug details to stderr")

	rootCmd.Flags().StringVarP(&measureLayout, "keyboard", "k", defaultLayout, "keyboard layout")
	rootCmd.Flags().StringVar(&measureStrategy, "strategy", defaultStrategy, "typing strategy: one-finger or two-finger")
	rootCmd.Flags().VarPF(&strategyShortcut{target: &measureStrategy, strategy: typist.OneFingerStrategy},
		"one-finger", "1", "typing strategy: one-finger pecker").NoOptDefVal = "true"
	rootCmd.Flags().VarPF(&strategyShortcut{target: &measureStrategy, strategy: typist.TwoFingerStrategy},
		"two-finger", "2", "typing strategy: two-finger pecker").NoOptDefVal = "true"
	rootCmd.Flags().BoolVar(&measureOnsite, "onsite", false, "start each finger on the first key it types")
	rootCmd.Flags().StringVar(&measureStart, "start", "", "start keys, one per finger (default h, or fj)")
	rootCmd.Flags().BoolVarP(&measureQuiet, "quiet", "q", false, "do not print the travel of each line")
	rootCmd.Flags().StringVarP(&measureOutput, "output", "o", "", "save total and per-character travel per line (tab-separated)")
	rootCmd.Flags().IntVarP(&measureJobs, "jobs", "j", defaultJobs, "lines measured concurrently")
	rootCmd.Flags().BoolVar(&measureRecord, "record", false, "save the run to the history database")

	rootCmd.AddCommand(newLiveCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newLayoutsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// strategyShortcut is a boolean flag that selects a strategy. It shares its
// target with --strategy, so the last strategy flag on the command line wins.
type strategyShortcut struct {
	target   *string
	strategy typist.Strategy
}

func (s *strategyShortcut) String() string {
	return strconv.FormatBool(*s.target == string(s.strategy))
}

func (s *strategyShortcut) Set(value string) error {
	on, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	if on {
		*s.target = string(s.strategy)
	}
	return nil
}

func (s *strategyShortcut) Type() string {
	return "bool"
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadFileConfig() (config.FileConfig, *keyboard.Registry, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	reg, err := fileCfg.Registry()
	if err != nil {
		return config.FileConfig{}, nil, fmt.Errorf("failed to load layouts: %w", err)
	}
	return fileCfg, reg, nil
}

func runMeasureCmd(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	fileCfg, reg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "keyboard", &measureLayout, fileCfg.Measure.Keyboard)
	if !cmd.Flags().Changed("one-finger") && !cmd.Flags().Changed("two-finger") {
		applyStringConfig(cmd, "strategy", &measureStrategy, fileCfg.Measure.Strategy)
	}
	applyBoolConfig(cmd, "onsite", &measureOnsite, fileCfg.Measure.Onsite)
	applyStringConfig(cmd, "start", &measureStart, fileCfg.Measure.Start)
	applyBoolConfig(cmd, "quiet", &measureQuiet, fileCfg.Measure.Quiet)
	applyStringConfig(cmd, "output", &measureOutput, fileCfg.Measure.Output)
	applyIntConfig(cmd, "jobs", &measureJobs, fileCfg.Measure.Jobs)
	applyBoolConfig(cmd, "record", &measureRecord, fileCfg.Measure.Record)

	cfg := model.Config{
		Layout:   measureLayout,
		Strategy: measureStrategy,
		Onsite:   measureOnsite,
		Start:    measureStart,
		Quiet:    measureQuiet,
		Output:   measureOutput,
		Jobs:     measureJobs,
		Record:   measureRecord,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	layout, err := reg.Lookup(cfg.Layout)
	if err != nil {
		return err
	}
	strategy, err := typist.ParseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}
	ty, err := typist.New(strategy, keyboard.NewOracle(layout), typist.Options{Onsite: cfg.Onsite, Start: cfg.Start})
	if err != nil {
		return fmt.Errorf("failed to set up %s typist: %w", strategy, err)
	}

	src, err := input.Open(args, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			logger.Warn("failed to close input", "err", cerr)
		}
	}()
	if len(args) == 0 && isTerminal(cmd.InOrStdin()) {
		logger.Info("reading from terminal, end input with Ctrl-D")
	}

	reporter := &measure.Reporter{Out: cmd.OutOrStdout(), Quiet: cfg.Quiet}
	var records *bufio.Writer
	if cfg.Output != "" {
		file, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil {
				logger.Warn("failed to close output file", "path", cfg.Output, "err", cerr)
			}
		}()
		records = bufio.NewWriter(file)
		reporter.Records = records
	}

	logger.Debug("measuring", "layout", layout.Name(), "strategy", strategy, "onsite", cfg.Onsite, "jobs", cfg.Jobs, "source", src.Name)
	startedAt := time.Now()
	var lines []model.LineResult
	runner := &measure.Runner{Typist: ty, Jobs: cfg.Jobs, Logger: logger}
	totals, err := runner.Run(cmd.Context(), src.Reader, func(res model.LineResult) error {
		if cfg.Record {
			lines = append(lines, res)
		}
		return reporter.Line(res)
	})
	if err != nil {
		return err
	}
	if records != nil {
		if err := records.Flush(); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	}
	if err := reporter.Total(totals); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if !cfg.Record {
		return nil
	}
	run := model.RunRecord{
		StartedAt: startedAt,
		EndedAt:   time.Now(),
		Layout:    layout.Name(),
		Strategy:  string(strategy),
		Onsite:    cfg.Onsite,
		Source:    src.Name,
		Lines:     totals.Lines,
		Chars:     totals.Chars,
		Total:     totals.Total,
	}
	return recordRuns(cmd.Context(), logger, []model.RunRecord{run}, [][]model.LineResult{lines})
}

func recordRuns(ctx context.Context, logger *slog.Logger, runs []model.RunRecord, lines [][]model.LineResult) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close db", "err", cerr)
		}
	}()
	for i, run := range runs {
		id, err := st.InsertRun(ctx, run, lines[i])
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		logger.Debug("run saved", "id", id, "strategy", run.Strategy, "lines", run.Lines)
	}
	return nil
}

func newLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "Type text and watch the travel of both strategies",
		Args:  cobra.NoArgs,
		RunE:  runLiveCmd,
	}
	cmd.Flags().StringVarP(&liveLayout, "keyboard", "k", defaultLayout, "keyboard layout")
	cmd.Flags().BoolVar(&liveOnsite, "onsite", false, "start each finger on the first key it types")
	cmd.Flags().BoolVar(&liveRecord, "record", false, "save committed lines to the history database")
	return cmd
}

func runLiveCmd(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	fileCfg, reg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "keyboard", &liveLayout, fileCfg.Measure.Keyboard)
	applyBoolConfig(cmd, "onsite", &liveOnsite, fileCfg.Measure.Onsite)
	applyBoolConfig(cmd, "record", &liveRecord, fileCfg.Measure.Record)

	layout, err := reg.Lookup(liveLayout)
	if err != nil {
		return err
	}
	oracle := keyboard.NewOracle(layout)
	opts := typist.Options{Onsite: liveOnsite}
	strategies := []typist.Strategy{typist.OneFingerStrategy, typist.TwoFingerStrategy}
	typists := make([]typist.Typist, 0, len(strategies))
	for _, s := range strategies {
		ty, err := typist.New(s, oracle, opts)
		if err != nil {
			return fmt.Errorf("failed to set up %s typist: %w", s, err)
		}
		typists = append(typists, ty)
	}

	view := tui.NewModel(layout, typists)
	program := tea.NewProgram(view, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run live TUI: %w", err)
	}
	if !liveRecord {
		return nil
	}

	endedAt := time.Now()
	var runs []model.RunRecord
	var runLines [][]model.LineResult
	for i, lines := range view.Results() {
		if len(lines) == 0 {
			continue
		}
		run := model.RunRecord{
			StartedAt: view.StartedAt(),
			EndedAt:   endedAt,
			Layout:    layout.Name(),
			Strategy:  string(strategies[i]),
			Onsite:    liveOnsite,
			Source:    "live",
			Lines:     len(lines),
		}
		for _, lr := range lines {
			run.Chars += lr.Chars
			run.Total += lr.Total
		}
		run.Total = keyboard.Round2(run.Total)
		runs = append(runs, run)
		runLines = append(runLines, lines)
	}
	if len(runs) == 0 {
		return nil
	}
	return recordRuns(cmd.Context(), logger, runs, runLines)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVarP(&historyLayout, "keyboard", "k", "", "layout filter")
	cmd.Flags().StringVar(&historyStrategy, "strategy", "", "strategy filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	cmd.Flags().IntVar(&historyWindow, "window", defaultWindow, "moving average window for the trend")
	cmd.Flags().IntVar(&historyTop, "top", defaultTop, "longest lines of the latest run to show")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	cfg := model.HistoryConfig{
		Layout: historyLayout,
		Last:   historyLast,
		Window: historyWindow,
	}
	if historyStrategy != "" {
		strategy, err := typist.ParseStrategy(historyStrategy)
		if err != nil {
			return err
		}
		cfg.Strategy = string(strategy)
	}
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close db", "err", cerr)
		}
	}()

	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Runs); err != nil {
		return err
	}
	if err := stats.RenderRunTable(out, report.Runs); err != nil {
		return err
	}
	if err := stats.RenderTopLines(out, report.Latest, historyTop); err != nil {
		return err
	}
	return stats.RenderTrend(out, report.Runs, cfg.Window, 0)
}

func newLayoutsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "List keyboard layouts",
		Args:  cobra.NoArgs,
		RunE:  runLayoutsCmd,
	}
	cmd.Flags().BoolVar(&layoutsShow, "show", false, "print key coordinates in millimeters")
	return cmd
}

func runLayoutsCmd(cmd *cobra.Command, _ []string) error {
	_, reg, err := loadFileConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, name := range reg.Names() {
		layout, err := reg.Lookup(name)
		if err != nil {
			return err
		}
		if err := writeLayout(out, layout, layoutsShow); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func writeLayout(w io.Writer, layout *keyboard.Layout, coords bool) error {
	if _, err := fmt.Fprintln(w, layout.Name()); err != nil {
		return err
	}
	for _, row := range layout.Rows() {
		first := []rune(row)[0]
		pt, err := layout.Coordinate(first)
		if err != nil {
			return err
		}
		indent := strings.Repeat(" ", int(pt.X/keyboard.Pitch*2+0.5))
		if _, err := fmt.Fprintf(w, "  %s%s\n", indent, strings.Join(strings.Split(row, ""), " ")); err != nil {
			return err
		}
	}
	if !coords {
		return nil
	}
	for _, key := range layout.Keys() {
		pt, err := layout.Coordinate(key)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  %c\t%.2f\t%.2f\n", key, pt.X, pt.Y); err != nil {
			return err
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# keytravel configuration
# Uncomment a value to enable it. CLI flags override config values.

[measure]
# keyboard = %q         # Keyboard layout
# strategy = %q     # one-finger or two-finger
# onsite = false            # Start each finger on the first key it types
# start = ""                # Start keys, one per finger (default h, or fj)
# quiet = false             # Do not print the travel of each line
# output = ""               # Tab-separated per-line output file
# jobs = %d                  # Lines measured concurrently
# record = false            # Save runs to the history database

# Additional layouts. Rows are listed top to bottom; offsets are the
# horizontal stagger of each row in key widths (default 0.0, 0.25, 0.75).
#
# [[layout]]
# name = "colemak"
# rows = ["qwfpgjluy", "arstdhneio", "zxcvbkm"]
# offsets = [0.0, 0.25, 0.75]
`,
		defaultLayout,
		defaultStrategy,
		defaultJobs,
	)
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.Layout) == "" {
		return fmt.Errorf("--keyboard must not be empty")
	}
	if cfg.Jobs < 1 {
		return fmt.Errorf("--jobs must be >= 1")
	}
	return nil
}

func isTerminal(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
