// Package model defines shared data structures.
package model

import "time"

// Config defines measurement settings.
type Config struct {
	Layout   string
	Strategy string
	Onsite   bool
	Start    string
	Quiet    bool
	Output   string
	Jobs     int
	Record   bool
}

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	Layout   string
	Strategy string
	Since    *time.Time
	Last     int
	Window   int
}

// LineResult is the travel measured for one input line.
type LineResult struct {
	Line    int
	Chars   int
	Total   float64
	PerChar float64
}

// RunRecord captures a completed measurement run.
type RunRecord struct {
	StartedAt time.Time
	EndedAt   time.Time
	Layout    string
	Strategy  string
	Onsite    bool
	Source    string
	Lines     int
	Chars     int
	Total     float64
}

// RunAggregate summarizes a stored run for reporting.
type RunAggregate struct {
	RunID    int64
	EndedAt  time.Time
	Layout   string
	Strategy string
	Onsite   bool
	Lines    int
	Chars    int
	Total    float64
}
