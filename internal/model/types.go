// Package model defines shared data structures.
package model

import "time"

// Settings holds the controller timing and geometry parameters.
type Settings struct {
	WPM           int
	Countdown     int
	RefreshRate   int
	InputInterval int
	PromptTimeout int
	MinWidth      int
	MinHeight     int
	History       bool
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		WPM:           250,
		Countdown:     3,
		RefreshRate:   250,
		InputInterval: 50,
		PromptTimeout: 40,
		MinWidth:      20,
		MinHeight:     4,
		History:       true,
	}
}

// ReadingSession captures one interactive run over a document.
type ReadingSession struct {
	StartedAt  time.Time
	EndedAt    time.Time
	File       string
	Words      int
	ActiveMs   int64
	AverageWPM int
	Progress   int
}

// HistoryFilter narrows the sessions returned by the store.
type HistoryFilter struct {
	File string
	Last int
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	File       string
	Words      int
	ActiveMs   int64
	AverageWPM int
	Progress   int
}

// FileAggregate totals the sessions recorded for one document.
type FileAggregate struct {
	File     string
	Sessions int
	Words    int
	ActiveMs int64
	Progress int
	LastRead time.Time
}
