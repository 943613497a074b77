package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/shiplog/internal/collector"
	"github.com/tinytelemetry/shiplog/internal/model"
)

// Config wires the TUI to a running collector.
type Config struct {
	// Records is the channel the collector's channel sink delivers to.
	Records <-chan model.LogRecord
	// Capacity bounds the records kept for display.
	Capacity int
	// Stats returns collector counters. Optional.
	Stats func() collector.Stats
	// Dropped returns records the sink discarded. Optional.
	Dropped func() uint64
}

// NewProgramModel builds the top-level model for cfg.
func NewProgramModel(cfg Config) *App {
	feed := NewFeed(cfg.Records, cfg.Capacity)
	feed.dropped = cfg.Dropped
	return NewApp(feed, NewTailPage(feed), NewStatsPage(feed, cfg.Stats))
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	p := tea.NewProgram(NewProgramModel(cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
