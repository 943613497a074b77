// Package sink provides the output sinks the collector forwards decoded
// records to.
package sink

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/shiplog/internal/logparse"
	"github.com/tinytelemetry/shiplog/internal/model"
)

const hexDigits = "0123456789abcdef"

// FormatHardwareID renders id as colon-separated lowercase hex octets,
// e.g. "aa:bb:cc:dd:ee:ff".
func FormatHardwareID(id []byte) string {
	if len(id) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(id)*3 - 1)
	for i, octet := range id {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteByte(hexDigits[octet>>4])
		b.WriteByte(hexDigits[octet&0x0f])
	}
	return b.String()
}

// FormatRecord renders a record as "LEVEL - source - mac - message".
func FormatRecord(r model.LogRecord) string {
	return formatRecord(r, r.Level)
}

func formatRecord(r model.LogRecord, level string) string {
	return level + " - " + r.Source + " - " + FormatHardwareID(r.HardwareID) + " - " + r.Message
}

var levelStyles = map[string]lipgloss.Style{
	logparse.Debug:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	logparse.Info:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	logparse.Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	logparse.Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	logparse.Critical: lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true),
}

// ConsoleSink writes one line per record to a logger.
type ConsoleSink struct {
	logger *log.Logger
	color  bool
}

// NewConsoleSink returns a sink writing to logger. A nil logger uses
// log.Default(). With color set, the level is styled per severity.
func NewConsoleSink(logger *log.Logger, color bool) *ConsoleSink {
	if logger == nil {
		logger = log.Default()
	}
	return &ConsoleSink{logger: logger, color: color}
}

func (s *ConsoleSink) Emit(r model.LogRecord) {
	level := r.Level
	if s.color {
		if style, ok := levelStyles[logparse.NormalizeLevel(level)]; ok {
			level = style.Render(level)
		}
	}
	s.logger.Print(formatRecord(r, level))
}

// ChannelSink delivers records on a buffered channel. Emit never blocks:
// when the buffer is full the record is dropped and counted.
type ChannelSink struct {
	ch      chan model.LogRecord
	dropped atomic.Uint64
}

// NewChannelSink returns a ChannelSink with the given buffer size.
func NewChannelSink(size int) *ChannelSink {
	if size <= 0 {
		size = 1
	}
	return &ChannelSink{ch: make(chan model.LogRecord, size)}
}

func (s *ChannelSink) Emit(r model.LogRecord) {
	select {
	case s.ch <- r:
	default:
		s.dropped.Add(1)
	}
}

// Records returns the channel of emitted records.
func (s *ChannelSink) Records() <-chan model.LogRecord { return s.ch }

// Dropped returns the number of records discarded on a full buffer.
func (s *ChannelSink) Dropped() uint64 { return s.dropped.Load() }

// Fanout forwards every record to each sink in order.
type Fanout []model.RecordSink

func (f Fanout) Emit(r model.LogRecord) {
	for _, s := range f {
		s.Emit(r)
	}
}
