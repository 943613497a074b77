package tui

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/shiplog/internal/logparse"
	"github.com/tinytelemetry/shiplog/internal/model"
)

// DefaultCapacity is the number of records kept for display.
const DefaultCapacity = 1000

// RecordMsg delivers one record from the feed channel.
type RecordMsg struct {
	Record model.LogRecord
}

// FeedClosedMsg is sent once the feed channel has been closed.
type FeedClosedMsg struct{}

// LevelCount is the number of records seen for one level.
type LevelCount struct {
	Level string
	Count uint64
}

// Feed buffers the most recent records received from a collector sink and
// keeps per-level totals for everything seen. It is owned by the Bubble Tea
// update loop and is not safe for concurrent use.
type Feed struct {
	records  <-chan model.LogRecord
	capacity int
	dropped  func() uint64

	buf    []model.LogRecord
	counts map[string]uint64
	total  uint64
	closed bool
}

// NewFeed returns a feed reading from records, keeping at most capacity
// records. A non-positive capacity uses DefaultCapacity.
func NewFeed(records <-chan model.LogRecord, capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{
		records:  records,
		capacity: capacity,
		buf:      make([]model.LogRecord, 0, capacity),
		counts:   make(map[string]uint64),
	}
}

// Wait returns a command that blocks for the next record.
func (f *Feed) Wait() tea.Cmd {
	if f.records == nil || f.closed {
		return nil
	}
	ch := f.records
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return FeedClosedMsg{}
		}
		return RecordMsg{Record: r}
	}
}

// Add appends r, evicting the oldest record when full.
func (f *Feed) Add(r model.LogRecord) {
	if len(f.buf) == f.capacity {
		copy(f.buf, f.buf[1:])
		f.buf = f.buf[:len(f.buf)-1]
	}
	f.buf = append(f.buf, r)
	f.counts[logparse.NormalizeLevel(r.Level)]++
	f.total++
}

// MarkClosed records that no further records will arrive.
func (f *Feed) MarkClosed() { f.closed = true }

// Closed reports whether the feed channel has been closed.
func (f *Feed) Closed() bool { return f.closed }

// Records returns the buffered records, oldest first.
func (f *Feed) Records() []model.LogRecord { return f.buf }

// Total returns the number of records seen, including evicted ones.
func (f *Feed) Total() uint64 { return f.total }

// Dropped returns how many records the sink discarded before they reached
// the feed.
func (f *Feed) Dropped() uint64 {
	if f.dropped == nil {
		return 0
	}
	return f.dropped()
}

// Counts returns per-level totals keyed by normalized level: canonical
// levels first in severity order, then any other levels alphabetically.
func (f *Feed) Counts() []LevelCount {
	out := make([]LevelCount, 0, len(f.counts))
	for _, lvl := range logparse.Levels {
		out = append(out, LevelCount{Level: lvl, Count: f.counts[lvl]})
	}
	var other []string
	for lvl := range f.counts {
		if !slices.Contains(logparse.Levels, lvl) {
			other = append(other, lvl)
		}
	}
	slices.Sort(other)
	for _, lvl := range other {
		out = append(out, LevelCount{Level: lvl, Count: f.counts[lvl]})
	}
	return out
}
