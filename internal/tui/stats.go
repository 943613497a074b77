package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/shiplog/internal/collector"
)

const statsRefreshInterval = time.Second

type statsTickMsg struct {
	gen int
}

// StatsPage shows collector counters alongside the per-level totals of the
// feed. Counters are polled once per second while the page is active.
type StatsPage struct {
	feed     *Feed
	source   func() collector.Stats
	snapshot collector.Stats
	gen      int
	now      func() time.Time
}

// NewStatsPage creates the stats page. source may be nil when no collector
// counters are available.
func NewStatsPage(feed *Feed, source func() collector.Stats) *StatsPage {
	return &StatsPage{
		feed:   feed,
		source: source,
		now:    time.Now,
	}
}

func (p *StatsPage) ID() string    { return "stats" }
func (p *StatsPage) Title() string { return "Collector Stats" }

func (p *StatsPage) Init() tea.Cmd {
	p.gen++
	p.poll()
	return p.tick()
}

func (p *StatsPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	if msg, ok := msg.(statsTickMsg); ok {
		// Ticks from an earlier activation are dropped.
		if msg.gen != p.gen {
			return nil, nil
		}
		p.poll()
		return p.tick(), nil
	}
	return nil, nil
}

func (p *StatsPage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Width(width).Render(p.Title()))
	b.WriteString("\n\n")

	if p.source != nil {
		s := p.snapshot
		uptime := "-"
		if !s.StartedAt.IsZero() {
			uptime = p.now().Sub(s.StartedAt).Round(time.Second).String()
		}
		rows := [][2]string{
			{"State", s.State},
			{"Uptime", uptime},
			{"Active connections", fmt.Sprintf("%d", s.ActiveConnections)},
			{"Accepted connections", fmt.Sprintf("%d", s.AcceptedConnections)},
			{"Records", fmt.Sprintf("%d", s.Records)},
			{"Malformed frames", fmt.Sprintf("%d", s.MalformedFrames)},
			{"Transport errors", fmt.Sprintf("%d", s.TransportErrors)},
		}
		for _, r := range rows {
			b.WriteString(labelStyle.Render(r[0]) + valueStyle.Render(r[1]) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(sectionTitleStyle.Render("Records by level") + "\n")
	for _, c := range p.feed.Counts() {
		label := lipgloss.NewStyle().
			Foreground(getSeverityColor(c.Level)).
			Bold(true).
			Width(22).
			Render(levelLabel(c.Level))
		b.WriteString(label + valueStyle.Render(fmt.Sprintf("%d", c.Count)) + "\n")
	}
	if d := p.feed.Dropped(); d > 0 {
		b.WriteString(labelStyle.Render("Dropped by display") + valueStyle.Render(fmt.Sprintf("%d", d)) + "\n")
	}

	b.WriteString("\n" + statusStyle.Render(helpLine(DefaultKeyMap().NextPage, DefaultKeyMap().Quit)))
	return lipgloss.NewStyle().MaxWidth(width).MaxHeight(height).Render(b.String())
}

func (p *StatsPage) poll() {
	if p.source != nil {
		p.snapshot = p.source()
	}
}

func (p *StatsPage) tick() tea.Cmd {
	gen := p.gen
	return tea.Tick(statsRefreshInterval, func(time.Time) tea.Msg {
		return statsTickMsg{gen: gen}
	})
}
