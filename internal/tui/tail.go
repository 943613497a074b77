package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/shiplog/internal/model"
	"github.com/tinytelemetry/shiplog/internal/sink"
)

// TailPage shows the most recent records in a scrollable viewport above a
// per-level bar chart.
type TailPage struct {
	feed     *Feed
	keys     KeyMap
	viewport viewport.Model
	follow   bool
	width    int
	height   int
}

// NewTailPage creates the live-tail page over feed.
func NewTailPage(feed *Feed) *TailPage {
	return &TailPage{
		feed:     feed,
		keys:     DefaultKeyMap(),
		viewport: viewport.New(0, 0),
		follow:   true,
	}
}

func (p *TailPage) ID() string    { return "tail" }
func (p *TailPage) Title() string { return "Live Tail" }

func (p *TailPage) Init() tea.Cmd {
	p.refresh()
	return nil
}

func (p *TailPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.resize(msg.Width, msg.Height)
		return nil, nil

	case RecordMsg, FeedClosedMsg:
		if p.follow {
			p.refresh()
		}
		return nil, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Follow):
			p.follow = !p.follow
			if p.follow {
				p.refresh()
			}
			return nil, nil
		case key.Matches(msg, p.keys.Top):
			p.follow = false
			p.viewport.GotoTop()
			return nil, nil
		case key.Matches(msg, p.keys.Bottom):
			p.follow = true
			p.refresh()
			return nil, nil
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok && !p.viewport.AtBottom() {
		// Scrolling away from the newest record pauses following.
		p.follow = false
	}
	return cmd, nil
}

func (p *TailPage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Initializing..."
	}
	if width != p.width || height != p.height {
		p.resize(width, height)
	}

	header := headerStyle.Width(width).Render(p.Title())
	chart := renderLevelChart(p.feed.Counts(), width, levelChartHeight)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		p.viewport.View(),
		sectionTitleStyle.Render("Levels"),
		chart,
		p.status(width),
	)
}

// Following reports whether the viewport tracks the newest record.
func (p *TailPage) Following() bool { return p.follow }

func (p *TailPage) resize(width, height int) {
	p.width, p.height = width, height
	// header, chart title, chart and status line
	logHeight := height - 1 - 1 - levelChartHeight - 1
	if logHeight < 1 {
		logHeight = 1
	}
	p.viewport.Width = width
	p.viewport.Height = logHeight
	p.refresh()
}

func (p *TailPage) refresh() {
	records := p.feed.Records()
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = renderRecordLine(r)
	}
	p.viewport.SetContent(strings.Join(lines, "\n"))
	if p.follow {
		p.viewport.GotoBottom()
	}
}

func (p *TailPage) status(width int) string {
	items := []string{
		fmt.Sprintf("records %d", p.feed.Total()),
	}
	if d := p.feed.Dropped(); d > 0 {
		items = append(items, fmt.Sprintf("dropped %d", d))
	}
	if p.feed.Closed() {
		items = append(items, "feed closed")
	}
	items = append(items, helpLine(p.keys.Follow, p.keys.NextPage, p.keys.Quit))

	line := statusStyle.Render(strings.Join(items, " | "))
	if !p.follow {
		line = pausedStyle.Render("PAUSED") + " " + line
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

// renderRecordLine renders r with its level coloured per severity.
func renderRecordLine(r model.LogRecord) string {
	level := lipgloss.NewStyle().
		Foreground(getSeverityColor(r.Level)).
		Bold(true).
		Render(fmt.Sprintf("%-8s", levelLabel(r.Level)))
	return level + " " + r.Source + " " + sink.FormatHardwareID(r.HardwareID) + " " + r.Message
}
