package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/shiplog/internal/collector"
)

func newTestApp(t *testing.T, stats func() collector.Stats) *App {
	t.Helper()
	app := NewProgramModel(Config{Capacity: 50, Stats: stats})
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_QuitKeys(t *testing.T) {
	t.Parallel()

	for _, k := range []string{"q", "ctrl+c"} {
		app := newTestApp(t, nil)
		_, cmd := app.Update(keyMsg(k))
		if cmd == nil {
			t.Fatalf("%s: no command returned", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command did not quit", k)
		}
	}
}

func TestApp_TabCyclesPages(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)
	if app.ActivePage() != "tail" {
		t.Fatalf("initial page = %q, want tail", app.ActivePage())
	}
	app.Update(keyMsg("tab"))
	if app.ActivePage() != "stats" {
		t.Fatalf("after tab page = %q, want stats", app.ActivePage())
	}
	app.Update(keyMsg("tab"))
	if app.ActivePage() != "tail" {
		t.Fatalf("after second tab page = %q, want tail", app.ActivePage())
	}
}

func TestApp_RecordsReachTailView(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)
	app.Update(RecordMsg{Record: rec("ERROR", "First test message")})

	view := app.View()
	for _, want := range []string{"First test message", "aa:bb:cc:dd:ee:ff", "records 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestApp_FeedClosedShownInStatus(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, nil)
	_, cmd := app.Update(FeedClosedMsg{})
	if cmd != nil {
		if msg := cmd(); msg != nil {
			t.Fatalf("closed feed produced message %T", msg)
		}
	}
	if !strings.Contains(app.View(), "feed closed") {
		t.Error("view does not report closed feed")
	}
}

func TestTailPage_FollowToggle(t *testing.T) {
	t.Parallel()

	feed := NewFeed(nil, 10)
	p := NewTailPage(feed)
	p.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	if !p.Following() {
		t.Fatal("new tail page is not following")
	}
	p.Update(keyMsg("f"))
	if p.Following() {
		t.Fatal("f did not pause following")
	}
	if !strings.Contains(p.View(80, 30), "PAUSED") {
		t.Error("paused view missing PAUSED marker")
	}
	p.Update(keyMsg("end"))
	if !p.Following() {
		t.Fatal("end did not resume following")
	}
}

func TestTailPage_PausedIgnoresNewRecords(t *testing.T) {
	t.Parallel()

	feed := NewFeed(nil, 10)
	p := NewTailPage(feed)
	p.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	p.Update(keyMsg("f"))

	feed.Add(rec("INFO", "late arrival"))
	p.Update(RecordMsg{Record: rec("INFO", "late arrival")})
	if strings.Contains(p.viewport.View(), "late arrival") {
		t.Fatal("paused viewport rendered a new record")
	}

	p.Update(keyMsg("f"))
	if !strings.Contains(p.viewport.View(), "late arrival") {
		t.Fatal("resumed viewport missing buffered record")
	}
}

func TestStatsPage_RendersCounters(t *testing.T) {
	t.Parallel()

	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	app := newTestApp(t, func() collector.Stats {
		return collector.Stats{
			State:               "listening",
			ActiveConnections:   3,
			AcceptedConnections: 9,
			Records:             1234,
			StartedAt:           started,
		}
	})
	app.Update(RecordMsg{Record: rec("WARNING", "disk")})
	app.Update(keyMsg("tab"))

	view := app.View()
	for _, want := range []string{"listening", "1234", "Accepted connections", "WARNING"} {
		if !strings.Contains(view, want) {
			t.Errorf("stats view missing %q", want)
		}
	}
}

func TestStatsPage_StaleTickIgnored(t *testing.T) {
	t.Parallel()

	calls := 0
	p := NewStatsPage(NewFeed(nil, 1), func() collector.Stats {
		calls++
		return collector.Stats{}
	})
	p.Init()
	p.Init()
	if calls != 2 {
		t.Fatalf("polls after two Init = %d, want 2", calls)
	}

	if cmd, _ := p.Update(statsTickMsg{gen: 1}); cmd != nil {
		t.Fatal("stale tick rescheduled")
	}
	if cmd, _ := p.Update(statsTickMsg{gen: 2}); cmd == nil {
		t.Fatal("current tick not rescheduled")
	}
	if calls != 3 {
		t.Fatalf("polls = %d, want 3", calls)
	}
}

func TestRenderLevelChart_Placeholder(t *testing.T) {
	t.Parallel()

	got := renderLevelChart(NewFeed(nil, 1).Counts(), 60, levelChartHeight)
	if !strings.Contains(got, "Waiting for records") {
		t.Fatalf("empty chart = %q", got)
	}
}

func TestRenderLevelChart_WithData(t *testing.T) {
	t.Parallel()

	f := NewFeed(nil, 10)
	f.Add(rec("INFO", "a"))
	f.Add(rec("ERROR", "b"))
	got := renderLevelChart(f.Counts(), 60, levelChartHeight)
	if got == "" || strings.Contains(got, "Waiting for records") {
		t.Fatalf("chart with data = %q", got)
	}
}
