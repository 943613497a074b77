package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// App is the top-level Bubble Tea model. It owns the record feed and routes
// everything else to the active page.
type App struct {
	feed       *Feed
	keys       KeyMap
	pages      map[string]Page
	order      []string
	activePage string
	width      int
	height     int
}

// NewApp creates a new App with the given pages. The first page is the default.
func NewApp(feed *Feed, pages ...Page) *App {
	pageMap := make(map[string]Page, len(pages))
	order := make([]string, 0, len(pages))
	for _, p := range pages {
		pageMap[p.ID()] = p
		order = append(order, p.ID())
	}
	a := &App{
		feed:  feed,
		keys:  DefaultKeyMap(),
		pages: pageMap,
		order: order,
	}
	if len(order) > 0 {
		a.activePage = order[0]
	}
	return a
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.feed.Wait()}
	if p, ok := a.pages[a.activePage]; ok {
		cmds = append(cmds, p.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Every page tracks dimensions, not only the active one.
		a.width = msg.Width
		a.height = msg.Height
		var cmds []tea.Cmd
		for _, id := range a.order {
			cmd, _ := a.pages[id].Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case RecordMsg:
		a.feed.Add(msg.Record)
		cmd := a.forward(msg)
		return a, tea.Batch(cmd, a.feed.Wait())

	case FeedClosedMsg:
		a.feed.MarkClosed()
		return a, a.forward(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit), key.Matches(msg, a.keys.ForceQuit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.NextPage):
			return a, a.switchTo(a.nextPageID())
		}
	}

	return a, a.forward(msg)
}

func (a *App) View() string {
	if p, ok := a.pages[a.activePage]; ok {
		return p.View(a.width, a.height)
	}
	return "No active page"
}

// ActivePage returns the ID of the page currently rendered.
func (a *App) ActivePage() string {
	return a.activePage
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	p, ok := a.pages[a.activePage]
	if !ok {
		return nil
	}
	cmd, nav := p.Update(msg)
	if nav != nil {
		return tea.Batch(cmd, a.switchTo(nav.PageID))
	}
	return cmd
}

func (a *App) switchTo(id string) tea.Cmd {
	p, ok := a.pages[id]
	if !ok || id == a.activePage {
		return nil
	}
	a.activePage = id
	return p.Init()
}

func (a *App) nextPageID() string {
	for i, id := range a.order {
		if id == a.activePage {
			return a.order[(i+1)%len(a.order)]
		}
	}
	return a.activePage
}
