// Package tui renders a binder in the terminal with bubbletea.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/ramonehamilton/card-binder/internal/binder"
	"github.com/ramonehamilton/card-binder/internal/events"
	"github.com/ramonehamilton/card-binder/internal/logging"
)

// Binder is the part of *binder.Controller the terminal UI drives.
type Binder interface {
	Snapshot() binder.Spread
	RequestPageChange(d binder.Direction) (bool, error)
	Clear()
	Search(query string) bool
	SearchResults() binder.SearchView
	SelectSearchResult(i int) (int, error)
	OpenDetails(index int) error
	Details() binder.DetailsView
	CloseDetails()
	SelectReprint(j int) error
}

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeDetails
)

type binderEventMsg events.Event

type eventsClosedMsg struct{}

// Model is the bubbletea model of one binder.
type Model struct {
	binder Binder
	events <-chan events.Event

	mode    mode
	spread  binder.Spread
	search  binder.SearchView
	details binder.DetailsView
	flip    binder.Direction

	cursor        int // slot within the spread, 0..SlotsPerSpread-1
	searchCursor  int
	reprintCursor int
	submitted     string

	input   textinput.Model
	pager   paginator.Model
	spinner spinner.Model

	status    string
	statusErr bool
	width     int
	height    int

	log *logrus.Entry
}

// New creates a model over b. evs delivers the binder's events, normally
// from an events.ChannelObserver registered on the binder's dispatcher.
func New(b Binder, evs <-chan events.Event) *Model {
	p := paginator.New()
	p.Type = paginator.Dots
	p.PerPage = 1
	p.ActiveDot = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "235", Dark: "252"}).Render("•")
	p.InactiveDot = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "250", Dark: "238"}).Render("•")

	ti := textinput.New()
	ti.Placeholder = "Search cards…"
	ti.CharLimit = 120
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = priceStyle

	m := &Model{
		binder:  b,
		events:  evs,
		input:   ti,
		pager:   p,
		spinner: sp,
		log:     logging.Component("TUI"),
	}
	m.applySpread(b.Snapshot())
	m.search = b.SearchResults()
	m.details = b.Details()
	return m
}

// Run starts the terminal program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, b Binder, evs <-chan events.Event) error {
	p := tea.NewProgram(New(b, evs), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func waitForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return binderEventMsg(e)
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), m.spinner.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case binderEventMsg:
		m.handleEvent(events.Event(msg))
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		m.log.Debug("Event channel closed")
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m, m.handleSearchKey(msg)
		case modeDetails:
			return m, m.handleDetailsKey(msg)
		default:
			return m, m.handleBrowseKey(msg)
		}
	}
	return m, nil
}

func (m *Model) handleEvent(e events.Event) {
	switch e.Type {
	case events.TypeRender:
		if spread, ok := events.GetTypedData[binder.Spread](e); ok {
			m.applySpread(spread)
		}
	case events.TypeFlip:
		if flip, ok := events.GetTypedData[binder.FlipBegan](e); ok {
			m.flip = flip.Direction
			m.spread.Locked = true
		}
	case events.TypeSearch:
		if upd, ok := events.GetTypedData[binder.SearchUpdated](e); ok {
			m.search = binder.SearchView{Query: upd.Query, Pending: upd.Pending, NotFound: upd.NotFound, Results: upd.Results}
			m.searchCursor = clamp(m.searchCursor, len(upd.Results))
		}
	case events.TypeDetails:
		if upd, ok := events.GetTypedData[binder.DetailsChanged](e); ok {
			m.applyDetails(upd)
		}
	case events.TypeReprints:
		if upd, ok := events.GetTypedData[binder.ReprintsUpdated](e); ok && m.details.Open && upd.GlobalIndex == m.details.GlobalIndex {
			m.details.ReprintsPending = upd.Pending
			m.details.Reprints = upd.Reprints
			m.reprintCursor = clamp(m.reprintCursor, len(upd.Reprints))
		}
	case events.TypeError:
		if failure, ok := events.GetTypedData[binder.ResolutionFailed](e); ok {
			m.setStatus(failure.Message, true)
			if failure.Operation == "search" {
				m.search.Pending = false
				m.search.Error = failure.Message
			} else {
				m.details.ReprintsPending = false
			}
		}
	}
}

func (m *Model) applySpread(s binder.Spread) {
	m.spread = s
	if !s.Locked {
		m.flip = 0
	}
	m.pager.TotalPages = max(s.TotalViews, 1)
	m.pager.Page = s.ViewIndex
	if _, ok := m.slotIndex(m.cursor); !ok {
		m.cursor = 0
	}
}

func (m *Model) applyDetails(upd binder.DetailsChanged) {
	if !upd.Open {
		m.details = binder.DetailsView{}
		if m.mode == modeDetails {
			m.mode = modeBrowse
		}
		return
	}
	m.details = binder.DetailsView{Open: true, GlobalIndex: upd.GlobalIndex, Reprints: nil}
	if upd.Card != nil {
		m.details.Card = *upd.Card
	}
	m.reprintCursor = 0
	m.mode = modeDetails
}

func (m *Model) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "n", "pgdown", "]":
		m.turn(binder.Next)
	case "p", "pgup", "[":
		m.turn(binder.Prev)
	case "left", "h":
		if m.cursor%(2*gridCols) > 0 {
			m.moveCursor(-1)
		}
	case "right", "l":
		if m.cursor%(2*gridCols) < 2*gridCols-1 {
			m.moveCursor(1)
		}
	case "up", "k":
		m.moveCursor(-2 * gridCols)
	case "down", "j":
		m.moveCursor(2 * gridCols)
	case "enter":
		if index, ok := m.cursorIndex(); ok {
			if err := m.binder.OpenDetails(index); err != nil {
				m.setStatus(err.Error(), true)
			}
		}
	case "/", "s":
		m.mode = modeSearch
		m.setStatus("", false)
		return m.input.Focus()
	case "C":
		m.binder.Clear()
		m.setStatus("Binder cleared", false)
	}
	return nil
}

func (m *Model) turn(d binder.Direction) {
	if ok, err := m.binder.RequestPageChange(d); err != nil {
		m.setStatus(err.Error(), true)
	} else if ok {
		m.setStatus("", false)
	}
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		return nil
	case "up", "ctrl+p":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return nil
	case "down", "ctrl+n":
		if m.searchCursor < len(m.search.Results)-1 {
			m.searchCursor++
		}
		return nil
	case "enter":
		query := strings.TrimSpace(m.input.Value())
		if query != "" && query != m.submitted {
			if m.binder.Search(query) {
				m.submitted = query
				m.searchCursor = 0
			}
			return nil
		}
		if len(m.search.Results) == 0 {
			return nil
		}
		index, err := m.binder.SelectSearchResult(m.searchCursor)
		if err != nil {
			m.setStatus(err.Error(), true)
			return nil
		}
		m.cursor = slotFor(index)
		m.setStatus("Added "+m.search.Results[m.searchCursor].Name, false)
		m.mode = modeBrowse
		m.input.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleDetailsKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		m.binder.CloseDetails()
		m.mode = modeBrowse
	case "up", "k":
		if m.reprintCursor > 0 {
			m.reprintCursor--
		}
	case "down", "j":
		if m.reprintCursor < len(m.details.Reprints)-1 {
			m.reprintCursor++
		}
	case "enter":
		if len(m.details.Reprints) == 0 {
			return nil
		}
		if err := m.binder.SelectReprint(m.reprintCursor); err != nil {
			m.setStatus(err.Error(), true)
		}
	}
	return nil
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= binder.SlotsPerSpread {
		return
	}
	if _, ok := m.slotIndex(next); ok {
		m.cursor = next
	}
}

func (m *Model) cursorIndex() (int, bool) {
	return m.slotIndex(m.cursor)
}

// slotIndex maps a screen slot to a global card index. Slots are numbered row
// by row across both pages: row r holds left 3r..3r+2 then right 3r..3r+2.
func (m *Model) slotIndex(slot int) (int, bool) {
	row, col := slot/(2*gridCols), slot%(2*gridCols)
	batch := m.spread.Left
	if col >= gridCols {
		batch = m.spread.Right
		col -= gridCols
	}
	i := row*gridCols + col
	if i >= batch.Len() {
		return 0, false
	}
	return batch.GlobalIndex(i), true
}

// slotFor is the inverse of slotIndex for a card on its own spread.
func slotFor(index int) int {
	offset := index % binder.SlotsPerSpread
	page, i := offset/binder.SlotsPerPage, offset%binder.SlotsPerPage
	return (i/gridCols)*2*gridCols + page*gridCols + i%gridCols
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
