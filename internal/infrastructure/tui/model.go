package tui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mrops-br/inventory-browser/internal/app/dto"
	"github.com/mrops-br/inventory-browser/internal/app/service"
	"github.com/mrops-br/inventory-browser/internal/domain"
)

// Session is the part of service.BrowserSession the terminal drives.
type Session interface {
	View(ctx context.Context) (dto.BrowserView, error)
	SetSearchText(ctx context.Context, text string)
	CommitSearch(ctx context.Context) bool
	SetCategory(ctx context.Context, category string)
	SetPriceRange(ctx context.Context, r domain.PriceRange) error
	SetOfferFilter(ctx context.Context, f domain.OfferFilter) error
	NextPage(ctx context.Context) (int, error)
	PrevPage(ctx context.Context) (int, error)
	EditProduct(ctx context.Context, id int) (dto.Notification, error)
	RequestDelete(ctx context.Context, id int, confirm service.Confirmer) (dto.Notification, bool, error)
}

// deleteResultMsg reports the outcome of a RequestDelete started by the model.
type deleteResultMsg struct {
	note    dto.Notification
	deleted bool
	err     error
}

type focusArea int

const (
	focusSearch focusArea = iota
	focusTable
)

// Model is the bubbletea model of the inventory browser.
type Model struct {
	ctx     context.Context
	session Session
	bridge  *Bridge
	logger  *slog.Logger

	search textinput.Model
	table  table.Model
	focus  focusArea

	view    dto.BrowserView
	confirm *ConfirmRequestMsg
	notice  string
	err     error

	quitting bool
}

// New builds the model and loads the first frame.
func New(ctx context.Context, session Session, bridge *Bridge, logger *slog.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "Search products by name..."
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	t := table.New(
		table.WithColumns(columns()),
		table.WithHeight(tableHeight),
	)
	t.SetStyles(tableStyles())

	m := Model{
		ctx:     ctx,
		session: session,
		bridge:  bridge,
		logger:  logger,
		search:  ti,
		table:   t,
		focus:   focusSearch,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	switch msg := msg.(type) {
	case RefreshMsg:
		m.refresh()
		return m, nil

	case ConfirmRequestMsg:
		if m.confirm != nil {
			// One prompt at a time; a second request is declined.
			msg.reply <- false
			return m, nil
		}
		m.confirm = &msg
		return m, nil

	case deleteResultMsg:
		switch {
		case msg.err != nil:
			m.notice = "Delete failed: " + msg.err.Error()
		case msg.deleted:
			m.notice = msg.note.Message
		default:
			m.notice = ""
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.confirm != nil {
			return m.answer(msg)
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	return m.forward(msg)
}

// answer resolves the pending confirmation prompt. Other keys are ignored
// while it is open.
func (m Model) answer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirm.reply <- true
		m.confirm = nil
	case "n", "N", "esc":
		m.confirm.reply <- false
		m.confirm = nil
	case "ctrl+c":
		m.confirm.reply <- false
		m.confirm = nil
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return tea.Quit, true
	case "esc":
		if m.focus == focusTable {
			m.quitting = true
			return tea.Quit, true
		}
		m.focusTable()
		return nil, true
	case "tab":
		if m.focus == focusSearch {
			m.focusTable()
		} else {
			m.focusSearch()
		}
		return nil, true
	case "enter":
		if m.focus == focusSearch {
			m.session.CommitSearch(m.ctx)
			m.refresh()
			return nil, true
		}
	}

	if m.focus != focusTable {
		return nil, false
	}

	switch msg.String() {
	case "/":
		m.focusSearch()
	case "c":
		m.session.SetCategory(m.ctx, nextOf(m.view.Categories, m.view.Category))
		m.refresh()
	case "p":
		m.report(m.session.SetPriceRange(m.ctx, nextOf(domain.PriceRanges, m.view.PriceRange)))
		m.refresh()
	case "o":
		m.report(m.session.SetOfferFilter(m.ctx, nextOf(domain.OfferFilters, m.view.OfferFilter)))
		m.refresh()
	case "right", "l", "n":
		_, err := m.session.NextPage(m.ctx)
		m.report(err)
		m.refresh()
	case "left", "h", "b":
		_, err := m.session.PrevPage(m.ctx)
		m.report(err)
		m.refresh()
	case "e":
		if p, ok := m.selected(); ok {
			note, err := m.session.EditProduct(m.ctx, p.ID)
			m.report(err)
			if err == nil {
				m.notice = note.Message
			}
		}
	case "d":
		if p, ok := m.selected(); ok {
			return m.requestDelete(p.ID), true
		}
	default:
		return nil, false
	}
	return nil, true
}

// requestDelete runs the confirmation and deletion off the update loop; the
// confirmation prompt comes back in through the bridge.
func (m Model) requestDelete(id int) tea.Cmd {
	ctx, session, bridge := m.ctx, m.session, m.bridge
	return func() tea.Msg {
		note, deleted, err := session.RequestDelete(ctx, id, bridge)
		return deleteResultMsg{note: note, deleted: deleted, err: err}
	}
}

// forward passes msg to the focused component.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusTable {
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	prev := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if text := m.search.Value(); text != prev {
		m.session.SetSearchText(m.ctx, text)
		m.refresh()
	}
	return m, cmd
}

func (m *Model) focusTable() {
	m.focus = focusTable
	m.search.Blur()
	m.table.Focus()
}

func (m *Model) focusSearch() {
	m.focus = focusSearch
	m.table.Blur()
	m.search.Focus()
}

// refresh reloads the view from the session and rebuilds the table rows.
func (m *Model) refresh() {
	view, err := m.session.View(m.ctx)
	if err != nil {
		m.report(err)
		return
	}
	m.view = view

	rows := make([]table.Row, len(view.Items))
	for i, p := range view.Items {
		rows[i] = table.Row{
			p.DisplayID,
			p.Name,
			p.Category,
			formatPrice(p.Price),
			yesNo(p.Offer),
			strings.Join(p.Suppliers, ", "),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m Model) selected() (dto.ProductResponse, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.view.Items) {
		return dto.ProductResponse{}, false
	}
	return m.view.Items[i], true
}

func (m *Model) report(err error) {
	m.err = err
	if err != nil && m.logger != nil {
		m.logger.ErrorContext(m.ctx, "Intent failed", slog.String("error", err.Error()))
	}
}

// nextOf returns the element after current in values, wrapping around.
func nextOf[T comparable](values []T, current T) T {
	if len(values) == 0 {
		return current
	}
	i := slices.Index(values, current)
	return values[(i+1)%len(values)]
}

func formatPrice(p float64) string {
	return "$" + strconv.FormatFloat(p, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func pageLabel(v dto.BrowserView) string {
	return fmt.Sprintf("Page %d of %d", v.CurrentPage, v.DisplayTotalPages)
}
