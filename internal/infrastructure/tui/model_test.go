package tui

import (
	"context"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mrops-br/inventory-browser/internal/app/service"
	"github.com/mrops-br/inventory-browser/internal/domain"
	"github.com/mrops-br/inventory-browser/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Wireless Mouse", Category: "Electronics", Price: 25.99, Offer: true, Suppliers: []string{"TechSource"}},
		{ID: 2, Name: "Office Chair", Category: "Furniture", Price: 150, Suppliers: []string{}},
		{ID: 3, Name: "Cordless Drill", Category: "Tools", Price: 89, Offer: true, Suppliers: []string{"BuildIt"}},
		{ID: 4, Name: "Standing Desk", Category: "Furniture", Price: 420, Suppliers: []string{"Ergo"}},
		{ID: 5, Name: "Gaming Mouse", Category: "Electronics", Price: 60, Suppliers: []string{"TechSource"}},
	}
}

func newTestModel(t *testing.T) (Model, *service.BrowserSession, *Bridge) {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	repo := memory.NewCatalogueRepository(testProducts(), noop.NewTracerProvider().Tracer("test"), logger)
	session, err := service.NewBrowserSession(repo,
		service.WithLogger(logger),
		service.WithPageSize(2),
		service.WithSearchDelay(time.Hour),
	)
	require.NoError(t, err)
	t.Cleanup(session.Close)

	bridge := NewBridge()
	return New(context.Background(), session, bridge, logger), session, bridge
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestModel_InitialView(t *testing.T) {
	m, _, _ := newTestModel(t)

	assert.Equal(t, focusSearch, m.focus)
	assert.Equal(t, 5, m.view.FilteredCount)
	assert.Len(t, m.table.Rows(), 2)
	assert.Equal(t, "#0001", m.table.Rows()[0][0])
	assert.Equal(t, "$25.99", m.table.Rows()[0][3])

	out := m.View()
	assert.Contains(t, out, "Product Inventory")
	assert.Contains(t, out, "5 Results")
	assert.Contains(t, out, "Page 1 of 3")
}

func TestModel_TypingIsDebouncedUntilEnter(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, runes("m"), runes("o"), runes("u"))
	assert.Equal(t, "mou", m.view.SearchText)
	assert.Empty(t, m.view.CommittedSearch)
	assert.Equal(t, 5, m.view.FilteredCount)

	m = press(t, m, keyEnter)
	assert.Equal(t, "mou", m.view.CommittedSearch)
	assert.Equal(t, 2, m.view.FilteredCount)
	assert.Equal(t, 1, m.view.CurrentPage)
}

func TestModel_FocusSwitching(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, keyTab)
	assert.Equal(t, focusTable, m.focus)

	// Filter keys must not leak into the search box while the table has focus.
	m = press(t, m, runes("c"))
	assert.Empty(t, m.search.Value())

	m = press(t, m, runes("/"))
	assert.Equal(t, focusSearch, m.focus)

	m = press(t, m, keyEsc)
	assert.Equal(t, focusTable, m.focus)

	next, cmd := m.Update(keyEsc)
	assert.True(t, next.(Model).quitting)
	require.NotNil(t, cmd)
	assert.Empty(t, next.(Model).View())
}

func TestModel_CycleFilters(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, keyTab)

	m = press(t, m, runes("c"))
	assert.Equal(t, "Electronics", m.view.Category)
	assert.Equal(t, 2, m.view.FilteredCount)

	m = press(t, m, runes("c"), runes("c"), runes("c"))
	assert.Equal(t, domain.AllCategories, m.view.Category)

	m = press(t, m, runes("p"))
	assert.Equal(t, domain.PriceLow, m.view.PriceRange)
	assert.Equal(t, 3, m.view.FilteredCount)

	m = press(t, m, runes("o"))
	assert.Equal(t, domain.OfferYes, m.view.OfferFilter)
	assert.Equal(t, 2, m.view.FilteredCount)
	assert.NoError(t, m.err)
}

func TestModel_Paging(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, keyTab)

	m = press(t, m, runes("n"))
	assert.Equal(t, 2, m.view.CurrentPage)
	assert.Equal(t, "#0003", m.table.Rows()[0][0])

	m = press(t, m, runes("n"), runes("n"))
	assert.Equal(t, 3, m.view.CurrentPage)
	assert.Len(t, m.table.Rows(), 1)

	m = press(t, m, runes("b"))
	assert.Equal(t, 2, m.view.CurrentPage)
	assert.Contains(t, m.View(), "Page 2 of 3")
}

func TestModel_EmptyResult(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, runes("z"), runes("z"), keyEnter)
	assert.Equal(t, 0, m.view.FilteredCount)
	assert.Contains(t, m.View(), "No products found matching your filters.")
	assert.Contains(t, m.View(), "Page 1 of 1")
}

func TestModel_Edit(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, keyTab, runes("e"))

	assert.Equal(t, "Opening edit for product #1", m.notice)
	assert.Contains(t, m.View(), "Opening edit for product #1")
}

// deleteFlow presses d, answers the confirmation with answer and returns
// the model after the delete result has been applied.
func deleteFlow(t *testing.T, answer tea.KeyMsg) (Model, *service.BrowserSession) {
	t.Helper()

	m, session, bridge := newTestModel(t)
	inbox := make(chan tea.Msg, 4)
	bridge.attach(func(msg tea.Msg) { inbox <- msg })

	m = press(t, m, keyTab)
	next, cmd := m.Update(runes("d"))
	m = next.(Model)
	require.NotNil(t, cmd)

	result := make(chan tea.Msg, 1)
	go func() { result <- cmd() }()

	var req ConfirmRequestMsg
	select {
	case msg := <-inbox:
		var ok bool
		req, ok = msg.(ConfirmRequestMsg)
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation was never requested")
	}
	assert.Equal(t, service.DeletePrompt, req.Prompt)

	next, _ = m.Update(req)
	m = next.(Model)
	assert.Contains(t, m.View(), service.DeletePrompt)

	// Unrelated keys leave the prompt open.
	m = press(t, m, runes("c"))
	require.NotNil(t, m.confirm)

	m = press(t, m, answer)
	assert.Nil(t, m.confirm)

	select {
	case msg := <-result:
		next, _ = m.Update(msg)
		m = next.(Model)
	case <-time.After(2 * time.Second):
		t.Fatal("delete never completed")
	}
	return m, session
}

func TestModel_DeleteConfirmed(t *testing.T) {
	m, session := deleteFlow(t, runes("y"))

	assert.Equal(t, "Product deleted successfully!", m.notice)
	assert.Equal(t, 4, m.view.FilteredCount)
	assert.Equal(t, "#0002", m.table.Rows()[0][0])

	v, err := session.View(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, v.FilteredCount)
}

func TestModel_DeleteDeclined(t *testing.T) {
	m, _ := deleteFlow(t, runes("n"))

	assert.Empty(t, m.notice)
	assert.Equal(t, 5, m.view.FilteredCount)
}

func TestModel_SecondConfirmIsDeclined(t *testing.T) {
	m, _, _ := newTestModel(t)

	first := make(chan bool, 1)
	second := make(chan bool, 1)

	next, _ := m.Update(ConfirmRequestMsg{Prompt: "first", reply: first})
	m = next.(Model)
	next, _ = m.Update(ConfirmRequestMsg{Prompt: "second", reply: second})
	m = next.(Model)

	assert.False(t, <-second)
	assert.Equal(t, "first", m.confirm.Prompt)

	m = press(t, m, runes("Y"))
	assert.True(t, <-first)
}

func TestModel_RefreshMsg(t *testing.T) {
	m, session, _ := newTestModel(t)

	session.SetCategory(context.Background(), "Tools")
	assert.Equal(t, 5, m.view.FilteredCount)

	next, _ := m.Update(RefreshMsg{})
	assert.Equal(t, 1, next.(Model).view.FilteredCount)
}

func TestBridge_NotAttached(t *testing.T) {
	b := NewBridge()

	assert.False(t, b.Send(RefreshMsg{}))
	ok, err := b.Confirm(context.Background(), "sure?")
	assert.ErrorIs(t, err, ErrNotAttached)
	assert.False(t, ok)
}

func TestBridge_ConfirmHonoursContext(t *testing.T) {
	b := NewBridge()
	b.attach(func(tea.Msg) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := b.Confirm(ctx, "sure?")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestBridge_Refresh(t *testing.T) {
	b := NewBridge()
	got := make(chan tea.Msg, 1)
	b.attach(func(msg tea.Msg) { got <- msg })

	b.Refresh()
	select {
	case msg := <-got:
		assert.IsType(t, RefreshMsg{}, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("refresh was never delivered")
	}
}
