package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const tableHeight = 12

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	filterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	countStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Background(lipgloss.Color("189")).Padding(0, 1)
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(1, 2)
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	promptStyle   = lipgloss.NewStyle().Bold(true).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("203")).Padding(0, 1)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62"))
)

func columns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Name", Width: 28},
		{Title: "Category", Width: 12},
		{Title: "Price", Width: 9},
		{Title: "Offer", Width: 5},
		{Title: "Suppliers", Width: 30},
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return s
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Product Inventory"))
	sb.WriteString("\n")
	sb.WriteString(subtitleStyle.Render("Manage your catalogue with ease"))
	sb.WriteString("\n\n")
	sb.WriteString(m.search.View())
	sb.WriteString("\n\n")

	filters := fmt.Sprintf("Category: %s [c]   Price: %s [p]   Offer: %s [o]",
		m.view.Category, m.view.PriceRange.Label(), m.view.OfferFilter.Label())
	sb.WriteString(filterStyle.Render(filters))
	sb.WriteString("   ")
	sb.WriteString(countStyle.Render(fmt.Sprintf("%d Results", m.view.FilteredCount)))
	sb.WriteString("\n\n")

	if len(m.view.Items) > 0 {
		sb.WriteString(boxStyle.Render(m.table.View()))
	} else {
		sb.WriteString(boxStyle.Render(emptyStyle.Render("No products found matching your filters.")))
	}
	sb.WriteString("\n")

	pager := pageLabel(m.view)
	if m.view.HasPrev {
		pager = "< " + pager
	}
	if m.view.HasNext {
		pager += " >"
	}
	sb.WriteString(pager)
	sb.WriteString("\n\n")

	switch {
	case m.confirm != nil:
		sb.WriteString(promptStyle.Render(m.confirm.Prompt + "  (y) Delete  (n) Cancel"))
		sb.WriteString("\n")
	case m.err != nil:
		sb.WriteString(errorStyle.Render(m.err.Error()))
		sb.WriteString("\n")
	case m.notice != "":
		sb.WriteString(noticeStyle.Render(m.notice))
		sb.WriteString("\n")
	}

	if m.focus == focusSearch {
		sb.WriteString(helpStyle.Render("Enter: search now | Tab: table | Esc: table | Ctrl+C: quit"))
	} else {
		sb.WriteString(helpStyle.Render("↑/↓: select | ←/→: page | c/p/o: filters | e: edit | d: delete | /: search | Esc: quit"))
	}

	return sb.String()
}
