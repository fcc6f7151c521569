package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ramonehamilton/card-binder/internal/binder"
	"github.com/ramonehamilton/card-binder/internal/card"
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Card Binder"))
	b.WriteString("\n")

	left := m.renderPage(m.spread.Left, 0, m.flip == binder.Prev)
	right := m.renderPage(m.spread.Right, gridCols, m.flip == binder.Next)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")
	b.WriteString(m.renderIndicator())
	b.WriteString("\n")

	switch m.mode {
	case modeSearch:
		b.WriteString(m.renderSearch())
		b.WriteString("\n")
	case modeDetails:
		b.WriteString(m.renderDetails())
		b.WriteString("\n")
	}

	if m.status != "" {
		style := dimStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString(" " + style.Render(m.status) + "\n")
	}
	b.WriteString(dimStyle.Render(" " + m.help()))
	return b.String()
}

func (m *Model) renderPage(batch binder.Batch, colOffset int, turning bool) string {
	rows := make([]string, 0, binder.SlotsPerPage/gridCols)
	for r := 0; r < binder.SlotsPerPage/gridCols; r++ {
		cells := make([]string, 0, gridCols)
		for c := 0; c < gridCols; c++ {
			i := r*gridCols + c
			slot := r*2*gridCols + colOffset + c
			if i >= batch.Len() {
				cells = append(cells, emptySlotStyle.Render(""))
				continue
			}
			style := slotStyle
			if m.mode == modeBrowse && slot == m.cursor {
				style = slotCursorStyle
			}
			cells = append(cells, style.Render(cardCell(batch.Cards[i])))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	style := pageStyle
	if turning {
		style = pageTurningStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func cardCell(cd card.Card) string {
	name := truncate(cd.Name, cellWidth)
	if !cd.Renderable() {
		name = dimStyle.Render(truncate(cd.Name, cellWidth-2) + " ?")
	}
	lines := []string{name}
	if cd.SetName != "" {
		lines = append(lines, dimStyle.Render(truncate(cd.SetName, cellWidth)))
	}
	if price, ok := cd.PriceEUR(); ok {
		lines = append(lines, priceStyle.Render(price+" €"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderIndicator() string {
	text := " " + m.spread.Indicator
	if m.spread.Locked {
		text += " " + m.spinner.View()
	}
	if m.spread.TotalViews > 1 {
		text += "  " + m.pager.View()
	}
	return text
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.search.Pending:
		b.WriteString(m.spinner.View() + " Searching " + m.search.Query)
	case m.search.NotFound:
		b.WriteString(errorStyle.Render(binder.MsgNotFound))
	default:
		for i, cd := range m.search.Results {
			line := fmt.Sprintf("%2d. %s", i+1, cd.Name)
			if cd.SetName != "" {
				line += dimStyle.Render(" (" + cd.SetName + ")")
			}
			if i == m.searchCursor {
				line = selectedStyle.Render("> ") + line
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderDetails() string {
	cd := m.details.Card
	var b strings.Builder
	b.WriteString(selectedStyle.Render(cd.Name))
	if price, ok := cd.PriceEUR(); ok {
		b.WriteString("  " + priceStyle.Render(price+" €"))
	}
	b.WriteString("\n")
	if text := cd.ResolvedOracleText(); text != "" {
		b.WriteString(text + "\n")
	}
	if img := cd.ImagePNG(); img != "" {
		b.WriteString(dimStyle.Render(img) + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.details.ReprintsPending:
		b.WriteString(m.spinner.View() + " Loading printings")
	case len(m.details.Reprints) == 0:
		b.WriteString(dimStyle.Render(binder.MsgNoReprints))
	default:
		b.WriteString("Other printings:\n")
		for i, rp := range m.details.Reprints {
			line := rp.SetName
			if line == "" {
				line = rp.ID
			}
			if i == m.reprintCursor {
				line = selectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) help() string {
	switch m.mode {
	case modeSearch:
		return "enter: search/add • ↑/↓: select • esc: back"
	case modeDetails:
		return "↑/↓: select printing • enter: swap • esc: close"
	default:
		return "n/p: turn page • arrows: move • enter: details • /: search • C: clear • q: quit"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
