package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/wallr/internal/search"
)

// maxHints is how many key hints the status bar shows before "?: more".
const maxHints = 4

// panelTitle renders a view title with the active search summary under it.
func panelTitle(title, summary string, width int) string {
	lines := []string{HeaderStyle.Render(truncateEnd(title, width-2))}
	if summary = truncateEnd(summary, width-2); summary != "" {
		lines = append(lines, muted(summary))
	}
	return lipgloss.JoinVertical(lipgloss.Top, lines...)
}

// queryBox frames the search input; the border lights up while it has focus.
func queryBox(input string, focused bool, inputWidth int) string {
	border := MutedColor
	if focused {
		border = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(inputWidth + 4).
		Render(input)
}

// suggestionRows renders tag suggestions, marking the highlighted one.
func suggestionRows(results []search.Result, highlighted int) []string {
	rows := make([]string, 0, len(results))
	for i, r := range results {
		category := muted(r.Tag.Category)
		if i == highlighted {
			rows = append(rows, SelectedItemStyle.Render("› "+r.Tag.Name)+"  "+category)
			continue
		}
		rows = append(rows, SuggestionStyle.Render(fmt.Sprintf("  %s  %s", r.Tag.Name, category)))
	}
	return rows
}

// placeholder centers an empty-state message in the content area.
func placeholder(width, height int, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(text)
}

// keyHints joins the hints for the status bar, collapsing the tail unless
// the full help is open.
func keyHints(hints []string, expanded bool) string {
	if !expanded && len(hints) > maxHints {
		hints = append(hints[:maxHints:maxHints], "?: more")
	}
	return muted(strings.Join(hints, " • "))
}

// errorLine is the status bar text for a failed operation.
func errorLine(err error) string {
	return ErrorMessageStyle.Render("✗ " + err.Error())
}

func muted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

func hint(text string) string {
	return HelpStyle.Render(text)
}
