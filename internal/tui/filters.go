package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/wallr/internal/filter"
)

type filterField int

const (
	fieldCategories filterField = iota
	fieldPurity
	fieldSorting
	fieldOrder
	fieldTopRange
	fieldAtLeast
	fieldResolutions
	fieldRatios
	fieldColor
	fieldExclude
	filterFieldCount
)

func (f filterField) label() string {
	switch f {
	case fieldCategories:
		return "Categories"
	case fieldPurity:
		return "Purity"
	case fieldSorting:
		return "Sort by"
	case fieldOrder:
		return "Order"
	case fieldTopRange:
		return "Top range"
	case fieldAtLeast:
		return "At least"
	case fieldResolutions:
		return "Resolutions"
	case fieldRatios:
		return "Ratios"
	case fieldColor:
		return "Color"
	case fieldExclude:
		return "Exclude tags"
	default:
		return "?"
	}
}

func (f filterField) placeholder() string {
	switch f {
	case fieldAtLeast:
		return "1920x1080"
	case fieldResolutions:
		return "1920x1080,2560x1440"
	case fieldRatios:
		return "16x9,landscape"
	case fieldColor:
		return "#660000"
	case fieldExclude:
		return "cars,anime girls"
	default:
		return ""
	}
}

// Text fields are edited in a text input; the rest change in place.
func (f filterField) isText() bool { return f >= fieldAtLeast }

var (
	sortings  = []filter.Sorting{filter.DateAdded, filter.Relevance, filter.Random, filter.Views, filter.Favorites, filter.Toplist}
	orders    = []filter.Order{filter.Desc, filter.Asc}
	topRanges = []filter.TopRange{filter.OneDay, filter.ThreeDays, filter.OneWeek, filter.OneMonth, filter.ThreeMonths, filter.SixMonths, filter.OneYear}
)

// filterEditor edits a draft of the search filters. The draft only reaches
// a search when the editor is applied.
type filterEditor struct {
	draft   filter.Filters
	field   filterField
	chip    int
	input   textinput.Model
	editing bool
}

func newFilterEditor(f filter.Filters) filterEditor {
	in := textinput.New()
	in.CharLimit = 256
	return filterEditor{draft: f.Clone(), input: in}
}

// move selects another field, wrapping at both ends.
func (e *filterEditor) move(delta int) {
	n := int(filterFieldCount)
	e.field = filterField((int(e.field) + delta + n) % n)
	e.chip = 0
}

// shift moves the chip cursor on chip rows and cycles the value on choice
// rows.
func (e *filterEditor) shift(delta int) {
	switch e.field {
	case fieldCategories, fieldPurity:
		e.chip = (e.chip + delta + 3) % 3
	case fieldSorting:
		e.draft.Sorting = cycle(sortings, e.draft.Sorting, delta)
	case fieldOrder:
		e.draft.Order = cycle(orders, e.draft.Order, delta)
	case fieldTopRange:
		e.draft.TopRange = cycle(topRanges, e.draft.TopRange, delta)
	}
}

// toggle flips the chip under the cursor. The last selected chip of a row
// stays selected.
func (e *filterEditor) toggle() {
	switch e.field {
	case fieldCategories:
		c := filter.AllCategories[e.chip]
		if !e.draft.HasCategory(c) {
			e.draft.Categories = append(e.draft.Categories, c)
		} else if len(e.draft.Categories) > 1 {
			e.draft.Categories = without(e.draft.Categories, c)
		}
	case fieldPurity:
		p := filter.AllPurities[e.chip]
		if !e.draft.HasPurity(p) {
			e.draft.Purity = append(e.draft.Purity, p)
		} else if len(e.draft.Purity) > 1 {
			e.draft.Purity = without(e.draft.Purity, p)
		}
	default:
		e.shift(1)
	}
}

func (e *filterEditor) beginEdit() tea.Cmd {
	e.editing = true
	e.input.Placeholder = e.field.placeholder()
	e.input.SetValue(e.text(e.field))
	e.input.CursorEnd()
	return e.input.Focus()
}

func (e *filterEditor) cancelEdit() {
	e.editing = false
	e.input.Blur()
}

// commitEdit parses the input into the draft. Entries that do not parse are
// left out; ok is false when that happened.
func (e *filterEditor) commitEdit() (ok bool) {
	e.editing = false
	e.input.Blur()
	value := strings.TrimSpace(e.input.Value())
	ok = true

	switch e.field {
	case fieldAtLeast:
		e.draft.MinSize = nil
		if value != "" {
			if s, parsed := filter.ParseSize(value); parsed {
				e.draft.MinSize = &s
			} else {
				ok = false
			}
		}
	case fieldResolutions:
		e.draft.Resolutions = nil
		for _, part := range splitList(value) {
			if s, parsed := filter.ParseSize(part); parsed {
				e.draft.Resolutions = append(e.draft.Resolutions, s)
			} else {
				ok = false
			}
		}
	case fieldRatios:
		e.draft.Ratios = nil
		for _, part := range splitList(value) {
			if r, parsed := filter.ParseRatio(strings.ToLower(part)); parsed {
				e.draft.Ratios = append(e.draft.Ratios, r)
			} else {
				ok = false
			}
		}
	case fieldColor:
		e.draft.Color = nil
		if value != "" {
			if c, parsed := filter.ParseColor(value); parsed {
				e.draft.Color = c
			} else {
				ok = false
			}
		}
	case fieldExclude:
		e.draft.ExcludedTags = splitList(value)
	}
	return ok
}

// reset puts every field back to the defaults.
func (e *filterEditor) reset() {
	e.draft = filter.Default()
	e.chip = 0
}

// text is the editable form of a text field.
func (e filterEditor) text(field filterField) string {
	switch field {
	case fieldAtLeast:
		if e.draft.MinSize != nil {
			return e.draft.MinSize.String()
		}
	case fieldResolutions:
		return filter.ResolutionsCSV(e.draft.Resolutions)
	case fieldRatios:
		return filter.RatiosCSV(e.draft.Ratios)
	case fieldColor:
		if e.draft.Color != nil {
			return "#" + e.draft.Color.Hex()
		}
	case fieldExclude:
		return strings.Join(e.draft.ExcludedTags, ",")
	}
	return ""
}

func (e filterEditor) value(field filterField, selected bool) string {
	switch field {
	case fieldCategories:
		chips := make([]string, len(filter.AllCategories))
		for i, c := range filter.AllCategories {
			chips[i] = chip(c.String(), e.draft.HasCategory(c), selected && i == e.chip)
		}
		return strings.Join(chips, " ")
	case fieldPurity:
		chips := make([]string, len(filter.AllPurities))
		for i, p := range filter.AllPurities {
			chips[i] = chip(p.String(), e.draft.HasPurity(p), selected && i == e.chip)
		}
		return strings.Join(chips, " ")
	case fieldSorting:
		return "‹ " + e.draft.Sorting.String() + " ›"
	case fieldOrder:
		return "‹ " + e.draft.Order.String() + " ›"
	case fieldTopRange:
		v := "‹ " + e.draft.TopRange.String() + " ›"
		if e.draft.Sorting != filter.Toplist {
			return muted(v + "  toplist only")
		}
		return v
	}
	if v := e.text(field); v != "" {
		return v
	}
	return muted("any")
}

func (e filterEditor) view(width int) string {
	rows := []string{panelTitle("› filters", "", width), ""}
	for f := filterField(0); f < filterFieldCount; f++ {
		selected := f == e.field
		label := fmt.Sprintf("%-13s", f.label())
		marker := "  "
		if selected {
			marker = "› "
			label = SelectedItemStyle.Render(label)
		}
		value := e.value(f, selected)
		if selected && e.editing {
			value = queryBox(e.input.View(), true, max(width/2, 20))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, marker, label, " ", value))
	}

	help := "↑↓: field • ←→: choose • space: toggle • enter: edit/apply • x: reset • esc: cancel"
	if e.editing {
		help = "enter: keep • esc: discard"
	}
	rows = append(rows, "", hint(help))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func chip(label string, on, cursor bool) string {
	box := "[ ] "
	if on {
		box = "[x] "
	}
	if cursor {
		return SelectedItemStyle.Render(box + label)
	}
	if on {
		return box + label
	}
	return muted(box + label)
}

func cycle[T comparable](values []T, current T, delta int) T {
	for i, v := range values {
		if v == current {
			return values[(i+delta+len(values))%len(values)]
		}
	}
	return values[0]
}

func without[T comparable](values []T, drop T) []T {
	out := make([]T, 0, len(values))
	for _, v := range values {
		if v != drop {
			out = append(out, v)
		}
	}
	return out
}

// splitList splits comma separated input and drops blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
