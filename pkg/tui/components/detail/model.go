// Package detail renders the side panel of the selected set: its missing
// parts, missing figures and notes.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/bricks/pkg/catalog"
	"tableflip.dev/bricks/pkg/selection"
	"tableflip.dev/bricks/pkg/tui/events"
	"tableflip.dev/bricks/pkg/tui/theme"
)

// Section is the part of the panel receiving keys.
type Section int

const (
	SectionParts Section = iota
	SectionFigs
	SectionNotes
)

func (s Section) String() string {
	switch s {
	case SectionParts:
		return "parts"
	case SectionFigs:
		return "figs"
	case SectionNotes:
		return "notes"
	}
	return "unknown"
}

// Model is the detail panel. It edits the selection buffers in place.
type Model struct {
	id      events.ComponentID
	theme   theme.Theme
	catalog *catalog.Store

	buffers *selection.Buffers
	sel     selection.Selection
	open    bool
	image   string

	focused bool
	section Section
	cursor  [2]int
	filter  string
	notes   textarea.Model

	width  int
	height int
}

// New builds a closed panel.
func New(id events.ComponentID, th theme.Theme, cat *catalog.Store) *Model {
	notes := textarea.New()
	notes.ShowLineNumbers = false
	notes.Placeholder = "Notes"
	notes.Prompt = ""
	notes.Blur()
	return &Model{id: id, theme: th, catalog: cat, notes: notes}
}

// Open shows sel, editing b.
func (m *Model) Open(sel selection.Selection, b *selection.Buffers) {
	m.sel, m.buffers, m.open = sel, b, true
	m.cursor = [2]int{}
	m.filter = ""
	m.image = "image: loading"
	m.notes.SetValue(b.Notes)
}

// Close hides the panel.
func (m *Model) Close() {
	m.open = false
	m.buffers = nil
	m.sel = selection.Selection{}
	m.Blur()
}

// IsOpen reports whether a set is shown.
func (m *Model) IsOpen() bool { return m.open }

// Number is the set shown.
func (m *Model) Number() string { return m.sel.Number }

// SetImage records the outcome of the image lookup for number.
func (m *Model) SetImage(number, path string, err error) {
	if !m.open || number != m.sel.Number {
		return
	}
	switch {
	case err != nil:
		m.image = "image: unavailable"
	default:
		m.image = "image: " + path
	}
}

// SetFilter limits the part and figure lists to numbers containing query.
func (m *Model) SetFilter(query string) {
	m.filter = strings.TrimSpace(query)
	m.cursor = [2]int{}
}

// Filter is the active list filter.
func (m *Model) Filter() string { return m.filter }

// Refresh re-reads the buffers after they were edited elsewhere.
func (m *Model) Refresh() {
	if !m.open {
		return
	}
	m.clampCursor(SectionParts)
	m.clampCursor(SectionFigs)
	if m.section != SectionNotes || !m.focused {
		m.notes.SetValue(m.buffers.Notes)
	}
}

// Focus gives keys to section.
func (m *Model) Focus(section Section) tea.Cmd {
	m.focused = true
	m.section = section
	if section == SectionNotes {
		return m.notes.Focus()
	}
	m.notes.Blur()
	return nil
}

// Blur returns keys to the caller.
func (m *Model) Blur() {
	m.focused = false
	m.notes.Blur()
}

// Focused reports whether the panel has keys.
func (m *Model) Focused() bool { return m.focused }

// Section is the focused section.
func (m *Model) Section() Section { return m.section }

// SetSize resizes the panel.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	m.notes.SetWidth(inner)
	m.notes.SetHeight(max(3, height/4))
}

func (m *Model) visible(section Section) []int {
	if m.buffers == nil {
		return nil
	}
	if section == SectionParts {
		return m.buffers.FilterParts(m.filter)
	}
	return m.buffers.FilterFigs(m.filter)
}

func (m *Model) clampCursor(section Section) {
	n := len(m.visible(section))
	c := &m.cursor[section]
	if *c >= n {
		*c = n - 1
	}
	if *c < 0 {
		*c = 0
	}
}

// CursorLine returns the buffer index under the cursor of a list section.
func (m *Model) CursorLine() (int, bool) {
	if !m.open || m.section == SectionNotes {
		return 0, false
	}
	vis := m.visible(m.section)
	c := m.cursor[m.section]
	if c < 0 || c >= len(vis) {
		return 0, false
	}
	return vis[c], true
}

// Update handles keys for the focused section.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if !m.open || !m.focused {
		return nil
	}
	if m.section == SectionNotes {
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		m.buffers.SetNotes(m.notes.Value())
		return cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	prefix := "part"
	if m.section == SectionFigs {
		prefix = "fig"
	}
	switch key.String() {
	case "up", "k":
		m.cursor[m.section]--
		m.clampCursor(m.section)
	case "down", "j":
		m.cursor[m.section]++
		m.clampCursor(m.section)
	case "a":
		return events.CommandPrefillCmd(m.id, prefix+" ")
	case "x", "delete":
		line, ok := m.CursorLine()
		if !ok {
			return nil
		}
		if m.section == SectionParts {
			_ = m.buffers.RemovePartAt(line)
		} else {
			_ = m.buffers.RemoveFigAt(line)
		}
		m.clampCursor(m.section)
	case "c":
		if line, ok := m.CursorLine(); ok && m.section == SectionParts {
			return events.CommandPrefillCmd(m.id, fmt.Sprintf("color %d ", line+1))
		}
	case "n":
		if line, ok := m.CursorLine(); ok {
			return events.CommandPrefillCmd(m.id, fmt.Sprintf("%sqty %d ", prefix[:1], line+1))
		}
	}
	return nil
}

// View renders the panel.
func (m *Model) View() string {
	if !m.open {
		return ""
	}
	panel := m.theme.Panel
	var b strings.Builder

	title := m.sel.Number
	if set, ok := m.catalog.Set(m.sel.Number); ok {
		title += " " + set.Name
	}
	b.WriteString(panel.Title.Render(title) + "\n")
	b.WriteString(panel.Muted.Render("Released "+m.sel.ReleaseDate+"   "+m.image) + "\n")
	if m.filter != "" {
		b.WriteString(panel.Muted.Render("filter: "+m.filter) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.heading(SectionParts, fmt.Sprintf("Missing parts (%d)", len(m.buffers.Parts))) + "\n")
	for i, idx := range m.visible(SectionParts) {
		p := m.buffers.Parts[idx]
		line := fmt.Sprintf("%2d %-10s %s %s", idx+1, p.PartNumber, p.Quantity, m.colorLabel(p.ColorName))
		b.WriteString(m.cursorLine(SectionParts, i, line) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.heading(SectionFigs, fmt.Sprintf("Missing figs (%d)", len(m.buffers.Figs))) + "\n")
	for i, idx := range m.visible(SectionFigs) {
		f := m.buffers.Figs[idx]
		line := fmt.Sprintf("%2d %-10s %s", idx+1, f.FigNumber, f.Quantity)
		b.WriteString(m.cursorLine(SectionFigs, i, line) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.heading(SectionNotes, "Notes") + "\n")
	b.WriteString(m.notes.View())

	frame := panel.Frame
	if m.focused {
		frame = panel.FocusedFrame
	}
	if m.width > 2 {
		frame = frame.Width(m.width - 2)
	}
	return frame.Render(b.String())
}

func (m *Model) heading(section Section, text string) string {
	style := m.theme.Panel.Heading
	if m.focused && m.section == section {
		style = style.Foreground(lipgloss.Color("212"))
	}
	return style.Render(text)
}

func (m *Model) cursorLine(section Section, i int, line string) string {
	if m.focused && m.section == section && m.cursor[section] == i {
		return m.theme.Panel.Cursor.Render(line)
	}
	return line
}

func (m *Model) colorLabel(name string) string {
	c, err := m.catalog.ColorByName(name)
	if err != nil {
		return m.theme.Table.Missing.Render(name + " (?)")
	}
	return theme.Swatch(c.Hex()) + " " + c.Name
}
