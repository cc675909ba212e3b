// Package settable renders the owned sets in a scrollable table.
package settable

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"tableflip.dev/bricks/pkg/collection/viewmodel"
	"tableflip.dev/bricks/pkg/printers"
	"tableflip.dev/bricks/pkg/tui/events"
	"tableflip.dev/bricks/pkg/tui/theme"
)

const (
	colKeyNumber = "number"
	colKeyName   = "name"
	colKeyTheme  = "theme"
	colKeyQty    = "qty"
	colKeyBoxes  = "boxes"
	colKeyInstr  = "instr"
	colKeyParts  = "parts"
	colKeyWeight = "weight"
	colKeyMParts = "mparts"
	colKeyMFigs  = "mfigs"
	colKeyNotes  = "notes"
)

// Model wraps a bubble-table with the set columns.
type Model struct {
	id     events.ComponentID
	theme  theme.Theme
	table  table.Model
	rows   []viewmodel.Row
	width  int
	height int
}

// New builds an empty table.
func New(id events.ComponentID, th theme.Theme) *Model {
	m := &Model{id: id, theme: th}
	m.table = m.build()
	return m
}

func (m *Model) columns() []table.Column {
	right := lipgloss.NewStyle().Align(lipgloss.Right)
	return []table.Column{
		table.NewColumn(colKeyNumber, "N°", 10),
		table.NewFlexColumn(colKeyName, "Name", 3),
		table.NewFlexColumn(colKeyTheme, "Theme", 2),
		table.NewColumn(colKeyQty, "Qty", 5).WithStyle(right),
		table.NewColumn(colKeyBoxes, "Boxes", 6).WithStyle(right),
		table.NewColumn(colKeyInstr, "Instr", 6).WithStyle(right),
		table.NewColumn(colKeyParts, "Parts", 7).WithStyle(right),
		table.NewColumn(colKeyWeight, "Weight", 9).WithStyle(right),
		table.NewColumn(colKeyMParts, "MPrts", 6).WithStyle(right),
		table.NewColumn(colKeyMFigs, "MFigs", 6).WithStyle(right),
		table.NewColumn(colKeyNotes, "Notes", 6).WithStyle(right),
	}
}

func (m *Model) build() table.Model {
	pageSize := m.height - 4
	if pageSize < 1 {
		pageSize = 1
	}
	width := m.width
	if width < 40 {
		width = 40
	}
	return table.New(m.columns()).
		WithRows(m.tableRows()).
		Focused(true).
		WithTargetWidth(width).
		WithMaxTotalWidth(width).
		WithPageSize(pageSize).
		WithFooterVisibility(false).
		HeaderStyle(m.theme.Table.Header).
		BorderRounded().
		WithBaseStyle(m.theme.Table.Base)
}

func (m *Model) tableRows() []table.Row {
	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		weight := table.NewStyledCell(printers.Weight(r.WeightGrams), lipgloss.NewStyle())
		if r.WeightGrams == nil {
			weight = table.NewStyledCell(printers.WeightPlaceholder, m.theme.Table.Unknown)
		}
		rows = append(rows, table.NewRow(table.RowData{
			colKeyNumber: r.Number,
			colKeyName:   r.Name,
			colKeyTheme:  r.ThemeLabel,
			colKeyQty:    strconv.Itoa(r.Quantity),
			colKeyBoxes:  strconv.Itoa(r.Boxes),
			colKeyInstr:  strconv.Itoa(r.Instructions),
			colKeyParts:  strconv.Itoa(r.TotalParts),
			colKeyWeight: weight,
			colKeyMParts: m.missingCell(r.MissingPartsTotal),
			colKeyMFigs:  m.missingCell(r.MissingFigsTotal),
			colKeyNotes:  strconv.Itoa(r.NotesLineCount),
		}))
	}
	return rows
}

func (m *Model) missingCell(n int) table.StyledCell {
	style := lipgloss.NewStyle()
	if n > 0 {
		style = m.theme.Table.Missing
	}
	return table.NewStyledCell(strconv.Itoa(n), style)
}

// SetSize resizes the table.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	idx := m.table.GetHighlightedRowIndex()
	m.table = m.build().WithHighlightedRow(idx)
}

// SetRows replaces the displayed rows, keeping the cursor on the same set
// when it is still shown.
func (m *Model) SetRows(rows []viewmodel.Row) {
	current, had := m.Highlighted()
	m.rows = append(m.rows[:0:0], rows...)
	m.table = m.table.WithRows(m.tableRows())

	idx := 0
	if had {
		if i := viewmodel.Index(m.rows, current.Number); i >= 0 {
			idx = i
		} else {
			idx = min(m.table.GetHighlightedRowIndex(), len(m.rows)-1)
		}
	}
	if idx < 0 {
		idx = 0
	}
	m.table = m.table.WithHighlightedRow(idx)
}

// Rows returns the displayed rows.
func (m *Model) Rows() []viewmodel.Row {
	return m.rows
}

// Highlighted returns the row under the cursor.
func (m *Model) Highlighted() (viewmodel.Row, bool) {
	idx := m.table.GetHighlightedRowIndex()
	if idx < 0 || idx >= len(m.rows) {
		return viewmodel.Row{}, false
	}
	return m.rows[idx], true
}

// HighlightNumber moves the cursor onto number when it is shown.
func (m *Model) HighlightNumber(number string) bool {
	idx := viewmodel.Index(m.rows, number)
	if idx < 0 {
		return false
	}
	m.table = m.table.WithHighlightedRow(idx)
	return true
}

// Focus routes keys to the table.
func (m *Model) Focus() {
	m.table = m.table.Focused(true)
}

// Blur stops key handling.
func (m *Model) Blur() {
	m.table = m.table.Focused(false)
}

// Update moves the cursor and reports highlight and activation changes.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	before, _ := m.Highlighted()
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if row, ok := m.Highlighted(); ok {
			return events.SetActivateCmd(m.id, row.Number)
		}
		return nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	after, ok := m.Highlighted()
	if ok && after.Number != before.Number {
		return tea.Batch(cmd, events.SetHighlightCmd(m.id, after.Number))
	}
	return cmd
}

// View renders the table.
func (m *Model) View() string {
	if len(m.rows) == 0 {
		return m.theme.Panel.Muted.Render("No sets. Press a to add one.")
	}
	return m.table.View()
}
