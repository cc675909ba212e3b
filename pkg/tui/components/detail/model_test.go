package detail

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/bricks/pkg/catalog/catalogtest"
	"tableflip.dev/bricks/pkg/selection"
	"tableflip.dev/bricks/pkg/tui/events"
	"tableflip.dev/bricks/pkg/tui/theme"
)

func stripANSIString(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func openPanel(t *testing.T) (*Model, *selection.Buffers) {
	t.Helper()
	b := &selection.Buffers{
		Parts: []selection.PartLine{
			{PartNumber: "3001", ColorName: "Red", Quantity: "2"},
			{PartNumber: "3002", ColorName: "Plaid", Quantity: "1"},
		},
		Figs:         []selection.FigLine{{FigNumber: "sw0001", Quantity: "1"}},
		Notes:        "bag 3",
		DefaultColor: "Black",
	}
	m := New("detail", theme.Default(), catalogtest.Fixture(t))
	m.SetSize(50, 30)
	m.Open(selection.Selection{Number: "7140-1", ReleaseDate: "1999", Selected: true}, b)
	return m, b
}

func TestViewListsLines(t *testing.T) {
	m, _ := openPanel(t)
	view := stripANSIString(m.View())
	for _, want := range []string{"7140-1 X-wing Fighter", "Released 1999", "Missing parts (2)", "3001", "Red", "Plaid (?)", "sw0001", "bag 3"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestRemoveLineUnderCursor(t *testing.T) {
	m, b := openPanel(t)
	m.Focus(SectionParts)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if line, ok := m.CursorLine(); !ok || line != 1 {
		t.Fatalf("expected cursor on line 1, got %d", line)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if len(b.Parts) != 1 || b.Parts[0].PartNumber != "3001" {
		t.Fatalf("unexpected parts %+v", b.Parts)
	}
	if line, ok := m.CursorLine(); !ok || line != 0 {
		t.Fatalf("expected cursor clamped to line 0, got %d", line)
	}
}

func TestKeysPrefillCommands(t *testing.T) {
	m, _ := openPanel(t)
	m.Focus(SectionParts)
	cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if cmd == nil {
		t.Fatalf("expected a prefill command")
	}
	if msg := cmd().(events.CommandPrefillMsg); msg.Value != "color 1 " {
		t.Fatalf("unexpected prefill %q", msg.Value)
	}

	m.Focus(SectionFigs)
	cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if msg := cmd().(events.CommandPrefillMsg); msg.Value != "fqty 1 " {
		t.Fatalf("unexpected prefill %q", msg.Value)
	}
}

func TestNotesEditUpdatesBuffers(t *testing.T) {
	m, b := openPanel(t)
	m.Focus(SectionNotes)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("!")})
	if b.Notes != "bag 3!" {
		t.Fatalf("expected notes to follow the editor, got %q", b.Notes)
	}
}

func TestFilterAndImage(t *testing.T) {
	m, _ := openPanel(t)
	m.SetFilter("3002")
	m.Focus(SectionParts)
	if line, ok := m.CursorLine(); !ok || line != 1 {
		t.Fatalf("expected filtered cursor on line 1, got %d", line)
	}

	m.SetImage("9-1", "/tmp/9-1.jpg", nil)
	if strings.Contains(m.View(), "/tmp/9-1.jpg") {
		t.Fatalf("image of another set must be ignored")
	}
	m.SetImage("7140-1", "/tmp/7140-1.jpg", nil)
	if !strings.Contains(stripANSIString(m.View()), "/tmp/7140-1.jpg") {
		t.Fatalf("expected image path in view")
	}

	m.Close()
	if m.IsOpen() || m.View() != "" {
		t.Fatalf("expected closed panel")
	}
}

func TestRemoveKeepsOtherColorOfSamePart(t *testing.T) {
	m, b := openPanel(t)
	b.Parts[1] = selection.PartLine{PartNumber: "3001", ColorName: "Blue", Quantity: "5"}
	m.Refresh()
	m.Focus(SectionParts)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if len(b.Parts) != 1 || b.Parts[0].ColorName != "Red" {
		t.Fatalf("expected the Red line to remain, got %+v", b.Parts)
	}
}
