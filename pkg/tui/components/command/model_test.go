package command

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/bricks/pkg/tui/events"
)

func newBar() *Model {
	cmd := NewModel(Options{ID: "test-command", PromptPrefix: ":", StatusText: "Ready"})
	cmd.SetSuggestions([]SuggestionOption{
		{Name: "add", Description: "Add a set"},
		{Name: "rm", Description: "Remove a set"},
		{Name: "save", Description: "Save the collection"},
	})
	cmd.SetSize(60, 10)
	return cmd
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestColonEntersInputMode(t *testing.T) {
	m := newBar()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{':'}})
	if !m.InInputMode() {
		t.Fatalf("expected input mode after ':'")
	}
	if got := len(m.Suggestions()); got != 3 {
		t.Fatalf("expected all suggestions, got %d", got)
	}
	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[len(lines)-1], ":") {
		t.Fatalf("expected prompt on last line, got %q", lines[len(lines)-1])
	}
	if !strings.Contains(view, "Remove a set") {
		t.Fatalf("expected suggestions in view:\n%s", view)
	}
}

func TestSuggestionsFilterByPrefix(t *testing.T) {
	m := newBar()
	m.BeginInput("")
	typeText(m, "s")
	got := m.Suggestions()
	if len(got) != 1 || got[0].Name != "save" {
		t.Fatalf("unexpected suggestions %+v", got)
	}
	typeText(m, "ave 1")
	if len(m.Suggestions()) != 0 {
		t.Fatalf("expected arguments to hide suggestions")
	}
}

func TestTabCompletesAndEscRestores(t *testing.T) {
	m := newBar()
	m.BeginInput("r")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.Value() != "rm " {
		t.Fatalf("expected completion, got %q", m.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Value() != "r" || !m.InInputMode() {
		t.Fatalf("expected esc to restore typed text, got %q", m.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.InInputMode() {
		t.Fatalf("expected second esc to leave input mode")
	}
}

func TestEnterSubmits(t *testing.T) {
	m := newBar()
	m.BeginInput("")
	typeText(m, "add 7140")
	msgs := collect(m.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	var submitted string
	for _, msg := range msgs {
		if s, ok := msg.(events.CommandSubmitMsg); ok {
			submitted = s.Value
		}
	}
	if submitted != "add 7140" {
		t.Fatalf("expected submit of %q, got %q (%v)", "add 7140", submitted, msgs)
	}
	if m.InInputMode() {
		t.Fatalf("expected passive mode after submit")
	}
}

func TestPassiveShowsStatus(t *testing.T) {
	m := newBar()
	m.SetStatus("3 sets")
	lines := strings.Split(m.View(), "\n")
	if !strings.Contains(lines[len(lines)-1], "3 sets") {
		t.Fatalf("expected status on the bar, got %q", lines[len(lines)-1])
	}
}
