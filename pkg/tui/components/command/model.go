package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/bricks/pkg/tui/events"
	"tableflip.dev/bricks/pkg/tui/theme"
)

// Options configures the command bar.
type Options struct {
	ID           events.ComponentID
	PromptPrefix string
	Placeholder  string
	StatusText   string
	Theme        *theme.Theme
}

// SuggestionOption represents a possible command the prompt can surface.
type SuggestionOption struct {
	Name        string
	Description string
}

// Mode identifies the command component operating state.
type Mode int

const (
	// ModePassive displays the command bar in status mode.
	ModePassive Mode = iota
	// ModeInput places the command bar in interactive input mode.
	ModeInput
)

// Model renders a sticky command bar with a suggestion list above it.
type Model struct {
	id    events.ComponentID
	mode  Mode
	theme theme.Theme

	width         int
	height        int
	contentHeight int

	contentView string
	status      string

	prompt       textinput.Model
	promptPrefix string

	lastPromptValue string

	suggestions         []SuggestionOption
	filteredSuggestions []SuggestionOption
	suggestionLimit     int
	suggestionIndex     int
	suggestionOriginal  string
	suggestionStart     int
}

// NewModel constructs a command bar with the provided options.
func NewModel(opts Options) *Model {
	prompt := textinput.New()
	prompt.Placeholder = opts.Placeholder
	prompt.Prompt = ""
	prompt.Blur()

	id := opts.ID
	if id == "" {
		id = events.ComponentID("command")
	}
	th := theme.Default()
	if opts.Theme != nil {
		th = *opts.Theme
	}

	return &Model{
		id:              id,
		mode:            ModePassive,
		theme:           th,
		status:          opts.StatusText,
		prompt:          prompt,
		promptPrefix:    opts.PromptPrefix,
		suggestionLimit: 8,
		suggestionIndex: -1,
	}
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// SetSize configures the viewport dimensions the component manages.
func (m *Model) SetSize(width, height int) {
	if width <= 0 {
		width = 1
	}
	if height <= 1 {
		height = 2
	}
	m.width = width
	m.height = height
	m.contentHeight = height - 1
	promptWidth := width - len(m.promptPrefix) - 1
	if promptWidth < 1 {
		promptWidth = 1
	}
	m.prompt.Width = promptWidth
	m.updateSuggestionWindow()
}

// SetContent stores the view that should appear above the command bar.
func (m *Model) SetContent(view string) {
	m.contentView = view
}

// SetStatus updates the passive status text.
func (m *Model) SetStatus(text string) {
	m.status = text
}

// SetSuggestions configures the available suggestion list.
func (m *Model) SetSuggestions(options []SuggestionOption) {
	m.suggestions = append([]SuggestionOption(nil), options...)
	m.applySuggestionFilter(m.prompt.Value(), true)
}

// Suggestions returns the suggestions matching the current input.
func (m *Model) Suggestions() []SuggestionOption {
	return append([]SuggestionOption(nil), m.filteredSuggestions...)
}

func (m *Model) applySuggestionFilter(value string, resetSelection bool) {
	if m.mode != ModeInput {
		m.filteredSuggestions = nil
		m.suggestionStart = 0
		return
	}

	// Only the command word is matched; arguments hide the list.
	if strings.Contains(strings.TrimLeft(value, " "), " ") {
		m.filteredSuggestions = nil
		m.suggestionIndex = -1
		return
	}

	prefix := strings.TrimSpace(strings.ToLower(value))
	matches := make([]SuggestionOption, 0, len(m.suggestions))
	if prefix == "" {
		matches = append(matches, m.suggestions...)
	} else {
		seen := make(map[string]struct{}, len(m.suggestions))
		for _, opt := range m.suggestions {
			if strings.HasPrefix(strings.ToLower(opt.Name), prefix) {
				matches = append(matches, opt)
				seen[opt.Name] = struct{}{}
			}
		}
		for _, opt := range m.suggestions {
			if _, ok := seen[opt.Name]; ok {
				continue
			}
			if strings.Contains(strings.ToLower(opt.Name), prefix) {
				matches = append(matches, opt)
			}
		}
	}
	m.filteredSuggestions = matches

	if resetSelection {
		m.suggestionIndex = -1
		m.suggestionStart = 0
		m.suggestionOriginal = value
	} else if m.suggestionIndex >= len(m.filteredSuggestions) {
		m.suggestionIndex = len(m.filteredSuggestions) - 1
	}
	m.updateSuggestionWindow()
}

func (m *Model) effectiveSuggestionLimit() int {
	limit := m.suggestionLimit
	if total := len(m.filteredSuggestions); limit > total {
		limit = total
	}
	if limit > m.contentHeight {
		limit = m.contentHeight
	}
	if limit < 0 {
		limit = 0
	}
	return limit
}

func (m *Model) updateSuggestionWindow() {
	total := len(m.filteredSuggestions)
	limit := m.effectiveSuggestionLimit()
	if total == 0 || limit == 0 {
		m.suggestionStart = 0
		return
	}
	if m.suggestionStart > total-limit {
		m.suggestionStart = total - limit
	}
	if m.suggestionStart < 0 {
		m.suggestionStart = 0
	}
	if m.suggestionIndex >= 0 {
		if m.suggestionIndex < m.suggestionStart {
			m.suggestionStart = m.suggestionIndex
		} else if m.suggestionIndex >= m.suggestionStart+limit {
			m.suggestionStart = m.suggestionIndex - limit + 1
		}
	}
}

func (m *Model) cycleSuggestion(delta int) bool {
	if m.mode != ModeInput {
		return false
	}
	total := len(m.filteredSuggestions)
	if total == 0 || m.effectiveSuggestionLimit() == 0 {
		return false
	}
	if m.suggestionIndex == -1 {
		if delta > 0 {
			m.suggestionIndex = 0
		} else {
			m.suggestionIndex = total - 1
		}
		m.suggestionOriginal = m.prompt.Value()
	} else {
		m.suggestionIndex = (m.suggestionIndex + delta) % total
		if m.suggestionIndex < 0 {
			m.suggestionIndex += total
		}
	}
	choice := m.filteredSuggestions[m.suggestionIndex]
	m.prompt.SetValue(choice.Name + " ")
	m.prompt.CursorEnd()
	m.updateSuggestionWindow()
	return true
}

func (m *Model) clearSuggestionSelection() bool {
	if m.suggestionIndex == -1 {
		return false
	}
	m.prompt.SetValue(m.suggestionOriginal)
	m.prompt.CursorEnd()
	m.suggestionIndex = -1
	m.updateSuggestionWindow()
	return true
}

// BeginInput switches the command bar into input mode.
func (m *Model) BeginInput(initial string) tea.Cmd {
	m.mode = ModeInput
	m.prompt.SetValue(initial)
	m.lastPromptValue = initial
	m.prompt.CursorEnd()
	m.applySuggestionFilter(initial, true)
	return tea.Batch(m.prompt.Focus(), events.CommandChangeCmd(m.id, initial, events.CommandModeInput))
}

// ExitInput returns the command bar to passive mode.
func (m *Model) ExitInput() tea.Cmd {
	m.mode = ModePassive
	m.prompt.Blur()
	m.prompt.SetValue("")
	m.lastPromptValue = ""
	m.filteredSuggestions = nil
	m.suggestionIndex = -1
	m.suggestionOriginal = ""
	m.suggestionStart = 0
	return events.CommandChangeCmd(m.id, "", events.CommandModePassive)
}

// InInputMode reports if the prompt is active.
func (m *Model) InInputMode() bool { return m.mode == ModeInput }

// Value returns the current prompt contents.
func (m *Model) Value() string {
	return m.prompt.Value()
}

// Update routes messages to the command prompt and suggestion list.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	handledKey := false

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			if m.mode == ModeInput {
				handledKey = true
				if m.clearSuggestionSelection() {
					cmds = append(cmds, m.noteChange())
					break
				}
				cmds = append(cmds, m.ExitInput(), events.CommandCancelCmd(m.id))
			}
		case "enter":
			if m.mode == ModeInput {
				handledKey = true
				value := strings.TrimSpace(m.prompt.Value())
				if value != "" {
					cmds = append(cmds, events.CommandSubmitCmd(m.id, value))
				}
				cmds = append(cmds, m.ExitInput())
			}
		case "up", "shift+tab":
			if m.cycleSuggestion(-1) {
				handledKey = true
				cmds = append(cmds, m.noteChange())
			}
		case "down", "tab":
			if m.cycleSuggestion(1) {
				handledKey = true
				cmds = append(cmds, m.noteChange())
			}
		case ":":
			if m.mode == ModePassive {
				return m.BeginInput("")
			}
		}
	}

	if !handledKey && m.mode == ModeInput {
		prev := m.prompt.Value()
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		cmds = append(cmds, cmd)
		if newVal := m.prompt.Value(); newVal != prev {
			m.applySuggestionFilter(newVal, true)
			cmds = append(cmds, m.noteChange())
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) noteChange() tea.Cmd {
	value := m.prompt.Value()
	if value == m.lastPromptValue {
		return nil
	}
	m.lastPromptValue = value
	return events.CommandChangeCmd(m.id, value, events.CommandModeInput)
}

// View renders the content, the suggestion list and the command bar.
func (m *Model) View() string {
	content := normalizeHeight(m.contentView, m.contentHeight)
	if rows := m.suggestionRows(); len(rows) > 0 {
		lines := strings.Split(content, "\n")
		copy(lines[len(lines)-len(rows):], rows)
		content = strings.Join(lines, "\n")
	}
	bar := m.renderCommandBar()
	if m.contentHeight == 0 {
		return bar
	}
	return content + "\n" + bar
}

func (m *Model) suggestionRows() []string {
	limit := m.effectiveSuggestionLimit()
	if m.mode != ModeInput || limit == 0 {
		return nil
	}
	end := m.suggestionStart + limit
	if end > len(m.filteredSuggestions) {
		end = len(m.filteredSuggestions)
	}
	footer := m.theme.Footer
	rows := make([]string, 0, end-m.suggestionStart)
	for i := m.suggestionStart; i < end; i++ {
		opt := m.filteredSuggestions[i]
		marker := "  "
		name := footer.CommandName.Render(opt.Name)
		desc := footer.CommandDescription.Render(opt.Description)
		if i == m.suggestionIndex {
			marker = "→ "
			name = footer.CommandSelectedName.Render(opt.Name)
			desc = footer.CommandSelectedDesc.Render(opt.Description)
		}
		rows = append(rows, padToWidth(marker+name+"  "+desc, m.width))
	}
	return rows
}

func (m *Model) renderCommandBar() string {
	var line string
	switch m.mode {
	case ModeInput:
		line = m.promptPrefix + m.prompt.View()
	default:
		status := m.status
		if status == "" {
			status = "Ready"
		}
		line = m.theme.Footer.Help.Render(status)
	}
	return padToWidth(line, m.width)
}

func normalizeHeight(body string, height int) string {
	lines := strings.Split(body, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func padToWidth(s string, width int) string {
	current := lipgloss.Width(s)
	if current >= width {
		return lipgloss.NewStyle().MaxWidth(width).Render(s)
	}
	return s + strings.Repeat(" ", width-current)
}
