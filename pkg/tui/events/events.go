package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// SetHighlightMsg is emitted when the table cursor moves onto a set.
type SetHighlightMsg struct {
	Component ComponentID
	Number    string
}

// Describe renders the highlight in a human-friendly format for logs.
func (m SetHighlightMsg) Describe() string {
	return fmt.Sprintf(`set:%q`, m.Number)
}

// SetActivateMsg is emitted when the user opens the highlighted set.
type SetActivateMsg struct {
	Component ComponentID
	Number    string
}

// Describe renders the activation in a human-friendly format for logs.
func (m SetActivateMsg) Describe() string {
	return fmt.Sprintf(`set:%q`, m.Number)
}

// SetActivateCmd wraps SetActivateMsg.
func SetActivateCmd(component ComponentID, number string) tea.Cmd {
	return func() tea.Msg {
		return SetActivateMsg{Component: component, Number: number}
	}
}

// SetHighlightCmd wraps SetHighlightMsg.
func SetHighlightCmd(component ComponentID, number string) tea.Cmd {
	return func() tea.Msg {
		return SetHighlightMsg{Component: component, Number: number}
	}
}

// CommandMode represents the current state of the command prompt.
type CommandMode string

const (
	// CommandModePassive indicates the command bar is idle.
	CommandModePassive CommandMode = "passive"
	// CommandModeInput indicates the command bar is collecting user input.
	CommandModeInput CommandMode = "input"
)

// CommandChangeMsg is emitted when the command input value changes.
type CommandChangeMsg struct {
	Component ComponentID
	Value     string
	Mode      CommandMode
}

// Describe implements the logging helper.
func (m CommandChangeMsg) Describe() string {
	return fmt.Sprintf(`value:%q mode:%q`, m.Value, m.Mode)
}

// CommandSubmitMsg is emitted when the command input is submitted.
type CommandSubmitMsg struct {
	Component ComponentID
	Value     string
}

// Describe implements the logging helper.
func (m CommandSubmitMsg) Describe() string {
	return fmt.Sprintf(`value:%q`, m.Value)
}

// CommandCancelMsg is emitted when command entry is cancelled.
type CommandCancelMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m CommandCancelMsg) Describe() string {
	return fmt.Sprintf(`component:%q`, m.Component)
}

// CommandPrefillMsg asks the command bar to open with Value already typed.
type CommandPrefillMsg struct {
	Component ComponentID
	Value     string
}

// CommandChangeCmd wraps CommandChangeMsg.
func CommandChangeCmd(component ComponentID, value string, mode CommandMode) tea.Cmd {
	return func() tea.Msg {
		return CommandChangeMsg{
			Component: component,
			Value:     value,
			Mode:      mode,
		}
	}
}

// CommandSubmitCmd wraps CommandSubmitMsg.
func CommandSubmitCmd(component ComponentID, value string) tea.Cmd {
	return func() tea.Msg {
		return CommandSubmitMsg{
			Component: component,
			Value:     value,
		}
	}
}

// CommandCancelCmd wraps CommandCancelMsg.
func CommandCancelCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return CommandCancelMsg{
			Component: component,
		}
	}
}

// CommandPrefillCmd wraps CommandPrefillMsg.
func CommandPrefillCmd(component ComponentID, value string) tea.Cmd {
	return func() tea.Msg {
		return CommandPrefillMsg{Component: component, Value: value}
	}
}
