package theme

import "github.com/charmbracelet/lipgloss"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Panel  PanelTheme
	Table  TableTheme
}

// FooterTheme groups styles used by the bottom status/command bar.
type FooterTheme struct {
	Help                lipgloss.Style
	Status              lipgloss.Style
	Error               lipgloss.Style
	CommandName         lipgloss.Style
	CommandDescription  lipgloss.Style
	CommandSelectedName lipgloss.Style
	CommandSelectedDesc lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame        lipgloss.Style
	FocusedFrame lipgloss.Style
	Title        lipgloss.Style
	Heading      lipgloss.Style
	Body         lipgloss.Style
	Muted        lipgloss.Style
	Cursor       lipgloss.Style
}

// TableTheme styles the sets table.
type TableTheme struct {
	Header  lipgloss.Style
	Base    lipgloss.Style
	Missing lipgloss.Style
	Unknown lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	commandName := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Bold(true)
	commandDesc := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	commandSelectedName := commandName.Reverse(true)
	commandSelectedDesc := commandDesc.Reverse(true)

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return Theme{
		Footer: FooterTheme{
			Help:                lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status:              lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
			Error:               lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
			CommandName:         commandName,
			CommandDescription:  commandDesc,
			CommandSelectedName: commandSelectedName,
			CommandSelectedDesc: commandSelectedDesc,
		},
		Panel: PanelTheme{
			Frame:        frame,
			FocusedFrame: frame.BorderForeground(lipgloss.Color("212")),
			Title:        lipgloss.NewStyle().Bold(true),
			Heading:      lipgloss.NewStyle().Bold(true).Underline(true),
			Body:         lipgloss.NewStyle(),
			Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
			Cursor:       lipgloss.NewStyle().Reverse(true),
		},
		Table: TableTheme{
			Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
			Base:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Align(lipgloss.Left),
			Missing: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Unknown: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
	}
}

// Swatch renders a two cell block in the given hex color.
func Swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}
