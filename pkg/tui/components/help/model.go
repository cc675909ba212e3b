package help

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/bricks/pkg/tui/theme"
)

//go:embed help.md
var helpMarkdown string

// Model renders the key and command reference inside a bordered viewport.
type Model struct {
	viewport viewport.Model
	width    int
	height   int
	open     bool

	frame lipgloss.Style
	err   error
}

// New constructs a closed help overlay.
func New(th theme.Theme) *Model {
	vp := viewport.New(1, 1)
	vp.MouseWheelEnabled = true
	return &Model{
		viewport: vp,
		frame:    th.Panel.FocusedFrame,
	}
}

func (m *Model) Open() {
	m.open = true
	m.viewport.GotoTop()
}

func (m *Model) Close() { m.open = false }

func (m *Model) IsOpen() bool { return m.open }

// Update forwards scrolling to the viewport.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return cmd
}

// View renders the help content inside the frame.
func (m *Model) View() string {
	body := m.viewport.View()
	if body == "" && m.err != nil {
		body = "help unavailable: " + m.err.Error()
	}
	innerWidth := max(m.width-m.frame.GetHorizontalBorderSize(), 1)
	innerHeight := max(m.height-m.frame.GetVerticalBorderSize(), 1)
	return m.frame.Width(innerWidth).Height(innerHeight).Render(body)
}

// SetSize configures the overlay dimensions and re-renders the markdown to fit.
func (m *Model) SetSize(width, height int) {
	width = max(width, 32)
	height = max(height, 8)
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height

	innerWidth := max(width-m.frame.GetHorizontalFrameSize(), 1)
	innerHeight := max(height-m.frame.GetVerticalFrameSize(), 1)
	m.viewport.Width = innerWidth
	m.viewport.Height = innerHeight

	m.renderContent(innerWidth)
}

func (m *Model) renderContent(wrap int) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(max(wrap, 10)),
	)
	if err != nil {
		m.err = err
		m.viewport.SetContent("help unavailable: " + err.Error())
		return
	}

	content, err := renderer.Render(strings.TrimSpace(helpMarkdown))
	if err != nil {
		m.err = err
		m.viewport.SetContent("help unavailable: " + err.Error())
		return
	}

	m.err = nil
	m.viewport.SetContent(strings.Trim(content, "\n"))
	m.viewport.SetYOffset(0)
}
