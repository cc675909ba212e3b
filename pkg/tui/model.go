// Package tui is the interactive terminal front end of the collection.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.dalton.dog/bubbleup"

	"tableflip.dev/bricks/pkg/app"
	"tableflip.dev/bricks/pkg/collection/viewmodel"
	"tableflip.dev/bricks/pkg/printers"
	"tableflip.dev/bricks/pkg/selection"
	"tableflip.dev/bricks/pkg/store"
	"tableflip.dev/bricks/pkg/tui/components/command"
	"tableflip.dev/bricks/pkg/tui/components/detail"
	"tableflip.dev/bricks/pkg/tui/components/help"
	"tableflip.dev/bricks/pkg/tui/components/settable"
	"tableflip.dev/bricks/pkg/tui/events"
	"tableflip.dev/bricks/pkg/tui/theme"
)

const (
	tableID   events.ComponentID = "sets"
	detailID  events.ComponentID = "detail"
	commandID events.ComponentID = "command"

	minDetailWidth = 38
)

type focusArea int

const (
	focusTable focusArea = iota
	focusDetail
)

// Model is the root Bubble Tea model.
type Model struct {
	ctx   context.Context
	svc   *app.Service
	theme theme.Theme

	table   *settable.Model
	detail  *detail.Model
	command *command.Model
	help    *help.Model
	alert   bubbleup.AlertModel

	focus  focusArea
	query  string
	totals viewmodel.Totals

	width  int
	height int

	errText   string
	errSeq    int
	errSticky bool

	watch <-chan store.Event
	send  func(tea.Msg)
}

// New wires a model to a loaded service. The model becomes the service's
// listener.
func New(ctx context.Context, svc *app.Service) *Model {
	th := theme.Default()
	m := &Model{
		ctx:    ctx,
		svc:    svc,
		theme:  th,
		table:  settable.New(tableID, th),
		detail: detail.New(detailID, th, svc.Catalog()),
		command: command.NewModel(command.Options{
			ID:           commandID,
			PromptPrefix: ":",
			Placeholder:  "command",
			Theme:        &th,
		}),
		alert:  *bubbleup.NewAlertModel(50, false, alertSeconds),
		help:   help.New(th),
		width:  100,
		height: 30,
	}
	m.command.SetSuggestions(suggestions())
	svc.SetListener(m.listener())

	m.table.SetRows(svc.Rows())
	m.totals = svc.Totals()
	if ch, err := svc.Watch(ctx); err == nil {
		m.watch = ch
	}
	m.layout()
	return m
}

// Run starts the full screen UI and blocks until it exits.
func Run(ctx context.Context, svc *app.Service) error {
	m := New(ctx, svc)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.send = p.Send
	_, err := p.Run()
	return err
}

func (m *Model) listener() app.Listener {
	return app.ListenerFuncs{
		OnRowsReset: func(rows []viewmodel.Row) {
			if m.query != "" {
				rows = m.svc.Search(m.query)
			}
			m.table.SetRows(rows)
		},
		OnRowAdded: func(row viewmodel.Row, _ int) {
			m.refreshRows()
			m.table.HighlightNumber(row.Number)
		},
		OnRowUpdated: func(viewmodel.Row, int) { m.refreshRows() },
		OnRowRemoved: func(string, int) { m.refreshRows() },
		OnSummaryChanged: func(totals viewmodel.Totals) {
			m.totals = totals
		},
		OnSelectionChanged: func(sel selection.Selection) {
			if sel.Selected {
				m.detail.Open(sel, m.svc.Buffers())
				m.svc.RequestImage(m.ctx, sel.Number)
			} else {
				m.detail.Close()
				m.focusTable()
			}
			m.layout()
		},
		OnImageReady: func(number, path string, err error) {
			// Called from the fetch goroutine.
			if m.send != nil {
				m.send(imageMsg{number: number, path: path, err: err})
			}
		},
	}
}

func (m *Model) refreshRows() {
	m.table.SetRows(m.svc.Search(m.query))
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForStore(m.watch), m.alert.Init())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
	case errorClearMsg:
		if msg.seq == m.errSeq && !m.errSticky {
			m.errText = ""
		}
	case weightMsg:
		row, err := m.svc.Insert(m.ctx, msg.number, msg.grams)
		if err != nil {
			cmds = append(cmds, m.fail(err))
			break
		}
		cmds = append(cmds, m.info(fmt.Sprintf("Added %s %s", row.Number, row.Name)))
	case imageMsg:
		m.detail.SetImage(msg.number, msg.path, msg.err)
	case storeEventMsg:
		if !msg.ok {
			m.watch = nil
			break
		}
		if msg.event.Type == store.EventWatchError {
			cmds = append(cmds, m.fail(fmt.Errorf("watching %s stopped", msg.event.Path)))
		} else {
			cmds = append(cmds, m.info("Collection changed on disk. :reload to load it"))
		}
		cmds = append(cmds, waitForStore(m.watch))
	case events.CommandSubmitMsg:
		cmds = append(cmds, m.run(msg.Value))
	case events.CommandPrefillMsg:
		cmds = append(cmds, m.command.BeginInput(msg.Value))
	case events.SetActivateMsg:
		if err := m.svc.Dispatch(m.ctx, app.Select{Number: msg.Number}); err != nil {
			cmds = append(cmds, m.fail(err))
		}
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	default:
		if m.command.InInputMode() {
			cmds = append(cmds, m.command.Update(msg))
		} else if m.focus == focusDetail {
			cmds = append(cmds, m.detail.Update(msg))
		}
	}

	outAlert, alertCmd := m.alert.Update(msg)
	m.alert = outAlert.(bubbleup.AlertModel)
	cmds = append(cmds, alertCmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.command.InInputMode() {
		return m.command.Update(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "ctrl+s":
		return m.save()
	case "esc":
		if m.errSticky {
			m.errText, m.errSticky = "", false
			return nil
		}
	}

	if m.help.IsOpen() {
		switch msg.String() {
		case "esc", "q", "?":
			m.help.Close()
			return nil
		}
		return m.help.Update(msg)
	}

	if m.focus == focusDetail {
		return m.handleDetailKey(msg)
	}

	switch msg.String() {
	case "q":
		return m.quit()
	case "?":
		m.help.Open()
		return nil
	case ":":
		return m.command.BeginInput("")
	case "/":
		return m.command.BeginInput("find ")
	case "a":
		return m.command.BeginInput("add ")
	case "d", "delete":
		if row, ok := m.table.Highlighted(); ok {
			return m.command.BeginInput("rm " + row.Number)
		}
		return nil
	case "tab":
		if m.detail.IsOpen() {
			return m.focusDetail(detail.SectionParts)
		}
		return nil
	case "esc":
		if m.query != "" {
			m.query = ""
			return m.dispatch(app.Search{})
		}
		if m.detail.IsOpen() {
			return m.dispatch(app.Deselect{})
		}
		return nil
	}
	return m.table.Update(msg)
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	section := m.detail.Section()
	switch msg.String() {
	case "esc":
		m.focusTable()
		return nil
	case "tab":
		if section == detail.SectionNotes {
			m.focusTable()
			return nil
		}
		return m.focusDetail(section + 1)
	case ":":
		if section != detail.SectionNotes {
			return m.command.BeginInput("")
		}
	}
	return m.detail.Update(msg)
}

func (m *Model) focusTable() {
	m.focus = focusTable
	m.detail.Blur()
	m.table.Focus()
}

func (m *Model) focusDetail(section detail.Section) tea.Cmd {
	m.focus = focusDetail
	m.table.Blur()
	return m.detail.Focus(section)
}

func (m *Model) dispatch(cmd app.Command) tea.Cmd {
	if err := m.svc.Dispatch(m.ctx, cmd); err != nil {
		return m.fail(err)
	}
	return nil
}

// save commits and writes the collection, reopening the set that was shown.
func (m *Model) save() tea.Cmd {
	selected, hadSelection := m.svc.Selection()
	if err := m.svc.Dispatch(m.ctx, app.Save{}); err != nil {
		return m.fail(err)
	}
	if hadSelection {
		if err := m.svc.Select(m.ctx, selected); err != nil {
			return m.fail(err)
		}
	}
	return m.info(fmt.Sprintf("Saved %d sets", m.totals.DistinctSets))
}

// quit saves first and stays open when that fails.
func (m *Model) quit() tea.Cmd {
	if err := m.svc.Save(m.ctx); err != nil {
		return m.fail(err)
	}
	return tea.Quit
}

// fail shows err above the status bar. Input mistakes clear themselves;
// anything else stays until esc and is logged.
func (m *Model) fail(err error) tea.Cmd {
	m.errSeq++
	m.errText = err.Error()
	var ce commandError
	if app.IsUserError(err) || errors.As(err, &ce) {
		m.errSticky = false
		return clearErrorAfter(m.errSeq)
	}

	m.errSticky = true
	if app.IsCatalogError(err) {
		m.svc.Logger().Error("catalog does not match the collection", "err", err)
	} else {
		m.svc.Logger().Error("operation failed", "err", err)
	}
	return nil
}

func (m *Model) info(text string) tea.Cmd {
	return m.alert.NewAlertCmd(bubbleup.InfoKey, text)
}

// Err is the inline error shown above the status bar.
func (m *Model) Err() string { return m.errText }

func (m *Model) bodyHeight() int {
	// error line, status line and command bar
	return max(1, m.height-3)
}

func (m *Model) layout() {
	m.command.SetSize(m.width, m.height)
	h := m.bodyHeight()
	m.help.SetSize(m.width, h)
	if !m.detail.IsOpen() {
		m.table.SetSize(m.width, h)
		return
	}
	dw := max(minDetailWidth, m.width/3)
	m.table.SetSize(max(1, m.width-dw), h)
	m.detail.SetSize(dw, h)
}

func (m *Model) hint() string {
	if m.help.IsOpen() {
		return "up/down scroll  esc close"
	}
	if m.focus == focusDetail {
		if m.detail.Section() == detail.SectionNotes {
			return "typing edits notes  tab/esc back"
		}
		return "a add  x remove  c color  n qty  tab next  esc back  ctrl+s save"
	}
	hint := "enter open  tab panel  a add  d remove  / find  : command  ? help  ctrl+s save  q quit"
	if m.query != "" {
		hint = "find: " + m.query + "  esc clear  " + hint
	}
	return hint
}

// View implements tea.Model.
func (m *Model) View() string {
	body := m.table.View()
	if m.help.IsOpen() {
		body = m.help.View()
	} else if m.detail.IsOpen() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.detail.View())
	}
	lines := strings.Split(body, "\n")
	h := m.bodyHeight()
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}

	errLine := ""
	if m.errText != "" {
		text := m.errText
		if m.errSticky {
			text += "  (esc to dismiss)"
		}
		errLine = m.theme.Footer.Error.Render(text)
	}
	status := m.theme.Footer.Status.Width(max(1, m.width)).Render(printers.StatusLine(m.totals))

	m.command.SetStatus(m.hint())
	m.command.SetContent(strings.Join(lines, "\n") + "\n" + errLine + "\n" + status)
	return m.alert.Render(m.command.View())
}
