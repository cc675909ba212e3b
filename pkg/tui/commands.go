package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/bricks/pkg/app"
	"tableflip.dev/bricks/pkg/tui/components/command"
)

// commandError is a mistake in a typed command line. It clears like any
// other input error.
type commandError string

func (e commandError) Error() string { return string(e) }

func commandErrorf(format string, args ...any) error {
	return commandError(fmt.Sprintf(format, args...))
}

var (
	errNoSelection error = commandError("no set is open; press enter on a set first")
	errNoRow       error = commandError("no set under the cursor")
)

type commandFunc func(m *Model, args []string, rest string) (tea.Cmd, error)

type commandSpec struct {
	name string
	desc string
	run  commandFunc
}

var commandTable []commandSpec

func init() {
	commandTable = []commandSpec{
		{"add", "<number> add a set", cmdAdd},
		{"rm", "[number] remove a set", cmdRemove},
		{"open", "[number] show a set in the panel", cmdOpen},
		{"close", "commit and close the panel", cmdClose},
		{"find", "[text] filter the table, empty clears", cmdFind},
		{"qty", "<n> copies owned", editField(app.FieldQuantity)},
		{"boxes", "<n> boxes kept", editField(app.FieldBoxes)},
		{"instr", "<n> instruction booklets kept", editField(app.FieldInstructions)},
		{"weight", "[grams] set weight, empty for unknown", editField(app.FieldWeight)},
		{"part", "<part> [qty] [color] add a missing part", cmdPart},
		{"unpart", "<part> drop a missing part", cmdUnpart},
		{"fig", "<fig> [qty] add a missing figure", cmdFig},
		{"unfig", "<fig> drop a missing figure", cmdUnfig},
		{"color", "<line> <color> set the color of a part line", cmdColor},
		{"pqty", "<line> <qty> set the quantity of a part line", cmdPartQty},
		{"fqty", "<line> <qty> set the quantity of a figure line", cmdFigQty},
		{"filter", "[text] filter the panel lists", cmdFilter},
		{"save", "write the collection", cmdSave},
		{"help", "show keys and commands", cmdHelp},
		{"reload", "discard edits and read the collection again", cmdReload},
		{"quit", "save and exit", cmdQuit},
		{"quit!", "exit without saving", cmdForceQuit},
	}
}

func suggestions() []command.SuggestionOption {
	out := make([]command.SuggestionOption, 0, len(commandTable))
	for _, c := range commandTable {
		out = append(out, command.SuggestionOption{Name: c.name, Description: c.desc})
	}
	return out
}

// run executes one command bar line.
func (m *Model) run(line string) tea.Cmd {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	rest := strings.TrimSpace(strings.TrimSpace(line)[len(fields[0]):])
	for _, c := range commandTable {
		if c.name != name {
			continue
		}
		cmd, err := c.run(m, fields[1:], rest)
		if err != nil {
			return m.fail(err)
		}
		return cmd
	}
	return m.fail(commandErrorf("unknown command %q", name))
}

func (m *Model) highlightedOr(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	row, ok := m.table.Highlighted()
	if !ok {
		return "", errNoRow
	}
	return row.Number, nil
}

func (m *Model) openBuffers() error {
	if _, ok := m.svc.Selection(); !ok {
		return errNoSelection
	}
	return nil
}

func parseLine(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 || i > n {
		return 0, commandErrorf("no line %q", s)
	}
	return i - 1, nil
}

func cmdAdd(m *Model, _ []string, rest string) (tea.Cmd, error) {
	number, err := m.svc.CheckNew(m.ctx, rest)
	if err != nil {
		return nil, err
	}
	return fetchWeight(m.ctx, m.svc, number), nil
}

func cmdRemove(m *Model, args []string, _ string) (tea.Cmd, error) {
	number, err := m.highlightedOr(args)
	if err != nil {
		return nil, err
	}
	if err := m.svc.Dispatch(m.ctx, app.RemoveSet{Number: number}); err != nil {
		return nil, err
	}
	return m.info("Removed " + number), nil
}

func cmdOpen(m *Model, args []string, _ string) (tea.Cmd, error) {
	number, err := m.highlightedOr(args)
	if err != nil {
		return nil, err
	}
	if err := m.svc.Dispatch(m.ctx, app.Select{Number: number}); err != nil {
		return nil, err
	}
	m.table.HighlightNumber(number)
	return nil, nil
}

func cmdClose(m *Model, _ []string, _ string) (tea.Cmd, error) {
	return nil, m.svc.Dispatch(m.ctx, app.Deselect{})
}

func cmdFind(m *Model, _ []string, rest string) (tea.Cmd, error) {
	m.query = rest
	return nil, m.svc.Dispatch(m.ctx, app.Search{Query: rest})
}

func editField(field app.Field) commandFunc {
	return func(m *Model, _ []string, rest string) (tea.Cmd, error) {
		row, ok := m.table.Highlighted()
		if !ok {
			return nil, errNoRow
		}
		return nil, m.svc.Dispatch(m.ctx, app.EditField{Number: row.Number, Field: field, Value: rest})
	}
}

func cmdPart(m *Model, args []string, _ string) (tea.Cmd, error) {
	if err := m.openBuffers(); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, commandError("usage: part <part> [qty] [color]")
	}
	b := m.svc.Buffers()
	b.AddPart(args[0])
	last := len(b.Parts) - 1
	if len(args) > 1 {
		_ = b.SetPartQuantity(last, args[1])
	}
	if len(args) > 2 {
		_ = b.SetPartColor(last, strings.Join(args[2:], " "))
	}
	m.detail.Refresh()
	return nil, nil
}

func cmdUnpart(m *Model, args []string, _ string) (tea.Cmd, error) {
	if err := m.openBuffers(); err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, commandError("usage: unpart <part>")
	}
	defer m.detail.Refresh()
	return nil, m.svc.Buffers().RemovePart(args[0])
}

func cmdFig(m *Model, args []string, _ string) (tea.Cmd, error) {
	if err := m.openBuffers(); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, commandError("usage: fig <fig> [qty]")
	}
	b := m.svc.Buffers()
	b.AddFig(args[0])
	if len(args) > 1 {
		_ = b.SetFigQuantity(len(b.Figs)-1, args[1])
	}
	m.detail.Refresh()
	return nil, nil
}

func cmdUnfig(m *Model, args []string, _ string) (tea.Cmd, error) {
	if err := m.openBuffers(); err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, commandError("usage: unfig <fig>")
	}
	defer m.detail.Refresh()
	return nil, m.svc.Buffers().RemoveFig(args[0])
}

func cmdColor(m *Model, args []string, _ string) (tea.Cmd, error) {
	if err := m.openBuffers(); err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, commandError("usage: color <line> <color>")
	}
	b := m.svc.Buffers()
	i, err := parseLine(args[0], len(b.Parts))
	if err != nil {
		return nil, err
	}
	name := strings.Join(args[1:], " ")
	if _, err := m.svc.Catalog().ColorByName(name); err != nil {
		return nil, err
	}
	return nil, b.SetPartColor(i, name)
}

func cmdPartQty(m *Model, args []string, _ string) (tea.Cmd, error) {
	if err := m.openBuffers(); err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, commandError("usage: pqty <line> <qty>")
	}
	b := m.svc.Buffers()
	i, err := parseLine(args[0], len(b.Parts))
	if err != nil {
		return nil, err
	}
	return nil, b.SetPartQuantity(i, args[1])
}

func cmdFigQty(m *Model, args []string, _ string) (tea.Cmd, error) {
	if err := m.openBuffers(); err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, commandError("usage: fqty <line> <qty>")
	}
	b := m.svc.Buffers()
	i, err := parseLine(args[0], len(b.Figs))
	if err != nil {
		return nil, err
	}
	return nil, b.SetFigQuantity(i, args[1])
}

func cmdFilter(m *Model, _ []string, rest string) (tea.Cmd, error) {
	if err := m.openBuffers(); err != nil {
		return nil, err
	}
	m.detail.SetFilter(rest)
	return nil, nil
}

func cmdSave(m *Model, _ []string, _ string) (tea.Cmd, error) {
	return m.save(), nil
}

func cmdHelp(m *Model, _ []string, _ string) (tea.Cmd, error) {
	m.help.Open()
	return nil, nil
}

func cmdReload(m *Model, _ []string, _ string) (tea.Cmd, error) {
	if err := m.svc.Dispatch(m.ctx, app.Reload{}); err != nil {
		return nil, err
	}
	return m.info("Reloaded " + m.svc.Path()), nil
}

func cmdQuit(m *Model, _ []string, _ string) (tea.Cmd, error) {
	return m.quit(), nil
}

func cmdForceQuit(*Model, []string, string) (tea.Cmd, error) {
	return tea.Quit, nil
}
