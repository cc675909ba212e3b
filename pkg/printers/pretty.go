package printers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/bricks/pkg/app"
	"tableflip.dev/bricks/pkg/catalog"
	"tableflip.dev/bricks/pkg/collection"
	"tableflip.dev/bricks/pkg/collection/viewmodel"
)

// WeightPlaceholder is shown for an unknown weight.
const WeightPlaceholder = "?"

const notesWidth = 72

type PrettyPrint struct {
	// Out defaults to color.Output.
	Out io.Writer
	// Swatches prints a block of each color next to its name.
	Swatches bool
}

var (
	bold   = color.New(color.Bold, color.Underline)
	faint  = color.New(color.Faint)
	header = color.New(color.Bold)
	warn   = color.New(color.FgHiYellow)
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	_, _ = bold.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	_, _ = bold.Fprint(pp.out(), title)
	_, _ = faint.Fprintf(pp.out(), " (%d)\n", count)
}

// Rows prints one table per theme group.
func (pp *PrettyPrint) Rows(groups []viewmodel.Group) {
	if len(groups) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.out(), " none\n\n")
		return
	}
	for _, g := range groups {
		pp.TitleWithCount(g.Label, len(g.Rows))

		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow(
			header.Sprint("N°"), header.Sprint("Name"), header.Sprint("Qty"),
			header.Sprint("Boxes"), header.Sprint("Instr"), header.Sprint("Parts"),
			header.Sprint("Weight"), header.Sprint("MPrts"), header.Sprint("MFigs"),
			header.Sprint("Notes"),
		)
		for _, r := range g.Rows {
			tbl.AddRow(
				r.Number, r.Name, r.Quantity,
				r.Boxes, r.Instructions, r.TotalParts,
				Weight(r.WeightGrams), missing(r.MissingPartsTotal), missing(r.MissingFigsTotal),
				r.NotesLineCount,
			)
		}
		_, _ = fmt.Fprintln(pp.out(), tbl)
		pp.NewLine()
	}
}

// Summary prints the collection totals.
func (pp *PrettyPrint) Summary(t viewmodel.Totals) {
	pp.Title("Summary")
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Sets", fmt.Sprintf("%d (%d distinct)", t.SetCount, t.DistinctSets))
	tbl.AddRow("Themes", t.ThemeCount)
	tbl.AddRow("Parts", t.NetPartsOwned)
	tbl.AddRow("Weight", fmt.Sprintf("%d kg", t.TotalWeightKg))
	tbl.AddRow("Boxes", t.TotalBoxes)
	tbl.AddRow("Instructions", t.TotalInstructions)
	tbl.AddRow("Missing parts", missing(t.TotalMissingParts))
	tbl.AddRow("Missing figs", missing(t.TotalMissingFigs))
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// StatusLine renders the totals on one line, as in the TUI status bar.
func StatusLine(t viewmodel.Totals) string {
	return fmt.Sprintf("Sets: %d (%d)   Themes: %d   Parts: %d   Weight: %d kg   Boxes: %d   Instructions: %d   Missing parts: %d   Missing figs: %d",
		t.SetCount, t.DistinctSets, t.ThemeCount, t.NetPartsOwned, t.TotalWeightKg,
		t.TotalBoxes, t.TotalInstructions, t.TotalMissingParts, t.TotalMissingFigs)
}

// Detail prints one set with its missing lines and notes.
func (pp *PrettyPrint) Detail(row viewmodel.Row, rec collection.Record, cat *catalog.Store) {
	release := catalog.ReleasePlaceholder
	if set, ok := cat.Set(row.Number); ok {
		release = set.Release()
	}
	pp.Title(fmt.Sprintf("%s %s", row.Number, row.Name))

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Theme", row.ThemeLabel)
	tbl.AddRow("Released", release)
	tbl.AddRow("Quantity", row.Quantity)
	tbl.AddRow("Boxes", row.Boxes)
	tbl.AddRow("Instructions", row.Instructions)
	tbl.AddRow("Parts", row.TotalParts)
	tbl.AddRow("Weight", Weight(row.WeightGrams))
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	pp.TitleWithCount("Missing parts", len(rec.MissingParts))
	if len(rec.MissingParts) > 0 {
		parts := uitable.New()
		parts.Separator = "  "
		parts.AddRow(header.Sprint("Part"), header.Sprint("Color"), header.Sprint("Qty"))
		for _, p := range rec.MissingParts {
			parts.AddRow(p.PartNumber, pp.colorLabel(cat, p.ColorID), p.Quantity)
		}
		_, _ = fmt.Fprintln(pp.out(), parts)
	}
	pp.NewLine()

	pp.TitleWithCount("Missing figs", len(rec.MissingFigs))
	if len(rec.MissingFigs) > 0 {
		figs := uitable.New()
		figs.Separator = "  "
		figs.AddRow(header.Sprint("Fig"), header.Sprint("Qty"))
		for _, f := range rec.MissingFigs {
			figs.AddRow(f.FigNumber, f.Quantity)
		}
		_, _ = fmt.Fprintln(pp.out(), figs)
	}
	pp.NewLine()

	if rec.Notes != "" {
		pp.Title("Notes")
		_, _ = fmt.Fprintln(pp.out(), wordwrap.String(rec.Notes, notesWidth))
	}
}

// Colors prints the palette by group.
func (pp *PrettyPrint) Colors(groups []catalog.ColorGroup) {
	for _, g := range groups {
		pp.Title(g.Name)
		tbl := uitable.New()
		tbl.Separator = "  "
		for _, c := range g.Colors {
			tbl.AddRow(c.ID, pp.swatch(c)+c.Name, c.Hex())
		}
		_, _ = fmt.Fprintln(pp.out(), tbl)
		pp.NewLine()
	}
}

// Missing prints the shopping list.
func (pp *PrettyPrint) Missing(cat *catalog.Store, list app.ShoppingList) {
	pp.TitleWithCount("Parts to buy", len(list.Parts))
	if len(list.Parts) > 0 {
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow(header.Sprint("Part"), header.Sprint("Color"), header.Sprint("Qty"), header.Sprint("Sets"))
		for _, p := range list.Parts {
			tbl.AddRow(p.PartNumber, pp.colorLabel(cat, p.ColorID), p.Quantity, strings.Join(p.Sets, ", "))
		}
		_, _ = fmt.Fprintln(pp.out(), tbl)
	}
	pp.NewLine()

	pp.TitleWithCount("Figs to buy", len(list.Figs))
	if len(list.Figs) > 0 {
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow(header.Sprint("Fig"), header.Sprint("Qty"), header.Sprint("Sets"))
		for _, f := range list.Figs {
			tbl.AddRow(f.FigNumber, f.Quantity, strings.Join(f.Sets, ", "))
		}
		_, _ = fmt.Fprintln(pp.out(), tbl)
	}
}

func (pp *PrettyPrint) colorLabel(cat *catalog.Store, id int) string {
	c, ok := cat.ColorByID(id)
	if !ok {
		return warn.Sprint(cat.ColorName(id))
	}
	return pp.swatch(c) + c.Name
}

func (pp *PrettyPrint) swatch(c catalog.Color) string {
	if !pp.Swatches {
		return ""
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("  ") + " "
}

// Weight formats a gram weight or the unknown placeholder.
func Weight(grams *int) string {
	if grams == nil {
		return WeightPlaceholder
	}
	return strconv.Itoa(*grams) + " g"
}

func missing(n int) string {
	if n == 0 {
		return "0"
	}
	return warn.Sprint(n)
}
