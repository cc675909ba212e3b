// Package viewmodel joins catalog data with collection records into the
// sorted, grouped rows the user interfaces display.
package viewmodel

import (
	"iter"
	"sort"

	"tableflip.dev/bricks/pkg/catalog"
	"tableflip.dev/bricks/pkg/collection"
)

// Row is the denormalized display record for one owned set. It is derived
// from a catalog entry, a collection record and the resolved theme, and is
// never edited directly.
type Row struct {
	Number       string
	Name         string
	ThemeSortKey int
	ThemeLabel   string

	Quantity     int
	Boxes        int
	Instructions int
	TotalParts   int
	WeightGrams  *int

	MissingPartsTotal int
	MissingFigsTotal  int
	NotesLineCount    int
}

// Group is a run of rows sharing a theme label.
type Group struct {
	Label   string
	SortKey int
	Rows    []Row
}

// Engine builds rows from the catalog and the collection.
type Engine struct {
	catalog    *catalog.Store
	collection *collection.Store
}

// NewEngine wires an engine to its two sources.
func NewEngine(cat *catalog.Store, col *collection.Store) *Engine {
	return &Engine{catalog: cat, collection: col}
}

// BuildAll rebuilds every row, grouped by theme and ordered for display.
// A record whose set or theme is missing from the catalog fails the build.
func (e *Engine) BuildAll() ([]Row, error) {
	numbers := e.collection.Numbers()
	rows := make([]Row, 0, len(numbers))
	for _, number := range numbers {
		row, err := e.UpdateOne(number)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	Sort(rows)
	return rows, nil
}

// All yields the rows of a fresh BuildAll. Each range over the sequence
// rebuilds, so it reflects the current collection. A build error is yielded
// once with a zero Row.
func (e *Engine) All() iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		rows, err := e.BuildAll()
		if err != nil {
			yield(Row{}, err)
			return
		}
		for _, row := range rows {
			if !yield(row, nil) {
				return
			}
		}
	}
}

// UpdateOne rebuilds the row for a single set from current state.
func (e *Engine) UpdateOne(number string) (Row, error) {
	rec, err := e.collection.Get(number)
	if err != nil {
		return Row{}, err
	}
	set, ok := e.catalog.Set(number)
	if !ok {
		return Row{}, &catalog.UnknownSetError{Number: number}
	}
	path, err := e.catalog.ResolveTheme(set.ThemeID)
	if err != nil {
		return Row{}, err
	}
	return NewRow(set, *rec, path), nil
}

// NewRow derives a row. It is a pure function of its inputs.
func NewRow(set catalog.SetEntry, rec collection.Record, path catalog.ThemePath) Row {
	row := Row{
		Number:            set.Number,
		Name:              set.Name,
		ThemeSortKey:      path.SortKey,
		ThemeLabel:        path.Label,
		Quantity:          rec.Quantity,
		Boxes:             rec.Boxes,
		Instructions:      rec.Instructions,
		TotalParts:        set.TotalParts,
		MissingPartsTotal: rec.MissingPartsTotal(),
		MissingFigsTotal:  rec.MissingFigsTotal(),
		NotesLineCount:    collection.NotesLineCount(rec.Notes),
	}
	if rec.WeightGrams != nil {
		w := *rec.WeightGrams
		row.WeightGrams = &w
	}
	return row
}

// Less orders rows by theme sort key, then theme label, then numeric set
// number.
func Less(a, b Row) bool {
	if a.ThemeSortKey != b.ThemeSortKey {
		return a.ThemeSortKey < b.ThemeSortKey
	}
	if a.ThemeLabel != b.ThemeLabel {
		return a.ThemeLabel < b.ThemeLabel
	}
	return collection.CompareNumbers(a.Number, b.Number) < 0
}

// Sort orders rows for display. The sort is stable.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return Less(rows[i], rows[j])
	})
}

// Groups splits sorted rows into theme groups.
func Groups(rows []Row) []Group {
	var groups []Group
	for _, row := range rows {
		if len(groups) == 0 || groups[len(groups)-1].Label != row.ThemeLabel {
			groups = append(groups, Group{Label: row.ThemeLabel, SortKey: row.ThemeSortKey})
		}
		last := &groups[len(groups)-1]
		last.Rows = append(last.Rows, row)
	}
	return groups
}

// Index returns the position of number in rows, or -1.
func Index(rows []Row, number string) int {
	for i, row := range rows {
		if row.Number == number {
			return i
		}
	}
	return -1
}

// Insert places row at its sorted position in rows and returns the new slice
// and the index used.
func Insert(rows []Row, row Row) ([]Row, int) {
	i := sort.Search(len(rows), func(i int) bool {
		return Less(row, rows[i])
	})
	rows = append(rows, Row{})
	copy(rows[i+1:], rows[i:])
	rows[i] = row
	return rows, i
}

// Replace swaps in a refreshed row with the same number. It reports the
// index, or -1 when the number is not present.
func Replace(rows []Row, row Row) int {
	i := Index(rows, row.Number)
	if i >= 0 {
		rows[i] = row
	}
	return i
}

// Remove drops the row for number and returns the new slice and the index
// it held, or -1.
func Remove(rows []Row, number string) ([]Row, int) {
	i := Index(rows, number)
	if i < 0 {
		return rows, -1
	}
	return append(rows[:i], rows[i+1:]...), i
}
