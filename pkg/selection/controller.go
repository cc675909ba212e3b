// Package selection tracks which owned set is open in the detail panel and
// commits the panel's edits back to the collection.
package selection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/bricks/pkg/catalog"
	"tableflip.dev/bricks/pkg/collection"
	"tableflip.dev/bricks/pkg/collection/viewmodel"
)

var (
	// ErrNotFound is returned when removing a buffer line that is not there.
	ErrNotFound = errors.New("selection: line not found")
	// ErrInvalidQuantity is matched by *InvalidQuantityError.
	ErrInvalidQuantity = errors.New("selection: invalid quantity")
)

// InvalidQuantityError reports a quantity cell that is not a positive integer.
type InvalidQuantityError struct {
	Value string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %q, expected a whole number of at least 1", e.Value)
}

func (e *InvalidQuantityError) Unwrap() error { return ErrInvalidQuantity }

// LineError locates a validation failure in the buffers.
type LineError struct {
	Table string // "parts" or "figs"
	Line  int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s line %d: %v", e.Table, e.Line+1, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Selection describes the set shown in the detail panel. Selected is false
// after a deselect.
type Selection struct {
	Number      string
	ReleaseDate string
	Selected    bool
}

// Sink receives the outcomes of selection changes.
type Sink interface {
	RowUpdated(row viewmodel.Row)
	SummaryChanged()
	SelectionChanged(sel Selection)
}

type nopSink struct{}

func (nopSink) RowUpdated(viewmodel.Row)   {}
func (nopSink) SummaryChanged()            {}
func (nopSink) SelectionChanged(Selection) {}

// Options wires a Controller.
type Options struct {
	Catalog    *catalog.Store
	Collection *collection.Store
	Engine     *viewmodel.Engine
	Sink       Sink
}

// Controller is the selection state machine. It is not safe for concurrent
// use; the owning service serializes calls.
type Controller struct {
	catalog    *catalog.Store
	collection *collection.Store
	engine     *viewmodel.Engine
	sink       Sink

	current  string
	selected bool
	buffers  Buffers
}

// New returns a controller with nothing selected.
func New(opts Options) *Controller {
	c := &Controller{
		catalog:    opts.Catalog,
		collection: opts.Collection,
		engine:     opts.Engine,
		sink:       opts.Sink,
	}
	if c.sink == nil {
		c.sink = nopSink{}
	}
	if c.engine == nil {
		c.engine = viewmodel.NewEngine(c.catalog, c.collection)
	}
	c.buffers.DefaultColor = c.catalog.ColorName(catalog.DefaultColorID)
	return c
}

// Current reports the selected set number.
func (c *Controller) Current() (string, bool) {
	return c.current, c.selected
}

// Buffers exposes the detail-panel edits of the current selection.
func (c *Controller) Buffers() *Buffers {
	return &c.buffers
}

// Select opens number in the detail panel. Pending edits of the previous
// selection are flushed first; if that fails nothing changes.
func (c *Controller) Select(number string) error {
	rec, err := c.collection.Get(number)
	if err != nil {
		return err
	}
	if c.selected {
		if _, err := c.Flush(c.current); err != nil {
			return err
		}
	}
	// rec is live, so a flush of the same number above is visible here.
	c.buffers.bind(number, *rec, c.catalog.ColorName)
	c.current, c.selected = number, true

	release := catalog.ReleasePlaceholder
	if set, ok := c.catalog.Set(number); ok {
		release = set.Release()
	}
	c.sink.SelectionChanged(Selection{Number: number, ReleaseDate: release, Selected: true})
	return nil
}

// DeselectAll flushes the current selection and clears it.
func (c *Controller) DeselectAll() error {
	if !c.selected {
		return nil
	}
	if _, err := c.Flush(c.current); err != nil {
		return err
	}
	c.current, c.selected = "", false
	c.sink.SelectionChanged(Selection{})
	return nil
}

// Discard clears the selection of number without committing its edits.
func (c *Controller) Discard(number string) {
	if !c.selected || c.current != number {
		return
	}
	c.buffers.Clear()
	c.current, c.selected = "", false
	c.sink.SelectionChanged(Selection{})
}

// Flush commits the buffers into the record of number when they were loaded
// from it. Otherwise it only returns the current row, so repeated flushes are
// harmless. The buffers are validated as a whole before the record changes.
func (c *Controller) Flush(number string) (viewmodel.Row, error) {
	owner, bound := c.buffers.Owner()
	if !bound || owner != number {
		return c.engine.UpdateOne(number)
	}

	parts, figs, err := c.validate()
	if err != nil {
		return viewmodel.Row{}, err
	}
	rec, err := c.collection.Get(number)
	if err != nil {
		return viewmodel.Row{}, err
	}
	rec.MissingParts = parts
	rec.MissingFigs = figs
	rec.Notes = c.buffers.Notes
	c.buffers.Clear()

	row, err := c.engine.UpdateOne(number)
	if err != nil {
		return viewmodel.Row{}, err
	}
	c.sink.RowUpdated(row)
	c.sink.SummaryChanged()
	return row, nil
}

func (c *Controller) validate() ([]collection.MissingPart, []collection.MissingFig, error) {
	parts := make([]collection.MissingPart, 0, len(c.buffers.Parts))
	for i, line := range c.buffers.Parts {
		number := strings.TrimSpace(line.PartNumber)
		if number == "" {
			return nil, nil, &LineError{Table: "parts", Line: i, Err: errors.New("part number is empty")}
		}
		colorID := line.loadedID
		if !line.loaded || line.ColorName != line.loadedName {
			color, err := c.catalog.ColorByName(line.ColorName)
			if err != nil {
				return nil, nil, &LineError{Table: "parts", Line: i, Err: err}
			}
			colorID = color.ID
		}
		qty, err := parseQuantity(line.Quantity)
		if err != nil {
			return nil, nil, &LineError{Table: "parts", Line: i, Err: err}
		}
		parts = append(parts, collection.MissingPart{PartNumber: number, ColorID: colorID, Quantity: qty})
	}

	figs := make([]collection.MissingFig, 0, len(c.buffers.Figs))
	for i, line := range c.buffers.Figs {
		number := strings.TrimSpace(line.FigNumber)
		if number == "" {
			return nil, nil, &LineError{Table: "figs", Line: i, Err: errors.New("fig number is empty")}
		}
		qty, err := parseQuantity(line.Quantity)
		if err != nil {
			return nil, nil, &LineError{Table: "figs", Line: i, Err: err}
		}
		figs = append(figs, collection.MissingFig{FigNumber: number, Quantity: qty})
	}
	return parts, figs, nil
}

func parseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, &InvalidQuantityError{Value: s}
	}
	return n, nil
}
