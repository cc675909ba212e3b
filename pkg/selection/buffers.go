package selection

import (
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/bricks/pkg/collection"
)

// PartLine is one editable row of the missing-parts table. Fields hold the
// text as displayed; they are validated on flush.
type PartLine struct {
	PartNumber string
	ColorName  string
	Quantity   string

	// loadedID is the stored color id while ColorName still shows the name
	// it was loaded under. Ids missing from the palette survive a flush.
	loadedID   int
	loadedName string
	loaded     bool
}

// FigLine is one editable row of the missing-figures table.
type FigLine struct {
	FigNumber string
	Quantity  string
}

// Buffers are the transient detail-panel edits for the selected set.
type Buffers struct {
	Parts []PartLine
	Figs  []FigLine
	Notes string

	// DefaultColor is the color name given to newly added parts.
	DefaultColor string

	owner string
	bound bool
}

// Owner reports the set number the buffers were loaded from.
func (b *Buffers) Owner() (string, bool) {
	return b.owner, b.bound
}

func (b *Buffers) bind(number string, rec collection.Record, colorName func(int) string) {
	b.owner, b.bound = number, true
	b.Parts = make([]PartLine, 0, len(rec.MissingParts))
	for _, p := range rec.MissingParts {
		name := colorName(p.ColorID)
		b.Parts = append(b.Parts, PartLine{
			PartNumber: p.PartNumber,
			ColorName:  name,
			Quantity:   strconv.Itoa(p.Quantity),
			loadedID:   p.ColorID,
			loadedName: name,
			loaded:     true,
		})
	}
	b.Figs = make([]FigLine, 0, len(rec.MissingFigs))
	for _, f := range rec.MissingFigs {
		b.Figs = append(b.Figs, FigLine{
			FigNumber: f.FigNumber,
			Quantity:  strconv.Itoa(f.Quantity),
		})
	}
	b.Notes = rec.Notes
}

// Clear empties and unbinds the buffers.
func (b *Buffers) Clear() {
	b.Parts = nil
	b.Figs = nil
	b.Notes = ""
	b.owner, b.bound = "", false
}

// AddPart appends a part with the default color and a quantity of one.
func (b *Buffers) AddPart(partNumber string) {
	b.Parts = append(b.Parts, PartLine{
		PartNumber: strings.TrimSpace(partNumber),
		ColorName:  b.DefaultColor,
		Quantity:   "1",
	})
}

// RemovePart drops the first part with partNumber.
func (b *Buffers) RemovePart(partNumber string) error {
	partNumber = strings.TrimSpace(partNumber)
	for i, p := range b.Parts {
		if p.PartNumber == partNumber {
			b.Parts = append(b.Parts[:i], b.Parts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: part %q", ErrNotFound, partNumber)
}

// RemovePartAt drops part line i.
func (b *Buffers) RemovePartAt(i int) error {
	if i < 0 || i >= len(b.Parts) {
		return fmt.Errorf("%w: part line %d", ErrNotFound, i+1)
	}
	b.Parts = append(b.Parts[:i], b.Parts[i+1:]...)
	return nil
}

// AddFig appends a figure with a quantity of one.
func (b *Buffers) AddFig(figNumber string) {
	b.Figs = append(b.Figs, FigLine{
		FigNumber: strings.TrimSpace(figNumber),
		Quantity:  "1",
	})
}

// RemoveFig drops the first figure with figNumber.
func (b *Buffers) RemoveFig(figNumber string) error {
	figNumber = strings.TrimSpace(figNumber)
	for i, f := range b.Figs {
		if f.FigNumber == figNumber {
			b.Figs = append(b.Figs[:i], b.Figs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: fig %q", ErrNotFound, figNumber)
}

// RemoveFigAt drops figure line i.
func (b *Buffers) RemoveFigAt(i int) error {
	if i < 0 || i >= len(b.Figs) {
		return fmt.Errorf("%w: fig line %d", ErrNotFound, i+1)
	}
	b.Figs = append(b.Figs[:i], b.Figs[i+1:]...)
	return nil
}

// SetPartColor sets the displayed color name of part i.
func (b *Buffers) SetPartColor(i int, name string) error {
	if i < 0 || i >= len(b.Parts) {
		return fmt.Errorf("%w: part line %d", ErrNotFound, i+1)
	}
	b.Parts[i].ColorName = name
	return nil
}

// SetPartQuantity sets the quantity text of part i.
func (b *Buffers) SetPartQuantity(i int, qty string) error {
	if i < 0 || i >= len(b.Parts) {
		return fmt.Errorf("%w: part line %d", ErrNotFound, i+1)
	}
	b.Parts[i].Quantity = qty
	return nil
}

// SetFigQuantity sets the quantity text of figure i.
func (b *Buffers) SetFigQuantity(i int, qty string) error {
	if i < 0 || i >= len(b.Figs) {
		return fmt.Errorf("%w: fig line %d", ErrNotFound, i+1)
	}
	b.Figs[i].Quantity = qty
	return nil
}

// SetNotes replaces the notes text.
func (b *Buffers) SetNotes(notes string) {
	b.Notes = notes
}

// FilterParts returns the indices of parts whose number contains query.
// An empty query matches everything.
func (b *Buffers) FilterParts(query string) []int {
	query = strings.TrimSpace(query)
	out := make([]int, 0, len(b.Parts))
	for i, p := range b.Parts {
		if query == "" || strings.Contains(p.PartNumber, query) {
			out = append(out, i)
		}
	}
	return out
}

// FilterFigs returns the indices of figures whose number contains query.
func (b *Buffers) FilterFigs(query string) []int {
	query = strings.TrimSpace(query)
	out := make([]int, 0, len(b.Figs))
	for i, f := range b.Figs {
		if query == "" || strings.Contains(f.FigNumber, query) {
			out = append(out, i)
		}
	}
	return out
}
