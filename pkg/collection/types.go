// Package collection defines the user's owned sets and the ordered store
// that holds them.
package collection

import (
	"strings"
)

// MissingPart is a part the owner is short of.
type MissingPart struct {
	PartNumber string
	ColorID    int
	Quantity   int
}

// MissingFig is a minifigure the owner is short of.
type MissingFig struct {
	FigNumber string
	Quantity  int
}

// Record is the mutable ownership data for one set.
type Record struct {
	Quantity     int
	Boxes        int
	Instructions int
	// WeightGrams is nil when the weight is unknown.
	WeightGrams  *int
	MissingParts []MissingPart
	MissingFigs  []MissingFig
	Notes        string
}

// NewRecord returns the record created when a set is first added: one copy,
// no boxes or instructions, nothing missing.
func NewRecord(weightGrams *int) Record {
	return Record{
		Quantity:     1,
		WeightGrams:  weightGrams,
		MissingParts: []MissingPart{},
		MissingFigs:  []MissingFig{},
	}
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	if r.WeightGrams != nil {
		w := *r.WeightGrams
		out.WeightGrams = &w
	}
	out.MissingParts = append([]MissingPart{}, r.MissingParts...)
	out.MissingFigs = append([]MissingFig{}, r.MissingFigs...)
	return out
}

// MissingPartsTotal sums the quantities of missing parts.
func (r Record) MissingPartsTotal() int {
	total := 0
	for _, p := range r.MissingParts {
		total += p.Quantity
	}
	return total
}

// MissingFigsTotal sums the quantities of missing figures.
func (r Record) MissingFigsTotal() int {
	total := 0
	for _, f := range r.MissingFigs {
		total += f.Quantity
	}
	return total
}

// NotesLineCount counts the lines of notes. An empty string has no lines and
// an unterminated last line still counts.
func NotesLineCount(notes string) int {
	if notes == "" {
		return 0
	}
	notes = strings.ReplaceAll(notes, "\r\n", "\n")
	notes = strings.ReplaceAll(notes, "\r", "\n")
	n := strings.Count(notes, "\n")
	if !strings.HasSuffix(notes, "\n") {
		n++
	}
	return n
}

// Entry pairs a set number with its record.
type Entry struct {
	Number string
	Record Record
}
