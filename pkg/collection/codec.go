package collection

import (
	"encoding/json"
	"fmt"
)

// The persisted layout is an array of arrays, one per owned set:
//
//	[number, quantity, boxes, instructions, weightOrNull,
//	 [[partNumber, colorId, quantity], ...], [[figNumber, quantity], ...], notes]

const entryFields = 8

// MarshalJSON encodes e in the persisted array layout.
func (e Entry) MarshalJSON() ([]byte, error) {
	parts := make([][]any, 0, len(e.Record.MissingParts))
	for _, p := range e.Record.MissingParts {
		parts = append(parts, []any{p.PartNumber, p.ColorID, p.Quantity})
	}
	figs := make([][]any, 0, len(e.Record.MissingFigs))
	for _, f := range e.Record.MissingFigs {
		figs = append(figs, []any{f.FigNumber, f.Quantity})
	}
	var weight any
	if e.Record.WeightGrams != nil {
		weight = *e.Record.WeightGrams
	}
	return json.Marshal([]any{
		e.Number,
		e.Record.Quantity,
		e.Record.Boxes,
		e.Record.Instructions,
		weight,
		parts,
		figs,
		e.Record.Notes,
	})
}

// UnmarshalJSON decodes the persisted array layout.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("collection: entry: %w", err)
	}
	if len(fields) != entryFields {
		return fmt.Errorf("collection: entry: expected %d fields, got %d", entryFields, len(fields))
	}

	var out Entry
	targets := []struct {
		name string
		v    any
	}{
		{"number", &out.Number},
		{"quantity", &out.Record.Quantity},
		{"boxes", &out.Record.Boxes},
		{"instructions", &out.Record.Instructions},
		{"weight", &out.Record.WeightGrams},
	}
	for i, target := range targets {
		if err := json.Unmarshal(fields[i], target.v); err != nil {
			return fmt.Errorf("collection: entry %s: %s: %w", out.Number, target.name, err)
		}
	}

	var parts [][]json.RawMessage
	if err := json.Unmarshal(fields[5], &parts); err != nil {
		return fmt.Errorf("collection: entry %s: missing parts: %w", out.Number, err)
	}
	out.Record.MissingParts = make([]MissingPart, 0, len(parts))
	for i, raw := range parts {
		p, err := decodePart(raw)
		if err != nil {
			return fmt.Errorf("collection: entry %s: missing part %d: %w", out.Number, i, err)
		}
		out.Record.MissingParts = append(out.Record.MissingParts, p)
	}

	var figs [][]json.RawMessage
	if err := json.Unmarshal(fields[6], &figs); err != nil {
		return fmt.Errorf("collection: entry %s: missing figs: %w", out.Number, err)
	}
	out.Record.MissingFigs = make([]MissingFig, 0, len(figs))
	for i, raw := range figs {
		f, err := decodeFig(raw)
		if err != nil {
			return fmt.Errorf("collection: entry %s: missing fig %d: %w", out.Number, i, err)
		}
		out.Record.MissingFigs = append(out.Record.MissingFigs, f)
	}

	if err := json.Unmarshal(fields[7], &out.Record.Notes); err != nil {
		return fmt.Errorf("collection: entry %s: notes: %w", out.Number, err)
	}
	if out.Record.WeightGrams != nil && *out.Record.WeightGrams == 0 {
		out.Record.WeightGrams = nil
	}
	*e = out
	return nil
}

func decodePart(raw []json.RawMessage) (MissingPart, error) {
	if len(raw) != 3 {
		return MissingPart{}, fmt.Errorf("expected 3 fields, got %d", len(raw))
	}
	var p MissingPart
	if err := json.Unmarshal(raw[0], &p.PartNumber); err != nil {
		return MissingPart{}, err
	}
	if err := json.Unmarshal(raw[1], &p.ColorID); err != nil {
		return MissingPart{}, err
	}
	if err := json.Unmarshal(raw[2], &p.Quantity); err != nil {
		return MissingPart{}, err
	}
	return p, nil
}

func decodeFig(raw []json.RawMessage) (MissingFig, error) {
	if len(raw) != 2 {
		return MissingFig{}, fmt.Errorf("expected 2 fields, got %d", len(raw))
	}
	var f MissingFig
	if err := json.Unmarshal(raw[0], &f.FigNumber); err != nil {
		return MissingFig{}, err
	}
	if err := json.Unmarshal(raw[1], &f.Quantity); err != nil {
		return MissingFig{}, err
	}
	return f, nil
}

// Encode serialises entries in the persisted layout.
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}

// Decode parses the persisted layout. Empty input is an empty collection.
func Decode(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return []Entry{}, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
