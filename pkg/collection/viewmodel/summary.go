package viewmodel

import "math"

// Totals are the collection-wide figures shown in the status bar.
type Totals struct {
	// SetCount counts owned copies; DistinctSets counts rows.
	SetCount     int
	DistinctSets int

	NetPartsOwned     int
	TotalWeightKg     int
	TotalBoxes        int
	TotalInstructions int
	ThemeCount        int
	TotalMissingParts int
	TotalMissingFigs  int
}

// Recompute derives totals from rows in a single pass. Weight scales with
// owned quantity; missing counts do not.
func Recompute(rows []Row) Totals {
	var (
		t      Totals
		parts  int
		grams  int
		themes = make(map[string]struct{})
	)
	for _, row := range rows {
		t.SetCount += row.Quantity
		t.TotalBoxes += row.Boxes
		t.TotalInstructions += row.Instructions
		t.TotalMissingParts += row.MissingPartsTotal
		t.TotalMissingFigs += row.MissingFigsTotal
		parts += row.TotalParts * row.Quantity
		if row.WeightGrams != nil {
			grams += *row.WeightGrams * row.Quantity
		}
		themes[row.ThemeLabel] = struct{}{}
	}
	t.DistinctSets = len(rows)
	t.NetPartsOwned = parts - t.TotalMissingParts
	t.TotalWeightKg = int(math.RoundToEven(float64(grams) / 1000))
	t.ThemeCount = len(themes)
	return t
}
