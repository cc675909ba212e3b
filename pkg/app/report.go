package app

import (
	"sort"

	"tableflip.dev/bricks/pkg/collection"
)

// ShoppingPart is a missing part summed over every set that lacks it.
type ShoppingPart struct {
	PartNumber string
	ColorID    int
	ColorName  string
	Quantity   int
	Sets       []string
}

// ShoppingFig is a missing minifigure summed over sets.
type ShoppingFig struct {
	FigNumber string
	Quantity  int
	Sets      []string
}

// ShoppingList collects what has to be bought to complete the collection.
type ShoppingList struct {
	Parts []ShoppingPart
	Figs  []ShoppingFig
}

// Missing builds the shopping list from the saved records. Parts are ordered
// by part number then color, figures by number; sets appear in display order.
func (s *Service) Missing() ShoppingList {
	type partKey struct {
		number string
		color  int
	}
	parts := make(map[partKey]*ShoppingPart)
	figs := make(map[string]*ShoppingFig)

	for _, row := range s.rows {
		rec, err := s.collection.Get(row.Number)
		if err != nil {
			continue
		}
		for _, p := range rec.MissingParts {
			k := partKey{p.PartNumber, p.ColorID}
			item, ok := parts[k]
			if !ok {
				item = &ShoppingPart{PartNumber: p.PartNumber, ColorID: p.ColorID, ColorName: s.catalog.ColorName(p.ColorID)}
				parts[k] = item
			}
			item.Quantity += p.Quantity
			item.Sets = appendOnce(item.Sets, row.Number)
		}
		for _, f := range rec.MissingFigs {
			item, ok := figs[f.FigNumber]
			if !ok {
				item = &ShoppingFig{FigNumber: f.FigNumber}
				figs[f.FigNumber] = item
			}
			item.Quantity += f.Quantity
			item.Sets = appendOnce(item.Sets, row.Number)
		}
	}

	var list ShoppingList
	for _, p := range parts {
		list.Parts = append(list.Parts, *p)
	}
	sort.Slice(list.Parts, func(i, j int) bool {
		a, b := list.Parts[i], list.Parts[j]
		if a.PartNumber != b.PartNumber {
			return collection.CompareNumbers(a.PartNumber, b.PartNumber) < 0
		}
		return a.ColorID < b.ColorID
	})
	for _, f := range figs {
		list.Figs = append(list.Figs, *f)
	}
	sort.Slice(list.Figs, func(i, j int) bool {
		return list.Figs[i].FigNumber < list.Figs[j].FigNumber
	})
	return list
}

func appendOnce(sets []string, number string) []string {
	if len(sets) > 0 && sets[len(sets)-1] == number {
		return sets
	}
	return append(sets, number)
}
