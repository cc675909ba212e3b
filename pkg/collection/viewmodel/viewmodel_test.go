package viewmodel_test

import (
	"errors"
	"reflect"
	"testing"

	"tableflip.dev/bricks/pkg/catalog"
	"tableflip.dev/bricks/pkg/catalog/catalogtest"
	"tableflip.dev/bricks/pkg/collection"
	"tableflip.dev/bricks/pkg/collection/viewmodel"
)

func newCollection(t *testing.T, numbers ...string) *collection.Store {
	t.Helper()
	col := collection.NewStore()
	for _, n := range numbers {
		if err := col.Add(n, collection.NewRecord(nil)); err != nil {
			t.Fatalf("add %s: %v", n, err)
		}
	}
	return col
}

func numbersOf(rows []viewmodel.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Number
	}
	return out
}

func TestBuildAllOrdering(t *testing.T) {
	cat := catalogtest.Fixture(t)
	col := newCollection(t, "7140-1", "100-1", "10179-1", "10-1", "6081-1", "9-1", "8880-1", "70-1")

	rows, err := viewmodel.NewEngine(cat, col).BuildAll()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// Technic (1), Castle before Town (both 2) by label, police sets in
	// numeric order, then the two Star Wars themes (3).
	want := []string{
		"8880-1",
		"6081-1",
		"9-1", "10-1", "70-1", "100-1",
		"7140-1",
		"10179-1",
	}
	if got := numbersOf(rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order\n got %v\nwant %v", got, want)
	}
}

func TestBuildAllIsDeterministic(t *testing.T) {
	cat := catalogtest.Fixture(t)
	col := newCollection(t, "100-1", "9-1", "7140-1", "10-1", "8880-1")
	engine := viewmodel.NewEngine(cat, col)

	first, err := engine.BuildAll()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := engine.BuildAll()
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("build %d differs from the first", i)
		}
	}
}

func TestNumericOrderRegression(t *testing.T) {
	cat := catalogtest.Fixture(t)
	col := newCollection(t, "10-1", "9-1")
	rows, err := viewmodel.NewEngine(cat, col).BuildAll()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if rows[0].Number != "9-1" {
		t.Fatalf("expected 9-1 first, got %v", numbersOf(rows))
	}
}

func TestBuildAllUnknownSet(t *testing.T) {
	cat := catalogtest.Fixture(t)
	col := newCollection(t, "9-1", "4242-1")
	_, err := viewmodel.NewEngine(cat, col).BuildAll()
	if !errors.Is(err, catalog.ErrUnknownSet) {
		t.Fatalf("expected ErrUnknownSet, got %v", err)
	}
}

func TestBuildAllUnknownTheme(t *testing.T) {
	cat := catalogtest.Fixture(t)
	col := newCollection(t, "666-1")
	_, err := viewmodel.NewEngine(cat, col).BuildAll()
	if !errors.Is(err, catalog.ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
}

func TestUpdateOneDerivedFields(t *testing.T) {
	cat := catalogtest.Fixture(t)
	col := collection.NewStore()
	w := 850
	_ = col.Add("7140-1", collection.Record{
		Quantity:    2,
		WeightGrams: &w,
		MissingParts: []collection.MissingPart{
			{PartNumber: "3001", ColorID: 5, Quantity: 2},
			{PartNumber: "3002", ColorID: 11, Quantity: 1},
		},
		MissingFigs: []collection.MissingFig{{FigNumber: "sw0001", Quantity: 1}},
		Notes:       "first\nsecond",
	})

	row, err := viewmodel.NewEngine(cat, col).UpdateOne("7140-1")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if row.MissingPartsTotal != 3 || row.MissingFigsTotal != 1 || row.NotesLineCount != 2 {
		t.Fatalf("unexpected derived fields %+v", row)
	}
	if row.ThemeLabel != "Star Wars: Episode 4/5/6" || row.TotalParts != 100 || *row.WeightGrams != 850 {
		t.Fatalf("unexpected joined fields %+v", row)
	}

	if _, err := viewmodel.NewEngine(cat, col).UpdateOne("9-1"); !errors.Is(err, collection.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unowned set, got %v", err)
	}
}

func TestAllSequenceIsRestartable(t *testing.T) {
	cat := catalogtest.Fixture(t)
	col := newCollection(t, "10-1", "9-1")
	engine := viewmodel.NewEngine(cat, col)

	count := func() int {
		n := 0
		for _, err := range engine.All() {
			if err != nil {
				t.Fatalf("all: %v", err)
			}
			n++
		}
		return n
	}
	if count() != 2 {
		t.Fatalf("expected 2 rows")
	}
	_ = col.Add("70-1", collection.NewRecord(nil))
	if count() != 3 {
		t.Fatalf("expected sequence to reflect the added record")
	}
}

func TestInsertReplaceRemove(t *testing.T) {
	cat := catalogtest.Fixture(t)
	col := newCollection(t, "9-1", "100-1", "8880-1")
	engine := viewmodel.NewEngine(cat, col)
	rows, _ := engine.BuildAll()

	_ = col.Add("70-1", collection.NewRecord(nil))
	row, _ := engine.UpdateOne("70-1")
	rows, idx := viewmodel.Insert(rows, row)
	if idx != 2 {
		t.Fatalf("expected 70-1 inserted at 2, got %d (%v)", idx, numbersOf(rows))
	}
	rebuilt, _ := engine.BuildAll()
	if !reflect.DeepEqual(numbersOf(rows), numbersOf(rebuilt)) {
		t.Fatalf("insert position disagrees with full rebuild: %v vs %v", numbersOf(rows), numbersOf(rebuilt))
	}

	row.Boxes = 3
	if i := viewmodel.Replace(rows, row); i != 2 || rows[2].Boxes != 3 {
		t.Fatalf("replace failed: %d", i)
	}

	rows, idx = viewmodel.Remove(rows, "9-1")
	if idx != 1 || len(rows) != 3 {
		t.Fatalf("remove failed: %d %v", idx, numbersOf(rows))
	}
	if _, idx := viewmodel.Remove(rows, "9-1"); idx != -1 {
		t.Fatalf("expected -1 removing absent row")
	}
}

func TestGroups(t *testing.T) {
	cat := catalogtest.Fixture(t)
	col := newCollection(t, "9-1", "10-1", "8880-1", "7140-1")
	rows, _ := viewmodel.NewEngine(cat, col).BuildAll()

	groups := viewmodel.Groups(rows)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[1].Label != "Town: City: Police" || len(groups[1].Rows) != 2 {
		t.Fatalf("unexpected police group %+v", groups[1])
	}
}

func TestRecompute(t *testing.T) {
	w1, w2 := 850, 1300
	rows := []viewmodel.Row{
		{Number: "7140-1", ThemeLabel: "Star Wars", Quantity: 2, Boxes: 1, Instructions: 2, TotalParts: 100, WeightGrams: &w1, MissingPartsTotal: 3, MissingFigsTotal: 1},
		{Number: "9-1", ThemeLabel: "Town", Quantity: 1, Boxes: 0, Instructions: 1, TotalParts: 25, WeightGrams: &w2},
		{Number: "10-1", ThemeLabel: "Town", Quantity: 1, TotalParts: 370, MissingFigsTotal: 2},
	}
	got := viewmodel.Recompute(rows)
	want := viewmodel.Totals{
		SetCount:          4,
		DistinctSets:      3,
		NetPartsOwned:     200 + 25 + 370 - 3,
		TotalWeightKg:     3, // (1700 + 1300) / 1000
		TotalBoxes:        1,
		TotalInstructions: 3,
		ThemeCount:        2,
		TotalMissingParts: 3,
		TotalMissingFigs:  3,
	}
	if got != want {
		t.Fatalf("unexpected totals\n got %+v\nwant %+v", got, want)
	}

	if empty := viewmodel.Recompute(nil); empty != (viewmodel.Totals{}) {
		t.Fatalf("expected zero totals, got %+v", empty)
	}
}

func TestNetPartsScenario(t *testing.T) {
	cat, err := catalog.New(
		[]catalog.SetEntry{{Number: "7140-1", Name: "X-wing Fighter", ThemeID: 18, TotalParts: 100}},
		nil,
		[]catalog.RootTheme{{ID: 18, Name: "Star Wars", SortKey: 1}},
		nil,
	)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	col := collection.NewStore()
	_ = col.Add("7140-1", collection.Record{
		Quantity:     1,
		MissingParts: []collection.MissingPart{{PartNumber: "3001", ColorID: 5, Quantity: 2}},
	})
	rows, err := viewmodel.NewEngine(cat, col).BuildAll()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := viewmodel.Recompute(rows).NetPartsOwned; got != 98 {
		t.Fatalf("expected 98 net parts, got %d", got)
	}
}

func TestWeightRoundsHalfToEven(t *testing.T) {
	w := 2500
	rows := []viewmodel.Row{{Quantity: 1, WeightGrams: &w}}
	if got := viewmodel.Recompute(rows).TotalWeightKg; got != 2 {
		t.Fatalf("expected 2kg, got %d", got)
	}
}
