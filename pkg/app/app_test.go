package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tableflip.dev/bricks/pkg/catalog"
	"tableflip.dev/bricks/pkg/catalog/catalogtest"
	"tableflip.dev/bricks/pkg/collection"
	"tableflip.dev/bricks/pkg/collection/viewmodel"
	"tableflip.dev/bricks/pkg/selection"
	"tableflip.dev/bricks/pkg/store"
)

type memoryPersistence struct {
	mu      sync.Mutex
	entries []collection.Entry
	saves   int
}

func newMemoryPersistence(entries ...collection.Entry) *memoryPersistence {
	return &memoryPersistence{entries: entries}
}

func (m *memoryPersistence) Load(_ context.Context) ([]collection.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]collection.Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = collection.Entry{Number: e.Number, Record: e.Record.Clone()}
	}
	return out, nil
}

func (m *memoryPersistence) Save(_ context.Context, entries []collection.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = entries
	m.saves++
	return nil
}

func (m *memoryPersistence) Path() string { return "memory" }

func (m *memoryPersistence) Watch(_ context.Context) (<-chan store.Event, error) {
	return make(chan store.Event), nil
}

type stubWeights struct {
	grams *int
	err   error
	calls int
}

func (w *stubWeights) FetchSetWeightGrams(context.Context, string) (*int, error) {
	w.calls++
	return w.grams, w.err
}

type recorder struct {
	resets   int
	added    []int
	updated  []string
	removed  []string
	totals   []viewmodel.Totals
	selected []selection.Selection
}

func (r *recorder) listener() Listener {
	return ListenerFuncs{
		OnRowsReset:        func([]viewmodel.Row) { r.resets++ },
		OnRowAdded:         func(_ viewmodel.Row, i int) { r.added = append(r.added, i) },
		OnRowUpdated:       func(row viewmodel.Row, _ int) { r.updated = append(r.updated, row.Number) },
		OnRowRemoved:       func(n string, _ int) { r.removed = append(r.removed, n) },
		OnSummaryChanged:   func(t viewmodel.Totals) { r.totals = append(r.totals, t) },
		OnSelectionChanged: func(s selection.Selection) { r.selected = append(r.selected, s) },
	}
}

func (r *recorder) lastTotals() viewmodel.Totals {
	return r.totals[len(r.totals)-1]
}

func newService(t *testing.T, p *memoryPersistence, w *stubWeights) (*Service, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts := Options{Catalog: catalogtest.Fixture(t), Persistence: p, Listener: rec.listener()}
	if w != nil {
		opts.Weights = w
	}
	svc, err := New(opts)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return svc, rec
}

func TestLoadBuildsRowsAndTotals(t *testing.T) {
	w := 850
	p := newMemoryPersistence(
		collection.Entry{Number: "7140-1", Record: collection.Record{Quantity: 1, WeightGrams: &w}},
		collection.Entry{Number: "9-1", Record: collection.NewRecord(nil)},
	)
	svc, rec := newService(t, p, nil)
	if rec.resets != 1 || len(rec.totals) != 1 {
		t.Fatalf("expected one reset and one summary, got %d/%d", rec.resets, len(rec.totals))
	}
	rows := svc.Rows()
	if len(rows) != 2 || rows[0].Number != "9-1" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if svc.Totals().DistinctSets != 2 {
		t.Fatalf("unexpected totals %+v", svc.Totals())
	}
}

func TestAddSet(t *testing.T) {
	grams := 1343
	weights := &stubWeights{grams: &grams}
	svc, rec := newService(t, newMemoryPersistence(
		collection.Entry{Number: "9-1", Record: collection.NewRecord(nil)},
	), weights)

	row, err := svc.AddSet(context.Background(), "8880")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if row.Number != "8880-1" || *row.WeightGrams != 1343 || row.Quantity != 1 {
		t.Fatalf("unexpected row %+v", row)
	}
	if len(rec.added) != 1 || rec.added[0] != 0 {
		t.Fatalf("expected Technic row inserted first, got %v", rec.added)
	}
	// 9-1 has 25 parts in the fixture catalog.
	if got := rec.lastTotals(); got.DistinctSets != 2 || got.NetPartsOwned != 1343+25 {
		t.Fatalf("unexpected totals %+v", got)
	}

	if _, err := svc.AddSet(context.Background(), "8880-1"); !errors.Is(err, collection.ErrDuplicateSet) {
		t.Fatalf("expected ErrDuplicateSet, got %v", err)
	}
}

func TestAddSetNotFound(t *testing.T) {
	weights := &stubWeights{}
	svc, rec := newService(t, newMemoryPersistence(), weights)

	_, err := svc.AddSet(context.Background(), "9999")
	if !errors.Is(err, catalog.ErrSetNotFound) {
		t.Fatalf("expected ErrSetNotFound, got %v", err)
	}
	if !IsUserError(err) {
		t.Fatalf("expected a user error")
	}
	if len(svc.Rows()) != 0 || len(rec.added) != 0 || weights.calls != 0 {
		t.Fatalf("state changed on failed add")
	}
}

func TestAddSetWeightFailureIsUnknown(t *testing.T) {
	svc, _ := newService(t, newMemoryPersistence(), &stubWeights{err: errors.New("offline")})
	row, err := svc.AddSet(context.Background(), "7140-1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if row.WeightGrams != nil {
		t.Fatalf("expected unknown weight")
	}
}

func TestAddSetUnknownThemeRollsBack(t *testing.T) {
	svc, _ := newService(t, newMemoryPersistence(), nil)
	_, err := svc.AddSet(context.Background(), "666-1")
	if !IsCatalogError(err) {
		t.Fatalf("expected catalog error, got %v", err)
	}
	if _, err := svc.Record("666-1"); !errors.Is(err, collection.ErrNotFound) {
		t.Fatalf("expected rollback, got %v", err)
	}
}

func TestRemoveSelectedSetDiscardsEdits(t *testing.T) {
	p := newMemoryPersistence(
		collection.Entry{Number: "7140-1", Record: collection.NewRecord(nil)},
		collection.Entry{Number: "9-1", Record: collection.NewRecord(nil)},
	)
	svc, rec := newService(t, p, nil)
	ctx := context.Background()

	if err := svc.Select(ctx, "7140-1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	svc.Buffers().AddPart("3001")
	_ = svc.Buffers().SetPartColor(0, "Nope")

	if err := svc.RemoveSet(ctx, "7140-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := svc.Selection(); ok {
		t.Fatalf("expected no selection")
	}
	if len(rec.removed) != 1 || len(svc.Rows()) != 1 {
		t.Fatalf("unexpected rows after remove")
	}
	if len(rec.updated) != 0 {
		t.Fatalf("removed selection was flushed")
	}
	if err := svc.RemoveSet(ctx, "7140-1"); !errors.Is(err, collection.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveFlushesSelection(t *testing.T) {
	p := newMemoryPersistence(collection.Entry{Number: "7140-1", Record: collection.NewRecord(nil)})
	svc, rec := newService(t, p, nil)
	ctx := context.Background()

	_ = svc.Select(ctx, "7140-1")
	svc.Buffers().AddFig("sw0001")
	svc.Buffers().SetNotes("with stickers")
	if err := svc.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if p.saves != 1 {
		t.Fatalf("expected one save")
	}
	got := p.entries[0].Record
	if len(got.MissingFigs) != 1 || got.Notes != "with stickers" {
		t.Fatalf("edits not saved %+v", got)
	}
	if _, ok := svc.Selection(); ok {
		t.Fatalf("expected selection cleared by save")
	}
	if rec.resets != 2 {
		t.Fatalf("expected rows rebuilt after save, got %d resets", rec.resets)
	}
}

func TestSaveBlockedByInvalidEdit(t *testing.T) {
	p := newMemoryPersistence(collection.Entry{Number: "7140-1", Record: collection.NewRecord(nil)})
	svc, _ := newService(t, p, nil)
	ctx := context.Background()

	_ = svc.Select(ctx, "7140-1")
	svc.Buffers().AddPart("3001")
	_ = svc.Buffers().SetPartQuantity(0, "0")

	err := svc.Save(ctx)
	if !errors.Is(err, selection.ErrInvalidQuantity) || !IsUserError(err) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	if p.saves != 0 {
		t.Fatalf("saved despite invalid edit")
	}
}

func TestEditField(t *testing.T) {
	p := newMemoryPersistence(collection.Entry{Number: "7140-1", Record: collection.NewRecord(nil)})
	svc, rec := newService(t, p, nil)
	ctx := context.Background()

	row, err := svc.EditField(ctx, "7140-1", FieldQuantity, "3")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if row.Quantity != 3 || rec.lastTotals().SetCount != 3 {
		t.Fatalf("unexpected row %+v", row)
	}
	if row, _ = svc.EditField(ctx, "7140-1", FieldWeight, "850"); *row.WeightGrams != 850 {
		t.Fatalf("weight not set")
	}
	if row, _ = svc.EditField(ctx, "7140-1", FieldWeight, ""); row.WeightGrams != nil {
		t.Fatalf("empty weight should be unknown")
	}

	for _, tt := range []struct {
		field Field
		value string
	}{
		{FieldQuantity, "0"},
		{FieldBoxes, "-1"},
		{FieldInstructions, "x"},
		{Field("color"), "1"},
	} {
		if _, err := svc.EditField(ctx, "7140-1", tt.field, tt.value); !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("%s=%q: expected ErrInvalidValue, got %v", tt.field, tt.value, err)
		}
	}
}

func TestSearch(t *testing.T) {
	p := newMemoryPersistence(
		collection.Entry{Number: "7140-1", Record: collection.Record{
			Quantity:    1,
			MissingFigs: []collection.MissingFig{{FigNumber: "sw0001", Quantity: 1}},
		}},
		collection.Entry{Number: "9-1", Record: collection.NewRecord(nil)},
		collection.Entry{Number: "8880-1", Record: collection.NewRecord(nil)},
	)
	svc, _ := newService(t, p, nil)

	tests := map[string][]string{
		"":         {"8880-1", "9-1", "7140-1"},
		"x-wing":   {"7140-1"},
		"police":   {"9-1"},
		"SW0001":   {"7140-1"},
		"nothing":  nil,
		"8880":     {"8880-1"},
		"technic:": nil,
	}
	for q, want := range tests {
		got := svc.Search(q)
		if len(got) != len(want) {
			t.Fatalf("search %q: got %d rows, want %v", q, len(got), want)
		}
		for i := range want {
			if got[i].Number != want[i] {
				t.Fatalf("search %q: got %s at %d, want %s", q, got[i].Number, i, want[i])
			}
		}
	}
}

func TestDispatch(t *testing.T) {
	svc, rec := newService(t, newMemoryPersistence(), nil)
	ctx := context.Background()

	for _, cmd := range []Command{
		AddSet{Number: "9"},
		AddSet{Number: "10-1"},
		Select{Number: "9-1"},
		Deselect{},
		EditField{Number: "10-1", Field: FieldBoxes, Value: "1"},
		RemoveSet{Number: "10-1"},
		Search{Query: "9-1"},
		Save{},
		Reload{},
	} {
		if err := svc.Dispatch(ctx, cmd); err != nil {
			t.Fatalf("dispatch %T: %v", cmd, err)
		}
	}
	if len(rec.added) != 2 || len(rec.removed) != 1 || len(rec.selected) != 2 {
		t.Fatalf("unexpected events %+v", rec)
	}
	if rows := svc.Rows(); len(rows) != 1 || rows[0].Number != "9-1" {
		t.Fatalf("unexpected rows after reload %+v", rows)
	}
}

func TestMissingShoppingList(t *testing.T) {
	p := newMemoryPersistence(
		collection.Entry{Number: "7140-1", Record: collection.Record{
			Quantity:     1,
			MissingParts: []collection.MissingPart{{PartNumber: "3001", ColorID: 5, Quantity: 2}},
			MissingFigs:  []collection.MissingFig{{FigNumber: "sw0001", Quantity: 1}},
		}},
		collection.Entry{Number: "9-1", Record: collection.Record{
			Quantity: 1,
			MissingParts: []collection.MissingPart{
				{PartNumber: "3001", ColorID: 5, Quantity: 1},
				{PartNumber: "3001", ColorID: 11, Quantity: 1},
			},
		}},
	)
	svc, _ := newService(t, p, nil)

	list := svc.Missing()
	if len(list.Parts) != 2 || len(list.Figs) != 1 {
		t.Fatalf("unexpected list %+v", list)
	}
	red := list.Parts[0]
	if red.ColorName != "Red" || red.Quantity != 3 || len(red.Sets) != 2 || red.Sets[0] != "9-1" {
		t.Fatalf("unexpected red line %+v", red)
	}
	if list.Parts[1].ColorName != "Black" || list.Parts[1].Quantity != 1 {
		t.Fatalf("unexpected black line %+v", list.Parts[1])
	}
}

func TestRequestImageDisabled(t *testing.T) {
	done := make(chan error, 1)
	svc, err := New(Options{
		Catalog:     catalogtest.Fixture(t),
		Persistence: newMemoryPersistence(),
		Listener: ListenerFuncs{OnImageReady: func(_, _ string, err error) {
			done <- err
		}},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	svc.RequestImage(context.Background(), "9-1")
	if err := <-done; err == nil {
		t.Fatalf("expected disabled fetcher to fail")
	}
}
