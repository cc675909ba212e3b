package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tableflip.dev/bricks/pkg/app"
	"tableflip.dev/bricks/pkg/catalog/catalogtest"
	"tableflip.dev/bricks/pkg/collection"
	"tableflip.dev/bricks/pkg/store"
)

type memoryStore struct {
	entries []collection.Entry
}

func (m *memoryStore) Load(context.Context) ([]collection.Entry, error) {
	out := make([]collection.Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = collection.Entry{Number: e.Number, Record: e.Record.Clone()}
	}
	return out, nil
}

func (m *memoryStore) Save(_ context.Context, entries []collection.Entry) error {
	m.entries = entries
	return nil
}

func (m *memoryStore) Path() string { return "memory" }

func (m *memoryStore) Watch(context.Context) (<-chan store.Event, error) {
	return nil, errors.New("not supported")
}

func newTestService(t *testing.T, m *memoryStore) *Service {
	t.Helper()
	a, err := app.New(app.Options{Catalog: catalogtest.Fixture(t), Persistence: m})
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	return NewService(a)
}

func fixtureStore() *memoryStore {
	w := 850
	return &memoryStore{entries: []collection.Entry{
		{Number: "7140-1", Record: collection.Record{
			Quantity:     2,
			WeightGrams:  &w,
			MissingParts: []collection.MissingPart{{PartNumber: "3001", ColorID: 5, Quantity: 2}},
			MissingFigs:  []collection.MissingFig{{FigNumber: "sw0001", Quantity: 1}},
			Notes:        "stickers applied",
		}},
		{Number: "9-1", Record: collection.NewRecord(nil)},
	}}
}

func TestListSets(t *testing.T) {
	svc := newTestService(t, fixtureStore())
	sets, err := svc.ListSets(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sets) != 2 || sets[0].Number != "9-1" || sets[1].Theme != "Star Wars: Episode 4/5/6" {
		t.Fatalf("unexpected sets %+v", sets)
	}

	sets, _ = svc.ListSets(context.Background(), "sw0001")
	if len(sets) != 1 || sets[0].Number != "7140-1" {
		t.Fatalf("unexpected filtered sets %+v", sets)
	}
}

func TestGetSet(t *testing.T) {
	svc := newTestService(t, fixtureStore())
	set, err := svc.GetSet(context.Background(), "7140")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if set.Released != "1999" || set.Notes != "stickers applied" {
		t.Fatalf("unexpected detail %+v", set)
	}
	if len(set.MissingParts) != 1 || set.MissingParts[0].ColorName != "Red" {
		t.Fatalf("unexpected missing parts %+v", set.MissingParts)
	}
	if !strings.HasSuffix(set.MissingParts[0].ImageURL, "/3001.png") {
		t.Fatalf("unexpected part image %q", set.MissingParts[0].ImageURL)
	}
	if len(set.MissingFigs) != 1 || !strings.HasSuffix(set.MissingFigs[0].ImageURL, "/sw0001.png") {
		t.Fatalf("unexpected missing figs %+v", set.MissingFigs)
	}

	if _, err := svc.GetSet(context.Background(), "10-1"); !errors.Is(err, collection.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSummarySeesExternalChanges(t *testing.T) {
	m := fixtureStore()
	svc := newTestService(t, m)
	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	// 2 x 100 parts + 25 parts - 2 missing.
	if summary.Sets != 3 || summary.NetPartsOwned != 223 || summary.WeightKg != 2 || summary.MissingFigs != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	m.entries = m.entries[:1]
	summary, _ = svc.Summary(context.Background())
	if summary.DistinctSets != 1 {
		t.Fatalf("expected reload to drop 9-1, got %+v", summary)
	}
}

func TestColors(t *testing.T) {
	svc := newTestService(t, fixtureStore())
	groups, err := svc.Colors(context.Background())
	if err != nil {
		t.Fatalf("colors: %v", err)
	}
	if len(groups) == 0 || groups[0].Group != "Solid" {
		t.Fatalf("unexpected groups %+v", groups)
	}

	if _, err := NewService(nil).Colors(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestMissing(t *testing.T) {
	svc := newTestService(t, fixtureStore())
	list, err := svc.Missing(context.Background())
	if err != nil {
		t.Fatalf("missing: %v", err)
	}
	if len(list.Parts) != 1 || list.Parts[0].Quantity != 2 || len(list.Figs) != 1 {
		t.Fatalf("unexpected list %+v", list)
	}
}
