package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"tableflip.dev/bricks/pkg/catalog"
	"tableflip.dev/bricks/pkg/collection"
	"tableflip.dev/bricks/pkg/collection/viewmodel"
	"tableflip.dev/bricks/pkg/fetch"
	"tableflip.dev/bricks/pkg/selection"
	"tableflip.dev/bricks/pkg/store"
)

// SetResolver validates a set number before it is added.
type SetResolver interface {
	FetchSetMetadata(ctx context.Context, number string) (catalog.SetMetadata, error)
}

// Options wires a Service. Catalog and Persistence are required.
type Options struct {
	Catalog     *catalog.Store
	Persistence store.Persistence
	Resolver    SetResolver
	Weights     fetch.WeightFetcher
	Images      fetch.ImageFetcher
	Listener    Listener
	Logger      *slog.Logger
}

// Service provides the collection operations shared by the TUI, the CLI and
// the MCP server. It owns the collection, the sorted rows and the summary.
// Service is not safe for concurrent use.
type Service struct {
	catalog     *catalog.Store
	persistence store.Persistence
	resolver    SetResolver
	weights     fetch.WeightFetcher
	images      fetch.ImageFetcher
	listener    Listener
	log         *slog.Logger

	collection *collection.Store
	engine     *viewmodel.Engine
	selection  *selection.Controller

	loaded bool
	rows   []viewmodel.Row
	totals viewmodel.Totals
}

// New assembles a service. Call Load before anything else.
func New(opts Options) (*Service, error) {
	if opts.Catalog == nil {
		return nil, errors.New("app: no catalog configured")
	}
	if opts.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	s := &Service{
		catalog:     opts.Catalog,
		persistence: opts.Persistence,
		resolver:    opts.Resolver,
		weights:     opts.Weights,
		images:      opts.Images,
		listener:    opts.Listener,
		log:         opts.Logger,
		collection:  collection.NewStore(),
	}
	if s.resolver == nil {
		s.resolver = catalog.LocalResolver{Catalog: s.catalog}
	}
	if s.weights == nil {
		s.weights = fetch.Disabled{}
	}
	if s.images == nil {
		s.images = fetch.Disabled{}
	}
	if s.listener == nil {
		s.listener = NopListener
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.engine = viewmodel.NewEngine(s.catalog, s.collection)
	s.selection = selection.New(selection.Options{
		Catalog:    s.catalog,
		Collection: s.collection,
		Engine:     s.engine,
		Sink:       sink{s: s},
	})
	return s, nil
}

// Load reads the collection from persistence and rebuilds every row. Unsaved
// edits and the selection are dropped.
func (s *Service) Load(ctx context.Context) error {
	entries, err := s.persistence.Load(ctx)
	if err != nil {
		return err
	}
	if n, ok := s.selection.Current(); ok {
		s.selection.Discard(n)
	}
	if err := s.collection.Reset(entries); err != nil {
		return fmt.Errorf("app: load %s: %w", s.persistence.Path(), err)
	}
	if err := s.rebuild(); err != nil {
		return err
	}
	s.loaded = true
	s.log.Info("collection loaded", "path", s.persistence.Path(), "sets", s.collection.Len())
	return nil
}

func (s *Service) rebuild() error {
	rows, err := s.engine.BuildAll()
	if err != nil {
		return fmt.Errorf("app: build rows: %w", err)
	}
	s.rows = rows
	s.listener.RowsReset(s.Rows())
	s.recompute()
	return nil
}

func (s *Service) recompute() {
	s.totals = viewmodel.Recompute(s.rows)
	s.listener.SummaryChanged(s.totals)
}

// SetListener replaces the listener. A nil listener drops events.
func (s *Service) SetListener(l Listener) {
	if l == nil {
		l = NopListener
	}
	s.listener = l
}

// Catalog returns the reference data.
func (s *Service) Catalog() *catalog.Store {
	return s.catalog
}

// Logger is the service's logger.
func (s *Service) Logger() *slog.Logger {
	return s.log
}

// Path is where the collection is saved.
func (s *Service) Path() string {
	return s.persistence.Path()
}

// Rows returns a copy of the displayed rows in display order.
func (s *Service) Rows() []viewmodel.Row {
	out := make([]viewmodel.Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Row returns the displayed row of number.
func (s *Service) Row(number string) (viewmodel.Row, bool) {
	i := viewmodel.Index(s.rows, collection.NormalizeNumber(number))
	if i < 0 {
		return viewmodel.Row{}, false
	}
	return s.rows[i], true
}

// Totals returns the current summary.
func (s *Service) Totals() viewmodel.Totals {
	return s.totals
}

// Record returns a copy of the stored record of number.
func (s *Service) Record(number string) (collection.Record, error) {
	rec, err := s.collection.Get(collection.NormalizeNumber(number))
	if err != nil {
		return collection.Record{}, err
	}
	return rec.Clone(), nil
}

// Selection reports the set open in the detail panel.
func (s *Service) Selection() (string, bool) {
	return s.selection.Current()
}

// Buffers exposes the detail-panel edits of the selected set.
func (s *Service) Buffers() *selection.Buffers {
	return s.selection.Buffers()
}

// Watch subscribes to changes made to the collection file by other processes.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	return s.persistence.Watch(ctx)
}

// AddSet adds one copy of a catalog set to the collection. The weight is
// fetched when possible and left unknown otherwise.
func (s *Service) AddSet(ctx context.Context, raw string) (viewmodel.Row, error) {
	number, err := s.CheckNew(ctx, raw)
	if err != nil {
		return viewmodel.Row{}, err
	}
	return s.Insert(ctx, number, s.FetchWeight(ctx, number))
}

// CheckNew normalizes raw and verifies that it names a catalog set that is
// not yet in the collection.
func (s *Service) CheckNew(ctx context.Context, raw string) (string, error) {
	if !s.loaded {
		return "", ErrNotLoaded
	}
	number := collection.NormalizeNumber(raw)
	if number == "" {
		return "", ErrInvalidNumber
	}
	if s.collection.Has(number) {
		return "", fmt.Errorf("%w: %s", collection.ErrDuplicateSet, number)
	}
	if _, err := s.resolver.FetchSetMetadata(ctx, number); err != nil {
		return "", err
	}
	return number, nil
}

// FetchWeight looks up the weight of a set, returning nil when it is not
// known. It only touches the weight fetcher and may run on any goroutine.
func (s *Service) FetchWeight(ctx context.Context, number string) *int {
	weight, err := s.weights.FetchSetWeightGrams(ctx, number)
	if err != nil {
		if !errors.Is(err, fetch.ErrDisabled) {
			s.log.Warn("weight lookup failed", "set", number, "err", err)
		}
		return nil
	}
	return weight
}

// Insert adds a checked set number with the given weight.
func (s *Service) Insert(ctx context.Context, number string, weight *int) (viewmodel.Row, error) {
	if !s.loaded {
		return viewmodel.Row{}, ErrNotLoaded
	}
	if err := s.collection.Add(number, collection.NewRecord(weight)); err != nil {
		return viewmodel.Row{}, err
	}
	row, err := s.engine.UpdateOne(number)
	if err != nil {
		_ = s.collection.Remove(number)
		return viewmodel.Row{}, err
	}

	var idx int
	s.rows, idx = viewmodel.Insert(s.rows, row)
	s.listener.RowAdded(row, idx)
	s.recompute()
	s.log.Info("set added", "set", number)
	return row, nil
}

// RemoveSet drops a set from the collection. Pending detail edits of the set
// are discarded.
func (s *Service) RemoveSet(ctx context.Context, raw string) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	number := collection.NormalizeNumber(raw)
	if !s.collection.Has(number) {
		return fmt.Errorf("%w: %s", collection.ErrNotFound, number)
	}
	s.selection.Discard(number)
	if err := s.collection.Remove(number); err != nil {
		return err
	}

	var idx int
	s.rows, idx = viewmodel.Remove(s.rows, number)
	s.listener.RowRemoved(number, idx)
	s.recompute()
	s.log.Info("set removed", "set", number)
	return nil
}

// Select opens a set in the detail panel, committing the previous one.
func (s *Service) Select(ctx context.Context, raw string) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	return s.selection.Select(collection.NormalizeNumber(raw))
}

// Deselect commits and closes the detail panel.
func (s *Service) Deselect(ctx context.Context) error {
	return s.selection.DeselectAll()
}

// Save commits pending edits and writes the whole collection.
func (s *Service) Save(ctx context.Context) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	if err := s.selection.DeselectAll(); err != nil {
		return err
	}
	if err := s.persistence.Save(ctx, s.collection.All()); err != nil {
		return err
	}
	s.log.Info("collection saved", "path", s.persistence.Path(), "sets", s.collection.Len())
	return s.rebuild()
}

// Field names an editable numeric column of a record.
type Field string

const (
	FieldQuantity     Field = "quantity"
	FieldBoxes        Field = "boxes"
	FieldInstructions Field = "instructions"
	FieldWeight       Field = "weight"
)

// Fields lists the editable fields.
var Fields = []Field{FieldQuantity, FieldBoxes, FieldInstructions, FieldWeight}

// EditField sets a numeric column of a record. An empty or zero weight means
// unknown.
func (s *Service) EditField(ctx context.Context, raw string, field Field, value string) (viewmodel.Row, error) {
	if !s.loaded {
		return viewmodel.Row{}, ErrNotLoaded
	}
	number := collection.NormalizeNumber(raw)
	rec, err := s.collection.Get(number)
	if err != nil {
		return viewmodel.Row{}, err
	}

	value = strings.TrimSpace(value)
	parse := func(min int, want string) (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil || n < min {
			return 0, &FieldError{Field: field, Value: value, Want: want}
		}
		return n, nil
	}

	switch field {
	case FieldQuantity:
		n, err := parse(1, "a whole number of at least 1")
		if err != nil {
			return viewmodel.Row{}, err
		}
		rec.Quantity = n
	case FieldBoxes:
		n, err := parse(0, "a whole number")
		if err != nil {
			return viewmodel.Row{}, err
		}
		rec.Boxes = n
	case FieldInstructions:
		n, err := parse(0, "a whole number")
		if err != nil {
			return viewmodel.Row{}, err
		}
		rec.Instructions = n
	case FieldWeight:
		if value == "" {
			rec.WeightGrams = nil
			break
		}
		n, err := parse(0, "grams or empty")
		if err != nil {
			return viewmodel.Row{}, err
		}
		if n == 0 {
			rec.WeightGrams = nil
		} else {
			rec.WeightGrams = &n
		}
	default:
		return viewmodel.Row{}, &FieldError{Field: field, Value: value, Want: "a known field"}
	}

	row, err := s.engine.UpdateOne(number)
	if err != nil {
		return viewmodel.Row{}, err
	}
	idx := viewmodel.Replace(s.rows, row)
	s.listener.RowUpdated(row, idx)
	s.recompute()
	return row, nil
}

// Search returns the rows whose number, name or theme contains query, or
// whose record lists a missing part or figure containing it. Matching
// ignores case. An empty query returns every row.
func (s *Service) Search(query string) []viewmodel.Row {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.Rows()
	}
	var out []viewmodel.Row
	for _, row := range s.rows {
		if s.matches(row, query) {
			out = append(out, row)
		}
	}
	return out
}

func (s *Service) matches(row viewmodel.Row, query string) bool {
	for _, field := range []string{row.Number, row.Name, row.ThemeLabel} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	rec, err := s.collection.Get(row.Number)
	if err != nil {
		return false
	}
	for _, p := range rec.MissingParts {
		if strings.Contains(strings.ToLower(p.PartNumber), query) {
			return true
		}
	}
	for _, f := range rec.MissingFigs {
		if strings.Contains(strings.ToLower(f.FigNumber), query) {
			return true
		}
	}
	return false
}

// RequestImage fetches a set's image in the background and reports it through
// Listener.ImageReady.
func (s *Service) RequestImage(ctx context.Context, number string) {
	number = collection.NormalizeNumber(number)
	images, listener, log := s.images, s.listener, s.log
	go func() {
		path, err := images.FetchImage(ctx, number)
		if err != nil && !errors.Is(err, fetch.ErrDisabled) {
			log.Warn("image fetch failed", "set", number, "err", err)
		}
		listener.ImageReady(number, path, err)
	}()
}
