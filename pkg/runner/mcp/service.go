// Package mcp provides the Model Context Protocol server integration for bricks.
package mcp

import (
	"context"
	"errors"
	"sync"

	"tableflip.dev/bricks/pkg/app"
	"tableflip.dev/bricks/pkg/catalog"
	"tableflip.dev/bricks/pkg/collection/viewmodel"
	"tableflip.dev/bricks/pkg/fetch"
)

// Service exposes read-only views of the collection. Every call reloads the
// collection file so edits made in the TUI are visible without a restart.
type Service struct {
	mu  sync.Mutex
	app *app.Service
}

// ErrNotConfigured is returned when the service has no backing collection.
var ErrNotConfigured = errors.New("collection is not configured")

// SetDTO is a transport-friendly projection of a collection row.
type SetDTO struct {
	Number            string `json:"number"`
	Name              string `json:"name"`
	Theme             string `json:"theme"`
	Quantity          int    `json:"quantity"`
	Boxes             int    `json:"boxes"`
	Instructions      int    `json:"instructions"`
	TotalParts        int    `json:"totalParts"`
	WeightGrams       *int   `json:"weightGrams"`
	MissingPartsTotal int    `json:"missingParts"`
	MissingFigsTotal  int    `json:"missingFigs"`
	NotesLines        int    `json:"notesLines"`
}

// MissingPartDTO is one missing part line with its color resolved.
type MissingPartDTO struct {
	PartNumber string `json:"partNumber"`
	ColorID    int    `json:"colorId"`
	ColorName  string `json:"colorName"`
	Quantity   int    `json:"quantity"`
	ImageURL   string `json:"imageUrl"`
}

// MissingFigDTO is one missing minifigure line.
type MissingFigDTO struct {
	FigNumber string `json:"figNumber"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"imageUrl"`
}

// SetDetailDTO adds the record details to a SetDTO.
type SetDetailDTO struct {
	SetDTO
	Released     string           `json:"released"`
	MissingParts []MissingPartDTO `json:"missingPartLines"`
	MissingFigs  []MissingFigDTO  `json:"missingFigLines"`
	Notes        string           `json:"notes"`
}

// SummaryDTO mirrors the status bar totals.
type SummaryDTO struct {
	Sets          int `json:"sets"`
	DistinctSets  int `json:"distinctSets"`
	NetPartsOwned int `json:"netPartsOwned"`
	WeightKg      int `json:"weightKg"`
	Boxes         int `json:"boxes"`
	Instructions  int `json:"instructions"`
	Themes        int `json:"themes"`
	MissingParts  int `json:"missingParts"`
	MissingFigs   int `json:"missingFigs"`
}

// ColorGroupDTO lists the palette colors of one group.
type ColorGroupDTO struct {
	Group  string          `json:"group"`
	Colors []catalog.Color `json:"colors"`
}

// NewService wraps an app service.
func NewService(a *app.Service) *Service {
	return &Service{app: a}
}

func (s *Service) reload(ctx context.Context) error {
	if s.app == nil {
		return ErrNotConfigured
	}
	return s.app.Load(ctx)
}

// ListSets returns the sets matching query in display order.
func (s *Service) ListSets(ctx context.Context, query string) ([]SetDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	rows := s.app.Search(query)
	out := make([]SetDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToSetDTO(row))
	}
	return out, nil
}

// GetSet returns one set with its missing lines and notes.
func (s *Service) GetSet(ctx context.Context, number string) (SetDetailDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reload(ctx); err != nil {
		return SetDetailDTO{}, err
	}
	rec, err := s.app.Record(number)
	if err != nil {
		return SetDetailDTO{}, err
	}
	row, _ := s.app.Row(number)
	cat := s.app.Catalog()

	dto := SetDetailDTO{
		SetDTO:       ToSetDTO(row),
		Released:     catalog.ReleasePlaceholder,
		MissingParts: make([]MissingPartDTO, 0, len(rec.MissingParts)),
		MissingFigs:  make([]MissingFigDTO, 0, len(rec.MissingFigs)),
		Notes:        rec.Notes,
	}
	if set, ok := cat.Set(row.Number); ok {
		dto.Released = set.Release()
	}
	for _, p := range rec.MissingParts {
		dto.MissingParts = append(dto.MissingParts, MissingPartDTO{
			PartNumber: p.PartNumber,
			ColorID:    p.ColorID,
			ColorName:  cat.ColorName(p.ColorID),
			Quantity:   p.Quantity,
			ImageURL:   fetch.PartURL(p.PartNumber),
		})
	}
	for _, f := range rec.MissingFigs {
		dto.MissingFigs = append(dto.MissingFigs, MissingFigDTO{
			FigNumber: f.FigNumber,
			Quantity:  f.Quantity,
			ImageURL:  fetch.FigURL(f.FigNumber),
		})
	}
	return dto, nil
}

// Summary returns the collection totals.
func (s *Service) Summary(ctx context.Context) (SummaryDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reload(ctx); err != nil {
		return SummaryDTO{}, err
	}
	t := s.app.Totals()
	return SummaryDTO{
		Sets:          t.SetCount,
		DistinctSets:  t.DistinctSets,
		NetPartsOwned: t.NetPartsOwned,
		WeightKg:      t.TotalWeightKg,
		Boxes:         t.TotalBoxes,
		Instructions:  t.TotalInstructions,
		Themes:        t.ThemeCount,
		MissingParts:  t.TotalMissingParts,
		MissingFigs:   t.TotalMissingFigs,
	}, nil
}

// Missing returns the shopping list across all sets.
func (s *Service) Missing(ctx context.Context) (app.ShoppingList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reload(ctx); err != nil {
		return app.ShoppingList{}, err
	}
	return s.app.Missing(), nil
}

// Colors returns the palette grouped for display.
func (s *Service) Colors(_ context.Context) ([]ColorGroupDTO, error) {
	if s.app == nil {
		return nil, ErrNotConfigured
	}
	groups := s.app.Catalog().GroupedColors()
	out := make([]ColorGroupDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, ColorGroupDTO{Group: g.Name, Colors: g.Colors})
	}
	return out, nil
}

// ToSetDTO converts a display row.
func ToSetDTO(row viewmodel.Row) SetDTO {
	return SetDTO{
		Number:            row.Number,
		Name:              row.Name,
		Theme:             row.ThemeLabel,
		Quantity:          row.Quantity,
		Boxes:             row.Boxes,
		Instructions:      row.Instructions,
		TotalParts:        row.TotalParts,
		WeightGrams:       row.WeightGrams,
		MissingPartsTotal: row.MissingPartsTotal,
		MissingFigsTotal:  row.MissingFigsTotal,
		NotesLines:        row.NotesLineCount,
	}
}
