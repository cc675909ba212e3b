package catalog

import (
	"context"
	"fmt"
)

// SetMetadata is what a set lookup returns when a set is added.
type SetMetadata struct {
	Name        string
	ReleaseYear *int
	ThemeID     int
	TotalParts  int
}

// LocalResolver answers set lookups from the catalog sets table.
type LocalResolver struct {
	Catalog *Store
}

// FetchSetMetadata returns the catalog entry for number or ErrSetNotFound.
func (r LocalResolver) FetchSetMetadata(ctx context.Context, number string) (SetMetadata, error) {
	if err := ctx.Err(); err != nil {
		return SetMetadata{}, err
	}
	if r.Catalog == nil {
		return SetMetadata{}, fmt.Errorf("catalog: resolver has no catalog")
	}
	set, ok := r.Catalog.Set(number)
	if !ok {
		return SetMetadata{}, fmt.Errorf("%w: %s", ErrSetNotFound, number)
	}
	return SetMetadata{
		Name:        set.Name,
		ReleaseYear: set.ReleaseYear,
		ThemeID:     set.ThemeID,
		TotalParts:  set.TotalParts,
	}, nil
}
