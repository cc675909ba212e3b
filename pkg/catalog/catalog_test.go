package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tableflip.dev/bricks/pkg/catalog"
	"tableflip.dev/bricks/pkg/catalog/catalogtest"
)

func TestResolveTheme(t *testing.T) {
	cat := catalogtest.Fixture(t)

	tests := []struct {
		id      int
		label   string
		sortKey int
	}{
		{id: 18, label: "Star Wars", sortKey: 3},
		{id: 158, label: "Star Wars: Episode 4/5/6", sortKey: 3},
		{id: 159, label: "Star Wars: Episode 4/5/6: Ultimate Collector Series", sortKey: 3},
		{id: 53, label: "Town: City: Police", sortKey: 2},
		{id: 1, label: "Technic", sortKey: 1},
	}
	for _, tt := range tests {
		path, err := cat.ResolveTheme(tt.id)
		if err != nil {
			t.Fatalf("resolve %d: %v", tt.id, err)
		}
		if path.Label != tt.label {
			t.Fatalf("resolve %d: expected label %q, got %q", tt.id, tt.label, path.Label)
		}
		if path.SortKey != tt.sortKey {
			t.Fatalf("resolve %d: expected sort key %d, got %d", tt.id, tt.sortKey, path.SortKey)
		}
	}
}

func TestResolveThemeLabelEndsWithLeaf(t *testing.T) {
	cat := catalogtest.Fixture(t)
	for _, node := range catalogtest.Themes() {
		path, err := cat.ResolveTheme(node.ID)
		if err != nil {
			if node.ID == 99 {
				continue
			}
			t.Fatalf("resolve %d: %v", node.ID, err)
		}
		if !strings.HasSuffix(path.Label, node.Name) {
			t.Fatalf("label %q does not end with leaf %q", path.Label, node.Name)
		}
	}
}

func TestResolveThemeUnknown(t *testing.T) {
	cat := catalogtest.Fixture(t)

	for _, id := range []int{99, 12345} {
		_, err := cat.ResolveTheme(id)
		if !errors.Is(err, catalog.ErrUnknownTheme) {
			t.Fatalf("resolve %d: expected ErrUnknownTheme, got %v", id, err)
		}
		var ute *catalog.UnknownThemeError
		if !errors.As(err, &ute) {
			t.Fatalf("resolve %d: expected *UnknownThemeError, got %T", id, err)
		}
	}
}

func TestResolveThemeCycleTerminates(t *testing.T) {
	a, b := 2, 3
	cat, err := catalog.New(nil, []catalog.ThemeNode{
		{ID: 3, Name: "A", ParentID: &a},
		{ID: 2, Name: "B", ParentID: &b},
	}, nil, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := cat.ResolveTheme(3); !errors.Is(err, catalog.ErrUnknownTheme) {
		t.Fatalf("expected cycle to fail as unknown theme, got %v", err)
	}
}

func TestColorByName(t *testing.T) {
	cat := catalogtest.Fixture(t)

	c, err := cat.ColorByName("Light Bluish Gray")
	if err != nil || c.ID != 86 {
		t.Fatalf("expected color 86, got %+v (%v)", c, err)
	}
	c, err = cat.ColorByName("  trans-red ")
	if err != nil || c.ID != 17 {
		t.Fatalf("expected case-insensitive match 17, got %+v (%v)", c, err)
	}

	_, err = cat.ColorByName("Light Blush Gray")
	var ice *catalog.InvalidColorNameError
	if !errors.As(err, &ice) {
		t.Fatalf("expected InvalidColorNameError, got %v", err)
	}
	if ice.Suggestion != "Light Bluish Gray" {
		t.Fatalf("expected suggestion, got %q", ice.Suggestion)
	}

	_, err = cat.ColorByName("Zebra Stripes")
	if !errors.As(err, &ice) || ice.Suggestion != "" {
		t.Fatalf("expected no suggestion, got %v", err)
	}
}

func TestGroupedColors(t *testing.T) {
	cat := catalogtest.Fixture(t)
	groups := cat.GroupedColors()
	want := []string{"Solid", "Transparent", "Chrome", "Pearl"}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(groups))
	}
	for i, g := range groups {
		if g.Name != want[i] {
			t.Fatalf("group %d: expected %s, got %s", i, want[i], g.Name)
		}
	}
	if len(groups[0].Colors) != 5 {
		t.Fatalf("expected 5 solid colors, got %d", len(groups[0].Colors))
	}
}

func TestNewRejectsUnsortedPalette(t *testing.T) {
	_, err := catalog.New(nil, nil, nil, []catalog.Color{
		{ID: 12, Name: "Trans-Clear", Group: 1},
		{ID: 11, Name: "Black", Group: 0},
	})
	if err == nil {
		t.Fatalf("expected unsorted palette to be rejected")
	}
}

func TestColorHex(t *testing.T) {
	c := catalog.Color{RGB: [3]uint8{255, 0, 16}}
	if got := c.Hex(); got != "#ff0010" {
		t.Fatalf("expected #ff0010, got %s", got)
	}
}

func TestLocalResolver(t *testing.T) {
	cat := catalogtest.Fixture(t)
	r := catalog.LocalResolver{Catalog: cat}

	meta, err := r.FetchSetMetadata(context.Background(), "8880-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if meta.Name != "Super Car" || meta.TotalParts != 1343 {
		t.Fatalf("unexpected metadata %+v", meta)
	}

	_, err = r.FetchSetMetadata(context.Background(), "9999-1")
	if !errors.Is(err, catalog.ErrSetNotFound) {
		t.Fatalf("expected ErrSetNotFound, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		catalog.SetsFile:       `{"7140-1": ["X-wing Fighter", 1999, 158, 263], "6081-1": ["King's Mountain Fortress", null, 60, 431]}`,
		catalog.ThemesFile:     `{"158": ["Episode 4/5/6", 18]}`,
		catalog.RootThemesFile: `{"18": ["Star Wars", 3], "60": ["Castle", 2]}`,
		catalog.ColorsFile:     `[{"id": 11, "name": "Black", "rgb": [33, 33, 33], "group": 0}]`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	cat, err := catalog.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	set, ok := cat.Set("7140-1")
	if !ok || set.TotalParts != 263 || set.Release() != "1999" {
		t.Fatalf("unexpected set %+v", set)
	}
	fortress, _ := cat.Set("6081-1")
	if fortress.Release() != catalog.ReleasePlaceholder {
		t.Fatalf("expected placeholder release, got %q", fortress.Release())
	}
	path, err := cat.ResolveTheme(set.ThemeID)
	if err != nil || path.Label != "Star Wars: Episode 4/5/6" {
		t.Fatalf("unexpected theme path %+v (%v)", path, err)
	}
	if name := cat.ColorName(11); name != "Black" {
		t.Fatalf("expected Black, got %s", name)
	}
}

func TestLoadRejectsMalformedSet(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, catalog.SetsFile), []byte(`{"1-1": ["only name"]}`), 0o644)
	if _, err := catalog.Load(dir); err == nil || !strings.Contains(err.Error(), "read sets") {
		t.Fatalf("expected read sets error, got %v", err)
	}
}
