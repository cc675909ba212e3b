// Package catalogtest provides a small in-memory catalog for tests.
package catalogtest

import (
	"testing"

	"tableflip.dev/bricks/pkg/catalog"
)

func year(y int) *int { return &y }

func parent(id int) *int { return &id }

// Sets used by Fixture.
func Sets() []catalog.SetEntry {
	return []catalog.SetEntry{
		{Number: "7140-1", Name: "X-wing Fighter", ReleaseYear: year(1999), ThemeID: 158, TotalParts: 100},
		{Number: "10179-1", Name: "Ultimate Collector's Millennium Falcon", ReleaseYear: year(2007), ThemeID: 159, TotalParts: 5195},
		{Number: "9-1", Name: "Police Car", ReleaseYear: year(1978), ThemeID: 53, TotalParts: 25},
		{Number: "10-1", Name: "Police Station", ReleaseYear: year(1978), ThemeID: 53, TotalParts: 370},
		{Number: "70-1", Name: "Police Boat", ReleaseYear: nil, ThemeID: 53, TotalParts: 60},
		{Number: "100-1", Name: "Police Helicopter", ReleaseYear: year(1981), ThemeID: 53, TotalParts: 80},
		{Number: "8880-1", Name: "Super Car", ReleaseYear: year(1994), ThemeID: 1, TotalParts: 1343},
		{Number: "6081-1", Name: "King's Mountain Fortress", ReleaseYear: nil, ThemeID: 60, TotalParts: 431},
		{Number: "666-1", Name: "Orphan", ReleaseYear: nil, ThemeID: 99, TotalParts: 1},
	}
}

// Themes used by Fixture. Theme 99 points at a parent that does not exist.
func Themes() []catalog.ThemeNode {
	return []catalog.ThemeNode{
		{ID: 158, Name: "Episode 4/5/6", ParentID: parent(18)},
		{ID: 159, Name: "Ultimate Collector Series", ParentID: parent(158)},
		{ID: 52, Name: "City", ParentID: parent(50)},
		{ID: 53, Name: "Police", ParentID: parent(52)},
		{ID: 99, Name: "Broken", ParentID: parent(1000)},
	}
}

// Roots used by Fixture. Town and Castle share a sort key.
func Roots() []catalog.RootTheme {
	return []catalog.RootTheme{
		{ID: 1, Name: "Technic", SortKey: 1},
		{ID: 18, Name: "Star Wars", SortKey: 3},
		{ID: 50, Name: "Town", SortKey: 2},
		{ID: 60, Name: "Castle", SortKey: 2},
	}
}

// Colors used by Fixture, sorted by group.
func Colors() []catalog.Color {
	return []catalog.Color{
		{ID: 1, Name: "White", RGB: [3]uint8{255, 255, 255}, Group: 0},
		{ID: 5, Name: "Red", RGB: [3]uint8{179, 0, 6}, Group: 0},
		{ID: 7, Name: "Blue", RGB: [3]uint8{0, 87, 166}, Group: 0},
		{ID: 11, Name: "Black", RGB: [3]uint8{33, 33, 33}, Group: 0},
		{ID: 86, Name: "Light Bluish Gray", RGB: [3]uint8{175, 181, 199}, Group: 0},
		{ID: 12, Name: "Trans-Clear", RGB: [3]uint8{238, 238, 238}, Group: 1},
		{ID: 17, Name: "Trans-Red", RGB: [3]uint8{201, 26, 9}, Group: 1},
		{ID: 21, Name: "Chrome Gold", RGB: [3]uint8{187, 165, 61}, Group: 2},
		{ID: 61, Name: "Pearl Light Gold", RGB: [3]uint8{220, 188, 129}, Group: 3},
	}
}

// Fixture returns a catalog built from Sets, Themes, Roots and Colors.
func Fixture(t testing.TB) *catalog.Store {
	t.Helper()
	store, err := catalog.New(Sets(), Themes(), Roots(), Colors())
	if err != nil {
		t.Fatalf("build fixture catalog: %v", err)
	}
	return store
}
