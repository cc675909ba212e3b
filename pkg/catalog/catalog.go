// Package catalog holds the read-only reference data for the collection:
// sets, the theme hierarchy and the color palette.
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// SetEntry is the static catalog description of a set.
type SetEntry struct {
	Number      string
	Name        string
	ReleaseYear *int
	ThemeID     int
	TotalParts  int
}

// Release returns the release year as text, or "-" when unknown.
func (s SetEntry) Release() string {
	if s.ReleaseYear == nil {
		return ReleasePlaceholder
	}
	return strconv.Itoa(*s.ReleaseYear)
}

// ReleasePlaceholder is displayed when a set has no known release year.
const ReleasePlaceholder = "-"

// ThemeNode is a non-root theme.
type ThemeNode struct {
	ID       int
	Name     string
	ParentID *int
}

// RootTheme is a top-level theme.
type RootTheme struct {
	ID      int
	Name    string
	SortKey int
}

// Store is an immutable view over the reference tables. It is safe for
// concurrent readers.
type Store struct {
	sets   map[string]SetEntry
	themes map[int]ThemeNode
	roots  map[int]RootTheme

	colors       []Color
	colorsByID   map[int]int
	colorsByName map[string]int
	colorsByFold map[string]int

	mu    sync.Mutex
	paths map[int]ThemePath
}

// New builds a store from in-memory tables. Colors are kept in palette order,
// which must be ascending by group.
func New(sets []SetEntry, themes []ThemeNode, roots []RootTheme, colors []Color) (*Store, error) {
	s := &Store{
		sets:         make(map[string]SetEntry, len(sets)),
		themes:       make(map[int]ThemeNode, len(themes)),
		roots:        make(map[int]RootTheme, len(roots)),
		colorsByID:   make(map[int]int, len(colors)),
		colorsByName: make(map[string]int, len(colors)),
		colorsByFold: make(map[string]int, len(colors)),
		paths:        make(map[int]ThemePath),
	}
	for _, set := range sets {
		if set.Number == "" {
			return nil, fmt.Errorf("catalog: set with empty number")
		}
		s.sets[set.Number] = set
	}
	for _, t := range themes {
		s.themes[t.ID] = t
	}
	for _, r := range roots {
		s.roots[r.ID] = r
	}
	if err := s.setPalette(colors); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) setPalette(colors []Color) error {
	ordered := sort.SliceIsSorted(colors, func(i, j int) bool {
		return colors[i].Group < colors[j].Group
	})
	if !ordered {
		return fmt.Errorf("catalog: colors must be sorted by group")
	}
	s.colors = make([]Color, len(colors))
	copy(s.colors, colors)
	for i, c := range s.colors {
		if c.Group < 0 || c.Group >= len(ColorGroups) {
			return fmt.Errorf("catalog: color %d (%s) has unknown group %d", c.ID, c.Name, c.Group)
		}
		if _, dup := s.colorsByID[c.ID]; dup {
			return fmt.Errorf("catalog: duplicate color id %d", c.ID)
		}
		s.colorsByID[c.ID] = i
		s.colorsByName[c.Name] = i
		s.colorsByFold[foldName(c.Name)] = i
	}
	return nil
}

// Set looks up a set by its full number ("7140-1").
func (s *Store) Set(number string) (SetEntry, bool) {
	set, ok := s.sets[number]
	return set, ok
}

// Sets returns every set number in the catalog, sorted.
func (s *Store) Sets() []string {
	out := make([]string, 0, len(s.sets))
	for number := range s.sets {
		out = append(out, number)
	}
	sort.Strings(out)
	return out
}

// Theme returns a non-root theme node.
func (s *Store) Theme(id int) (ThemeNode, bool) {
	t, ok := s.themes[id]
	return t, ok
}

// Root returns a root theme.
func (s *Store) Root(id int) (RootTheme, bool) {
	r, ok := s.roots[id]
	return r, ok
}
