package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// File names inside a catalog directory.
const (
	SetsFile       = "sets.json"
	ThemesFile     = "themes.json"
	RootThemesFile = "main-themes.json"
	ColorsFile     = "colors.json"
)

// Load reads the four reference tables from dir.
//
//	sets.json         {"7140-1": ["X-wing Fighter", 1999, 158, 263], ...}
//	themes.json       {"158": ["Star Wars Episode 4/5/6", 18], ...}
//	main-themes.json  {"18": ["Star Wars", 3], ...}
//	colors.json       [{"id": 0, "name": "Black", "rgb": [5, 19, 29], "group": 0}, ...]
func Load(dir string) (*Store, error) {
	var rawSets map[string][]json.RawMessage
	if err := readJSON(filepath.Join(dir, SetsFile), &rawSets); err != nil {
		return nil, fmt.Errorf("catalog: read sets: %w", err)
	}
	sets := make([]SetEntry, 0, len(rawSets))
	for number, fields := range rawSets {
		set, err := decodeSet(number, fields)
		if err != nil {
			return nil, fmt.Errorf("catalog: read sets: %w", err)
		}
		sets = append(sets, set)
	}

	var rawThemes map[string][]json.RawMessage
	if err := readJSON(filepath.Join(dir, ThemesFile), &rawThemes); err != nil {
		return nil, fmt.Errorf("catalog: read themes: %w", err)
	}
	themes := make([]ThemeNode, 0, len(rawThemes))
	for key, fields := range rawThemes {
		node, err := decodeTheme(key, fields)
		if err != nil {
			return nil, fmt.Errorf("catalog: read themes: %w", err)
		}
		themes = append(themes, node)
	}

	var rawRoots map[string][]json.RawMessage
	if err := readJSON(filepath.Join(dir, RootThemesFile), &rawRoots); err != nil {
		return nil, fmt.Errorf("catalog: read root themes: %w", err)
	}
	roots := make([]RootTheme, 0, len(rawRoots))
	for key, fields := range rawRoots {
		root, err := decodeRoot(key, fields)
		if err != nil {
			return nil, fmt.Errorf("catalog: read root themes: %w", err)
		}
		roots = append(roots, root)
	}

	var colors []Color
	if err := readJSON(filepath.Join(dir, ColorsFile), &colors); err != nil {
		return nil, fmt.Errorf("catalog: read colors: %w", err)
	}

	return New(sets, themes, roots, colors)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func decodeSet(number string, fields []json.RawMessage) (SetEntry, error) {
	if len(fields) != 4 {
		return SetEntry{}, fmt.Errorf("set %s: expected 4 fields, got %d", number, len(fields))
	}
	set := SetEntry{Number: number}
	if err := json.Unmarshal(fields[0], &set.Name); err != nil {
		return SetEntry{}, fmt.Errorf("set %s: name: %w", number, err)
	}
	if err := json.Unmarshal(fields[1], &set.ReleaseYear); err != nil {
		return SetEntry{}, fmt.Errorf("set %s: release year: %w", number, err)
	}
	if err := json.Unmarshal(fields[2], &set.ThemeID); err != nil {
		return SetEntry{}, fmt.Errorf("set %s: theme: %w", number, err)
	}
	if err := json.Unmarshal(fields[3], &set.TotalParts); err != nil {
		return SetEntry{}, fmt.Errorf("set %s: parts: %w", number, err)
	}
	return set, nil
}

func decodeTheme(key string, fields []json.RawMessage) (ThemeNode, error) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return ThemeNode{}, fmt.Errorf("theme id %q: %w", key, err)
	}
	if len(fields) != 2 {
		return ThemeNode{}, fmt.Errorf("theme %d: expected 2 fields, got %d", id, len(fields))
	}
	node := ThemeNode{ID: id}
	if err := json.Unmarshal(fields[0], &node.Name); err != nil {
		return ThemeNode{}, fmt.Errorf("theme %d: name: %w", id, err)
	}
	if err := json.Unmarshal(fields[1], &node.ParentID); err != nil {
		return ThemeNode{}, fmt.Errorf("theme %d: parent: %w", id, err)
	}
	return node, nil
}

func decodeRoot(key string, fields []json.RawMessage) (RootTheme, error) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return RootTheme{}, fmt.Errorf("root theme id %q: %w", key, err)
	}
	if len(fields) != 2 {
		return RootTheme{}, fmt.Errorf("root theme %d: expected 2 fields, got %d", id, len(fields))
	}
	root := RootTheme{ID: id}
	if err := json.Unmarshal(fields[0], &root.Name); err != nil {
		return RootTheme{}, fmt.Errorf("root theme %d: name: %w", id, err)
	}
	if err := json.Unmarshal(fields[1], &root.SortKey); err != nil {
		return RootTheme{}, fmt.Errorf("root theme %d: sort key: %w", id, err)
	}
	return root, nil
}
