package catalog

import "strings"

// maxThemeDepth bounds the parent walk so a cyclic table cannot hang.
const maxThemeDepth = 64

// ThemeSeparator joins theme names from root to leaf.
const ThemeSeparator = ": "

// ThemePath is a resolved theme: the root's sort key and the full label,
// e.g. "Star Wars: Episode 4/5/6".
type ThemePath struct {
	SortKey int
	Label   string
}

// ResolveTheme walks from id up to its root theme.
func (s *Store) ResolveTheme(id int) (ThemePath, error) {
	s.mu.Lock()
	cached, ok := s.paths[id]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	path, err := s.resolveTheme(id)
	if err != nil {
		return ThemePath{}, err
	}

	s.mu.Lock()
	s.paths[id] = path
	s.mu.Unlock()
	return path, nil
}

func (s *Store) resolveTheme(id int) (ThemePath, error) {
	// names are collected leaf first
	var names []string
	current := id
	for hop := 0; hop < maxThemeDepth; hop++ {
		if root, ok := s.roots[current]; ok {
			parts := make([]string, 0, len(names)+1)
			parts = append(parts, root.Name)
			for i := len(names) - 1; i >= 0; i-- {
				parts = append(parts, names[i])
			}
			return ThemePath{
				SortKey: root.SortKey,
				Label:   strings.Join(parts, ThemeSeparator),
			}, nil
		}
		node, ok := s.themes[current]
		if !ok || node.ParentID == nil {
			return ThemePath{}, &UnknownThemeError{ID: current, Via: id}
		}
		names = append(names, node.Name)
		current = *node.ParentID
	}
	return ThemePath{}, &UnknownThemeError{ID: current, Via: id}
}
