package catalog

import (
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/lucasb-eyer/go-colorful"
)

// ColorGroups names the palette categories; Color.Group indexes it.
var ColorGroups = []string{
	"Solid",
	"Transparent",
	"Chrome",
	"Pearl",
	"Satin",
	"Metallic",
	"Milky",
	"Glitter",
	"Speckle",
	"Modulex",
}

// DefaultColorID is assigned to newly added missing parts.
const DefaultColorID = 11

// Color is a palette entry.
type Color struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	RGB   [3]uint8 `json:"rgb"`
	Group int      `json:"group"`
}

// Hex renders the color as "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.RGB[0]) / 255,
		G: float64(c.RGB[1]) / 255,
		B: float64(c.RGB[2]) / 255,
	}.Hex()
}

// GroupName returns the category label of the color.
func (c Color) GroupName() string {
	if c.Group < 0 || c.Group >= len(ColorGroups) {
		return ""
	}
	return ColorGroups[c.Group]
}

// ColorGroup is a palette category with its colors, in palette order.
type ColorGroup struct {
	Name   string
	Colors []Color
}

// Colors returns the palette in group order.
func (s *Store) Colors() []Color {
	out := make([]Color, len(s.colors))
	copy(out, s.colors)
	return out
}

// GroupedColors splits the palette by category for the color picker. Empty
// categories are omitted.
func (s *Store) GroupedColors() []ColorGroup {
	var groups []ColorGroup
	for _, c := range s.colors {
		if len(groups) == 0 || groups[len(groups)-1].Name != c.GroupName() {
			groups = append(groups, ColorGroup{Name: c.GroupName()})
		}
		last := &groups[len(groups)-1]
		last.Colors = append(last.Colors, c)
	}
	return groups
}

// ColorByID looks up a palette entry by id.
func (s *Store) ColorByID(id int) (Color, bool) {
	i, ok := s.colorsByID[id]
	if !ok {
		return Color{}, false
	}
	return s.colors[i], true
}

// ColorName returns the display name for id, or the id itself when the
// palette does not know it.
func (s *Store) ColorName(id int) string {
	if c, ok := s.ColorByID(id); ok {
		return c.Name
	}
	return "#" + strconv.Itoa(id)
}

// ColorByName resolves a displayed color name. Exact matches win over
// case-insensitive ones.
func (s *Store) ColorByName(name string) (Color, error) {
	trimmed := strings.TrimSpace(name)
	if i, ok := s.colorsByName[trimmed]; ok {
		return s.colors[i], nil
	}
	if i, ok := s.colorsByFold[foldName(trimmed)]; ok {
		return s.colors[i], nil
	}
	return Color{}, &InvalidColorNameError{Name: name, Suggestion: s.suggestColor(trimmed)}
}

// suggestColor returns the closest palette name within a small edit
// distance, or "".
func (s *Store) suggestColor(name string) string {
	if name == "" {
		return ""
	}
	folded := foldName(name)
	limit := len(folded) / 3
	if limit < 2 {
		limit = 2
	}
	best, bestDist := "", limit+1
	for _, c := range s.colors {
		d := levenshtein.ComputeDistance(folded, foldName(c.Name))
		if d < bestDist {
			best, bestDist = c.Name, d
		}
	}
	return best
}

func foldName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
