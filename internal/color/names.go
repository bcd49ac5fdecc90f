package color

import "sort"

// NamedMatch is a reference color and its perceptual distance from a query.
type NamedMatch struct {
	Name     string  `json:"name"`
	Color    Color   `json:"color"`
	Distance float64 `json:"distance"`
}

// Reference colors for human-readable names.
var namedColors = map[string]Color{
	"Black":     MustParseHex("#000000"),
	"White":     MustParseHex("#ffffff"),
	"Red":       MustParseHex("#ff0000"),
	"Green":     MustParseHex("#008000"),
	"Blue":      MustParseHex("#0000ff"),
	"Yellow":    MustParseHex("#ffff00"),
	"Cyan":      MustParseHex("#00ffff"),
	"Magenta":   MustParseHex("#ff00ff"),
	"Gray":      MustParseHex("#808080"),
	"Silver":    MustParseHex("#c0c0c0"),
	"Maroon":    MustParseHex("#800000"),
	"Olive":     MustParseHex("#808000"),
	"Lime":      MustParseHex("#00ff00"),
	"Teal":      MustParseHex("#008080"),
	"Navy":      MustParseHex("#000080"),
	"Purple":    MustParseHex("#800080"),
	"Orange":    MustParseHex("#ffa500"),
	"Pink":      MustParseHex("#ffc0cb"),
	"Brown":     MustParseHex("#a52a2a"),
	"Gold":      MustParseHex("#ffd700"),
	"Beige":     MustParseHex("#f5f5dc"),
	"Turquoise": MustParseHex("#40e0d0"),
	"Lavender":  MustParseHex("#e6e6fa"),
	"Chocolate": MustParseHex("#d2691e"),
	"Coral":     MustParseHex("#ff7f50"),
}

// NearestNames returns up to n reference colors ordered by CIELAB distance
// from c. Ties are broken by name.
func NearestNames(c Color, n int) []NamedMatch {
	if n <= 0 {
		return nil
	}

	query := c.colorful()
	matches := make([]NamedMatch, 0, len(namedColors))
	for name, ref := range namedColors {
		matches = append(matches, NamedMatch{
			Name:     name,
			Color:    ref,
			Distance: query.DistanceLab(ref.colorful()),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Name < matches[j].Name
	})

	if n < len(matches) {
		matches = matches[:n]
	}
	return matches
}
