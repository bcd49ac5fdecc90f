// cmd/themectl/styles.go
package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/codr1/brandkit/internal/color"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
)

// swatch renders label on a block of c, with whichever text color reads best.
func swatch(c color.Color, label string, plain bool) string {
	if plain {
		return label
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Foreground(lipgloss.Color(color.BestTextColor(c).Hex())).
		Padding(0, 1).
		Render(label)
}

func verdict(ok bool, plain bool) string {
	if ok {
		if plain {
			return "pass"
		}
		return passStyle.Render("pass")
	}
	if plain {
		return "fail"
	}
	return failStyle.Render("fail")
}

func heading(text string, plain bool) string {
	if plain {
		return text
	}
	return headingStyle.Render(text)
}
