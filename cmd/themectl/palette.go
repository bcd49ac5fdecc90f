// cmd/themectl/palette.go
package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/codr1/brandkit/internal/color"
	"github.com/codr1/brandkit/internal/palette"
)

func newPaletteCmd(root *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "palette <hex>",
		Short: "Generate the shade ramp and harmonies for a base color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := color.ParseHex(args[0])
			if err != nil {
				return fmt.Errorf("base color: %w", err)
			}
			p := palette.Generate(base)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			printPalette(cmd.OutOrStdout(), p, root.plain)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the palette as JSON")
	return cmd
}

func printPalette(w io.Writer, p palette.ColorPalette, plain bool) {
	fmt.Fprintln(w, heading("Shades", plain))
	for i, shade := range p.Shades {
		label := fmt.Sprintf("%4d %s", shade.Step, shade.Color.Hex())
		line := swatch(shade.Color, label, plain)
		if i < len(p.Accessibility) {
			a := p.Accessibility[i]
			line += fmt.Sprintf("  white %5.2f %s  black %5.2f %s",
				a.OnWhite.ContrastRatio, verdict(a.OnWhite.PassesNormalText, plain),
				a.OnBlack.ContrastRatio, verdict(a.OnBlack.PassesNormalText, plain))
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, heading("Harmonies", plain))
	families := []struct {
		name   string
		colors []color.Color
	}{
		{"complementary", p.Harmonies.Complementary},
		{"analogous", p.Harmonies.Analogous},
		{"triadic", p.Harmonies.Triadic},
		{"tetradic", p.Harmonies.Tetradic},
		{"monochromatic", p.Harmonies.Monochromatic},
	}
	for _, family := range families {
		fmt.Fprintf(w, "%-14s", family.name)
		for _, c := range family.colors {
			fmt.Fprint(w, " ", swatch(c, c.Hex(), plain))
		}
		fmt.Fprintln(w)
	}
}
