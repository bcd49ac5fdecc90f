// cmd/themectl/contrast.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codr1/brandkit/internal/color"
)

func newContrastCmd(root *rootFlags) *cobra.Command {
	var minimum float64

	cmd := &cobra.Command{
		Use:   "contrast <foreground> <background>",
		Short: "Check the WCAG contrast of a color pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fg, err := color.ParseHex(args[0])
			if err != nil {
				return fmt.Errorf("foreground: %w", err)
			}
			bg, err := color.ParseHex(args[1])
			if err != nil {
				return fmt.Errorf("background: %w", err)
			}
			if minimum < 1 || minimum > 21 {
				return fmt.Errorf("min must be between 1 and 21, got %g", minimum)
			}

			result := color.Evaluate(fg, bg, minimum)
			out := cmd.OutOrStdout()
			sample := fg.Hex() + " on " + bg.Hex()
			if !root.plain {
				sample = swatch(bg, sample, false)
			}
			fmt.Fprintln(out, sample)
			fmt.Fprintf(out, "ratio     %.2f:1\n", result.ContrastRatio)
			fmt.Fprintf(out, "normal    %s\n", verdict(result.PassesNormalText, root.plain))
			fmt.Fprintf(out, "large     %s\n", verdict(result.PassesLargeText, root.plain))
			fmt.Fprintf(out, "enhanced  %s\n", verdict(result.PassesEnhanced, root.plain))
			fmt.Fprintf(out, "min %-5g %s\n", result.Minimum, verdict(result.PassesMinimum, root.plain))
			return nil
		},
	}

	cmd.Flags().Float64Var(&minimum, "min", color.ThresholdNormalText, "Minimum ratio the pair must reach")
	return cmd
}
