// cmd/themectl/scale.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codr1/brandkit/internal/typography"
)

func newScaleCmd() *cobra.Command {
	var (
		base  float64
		ratio string
	)

	cmd := &cobra.Command{
		Use:   "scale",
		Short: "Print a modular type scale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := typography.ParseRatio(ratio)
			if !ok {
				return fmt.Errorf("unknown ratio %q", ratio)
			}
			if base <= 0 {
				return fmt.Errorf("base must be positive, got %g", base)
			}

			scale := typography.Generate(base, r)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "base %gpx, ratio %.3f\n", scale.Base, scale.Ratio)
			for _, step := range scale.Steps {
				fmt.Fprintf(out, "%-5s %8.2fpx %6.3frem  line-height %.2f  tracking %.3fem\n",
					step.Label, step.Size, typography.Rem(step.Size), step.LineHeight, step.LetterSpacing)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&base, "base", typography.DefaultBaseSize, "Base font size in px")
	cmd.Flags().StringVar(&ratio, "ratio", "major-third", "Scale ratio, by name or as a number")
	return cmd
}
