// cmd/themectl/audit.go
package main

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"

	"github.com/spf13/cobra"

	"github.com/codr1/brandkit/internal/color"
)

// Matches fill/stroke attributes in SVG and color-ish properties in CSS.
var colorUsageRegex = regexp.MustCompile(`\b(fill|stroke|stop-color|color|background(?:-color)?|border-color)\s*[=:]\s*["']?(#[0-9a-fA-F]{6}|#[0-9a-fA-F]{3})\b`)

// ColorUsage counts one color under one attribute.
type ColorUsage struct {
	Attribute string
	Color     color.Color
	Count     int
}

func newAuditCmd(root *rootFlags) *cobra.Command {
	var (
		background string
		matches    int
	)

	cmd := &cobra.Command{
		Use:   "audit <file>",
		Short: "Report the colors an SVG or CSS asset uses and how they read on a background",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bg, err := color.ParseHex(background)
			if err != nil {
				return fmt.Errorf("background: %w", err)
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read asset: %w", err)
			}
			usage := scanColorUsage(string(data))
			if len(usage) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no colors found")
				return nil
			}
			printAudit(cmd.OutOrStdout(), usage, bg, matches, root.plain)
			return nil
		},
	}

	cmd.Flags().StringVar(&background, "background", "#ffffff", "Background the colors are checked against")
	cmd.Flags().IntVar(&matches, "matches", 3, "Closest named colors to list per color")
	return cmd
}

// scanColorUsage counts hex colors per attribute, ordered by attribute then
// descending count.
func scanColorUsage(content string) []ColorUsage {
	counts := make(map[string]map[color.Color]int)
	for _, match := range colorUsageRegex.FindAllStringSubmatch(content, -1) {
		c, err := color.ParseHex(match[2])
		if err != nil {
			continue
		}
		if counts[match[1]] == nil {
			counts[match[1]] = make(map[color.Color]int)
		}
		counts[match[1]][c]++
	}

	var usage []ColorUsage
	for attr, colors := range counts {
		for c, n := range colors {
			usage = append(usage, ColorUsage{Attribute: attr, Color: c, Count: n})
		}
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Attribute != usage[j].Attribute {
			return usage[i].Attribute < usage[j].Attribute
		}
		if usage[i].Count != usage[j].Count {
			return usage[i].Count > usage[j].Count
		}
		return usage[i].Color.Hex() < usage[j].Color.Hex()
	})
	return usage
}

func printAudit(w io.Writer, usage []ColorUsage, bg color.Color, matches int, plain bool) {
	attr := ""
	for _, u := range usage {
		if u.Attribute != attr {
			attr = u.Attribute
			fmt.Fprintln(w, heading(attr, plain))
		}
		result := color.Evaluate(u.Color, bg, color.ThresholdNormalText)
		fmt.Fprintf(w, "  %s x%d  %.2f:1 %s\n",
			swatch(u.Color, u.Color.Hex(), plain), u.Count, result.ContrastRatio, verdict(result.PassesNormalText, plain))
		for _, m := range color.NearestNames(u.Color, matches) {
			fmt.Fprintf(w, "    %-10s %s  %.2f\n", m.Name, m.Color.Hex(), m.Distance)
		}
	}
}
