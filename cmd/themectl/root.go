// cmd/themectl/root.go
package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "dev"

type rootFlags struct {
	verbose bool
	plain   bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "themectl",
		Short:         "Inspect palettes, contrast and compiled tenant stylesheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&flags.plain, "plain", false, "Disable colored output")

	cmd.AddCommand(newPaletteCmd(flags))
	cmd.AddCommand(newContrastCmd(flags))
	cmd.AddCommand(newScaleCmd())
	cmd.AddCommand(newCompileCmd())
	cmd.AddCommand(newAuditCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "themectl %s\n", version)
			return nil
		},
	}
}
