// cmd/themectl/compile.go
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/codr1/brandkit/internal/applier"
	"github.com/codr1/brandkit/internal/compiler"
	"github.com/codr1/brandkit/internal/tokens"
)

type compileOptions struct {
	TokensPath string
	Scope      string
	Dark       bool
	Strict     bool
}

func newCompileCmd() *cobra.Command {
	opts := compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a theme source into a scoped stylesheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateCompileOptions(opts); err != nil {
				return err
			}
			return runCompile(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.TokensPath, "tokens", "t", "", "Theme source JSON file, or - for stdin")
	cmd.Flags().StringVarP(&opts.Scope, "scope", "s", "", "Tenant scope the stylesheet is generated for")
	cmd.Flags().BoolVar(&opts.Dark, "dark", false, "Append the derived dark variant")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Fail when the source has invalid colors or token shapes")

	return cmd
}

func validateCompileOptions(opts compileOptions) error {
	if strings.TrimSpace(opts.TokensPath) == "" {
		return errors.New("--tokens is required")
	}
	if strings.TrimSpace(opts.Scope) == "" {
		return errors.New("--scope is required")
	}
	return nil
}

func runCompile(stdin io.Reader, stdout, stderr io.Writer, opts compileOptions) error {
	data, err := readSource(stdin, opts.TokensPath)
	if err != nil {
		return err
	}

	src, err := tokens.DecodeSource(data)
	if err != nil {
		return err
	}

	light := compiler.CompileSource(src, opts.Scope)
	applyOpts := []applier.ApplyOption{}
	diags := light.Diagnostics
	if opts.Dark {
		normalized, _ := tokens.Normalize(src)
		dark := compiler.Compile(applier.DeriveDarkVariant(normalized), opts.Scope)
		applyOpts = append(applyOpts, applier.WithDarkVariant(dark))
	}

	invalid := 0
	for _, diag := range diags {
		fmt.Fprintf(stderr, "warning: %s\n", diag)
		if diag.Kind != tokens.KindMissingAliasSource {
			invalid++
		}
	}
	// Alias defaults are expected for minimal themes and never fail a strict run.
	if opts.Strict && invalid > 0 {
		return fmt.Errorf("%d diagnostics reported", invalid)
	}

	registry := applier.NewRegistry(applier.WithLogger(zerolog.Nop()))
	sheet, _, err := registry.Apply(themeName(src, opts.TokensPath), light, applyOpts...)
	if err != nil {
		return fmt.Errorf("compile %s: %w", opts.TokensPath, err)
	}

	_, err = io.WriteString(stdout, sheet.CSS)
	return err
}

func readSource(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme source: %w", err)
	}
	return data, nil
}

func themeName(src tokens.Source, path string) string {
	if theme, ok := src.(tokens.TokenTheme); ok && theme.Name != "" {
		return theme.Name
	}
	return path
}
