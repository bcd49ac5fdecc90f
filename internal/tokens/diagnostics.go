package tokens

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codr1/brandkit/internal/color"
)

var (
	ErrInvalidTokenShape  = errors.New("invalid token shape")
	ErrMissingAliasSource = errors.New("missing alias source")
)

// Kind classifies a Diagnostic.
type Kind string

const (
	KindInvalidTokenShape    Kind = "InvalidTokenShape"
	KindInvalidColorFormat   Kind = "InvalidColorFormat"
	KindMissingAliasSource   Kind = "MissingAliasSource"
	KindDuplicateDeclaration Kind = "DuplicateDeclaration"
)

// Diagnostic is a non-fatal problem found while normalizing or compiling
// tokens. Path is dot-joined.
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Diagnostics is an ordered list of findings.
type Diagnostics []Diagnostic

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at %s: %s", d.Kind, d.Path, d.Message)
}

// Err wraps the matching sentinel so callers can use errors.Is.
func (d Diagnostic) Err() error {
	switch d.Kind {
	case KindMissingAliasSource:
		return fmt.Errorf("%w: %s: %s", ErrMissingAliasSource, d.Path, d.Message)
	case KindInvalidColorFormat:
		return fmt.Errorf("%w: %s: %s", color.ErrInvalidColorFormat, d.Path, d.Message)
	default:
		return fmt.Errorf("%w: %s: %s", ErrInvalidTokenShape, d.Path, d.Message)
	}
}

// Count returns how many diagnostics have the given kind.
func (ds Diagnostics) Count(kind Kind) int {
	n := 0
	for _, d := range ds {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Paths lists the paths of diagnostics of the given kind, in order.
func (ds Diagnostics) Paths(kind Kind) []string {
	var paths []string
	for _, d := range ds {
		if d.Kind == kind {
			paths = append(paths, d.Path)
		}
	}
	return paths
}

func (ds *Diagnostics) add(kind Kind, path []string, format string, args ...any) {
	*ds = append(*ds, Diagnostic{Kind: kind, Path: strings.Join(path, "."), Message: fmt.Sprintf(format, args...)})
}
