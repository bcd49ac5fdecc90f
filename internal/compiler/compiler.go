// Package compiler flattens design tokens into scoped CSS custom property
// declarations, followed by a fixed set of compatibility aliases.
package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/codr1/brandkit/internal/scope"
	"github.com/codr1/brandkit/internal/tokens"
)

// Declaration is one CSS custom property. Name includes the leading "--".
type Declaration struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CompiledTheme is the output of a compile. It is never modified after it is
// returned; a new compile produces a new value.
type CompiledTheme struct {
	ScopeID      string             `json:"scopeId"`
	Declarations []Declaration      `json:"declarations"`
	Diagnostics  tokens.Diagnostics `json:"diagnostics,omitempty"`
}

// Characters that could end a declaration or the enclosing block.
const unsafeValueChars = ";{}<>\\\n\r"

// Compile flattens tokens for the given tenant scope. The scope is sanitized.
func Compile(t tokens.DesignTokens, scopeID string) CompiledTheme {
	return CompileTree(t.Tree(), scopeID)
}

// CompileSource normalizes a legacy or token theme and compiles it.
// Normalization diagnostics come first.
func CompileSource(src tokens.Source, scopeID string) CompiledTheme {
	t, diags := tokens.Normalize(src)
	compiled := Compile(t, scopeID)
	if len(diags) > 0 {
		compiled.Diagnostics = append(append(tokens.Diagnostics{}, diags...), compiled.Diagnostics...)
	}
	return compiled
}

// CompileTree compiles a raw token tree. Unsupported leaves are reported and
// replaced by their defaults; the rest of the tree still compiles. A tree
// with no leaves compiles to no declarations at all, aliases included.
func CompileTree(tree tokens.Tree, scopeID string) CompiledTheme {
	clean, diags := tokens.Sanitize(tree)
	out := CompiledTheme{ScopeID: scope.Sanitize(scopeID)}

	declared := make(map[string]string)
	var decls []Declaration
	flatten(nil, clean, declared, &decls, &diags)

	if len(decls) == 0 {
		out.Diagnostics = diags
		return out
	}

	for _, alias := range Aliases {
		if _, exists := declared[alias.Name]; exists {
			// A top-level token already claims this name.
			continue
		}
		value, _, ok := alias.Resolve(declared)
		if !ok {
			diags = append(diags, tokens.Diagnostic{
				Kind:    tokens.KindMissingAliasSource,
				Path:    alias.Name,
				Message: "no source among " + strings.Join(alias.Sources, ", ") + ", default " + alias.Default + " used",
			})
		}
		decls = append(decls, Declaration{Name: "--" + alias.Name, Value: value})
	}

	out.Declarations = decls
	out.Diagnostics = diags
	return out
}

func flatten(path []string, tree tokens.Tree, declared map[string]string, decls *[]Declaration, diags *tokens.Diagnostics) {
	for _, key := range tree.Keys() {
		childPath := append(append([]string(nil), path...), key)
		v := tree[key]

		if branch, ok := tokens.AsTree(v); ok {
			flatten(childPath, branch, declared, decls, diags)
			continue
		}

		value, ok := tokens.LeafValue(v)
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if !safeValue(value) {
			value, ok = defaultLeaf(childPath)
			if !ok {
				*diags = append(*diags, shapeDiagnostic(childPath, "value contains characters not allowed in a declaration, skipped"))
				continue
			}
			*diags = append(*diags, shapeDiagnostic(childPath, "value contains characters not allowed in a declaration, default substituted"))
		}

		name := DeclarationName(childPath)
		if name == "" {
			*diags = append(*diags, shapeDiagnostic(childPath, "path has no usable name, skipped"))
			continue
		}
		if _, dup := declared[name]; dup {
			*diags = append(*diags, tokens.Diagnostic{
				Kind:    tokens.KindDuplicateDeclaration,
				Path:    strings.Join(childPath, "."),
				Message: "--" + name + " already declared, skipped",
			})
			continue
		}
		declared[name] = value
		*decls = append(*decls, Declaration{Name: "--" + name, Value: value})
	}
}

func defaultLeaf(path []string) (string, bool) {
	def, ok := tokens.DefaultAt(path...)
	if !ok {
		return "", false
	}
	value, ok := tokens.LeafValue(def)
	if !ok || !safeValue(value) {
		return "", false
	}
	return value, true
}

func shapeDiagnostic(path []string, msg string) tokens.Diagnostic {
	return tokens.Diagnostic{Kind: tokens.KindInvalidTokenShape, Path: strings.Join(path, "."), Message: msg}
}

func safeValue(v string) bool {
	return v != "" && !strings.ContainsAny(v, unsafeValueChars) && !strings.Contains(v, "/*")
}

// DeclarationName kebab-joins path segments, without the leading "--".
// camelCase segments are split and anything outside [a-z0-9_-] becomes a dash.
func DeclarationName(path []string) string {
	parts := make([]string, 0, len(path))
	for _, segment := range path {
		if kebab := kebabCase(segment); kebab != "" {
			parts = append(parts, kebab)
		}
	}
	return strings.Join(parts, "-")
}

func kebabCase(s string) string {
	var b strings.Builder
	prev := rune(0)
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) && r < unicode.MaxASCII:
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
		prev = r
	}

	// Collapse dash runs.
	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '-' })
	return strings.Join(parts, "-")
}

// IsEmpty reports whether there is nothing to apply.
func (c CompiledTheme) IsEmpty() bool {
	return len(c.Declarations) == 0
}

// Selector is the class selector for the theme's scope.
func (c CompiledTheme) Selector() string {
	return scope.Selector(c.ScopeID)
}

// Value looks up a declaration by name, with or without the leading "--".
func (c CompiledTheme) Value(name string) (string, bool) {
	if !strings.HasPrefix(name, "--") {
		name = "--" + name
	}
	for _, d := range c.Declarations {
		if d.Name == name {
			return d.Value, true
		}
	}
	return "", false
}

// CSS renders the declarations as a block under selector.
func (c CompiledTheme) CSS(selector string) string {
	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, d := range c.Declarations {
		b.WriteString("  ")
		b.WriteString(d.Name)
		b.WriteString(": ")
		b.WriteString(d.Value)
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// String renders the block under the theme's own selector.
func (c CompiledTheme) String() string {
	return c.CSS(c.Selector())
}

// Fingerprint is a short content hash of the rendered block.
func (c CompiledTheme) Fingerprint() string {
	sum := sha256.Sum256([]byte(c.String()))
	return hex.EncodeToString(sum[:8])
}
