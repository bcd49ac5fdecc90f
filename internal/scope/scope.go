// Package scope turns tenant identifiers into CSS-safe selector fragments.
package scope

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Default is used for blank identifiers.
const Default = "default"

// Prefix of every scoped selector.
const SelectorPrefix = ".theme-"

const (
	maxSlugLength = 48
	suffixLength  = 8
)

// Sanitize maps a tenant identifier to [a-z0-9-]. Accents are folded and any
// other run of characters becomes a single dash. When the slug differs from
// the input, a short hash of the input is appended so "Acme & Co" and
// "acme-co" never share a scope. The result never exceeds maxSlugLength and
// Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(raw string) string {
	slug := slugify(raw)
	if slug == "" {
		if strings.TrimSpace(raw) == "" {
			return Default
		}
		slug = "tenant"
	}
	if slug == raw {
		return slug
	}
	// Leave room for the suffix so a sanitized id is its own fixed point.
	if keep := maxSlugLength - 1 - suffixLength; len(slug) > keep {
		slug = strings.TrimRight(slug[:keep], "-")
	}
	return slug + "-" + hashSuffix(raw)
}

// Selector returns the class selector for an already sanitized scope.
func Selector(id string) string {
	if id == "" {
		id = Default
	}
	return SelectorPrefix + id
}

// Valid reports whether id is already in sanitized form.
func Valid(id string) bool {
	return id != "" && Sanitize(id) == id
}

func slugify(raw string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), raw)
	if err != nil {
		folded = raw
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}

func hashSuffix(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:suffixLength]
}
