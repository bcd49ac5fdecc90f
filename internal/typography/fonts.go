package typography

import (
	"strconv"
	"strings"
)

// FontPair is the heading/body/mono trio a business picks.
type FontPair struct {
	Heading string `json:"heading" yaml:"heading"`
	Body    string `json:"body" yaml:"body"`
	Mono    string `json:"mono" yaml:"mono"`
}

const DefaultFontPair = "modern"

var fontPairs = map[string]FontPair{
	"modern":    {Heading: "Inter", Body: "Inter", Mono: "JetBrains Mono"},
	"classic":   {Heading: "Playfair Display", Body: "Source Sans 3", Mono: "Source Code Pro"},
	"friendly":  {Heading: "Poppins", Body: "Nunito", Mono: "Fira Code"},
	"technical": {Heading: "IBM Plex Sans", Body: "IBM Plex Sans", Mono: "IBM Plex Mono"},
}

// FontWeights maps weight names to numeric CSS weights.
var FontWeights = []struct {
	Name   string
	Weight int
}{
	{"light", 300},
	{"normal", 400},
	{"medium", 500},
	{"semibold", 600},
	{"bold", 700},
}

// PairByName resolves a preset. Unknown names fall back to the default pair.
func PairByName(name string) (FontPair, bool) {
	pair, ok := fontPairs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fontPairs[DefaultFontPair], false
	}
	return pair, true
}

// PairNames lists the presets in a stable order.
func PairNames() []string {
	return []string{"classic", "friendly", "modern", "technical"}
}

// WithDefaults fills empty families from the default pair.
func (p FontPair) WithDefaults() FontPair {
	def := fontPairs[DefaultFontPair]
	if strings.TrimSpace(p.Heading) == "" {
		p.Heading = def.Heading
	}
	if strings.TrimSpace(p.Body) == "" {
		p.Body = def.Body
	}
	if strings.TrimSpace(p.Mono) == "" {
		p.Mono = def.Mono
	}
	return p
}

// Stack renders a CSS font-family list ending in the generic family.
// Names containing spaces are quoted.
func Stack(family, generic string) string {
	family = strings.TrimSpace(family)
	if family == "" {
		return generic
	}
	if strings.Contains(family, ",") {
		// Already a stack.
		return family
	}
	name := family
	if strings.ContainsAny(name, " ") {
		name = strconv.Quote(name)
	}
	return name + ", " + generic
}
