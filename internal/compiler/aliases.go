package compiler

// Alias is a compatibility variable resolved from the first source that has
// a value, falling back to Default. Sources are declaration names without
// the leading "--".
type Alias struct {
	Name    string
	Sources []string
	Default string
}

// Aliases is the fixed vocabulary component libraries consume, in output order.
var Aliases = []Alias{
	{Name: "background", Sources: []string{"colors-background-base", "colors-background"}, Default: "#ffffff"},
	{Name: "foreground", Sources: []string{"colors-foreground-base", "colors-foreground", "colors-background-foreground"}, Default: "#0f172a"},
	{Name: "card", Sources: []string{"colors-card-base", "colors-card", "colors-surface-base", "colors-surface"}, Default: "#ffffff"},
	{Name: "card-foreground", Sources: []string{"colors-card-foreground", "colors-surface-foreground", "colors-foreground-base", "colors-foreground"}, Default: "#0f172a"},
	{Name: "popover", Sources: []string{"colors-popover-base", "colors-popover", "colors-card-base", "colors-card"}, Default: "#ffffff"},
	{Name: "popover-foreground", Sources: []string{"colors-popover-foreground", "colors-card-foreground", "colors-foreground-base", "colors-foreground"}, Default: "#0f172a"},
	{Name: "primary", Sources: []string{"colors-primary-base", "colors-primary"}, Default: "#2563eb"},
	{Name: "primary-foreground", Sources: []string{"colors-primary-foreground"}, Default: "#ffffff"},
	{Name: "secondary", Sources: []string{"colors-secondary-base", "colors-secondary"}, Default: "#f1f5f9"},
	{Name: "secondary-foreground", Sources: []string{"colors-secondary-foreground"}, Default: "#0f172a"},
	{Name: "muted", Sources: []string{"colors-muted-base", "colors-muted"}, Default: "#f1f5f9"},
	{Name: "muted-foreground", Sources: []string{"colors-muted-foreground"}, Default: "#64748b"},
	{Name: "accent", Sources: []string{"colors-accent-base", "colors-accent"}, Default: "#f1f5f9"},
	{Name: "accent-foreground", Sources: []string{"colors-accent-foreground"}, Default: "#0f172a"},
	{Name: "destructive", Sources: []string{"colors-destructive-base", "colors-destructive", "colors-error-base", "colors-error"}, Default: "#dc2626"},
	{Name: "destructive-foreground", Sources: []string{"colors-destructive-foreground", "colors-error-foreground"}, Default: "#ffffff"},
	{Name: "border", Sources: []string{"colors-border-base", "colors-border"}, Default: "#e2e8f0"},
	{Name: "input", Sources: []string{"colors-input-base", "colors-input", "colors-border-base", "colors-border"}, Default: "#e2e8f0"},
	{Name: "ring", Sources: []string{"colors-ring-base", "colors-ring", "colors-primary-base", "colors-primary"}, Default: "#2563eb"},
	{Name: "radius", Sources: []string{"borders-radius-md", "borders-radius", "borders-radius-base"}, Default: "0.5rem"},
}

// Resolve returns the alias value from declared, which maps declaration names
// (without "--") to values. ok is false when the default was used.
func (a Alias) Resolve(declared map[string]string) (value, source string, ok bool) {
	for _, src := range a.Sources {
		if v, found := declared[src]; found {
			return v, src, true
		}
	}
	return a.Default, "", false
}
