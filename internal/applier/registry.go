// Package applier keeps the active stylesheet fragment for every tenant scope
// and derives dark variants of token sets.
package applier

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/brandkit/internal/compiler"
	"github.com/codr1/brandkit/internal/scope"
)

// ErrEmptyTheme is returned when Apply is given nothing to apply. The
// previously applied fragment, if any, stays in place.
var ErrEmptyTheme = errors.New("theme has no declarations")

// State of a scope or of a StyleSheet handle.
type State int

const (
	Unapplied State = iota
	Applied
	Superseded
)

func (s State) String() string {
	switch s {
	case Applied:
		return "applied"
	case Superseded:
		return "superseded"
	default:
		return "unapplied"
	}
}

// StyleSheet is the fragment applied to one scope. Its content never changes;
// a later Apply or Remove marks it superseded.
type StyleSheet struct {
	Scope        string
	ThemeName    string
	CSS          string
	Fingerprint  string
	Declarations int
	AppliedAt    time.Time

	superseded atomic.Bool
}

// State is Applied until the handle is replaced or removed.
func (s *StyleSheet) State() State {
	if s == nil {
		return Unapplied
	}
	if s.superseded.Load() {
		return Superseded
	}
	return Applied
}

// Registry owns the per-scope fragments. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	sheets map[string]*StyleSheet
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithLogger overrides the global logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sheets: make(map[string]*StyleSheet),
		now:    time.Now,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ApplyOption adjusts a single Apply call.
type ApplyOption func(*applyConfig)

type applyConfig struct {
	dark *compiler.CompiledTheme
}

// WithDarkVariant renders dark under the scope's dark selectors in the same
// fragment.
func WithDarkVariant(dark compiler.CompiledTheme) ApplyOption {
	return func(c *applyConfig) {
		c.dark = &dark
	}
}

// SanitizeScope maps a tenant identifier to a selector-safe scope id.
func SanitizeScope(raw string) string {
	return scope.Sanitize(raw)
}

// Apply creates or replaces the fragment for compiled's scope and records
// name as the scope's active theme. The returned previous handle, if any,
// is now superseded. Reapplying identical content is a no-op that returns
// the current handle. An empty theme is logged and ignored.
func (r *Registry) Apply(name string, compiled compiler.CompiledTheme, opts ...ApplyOption) (*StyleSheet, *StyleSheet, error) {
	id := scope.Sanitize(compiled.ScopeID)
	if compiled.IsEmpty() {
		r.logger.Warn().
			Str("scope", id).
			Str("theme", name).
			Msg("Ignoring empty theme, keeping current stylesheet")
		return nil, nil, ErrEmptyTheme
	}

	var cfg applyConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	sheet := render(id, name, compiled, cfg)
	sheet.AppliedAt = r.now()

	r.mu.Lock()
	prev := r.sheets[id]
	if prev != nil && prev.Fingerprint == sheet.Fingerprint && prev.ThemeName == name {
		r.mu.Unlock()
		return prev, nil, nil
	}
	r.sheets[id] = sheet
	if prev != nil {
		prev.superseded.Store(true)
	}
	r.mu.Unlock()

	r.logger.Debug().
		Str("scope", id).
		Str("theme", name).
		Int("declarations", sheet.Declarations).
		Str("fingerprint", sheet.Fingerprint).
		Msg("Applied theme")
	return sheet, prev, nil
}

func render(id, name string, compiled compiler.CompiledTheme, cfg applyConfig) *StyleSheet {
	selector := scope.Selector(id)

	var b strings.Builder
	b.WriteString(compiled.CSS(selector))
	declarations := len(compiled.Declarations)
	if cfg.dark != nil && !cfg.dark.IsEmpty() {
		b.WriteString(cfg.dark.CSS(DarkSelector(id)))
		declarations += len(cfg.dark.Declarations)
	}
	css := b.String()

	return &StyleSheet{
		Scope:        id,
		ThemeName:    name,
		CSS:          css,
		Fingerprint:  fingerprint(css),
		Declarations: declarations,
	}
}

// DarkSelector matches the scope when it, or an ancestor, has the dark class.
func DarkSelector(id string) string {
	sel := scope.Selector(id)
	return sel + ".dark, .dark " + sel
}

// Fragment returns the CSS applied to a scope.
func (r *Registry) Fragment(rawScope string) (string, bool) {
	sheet := r.Get(rawScope)
	if sheet == nil {
		return "", false
	}
	return sheet.CSS, true
}

// Get returns the current handle for a scope, or nil.
func (r *Registry) Get(rawScope string) *StyleSheet {
	id := scope.Sanitize(rawScope)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sheets[id]
}

// Active returns the name of the theme applied to a scope.
func (r *Registry) Active(rawScope string) (string, bool) {
	sheet := r.Get(rawScope)
	if sheet == nil {
		return "", false
	}
	return sheet.ThemeName, true
}

// State reports Applied when the scope has a fragment, else Unapplied.
func (r *Registry) State(rawScope string) State {
	return r.Get(rawScope).State()
}

// Remove drops a scope's fragment. It reports whether one existed.
func (r *Registry) Remove(rawScope string) bool {
	id := scope.Sanitize(rawScope)
	r.mu.Lock()
	defer r.mu.Unlock()
	sheet, ok := r.sheets[id]
	if !ok {
		return false
	}
	sheet.superseded.Store(true)
	delete(r.sheets, id)
	return true
}

// Scopes lists applied scopes in sorted order.
func (r *Registry) Scopes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sheets))
	for id := range r.sheets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len is the number of applied scopes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sheets)
}

// Stylesheet concatenates every fragment, ordered by scope.
func (r *Registry) Stylesheet() string {
	r.mu.RLock()
	sheets := make([]*StyleSheet, 0, len(r.sheets))
	for _, sheet := range r.sheets {
		sheets = append(sheets, sheet)
	}
	r.mu.RUnlock()

	sort.Slice(sheets, func(i, j int) bool { return sheets[i].Scope < sheets[j].Scope })
	var b strings.Builder
	for _, sheet := range sheets {
		b.WriteString(sheet.CSS)
	}
	return b.String()
}

func fingerprint(css string) string {
	sum := sha256.Sum256([]byte(css))
	return hex.EncodeToString(sum[:8])
}
