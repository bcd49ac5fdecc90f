// internal/api/themes/handlers.go
package themes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/brandkit/internal/api/apiutil"
	"github.com/codr1/brandkit/internal/api/htmx"
	"github.com/codr1/brandkit/internal/applier"
	"github.com/codr1/brandkit/internal/color"
	"github.com/codr1/brandkit/internal/compiler"
	"github.com/codr1/brandkit/internal/db/store"
	"github.com/codr1/brandkit/internal/models"
	"github.com/codr1/brandkit/internal/palette"
	"github.com/codr1/brandkit/internal/ratelimit"
	"github.com/codr1/brandkit/internal/spacing"
	"github.com/codr1/brandkit/internal/telemetry"
	themetempl "github.com/codr1/brandkit/internal/templates/components/themes"
	"github.com/codr1/brandkit/internal/templates/layouts"
	"github.com/codr1/brandkit/internal/tokens"
	"github.com/codr1/brandkit/internal/typography"
)

const (
	themeQueryTimeout = 5 * time.Second
	refreshListEvent  = "refreshThemesList"
)

var (
	queries     themeQueries
	queriesOnce sync.Once

	registry *applier.Registry
	metrics  *telemetry.Metrics
	limiter  *ratelimit.Limiter

	defaultTheme = models.DefaultTheme()
	fontPair     = typography.DefaultFontPair
	density      = spacing.DefaultDensity

	darkMode   bool
	trustProxy bool
)

type themeQueries interface {
	models.ThemeQueries
	UpsertActiveThemeID(ctx context.Context, arg store.UpsertActiveThemeIDParams) (int64, error)
}

// Options carries the collaborators shared by every handler. FontPair and
// Density fill brand previews that leave them out.
type Options struct {
	Registry     *applier.Registry
	Metrics      *telemetry.Metrics
	Limiter      *ratelimit.Limiter
	DefaultTheme *models.Theme
	FontPair     string
	Density      string
	DarkMode     bool
	TrustProxy   bool
}

type previewRequest struct {
	Tenant string              `json:"tenant"`
	Source json.RawMessage     `json:"source"`
	Brand  *tokens.BrandInputs `json:"brand"`
	Dark   bool                `json:"dark"`
}

type activateRequest struct {
	ThemeID int64 `json:"themeId"`
}

type activateResponse struct {
	Tenant      string `json:"tenant"`
	Theme       string `json:"theme"`
	ScopeID     string `json:"scopeId"`
	Fingerprint string `json:"fingerprint"`
}

// Pairs checked in every preview, by alias name.
var contrastPairs = []struct {
	name       string
	foreground string
	background string
}{
	{name: "text", foreground: "foreground", background: "background"},
	{name: "primary", foreground: "primary-foreground", background: "primary"},
	{name: "secondary", foreground: "secondary-foreground", background: "secondary"},
	{name: "muted", foreground: "muted-foreground", background: "background"},
	{name: "destructive", foreground: "destructive-foreground", background: "destructive"},
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *store.Queries, opts Options) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
		registry = opts.Registry
		if registry == nil {
			registry = applier.NewRegistry()
		}
		metrics = opts.Metrics
		limiter = opts.Limiter
		if opts.DefaultTheme != nil {
			defaultTheme = *opts.DefaultTheme
		}
		if opts.FontPair != "" {
			fontPair = opts.FontPair
		}
		if opts.Density != "" {
			density = opts.Density
		}
		darkMode = opts.DarkMode
		trustProxy = opts.TrustProxy
	})
}

// /themes/{tenant}/stylesheet.css
func HandleStylesheet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil || registry == nil {
		logger.Error().Msg("Theme handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	tenant, err := apiutil.TenantFromPath(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	sheet := registry.Get(tenant)
	if sheet == nil {
		ctx, cancel := context.WithTimeout(r.Context(), themeQueryTimeout)
		defer cancel()

		sheet, err = applyActiveTheme(ctx, q, tenant)
		if err != nil {
			logger.Error().Err(err).Str("tenant", tenant).Msg("Failed to apply active theme")
			http.Error(w, "Failed to load theme", http.StatusInternalServerError)
			return
		}
	}

	etag := strconv.Quote(sheet.Fingerprint)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(sheet.CSS)); err != nil {
		logger.Error().Err(err).Str("tenant", tenant).Msg("Failed to write stylesheet")
	}
}

// /themes/{tenant}
func HandlePreviewPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil || registry == nil {
		logger.Error().Msg("Theme handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	tenant, err := apiutil.TenantFromPath(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), themeQueryTimeout)
	defer cancel()

	sheet := registry.Get(tenant)
	if sheet == nil {
		sheet, err = applyActiveTheme(ctx, q, tenant)
		if err != nil {
			logger.Error().Err(err).Str("tenant", tenant).Msg("Failed to apply active theme")
			sheet = nil
		}
	}

	themes, err := models.ListThemes(ctx, q, tenant)
	if err != nil {
		logger.Error().Err(err).Str("tenant", tenant).Msg("Failed to list themes")
		http.Error(w, "Failed to load themes", http.StatusInternalServerError)
		return
	}

	list := themetempl.ThemeList(themetempl.NewThemes(themes, activeThemeID(ctx, q, tenant)), tenant)
	page := layouts.Base(layouts.PageData{Title: "Themes", Tenant: tenant, Sheet: sheet}, list)
	if !apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render themes page", "Failed to render page") {
		return
	}
}

// /api/v1/themes/preview
func HandlePreview(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	req, err := decodePreviewRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if limiter != nil {
		ip := ratelimit.GetClientIP(r, trustProxy)
		result := limiter.Allow(req.Tenant, ip)
		if !result.Allowed {
			ratelimit.LogRateLimitExceeded(req.Tenant, ip, result.Reason)
			w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
			http.Error(w, "Too many preview requests", http.StatusTooManyRequests)
			return
		}
	}

	src, err := previewSource(req)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	start := time.Now()
	compiled := compiler.CompileSource(src, req.Tenant)
	if compiled.IsEmpty() {
		http.Error(w, "Theme has nothing to compile", http.StatusUnprocessableEntity)
		return
	}
	css := compiled.String()
	if req.Dark {
		normalized, _ := tokens.Normalize(src)
		variant := compiler.Compile(applier.DeriveDarkVariant(normalized), req.Tenant)
		css += variant.CSS(applier.DarkSelector(compiled.ScopeID))
	}
	metrics.RecordCompile(r.Context(), compiled.ScopeID, time.Since(start), compiled.Diagnostics)

	data := themetempl.ThemePreviewData{
		Tenant:        req.Tenant,
		ScopeID:       compiled.ScopeID,
		CSS:           css,
		Fingerprint:   compiled.Fingerprint(),
		Diagnostics:   compiled.Diagnostics,
		Accessibility: accessibilityReport(compiled),
	}
	if data.Diagnostics == nil {
		data.Diagnostics = tokens.Diagnostics{}
	}

	if htmx.IsRequest(r) {
		component := themetempl.PreviewPanel(data)
		if !apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render theme preview", "Failed to render preview") {
			return
		}
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, data); err != nil {
		logger.Error().Err(err).Str("tenant", req.Tenant).Msg("Failed to write preview response")
	}
}

// /api/v1/themes/palette
func HandlePalette(w http.ResponseWriter, r *http.Request) {
	base, err := color.ParseHex(r.URL.Query().Get("base"))
	if err != nil {
		http.Error(w, "base must be a hex color", http.StatusBadRequest)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, palette.Generate(base)); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write palette response")
	}
}

// /api/v1/themes/contrast
func HandleContrast(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	fg, err := color.ParseHex(query.Get("fg"))
	if err != nil {
		http.Error(w, "fg must be a hex color", http.StatusBadRequest)
		return
	}
	bg, err := color.ParseHex(query.Get("bg"))
	if err != nil {
		http.Error(w, "bg must be a hex color", http.StatusBadRequest)
		return
	}
	minimum, err := apiutil.ParseOptionalFloatField(query.Get("min"), "min", color.ThresholdNormalText)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if minimum < 1 || minimum > 21 {
		http.Error(w, "min must be between 1 and 21", http.StatusBadRequest)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, color.Evaluate(fg, bg, minimum)); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write contrast response")
	}
}

// /api/v1/themes/typography
func HandleTypeScale(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	base, err := apiutil.ParseOptionalFloatField(query.Get("base"), "base", typography.DefaultBaseSize)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	ratio := typography.DefaultRatio
	if raw := strings.TrimSpace(query.Get("ratio")); raw != "" {
		parsed, ok := typography.ParseRatio(raw)
		if !ok {
			http.Error(w, fmt.Sprintf("ratio must be a named ratio or a number greater than 1 and at most %g", typography.MaxRatio), http.StatusBadRequest)
			return
		}
		ratio = parsed
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, typography.Generate(base, ratio)); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write type scale response")
	}
}

// /api/v1/themes
func HandleThemesList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	tenant, err := apiutil.TenantFromQuery(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), themeQueryTimeout)
	defer cancel()

	themes, err := models.ListThemes(ctx, q, tenant)
	if err != nil {
		logger.Error().Err(err).Str("tenant", tenant).Msg("Failed to list themes")
		http.Error(w, "Failed to load themes", http.StatusInternalServerError)
		return
	}
	activeID := activeThemeID(ctx, q, tenant)

	if htmx.IsRequest(r) {
		component := themetempl.ThemeList(themetempl.NewThemes(themes, activeID), tenant)
		if !apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render themes list", "Failed to render list") {
			return
		}
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"themes": themes, "activeThemeId": activeID}); err != nil {
		logger.Error().Err(err).Str("tenant", tenant).Msg("Failed to write themes list response")
	}
}

// /api/v1/tenants/{tenant}/theme
func HandleTenantThemeSet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil || registry == nil {
		logger.Error().Msg("Theme handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	tenant, err := apiutil.TenantFromPath(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req activateRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.ThemeID <= 0 {
		http.Error(w, "themeId is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), themeQueryTimeout)
	defer cancel()

	row, err := q.GetTheme(ctx, req.ThemeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Theme not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("theme_id", req.ThemeID).Msg("Failed to fetch theme")
		http.Error(w, "Failed to load theme", http.StatusInternalServerError)
		return
	}

	if !row.IsSystem && row.TenantID != tenant {
		http.Error(w, "Theme does not belong to tenant", http.StatusBadRequest)
		return
	}

	theme, err := models.ThemeFromDB(row)
	if err != nil {
		logger.Error().Err(err).Int64("theme_id", row.ID).Msg("Failed to decode theme")
		http.Error(w, "Failed to load theme", http.StatusInternalServerError)
		return
	}

	// Compile before persisting so an empty theme never becomes active.
	compiled, dark := compileTheme(ctx, theme, tenant)
	if compiled.IsEmpty() {
		http.Error(w, "Theme has nothing to apply", http.StatusUnprocessableEntity)
		return
	}

	if _, err := q.UpsertActiveThemeID(ctx, store.UpsertActiveThemeIDParams{
		TenantID: tenant,
		ThemeID:  theme.ID,
	}); err != nil {
		logger.Error().Err(err).Str("tenant", tenant).Msg("Failed to set active theme")
		http.Error(w, "Failed to update active theme", http.StatusInternalServerError)
		return
	}

	sheet, err := apply(ctx, theme.Name, compiled, dark)
	if err != nil {
		logger.Error().Err(err).Str("tenant", tenant).Msg("Failed to apply theme")
		http.Error(w, "Failed to apply theme", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		htmx.Trigger(w, refreshListEvent)
		apiutil.WriteHTMLFeedback(w, http.StatusOK, fmt.Sprintf("%s is now active.", theme.Name))
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, activateResponse{
		Tenant:      tenant,
		Theme:       sheet.ThemeName,
		ScopeID:     sheet.Scope,
		Fingerprint: sheet.Fingerprint,
	}); err != nil {
		logger.Error().Err(err).Str("tenant", tenant).Msg("Failed to write activate response")
	}
}

// applyActiveTheme resolves the tenant's selection, falling back to the
// library default, and applies it.
func applyActiveTheme(ctx context.Context, q themeQueries, tenant string) (*applier.StyleSheet, error) {
	theme, err := models.GetActiveTheme(ctx, q, tenant)
	if err != nil {
		return nil, err
	}
	if theme == nil {
		theme = &defaultTheme
	}

	compiled, dark := compileTheme(ctx, *theme, tenant)
	sheet, err := apply(ctx, theme.Name, compiled, dark)
	if errors.Is(err, applier.ErrEmptyTheme) && theme.Name != defaultTheme.Name {
		log.Ctx(ctx).Warn().Str("tenant", tenant).Str("theme", theme.Name).Msg("Active theme is empty, using default")
		compiled, dark = compileTheme(ctx, defaultTheme, tenant)
		return apply(ctx, defaultTheme.Name, compiled, dark)
	}
	return sheet, err
}

func compileTheme(ctx context.Context, theme models.Theme, tenant string) (compiler.CompiledTheme, *compiler.CompiledTheme) {
	start := time.Now()
	compiled := compiler.CompileSource(theme.Source, tenant)

	var dark *compiler.CompiledTheme
	if darkMode && !compiled.IsEmpty() {
		normalized, _ := theme.Tokens()
		if normalized.Appearance != tokens.AppearanceDark {
			variant := compiler.Compile(applier.DeriveDarkVariant(normalized), tenant)
			dark = &variant
		}
	}

	metrics.RecordCompile(ctx, compiled.ScopeID, time.Since(start), compiled.Diagnostics)
	return compiled, dark
}

func apply(ctx context.Context, name string, compiled compiler.CompiledTheme, dark *compiler.CompiledTheme) (*applier.StyleSheet, error) {
	var opts []applier.ApplyOption
	if dark != nil {
		opts = append(opts, applier.WithDarkVariant(*dark))
	}

	before := registry.Get(compiled.ScopeID)
	sheet, _, err := registry.Apply(name, compiled, opts...)
	switch {
	case errors.Is(err, applier.ErrEmptyTheme):
		metrics.RecordApply(ctx, compiled.ScopeID, telemetry.OutcomeEmpty)
	case err != nil:
	case sheet == before:
		metrics.RecordApply(ctx, compiled.ScopeID, telemetry.OutcomeUnchanged)
	default:
		metrics.RecordApply(ctx, compiled.ScopeID, telemetry.OutcomeApplied)
	}
	return sheet, err
}

func accessibilityReport(compiled compiler.CompiledTheme) []themetempl.ContrastPair {
	report := make([]themetempl.ContrastPair, 0, len(contrastPairs))
	for _, pair := range contrastPairs {
		fg, ok := compiled.Value(pair.foreground)
		if !ok {
			continue
		}
		bg, ok := compiled.Value(pair.background)
		if !ok {
			continue
		}
		result, err := color.CheckAccessibility(fg, bg)
		if err != nil {
			// Non-hex values such as var() references cannot be measured.
			continue
		}
		report = append(report, themetempl.ContrastPair{
			Name:       pair.name,
			Foreground: fg,
			Background: bg,
			Result:     result,
		})
	}
	return report
}

func activeThemeID(ctx context.Context, q themeQueries, tenant string) int64 {
	id, err := q.GetActiveThemeID(ctx, tenant)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Ctx(ctx).Error().Err(err).Str("tenant", tenant).Msg("Failed to load active theme")
		}
		return 0
	}
	return id
}

func decodePreviewRequest(r *http.Request) (previewRequest, error) {
	var req previewRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		return previewRequest{}, fmt.Errorf("invalid JSON body")
	}
	tenant, err := apiutil.ValidateTenant(req.Tenant)
	if err != nil {
		return previewRequest{}, err
	}
	req.Tenant = tenant
	return req, nil
}

func previewSource(req previewRequest) (tokens.Source, error) {
	hasSource := len(req.Source) > 0 && string(req.Source) != "null"
	switch {
	case hasSource && req.Brand != nil:
		return nil, apiutil.FieldError{Field: "source", Reason: "cannot be combined with brand"}
	case req.Brand != nil:
		brand := *req.Brand
		if brand.FontPair == "" && brand.Fonts == nil {
			brand.FontPair = fontPair
		}
		if brand.Density == "" {
			brand.Density = density
		}
		built, err := tokens.Build(brand)
		if err != nil {
			return nil, apiutil.FieldError{Field: "brand", Reason: err.Error()}
		}
		return tokens.TokenTheme{Name: "Preview", Tokens: built.Tree()}, nil
	case hasSource:
		src, err := tokens.DecodeSource(req.Source)
		if err != nil {
			return nil, apiutil.FieldError{Field: "source", Reason: err.Error()}
		}
		return src, nil
	default:
		return nil, apiutil.FieldError{Field: "source", Reason: "or brand is required"}
	}
}

func loadQueries() themeQueries {
	return queries
}
