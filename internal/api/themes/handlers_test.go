package themes

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/codr1/brandkit/internal/applier"
	"github.com/codr1/brandkit/internal/db/store"
	"github.com/codr1/brandkit/internal/models"
	"github.com/codr1/brandkit/internal/ratelimit"
	"github.com/codr1/brandkit/internal/spacing"
	"github.com/codr1/brandkit/internal/tokens"
	"github.com/codr1/brandkit/internal/typography"
)

type mockThemeQueries struct {
	mu             sync.Mutex
	nextID         int64
	themes         map[int64]store.Theme
	activeThemeIDs map[string]int64
	upsertErr      error
}

func newMockThemeQueries() *mockThemeQueries {
	return &mockThemeQueries{
		nextID:         1,
		themes:         make(map[int64]store.Theme),
		activeThemeIDs: make(map[string]int64),
	}
}

func (m *mockThemeQueries) addTheme(theme store.Theme) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if theme.ID == 0 {
		theme.ID = m.nextID
		m.nextID++
	}
	if theme.CreatedAt.IsZero() {
		theme.CreatedAt = time.Now().UTC()
	}
	if theme.UpdatedAt.IsZero() {
		theme.UpdatedAt = theme.CreatedAt
	}
	m.themes[theme.ID] = theme
	return theme.ID
}

func (m *mockThemeQueries) ListSystemThemes(ctx context.Context) ([]store.Theme, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	var rows []store.Theme
	for id := int64(1); id < m.nextID; id++ {
		if theme, ok := m.themes[id]; ok && theme.IsSystem {
			rows = append(rows, theme)
		}
	}
	return rows, nil
}

func (m *mockThemeQueries) ListTenantThemes(ctx context.Context, tenantID string) ([]store.Theme, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	var rows []store.Theme
	for id := int64(1); id < m.nextID; id++ {
		if theme, ok := m.themes[id]; ok && !theme.IsSystem && theme.TenantID == tenantID {
			rows = append(rows, theme)
		}
	}
	return rows, nil
}

func (m *mockThemeQueries) GetActiveThemeID(ctx context.Context, tenantID string) (int64, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.activeThemeIDs[tenantID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	return id, nil
}

func (m *mockThemeQueries) GetTheme(ctx context.Context, id int64) (store.Theme, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	theme, ok := m.themes[id]
	if !ok {
		return store.Theme{}, sql.ErrNoRows
	}
	return theme, nil
}

func (m *mockThemeQueries) UpsertActiveThemeID(ctx context.Context, arg store.UpsertActiveThemeIDParams) (int64, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	m.activeThemeIDs[arg.TenantID] = arg.ThemeID
	return 1, nil
}

func (m *mockThemeQueries) active(tenantID string) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.activeThemeIDs[tenantID]
	return id, ok
}

func setupThemeHandlers(t *testing.T) *mockThemeQueries {
	t.Helper()

	mock := newMockThemeQueries()
	queries = mock
	registry = applier.NewRegistry(applier.WithLogger(zerolog.Nop()))
	t.Cleanup(func() {
		queries = nil
		queriesOnce = sync.Once{}
		registry = nil
		metrics = nil
		limiter = nil
		defaultTheme = models.DefaultTheme()
		fontPair = typography.DefaultFontPair
		density = spacing.DefaultDensity
		darkMode = false
		trustProxy = false
	})
	return mock
}

func legacyRow(name, tenantID, source string) store.Theme {
	return store.Theme{
		Name:       name,
		TenantID:   tenantID,
		IsSystem:   tenantID == "",
		SourceKind: store.SourceKindLegacy,
		SourceJSON: source,
	}
}

func TestStylesheet_DefaultWhenNoSelection(t *testing.T) {
	setupThemeHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/themes/acme/stylesheet.css", nil)
	req.SetPathValue("tenant", "acme")
	recorder := httptest.NewRecorder()

	HandleStylesheet(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Fatalf("unexpected content type: %s", ct)
	}
	body := recorder.Body.String()
	if !strings.HasPrefix(body, ".theme-acme {") {
		t.Fatalf("unexpected stylesheet: %s", body)
	}
	if !strings.Contains(body, "--primary: "+tokens.DefaultPrimary+";") {
		t.Fatalf("default primary missing: %s", body)
	}
	if name, ok := registry.Active("acme"); !ok || name != "Default" {
		t.Fatalf("unexpected active theme: %q %t", name, ok)
	}
}

func TestStylesheet_LongTenantServedFromRegistry(t *testing.T) {
	setupThemeHandlers(t)
	tenant := "The Downtown Pickleball and Tennis Community Center LLC"

	var first string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/themes/x/stylesheet.css", nil)
		req.SetPathValue("tenant", tenant)
		recorder := httptest.NewRecorder()

		HandleStylesheet(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("status: %d", recorder.Code)
		}
		if i == 0 {
			first = recorder.Body.String()
		} else if recorder.Body.String() != first {
			t.Fatalf("stylesheet changed between requests")
		}
	}

	fragment, ok := registry.Fragment(tenant)
	if !ok {
		t.Fatalf("fragment for %q not found after apply", tenant)
	}
	if fragment != first {
		t.Fatalf("served stylesheet differs from applied fragment")
	}
	if registry.Len() != 1 {
		t.Fatalf("registry scopes: %v", registry.Scopes())
	}
}

func TestStylesheet_ActiveLegacyTheme(t *testing.T) {
	mock := setupThemeHandlers(t)
	id := mock.addTheme(legacyRow("Ocean", "acme", `{"primaryColor":"#0ea5e9"}`))
	mock.activeThemeIDs["acme"] = id

	req := httptest.NewRequest(http.MethodGet, "/themes/acme/stylesheet.css", nil)
	req.SetPathValue("tenant", "acme")
	recorder := httptest.NewRecorder()

	HandleStylesheet(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, "--primary: #0ea5e9;") {
		t.Fatalf("legacy primary missing: %s", body)
	}
	// Legacy themes fall back to the alias defaults.
	if !strings.Contains(body, "--background: #ffffff;") {
		t.Fatalf("background alias missing: %s", body)
	}
	if recorder.Header().Get("ETag") == "" {
		t.Fatalf("missing ETag")
	}
}

func TestStylesheet_DarkVariant(t *testing.T) {
	setupThemeHandlers(t)
	darkMode = true

	req := httptest.NewRequest(http.MethodGet, "/themes/acme/stylesheet.css", nil)
	req.SetPathValue("tenant", "acme")
	recorder := httptest.NewRecorder()

	HandleStylesheet(recorder, req)

	body := recorder.Body.String()
	if !strings.Contains(body, ".theme-acme.dark, .dark .theme-acme {") {
		t.Fatalf("dark block missing: %s", body)
	}
	if !strings.Contains(body, "--background: #0f172a;") {
		t.Fatalf("dark background missing: %s", body)
	}
}

func TestStylesheet_NotModified(t *testing.T) {
	setupThemeHandlers(t)

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/themes/acme/stylesheet.css", nil)
	req.SetPathValue("tenant", "acme")
	HandleStylesheet(first, req)

	req = httptest.NewRequest(http.MethodGet, "/themes/acme/stylesheet.css", nil)
	req.SetPathValue("tenant", "acme")
	req.Header.Set("If-None-Match", first.Header().Get("ETag"))
	second := httptest.NewRecorder()
	HandleStylesheet(second, req)

	if second.Code != http.StatusNotModified {
		t.Fatalf("status: %d", second.Code)
	}
	if second.Body.Len() != 0 {
		t.Fatalf("unexpected body on 304: %s", second.Body.String())
	}
}

func TestStylesheet_EmptyActiveThemeFallsBack(t *testing.T) {
	mock := setupThemeHandlers(t)
	id := mock.addTheme(legacyRow("Blank", "acme", `{}`))
	mock.activeThemeIDs["acme"] = id

	req := httptest.NewRequest(http.MethodGet, "/themes/acme/stylesheet.css", nil)
	req.SetPathValue("tenant", "acme")
	recorder := httptest.NewRecorder()

	HandleStylesheet(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	if name, _ := registry.Active("acme"); name != "Default" {
		t.Fatalf("unexpected active theme: %q", name)
	}
}

func TestStylesheet_MissingTenant(t *testing.T) {
	setupThemeHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/themes//stylesheet.css", nil)
	recorder := httptest.NewRecorder()

	HandleStylesheet(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestStylesheet_NotInitialized(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/themes/acme/stylesheet.css", nil)
	req.SetPathValue("tenant", "acme")
	recorder := httptest.NewRecorder()

	HandleStylesheet(recorder, req)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestPreview_LegacySource(t *testing.T) {
	setupThemeHandlers(t)

	body := `{"tenant":"acme","source":{"primaryColor":"#112233","textColor":"ink"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/themes/preview", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	HandlePreview(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}

	var resp struct {
		ScopeID       string             `json:"scopeId"`
		CSS           string             `json:"css"`
		Diagnostics   tokens.Diagnostics `json:"diagnostics"`
		Accessibility []struct {
			Name string `json:"name"`
		} `json:"accessibility"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ScopeID != "acme" {
		t.Fatalf("unexpected scope: %s", resp.ScopeID)
	}
	if !strings.Contains(resp.CSS, "--primary: #112233;") {
		t.Fatalf("unexpected css: %s", resp.CSS)
	}
	if len(resp.Diagnostics) == 0 || resp.Diagnostics[0].Kind != tokens.KindInvalidColorFormat {
		t.Fatalf("unexpected diagnostics: %#v", resp.Diagnostics)
	}
	if len(resp.Accessibility) == 0 || resp.Accessibility[0].Name != "text" {
		t.Fatalf("unexpected accessibility report: %#v", resp.Accessibility)
	}

	// Previews never touch the applied stylesheets.
	if registry.Len() != 0 {
		t.Fatalf("preview applied a stylesheet")
	}
}

func TestPreview_BrandInputsWithDark(t *testing.T) {
	setupThemeHandlers(t)

	body := `{"tenant":"acme","brand":{"primary":"#1e3a8a"},"dark":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/themes/preview", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	HandlePreview(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	got := recorder.Body.String()
	if !strings.Contains(got, "#1e3a8a") {
		t.Fatalf("brand primary missing: %s", got)
	}
	if !strings.Contains(got, ".theme-acme.dark, .dark .theme-acme {") {
		t.Fatalf("dark block missing: %s", got)
	}
}

func TestPreview_Htmx(t *testing.T) {
	setupThemeHandlers(t)

	body := `{"tenant":"acme","source":{"primaryColor":"#112233"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/themes/preview", strings.NewReader(body))
	req.Header.Set("HX-Request", "true")
	recorder := httptest.NewRecorder()

	HandlePreview(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), `<style id="brandkit-theme">`) {
		t.Fatalf("unexpected html: %s", recorder.Body.String())
	}
}

func TestPreview_InvalidRequests(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "missing_tenant", body: `{"source":{"primaryColor":"#112233"}}`, status: http.StatusBadRequest},
		{name: "missing_source", body: `{"tenant":"acme"}`, status: http.StatusBadRequest},
		{name: "both_shapes", body: `{"tenant":"acme","source":{},"brand":{"primary":"#112233"}}`, status: http.StatusBadRequest},
		{name: "bad_brand", body: `{"tenant":"acme","brand":{"primary":"blue"}}`, status: http.StatusBadRequest},
		{name: "unknown_field", body: `{"tenant":"acme","colour":"#112233"}`, status: http.StatusBadRequest},
		{name: "empty_theme", body: `{"tenant":"acme","source":{}}`, status: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupThemeHandlers(t)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/themes/preview", strings.NewReader(tt.body))
			recorder := httptest.NewRecorder()

			HandlePreview(recorder, req)

			if recorder.Code != tt.status {
				t.Fatalf("status: %d, want %d, body: %s", recorder.Code, tt.status, recorder.Body.String())
			}
		})
	}
}

func TestPreview_RateLimited(t *testing.T) {
	setupThemeHandlers(t)
	limiter = ratelimit.New(&ratelimit.Config{Window: time.Minute, MaxPerTenant: 1, MaxPerIP: 10})
	t.Cleanup(limiter.Close)

	body := `{"tenant":"acme","source":{"primaryColor":"#112233"}}`
	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/themes/preview", strings.NewReader(body))
		recorder := httptest.NewRecorder()

		HandlePreview(recorder, req)

		if recorder.Code != want {
			t.Fatalf("request %d status: %d, want %d", i, recorder.Code, want)
		}
		if want == http.StatusTooManyRequests && recorder.Header().Get("Retry-After") == "" {
			t.Fatalf("missing Retry-After")
		}
	}
}

func TestPalette(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/themes/palette?base=%232563eb", nil)
	recorder := httptest.NewRecorder()

	HandlePalette(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	var resp struct {
		Base   string `json:"base"`
		Shades []struct {
			Step int `json:"step"`
		} `json:"shades"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Base != "#2563eb" {
		t.Fatalf("unexpected base: %s", resp.Base)
	}
	if len(resp.Shades) != 11 {
		t.Fatalf("unexpected shade count: %d", len(resp.Shades))
	}
}

func TestPalette_InvalidBase(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/themes/palette?base=blue", nil)
	recorder := httptest.NewRecorder()

	HandlePalette(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestContrast(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		status     int
		wantPasses bool
	}{
		{name: "black_on_white", query: "fg=%23000000&bg=%23ffffff", status: http.StatusOK, wantPasses: true},
		{name: "custom_minimum", query: "fg=%23777777&bg=%23ffffff&min=7", status: http.StatusOK},
		{name: "bad_fg", query: "fg=black&bg=%23ffffff", status: http.StatusBadRequest},
		{name: "bad_min", query: "fg=%23000000&bg=%23ffffff&min=30", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/themes/contrast?"+tt.query, nil)
			recorder := httptest.NewRecorder()

			HandleContrast(recorder, req)

			if recorder.Code != tt.status {
				t.Fatalf("status: %d, want %d", recorder.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			var resp struct {
				ContrastRatio float64 `json:"contrastRatio"`
				PassesMinimum bool    `json:"passesMinimum"`
			}
			if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.PassesMinimum != tt.wantPasses {
				t.Fatalf("passesMinimum = %t, want %t (ratio %.2f)", resp.PassesMinimum, tt.wantPasses, resp.ContrastRatio)
			}
		})
	}
}

func TestTypeScale(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/themes/typography?base=16&ratio=perfect-fourth", nil)
	recorder := httptest.NewRecorder()

	HandleTypeScale(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	var resp struct {
		Ratio float64 `json:"ratio"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Ratio != 1.333 {
		t.Fatalf("unexpected ratio: %v", resp.Ratio)
	}

	for _, ratio := range []string{"huge", "1e40", "4.5"} {
		req = httptest.NewRequest(http.MethodGet, "/api/v1/themes/typography?ratio="+ratio, nil)
		recorder = httptest.NewRecorder()
		HandleTypeScale(recorder, req)
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("ratio %s status: %d", ratio, recorder.Code)
		}
	}
}

func TestTypeScale_OverflowingBaseFallsBack(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/themes/typography?base=1e307&ratio=4", nil)
	recorder := httptest.NewRecorder()

	HandleTypeScale(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	var resp struct {
		Base  float64 `json:"base"`
		Ratio float64 `json:"ratio"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Base != typography.DefaultBaseSize || resp.Ratio != 4 {
		t.Fatalf("unexpected scale: base=%v ratio=%v", resp.Base, resp.Ratio)
	}
}

func TestListThemes_ReturnsSystemAndTenantThemes(t *testing.T) {
	mock := setupThemeHandlers(t)
	mock.addTheme(legacyRow("Simple", "", `{"primaryColor":"#2563eb"}`))
	acmeID := mock.addTheme(legacyRow("Acme", "acme", `{"primaryColor":"#112233"}`))
	mock.addTheme(legacyRow("Beta", "beta", `{"primaryColor":"#445566"}`))
	mock.activeThemeIDs["acme"] = acmeID

	req := httptest.NewRequest(http.MethodGet, "/api/v1/themes?tenant=acme", nil)
	recorder := httptest.NewRecorder()

	HandleThemesList(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}

	var resp struct {
		Themes []struct {
			Name     string `json:"name"`
			IsSystem bool   `json:"isSystem"`
		} `json:"themes"`
		ActiveThemeID int64 `json:"activeThemeId"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Themes) != 2 {
		t.Fatalf("unexpected theme count: %d", len(resp.Themes))
	}
	if resp.Themes[0].Name != "Simple" || !resp.Themes[0].IsSystem || resp.Themes[1].Name != "Acme" {
		t.Fatalf("unexpected themes: %#v", resp.Themes)
	}
	if resp.ActiveThemeID != acmeID {
		t.Fatalf("unexpected active theme id: %d", resp.ActiveThemeID)
	}
}

func TestListThemes_Htmx(t *testing.T) {
	mock := setupThemeHandlers(t)
	mock.addTheme(legacyRow("Simple", "", `{"primaryColor":"#2563eb"}`))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/themes?tenant=acme", nil)
	req.Header.Set("HX-Request", "true")
	recorder := httptest.NewRecorder()

	HandleThemesList(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), `<ul id="themes-list"`) {
		t.Fatalf("unexpected html: %s", recorder.Body.String())
	}
}

func TestListThemes_MissingTenant(t *testing.T) {
	setupThemeHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/themes", nil)
	recorder := httptest.NewRecorder()

	HandleThemesList(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestTenantThemeSet_AppliesTheme(t *testing.T) {
	mock := setupThemeHandlers(t)
	first := mock.addTheme(legacyRow("Ocean", "", `{"primaryColor":"#0ea5e9"}`))
	second := mock.addTheme(legacyRow("Forest", "acme", `{"primaryColor":"#14532d"}`))

	put := func(themeID int64) *httptest.ResponseRecorder {
		body := `{"themeId":` + jsonInt(themeID) + `}`
		req := httptest.NewRequest(http.MethodPut, "/api/v1/tenants/acme/theme", strings.NewReader(body))
		req.SetPathValue("tenant", "acme")
		recorder := httptest.NewRecorder()
		HandleTenantThemeSet(recorder, req)
		return recorder
	}

	recorder := put(first)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	firstSheet := registry.Get("acme")
	if firstSheet == nil || !strings.Contains(firstSheet.CSS, "#0ea5e9") {
		t.Fatalf("first theme not applied")
	}

	recorder = put(second)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}

	var resp activateResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Theme != "Forest" || resp.ScopeID != "acme" {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if id, ok := mock.active("acme"); !ok || id != second {
		t.Fatalf("unexpected stored selection: %d %t", id, ok)
	}

	// The replaced fragment is fully superseded.
	if firstSheet.State() != applier.Superseded {
		t.Fatalf("previous stylesheet state: %s", firstSheet.State())
	}
	css, _ := registry.Fragment("acme")
	if strings.Contains(css, "#0ea5e9") || !strings.Contains(css, "#14532d") {
		t.Fatalf("unexpected fragment: %s", css)
	}
}

func TestTenantThemeSet_Errors(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(m *mockThemeQueries) int64
		status int
	}{
		{
			name:   "not_found",
			setup:  func(m *mockThemeQueries) int64 { return 999 },
			status: http.StatusNotFound,
		},
		{
			name: "other_tenant",
			setup: func(m *mockThemeQueries) int64 {
				return m.addTheme(legacyRow("Beta", "beta", `{"primaryColor":"#445566"}`))
			},
			status: http.StatusBadRequest,
		},
		{
			name: "empty_theme",
			setup: func(m *mockThemeQueries) int64 {
				return m.addTheme(legacyRow("Blank", "acme", `{}`))
			},
			status: http.StatusUnprocessableEntity,
		},
		{
			name: "upsert_failure",
			setup: func(m *mockThemeQueries) int64 {
				m.upsertErr = errors.New("database is locked")
				return m.addTheme(legacyRow("Acme", "acme", `{"primaryColor":"#112233"}`))
			},
			status: http.StatusInternalServerError,
		},
		{
			name:   "missing_theme_id",
			setup:  func(m *mockThemeQueries) int64 { return 0 },
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := setupThemeHandlers(t)
			themeID := tt.setup(mock)

			req := httptest.NewRequest(http.MethodPut, "/api/v1/tenants/acme/theme", strings.NewReader(`{"themeId":`+jsonInt(themeID)+`}`))
			req.SetPathValue("tenant", "acme")
			recorder := httptest.NewRecorder()

			HandleTenantThemeSet(recorder, req)

			if recorder.Code != tt.status {
				t.Fatalf("status: %d, want %d, body: %s", recorder.Code, tt.status, recorder.Body.String())
			}
			if _, ok := mock.active("acme"); ok {
				t.Fatalf("selection stored on failure")
			}
			if registry.Len() != 0 {
				t.Fatalf("stylesheet applied on failure")
			}
		})
	}
}

func TestTenantThemeSet_Htmx(t *testing.T) {
	mock := setupThemeHandlers(t)
	id := mock.addTheme(legacyRow("Ocean", "", `{"primaryColor":"#0ea5e9"}`))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/tenants/acme/theme", strings.NewReader(`{"themeId":`+jsonInt(id)+`}`))
	req.SetPathValue("tenant", "acme")
	req.Header.Set("HX-Request", "true")
	recorder := httptest.NewRecorder()

	HandleTenantThemeSet(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	if recorder.Header().Get("HX-Trigger") != refreshListEvent {
		t.Fatalf("missing HX-Trigger")
	}
	if !strings.Contains(recorder.Body.String(), "Ocean is now active.") {
		t.Fatalf("unexpected feedback: %s", recorder.Body.String())
	}
}

func TestPreviewPage(t *testing.T) {
	mock := setupThemeHandlers(t)
	mock.addTheme(legacyRow("Simple", "", `{"primaryColor":"#2563eb"}`))

	req := httptest.NewRequest(http.MethodGet, "/themes/acme", nil)
	req.SetPathValue("tenant", "acme")
	recorder := httptest.NewRecorder()

	HandlePreviewPage(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	body := recorder.Body.String()
	for _, want := range []string{`<body class="theme-acme">`, `<ul id="themes-list"`, "<span>Simple</span>"} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q: %s", want, body)
		}
	}
}

func jsonInt(v int64) string {
	data, _ := json.Marshal(v)
	return string(data)
}
