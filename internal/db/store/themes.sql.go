// internal/db/store/themes.sql.go
package store

import (
	"context"
)

const themeColumns = `id, public_id, tenant_id, name, is_system, source_kind, source_json, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTheme(row rowScanner) (Theme, error) {
	var i Theme
	err := row.Scan(
		&i.ID,
		&i.PublicID,
		&i.TenantID,
		&i.Name,
		&i.IsSystem,
		&i.SourceKind,
		&i.SourceJSON,
		(*timestamp)(&i.CreatedAt),
		(*timestamp)(&i.UpdatedAt),
	)
	return i, err
}

func (q *Queries) queryThemes(ctx context.Context, query string, args ...interface{}) ([]Theme, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Theme{}
	for rows.Next() {
		i, err := scanTheme(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createTheme = `
INSERT INTO themes (public_id, tenant_id, name, is_system, source_kind, source_json)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + themeColumns

type CreateThemeParams struct {
	PublicID   string
	TenantID   string
	Name       string
	IsSystem   bool
	SourceKind string
	SourceJSON string
}

func (q *Queries) CreateTheme(ctx context.Context, arg CreateThemeParams) (Theme, error) {
	row := q.db.QueryRowContext(ctx, createTheme,
		arg.PublicID,
		arg.TenantID,
		arg.Name,
		arg.IsSystem,
		arg.SourceKind,
		arg.SourceJSON,
	)
	return scanTheme(row)
}

const upsertSystemTheme = `
INSERT INTO themes (public_id, tenant_id, name, is_system, source_kind, source_json)
VALUES (?, '', ?, 1, ?, ?)
ON CONFLICT (tenant_id, name) DO UPDATE SET
    source_kind = excluded.source_kind,
    source_json = excluded.source_json,
    updated_at = CURRENT_TIMESTAMP
RETURNING ` + themeColumns

type UpsertSystemThemeParams struct {
	PublicID   string
	Name       string
	SourceKind string
	SourceJSON string
}

// UpsertSystemTheme keeps the existing public id when the name is already present.
func (q *Queries) UpsertSystemTheme(ctx context.Context, arg UpsertSystemThemeParams) (Theme, error) {
	row := q.db.QueryRowContext(ctx, upsertSystemTheme,
		arg.PublicID,
		arg.Name,
		arg.SourceKind,
		arg.SourceJSON,
	)
	return scanTheme(row)
}

const getTheme = `
SELECT ` + themeColumns + `
FROM themes
WHERE id = ?`

func (q *Queries) GetTheme(ctx context.Context, id int64) (Theme, error) {
	return scanTheme(q.db.QueryRowContext(ctx, getTheme, id))
}

const getThemeByPublicID = `
SELECT ` + themeColumns + `
FROM themes
WHERE public_id = ?`

func (q *Queries) GetThemeByPublicID(ctx context.Context, publicID string) (Theme, error) {
	return scanTheme(q.db.QueryRowContext(ctx, getThemeByPublicID, publicID))
}

const listSystemThemes = `
SELECT ` + themeColumns + `
FROM themes
WHERE is_system = 1
ORDER BY name`

func (q *Queries) ListSystemThemes(ctx context.Context) ([]Theme, error) {
	return q.queryThemes(ctx, listSystemThemes)
}

const listTenantThemes = `
SELECT ` + themeColumns + `
FROM themes
WHERE is_system = 0 AND tenant_id = ?
ORDER BY name`

func (q *Queries) ListTenantThemes(ctx context.Context, tenantID string) ([]Theme, error) {
	return q.queryThemes(ctx, listTenantThemes, tenantID)
}

const listLegacyThemes = `
SELECT ` + themeColumns + `
FROM themes
WHERE source_kind = 'legacy' AND id > ?
ORDER BY id
LIMIT ?`

type ListLegacyThemesParams struct {
	AfterID int64
	Limit   int64
}

func (q *Queries) ListLegacyThemes(ctx context.Context, arg ListLegacyThemesParams) ([]Theme, error) {
	return q.queryThemes(ctx, listLegacyThemes, arg.AfterID, arg.Limit)
}

const updateThemeSource = `
UPDATE themes
SET source_kind = ?, source_json = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND source_kind = ?`

type UpdateThemeSourceParams struct {
	ID           int64
	SourceKind   string
	SourceJSON   string
	ExpectedKind string
}

// UpdateThemeSource only touches the row while it still has ExpectedKind.
// It returns the number of rows changed.
func (q *Queries) UpdateThemeSource(ctx context.Context, arg UpdateThemeSourceParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateThemeSource,
		arg.SourceKind,
		arg.SourceJSON,
		arg.ID,
		arg.ExpectedKind,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getActiveThemeID = `
SELECT theme_id
FROM tenant_themes
WHERE tenant_id = ?`

func (q *Queries) GetActiveThemeID(ctx context.Context, tenantID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, getActiveThemeID, tenantID)
	var themeID int64
	err := row.Scan(&themeID)
	return themeID, err
}

const upsertActiveThemeID = `
INSERT INTO tenant_themes (tenant_id, theme_id)
VALUES (?, ?)
ON CONFLICT (tenant_id) DO UPDATE SET
    theme_id = excluded.theme_id,
    updated_at = CURRENT_TIMESTAMP`

type UpsertActiveThemeIDParams struct {
	TenantID string
	ThemeID  int64
}

func (q *Queries) UpsertActiveThemeID(ctx context.Context, arg UpsertActiveThemeIDParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, upsertActiveThemeID, arg.TenantID, arg.ThemeID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listTenantThemeSelections = `
SELECT tenant_id, theme_id, updated_at
FROM tenant_themes
ORDER BY tenant_id`

func (q *Queries) ListTenantThemeSelections(ctx context.Context) ([]TenantTheme, error) {
	rows, err := q.db.QueryContext(ctx, listTenantThemeSelections)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []TenantTheme{}
	for rows.Next() {
		var i TenantTheme
		if err := rows.Scan(&i.TenantID, &i.ThemeID, (*timestamp)(&i.UpdatedAt)); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
