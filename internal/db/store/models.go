// internal/db/store/models.go
package store

import (
	"fmt"
	"time"
)

const (
	SourceKindLegacy = "legacy"
	SourceKindTokens = "tokens"
)

type Theme struct {
	ID         int64     `json:"id"`
	PublicID   string    `json:"public_id"`
	TenantID   string    `json:"tenant_id"`
	Name       string    `json:"name"`
	IsSystem   bool      `json:"is_system"`
	SourceKind string    `json:"source_kind"`
	SourceJSON string    `json:"source_json"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type TenantTheme struct {
	TenantID  string    `json:"tenant_id"`
	ThemeID   int64     `json:"theme_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RETURNING columns carry no declared type, so the driver can hand back
// CURRENT_TIMESTAMP text instead of a time.Time.
type timestamp time.Time

const sqliteTimestampLayout = "2006-01-02 15:04:05"

func (t *timestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = timestamp(v)
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		*t = timestamp(time.Time{})
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
	return nil
}

func (t *timestamp) parse(s string) error {
	for _, layout := range []string{sqliteTimestampLayout, time.RFC3339Nano} {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			*t = timestamp(parsed)
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}
