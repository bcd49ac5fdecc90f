// internal/api/apiutil/fields.go
package apiutil

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
)

const (
	tenantQueryKey = "tenant"
	maxTenantLen   = 64
)

func ParsePositiveInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, FieldError{Field: field, Reason: "is required"}
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, FieldError{Field: field, Reason: "must be greater than 0"}
	}
	return value, nil
}

// ParseOptionalFloatField returns fallback for an empty value.
func ParseOptionalFloatField(raw string, field string, fallback float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, FieldError{Field: field, Reason: "must be a number"}
	}
	return value, nil
}

// ValidateTenant checks a raw tenant identifier. Selector safety is the
// scope package's job; this only bounds the input.
func ValidateTenant(raw string) (string, error) {
	tenant := strings.TrimSpace(raw)
	if tenant == "" {
		return "", FieldError{Field: tenantQueryKey, Reason: "is required"}
	}
	if len(tenant) > maxTenantLen {
		return "", FieldError{Field: tenantQueryKey, Reason: fmt.Sprintf("must be %d characters or fewer", maxTenantLen)}
	}
	return tenant, nil
}

func TenantFromQuery(r *http.Request) (string, error) {
	return ValidateTenant(r.URL.Query().Get(tenantQueryKey))
}

func TenantFromPath(r *http.Request) (string, error) {
	return ValidateTenant(r.PathValue(tenantQueryKey))
}
