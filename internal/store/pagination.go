package store

import (
	"encoding/base64"
	"strings"

	domainerrors "github.com/relprep/relprep/internal/errors"
)

// Page size bounds.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// PaginationParams selects one page of a listing.
type PaginationParams struct {
	Limit  int    `json:"limit"`
	Cursor string `json:"cursor,omitempty"` // Opaque; empty for the first page
}

// PaginatedResult is one page of items.
type PaginatedResult[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// Normalize clamps Limit into [1, MaxLimit], defaulting to DefaultLimit.
func (p *PaginationParams) Normalize() {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	p.Limit = min(p.Limit, MaxLimit)
}

// EncodeCursor joins the sort key parts of the last item into an opaque cursor.
func EncodeCursor(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(strings.Join(parts, "\x00")))
}

// DecodeCursor splits a cursor produced by EncodeCursor. An empty cursor
// yields no parts.
func DecodeCursor(cursor string, n int) ([]string, error) {
	if cursor == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, domainerrors.Validationf("invalid cursor")
	}
	parts := strings.Split(string(raw), "\x00")
	if len(parts) != n {
		return nil, domainerrors.Validationf("invalid cursor")
	}
	return parts, nil
}
