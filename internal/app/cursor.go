package app

import (
	"encoding/base64"
	"strconv"
	"strings"

	"booking_search/internal/domain"
)

const (
	establishmentPrefix = "etab-"
	roomPrefix          = "chambre-"
)

// cursor holds one keyset position per source. A nil position means the
// source is read from its first row.
type cursor struct {
	establishment *int64
	room          *int64
}

func (c cursor) isZero() bool { return c.establishment == nil && c.room == nil }

// String encodes c as an opaque token.
func (c cursor) String() string {
	var parts []string
	if c.establishment != nil {
		parts = append(parts, establishmentPrefix+strconv.FormatInt(*c.establishment, 10))
	}
	if c.room != nil {
		parts = append(parts, roomPrefix+strconv.FormatInt(*c.room, 10))
	}
	return base64.RawURLEncoding.EncodeToString([]byte(strings.Join(parts, ".")))
}

// parseCursor accepts tokens produced by String and the bare
// "etab-<id>" / "chambre-<id>" forms.
func parseCursor(s string) (cursor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return cursor{}, nil
	}
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		if c, ok := parseCursorTokens(string(b)); ok {
			return c, nil
		}
	}
	if c, ok := parseCursorTokens(s); ok {
		return c, nil
	}
	return cursor{}, domain.NewValidationError(domain.InvalidFormat, "cursor", "unrecognised cursor")
}

func parseCursorTokens(s string) (cursor, bool) {
	var c cursor
	for _, tok := range strings.Split(s, ".") {
		var dst **int64
		var rest string
		switch {
		case strings.HasPrefix(tok, establishmentPrefix):
			dst, rest = &c.establishment, strings.TrimPrefix(tok, establishmentPrefix)
		case strings.HasPrefix(tok, roomPrefix):
			dst, rest = &c.room, strings.TrimPrefix(tok, roomPrefix)
		default:
			return cursor{}, false
		}
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 || *dst != nil {
			return cursor{}, false
		}
		*dst = &id
	}
	return c, !c.isZero()
}
