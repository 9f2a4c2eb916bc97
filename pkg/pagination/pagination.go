package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size applied when the caller sends none.
	DefaultLimit = 25
	// MaxLimit caps how many rows a single cursor query may request.
	MaxLimit = 100
)

// ErrMalformedCursor is returned when a cursor string cannot be decoded.
// Callers map it to a validation error rather than a server fault.
var ErrMalformedCursor = errors.New("malformed pagination cursor")

// Params carries cursor pagination inputs from the HTTP layer into repos.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is the (created_at, id) keyset position lists resume from. The id
// breaks ties between rows created in the same nanosecond.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps limit into [1, MaxLimit], defaulting when unset.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer returns the clamped limit plus one sentinel row so repos
// can tell whether another page exists without a COUNT query.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor serializes a keyset position into an opaque URL-safe token.
func EncodeCursor(cursor Cursor) string {
	raw := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + cursor.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseCursor decodes a token produced by EncodeCursor. A blank token means
// "first page" and yields (nil, nil). Tokens minted by older builds used
// standard base64, so both alphabets are accepted.
func ParseCursor(value string) (*Cursor, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		if decoded, err = base64.StdEncoding.DecodeString(value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCursor, err)
		}
	}

	stamp, id, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return nil, ErrMalformedCursor
	}

	createdAt, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timestamp", ErrMalformedCursor)
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: bad id", ErrMalformedCursor)
	}

	return &Cursor{CreatedAt: createdAt, ID: parsedID}, nil
}
