package queries

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/readmodel"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 200
	CursorVersionV1  = "v1"
)

var ErrInvalidCursor = errs.New("invalid cursor")

// Uses microsecond precision to align with PostgreSQL timestamp precision
func EncodeAfterCursor(k readmodel.Keyset) string {
	cursorData := CursorVersionV1 + ":" + strconv.FormatInt(k.CreatedAt.UnixMicro(), 10) + "-" + k.ID.String()
	return base64.URLEncoding.EncodeToString([]byte(cursorData))
}

// DecodeAfterCursor returns nil for an empty cursor, meaning the first page.
func DecodeAfterCursor(cursor string) (*readmodel.Keyset, error) {
	if cursor == "" {
		return nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCursor)
	}
	payload, ok := strings.CutPrefix(string(decoded), CursorVersionV1+":")
	if !ok {
		return nil, errs.Wrap(ErrInvalidCursor, "unsupported cursor version")
	}

	micros, id, ok := strings.Cut(payload, "-")
	if !ok {
		return nil, errs.Wrap(ErrInvalidCursor, "expected '<micros>-<uuid>'")
	}
	ts, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "invalid timestamp"), ErrInvalidCursor)
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "invalid UUID"), ErrInvalidCursor)
	}

	return &readmodel.Keyset{CreatedAt: time.UnixMicro(ts), ID: parsedID}, nil
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

type Cursor struct {
	After string `json:"after,omitempty"`
}
