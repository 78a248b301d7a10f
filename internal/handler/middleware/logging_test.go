//go:build unit

package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/handler/httperr"
	"parking-reservation/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedRouter(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(slog.New(slog.NewJSONHandler(buf, nil))))
	r.GET("/ok/:id", func(c *gin.Context) {
		middleware.SetActor(c, uuid.MustParse(c.Param("id")), user.RoleOwner)
		c.Status(http.StatusOK)
	})
	r.GET("/busy", func(c *gin.Context) {
		httperr.AbortWithCode(c, http.StatusConflict, errors.New("lock wait timed out"), "Zone is busy", "LOCK_TIMEOUT")
	})
	return r
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestRequestLogger(t *testing.T) {
	t.Run("generates a request id and logs the actor", func(t *testing.T) {
		var buf bytes.Buffer
		router := newLoggedRouter(&buf)
		id := uuid.New()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok/"+id.String(), nil))

		requestID := rec.Header().Get(middleware.RequestIDHeader)
		_, err := uuid.Parse(requestID)
		require.NoError(t, err)

		entry := lastLine(t, &buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, requestID, entry["request_id"])
		assert.Equal(t, "/ok/:id", entry["path"])
		assert.Equal(t, id.String(), entry["user_id"])
		assert.Equal(t, "owner", entry["role"])
		assert.EqualValues(t, http.StatusOK, entry["status_code"])
	})

	t.Run("reuses the caller's request id and records the error code", func(t *testing.T) {
		var buf bytes.Buffer
		router := newLoggedRouter(&buf)

		req := httptest.NewRequest(http.MethodGet, "/busy", nil)
		req.Header.Set(middleware.RequestIDHeader, "upstream-42")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "upstream-42", rec.Header().Get(middleware.RequestIDHeader))
		entry := lastLine(t, &buf)
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "upstream-42", entry["request_id"])
		assert.Equal(t, "LOCK_TIMEOUT", entry["error_code"])
		assert.NotContains(t, entry, "user_id")
	})
}
