package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/untibullet/ideaflow/internal/config"
	"go.uber.org/zap"
)

func TestNewEcho_BodyLimit(t *testing.T) {
	e := newEcho(config.StorageConfig{MaxUploadMB: 1}, zap.NewNop())
	e.POST("/echo", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	small := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("ok"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, small)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	large := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 2<<20)))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, large)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestNewEcho_RecoversPanics(t *testing.T) {
	e := newEcho(config.StorageConfig{MaxUploadMB: 1}, zap.NewNop())
	e.GET("/panic", func(c echo.Context) error { panic("boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNewEcho_BodyLimitUsesConfiguredBytes(t *testing.T) {
	storage := config.StorageConfig{MaxUploadMB: 1}
	e := newEcho(storage, zap.NewNop())
	e.POST("/echo", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	limit := int(storage.MaxUploadBytes())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", limit))))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", limit+1))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
