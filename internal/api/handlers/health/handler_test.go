package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramses120/Copper-Salon-sub000/pkg/logger"
)

func TestHandler(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	rec := httptest.NewRecorder()
	NewHandler(map[string]Check{"postgres": up}, logger.Nop()).
		Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"postgres":"up"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewHandler(map[string]Check{"postgres": up, "redis": down}, logger.Nop()).
		Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"postgres":"up","redis":"down"}}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
