package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer

	r := gin.New()
	r.Use(ErrorHandler(testLogger(&logs)))
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(errors.New("insert users: constraint failed"))
		c.Abort()
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "constraint")
	assert.Contains(t, logs.String(), "constraint failed")
}

func TestErrorHandlerKeepsWrittenResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer

	r := gin.New()
	r.Use(ErrorHandler(testLogger(&logs)))
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(errors.New("bad id"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"invalid id"}`, rr.Body.String())
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer

	r := gin.New()
	r.Use(Recovery(testLogger(&logs)))
	r.GET("/", func(c *gin.Context) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, logs.String(), "boom")
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer

	r := gin.New()
	r.Use(RequestLogger(testLogger(&logs)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Contains(t, logs.String(), "path=/health")
	assert.Contains(t, logs.String(), "status=204")
}
