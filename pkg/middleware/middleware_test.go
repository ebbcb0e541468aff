package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"assettracker/pkg/logging"
	"assettracker/pkg/response"
)

func setupRouter(log logrus.FieldLogger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logging(log), Recovery(log))
	r.NoRoute(NoRoute)
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString(logging.RequestIDKey)})
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	log, _ := test.NewNullLogger()
	r := setupRouter(log)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	require.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)
	require.JSONEq(t, `{"request_id":"`+id+`"}`, w.Body.String())
}

func TestRequestID_ReusesCallerHeader(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := setupRouter(log)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	entry := hook.LastEntry()
	require.Equal(t, "abc-123", entry.Data[logging.RequestIDKey])
	require.Equal(t, logrus.InfoLevel, entry.Level)
	require.Equal(t, http.StatusOK, entry.Data["status"])
}

func TestRecovery_ReturnsInternalError(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := setupRouter(log)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var apiErr response.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	require.Equal(t, "GEN-001", apiErr.Code)
	require.NotContains(t, w.Body.String(), "boom")

	var sawPanic bool
	for _, e := range hook.AllEntries() {
		if e.Message == "panic recovered" {
			sawPanic = true
		}
	}
	require.True(t, sawPanic)
	require.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestNoRoute_ReturnsStructuredNotFound(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := setupRouter(log)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	var apiErr response.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	require.Equal(t, "GEN-003", apiErr.Code)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.NotNil(t, apiErr.Details)
	require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}, false))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ok", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}
