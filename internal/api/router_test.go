package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(tokens *auth.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(Config{Logger: zap.NewNop(), GatewayTokens: tokens})
}

func TestRouter(t *testing.T) {
	t.Run("HealthAndRequestID", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := newTestRouter(nil)
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("KeepsIncomingRequestID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		newTestRouter(nil).ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("UserRoutesNeedHeader", func(t *testing.T) {
		w := httptest.NewRecorder()
		newTestRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GatewayTokenEnforced", func(t *testing.T) {
		tokens := auth.NewJWTManager("secret", time.Minute)
		r := newTestRouter(tokens)

		req := httptest.NewRequest(http.MethodGet, "/users/abc", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		token, err := tokens.GenerateForwardToken("", "rid")
		require.NoError(t, err)
		req = httptest.NewRequest(http.MethodGet, "/users/abc", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("RecoveryReturns500", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(RequestID(), Logger(zap.NewNop()), Recovery(zap.NewNop()))
		r.GET("/boom", func(*gin.Context) { panic("boom") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	})
}
