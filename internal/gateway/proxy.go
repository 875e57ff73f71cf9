package gateway

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit-backend/internal/api"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
)

// Forwarder reverse-proxies validated requests to the server.
type Forwarder struct {
	proxy  *httputil.ReverseProxy
	tokens *auth.JWTManager
	logger *zap.Logger
}

// NewForwarder builds a Forwarder for serverURL. tokens may be nil, in which case
// requests are forwarded without a gateway token.
func NewForwarder(serverURL string, tokens *auth.JWTManager, logger *zap.Logger) (*Forwarder, error) {
	target, err := url.Parse(serverURL)
	if err != nil {
		return nil, err
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("forward failed",
			zap.String("request_id", r.Header.Get(api.RequestIDHeader)),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream unavailable"}`))
	}

	return &Forwarder{proxy: proxy, tokens: tokens, logger: logger}, nil
}

// Forward is the terminal handler of every gateway route.
func (f *Forwarder) Forward(c *gin.Context) {
	// A validated JSON body was already drained into the context.
	if raw, ok := c.Get(gin.BodyBytesKey); ok {
		if body, ok := raw.([]byte); ok {
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			c.Request.ContentLength = int64(len(body))
		}
	}

	// Carry the id this hop logged and returned.
	requestID := api.GetRequestID(c)
	if requestID == "" {
		requestID = c.GetHeader(api.RequestIDHeader)
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Request.Header.Set(api.RequestIDHeader, requestID)

	if f.tokens != nil {
		subject := strings.TrimSpace(c.GetHeader(auth.UserIDHeader))
		token, err := f.tokens.GenerateForwardToken(subject, requestID)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.Request.Header.Set("Authorization", "Bearer "+token)
	}

	f.proxy.ServeHTTP(c.Writer, c.Request)
}
