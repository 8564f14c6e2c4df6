package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/storefront-admin/internal/admin"
)

const sessionKey = "admin_session"

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zap.L().Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetHeader("X-Request-Id")))
	}
}

// bearerSession resolves the Authorization header to an open session.
func bearerSession(c *gin.Context, cfg HandlerConfig) (*admin.Session, error) {
	h := c.GetHeader("Authorization")
	tok, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || tok == "" {
		return nil, admin.ErrInvalidToken
	}
	sid, err := cfg.Tokens.Parse(tok)
	if err != nil {
		return nil, err
	}
	sess, ok := cfg.Sessions.Get(sid)
	if !ok {
		return nil, admin.ErrInvalidToken
	}
	return sess, nil
}

// requireSession lets a request through only with a logged-in session.
func requireSession(cfg HandlerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := bearerSession(c, cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_session"})
			return
		}
		if sess.State() != admin.LoggedIn {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not_authenticated"})
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *admin.Session {
	return c.MustGet(sessionKey).(*admin.Session)
}

// statusFor maps admin and store errors to HTTP responses.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, admin.ErrNotAuthenticated):
		return http.StatusUnauthorized, "not_authenticated"
	case errors.Is(err, admin.ErrOrderNotLoaded):
		return http.StatusNotFound, "order_not_found"
	case errors.Is(err, admin.ErrStatusNotWritable):
		return http.StatusBadRequest, "status_not_writable"
	default:
		return http.StatusBadGateway, "store_unavailable"
	}
}

func writeError(c *gin.Context, err error) {
	code, name := statusFor(err)
	c.JSON(code, gin.H{"error": name, "detail": err.Error()})
}
