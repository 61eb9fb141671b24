package server

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tajirhq/tajir/internal/auth/password"
	"github.com/tajirhq/tajir/internal/orgcontext"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags every request with an ID for log correlation.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func RequestLogMiddleware(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.Last().Error()))
			log.Warn("request failed", fields...)
			return
		}
		log.Info("request", fields...)
	}
}

// APIKeyAuth authenticates calculator traffic. When API key auth is not
// required, anonymous requests pass through in the global org scope but
// a presented key is still verified so its custom rates apply.
func (s *Server) APIKeyAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			if s.cfg.APIKeyAuthRequired {
				AbortWithError(c, ErrUnauthorized)
				return
			}
			c.Next()
			return
		}

		identity, err := s.apiKeySvc.Verify(c.Request.Context(), raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := orgcontext.WithOrgID(c.Request.Context(), identity.OrgID)
		c.Request = c.Request.WithContext(ctx)
		c.Set("api_key_id", identity.KeyID)
		c.Next()
	}
}

// AdminRequired guards the admin surface with basic auth. An install
// without admin credentials has no admin surface.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.AdminUser == "" || s.cfg.AdminPasswordHash == "" {
			AbortWithError(c, ErrServiceUnavailable)
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="tajir admin"`)
			AbortWithError(c, ErrUnauthorized)
			return
		}

		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(s.cfg.AdminUser)) == 1
		if !userMatch || !password.Verify(pass, s.cfg.AdminPasswordHash) {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// AdminOrgScope lets the admin console act within a specific org via
// the X-Org-ID header. Absent means the global defaults scope.
func (s *Server) AdminOrgScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("X-Org-ID"))
		if raw == "" {
			c.Next()
			return
		}
		orgID, err := parseOptionalSnowflakeID(raw)
		if err != nil || orgID == nil {
			AbortWithError(c, newValidationError("org_id", "invalid_org_id", "invalid org id"))
			return
		}
		ctx := orgcontext.WithOrgID(c.Request.Context(), *orgID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CalcRateLimit throttles calculator invocations per API key, falling
// back to the client IP for anonymous traffic.
func (s *Server) CalcRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.calcLimiter.Enabled() {
			c.Next()
			return
		}

		clientKey := c.GetString("api_key_id")
		if clientKey == "" {
			clientKey = c.ClientIP()
		}

		allowed, err := s.calcLimiter.Allow(c.Request.Context(), clientKey)
		if err != nil {
			// Redis being down must not take the calculators with it.
			s.log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			s.metrics.RecordRateLimitDenied(c.Request.Context(), c.FullPath())
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
