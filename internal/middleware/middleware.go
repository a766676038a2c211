package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"futspot/internal/auth"
	apperrors "futspot/internal/errors"
	"futspot/internal/logger"
	"futspot/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Ctx key and helpers for the authenticated principal
// Using unexported type to avoid collisions

type ctxKey string

const principalKey ctxKey = "principal"

const requestIDHeader = "X-Request-ID"

// Principal is the identity extracted from the bearer token.
type Principal struct {
	UserID int64
	Role   string
	Email  string
}

func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = logger.ContextWithUserID(ctx, p.UserID)
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	p, ok := PrincipalFromContext(ctx)
	return p.UserID, ok
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{
		"error": gin.H{
			"code":    apperrors.KindOf(err),
			"message": apperrors.PublicMessage(err),
		},
	})
}

// RequestID присваивает каждому запросу идентификатор
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = logger.NewRequestID()
		}
		c.Header(requestIDHeader, id)
		c.Set("request_id", id)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// CORS middleware для обработки CORS запросов
func CORS(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Logger middleware для структурированного логирования запросов
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		log := logger.WithContext(c.Request.Context())
		switch {
		case c.Writer.Status() >= 500:
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			log.Error("Request completed with error", logFields...)
		case c.Writer.Status() >= 400:
			log.Warn("Request rejected", logFields...)
		default:
			log.Debug("Request completed", logFields...)
		}
	}
}

// Recovery middleware для восстановления после паники с детальным логированием
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"client_ip", c.ClientIP(),
			"request_id", logger.RequestIDFromContext(c.Request.Context()),
		)

		if !c.Writer.Written() {
			abortWithError(c, apperrors.Internal(nil))
			return
		}
		c.Abort()
	})
}

// Metrics записывает счетчики и латентность по шаблону маршрута
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// JWTAuth проверяет Bearer токен и кладет Principal в контекст
func JWTAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			abortWithError(c, apperrors.Unauthorized("Token de acesso ausente."))
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			abortWithError(c, apperrors.Unauthorized("Token inválido ou expirado."))
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			abortWithError(c, apperrors.Unauthorized("Token inválido ou expirado."))
			return
		}

		p := Principal{UserID: userID, Role: claims.Role, Email: claims.Email}
		c.Set("user_id", userID)
		c.Set("role", claims.Role)
		c.Request = c.Request.WithContext(ContextWithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequireRole пропускает только пользователей с одной из ролей
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		p, _ := PrincipalFromContext(c.Request.Context())
		if _, ok := allowed[p.Role]; !ok {
			abortWithError(c, apperrors.Forbidden("Acesso não permitido para este tipo de usuário."))
			return
		}
		c.Next()
	}
}
