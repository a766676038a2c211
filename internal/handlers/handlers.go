package handlers

import (
	"net/http"
	"strconv"
	"strings"

	apperrors "futspot/internal/errors"
	"futspot/internal/logger"
	"futspot/internal/middleware"
	"futspot/internal/service"

	"github.com/gin-gonic/gin"
)

const msgInvalidID = "Identificador inválido."

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// respondError пишет единый формат ошибки {"error": {"code", "message"}}
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).Error("Request failed",
			"error", err, "method", c.Request.Method, "path", c.FullPath())
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    apperrors.KindOf(err),
			"message": apperrors.PublicMessage(err),
		},
	})
}

// bindJSON декодирует тело запроса, ошибки превращаются в 400
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperrors.Validation("Dados inválidos: "+err.Error()))
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apperrors.Validation(msgInvalidID))
		return 0, false
	}
	return id, true
}

func principal(c *gin.Context) middleware.Principal {
	p, _ := middleware.PrincipalFromContext(c.Request.Context())
	return p
}

// splitCSV разбивает "a, b,c" на непустые элементы
func splitCSV(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
