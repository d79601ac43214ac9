package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/skit-dev/sodeca-api/internal/middleware"
	"github.com/skit-dev/sodeca-api/internal/models"
)

func sessionFromContext(c *gin.Context) *models.Session {
	value, exists := c.Get(middleware.ContextSessionKey)
	if !exists {
		return nil
	}
	session, ok := value.(*models.Session)
	if !ok {
		return nil
	}
	return session
}
