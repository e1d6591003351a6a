package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edulink-mx/classroom-api/internal/middleware"
	"github.com/edulink-mx/classroom-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorID returns the authenticated actor's id, or 0 when no valid claims
// are attached.
func actorID(c *gin.Context) int64 {
	claims := claimsFromContext(c)
	if claims == nil {
		return 0
	}
	return claims.UserID
}

func paramInt64(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
