package users

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zerpitt/prompt-keeper-project/pkg/logger"
)

// RegisterRoutes mounts GET /me, which records the caller's profile from the
// token claims set by the auth middleware.
func RegisterRoutes(r gin.IRouter, svc *Service) {
	log := logger.With("users")
	r.GET("/me", func(c *gin.Context) {
		v, ok := c.Get("claims")
		claims, _ := v.(map[string]interface{})
		if !ok || claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}
		p, err := svc.UpsertFromClaims(c.Request.Context(), claims)
		if err != nil {
			log.Errorf("upsert profile: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
			return
		}
		if p == nil {
			c.JSON(http.StatusOK, gin.H{"claims": claims})
			return
		}
		c.JSON(http.StatusOK, p)
	})
}
