package backup

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zerpitt/prompt-keeper-project/pkg/apperrors"
	"github.com/zerpitt/prompt-keeper-project/pkg/middleware"
)

// RegisterRoutes mounts the backup export and restore endpoints.
func RegisterRoutes(r gin.IRouter, m *Manager) {
	r.POST("/backups", func(c *gin.Context) {
		key, err := m.Export(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			m.log.Errorf("export: %v", err)
			respondError(c, apperrors.Persistence("BACKUP_FAILED", "export backup", err))
			return
		}
		resp := gin.H{"key": key}
		if u, err := m.DownloadURL(c.Request.Context(), key); err != nil {
			m.log.Warnf("presign %s: %v", key, err)
		} else if u != "" {
			resp["url"] = u
		}
		c.JSON(http.StatusCreated, resp)
	})

	r.POST("/backups/restore", func(c *gin.Context) {
		var req struct {
			Key string `json:"key"`
		}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, apperrors.Validation("BAD_REQUEST", err.Error()))
				return
			}
		}
		userID := middleware.UserID(c)
		key := req.Key
		if key == "" {
			latest, err := m.Latest(c.Request.Context(), userID)
			if err != nil {
				m.log.Errorf("find latest backup: %v", err)
				respondError(c, apperrors.Persistence("RESTORE_FAILED", "find latest backup", err))
				return
			}
			if latest == "" {
				respondError(c, apperrors.NotFound("BACKUP_NOT_FOUND", "No backup found"))
				return
			}
			key = latest
		} else if !strings.HasPrefix(key, Prefix(userID)) {
			respondError(c, apperrors.Forbidden("BACKUP_FORBIDDEN", "Backup belongs to another user"))
			return
		}
		res, err := m.Restore(c.Request.Context(), userID, key)
		if err != nil {
			m.log.Errorf("restore %s: %v", key, err)
			respondError(c, apperrors.Persistence("RESTORE_FAILED", "restore backup", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": key, "restored": res})
	})
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.UserMessage(err), "code": apperrors.Code(err)})
}
