package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zerpitt/prompt-keeper-project/internal/prompt/service"
	"github.com/zerpitt/prompt-keeper-project/pkg/middleware"
)

// streamCatalog sends a "catalog" server-sent event with the derived view and
// another after every change until the client goes away.
func streamCatalog(c *gin.Context, svc *service.Service) {
	ctx := c.Request.Context()
	views, err := svc.Watch(ctx, middleware.UserID(c), criteriaFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-views:
			if !ok {
				return
			}
			c.SSEvent("catalog", v)
			c.Writer.Flush()
		}
	}
}
