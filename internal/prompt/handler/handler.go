package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zerpitt/prompt-keeper-project/internal/catalog"
	"github.com/zerpitt/prompt-keeper-project/internal/prompt"
	"github.com/zerpitt/prompt-keeper-project/internal/prompt/service"
	"github.com/zerpitt/prompt-keeper-project/internal/template"
	"github.com/zerpitt/prompt-keeper-project/pkg/apperrors"
	"github.com/zerpitt/prompt-keeper-project/pkg/middleware"
)

// RegisterPromptRoutes mounts the prompt, category and tag API on r. Requests
// must already carry an owning user (see middleware.AuthMiddleware / DevUser).
func RegisterPromptRoutes(r gin.IRouter, svc *service.Service) {
	r.GET("/prompts", func(c *gin.Context) {
		view, err := svc.Catalog(c.Request.Context(), middleware.UserID(c), criteriaFromQuery(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	})

	r.GET("/prompts/stream", func(c *gin.Context) {
		streamCatalog(c, svc)
	})

	r.POST("/prompts", func(c *gin.Context) {
		var f prompt.Form
		if err := c.ShouldBindJSON(&f); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
			return
		}
		p, err := svc.Save(c.Request.Context(), middleware.UserID(c), "", f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	})

	r.GET("/prompts/:id", func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	r.GET("/prompts/:id/edit", func(c *gin.Context) {
		f, err := svc.EditForm(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, f)
	})

	r.PUT("/prompts/:id", func(c *gin.Context) {
		var f prompt.Form
		if err := c.ShouldBindJSON(&f); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
			return
		}
		p, err := svc.Save(c.Request.Context(), middleware.UserID(c), c.Param("id"), f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	r.DELETE("/prompts/:id", func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.POST("/prompts/:id/favorite", func(c *gin.Context) {
		fav, err := svc.ToggleFavorite(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "isFavorite": fav})
	})

	r.POST("/prompts/:id/render", func(c *gin.Context) {
		var req struct {
			Values map[string]string `json:"values"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
			return
		}
		run, err := svc.Render(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Values)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, run)
	})

	r.GET("/prompts/:id/history", func(c *gin.Context) {
		h, err := svc.History(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, h)
	})

	r.POST("/prompts/:id/history/:version/restore", func(c *gin.Context) {
		version, err := strconv.Atoi(c.Param("version"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "version must be a number", "code": "BAD_REQUEST"})
			return
		}
		f, err := svc.RestoreVersion(c.Request.Context(), middleware.UserID(c), c.Param("id"), version)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, f)
	})

	r.GET("/categories", func(c *gin.Context) {
		cats, err := svc.ListCategories(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cats)
	})

	r.POST("/categories", func(c *gin.Context) {
		var req struct {
			Name string `json:"name"`
			Icon string `json:"icon"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
			return
		}
		cat, err := svc.CreateCategory(c.Request.Context(), middleware.UserID(c), req.Name, req.Icon)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, cat)
	})

	r.DELETE("/categories/:id", func(c *gin.Context) {
		moved, err := svc.DeleteCategory(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "reassigned": moved})
	})

	r.GET("/tags", func(c *gin.Context) {
		tags, err := svc.TagSuggestions(c.Request.Context(), middleware.UserID(c), c.Query("q"), prompt.ParseTags(c.Query("current")))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tags)
	})

	r.POST("/placeholder", func(c *gin.Context) {
		var req struct {
			Text  string `json:"text"`
			Start int    `json:"start"`
			End   int    `json:"end"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
			return
		}
		c.JSON(http.StatusOK, template.InsertPlaceholder(req.Text, req.Start, req.End))
	})
}

func criteriaFromQuery(c *gin.Context) catalog.Criteria {
	cr := catalog.DefaultCriteria()
	cr.SearchTerm = c.Query("search")
	if v := c.Query("category"); v != "" {
		cr.ActiveCategory = v
	}
	cr.FavoritesOnly, _ = strconv.ParseBool(c.Query("favorites"))
	cr.SelectedTag = c.Query("tag")
	cr.SortBy = catalog.ParseSortKey(c.Query("sort"))
	cr.SortOrder = catalog.ParseSortOrder(c.Query("order"))
	return cr
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.UserMessage(err), "code": apperrors.Code(err)})
}
