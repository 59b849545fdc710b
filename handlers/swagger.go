package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves the API description.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>promptkeeper API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "promptkeeper", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "Block": { "type": "object", "properties": { "id": {"type":"string"}, "title": {"type":"string"}, "content": {"type":"string"} } },
      "Form": { "type": "object", "properties": {
        "title": {"type":"string"}, "category": {"type":"string"},
        "tags": {"type":"array","items":{"type":"string"}},
        "guideText": {"type":"string"}, "image": {"type":"string"},
        "workflow": {"type":"array","items":{"$ref":"#/components/schemas/Block"}}
      } },
      "Error": { "type": "object", "properties": { "error": {"type":"string"}, "code": {"type":"string"} } }
    }
  },
  "paths": {
    "/api/prompts": {
      "get": {
        "summary": "Filtered and sorted catalog",
        "parameters": [
          {"name":"search","in":"query","schema":{"type":"string"}},
          {"name":"category","in":"query","schema":{"type":"string"}},
          {"name":"favorites","in":"query","schema":{"type":"boolean"}},
          {"name":"tag","in":"query","schema":{"type":"string"}},
          {"name":"sort","in":"query","schema":{"type":"string","enum":["createdAt","updatedAt"]}},
          {"name":"order","in":"query","schema":{"type":"string","enum":["asc","desc"]}}
        ],
        "responses": { "200": { "description": "catalog view" } }
      },
      "post": {
        "summary": "Create a prompt",
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Form"} } } },
        "responses": { "201": { "description": "created" }, "400": { "description": "validation error" } }
      }
    },
    "/api/prompts/stream": { "get": { "summary": "Live catalog as server-sent events", "responses": { "200": { "description": "text/event-stream of catalog events" } } } },
    "/api/prompts/{id}": {
      "get": { "summary": "Get a prompt", "responses": { "200": { "description": "prompt" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update a prompt and snapshot the previous state", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Form"} } } }, "responses": { "200": { "description": "updated" }, "400": { "description": "validation error" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a prompt", "responses": { "204": { "description": "deleted" } } }
    },
    "/api/prompts/{id}/edit": { "get": { "summary": "Editor form with legacy content migrated", "responses": { "200": { "description": "form" } } } },
    "/api/prompts/{id}/favorite": { "post": { "summary": "Toggle favourite", "responses": { "200": { "description": "new flag" } } } },
    "/api/prompts/{id}/render": { "post": { "summary": "Fill variables into every block", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"values":{"type":"object","additionalProperties":{"type":"string"}}}} } } }, "responses": { "200": { "description": "rendered blocks" } } } },
    "/api/prompts/{id}/history": { "get": { "summary": "Version history, oldest first", "responses": { "200": { "description": "versions" } } } },
    "/api/prompts/{id}/history/{version}/restore": { "post": { "summary": "Load a version into the editor form without saving", "responses": { "200": { "description": "form" }, "404": { "description": "no such version" } } } },
    "/api/categories": {
      "get": { "summary": "Built-in and user categories", "responses": { "200": { "description": "categories" } } },
      "post": { "summary": "Create a category", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"},"icon":{"type":"string"}}} } } }, "responses": { "201": { "description": "created" } } }
    },
    "/api/categories/{id}": { "delete": { "summary": "Delete a user category, moving its prompts to other", "responses": { "200": { "description": "deleted" }, "403": { "description": "built-in category" } } } },
    "/api/tags": { "get": { "summary": "Tag suggestions", "parameters": [ {"name":"q","in":"query","schema":{"type":"string"}}, {"name":"current","in":"query","schema":{"type":"string"}} ], "responses": { "200": { "description": "tags" } } } },
    "/api/placeholder": { "post": { "summary": "Insert an empty placeholder at a selection", "responses": { "200": { "description": "text and cursor" } } } },
    "/api/backups": { "post": { "summary": "Export the collection to object storage", "responses": { "201": { "description": "object key and, when the store can presign, a temporary download url" } } } },
    "/api/backups/restore": { "post": { "summary": "Import a collection archive", "responses": { "200": { "description": "restored counts" } } } },
    "/api/v1/me": { "get": { "summary": "Current owner profile", "responses": { "200": { "description": "profile" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
