package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the help desk API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>helpdesk - Swagger</title>
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
  "info": { "title": "helpdesk", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "HelpRequest": {
        "type": "object",
        "properties": {
          "id": {"type":"string"}, "@id": {"type":"string"}, "@type": {"type":"string"},
          "from": {"type":"string"}, "title": {"type":"string"}, "description": {"type":"string"},
          "time": {"type":"string"}, "priority": {"type":"integer","description":"0 closed, 1 low, 2 normal, 3 high"},
          "comments": {"type":"array","items":{"type":"string"}}
        }
      }
    }
  },
  "paths": {
    "/requests": {
      "get": {
        "summary": "List help requests (HTML or JSON by Accept)",
        "parameters": [
          {"name":"query","in":"query","schema":{"type":"string"}},
          {"name":"sort_by","in":"query","schema":{"type":"string","enum":["time","priority"]}}
        ],
        "responses": { "200": { "description": "filtered, sorted list", "content": {"application/json": {"schema": {"type":"array","items":{"$ref":"#/components/schemas/HelpRequest"}}}} }, "400": { "description": "unknown sort key" } }
      },
      "post": {
        "summary": "Create a help request",
        "requestBody": { "content": { "application/x-www-form-urlencoded": { "schema": {"type":"object","required":["from","title","description"],"properties":{"from":{"type":"string"},"title":{"type":"string"},"description":{"type":"string"}}}}, "application/json": { "schema": {"type":"object","properties":{"from":{"type":"string"},"title":{"type":"string"},"description":{"type":"string"}}}}}},
        "responses": { "201": { "description": "created; full list returned" }, "400": { "description": "missing field" }, "401": { "description": "write guard rejected the request" } }
      }
    },
    "/requests.json": {
      "get": { "summary": "Full dataset document with @context", "responses": { "200": { "description": "dataset" } } }
    },
    "/request/{id}": {
      "get": {
        "summary": "Get one help request",
        "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}],
        "responses": { "200": { "description": "record" }, "404": { "description": "not found" } }
      },
      "patch": {
        "summary": "Set priority and optionally append a comment",
        "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}],
        "requestBody": { "content": { "application/x-www-form-urlencoded": { "schema": {"type":"object","properties":{"priority":{"type":"integer"},"comment":{"type":"string"}}}}}},
        "responses": { "200": { "description": "updated record" }, "400": { "description": "malformed priority" }, "401": { "description": "write guard rejected the request" }, "404": { "description": "not found" } }
      }
    },
    "/request/{id}.json": {
      "get": { "summary": "One help request with @context", "responses": { "200": { "description": "record" }, "404": { "description": "not found" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
