package handlers

import (
	"net/http"

	"github.com/geocoder89/userhub/api"
	"github.com/gin-gonic/gin"
)

const (
	swaggerAssets = "https://unpkg.com/swagger-ui-dist@5"
	specPath      = "/docs/openapi.yaml"
)

var swaggerPage = []byte(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>userhub API</title>
  <link rel="stylesheet" href="` + swaggerAssets + `/swagger-ui.css">
</head>
<body>
  <div id="docs"></div>
  <script src="` + swaggerAssets + `/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({ url: "` + specPath + `", dom_id: "#docs", tryItOutEnabled: true });
  </script>
</body>
</html>`)

// SwaggerUI serves a page that renders the embedded document from the CDN bundle.
func SwaggerUI(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", swaggerPage)
}

func OpenAPISpec(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "application/yaml", api.Spec)
}
