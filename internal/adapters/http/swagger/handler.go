// Package swagger serves the API reference: the OpenAPI document and a
// ReDoc page rendering it.
package swagger

import (
	"context"
	_ "embed"
	"fmt"
	"html"
	"net/http"

	"github.com/gorilla/mux"
)

// OpenAPI is the API description served at SpecPath.
//
//go:embed openapi.yaml
var OpenAPI []byte

// Routes and the ReDoc bundle the docs page loads.
const (
	DocsPath = "/api-docs"
	SpecPath = "/openapi.yaml"
	RedocURL = "https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"

	defaultTitle = "Podium API - ReDoc"
)

// Register attaches GET DocsPath and GET SpecPath to r. It panics on a nil
// router since that is a wiring bug.
func Register(_ context.Context, r *mux.Router) {
	if r == nil {
		panic("swagger: nil router")
	}
	page := []byte(docsPage(defaultTitle))

	r.HandleFunc(DocsPath, serve("text/html; charset=utf-8", page)).Methods(http.MethodGet)
	r.HandleFunc(SpecPath, serve("application/yaml; charset=utf-8", OpenAPI)).Methods(http.MethodGet)
}

func serve(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}
}

func docsPage(title string) string {
	return fmt.Sprintf(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>%s</title>
    <style>body{margin:0}</style>
  </head>
  <body>
    <redoc spec-url=%q></redoc>
    <script src=%q></script>
  </body>
</html>`, html.EscapeString(title), SpecPath, RedocURL)
}
