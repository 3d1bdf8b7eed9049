package api

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed web
var webAssets embed.FS

// UIHandler serves the embedded single-page client.
func UIHandler() http.Handler {
	sub, err := fs.Sub(webAssets, "web")
	if err != nil {
		panic(err) // embed layout is fixed at build time
	}
	return http.FileServer(http.FS(sub))
}
