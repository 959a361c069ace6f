// Package web embeds the static assets for the browser client.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFiles embed.FS

// StaticFS returns the embedded static assets rooted at static/.
func StaticFS() http.FileSystem {
	fsys, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(fsys)
}

// GetFile reads a single embedded asset by name.
func GetFile(name string) ([]byte, error) {
	return staticFiles.ReadFile("static/" + name)
}
