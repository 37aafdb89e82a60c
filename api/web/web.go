// Package web embeds the console page template and its stylesheet.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

const PageTemplate = "console.html"

//go:embed templates/*.html static/*
var content embed.FS

// Templates parses the page templates with funcs available to them.
func Templates(funcs template.FuncMap) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(content, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return tmpl, nil
}

// Static serves the files under static/.
func Static() http.FileSystem {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		// static/ is embedded at build time; Sub only fails on a bad path.
		panic(err)
	}
	return http.FS(sub)
}
