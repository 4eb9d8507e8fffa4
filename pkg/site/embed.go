package site

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var templateFiles embed.FS

//go:embed static/*
var staticFiles embed.FS

// TemplatesFS returns the bundled pongo2 templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// StaticFS returns the bundled static assets served under the theme asset
// prefix.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
