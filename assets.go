package tracksite

import (
	"io/fs"

	"github.com/goliatone/go-tracksite/pkg/site"
)

// EmbeddedTemplates exposes the built-in site templates so callers can reuse
// or extend them without importing the site package directly.
func EmbeddedTemplates() fs.FS {
	return site.TemplatesFS()
}

// StaticAssetsFS exposes the stylesheet served under the theme
// asset prefix.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(tracksite.StaticAssetsFS()),
//	  ),
//	)
func StaticAssetsFS() fs.FS {
	return site.StaticFS()
}
