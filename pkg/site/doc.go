// Package site renders the HTML surface of the tracking site: the navbar,
// the home page with its tracking form, the marketing section pages and the
// three tracking page states.
//
// Templates are pongo2 files embedded under templates/. A go-theme manifest
// supplies design tokens, exposed to the layout as CSS custom properties,
// and may swap page templates through its template map.
package site
