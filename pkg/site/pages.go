package site

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-tracksite/pkg/render"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// PagesHandler serves the home page at "/" and every section page at its
// slug. Other paths get a 404 page inside the site chrome.
func PagesHandler(r *Renderer, opts render.Options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		reqOpts := opts
		reqOpts.Path = req.URL.Path

		var (
			body []byte
			err  error
			code = http.StatusOK
		)
		switch {
		case samePath(req.URL.Path, r.nav.Home):
			body, err = r.Home(req.Context(), reqOpts)
		default:
			if _, ok := findSection(r.sections, req.URL.Path); ok {
				body, err = r.Section(req.Context(), req.URL.Path, reqOpts)
				break
			}
			code = http.StatusNotFound
			data := r.baseData(reqOpts, "Page Not Found")
			data.Section = &Section{Title: "Page Not Found", Summary: "The page you are looking for does not exist."}
			body, err = r.execute(req.Context(), TemplateSection, data)
		}
		if err != nil {
			r.logger.Error("page render failed", zap.String("path", req.URL.Path), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", r.ContentType())
		w.WriteHeader(code)
		if req.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(body)
	})
}

// RegisterRoutes mounts the pages handler on "/" and the static assets under
// the theme asset prefix.
func RegisterRoutes(mux Mux, r *Renderer, opts render.Options, assetPrefix string) {
	mux.Handle("/", PagesHandler(r, opts))
	if assetPrefix == "" {
		return
	}
	prefix := "/" + strings.Trim(assetPrefix, "/") + "/"
	mux.Handle(prefix, http.StripPrefix(prefix, http.FileServer(http.FS(StaticFS()))))
}
