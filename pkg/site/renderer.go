package site

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-tracksite/pkg/render"
	"github.com/goliatone/go-tracksite/pkg/render/template"
	"github.com/goliatone/go-tracksite/pkg/render/template/pongo"
	"github.com/goliatone/go-tracksite/pkg/view"
)

// RendererName is the registry key of the HTML renderer.
const RendererName = "html"

// ErrUnknownSection reports a section path with no page behind it.
var ErrUnknownSection = errors.New("site: unknown section")

// Option configures a Renderer.
type Option func(*Renderer)

// WithEngine replaces the template engine. The engine must provide every
// template the theme references.
func WithEngine(engine template.Engine) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithTheme applies a resolved theme configuration.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(r *Renderer) {
		if cfg != nil {
			r.theme = cfg
		}
	}
}

// WithSiteName sets the brand used in the navbar and page titles.
func WithSiteName(name string) Option {
	return func(r *Renderer) {
		r.nav = NewNavbar(name, r.nav.Links...)
	}
}

// WithNavbar replaces the navbar.
func WithNavbar(nav Navbar) Option {
	return func(r *Renderer) {
		if len(nav.Links) > 0 {
			r.nav = nav
		}
	}
}

// WithSections replaces the marketing section pages.
func WithSections(sections []Section) Option {
	return func(r *Renderer) {
		r.sections = append([]Section(nil), sections...)
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer produces the site's HTML pages.
type Renderer struct {
	engine   template.Engine
	theme    *theme.RendererConfig
	nav      Navbar
	sections []Section
	logger   *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

type themeData struct {
	Name       string `json:"name,omitempty"`
	Variant    string `json:"variant,omitempty"`
	Style      string `json:"style,omitempty"`
	Stylesheet string `json:"stylesheet,omitempty"`
}

type pageData struct {
	Site       string     `json:"site"`
	Title      string     `json:"title,omitempty"`
	Nav        Navbar     `json:"nav"`
	Theme      themeData  `json:"theme"`
	HomePath   string     `json:"homePath"`
	TrackURL   string     `json:"trackUrl"`
	IDParam    string     `json:"idParam"`
	Refresh    int        `json:"refresh,omitempty"`
	RefreshURL string     `json:"refreshUrl,omitempty"`
	Page       *view.Page `json:"page,omitempty"`
	Section    *Section   `json:"section,omitempty"`
}

// NewRenderer builds the HTML renderer on the bundled templates and theme
// unless options say otherwise.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		nav:      NewNavbar(DefaultBrand),
		sections: DefaultSections(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.theme == nil {
		themes, err := NewThemes()
		if err != nil {
			return nil, err
		}
		sel, err := themes.Select("", "")
		if err != nil {
			return nil, err
		}
		r.theme = RendererConfig(sel)
	}
	if r.engine == nil {
		engine, err := pongo.New(pongo.WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("site: template engine: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string { return RendererName }

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Navbar returns the configured navbar.
func (r *Renderer) Navbar() Navbar { return r.nav }

// Render draws a tracking page in its current state.
func (r *Renderer) Render(ctx context.Context, page view.Page, opts render.Options) ([]byte, error) {
	key := TemplateTracker
	switch page.State {
	case view.StatePending:
		key = TemplateLoading
	case view.StateError:
		key = TemplateNotFound
	}

	data := r.baseData(opts, page.Title)
	data.Page = &page
	if page.State == view.StatePending {
		data.Refresh = opts.RefreshSeconds()
		data.RefreshURL = opts.RefreshURL
	}
	return r.execute(ctx, key, data)
}

// Home draws the landing page with the tracking form.
func (r *Renderer) Home(ctx context.Context, opts render.Options) ([]byte, error) {
	return r.execute(ctx, TemplateHome, r.baseData(opts, ""))
}

// Section draws the marketing page mounted at path.
func (r *Renderer) Section(ctx context.Context, path string, opts render.Options) ([]byte, error) {
	section, ok := findSection(r.sections, path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, path)
	}
	data := r.baseData(opts, section.Title)
	data.Section = &section
	return r.execute(ctx, TemplateSection, data)
}

func (r *Renderer) baseData(opts render.Options, title string) pageData {
	home := opts.HomePath
	if home == "" {
		home = r.nav.Home
	}
	idParam := opts.IDParam
	if idParam == "" {
		idParam = "trackingId"
	}
	data := pageData{
		Site:     r.nav.Brand,
		Title:    title,
		Nav:      r.nav.ActiveFor(opts.Path),
		HomePath: home,
		TrackURL: opts.TrackURL,
		IDParam:  idParam,
	}
	if r.theme != nil {
		data.Theme = themeData{
			Name:    r.theme.Theme,
			Variant: r.theme.Variant,
			Style:   CSSVarsStyle(r.theme.CSSVars),
		}
		if r.theme.AssetURL != nil {
			data.Theme.Stylesheet = r.theme.AssetURL(AssetStylesheet)
		}
	}
	return data
}

func (r *Renderer) execute(ctx context.Context, key string, data pageData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := defaultPartials()[key]
	if r.theme != nil {
		if override := r.theme.Partials[key]; override != "" {
			name = override
		}
	}
	out, err := r.engine.RenderTemplate(name, data)
	if err != nil {
		r.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
		return nil, fmt.Errorf("site: render %s: %w", key, err)
	}
	return []byte(out), nil
}
