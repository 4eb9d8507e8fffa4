package site

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName names the bundled theme.
const DefaultThemeName = "dlogis"

// Template keys a theme manifest may override.
const (
	TemplateHome     = "page.home"
	TemplateSection  = "page.section"
	TemplateTracker  = "page.tracker"
	TemplateLoading  = "page.loading"
	TemplateNotFound = "page.notfound"
)

// AssetStylesheet is the asset key of the site stylesheet.
const AssetStylesheet = "stylesheet"

func defaultPartials() map[string]string {
	return map[string]string{
		TemplateHome:     "home",
		TemplateSection:  "section",
		TemplateTracker:  "tracker",
		TemplateLoading:  "loading",
		TemplateNotFound: "notfound",
	}
}

// DefaultManifest describes the bundled theme and its dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"primary":    "#4f46e5",
			"ink":        "#0f172a",
			"muted":      "#64748b",
			"surface":    "#f1f5f9",
			"card":       "#ffffff",
			"danger":     "#ef4444",
			"warning-bg": "#fffbeb",
			"warning":    "#92400e",
		},
		Templates: defaultPartials(),
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				AssetStylesheet: "site.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"ink":     "#e2e8f0",
					"muted":   "#94a3b8",
					"surface": "#0f172a",
					"card":    "#1e293b",
				},
			},
		},
	}
}

// Themes selects registered manifests by name and variant.
type Themes struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes registers manifests; the first one is the fallback for empty
// theme names. Without manifests the bundled theme is used.
func NewThemes(manifests ...*theme.Manifest) (*Themes, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}
	t := &Themes{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		if err := t.Register(manifest); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Register adds a manifest. Names must be unique.
func (t *Themes) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("site: theme manifest requires a name")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.manifests[manifest.Name]; exists {
		return fmt.Errorf("site: theme %q already registered", manifest.Name)
	}
	t.manifests[manifest.Name] = manifest
	if t.fallback == "" {
		t.fallback = manifest.Name
	}
	return nil
}

// Select resolves a theme and variant. An empty name picks the fallback
// theme; an unknown variant is an error.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = t.fallback
	}
	manifest, ok := t.manifests[name]
	if !ok {
		return nil, fmt.Errorf("site: theme %q not found", name)
	}
	variant = strings.TrimSpace(variant)
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("site: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig flattens a selection into tokens, CSS variables, template
// partials and an asset resolver. Variant values override the base manifest;
// partials the theme leaves out fall back to the bundled templates.
func RendererConfig(sel *theme.Selection) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Partials: defaultPartials(),
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	if sel == nil || sel.Manifest == nil {
		cfg.AssetURL = func(string) string { return "" }
		return cfg
	}
	cfg.Theme = sel.Theme
	cfg.Variant = sel.Variant

	manifest := sel.Manifest
	prefix := manifest.Assets.Prefix
	files := map[string]string{}
	mergeStrings(cfg.Tokens, manifest.Tokens)
	mergeStrings(cfg.Partials, manifest.Templates)
	mergeStrings(files, manifest.Assets.Files)

	if v, ok := manifest.Variants[sel.Variant]; ok {
		mergeStrings(cfg.Tokens, v.Tokens)
		mergeStrings(cfg.Partials, v.Templates)
		mergeStrings(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
			return file
		}
		if prefix == "" {
			return "/" + file
		}
		return path.Join(prefix, file)
	}
	return cfg
}

// CSSVarsStyle renders CSS variables as an inline style declaration list
// sorted by name.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s: %s;", key, vars[key])
	}
	return b.String()
}

func mergeStrings(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}
