package tui

import (
	"github.com/charmbracelet/lipgloss"
	theme "github.com/goliatone/go-theme"
)

// Palette holds the colours of a tracking card.
type Palette struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Danger  lipgloss.Color
}

// DefaultPalette mirrors the bundled site theme.
func DefaultPalette() Palette {
	return Palette{
		Primary: lipgloss.Color("#4f46e5"),
		Muted:   lipgloss.Color("#64748b"),
		Warning: lipgloss.Color("#f59e0b"),
		Danger:  lipgloss.Color("#ef4444"),
	}
}

// PaletteFromTheme takes colours from the primary, muted, warning and danger
// tokens of a resolved theme, keeping defaults for missing tokens.
func PaletteFromTheme(cfg *theme.RendererConfig) Palette {
	p := DefaultPalette()
	if cfg == nil {
		return p
	}
	pick := func(dst *lipgloss.Color, token string) {
		if v := cfg.Tokens[token]; v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	pick(&p.Primary, "primary")
	pick(&p.Muted, "muted")
	pick(&p.Warning, "warning")
	pick(&p.Danger, "danger")
	return p
}

// Option configures the card renderer.
type Option func(*CardRenderer)

// WithPalette overrides the card colours.
func WithPalette(p Palette) Option {
	return func(r *CardRenderer) {
		r.palette = p
	}
}

// WithWidth sets the card width in cells.
func WithWidth(width int) Option {
	return func(r *CardRenderer) {
		if width > 0 {
			r.width = width
		}
	}
}
