package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-tracksite/pkg/render"
	"github.com/goliatone/go-tracksite/pkg/view"
)

// CardName is the registry key of the terminal renderer.
const CardName = "text"

// CardRenderer draws tracking pages for terminals.
type CardRenderer struct {
	palette Palette
	width   int
}

var _ render.Renderer = (*CardRenderer)(nil)

// NewCardRenderer builds a card renderer with the default palette.
func NewCardRenderer(opts ...Option) *CardRenderer {
	r := &CardRenderer{palette: DefaultPalette(), width: 64}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Name implements render.Renderer.
func (r *CardRenderer) Name() string { return CardName }

// ContentType implements render.Renderer.
func (r *CardRenderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render implements render.Renderer.
func (r *CardRenderer) Render(ctx context.Context, page view.Page, opts render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var body string
	switch page.State {
	case view.StateSuccess:
		body = r.success(page)
	case view.StateError:
		body = r.failure(page)
	default:
		body = r.pending(page)
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(r.palette.Primary).
		Padding(0, 1).
		Width(r.width).
		Render(body)
	return []byte(card + "\n"), nil
}

func (r *CardRenderer) title(text string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(r.palette.Primary).Render(text)
}

func (r *CardRenderer) muted(text string) string {
	return lipgloss.NewStyle().Foreground(r.palette.Muted).Render(text)
}

func (r *CardRenderer) pending(page view.Page) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.title(page.Title),
		r.muted(page.TrackingID),
	)
}

func (r *CardRenderer) failure(page view.Page) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(r.palette.Danger).Render(page.Title)
	return lipgloss.JoinVertical(lipgloss.Left, heading, page.Message)
}

func (r *CardRenderer) success(page view.Page) string {
	header := r.title(page.Title) + "  " + r.muted("ID: "+page.TrackingID)
	if page.Status != nil {
		badge := lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1).Render(strings.ToUpper(page.Status.Text))
		header += "  " + badge
	}
	lines := []string{header}
	if page.StatusMessage != "" {
		lines = append(lines, page.StatusMessage)
	}

	for _, leg := range page.Legs {
		lines = append(lines, "", r.muted(fmt.Sprintf("Leg %d  %s", leg.Number, leg.Flight)))
		from := leg.Origin
		if leg.Departure != "" {
			from += " " + r.muted(leg.Departure)
		}
		to := leg.Destination
		if leg.Arrival != "" {
			to += " " + r.muted(leg.Arrival)
		}
		lines = append(lines, from+"  ->  "+to)
	}

	if len(page.Details) > 0 {
		lines = append(lines, "")
		label := lipgloss.NewStyle().Foreground(r.palette.Muted).Width(16)
		for _, detail := range page.Details {
			lines = append(lines, label.Render(detail.Label)+detail.Value)
		}
	}

	lines = append(lines, "", r.muted("Updated "+page.Updated))
	if page.Test {
		warn := lipgloss.NewStyle().Bold(true).Foreground(r.palette.Warning)
		lines = append(lines, warn.Render("This is a demonstration tracking page. Data shown is for testing purposes."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
