package view

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	svgPolicyOnce sync.Once
	svgPolicy     *bluemonday.Policy
)

// SanitizeSVG strips everything but drawing elements and presentation
// attributes from a route diagram. Element ids survive so option
// svgElementId references keep pointing at their shapes.
func SanitizeSVG(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(svgSanitizer().Sanitize(trimmed))
}

func svgSanitizer() *bluemonday.Policy {
	svgPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()

		shapes := []string{"path", "circle", "rect", "line", "polyline", "polygon", "ellipse"}
		policy.AllowElements("svg", "g", "title", "desc", "defs", "text", "tspan")
		policy.AllowElements(shapes...)

		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "preserveAspectRatio", "role", "aria-label", "class",
		).OnElements("svg")

		policy.AllowAttrs(
			"id", "class", "fill", "stroke", "stroke-width", "stroke-dasharray",
			"stroke-linecap", "stroke-linejoin", "opacity", "transform",
			"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
			"points", "rx", "ry", "width", "height",
		).OnElements(shapes...)

		policy.AllowAttrs("id", "class", "fill", "stroke", "transform", "opacity").OnElements("g")
		policy.AllowAttrs(
			"id", "class", "x", "y", "dx", "dy", "fill",
			"font-size", "font-weight", "text-anchor",
		).OnElements("text", "tspan")
		policy.AllowAttrs("id").OnElements("defs")

		svgPolicy = policy
	})
	return svgPolicy
}
