package render

import (
	"context"

	"github.com/goliatone/go-tracksite/pkg/view"
)

// Renderer turns a tracking page into bytes (HTML, JSON, terminal text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page view.Page, options Options) ([]byte, error)
}
