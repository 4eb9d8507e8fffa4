package render

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-tracksite/pkg/view"
)

// JSONName is the registry key of the JSON renderer.
const JSONName = "json"

// JSON renders the page model itself.
type JSON struct {
	Indent string
}

var _ Renderer = JSON{}

// Name implements Renderer.
func (JSON) Name() string { return JSONName }

// ContentType implements Renderer.
func (JSON) ContentType() string { return "application/json; charset=utf-8" }

// Render implements Renderer.
func (j JSON) Render(_ context.Context, page view.Page, _ Options) ([]byte, error) {
	var (
		out []byte
		err error
	)
	if j.Indent != "" {
		out, err = json.MarshalIndent(page, "", j.Indent)
	} else {
		out, err = json.Marshal(page)
	}
	if err != nil {
		return nil, fmt.Errorf("render: encode page: %w", err)
	}
	return append(out, '\n'), nil
}
