package tracker

import "net/http"

// Component bundles the tracking handler, its configuration and routing
// helpers. All handlers it hands out share one set of view sessions.
type Component struct {
	opts    Options
	handler *Handler
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	opts := NewOptions(fns...)
	return &Component{opts: opts, handler: HandlerWithOptions(opts)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns the tracking page handler.
func (c *Component) Handler() http.Handler {
	if c == nil {
		return NewHandler()
	}
	return c.handler
}

// RegisterRoutes registers the component handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return registerHandler(mux, basePath, c.opts.RoutePath, c.handler)
}

// Close releases the view sessions.
func (c *Component) Close() {
	if c == nil {
		return
	}
	c.handler.Close()
}
