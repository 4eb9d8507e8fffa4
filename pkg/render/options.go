package render

import "time"

// Options carries request scoped data renderers may use around the page.
type Options struct {
	// Path is the request path; the HTML renderer highlights the matching
	// navbar link.
	Path string
	// HomePath is the target of the "Track Another" recovery action.
	HomePath string
	// TrackURL is the action of the tracking form and IDParam the name of
	// its identifier input.
	TrackURL string
	IDParam  string
	// RefreshURL and RefreshInterval drive the reload of a pending page.
	// A zero interval disables the reload.
	RefreshURL      string
	RefreshInterval time.Duration
}

// RefreshSeconds rounds RefreshInterval up to whole seconds, the unit of a
// meta refresh.
func (o Options) RefreshSeconds() int {
	if o.RefreshInterval <= 0 {
		return 0
	}
	secs := int(o.RefreshInterval / time.Second)
	if o.RefreshInterval%time.Second != 0 {
		secs++
	}
	return secs
}
