// Package tracksite is the top-level entry point of the tracking site. It
// re-exports the types most callers need and offers one-call helpers over
// the tracking client and the view session.
package tracksite

import (
	"context"
	"time"

	"github.com/goliatone/go-tracksite/pkg/model"
	"github.com/goliatone/go-tracksite/pkg/render"
	"github.com/goliatone/go-tracksite/pkg/tracking"
	"github.com/goliatone/go-tracksite/pkg/view"
)

// Tracker aliases tracking.Tracker.
type Tracker = tracking.Tracker

// Record aliases model.Record, the payload returned by a lookup.
type Record = model.Record

// Page aliases view.Page, the render-ready tracking page.
type Page = view.Page

// RenderOptions aliases render.Options.
type RenderOptions = render.Options

// NewClient exposes the remote tracking client constructor from the
// top-level module.
func NewClient(baseURL string, options ...tracking.ClientOption) (*tracking.Client, error) {
	return tracking.NewClient(baseURL, options...)
}

// DemoTracker returns the tracker serving the bundled demonstration records.
func DemoTracker() (Tracker, error) {
	return tracking.DemoFixtures()
}

// Lookup tracks id in a fresh view session and returns the settled page. It
// returns early with ctx's error when ctx ends before the lookup settles.
func Lookup(ctx context.Context, tracker Tracker, id string, options ...view.SessionOption) (Page, error) {
	session := view.NewSession(tracker, options...)
	defer session.Close()

	select {
	case <-session.Track(id):
	case <-ctx.Done():
		return Page{}, ctx.Err()
	}
	return session.Page(time.Now()), nil
}
