// Package tracker provides the net/http component behind the tracking page.
//
// The handler answers GET and HEAD requests carrying a tracking identifier in
// a query parameter. Each browser gets a view session keyed by a cookie; the
// session runs the lookup and the handler waits a short while for it before
// answering with the pending page (202), which reloads itself until the
// lookup settles into the details page (200) or the not-found page (404).
// The format parameter picks a renderer from the registry, so the same route
// serves HTML and JSON.
package tracker
