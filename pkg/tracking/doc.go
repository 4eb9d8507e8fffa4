// Package tracking resolves tracking identifiers into tracking records.
//
// Tracker is the lookup seam views depend on. Client implements it against
// the remote tracking API: the request path comes from an embedded OpenAPI
// contract (operation "trackOrder"), a failed lookup is retried once by
// default, concurrent lookups for the same identifier share one request and
// responses can be validated against the contract before decoding. Fixtures
// implements Tracker from JSON or YAML record files and backs the demo mode.
//
// Unknown identifiers surface as ErrNotFound; callers treat every failure
// after the retry budget as "not found".
package tracking
