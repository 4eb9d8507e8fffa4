// Package store holds the field store a tracking view renders from.
//
// A Store keeps the field list of the most recent tracking record together
// with auxiliary status strings and the raw SVG payload. Loading a record
// replaces the list wholesale and initialises every field's current value
// from its default; individual fields can then be updated by id and reset
// back to their defaults. Every mutation notifies subscribers with a copy of
// the new state. Nothing is persisted: a store is rebuilt from the remote
// record each time a view tracks an identifier.
package store
