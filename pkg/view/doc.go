// Package view turns tracking records into the page model shown to visitors.
//
// A Session mirrors one lookup at a time into a store.Store and exposes the
// result as a Page in one of three states: pending, error or success. Field
// values are located by tracking role and resolved through the field's
// option list before they are displayed.
package view
