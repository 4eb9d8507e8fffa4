// Package model defines the tracking record returned by the lookup API and the
// field descriptors it carries. A Field binds a display value to a semantic
// role (for example "origin1" or "status") so views can locate it without
// knowing its identifier. Options map a raw stored value onto a human readable
// label. Values stay untyped (string, float64 or bool, as decoded from JSON) and
// FormatValue/Truthy give renderers a single place to print and test them.
package model
