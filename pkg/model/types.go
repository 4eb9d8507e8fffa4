package model

import "time"

// FieldOption maps a raw field value onto a display label.
type FieldOption struct {
	Value        any    `json:"value" yaml:"value"`
	Label        string `json:"label,omitempty" yaml:"label,omitempty"`
	DisplayText  string `json:"displayText,omitempty" yaml:"displayText,omitempty"`
	SVGElementID string `json:"svgElementId,omitempty" yaml:"svgElementId,omitempty"`
}

// Field is a single display unit of a tracking record. CurrentValue is
// populated by the store from DefaultValue when a record is loaded.
type Field struct {
	ID           string        `json:"id" yaml:"id"`
	TrackingRole string        `json:"trackingRole,omitempty" yaml:"trackingRole,omitempty"`
	DefaultValue any           `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	CurrentValue any           `json:"currentValue,omitempty" yaml:"currentValue,omitempty"`
	Options      []FieldOption `json:"options,omitempty" yaml:"options,omitempty"`
}

// Clone returns a copy of the field with its own options slice.
func (f Field) Clone() Field {
	out := f
	if f.Options != nil {
		out.Options = append([]FieldOption(nil), f.Options...)
	}
	return out
}

// Record is the payload returned by the tracking lookup.
type Record struct {
	SVG          string  `json:"svg" yaml:"svg"`
	FormFields   []Field `json:"form_fields" yaml:"form_fields"`
	Status       string  `json:"status" yaml:"status"`
	ErrorMessage string  `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	UpdatedAt    string  `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	Test         bool    `json:"test,omitempty" yaml:"test,omitempty"`
}

// Updated parses UpdatedAt. RFC 3339, zone-less date times and bare dates
// (taken as UTC midnight) are accepted. The boolean is false when the
// timestamp is missing or unparseable.
func (r Record) Updated() (time.Time, bool) {
	if r.UpdatedAt == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", time.DateOnly} {
		if ts, err := time.Parse(layout, r.UpdatedAt); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// CloneFields deep copies a field list. A nil input yields nil.
func CloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, field := range fields {
		out[i] = field.Clone()
	}
	return out
}
