package view

import "github.com/goliatone/go-tracksite/pkg/model"

// FieldByRole returns the first field carrying role.
func FieldByRole(fields []model.Field, role string) (model.Field, bool) {
	for _, field := range fields {
		if field.TrackingRole == role {
			return field, true
		}
	}
	return model.Field{}, false
}

// RawValue is the current value of a field, falling back to its default.
func RawValue(field model.Field) any {
	if field.CurrentValue != nil {
		return field.CurrentValue
	}
	return field.DefaultValue
}

// DisplayValue resolves the value shown for field. When the field carries
// options, the first option whose SVG element id or stringified value equals
// the raw value wins and yields its label, display text or value, in that
// order. The boolean is false when the field has no value at all.
func DisplayValue(field model.Field) (any, bool) {
	raw := RawValue(field)
	if raw == nil {
		return nil, false
	}
	if len(field.Options) == 0 {
		return raw, true
	}

	key := model.FormatValue(raw)
	for _, opt := range field.Options {
		if !optionMatches(opt, key) {
			continue
		}
		switch {
		case opt.Label != "":
			return opt.Label, true
		case opt.DisplayText != "":
			return opt.DisplayText, true
		default:
			return opt.Value, opt.Value != nil
		}
	}
	return raw, true
}

// RoleValue combines FieldByRole and DisplayValue.
func RoleValue(fields []model.Field, role string) (any, bool) {
	field, ok := FieldByRole(fields, role)
	if !ok {
		return nil, false
	}
	return DisplayValue(field)
}

func optionMatches(opt model.FieldOption, key string) bool {
	if opt.SVGElementID != "" && opt.SVGElementID == key {
		return true
	}
	return opt.Value != nil && model.FormatValue(opt.Value) == key
}
