package tracking

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-tracksite/pkg/model"
)

var (
	// ErrNotFound reports an identifier the source does not know.
	ErrNotFound = errors.New("tracking: record not found")
	// ErrInvalidID reports an empty identifier.
	ErrInvalidID = errors.New("tracking: invalid tracking id")
	// ErrInvalidResponse reports a payload that does not match the contract.
	ErrInvalidResponse = errors.New("tracking: invalid response")
	// ErrUnexpectedStatus reports a non 200/404 response from the API.
	ErrUnexpectedStatus = errors.New("tracking: unexpected status")
)

// Tracker looks up a tracking record by identifier.
type Tracker interface {
	Track(ctx context.Context, id string) (model.Record, error)
}

// TrackerFunc adapts a function into a Tracker.
type TrackerFunc func(ctx context.Context, id string) (model.Record, error)

// Track calls the underlying function.
func (fn TrackerFunc) Track(ctx context.Context, id string) (model.Record, error) {
	return fn(ctx, id)
}

// NormalizeID trims the identifier and rejects empty values.
func NormalizeID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", ErrInvalidID
	}
	return trimmed, nil
}
