package view

import (
	"fmt"
	"time"

	"github.com/goliatone/go-tracksite/pkg/model"
	"github.com/goliatone/go-tracksite/pkg/store"
)

// State names the phase of a tracking page.
type State string

const (
	StatePending State = "pending"
	StateError   State = "error"
	StateSuccess State = "success"
)

// LegCount is the number of route legs a tracking page can show.
const LegCount = 3

const (
	unknownStatus = "Unknown"
	inTransit     = "In Transit"

	updatedLayout = "Jan 2, 03:04 PM"
	clockLayout   = "03:04 PM"
)

// DetailRow is a labelled tracking role rendered under the route legs.
type DetailRow struct {
	Role  string
	Label string
}

// DetailRows lists the detail rows in display order.
var DetailRows = []DetailRow{
	{Role: "name", Label: "Passenger Name"},
	{Role: "date", Label: "Date"},
	{Role: "gate", Label: "Gate"},
	{Role: "seat", Label: "Seat"},
	{Role: "class", Label: "Class"},
	{Role: "email", Label: "Email"},
}

// Snapshot is the state of a Session at one instant.
type Snapshot struct {
	TrackingID string
	State      State
	Store      store.State
	UpdatedAt  string
	Test       bool
	Err        error
}

// Badge is the status pill in the page header.
type Badge struct {
	Text string `json:"text"`
}

// Leg is one hop of a route.
type Leg struct {
	Number      int    `json:"number"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Departure   string `json:"departure,omitempty"`
	Arrival     string `json:"arrival,omitempty"`
	Flight      string `json:"flight"`
}

// Detail is one rendered detail row.
type Detail struct {
	Role  string `json:"role"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Page is the render model for the tracking route. Renderers only read it.
type Page struct {
	State         State    `json:"state"`
	TrackingID    string   `json:"trackingId"`
	Title         string   `json:"title"`
	Message       string   `json:"message,omitempty"`
	Status        *Badge   `json:"status,omitempty"`
	StatusMessage string   `json:"statusMessage,omitempty"`
	Legs          []Leg    `json:"legs,omitempty"`
	Details       []Detail `json:"details,omitempty"`
	Updated       string   `json:"updated,omitempty"`
	Test          bool     `json:"test,omitempty"`
	SVG           string   `json:"svg,omitempty"`
}

// Settled reports whether the lookup behind the page has finished.
func (p Page) Settled() bool {
	return p.State == StateSuccess || p.State == StateError
}

// BuildPage derives the page model from a session snapshot. now is used for
// the footer when the record carries no usable update time.
func BuildPage(snap Snapshot, now time.Time) Page {
	page := Page{
		State:      snap.State,
		TrackingID: snap.TrackingID,
	}

	switch snap.State {
	case StateSuccess:
	case StateError:
		page.Title = "Tracking Not Found"
		page.Message = fmt.Sprintf("We couldn't find any records for %s.", snap.TrackingID)
		return page
	default:
		page.State = StatePending
		page.Title = "Locating Shipment"
		return page
	}

	fields := snap.Store.Fields
	page.Title = "Tracking Details"
	page.StatusMessage = snap.Store.StatusMessage
	page.Test = snap.Test
	page.SVG = SanitizeSVG(snap.Store.SVGRaw)

	if field, ok := FieldByRole(fields, "status"); ok {
		text := unknownStatus
		if value, ok := DisplayValue(field); ok && model.Truthy(value) {
			text = model.FormatValue(value)
		}
		page.Status = &Badge{Text: text}
	}

	page.Legs = buildLegs(fields)
	page.Details = buildDetails(fields)
	page.Updated = formatUpdated(snap.UpdatedAt, now)
	return page
}

func buildLegs(fields []model.Field) []Leg {
	flight := inTransit
	if value, ok := truthyRole(fields, "flight"); ok {
		flight = value
	}

	var legs []Leg
	for n := 1; n <= LegCount; n++ {
		origin, ok := truthyRole(fields, fmt.Sprintf("origin%d", n))
		if !ok {
			continue
		}
		destination, ok := truthyRole(fields, fmt.Sprintf("destination%d", n))
		if !ok {
			continue
		}
		leg := Leg{Number: n, Origin: origin, Destination: destination, Flight: flight}
		if n == 1 {
			leg.Departure, _ = truthyRole(fields, "departure_time")
			leg.Arrival, _ = truthyRole(fields, "arrival_time")
		}
		legs = append(legs, leg)
	}
	return legs
}

func buildDetails(fields []model.Field) []Detail {
	var details []Detail
	for _, row := range DetailRows {
		value, ok := truthyRole(fields, row.Role)
		if !ok {
			continue
		}
		details = append(details, Detail{Role: row.Role, Label: row.Label, Value: value})
	}
	return details
}

func truthyRole(fields []model.Field, role string) (string, bool) {
	value, ok := RoleValue(fields, role)
	if !ok || !model.Truthy(value) {
		return "", false
	}
	return model.FormatValue(value), true
}

func formatUpdated(updatedAt string, now time.Time) string {
	rec := model.Record{UpdatedAt: updatedAt}
	if ts, ok := rec.Updated(); ok {
		return ts.In(now.Location()).Format(updatedLayout)
	}
	return now.Format(clockLayout)
}
