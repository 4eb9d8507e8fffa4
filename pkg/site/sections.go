package site

import "strings"

// Section is a marketing page linked from the navbar.
type Section struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// DefaultSections returns a placeholder page for every non-home navbar link.
func DefaultSections() []Section {
	return []Section{
		{Slug: "services", Title: "Services", Summary: "Air, ocean and road freight with door to door tracking."},
		{Slug: "about", Title: "About Us", Summary: "A logistics partner moving cargo and passengers across three continents."},
		{Slug: "why-us", Title: "Why Us", Summary: "Live shipment visibility from booking to delivery."},
		{Slug: "testimonials", Title: "Testimonials", Summary: "What our customers say about shipping with us."},
		{Slug: "contact", Title: "Contact", Summary: "Reach our support desk around the clock."},
	}
}

func findSection(sections []Section, path string) (Section, bool) {
	slug := strings.Trim(strings.TrimSpace(path), "/")
	for _, section := range sections {
		if section.Slug == slug {
			return section, true
		}
	}
	return Section{}, false
}
