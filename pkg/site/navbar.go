package site

import "strings"

// DefaultBrand is the name shown next to the logo.
const DefaultBrand = "DLogis"

// LogoPath is the path data of the stacked layers logo glyph.
const LogoPath = "M12 2L2 7l10 5 10-5-10-5zM2 17l10 5 10-5M2 12l10 5 10-5"

// Link is a navbar entry.
type Link struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

// Navbar is the site wide navigation.
type Navbar struct {
	Brand string `json:"brand"`
	Home  string `json:"home"`
	Logo  string `json:"logo"`
	Links []Link `json:"links"`
}

// DefaultLinks returns the navbar links in display order.
func DefaultLinks() []Link {
	return []Link{
		{Label: "Home", Href: "/"},
		{Label: "Services", Href: "/services"},
		{Label: "About Us", Href: "/about"},
		{Label: "Why Us", Href: "/why-us"},
		{Label: "Testimonials", Href: "/testimonials"},
		{Label: "Contact", Href: "/contact"},
	}
}

// NewNavbar builds a navbar. Without links the default set is used. The
// first link starts out active.
func NewNavbar(brand string, links ...Link) Navbar {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		brand = DefaultBrand
	}
	if len(links) == 0 {
		links = DefaultLinks()
	}
	nav := Navbar{Brand: brand, Logo: LogoPath, Links: make([]Link, len(links))}
	copy(nav.Links, links)
	for i := range nav.Links {
		nav.Links[i].Active = i == 0
	}
	nav.Home = nav.Links[0].Href
	return nav
}

// ActiveFor returns a copy with the link matching path marked active. When no
// link matches, the first link stays highlighted.
func (n Navbar) ActiveFor(path string) Navbar {
	out := n
	out.Links = make([]Link, len(n.Links))
	copy(out.Links, n.Links)

	match := -1
	for i, link := range out.Links {
		if samePath(link.Href, path) {
			match = i
			break
		}
	}
	if match < 0 {
		return out
	}
	for i := range out.Links {
		out.Links[i].Active = i == match
	}
	return out
}

func samePath(a, b string) bool {
	clean := func(p string) string {
		p = strings.TrimSpace(p)
		if p != "/" {
			p = strings.TrimRight(p, "/")
		}
		return p
	}
	return clean(a) == clean(b)
}
