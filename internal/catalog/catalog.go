// Package catalog holds the static course reference data for UniBot.
//
// The catalog is constructed once at startup and never mutated afterwards; it
// is the single source of truth for the price, duration, delivery mode and
// enrollment URL text injected into outbound messages. Entries keep a stable
// order so the course menu numbering (1..N) is deterministic across cycles.
package catalog

import "fmt"

// CourseInfo describes one course offering.
type CourseInfo struct {
	URL      string
	Price    string
	Duration string
	Delivery string
}

// Entry pairs a course display name with its info.
type Entry struct {
	Name string
	Info CourseInfo
}

// Catalog is an immutable, ordered collection of course entries.
type Catalog struct {
	entries []Entry
	byName  map[string]CourseInfo
}

// New builds a catalog from the given entries, preserving their order for
// menu numbering. Duplicate names return an error.
func New(entries []Entry) (*Catalog, error) {
	byName := make(map[string]CourseInfo, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog entry with empty name")
		}
		if _, dup := byName[e.Name]; dup {
			return nil, fmt.Errorf("duplicate catalog entry %q", e.Name)
		}
		byName[e.Name] = e.Info
	}
	return &Catalog{entries: entries, byName: byName}, nil
}

// Lookup returns the info for the given course name.
func (c *Catalog) Lookup(name string) (CourseInfo, bool) {
	info, ok := c.byName[name]
	return info, ok
}

// NameAt returns the 1-indexed Nth course name, matching the menu numbering.
func (c *Catalog) NameAt(n int) (string, bool) {
	if n < 1 || n > len(c.entries) {
		return "", false
	}
	return c.entries[n-1].Name, true
}

// Entries returns the ordered entries. Callers must not mutate the slice.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Len returns the number of courses.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Default returns the Univelcity course catalog.
func Default() *Catalog {
	c, err := New([]Entry{
		{Name: "Fullstack Web Development", Info: CourseInfo{
			URL:      "https://univelcity.com/portfolio/fullstack-web-development/",
			Price:    "₦1,000,000",
			Duration: "6 Months",
			Delivery: "Physical & Online",
		}},
		{Name: "Frontend Web Development with ReactJS", Info: CourseInfo{
			URL:      "https://univelcity.com/portfolio/frontend-web-development-with-react-js/",
			Price:    "₦350,000",
			Duration: "12 Weeks",
			Delivery: "Physical & Online",
		}},
		{Name: "Backend with Python Django", Info: CourseInfo{
			URL:      "https://univelcity.com/portfolio/backend-with-python-django/",
			Price:    "₦350,000",
			Duration: "12 Weeks",
			Delivery: "Physical & Online",
		}},
		{Name: "Python For Datascience", Info: CourseInfo{
			URL:      "https://univelcity.com/portfolio/python-for-datascience/",
			Price:    "₦350,000",
			Duration: "12 Weeks",
			Delivery: "Physical & Online",
		}},
		{Name: "UI/UX Design and Prototyping", Info: CourseInfo{
			URL:      "https://univelcity.com/portfolio/ui-ux-design-and-prototyping/",
			Price:    "₦350,000",
			Duration: "12 Weeks",
			Delivery: "Physical & Online",
		}},
		{Name: "Cybersecurity(Ethical Hacking)", Info: CourseInfo{
			URL:      "https://univelcity.com/portfolio/ethical-hacking-and-counter-measures/",
			Price:    "₦350,000",
			Duration: "12 Weeks",
			Delivery: "Physical & Online",
		}},
	})
	if err != nil {
		// Default entries are compile-time constants; a failure here is a bug.
		panic(err)
	}
	return c
}
