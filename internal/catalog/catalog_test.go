package catalog

import (
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	if c.Len() != 6 {
		t.Fatalf("expected 6 courses, got %d", c.Len())
	}

	// Menu numbering must be stable: the first entry is the flagship course.
	first, ok := c.NameAt(1)
	if !ok || first != "Fullstack Web Development" {
		t.Errorf("NameAt(1) = (%q, %v), want Fullstack Web Development", first, ok)
	}

	// Every entry must round-trip through Lookup with non-empty fields.
	for i, e := range c.Entries() {
		name, ok := c.NameAt(i + 1)
		if !ok || name != e.Name {
			t.Errorf("NameAt(%d) = (%q, %v), want %q", i+1, name, ok, e.Name)
		}
		info, ok := c.Lookup(e.Name)
		if !ok {
			t.Fatalf("Lookup(%q) not found", e.Name)
		}
		if info.Price == "" || info.Duration == "" || info.Delivery == "" {
			t.Errorf("entry %q has empty fields: %+v", e.Name, info)
		}
		if !strings.HasPrefix(info.URL, "https://univelcity.com/") {
			t.Errorf("entry %q has unexpected URL %q", e.Name, info.URL)
		}
	}
}

func TestNameAtOutOfRange(t *testing.T) {
	c := Default()
	for _, n := range []int{0, -1, 7, 100} {
		if name, ok := c.NameAt(n); ok {
			t.Errorf("NameAt(%d) = %q, want not found", n, name)
		}
	}
}

func TestLookupUnknownCourse(t *testing.T) {
	c := Default()
	if _, ok := c.Lookup("Basket Weaving"); ok {
		t.Error("Lookup of unknown course should not be found")
	}
	if _, ok := c.Lookup(""); ok {
		t.Error("Lookup of empty course should not be found")
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]Entry{
		{Name: "Go", Info: CourseInfo{Price: "₦1"}},
		{Name: "Go", Info: CourseInfo{Price: "₦2"}},
	})
	if err == nil {
		t.Error("expected error for duplicate entry names")
	}
}

func TestNewRejectsEmptyName(t *testing.T) {
	_, err := New([]Entry{{Name: "", Info: CourseInfo{}}})
	if err == nil {
		t.Error("expected error for empty entry name")
	}
}
