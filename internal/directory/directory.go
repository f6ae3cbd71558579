// Package directory holds the in-memory lead snapshot for one processing
// cycle.
//
// The snapshot is rebuilt on the refresh schedule and deliberately not
// refreshed mid-cycle, so one cycle's decisions stay internally consistent;
// staleness across cycles is bounded by the refresh period. The store, not
// the snapshot, is authoritative for persisted values.
package directory

import (
	"log/slog"

	"github.com/univelcity/unibot/internal/models"
)

// Directory is a point-in-time snapshot of all leads, keyed by phone number.
type Directory struct {
	leads map[string]*models.Lead
}

// FromLeads builds a directory from loaded lead rows. Later rows with a
// duplicate phone are dropped so a phone uniquely identifies a lead within
// the snapshot.
func FromLeads(leads []models.Lead) *Directory {
	byPhone := make(map[string]*models.Lead, len(leads))
	for i := range leads {
		lead := leads[i]
		if lead.Phone == "" {
			slog.Warn("Directory skipping lead with empty phone", "id", lead.ID)
			continue
		}
		if _, dup := byPhone[lead.Phone]; dup {
			slog.Warn("Directory dropping duplicate phone row", "phone", lead.Phone, "id", lead.ID)
			continue
		}
		byPhone[lead.Phone] = &lead
	}
	return &Directory{leads: byPhone}
}

// Empty returns a directory with no leads, used when a refresh fails open.
func Empty() *Directory {
	return &Directory{leads: make(map[string]*models.Lead)}
}

// Find returns the lead for the given phone number, or nil if unknown.
func (d *Directory) Find(phone string) *models.Lead {
	return d.leads[phone]
}

// Add inserts a lead created mid-cycle (e.g. bot-enrolled on first contact)
// so subsequent turns within the same cycle see it.
func (d *Directory) Add(lead *models.Lead) {
	if lead.Phone == "" {
		return
	}
	d.leads[lead.Phone] = lead
}

// Leads returns all leads in the snapshot, in no particular order.
func (d *Directory) Leads() []*models.Lead {
	out := make([]*models.Lead, 0, len(d.leads))
	for _, lead := range d.leads {
		out = append(out, lead)
	}
	return out
}

// Len returns the number of leads in the snapshot.
func (d *Directory) Len() int {
	return len(d.leads)
}
