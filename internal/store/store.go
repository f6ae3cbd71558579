// Package store provides lead persistence backends for UniBot.
//
// It includes an in-memory store for tests and DSN-less development, plus
// SQLite and PostgreSQL stores selected by DSN auto-detection. The store is
// authoritative for lead rows; the per-cycle directory snapshot may lag it.
package store

import (
	"strings"

	"github.com/univelcity/unibot/internal/models"
)

// Store defines the lead store contract consumed by the dispatcher.
type Store interface {
	// LoadLeads returns all lead rows for a directory refresh.
	LoadLeads() ([]models.Lead, error)

	// GetLead returns the lead row for a phone number, or nil if absent.
	GetLead(phone string) (*models.Lead, error)

	// AddLead inserts a new lead row, assigning its ID and timestamps, and
	// returns the stored row.
	AddLead(lead models.Lead) (models.Lead, error)

	// UpdateLead persists only the non-nil fields of the update onto the
	// row identified by phone.
	UpdateLead(phone string, updates models.FieldUpdates) error

	// AddReceipt records a delivery receipt for audit.
	AddReceipt(r models.Receipt) error

	// GetReceipts returns all recorded receipts.
	GetReceipts() ([]models.Receipt, error)

	// AddResponse records a raw inbound message for audit.
	AddResponse(r models.Response) error

	// GetResponses returns all recorded inbound messages.
	GetResponses() ([]models.Response, error)

	// Close releases the underlying resources.
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	DSN string
}

// Option defines a configuration option for store backends.
type Option func(*Opts)

// WithSQLiteDSN sets the SQLite database file path.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// WithPostgresDSN sets the PostgreSQL connection string.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// DetectDSNType classifies a DSN as "postgres" or "sqlite". PostgreSQL DSNs
// use URL or key=value form; anything else is treated as a SQLite file path.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	if strings.Contains(dsn, "host=") || strings.Contains(dsn, "dbname=") {
		return "postgres"
	}
	return "sqlite"
}
