// Package store provides lead persistence backends for UniBot.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "embed"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/univelcity/unibot/internal/models"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore is a Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store with the given DSN and runs
// the schema migrations.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	if cfg.DSN == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open PostgreSQL connection", "error", err)
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		slog.Error("PostgreSQL ping failed", "error", err)
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("PostgreSQL migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

// LoadLeads returns all lead rows.
func (s *PostgresStore) LoadLeads() ([]models.Lead, error) {
	rows, err := s.db.Query(`SELECT ` + leadColumns + ` FROM leads`)
	if err != nil {
		slog.Error("PostgresStore LoadLeads query failed", "error", err)
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	leads, err := collectLeads(rows)
	if err != nil {
		slog.Error("PostgresStore LoadLeads scan failed", "error", err)
		return nil, err
	}
	slog.Debug("PostgresStore LoadLeads succeeded", "count", len(leads))
	return leads, nil
}

// GetLead returns the lead row for a phone number, or nil if absent.
func (s *PostgresStore) GetLead(phone string) (*models.Lead, error) {
	row := s.db.QueryRow(`SELECT `+leadColumns+` FROM leads WHERE phone = $1`, phone)
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetLead failed", "error", err, "phone", phone)
		return nil, fmt.Errorf("failed to get lead %s: %w", phone, err)
	}
	return &lead, nil
}

// AddLead inserts a new lead row, assigning its ID and timestamps.
func (s *PostgresStore) AddLead(lead models.Lead) (models.Lead, error) {
	if lead.Phone == "" {
		return models.Lead{}, models.ErrEmptyPhone
	}
	now := time.Now()
	lead.ID = uuid.NewString()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	_, err := s.db.Exec(`INSERT INTO leads (`+leadColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		lead.ID, lead.Phone, lead.Name, lead.Course, string(lead.Status),
		lead.LastResponse, lead.Source, lead.CreatedAt, lead.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore AddLead failed", "error", err, "phone", lead.Phone)
		return models.Lead{}, fmt.Errorf("failed to insert lead %s: %w", lead.Phone, err)
	}
	slog.Debug("PostgresStore AddLead succeeded", "phone", lead.Phone, "status", lead.Status)
	return lead, nil
}

// UpdateLead persists only the non-nil update fields onto the row for phone.
func (s *PostgresStore) UpdateLead(phone string, updates models.FieldUpdates) error {
	cols, args := leadUpdateColumns(updates)
	if len(cols) == 0 {
		return nil
	}
	sets := make([]string, 0, len(cols)+1)
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(cols)+1))
	args = append(args, time.Now(), phone)

	query := fmt.Sprintf(`UPDATE leads SET %s WHERE phone = $%d`, strings.Join(sets, ", "), len(cols)+2)
	res, err := s.db.Exec(query, args...)
	if err != nil {
		slog.Error("PostgresStore UpdateLead failed", "error", err, "phone", phone)
		return fmt.Errorf("failed to update lead %s: %w", phone, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrLeadNotFound
	}
	slog.Debug("PostgresStore UpdateLead succeeded", "phone", phone, "fields", len(cols))
	return nil
}

// AddReceipt records a delivery receipt.
func (s *PostgresStore) AddReceipt(r models.Receipt) error {
	_, err := s.db.Exec(`INSERT INTO receipts (recipient, status, time) VALUES ($1, $2, $3)`, r.To, r.Status, r.Time)
	if err != nil {
		slog.Error("PostgresStore AddReceipt failed", "error", err, "to", r.To)
		return fmt.Errorf("failed to insert receipt for %s: %w", r.To, err)
	}
	return nil
}

// GetReceipts returns all recorded receipts.
func (s *PostgresStore) GetReceipts() ([]models.Receipt, error) {
	rows, err := s.db.Query(`SELECT recipient, status, time FROM receipts`)
	if err != nil {
		slog.Error("PostgresStore GetReceipts query failed", "error", err)
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()

	var receipts []models.Receipt
	for rows.Next() {
		var r models.Receipt
		if err := rows.Scan(&r.To, &r.Status, &r.Time); err != nil {
			slog.Error("PostgresStore GetReceipts scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan receipt row: %w", err)
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

// AddResponse records a raw inbound message.
func (s *PostgresStore) AddResponse(r models.Response) error {
	_, err := s.db.Exec(`INSERT INTO responses (sender, body, time) VALUES ($1, $2, $3)`, r.From, r.Body, r.Time)
	if err != nil {
		slog.Error("PostgresStore AddResponse failed", "error", err, "from", r.From)
		return fmt.Errorf("failed to insert response from %s: %w", r.From, err)
	}
	return nil
}

// GetResponses returns all recorded inbound messages.
func (s *PostgresStore) GetResponses() ([]models.Response, error) {
	rows, err := s.db.Query(`SELECT sender, body, time FROM responses`)
	if err != nil {
		slog.Error("PostgresStore GetResponses query failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	var responses []models.Response
	for rows.Next() {
		var r models.Response
		if err := rows.Scan(&r.From, &r.Body, &r.Time); err != nil {
			slog.Error("PostgresStore GetResponses scan failed", "error", err)
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// Close closes the PostgreSQL database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing PostgreSQL database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close PostgreSQL database", "error", err)
	}
	return err
}
