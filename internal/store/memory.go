package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/univelcity/unibot/internal/models"
)

// InMemoryStore is a map-backed Store for tests and DSN-less development.
type InMemoryStore struct {
	mu        sync.RWMutex
	leads     map[string]models.Lead
	receipts  []models.Receipt
	responses []models.Response
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{leads: make(map[string]models.Lead)}
}

// LoadLeads returns a copy of all lead rows.
func (s *InMemoryStore) LoadLeads() ([]models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	leads := make([]models.Lead, 0, len(s.leads))
	for _, lead := range s.leads {
		leads = append(leads, lead)
	}
	return leads, nil
}

// GetLead returns the lead row for a phone number, or nil if absent.
func (s *InMemoryStore) GetLead(phone string) (*models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lead, ok := s.leads[phone]
	if !ok {
		return nil, nil
	}
	return &lead, nil
}

// AddLead inserts a new lead row, assigning its ID and timestamps.
func (s *InMemoryStore) AddLead(lead models.Lead) (models.Lead, error) {
	if lead.Phone == "" {
		return models.Lead{}, models.ErrEmptyPhone
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.leads[lead.Phone]; exists {
		return models.Lead{}, models.ErrLeadExists
	}
	now := time.Now()
	lead.ID = uuid.NewString()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	s.leads[lead.Phone] = lead
	slog.Debug("InMemoryStore AddLead succeeded", "phone", lead.Phone, "status", lead.Status)
	return lead, nil
}

// UpdateLead applies the non-nil update fields to the row for phone.
func (s *InMemoryStore) UpdateLead(phone string, updates models.FieldUpdates) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.leads[phone]
	if !ok {
		return models.ErrLeadNotFound
	}
	updates.Apply(&lead)
	lead.UpdatedAt = time.Now()
	s.leads[phone] = lead
	return nil
}

// AddReceipt records a delivery receipt.
func (s *InMemoryStore) AddReceipt(r models.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts = append(s.receipts, r)
	return nil
}

// GetReceipts returns all recorded receipts.
func (s *InMemoryStore) GetReceipts() ([]models.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Receipt(nil), s.receipts...), nil
}

// AddResponse records a raw inbound message.
func (s *InMemoryStore) AddResponse(r models.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, r)
	return nil
}

// GetResponses returns all recorded inbound messages.
func (s *InMemoryStore) GetResponses() ([]models.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Response(nil), s.responses...), nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
