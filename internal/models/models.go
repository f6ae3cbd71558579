// Package models defines the core data structures for UniBot.
//
// It includes the lead record, its lifecycle status enumeration, the explicit
// field-update contract produced by the conversation engine, and the transport
// events shared across modules.
package models

import (
	"errors"
	"time"
)

// LeadStatus is the lifecycle tag of a lead in the conversation funnel.
type LeadStatus string

const (
	// StatusNew marks a lead just created by the bot, before the welcome
	// prompt has been answered.
	StatusNew LeadStatus = "new"
	// StatusAwaitingName marks a lead whose next message is taken as their name.
	StatusAwaitingName LeadStatus = "awaiting-name"
	// StatusAwaitingCourse marks a lead who has given a name but not yet
	// picked a course.
	StatusAwaitingCourse LeadStatus = "awaiting-course"
	// StatusNewImportPending marks an externally imported row awaiting the
	// first outreach of the broadcast pass.
	StatusNewImportPending LeadStatus = "new-import-pending"
	// StatusMessageSent marks a lead who has received the course details.
	StatusMessageSent LeadStatus = "message-sent"
	// StatusInterestedDetailsSent marks a lead who asked for more info and
	// received the enrollment link.
	StatusInterestedDetailsSent LeadStatus = "interested-details-sent"
	// StatusAskedPricing marks a lead who asked about tuition.
	StatusAskedPricing LeadStatus = "asked-pricing"
	// StatusAskedPaymentPlan marks a lead who asked about payment plans.
	StatusAskedPaymentPlan LeadStatus = "asked-payment-plan"
	// StatusAskedInstallment marks a lead who asked about installments.
	StatusAskedInstallment LeadStatus = "asked-installment"
	// StatusNotInterestedNow marks a lead who deferred for now.
	StatusNotInterestedNow LeadStatus = "not-interested-now"
	// StatusNotInterestedPermanently marks a lead who declined outright.
	StatusNotInterestedPermanently LeadStatus = "not-interested-permanently"
	// StatusNeedsHumanFollowup marks a lead whose message the bot could not
	// handle; a human advisor takes over.
	StatusNeedsHumanFollowup LeadStatus = "needs-human-followup"
)

// Lead source tags. Set once at row creation, never mutated.
const (
	// SourceBot marks leads created by the bot on first contact.
	SourceBot = "unibot"
	// SourceImport marks leads created externally (e.g. a marketing import).
	SourceImport = "import"
)

// Error variables for better error handling and testability
var (
	ErrEmptyPhone   = errors.New("phone cannot be empty")
	ErrEmptyBody    = errors.New("message body cannot be empty")
	ErrLeadExists   = errors.New("lead already exists for phone")
	ErrLeadNotFound = errors.New("lead not found")
)

// Lead is one record per prospective student, keyed by phone number.
type Lead struct {
	ID           string     `json:"id"`
	Phone        string     `json:"phone"`
	Name         string     `json:"name,omitempty"`
	Course       string     `json:"course,omitempty"`
	Status       LeadStatus `json:"status"`
	LastResponse string     `json:"last_response,omitempty"`
	Source       string     `json:"source,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FieldUpdates describes mutations to a lead record decided by the
// conversation engine. Nil fields are left untouched; a separate persistence
// step applies the non-nil ones, keeping the decision function pure.
type FieldUpdates struct {
	Name         *string
	Course       *string
	Status       *LeadStatus
	LastResponse *string
}

// IsEmpty reports whether the update carries no mutations.
func (u FieldUpdates) IsEmpty() bool {
	return u.Name == nil && u.Course == nil && u.Status == nil && u.LastResponse == nil
}

// Apply copies the non-nil fields onto the lead in place.
func (u FieldUpdates) Apply(lead *Lead) {
	if u.Name != nil {
		lead.Name = *u.Name
	}
	if u.Course != nil {
		lead.Course = *u.Course
	}
	if u.Status != nil {
		lead.Status = *u.Status
	}
	if u.LastResponse != nil {
		lead.LastResponse = *u.LastResponse
	}
}

// StrPtr returns a pointer to s. Convenience for building FieldUpdates.
func StrPtr(s string) *string {
	return &s
}

// StatusPtr returns a pointer to st. Convenience for building FieldUpdates.
func StatusPtr(st LeadStatus) *LeadStatus {
	return &st
}

// StatusType represents the delivery status of an outbound message.
type StatusType string

const (
	// StatusTypeSent indicates the message was handed to the transport.
	StatusTypeSent StatusType = "sent"
	// StatusTypeDelivered indicates the transport confirmed delivery.
	StatusTypeDelivered StatusType = "delivered"
	// StatusTypeRead indicates the recipient read the message.
	StatusTypeRead StatusType = "read"
)

// Receipt represents a delivery or read receipt event from the transport.
type Receipt struct {
	To     string     `json:"to"`
	Status StatusType `json:"status"`
	Time   int64      `json:"time"`
}

// Response represents an incoming message from a lead.
type Response struct {
	From string `json:"from"`
	Body string `json:"body"`
	Time int64  `json:"time"`
}
