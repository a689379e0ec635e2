// Package audit records security and compliance events emitted by the
// Netra services.
package audit

import (
	"context"
	"time"
)

// EventCategory decides how an event is delivered. Compliance events are
// written synchronously; the rest go through a bounded buffer.
type EventCategory string

const (
	CategoryCompliance EventCategory = "compliance"
	CategorySecurity   EventCategory = "security"
	CategoryOperations EventCategory = "operations"
)

type AuditEvent string

const (
	EventAccountCreated        AuditEvent = "account_created"
	EventPatientRegistered     AuditEvent = "patient_registered"
	EventVerificationLockout   AuditEvent = "verification_lockout_triggered"
	EventVerificationBlocked   AuditEvent = "verification_blocked"
	EventVerificationSucceeded AuditEvent = "verification_succeeded"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventAccountCreated:        CategoryCompliance,
	EventPatientRegistered:     CategoryCompliance,
	EventVerificationLockout:   CategorySecurity,
	EventVerificationBlocked:   CategorySecurity,
	EventVerificationSucceeded: CategoryOperations,
}

// Category returns the category for e; unknown events are operational.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is one audit record. Subject is the entity acted on: an account id,
// or the client address for lockout events.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	Action    AuditEvent    `json:"action"`
	Subject   string        `json:"subject"`
	HFRID     string        `json:"hfr_id,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	IP        string        `json:"ip,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

// Store is an append-only sink for events.
type Store interface {
	Append(ctx context.Context, events ...Event) error
}
