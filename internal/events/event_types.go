package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/careerhub/career-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventApplicationSubmitted        EventType = "application_submitted"
	EventApplicationStatusChanged    EventType = "application_status_changed"
	EventJobApplicationSubmitted     EventType = "job_application_submitted"
	EventJobApplicationStatusChanged EventType = "job_application_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with an id and the current time.
func New(eventType EventType, actorID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// ApplicationSubmittedPayload payload.
type ApplicationSubmittedPayload struct {
	ApplicationID   string                   `json:"application_id"`
	StudentID       string                   `json:"student_id"`
	CourseName      string                   `json:"course_name"`
	InstitutionName string                   `json:"institution_name"`
	OwnerID         string                   `json:"owner_id,omitempty"`
	Status          domain.ApplicationStatus `json:"status"`
}

// ApplicationStatusChangedPayload payload.
type ApplicationStatusChangedPayload struct {
	ApplicationID   string                   `json:"application_id"`
	StudentID       string                   `json:"student_id"`
	CourseName      string                   `json:"course_name"`
	InstitutionName string                   `json:"institution_name"`
	OldStatus       domain.ApplicationStatus `json:"old_status"`
	NewStatus       domain.ApplicationStatus `json:"new_status"`
}

// JobApplicationSubmittedPayload payload.
type JobApplicationSubmittedPayload struct {
	JobApplicationID string `json:"job_application_id"`
	JobID            string `json:"job_id"`
	JobTitle         string `json:"job_title"`
	CompanyID        string `json:"company_id"`
	StudentID        string `json:"student_id"`
	StudentName      string `json:"student_name"`
}

// JobApplicationStatusChangedPayload payload.
type JobApplicationStatusChangedPayload struct {
	JobApplicationID string                      `json:"job_application_id"`
	JobTitle         string                      `json:"job_title"`
	CompanyName      string                      `json:"company_name"`
	StudentID        string                      `json:"student_id"`
	OldStatus        domain.JobApplicationStatus `json:"old_status"`
	NewStatus        domain.JobApplicationStatus `json:"new_status"`
}
