package domain

import (
	"strings"
	"time"
)

// NotificationType categorises in-app notifications.
type NotificationType string

const (
	NotificationApplicationSubmitted    NotificationType = "application_submitted"
	NotificationApplicationStatus       NotificationType = "application_status"
	NotificationJobApplicationSubmitted NotificationType = "job_application_submitted"
	NotificationJobApplicationStatus    NotificationType = "job_application_status"
)

// Notification is an in-app message for a user.
type Notification struct {
	ID        string           `json:"id,omitempty"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Link      string           `json:"link"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// NewNotification validates and builds an unread notification.
func NewNotification(userID string, typ NotificationType, title, message, link string) (*Notification, error) {
	errs := fieldErrors{}
	errs.require("userId", userID)
	errs.require("title", title)
	if err := errs.err(); err != nil {
		return nil, err
	}
	return &Notification{
		UserID:  userID,
		Type:    typ,
		Title:   strings.TrimSpace(title),
		Message: strings.TrimSpace(message),
		Link:    link,
	}, nil
}
