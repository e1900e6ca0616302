package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/email"
	"github.com/careerhub/career-api/internal/events"
	"github.com/careerhub/career-api/internal/repository"
	apperrors "github.com/careerhub/career-api/pkg/util"
)

// EmailResult reports the outcome of a send. Delivery failures are
// reported here, never returned as errors.
type EmailResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NotificationService sends transactional email and records in-app
// notifications for domain events.
type NotificationService struct {
	mailer        email.Mailer
	notifications repository.NotificationRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	frontendURL   string
}

// NotificationDependencies bundles collaborators for NotificationService.
type NotificationDependencies struct {
	Mailer           email.Mailer
	NotificationRepo repository.NotificationRepository
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
	FrontendURL      string
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		mailer:        deps.Mailer,
		notifications: deps.NotificationRepo,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		frontendURL:   deps.FrontendURL,
	}
}

// SendVerificationEmail mails the link that redeems token.
func (n *NotificationService) SendVerificationEmail(ctx context.Context, user *domain.User, token string) EmailResult {
	link := email.Link(n.frontendURL, "/verify-email", token)
	return n.send(ctx, email.VerificationMessage(user.Email, user.DisplayName(), link))
}

// SendWelcomeEmail greets a user whose address was just verified.
func (n *NotificationService) SendWelcomeEmail(ctx context.Context, user *domain.User) EmailResult {
	return n.send(ctx, email.WelcomeMessage(user.Email, user.DisplayName(), n.frontendURL+"/login"))
}

// SendPasswordResetEmail mails the link that redeems a reset token.
func (n *NotificationService) SendPasswordResetEmail(ctx context.Context, user *domain.User, token string) EmailResult {
	link := email.Link(n.frontendURL, "/reset-password", token)
	return n.send(ctx, email.PasswordResetMessage(user.Email, user.DisplayName(), link))
}

func (n *NotificationService) send(ctx context.Context, msg email.Message) EmailResult {
	if n.mailer == nil {
		return EmailResult{Error: email.ErrDisabled.Error()}
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.logger.Warn("email delivery failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return EmailResult{Error: err.Error()}
	}
	n.logger.Debug("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return EmailResult{Success: true}
}

// ListForUser returns a user's notifications, newest first.
func (n *NotificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	return n.notifications.ListByUser(ctx, userID, unreadOnly)
}

// MarkRead marks one of the user's notifications as read.
func (n *NotificationService) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	existing, err := n.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Notification")
	}
	if existing.UserID != userID {
		return nil, apperrors.NewNotFound("Notification", nil)
	}
	if existing.Read {
		return existing, nil
	}
	updated, err := n.notifications.MarkRead(ctx, id)
	return updated, storeError(err, "Notification")
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventApplicationSubmitted, n.handleApplicationSubmitted)
	n.dispatcher.Subscribe(events.EventApplicationStatusChanged, n.handleApplicationStatusChanged)
	n.dispatcher.Subscribe(events.EventJobApplicationSubmitted, n.handleJobApplicationSubmitted)
	n.dispatcher.Subscribe(events.EventJobApplicationStatusChanged, n.handleJobApplicationStatusChanged)
}

func (n *NotificationService) handleApplicationSubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApplicationSubmittedPayload)
	if !ok {
		return fmt.Errorf("%s: unexpected payload %T", event.Type, event.Payload)
	}
	n.logger.Info("ApplicationSubmitted", zap.String("application_id", payload.ApplicationID))

	message := fmt.Sprintf("Your application to %s at %s was received.", payload.CourseName, payload.InstitutionName)
	if payload.Status == domain.ApplicationStatusWaitlist {
		message = fmt.Sprintf("Your application to %s at %s was placed on the waitlist.", payload.CourseName, payload.InstitutionName)
	}
	if err := n.notify(ctx, payload.StudentID, domain.NotificationApplicationSubmitted,
		"Application submitted", message, "/student/applications"); err != nil {
		return err
	}
	if payload.OwnerID == "" {
		return nil
	}
	return n.notify(ctx, payload.OwnerID, domain.NotificationApplicationSubmitted,
		"New application", fmt.Sprintf("A student applied to %s.", payload.CourseName), "/institution/applications")
}

func (n *NotificationService) handleApplicationStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApplicationStatusChangedPayload)
	if !ok {
		return fmt.Errorf("%s: unexpected payload %T", event.Type, event.Payload)
	}
	n.logger.Info("ApplicationStatusChanged",
		zap.String("application_id", payload.ApplicationID),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)))

	return n.notify(ctx, payload.StudentID, domain.NotificationApplicationStatus,
		"Application update",
		fmt.Sprintf("Your application to %s at %s is now %s.", payload.CourseName, payload.InstitutionName, payload.NewStatus),
		"/student/applications")
}

func (n *NotificationService) handleJobApplicationSubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.JobApplicationSubmittedPayload)
	if !ok {
		return fmt.Errorf("%s: unexpected payload %T", event.Type, event.Payload)
	}
	n.logger.Info("JobApplicationSubmitted", zap.String("job_application_id", payload.JobApplicationID))

	return n.notify(ctx, payload.CompanyID, domain.NotificationJobApplicationSubmitted,
		"New job application",
		fmt.Sprintf("%s applied for %s.", payload.StudentName, payload.JobTitle),
		"/company/jobs/"+payload.JobID)
}

func (n *NotificationService) handleJobApplicationStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.JobApplicationStatusChangedPayload)
	if !ok {
		return fmt.Errorf("%s: unexpected payload %T", event.Type, event.Payload)
	}
	n.logger.Info("JobApplicationStatusChanged",
		zap.String("job_application_id", payload.JobApplicationID),
		zap.String("new_status", string(payload.NewStatus)))

	return n.notify(ctx, payload.StudentID, domain.NotificationJobApplicationStatus,
		"Job application update",
		fmt.Sprintf("Your application for %s at %s is now %s.", payload.JobTitle, payload.CompanyName, payload.NewStatus),
		"/student/job-applications")
}

func (n *NotificationService) notify(ctx context.Context, userID string, typ domain.NotificationType, title, message, link string) error {
	notification, err := domain.NewNotification(userID, typ, title, message, link)
	if err != nil {
		return err
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Error("store notification", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// publish sends event through dispatcher, logging handler failures. The
// write that triggered the event has already succeeded.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil && logger != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
