package worker

import (
	"go.uber.org/zap"

	"github.com/careerhub/career-api/internal/service"
)

// StartNotificationWorker subscribes the notification service to domain
// events so applications and decisions produce in-app notifications.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	if logger != nil {
		logger.Info("notification worker subscribed to application events")
	}
}
