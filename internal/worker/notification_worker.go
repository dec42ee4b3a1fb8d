// Package worker runs the background side of the event pipeline.
package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/devanshjhaa/TicketsManage/internal/events"
	"github.com/devanshjhaa/TicketsManage/internal/service"
)

// NotificationWorker binds the notification handlers to the dispatcher and
// drives its drain loop on a dedicated goroutine.
type NotificationWorker struct {
	dispatcher    events.Dispatcher
	notifications *service.NotificationService
	logger        *zap.Logger
}

// NewNotificationWorker constructs the worker.
func NewNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService, logger *zap.Logger) *NotificationWorker {
	return &NotificationWorker{dispatcher: dispatcher, notifications: notifications, logger: logger}
}

// Start registers handlers and begins draining events until ctx is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.notifications.RegisterHandlers(w.dispatcher)

	runner, ok := w.dispatcher.(events.Runner)
	if !ok {
		w.logger.Warn("dispatcher has no drain loop; events will not be delivered")
		return
	}

	go func() {
		w.logger.Info("notification worker started")
		runner.Run(ctx)
		w.logger.Info("notification worker stopped")
	}()
}
