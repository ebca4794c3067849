package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/metrics"
	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	"github.com/ArowuTest/recyclepoints-backend/pkg/pushgateway"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure NotificationDispatcher implements Notifier
var _ Notifier = (*NotificationDispatcher)(nil)

// DispatcherOptions tunes a NotificationDispatcher.
type DispatcherOptions struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// NotificationDispatcher delivers notifications asynchronously. Notify
// enqueues without blocking; when the queue is full the notification is
// dropped and logged. Workers persist each notification, hand it to the
// gateway and record the outcome. No failure reaches the caller.
type NotificationDispatcher struct {
	repo        repositories.NotificationRepository
	gateway     pushgateway.Gateway
	queue       chan *models.Notification
	sendTimeout time.Duration

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewNotificationDispatcher creates a dispatcher and starts its workers
func NewNotificationDispatcher(repo repositories.NotificationRepository, gateway pushgateway.Gateway, opts DispatcherOptions) *NotificationDispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 15 * time.Second
	}
	d := &NotificationDispatcher{
		repo:        repo,
		gateway:     gateway,
		queue:       make(chan *models.Notification, opts.QueueSize),
		sendTimeout: opts.SendTimeout,
	}
	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Notify implements Notifier
func (d *NotificationDispatcher) Notify(_ context.Context, userID string, kind models.NotificationKind, payload map[string]interface{}) {
	n := &models.Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Kind:    kind,
		Payload: payload,
		Status:  models.NotificationPending,
		Gateway: d.gateway.Name(),
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		metrics.Notifications.WithLabelValues("dropped").Inc()
		slog.Warn("Notification dropped, dispatcher stopped", "userId", userID, "kind", kind)
		return
	}
	select {
	case d.queue <- n:
	default:
		metrics.Notifications.WithLabelValues("dropped").Inc()
		slog.Warn("Notification dropped, queue full", "userId", userID, "kind", kind)
	}
}

// Stop stops accepting notifications and waits for queued ones to be
// delivered, or for ctx to end.
func (d *NotificationDispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notification dispatcher did not drain: %w", ctx.Err())
	}
}

func (d *NotificationDispatcher) worker() {
	defer d.wg.Done()
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *NotificationDispatcher) deliver(n *models.Notification) {
	defer func() {
		if r := recover(); r != nil {
			metrics.Notifications.WithLabelValues(models.NotificationFailed).Inc()
			slog.Error("Notification delivery panicked", "panic", r, "notificationId", n.ID)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	if err := d.repo.Create(ctx, n); err != nil {
		// Still attempt delivery; the record is lost but the message is not.
		slog.Error("Failed to persist notification", "error", err, "notificationId", n.ID, "userId", n.UserID)
	}

	msgID, err := d.gateway.Send(ctx, pushgateway.Message{
		ID:      n.ID,
		UserID:  n.UserID,
		Kind:    string(n.Kind),
		Payload: n.Payload,
	})
	status, errMsg := models.NotificationSent, ""
	if err != nil {
		status, errMsg = models.NotificationFailed, err.Error()
		slog.Warn("Notification delivery failed", "error", err, "notificationId", n.ID, "gateway", d.gateway.Name())
	}
	metrics.Notifications.WithLabelValues(status).Inc()

	if err := d.repo.UpdateStatus(ctx, n.ID, status, msgID, errMsg); err != nil {
		slog.Error("Failed to update notification status", "error", err, "notificationId", n.ID)
	}
}
