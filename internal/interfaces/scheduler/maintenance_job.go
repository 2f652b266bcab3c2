package scheduler

import (
	"context"
	"fmt"
	"log"

	"centavo/internal/domain/notification"
)

// DeadlineReminderJob sweeps active savings goals whose deadline is
// approaching and creates reminder notifications for their owners.
type DeadlineReminderJob struct {
	notifications *notification.Service
}

// NewDeadlineReminderJob creates a new deadline reminder job
func NewDeadlineReminderJob(notifications *notification.Service) *DeadlineReminderJob {
	return &DeadlineReminderJob{notifications: notifications}
}

// Execute runs the deadline reminder sweep
func (j *DeadlineReminderJob) Execute(ctx context.Context) error {
	if err := j.notifications.RunDeadlineSweep(ctx); err != nil {
		return fmt.Errorf("deadline sweep failed: %w", err)
	}
	return nil
}

func (j *DeadlineReminderJob) Name() string { return "deadline_reminder" }

func (j *DeadlineReminderJob) Description() string {
	return "Savings goal deadline reminder sweep"
}

// NotificationPurgeJob removes notifications that have passed their
// expiry timestamp.
type NotificationPurgeJob struct {
	notifications *notification.Service
}

// NewNotificationPurgeJob creates a new notification purge job
func NewNotificationPurgeJob(notifications *notification.Service) *NotificationPurgeJob {
	return &NotificationPurgeJob{notifications: notifications}
}

// Execute runs the purge
func (j *NotificationPurgeJob) Execute(ctx context.Context) error {
	purged, err := j.notifications.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}
	if purged > 0 {
		log.Printf("Purged %d expired notifications", purged)
	}
	return nil
}

func (j *NotificationPurgeJob) Name() string { return "notification_purge" }

func (j *NotificationPurgeJob) Description() string {
	return "Expired notification purge"
}

// MaintenanceJobs builds the standard nightly job batch. Used as the
// scheduler's job provider.
func MaintenanceJobs(notifications *notification.Service) func(context.Context) ([]Job, error) {
	return func(context.Context) ([]Job, error) {
		return []Job{
			NewDeadlineReminderJob(notifications),
			NewNotificationPurgeJob(notifications),
		}, nil
	}
}
