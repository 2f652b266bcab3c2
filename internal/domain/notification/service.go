package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"centavo/internal/domain/budget"
	"centavo/internal/domain/savings"
	"centavo/internal/domain/transaction"
)

// Milestone and retraction boundaries, in percent of the target
const (
	milestoneHalf      = 50
	milestoneNear      = 75
	budgetReminderDays = 3
	goalReminderDays   = 7
)

// Service derives notifications from ledger state. The check methods
// are called after committed ledger mutations and must never fail the
// mutation: errors are logged and swallowed.
type Service struct {
	repo    Repository
	budgets budget.Repository
	goals   savings.Repository
	entries transaction.Repository

	now func() time.Time
}

// NewService creates a new notification service
func NewService(repo Repository, budgets budget.Repository, goals savings.Repository, entries transaction.Repository) *Service {
	return &Service{
		repo:    repo,
		budgets: budgets,
		goals:   goals,
		entries: entries,
		now:     time.Now,
	}
}

// upsert stores a notification unless an identical (owner, type,
// related) tuple already exists inside the dedup window, in which case
// the existing row is returned unchanged.
func (s *Service) upsert(ctx context.Context, params CreateParams) (*Notification, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	existing, err := s.repo.FindRecent(ctx, params.UserID, params.Type, params.RelatedID, params.RelatedType, now.Add(-DedupWindow))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotificationNotFound) {
		return nil, err
	}

	return s.repo.Create(ctx, params, now.Add(TTL))
}

// BudgetChanged re-derives the notification state of every budget of
// one category whose period covers now.
func (s *Service) BudgetChanged(ctx context.Context, userID int64, categoryID string) {
	budgets, err := s.budgets.ListActiveByCategory(ctx, userID, categoryID, s.now())
	if err != nil {
		log.Printf("notification: budget check for category %s: %v", categoryID, err)
		return
	}

	for _, b := range budgets {
		spent, err := s.entries.SumByCategory(ctx, userID, b.CategoryID, b.StartDate, b.EndDate)
		if err != nil {
			log.Printf("notification: budget %s spent sum: %v", b.ID, err)
			continue
		}
		if err := s.applyBudgetState(ctx, b, spent); err != nil {
			log.Printf("notification: budget %s state: %v", b.ID, err)
		}
	}
}

func (s *Service) applyBudgetState(ctx context.Context, b *budget.Budget, spent decimal.Decimal) error {
	pct := budget.Percentage(spent, b.Amount)

	if pct < float64(b.WarningThreshold) {
		return s.repo.DeleteByRelated(ctx, b.UserID, []string{TypeBudgetWarning, TypeBudgetExceeded}, b.ID)
	}

	data := map[string]string{
		"budgetId":     b.ID,
		"categoryName": b.CategoryName,
		"percentage":   strconv.FormatFloat(pct, 'f', 1, 64),
		"spent":        spent.String(),
		"amount":       b.Amount.String(),
	}

	if pct >= 100 {
		_, err := s.upsert(ctx, CreateParams{
			UserID:      b.UserID,
			Type:        TypeBudgetExceeded,
			Title:       "🚨 Vượt ngân sách",
			Message:     fmt.Sprintf("Ngân sách %q đã vượt quá %d%%", b.CategoryName, int(math.Round(pct))),
			RelatedID:   b.ID,
			RelatedType: RelatedBudget,
			Data:        data,
		})
		return err
	}

	data["warningThreshold"] = strconv.Itoa(b.WarningThreshold)
	_, err := s.upsert(ctx, CreateParams{
		UserID:      b.UserID,
		Type:        TypeBudgetWarning,
		Title:       "⚠️ Cảnh báo ngân sách",
		Message:     fmt.Sprintf("Ngân sách %q đã đạt %d%%", b.CategoryName, int(math.Round(pct))),
		RelatedID:   b.ID,
		RelatedType: RelatedBudget,
		Data:        data,
	})
	return err
}

// GoalChanged re-derives the milestone notification state of a goal
func (s *Service) GoalChanged(ctx context.Context, userID int64, goalID string) {
	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil || goal.UserID != userID {
		log.Printf("notification: goal check %s: %v", goalID, err)
		return
	}
	if err := s.applyGoalState(ctx, goal); err != nil {
		log.Printf("notification: goal %s state: %v", goalID, err)
	}
}

func (s *Service) applyGoalState(ctx context.Context, goal *savings.Goal) error {
	pct := goal.Percentage()

	if pct < milestoneHalf {
		return s.repo.DeleteByRelated(ctx, goal.UserID, []string{TypeSavingsMilestone, TypeSavingsCompleted}, goal.ID)
	}

	data := map[string]string{
		"goalId":     goal.ID,
		"goalName":   goal.Name,
		"percentage": strconv.Itoa(pct),
	}

	switch {
	case pct >= 100:
		data["targetAmount"] = goal.TargetAmount.String()
		data["currentAmount"] = goal.CurrentAmount.String()
		_, err := s.upsert(ctx, CreateParams{
			UserID:      goal.UserID,
			Type:        TypeSavingsCompleted,
			Title:       "🏆 Hoàn thành mục tiêu",
			Message:     fmt.Sprintf("Chúc mừng! Bạn đã hoàn thành mục tiêu %q", goal.Name),
			RelatedID:   goal.ID,
			RelatedType: RelatedSavingsGoal,
			Data:        data,
		})
		return err
	case pct >= milestoneNear:
		data["remaining"] = goal.Remaining().String()
		_, err := s.upsert(ctx, CreateParams{
			UserID:      goal.UserID,
			Type:        TypeSavingsMilestone,
			Title:       "🎊 Sắp hoàn thành mục tiêu",
			Message:     fmt.Sprintf("Mục tiêu %q đã đạt 75%%, sắp hoàn thành rồi!", goal.Name),
			RelatedID:   goal.ID,
			RelatedType: RelatedSavingsGoal,
			Data:        data,
		})
		return err
	default:
		data["remaining"] = goal.Remaining().String()
		_, err := s.upsert(ctx, CreateParams{
			UserID:      goal.UserID,
			Type:        TypeSavingsMilestone,
			Title:       "🎉 Đạt nửa chặng đường",
			Message:     fmt.Sprintf("Mục tiêu %q đã đạt 50%%, tiếp tục phát huy nhé!", goal.Name),
			RelatedID:   goal.ID,
			RelatedType: RelatedSavingsGoal,
			Data:        data,
		})
		return err
	}
}

// GoalWithdrawn retracts milestone notifications that a withdrawal
// crossed on the way down. Dropping below 75% removes the milestone
// without re-emitting the 50% one; only a later contribution brings it
// back.
func (s *Service) GoalWithdrawn(ctx context.Context, userID int64, goalID string, prevPct, newPct int) {
	var err error
	switch {
	case newPct < milestoneHalf:
		err = s.repo.DeleteByRelated(ctx, userID, []string{TypeSavingsMilestone, TypeSavingsCompleted}, goalID)
	case prevPct >= milestoneNear && newPct < milestoneNear:
		err = s.repo.DeleteByRelated(ctx, userID, []string{TypeSavingsMilestone}, goalID)
	case prevPct >= 100 && newPct < 100:
		err = s.repo.DeleteByRelated(ctx, userID, []string{TypeSavingsCompleted}, goalID)
	}
	if err != nil {
		log.Printf("notification: goal %s retraction: %v", goalID, err)
	}
}

// RunDeadlineSweep emits reminders for budgets ending within three days
// and goals with a deadline within seven. Called daily by the
// scheduler; the dedup window keeps repeated runs from stacking rows.
func (s *Service) RunDeadlineSweep(ctx context.Context) error {
	now := s.now()

	budgets, err := s.budgets.ListEndingBetween(ctx, now, now.AddDate(0, 0, budgetReminderDays))
	if err != nil {
		return fmt.Errorf("listing ending budgets: %w", err)
	}
	for _, b := range budgets {
		daysLeft := daysUntil(now, b.EndDate)
		if _, err := s.upsert(ctx, CreateParams{
			UserID:      b.UserID,
			Type:        TypeDeadlineReminder,
			Title:       "📅 Ngân sách sắp kết thúc",
			Message:     fmt.Sprintf("Ngân sách %q sẽ kết thúc trong %d ngày", b.CategoryName, daysLeft),
			RelatedID:   b.ID,
			RelatedType: RelatedBudget,
			Data: map[string]string{
				"budgetId":     b.ID,
				"categoryName": b.CategoryName,
				"endDate":      b.EndDate.Format(time.RFC3339),
				"daysLeft":     strconv.Itoa(daysLeft),
			},
		}); err != nil {
			log.Printf("notification: budget %s reminder: %v", b.ID, err)
		}
	}

	goals, err := s.goals.ListWithDeadlineBetween(ctx, now, now.AddDate(0, 0, goalReminderDays))
	if err != nil {
		return fmt.Errorf("listing ending goals: %w", err)
	}
	for _, g := range goals {
		if g.Deadline == nil || g.Status != savings.StatusActive {
			continue
		}
		daysLeft := daysUntil(now, *g.Deadline)
		if _, err := s.upsert(ctx, CreateParams{
			UserID:      g.UserID,
			Type:        TypeDeadlineReminder,
			Title:       "⏰ Mục tiêu sắp đến hạn",
			Message:     fmt.Sprintf("Mục tiêu %q sẽ đến hạn trong %d ngày", g.Name, daysLeft),
			RelatedID:   g.ID,
			RelatedType: RelatedSavingsGoal,
			Data: map[string]string{
				"goalId":    g.ID,
				"goalName":  g.Name,
				"deadline":  g.Deadline.Format(time.RFC3339),
				"daysLeft":  strconv.Itoa(daysLeft),
				"remaining": g.Remaining().String(),
			},
		}); err != nil {
			log.Printf("notification: goal %s reminder: %v", g.ID, err)
		}
	}

	return nil
}

// PurgeExpired removes notifications past their expiry. Replaces a
// store-side TTL; called periodically by the scheduler.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}

func daysUntil(now, deadline time.Time) int {
	d := int(math.Ceil(deadline.Sub(now).Hours() / 24))
	if d < 0 {
		return 0
	}
	return d
}

// ListNotifications returns the user's newest notifications
func (s *Service) ListNotifications(ctx context.Context, userID int64, limit int) ([]*Notification, error) {
	if userID <= 0 {
		return nil, errors.New("valid user ID is required")
	}
	if limit < 1 || limit > 100 {
		limit = 15
	}
	return s.repo.ListByUserID(ctx, userID, limit)
}

// UnreadCount returns how many unread notifications the user has
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, errors.New("valid user ID is required")
	}
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead marks one notification as read
func (s *Service) MarkRead(ctx context.Context, id string, userID int64) error {
	if id == "" {
		return ErrNotificationNotFound
	}
	return s.repo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks every unread notification as read
func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// DeleteNotification removes one notification
func (s *Service) DeleteNotification(ctx context.Context, id string, userID int64) error {
	if id == "" {
		return ErrNotificationNotFound
	}
	return s.repo.Delete(ctx, id, userID)
}

// DeleteAllRead removes every read notification of the user
func (s *Service) DeleteAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.DeleteRead(ctx, userID)
}
