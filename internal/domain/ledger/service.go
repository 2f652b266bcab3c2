package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"centavo/internal/domain/category"
	"centavo/internal/domain/savings"
	"centavo/internal/domain/transaction"
	"centavo/internal/domain/wallet"
)

// Domain errors
var (
	ErrSameWallet        = errors.New("source and destination wallets must differ")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)

// InsufficientFundsError carries the current balance so the caller can
// correct the amount and retry.
type InsufficientFundsError struct {
	Current decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance: current balance is %s", e.Current.String())
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// Alerter re-derives notification state after a ledger mutation.
// Implemented by the notification service.
type Alerter interface {
	// BudgetChanged re-checks the budgets of one category
	BudgetChanged(ctx context.Context, userID int64, categoryID string)

	// GoalChanged re-checks a goal's milestones
	GoalChanged(ctx context.Context, userID int64, goalID string)

	// GoalWithdrawn retracts milestone notifications crossed on the way
	// down, then re-checks the goal.
	GoalWithdrawn(ctx context.Context, userID int64, goalID string, prevPct, newPct int)
}

// Service is the ledger engine. It owns every mutation that touches
// wallet balances, the transaction log, or savings goal progress, and
// keeps them mutually consistent: each operation is one atomic store
// transaction, with row locks serializing writers on the same wallet
// or goal.
type Service struct {
	store  Store
	alerts Alerter
}

// NewService creates a new ledger service
func NewService(store Store, alerts Alerter) *Service {
	return &Service{store: store, alerts: alerts}
}

// RecordParams describes a normal income/expense entry
type RecordParams struct {
	UserID          int64
	CategoryID      string
	WalletID        string
	Amount          decimal.Decimal
	Note            string
	TransactionDate time.Time
}

// Record creates a normal transaction and applies its signed amount to
// the wallet balance. The sign comes from the category type: income
// credits, expense debits. Wallets may go negative here (credit cards).
func (s *Service) Record(ctx context.Context, params RecordParams) (*transaction.Transaction, error) {
	if !params.Amount.IsPositive() {
		return nil, transaction.ErrInvalidAmount
	}
	if params.CategoryID == "" || params.WalletID == "" {
		return nil, errors.New("category and wallet are required")
	}
	if params.TransactionDate.IsZero() {
		return nil, errors.New("transaction date is required")
	}

	var entry *transaction.Transaction
	err := s.store.Atomic(ctx, func(ops Ops) error {
		cat, err := ops.GetCategory(ctx, params.CategoryID, params.UserID)
		if err != nil {
			return err
		}
		w, err := ops.WalletForUpdate(ctx, params.WalletID, params.UserID)
		if err != nil {
			return err
		}
		if !w.IsActive {
			return wallet.ErrWalletNotFound
		}

		entry, err = ops.InsertEntry(ctx, transaction.CreateParams{
			ID:              uuid.NewString(),
			UserID:          params.UserID,
			CategoryID:      &cat.ID,
			WalletID:        w.ID,
			Amount:          params.Amount,
			Note:            params.Note,
			TransactionDate: params.TransactionDate,
			Kind:            transaction.KindNormal,
		})
		if err != nil {
			return err
		}
		return ops.AddWalletBalance(ctx, w.ID, signedAmount(params.Amount, cat.Type))
	})
	if err != nil {
		return nil, err
	}

	s.alerts.BudgetChanged(ctx, params.UserID, params.CategoryID)
	return entry, nil
}

// Delete removes a transaction, reversing its balance effect exactly.
// Savings-tagged entries are rejected: deleting one would credit the
// wallet without touching the goal, minting money. Deleting either leg
// of a transfer removes both legs and reverses both balances, so the
// pairing invariant survives.
func (s *Service) Delete(ctx context.Context, entryID string, userID int64) error {
	var categoryIDs []string
	err := s.store.Atomic(ctx, func(ops Ops) error {
		entry, err := ops.GetEntry(ctx, entryID, userID)
		if err != nil {
			return err
		}
		if entry.SavingsGoalID != nil {
			return transaction.ErrSavingsEntry
		}

		if entry.TransferID != nil {
			legs, err := ops.ListEntriesByTransferID(ctx, *entry.TransferID, userID)
			if err != nil {
				return err
			}
			for _, leg := range legs {
				if err := s.reverseEntry(ctx, ops, leg, userID); err != nil {
					return err
				}
				if leg.CategoryID != nil {
					categoryIDs = append(categoryIDs, *leg.CategoryID)
				}
			}
			return nil
		}

		if err := s.reverseEntry(ctx, ops, entry, userID); err != nil {
			return err
		}
		if entry.CategoryID != nil {
			categoryIDs = append(categoryIDs, *entry.CategoryID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, id := range categoryIDs {
		s.alerts.BudgetChanged(ctx, userID, id)
	}
	return nil
}

// reverseEntry applies the negated signed delta of an entry to its
// wallet and deletes the row. Exact inverse of creation: amounts are
// stored as exact decimal magnitudes, so there is no drift.
func (s *Service) reverseEntry(ctx context.Context, ops Ops, entry *transaction.Transaction, userID int64) error {
	if _, err := ops.WalletForUpdate(ctx, entry.WalletID, userID); err != nil {
		return err
	}

	var delta decimal.Decimal
	switch entry.Kind {
	case transaction.KindTransferOut:
		delta = entry.Amount
	case transaction.KindTransferIn:
		delta = entry.Amount.Neg()
	default:
		if entry.CategoryID == nil {
			return transaction.ErrSavingsEntry
		}
		cat, err := ops.GetCategory(ctx, *entry.CategoryID, userID)
		if err != nil {
			return err
		}
		delta = signedAmount(entry.Amount, cat.Type).Neg()
	}

	if err := ops.AddWalletBalance(ctx, entry.WalletID, delta); err != nil {
		return err
	}
	return ops.DeleteEntry(ctx, entry.ID)
}

// TransferParams describes a wallet-to-wallet movement
type TransferParams struct {
	UserID       int64
	FromWalletID string
	ToWalletID   string
	Amount       decimal.Decimal
	Note         string
}

// TransferResult is the full outcome of a transfer
type TransferResult struct {
	FromWallet *wallet.Wallet           `json:"fromWallet"`
	ToWallet   *wallet.Wallet           `json:"toWallet"`
	Out        *transaction.Transaction `json:"out"`
	In         *transaction.Transaction `json:"in"`
}

// Transfer moves money between two wallets of the same owner: debit,
// credit, and the two linked ledger entries sharing one transferId, all
// in a single atomic transaction. Unlike a normal debit, a transfer is
// rejected when the source balance does not cover the amount.
func (s *Service) Transfer(ctx context.Context, params TransferParams) (*TransferResult, error) {
	if !params.Amount.IsPositive() {
		return nil, transaction.ErrInvalidAmount
	}
	if params.FromWalletID == "" || params.ToWalletID == "" {
		return nil, errors.New("source and destination wallets are required")
	}
	if params.FromWalletID == params.ToWalletID {
		return nil, ErrSameWallet
	}

	result := &TransferResult{}
	err := s.store.Atomic(ctx, func(ops Ops) error {
		// Lock in ascending ID order so two opposite transfers between
		// the same pair cannot deadlock.
		firstID, secondID := params.FromWalletID, params.ToWalletID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}
		locked := make(map[string]*wallet.Wallet, 2)
		for _, id := range []string{firstID, secondID} {
			w, err := ops.WalletForUpdate(ctx, id, params.UserID)
			if err != nil {
				return err
			}
			if !w.IsActive {
				return wallet.ErrWalletNotFound
			}
			locked[id] = w
		}
		from, to := locked[params.FromWalletID], locked[params.ToWalletID]

		if from.Balance.LessThan(params.Amount) {
			return &InsufficientFundsError{Current: from.Balance}
		}

		outCat, err := ops.EnsureSystemCategory(ctx, params.UserID, category.TransferOutName, category.TypeExpense)
		if err != nil {
			return err
		}
		inCat, err := ops.EnsureSystemCategory(ctx, params.UserID, category.TransferInName, category.TypeIncome)
		if err != nil {
			return err
		}

		transferID := uuid.NewString()
		now := time.Now()
		note := params.Note
		if note == "" {
			note = fmt.Sprintf("Chuyển từ %s sang %s", from.Name, to.Name)
		}

		result.Out, err = ops.InsertEntry(ctx, transaction.CreateParams{
			ID:              uuid.NewString(),
			UserID:          params.UserID,
			CategoryID:      &outCat.ID,
			WalletID:        from.ID,
			Amount:          params.Amount,
			Note:            note + " (Chuyển ra)",
			TransactionDate: now,
			Kind:            transaction.KindTransferOut,
			TransferID:      &transferID,
			RelatedWalletID: &to.ID,
		})
		if err != nil {
			return err
		}
		result.In, err = ops.InsertEntry(ctx, transaction.CreateParams{
			ID:              uuid.NewString(),
			UserID:          params.UserID,
			CategoryID:      &inCat.ID,
			WalletID:        to.ID,
			Amount:          params.Amount,
			Note:            note + " (Nhận vào)",
			TransactionDate: now,
			Kind:            transaction.KindTransferIn,
			TransferID:      &transferID,
			RelatedWalletID: &from.ID,
		})
		if err != nil {
			return err
		}

		if err := ops.AddWalletBalance(ctx, from.ID, params.Amount.Neg()); err != nil {
			return err
		}
		if err := ops.AddWalletBalance(ctx, to.ID, params.Amount); err != nil {
			return err
		}

		fromAfter := *from
		fromAfter.Balance = from.Balance.Sub(params.Amount)
		toAfter := *to
		toAfter.Balance = to.Balance.Add(params.Amount)
		result.FromWallet, result.ToWallet = &fromAfter, &toAfter
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SavingsParams describes a contribution to or withdrawal from a goal
type SavingsParams struct {
	UserID   int64
	GoalID   string
	WalletID string
	Amount   decimal.Decimal
	Note     string
}

// SavingsResult is the outcome of a contribution or withdrawal
type SavingsResult struct {
	Goal  *savings.Goal            `json:"goal"`
	Entry *transaction.Transaction `json:"transaction"`
}

// Contribute moves money from a wallet into an active goal. Reaching
// the target flips the goal to completed; the transition is one-way on
// this path.
func (s *Service) Contribute(ctx context.Context, params SavingsParams) (*SavingsResult, error) {
	if !params.Amount.IsPositive() {
		return nil, transaction.ErrInvalidAmount
	}
	if params.WalletID == "" {
		return nil, errors.New("wallet is required")
	}

	result := &SavingsResult{}
	err := s.store.Atomic(ctx, func(ops Ops) error {
		goal, err := ops.GoalForUpdate(ctx, params.GoalID, params.UserID)
		if err != nil {
			return err
		}
		if goal.Status != savings.StatusActive {
			return savings.ErrGoalNotActive
		}
		w, err := ops.WalletForUpdate(ctx, params.WalletID, params.UserID)
		if err != nil {
			return err
		}
		if w.Balance.LessThan(params.Amount) {
			return &InsufficientFundsError{Current: w.Balance}
		}

		note := params.Note
		if note == "" {
			note = "Đóng góp vào mục tiêu: " + goal.Name
		}
		result.Entry, err = ops.InsertEntry(ctx, transaction.CreateParams{
			ID:              uuid.NewString(),
			UserID:          params.UserID,
			CategoryName:    transaction.SavingsCategoryName,
			WalletID:        w.ID,
			Amount:          params.Amount,
			Note:            note,
			TransactionDate: time.Now(),
			Kind:            transaction.KindNormal,
			SavingsGoalID:   &goal.ID,
		})
		if err != nil {
			return err
		}
		if err := ops.AddWalletBalance(ctx, w.ID, params.Amount.Neg()); err != nil {
			return err
		}

		after := *goal
		after.CurrentAmount = goal.CurrentAmount.Add(params.Amount)
		if after.CurrentAmount.GreaterThanOrEqual(after.TargetAmount) {
			after.Status = savings.StatusCompleted
			now := time.Now()
			after.CompletedAt = &now
		}
		if err := ops.SetGoalProgress(ctx, goal.ID, after.CurrentAmount, after.WithdrawnAmount, after.Status, after.CompletedAt); err != nil {
			return err
		}
		result.Goal = &after
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.alerts.GoalChanged(ctx, params.UserID, params.GoalID)
	return result, nil
}

// Withdraw moves money from a goal back into a wallet. The pre/post
// percentages decide whether a 50%/75% milestone notification has to be
// retracted.
func (s *Service) Withdraw(ctx context.Context, params SavingsParams) (*SavingsResult, error) {
	if !params.Amount.IsPositive() {
		return nil, transaction.ErrInvalidAmount
	}
	if params.WalletID == "" {
		return nil, errors.New("wallet is required")
	}

	result := &SavingsResult{}
	var prevPct, newPct int
	var stillActive bool
	err := s.store.Atomic(ctx, func(ops Ops) error {
		goal, err := ops.GoalForUpdate(ctx, params.GoalID, params.UserID)
		if err != nil {
			return err
		}
		if goal.CurrentAmount.LessThan(params.Amount) {
			return &savings.InsufficientGoalError{Current: goal.CurrentAmount}
		}
		w, err := ops.WalletForUpdate(ctx, params.WalletID, params.UserID)
		if err != nil {
			return err
		}

		note := params.Note
		if note == "" {
			note = "Rút từ mục tiêu: " + goal.Name
		}
		result.Entry, err = ops.InsertEntry(ctx, transaction.CreateParams{
			ID:              uuid.NewString(),
			UserID:          params.UserID,
			CategoryName:    transaction.WithdrawalCategoryName,
			WalletID:        w.ID,
			Amount:          params.Amount,
			Note:            note,
			TransactionDate: time.Now(),
			Kind:            transaction.KindNormal,
			SavingsGoalID:   &goal.ID,
		})
		if err != nil {
			return err
		}
		if err := ops.AddWalletBalance(ctx, w.ID, params.Amount); err != nil {
			return err
		}

		after := *goal
		after.CurrentAmount = goal.CurrentAmount.Sub(params.Amount)
		after.WithdrawnAmount = goal.WithdrawnAmount.Add(params.Amount)
		if err := ops.SetGoalProgress(ctx, goal.ID, after.CurrentAmount, after.WithdrawnAmount, after.Status, after.CompletedAt); err != nil {
			return err
		}

		prevPct = savings.ProgressPercent(goal.CurrentAmount, goal.TargetAmount)
		newPct = savings.ProgressPercent(after.CurrentAmount, after.TargetAmount)
		stillActive = after.Status == savings.StatusActive
		result.Goal = &after
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stillActive {
		s.alerts.GoalWithdrawn(ctx, params.UserID, params.GoalID, prevPct, newPct)
	} else {
		s.alerts.GoalChanged(ctx, params.UserID, params.GoalID)
	}
	return result, nil
}

// signedAmount converts a positive magnitude into a signed balance
// delta: income credits, everything else debits.
func signedAmount(amount decimal.Decimal, categoryType string) decimal.Decimal {
	if categoryType == category.TypeIncome {
		return amount
	}
	return amount.Neg()
}

// NopAlerter discards alert re-checks. Used in tests and tools that
// exercise the ledger without a notification pipeline.
type NopAlerter struct{}

func (NopAlerter) BudgetChanged(context.Context, int64, string)           {}
func (NopAlerter) GoalChanged(context.Context, int64, string)             {}
func (NopAlerter) GoalWithdrawn(context.Context, int64, string, int, int) {}

var _ Alerter = NopAlerter{}
