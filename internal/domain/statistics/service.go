package statistics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"centavo/internal/domain/category"
	"centavo/internal/domain/transaction"
)

// Periods for the yearly time series
const (
	PeriodMonth = "month"
	PeriodWeek  = "week"
)

const weeksPerYear = 52

var ErrInvalidPeriod = errors.New("period must be 'week' or 'month'")

var monthNames = [12]string{
	"Tháng 1", "Tháng 2", "Tháng 3", "Tháng 4",
	"Tháng 5", "Tháng 6", "Tháng 7", "Tháng 8",
	"Tháng 9", "Tháng 10", "Tháng 11", "Tháng 12",
}

// TimePoint is one bucket of the yearly income/expense series
type TimePoint struct {
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategorySlice is one wedge of a category breakdown pie
type CategorySlice struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Summary totals a year's categorized income and expense
type Summary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
}

// Report is the full yearly statistics payload
type Report struct {
	Year                int              `json:"year"`
	Period              string           `json:"period"`
	TimeSeriesData      []*TimePoint     `json:"timeSeriesData"`
	CategoryIncomeData  []*CategorySlice `json:"categoryIncomeData"`
	CategoryExpenseData []*CategorySlice `json:"categoryExpenseData"`
	Summary             Summary          `json:"summary"`
}

// Query narrows a statistics report
type Query struct {
	Year     int
	Period   string
	WalletID string
}

// Service computes yearly statistics as a pure function of the stored
// transactions.
type Service struct {
	entries transaction.Repository
}

// NewService creates a new statistics service
func NewService(entries transaction.Repository) *Service {
	return &Service{entries: entries}
}

// YearlyReport buckets a year's transactions by week or month and
// breaks them down by category. Savings entries carry no category and
// count as expense in the time series but stay out of the categorized
// summary and pies.
func (s *Service) YearlyReport(ctx context.Context, userID int64, q Query) (*Report, error) {
	if q.Year == 0 {
		q.Year = time.Now().Year()
	}
	if q.Period == "" {
		q.Period = PeriodMonth
	}
	if q.Period != PeriodWeek && q.Period != PeriodMonth {
		return nil, ErrInvalidPeriod
	}

	entries, err := s.entries.ListByYear(ctx, userID, q.Year, q.WalletID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions for %d: %w", q.Year, err)
	}

	report := &Report{
		Year:   q.Year,
		Period: q.Period,
		Summary: Summary{
			TotalIncome:  decimal.Zero,
			TotalExpense: decimal.Zero,
		},
	}

	if q.Period == PeriodWeek {
		report.TimeSeriesData = weeklySeries(entries)
	} else {
		report.TimeSeriesData = monthlySeries(entries)
	}

	report.CategoryIncomeData, report.CategoryExpenseData = categoryBreakdown(entries)

	for _, e := range entries {
		switch e.CategoryType {
		case category.TypeIncome:
			report.Summary.TotalIncome = report.Summary.TotalIncome.Add(e.Amount)
		case category.TypeExpense:
			report.Summary.TotalExpense = report.Summary.TotalExpense.Add(e.Amount)
		}
	}
	report.Summary.Balance = report.Summary.TotalIncome.Sub(report.Summary.TotalExpense)

	return report, nil
}

func monthlySeries(entries []*transaction.View) []*TimePoint {
	points := make([]*TimePoint, 12)
	for m := 0; m < 12; m++ {
		points[m] = &TimePoint{Label: monthNames[m], Income: decimal.Zero, Expense: decimal.Zero}
	}
	for _, e := range entries {
		m := int(e.TransactionDate.Month()) - 1
		addToPoint(points[m], e)
	}
	return points
}

func weeklySeries(entries []*transaction.View) []*TimePoint {
	points := make([]*TimePoint, weeksPerYear)
	for w := 0; w < weeksPerYear; w++ {
		points[w] = &TimePoint{Label: fmt.Sprintf("Tuần %d", w+1), Income: decimal.Zero, Expense: decimal.Zero}
	}
	for _, e := range entries {
		w := WeekOfYear(e.TransactionDate)
		if w < 1 || w > weeksPerYear {
			continue
		}
		addToPoint(points[w-1], e)
	}
	return points
}

func addToPoint(p *TimePoint, e *transaction.View) {
	if e.CategoryType == category.TypeIncome {
		p.Income = p.Income.Add(e.Amount)
	} else {
		p.Expense = p.Expense.Add(e.Amount)
	}
}

// WeekOfYear numbers weeks from January 1st's calendar row, not ISO
// 8601: week = ceil((dayOfYear + weekday(Jan 1) + 1) / 7). Days that
// fall past week 52 are dropped by the caller.
func WeekOfYear(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	days := t.YearDay() - 1
	return (days + int(jan1.Weekday()) + 1 + 6) / 7
}

func categoryBreakdown(entries []*transaction.View) (income, expense []*CategorySlice) {
	type bucket struct {
		slice *CategorySlice
		order int
	}
	incomeByID := make(map[string]*bucket)
	expenseByID := make(map[string]*bucket)
	var nextOrder int

	for _, e := range entries {
		if e.CategoryID == nil {
			continue
		}
		var byID map[string]*bucket
		switch e.CategoryType {
		case category.TypeIncome:
			byID = incomeByID
		case category.TypeExpense:
			byID = expenseByID
		default:
			continue
		}
		b, ok := byID[*e.CategoryID]
		if !ok {
			b = &bucket{slice: &CategorySlice{Name: e.CategoryName, Value: decimal.Zero}, order: nextOrder}
			nextOrder++
			byID[*e.CategoryID] = b
		}
		b.slice.Value = b.slice.Value.Add(e.Amount)
	}

	collect := func(byID map[string]*bucket) []*CategorySlice {
		ordered := make([]*bucket, 0, len(byID))
		for _, b := range byID {
			if b.slice.Value.IsPositive() {
				ordered = append(ordered, b)
			}
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].order < ordered[j].order })
		slices := make([]*CategorySlice, len(ordered))
		for i, b := range ordered {
			slices[i] = b.slice
		}
		return slices
	}
	return collect(incomeByID), collect(expenseByID)
}
