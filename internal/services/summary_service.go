package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
)

// Fallback entry for transactions whose category is missing or was removed.
const (
	uncategorizedName  = "Uncategorized"
	uncategorizedColor = "#6B7280"
)

// summaryService computes period summaries for the dashboard. It combines
// one-off transactions, fixed monthly transactions, and materialized
// installment rows into the window-bounded aggregates of PeriodSummary.
type summaryService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB) SummaryServicer {
	return &summaryService{db: db, now: time.Now}
}

// GetPeriodSummary computes the summary for the given year and month.
// Passing zero for both selects the current calendar month. Months outside
// 1-12 and years outside 1900-2100 are rejected with ErrInvalidPeriod.
//
// The current balance uses paid transactions only; the predicted balance
// includes unpaid ones as well. Fixed transactions contribute one
// occurrence per elapsed calendar month from their start month through the
// end of the selected month.
func (s *summaryService) GetPeriodSummary(userID uint, year, month int) (*PeriodSummary, error) {
	now := s.now()

	if year == 0 && month == 0 {
		year, month = now.Year(), int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "month must be between 1 and 12")
	}
	if year < 1900 || year > 2100 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "year must be between 1900 and 2100")
	}

	startOfMonth, endOfMonth := monthWindow(year, time.Month(month), now.Location())

	summary := &PeriodSummary{Year: year, Month: month}

	// Fixed transactions started by the end of the window contribute to the
	// monthly totals, the cumulative balance, and the category breakdowns.
	fixed, err := s.fixedStartedBy(userID, endOfMonth)
	if err != nil {
		return nil, err
	}

	incomes, expenses, err := s.monthlyFlow(userID, startOfMonth, endOfMonth, fixed)
	if err != nil {
		return nil, err
	}
	summary.MonthlyIncomes = incomes
	summary.MonthlyExpenses = expenses

	// Outstanding totals: unpaid non-fixed rows inside the window. Fixed
	// transactions are treated as settled in their accrual month and never
	// show up here.
	summary.OutstandingIncomes, err = s.sumTransactions(userID, models.TransactionTypeIncome,
		"is_fixed = ? AND is_paid = ? AND date BETWEEN ? AND ?", false, false, startOfMonth, endOfMonth)
	if err != nil {
		return nil, err
	}
	summary.OutstandingExpenses, err = s.sumTransactions(userID, models.TransactionTypeExpense,
		"is_fixed = ? AND is_paid = ? AND date BETWEEN ? AND ?", false, false, startOfMonth, endOfMonth)
	if err != nil {
		return nil, err
	}

	// Cumulative balances up to the end of the window.
	initialBalance, err := s.dashboardInitialBalance(userID)
	if err != nil {
		return nil, err
	}
	paidNonFixed, err := s.signedNonFixedBalance(userID, endOfMonth, true)
	if err != nil {
		return nil, err
	}
	allNonFixed, err := s.signedNonFixedBalance(userID, endOfMonth, false)
	if err != nil {
		return nil, err
	}

	var fixedBalance int64
	for _, tx := range fixed {
		total := tx.Value * fixedOccurrences(tx.Date, endOfMonth)
		if tx.Type == models.TransactionTypeIncome {
			fixedBalance += total
		} else {
			fixedBalance -= total
		}
	}

	summary.CurrentBalance = initialBalance + paidNonFixed + fixedBalance
	summary.PredictedBalance = initialBalance + allNonFixed + fixedBalance

	summary.IncomesByCategory, err = s.categoryBreakdown(userID, models.TransactionTypeIncome, startOfMonth, endOfMonth, fixed)
	if err != nil {
		return nil, err
	}
	summary.ExpensesByCategory, err = s.categoryBreakdown(userID, models.TransactionTypeExpense, startOfMonth, endOfMonth, fixed)
	if err != nil {
		return nil, err
	}

	// The two trailing series are anchored to today, not to the selected
	// period.
	summary.ExpenseFrequency, err = s.expenseFrequency(userID, now)
	if err != nil {
		return nil, err
	}
	summary.IncomesVsExpenses, err = s.incomesVsExpenses(userID, now)
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// monthlyFlow returns the income and expense totals for one month window:
// paid non-fixed rows inside the window plus one month's value of every
// fixed transaction that has started by the window end.
func (s *summaryService) monthlyFlow(userID uint, start, end time.Time, fixed []models.Transaction) (int64, int64, error) {
	incomes, err := s.sumTransactions(userID, models.TransactionTypeIncome,
		"is_fixed = ? AND is_paid = ? AND date BETWEEN ? AND ?", false, true, start, end)
	if err != nil {
		return 0, 0, err
	}
	expenses, err := s.sumTransactions(userID, models.TransactionTypeExpense,
		"is_fixed = ? AND is_paid = ? AND date BETWEEN ? AND ?", false, true, start, end)
	if err != nil {
		return 0, 0, err
	}

	for _, tx := range fixed {
		if tx.Date.After(end) {
			continue
		}
		if tx.Type == models.TransactionTypeIncome {
			incomes += tx.Value
		} else {
			expenses += tx.Value
		}
	}
	return incomes, expenses, nil
}

// fixedStartedBy returns the user's fixed transactions whose start date is
// on or before the given instant.
func (s *summaryService) fixedStartedBy(userID uint, end time.Time) ([]models.Transaction, error) {
	var fixed []models.Transaction
	if err := s.db.
		Where("user_id = ? AND is_fixed = ? AND date <= ?", userID, true, end).
		Find(&fixed).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return fixed, nil
}

// sumTransactions sums the value of the user's transactions of one type
// under an extra condition.
func (s *summaryService) sumTransactions(userID uint, txType models.TransactionType, cond string, args ...interface{}) (int64, error) {
	var total int64
	q := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(value), 0)").
		Where("user_id = ? AND type = ?", userID, txType)
	if cond != "" {
		q = q.Where(cond, args...)
	}
	if err := q.Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// signedNonFixedBalance sums non-fixed transactions dated on or before end,
// incomes positive and expenses negative, optionally restricted to paid rows.
func (s *summaryService) signedNonFixedBalance(userID uint, end time.Time, paidOnly bool) (int64, error) {
	var total int64
	q := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN type = 'income' THEN value ELSE -value END), 0)").
		Where("user_id = ? AND is_fixed = ? AND date <= ?", userID, false, end)
	if paidOnly {
		q = q.Where("is_paid = ?", true)
	}
	if err := q.Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// dashboardInitialBalance sums the initial balance of the user's accounts
// flagged for dashboard inclusion. No flagged accounts is not an error; the
// contribution is simply zero.
func (s *summaryService) dashboardInitialBalance(userID uint) (int64, error) {
	var total int64
	if err := s.db.Model(&models.Account{}).
		Select("COALESCE(SUM(initial_balance), 0)").
		Where("user_id = ? AND include_in_dashboard = ?", userID, true).
		Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// categoryBreakdown groups paid non-fixed transactions in the window by
// category, adds one month's value of every active fixed transaction to its
// category, and joins the merged totals with category names and colors.
// Transactions without a category, or whose category no longer exists, fall
// into a single "Uncategorized" entry.
func (s *summaryService) categoryBreakdown(userID uint, txType models.TransactionType, start, end time.Time, fixed []models.Transaction) ([]CategoryTotal, error) {
	type categorySum struct {
		CategoryID *uint
		Total      int64
	}

	var rows []categorySum
	if err := s.db.Model(&models.Transaction{}).
		Select("category_id, COALESCE(SUM(value), 0) AS total").
		Where("user_id = ? AND type = ? AND is_fixed = ? AND is_paid = ? AND date BETWEEN ? AND ?",
			userID, txType, false, true, start, end).
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Category ID zero is never assigned by the database, so it doubles as
	// the bucket for uncategorized rows.
	totals := make(map[uint]int64)
	for _, row := range rows {
		if row.CategoryID == nil {
			totals[0] += row.Total
		} else {
			totals[*row.CategoryID] += row.Total
		}
	}

	for _, tx := range fixed {
		if tx.Type != txType || tx.Date.After(end) {
			continue
		}
		if tx.CategoryID == nil {
			totals[0] += tx.Value
		} else {
			totals[*tx.CategoryID] += tx.Value
		}
	}

	if len(totals) == 0 {
		return []CategoryTotal{}, nil
	}

	ids := make([]uint, 0, len(totals))
	for id := range totals {
		if id != 0 {
			ids = append(ids, id)
		}
	}

	categories := make(map[uint]models.Category, len(ids))
	if len(ids) > 0 {
		var found []models.Category
		if err := s.db.Where("user_id = ? AND id IN ?", userID, ids).Find(&found).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, cat := range found {
			categories[cat.ID] = cat
		}
	}

	result := make([]CategoryTotal, 0, len(totals))
	for id, total := range totals {
		if cat, ok := categories[id]; ok {
			catID := cat.ID
			result = append(result, CategoryTotal{
				CategoryID: &catID,
				Name:       cat.Name,
				Color:      cat.Color,
				Total:      total,
			})
			continue
		}
		result = append(result, CategoryTotal{
			Name:  uncategorizedName,
			Color: uncategorizedColor,
			Total: total,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// expenseFrequency returns the paid-expense totals for the 7 days ending
// today, oldest first.
func (s *summaryService) expenseFrequency(userID uint, now time.Time) ([]DailyExpense, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	frequency := make([]DailyExpense, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		dayEnd := day.AddDate(0, 0, 1).Add(-time.Nanosecond)

		total, err := s.sumTransactions(userID, models.TransactionTypeExpense,
			"is_paid = ? AND date BETWEEN ? AND ?", true, day, dayEnd)
		if err != nil {
			return nil, err
		}
		frequency = append(frequency, DailyExpense{
			Date:  day.Format("2006-01-02"),
			Total: total,
		})
	}
	return frequency, nil
}

// incomesVsExpenses returns the monthly income/expense totals for the 6
// calendar months ending with the current one, oldest first. Each month is
// computed with the same paid-plus-fixed rule as the selected-month totals.
func (s *summaryService) incomesVsExpenses(userID uint, now time.Time) ([]MonthlyFlow, error) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	series := make([]MonthlyFlow, 0, 6)
	for i := 5; i >= 0; i-- {
		anchor := addMonths(firstOfMonth, -i)
		start, end := monthWindow(anchor.Year(), anchor.Month(), now.Location())

		fixed, err := s.fixedStartedBy(userID, end)
		if err != nil {
			return nil, err
		}
		incomes, expenses, err := s.monthlyFlow(userID, start, end, fixed)
		if err != nil {
			return nil, err
		}

		series = append(series, MonthlyFlow{
			Month:    anchor.Format("Jan 2006"),
			Incomes:  incomes,
			Expenses: expenses,
		})
	}
	return series, nil
}
