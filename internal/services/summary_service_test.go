package services

import (
	"testing"
	"time"

	"centavo/internal/models"
	"centavo/internal/testutil"
	"gorm.io/gorm"
)

// summaryServiceAt builds a summary service with a frozen clock so the
// trailing series are deterministic.
func summaryServiceAt(db *gorm.DB, now time.Time) *summaryService {
	return &summaryService{db: db, now: func() time.Time { return now }}
}

func TestGetPeriodSummary(t *testing.T) {
	t.Run("empty_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		svc := summaryServiceAt(db, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

		summary, err := svc.GetPeriodSummary(user.ID, 2024, 3)
		testutil.AssertNoError(t, err)

		if summary.MonthlyIncomes != 0 || summary.MonthlyExpenses != 0 {
			t.Errorf("expected zero monthly totals, got %d/%d", summary.MonthlyIncomes, summary.MonthlyExpenses)
		}
		if summary.CurrentBalance != 0 || summary.PredictedBalance != 0 {
			t.Errorf("expected zero balances, got %d/%d", summary.CurrentBalance, summary.PredictedBalance)
		}
		if len(summary.IncomesByCategory) != 0 || len(summary.ExpensesByCategory) != 0 {
			t.Error("expected empty category breakdowns")
		}
		if len(summary.ExpenseFrequency) != 7 {
			t.Errorf("expected 7 daily entries, got %d", len(summary.ExpenseFrequency))
		}
		if len(summary.IncomesVsExpenses) != 6 {
			t.Errorf("expected 6 monthly entries, got %d", len(summary.IncomesVsExpenses))
		}
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		svc := NewSummaryService(db)

		_, err := svc.GetPeriodSummary(user.ID, 2024, 13)
		testutil.AssertAppError(t, err, "INVALID_PERIOD")

		_, err = svc.GetPeriodSummary(user.ID, 2024, 0)
		testutil.AssertAppError(t, err, "INVALID_PERIOD")
	})

	t.Run("invalid_year", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		svc := NewSummaryService(db)

		_, err := svc.GetPeriodSummary(user.ID, 1800, 5)
		testutil.AssertAppError(t, err, "INVALID_PERIOD")
	})

	t.Run("defaults_to_current_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		svc := summaryServiceAt(db, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))

		summary, err := svc.GetPeriodSummary(user.ID, 0, 0)
		testutil.AssertNoError(t, err)
		if summary.Year != 2024 || summary.Month != 7 {
			t.Errorf("expected period 2024-07, got %d-%02d", summary.Year, summary.Month)
		}
	})

	t.Run("fixed_expense_accrues_per_elapsed_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		svc := summaryServiceAt(db, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

		// Fixed expense of 100.00 starting mid-January.
		start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestFixedTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, 10000, start)

		// At March: Jan, Feb, Mar have elapsed, so three occurrences.
		summary, err := svc.GetPeriodSummary(user.ID, 2024, 3)
		testutil.AssertNoError(t, err)

		if summary.MonthlyExpenses != 10000 {
			t.Errorf("expected monthly expenses 10000, got %d", summary.MonthlyExpenses)
		}
		if summary.CurrentBalance != -30000 {
			t.Errorf("expected current balance -30000, got %d", summary.CurrentBalance)
		}
		if summary.PredictedBalance != -30000 {
			t.Errorf("expected predicted balance -30000, got %d", summary.PredictedBalance)
		}
	})

	t.Run("fixed_starts_in_window_month_counts_once", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		svc := summaryServiceAt(db, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))

		start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestFixedTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, 10000, start)

		summary, err := svc.GetPeriodSummary(user.ID, 2024, 1)
		testutil.AssertNoError(t, err)

		if summary.MonthlyExpenses != 10000 {
			t.Errorf("expected monthly expenses 10000, got %d", summary.MonthlyExpenses)
		}
		if summary.CurrentBalance != -10000 {
			t.Errorf("expected current balance -10000, got %d", summary.CurrentBalance)
		}
	})

	t.Run("fixed_before_start_contributes_nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		svc := summaryServiceAt(db, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC))

		start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestFixedTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, 10000, start)

		summary, err := svc.GetPeriodSummary(user.ID, 2023, 12)
		testutil.AssertNoError(t, err)

		if summary.MonthlyExpenses != 0 {
			t.Errorf("expected monthly expenses 0, got %d", summary.MonthlyExpenses)
		}
		if summary.CurrentBalance != 0 {
			t.Errorf("expected current balance 0, got %d", summary.CurrentBalance)
		}
	})

	t.Run("fixed_income_accrues_positively", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		svc := summaryServiceAt(db, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC))

		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestFixedTransaction(t, db, user.ID, account.ID, models.TransactionTypeIncome, 500000, start)

		summary, err := svc.GetPeriodSummary(user.ID, 2024, 2)
		testutil.AssertNoError(t, err)

		if summary.MonthlyIncomes != 500000 {
			t.Errorf("expected monthly incomes 500000, got %d", summary.MonthlyIncomes)
		}
		if summary.CurrentBalance != 1000000 {
			t.Errorf("expected current balance 1000000, got %d", summary.CurrentBalance)
		}
	})

	t.Run("paid_vs_predicted_split", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		svc := summaryServiceAt(db, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

		date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionAt(t, db, user.ID, account.ID, models.TransactionTypeIncome, 20000, date)

		unpaid := &models.Transaction{
			UserID:      user.ID,
			AccountID:   account.ID,
			Type:        models.TransactionTypeExpense,
			Value:       5000,
			Description: "Pending bill",
			Date:        date,
			IsPaid:      false,
		}
		if err := db.Create(unpaid).Error; err != nil {
			t.Fatalf("failed to create unpaid transaction: %v", err)
		}

		summary, err := svc.GetPeriodSummary(user.ID, 2024, 3)
		testutil.AssertNoError(t, err)

		if summary.CurrentBalance != 20000 {
			t.Errorf("expected current balance 20000, got %d", summary.CurrentBalance)
		}
		if summary.PredictedBalance != 15000 {
			t.Errorf("expected predicted balance 15000, got %d", summary.PredictedBalance)
		}
		if summary.MonthlyExpenses != 0 {
			t.Errorf("unpaid expense should not count in monthly expenses, got %d", summary.MonthlyExpenses)
		}
		if summary.OutstandingExpenses != 5000 {
			t.Errorf("expected outstanding expenses 5000, got %d", summary.OutstandingExpenses)
		}
	})

	t.Run("outstanding_excludes_fixed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		svc := summaryServiceAt(db, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

		start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		fixed := &models.Transaction{
			UserID:      user.ID,
			AccountID:   account.ID,
			Type:        models.TransactionTypeExpense,
			Value:       10000,
			Description: "Rent",
			Date:        start,
			IsPaid:      false,
			IsFixed:     true,
		}
		if err := db.Create(fixed).Error; err != nil {
			t.Fatalf("failed to create fixed transaction: %v", err)
		}

		summary, err := svc.GetPeriodSummary(user.ID, 2024, 3)
		testutil.AssertNoError(t, err)

		if summary.OutstandingExpenses != 0 {
			t.Errorf("fixed rows must not appear in outstanding, got %d", summary.OutstandingExpenses)
		}
		if summary.MonthlyExpenses != 10000 {
			t.Errorf("expected monthly expenses 10000, got %d", summary.MonthlyExpenses)
		}
	})

	t.Run("initial_balance_respects_dashboard_flag", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestAccountWithBalance(t, db, user.ID, 100000)
		svc := summaryServiceAt(db, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

		hidden := &models.Account{
			UserID:             user.ID,
			Name:               "Hidden",
			InitialBalance:     77700,
			Color:              "#FFFFFF",
			IncludeInDashboard: false,
		}
		if err := db.Create(hidden).Error; err != nil {
			t.Fatalf("failed to create account: %v", err)
		}

		summary, err := svc.GetPeriodSummary(user.ID, 2024, 3)
		testutil.AssertNoError(t, err)

		if summary.CurrentBalance != 100000 {
			t.Errorf("expected current balance 100000, got %d", summary.CurrentBalance)
		}
	})

	t.Run("category_breakdown_merges_fixed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		svc := summaryServiceAt(db, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

		date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
		oneOff := testutil.CreateTestTransactionAt(t, db, user.ID, account.ID, models.TransactionTypeExpense, 2000, date)
		if err := db.Model(oneOff).Update("category_id", category.ID).Error; err != nil {
			t.Fatalf("failed to set category: %v", err)
		}

		fixed := testutil.CreateTestFixedTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, 3000,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		if err := db.Model(fixed).Update("category_id", category.ID).Error; err != nil {
			t.Fatalf("failed to set category: %v", err)
		}

		summary, err := svc.GetPeriodSummary(user.ID, 2024, 3)
		testutil.AssertNoError(t, err)

		if len(summary.ExpensesByCategory) != 1 {
			t.Fatalf("expected 1 expense category, got %d", len(summary.ExpensesByCategory))
		}
		entry := summary.ExpensesByCategory[0]
		if entry.Name != category.Name {
			t.Errorf("expected category %q, got %q", category.Name, entry.Name)
		}
		if entry.Total != 5000 {
			t.Errorf("expected merged total 5000, got %d", entry.Total)
		}
	})

	t.Run("uncategorized_bucket", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		svc := summaryServiceAt(db, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

		date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionAt(t, db, user.ID, account.ID, models.TransactionTypeExpense, 1500, date)

		summary, err := svc.GetPeriodSummary(user.ID, 2024, 3)
		testutil.AssertNoError(t, err)

		if len(summary.ExpensesByCategory) != 1 {
			t.Fatalf("expected 1 expense entry, got %d", len(summary.ExpensesByCategory))
		}
		entry := summary.ExpensesByCategory[0]
		if entry.Name != "Uncategorized" {
			t.Errorf("expected Uncategorized, got %q", entry.Name)
		}
		if entry.CategoryID != nil {
			t.Errorf("expected nil category ID, got %v", *entry.CategoryID)
		}
		if entry.Total != 1500 {
			t.Errorf("expected total 1500, got %d", entry.Total)
		}
	})

	t.Run("breakdown_sorted_by_total_descending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		small := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		large := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		svc := summaryServiceAt(db, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

		date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
		a := testutil.CreateTestTransactionAt(t, db, user.ID, account.ID, models.TransactionTypeExpense, 1000, date)
		b := testutil.CreateTestTransactionAt(t, db, user.ID, account.ID, models.TransactionTypeExpense, 9000, date)
		if err := db.Model(a).Update("category_id", small.ID).Error; err != nil {
			t.Fatalf("failed to set category: %v", err)
		}
		if err := db.Model(b).Update("category_id", large.ID).Error; err != nil {
			t.Fatalf("failed to set category: %v", err)
		}

		summary, err := svc.GetPeriodSummary(user.ID, 2024, 3)
		testutil.AssertNoError(t, err)

		if len(summary.ExpensesByCategory) != 2 {
			t.Fatalf("expected 2 expense entries, got %d", len(summary.ExpensesByCategory))
		}
		if summary.ExpensesByCategory[0].Total != 9000 || summary.ExpensesByCategory[1].Total != 1000 {
			t.Errorf("expected totals ordered 9000, 1000, got %d, %d",
				summary.ExpensesByCategory[0].Total, summary.ExpensesByCategory[1].Total)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 50000)
		svc := summaryServiceAt(db, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

		testutil.CreateTestFixedTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, 10000,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransactionAt(t, db, user.ID, account.ID, models.TransactionTypeIncome, 20000,
			time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

		first, err := svc.GetPeriodSummary(user.ID, 2024, 3)
		testutil.AssertNoError(t, err)
		second, err := svc.GetPeriodSummary(user.ID, 2024, 3)
		testutil.AssertNoError(t, err)

		if first.CurrentBalance != second.CurrentBalance {
			t.Errorf("summaries differ: %d vs %d", first.CurrentBalance, second.CurrentBalance)
		}
		if first.MonthlyExpenses != second.MonthlyExpenses {
			t.Errorf("monthly expenses differ: %d vs %d", first.MonthlyExpenses, second.MonthlyExpenses)
		}
	})

	t.Run("user_isolation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user1.ID)
		svc := summaryServiceAt(db, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

		testutil.CreateTestTransactionAt(t, db, user1.ID, account.ID, models.TransactionTypeIncome, 90000,
			time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

		summary, err := svc.GetPeriodSummary(user2.ID, 2024, 3)
		testutil.AssertNoError(t, err)
		if summary.CurrentBalance != 0 || summary.MonthlyIncomes != 0 {
			t.Errorf("user2 summary leaked user1 data: balance %d, incomes %d",
				summary.CurrentBalance, summary.MonthlyIncomes)
		}
	})
}

func TestExpenseFrequency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID)

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	svc := summaryServiceAt(db, now)

	// One expense today, one three days ago, one eight days ago (outside
	// the 7-day window).
	testutil.CreateTestTransactionAt(t, db, user.ID, account.ID, models.TransactionTypeExpense, 1000,
		time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC))
	testutil.CreateTestTransactionAt(t, db, user.ID, account.ID, models.TransactionTypeExpense, 2000,
		time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC))
	testutil.CreateTestTransactionAt(t, db, user.ID, account.ID, models.TransactionTypeExpense, 4000,
		time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC))

	summary, err := svc.GetPeriodSummary(user.ID, 2024, 3)
	testutil.AssertNoError(t, err)

	freq := summary.ExpenseFrequency
	if len(freq) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(freq))
	}
	if freq[0].Date != "2024-03-09" || freq[6].Date != "2024-03-15" {
		t.Errorf("expected window 2024-03-09..2024-03-15, got %s..%s", freq[0].Date, freq[6].Date)
	}
	if freq[6].Total != 1000 {
		t.Errorf("expected today total 1000, got %d", freq[6].Total)
	}
	if freq[3].Total != 2000 {
		t.Errorf("expected 2024-03-12 total 2000, got %d", freq[3].Total)
	}
	for _, entry := range freq {
		if entry.Date == "2024-03-07" {
			t.Error("2024-03-07 must be outside the window")
		}
	}
}

func TestIncomesVsExpenses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID)

	now := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	svc := summaryServiceAt(db, now)

	testutil.CreateTestTransactionAt(t, db, user.ID, account.ID, models.TransactionTypeIncome, 50000,
		time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC))
	testutil.CreateTestFixedTransaction(t, db, user.ID, account.ID, models.TransactionTypeExpense, 10000,
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	summary, err := svc.GetPeriodSummary(user.ID, 2024, 6)
	testutil.AssertNoError(t, err)

	series := summary.IncomesVsExpenses
	if len(series) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(series))
	}
	if series[0].Month != "Jan 2024" || series[5].Month != "Jun 2024" {
		t.Errorf("expected Jan 2024..Jun 2024, got %s..%s", series[0].Month, series[5].Month)
	}
	// April: the one-off income only.
	if series[3].Incomes != 50000 || series[3].Expenses != 0 {
		t.Errorf("expected Apr 50000/0, got %d/%d", series[3].Incomes, series[3].Expenses)
	}
	// May and June each carry one month of the fixed expense.
	if series[4].Expenses != 10000 {
		t.Errorf("expected May expenses 10000, got %d", series[4].Expenses)
	}
	if series[5].Expenses != 10000 {
		t.Errorf("expected Jun expenses 10000, got %d", series[5].Expenses)
	}
	// March predates the fixed start.
	if series[2].Expenses != 0 {
		t.Errorf("expected Mar expenses 0, got %d", series[2].Expenses)
	}
}

func TestFixedOccurrences(t *testing.T) {
	loc := time.UTC
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, loc)

	tests := []struct {
		name string
		end  time.Time
		want int64
	}{
		{"same_month", time.Date(2024, 1, 31, 23, 59, 59, 0, loc), 1},
		{"two_months_later", time.Date(2024, 3, 31, 23, 59, 59, 0, loc), 3},
		{"year_boundary", time.Date(2025, 1, 31, 23, 59, 59, 0, loc), 13},
		{"before_start", time.Date(2023, 12, 31, 23, 59, 59, 0, loc), 0},
		{"end_day_before_start_day_same_month_count", time.Date(2024, 2, 1, 0, 0, 0, 0, loc), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fixedOccurrences(start, tt.end); got != tt.want {
				t.Errorf("fixedOccurrences(%v, %v) = %d, want %d", start, tt.end, got, tt.want)
			}
		})
	}
}
