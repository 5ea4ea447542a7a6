package services

import (
	"testing"
	"time"

	"foliotrack/internal/models"
	"foliotrack/internal/pagination"
	"foliotrack/internal/testutil"
)

func TestCreatePortfolio(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		user := testutil.CreateTestUser(t, db)

		p, err := svc.CreatePortfolio(user.ID, "Retirement", "Long-term holdings", 25000)
		testutil.AssertNoError(t, err)

		if p.ID == "" {
			t.Fatal("expected non-empty portfolio ID")
		}
		if p.Name != "Retirement" {
			t.Errorf("expected name Retirement, got %s", p.Name)
		}
		testutil.AssertFloat(t, "initial_capital", p.InitialCapital, 25000)
	})

	t.Run("blank_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreatePortfolio(user.ID, "   ", "", 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_initial_capital", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreatePortfolio(user.ID, "Bad", "", -1)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetPortfolioByID(t *testing.T) {
	t.Run("owner_can_read", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		user := testutil.CreateTestUser(t, db)
		p := testutil.CreateTestPortfolio(t, db, user.ID)

		got, err := svc.GetPortfolioByID(user.ID, p.ID)
		testutil.AssertNoError(t, err)
		if got.ID != p.ID {
			t.Errorf("expected portfolio %s, got %s", p.ID, got.ID)
		}
	})

	t.Run("other_user_sees_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		p := testutil.CreateTestPortfolio(t, db, owner.ID)

		_, err := svc.GetPortfolioByID(intruder.ID, p.ID)
		testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")
	})

	t.Run("missing_portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetPortfolioByID(user.ID, "00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")
	})
}

func TestGetUserPortfolios(t *testing.T) {
	t.Run("paginated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		user := testutil.CreateTestUser(t, db)
		for i := 0; i < 3; i++ {
			testutil.CreateTestPortfolio(t, db, user.ID)
		}

		result, err := svc.GetUserPortfolios(user.ID, pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 3 {
			t.Errorf("expected 3 total items, got %d", result.TotalItems)
		}
		if len(result.Data) != 2 {
			t.Errorf("expected 2 items on page, got %d", len(result.Data))
		}
		if result.TotalPages != 2 {
			t.Errorf("expected 2 total pages, got %d", result.TotalPages)
		}
	})

	t.Run("excludes_other_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		testutil.CreateTestPortfolio(t, db, user1.ID)
		testutil.CreateTestPortfolio(t, db, user2.ID)

		result, err := svc.GetUserPortfolios(user1.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 portfolio, got %d", result.TotalItems)
		}
	})
}

func TestUpdatePortfolio(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		user := testutil.CreateTestUser(t, db)
		p := testutil.CreateTestPortfolio(t, db, user.ID)

		capital := 50000.0
		updated, err := svc.UpdatePortfolio(user.ID, p.ID, "Renamed", "", &capital)
		testutil.AssertNoError(t, err)

		reloaded, err := svc.GetPortfolioByID(user.ID, updated.ID)
		testutil.AssertNoError(t, err)
		if reloaded.Name != "Renamed" {
			t.Errorf("expected name Renamed, got %s", reloaded.Name)
		}
		testutil.AssertFloat(t, "initial_capital", reloaded.InitialCapital, 50000)
	})

	t.Run("wrong_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		p := testutil.CreateTestPortfolio(t, db, owner.ID)

		_, err := svc.UpdatePortfolio(intruder.ID, p.ID, "Hijacked", "", nil)
		testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")
	})
}

func TestDeletePortfolio(t *testing.T) {
	t.Run("removes_portfolio_and_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		user := testutil.CreateTestUser(t, db)
		p := testutil.CreateTestPortfolio(t, db, user.ID)
		stock := testutil.CreateTestStock(t, db, "Technology")
		testutil.CreateTestTransaction(t, db, p.ID, stock.ID, models.TransactionTypeBuy, 10, 100, time.Now())

		err := svc.DeletePortfolio(user.ID, p.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.GetPortfolioByID(user.ID, p.ID)
		testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")

		var count int64
		if err := db.Model(&models.Transaction{}).Where("portfolio_id = ?", p.ID).Count(&count).Error; err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 0 {
			t.Errorf("expected owned transactions to be deleted, found %d", count)
		}
	})

	t.Run("wrong_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		p := testutil.CreateTestPortfolio(t, db, owner.ID)

		err := svc.DeletePortfolio(intruder.ID, p.ID)
		testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")
	})
}
