package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"foliotrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email. The password
// is always "password123".
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPortfolio creates a portfolio for the given user.
func CreateTestPortfolio(t *testing.T, db *gorm.DB, userID string) *models.Portfolio {
	t.Helper()

	portfolio := &models.Portfolio{
		UserID:         userID,
		Name:           fmt.Sprintf("Test Portfolio %d", nextID()),
		InitialCapital: 10000,
	}
	if err := db.Create(portfolio).Error; err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return portfolio
}

// CreateTestStock creates a stock with a unique symbol in the given sector.
func CreateTestStock(t *testing.T, db *gorm.DB, sector string) *models.Stock {
	t.Helper()

	n := nextID()
	stock := &models.Stock{
		Symbol:   fmt.Sprintf("TST%d", n),
		Name:     fmt.Sprintf("Test Stock %d", n),
		Sector:   sector,
		Currency: "USD",
	}
	if err := db.Create(stock).Error; err != nil {
		t.Fatalf("failed to create test stock: %v", err)
	}
	return stock
}

// CreateTestTransaction creates a transaction against the given portfolio
// and stock.
func CreateTestTransaction(t *testing.T, db *gorm.DB, portfolioID, stockID string, txType models.TransactionType, quantity, price float64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		PortfolioID: portfolioID,
		StockID:     stockID,
		Type:        txType,
		Quantity:    quantity,
		Price:       price,
		Date:        date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestStockPrice records a quote for the given stock.
func CreateTestStockPrice(t *testing.T, db *gorm.DB, stockID string, price float64, recordedAt time.Time) *models.StockPrice {
	t.Helper()

	sp := &models.StockPrice{
		StockID:    stockID,
		Price:      price,
		RecordedAt: recordedAt,
	}
	if err := db.Create(sp).Error; err != nil {
		t.Fatalf("failed to create test stock price: %v", err)
	}
	return sp
}
