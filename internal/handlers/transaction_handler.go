package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "foliotrack/internal/errors"
	"foliotrack/internal/models"
	"foliotrack/internal/pagination"
	"foliotrack/internal/services"
)

// TransactionHandler handles buy/sell recording and transaction listing.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the payload for recording a buy or
// sell. Stock reference fields beyond the symbol are only used when the
// symbol is seen for the first time.
type CreateTransactionRequest struct {
	Symbol   string    `json:"symbol" binding:"required,stock_symbol"`
	Name     string    `json:"name" binding:"max=255"`
	Sector   string    `json:"sector" binding:"max=100"`
	Industry string    `json:"industry" binding:"max=100"`
	Exchange string    `json:"exchange" binding:"max=50"`
	Currency string    `json:"currency" binding:"omitempty,iso4217"`
	Type     string    `json:"type" binding:"required,transaction_type"`
	Quantity float64   `json:"quantity" binding:"required,gt=0"`
	Price    float64   `json:"price" binding:"gte=0"`
	Fees     float64   `json:"fees" binding:"gte=0"`
	Date     time.Time `json:"date"`
	Notes    string    `json:"notes" binding:"max=1000"`
}

// ListTransactionsQuery holds the optional list filters alongside pagination.
type ListTransactionsQuery struct {
	pagination.PageRequest
	From   *time.Time `form:"from" time_format:"2006-01-02"`
	To     *time.Time `form:"to" time_format:"2006-01-02"`
	Type   string     `form:"type" binding:"omitempty,transaction_type"`
	Symbol string     `form:"symbol" binding:"omitempty,stock_symbol"`
}

// Create records a transaction against a portfolio.
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(userID, portfolioID, services.TransactionInput{
		Stock: services.StockInput{
			Symbol:   req.Symbol,
			Name:     req.Name,
			Sector:   req.Sector,
			Industry: req.Industry,
			Exchange: req.Exchange,
			Currency: req.Currency,
		},
		Type:     models.TransactionType(req.Type),
		Quantity: req.Quantity,
		Price:    req.Price,
		Fees:     req.Fees,
		Date:     req.Date,
		Notes:    req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "transaction", transaction.ID, c.ClientIP(), map[string]interface{}{
		"symbol":   transaction.Stock.Symbol,
		"type":     string(transaction.Type),
		"quantity": transaction.Quantity,
	})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// List returns a portfolio's transactions in date order, with optional
// date-range, type, and symbol filters.
func (h *TransactionHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{
		FromDate: query.From,
		ToDate:   query.To,
		Symbol:   query.Symbol,
	}
	if query.Type != "" {
		txType := models.TransactionType(query.Type)
		filter.Type = &txType
	}

	result, err := h.transactionService.GetPortfolioTransactions(userID, portfolioID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns a single transaction by ID.
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// Delete removes a transaction.
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "transaction", transactionID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
