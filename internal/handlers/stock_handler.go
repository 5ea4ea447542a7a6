package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "foliotrack/internal/errors"
	"foliotrack/internal/pagination"
	"foliotrack/internal/services"
)

// StockHandler handles stock reference data and quote endpoints.
type StockHandler struct {
	stockService services.StockServicer
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService services.StockServicer) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// PriceEntry is one quote in a price ingestion payload.
type PriceEntry struct {
	Price      float64   `json:"price" binding:"gte=0"`
	RecordedAt time.Time `json:"recorded_at"`
}

// RecordPricesRequest is the payload for the price feed endpoint.
type RecordPricesRequest struct {
	Prices []PriceEntry `json:"prices" binding:"required,min=1,max=1000,dive"`
}

// PriceHistoryQuery holds the optional date range for quote history.
type PriceHistoryQuery struct {
	pagination.PageRequest
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// List returns known stocks ordered by symbol.
func (h *StockHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.stockService.ListStocks(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns a single stock by ID.
func (h *StockHandler) Get(c *gin.Context) {
	stockID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	stock, err := h.stockService.GetStockByID(stockID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stock": stock})
}

// RecordPrices ingests quotes from the price feed. Quotes already recorded
// for the same instant are skipped, so feeds can safely resend batches.
func (h *StockHandler) RecordPrices(c *gin.Context) {
	stockID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	prices := make([]services.PriceInput, 0, len(req.Prices))
	for _, entry := range req.Prices {
		prices = append(prices, services.PriceInput{
			Price:      entry.Price,
			RecordedAt: entry.RecordedAt,
		})
	}

	inserted, err := h.stockService.RecordPrices(stockID, prices)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received": len(req.Prices),
		"recorded": inserted,
	})
}

// GetPriceHistory returns recorded quotes for a stock, newest first.
func (h *StockHandler) GetPriceHistory(c *gin.Context) {
	stockID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query PriceHistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var from, to time.Time
	if query.From != nil {
		from = *query.From
	}
	if query.To != nil {
		to = *query.To
	}

	result, err := h.stockService.GetPriceHistory(stockID, from, to, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
