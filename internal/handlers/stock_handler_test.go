package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "foliotrack/internal/errors"
	"foliotrack/internal/models"
	"foliotrack/internal/pagination"
	"foliotrack/internal/services"
	"foliotrack/internal/uuid"
)

// --- mock stock service ---

type mockStockService struct {
	getOrCreateStockFn  func(input services.StockInput) (*models.Stock, error)
	getStockByIDFn      func(id string) (*models.Stock, error)
	getStockBySymbolFn  func(symbol string) (*models.Stock, error)
	listStocksFn        func(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error)
	recordPricesFn      func(stockID string, prices []services.PriceInput) (int, error)
	getPriceHistoryFn   func(stockID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.StockPrice], error)
}

func (m *mockStockService) GetOrCreateStock(input services.StockInput) (*models.Stock, error) {
	if m.getOrCreateStockFn != nil {
		return m.getOrCreateStockFn(input)
	}
	return &models.Stock{}, nil
}

func (m *mockStockService) GetStockByID(id string) (*models.Stock, error) {
	if m.getStockByIDFn != nil {
		return m.getStockByIDFn(id)
	}
	return &models.Stock{Base: models.Base{ID: id}}, nil
}

func (m *mockStockService) GetStockBySymbol(symbol string) (*models.Stock, error) {
	if m.getStockBySymbolFn != nil {
		return m.getStockBySymbolFn(symbol)
	}
	return &models.Stock{Symbol: symbol}, nil
}

func (m *mockStockService) ListStocks(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error) {
	if m.listStocksFn != nil {
		return m.listStocksFn(page)
	}
	resp := pagination.NewPageResponse([]models.Stock{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockStockService) RecordPrices(stockID string, prices []services.PriceInput) (int, error) {
	if m.recordPricesFn != nil {
		return m.recordPricesFn(stockID, prices)
	}
	return len(prices), nil
}

func (m *mockStockService) GetPriceHistory(stockID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.StockPrice], error) {
	if m.getPriceHistoryFn != nil {
		return m.getPriceHistoryFn(stockID, from, to, page)
	}
	resp := pagination.NewPageResponse([]models.StockPrice{}, 1, 20, 0)
	return &resp, nil
}

// verify interface compliance
var _ services.StockServicer = (*mockStockService)(nil)

func setupStockRouter(handler *StockHandler) *gin.Engine {
	r := gin.New()
	r.GET("/stocks", handler.List)
	r.GET("/stocks/:id", handler.Get)
	r.GET("/stocks/:id/prices", handler.GetPriceHistory)
	r.POST("/stocks/:id/prices", handler.RecordPrices)
	return r
}

func TestStockHandler_List(t *testing.T) {
	t.Run("returns 200 with stocks", func(t *testing.T) {
		svc := &mockStockService{
			listStocksFn: func(_ pagination.PageRequest) (*pagination.PageResponse[models.Stock], error) {
				resp := pagination.NewPageResponse([]models.Stock{
					{Base: models.Base{ID: uuid.New()}, Symbol: "AAPL", Sector: "Technology"},
					{Base: models.Base{ID: uuid.New()}, Symbol: "JPM", Sector: "Finance"},
				}, 1, 20, 2)
				return &resp, nil
			},
		}
		handler := NewStockHandler(svc)
		r := setupStockRouter(handler)

		rec := doRequest(r, "GET", "/stocks", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Fatalf("expected 2 stocks, got %d", len(data))
		}
	})
}

func TestStockHandler_Get(t *testing.T) {
	t.Run("returns 404 when unknown", func(t *testing.T) {
		svc := &mockStockService{
			getStockByIDFn: func(_ string) (*models.Stock, error) {
				return nil, apperrors.ErrStockNotFound
			},
		}
		handler := NewStockHandler(svc)
		r := setupStockRouter(handler)

		rec := doRequest(r, "GET", "/stocks/"+uuid.New(), "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "STOCK_NOT_FOUND")
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		handler := NewStockHandler(&mockStockService{})
		r := setupStockRouter(handler)

		rec := doRequest(r, "GET", "/stocks/42", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestStockHandler_RecordPrices(t *testing.T) {
	t.Run("returns counts", func(t *testing.T) {
		svc := &mockStockService{
			recordPricesFn: func(_ string, prices []services.PriceInput) (int, error) {
				return len(prices) - 1, nil
			},
		}
		handler := NewStockHandler(svc)
		r := setupStockRouter(handler)

		rec := doRequest(r, "POST", "/stocks/"+uuid.New()+"/prices",
			`{"prices":[{"price":101.5,"recorded_at":"2024-03-01T16:00:00Z"},{"price":102,"recorded_at":"2024-03-02T16:00:00Z"}]}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["received"] != float64(2) {
			t.Errorf("expected received 2, got %v", result["received"])
		}
		if result["recorded"] != float64(1) {
			t.Errorf("expected recorded 1, got %v", result["recorded"])
		}
	})

	t.Run("returns 400 on empty batch", func(t *testing.T) {
		handler := NewStockHandler(&mockStockService{})
		r := setupStockRouter(handler)

		rec := doRequest(r, "POST", "/stocks/"+uuid.New()+"/prices", `{"prices":[]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on negative price", func(t *testing.T) {
		handler := NewStockHandler(&mockStockService{})
		r := setupStockRouter(handler)

		rec := doRequest(r, "POST", "/stocks/"+uuid.New()+"/prices",
			`{"prices":[{"price":-1,"recorded_at":"2024-03-01T16:00:00Z"}]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestStockHandler_GetPriceHistory(t *testing.T) {
	t.Run("passes date range through", func(t *testing.T) {
		var gotFrom, gotTo time.Time
		svc := &mockStockService{
			getPriceHistoryFn: func(_ string, from, to time.Time, _ pagination.PageRequest) (*pagination.PageResponse[models.StockPrice], error) {
				gotFrom, gotTo = from, to
				resp := pagination.NewPageResponse([]models.StockPrice{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewStockHandler(svc)
		r := setupStockRouter(handler)

		rec := doRequest(r, "GET", "/stocks/"+uuid.New()+"/prices?from=2024-01-01&to=2024-06-30", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFrom.Format("2006-01-02") != "2024-01-01" {
			t.Errorf("expected from 2024-01-01, got %v", gotFrom)
		}
		if gotTo.Format("2006-01-02") != "2024-06-30" {
			t.Errorf("expected to 2024-06-30, got %v", gotTo)
		}
	})
}
