package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "foliotrack/internal/errors"
	"foliotrack/internal/pagination"
	"foliotrack/internal/services"
)

// PortfolioHandler handles portfolio CRUD requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
	auditService     services.AuditServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer, auditService services.AuditServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, auditService: auditService}
}

// CreatePortfolioRequest represents the portfolio creation payload.
type CreatePortfolioRequest struct {
	Name           string  `json:"name" binding:"required,max=255"`
	Description    string  `json:"description" binding:"max=1000"`
	InitialCapital float64 `json:"initial_capital" binding:"omitempty,gte=0"`
}

// UpdatePortfolioRequest represents the portfolio update payload. All fields
// are optional; absent fields keep their stored values.
type UpdatePortfolioRequest struct {
	Name           string   `json:"name" binding:"omitempty,max=255"`
	Description    string   `json:"description" binding:"omitempty,max=1000"`
	InitialCapital *float64 `json:"initial_capital" binding:"omitempty,gte=0"`
}

// Create handles portfolio creation.
func (h *PortfolioHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(userID, req.Name, req.Description, req.InitialCapital)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "portfolio", portfolio.ID, c.ClientIP(), map[string]interface{}{
		"name": portfolio.Name,
	})

	c.JSON(http.StatusCreated, gin.H{"portfolio": portfolio})
}

// List returns the authenticated user's portfolios, paginated.
func (h *PortfolioHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.portfolioService.GetUserPortfolios(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns a single portfolio owned by the authenticated user.
func (h *PortfolioHandler) Get(c *gin.Context) {
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

	portfolio, err := h.portfolioService.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": portfolio})
}

// Update applies a partial update to a portfolio.
func (h *PortfolioHandler) Update(c *gin.Context) {
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

	var req UpdatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	portfolio, err := h.portfolioService.UpdatePortfolio(userID, portfolioID, req.Name, req.Description, req.InitialCapital)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "portfolio", portfolio.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"portfolio": portfolio})
}

// Delete removes a portfolio and its transactions.
func (h *PortfolioHandler) Delete(c *gin.Context) {
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

	if err := h.portfolioService.DeletePortfolio(userID, portfolioID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "portfolio", portfolioID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
