package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "foliotrack/internal/errors"
	"foliotrack/internal/models"
	"foliotrack/internal/pagination"
)

// portfolioService handles portfolio-related business logic.
type portfolioService struct {
	db *gorm.DB
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB) PortfolioServicer {
	return &portfolioService{db: db}
}

// CreatePortfolio creates a new portfolio owned by the given user.
func (s *portfolioService) CreatePortfolio(userID, name, description string, initialCapital float64) (*models.Portfolio, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Portfolio name is required")
	}
	if initialCapital < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Initial capital cannot be negative")
	}

	portfolio := &models.Portfolio{
		UserID:         userID,
		Name:           strings.TrimSpace(name),
		Description:    description,
		InitialCapital: initialCapital,
	}

	if err := s.db.Create(portfolio).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return portfolio, nil
}

// GetUserPortfolios returns a paginated list of the user's portfolios.
func (s *portfolioService) GetUserPortfolios(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Portfolio{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var portfolios []models.Portfolio
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").
		Scopes(pagination.Paginate(page)).Find(&portfolios).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(portfolios, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPortfolioByID returns a portfolio if it belongs to the user. Portfolios
// belonging to other users are reported as not found, never as forbidden.
func (s *portfolioService) GetPortfolioByID(userID, portfolioID string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := s.db.Where("id = ?", portfolioID).First(&portfolio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if portfolio.UserID != userID {
		return nil, apperrors.ErrPortfolioNotFound
	}

	return &portfolio, nil
}

// UpdatePortfolio updates a portfolio's name, description, and initial capital.
func (s *portfolioService) UpdatePortfolio(userID, portfolioID, name, description string, initialCapital *float64) (*models.Portfolio, error) {
	portfolio, err := s.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if strings.TrimSpace(name) != "" {
		updates["name"] = strings.TrimSpace(name)
	}
	if description != "" {
		updates["description"] = description
	}
	if initialCapital != nil {
		if *initialCapital < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Initial capital cannot be negative")
		}
		updates["initial_capital"] = *initialCapital
	}

	if len(updates) == 0 {
		return portfolio, nil
	}

	if err := s.db.Model(portfolio).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return portfolio, nil
}

// DeletePortfolio soft-deletes a portfolio and its transactions.
func (s *portfolioService) DeletePortfolio(userID, portfolioID string) error {
	portfolio, err := s.GetPortfolioByID(userID, portfolioID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("portfolio_id = ?", portfolioID).
			Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(portfolio).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
