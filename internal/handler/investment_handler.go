package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/akhand08/adibFin/internal/domain"
	"github.com/akhand08/adibFin/internal/middleware"
	"github.com/akhand08/adibFin/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// InvestmentHandler handles investment-related HTTP requests
type InvestmentHandler struct {
	investmentService *service.InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService *service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// OpenInvestmentRequest represents the open investment request body
type OpenInvestmentRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Amount      string  `json:"amount"`
	CategoryID  string  `json:"categoryId"`
	StartDate   *string `json:"startDate,omitempty"`
}

// AddReturnRequest represents the add return request body
type AddReturnRequest struct {
	TotalReturned string  `json:"totalReturned"`
	CategoryID    string  `json:"categoryId"`
	Date          *string `json:"date,omitempty"`
}

// UpdateInvestmentRequest represents the update investment request body
type UpdateInvestmentRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// InvestmentResponse is a project together with its derived metrics
type InvestmentResponse struct {
	*domain.InvestmentProject
	Metrics domain.InvestmentMetrics `json:"metrics"`
}

func toInvestmentResponse(project *domain.InvestmentProject) InvestmentResponse {
	return InvestmentResponse{
		InvestmentProject: project,
		Metrics:           project.Metrics(time.Now()),
	}
}

// OpenInvestment opens a project with its principal outflow
func (h *InvestmentHandler) OpenInvestment(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req OpenInvestmentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return NewValidationError(c, "Invalid categoryId", []ValidationError{
			{Field: "categoryId", Message: "Must be a valid UUID"},
		})
	}

	var startDate *time.Time
	if req.StartDate != nil && *req.StartDate != "" {
		parsed, err := parseDate(*req.StartDate)
		if err != nil {
			return NewValidationError(c, "Invalid startDate", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		startDate = &parsed
	}

	input := service.OpenInvestmentInput{
		Name:        req.Name,
		Description: req.Description,
		Amount:      amount,
		CategoryID:  categoryID,
		StartDate:   startDate,
	}

	project, err := h.investmentService.OpenInvestment(userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category not found"},
			})
		}
		if errors.Is(err, domain.ErrTypeMismatch) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category must be an expense category"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to open investment")
		return NewInternalError(c, "Failed to open investment")
	}

	log.Info().Str("user_id", userID.String()).Str("project_id", project.ID.String()).Str("name", project.Name).Msg("Investment opened")

	return c.JSON(http.StatusCreated, toInvestmentResponse(project))
}

// GetInvestments lists the user's projects, optionally filtered by status
func (h *InvestmentHandler) GetInvestments(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var status *domain.ProjectStatus
	if statusStr := c.QueryParam("status"); statusStr != "" {
		s := domain.ProjectStatus(statusStr)
		if s != domain.ProjectStatusOpen && s != domain.ProjectStatusClosed {
			return NewValidationError(c, "Invalid status (must be 'open' or 'closed')", nil)
		}
		status = &s
	}

	projects, err := h.investmentService.GetInvestments(userID, status)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list investments")
		return NewInternalError(c, "Failed to list investments")
	}

	responses := make([]InvestmentResponse, len(projects))
	for i, project := range projects {
		responses[i] = toInvestmentResponse(project)
	}
	return c.JSON(http.StatusOK, responses)
}

// GetInvestment returns one project with transactions, cashflows and metrics
func (h *InvestmentHandler) GetInvestment(c echo.Context) error {
	userID := middleware.GetUserID(c)

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid investment id", nil)
	}

	project, err := h.investmentService.GetInvestment(userID, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrInvestmentNotFound) {
			return NewNotFoundError(c, "Investment not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load investment")
		return NewInternalError(c, "Failed to load investment")
	}

	return c.JSON(http.StatusOK, toInvestmentResponse(project))
}

// AddReturn records a return against an open project
func (h *InvestmentHandler) AddReturn(c echo.Context) error {
	userID := middleware.GetUserID(c)

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid investment id", nil)
	}

	var req AddReturnRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	totalReturned, err := decimal.NewFromString(req.TotalReturned)
	if err != nil {
		return NewValidationError(c, "Invalid totalReturned", []ValidationError{
			{Field: "totalReturned", Message: "Must be a valid decimal number"},
		})
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return NewValidationError(c, "Invalid categoryId", []ValidationError{
			{Field: "categoryId", Message: "Must be a valid UUID"},
		})
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = &parsed
	}

	input := service.AddReturnInput{
		TotalReturned: totalReturned,
		CategoryID:    categoryID,
		Date:          date,
	}

	project, err := h.investmentService.AddReturn(userID, projectID, input)
	if err != nil {
		if errors.Is(err, domain.ErrInvestmentNotFound) {
			return NewNotFoundError(c, "Investment not found")
		}
		if errors.Is(err, domain.ErrInvestmentClosed) {
			return NewConflictError(c, "Investment is closed")
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "totalReturned", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category not found"},
			})
		}
		if errors.Is(err, domain.ErrTypeMismatch) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category must be an income category"},
			})
		}
		if errors.Is(err, domain.ErrInvalidReturnAmount) {
			return NewConflictError(c, "Return exceeds outstanding capital")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("project_id", projectID.String()).Msg("Failed to record return")
		return NewInternalError(c, "Failed to record return")
	}

	log.Info().Str("user_id", userID.String()).Str("project_id", projectID.String()).Str("status", string(project.Status)).Msg("Return recorded")

	return c.JSON(http.StatusOK, toInvestmentResponse(project))
}

// CloseInvestment closes a fully returned project
func (h *InvestmentHandler) CloseInvestment(c echo.Context) error {
	userID := middleware.GetUserID(c)

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid investment id", nil)
	}

	project, err := h.investmentService.CloseInvestment(userID, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrInvestmentNotFound) {
			return NewNotFoundError(c, "Investment not found")
		}
		if errors.Is(err, domain.ErrInvestmentClosed) {
			return NewConflictError(c, "Investment is already closed")
		}
		var outstanding *domain.OutstandingCapitalError
		if errors.As(err, &outstanding) {
			return NewConflictError(c, fmt.Sprintf(
				"Cannot close: %s of %s capital returned",
				outstanding.Returned, outstanding.Invested))
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("project_id", projectID.String()).Msg("Failed to close investment")
		return NewInternalError(c, "Failed to close investment")
	}

	return c.JSON(http.StatusOK, toInvestmentResponse(project))
}

// UpdateInvestment patches project metadata
func (h *InvestmentHandler) UpdateInvestment(c echo.Context) error {
	userID := middleware.GetUserID(c)

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid investment id", nil)
	}

	var req UpdateInvestmentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateInvestmentInput{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.ProjectStatus(*req.Status)
		input.Status = &status
	}

	project, err := h.investmentService.UpdateInvestment(userID, projectID, input)
	if err != nil {
		if errors.Is(err, domain.ErrInvestmentNotFound) {
			return NewNotFoundError(c, "Investment not found")
		}
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrInvalidType) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "status", Message: "Status must be one of: open, closed"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("project_id", projectID.String()).Msg("Failed to update investment")
		return NewInternalError(c, "Failed to update investment")
	}

	return c.JSON(http.StatusOK, toInvestmentResponse(project))
}

// DeleteInvestment removes a project and all its linked records
func (h *InvestmentHandler) DeleteInvestment(c echo.Context) error {
	userID := middleware.GetUserID(c)

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid investment id", nil)
	}

	if err := h.investmentService.DeleteInvestment(userID, projectID); err != nil {
		if errors.Is(err, domain.ErrInvestmentNotFound) {
			return NewNotFoundError(c, "Investment not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("project_id", projectID.String()).Msg("Failed to delete investment")
		return NewInternalError(c, "Failed to delete investment")
	}

	return c.NoContent(http.StatusNoContent)
}
