package handler

import (
	"net/http"
	"strconv"

	"github.com/akhand08/adibFin/internal/middleware"
	"github.com/akhand08/adibFin/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetMonthlyReport returns income, expenses and net savings for one month
func (h *ReportHandler) GetMonthlyReport(c echo.Context) error {
	userID := middleware.GetUserID(c)

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1970 || year > 9999 {
		return NewValidationError(c, "Invalid year", nil)
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return NewValidationError(c, "Invalid month (must be 1-12)", nil)
	}

	report, err := h.reportService.GetMonthlyReport(userID, year, month)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int("year", year).Int("month", month).Msg("Failed to build monthly report")
		return NewInternalError(c, "Failed to build monthly report")
	}

	return c.JSON(http.StatusOK, report)
}

// GetYearlyReport returns yearly totals with a month-by-month breakdown
func (h *ReportHandler) GetYearlyReport(c echo.Context) error {
	userID := middleware.GetUserID(c)

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1970 || year > 9999 {
		return NewValidationError(c, "Invalid year", nil)
	}

	report, err := h.reportService.GetYearlyReport(userID, year)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int("year", year).Msg("Failed to build yearly report")
		return NewInternalError(c, "Failed to build yearly report")
	}

	return c.JSON(http.StatusOK, report)
}

// GetDateRangeReport returns totals for an arbitrary inclusive date range
func (h *ReportHandler) GetDateRangeReport(c echo.Context) error {
	userID := middleware.GetUserID(c)

	startStr := c.QueryParam("startDate")
	endStr := c.QueryParam("endDate")
	if startStr == "" || endStr == "" {
		return NewValidationError(c, "startDate and endDate are required", nil)
	}

	startDate, err := parseDate(startStr)
	if err != nil {
		return NewValidationError(c, "Invalid startDate", []ValidationError{
			{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	endDate, err := parseDate(endStr)
	if err != nil {
		return NewValidationError(c, "Invalid endDate", []ValidationError{
			{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	if endDate.Before(startDate) {
		return NewValidationError(c, "endDate must not be before startDate", nil)
	}

	report, err := h.reportService.GetDateRangeReport(userID, startDate, endDate)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build date range report")
		return NewInternalError(c, "Failed to build date range report")
	}

	return c.JSON(http.StatusOK, report)
}

// GetInvestmentReport returns the portfolio summary with per-project metrics
func (h *ReportHandler) GetInvestmentReport(c echo.Context) error {
	userID := middleware.GetUserID(c)

	report, err := h.reportService.GetInvestmentReport(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build investment report")
		return NewInternalError(c, "Failed to build investment report")
	}

	return c.JSON(http.StatusOK, report)
}
