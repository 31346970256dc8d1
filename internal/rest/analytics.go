package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"golfProShop/domain"
	"golfProShop/pkg/logger"

	"github.com/labstack/echo/v4"
)

type AnalyticsService interface {
	Report(ctx context.Context, window domain.Window, topN int) (domain.AnalyticsResult, error)
}

type AnalyticsHandler struct {
	analyticsService AnalyticsService
	timeout          time.Duration
}

func NewAnalyticsHandler(analyticsService AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		timeout:          30 * time.Second,
	}
}

// parseWindowParam accepts a plain date or a full RFC 3339 timestamp.
func parseWindowParam(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// GetSalesReport serves the admin dashboard aggregation. Omitted
// bounds default to the last 30 days.
func (h *AnalyticsHandler) GetSalesReport(c echo.Context) error {
	var window domain.Window

	if start := c.QueryParam("start"); start != "" {
		t, err := parseWindowParam(start)
		if err != nil {
			logger.Error("Invalid start param", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid start date"})
		}
		window.Start = t
	}

	if end := c.QueryParam("end"); end != "" {
		t, err := parseWindowParam(end)
		if err != nil {
			logger.Error("Invalid end param", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid end date"})
		}
		window.End = t
	}

	if !window.Start.IsZero() != !window.End.IsZero() {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "start and end must be provided together"})
	}
	if !window.Start.IsZero() && !window.Start.Before(window.End) {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "start must be before end"})
	}

	var topN int
	if raw := c.QueryParam("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "top_n must be a positive integer"})
		}
		topN = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	report, err := h.analyticsService.Report(ctx, window, topN)
	if err != nil {
		logger.Error("Failed to build sales report", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, report)
}
