package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"golfProShop/domain"
	"golfProShop/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type NoticeService interface {
	GetNotices(ctx context.Context, kind string) ([]domain.Notice, error)
	GetNoticeByID(ctx context.Context, id uint) (domain.Notice, error)
	CreateNotice(ctx context.Context, notice *domain.Notice) error
	UpdateNotice(ctx context.Context, notice *domain.Notice) error
	DeleteNotice(ctx context.Context, id uint) error
}

type NoticeHandler struct {
	noticeService NoticeService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewNoticeHandler(noticeService NoticeService) *NoticeHandler {
	return &NoticeHandler{
		noticeService: noticeService,
		validator:     validator.New(),
		timeout:       10 * time.Second,
	}
}

type NoticeRequest struct {
	Kind     string `json:"kind" validate:"omitempty,oneof=notice faq"`
	Title    string `json:"title" validate:"required"`
	Body     string `json:"body"`
	IsPinned bool   `json:"is_pinned"`
}

func (h *NoticeHandler) GetNotices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	notices, err := h.noticeService.GetNotices(ctx, c.QueryParam("kind"))
	if err != nil {
		logger.Error("Failed to get notices", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, notices)
}

func (h *NoticeHandler) GetNoticeByID(c echo.Context) error {
	noticeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		logger.Error("Invalid notice ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid notice ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	notice, err := h.noticeService.GetNoticeByID(ctx, uint(noticeID))
	if err != nil {
		logger.Error("Failed to get notice", err)
		return c.JSON(http.StatusNotFound, ResponseError{Message: "notice not found"})
	}

	return c.JSON(http.StatusOK, notice)
}

func (h *NoticeHandler) CreateNotice(c echo.Context) error {
	var req NoticeRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate notice", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	notice := domain.Notice{
		Kind:     req.Kind,
		Title:    req.Title,
		Body:     req.Body,
		IsPinned: req.IsPinned,
	}
	if err := h.noticeService.CreateNotice(ctx, &notice); err != nil {
		logger.Error("Failed to create notice", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, notice)
}

func (h *NoticeHandler) UpdateNotice(c echo.Context) error {
	noticeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		logger.Error("Invalid notice ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid notice ID"})
	}

	var req NoticeRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate notice", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	notice := domain.Notice{
		ID:       uint(noticeID),
		Kind:     req.Kind,
		Title:    req.Title,
		Body:     req.Body,
		IsPinned: req.IsPinned,
	}
	if err := h.noticeService.UpdateNotice(ctx, &notice); err != nil {
		logger.Error("Failed to update notice", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, notice)
}

func (h *NoticeHandler) DeleteNotice(c echo.Context) error {
	noticeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		logger.Error("Invalid notice ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid notice ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.noticeService.DeleteNotice(ctx, uint(noticeID)); err != nil {
		logger.Error("Failed to delete notice", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "notice deleted",
	})
}
