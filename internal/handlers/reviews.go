package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/untibullet/ideaflow/internal/apperr"
	"github.com/untibullet/ideaflow/internal/models"
	"go.uber.org/zap"
)

// GetReviews возвращает отзывы о пользователе
func (h *Handler) GetReviews(c echo.Context) error {
	userID, err := queryID(c, "userId")
	if err != nil {
		return h.fail(c, "GetReviews", err)
	}
	if userID == nil {
		return h.fail(c, "GetReviews", apperr.Validation("userId parameter is required"))
	}

	list, err := h.svc.Reviews.GetReviews(c.Request().Context(), *userID)
	if err != nil {
		return h.fail(c, "GetReviews", err)
	}
	return c.JSON(http.StatusOK, list)
}

// AddReview добавляет отзыв и возвращает обновленный список отзывов о пользователе
func (h *Handler) AddReview(c echo.Context) error {
	var req models.NewReview
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "AddReview", "invalid request body")
	}

	list, err := h.svc.Reviews.AddReview(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "AddReview", err)
	}

	h.logger.Info("AddReview: отзыв добавлен",
		zap.Int64("user_id", req.UserID),
		zap.Int64("reviewer_id", req.ReviewerID),
		zap.Int("reviews_count", len(list)))
	return c.JSON(http.StatusCreated, list)
}
