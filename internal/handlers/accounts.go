package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/untibullet/ideaflow/internal/apperr"
	"github.com/untibullet/ideaflow/internal/models"
	"go.uber.org/zap"
)

// loginResponse данные пользователя, возвращаемые при входе
type loginResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Register регистрирует нового пользователя
func (h *Handler) Register(c echo.Context) error {
	var req models.Registration
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "Register", "invalid request body")
	}

	user, err := h.svc.Accounts.Register(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "Register", err)
	}

	h.logger.Info("Register: пользователь зарегистрирован", zap.Int64("user_id", user.ID))
	return c.JSON(http.StatusCreated, user)
}

// Login проверяет email и пароль
func (h *Handler) Login(c echo.Context) error {
	var req models.Credentials
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "Login", "invalid request body")
	}

	user, err := h.svc.Accounts.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, apperr.ErrAuthorization) {
			h.logger.Warn("Login: неверные учетные данные")
			return c.JSON(http.StatusUnauthorized, newErrorResponse(ErrCodeUnauthorized, apperr.Message(err)))
		}
		return h.fail(c, "Login", err)
	}

	h.logger.Info("Login: вход выполнен", zap.Int64("user_id", user.ID))
	return c.JSON(http.StatusOK, loginResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// GetProfile возвращает профиль пользователя
func (h *Handler) GetProfile(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "GetProfile", err)
	}

	user, err := h.svc.Accounts.GetProfile(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "GetProfile", err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile заменяет редактируемые поля профиля
func (h *Handler) UpdateProfile(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "UpdateProfile", err)
	}

	var req models.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "UpdateProfile", "invalid request body")
	}

	user, err := h.svc.Accounts.UpdateProfile(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "UpdateProfile", err)
	}

	h.logger.Info("UpdateProfile: профиль обновлен", zap.Int64("user_id", id))
	return c.JSON(http.StatusOK, user)
}

// GetProfileOverview возвращает сводку активности пользователя
func (h *Handler) GetProfileOverview(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "GetProfileOverview", err)
	}

	overview, err := h.svc.Profiles.Overview(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "GetProfileOverview", err)
	}

	h.logger.Info("GetProfileOverview: сводка собрана",
		zap.Int64("user_id", id),
		zap.Int("customer_items", len(overview.CustomerItems)),
		zap.Int("reviews", len(overview.Reviews)))
	return c.JSON(http.StatusOK, overview)
}

// UploadPhoto сохраняет фотографию профиля и возвращает путь к ней
func (h *Handler) UploadPhoto(c echo.Context) error {
	header, err := c.FormFile("photo")
	if err != nil {
		return h.badRequest(c, "UploadPhoto", "photo file is required")
	}

	paths, err := h.svc.Uploads.Save([]*multipart.FileHeader{header})
	if err != nil {
		return h.fail(c, "UploadPhoto", err)
	}

	h.logger.Info("UploadPhoto: фото сохранено", zap.String("path", paths[0]))
	return c.JSON(http.StatusOK, map[string]string{"photoPath": paths[0]})
}
