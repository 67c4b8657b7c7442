package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/untibullet/ideaflow/internal/apperr"
	"github.com/untibullet/ideaflow/internal/models"
	"go.uber.org/zap"
)

// Коды ошибок для API
const (
	ErrCodeValidation   = "VALIDATION"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeStore        = "STORE_ERROR"
)

// Accounts регистрация, вход и профиль пользователя
type Accounts interface {
	Register(ctx context.Context, in models.Registration) (*models.User, error)
	Login(ctx context.Context, in models.Credentials) (*models.User, error)
	GetProfile(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error)
}

// Workflow жизненный цикл кейсов
type Workflow interface {
	CreateCase(ctx context.Context, customerID int64, in models.NewCase) (*models.Case, error)
	GetCase(ctx context.Context, id int64) (*models.Case, error)
	ListCases(ctx context.Context, filter models.CaseFilter) ([]models.Case, error)
	ClaimCase(ctx context.Context, caseID, executorID int64) (*models.ProcessedCase, error)
	GetProcessedCase(ctx context.Context, id int64) (*models.ProcessedCase, error)
	ListProcessedCases(ctx context.Context, filter models.ProcessedCaseFilter) ([]models.ProcessedCase, error)
	AuthorizeAppend(ctx context.Context, processedCaseID, executorID int64) (*models.ProcessedCase, error)
	AppendFiles(ctx context.Context, processedCaseID, executorID int64, files []string) ([]string, error)
	CompleteCase(ctx context.Context, processedCaseID, requesterID int64) (*models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
}

// Reviews отзывы и рейтинг
type Reviews interface {
	AddReview(ctx context.Context, in models.NewReview) ([]models.Review, error)
	GetReviews(ctx context.Context, userID int64) ([]models.Review, error)
}

// Profiles сводка профиля
type Profiles interface {
	Overview(ctx context.Context, userID int64) (*models.ProfileOverview, error)
}

// Uploads хранилище загруженных файлов
type Uploads interface {
	Save(headers []*multipart.FileHeader) ([]string, error)
	Remove(paths []string)
}

// Services зависимости обработчиков
type Services struct {
	Accounts Accounts
	Workflow Workflow
	Reviews  Reviews
	Profiles Profiles
	Uploads  Uploads
}

type Handler struct {
	svc    Services
	logger *zap.Logger
}

// New создает новый экземпляр обработчика
func New(svc Services, logger *zap.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger,
	}
}

// ErrorResponse представляет структуру ошибки API
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newErrorResponse создает стандартный ответ с ошибкой
func newErrorResponse(code, message string) ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	return resp
}

// statusOf сопоставляет вид ошибки с HTTP статусом и кодом API
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, ErrCodeValidation
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, apperr.ErrAuthorization):
		return http.StatusForbidden, ErrCodeForbidden
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, ErrCodeConflict
	default:
		return http.StatusInternalServerError, ErrCodeStore
	}
}

// fail логирует ошибку операции и отвечает клиенту в едином формате
func (h *Handler) fail(c echo.Context, op string, err error) error {
	status, code := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(op+": ошибка обработки запроса", zap.Error(err))
	} else {
		h.logger.Warn(op+": запрос отклонен", zap.String("code", code), zap.Error(err))
	}
	return c.JSON(status, newErrorResponse(code, apperr.Message(err)))
}

func (h *Handler) badRequest(c echo.Context, op, message string) error {
	h.logger.Warn(op+": некорректный запрос", zap.String("reason", message))
	return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, message))
}

// pathID читает положительный идентификатор из параметра пути
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid %s", name)
	}
	return id, nil
}

// queryID читает необязательный идентификатор из строки запроса, nil если параметра нет
func queryID(c echo.Context, name string) (*int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperr.Validation("invalid %s", name)
	}
	return &id, nil
}

// RegisterRoutes регистрирует все маршруты API
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Accounts
	e.POST("/register", h.Register)
	e.POST("/login", h.Login)
	e.GET("/profile/:id", h.GetProfile)
	e.PUT("/profile/:id", h.UpdateProfile)
	e.GET("/profile/:id/overview", h.GetProfileOverview)
	e.POST("/upload-photo", h.UploadPhoto)

	// Cases
	e.GET("/cases", h.ListCases)
	e.POST("/cases", h.CreateCase)
	e.GET("/cases/:id", h.GetCase)
	e.POST("/cases/:id/claim", h.ClaimCase)

	// Processed cases
	e.GET("/processed-cases", h.ListProcessedCases)
	e.GET("/processed-cases/:id", h.GetProcessedCase)
	e.POST("/processed-cases/:id/upload-files", h.UploadFiles)
	e.PUT("/processed-cases/:id/complete", h.CompleteCase)

	// Projects
	e.GET("/projects", h.ListProjects)
	e.GET("/projects/:id", h.GetProject)

	// Reviews
	e.GET("/reviews", h.GetReviews)
	e.POST("/reviews", h.AddReview)
}
