package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/untibullet/ideaflow/internal/apperr"
	"github.com/untibullet/ideaflow/internal/models"
	"go.uber.org/zap"
)

// createCaseRequest тело создания кейса: JSON или multipart с файлами cover и files
type createCaseRequest struct {
	models.NewCase
	UserID int64 `json:"userId" form:"userId"`
}

// CreateCase публикует новый кейс заказчика
func (h *Handler) CreateCase(c echo.Context) error {
	var req createCaseRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "CreateCase", "invalid request body")
	}

	var saved []string
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return h.badRequest(c, "CreateCase", "invalid multipart form")
		}
		if covers := form.File["cover"]; len(covers) > 0 {
			paths, err := h.svc.Uploads.Save(covers[:1])
			if err != nil {
				return h.fail(c, "CreateCase", err)
			}
			req.Cover = paths[0]
			saved = append(saved, paths...)
		}
		if files := form.File["files"]; len(files) > 0 {
			paths, err := h.svc.Uploads.Save(files)
			if err != nil {
				h.svc.Uploads.Remove(saved)
				return h.fail(c, "CreateCase", err)
			}
			req.Files = append(req.Files, paths...)
			saved = append(saved, paths...)
		}
	}

	created, err := h.svc.Workflow.CreateCase(c.Request().Context(), req.UserID, req.NewCase)
	if err != nil {
		h.svc.Uploads.Remove(saved)
		return h.fail(c, "CreateCase", err)
	}

	h.logger.Info("CreateCase: кейс создан",
		zap.Int64("case_id", created.ID),
		zap.Int64("user_id", created.UserID),
		zap.Int("files_count", len(created.Files)))
	return c.JSON(http.StatusCreated, created)
}

// GetCase возвращает кейс по ID
func (h *Handler) GetCase(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "GetCase", err)
	}

	found, err := h.svc.Workflow.GetCase(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "GetCase", err)
	}
	return c.JSON(http.StatusOK, found)
}

// ListCases возвращает кейсы с фильтрами status и userId
func (h *Handler) ListCases(c echo.Context) error {
	var filter models.CaseFilter
	var err error

	if raw := c.QueryParam("status"); raw != "" {
		status, err := models.ParseCaseStatus(raw)
		if err != nil {
			return h.fail(c, "ListCases", err)
		}
		filter.Status = &status
	}
	if filter.UserID, err = queryID(c, "userId"); err != nil {
		return h.fail(c, "ListCases", err)
	}

	list, err := h.svc.Workflow.ListCases(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, "ListCases", err)
	}

	h.logger.Info("ListCases: кейсы получены", zap.Int("cases_count", len(list)))
	return c.JSON(http.StatusOK, list)
}

// ClaimCase закрепляет открытый кейс за исполнителем
func (h *Handler) ClaimCase(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "ClaimCase", err)
	}

	var req struct {
		ExecutorID int64 `json:"executorId"`
	}
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "ClaimCase", "invalid request body")
	}

	pc, err := h.svc.Workflow.ClaimCase(c.Request().Context(), id, req.ExecutorID)
	if err != nil {
		return h.fail(c, "ClaimCase", err)
	}

	h.logger.Info("ClaimCase: кейс взят в работу",
		zap.Int64("case_id", id),
		zap.Int64("processed_case_id", pc.ID),
		zap.Int64("executor_id", pc.ExecutorID))
	return c.JSON(http.StatusCreated, pc)
}

// GetProcessedCase возвращает кейс в работе по ID
func (h *Handler) GetProcessedCase(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "GetProcessedCase", err)
	}

	pc, err := h.svc.Workflow.GetProcessedCase(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "GetProcessedCase", err)
	}
	return c.JSON(http.StatusOK, pc)
}

// ListProcessedCases возвращает кейсы в работе с фильтрами executorId, userId и status
func (h *Handler) ListProcessedCases(c echo.Context) error {
	var filter models.ProcessedCaseFilter
	var err error

	if filter.ExecutorID, err = queryID(c, "executorId"); err != nil {
		return h.fail(c, "ListProcessedCases", err)
	}
	if filter.UserID, err = queryID(c, "userId"); err != nil {
		return h.fail(c, "ListProcessedCases", err)
	}
	if raw := c.QueryParam("status"); raw != "" {
		status, err := models.ParseProcessedCaseStatus(raw)
		if err != nil {
			return h.fail(c, "ListProcessedCases", err)
		}
		filter.Status = &status
	}

	list, err := h.svc.Workflow.ListProcessedCases(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, "ListProcessedCases", err)
	}
	return c.JSON(http.StatusOK, list)
}

// UploadFiles дописывает файлы исполнителя в кейс в работе.
// Права проверяются до записи файлов на диск.
func (h *Handler) UploadFiles(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "UploadFiles", err)
	}

	executorID, err := strconv.ParseInt(c.FormValue("executorId"), 10, 64)
	if err != nil || executorID <= 0 {
		return h.fail(c, "UploadFiles", apperr.Validation("invalid executorId"))
	}

	form, err := c.MultipartForm()
	if err != nil {
		return h.badRequest(c, "UploadFiles", "invalid multipart form")
	}
	headers := form.File["extraFiles"]
	if len(headers) == 0 {
		return h.fail(c, "UploadFiles", apperr.Validation("extraFiles are required"))
	}

	ctx := c.Request().Context()
	if _, err := h.svc.Workflow.AuthorizeAppend(ctx, id, executorID); err != nil {
		return h.fail(c, "UploadFiles", err)
	}

	paths, err := h.svc.Uploads.Save(headers)
	if err != nil {
		return h.fail(c, "UploadFiles", err)
	}

	all, err := h.svc.Workflow.AppendFiles(ctx, id, executorID, paths)
	if err != nil {
		h.svc.Uploads.Remove(paths)
		return h.fail(c, "UploadFiles", err)
	}

	h.logger.Info("UploadFiles: файлы добавлены",
		zap.Int64("processed_case_id", id),
		zap.Int("added", len(paths)),
		zap.Int("total", len(all)))
	return c.JSON(http.StatusOK, map[string][]string{"files": all})
}

// CompleteCase завершает кейс в работе и создает проект
func (h *Handler) CompleteCase(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "CompleteCase", err)
	}

	var req struct {
		UserID int64 `json:"userId"`
	}
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "CompleteCase", "invalid request body")
	}

	project, err := h.svc.Workflow.CompleteCase(c.Request().Context(), id, req.UserID)
	if err != nil {
		return h.fail(c, "CompleteCase", err)
	}

	h.logger.Info("CompleteCase: проект создан",
		zap.Int64("processed_case_id", id),
		zap.Int64("project_id", project.ID))
	return c.JSON(http.StatusOK, project)
}

// GetProject возвращает проект по ID
func (h *Handler) GetProject(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "GetProject", err)
	}

	project, err := h.svc.Workflow.GetProject(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "GetProject", err)
	}
	return c.JSON(http.StatusOK, project)
}

// ListProjects возвращает проекты с фильтрами userId, executorId и executorEmail
func (h *Handler) ListProjects(c echo.Context) error {
	filter := models.ProjectFilter{ExecutorEmail: strings.TrimSpace(c.QueryParam("executorEmail"))}
	var err error

	if filter.UserID, err = queryID(c, "userId"); err != nil {
		return h.fail(c, "ListProjects", err)
	}
	if filter.ExecutorID, err = queryID(c, "executorId"); err != nil {
		return h.fail(c, "ListProjects", err)
	}

	list, err := h.svc.Workflow.ListProjects(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, "ListProjects", err)
	}
	return c.JSON(http.StatusOK, list)
}
