// Package workflow реализует жизненный цикл единицы работы:
// открытый кейс -> кейс в работе -> закрытый проект. Переходы только вперед,
// отмены захвата и возврата в open нет.
package workflow

import (
	"context"
	"strings"

	"github.com/untibullet/ideaflow/internal/apperr"
	"github.com/untibullet/ideaflow/internal/lib/validation"
	"github.com/untibullet/ideaflow/internal/metrics"
	"github.com/untibullet/ideaflow/internal/models"
	"go.uber.org/zap"
)

// Repository операции хранилища, нужные движку. Атомарность захвата и завершения
// обеспечивает реализация (условный UPDATE по статусу в транзакции).
type Repository interface {
	CreateCase(ctx context.Context, customerID int64, in models.NewCase) (*models.Case, error)
	GetCase(ctx context.Context, id int64) (*models.Case, error)
	ListCases(ctx context.Context, filter models.CaseFilter) ([]models.Case, error)
	ClaimCase(ctx context.Context, caseID, executorID int64) (*models.ProcessedCase, error)
	GetProcessedCase(ctx context.Context, id int64) (*models.ProcessedCase, error)
	ListProcessedCases(ctx context.Context, filter models.ProcessedCaseFilter) ([]models.ProcessedCase, error)
	AppendProcessedCaseFiles(ctx context.Context, id, executorID int64, files []string) ([]string, error)
	CompleteProcessedCase(ctx context.Context, id, requesterID int64) (*models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
}

type Service struct {
	repo     Repository
	validate *validation.Validator
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// New создает движок. m может быть nil.
func New(repo Repository, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validation.New(),
		metrics:  m,
		logger:   logger,
	}
}

// CreateCase публикует новый кейс заказчика со статусом open
func (s *Service) CreateCase(ctx context.Context, customerID int64, in models.NewCase) (c *models.Case, err error) {
	defer func() { s.metrics.Transition("create", metrics.Outcome(err)) }()

	if customerID <= 0 {
		return nil, apperr.Validation("customer id is required")
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Theme = strings.TrimSpace(in.Theme)
	in.Description = strings.TrimSpace(in.Description)
	in.Files = compact(in.Files)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	c, err = s.repo.CreateCase(ctx, customerID, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info("case created",
		zap.Int64("case_id", c.ID),
		zap.Int64("customer_id", customerID),
		zap.String("theme", c.Theme))
	return c, nil
}

// ClaimCase закрепляет открытый кейс за исполнителем. Из конкурентных захватов
// одного кейса успешен ровно один, остальные получают apperr.ErrConflict.
func (s *Service) ClaimCase(ctx context.Context, caseID, executorID int64) (pc *models.ProcessedCase, err error) {
	defer func() { s.metrics.Transition("claim", metrics.Outcome(err)) }()

	if caseID <= 0 || executorID <= 0 {
		return nil, apperr.Validation("case id and executor id are required")
	}

	pc, err = s.repo.ClaimCase(ctx, caseID, executorID)
	if err != nil {
		s.logger.Warn("case claim rejected",
			zap.Int64("case_id", caseID),
			zap.Int64("executor_id", executorID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("case claimed",
		zap.Int64("case_id", caseID),
		zap.Int64("processed_case_id", pc.ID),
		zap.Int64("executor_id", executorID))
	return pc, nil
}

// AuthorizeAppend проверяет, что исполнитель может добавлять файлы в кейс.
// Вызывается до сохранения загруженных файлов, чтобы не копить на диске чужие загрузки.
func (s *Service) AuthorizeAppend(ctx context.Context, processedCaseID, executorID int64) (*models.ProcessedCase, error) {
	pc, err := s.repo.GetProcessedCase(ctx, processedCaseID)
	if err != nil {
		return nil, err
	}
	if pc.ExecutorID != executorID {
		return nil, apperr.Authorization("user %d is not the executor of processed case %d", executorID, processedCaseID)
	}
	if pc.Status != models.ProcessedCaseStatusInProcess {
		return nil, apperr.Conflict("processed case %d is already completed", processedCaseID)
	}
	return pc, nil
}

// AppendFiles дописывает файлы исполнителя в кейс в работе и возвращает полный список
func (s *Service) AppendFiles(ctx context.Context, processedCaseID, executorID int64, files []string) (all []string, err error) {
	defer func() { s.metrics.Transition("append_files", metrics.Outcome(err)) }()

	files = compact(files)
	if len(files) == 0 {
		return nil, apperr.Validation("files are required")
	}

	if _, err = s.AuthorizeAppend(ctx, processedCaseID, executorID); err != nil {
		return nil, err
	}

	all, err = s.repo.AppendProcessedCaseFiles(ctx, processedCaseID, executorID, files)
	if err != nil {
		return nil, err
	}

	s.logger.Info("files appended",
		zap.Int64("processed_case_id", processedCaseID),
		zap.Int("added", len(files)),
		zap.Int("total", len(all)))
	return all, nil
}

// CompleteCase завершает кейс в работе и создает по нему закрытый проект.
// Повторный вызов возвращает apperr.ErrConflict и второй проект не создает.
func (s *Service) CompleteCase(ctx context.Context, processedCaseID, requesterID int64) (p *models.Project, err error) {
	defer func() { s.metrics.Transition("complete", metrics.Outcome(err)) }()

	if processedCaseID <= 0 || requesterID <= 0 {
		return nil, apperr.Validation("processed case id and user id are required")
	}

	p, err = s.repo.CompleteProcessedCase(ctx, processedCaseID, requesterID)
	if err != nil {
		s.logger.Warn("case completion rejected",
			zap.Int64("processed_case_id", processedCaseID),
			zap.Int64("requester_id", requesterID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("case completed",
		zap.Int64("processed_case_id", processedCaseID),
		zap.Int64("project_id", p.ID),
		zap.Int64("case_id", p.CaseID))
	return p, nil
}

func (s *Service) GetCase(ctx context.Context, id int64) (*models.Case, error) {
	return s.repo.GetCase(ctx, id)
}

func (s *Service) ListCases(ctx context.Context, filter models.CaseFilter) ([]models.Case, error) {
	return s.repo.ListCases(ctx, filter)
}

func (s *Service) GetProcessedCase(ctx context.Context, id int64) (*models.ProcessedCase, error) {
	return s.repo.GetProcessedCase(ctx, id)
}

func (s *Service) ListProcessedCases(ctx context.Context, filter models.ProcessedCaseFilter) ([]models.ProcessedCase, error) {
	return s.repo.ListProcessedCases(ctx, filter)
}

func (s *Service) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	return s.repo.GetProject(ctx, id)
}

func (s *Service) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	return s.repo.ListProjects(ctx, filter)
}

// compact убирает пустые пути, сохраняя порядок
func compact(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
