// Package profile собирает сводку активности пользователя для страницы профиля.
// Ничего не кэширует: каждая сводка строится заново из хранилища.
package profile

import (
	"context"
	"sort"

	"github.com/untibullet/ideaflow/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Store interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListCases(ctx context.Context, filter models.CaseFilter) ([]models.Case, error)
	ListProcessedCases(ctx context.Context, filter models.ProcessedCaseFilter) ([]models.ProcessedCase, error)
	ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
}

type ReviewSource interface {
	Summary(ctx context.Context, userID int64) (models.ReviewSummary, error)
}

type Service struct {
	store   Store
	reviews ReviewSource
	logger  *zap.Logger
}

func New(store Store, reviews ReviewSource, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		reviews: reviews,
		logger:  logger,
	}
}

// Overview возвращает четыре представления профиля. Ошибка возможна только
// при загрузке самого пользователя; сбой отдельного представления логируется,
// а представление отдается пустым.
func (s *Service) Overview(ctx context.Context, userID int64) (*models.ProfileOverview, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ov := &models.ProfileOverview{
		User:                *user,
		CustomerItems:       []models.CustomerItem{},
		CompletedAsExecutor: []models.Project{},
		InProcessAsExecutor: []models.ProcessedCase{},
		Reviews:             []models.Review{},
	}

	// горутины пишут в разные поля ov, ошибки из них не возвращаются
	var g errgroup.Group
	g.Go(func() error {
		items, err := s.customerItems(ctx, userID)
		if err != nil {
			s.warn("customer items", userID, err)
			return nil
		}
		ov.CustomerItems = items
		return nil
	})
	g.Go(func() error {
		projects, err := s.store.ListProjects(ctx, models.ProjectFilter{ExecutorEmail: user.Email})
		if err != nil {
			s.warn("completed as executor", userID, err)
			return nil
		}
		ov.CompletedAsExecutor = closedOnly(projects)
		return nil
	})
	g.Go(func() error {
		inProcess := models.ProcessedCaseStatusInProcess
		pcs, err := s.store.ListProcessedCases(ctx, models.ProcessedCaseFilter{ExecutorID: &userID, Status: &inProcess})
		if err != nil {
			s.warn("in process as executor", userID, err)
			return nil
		}
		ov.InProcessAsExecutor = pcs
		return nil
	})
	g.Go(func() error {
		summary, err := s.reviews.Summary(ctx, userID)
		if err != nil {
			s.warn("reviews", userID, err)
			return nil
		}
		if summary.Reviews != nil {
			ov.Reviews = summary.Reviews
		}
		ov.AverageRating = summary.AverageRating
		return nil
	})
	_ = g.Wait()

	return ov, nil
}

// customerItems объединяет открытые кейсы и закрытые проекты заказчика.
// Открытые идут первыми, внутри групп порядок хранилища сохраняется.
func (s *Service) customerItems(ctx context.Context, userID int64) ([]models.CustomerItem, error) {
	open := models.CaseStatusOpen
	cases, err := s.store.ListCases(ctx, models.CaseFilter{Status: &open, UserID: &userID})
	if err != nil {
		return nil, err
	}
	projects, err := s.store.ListProjects(ctx, models.ProjectFilter{UserID: &userID})
	if err != nil {
		return nil, err
	}

	items := make([]models.CustomerItem, 0, len(cases)+len(projects))
	for _, c := range cases {
		items = append(items, models.CustomerItem{
			Kind:        models.CustomerItemCase,
			ID:          c.ID,
			CaseID:      c.ID,
			Title:       c.Title,
			Theme:       c.Theme,
			Description: c.Description,
			Cover:       c.Cover,
			Status:      string(c.Status),
			CreatedAt:   c.CreatedAt,
		})
	}
	for _, p := range closedOnly(projects) {
		items = append(items, models.CustomerItem{
			Kind:          models.CustomerItemProject,
			ID:            p.ID,
			CaseID:        p.CaseID,
			Title:         p.Title,
			Theme:         p.Theme,
			Description:   p.Description,
			Cover:         p.Cover,
			Status:        string(p.Status),
			ExecutorEmail: p.ExecutorEmail,
			CreatedAt:     p.CreatedAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Open() && !items[j].Open()
	})
	return items, nil
}

func (s *Service) warn(view string, userID int64, err error) {
	s.logger.Warn("profile view unavailable",
		zap.String("view", view),
		zap.Int64("user_id", userID),
		zap.Error(err))
}

func closedOnly(projects []models.Project) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if p.Status == models.ProjectStatusClosed {
			out = append(out, p)
		}
	}
	return out
}
