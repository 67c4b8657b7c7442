// Package reviews накапливает отзывы о пользователях и считает по ним рейтинг.
// Рейтинг нигде не хранится и каждый раз пересчитывается по полному набору отзывов.
package reviews

import (
	"context"
	"math"
	"strings"

	"github.com/untibullet/ideaflow/internal/apperr"
	"github.com/untibullet/ideaflow/internal/lib/validation"
	"github.com/untibullet/ideaflow/internal/metrics"
	"github.com/untibullet/ideaflow/internal/models"
	"go.uber.org/zap"
)

// AnonymousReviewer имя автора, когда ни запрос, ни профиль его не содержат
const AnonymousReviewer = "Anonymous"

type Repository interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	AddReview(ctx context.Context, rv models.Review) (*models.Review, error)
	ListReviews(ctx context.Context, userID int64) ([]models.Review, error)
}

type Service struct {
	repo     Repository
	validate *validation.Validator
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func New(repo Repository, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validation.New(),
		metrics:  m,
		logger:   logger,
	}
}

// AddReview добавляет отзыв и возвращает обновленный список отзывов о пользователе
func (s *Service) AddReview(ctx context.Context, in models.NewReview) (list []models.Review, err error) {
	defer func() { s.metrics.Review(metrics.Outcome(err)) }()

	in.Text = strings.TrimSpace(in.Text)
	in.ReviewerName = strings.TrimSpace(in.ReviewerName)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if in.UserID == in.ReviewerID {
		return nil, apperr.Authorization("user %d cannot review themselves", in.UserID)
	}

	if _, err := s.repo.GetUser(ctx, in.UserID); err != nil {
		return nil, err
	}
	reviewer, err := s.repo.GetUser(ctx, in.ReviewerID)
	if err != nil {
		return nil, err
	}

	rv := models.Review{
		UserID:        in.UserID,
		ReviewerID:    in.ReviewerID,
		ReviewerName:  in.ReviewerName,
		ReviewerPhoto: in.ReviewerPhoto,
		Text:          in.Text,
		Rating:        in.Rating,
	}
	if rv.ReviewerName == "" {
		rv.ReviewerName = reviewer.FullName()
	}
	if rv.ReviewerName == "" {
		rv.ReviewerName = AnonymousReviewer
	}
	if rv.ReviewerPhoto == "" {
		rv.ReviewerPhoto = reviewer.Photo
	}

	created, err := s.repo.AddReview(ctx, rv)
	if err != nil {
		return nil, err
	}

	s.logger.Info("review added",
		zap.Int64("review_id", created.ID),
		zap.Int64("user_id", created.UserID),
		zap.Int64("reviewer_id", created.ReviewerID),
		zap.Int("rating", created.Rating))

	return s.repo.ListReviews(ctx, in.UserID)
}

// GetReviews возвращает отзывы о пользователе в порядке добавления
func (s *Service) GetReviews(ctx context.Context, userID int64) ([]models.Review, error) {
	return s.repo.ListReviews(ctx, userID)
}

// AverageRating возвращает средний рейтинг пользователя, 0 если отзывов нет
func (s *Service) AverageRating(ctx context.Context, userID int64) (float64, error) {
	list, err := s.repo.ListReviews(ctx, userID)
	if err != nil {
		return 0, err
	}
	return Average(list), nil
}

// Summary возвращает отзывы и рейтинг, посчитанный по тому же чтению
func (s *Service) Summary(ctx context.Context, userID int64) (models.ReviewSummary, error) {
	list, err := s.repo.ListReviews(ctx, userID)
	if err != nil {
		return models.ReviewSummary{}, err
	}
	return models.ReviewSummary{
		Reviews:       list,
		AverageRating: Average(list),
		Count:         len(list),
	}, nil
}

// Average среднее арифметическое оценок, округленное до одного знака.
// Для пустого набора возвращает 0, а не NaN.
func Average(list []models.Review) float64 {
	if len(list) == 0 {
		return 0
	}
	sum := 0
	for _, rv := range list {
		sum += rv.Rating
	}
	mean := float64(sum) / float64(len(list))
	return math.Round(mean*10) / 10
}
