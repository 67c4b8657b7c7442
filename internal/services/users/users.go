// Package users отвечает за учетные записи: регистрацию, вход и профиль.
package users

import (
	"context"
	"errors"
	"strings"

	"github.com/untibullet/ideaflow/internal/apperr"
	"github.com/untibullet/ideaflow/internal/lib/password"
	"github.com/untibullet/ideaflow/internal/lib/validation"
	"github.com/untibullet/ideaflow/internal/models"
	"go.uber.org/zap"
)

const invalidCredentials = "invalid email or password"

type Repository interface {
	CreateUser(ctx context.Context, u models.User) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error)
}

type Service struct {
	repo     Repository
	validate *validation.Validator
	logger   *zap.Logger
}

func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validation.New(),
		logger:   logger,
	}
}

// Register создает пользователя. Email приводится к нижнему регистру, занятый email дает ErrConflict.
func (s *Service) Register(ctx context.Context, in models.Registration) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.CreateUser(ctx, models.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", u.ID))
	return u, nil
}

// Login проверяет учетные данные. Неизвестный email и неверный пароль неразличимы снаружи.
func (s *Service) Login(ctx context.Context, in models.Credentials) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.repo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Authorization(invalidCredentials)
		}
		return nil, err
	}

	if err := password.Compare(u.PasswordHash, in.Password); err != nil {
		s.logger.Warn("login rejected", zap.Int64("user_id", u.ID))
		return nil, apperr.Authorization(invalidCredentials)
	}
	return u, nil
}

func (s *Service) GetProfile(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetUser(ctx, id)
}

// UpdateProfile заменяет редактируемые поля профиля целиком
func (s *Service) UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error) {
	upd.FirstName = strings.TrimSpace(upd.FirstName)
	upd.LastName = strings.TrimSpace(upd.LastName)
	upd.Photo = strings.TrimSpace(upd.Photo)
	upd.Description = strings.TrimSpace(upd.Description)

	u, err := s.repo.UpdateProfile(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.logger.Info("profile updated", zap.Int64("user_id", id))
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
