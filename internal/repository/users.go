package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/untibullet/ideaflow/internal/apperr"
	"github.com/untibullet/ideaflow/internal/models"
)

const userColumns = `id, email, password_hash, first_name, last_name, photo, description, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Photo, &u.Description, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser сохраняет нового пользователя. Занятый email возвращает ErrConflict.
func (r *Repository) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	query := `
        INSERT INTO users (email, password_hash, first_name, last_name, photo, description)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + userColumns

	created, err := scanUser(r.pool.QueryRow(ctx, query,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Photo, u.Description))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("email %s is already registered", u.Email)
		}
		return nil, apperr.Store("failed to create user", err)
	}
	return created, nil
}

// GetUser получает пользователя по ID
func (r *Repository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return getUser(ctx, r.pool, id)
}

func getUser(ctx context.Context, q querier, id int64) (*models.User, error) {
	u, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user %d", id)
	}
	if err != nil {
		return nil, apperr.Store("failed to get user", err)
	}
	return u, nil
}

// GetUserByEmail получает пользователя по email вместе с хешем пароля
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user with email %s", email)
	}
	if err != nil {
		return nil, apperr.Store("failed to get user by email", err)
	}
	return u, nil
}

// UpdateProfile заменяет редактируемые поля профиля
func (r *Repository) UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error) {
	query := `
        UPDATE users
        SET first_name = $1, last_name = $2, photo = $3, description = $4, updated_at = NOW()
        WHERE id = $5
        RETURNING ` + userColumns

	u, err := scanUser(r.pool.QueryRow(ctx, query,
		upd.FirstName, upd.LastName, upd.Photo, upd.Description, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user %d", id)
	}
	if err != nil {
		return nil, apperr.Store("failed to update profile", err)
	}
	return u, nil
}
