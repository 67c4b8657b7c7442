package repository

import (
	"context"

	"github.com/untibullet/ideaflow/internal/apperr"
	"github.com/untibullet/ideaflow/internal/models"
)

// AddReview добавляет отзыв. Отзывы только дописываются, изменение и удаление не предусмотрены.
func (r *Repository) AddReview(ctx context.Context, rv models.Review) (*models.Review, error) {
	query := `
        INSERT INTO reviews (user_id, reviewer_id, reviewer_name, reviewer_photo, text, rating)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	err := r.pool.QueryRow(ctx, query,
		rv.UserID, rv.ReviewerID, rv.ReviewerName, rv.ReviewerPhoto, rv.Text, rv.Rating,
	).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperr.NotFound("user %d or reviewer %d", rv.UserID, rv.ReviewerID)
		}
		return nil, apperr.Store("failed to add review", err)
	}
	return &rv, nil
}

// ListReviews возвращает отзывы о пользователе в порядке добавления
func (r *Repository) ListReviews(ctx context.Context, userID int64) ([]models.Review, error) {
	query := `
        SELECT id, user_id, reviewer_id, reviewer_name, reviewer_photo, text, rating, created_at
        FROM reviews
        WHERE user_id = $1
        ORDER BY created_at, id
    `
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperr.Store("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ReviewerID, &rv.ReviewerName,
			&rv.ReviewerPhoto, &rv.Text, &rv.Rating, &rv.CreatedAt); err != nil {
			return nil, apperr.Store("failed to scan review", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("failed to iterate reviews", err)
	}
	return reviews, nil
}
