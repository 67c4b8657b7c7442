package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/untibullet/ideaflow/internal/apperr"
	"github.com/untibullet/ideaflow/internal/models"
)

const processedCaseColumns = `id, case_id, user_id, title, theme, description, cover, files, status,
        executor_id, executor_email, created_at, completed_at`

func scanProcessedCase(row pgx.Row) (*models.ProcessedCase, error) {
	var pc models.ProcessedCase
	err := row.Scan(&pc.ID, &pc.CaseID, &pc.UserID, &pc.Title, &pc.Theme, &pc.Description,
		&pc.Cover, &pc.Files, &pc.Status, &pc.ExecutorID, &pc.ExecutorEmail, &pc.CreatedAt, &pc.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &pc, nil
}

// GetProcessedCase получает кейс в работе по ID
func (r *Repository) GetProcessedCase(ctx context.Context, id int64) (*models.ProcessedCase, error) {
	query := `SELECT ` + processedCaseColumns + ` FROM processed_cases WHERE id = $1`
	pc, err := scanProcessedCase(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("processed case %d", id)
	}
	if err != nil {
		return nil, apperr.Store("failed to get processed case", err)
	}
	return pc, nil
}

// ListProcessedCases возвращает кейсы в работе по фильтру, новые первыми
func (r *Repository) ListProcessedCases(ctx context.Context, filter models.ProcessedCaseFilter) ([]models.ProcessedCase, error) {
	var where conditions
	if filter.ExecutorID != nil {
		where.add("executor_id = $%d", *filter.ExecutorID)
	}
	if filter.UserID != nil {
		where.add("user_id = $%d", *filter.UserID)
	}
	if filter.Status != nil {
		where.add("status = $%d", string(*filter.Status))
	}

	query := `SELECT ` + processedCaseColumns + ` FROM processed_cases` +
		where.String() + ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, apperr.Store("failed to list processed cases", err)
	}
	defer rows.Close()

	result := make([]models.ProcessedCase, 0)
	for rows.Next() {
		pc, err := scanProcessedCase(rows)
		if err != nil {
			return nil, apperr.Store("failed to scan processed case", err)
		}
		result = append(result, *pc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("failed to iterate processed cases", err)
	}
	return result, nil
}

// AppendProcessedCaseFiles дописывает файлы в конец списка кейса в работе.
// Дописывание выполняется одним UPDATE, поэтому конкурентные вызовы не теряют файлы друг друга.
func (r *Repository) AppendProcessedCaseFiles(ctx context.Context, id, executorID int64, files []string) ([]string, error) {
	query := `
        UPDATE processed_cases
        SET files = files || $1::jsonb
        WHERE id = $2 AND executor_id = $3 AND status = $4
        RETURNING files
    `
	var updated []string
	err := r.pool.QueryRow(ctx, query,
		nonNil(files), id, executorID, string(models.ProcessedCaseStatusInProcess),
	).Scan(&updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.appendFailure(ctx, id, executorID)
	}
	if err != nil {
		return nil, apperr.Store("failed to append files", err)
	}
	return nonNil(updated), nil
}

func (r *Repository) appendFailure(ctx context.Context, id, executorID int64) error {
	pc, err := r.GetProcessedCase(ctx, id)
	if err != nil {
		return err
	}
	if pc.ExecutorID != executorID {
		return apperr.Authorization("user %d is not the executor of processed case %d", executorID, id)
	}
	return apperr.Conflict("processed case %d is already completed", id)
}

// CompleteProcessedCase переводит кейс в работе в completed и создает по нему проект.
// Запросить завершение может только заказчик или исполнитель. Исходная строка
// processed_cases остается как история. Повторное завершение возвращает ErrConflict.
func (r *Repository) CompleteProcessedCase(ctx context.Context, id, requesterID int64) (*models.Project, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, apperr.Store("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	p := &models.Project{
		ProcessedCaseID: id,
		Status:          models.ProjectStatusClosed,
	}

	completeQuery := `
        UPDATE processed_cases
        SET status = $1, completed_at = NOW()
        WHERE id = $2 AND status = $3 AND (user_id = $4 OR executor_id = $4)
        RETURNING case_id, user_id, title, theme, description, cover, files, executor_id, executor_email
    `
	err = tx.QueryRow(ctx, completeQuery,
		string(models.ProcessedCaseStatusCompleted), id, string(models.ProcessedCaseStatusInProcess), requesterID,
	).Scan(&p.CaseID, &p.UserID, &p.Title, &p.Theme, &p.Description, &p.Cover, &p.Files,
		&p.ExecutorID, &p.ExecutorEmail)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, completeFailure(ctx, tx, id, requesterID)
	}
	if err != nil {
		return nil, apperr.Store("failed to complete processed case", err)
	}

	insertQuery := `
        INSERT INTO projects
            (case_id, processed_case_id, user_id, title, theme, description, cover, files,
             status, executor_id, executor_email)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at
    `
	err = tx.QueryRow(ctx, insertQuery,
		p.CaseID, p.ProcessedCaseID, p.UserID, p.Title, p.Theme, p.Description, p.Cover, nonNil(p.Files),
		string(p.Status), p.ExecutorID, p.ExecutorEmail,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("processed case %d is already completed", id)
		}
		return nil, apperr.Store("failed to create project", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, apperr.Store("failed to commit transaction", err)
	}

	p.Files = nonNil(p.Files)
	return p, nil
}

func completeFailure(ctx context.Context, tx pgx.Tx, id, requesterID int64) error {
	var status models.ProcessedCaseStatus
	var customerID, executorID int64
	err := tx.QueryRow(ctx,
		`SELECT status, user_id, executor_id FROM processed_cases WHERE id = $1`, id,
	).Scan(&status, &customerID, &executorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("processed case %d", id)
	}
	if err != nil {
		return apperr.Store("failed to check processed case status", err)
	}

	if requesterID != customerID && requesterID != executorID {
		return apperr.Authorization("user %d is neither customer nor executor of processed case %d", requesterID, id)
	}
	return apperr.Conflict("processed case %d is already completed", id)
}
