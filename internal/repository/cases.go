package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/untibullet/ideaflow/internal/apperr"
	"github.com/untibullet/ideaflow/internal/models"
)

const caseColumns = `c.id, c.user_id, u.email, c.title, c.theme, c.description, c.cover, c.files, c.status, c.executor_id, c.created_at`

func scanCase(row pgx.Row) (*models.Case, error) {
	var c models.Case
	err := row.Scan(&c.ID, &c.UserID, &c.UserEmail, &c.Title, &c.Theme, &c.Description,
		&c.Cover, &c.Files, &c.Status, &c.ExecutorID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// conditions собирает WHERE с позиционными параметрами
type conditions struct {
	parts []string
	args  []any
}

// add добавляет условие; в cond ровно один %d под номер параметра
func (c *conditions) add(cond string, arg any) {
	c.args = append(c.args, arg)
	c.parts = append(c.parts, fmt.Sprintf(cond, len(c.args)))
}

func (c *conditions) String() string {
	if len(c.parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.parts, " AND ")
}

// CreateCase сохраняет новый кейс заказчика со статусом open
func (r *Repository) CreateCase(ctx context.Context, customerID int64, in models.NewCase) (*models.Case, error) {
	query := `
        WITH inserted AS (
            INSERT INTO cases (user_id, title, theme, description, cover, files, status)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING *
        )
        SELECT ` + caseColumns + `
        FROM inserted c
        JOIN users u ON u.id = c.user_id
    `
	c, err := scanCase(r.pool.QueryRow(ctx, query,
		customerID, in.Title, in.Theme, in.Description, in.Cover, nonNil(in.Files), models.CaseStatusOpen))
	if errors.Is(err, pgx.ErrNoRows) || isForeignKeyViolation(err) {
		return nil, apperr.NotFound("user %d", customerID)
	}
	if err != nil {
		return nil, apperr.Store("failed to create case", err)
	}
	return c, nil
}

// GetCase получает кейс по ID вместе с email заказчика
func (r *Repository) GetCase(ctx context.Context, id int64) (*models.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases c JOIN users u ON u.id = c.user_id WHERE c.id = $1`
	c, err := scanCase(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("case %d", id)
	}
	if err != nil {
		return nil, apperr.Store("failed to get case", err)
	}
	return c, nil
}

// ListCases возвращает кейсы по фильтру, новые первыми
func (r *Repository) ListCases(ctx context.Context, filter models.CaseFilter) ([]models.Case, error) {
	var where conditions
	if filter.Status != nil {
		where.add("c.status = $%d", string(*filter.Status))
	}
	if filter.UserID != nil {
		where.add("c.user_id = $%d", *filter.UserID)
	}

	query := `SELECT ` + caseColumns + ` FROM cases c JOIN users u ON u.id = c.user_id` +
		where.String() + ` ORDER BY c.created_at DESC, c.id DESC`

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, apperr.Store("failed to list cases", err)
	}
	defer rows.Close()

	cases := make([]models.Case, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, apperr.Store("failed to scan case", err)
		}
		cases = append(cases, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("failed to iterate cases", err)
	}
	return cases, nil
}

// ClaimCase закрепляет открытый кейс за исполнителем и создает по нему кейс в работе.
// Перевод статуса выполняется условным UPDATE по status = 'open' внутри той же транзакции,
// что и вставка в processed_cases, поэтому из конкурентных захватов успешен ровно один.
func (r *Repository) ClaimCase(ctx context.Context, caseID, executorID int64) (*models.ProcessedCase, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, apperr.Store("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	executor, err := getUser(ctx, tx, executorID)
	if err != nil {
		return nil, err
	}

	pc := &models.ProcessedCase{
		CaseID:        caseID,
		Status:        models.ProcessedCaseStatusInProcess,
		ExecutorID:    executorID,
		ExecutorEmail: executor.Email,
	}

	// Compare-and-swap: строка обновится, только если кейс все еще открыт
	claimQuery := `
        UPDATE cases
        SET status = $1, executor_id = $2
        WHERE id = $3 AND status = $4 AND user_id <> $2
        RETURNING user_id, title, theme, description, cover, files
    `
	err = tx.QueryRow(ctx, claimQuery,
		string(models.CaseStatusClaimed), executorID, caseID, string(models.CaseStatusOpen),
	).Scan(&pc.UserID, &pc.Title, &pc.Theme, &pc.Description, &pc.Cover, &pc.Files)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, claimFailure(ctx, tx, caseID, executorID)
	}
	if err != nil {
		return nil, apperr.Store("failed to claim case", err)
	}

	insertQuery := `
        INSERT INTO processed_cases
            (case_id, user_id, title, theme, description, cover, files, status, executor_id, executor_email)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at
    `
	err = tx.QueryRow(ctx, insertQuery,
		pc.CaseID, pc.UserID, pc.Title, pc.Theme, pc.Description, pc.Cover, nonNil(pc.Files),
		string(pc.Status), pc.ExecutorID, pc.ExecutorEmail,
	).Scan(&pc.ID, &pc.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("case %d is already claimed", caseID)
		}
		return nil, apperr.Store("failed to create processed case", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, apperr.Store("failed to commit transaction", err)
	}

	pc.Files = nonNil(pc.Files)
	return pc, nil
}

// claimFailure определяет, почему условный UPDATE не затронул строку
func claimFailure(ctx context.Context, tx pgx.Tx, caseID, executorID int64) error {
	var status models.CaseStatus
	var ownerID int64
	err := tx.QueryRow(ctx, `SELECT status, user_id FROM cases WHERE id = $1`, caseID).Scan(&status, &ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("case %d", caseID)
	}
	if err != nil {
		return apperr.Store("failed to check case status", err)
	}

	switch {
	case status != models.CaseStatusOpen:
		return apperr.Conflict("case %d is already claimed", caseID)
	case ownerID == executorID:
		return apperr.Authorization("user %d cannot claim own case %d", executorID, caseID)
	default:
		return apperr.Conflict("case %d cannot be claimed", caseID)
	}
}
