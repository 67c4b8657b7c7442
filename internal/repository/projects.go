package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/untibullet/ideaflow/internal/apperr"
	"github.com/untibullet/ideaflow/internal/models"
)

const projectColumns = `id, case_id, processed_case_id, user_id, title, theme, description, cover, files,
        status, executor_id, executor_email, created_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.CaseID, &p.ProcessedCaseID, &p.UserID, &p.Title, &p.Theme,
		&p.Description, &p.Cover, &p.Files, &p.Status, &p.ExecutorID, &p.ExecutorEmail, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProject получает проект по ID
func (r *Repository) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("project %d", id)
	}
	if err != nil {
		return nil, apperr.Store("failed to get project", err)
	}
	return p, nil
}

// ListProjects возвращает проекты по фильтру, новые первыми
func (r *Repository) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	var where conditions
	if filter.UserID != nil {
		where.add("user_id = $%d", *filter.UserID)
	}
	if filter.ExecutorID != nil {
		where.add("executor_id = $%d", *filter.ExecutorID)
	}
	if filter.ExecutorEmail != "" {
		where.add("executor_email = $%d", filter.ExecutorEmail)
	}

	query := `SELECT ` + projectColumns + ` FROM projects` + where.String() + ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, apperr.Store("failed to list projects", err)
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, apperr.Store("failed to scan project", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("failed to iterate projects", err)
	}
	return projects, nil
}
