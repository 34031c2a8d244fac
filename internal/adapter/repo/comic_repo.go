package repo

import (
	"context"
	"fmt"

	"dreamtoons/internal/domain"
	"dreamtoons/internal/infra"
	"dreamtoons/internal/sqlinline"
)

// ComicRepositoryPG implements domain.ComicJobRepository on PostgreSQL.
// The comics table doubles as the durable work queue: pending rows are the
// queue, claiming is FOR UPDATE SKIP LOCKED.
type ComicRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewComicRepository(sql infra.SQLExecutor) *ComicRepositoryPG {
	return &ComicRepositoryPG{sql: sql}
}

func (r *ComicRepositoryPG) Insert(ctx context.Context, job *domain.ComicJob) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertComicJob,
		job.ID,
		job.UserID,
		job.Story,
		job.Style,
		job.RequestedPanels,
		job.AvatarPath,
	)
	if err != nil {
		return fmt.Errorf("insert comic job: %w: %w", domain.ErrDatabase, err)
	}
	return nil
}

func (r *ComicRepositoryPG) Claim(ctx context.Context) (*domain.ComicJob, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QClaimComicJob)
	job := &domain.ComicJob{Status: domain.ComicStatusProcessing}
	err := row.Scan(&job.ID, &job.UserID, &job.Story, &job.Style, &job.RequestedPanels, &job.AvatarPath)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("claim comic job: %w: %w", domain.ErrDatabase, err)
	}
	return job, nil
}

func (r *ComicRepositoryPG) UpdateTitle(ctx context.Context, jobID, title string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QUpdateComicTitle, jobID, title); err != nil {
		return fmt.Errorf("update comic title: %w: %w", domain.ErrDatabase, err)
	}
	return nil
}

func (r *ComicRepositoryPG) Complete(ctx context.Context, jobID string, imagePaths []string, panelCount int) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QCompleteComicJob, jobID, imagePaths, panelCount); err != nil {
		return fmt.Errorf("complete comic job: %w: %w", domain.ErrDatabase, err)
	}
	return nil
}

func (r *ComicRepositoryPG) Fail(ctx context.Context, jobID string, errType domain.ErrorType, message string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QFailComicJob, jobID, string(errType), message); err != nil {
		return fmt.Errorf("fail comic job: %w: %w", domain.ErrDatabase, err)
	}
	return nil
}

func (r *ComicRepositoryPG) Get(ctx context.Context, jobID string) (*domain.ComicJob, error) {
	return r.scanJob(r.sql.QueryRow(ctx, sqlinline.QGetComicJob, jobID))
}

func (r *ComicRepositoryPG) GetForUser(ctx context.Context, jobID, userID string) (*domain.ComicJob, error) {
	return r.scanJob(r.sql.QueryRow(ctx, sqlinline.QGetComicJobForUser, jobID, userID))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ComicRepositoryPG) scanJob(row rowScanner) (*domain.ComicJob, error) {
	var job domain.ComicJob
	var errType string
	err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.Story,
		&job.Style,
		&job.RequestedPanels,
		&job.Status,
		&job.Title,
		&job.ImagePaths,
		&job.PanelCount,
		&job.AvatarPath,
		&errType,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get comic job: %w: %w", domain.ErrDatabase, err)
	}
	job.ErrorType = domain.ErrorType(errType)
	return &job, nil
}

var _ domain.ComicJobRepository = (*ComicRepositoryPG)(nil)
