package repo

import (
	"context"
	"fmt"

	"dreamtoons/internal/domain"
	"dreamtoons/internal/infra"
	"dreamtoons/internal/sqlinline"
)

// AvatarRepositoryPG implements domain.AvatarJobRepository on PostgreSQL.
type AvatarRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewAvatarRepository(sql infra.SQLExecutor) *AvatarRepositoryPG {
	return &AvatarRepositoryPG{sql: sql}
}

func (r *AvatarRepositoryPG) Insert(ctx context.Context, job *domain.AvatarJob) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertAvatarJob,
		job.ID,
		job.UserID,
		job.StyleName,
		job.Prompt,
		job.PhotoPath,
	)
	if err != nil {
		return fmt.Errorf("insert avatar job: %w: %w", domain.ErrDatabase, err)
	}
	return nil
}

func (r *AvatarRepositoryPG) Claim(ctx context.Context) (*domain.AvatarJob, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QClaimAvatarJob)
	job := &domain.AvatarJob{Status: domain.AvatarStatusProcessing}
	err := row.Scan(&job.ID, &job.UserID, &job.StyleName, &job.Prompt, &job.PhotoPath)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("claim avatar job: %w: %w", domain.ErrDatabase, err)
	}
	return job, nil
}

func (r *AvatarRepositoryPG) Complete(ctx context.Context, jobID, avatarPath string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QCompleteAvatarJob, jobID, avatarPath); err != nil {
		return fmt.Errorf("complete avatar job: %w: %w", domain.ErrDatabase, err)
	}
	return nil
}

func (r *AvatarRepositoryPG) Fail(ctx context.Context, jobID string, errType domain.ErrorType, message string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QFailAvatarJob, jobID, string(errType), message); err != nil {
		return fmt.Errorf("fail avatar job: %w: %w", domain.ErrDatabase, err)
	}
	return nil
}

func (r *AvatarRepositoryPG) GetForUser(ctx context.Context, jobID, userID string) (*domain.AvatarJob, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QGetAvatarJobForUser, jobID, userID)
	var job domain.AvatarJob
	var errType string
	err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.StyleName,
		&job.Prompt,
		&job.PhotoPath,
		&job.Status,
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
		return nil, fmt.Errorf("get avatar job: %w: %w", domain.ErrDatabase, err)
	}
	job.ErrorType = domain.ErrorType(errType)
	return &job, nil
}

// Finalize links the generated avatar to the user and style in one pass:
// avatar record, unlocked style and profile display avatar.
func (r *AvatarRepositoryPG) Finalize(ctx context.Context, userID, styleName, avatarPath string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QInsertAvatar, userID, styleName, avatarPath); err != nil {
		return fmt.Errorf("insert avatar: %w: %w", domain.ErrDatabase, err)
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QUpsertUnlockedStyle, userID, styleName); err != nil {
		return fmt.Errorf("unlock style: %w: %w", domain.ErrDatabase, err)
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QUpdateProfileAvatar, userID, avatarPath, styleName); err != nil {
		return fmt.Errorf("update profile avatar: %w: %w", domain.ErrDatabase, err)
	}
	return nil
}

func (r *AvatarRepositoryPG) AvatarForStyle(ctx context.Context, userID, styleName string) (string, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QGetAvatarForStyle, userID, styleName)
	var path string
	if err := row.Scan(&path); err != nil {
		if infra.IsNoRows(err) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get avatar for style: %w: %w", domain.ErrDatabase, err)
	}
	return path, nil
}

var _ domain.AvatarJobRepository = (*AvatarRepositoryPG)(nil)
