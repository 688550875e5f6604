package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/maja/schedly-api/internal/database"
	"github.com/maja/schedly-api/internal/models"
)

var ErrPostNotFound = errors.New("post not found")

const postColumns = `id, workspace_id, author_id, content, status,
	scheduled_at, created_at, updated_at`

type PostService struct {
	db *database.DB
}

func NewPostService(db *database.DB) *PostService {
	return &PostService{db: db}
}

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID, &p.WorkspaceID, &p.AuthorID, &p.Content, &p.Status,
		&p.ScheduledAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostService) Create(ctx context.Context, workspaceID, authorID uuid.UUID, content string, scheduledAt *time.Time) (*models.Post, error) {
	post, err := scanPost(s.db.Pool.QueryRow(ctx, `
		INSERT INTO posts (workspace_id, author_id, content, status, scheduled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+postColumns+`
	`, workspaceID, authorID, content, models.PostStatusDraft, scheduledAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (s *PostService) GetByID(ctx context.Context, workspaceID, postID uuid.UUID) (*models.Post, error) {
	post, err := scanPost(s.db.Pool.QueryRow(ctx, `
		SELECT `+postColumns+` FROM posts WHERE id = $1 AND workspace_id = $2
	`, postID, workspaceID))
	if err != nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) GetWorkspacePosts(ctx context.Context, workspaceID uuid.UUID) ([]models.Post, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE workspace_id = $1
		ORDER BY created_at DESC
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(
			&p.ID, &p.WorkspaceID, &p.AuthorID, &p.Content, &p.Status,
			&p.ScheduledAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (s *PostService) Update(ctx context.Context, workspaceID, postID uuid.UUID, content string, scheduledAt *time.Time) (*models.Post, error) {
	post, err := scanPost(s.db.Pool.QueryRow(ctx, `
		UPDATE posts SET content = $1, scheduled_at = $2, updated_at = NOW()
		WHERE id = $3 AND workspace_id = $4
		RETURNING `+postColumns+`
	`, content, scheduledAt, postID, workspaceID))
	if err != nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// SubmitForApproval moves a draft into the approval queue.
func (s *PostService) SubmitForApproval(ctx context.Context, workspaceID, postID uuid.UUID) (*models.Post, error) {
	post, err := scanPost(s.db.Pool.QueryRow(ctx, `
		UPDATE posts SET status = $1, updated_at = NOW()
		WHERE id = $2 AND workspace_id = $3 AND status = $4
		RETURNING `+postColumns+`
	`, models.PostStatusPendingApproval, postID, workspaceID, models.PostStatusDraft))
	if err != nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Approve marks a pending post approved; scheduling picks it up from there.
func (s *PostService) Approve(ctx context.Context, workspaceID, postID uuid.UUID) (*models.Post, error) {
	post, err := scanPost(s.db.Pool.QueryRow(ctx, `
		UPDATE posts SET status = $1, updated_at = NOW()
		WHERE id = $2 AND workspace_id = $3 AND status = $4
		RETURNING `+postColumns+`
	`, models.PostStatusApproved, postID, workspaceID, models.PostStatusPendingApproval))
	if err != nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) Schedule(ctx context.Context, workspaceID, postID uuid.UUID, scheduledAt time.Time) (*models.Post, error) {
	post, err := scanPost(s.db.Pool.QueryRow(ctx, `
		UPDATE posts SET status = $1, scheduled_at = $2, updated_at = NOW()
		WHERE id = $3 AND workspace_id = $4 AND status = $5
		RETURNING `+postColumns+`
	`, models.PostStatusScheduled, scheduledAt, postID, workspaceID, models.PostStatusApproved))
	if err != nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, workspaceID, postID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM posts WHERE id = $1 AND workspace_id = $2
	`, postID, workspaceID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}
