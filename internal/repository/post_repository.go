package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/postloop/postloop-api/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error)
	GetByLibraryID(ctx context.Context, libraryID int64) ([]*models.Post, error)
	NextDraftForLibrary(ctx context.Context, libraryID int64) (*models.Post, error)
	MarkPublished(ctx context.Context, postID int64, publishedAt time.Time) (bool, error)
	UpdatePostStatus(ctx context.Context, status string, postID int64) error
	UpdateContent(ctx context.Context, postID int64, content string) error
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, user_id, library_id, content, platforms, status, scheduled_at, published_at, last_published_at, is_evergreen, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var post models.Post
	err := row.Scan(&post.ID, &post.UserID, &post.LibraryID, &post.Content, &post.Platforms,
		&post.Status, &post.ScheduledAt, &post.PublishedAt, &post.LastPublishedAt,
		&post.IsEvergreen, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (user_id, library_id, content, platforms, status, scheduled_at, is_evergreen)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	var err error

	args := []any{post.UserID, post.LibraryID, post.Content, pq.Array(post.Platforms), post.Status, post.ScheduledAt, post.IsEvergreen}
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryPosts(ctx, query, userID)
}

func (r *postRepository) GetByLibraryID(ctx context.Context, libraryID int64) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE library_id = $1 ORDER BY created_at ASC`
	return r.queryPosts(ctx, query, libraryID)
}

func (r *postRepository) queryPosts(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// NextDraftForLibrary picks the library's next queued draft: never-published
// drafts first (last_published_at is null for those), oldest created first.
func (r *postRepository) NextDraftForLibrary(ctx context.Context, libraryID int64) (*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE library_id = $1 AND status = $2
		ORDER BY last_published_at ASC NULLS FIRST, created_at ASC
		LIMIT 1
	`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, libraryID, models.PostStatusDraft))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

// MarkPublished flips a draft to published in one conditional update. The
// status guard means a concurrent edit that already moved the post out of
// draft makes this a no-op, reported through the returned bool.
func (r *postRepository) MarkPublished(ctx context.Context, postID int64, publishedAt time.Time) (bool, error) {
	query := `
		UPDATE posts
		SET status = $1,
			published_at = $2,
			is_evergreen = false,
			updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.db.ExecContext(ctx, query, models.PostStatusPublished, publishedAt, postID, models.PostStatusDraft)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	return affected > 0, nil
}

func (r *postRepository) UpdatePostStatus(ctx context.Context, status string, postID int64) error {
	query := `
		UPDATE posts
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) UpdateContent(ctx context.Context, postID int64, content string) error {
	query := `
		UPDATE posts
		SET content = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, content, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
