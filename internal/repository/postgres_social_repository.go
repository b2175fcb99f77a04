package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"novel-reader/internal/domain"

	_ "github.com/lib/pq"
)

// PostgresSocialRepository implements domain.SocialRepository against the
// same likes and comments tables through a direct Postgres connection.
type PostgresSocialRepository struct {
	db     *sql.DB
	logger domain.Logger
}

// OpenPostgres opens and pings a lib/pq connection, retrying a few times
// while the database comes up.
func OpenPostgres(ctx context.Context, databaseURL string, logger domain.Logger) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL must be provided: %w", domain.ErrNotConfigured)
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	for i := 0; i < 3; i++ {
		if err = db.PingContext(ctx); err == nil {
			logger.Info("Successfully connected to the database")
			return db, nil
		}
		logger.Warn("Database connection failed, retrying", "attempt", i+1, "error", err)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}
	db.Close()
	return nil, fmt.Errorf("could not connect to database: %w", err)
}

// NewPostgresSocialRepository wraps an open connection.
func NewPostgresSocialRepository(db *sql.DB, logger domain.Logger) domain.SocialRepository {
	return &PostgresSocialRepository{db: db, logger: logger}
}

func (r *PostgresSocialRepository) CountLikes(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

func (r *PostgresSocialRepository) HasLiked(ctx context.Context, visitorID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM likes WHERE visitor_id = $1)`, visitorID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return exists, nil
}

func (r *PostgresSocialRepository) AddLike(ctx context.Context, visitorID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO likes (visitor_id) VALUES ($1) ON CONFLICT (visitor_id) DO NOTHING`, visitorID)
	if err != nil {
		return fmt.Errorf("failed to insert like: %w", err)
	}
	return nil
}

func (r *PostgresSocialRepository) RemoveLike(ctx context.Context, visitorID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE visitor_id = $1`, visitorID); err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

func (r *PostgresSocialRepository) ListComments(ctx context.Context) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id::text, user_name, comment_text, created_at, COALESCE(visitor_id, '')
		FROM comments
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.UserName, &c.Text, &c.CreatedAt, &c.VisitorID); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}
	return comments, nil
}

func (r *PostgresSocialRepository) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	created := domain.Comment{
		UserName:  sanitizeText(comment.UserName),
		Text:      sanitizeText(comment.Text),
		VisitorID: comment.VisitorID,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO comments (user_name, comment_text, visitor_id)
		VALUES ($1, $2, $3)
		RETURNING id::text, created_at`,
		created.UserName, created.Text, created.VisitorID,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	r.logger.Info("Comment created", "comment_id", created.ID, "visitor_id", created.VisitorID)
	return &created, nil
}

func (r *PostgresSocialRepository) DeleteComment(ctx context.Context, commentID, visitorID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE id::text = $1 AND visitor_id = $2`, commentID, visitorID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if affected == 0 {
		return domain.ErrCommentNotFound
	}
	r.logger.Info("Comment deleted", "comment_id", commentID, "visitor_id", visitorID)
	return nil
}
