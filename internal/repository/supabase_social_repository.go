package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"novel-reader/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

const (
	likesTable    = "likes"
	commentsTable = "comments"

	commentColumns = "id,user_name,comment_text,created_at,visitor_id"
)

// TableClient is the query entry point shared by *supabase.Client and
// *postgrest.Client.
type TableClient interface {
	From(table string) *postgrest.QueryBuilder
}

// SupabaseSocialRepository implements domain.SocialRepository over the
// PostgREST API of a Supabase project.
type SupabaseSocialRepository struct {
	tables func() TableClient
	logger domain.Logger
}

// NewSupabaseSocialRepository creates a repository backed by an initialized
// Supabase client.
func NewSupabaseSocialRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.SocialRepository {
	return &SupabaseSocialRepository{
		tables: func() TableClient {
			if db := supabaseClient.DB(); db != nil {
				return db
			}
			return nil
		},
		logger: logger,
	}
}

// NewPostgrestSocialRepository creates a repository that talks to a PostgREST
// endpoint directly.
func NewPostgrestSocialRepository(client *postgrest.Client, logger domain.Logger) domain.SocialRepository {
	return &SupabaseSocialRepository{
		tables: func() TableClient { return client },
		logger: logger,
	}
}

func (r *SupabaseSocialRepository) client(ctx context.Context) (TableClient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client := r.tables()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized: %w", domain.ErrNotConfigured)
	}
	return client, nil
}

// CountLikes returns the exact row count of the likes table.
func (r *SupabaseSocialRepository) CountLikes(ctx context.Context) (int, error) {
	client, err := r.client(ctx)
	if err != nil {
		return 0, err
	}

	_, count, err := client.From(likesTable).Select("id", "exact", true).Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return int(count), nil
}

// HasLiked reports whether a like row exists for the visitor.
func (r *SupabaseSocialRepository) HasLiked(ctx context.Context, visitorID string) (bool, error) {
	client, err := r.client(ctx)
	if err != nil {
		return false, err
	}

	data, _, err := client.From(likesTable).
		Select("id", "", false).
		Eq("visitor_id", visitorID).
		Limit(1, "").
		Execute()
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return false, fmt.Errorf("failed to unmarshal like: %w", err)
	}
	return len(rows) > 0, nil
}

// AddLike records the visitor's like. Liking twice keeps a single row.
func (r *SupabaseSocialRepository) AddLike(ctx context.Context, visitorID string) error {
	client, err := r.client(ctx)
	if err != nil {
		return err
	}

	row := map[string]interface{}{"visitor_id": visitorID}
	if _, _, err := client.From(likesTable).Insert(row, true, "visitor_id", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("failed to insert like: %w", err)
	}
	r.logger.Debug("Like added", "visitor_id", visitorID)
	return nil
}

// RemoveLike deletes the visitor's like, if any.
func (r *SupabaseSocialRepository) RemoveLike(ctx context.Context, visitorID string) error {
	client, err := r.client(ctx)
	if err != nil {
		return err
	}

	if _, _, err := client.From(likesTable).Delete("minimal", "").Eq("visitor_id", visitorID).Execute(); err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	r.logger.Debug("Like removed", "visitor_id", visitorID)
	return nil
}

// ListComments returns every comment, newest first.
func (r *SupabaseSocialRepository) ListComments(ctx context.Context) ([]domain.Comment, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}

	data, _, err := client.From(commentsTable).
		Select(commentColumns, "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comments: %w", err)
	}

	comments := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, mapComment(row))
	}
	return comments, nil
}

// CreateComment inserts a comment and returns the stored row with its
// server-assigned id and timestamp.
func (r *SupabaseSocialRepository) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}

	row := map[string]interface{}{
		"user_name":    sanitizeText(comment.UserName),
		"comment_text": sanitizeText(comment.Text),
		"visitor_id":   comment.VisitorID,
	}

	data, _, err := client.From(commentsTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert returned no comment")
	}

	created := mapComment(rows[0])
	r.logger.Info("Comment created", "comment_id", created.ID, "visitor_id", created.VisitorID)
	return &created, nil
}

// DeleteComment removes a comment written by visitorID. Matching on both
// columns keeps other visitors' rows out of reach.
func (r *SupabaseSocialRepository) DeleteComment(ctx context.Context, commentID, visitorID string) error {
	client, err := r.client(ctx)
	if err != nil {
		return err
	}

	data, _, err := client.From(commentsTable).
		Delete("representation", "").
		Eq("id", commentID).
		Eq("visitor_id", visitorID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to unmarshal deleted comment: %w", err)
	}
	if len(rows) == 0 {
		return domain.ErrCommentNotFound
	}
	r.logger.Info("Comment deleted", "comment_id", commentID, "visitor_id", visitorID)
	return nil
}

func mapComment(row map[string]interface{}) domain.Comment {
	return domain.Comment{
		ID:        getID(row, "id"),
		UserName:  getString(row, "user_name"),
		Text:      getString(row, "comment_text"),
		CreatedAt: getTime(row, "created_at"),
		VisitorID: getString(row, "visitor_id"),
	}
}
