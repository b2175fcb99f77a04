package domain

import "time"

// Comment is a reader thought attached to the featured work.
type Comment struct {
	ID        string    `json:"id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"comment_text"`
	CreatedAt time.Time `json:"created_at"`
	VisitorID string    `json:"visitor_id,omitempty"`
}

// Like marks that a visitor liked the featured work. The remote store keeps at
// most one row per visitor.
type Like struct {
	ID        string    `json:"id"`
	VisitorID string    `json:"visitor_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeState is the aggregate like count together with the visitor's own status.
type LikeState struct {
	Count int  `json:"count"`
	Liked bool `json:"liked"`
}
