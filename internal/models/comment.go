package models

import "time"

// Comment represents a comment on a post. A non-zero ParentID marks a reply
// to another comment.
type Comment struct {
	ID        uint              `json:"id"`
	PostID    string            `json:"post_id"` // MongoDB ObjectID as string
	UserID    uint              `json:"user_id"`
	ParentID  uint              `json:"parent_id,omitempty"`
	Content   string            `json:"content"`
	Reactions ReactionAggregate `json:"reactions"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	PostID   string `json:"post_id" validate:"required"`
	ParentID uint   `json:"parent_id,omitempty"`
	Content  string `json:"content" validate:"required,min=1,max=500"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
