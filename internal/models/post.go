package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post in the client feed cache. Post IDs are
// MongoDB ObjectIDs platform-wide, carried as hex strings on the wire.
type Post struct {
	ID            string            `json:"id"`
	AuthorUID     string            `json:"user_id"` // Firebase UID of the author
	Author        UserCompact       `json:"author"`
	Content       string            `json:"content"`
	ImageURLs     []string          `json:"image_urls,omitempty"`
	VideoURLs     []string          `json:"video_urls,omitempty"`
	LikesCount    int               `json:"likes_count"`
	CommentsCount int               `json:"comments_count"`
	Reactions     ReactionAggregate `json:"reactions"`
	IsLiked       bool              `json:"is_liked"`
	IsSaved       bool              `json:"is_saved"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ValidPostID reports whether s is a well-formed post identifier
func ValidPostID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content   string   `json:"content" validate:"required,min=1,max=280"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	VideoURLs []string `json:"video_urls,omitempty" validate:"omitempty,dive,url"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content   string   `json:"content,omitempty" validate:"omitempty,min=1,max=280"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	VideoURLs []string `json:"video_urls,omitempty" validate:"omitempty,dive,url"`
}
