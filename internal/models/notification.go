package models

import (
	"encoding/json"
	"time"
)

// NotificationType tags the variant of a notification
type NotificationType string

const (
	NotificationPostCreated     NotificationType = "post_created"
	NotificationPostReaction    NotificationType = "post_reaction"
	NotificationCommentAdded    NotificationType = "comment_added"
	NotificationCommentReaction NotificationType = "comment_reaction"
	NotificationUserMentioned   NotificationType = "user_mentioned"
	NotificationFollowedUser    NotificationType = "followed_user"
)

// NotificationPayload carries the type-dependent reference fields, extracted
// into fixed fields when the notification is ingested so that downstream
// matching never has to re-parse raw JSON. Zero values mean "not referenced".
type NotificationPayload struct {
	PostID          string       `json:"post_id,omitempty"`
	CommentID       uint         `json:"comment_id,omitempty"`
	ParentCommentID uint         `json:"parent_comment_id,omitempty"`
	ReactionKind    ReactionKind `json:"reaction_kind,omitempty"`
	MentionedUserID uint         `json:"mentioned_user_id,omitempty"`
}

// Notification represents one user-facing event in the client cache. The
// server remains the source of truth; this record is a local view only.
type Notification struct {
	ID          uint                `json:"id"`
	Type        NotificationType    `json:"type"`
	ActorID     uint                `json:"actor_id"`
	RecipientID uint                `json:"recipient_id"`
	IsRead      bool                `json:"is_read"`
	CreatedAt   time.Time           `json:"created_at"`
	Payload     NotificationPayload `json:"payload"`

	// Raw is the wire payload as received. Kept only for last-resort
	// matching when the normalized fields came up empty.
	Raw json.RawMessage `json:"-"`
}
