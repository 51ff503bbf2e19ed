package notifications

import (
	"encoding/json"
	"fmt"

	"github.com/anonto42/nano-midea/appclient/internal/models"
)

// DeletionCriteria selects the notifications a single deletion event removes.
// Each variant yields a predicate; the reconciler applies it with one generic
// remove-where pass and recomputes the unread count from the survivors.
type DeletionCriteria interface {
	Matches(n models.Notification) bool
}

// PostDeleted is the full cascade: deleting a post deletes its comments,
// reactions, and mentions server-side, so every notification referencing the
// post goes, regardless of type.
type PostDeleted struct {
	PostID string
}

func (c PostDeleted) Matches(n models.Notification) bool {
	return referencesPost(n, c.PostID)
}

// CommentDeleted removes the comment's own notification, reply notifications
// under it, reaction notifications on it, and mentions scoped to it.
type CommentDeleted struct {
	CommentID uint
}

func (c CommentDeleted) Matches(n models.Notification) bool {
	switch n.Type {
	case models.NotificationCommentAdded:
		return referencesComment(n, c.CommentID) || n.Payload.ParentCommentID == c.CommentID
	case models.NotificationCommentReaction, models.NotificationUserMentioned:
		return referencesComment(n, c.CommentID)
	}
	return false
}

// ReactionDeleted removes reaction notifications on one target. ActorID and
// Kind are optional narrowings; leaving both zero clears every reaction
// notification of that type on the target.
type ReactionDeleted struct {
	Type      models.NotificationType // post_reaction or comment_reaction
	PostID    string
	CommentID uint
	ActorID   uint
	Kind      models.ReactionKind
}

func (c ReactionDeleted) Matches(n models.Notification) bool {
	if n.Type != c.Type {
		return false
	}
	switch {
	case c.PostID != "":
		if !referencesPost(n, c.PostID) {
			return false
		}
	case c.CommentID != 0:
		if !referencesComment(n, c.CommentID) {
			return false
		}
	default:
		return false
	}
	if c.ActorID != 0 && n.ActorID != c.ActorID {
		return false
	}
	if c.Kind != "" && n.Payload.ReactionKind != c.Kind {
		return false
	}
	return true
}

// MentionDeleted removes mention notifications. Every provided field narrows
// the match; providing none matches nothing — a criteria without a target
// must not wildcard-delete.
type MentionDeleted struct {
	PostID     string
	CommentID  uint
	FromUserID uint
	ToUserID   uint
}

func (c MentionDeleted) Matches(n models.Notification) bool {
	if n.Type != models.NotificationUserMentioned {
		return false
	}
	if c.PostID == "" && c.CommentID == 0 && c.FromUserID == 0 && c.ToUserID == 0 {
		return false
	}
	if c.PostID != "" && !referencesPost(n, c.PostID) {
		return false
	}
	if c.CommentID != 0 && !referencesComment(n, c.CommentID) {
		return false
	}
	if c.FromUserID != 0 && n.ActorID != c.FromUserID {
		return false
	}
	if c.ToUserID != 0 && n.RecipientID != c.ToUserID {
		return false
	}
	return true
}

// FollowDeleted removes followed-user notifications from one origin user.
type FollowDeleted struct {
	ActorID uint
}

func (c FollowDeleted) Matches(n models.Notification) bool {
	return n.Type == models.NotificationFollowedUser && n.ActorID == c.ActorID
}

// wireCriteria is the gateway payload of a notification:delete event.
type wireCriteria struct {
	Category   string              `json:"category"`
	Type       string              `json:"type,omitempty"`
	PostID     string              `json:"post_id,omitempty"`
	CommentID  uint                `json:"comment_id,omitempty"`
	FromUserID uint                `json:"from_user_id,omitempty"`
	ToUserID   uint                `json:"to_user_id,omitempty"`
	Reaction   models.ReactionKind `json:"reaction,omitempty"`
}

// DecodeCriteria turns a notification:delete payload into its criteria
// variant.
func DecodeCriteria(raw json.RawMessage) (DeletionCriteria, error) {
	var w wireCriteria
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode deletion criteria: %w", err)
	}
	switch w.Category {
	case "post":
		return PostDeleted{PostID: w.PostID}, nil
	case "comment":
		return CommentDeleted{CommentID: w.CommentID}, nil
	case "reaction":
		t := models.NotificationPostReaction
		if w.Type == string(models.NotificationCommentReaction) || w.CommentID != 0 {
			t = models.NotificationCommentReaction
		}
		return ReactionDeleted{
			Type:      t,
			PostID:    w.PostID,
			CommentID: w.CommentID,
			ActorID:   w.FromUserID,
			Kind:      w.Reaction,
		}, nil
	case "mention":
		return MentionDeleted{
			PostID:     w.PostID,
			CommentID:  w.CommentID,
			FromUserID: w.FromUserID,
			ToUserID:   w.ToUserID,
		}, nil
	case "follow":
		return FollowDeleted{ActorID: w.FromUserID}, nil
	}
	return nil, fmt.Errorf("unknown deletion category %q", w.Category)
}
