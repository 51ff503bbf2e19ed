// Package events defines the gateway event contract and the dispatcher
// that routes pushed events into the reconciliation engine.
package events

import (
	"encoding/json"
	"time"

	"github.com/anonto42/nano-midea/appclient/internal/models"
)

// Type names one gateway event category.
type Type string

const (
	TypeNotification          Type = "notification"
	TypeNotificationUpdate    Type = "notification:update"
	TypeNotificationDelete    Type = "notification:delete"
	TypeNotificationDeleteAll Type = "notification:delete_all"
	TypeChatNewMessage        Type = "chat:new_message"
	TypeChatMessageSent       Type = "chat:message_sent"
	TypeChatReactMessage      Type = "chat:react_message"
	TypeChatDeleteMessage     Type = "chat:delete_message"
	TypeChatMessageEdited     Type = "chat:message_edited"
	TypeCommentReaction       Type = "comment:reaction_updated"
	TypePostReaction          Type = "post:reaction_updated"
	TypeUserStatus            Type = "user:status"
	TypeUserStatusAll         Type = "user:status:all"
)

// Envelope is the frame every gateway event arrives in.
type Envelope struct {
	Event Type            `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ChatReactEvent carries chat:react_message. The embedded message holds the
// post-update reaction aggregate.
type ChatReactEvent struct {
	RoomID   string              `json:"room_id"`
	Message  models.Message      `json:"message"`
	UserID   uint                `json:"user_id"`
	Reaction models.ReactionKind `json:"reaction"`
	Action   string              `json:"action"` // "add" or "remove"
}

// ChatDeleteEvent carries chat:delete_message.
type ChatDeleteEvent struct {
	RoomID    string    `json:"room_id"`
	MessageID string    `json:"message_id"`
	ForAll    bool      `json:"for_all"`
	UserID    uint      `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// ReactionUpdatedEvent carries post:reaction_updated and
// comment:reaction_updated: the target plus its server-computed aggregate.
type ReactionUpdatedEvent struct {
	TargetID      string                      `json:"target_id"`
	Reactions     map[models.ReactionKind]int `json:"reactions"`
	UserReactions []models.UserReaction       `json:"user_reactions"`
}

// Aggregate folds the event's two halves into the aggregate pair.
func (e ReactionUpdatedEvent) Aggregate() models.ReactionAggregate {
	return models.ReactionAggregate{Counts: e.Reactions, Users: e.UserReactions}.Normalized()
}

// StatusEvent carries user:status presence changes.
type StatusEvent struct {
	UserID uint `json:"user_id"`
	Online bool `json:"online"`
}

// StatusAllEvent carries the user:status:all presence snapshot.
type StatusAllEvent struct {
	Online []uint `json:"online"`
}
