package models

import "time"

// ActivityKind classifies the event behind a room's last-activity descriptor
type ActivityKind string

const (
	ActivityMessage  ActivityKind = "message"
	ActivityReaction ActivityKind = "reaction"
	ActivityDeletion ActivityKind = "deletion"
)

// Message represents a chat message. Messages deleted "for all" are kept as
// tombstones (content cleared, Deleted set) so ordering and seen-receipts
// stay stable; messages deleted "for me" list the viewer in HiddenFor.
type Message struct {
	ID        string            `json:"id"` // MongoDB ObjectID as string
	RoomID    string            `json:"room_id"`
	SenderID  uint              `json:"sender_id"`
	Content   string            `json:"content"`
	Reactions ReactionAggregate `json:"reactions"`
	CreatedAt time.Time         `json:"created_at"`
	EditedAt  *time.Time        `json:"edited_at,omitempty"`
	Deleted   bool              `json:"deleted,omitempty"`
	DeletedAt *time.Time        `json:"deleted_at,omitempty"`
	DeletedBy uint              `json:"deleted_by,omitempty"`
	HiddenFor []uint            `json:"hidden_for,omitempty"`
}

// HiddenForUser reports whether the message was deleted "for me" by userID
func (m Message) HiddenForUser(userID uint) bool {
	for _, id := range m.HiddenFor {
		if id == userID {
			return true
		}
	}
	return false
}

// VisibleTo reports whether the message still renders for the given viewer
func (m Message) VisibleTo(userID uint) bool {
	return !m.Deleted && !m.HiddenForUser(userID)
}

// LastActivity describes the most recent timestamped event observed for a
// room. Its timestamp only ever moves forward.
type LastActivity struct {
	Kind      ActivityKind `json:"kind"`
	Timestamp time.Time    `json:"timestamp"`
	MessageID string       `json:"message_id"`
	Reaction  ReactionKind `json:"reaction,omitempty"`
	UserID    uint         `json:"user_id,omitempty"`
}

// Room is one chat room in the client's room list, ordered by recency of
// activity
type Room struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	MemberIDs    []uint        `json:"member_ids,omitempty"`
	LastMessage  *Message      `json:"last_message,omitempty"`
	LastActivity *LastActivity `json:"last_activity,omitempty"`
	UnreadCount  int           `json:"unread_count"`
}
