// Package chat maintains the client's chat state: per-room message lists,
// unread counters, and the last-activity descriptor that orders the room
// list. Deletions tombstone or hide messages instead of removing them, so
// ordering and seen-receipts stay stable.
package chat

import (
	"sync"
	"time"

	"github.com/anonto42/nano-midea/appclient/internal/models"
	"github.com/anonto42/nano-midea/appclient/internal/store"
	"go.uber.org/zap"
)

// Tracker applies chat push events and REST message pages to the room list.
// Safe for concurrent use; reads return snapshots.
type Tracker struct {
	mu       sync.RWMutex
	selfID   uint
	rooms    store.Collection[string, models.Room]
	messages map[string]store.Collection[string, models.Message]
	logger   *zap.Logger
}

// NewTracker creates a tracker for the given current user.
func NewTracker(selfID uint, logger *zap.Logger) *Tracker {
	return &Tracker{
		selfID:   selfID,
		rooms:    store.New(func(r models.Room) string { return r.ID }),
		messages: map[string]store.Collection[string, models.Message]{},
		logger:   logger.Named("chat"),
	}
}

// SetRooms replaces the room list from a REST fetch. The server returns
// rooms already ordered by activity recency.
func (t *Tracker) SetRooms(rooms []models.Room) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rooms = t.rooms.Replace(rooms)
}

// Rooms returns the current room list, most recent activity first.
func (t *Tracker) Rooms() []models.Room {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rooms.Items()
}

// Room returns one room by id.
func (t *Tracker) Room(roomID string) (models.Room, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rooms.Get(roomID)
}

// Messages returns the loaded message list for a room, oldest first. Rooms
// that were never opened have no loaded list.
func (t *Tracker) Messages(roomID string) []models.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	coll, ok := t.messages[roomID]
	if !ok {
		return nil
	}
	return coll.Items()
}

// MergeMessages folds a REST message page into a room's loaded list.
// refresh replaces the list outright; otherwise the batch is deduplicated
// against the loaded ids and appended, preserving the existing order.
func (t *Tracker) MergeMessages(roomID string, batch []models.Message, refresh bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	coll, ok := t.messages[roomID]
	if !ok {
		coll = store.New(func(m models.Message) string { return m.ID })
	}
	if refresh || !ok {
		coll = coll.Replace(batch)
	} else {
		coll = coll.Append(batch)
	}
	t.messages[roomID] = coll
}

// OnNewMessage appends a pushed message to its room, advances last-activity
// when the message is newer than anything seen, increments the unread
// counter when the current user is not the sender, and moves the room to
// the front of the list.
func (t *Tracker) OnNewMessage(roomID string, msg models.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if coll, ok := t.messages[roomID]; ok {
		t.messages[roomID] = coll.Upsert(msg, store.Back)
	}

	if !t.rooms.Contains(roomID) {
		// First sign of life from a room the list fetch has not
		// delivered yet.
		t.rooms = t.rooms.Upsert(models.Room{ID: roomID}, store.Front)
	}

	t.rooms = t.rooms.Patch(roomID, func(r models.Room) models.Room {
		if r.LastActivity == nil || msg.CreatedAt.After(r.LastActivity.Timestamp) {
			m := msg
			r.LastMessage = &m
			r.LastActivity = &models.LastActivity{
				Kind:      models.ActivityMessage,
				Timestamp: msg.CreatedAt,
				MessageID: msg.ID,
				UserID:    msg.SenderID,
			}
		}
		if msg.SenderID != t.selfID {
			r.UnreadCount++
		}
		return r
	})
	t.rooms = t.rooms.MoveToFront(roomID)
}

// OnReactionUpdate applies a reaction aggregate to a message and promotes
// the message to the room's last-activity when the newest reaction
// timestamp beats the current one. When the message is not in the loaded
// list but is the room's recorded last message, the cached copy is updated
// directly — unopened rooms have no loaded list.
func (t *Tracker) OnReactionUpdate(roomID, messageID string, agg models.ReactionAggregate) {
	t.mu.Lock()
	defer t.mu.Unlock()

	norm := agg.Normalized()
	var msg models.Message
	found := false

	if coll, ok := t.messages[roomID]; ok {
		if m, ok := coll.Get(messageID); ok {
			m.Reactions = norm
			t.messages[roomID] = coll.Patch(messageID, func(models.Message) models.Message { return m })
			msg, found = m, true
		}
	}

	room, ok := t.rooms.Get(roomID)
	if !ok {
		if !found {
			t.logger.Debug("reaction for unknown room dropped", zap.String("room_id", roomID))
		}
		return
	}

	if room.LastMessage != nil && room.LastMessage.ID == messageID {
		m := *room.LastMessage
		m.Reactions = norm
		t.rooms = t.rooms.Patch(roomID, func(r models.Room) models.Room {
			r.LastMessage = &m
			return r
		})
		if !found {
			msg, found = m, true
		}
	}

	if !found {
		// Neither loaded nor the cached last message: nothing to anchor
		// the timestamp to, so this is a silent no-op.
		return
	}

	newest := msg.CreatedAt
	var by models.UserReaction
	for _, ur := range norm.Users {
		if ur.CreatedAt.After(newest) {
			newest = ur.CreatedAt
			by = ur
		}
	}

	if room.LastActivity != nil && !newest.After(room.LastActivity.Timestamp) {
		return
	}
	t.rooms = t.rooms.Patch(roomID, func(r models.Room) models.Room {
		r.LastActivity = &models.LastActivity{
			Kind:      models.ActivityReaction,
			Timestamp: newest,
			MessageID: messageID,
			Reaction:  by.Kind,
			UserID:    by.UserID,
		}
		return r
	})
	t.rooms = t.rooms.MoveToFront(roomID)
}

// OnMessageDelete handles chat:delete_message. forAll replaces the visible
// content with a tombstone; otherwise the requesting user is added to the
// message's hidden-for list. When the deleted message was the room's last
// message, the nearest still-visible message becomes the new last message,
// falling back to the tombstone itself.
func (t *Tracker) OnMessageDelete(roomID, messageID string, forAll bool, byUserID uint, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	erase := func(m models.Message) models.Message {
		if forAll {
			when := at
			m.Content = ""
			m.Deleted = true
			m.DeletedAt = &when
			m.DeletedBy = byUserID
		} else {
			hidden := make([]uint, 0, len(m.HiddenFor)+1)
			hidden = append(hidden, m.HiddenFor...)
			if !m.HiddenForUser(byUserID) {
				hidden = append(hidden, byUserID)
			}
			m.HiddenFor = hidden
		}
		return m
	}

	if coll, ok := t.messages[roomID]; ok {
		t.messages[roomID] = coll.Patch(messageID, erase)
	}

	room, ok := t.rooms.Get(roomID)
	if !ok {
		return
	}

	wasLast := room.LastMessage != nil && room.LastMessage.ID == messageID
	t.rooms = t.rooms.Patch(roomID, func(r models.Room) models.Room {
		if wasLast {
			m := erase(*r.LastMessage)
			r.LastMessage = &m
		}
		if r.LastActivity == nil || at.After(r.LastActivity.Timestamp) {
			r.LastActivity = &models.LastActivity{
				Kind:      models.ActivityDeletion,
				Timestamp: at,
				MessageID: messageID,
				UserID:    byUserID,
			}
		}
		return r
	})

	if !wasLast {
		return
	}
	// Scan backward through the loaded list for the nearest message the
	// current user can still see.
	if coll, ok := t.messages[roomID]; ok {
		items := coll.Items()
		for i := len(items) - 1; i >= 0; i-- {
			if items[i].ID != messageID && items[i].VisibleTo(t.selfID) {
				m := items[i]
				t.rooms = t.rooms.Patch(roomID, func(r models.Room) models.Room {
					r.LastMessage = &m
					return r
				})
				return
			}
		}
	}
	// None found: the tombstone stays as the room's last message.
}

// OnMessageEdited applies chat:message_edited as a full replace by id, in
// the loaded list and in the cached last-message copy.
func (t *Tracker) OnMessageEdited(msg models.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if coll, ok := t.messages[msg.RoomID]; ok {
		t.messages[msg.RoomID] = coll.Patch(msg.ID, func(models.Message) models.Message { return msg })
	}
	room, ok := t.rooms.Get(msg.RoomID)
	if !ok || room.LastMessage == nil || room.LastMessage.ID != msg.ID {
		return
	}
	m := msg
	t.rooms = t.rooms.Patch(msg.RoomID, func(r models.Room) models.Room {
		r.LastMessage = &m
		return r
	})
}

// MarkRoomRead zeroes a room's unread counter (the user opened the room).
func (t *Tracker) MarkRoomRead(roomID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rooms = t.rooms.Patch(roomID, func(r models.Room) models.Room {
		r.UnreadCount = 0
		return r
	})
}

// Version identifies the current room-list snapshot.
func (t *Tracker) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rooms.Version()
}
