package notifications

import (
	"testing"
	"time"

	"github.com/anonto42/nano-midea/appclient/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestReconciler() *Reconciler {
	return NewReconciler(zap.NewNop())
}

func notif(id uint, t models.NotificationType, opts ...func(*models.Notification)) models.Notification {
	n := models.Notification{
		ID:          id,
		Type:        t,
		ActorID:     2,
		RecipientID: 1,
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

func withPost(postID string) func(*models.Notification) {
	return func(n *models.Notification) { n.Payload.PostID = postID }
}

func withComment(id uint) func(*models.Notification) {
	return func(n *models.Notification) { n.Payload.CommentID = id }
}

func withParent(id uint) func(*models.Notification) {
	return func(n *models.Notification) { n.Payload.ParentCommentID = id }
}

func withActor(id uint) func(*models.Notification) {
	return func(n *models.Notification) { n.ActorID = id }
}

func withRead() func(*models.Notification) {
	return func(n *models.Notification) { n.IsRead = true }
}

func unreadOf(r *Reconciler) int {
	count := 0
	for _, n := range r.All() {
		if !n.IsRead {
			count++
		}
	}
	return count
}

func TestAddIdempotent(t *testing.T) {
	r := newTestReconciler()
	n := notif(1, models.NotificationPostReaction, withPost("p1"))

	require.True(t, r.Add(n))
	assert.False(t, r.Add(n), "duplicate add inserts nothing")
	assert.Equal(t, 1, len(r.All()))
	assert.Equal(t, 1, r.Unread())
}

func TestUnreadCountConsistency(t *testing.T) {
	r := newTestReconciler()
	r.Add(notif(1, models.NotificationPostReaction, withPost("p1")))
	r.Add(notif(2, models.NotificationCommentAdded, withPost("p1"), withComment(10)))
	r.Add(notif(3, models.NotificationFollowedUser, withRead()))

	assert.Equal(t, 2, r.Unread())

	r.MarkRead(1)
	assert.Equal(t, 1, r.Unread())
	assert.Equal(t, unreadOf(r), r.Unread())

	r.DeleteByID(2)
	assert.Equal(t, 0, r.Unread())
	assert.Equal(t, unreadOf(r), r.Unread())

	// Marking an already-read notification must not drift the counter.
	r.MarkRead(1)
	assert.Equal(t, unreadOf(r), r.Unread())

	r.MarkAllRead()
	assert.Equal(t, 0, r.Unread())
}

func TestPostDeleteCascade(t *testing.T) {
	r := newTestReconciler()
	// Post p1 with comments 10 and 11 (11 replies to 10), reactions and
	// mentions on each.
	r.Add(notif(1, models.NotificationPostCreated, withPost("p1")))
	r.Add(notif(2, models.NotificationCommentAdded, withPost("p1"), withComment(10)))
	r.Add(notif(3, models.NotificationCommentAdded, withPost("p1"), withComment(11), withParent(10)))
	r.Add(notif(4, models.NotificationPostReaction, withPost("p1")))
	r.Add(notif(5, models.NotificationCommentReaction, withPost("p1"), withComment(10)))
	r.Add(notif(6, models.NotificationUserMentioned, withPost("p1"), withComment(11)))
	// Unrelated survivor.
	r.Add(notif(7, models.NotificationPostReaction, withPost("p2")))

	r.DeleteByCriteria(PostDeleted{PostID: "p1"})

	survivors := r.All()
	require.Len(t, survivors, 1)
	assert.Equal(t, uint(7), survivors[0].ID)
	assert.Equal(t, unreadOf(r), r.Unread())
}

func TestCommentDeleteCascade(t *testing.T) {
	r := newTestReconciler()
	r.Add(notif(1, models.NotificationCommentAdded, withPost("p1"), withComment(10)))
	r.Add(notif(2, models.NotificationCommentAdded, withPost("p1"), withComment(11), withParent(10)))
	r.Add(notif(3, models.NotificationCommentReaction, withPost("p1"), withComment(10)))
	r.Add(notif(4, models.NotificationUserMentioned, withPost("p1"), withComment(10)))
	// Sibling comment untouched.
	r.Add(notif(5, models.NotificationCommentAdded, withPost("p1"), withComment(20)))

	r.DeleteByCriteria(CommentDeleted{CommentID: 10})

	survivors := r.All()
	require.Len(t, survivors, 1)
	assert.Equal(t, uint(5), survivors[0].ID)
}

func TestDeleteAll(t *testing.T) {
	r := newTestReconciler()
	r.Add(notif(1, models.NotificationPostReaction, withPost("p1")))
	r.Add(notif(2, models.NotificationFollowedUser))

	r.DeleteAll()
	assert.Empty(t, r.All())
	assert.Equal(t, 0, r.Unread())
}

func TestBlockFilteringSymmetric(t *testing.T) {
	// User 1's client; user 5 is blocked.
	r := newTestReconciler()
	r.Add(notif(1, models.NotificationPostReaction, withActor(5), withPost("p1")))
	r.Add(notif(2, models.NotificationPostReaction, withActor(3), withPost("p1")))
	inbound := notif(3, models.NotificationUserMentioned, withActor(5), withPost("p1"))

	t.Run("fromUser and toUser both filtered either direction", func(t *testing.T) {
		r.SetBlocks(models.BlockMap{5: {BlockedByMe: true}})

		survivors := r.All()
		require.Len(t, survivors, 1)
		assert.Equal(t, uint(2), survivors[0].ID)
		assert.Equal(t, unreadOf(r), r.Unread())
	})

	t.Run("incoming adds from a blocked party are suppressed", func(t *testing.T) {
		assert.False(t, r.Add(inbound))
		assert.Len(t, r.All(), 1)
	})

	t.Run("blocks-me direction filters too", func(t *testing.T) {
		r.SetBlocks(models.BlockMap{3: {BlocksMe: true}})
		assert.Empty(t, r.All())
	})
}

func TestMergeFetchedKeepsReadState(t *testing.T) {
	r := newTestReconciler()
	r.Add(notif(1, models.NotificationPostReaction, withPost("p1")))
	r.MarkRead(1)

	// The REST page still carries the record as unread.
	r.MergeFetched([]models.Notification{
		notif(1, models.NotificationPostReaction, withPost("p1")),
		notif(2, models.NotificationFollowedUser),
	})

	got := r.All()
	require.Len(t, got, 2)
	for _, n := range got {
		if n.ID == 1 {
			assert.True(t, n.IsRead, "refresh must not un-read a read notification")
		}
	}
	assert.Equal(t, 1, r.Unread())
}

func TestGrouped(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	at := func(ts time.Time) func(*models.Notification) {
		return func(n *models.Notification) { n.CreatedAt = ts }
	}

	r := newTestReconciler()
	r.Add(notif(1, models.NotificationPostReaction, at(now.Add(-time.Hour))))
	r.Add(notif(2, models.NotificationPostReaction, at(now.Add(-24*time.Hour))))
	r.Add(notif(3, models.NotificationPostReaction, at(now.Add(-3*24*time.Hour))))
	r.Add(notif(4, models.NotificationPostReaction, at(now.Add(-30*24*time.Hour))))

	g := r.GroupedAt(now)
	assert.Len(t, g.Today, 1)
	assert.Len(t, g.Yesterday, 1)
	assert.Len(t, g.ThisWeek, 1)
	assert.Len(t, g.Older, 1)
}
