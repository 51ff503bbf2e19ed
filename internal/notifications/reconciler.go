// Package notifications keeps the client's notification collection
// consistent under interleaved push events and paginated REST fetches:
// idempotent adds, cascade deletes, block filtering, and an unread count
// derived from the surviving set.
package notifications

import (
	"sync"
	"time"

	"github.com/anonto42/nano-midea/appclient/internal/models"
	"github.com/anonto42/nano-midea/appclient/internal/store"
	"go.uber.org/zap"
)

// Reconciler applies add/update/delete streams to the local notification
// collection. Safe for concurrent use; reads return snapshots.
type Reconciler struct {
	mu     sync.RWMutex
	coll   store.Collection[uint, models.Notification]
	unread int
	blocks models.BlockMap
	logger *zap.Logger
}

// NewReconciler creates an empty reconciler.
func NewReconciler(logger *zap.Logger) *Reconciler {
	return &Reconciler{
		coll:   store.New(func(n models.Notification) uint { return n.ID }),
		logger: logger.Named("notifications"),
	}
}

// Add upserts a pushed notification. A duplicate id is a silent no-op for
// insertion purposes (the stored record is refreshed in place, never
// duplicated) and notifications involving a blocked party are suppressed
// outright. Returns whether a new record was inserted.
func (r *Reconciler) Add(n models.Notification) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.suppressed(n) {
		r.logger.Debug("notification suppressed by block relationship",
			zap.Uint("id", n.ID), zap.Uint("actor_id", n.ActorID))
		return false
	}
	existed := r.coll.Contains(n.ID)
	r.coll = r.coll.UpsertMerge(n, store.Front, mergeReadState)
	r.recountUnread()
	return !existed
}

// Replace applies a notification:update event (for example marking read on
// another device). An unknown id falls back to an insert.
func (r *Reconciler) Replace(n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.suppressed(n) {
		return
	}
	r.coll = r.coll.Upsert(n, store.Front)
	r.recountUnread()
}

// MergeFetched folds one REST page into the collection. Records already
// present keep any read state the client has seen; ordering of existing
// records is preserved and new ones append, so interleaving with push
// events is commutative.
func (r *Reconciler) MergeFetched(batch []models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range batch {
		if r.suppressed(n) {
			continue
		}
		r.coll = r.coll.UpsertMerge(n, store.Back, mergeReadState)
	}
	r.recountUnread()
}

// mergeReadState keeps the incoming record but never un-reads a
// notification the client already saw as read. Read state only moves one
// way in the local cache, which makes refresh/push races harmless here.
func mergeReadState(stored, incoming models.Notification) models.Notification {
	incoming.IsRead = incoming.IsRead || stored.IsRead
	return incoming
}

// MarkRead marks one notification read. Absence is a no-op.
func (r *Reconciler) MarkRead(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coll = r.coll.Patch(id, func(n models.Notification) models.Notification {
		n.IsRead = true
		return n
	})
	r.recountUnread()
}

// MarkAllRead marks every notification read.
func (r *Reconciler) MarkAllRead() {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.coll.Items()
	next := make([]models.Notification, len(items))
	for i, n := range items {
		n.IsRead = true
		next[i] = n
	}
	r.coll = r.coll.Replace(next)
	r.recountUnread()
}

// DeleteByID removes one notification. Absence is a benign no-op.
func (r *Reconciler) DeleteByID(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coll = r.coll.Remove(id)
	r.recountUnread()
}

// DeleteByCriteria removes every notification the criteria matches,
// covering the cascade rules for post, comment, reaction, mention and
// follow deletions.
func (r *Reconciler) DeleteByCriteria(c DeletionCriteria) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coll = r.coll.RemoveWhere(c.Matches)
	r.recountUnread()
}

// DeleteAll clears the collection and resets the unread count.
func (r *Reconciler) DeleteAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coll = r.coll.Replace(nil)
	r.unread = 0
}

// SetBlocks installs the current block-relationship map and filters the
// collection by it. A notification is dropped when any direction of a block
// is active for either party — the filter is symmetric. In this client-only
// cache filtering and deletion coincide; the server set is untouched.
func (r *Reconciler) SetBlocks(blocks models.BlockMap) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocks = blocks
	r.coll = r.coll.RemoveWhere(r.suppressed)
	r.recountUnread()
}

func (r *Reconciler) suppressed(n models.Notification) bool {
	return r.blocks.Blocked(n.ActorID) || r.blocks.Blocked(n.RecipientID)
}

// recountUnread derives the unread count from the surviving set. Counting is
// deliberately not incremental: +1/-1 bookkeeping across a dozen handlers is
// how counters drift.
func (r *Reconciler) recountUnread() {
	r.unread = r.coll.Count(func(n models.Notification) bool { return !n.IsRead })
}

// Unread returns the current unread count.
func (r *Reconciler) Unread() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.unread
}

// All returns the current snapshot, newest first.
func (r *Reconciler) All() []models.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.coll.Items()
}

// Version identifies the current snapshot; it changes on every effective
// mutation.
func (r *Reconciler) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.coll.Version()
}

// Grouped buckets the collection by time period for the grouped
// notifications view.
type Grouped struct {
	Today     []models.Notification
	Yesterday []models.Notification
	ThisWeek  []models.Notification
	Older     []models.Notification
}

// GroupedAt buckets relative to the given clock. Buckets follow the server's
// grouped endpoint: today, yesterday, the previous seven days, older.
func (r *Reconciler) GroupedAt(now time.Time) Grouped {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	var g Grouped
	for _, n := range r.coll.Items() {
		switch {
		case !n.CreatedAt.Before(todayStart):
			g.Today = append(g.Today, n)
		case !n.CreatedAt.Before(yesterdayStart):
			g.Yesterday = append(g.Yesterday, n)
		case !n.CreatedAt.Before(weekStart):
			g.ThisWeek = append(g.ThisWeek, n)
		default:
			g.Older = append(g.Older, n)
		}
	}
	return g
}
