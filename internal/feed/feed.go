// Package feed reconciles REST-paginated post batches with live-pushed
// state. Refresh replaces the scope, append extends it without resorting,
// and pushed reaction aggregates are replayed over refreshed records so a
// stale REST payload cannot silently destroy them.
package feed

import (
	"sort"
	"sync"

	"github.com/anonto42/nano-midea/appclient/internal/api"
	"github.com/anonto42/nano-midea/appclient/internal/models"
	"github.com/anonto42/nano-midea/appclient/internal/reactions"
	"github.com/anonto42/nano-midea/appclient/internal/store"
	"go.uber.org/zap"
)

// Feed is the merged, newest-first post collection for one scope (home
// feed). Safe for concurrent use.
type Feed struct {
	mu       sync.RWMutex
	coll     store.Collection[string, models.Post]
	agg      *reactions.Aggregator
	pageSize int
	hasMore  bool
	logger   *zap.Logger
}

// NewFeed creates an empty feed merging against the given aggregate store.
func NewFeed(agg *reactions.Aggregator, pageSize int, logger *zap.Logger) *Feed {
	return &Feed{
		coll:     store.New(func(p models.Post) string { return p.ID }),
		agg:      agg,
		pageSize: pageSize,
		logger:   logger.Named("feed"),
	}
}

// Refresh replaces the whole scope with the batch, sorted newest first.
// Reaction aggregates already confirmed by push are replayed over the
// incoming records: a refresh resolving after a push must not revert the
// pushed counts to the payload's stale values.
func (f *Feed) Refresh(batch []models.Post, meta *api.PageMeta) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make([]models.Post, len(batch))
	copy(next, batch)
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].CreatedAt.After(next[j].CreatedAt)
	})
	for i := range next {
		next[i] = f.overlay(next[i])
	}
	f.coll = f.coll.Replace(next)
	f.hasMore = f.more(len(batch), meta)
}

// Append folds the next page in: ids already present are skipped and the
// rest append in payload order, keeping scroll positions stable.
func (f *Feed) Append(batch []models.Post, meta *api.PageMeta) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make([]models.Post, len(batch))
	for i, p := range batch {
		next[i] = f.overlay(p)
	}
	f.coll = f.coll.Append(next)
	f.hasMore = f.more(len(batch), meta)
}

// overlay re-applies the last push-confirmed reaction aggregate to a
// fetched post.
func (f *Feed) overlay(p models.Post) models.Post {
	if agg, ok := f.agg.Get(reactions.TargetPost, p.ID); ok {
		p.Reactions = agg
		p.LikesCount = agg.Counts[models.ReactionLike]
	}
	return p
}

// ApplyReactionUpdate patches one post's reaction state from a push event.
// A post not in the loaded scope is a benign no-op; the aggregate store
// still remembers the update for the next refresh.
func (f *Feed) ApplyReactionUpdate(postID string, agg models.ReactionAggregate) {
	norm := agg.Normalized()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coll = f.coll.Patch(postID, func(p models.Post) models.Post {
		p.Reactions = norm
		p.LikesCount = norm.Counts[models.ReactionLike]
		return p
	})
}

// RemovePost drops a deleted post from the scope. Absence is a no-op.
func (f *Feed) RemovePost(postID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coll = f.coll.Remove(postID)
}

// Posts returns the current snapshot, newest first.
func (f *Feed) Posts() []models.Post {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.coll.Items()
}

// HasMore reports whether another page is worth requesting. The server's
// hasNextPage meta is authoritative when present; without it the full-page
// heuristic applies, which over-reports on an exact-multiple final page —
// a documented limitation of endpoints lacking a total count.
func (f *Feed) HasMore() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.hasMore
}

// Version identifies the current snapshot.
func (f *Feed) Version() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.coll.Version()
}

func (f *Feed) more(batchLen int, meta *api.PageMeta) bool {
	if meta != nil {
		return meta.HasNextPage
	}
	return batchLen == f.pageSize
}
