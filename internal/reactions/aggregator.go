// Package reactions merges server-authoritative reaction aggregates for
// posts, comments and chat messages, and suppresses duplicate in-flight
// reaction submissions.
package reactions

import (
	"sync"

	"github.com/anonto42/nano-midea/appclient/internal/models"
)

// TargetKind distinguishes the three reaction target spaces.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
	TargetMessage TargetKind = "message"
)

// Aggregator holds the latest server-confirmed aggregate per target. It
// never computes counts locally: callers feed it the authoritative
// post-update aggregate from the server response or push event.
type Aggregator struct {
	mu       sync.RWMutex
	byTarget map[TargetKind]map[string]models.ReactionAggregate
	version  uint64
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		byTarget: map[TargetKind]map[string]models.ReactionAggregate{
			TargetPost:    {},
			TargetComment: {},
			TargetMessage: {},
		},
	}
}

// Apply replaces the counts and user-reaction list for one target as a
// single pair. An incoming pair deep-equal to the stored one is skipped
// entirely — the version does not move, so observers comparing versions see
// no change. Returns whether anything changed.
func (a *Aggregator) Apply(kind TargetKind, targetID string, agg models.ReactionAggregate) bool {
	norm := agg.Normalized()

	a.mu.Lock()
	defer a.mu.Unlock()
	if stored, ok := a.byTarget[kind][targetID]; ok && stored.Equal(norm) {
		return false
	}
	a.byTarget[kind][targetID] = norm
	a.version++
	return true
}

// Get returns the stored aggregate for a target, if any.
func (a *Aggregator) Get(kind TargetKind, targetID string) (models.ReactionAggregate, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	agg, ok := a.byTarget[kind][targetID]
	return agg, ok
}

// Forget drops a target's aggregate (used when the target itself is
// deleted). Absence is a no-op.
func (a *Aggregator) Forget(kind TargetKind, targetID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.byTarget[kind][targetID]; !ok {
		return
	}
	delete(a.byTarget[kind], targetID)
	a.version++
}

// Version changes on every effective mutation.
func (a *Aggregator) Version() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.version
}
