package reactions

import (
	"sync"

	"github.com/anonto42/nano-midea/appclient/internal/models"
)

// pendingSet tracks reaction submissions that are in flight, keyed by
// (target, kind). A second click on the same reaction while the first
// request is pending must be a no-op, not a duplicate request.
type pendingSet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newPendingSet() *pendingSet {
	return &pendingSet{keys: map[string]struct{}{}}
}

func pendingKey(kind TargetKind, targetID string, reaction models.ReactionKind) string {
	return string(kind) + ":" + targetID + ":" + string(reaction)
}

// begin claims the key. Returns false when a submission for the same key is
// already pending.
func (p *pendingSet) begin(kind TargetKind, targetID string, reaction models.ReactionKind) bool {
	k := pendingKey(kind, targetID, reaction)
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.keys[k]; exists {
		return false
	}
	p.keys[k] = struct{}{}
	return true
}

// finish releases the key. Releasing an unclaimed key is a no-op.
func (p *pendingSet) finish(kind TargetKind, targetID string, reaction models.ReactionKind) {
	k := pendingKey(kind, targetID, reaction)
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.keys, k)
}
