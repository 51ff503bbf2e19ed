package feed

import (
	"sort"
	"sync"

	"github.com/anonto42/nano-midea/appclient/internal/models"
)

// ProfileFeed paginates one user's post listing client-side: the posts are
// fetched once as a single large batch and each "page" exposes a longer
// prefix of the cached slice. Trades memory for request count; applied only
// to profile listings.
type ProfileFeed struct {
	mu       sync.RWMutex
	all      []models.Post
	pageSize int
	shown    int
}

// NewProfileFeed creates an empty profile feed with the given page size.
func NewProfileFeed(pageSize int) *ProfileFeed {
	return &ProfileFeed{pageSize: pageSize}
}

// Load installs the single fetched batch, newest first, and exposes the
// first page.
func (p *ProfileFeed) Load(posts []models.Post) {
	p.mu.Lock()
	defer p.mu.Unlock()

	all := make([]models.Post, len(posts))
	copy(all, posts)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	p.all = all
	p.shown = min(p.pageSize, len(all))
}

// NextPage extends the visible prefix by one page and returns it.
func (p *ProfileFeed) NextPage() []models.Post {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = min(p.shown+p.pageSize, len(p.all))
	return p.all[:p.shown]
}

// Visible returns the currently exposed prefix.
func (p *ProfileFeed) Visible() []models.Post {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.all[:p.shown]
}

// HasMore reports whether another local page remains.
func (p *ProfileFeed) HasMore() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.shown < len(p.all)
}
