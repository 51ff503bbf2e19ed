package reactions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/appclient/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubSubmitter counts calls and blocks until released when gate is set.
type stubSubmitter struct {
	mu    sync.Mutex
	calls int
	gate  chan struct{}
	err   error
}

func (s *stubSubmitter) SubmitReaction(ctx context.Context, kind TargetKind, targetID string, reaction models.ReactionKind) (models.ReactionAggregate, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.gate != nil {
		<-s.gate
	}
	if s.err != nil {
		return models.ReactionAggregate{}, s.err
	}
	agg := models.NewReactionAggregate()
	agg.Counts[reaction] = 1
	return agg, nil
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestReactSuccess(t *testing.T) {
	stub := &stubSubmitter{}
	agg := NewAggregator()
	svc := NewService(stub, agg, zap.NewNop())

	res, err := svc.React(context.Background(), TargetPost, "p1", models.ReactionLike)
	require.NoError(t, err)
	assert.True(t, res.Success)

	stored, ok := agg.Get(TargetPost, "p1")
	require.True(t, ok, "authoritative aggregate applied on success")
	assert.Equal(t, 1, stored.Counts[models.ReactionLike])
}

func TestReactDuplicateInFlight(t *testing.T) {
	stub := &stubSubmitter{gate: make(chan struct{})}
	agg := NewAggregator()
	svc := NewService(stub, agg, zap.NewNop())

	done := make(chan SubmitResult, 1)
	go func() {
		res, _ := svc.React(context.Background(), TargetPost, "p1", models.ReactionLike)
		done <- res
	}()
	// Wait until the first submission has claimed the pending key.
	for stub.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	res, err := svc.React(context.Background(), TargetPost, "p1", models.ReactionLike)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, ErrAlreadyPending, res.Error)
	assert.Equal(t, 1, stub.callCount(), "duplicate never reaches the transport")

	close(stub.gate)
	first := <-done
	assert.True(t, first.Success)

	// Key released: the same reaction goes through again.
	res3, err := svc.React(context.Background(), TargetPost, "p1", models.ReactionLike)
	require.NoError(t, err)
	assert.True(t, res3.Success)
}

func TestReactTransportError(t *testing.T) {
	stub := &stubSubmitter{err: errors.New("boom")}
	agg := NewAggregator()
	svc := NewService(stub, agg, zap.NewNop())

	res, err := svc.React(context.Background(), TargetPost, "p1", models.ReactionLike)
	require.Error(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "boom", res.Error)

	_, ok := agg.Get(TargetPost, "p1")
	assert.False(t, ok, "no aggregate stored on failure")

	// The pending key was released despite the failure.
	stub.err = nil
	res2, err := svc.React(context.Background(), TargetPost, "p1", models.ReactionLike)
	require.NoError(t, err)
	assert.True(t, res2.Success)
}
