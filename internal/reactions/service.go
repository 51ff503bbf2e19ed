package reactions

import (
	"context"

	"github.com/anonto42/nano-midea/appclient/internal/models"
	"go.uber.org/zap"
)

// Submitter issues the actual reaction request and returns the
// server-computed aggregate for the target. Implemented by the REST client.
type Submitter interface {
	SubmitReaction(ctx context.Context, kind TargetKind, targetID string, reaction models.ReactionKind) (models.ReactionAggregate, error)
}

// SubmitResult reports the outcome of a reaction submission as a value, not
// an error: a duplicate click is an expected condition, not an exception.
type SubmitResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ErrAlreadyPending is the Error string on a duplicate in-flight submission.
const ErrAlreadyPending = "already pending"

// Service submits reactions with in-flight deduplication and folds the
// authoritative response aggregate into the local state.
type Service struct {
	submitter Submitter
	agg       *Aggregator
	pending   *pendingSet
	logger    *zap.Logger
}

// NewService creates a reaction submission service around the given
// transport and aggregate store.
func NewService(submitter Submitter, agg *Aggregator, logger *zap.Logger) *Service {
	return &Service{
		submitter: submitter,
		agg:       agg,
		pending:   newPendingSet(),
		logger:    logger.Named("reactions"),
	}
}

// React submits one reaction. If a submission for the same (target, kind)
// pair is already in flight the call returns {Success:false, "already
// pending"} without issuing a request. Transport failures surface as the
// returned error; the pending key is released either way.
func (s *Service) React(ctx context.Context, kind TargetKind, targetID string, reaction models.ReactionKind) (SubmitResult, error) {
	if !s.pending.begin(kind, targetID, reaction) {
		s.logger.Debug("duplicate reaction suppressed",
			zap.String("target", targetID), zap.String("reaction", string(reaction)))
		return SubmitResult{Success: false, Error: ErrAlreadyPending}, nil
	}
	defer s.pending.finish(kind, targetID, reaction)

	agg, err := s.submitter.SubmitReaction(ctx, kind, targetID, reaction)
	if err != nil {
		return SubmitResult{Success: false, Error: err.Error()}, err
	}
	s.agg.Apply(kind, targetID, agg)
	return SubmitResult{Success: true}, nil
}
