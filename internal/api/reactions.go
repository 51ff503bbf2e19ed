package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/anonto42/nano-midea/appclient/internal/models"
	"github.com/anonto42/nano-midea/appclient/internal/reactions"
)

// reactionPath maps a target kind to its reaction endpoint.
func reactionPath(kind reactions.TargetKind, targetID string) string {
	var resource string
	switch kind {
	case reactions.TargetComment:
		resource = "comments"
	case reactions.TargetMessage:
		resource = "chat/messages"
	default:
		resource = "posts"
	}
	return fmt.Sprintf("/api/v1/%s/%s/reactions", resource, url.PathEscape(targetID))
}

// SubmitReaction submits one reaction and returns the server-computed
// aggregate for the target. Implements reactions.Submitter.
func (c *Client) SubmitReaction(ctx context.Context, kind reactions.TargetKind, targetID string, reaction models.ReactionKind) (models.ReactionAggregate, error) {
	body := map[string]string{"reaction": string(reaction)}
	var agg models.ReactionAggregate
	if _, err := c.send(ctx, http.MethodPost, reactionPath(kind, targetID), body, &agg); err != nil {
		return agg, err
	}
	return agg.Normalized(), nil
}
