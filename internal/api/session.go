package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/anonto42/nano-midea/appclient/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// UserIDFromToken reads the user id out of the session JWT's custom claims.
// The signature is not verified here — verification is the server's job;
// the client only needs to know who it is.
func UserIDFromToken(token string) (uint, error) {
	var claims models.JwtCustomClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return 0, fmt.Errorf("parse session token: %w", err)
	}
	if claims.UserID == 0 {
		return 0, fmt.Errorf("session token carries no user id")
	}
	return claims.UserID, nil
}

// SessionHistory lists one page of the user's past meeting sessions.
func (c *Client) SessionHistory(ctx context.Context, page, limit int) ([]models.Session, *PageMeta, error) {
	var data struct {
		Sessions []models.Session `json:"sessions"`
	}
	meta, err := c.get(ctx, "/api/v1/sessions/history", pageQuery(page, limit), &data)
	if err != nil {
		return nil, nil, err
	}
	return data.Sessions, meta, nil
}

// sessionStatus fetches one session's lifecycle status.
func (c *Client) sessionStatus(ctx context.Context, sessionID string) (*models.SessionStatus, error) {
	var status models.SessionStatus
	path := fmt.Sprintf("/api/v1/sessions/%s/status", url.PathEscape(sessionID))
	if _, err := c.get(ctx, path, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// PollSessionEnd polls a session's status until it reports ended, with a
// fixed attempt cap and a fixed delay between attempts — never unbounded.
// Transient failures count as attempts. Exhaustion returns (nil, nil): the
// nil status is the giving-up sentinel, a soft failure for the caller to
// surface.
func (c *Client) PollSessionEnd(ctx context.Context, sessionID string) (*models.SessionStatus, error) {
	for attempt := 1; attempt <= c.PollAttempts; attempt++ {
		status, err := c.sessionStatus(ctx, sessionID)
		if err == nil && status.Ended {
			return status, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("session status poll failed",
				zap.String("session_id", sessionID),
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
		if attempt == c.PollAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.PollDelay):
		}
	}
	return nil, nil
}
