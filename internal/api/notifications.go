package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anonto42/nano-midea/appclient/internal/models"
	"github.com/anonto42/nano-midea/appclient/internal/notifications"
)

// Notifications lists one page of the user's notifications, newest first.
func (c *Client) Notifications(ctx context.Context, page, limit int) ([]models.Notification, *PageMeta, error) {
	var data struct {
		Notifications []notifications.Wire `json:"notifications"`
	}
	meta, err := c.get(ctx, "/api/v1/notifications", pageQuery(page, limit), &data)
	if err != nil {
		return nil, nil, err
	}
	out := make([]models.Notification, len(data.Notifications))
	for i, w := range data.Notifications {
		out[i] = w.ToNotification()
	}
	return out, meta, nil
}

// UnreadCount fetches the server-side unread notification count.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var data struct {
		Count int `json:"count"`
	}
	if _, err := c.get(ctx, "/api/v1/notifications/unread-count", nil, &data); err != nil {
		return 0, err
	}
	return data.Count, nil
}

// MarkNotificationRead marks one notification read server-side.
func (c *Client) MarkNotificationRead(ctx context.Context, id uint) error {
	_, err := c.send(ctx, http.MethodPut, fmt.Sprintf("/api/v1/notifications/%d/read", id), nil, nil)
	return err
}

// MarkAllNotificationsRead marks every notification read server-side.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := c.send(ctx, http.MethodPut, "/api/v1/notifications/read-all", nil, nil)
	return err
}

// BlockRelationships fetches the block map for the current user.
func (c *Client) BlockRelationships(ctx context.Context) (models.BlockMap, error) {
	var data struct {
		Blocks map[uint]models.BlockRelationship `json:"blocks"`
	}
	if _, err := c.get(ctx, "/api/v1/users/blocks", nil, &data); err != nil {
		return nil, err
	}
	return data.Blocks, nil
}
