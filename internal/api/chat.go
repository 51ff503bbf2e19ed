package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/anonto42/nano-midea/appclient/internal/models"
)

// Rooms lists the user's chat rooms, most recent activity first.
func (c *Client) Rooms(ctx context.Context) ([]models.Room, error) {
	var data struct {
		Rooms []models.Room `json:"rooms"`
	}
	if _, err := c.get(ctx, "/api/v1/chat/rooms", nil, &data); err != nil {
		return nil, err
	}
	return data.Rooms, nil
}

// RoomMessages lists one page of a room's messages, oldest first within the
// page.
func (c *Client) RoomMessages(ctx context.Context, roomID string, page, limit int) ([]models.Message, *PageMeta, error) {
	var data struct {
		Messages []models.Message `json:"messages"`
	}
	path := fmt.Sprintf("/api/v1/chat/rooms/%s/messages", url.PathEscape(roomID))
	meta, err := c.get(ctx, path, pageQuery(page, limit), &data)
	if err != nil {
		return nil, nil, err
	}
	return data.Messages, meta, nil
}
