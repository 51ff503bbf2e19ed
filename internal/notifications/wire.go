package notifications

import (
	"encoding/json"
	"time"

	"github.com/anonto42/nano-midea/appclient/internal/models"
)

// Wire is the notification shape as the backend emits it, identical on the
// gateway channel and in REST payloads: fixed header fields plus a
// free-form data object whose shape depends on the type.
type Wire struct {
	ID          uint                    `json:"id"`
	Type        models.NotificationType `json:"type"`
	ActorID     uint                    `json:"actor_id"`
	RecipientID uint                    `json:"recipient_id"`
	IsRead      bool                    `json:"is_read"`
	CreatedAt   time.Time               `json:"created_at"`
	Data        json.RawMessage         `json:"data"`
}

// ToNotification normalizes the wire record for the local cache, extracting
// the payload reference fields once at ingestion.
func (w Wire) ToNotification() models.Notification {
	return models.Notification{
		ID:          w.ID,
		Type:        w.Type,
		ActorID:     w.ActorID,
		RecipientID: w.RecipientID,
		IsRead:      w.IsRead,
		CreatedAt:   w.CreatedAt,
		Payload:     NormalizePayload(w.Data),
		Raw:         w.Data,
	}
}
