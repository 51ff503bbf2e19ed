package events

import (
	"encoding/json"
	"time"

	"github.com/anonto42/nano-midea/appclient/internal/chat"
	"github.com/anonto42/nano-midea/appclient/internal/feed"
	"github.com/anonto42/nano-midea/appclient/internal/models"
	"github.com/anonto42/nano-midea/appclient/internal/notifications"
	"github.com/anonto42/nano-midea/appclient/internal/reactions"
	"go.uber.org/zap"
)

// Dispatcher routes decoded gateway envelopes to the engine components.
// Dispatch never fails toward the transport: malformed payloads and unknown
// event types are logged and dropped, and the engine operations themselves
// treat missing targets as no-ops. The gateway calls Dispatch from its
// single read goroutine, so handlers run one at a time in arrival order.
type Dispatcher struct {
	notifications *notifications.Reconciler
	tracker       *chat.Tracker
	aggregator    *reactions.Aggregator
	feed          *feed.Feed
	presence      *chat.OnlineSet
	logger        *zap.Logger
}

// NewDispatcher wires the dispatcher to the engine components.
func NewDispatcher(
	reconciler *notifications.Reconciler,
	tracker *chat.Tracker,
	aggregator *reactions.Aggregator,
	f *feed.Feed,
	presence *chat.OnlineSet,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		notifications: reconciler,
		tracker:       tracker,
		aggregator:    aggregator,
		feed:          f,
		presence:      presence,
		logger:        logger.Named("dispatch"),
	}
}

// Dispatch applies one gateway envelope to the local state.
func (d *Dispatcher) Dispatch(env Envelope) {
	switch env.Event {
	case TypeNotification:
		var w notifications.Wire
		if !d.decode(env, &w) {
			return
		}
		d.notifications.Add(w.ToNotification())

	case TypeNotificationUpdate:
		var w notifications.Wire
		if !d.decode(env, &w) {
			return
		}
		d.notifications.Replace(w.ToNotification())

	case TypeNotificationDelete:
		criteria, err := notifications.DecodeCriteria(env.Data)
		if err != nil {
			d.logger.Warn("deletion criteria dropped", zap.Error(err))
			return
		}
		d.notifications.DeleteByCriteria(criteria)
		// A post deletion cascades outside the notification set too.
		if pd, ok := criteria.(notifications.PostDeleted); ok {
			d.feed.RemovePost(pd.PostID)
			d.aggregator.Forget(reactions.TargetPost, pd.PostID)
		}

	case TypeNotificationDeleteAll:
		d.notifications.DeleteAll()

	case TypeChatNewMessage, TypeChatMessageSent:
		var msg models.Message
		if !d.decode(env, &msg) {
			return
		}
		d.tracker.OnNewMessage(msg.RoomID, msg)

	case TypeChatReactMessage:
		var ev ChatReactEvent
		if !d.decode(env, &ev) {
			return
		}
		d.tracker.OnReactionUpdate(ev.RoomID, ev.Message.ID, ev.Message.Reactions)
		d.aggregator.Apply(reactions.TargetMessage, ev.Message.ID, ev.Message.Reactions)

	case TypeChatDeleteMessage:
		var ev ChatDeleteEvent
		if !d.decode(env, &ev) {
			return
		}
		at := ev.DeletedAt
		if at.IsZero() {
			at = time.Now()
		}
		d.tracker.OnMessageDelete(ev.RoomID, ev.MessageID, ev.ForAll, ev.UserID, at)

	case TypeChatMessageEdited:
		var msg models.Message
		if !d.decode(env, &msg) {
			return
		}
		d.tracker.OnMessageEdited(msg)

	case TypeCommentReaction:
		var ev ReactionUpdatedEvent
		if !d.decode(env, &ev) {
			return
		}
		d.aggregator.Apply(reactions.TargetComment, ev.TargetID, ev.Aggregate())

	case TypePostReaction:
		var ev ReactionUpdatedEvent
		if !d.decode(env, &ev) {
			return
		}
		agg := ev.Aggregate()
		d.aggregator.Apply(reactions.TargetPost, ev.TargetID, agg)
		d.feed.ApplyReactionUpdate(ev.TargetID, agg)

	case TypeUserStatus:
		var ev StatusEvent
		if !d.decode(env, &ev) {
			return
		}
		d.presence.SetStatus(ev.UserID, ev.Online)

	case TypeUserStatusAll:
		var ev StatusAllEvent
		if !d.decode(env, &ev) {
			return
		}
		d.presence.SetAll(ev.Online)

	default:
		d.logger.Debug("unknown event dropped", zap.String("event", string(env.Event)))
	}
}

func (d *Dispatcher) decode(env Envelope, out any) bool {
	if err := json.Unmarshal(env.Data, out); err != nil {
		d.logger.Warn("event payload dropped",
			zap.String("event", string(env.Event)), zap.Error(err))
		return false
	}
	return true
}
