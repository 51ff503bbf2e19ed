package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/anonto42/nano-midea/appclient/internal/api"
	"github.com/anonto42/nano-midea/appclient/internal/chat"
	"github.com/anonto42/nano-midea/appclient/internal/events"
	"github.com/anonto42/nano-midea/appclient/internal/feed"
	"github.com/anonto42/nano-midea/appclient/internal/gateway"
	"github.com/anonto42/nano-midea/appclient/internal/notifications"
	"github.com/anonto42/nano-midea/appclient/internal/reactions"
	"github.com/anonto42/nano-midea/appclient/pkg/config"
	"github.com/anonto42/nano-midea/appclient/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog := logger.New(cfg.LogLevel)
	defer zlog.Sync()

	selfID, err := api.UserIDFromToken(cfg.SessionToken)
	if err != nil {
		log.Fatalf("Failed to read session token: %v", err)
	}

	// REST client and engine components
	client := api.NewClient(cfg.APIBaseURL, cfg.SessionToken, zlog)
	client.PollAttempts = cfg.PollAttempts
	client.PollDelay = cfg.PollDelay

	aggregator := reactions.NewAggregator()
	reconciler := notifications.NewReconciler(zlog)
	tracker := chat.NewTracker(selfID, zlog)
	presence := chat.NewOnlineSet()
	homeFeed := feed.NewFeed(aggregator, cfg.PageSize, zlog)

	dispatcher := events.NewDispatcher(reconciler, tracker, aggregator, homeFeed, presence, zlog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initial sync over REST; push events merge in as they arrive.
	if batch, _, err := client.Notifications(ctx, 1, cfg.PageSize); err != nil {
		zlog.Warn("initial notification fetch failed", zap.Error(err))
	} else {
		reconciler.MergeFetched(batch)
	}
	if blocks, err := client.BlockRelationships(ctx); err != nil {
		zlog.Warn("block map fetch failed", zap.Error(err))
	} else {
		reconciler.SetBlocks(blocks)
	}
	if rooms, err := client.Rooms(ctx); err != nil {
		zlog.Warn("room list fetch failed", zap.Error(err))
	} else {
		tracker.SetRooms(rooms)
	}
	if posts, meta, err := client.Feed(ctx, 1, cfg.PageSize); err != nil {
		zlog.Warn("feed fetch failed", zap.Error(err))
	} else {
		homeFeed.Refresh(posts, meta)
	}
	zlog.Info("initial sync complete",
		zap.Int("notifications", len(reconciler.All())),
		zap.Int("unread", reconciler.Unread()),
		zap.Int("rooms", len(tracker.Rooms())),
		zap.Int("posts", len(homeFeed.Posts())))

	// Event channel
	gw := gateway.NewClient(cfg.GatewayURL, cfg.SessionToken, dispatcher, zlog)
	if err := gw.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Gateway connection failed: %v", err)
	}
}
