package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/atimics/chat/internal/config"
	"github.com/atimics/chat/internal/db"
	"github.com/atimics/chat/internal/events"
	"go.uber.org/zap"
)

// Notify bridge: small service that subscribes to auth events on Redis and
// forwards them to a webhook (typically the greeter bot), so the API never
// blocks on bot delivery.

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	subscriber := events.NewRedisSubscriber(rdb, log)

	log.Info("notify-bridge started", zap.String("stream", events.StreamAuth))

	_ = subscriber.Subscribe(ctx, events.StreamAuth, func(event events.Event) {
		log.Info("auth event received",
			zap.String("type", event.Type),
			zap.Any("matrix_user_id", event.Payload["matrix_user_id"]),
		)
		if cfg.NotifyWebhookURL == "" {
			return
		}
		forwardEvent(cfg.NotifyWebhookURL, event, log)
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down notify-bridge")
	cancel()
}

func forwardEvent(webhookURL string, event events.Event, log *zap.Logger) {
	text := fmt.Sprintf("Event: %s", event.Type)
	if event.Type == events.EventIdentityRegistered {
		if pseudonym, _ := event.Payload["pseudonym"].(string); pseudonym != "" {
			text = fmt.Sprintf("%s just joined the chat", pseudonym)
		}
	}

	body, _ := json.Marshal(map[string]any{
		"type":           event.Type,
		"matrix_user_id": event.Payload["matrix_user_id"],
		"text":           text,
	})

	resp, err := http.Post(webhookURL, "application/json", strings.NewReader(string(body)))
	if err != nil {
		log.Warn("failed to forward event", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("webhook returned non-200", zap.Int("status", resp.StatusCode))
	}
}
