package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/pubsub"

	produceractor "github.com/gigmates/gigmates/internal/actors/pubsub/producer"
	subscriberactor "github.com/gigmates/gigmates/internal/actors/pubsub/subscriber"
	"github.com/gigmates/gigmates/internal/config"
	"github.com/gigmates/gigmates/internal/core/usecase"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func init() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	// Output to stdout instead of the default stderr
	log.SetOutput(os.Stdout)

	// Only log the DebugLevel severity or above.
	log.SetLevel(log.DebugLevel)
}

// The worker drains the raw connection-event subscription, drops no-op events
// and republishes real transitions on the public topic.
func run() error {
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, relying on the environment")
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	client, err := pubsub.NewClient(ctx, cfg.PubSubProjectID)
	if err != nil {
		return err
	}
	defer client.Close()

	producer, err := produceractor.NewProducer(client.Topic(cfg.ConnectionEventsPublicTopic))
	if err != nil {
		return err
	}

	notifier := usecase.NewNotifier(producer)

	subscriber := subscriberactor.NewSubscriber(subscriberactor.SubscriberArgs{
		Subscription:           client.Subscription(cfg.ConnectionEventsSubscription),
		ConnectionEventHandler: notifier,
	})

	// start subscriber
	go func(ctx context.Context) {
		if err := subscriber.Consume(ctx); err != nil {
			panic(err)
		}
	}(ctx)

	healthAddr := os.Getenv("WORKER_HTTP_ADDR")
	if healthAddr == "" {
		healthAddr = "localhost:8081"
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	go func() {
		if err := http.ListenAndServe(healthAddr, mux); err != nil {
			panic(err)
		}
	}()

	log.
		WithField("http-server-addr", healthAddr).
		WithField("subscription", cfg.ConnectionEventsSubscription).
		WithField("public-topic", cfg.ConnectionEventsPublicTopic).
		Info("worker up or soon to be up. listening to SIGTERM, SIGINT, SIGQUIT for stopping the worker")

	// Wait for signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-ch

	return nil
}

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}
