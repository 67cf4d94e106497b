package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	mongoactor "github.com/gigmates/gigmates/internal/actors/mongo"
	postgresactor "github.com/gigmates/gigmates/internal/actors/postgres"
	"github.com/go-pg/pg/v10"
	"github.com/go-redis/redis"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gigmates/gigmates/internal/actors/httpapi"
	"github.com/gigmates/gigmates/internal/actors/lastfm"
	produceractor "github.com/gigmates/gigmates/internal/actors/pubsub/producer"
	"github.com/gigmates/gigmates/internal/actors/rediscache"
	"github.com/gigmates/gigmates/internal/actors/serpapi"
	"github.com/gigmates/gigmates/internal/config"
	"github.com/gigmates/gigmates/internal/core/model"
	"github.com/gigmates/gigmates/internal/core/ports"
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

// stores groups the three persistence ports a backend provides.
type stores struct {
	profiles    ports.ProfileStore
	rooms       ports.RoomStore
	connections ports.ConnectionStore
}

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

	st, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	taste, err := buildTasteProvider(cfg)
	if err != nil {
		return err
	}
	events, err := buildEventProvider(cfg)
	if err != nil {
		return err
	}

	var sender ports.Sender
	if !cfg.PubSubDisabled {
		client, err := pubsub.NewClient(ctx, cfg.PubSubProjectID)
		if err != nil {
			return err
		}
		defer client.Close()
		sender, err = produceractor.NewProducer(client.Topic(cfg.ConnectionEventsRawTopic))
		if err != nil {
			return err
		}
	}

	profileOpts := []usecase.ProfileServiceOptArgs{}
	if cfg.VerifiedEmailDomain != "" {
		profileOpts = append(profileOpts, usecase.WithVerifiedDomain(cfg.VerifiedEmailDomain))
	}
	profileSvc := usecase.NewProfileService(usecase.ProfileServiceArgs{Store: st.profiles, Taste: taste}, profileOpts...)

	matchSvc := usecase.NewMatchService(usecase.MatchServiceArgs{Profiles: st.profiles, Rooms: st.rooms})
	roomSvc := usecase.NewRoomService(usecase.RoomServiceArgs{Rooms: st.rooms, Profiles: st.profiles})

	connectionOpts := []usecase.ConnectionServiceOptArgs{}
	if cfg.StrictAccept {
		connectionOpts = append(connectionOpts, usecase.WithStrictAccept())
	}
	connectionSvc := usecase.NewConnectionService(usecase.ConnectionServiceArgs{Store: st.connections, Sender: sender}, connectionOpts...)

	concertSvc := usecase.NewConcertService(usecase.ConcertServiceArgs{Events: events})

	apiServer := httpapi.NewServer(httpapi.ServerArgs{
		Profiles:    profileSvc,
		Matches:     matchSvc,
		Rooms:       roomSvc,
		Connections: connectionSvc,
		Concerts:    concertSvc,
	})

	httpServer := &http.Server{Addr: cfg.HTTPAddr, Handler: apiServer.Handler()}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	log.
		WithField("http-server-addr", cfg.HTTPAddr).
		WithField("storage-backend", cfg.StorageBackend).
		Info("server up or soon to be up. listening to SIGTERM, SIGINT, SIGQUIT for stopping the server")

	// Wait for signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-ch

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return httpServer.Shutdown(shutdownCtx)
}

func buildStores(ctx context.Context, cfg *config.Config) (*stores, func(), error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		opts, err := pg.ParseURL(cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		db := pg.Connect(opts)
		if err := db.Ping(ctx); err != nil {
			log.WithError(err).Error("postgres does not appear to be reachable")
			return nil, nil, err
		}
		adapter, err := postgresactor.NewPostgresDB(postgresactor.PostgresDBArgs{DB: db})
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() { _ = db.Close() }
		return &stores{profiles: adapter, rooms: adapter, connections: adapter}, cleanup, nil
	default:
		clientOptions := options.Client().ApplyURI(cfg.MongoURL)
		db, err := mongo.Connect(ctx, clientOptions)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(ctx, nil); err != nil {
			log.WithError(err).Error("mongo does not appear to be reachable")
			return nil, nil, err
		}
		database := db.Database(cfg.MongoDatabase)
		adapter, err := mongoactor.NewMongoDB(mongoactor.MongoDBArgs{
			UserCollection:       database.Collection("users"),
			RoomCollection:       database.Collection("rooms"),
			MessageCollection:    database.Collection("messages"),
			ConnectionCollection: database.Collection("connections"),
		})
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() { _ = db.Disconnect(ctx) }
		return &stores{profiles: adapter, rooms: adapter, connections: adapter}, cleanup, nil
	}
}

func buildTasteProvider(cfg *config.Config) (ports.TasteProvider, error) {
	if cfg.LastFMAPIKey == "" {
		log.Warn("LASTFM_API_KEY not set, taste syncing is disabled")
		return unconfiguredTasteProvider{}, nil
	}
	client, err := lastfm.NewClient(lastfm.ClientArgs{APIKey: cfg.LastFMAPIKey})
	if err != nil {
		return nil, err
	}
	if cfg.RedisAddr == "" {
		return client, nil
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping().Err(); err != nil {
		log.WithError(err).Warn("redis does not appear to be reachable, taste caching is disabled")
		return client, nil
	}
	return rediscache.NewTasteCache(rediscache.TasteCacheArgs{Client: redisClient, Provider: client})
}

func buildEventProvider(cfg *config.Config) (ports.EventProvider, error) {
	if cfg.SerpAPIKey == "" {
		log.Warn("SERPAPI_API_KEY not set, the concert listing is disabled")
		return unconfiguredEventProvider{}, nil
	}
	return serpapi.NewClient(serpapi.ClientArgs{APIKey: cfg.SerpAPIKey})
}

type unconfiguredTasteProvider struct{}

func (unconfiguredTasteProvider) FetchTaste(context.Context, string) (*model.TasteProfile, error) {
	return nil, errors.New("no taste provider configured")
}

type unconfiguredEventProvider struct{}

func (unconfiguredEventProvider) FetchUpcomingEvents(context.Context, string, int) ([]model.RawEvent, error) {
	return nil, errors.New("no event provider configured")
}

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}
