package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/nats-io/nats.go"
	mongodrv "go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/bizmarket/notify/pkg/broadcast"
	"github.com/bizmarket/notify/pkg/config"
	"github.com/bizmarket/notify/pkg/dispatch"
	"github.com/bizmarket/notify/pkg/httpserver"
	"github.com/bizmarket/notify/pkg/inbox"
	"github.com/bizmarket/notify/pkg/logger"
	"github.com/bizmarket/notify/pkg/mongo"
	"github.com/bizmarket/notify/pkg/notification"
	"github.com/bizmarket/notify/pkg/queue"
	"github.com/bizmarket/notify/pkg/ratelimit"
	"github.com/bizmarket/notify/pkg/redis"
	"github.com/bizmarket/notify/pkg/retry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	config.MustLoad(&cfg)
	var logCfg logger.Config
	config.MustLoad(&logCfg)

	log := logger.New(logger.WithConfig(logCfg, cfg.ServiceName))
	logger.SetAsDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("service exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		return err
	}
	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	checks := []func(context.Context) error{redis.Healthcheck(redisClient)}

	// Mongo is needed for the durable inbox and for push device tokens.
	var db *mongodrv.Database
	if cfg.InboxStorage == "mongo" || slices.Contains(cfg.Channels, string(notification.ChannelPush)) {
		var mongoCfg mongo.Config
		if err := config.Load(&mongoCfg); err != nil {
			return err
		}
		db, err = mongo.NewWithDatabase(ctx, mongoCfg)
		if err != nil {
			return err
		}
		defer func() { _ = db.Client().Disconnect(context.Background()) }()
		checks = append(checks, mongo.Healthcheck(db.Client()))
	}

	var inboxStore inbox.Storage
	switch cfg.InboxStorage {
	case "memory":
		inboxStore = inbox.NewMemoryStorage()
	case "mongo":
		inboxStore, err = inbox.NewMongoStorage(ctx, db)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown INBOX_STORAGE %q", cfg.InboxStorage)
	}

	hub := broadcast.NewMemoryBroadcaster[inbox.Notification](64)
	defer hub.Close()

	services, err := buildServices(cfg, db, inboxStore, hub)
	if err != nil {
		return err
	}
	registry := dispatch.NewRegistry(services...)
	dispatcher := dispatch.NewDispatcher(registry, dispatch.WithLogger(log))
	log.InfoContext(ctx, "dispatch registry built", slog.Any("channels", registry.Channels()))

	var rlCfg rateLimitConfig
	if err := config.Load(&rlCfg); err != nil {
		return err
	}
	algorithm, err := ratelimit.ParseAlgorithm(rlCfg.Algorithm)
	if err != nil {
		return err
	}
	rlStore, err := ratelimit.NewRedisStore(redisClient)
	if err != nil {
		return err
	}
	baseLimiter, err := ratelimit.New(rlStore, rlCfg.Limit, rlCfg.Window, algorithm)
	if err != nil {
		return err
	}
	limiter := ratelimit.FailOpen(baseLimiter, log)

	var queueCfg queue.Config
	if err := config.Load(&queueCfg); err != nil {
		return err
	}
	nc, err := nats.Connect(queueCfg.NATSURL, nats.Name(cfg.ServiceName))
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer func() { _ = nc.Drain() }()

	processor, err := queue.NewProcessor(dispatcher,
		queue.WithLogger(log),
		queue.WithRetryOptions(
			retry.WithMaxAttempts(queueCfg.MaxAttempts),
			retry.WithBaseDelay(queueCfg.BaseDelay),
		),
	)
	if err != nil {
		return err
	}
	natsConsumer, err := queue.NewNATSConsumer(nc, queueCfg.NATSSubject, processor)
	if err != nil {
		return err
	}
	redisConsumer, err := queue.NewRedisPubSubConsumer(redisClient, queueCfg.RedisChannel, processor)
	if err != nil {
		return err
	}

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}
	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))

	handlers := &api{
		dispatcher: dispatcher,
		inbox:      inboxStore,
		log:        log,
	}
	router := newRouter(ctx, handlers, limiter, log, checks)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx, router)
	})
	for _, consumer := range []queue.Consumer{natsConsumer, redisConsumer} {
		consumer := consumer
		g.Go(func() error {
			log.InfoContext(ctx, "queue consumer started", logger.Queue(consumer.Name()))
			return consumer.Run(ctx)
		})
	}
	return g.Wait()
}
