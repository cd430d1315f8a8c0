package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"freshcart/cart"
	"freshcart/catalog"
	"freshcart/checkout"
	"freshcart/config"
	"freshcart/db"
	"freshcart/globals"
	"freshcart/hub"
	"freshcart/logging"
	"freshcart/middleware"
	"freshcart/mq"
	"freshcart/orders"
	"freshcart/profile"
	"freshcart/ratelim"
	"freshcart/rdx"
	"freshcart/receipts"
	"freshcart/routes"
	"freshcart/toast"
)

const cartSnapshotTTL = 30 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewRealClock()

	liveHub := hub.NewHub()
	go liveHub.Run()

	center := toast.NewCenter(clock, logger.Named("toast"), func(session string) toast.Sink {
		return hub.ToastSink{Hub: liveHub, Room: hub.SessionRoom(session)}
	})

	products, err := catalog.Load(logger.Named("catalog"))
	if err != nil {
		return err
	}

	var rdb *redis.Client
	if cfg.CartBackend == config.CartRedis || cfg.EventBackend == config.EventsRedis {
		if rdb, err = rdx.New(ctx, cfg.RedisAddr); err != nil {
			return err
		}
		defer rdb.Close()
	}

	repo, closeRepo, err := orderRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	var events orders.Publisher = mq.Direct{Handle: liveHub.PublishOrderEvent}
	if cfg.EventBackend == config.EventsRedis {
		events = &mq.RedisPublisher{Client: rdb, Logger: logger.Named("mq")}
		if _, err := mq.StartOrderWorker(ctx, rdb, liveHub.PublishOrderEvent, logger.Named("mq")); err != nil {
			return err
		}
	}

	tracker := orders.NewTracker(orders.TrackerConfig{
		Repo:     repo,
		Clock:    clock,
		Interval: cfg.TrackingInterval,
		Notifier: func(session string) orders.Notifier { return center.Toaster(session) },
		Events:   events,
		Logger:   logger.Named("tracking"),
	})
	defer tracker.StopAll()

	store, err := cartStore(cfg, rdb)
	if err != nil {
		return err
	}
	sessions := cart.NewSessions(store, func(session string) cart.Notifier { return center.Toaster(session) }, logger.Named("cart"))

	signer := &receipts.ShareSigner{
		Secret:  []byte(cfg.ShareSecret),
		TTL:     cfg.ShareTTL,
		BaseURL: cfg.PublicBaseURL,
		Clock:   clock,
	}

	deps := routes.Deps{
		Catalog: &catalog.Handlers{Catalog: products},
		Cart:    &cart.Handlers{Sessions: sessions, Products: products, Logger: logger.Named("cart")},
		Checkout: &checkout.Handlers{
			Service:  &checkout.Service{Orders: repo, Tracker: tracker, Clock: clock, Logger: logger.Named("checkout")},
			Sessions: sessions,
			Notifier: func(session string) checkout.Notifier { return center.Toaster(session) },
			Logger:   logger.Named("checkout"),
		},
		Orders: &orders.Handlers{Repo: repo, Tracker: tracker, Logger: logger.Named("orders")},
		Receipts: &receipts.Handlers{
			Repo:    repo,
			Signer:  signer,
			Client:  &receipts.Client{BaseURL: selfURL(cfg.Port), HTTP: &http.Client{Timeout: 10 * time.Second}},
			Toaster: center.Toaster,
			Logger:  logger.Named("receipts"),
		},
		Notifications: &toast.Handlers{Center: center},
		Profile: &profile.Handlers{
			Store:    profile.NewStore(logger),
			Notifier: func(session string) profile.Notifier { return center.Toaster(session) },
		},
		Hub:     liveHub,
		Limiter: ratelim.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:  logger,
	}
	router := routes.RoutesWrapper(deps)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", globals.SessionHeader},
		ExposedHeaders:   []string{globals.SessionHeader, "X-Request-ID"},
		AllowCredentials: true,
	}).Handler(router)

	handler := middleware.Chain(corsHandler,
		middleware.Logging(logger.Named("http")),
		middleware.Recover(logger),
		middleware.SecurityHeaders,
		middleware.Session,
	)

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}
	server.RegisterOnShutdown(func() {
		logger.Info("shutting down live hub")
		liveHub.Stop()
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Port), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}

	logger.Info("shutdown signal received; shutting down gracefully")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	// stop the event relay before its redis client is closed
	cancel()
	logger.Info("server stopped cleanly")
	return nil
}

func orderRepository(ctx context.Context, cfg config.Config, logger *zap.Logger) (orders.Repository, func(), error) {
	if cfg.OrderBackend != config.OrdersMongo {
		return orders.NewMemoryRepository(logger, orders.MockOrders()...), func() {}, nil
	}
	m, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, nil, err
	}
	repo := orders.NewMongoRepository(m.Orders())
	if err := repo.Seed(ctx, logger, orders.MockOrders()...); err != nil {
		m.Close(context.Background())
		return nil, nil, err
	}
	return repo, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.Close(ctx); err != nil {
			logger.Warn("disconnect mongo", zap.Error(err))
		}
	}, nil
}

func cartStore(cfg config.Config, rdb *redis.Client) (cart.SnapshotStore, error) {
	switch cfg.CartBackend {
	case config.CartFile:
		return cart.NewFileStore(cfg.CartDir)
	case config.CartRedis:
		return &cart.RedisSnapshotStore{Client: rdb, Prefix: "freshcart:", TTL: cartSnapshotTTL}, nil
	default:
		return cart.NewMemoryStore(), nil
	}
}

// selfURL is the loopback address of this server for the receipt client.
func selfURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://127.0.0.1" + addr
	}
	return "http://" + addr
}
