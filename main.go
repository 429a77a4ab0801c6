package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/celidone/customers/internal/cache"
	"github.com/celidone/customers/internal/config"
	"github.com/celidone/customers/internal/handlers"
	"github.com/celidone/customers/internal/infra"
	"github.com/celidone/customers/internal/notifier"
	"github.com/celidone/customers/internal/repository"
	"github.com/celidone/customers/internal/service"
	"github.com/celidone/customers/internal/validation"
	"github.com/celidone/customers/pkg/db/transactor"
	"github.com/go-redis/redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/errgroup"
)

type storage struct {
	customerRepo repository.CustomerRepository
	trx          transactor.Transactor
	check        infra.HealthCheck
	close        func()
}

// @title       Customers API
// @version     1.0
// @description Customer registry with national identifier validation, statistics and change feed
// @BasePath    /
func main() {
	cfg, err := config.Build()
	if err != nil {
		logrus.Fatal(err)
	}

	logger, err := setupLogger(cfg.LogCfg)
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatalf("shutting down the application, unexpected error occurred - %v", err)
	}
	logger.Info("application stopped")
}

func setupLogger(cfg config.LogCfg) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level - %w", err)
	}

	logger := logrus.StandardLogger()
	logger.SetLevel(level)
	if cfg.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}

//nolint:funlen // function wires whole application
func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ServerCfg.ConnectTimeout)
	defer cancel()

	store, err := connectStorage(connectCtx, cfg)
	if err != nil {
		return err
	}
	defer store.close()

	redisClient, err := infra.Redis(connectCtx, cfg.RedisCfg)
	if err != nil {
		return err
	}
	defer closeRedis(redisClient)

	// Notifiers
	redisNotifier := notifier.NewRedisNotifier(redisClient, cfg.NotifierCfg.Channel)
	targets := []notifier.Notifier{redisNotifier}

	if cfg.KafkaCfg.Enabled() {
		kafkaClient, err := infra.Kafka(connectCtx, cfg.KafkaCfg, notifier.KafkaTopics(cfg.KafkaCfg.TopicPrefix)...)
		if err != nil {
			return err
		}
		defer kafkaClient.Close()

		targets = append(targets, notifier.NewKafkaNotifier(kafkaClient, cfg.KafkaCfg.TopicPrefix))
	}

	dispatcher := notifier.NewDispatcher(
		notifier.Fanout(targets...),
		cfg.NotifierCfg.Workers,
		cfg.NotifierCfg.QueueLength,
		cfg.NotifierCfg.DeliveryTimeout,
	)
	dispatcher.Start(context.Background())
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerCfg.ShutdownTimeout)
		defer cancel()
		dispatcher.Close(drainCtx)
	}()

	// Repositories
	customerRepo := repository.NewCachedCustomerRepository(
		store.customerRepo,
		cache.NewRedisCustomerCache(redisClient, cfg.RedisCfg.CacheTTL),
	)

	// Services
	customerSvc := service.NewCustomerService(customerRepo, service.NewCustomerPolicy(customerRepo), store.trx, dispatcher, nil)
	statsSvc := service.NewStatisticsService(customerRepo, nil)

	// Validation
	v, trans, err := validation.New()
	if err != nil {
		return err
	}
	echoValidator := validation.Echo(v, trans)

	// Servers
	redisCheck := func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	app := infra.Router(echoValidator, infra.HTTPHandlers{
		Customers: handlers.NewCustomerHTTPHandler(customerSvc, statsSvc),
		Events:    handlers.NewEventsHTTPHandler(redisNotifier, cfg.NotifierCfg.Heartbeat),
	}, logger, store.check, redisCheck)

	grpcServer := infra.GrpcServer(echoValidator, handlers.NewCustomerGrpcHandler(customerSvc, statsSvc, redisNotifier))

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.ServerCfg.GrpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen gRPC port %d - %w", cfg.ServerCfg.GrpcPort, err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infof("starting http server on port %d", cfg.ServerCfg.HTTPPort)
		if err := app.Start(fmt.Sprintf(":%d", cfg.ServerCfg.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed - %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Infof("starting gRPC server on port %d", cfg.ServerCfg.GrpcPort)
		if err := grpcServer.Serve(grpcListener); err != nil {
			return fmt.Errorf("gRPC server failed - %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutdown signal has been sent, stopping the servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerCfg.ShutdownTimeout)
		defer cancel()

		grpcServer.GracefulStop()
		if err := app.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop http server gracefully - %w", err)
		}
		return nil
	})

	return g.Wait()
}

func connectStorage(ctx context.Context, cfg config.Config) (*storage, error) {
	switch cfg.Storage {
	case config.StorageMongo:
		client, err := infra.Mongodb(ctx, cfg.MongoCfg)
		if err != nil {
			return nil, err
		}

		if err := repository.EnsureMongoIndexes(ctx, client); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}

		return &storage{
			customerRepo: repository.NewMongoCustomerRepository(client),
			trx:          transactor.NewMongoTransactor(client),
			check:        func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					logrus.Errorf("failed to gracefully close connection to mongo - %v", err)
				}
			},
		}, nil
	default:
		pool, err := infra.Postgresql(ctx, cfg.PostgresCfg)
		if err != nil {
			return nil, err
		}

		return &storage{
			customerRepo: repository.NewPostgresCustomerRepository(transactor.NewPgxWithinTransactionExecutor(pool)),
			trx:          transactor.NewPgxTransactor(pool),
			check:        pool.Ping,
			close:        pool.Close,
		}, nil
	}
}

func closeRedis(client *redis.Client) {
	if err := client.Close(); err != nil {
		logrus.Errorf("failed to gracefully close connection to redis - %v", err)
	}
}
