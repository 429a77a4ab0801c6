package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

type ServerCfg struct {
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	GrpcPort        int           `env:"GRPC_PORT" envDefault:"3010"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ConnectTimeout  time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
}

type MongoCfg struct {
	Host        string `env:"MONGO_HOST" envDefault:"mongo-customers"`
	User        string `env:"MONGO_USER"`
	Password    string `env:"MONGO_PASSWORD"`
	Port        int    `env:"MONGO_PORT" envDefault:"27017"`
	MaxPoolSize int    `env:"MONGO_MAX_POOL_SIZE" envDefault:"100"`
}

// URI builds mongo connection string
func (c MongoCfg) URI() string {
	return fmt.Sprintf("mongodb://%s:%s@%s:%d/?maxPoolSize=%d", c.User, c.Password, c.Host, c.Port, c.MaxPoolSize)
}

type PostgresCfg struct {
	Host        string `env:"POSTGRES_HOST" envDefault:"pg-customers"`
	User        string `env:"POSTGRES_USER"`
	Password    string `env:"POSTGRES_PASSWORD"`
	Database    string `env:"POSTGRES_DB"`
	SslMode     string `env:"POSTGRES_SLL_MODE" envDefault:"disable"`
	Port        int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PoolMaxConn int    `env:"POSTGRES_POOL_MAX_CONN" envDefault:"100"`
}

// DSN builds pgx connection string
func (c PostgresCfg) DSN() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%d dbname=%s sslmode=%s pool_max_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SslMode, c.PoolMaxConn,
	)
}

type RedisCfg struct {
	Addr     string        `env:"REDIS_ADDR" envDefault:"redis-customers:6379"`
	Password string        `env:"REDIS_PASSWORD" envDefault:""`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL time.Duration `env:"REDIS_CACHE_TTL" envDefault:"10m"`
}

type KafkaCfg struct {
	Brokers         []string      `env:"KAFKA_BROKERS" envSeparator:"," envDefault:""`
	TopicPrefix     string        `env:"KAFKA_TOPIC_PREFIX" envDefault:""`
	Partitions      int32         `env:"KAFKA_TOPIC_PARTITIONS" envDefault:"3"`
	Replicas        int16         `env:"KAFKA_TOPIC_REPLICAS" envDefault:"1"`
	DeliveryTimeout time.Duration `env:"KAFKA_DELIVERY_TIMEOUT" envDefault:"10s"`
}

// Enabled reports whether events must be published to kafka as well
func (c KafkaCfg) Enabled() bool {
	return len(c.Brokers) > 0
}

// NotifierCfg configures change feed, DeliveryTimeout bounds every delivery made by dispatcher workers
type NotifierCfg struct {
	Channel         string        `env:"NOTIFIER_CHANNEL" envDefault:"customers-events"`
	Workers         int           `env:"NOTIFIER_WORKERS" envDefault:"4"`
	QueueLength     int           `env:"NOTIFIER_QUEUE_LENGTH" envDefault:"256"`
	Heartbeat       time.Duration `env:"NOTIFIER_HEARTBEAT" envDefault:"15s"`
	DeliveryTimeout time.Duration `env:"NOTIFIER_DELIVERY_TIMEOUT" envDefault:"5s"`
}

type LogCfg struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	JSON  bool   `env:"LOG_JSON" envDefault:"false"`
}

type Config struct {
	Storage     string
	ServerCfg   ServerCfg
	MongoCfg    MongoCfg
	PostgresCfg PostgresCfg
	RedisCfg    RedisCfg
	KafkaCfg    KafkaCfg
	NotifierCfg NotifierCfg
	LogCfg      LogCfg
}

type storageCfg struct {
	Storage string `env:"STORAGE" envDefault:"postgres"`
}

// Build reads configuration from environment, credentials are required only for selected storage
func Build() (Config, error) {
	var cfg Config
	opts := env.Options{RequiredIfNoDef: true}

	var storage storageCfg
	if err := env.Parse(&storage, opts); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
	}
	cfg.Storage = storage.Storage

	sections := []any{&cfg.ServerCfg, &cfg.RedisCfg, &cfg.KafkaCfg, &cfg.NotifierCfg, &cfg.LogCfg}
	switch cfg.Storage {
	case StoragePostgres:
		sections = append(sections, &cfg.PostgresCfg)
	case StorageMongo:
		sections = append(sections, &cfg.MongoCfg)
	default:
		return cfg, fmt.Errorf("unsupported storage %q, expected %s or %s", cfg.Storage, StoragePostgres, StorageMongo)
	}

	for _, section := range sections {
		if err := env.Parse(section, opts); err != nil {
			return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
		}
	}

	if cfg.NotifierCfg.Workers <= 0 || cfg.NotifierCfg.QueueLength <= 0 || cfg.NotifierCfg.DeliveryTimeout <= 0 {
		return cfg, errors.New("notifier workers, queue length and delivery timeout must be positive")
	}
	return cfg, nil
}
