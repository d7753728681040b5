package config

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"
	"time"

	"calbook/pkg/client"
	"calbook/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DotEnvFile = ".env"

type Config struct {
	StoreDriver string
	AutoMigrate bool

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	PostgresURL             string
	PostgresMaxOpenConns    int
	PostgresMaxIdleConns    int
	PostgresConnMaxLifetime time.Duration

	SQLitePath string

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	DefaultTimeZone  string
	Location         *time.Location
	EnforceTimeOrder bool

	KafkaEnabled      bool
	KafkaBookingTopic string

	EventPublishTimeout time.Duration
	EventQueueSize      int

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	dotEnvErr := godotenv.Load(DotEnvFile)

	v := newViper()

	cfg := &Config{
		StoreDriver: v.GetString(EnvStoreDriver),
		AutoMigrate: v.GetBool(EnvAutoMigrate),

		MongoURI:          v.GetString(EnvMongoURI),
		MongoDatabaseName: v.GetString(EnvMongoDatabaseName),
		MongoConnTimeout:  v.GetDuration(EnvMongoConnTimeout),

		PostgresURL:             v.GetString(EnvPostgresURL),
		PostgresMaxOpenConns:    v.GetInt(EnvPostgresMaxOpenConns),
		PostgresMaxIdleConns:    v.GetInt(EnvPostgresMaxIdleConns),
		PostgresConnMaxLifetime: v.GetDuration(EnvPostgresConnMaxLifetime),

		SQLitePath: v.GetString(EnvSQLitePath),

		Port: v.GetString(EnvPort),

		RateLimitRequests: v.GetInt(EnvRateLimitRequests),
		RateLimitWindow:   v.GetDuration(EnvRateLimitWindow),

		RequestTimeout: v.GetDuration(EnvRequestTimeout),
		IdempotencyTTL: v.GetDuration(EnvIdempotencyTTL),
		MaxRequestSize: v.GetInt(EnvMaxRequestSize),

		ReadTimeout:     v.GetDuration(EnvReadTimeout),
		WriteTimeout:    v.GetDuration(EnvWriteTimeout),
		IdleTimeout:     v.GetDuration(EnvIdleTimeout),
		ShutdownTimeout: v.GetDuration(EnvShutdownTimeout),

		DefaultTimeZone:  v.GetString(EnvDefaultTimeZone),
		EnforceTimeOrder: v.GetBool(EnvEnforceTimeOrder),

		KafkaEnabled:      v.GetBool(EnvKafkaEnabled),
		KafkaBookingTopic: v.GetString(EnvKafkaBookingTopic),

		EventPublishTimeout: v.GetDuration(EnvEventPublishTimeout),
		EventQueueSize:      v.GetInt(EnvEventQueueSize),

		Log: logger.New(logger.Config{
			Level:     v.GetString(EnvLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if loc, err := time.LoadLocation(cfg.DefaultTimeZone); err == nil {
		cfg.Location = loc
	}

	switch {
	case dotEnvErr == nil:
		cfg.Log.Info("Loaded environment overrides", "file", DotEnvFile)
	case !errors.Is(dotEnvErr, fs.ErrNotExist):
		cfg.Log.Warn("Failed to read env file", "file", DotEnvFile, "error", dotEnvErr)
	}

	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(EnvStoreDriver, DefaultStoreDriver)
	v.SetDefault(EnvAutoMigrate, DefaultAutoMigrate)

	v.SetDefault(EnvMongoURI, DefaultMongoURI)
	v.SetDefault(EnvMongoDatabaseName, DefaultMongoDatabaseName)
	v.SetDefault(EnvMongoConnTimeout, DefaultMongoConnTimeout)

	v.SetDefault(EnvPostgresURL, DefaultPostgresURL)
	v.SetDefault(EnvPostgresMaxOpenConns, DefaultPostgresMaxOpenConns)
	v.SetDefault(EnvPostgresMaxIdleConns, DefaultPostgresMaxIdleConns)
	v.SetDefault(EnvPostgresConnMaxLifetime, DefaultPostgresConnMaxLifetime)

	v.SetDefault(EnvSQLitePath, DefaultSQLitePath)

	v.SetDefault(EnvPort, DefaultPort)
	v.SetDefault(EnvLogLevel, DefaultLogLevel)

	v.SetDefault(EnvRateLimitRequests, DefaultRateLimitRequests)
	v.SetDefault(EnvRateLimitWindow, DefaultRateLimitWindow)

	v.SetDefault(EnvRequestTimeout, DefaultRequestTimeout)
	v.SetDefault(EnvIdempotencyTTL, DefaultIdempotencyTTL)
	v.SetDefault(EnvMaxRequestSize, DefaultMaxRequestSize)

	v.SetDefault(EnvReadTimeout, DefaultReadTimeout)
	v.SetDefault(EnvWriteTimeout, DefaultWriteTimeout)
	v.SetDefault(EnvIdleTimeout, DefaultIdleTimeout)
	v.SetDefault(EnvShutdownTimeout, DefaultShutdownTimeout)

	v.SetDefault(EnvDefaultTimeZone, DefaultTimeZone)
	v.SetDefault(EnvEnforceTimeOrder, DefaultEnforceTimeOrder)

	v.SetDefault(EnvKafkaEnabled, DefaultKafkaEnabled)
	v.SetDefault(EnvKafkaBookingTopic, DefaultKafkaBookingTopic)

	v.SetDefault(EnvEventPublishTimeout, DefaultEventPublishTimeout)
	v.SetDefault(EnvEventQueueSize, DefaultEventQueueSize)

	return v
}

// SetStore opens the connection the configured driver needs. The in-memory
// driver needs none.
func (cfg *Config) SetStore() {
	switch cfg.StoreDriver {
	case StoreMongo:
		cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	case StorePostgres:
		cfg.Client.SetPostgres(cfg.Log, cfg.PostgresURL, client.PoolConfig{
			MaxOpenConns:    cfg.PostgresMaxOpenConns,
			MaxIdleConns:    cfg.PostgresMaxIdleConns,
			ConnMaxLifetime: cfg.PostgresConnMaxLifetime,
		})
	case StoreSQLite:
		cfg.Client.SetSQLite(cfg.Log, cfg.SQLitePath)
	}
}

func (cfg *Config) Validate() error {
	var errors []string

	switch cfg.StoreDriver {
	case StoreMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	case StorePostgres:
		if !regexp.MustCompile(`^postgres(ql)?://`).MatchString(cfg.PostgresURL) {
			errors = append(errors, fmt.Sprintf("PostgresURL must start with 'postgres://' or 'postgresql://', got: %s", redactURI(cfg.PostgresURL)))
		}
		if cfg.PostgresMaxOpenConns < 0 || cfg.PostgresMaxIdleConns < 0 {
			errors = append(errors, "Postgres pool sizes cannot be negative")
		}
	case StoreSQLite:
		if cfg.SQLitePath == "" {
			errors = append(errors, "SQLitePath cannot be empty")
		}
	case StoreMemory:
	default:
		errors = append(errors, fmt.Sprintf("StoreDriver must be one of [%s, %s, %s, %s], got: %s",
			StoreMongo, StorePostgres, StoreSQLite, StoreMemory, cfg.StoreDriver))
	}

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.Location == nil {
		errors = append(errors, fmt.Sprintf("DefaultTimeZone must be a valid IANA zone, got: %s", cfg.DefaultTimeZone))
	}

	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.KafkaEnabled && cfg.KafkaBookingTopic == "" {
		errors = append(errors, "KafkaBookingTopic cannot be empty when Kafka is enabled")
	}
	if cfg.EventPublishTimeout < 0 {
		errors = append(errors, fmt.Sprintf("EventPublishTimeout cannot be negative, got: %s", cfg.EventPublishTimeout))
	}
	if cfg.EventQueueSize < 0 {
		errors = append(errors, fmt.Sprintf("EventQueueSize cannot be negative, got: %d", cfg.EventQueueSize))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"store_driver", cfg.StoreDriver,
		"auto_migrate", cfg.AutoMigrate,
		"mongo_uri", redactURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"postgres_url", redactURI(cfg.PostgresURL),
		"postgres_max_open_conns", cfg.PostgresMaxOpenConns,
		"postgres_max_idle_conns", cfg.PostgresMaxIdleConns,
		"postgres_conn_max_lifetime", cfg.PostgresConnMaxLifetime,
		"sqlite_path", cfg.SQLitePath,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"default_time_zone", cfg.DefaultTimeZone,
		"enforce_time_order", cfg.EnforceTimeOrder,
		"kafka_enabled", cfg.KafkaEnabled,
		"kafka_booking_topic", cfg.KafkaBookingTopic,
		"event_publish_timeout", cfg.EventPublishTimeout,
		"event_queue_size", cfg.EventQueueSize,
	)
}

var credentialRegex = regexp.MustCompile(`^([a-z+]+://)[^:/@]+:[^@]+@`)

func redactURI(uri string) string {
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}
