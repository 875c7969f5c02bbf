package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, secrets)
// - default: Values common across all environments (timezone, timeouts, business limits)
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Kafka     KafkaConfig
	Booking   BookingConfig
	Overstay  OverstayConfig
	Sweep     SweepConfig
	Payment   PaymentConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location,Retry-After,X-Request-ID,X-RateLimit-Limit,X-RateLimit-Remaining"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// RedisConfig is optional; an empty address disables every Redis-backed feature.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:""`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type RateLimitConfig struct {
	Enabled        bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Capacity       int           `envconfig:"RATE_LIMIT_CAPACITY" default:"20"`
	RefillTokens   int           `envconfig:"RATE_LIMIT_REFILL_TOKENS" default:"1"`
	RefillInterval time.Duration `envconfig:"RATE_LIMIT_REFILL_INTERVAL" default:"3s"`
	TTL            time.Duration `envconfig:"RATE_LIMIT_TTL" default:"10m"`
	Prefix         string        `envconfig:"RATE_LIMIT_PREFIX" default:"rl"`
}

// KafkaConfig is optional; without brokers the outbox relay is not started and
// queued events are dropped by the sweep once OUTBOX_JOB_RETENTION passes.
type KafkaConfig struct {
	Brokers      []string      `envconfig:"KAFKA_BROKERS" default:""`
	TopicPrefix  string        `envconfig:"KAFKA_TOPIC_PREFIX" default:"parking"`
	BatchTimeout time.Duration `envconfig:"KAFKA_BATCH_TIMEOUT" default:"50ms"`
	WriteTimeout time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"10s"`
}

type BookingConfig struct {
	BaseFeeCents   int64         `envconfig:"BOOKING_BASE_FEE_CENTS" default:"10000"`
	MaxDuration    time.Duration `envconfig:"BOOKING_MAX_DURATION" default:"24h"`
	MaxHorizon     time.Duration `envconfig:"BOOKING_MAX_HORIZON" default:"720h"`
	RedeemEarly    time.Duration `envconfig:"BOOKING_REDEEM_EARLY" default:"15m"`
	IdempotencyTTL time.Duration `envconfig:"BOOKING_IDEMPOTENCY_TTL" default:"24h"`
}

type OverstayConfig struct {
	BlockMinutes  int   `envconfig:"OVERSTAY_BLOCK_MINUTES" default:"15"`
	BlockFeeCents int64 `envconfig:"OVERSTAY_BLOCK_FEE_CENTS" default:"500"`
}

type SweepConfig struct {
	Interval       time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
	OutboxInterval time.Duration `envconfig:"OUTBOX_INTERVAL" default:"5s"`
	OutboxBatch    int           `envconfig:"OUTBOX_BATCH" default:"50"`
	OutboxMaxTries int           `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"8"`
	JobRetention   time.Duration `envconfig:"OUTBOX_JOB_RETENTION" default:"168h"`
}

type PaymentConfig struct {
	WebhookSecret string `envconfig:"PAYMENT_WEBHOOK_SECRET" required:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

func LoadConfig() (Config, error) {
	// .env is a local convenience; real environments inject variables directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

// LoadDBConfig reads only the DB section, for tools that never serve HTTP.
func LoadDBConfig() (DBConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return DBConfig{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg DBConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return DBConfig{}, fmt.Errorf("failed to process db env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 20,
		},
		Log: LogConfig{
			Level:          "error",
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret-key-for-parking-reservation",
			Duration: "1h",
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
		},
		Kafka: KafkaConfig{
			TopicPrefix:  "parking-test",
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: time.Second,
		},
		Booking: BookingConfig{
			BaseFeeCents:   10000,
			MaxDuration:    24 * time.Hour,
			MaxHorizon:     30 * 24 * time.Hour,
			RedeemEarly:    15 * time.Minute,
			IdempotencyTTL: 24 * time.Hour,
		},
		Overstay: OverstayConfig{
			BlockMinutes:  15,
			BlockFeeCents: 500,
		},
		Sweep: SweepConfig{
			Interval:       time.Minute,
			OutboxInterval: 5 * time.Second,
			OutboxBatch:    50,
			OutboxMaxTries: 8,
			JobRetention:   7 * 24 * time.Hour,
		},
		Payment: PaymentConfig{
			WebhookSecret: "test-webhook-secret",
		},
	}
}
