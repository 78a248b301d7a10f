package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	JWT         JWTConfig
	Reservation ReservationConfig
	Lock        LockConfig
	Sweeper     SweeperConfig
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
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Seoul"`

	MaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"20"`
	MinConns        int32         `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	ConnectAttempts int           `envconfig:"DB_CONNECT_ATTEMPTS" default:"5"`
	ConnectBackoff  time.Duration `envconfig:"DB_CONNECT_BACKOFF" default:"2s"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	PoolSize int    `envconfig:"REDIS_POOL_SIZE" default:"50"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Retry-After"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Seoul"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Issuer   string        `envconfig:"JWT_ISSUER" default:""`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
	Leeway   time.Duration `envconfig:"JWT_LEEWAY" default:"30s"`
}

type ReservationConfig struct {
	// Calendar days and operating hours are evaluated in this zone.
	TimeZone       string        `envconfig:"RESERVATION_TIMEZONE" default:"Asia/Seoul"`
	PaymentTimeout time.Duration `envconfig:"RESERVATION_PAYMENT_TIMEOUT" default:"10m"`
	CancelCutoff   time.Duration `envconfig:"RESERVATION_CANCEL_CUTOFF" default:"1h"`
}

type LockConfig struct {
	TTL           time.Duration `envconfig:"LOCK_TTL" default:"10s"`
	Wait          time.Duration `envconfig:"LOCK_WAIT" default:"5s"`
	RetryInterval time.Duration `envconfig:"LOCK_RETRY_INTERVAL" default:"50ms"`
}

type SweeperConfig struct {
	Enabled      bool          `envconfig:"SWEEPER_ENABLED" default:"true"`
	Interval     time.Duration `envconfig:"SWEEPER_INTERVAL" default:"60s"`
	InitialDelay time.Duration `envconfig:"SWEEPER_INITIAL_DELAY" default:"5s"`
	BatchSize    int           `envconfig:"SWEEPER_BATCH_SIZE" default:"500"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c *ReservationConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:            "localhost",
			Port:            "15433", // Test DB port
			User:            "test",
			Password:        "test",
			DBName:          "test_db",
			SSLMode:         "disable",
			TimeZone:        "Asia/Seoul",
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: 30 * time.Minute,
			ConnectAttempts: 3,
			ConnectBackoff:  500 * time.Millisecond,
		},
		Redis: RedisConfig{
			Addr:     "localhost:16380",
			PoolSize: 20,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Seoul",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: time.Hour,
			Leeway:   30 * time.Second,
		},
		Reservation: ReservationConfig{
			TimeZone:       "Asia/Seoul",
			PaymentTimeout: 10 * time.Minute,
			CancelCutoff:   time.Hour,
		},
		Lock: LockConfig{
			TTL:           10 * time.Second,
			Wait:          5 * time.Second,
			RetryInterval: 10 * time.Millisecond,
		},
		Sweeper: SweeperConfig{
			Enabled:      false,
			Interval:     time.Minute,
			InitialDelay: 5 * time.Second,
			BatchSize:    100,
		},
	}
}
