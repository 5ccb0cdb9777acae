package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	ErrMissingJWTSecret   = errors.New("jwt access and refresh secrets are required")
	ErrMissingDSN         = errors.New("database dsn is required")
	ErrMissingCloudinary  = errors.New("cloudinary url is required when media driver is cloudinary")
	ErrUnknownMediaDriver = errors.New("unknown media driver")
	ErrUnknownStoreDriver = errors.New("unknown database driver")
)

// Config is read from an optional YAML file; environment variables override it.
// Secrets are environment only.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Media     MediaConfig     `yaml:"media"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Outbox    OutboxConfig    `yaml:"outbox"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Addr        string        `yaml:"addr" env:"SERVER_ADDR" env-default:":8080"`
	Mode        string        `yaml:"mode" env:"GIN_MODE" env-default:"release"`
	MaxUploadMB int64         `yaml:"max_upload_mb" env:"MAX_UPLOAD_MB" env-default:"25"`
	ShutdownTTL time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	CORSOrigins []string      `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver" env:"DB_DRIVER" env-default:"mysql"`
	DSN          string `yaml:"dsn" env:"DB_DSN"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"20"`
	MaxIdleConns int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	AutoMigrate  bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Enabled reports whether sessions and reset codes are backed by redis.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

type JWTConfig struct {
	AccessSecret  string        `yaml:"-" env:"JWT_ACCESS_SECRET"`
	RefreshSecret string        `yaml:"-" env:"JWT_REFRESH_SECRET"`
	AccessTTL     time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL" env-default:"30m"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl" env:"JWT_REFRESH_TTL" env-default:"168h"`
	SessionTTL    time.Duration `yaml:"session_ttl" env:"JWT_SESSION_TTL" env-default:"24h"`
}

type MediaConfig struct {
	Driver        string `yaml:"driver" env:"MEDIA_DRIVER" env-default:"local"`
	CloudinaryURL string `yaml:"-" env:"CLOUDINARY_URL"`
	RootFolder    string `yaml:"root_folder" env:"MEDIA_ROOT_FOLDER" env-default:"liverylibrary"`
	LocalDir      string `yaml:"local_dir" env:"MEDIA_LOCAL_DIR" env-default:"./uploads"`
	PublicBaseURL string `yaml:"public_base_url" env:"MEDIA_PUBLIC_BASE_URL" env-default:"/uploads"`
}

type SMTPConfig struct {
	Host     string        `yaml:"host" env:"SMTP_HOST"`
	Port     int           `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username string        `yaml:"username" env:"SMTP_USERNAME"`
	Password string        `yaml:"-" env:"SMTP_PASSWORD"`
	From     string        `yaml:"from" env:"SMTP_FROM"`
	CodeTTL  time.Duration `yaml:"code_ttl" env:"RESET_CODE_TTL" env-default:"10m"`
}

func (c SMTPConfig) Enabled() bool { return c.Host != "" && c.From != "" }

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"liverylibrary.notifications"`
}

func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

type OutboxConfig struct {
	BatchSize int           `yaml:"batch_size" env:"OUTBOX_BATCH_SIZE" env-default:"200"`
	Interval  time.Duration `yaml:"interval" env:"OUTBOX_INTERVAL" env-default:"1s"`
	MaxRetry  int           `yaml:"max_retry" env:"OUTBOX_MAX_RETRY" env-default:"5"`
}

// ReconcileConfig drives the like/comment counter repair job. A zero interval disables it.
type ReconcileConfig struct {
	BatchSize int           `yaml:"batch_size" env:"RECONCILE_BATCH_SIZE" env-default:"500"`
	Interval  time.Duration `yaml:"interval" env:"RECONCILE_INTERVAL" env-default:"10m"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// ResolvePath picks the config file: the flag value, then CONFIG_PATH, then ./config.yaml.
// An empty result means environment only.
func ResolvePath(flagValue string) string {
	for _, p := range []string{flagValue, os.Getenv("CONFIG_PATH"), "config.yaml"} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(cfg.Database.Driver)
	cfg.Media.Driver = strings.ToLower(cfg.Media.Driver)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return ErrMissingJWTSecret
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreDriver, c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return ErrMissingDSN
	}
	switch c.Media.Driver {
	case "local":
	case "cloudinary":
		if c.Media.CloudinaryURL == "" {
			return ErrMissingCloudinary
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMediaDriver, c.Media.Driver)
	}
	return nil
}

// Usage renders the supported environment variables for -help output.
func Usage() string {
	text, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return text
}
