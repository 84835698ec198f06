package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/pc_store/pkg/config"
	"github.com/Skotchmaster/pc_store/pkg/db"
)

const (
	DriverFile     = "file"
	DriverSQLite   = db.DriverSQLite
	DriverPostgres = db.DriverPostgres
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	StoreDriver string
	DataFile    string
	DatabaseURL string

	UploadDir      string
	PublicURL      string
	MaxUploadBytes int64

	JWTSecret       []byte
	JWTSecretRandom bool
	TokenTTL        time.Duration
	AuthRequired    bool
	CSRFEnabled     bool
	CookieSecure    bool

	KafkaBrokers []string
	CORSOrigins  []string
}

// Load reads .env (if present) and the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug("env file not loaded, using process environment", "error", err)
	}

	cfg := &Config{
		ServiceName: config.EnvDefault("SERVICE_NAME", "pc-store"),
		ServerPort:  config.EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    config.EnvDefault("LOG_LEVEL", "info"),

		StoreDriver: strings.ToLower(config.EnvDefault("STORE_DRIVER", DriverFile)),
		DataFile:    config.EnvDefault("DATA_FILE", "data/db.json"),
		DatabaseURL: config.EnvDefault("DATABASE_URL", ""),

		UploadDir:      config.EnvDefault("UPLOAD_DIR", "public/uploads"),
		PublicURL:      strings.TrimRight(config.EnvDefault("PUBLIC_URL", ""), "/"),
		MaxUploadBytes: int64(config.EnvIntDefault("MAX_UPLOAD_MB", 5)) << 20,

		JWTSecret:    []byte(config.EnvDefault("JWT_SECRET", "")),
		TokenTTL:     time.Duration(config.EnvIntDefault("TOKEN_TTL_MINUTES", 24*60)) * time.Minute,
		AuthRequired: config.EnvBoolDefault("AUTH_REQUIRED", false),
		CSRFEnabled:  config.EnvBoolDefault("CSRF_ENABLED", true),
		CookieSecure: config.EnvBoolDefault("COOKIE_SECURE", false),

		KafkaBrokers: config.CSV(config.EnvDefault("KAFKA_BROKERS", "")),
		CORSOrigins:  config.CSV(config.EnvDefault("CORS_ORIGINS", "*")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if len(cfg.JWTSecret) == 0 {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = secret
		cfg.JWTSecretRandom = true
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	errs = append(errs, config.OneOf(c.StoreDriver, "STORE_DRIVER", DriverFile, DriverSQLite, DriverPostgres))
	switch c.StoreDriver {
	case DriverFile:
		errs = append(errs, config.NonEmpty(c.DataFile, "DATA_FILE"))
	case DriverSQLite, DriverPostgres:
		errs = append(errs, config.NonEmpty(c.DatabaseURL, "DATABASE_URL"))
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, errors.New("env SERVER_PORT must be a valid port"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("env MAX_UPLOAD_MB must be positive"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("env TOKEN_TTL_MINUTES must be positive"))
	}
	return errors.Join(errs...)
}

func randomSecret() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return []byte(hex.EncodeToString(b)), nil
}
