package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the process-wide configuration, loaded once at startup and
// passed by value to everything that needs it.
type Config struct {
	Port         string        `envconfig:"PORT" default:"8080"`
	GinMode      string        `envconfig:"GIN_MODE" default:"debug"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`

	DB     DBConfig
	Kroger KrogerConfig
	Watch  WatchConfig
}

type DBConfig struct {
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD"`
	Host     string `envconfig:"DB_HOST" required:"true"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" required:"true"`
}

// KrogerConfig holds vendor API credentials and endpoints. BaseURL is
// overridable so tests can point the client at a local server.
type KrogerConfig struct {
	ClientID     string `envconfig:"KROGER_CLIENT_ID" required:"true"`
	ClientSecret string `envconfig:"KROGER_CLIENT_SECRET" required:"true"`
	BaseURL      string `envconfig:"KROGER_BASE_URL" default:"https://api.kroger.com"`
	RedirectURL  string `envconfig:"REDIRECT_URI" default:"http://localhost:8080/auth/callback"`
	TokenFile    string `envconfig:"TOKEN_FILE" default:"token.json"`
}

// WatchConfig drives the poll scheduler.
type WatchConfig struct {
	// Watchlist is the fixed set of UPCs polled each tick.
	Watchlist       []string `envconfig:"WATCHED_IDS" default:"0001111041700"`
	IntervalMinutes int      `envconfig:"POLL_INTERVAL_MINUTES" default:"10"`
	ZipCode         string   `envconfig:"WATCH_ZIP_CODE" default:"45202"`
	SearchLimit     int      `envconfig:"WATCH_SEARCH_LIMIT" default:"5"`
}

func (w WatchConfig) Interval() time.Duration {
	if w.IntervalMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(w.IntervalMinutes) * time.Minute
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process config: %w", err)
	}
	return cfg, nil
}
