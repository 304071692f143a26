package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// PathEnv overrides the config file location.
const PathEnv = "DESK_CONFIG"

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	HTTP struct {
		Addr              string
		ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN        string
		Migrations string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Telegram struct {
		Token       string
		AdminChatID int64         `mapstructure:"admin_chat_id"`
		PollTimeout time.Duration `mapstructure:"poll_timeout"`
	} `mapstructure:"telegram"`

	Payments struct {
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"payments"`

	Billing struct {
		Currency string
	} `mapstructure:"billing"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_header_timeout", 5*time.Second)
	v.SetDefault("postgres.migrations", "migrations")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("telegram.poll_timeout", 60*time.Second)
	v.SetDefault("payments.base_url", "http://localhost:8080")
	v.SetDefault("billing.currency", "USD")
}

// Load reads path (or $DESK_CONFIG) with APP_* environment overrides, e.g.
// APP_POSTGRES_DSN. A .env file in the working directory is applied first.
func Load(path string) (Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	if p := os.Getenv(PathEnv); p != "" {
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	defaults(v)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
