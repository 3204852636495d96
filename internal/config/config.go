// Package config loads mathapp settings from an optional config file, a
// .env file and MATHAPP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrWeakSecret is returned in production when the JWT secret is left at its
// development default.
var ErrWeakSecret = errors.New("auth.jwt_secret must be set in production")

const devSecret = "mathapp-dev-secret"

// Config holds application configuration.
type Config struct {
	Env    string `mapstructure:"env"` // local, dev, prod
	DB     string `mapstructure:"db"`  // SQLite path; empty means the default data dir
	HTTP   HTTP   `mapstructure:"http"`
	Auth   Auth   `mapstructure:"auth"`
	Client Client `mapstructure:"client"`
	Log    Log    `mapstructure:"log"`
}

// HTTP configures the API server.
type HTTP struct {
	Address     string        `mapstructure:"address"`
	Timeout     time.Duration `mapstructure:"timeout"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
}

// Auth configures token issuance and the demo login policy.
type Auth struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`

	// OpenSignup accepts any well-formed email with a password of at least
	// four characters, creating the user on first login.
	OpenSignup bool `mapstructure:"open_signup"`
}

// Client configures the learner client used by play and stats.
type Client struct {
	APIURL  string        `mapstructure:"api_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Log configures logging. An empty File sends TUI logs nowhere.
type Log struct {
	File string `mapstructure:"file"`
}

// IsProduction reports whether Env names a production environment.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

// Load reads configuration. configFile may be empty, in which case
// config.yaml is looked up in the working directory and ./config.
func Load(configFile string) (*Config, error) {
	// A missing .env is normal; the environment may be set directly.
	_ = godotenv.Load()

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	v.SetEnvPrefix("MATHAPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are not picked up by AutomaticEnv on Unmarshal.
	_ = v.BindEnv("db", "MATHAPP_DB")
	_ = v.BindEnv("log.file", "MATHAPP_LOG_FILE")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.IsProduction() && cfg.Auth.JWTSecret == devSecret {
		return nil, ErrWeakSecret
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("db", "")
	v.SetDefault("http.address", ":3001")
	v.SetDefault("http.timeout", "10s")
	v.SetDefault("http.idle_timeout", "60s")
	v.SetDefault("http.cors_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	})
	v.SetDefault("auth.jwt_secret", devSecret)
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.open_signup", true)
	v.SetDefault("client.api_url", "http://localhost:3001/api")
	v.SetDefault("client.timeout", "5s")
	v.SetDefault("log.file", "")
}
