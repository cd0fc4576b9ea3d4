package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const envPrefix = "ORGNOTES"

type Config struct {
	Env             string
	Port            string
	DatabaseDriver  string
	DatabaseURL     string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AllowedOrigins  []string
	LogLevel        string
	BcryptCost      int
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}
)

// SetDefaults registers every key and its default on v. Keys are looked up as
// ORGNOTES_<KEY> first and then as the bare <KEY>.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("port", "3000")
	v.SetDefault("database_driver", "postgres")
	v.SetDefault("database_url", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("access_token_ttl", 5*time.Minute)
	v.SetDefault("refresh_token_ttl", 24*time.Hour)
	v.SetDefault("allowed_origins", "")
	v.SetDefault("client_url", "")
	v.SetDefault("log_level", "")
	v.SetDefault("bcrypt_cost", bcrypt.DefaultCost)

	for _, key := range v.AllKeys() {
		upper := strings.ToUpper(key)
		_ = v.BindEnv(key, envPrefix+"_"+upper, upper)
	}
}

// Load reads .env when present and builds the configuration from v.
func Load(v *viper.Viper) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:             v.GetString("env"),
		Port:            v.GetString("port"),
		DatabaseDriver:  strings.ToLower(v.GetString("database_driver")),
		DatabaseURL:     v.GetString("database_url"),
		JWTSecret:       v.GetString("jwt_secret"),
		AccessTokenTTL:  v.GetDuration("access_token_ttl"),
		RefreshTokenTTL: v.GetDuration("refresh_token_ttl"),
		AllowedOrigins:  allowedOrigins(v.GetString("client_url"), v.GetString("allowed_origins")),
		LogLevel:        v.GetString("log_level"),
		BcryptCost:      v.GetInt("bcrypt_cost"),
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
		if cfg.IsDevelopment() {
			cfg.LogLevel = "debug"
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	switch c.DatabaseDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.DatabaseDriver)
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}

	if c.RefreshTokenTTL < c.AccessTokenTTL {
		return fmt.Errorf("refresh token lifetime %s is shorter than access token lifetime %s", c.RefreshTokenTTL, c.AccessTokenTTL)
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost %d out of range [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func allowedOrigins(clientURL, extra string) []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL != "" {
		origins = append(origins, clientURL)
	}

	if extra != "" {
		for _, origin := range strings.Split(extra, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
