// Package config carga la configuración del servicio: YAML + overrides por
// variables de entorno (el env siempre gana).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Storage struct {
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MaxIdleConns    int    `yaml:"max_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Auth struct {
		// SigningSecret firma los bearer tokens. Rotarlo invalida todos
		// los tokens emitidos. Obligatorio fuera de dev.
		SigningSecret string `yaml:"signing_secret"`
		AccessTTL     string `yaml:"access_ttl"`  // default "1h"
		RefreshTTL    string `yaml:"refresh_ttl"` // default "168h"
		PasswordCost  int    `yaml:"password_cost"`
	} `yaml:"auth"`

	Sessions struct {
		// Kind: "store" (Postgres) | "redis" | "memory" (sólo dev)
		Kind string `yaml:"kind"`
	} `yaml:"sessions"`

	Cache struct {
		DefaultTTL string `yaml:"default_ttl"` // fresh TTL, default "5m"
	} `yaml:"cache"`

	Redis struct {
		Addr   string `yaml:"addr"`
		DB     int    `yaml:"db"`
		Prefix string `yaml:"prefix"`
	} `yaml:"redis"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	Flags struct {
		Migrate bool `yaml:"migrate"`
	} `yaml:"flags"`
}

// Load lee el YAML (opcional: path vacío usa sólo defaults+env), aplica
// defaults sanos y después los overrides de entorno.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Auth.AccessTTL == "" {
		c.Auth.AccessTTL = "1h"
	}
	if c.Auth.RefreshTTL == "" {
		c.Auth.RefreshTTL = "168h" // 7d
	}
	if c.Auth.PasswordCost == 0 {
		c.Auth.PasswordCost = 10
	}
	if c.Sessions.Kind == "" {
		c.Sessions.Kind = "store"
	}
	if c.Cache.DefaultTTL == "" {
		c.Cache.DefaultTTL = "5m"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}

	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_OPEN_CONNS"); ok {
		c.Storage.Postgres.MaxOpenConns = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_IDLE_CONNS"); ok {
		c.Storage.Postgres.MaxIdleConns = v
	}
	if v, ok := getEnvStr("POSTGRES_CONN_MAX_LIFETIME"); ok {
		c.Storage.Postgres.ConnMaxLifetime = v
	}
	if v, ok := getEnvStr("AUTH_SIGNING_SECRET"); ok {
		c.Auth.SigningSecret = v
	}
	if v, ok := getEnvStr("AUTH_ACCESS_TTL"); ok {
		c.Auth.AccessTTL = v
	}
	if v, ok := getEnvStr("AUTH_REFRESH_TTL"); ok {
		c.Auth.RefreshTTL = v
	}
	if v, ok := getEnvInt("PASSWORD_HASH_COST"); ok {
		c.Auth.PasswordCost = v
	}
	if v, ok := getEnvStr("SESSIONS_KIND"); ok {
		c.Sessions.Kind = v
	}
	if v, ok := getEnvStr("CACHE_DEFAULT_TTL"); ok {
		c.Cache.DefaultTTL = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Redis.Prefix = v
	}
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LOGIN_LIMIT"); ok {
		c.Rate.Login.Limit = v
	}
	if v, ok := getEnvStr("RATE_LOGIN_WINDOW"); ok {
		c.Rate.Login.Window = v
	}
	if v, ok := getEnvBool("FLAGS_MIGRATE"); ok {
		c.Flags.Migrate = v
	}
}

// Validate chequea lo mínimo que no puede faltar.
func (c *Config) Validate() error {
	if strings.ToLower(c.App.Env) == "prod" && c.Auth.SigningSecret == "" {
		return fmt.Errorf("config: auth.signing_secret es obligatorio en prod (env AUTH_SIGNING_SECRET)")
	}
	if _, err := time.ParseDuration(c.Auth.AccessTTL); err != nil {
		return fmt.Errorf("config: auth.access_ttl inválido: %w", err)
	}
	if _, err := time.ParseDuration(c.Auth.RefreshTTL); err != nil {
		return fmt.Errorf("config: auth.refresh_ttl inválido: %w", err)
	}
	switch c.Sessions.Kind {
	case "store", "redis", "memory":
	default:
		return fmt.Errorf("config: sessions.kind debe ser store|redis|memory")
	}
	if c.Sessions.Kind == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("config: sessions.kind=redis requiere redis.addr")
	}
	return nil
}

// AccessTTLDuration devuelve el TTL de access token ya parseado.
func (c *Config) AccessTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.Auth.AccessTTL)
	return d
}

// RefreshTTLDuration devuelve el TTL de refresh ya parseado.
func (c *Config) RefreshTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.Auth.RefreshTTL)
	return d
}

// CacheTTLDuration devuelve el fresh TTL del cache ya parseado.
func (c *Config) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.Cache.DefaultTTL)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// LoginWindowDuration devuelve la ventana del rate limit de login.
func (c *Config) LoginWindowDuration() time.Duration {
	d, err := time.ParseDuration(c.Rate.Login.Window)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func getEnvBool(key string) (bool, bool) {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return false, false
	}
	return v == "1" || v == "true" || v == "yes", true
}

func getEnvCSV(key string) ([]string, bool) {
	v := os.Getenv(key)
	if v == "" {
		return nil, false
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out, len(out) > 0
}
