package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Log      LogConfig      `toml:"log"`
}

type ServerConfig struct {
	Port         string `toml:"port"`
	Mode         string `toml:"mode"` // gin mode: debug, release, test
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
	IdleTimeout  string `toml:"idle_timeout"`
}

// DatabaseConfig 数据库配置，Driver 为 "postgres" 或 "sqlite"
type DatabaseConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	TokenTTL     string `toml:"token_ttl"`
	Issuer       string `toml:"issuer"`
	CookieSecure bool   `toml:"cookie_secure"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

const defaultSecret = "secret_key_change_me"

// Default 返回本地开发用的默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			Mode:         "debug",
			ReadTimeout:  "15s",
			WriteTimeout: "30s",
			IdleTimeout:  "120s",
		},
		Database: DatabaseConfig{
			Driver: "postgres",
			DSN:    "host=localhost user=postgres password=postgres dbname=qaboard port=5432 sslmode=disable",
		},
		Auth: AuthConfig{
			JWTSecret: defaultSecret,
			TokenTTL:  "24h",
			Issuer:    "qaboard",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Read decodes a TOML document on top of the defaults.
func Read(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Load 按顺序加载配置：默认值 -> TOML 文件(可选) -> .env -> 环境变量
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		cfg, err = Read(f)
		if err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	}

	// .env 不存在时直接使用系统环境变量
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.Mode, "GIN_MODE")
	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Database.DSN, "DATABASE_URL")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Auth.TokenTTL, "TOKEN_TTL")
	setString(&c.Log.Level, "LOG_LEVEL")

	if err := setBool(&c.Auth.CookieSecure, "COOKIE_SECURE"); err != nil {
		return err
	}
	return setBool(&c.Log.Pretty, "LOG_PRETTY")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

// Validate checks required values and duration formats.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if ttl, err := time.ParseDuration(c.Auth.TokenTTL); err != nil || ttl <= 0 {
		errs = append(errs, fmt.Errorf("invalid auth.token_ttl %q", c.Auth.TokenTTL))
	}
	for name, v := range map[string]string{
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
		"server.idle_timeout":  c.Server.IdleTimeout,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q", name, v))
		}
	}
	return errors.Join(errs...)
}

// UsesDefaultSecret reports whether the JWT secret was never changed.
func (c *Config) UsesDefaultSecret() bool {
	return c.Auth.JWTSecret == defaultSecret
}

// TTL 解析后的 token 有效期，调用前应已通过 Validate
func (a AuthConfig) TTL() time.Duration {
	d, _ := time.ParseDuration(a.TokenTTL)
	return d
}

func (s ServerConfig) Timeouts() (read, write, idle time.Duration) {
	read, _ = time.ParseDuration(s.ReadTimeout)
	write, _ = time.ParseDuration(s.WriteTimeout)
	idle, _ = time.ParseDuration(s.IdleTimeout)
	return read, write, idle
}
