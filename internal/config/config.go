// Package config loads service configuration from the environment, an
// optional config file and command-line flags, in increasing precedence.
//
// Environment variable names are the upper-cased keys below, e.g.
// ORDERS_TABLE or ADMIN_PASSWORD.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys understood by Load.
const (
	KeyConfigFile       = "config"
	KeyRegion           = "aws_region"
	KeyEndpointOverride = "aws_endpoint_override"
	KeyOrdersTable      = "orders_table"
	KeyHistoryTable     = "history_table"
	KeyHistoryTTL       = "history_ttl"
	KeyQueueURL         = "orders_queue_url"
	KeyAdminPassword    = "admin_password"
	KeyJWTSecret        = "jwt_secret"
	KeySessionTTL       = "session_ttl"
	KeyTallyMode        = "tally_mode"
	KeyRedisAddr        = "redis_addr"
	KeyCatalogBaseURL   = "catalog_base_url"
	KeyMetricsNamespace = "metrics_namespace"
	KeyListenAddr       = "listen_addr"
	KeyRunLocal         = "run_local"
	KeyLogLevel         = "log_level"
)

// Tally modes.
const (
	TallyExact  = "exact"
	TallyLegacy = "legacy"
)

// Config is the service configuration.
type Config struct {
	Region           string
	EndpointOverride string

	OrdersTable  string
	HistoryTable string
	HistoryTTL   time.Duration
	QueueURL     string

	AdminPassword string
	JWTSecret     string
	SessionTTL    time.Duration
	TallyMode     string

	RedisAddr        string
	CatalogBaseURL   string
	MetricsNamespace string

	ListenAddr string
	RunLocal   bool
	LogLevel   string
}

// Flags returns the flag set understood by Load.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "path to a config file (yaml, json or toml)")
	fs.String("listen-addr", "", "address for the local HTTP server")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.Bool("run-local", false, "serve HTTP directly instead of running as a Lambda")
	return fs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyRegion, "us-east-1")
	v.SetDefault(KeyOrdersTable, "orders")
	v.SetDefault(KeyHistoryTable, "order_status_history")
	v.SetDefault(KeyHistoryTTL, 90*24*time.Hour)
	v.SetDefault(KeySessionTTL, 12*time.Hour)
	v.SetDefault(KeyTallyMode, TallyExact)
	v.SetDefault(KeyCatalogBaseURL, "https://dummyjson.com")
	v.SetDefault(KeyMetricsNamespace, "Storefront/Admin")
	v.SetDefault(KeyListenAddr, ":8080")
	v.SetDefault(KeyLogLevel, "info")
}

// Load reads and validates the API configuration. flags may be nil; when
// given it must already be parsed.
func Load(flags *pflag.FlagSet) (*Config, error) {
	cfg, err := read(flags)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWorker reads the configuration for the history worker, which does not
// need the admin secrets.
func LoadWorker(flags *pflag.FlagSet) (*Config, error) {
	cfg, err := read(flags)
	if err != nil {
		return nil, err
	}
	if cfg.HistoryTable == "" {
		return nil, errors.New("invalid config: history_table is required")
	}
	return cfg, nil
}

func read(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range map[string]string{
			KeyConfigFile: "config",
			KeyListenAddr: "listen-addr",
			KeyLogLevel:   "log-level",
			KeyRunLocal:   "run-local",
		} {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Region:           v.GetString(KeyRegion),
		EndpointOverride: v.GetString(KeyEndpointOverride),
		OrdersTable:      v.GetString(KeyOrdersTable),
		HistoryTable:     v.GetString(KeyHistoryTable),
		HistoryTTL:       v.GetDuration(KeyHistoryTTL),
		QueueURL:         v.GetString(KeyQueueURL),
		AdminPassword:    v.GetString(KeyAdminPassword),
		JWTSecret:        v.GetString(KeyJWTSecret),
		SessionTTL:       v.GetDuration(KeySessionTTL),
		TallyMode:        strings.ToLower(v.GetString(KeyTallyMode)),
		RedisAddr:        v.GetString(KeyRedisAddr),
		CatalogBaseURL:   strings.TrimRight(v.GetString(KeyCatalogBaseURL), "/"),
		MetricsNamespace: v.GetString(KeyMetricsNamespace),
		ListenAddr:       v.GetString(KeyListenAddr),
		RunLocal:         v.GetBool(KeyRunLocal),
		LogLevel:         v.GetString(KeyLogLevel),
	}
	return cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	var errs []error
	if c.OrdersTable == "" {
		errs = append(errs, errors.New("orders_table is required"))
	}
	if c.AdminPassword == "" {
		errs = append(errs, errors.New("admin_password is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session_ttl must be positive"))
	}
	if c.TallyMode != TallyExact && c.TallyMode != TallyLegacy {
		errs = append(errs, fmt.Errorf("tally_mode must be %q or %q, got %q", TallyExact, TallyLegacy, c.TallyMode))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
