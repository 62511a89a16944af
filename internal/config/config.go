// Package config provides configuration management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/dynquery/internal/core/query/domain"
)

// AppFs is the filesystem config and .env files are read from.
var AppFs = afero.NewOsFs()

// Resolver modes for query.resolver.
//
// ResolverName skips the catalog, so no column is known to be numeric and
// SUM and AVG always take the CAST fallback. Results then come back as
// float64 on SQLite and as a decimal string on PostgreSQL and MySQL, even
// for integer columns, and the cast keeps the engine off any index on the
// column. Use it only when the catalog is unreadable.
const (
	ResolverCatalog = "catalog"
	ResolverName    = "name"
)

// Config represents application configuration.
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	Metrics  MetricsConfig
	Query    QueryConfig

	// File is the config file that was read, empty if none.
	File string
}

// DatabaseConfig represents database configuration.
type DatabaseConfig struct {
	Provider       string
	URL            string
	MaxConnections int
	MaxIdleTime    int // seconds
	ConnectTimeout int // seconds
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Debug  bool
	Format string
}

// MetricsConfig represents metrics configuration.
type MetricsConfig struct {
	Enabled   bool
	Namespace string
	Textfile  string
}

// QueryConfig represents query layer configuration.
type QueryConfig struct {
	Resolver string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.provider", "sqlite")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_time", 300)
	v.SetDefault("database.connect_timeout", 10)
	v.SetDefault("log.debug", false)
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "dynquery")
	v.SetDefault("query.resolver", ResolverCatalog)
}

// LoadConfig loads configuration from the config file, .env files and the
// environment. An explicit path must exist; otherwise .dynquery.yaml is
// searched in the working directory and the home directory.
func LoadConfig(path string) (*Config, error) {
	// .env first so its variables are visible to the env lookups below.
	if err := loadDotEnv(".env", false); err != nil {
		return nil, err
	}
	if err := loadDotEnv(".env.local", true); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(AppFs)
	setDefaults(v)

	v.SetEnvPrefix("DYNQUERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}

		v.SetConfigName(".dynquery")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "dynquery"))

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Provider:       v.GetString("database.provider"),
			URL:            v.GetString("database.url"),
			MaxConnections: v.GetInt("database.max_connections"),
			MaxIdleTime:    v.GetInt("database.max_idle_time"),
			ConnectTimeout: v.GetInt("database.connect_timeout"),
		},
		Log: LogConfig{
			Debug:  v.GetBool("log.debug"),
			Format: v.GetString("log.format"),
		},
		Metrics: MetricsConfig{
			Enabled:   v.GetBool("metrics.enabled"),
			Namespace: v.GetString("metrics.namespace"),
			Textfile:  v.GetString("metrics.textfile"),
		},
		Query: QueryConfig{
			Resolver: v.GetString("query.resolver"),
		},
		File: v.ConfigFileUsed(),
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}

// Validate checks the settings needed to open a connection.
func (c *Config) Validate() error {
	if _, err := domain.ParseDialect(c.Database.Provider); err != nil {
		return err
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database url is not set (database.url, DYNQUERY_DATABASE_URL or DATABASE_URL)")
	}
	switch c.Query.Resolver {
	case ResolverCatalog, ResolverName:
	default:
		return fmt.Errorf("unknown query.resolver %q", c.Query.Resolver)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}

// loadDotEnv reads name from AppFs and exports its variables. Existing
// variables win unless override is set. A missing file is not an error.
func loadDotEnv(name string, override bool) error {
	f, err := AppFs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	for key, value := range vars {
		if _, exists := os.LookupEnv(key); exists && !override {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}
