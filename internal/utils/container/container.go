// Package container provides dependency injection.
package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/satishbabariya/dynquery/internal/adapters/database"
	"github.com/satishbabariya/dynquery/internal/adapters/database/factory"
	"github.com/satishbabariya/dynquery/internal/adapters/telemetry"
	"github.com/satishbabariya/dynquery/internal/config"
	"github.com/satishbabariya/dynquery/internal/debug"
	"github.com/satishbabariya/dynquery/pkg/client"
)

// Container holds all application dependencies.
type Container struct {
	// Configuration
	config *config.Config

	// Adapters
	dbAdapter database.Adapter
	recorder  telemetry.Recorder

	client *client.Client
}

// NewContainer validates cfg, connects to the database and builds the client.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	debug.Init(cfg.Log.Debug, cfg.Log.Format)
	if cfg.File != "" {
		debug.Debug("loaded config", "file", cfg.File)
	}

	c := &Container{
		config: cfg,
	}

	var err error
	c.dbAdapter, err = factory.NewAdapter(database.Config{
		Provider:       cfg.Database.Provider,
		URL:            cfg.Database.URL,
		MaxConnections: cfg.Database.MaxConnections,
		MaxIdleTime:    cfg.Database.MaxIdleTime,
		ConnectTimeout: cfg.Database.ConnectTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create database adapter: %w", err)
	}

	c.recorder, err = telemetry.NewRecorder(telemetry.Config{
		Enabled:   cfg.Metrics.Enabled,
		Namespace: cfg.Metrics.Namespace,
		Textfile:  cfg.Metrics.Textfile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics recorder: %w", err)
	}

	if err := c.dbAdapter.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	opts := []client.Option{
		client.WithLogger(debug.Logger()),
		client.WithRecorder(c.recorder),
	}
	if cfg.Query.Resolver == config.ResolverName {
		opts = append(opts, client.WithResolver(client.NewNameResolver()))
	}
	c.client = client.NewClient(c.dbAdapter, opts...)

	return c, nil
}

// Config returns the configuration the container was built from.
func (c *Container) Config() *config.Config {
	return c.config
}

// Client returns the query client.
func (c *Container) Client() *client.Client {
	return c.client
}

// Store returns the typed query API.
func (c *Container) Store() *client.Store {
	return c.client.Store()
}

// Close flushes metrics and disconnects.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.recorder != nil {
		if err := c.recorder.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush metrics: %w", err))
		}
	}
	if c.dbAdapter != nil {
		if err := c.dbAdapter.Disconnect(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
