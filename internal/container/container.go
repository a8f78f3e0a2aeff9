package container

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"civia/adapters/backend"
	"civia/internal"
	"civia/internal/config"
	"civia/internal/fixture"
	"civia/ui"
)

// Container holds the application dependencies built from configuration
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Backend is the single analytics client shared by every page
	Backend *backend.Client
}

// New creates a container for cfg
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}

	client := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithKpisPath(cfg.Backend.KpisPath),
	)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Backend: client,
	}, nil
}

// UIServer builds the dashboard server
func (c *Container) UIServer() (*ui.Server, error) {
	gin.SetMode(c.Config.Server.GinMode)

	server, err := ui.NewServer(c.Backend, ui.Options{
		PollInterval: c.Config.Pages.PollInterval,
		IdleTTL:      c.Config.Pages.IdleTTL,
	}, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize UI server: %w", err)
	}
	return server, nil
}

// FixtureServer builds the development analytics backend
func (c *Container) FixtureServer() (*fixture.Server, error) {
	opts := fixture.Options{
		KpisPath:  c.Config.Backend.KpisPath,
		ChartsDir: c.Config.Fixture.ChartsDir,
		Logger:    c.Logger,
	}
	if path := c.Config.Fixture.MetricsFile; path != "" {
		metrics, err := fixture.LoadMetricsFile(path)
		if err != nil {
			return nil, err
		}
		opts.Metrics = metrics
		c.Logger.Info("serving metrics from %s", path)
	}
	return fixture.New(opts), nil
}

// UIAddr is the listen address of the dashboard
func (c *Container) UIAddr() string {
	return ":" + c.Config.Server.Port
}

// FixtureAddr is the listen address of the fixture backend
func (c *Container) FixtureAddr() string {
	return ":" + c.Config.Fixture.Port
}
