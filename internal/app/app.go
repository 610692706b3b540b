package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/metareg/internal/ctxlog"
	"github.com/vk/metareg/internal/language"
	"github.com/vk/metareg/internal/manifest"
	"github.com/vk/metareg/internal/protocol"
	"github.com/vk/metareg/internal/registry"
	"github.com/vk/metareg/internal/tracing"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger    *slog.Logger
	config    *Config
	version   protocol.Version
	registry  *registry.Registry
	languages []*language.Language
	tracing   *tracing.Provider
}

type options struct {
	loader       manifest.Loader
	constructors map[registry.TypeTag]registry.Constructor
}

// Option customizes NewApp.
type Option func(*options)

// WithLoader replaces the default manifest loader, which understands HCL
// and YAML.
func WithLoader(l manifest.Loader) Option {
	return func(o *options) { o.loader = l }
}

// WithConstructors supplies application node types for manifest tags.
func WithConstructors(ctors map[registry.TypeTag]registry.Constructor) Option {
	return func(o *options) { o.constructors = ctors }
}

// NewApp builds an application with its own logger and registry, loads the
// configured manifests and applies them. logW receives the log output.
func NewApp(ctx context.Context, logW io.Writer, cfg *Config, opts ...Option) (*App, error) {
	o := &options{loader: manifest.NewMultiLoader()}
	for _, opt := range opts {
		opt(o)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	v := cfg.Version()
	reg, err := registry.New(registry.WithLogger(logger), registry.WithDefaultVersion(v))
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	a := &App{
		logger:   logger,
		config:   cfg,
		version:  v,
		registry: reg,
		tracing:  provider,
	}

	if len(cfg.Manifests) > 0 {
		model, err := o.loader.Load(ctx, cfg.Manifests...)
		if err != nil {
			_ = provider.Shutdown(ctx)
			return nil, fmt.Errorf("failed to load manifests: %w", err)
		}
		a.languages, err = manifest.Apply(ctx, reg, model, o.constructors)
		if err != nil {
			_ = provider.Shutdown(ctx)
			return nil, err
		}
	}

	logger.Debug("Registry ready.",
		"protocol", v.String(),
		"languages", len(a.languages),
		"mappings", len(reg.Mappings(v)),
		"tracing", provider.Enabled(),
	)
	return a, nil
}

// Registry returns the application's registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Languages returns the languages built from the manifests.
func (a *App) Languages() []*language.Language {
	return a.languages
}

// Version returns the protocol version the app works with.
func (a *App) Version() protocol.Version {
	return a.version
}

// Mappings lists the registrations under the app's protocol version.
func (a *App) Mappings() []registry.Mapping {
	return a.registry.Mappings(a.version)
}

// Close flushes pending spans.
func (a *App) Close(ctx context.Context) error {
	return a.tracing.Shutdown(ctx)
}
