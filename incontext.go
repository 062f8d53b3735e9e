// Package incontext provides a high-level façade over the storage, access
// control, cascade deletion and conversation orchestration layers. Most
// applications interact with this package by:
//  1. Creating an App via New() with a Config (or the defaults)
//  2. Reaching domain operations through Store(), Access(), Cascade() and Runner()
//  3. Closing the App when done
//
// The façade wires every component once at startup: it opens the database,
// builds the ownership resolver on top of it, registers the three vendor
// adapters against a shared credential provider, and hands the assembled
// registry to the runner. All defaults are safe for local development; tests
// typically pass ":memory:" as the database path and a mock adapter registry.
package incontext

import (
	"github.com/joshkgarber/incontext/access"
	"github.com/joshkgarber/incontext/cascade"
	"github.com/joshkgarber/incontext/config"
	"github.com/joshkgarber/incontext/credentials"
	"github.com/joshkgarber/incontext/logging"
	"github.com/joshkgarber/incontext/model"
	"github.com/joshkgarber/incontext/model/anthropic"
	"github.com/joshkgarber/incontext/model/google"
	"github.com/joshkgarber/incontext/model/openai"
	"github.com/joshkgarber/incontext/runner"
	"github.com/joshkgarber/incontext/store"
	"github.com/joshkgarber/incontext/transcript"
)

// Options configures the App instance.
type Options struct {
	// Logger (defaults to a slog logger built from the config if nil).
	Logger logging.Logger

	// Credentials overrides the secret provider used by the vendor
	// adapters. Defaults to the environment-then-directory chain.
	Credentials credentials.Provider

	// Registry overrides the vendor adapter registry. When set, the
	// built-in adapters are not registered; tests use this to install
	// mock adapters.
	Registry *model.Registry
}

// App is the high-level façade aggregating the underlying components.
type App struct {
	opts     Options
	store    *store.Store
	access   *access.Resolver
	cascade  *cascade.Engine
	builder  *transcript.Builder
	registry *model.Registry
	runner   *runner.Runner
}

// New creates a new App instance from the given configuration with optional
// overrides. Any unset service is initialized with its default implementation.
func New(cfg config.Config, optFns ...func(o *Options)) (*App, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewSlogLogger(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format, nil)
	}
	if opts.Credentials == nil {
		opts.Credentials = credentials.New(func(o *credentials.Options) {
			if cfg.Credentials.Dir != "" {
				o.Dir = cfg.Credentials.Dir
			}
		})
	}

	s, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	registry := opts.Registry
	if registry == nil {
		registry = model.NewRegistry()
		registry.Register(openai.New(opts.Credentials))
		registry.Register(anthropic.New(opts.Credentials))
		registry.Register(google.New(opts.Credentials))
	}

	resolver := access.New(s, func(o *access.Options) { o.Logger = opts.Logger })
	engine := cascade.New(s, resolver, func(o *cascade.Options) { o.Logger = opts.Logger })
	builder := transcript.New(s)
	run := runner.New(s, resolver, builder, registry, func(o *runner.Options) { o.Logger = opts.Logger })

	return &App{
		opts:     opts,
		store:    s,
		access:   resolver,
		cascade:  engine,
		builder:  builder,
		registry: registry,
		runner:   run,
	}, nil
}

// Store returns the persistence layer.
func (a *App) Store() *store.Store { return a.store }

// Access returns the ownership resolver.
func (a *App) Access() *access.Resolver { return a.access }

// Cascade returns the deletion engine.
func (a *App) Cascade() *cascade.Engine { return a.cascade }

// Transcript returns the conversation state builder.
func (a *App) Transcript() *transcript.Builder { return a.builder }

// Registry returns the vendor adapter registry.
func (a *App) Registry() *model.Registry { return a.registry }

// Runner returns the conversation orchestrator.
func (a *App) Runner() *runner.Runner { return a.runner }

// Close releases the underlying database handle.
func (a *App) Close() error { return a.store.Close() }
