package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/waypoint/internal/config"
	"github.com/vango-dev/waypoint/internal/errors"
	"github.com/vango-dev/waypoint/pkg/loader"
	"github.com/vango-dev/waypoint/pkg/middleware"
	"github.com/vango-dev/waypoint/pkg/pipeline"
	"github.com/vango-dev/waypoint/pkg/routefile"
	"github.com/vango-dev/waypoint/pkg/router"
)

// app is the state shared by the commands that work on a route tree.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	routes []*router.Route

	// metrics is nil unless enabled in waypoint.json.
	metrics  *middleware.Metrics
	registry *prometheus.Registry
}

// loadApp reads the configuration and the route file. The component and
// hook names in the file need no registration: components resolve to their
// own names and hooks to pass-through middlewares that log when they run.
func loadApp(ctx context.Context, opts *globalOptions, stderr io.Writer) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.routesPath != "" {
		cfg.Routes = opts.routesPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := cfg.LogLevel()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	reg := &routefile.Registry{
		ComponentFunc: func(name string) (any, bool) { return name, true },
		HookFunc: func(name string) (router.Middleware, bool) {
			return tracedHook(logger, name), true
		},
	}

	if cfg.HasManifests() {
		client, err := newS3Client(ctx, cfg.Manifests)
		if err != nil {
			return nil, errors.New("W104").Wrap(err)
		}
		reg.ChildLoader = loader.NewS3Manifests(client, cfg.Manifests.Bucket, reg,
			loader.WithPrefix(cfg.Manifests.Prefix),
			loader.WithTimeout(cfg.ManifestTimeout()),
			loader.WithLogger(logger),
		)
	}

	path := cfg.RoutesPath()
	routes, err := routefile.Load(path, reg)
	if err != nil {
		return nil, errors.FromRouteFile(path, err)
	}
	logger.Debug("routes loaded", "file", path, "routes", len(routes))

	a := &app{
		cfg:    cfg,
		logger: logger,
		routes: routes,
	}
	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.metrics = middleware.NewMetrics(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(a.registry),
		)
	}
	return a, nil
}

func loadConfig(opts *globalOptions) (*config.Config, error) {
	if opts.configPath != "" {
		return config.LoadFile(opts.configPath)
	}
	return config.Find(".")
}

// router builds the navigation pipeline. extra wraps the route tree and
// runs inside the logging and metrics observers.
func (a *app) router(extra ...func(...pipeline.Middleware) pipeline.Middleware) *pipeline.Router {
	mw := router.Routes(a.routes...)
	for _, wrap := range extra {
		mw = wrap(mw)
	}
	if a.metrics != nil {
		mw = a.metrics.Wrap(mw)
	}
	mw = middleware.Logging(a.logger, mw)

	return pipeline.New(pipeline.Canonicalize, mw).WithLogger(a.logger)
}

// tracedHook stands in for a named hook.
func tracedHook(logger *slog.Logger, name string) router.Middleware {
	return func(next router.Sink) router.Sink {
		return pipeline.SinkFunc(func(err error, s router.State) {
			logger.Debug("hook", "name", name, "path", s.Path)
			next.Resolve(err, s)
		})
	}
}

// newS3Client builds a client from the default AWS credential chain.
// A custom endpoint switches to path-style addressing for S3-compatible
// stores.
func newS3Client(ctx context.Context, mc config.ManifestConfig) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(mc.Region))
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if mc.Endpoint != "" {
			o.BaseEndpoint = aws.String(mc.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
