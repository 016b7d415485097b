package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/vango-dev/waypoint/pkg/pipeline"
	"github.com/vango-dev/waypoint/pkg/routefile"
	"github.com/vango-dev/waypoint/pkg/router"
)

// DefaultTimeout bounds a single manifest fetch.
const DefaultTimeout = 10 * time.Second

// ErrManifest wraps every failure to fetch or decode a manifest.
var ErrManifest = errors.New("loading route manifest failed")

// GetObjectAPI is the part of *s3.Client used to fetch manifests.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Manifests loads child routes from route files stored in an S3 bucket.
//
// Manifests are fetched on first use and cached. Concurrent requests for the
// same key share one fetch. A manifest may itself name further manifests;
// they are resolved through the same S3Manifests unless the registry
// supplies another ChildLoader.
type S3Manifests struct {
	client   GetObjectAPI
	bucket   string
	prefix   string
	timeout  time.Duration
	logger   *slog.Logger
	registry routefile.Registry

	group singleflight.Group

	mu    sync.RWMutex
	cache map[string][]*router.Route
}

// Option configures S3Manifests.
type Option func(*S3Manifests)

// WithPrefix sets the key prefix prepended to every manifest key.
func WithPrefix(prefix string) Option {
	return func(m *S3Manifests) {
		m.prefix = prefix
	}
}

// WithTimeout bounds each fetch. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(m *S3Manifests) {
		m.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *S3Manifests) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewS3Manifests creates a manifest loader reading from bucket. Names in the
// manifests are resolved through reg.
func NewS3Manifests(client GetObjectAPI, bucket string, reg *routefile.Registry, opts ...Option) *S3Manifests {
	m := &S3Manifests{
		client:  client,
		bucket:  bucket,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		cache:   make(map[string][]*router.Route),
	}
	if reg != nil {
		m.registry = *reg
	}
	if m.registry.ChildLoader == nil {
		m.registry.ChildLoader = m
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetChildRoutes returns a route loader for the manifest stored under key.
// The loader fetches in the background and calls back from another
// goroutine, using the navigation state's context.
func (m *S3Manifests) GetChildRoutes(key string) func(s pipeline.State, cb func(err error, routes []*router.Route)) {
	return func(s pipeline.State, cb func(err error, routes []*router.Route)) {
		ctx := s.Context()
		go func() {
			routes, err := m.Load(ctx, key)
			cb(err, routes)
		}()
	}
}

// Load returns the routes of the manifest stored under key.
func (m *S3Manifests) Load(ctx context.Context, key string) ([]*router.Route, error) {
	if routes, ok := m.cached(key); ok {
		return routes, nil
	}

	ch := m.group.DoChan(key, func() (any, error) {
		if routes, ok := m.cached(key); ok {
			return routes, nil
		}

		// The fetch is shared, so one caller giving up must not fail the rest.
		fetchCtx := context.WithoutCancel(ctx)
		if m.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, m.timeout)
			defer cancel()
		}

		routes, err := m.fetch(fetchCtx, key)
		if err != nil {
			m.logger.Warn("manifest fetch failed",
				"bucket", m.bucket,
				"key", m.prefix+key,
				"error", err,
			)
			return nil, err
		}

		m.mu.Lock()
		m.cache[key] = routes
		m.mu.Unlock()
		return routes, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*router.Route), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w %q: %w", ErrManifest, key, ctx.Err())
	}
}

// Prefetch loads several manifests concurrently and returns the first error.
func (m *S3Manifests) Prefetch(ctx context.Context, keys ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		g.Go(func() error {
			_, err := m.Load(ctx, key)
			return err
		})
	}
	return g.Wait()
}

// Invalidate drops cached manifests. With no keys the whole cache is dropped.
func (m *S3Manifests) Invalidate(keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(keys) == 0 {
		clear(m.cache)
		return
	}
	for _, key := range keys {
		delete(m.cache, key)
	}
}

func (m *S3Manifests) cached(key string) ([]*router.Route, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	routes, ok := m.cache[key]
	return routes, ok
}

func (m *S3Manifests) fetch(ctx context.Context, key string) ([]*router.Route, error) {
	start := time.Now()
	objectKey := m.prefix + key

	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrManifest, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrManifest, key, err)
	}

	routes, err := routefile.Decode(data, routefile.FormatFor(key), &m.registry)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrManifest, key, err)
	}

	m.logger.Debug("manifest fetched",
		"bucket", m.bucket,
		"key", objectKey,
		"bytes", len(data),
		"routes", len(routes),
		"duration", time.Since(start),
	)
	return routes, nil
}
