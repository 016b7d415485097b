package loader

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/atomic"

	"github.com/vango-dev/waypoint/pkg/pipeline"
	"github.com/vango-dev/waypoint/pkg/routefile"
	"github.com/vango-dev/waypoint/pkg/router"
)

// fakeS3 serves objects from memory.
type fakeS3 struct {
	objects map[string]string
	gate    chan struct{}
	calls   atomic.Int64

	mu   sync.Mutex
	keys []string
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls.Inc()
	f.mu.Lock()
	f.keys = append(f.keys, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	f.mu.Unlock()

	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

const docsManifest = `
routes:
  - id: intro
    path: intro
    component: Intro
  - id: guides
    path: guides
    childRoutesManifest: guides.yaml
`

const guidesManifest = `{"routes": [{"id": "setup", "path": "setup"}]}`

func newTestManifests(client *fakeS3, opts ...Option) *S3Manifests {
	reg := &routefile.Registry{Components: map[string]any{"Intro": "intro-component"}}
	return NewS3Manifests(client, "routes", reg, append([]Option{WithPrefix("prod/")}, opts...)...)
}

func TestS3ManifestsLoad(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"prod/docs.yaml": docsManifest}}
	m := newTestManifests(client)

	routes, err := m.Load(context.Background(), "docs.yaml")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(routes) != 2 || routes[0].Component != "intro-component" {
		t.Fatalf("routes = %+v", routes)
	}
	if routes[1].GetChildRoutes == nil {
		t.Error("nested manifest not wired to a loader")
	}

	if _, err := m.Load(context.Background(), "docs.yaml"); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if n := client.calls.Load(); n != 1 {
		t.Errorf("GetObject called %d times, want 1", n)
	}
	if client.keys[0] != "routes/prod/docs.yaml" {
		t.Errorf("fetched %q", client.keys[0])
	}

	m.Invalidate("docs.yaml")
	if _, err := m.Load(context.Background(), "docs.yaml"); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if n := client.calls.Load(); n != 2 {
		t.Errorf("GetObject called %d times after invalidation, want 2", n)
	}
}

func TestS3ManifestsSharesInFlightFetch(t *testing.T) {
	client := &fakeS3{
		objects: map[string]string{"prod/docs.yaml": docsManifest},
		gate:    make(chan struct{}),
	}
	m := newTestManifests(client)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Load(context.Background(), "docs.yaml")
			errs <- err
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(client.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Load() error: %v", err)
		}
	}
	if n := client.calls.Load(); n != 1 {
		t.Errorf("GetObject called %d times, want 1", n)
	}
}

func TestS3ManifestsErrors(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"prod/bad.yaml": "routes:\n  - component: Missing\n",
	}}
	m := newTestManifests(client)

	if _, err := m.Load(context.Background(), "missing.yaml"); !errors.Is(err, ErrManifest) {
		t.Errorf("missing object: error = %v, want ErrManifest", err)
	}
	_, err := m.Load(context.Background(), "bad.yaml")
	if !errors.Is(err, ErrManifest) || !errors.Is(err, routefile.ErrUnknownComponent) {
		t.Errorf("bad manifest: error = %v, want ErrManifest wrapping ErrUnknownComponent", err)
	}
}

func TestS3ManifestsCallerCancel(t *testing.T) {
	client := &fakeS3{
		objects: map[string]string{"prod/docs.yaml": docsManifest},
		gate:    make(chan struct{}),
	}
	m := newTestManifests(client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Load(ctx, "docs.yaml"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}

	// The shared fetch keeps going for other callers.
	close(client.gate)
	if _, err := m.Load(context.Background(), "docs.yaml"); err != nil {
		t.Errorf("Load() error: %v", err)
	}
}

func TestS3ManifestsTimeout(t *testing.T) {
	client := &fakeS3{
		objects: map[string]string{"prod/docs.yaml": docsManifest},
		gate:    make(chan struct{}),
	}
	m := newTestManifests(client, WithTimeout(10*time.Millisecond))

	_, err := m.Load(context.Background(), "docs.yaml")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}
}

func TestS3ManifestsPrefetch(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"prod/docs.yaml":   docsManifest,
		"prod/guides.yaml": guidesManifest,
	}}
	m := newTestManifests(client)

	if err := m.Prefetch(context.Background(), "docs.yaml", "guides.yaml"); err != nil {
		t.Fatalf("Prefetch() error: %v", err)
	}
	if err := m.Prefetch(context.Background(), "docs.yaml", "nope.yaml"); !errors.Is(err, ErrManifest) {
		t.Errorf("error = %v, want ErrManifest", err)
	}
}

func TestS3ManifestsNavigation(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"prod/docs.yaml":   docsManifest,
		"prod/guides.yaml": guidesManifest,
	}}
	m := newTestManifests(client)

	tree := &router.Route{ID: "root", Path: "/docs", GetChildRoutes: m.GetChildRoutes("docs.yaml")}
	r := pipeline.New(router.Routes(tree))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	s, err := r.Resolve(ctx, "/docs/guides/setup")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	var ids []any
	for _, route := range s.Routes {
		ids = append(ids, route.ID)
	}
	if len(ids) != 3 || ids[0] != "root" || ids[1] != "guides" || ids[2] != "setup" {
		t.Errorf("routes = %v, want [root guides setup]", ids)
	}
}
