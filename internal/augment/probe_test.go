package augment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestProberOK(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("<html>traceview</html>"))
	}))
	defer srv.Close()

	p := NewProber("embed/traceview", time.Second)
	if err := p.Probe(context.Background(), srv.URL+"/"); err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if gotPath != "/embed/traceview" {
		t.Errorf("probed path = %q, want /embed/traceview", gotPath)
	}
}

func TestProberNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewProber("embed/traceview", time.Second).Probe(context.Background(), srv.URL+"/")
	if !errors.Is(err, ErrProbeUnreachable) {
		t.Fatalf("expected ErrProbeUnreachable, got %v", err)
	}
}

func TestProberNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/"
	srv.Close()

	err := NewProber("embed/traceview", time.Second).Probe(context.Background(), base)
	if !errors.Is(err, ErrProbeUnreachable) {
		t.Fatalf("expected ErrProbeUnreachable, got %v", err)
	}
}

type countingChecker struct {
	calls atomic.Int32
	err   error
}

func (c *countingChecker) Probe(ctx context.Context, baseURL string) error {
	c.calls.Add(1)
	return c.err
}

func TestCachedProber(t *testing.T) {
	next := &countingChecker{err: ErrProbeUnreachable}
	c := NewCachedProber(next, time.Minute)

	for i := 0; i < 3; i++ {
		if err := c.Probe(context.Background(), "http://localhost/"); !errors.Is(err, ErrProbeUnreachable) {
			t.Fatalf("call %d: got %v", i, err)
		}
	}
	if n := next.calls.Load(); n != 1 {
		t.Errorf("underlying probes = %d, want 1", n)
	}

	// A different base URL is probed separately.
	_ = c.Probe(context.Background(), "https://explorer.example.com/")
	if n := next.calls.Load(); n != 2 {
		t.Errorf("underlying probes = %d, want 2", n)
	}

	c.Invalidate("http://localhost/")
	_ = c.Probe(context.Background(), "http://localhost/")
	if n := next.calls.Load(); n != 3 {
		t.Errorf("underlying probes after invalidate = %d, want 3", n)
	}
}

func TestCachedProberDisabled(t *testing.T) {
	next := &countingChecker{}
	c := NewCachedProber(next, 0)
	for i := 0; i < 3; i++ {
		if err := c.Probe(context.Background(), "http://localhost/"); err != nil {
			t.Fatal(err)
		}
	}
	if n := next.calls.Load(); n != 3 {
		t.Errorf("underlying probes = %d, want 3", n)
	}
}

// blockingChecker holds every probe until release is closed or the probe's
// ctx ends.
type blockingChecker struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (c *blockingChecker) Probe(ctx context.Context, baseURL string) error {
	if c.calls.Add(1) == 1 {
		close(c.started)
	}
	select {
	case <-c.release:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrProbeUnreachable, ctx.Err())
	}
}

func TestCachedProberCancelledCallerDoesNotAffectOthers(t *testing.T) {
	next := &blockingChecker{started: make(chan struct{}), release: make(chan struct{})}
	c := NewCachedProber(next, time.Minute)
	const baseURL = "http://localhost/"

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() { firstErr <- c.Probe(firstCtx, baseURL) }()
	<-next.started

	secondErr := make(chan error, 1)
	go func() { secondErr <- c.Probe(context.Background(), baseURL) }()

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller got %v, want context.Canceled", err)
	}

	close(next.release)
	if err := <-secondErr; err != nil {
		t.Fatalf("live caller got %v, want the explorer's real outcome", err)
	}
	if n := next.calls.Load(); n != 1 {
		t.Errorf("underlying probes = %d, want 1", n)
	}
	if err := c.Probe(context.Background(), baseURL); err != nil {
		t.Errorf("cached outcome = %v, want nil", err)
	}
}
