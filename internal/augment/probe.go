package augment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// ErrProbeUnreachable is returned when the explorer cannot be reached or
// answers with a non-ok status.
var ErrProbeUnreachable = errors.New("explorer unreachable")

// Checker decides whether the explorer at baseURL is usable.
type Checker interface {
	Probe(ctx context.Context, baseURL string) error
}

// Prober checks reachability with a single GET against a fixed path.
type Prober struct {
	Client *http.Client
	Path   string
}

// NewProber returns a Prober requesting path with the given timeout.
func NewProber(path string, timeout time.Duration) *Prober {
	return &Prober{
		Client: &http.Client{Timeout: timeout},
		Path:   path,
	}
}

// Probe issues GET {baseURL}{Path}. The body is discarded; any 2xx or 3xx
// status counts as reachable.
func (p *Prober) Probe(ctx context.Context, baseURL string) error {
	target := baseURL + p.Path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: building request for %s: %w", ErrProbeUnreachable, target, err)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrProbeUnreachable, target, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return fmt.Errorf("%w: GET %s returned %s", ErrProbeUnreachable, target, resp.Status)
	}
	return nil
}

// probeResult wraps a probe outcome so a nil error can be cached.
type probeResult struct {
	err error
}

// CachedProber remembers probe outcomes per base URL for a TTL and collapses
// concurrent probes of the same URL into one request.
type CachedProber struct {
	next  Checker
	ttl   time.Duration
	cache *cache.Cache
	group singleflight.Group
}

// NewCachedProber wraps next. A non-positive ttl disables caching.
func NewCachedProber(next Checker, ttl time.Duration) *CachedProber {
	c := &CachedProber{next: next, ttl: ttl}
	if ttl > 0 {
		c.cache = cache.New(ttl, 2*ttl)
	}
	return c
}

// Probe returns the cached outcome for baseURL or probes it.
func (c *CachedProber) Probe(ctx context.Context, baseURL string) error {
	if c.cache == nil {
		return c.next.Probe(ctx, baseURL)
	}
	if v, ok := c.cache.Get(baseURL); ok {
		return v.(probeResult).err
	}

	// The shared probe outlives any one caller; each caller stops waiting
	// when its own ctx ends.
	ch := c.group.DoChan(baseURL, func() (interface{}, error) {
		err := c.next.Probe(context.WithoutCancel(ctx), baseURL)
		c.cache.Set(baseURL, probeResult{err: err}, cache.DefaultExpiration)
		return probeResult{err: err}, nil
	})
	select {
	case res := <-ch:
		return res.Val.(probeResult).err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Invalidate drops any cached outcome for baseURL.
func (c *CachedProber) Invalidate(baseURL string) {
	if c.cache != nil {
		c.cache.Delete(baseURL)
	}
}
