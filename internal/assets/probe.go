package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// ErrCheckerUnavailable is returned by a Checker that cannot answer at all,
// e.g. because its circuit breaker is open. Probing stops early on it.
var ErrCheckerUnavailable = errors.New("asset checker unavailable")

// errCallerGone marks a HEAD request cut short by the caller's context.
var errCallerGone = errors.New("probe abandoned by caller")

// Checker answers whether a single candidate path resolves to a resource.
// A miss is (false, nil); errors are reserved for failures to find out.
type Checker interface {
	Exists(ctx context.Context, path string) (bool, error)
}

// Prober tries candidates one at a time, in order, and stops at the first hit.
// Probing is never parallel within one list so that priority stays
// deterministic and no request is wasted after a hit.
type Prober struct {
	checker Checker
	log     *slog.Logger
}

// NewProber constructs a Prober around checker.
func NewProber(checker Checker, log *slog.Logger) *Prober {
	if log == nil {
		log = slog.Default()
	}
	return &Prober{checker: checker, log: log.With("component", "assets.prober")}
}

// Probe returns the first candidate that exists. found is false when every
// candidate misses; that is a normal outcome, not an error. The only error
// returned is the context's, when the run is cancelled part way.
func (p *Prober) Probe(ctx context.Context, candidates []string) (resolved string, found bool, err error) {
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		ok, err := p.checker.Exists(ctx, c)
		switch {
		case err == nil && ok:
			return c, true, nil
		case err == nil:
			continue
		case ctx.Err() != nil:
			return "", false, ctx.Err()
		case errors.Is(err, ErrCheckerUnavailable):
			p.log.WarnContext(ctx, "asset checker unavailable, giving up", "candidate", c)
			return "", false, nil
		default:
			p.log.DebugContext(ctx, "asset probe failed", "candidate", c, "error", err)
		}
	}
	return "", false, nil
}

// HTTPChecker probes a remote asset host with HEAD requests.
// Requests are rate limited, and a circuit breaker stops hammering a host
// that keeps failing at the transport level.
type HTTPChecker struct {
	base    string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[bool]
}

// NewHTTPChecker builds an HTTPChecker for baseURL. perSecond <= 0 disables
// rate limiting.
func NewHTTPChecker(baseURL string, timeout time.Duration, perSecond float64) (*HTTPChecker, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("assets.NewHTTPChecker: invalid base URL %q", baseURL)
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &HTTPChecker{
		base:    strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
		breaker: gobreaker.NewCircuitBreaker[bool](gobreaker.Settings{
			Name:    "asset-host",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// A request abandoned by its caller says nothing about the host.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, errCallerGone)
			},
		}),
	}, nil
}

// Exists issues HEAD base+path. 2xx is a hit, 4xx a miss; 5xx and transport
// errors count against the breaker.
func (c *HTTPChecker) Exists(ctx context.Context, path string) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}
	found, err := c.breaker.Execute(func() (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base+path, nil)
		if err != nil {
			return false, err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return false, fmt.Errorf("%w: %w", errCallerGone, ctx.Err())
			}
			return false, err
		}
		resp.Body.Close()
		if resp.StatusCode >= 500 {
			return false, fmt.Errorf("HEAD %s: status %d", path, resp.StatusCode)
		}
		return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
	})
	switch {
	case errors.Is(err, errCallerGone):
		return false, ctx.Err()
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		return false, fmt.Errorf("%w: %v", ErrCheckerUnavailable, err)
	}
	return found, err
}

// DirChecker probes a local asset directory. Candidate paths are URL paths;
// they are unescaped and resolved inside the directory root, so ".." cannot
// escape it.
type DirChecker struct {
	root *os.Root
}

// NewDirChecker opens dir as the asset root.
func NewDirChecker(dir string) (*DirChecker, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("assets.NewDirChecker: %w", err)
	}
	return &DirChecker{root: root}, nil
}

// Exists reports whether path names a regular file under the root.
func (c *DirChecker) Exists(_ context.Context, path string) (bool, error) {
	name, err := url.PathUnescape(strings.TrimPrefix(path, "/"))
	if err != nil {
		return false, nil
	}
	info, err := c.root.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// Close releases the directory handle.
func (c *DirChecker) Close() error {
	return c.root.Close()
}
