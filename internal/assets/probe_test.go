package assets_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/pocket-guide/backend/internal/assets"
)

// fakeChecker answers from a fixed set and records every path it was asked.
type fakeChecker struct {
	existing map[string]bool
	errs     map[string]error
	calls    []string
}

func (f *fakeChecker) Exists(_ context.Context, path string) (bool, error) {
	f.calls = append(f.calls, path)
	if err := f.errs[path]; err != nil {
		return false, err
	}
	return f.existing[path], nil
}

func TestProbe_StopsAtFirstHit(t *testing.T) {
	fc := &fakeChecker{existing: map[string]bool{"/b": true, "/c": true}}
	p := assets.NewProber(fc, nil)

	got, found, err := p.Probe(context.Background(), []string{"/a", "/b", "/c"})

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/b", got)
	assert.Equal(t, []string{"/a", "/b"}, fc.calls)
}

func TestProbe_AllMissIsNotAnError(t *testing.T) {
	fc := &fakeChecker{}
	p := assets.NewProber(fc, nil)

	got, found, err := p.Probe(context.Background(), []string{"/a", "/b"})

	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, got)
	assert.Len(t, fc.calls, 2)
}

func TestProbe_CheckerErrorSkipsCandidate(t *testing.T) {
	fc := &fakeChecker{
		existing: map[string]bool{"/b": true},
		errs:     map[string]error{"/a": errors.New("connection reset")},
	}
	p := assets.NewProber(fc, nil)

	got, found, err := p.Probe(context.Background(), []string{"/a", "/b"})

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/b", got)
}

func TestProbe_UnavailableCheckerStopsEarly(t *testing.T) {
	fc := &fakeChecker{
		existing: map[string]bool{"/b": true},
		errs:     map[string]error{"/a": assets.ErrCheckerUnavailable},
	}
	p := assets.NewProber(fc, nil)

	_, found, err := p.Probe(context.Background(), []string{"/a", "/b"})

	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, []string{"/a"}, fc.calls)
}

func TestProbe_CancelledContext(t *testing.T) {
	fc := &fakeChecker{existing: map[string]bool{"/a": true}}
	p := assets.NewProber(fc, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, found, err := p.Probe(ctx, []string{"/a"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, found)
	assert.Empty(t, fc.calls)
}

func TestHTTPChecker_ProbesWithHEADInOrder(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/public/Images/ROMA_Coliseu.png" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	checker, err := assets.NewHTTPChecker(srv.URL+"/", time.Second, 0)
	require.NoError(t, err)
	p := assets.NewProber(checker, nil)

	candidates := newResolver().ImageCandidates("Roma", "Coliseu")
	got, found, err := p.Probe(context.Background(), candidates)

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/public/Images/ROMA_Coliseu.png", got)
	// jpg (canonical), jpg (fallback), png (canonical).
	assert.EqualValues(t, 3, hits.Load())
}

func TestHTTPChecker_BreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	checker, err := assets.NewHTTPChecker(srv.URL, time.Second, 0)
	require.NoError(t, err)
	p := assets.NewProber(checker, nil)

	candidates := make([]string, 10)
	for i := range candidates {
		candidates[i] = "/x" + string(rune('a'+i))
	}
	_, found, err := p.Probe(context.Background(), candidates)

	require.NoError(t, err)
	assert.False(t, found)
	assert.EqualValues(t, 5, hits.Load())
}

func TestHTTPChecker_CallerDeadlinesDoNotOpenBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(100 * time.Millisecond):
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	checker, err := assets.NewHTTPChecker(srv.URL, time.Second, 0)
	require.NoError(t, err)

	for range 6 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		_, err := checker.Exists(ctx, "/public/Images/ROMA.jpg")
		cancel()
		require.ErrorIs(t, err, context.DeadlineExceeded)
	}

	found, err := checker.Exists(context.Background(), "/public/Images/ROMA.jpg")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestNewHTTPChecker_InvalidURL(t *testing.T) {
	_, err := assets.NewHTTPChecker("not a url", time.Second, 0)

	assert.Error(t, err)
}

func TestDirChecker(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "public", "Images"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public", "Images", "ROMA_Coliseu.jpg"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Images", "SAN GIMIGNANO.png"), []byte("x"), 0o600))

	c, err := assets.NewDirChecker(dir)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	ctx := context.Background()

	ok, err := c.Exists(ctx, "/public/Images/ROMA_Coliseu.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Exists(ctx, "/Images/SAN%20GIMIGNANO.png")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Exists(ctx, "/Images/ROMA.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = c.Exists(ctx, "/Images")
	assert.False(t, ok, "directories are not assets")

	ok, _ = c.Exists(ctx, "/../../etc/passwd")
	assert.False(t, ok, "paths must stay inside the root")
}
