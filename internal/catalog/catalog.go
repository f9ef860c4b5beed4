// Package catalog loads the read-only content document (countries, cities,
// activities) and keeps the last good copy available to the rest of the
// service. Until a load succeeds every lookup fails with
// domain.ErrCatalogUnavailable, so callers never see a partial catalog.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/pkordes/pocket-guide/backend/internal/domain"
)

// maxDocumentSize bounds how much of a remote document is read.
const maxDocumentSize = 32 << 20

// Source fetches the raw document bytes.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// NewSource picks an HTTP source for http(s) URLs and a file source otherwise.
func NewSource(location string, client *http.Client) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if client == nil {
			client = &http.Client{Timeout: 10 * time.Second}
		}
		return httpSource{url: location, client: client}
	}
	return fileSource{path: location}
}

type fileSource struct{ path string }

func (s fileSource) Fetch(_ context.Context) ([]byte, error) {
	return os.ReadFile(s.path)
}

type httpSource struct {
	url    string
	client *http.Client
}

func (s httpSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", s.url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
}

// Decode parses a content document. The top-level "countries" key is
// required; an object without it is rejected rather than treated as empty.
func Decode(data []byte) (*domain.Catalog, error) {
	var probe struct {
		Countries *[]domain.Country `json:"countries"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&probe); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if probe.Countries == nil {
		return nil, errors.New("decode catalog: missing \"countries\"")
	}
	return &domain.Catalog{Countries: *probe.Countries}, nil
}

// Holder serves the most recently loaded document.
type Holder struct {
	source  Source
	log     *slog.Logger
	current atomic.Pointer[domain.Catalog]
}

// NewHolder constructs an empty Holder. Call Reload to populate it.
func NewHolder(source Source, log *slog.Logger) *Holder {
	if log == nil {
		log = slog.Default()
	}
	return &Holder{source: source, log: log.With("component", "catalog")}
}

// Reload fetches and decodes the document. On failure the previous document,
// if any, stays in place and the error wraps domain.ErrCatalogUnavailable.
func (h *Holder) Reload(ctx context.Context) error {
	data, err := h.source.Fetch(ctx)
	if err != nil {
		h.log.WarnContext(ctx, "catalog fetch failed", "error", err)
		return fmt.Errorf("catalog.Holder.Reload: %w: %v", domain.ErrCatalogUnavailable, err)
	}
	c, err := Decode(data)
	if err != nil {
		h.log.WarnContext(ctx, "catalog decode failed", "error", err)
		return fmt.Errorf("catalog.Holder.Reload: %w: %v", domain.ErrCatalogUnavailable, err)
	}
	h.current.Store(c)
	h.log.InfoContext(ctx, "catalog loaded", "countries", len(c.Countries), "places", len(c.PlaceNames()))
	return nil
}

// Current returns the loaded document or domain.ErrCatalogUnavailable.
// The returned value is shared and must not be modified.
func (h *Holder) Current() (*domain.Catalog, error) {
	c := h.current.Load()
	if c == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	return c, nil
}

// PlaceNames lists every city, or nothing while the catalog is unavailable.
// It lets the asset resolver expand virtual places.
func (h *Holder) PlaceNames() []string {
	c := h.current.Load()
	if c == nil {
		return nil
	}
	return c.PlaceNames()
}
