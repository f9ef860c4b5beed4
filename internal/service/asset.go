package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/pkordes/pocket-guide/backend/internal/assets"
	"github.com/pkordes/pocket-guide/backend/internal/domain"
)

// AssetProber finds the first candidate path that exists.
// *assets.Prober satisfies it.
type AssetProber interface {
	Probe(ctx context.Context, candidates []string) (string, bool, error)
}

// AssetRequest asks for the asset of one entity.
type AssetRequest struct {
	Kind  assets.Kind
	Place string
	Name  string

	// Probe asks the service to check candidates against the asset host
	// instead of only listing them.
	Probe bool

	// Session identifies the client view issuing the request. A new probing
	// request with the same Session and Kind supersedes the previous one.
	Session string
}

// AssetResult is the outcome of a resolution. Available is false when
// nothing was probed or no candidate exists; neither case is an error.
type AssetResult struct {
	Kind       assets.Kind `json:"kind"`
	Place      string      `json:"place"`
	Name       string      `json:"name,omitempty"`
	Candidates []string    `json:"candidates"`
	Probed     bool        `json:"probed"`
	Available  bool        `json:"available"`
	URL        string      `json:"url,omitempty"`
}

// AssetService turns (kind, place, name) into candidate URLs and, when a
// prober is configured, the first one that exists.
type AssetService struct {
	resolver *assets.Resolver
	prober   AssetProber
	guard    *assets.Guard
	catalog  CatalogReader
	log      *slog.Logger
}

// NewAssetService constructs an AssetService. prober may be nil when no
// asset host is configured; catalog may be nil.
func NewAssetService(resolver *assets.Resolver, prober AssetProber, guard *assets.Guard, catalog CatalogReader, log *slog.Logger) *AssetService {
	if guard == nil {
		guard = assets.NewGuard()
	}
	if log == nil {
		log = slog.Default()
	}
	return &AssetService{
		resolver: resolver,
		prober:   prober,
		guard:    guard,
		catalog:  catalog,
		log:      log.With("component", "asset-service"),
	}
}

// Resolve lists the candidates for req and, if requested, probes them.
// It returns domain.ErrSuperseded when a newer request from the same session
// took over while this one was probing.
func (s *AssetService) Resolve(ctx context.Context, req AssetRequest) (AssetResult, error) {
	req.Place = strings.TrimSpace(req.Place)
	req.Name = strings.TrimSpace(req.Name)

	res := AssetResult{Kind: req.Kind, Place: req.Place, Name: req.Name}
	res.Candidates = s.candidates(req)
	if res.Candidates == nil {
		res.Candidates = []string{}
	}
	if !req.Probe || s.prober == nil || len(res.Candidates) == 0 {
		return res, nil
	}

	url, found, err := s.probe(ctx, req, res.Candidates)
	if err != nil {
		return AssetResult{}, fmt.Errorf("service.AssetService.Resolve: %w", err)
	}
	res.Probed = true
	res.Available = found
	res.URL = url
	s.log.DebugContext(ctx, "asset resolved",
		"kind", req.Kind, "place", req.Place, "name", req.Name,
		"available", found, "candidates", len(res.Candidates))
	return res, nil
}

// candidates puts the catalog's explicit narration path, when there is one,
// ahead of the generated audio candidates.
func (s *AssetService) candidates(req AssetRequest) []string {
	out := s.resolver.Candidates(req.Kind, req.Place, req.Name)
	if req.Kind != assets.KindAudio || s.catalog == nil || req.Name == "" {
		return out
	}
	c, err := s.catalog.Current()
	if err != nil {
		return out
	}
	// Virtual places such as "Favoritos" own no activities, so a miss by
	// place falls back to the activity name alone.
	entry, err := c.FindActivity(req.Place, req.Name)
	if err != nil {
		var ok bool
		if entry, ok = c.FindByName(req.Name); !ok {
			return out
		}
	}
	if entry.NarrationAudio == "" {
		return out
	}
	explicit := entry.NarrationAudio
	return append([]string{explicit}, slices.DeleteFunc(out, func(p string) bool { return p == explicit })...)
}

func (s *AssetService) probe(ctx context.Context, req AssetRequest, candidates []string) (string, bool, error) {
	if req.Session == "" {
		return s.prober.Probe(ctx, candidates)
	}

	slot := req.Session + "|" + string(req.Kind)
	if prev, ok := s.guard.Active(slot); ok {
		s.log.DebugContext(ctx, "superseding asset probe", "slot", slot, "previous", prev)
	}
	runCtx, ticket := s.guard.Begin(ctx, slot, req.Place+"|"+req.Name)
	url, found, err := s.prober.Probe(runCtx, candidates)
	current := s.guard.Commit(ticket)

	switch {
	case ctx.Err() != nil:
		return "", false, ctx.Err()
	case !current:
		return "", false, domain.ErrSuperseded
	case errors.Is(err, context.Canceled):
		return "", false, domain.ErrSuperseded
	case err != nil:
		return "", false, err
	}
	return url, found, nil
}
