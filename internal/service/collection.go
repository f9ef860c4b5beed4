package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/pocket-guide/backend/internal/domain"
	"github.com/pkordes/pocket-guide/backend/internal/repo"
)

// CollectionKind names one of the two activity sets.
type CollectionKind string

const (
	Favorites CollectionKind = "favorites"
	Visited   CollectionKind = "visited"
)

// ParseCollectionKind validates a kind string.
func ParseCollectionKind(s string) (CollectionKind, error) {
	switch k := CollectionKind(strings.ToLower(strings.TrimSpace(s))); k {
	case Favorites, Visited:
		return k, nil
	default:
		return "", fmt.Errorf("%w: collection must be \"favorites\" or \"visited\"", domain.ErrValidation)
	}
}

// CatalogReader exposes the currently loaded content document.
// *catalog.Holder satisfies it.
type CatalogReader interface {
	Current() (*domain.Catalog, error)
}

// CollectionService manages the favorites and visited sets.
type CollectionService struct {
	sets    map[CollectionKind]repo.SetRepo
	catalog CatalogReader
}

// NewCollectionService constructs a CollectionService.
func NewCollectionService(favorites, visited repo.SetRepo, catalog CatalogReader) *CollectionService {
	return &CollectionService{
		sets:    map[CollectionKind]repo.SetRepo{Favorites: favorites, Visited: visited},
		catalog: catalog,
	}
}

func (s *CollectionService) set(kind CollectionKind) (repo.SetRepo, error) {
	r, ok := s.sets[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown collection %q", domain.ErrValidation, kind)
	}
	return r, nil
}

// Toggle adds or removes name and reports whether it is a member afterwards.
func (s *CollectionService) Toggle(ctx context.Context, kind CollectionKind, name string) (bool, error) {
	r, err := s.set(kind)
	if err != nil {
		return false, fmt.Errorf("service.CollectionService.Toggle: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return false, fmt.Errorf("service.CollectionService.Toggle: %w: name is required", domain.ErrValidation)
	}
	member, err := r.Toggle(ctx, name)
	if err != nil {
		return false, fmt.Errorf("service.CollectionService.Toggle: %w", err)
	}
	return member, nil
}

// Contains reports whether name is in the collection.
func (s *CollectionService) Contains(ctx context.Context, kind CollectionKind, name string) (bool, error) {
	r, err := s.set(kind)
	if err != nil {
		return false, fmt.Errorf("service.CollectionService.Contains: %w", err)
	}
	ok, err := r.Contains(ctx, name)
	if err != nil {
		return false, fmt.Errorf("service.CollectionService.Contains: %w", err)
	}
	return ok, nil
}

// List returns the member names, sorted.
func (s *CollectionService) List(ctx context.Context, kind CollectionKind) ([]string, error) {
	r, err := s.set(kind)
	if err != nil {
		return nil, fmt.Errorf("service.CollectionService.List: %w", err)
	}
	names, err := r.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CollectionService.List: %w", err)
	}
	return names, nil
}

// Activities filters the catalog down to the members, which is how the
// "Favorites" and "Visited" pseudo-cities are rendered. Entries keep catalog
// order; a name shared by several cities yields one entry per city, and
// names that no longer exist in the catalog are skipped.
func (s *CollectionService) Activities(ctx context.Context, kind CollectionKind) ([]domain.CatalogEntry, error) {
	names, err := s.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	c, err := s.catalog.Current()
	if err != nil {
		return nil, fmt.Errorf("service.CollectionService.Activities: %w", err)
	}
	members := make(map[string]struct{}, len(names))
	for _, n := range names {
		members[n] = struct{}{}
	}
	out := []domain.CatalogEntry{}
	for _, e := range c.Entries() {
		if _, ok := members[e.Name]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}
