package repo

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/pkordes/pocket-guide/backend/internal/store"
)

// SetRepo persists a set of activity names (favorites or visited).
type SetRepo interface {
	// List returns the members sorted ascending.
	List(ctx context.Context) ([]string, error)

	Contains(ctx context.Context, name string) (bool, error)

	// Toggle adds name if absent and removes it if present, returning
	// whether name is a member afterwards.
	Toggle(ctx context.Context, name string) (bool, error)
}

// kvSetRepo stores the set as a JSON array of strings under one key.
type kvSetRepo struct {
	kv  store.KV
	key string
	log *slog.Logger
	mu  sync.Mutex
}

// NewSetRepo constructs a SetRepo persisted under key.
func NewSetRepo(kv store.KV, key string, log *slog.Logger) SetRepo {
	return &kvSetRepo{kv: kv, key: key, log: componentLogger(log, "set-repo").With("key", key)}
}

// load returns the members deduplicated and sorted. Order on disk is not
// meaningful.
func (r *kvSetRepo) load(ctx context.Context) ([]string, error) {
	names, err := loadJSON[[]string](ctx, r.kv, r.log, r.key)
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	names = slices.Compact(names)
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (r *kvSetRepo) List(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.SetRepo.List: %w", err)
	}
	return names, nil
}

func (r *kvSetRepo) Contains(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.load(ctx)
	if err != nil {
		return false, fmt.Errorf("repo.SetRepo.Contains: %w", err)
	}
	_, found := slices.BinarySearch(names, name)
	return found, nil
}

func (r *kvSetRepo) Toggle(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.load(ctx)
	if err != nil {
		return false, fmt.Errorf("repo.SetRepo.Toggle: %w", err)
	}
	i, found := slices.BinarySearch(names, name)
	if found {
		names = slices.Delete(names, i, i+1)
	} else {
		names = slices.Insert(names, i, name)
	}
	if err := saveJSON(ctx, r.kv, r.key, names); err != nil {
		return false, fmt.Errorf("repo.SetRepo.Toggle: %w", err)
	}
	return !found, nil
}
