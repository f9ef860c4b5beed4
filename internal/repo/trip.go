package repo

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/pocket-guide/backend/internal/domain"
	"github.com/pkordes/pocket-guide/backend/internal/store"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface so it can be unit-tested
// with a mock.
type TripRepo interface {
	// Create appends a new trip and returns it. A zero ID is replaced by a
	// fresh UUID.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns every trip in creation order.
	List(ctx context.Context) ([]domain.Trip, error)

	// Modify loads the trip, applies fn to a private copy and stores the
	// result, all under the repository lock. If fn returns an error nothing
	// is written.
	Modify(ctx context.Context, id uuid.UUID, fn func(*domain.Trip) error) (domain.Trip, error)

	// Delete removes a trip. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// kvTripRepo keeps all trips in one JSON array under TripsKey.
type kvTripRepo struct {
	kv  store.KV
	log *slog.Logger
	mu  sync.Mutex
}

// NewTripRepo constructs a TripRepo backed by kv.
func NewTripRepo(kv store.KV, log *slog.Logger) TripRepo {
	return &kvTripRepo{kv: kv, log: componentLogger(log, "trip-repo")}
}

func (r *kvTripRepo) load(ctx context.Context) ([]domain.Trip, error) {
	trips, err := loadJSON[[]domain.Trip](ctx, r.kv, r.log, TripsKey)
	if err != nil {
		return nil, err
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, nil
}

func index(trips []domain.Trip, id uuid.UUID) int {
	return slices.IndexFunc(trips, func(t domain.Trip) bool { return t.ID == id })
}

func (r *kvTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trips, err := r.load(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	trip = trip.Clone()
	trips = append(trips, trip)
	if err := saveJSON(ctx, r.kv, TripsKey, trips); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return trip.Clone(), nil
}

func (r *kvTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trips, err := r.load(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	i := index(trips, id)
	if i < 0 {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
	}
	return trips[i], nil
}

func (r *kvTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trips, err := r.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	return trips, nil
}

func (r *kvTripRepo) Modify(ctx context.Context, id uuid.UUID, fn func(*domain.Trip) error) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trips, err := r.load(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Modify: %w", err)
	}
	i := index(trips, id)
	if i < 0 {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Modify: %w", domain.ErrNotFound)
	}

	next := trips[i].Clone()
	if err := fn(&next); err != nil {
		return domain.Trip{}, err
	}
	next.ID = id
	trips[i] = next
	if err := saveJSON(ctx, r.kv, TripsKey, trips); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Modify: %w", err)
	}
	return next.Clone(), nil
}

func (r *kvTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	trips, err := r.load(ctx)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	i := index(trips, id)
	if i < 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	trips = slices.Delete(trips, i, i+1)
	if err := saveJSON(ctx, r.kv, TripsKey, trips); err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	return nil
}
