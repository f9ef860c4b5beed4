// Package service contains the business logic for the Pocket Guide API.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. Services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/pocket-guide/backend/internal/domain"
	"github.com/pkordes/pocket-guide/backend/internal/repo"
)

// TripService implements the trip planner operations. Every mutation goes
// through repo.TripRepo.Modify, so it works on a private copy of the trip
// and nothing is written when it fails.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create parses startText and endText (dd/mm/yyyy), builds one day per date
// in the range, and appends the trip. A blank name becomes
// "Viagem <start>".
func (s *TripService) Create(ctx context.Context, name, startText, endText string) (domain.Trip, error) {
	start, err := domain.ParseDate(startText)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: start: %w", err)
	}
	end, err := domain.ParseDate(endText)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: end: %w", err)
	}
	if end.Before(start) {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: end date must not be before start date", domain.ErrValidation)
	}
	if end.After(start.AddDate(0, 0, domain.MaxTripDays-1)) {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: a trip may span at most %d days", domain.ErrValidation, domain.MaxTripDays)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Viagem " + domain.FormatDate(start)
	}

	trip := domain.Trip{
		ID:    uuid.New(),
		Name:  name,
		Start: domain.FormatDate(start),
		End:   domain.FormatDate(end),
		Days:  domain.DaysBetween(start, end),
	}
	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip. This is the only way to "select" a trip:
// callers always see the stored state, never a stale copy.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return t, nil
}

// List returns all trips in creation order. Never nil.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, nil
}

// ListPaged returns one page of trips and the total count.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int, error) {
	trips, err := s.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	return domain.Paginate(trips, p), len(trips), nil
}

// Delete removes a trip.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// ToggleCompleted flips the completed flag. Days are untouched.
func (s *TripService) ToggleCompleted(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return s.modify(ctx, "ToggleCompleted", id, func(t *domain.Trip) error {
		t.Completed = !t.Completed
		return nil
	})
}

// AddActivity appends a to the itinerary of the given day.
func (s *TripService) AddActivity(ctx context.Context, id uuid.UUID, date string, a domain.TripActivity) (domain.Trip, error) {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.AddActivity: %w: name is required", domain.ErrValidation)
	}
	if a.Custom {
		a.City = ""
	}
	return s.modify(ctx, "AddActivity", id, func(t *domain.Trip) error {
		return t.AddActivity(date, a)
	})
}

// RemoveActivity deletes the entry at index. An index outside the day's
// itinerary leaves the trip unchanged.
func (s *TripService) RemoveActivity(ctx context.Context, id uuid.UUID, date string, index int) (domain.Trip, error) {
	return s.modify(ctx, "RemoveActivity", id, func(t *domain.Trip) error {
		return t.RemoveActivity(date, index)
	})
}

// MoveActivity swaps the entry at index with its neighbour. direction is
// "up" or "down"; moving past either end leaves the trip unchanged.
func (s *TripService) MoveActivity(ctx context.Context, id uuid.UUID, date string, index int, direction string) (domain.Trip, error) {
	dir, err := domain.ParseDirection(direction)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.MoveActivity: %w", err)
	}
	return s.modify(ctx, "MoveActivity", id, func(t *domain.Trip) error {
		return t.MoveActivity(date, index, dir)
	})
}

// RenameActivity overwrites the display name at index.
func (s *TripService) RenameActivity(ctx context.Context, id uuid.UUID, date string, index int, name string) (domain.Trip, error) {
	return s.modify(ctx, "RenameActivity", id, func(t *domain.Trip) error {
		return t.RenameActivity(date, index, name)
	})
}

func (s *TripService) modify(ctx context.Context, op string, id uuid.UUID, fn func(*domain.Trip) error) (domain.Trip, error) {
	t, err := s.repo.Modify(ctx, id, fn)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.%s: %w", op, err)
	}
	return t, nil
}
