package service

import (
	"context"
	"fmt"

	"github.com/pkordes/pocket-guide/backend/internal/domain"
	"github.com/pkordes/pocket-guide/backend/internal/repo"
)

// ExportService flattens every trip into itinerary rows.
type ExportService struct {
	trips repo.TripRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(trips repo.TripRepo) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one ExportRow per planned activity across all trips, in trip,
// day, and itinerary order. Days with no activities contribute one row with
// empty activity fields and Position -1.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, t := range trips {
		base := domain.ExportRow{
			TripID:        t.ID.String(),
			TripName:      t.Name,
			TripStart:     t.Start,
			TripEnd:       t.End,
			TripCompleted: t.Completed,
		}
		for _, d := range t.Days {
			row := base
			row.DayDate = d.Date
			if len(d.Activities) == 0 {
				row.Position = -1
				rows = append(rows, row)
				continue
			}
			for i, a := range d.Activities {
				r := row
				r.Position = i
				r.ActivityName = a.Name
				r.ActivityCity = a.City
				r.Custom = a.Custom
				rows = append(rows, r)
			}
		}
	}
	return rows, nil
}
