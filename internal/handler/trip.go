package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/pocket-guide/backend/internal/domain"
)

const tripNotFound = "trip not found"

type createTripRequest struct {
	Name  string `json:"name" validate:"max=120"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

type addActivityRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	City        string `json:"city" validate:"max=120"`
	Description string `json:"description" validate:"max=2000"`
	Image       string `json:"image" validate:"max=500"`
	Custom      bool   `json:"isCustom"`
}

type renameActivityRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type moveActivityRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type tripListResponse struct {
	Data       []domain.Trip `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if !decode(w, r, &req) {
		return
	}
	created, err := s.trips.Create(r.Context(), req.Name, req.Start, req.End)
	if err != nil {
		s.fail(w, r, err, tripNotFound)
		return
	}
	w.Header().Set("Location", "/trips/"+created.ID.String())
	writeJSON(w, http.StatusCreated, created)
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	page, err := optionalInt(r, "page")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, err.Error())
		return
	}
	limit, err := optionalInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, err.Error())
		return
	}

	params := domain.NewPaginationParams(page, limit)
	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		s.fail(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripListResponse{
		Data:       trips,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err, tripNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleTripCompleted handles POST /trips/{id}/completed.
func (s *Server) ToggleTripCompleted(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	trip, err := s.trips.ToggleCompleted(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// AddActivity handles POST /trips/{id}/days/{date}/activities.
func (s *Server) AddActivity(w http.ResponseWriter, r *http.Request) {
	id, date, ok := tripDay(w, r)
	if !ok {
		return
	}
	var req addActivityRequest
	if !decode(w, r, &req) {
		return
	}
	trip, err := s.trips.AddActivity(r.Context(), id, date, domain.TripActivity{
		Name:        req.Name,
		City:        req.City,
		Description: req.Description,
		Image:       req.Image,
		Custom:      req.Custom,
	})
	if err != nil {
		s.fail(w, r, err, "trip or day not found")
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// RenameActivity handles PUT /trips/{id}/days/{date}/activities/{index}.
func (s *Server) RenameActivity(w http.ResponseWriter, r *http.Request) {
	id, date, index, ok := tripDayIndex(w, r)
	if !ok {
		return
	}
	var req renameActivityRequest
	if !decode(w, r, &req) {
		return
	}
	trip, err := s.trips.RenameActivity(r.Context(), id, date, index, req.Name)
	if err != nil {
		s.fail(w, r, err, "trip or day not found")
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// RemoveActivity handles DELETE /trips/{id}/days/{date}/activities/{index}.
// It answers with the resulting trip; an index past the end changes nothing.
func (s *Server) RemoveActivity(w http.ResponseWriter, r *http.Request) {
	id, date, index, ok := tripDayIndex(w, r)
	if !ok {
		return
	}
	trip, err := s.trips.RemoveActivity(r.Context(), id, date, index)
	if err != nil {
		s.fail(w, r, err, "trip or day not found")
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// MoveActivity handles POST /trips/{id}/days/{date}/activities/{index}/move.
func (s *Server) MoveActivity(w http.ResponseWriter, r *http.Request) {
	id, date, index, ok := tripDayIndex(w, r)
	if !ok {
		return
	}
	var req moveActivityRequest
	if !decode(w, r, &req) {
		return
	}
	trip, err := s.trips.MoveActivity(r.Context(), id, date, index, req.Direction)
	if err != nil {
		s.fail(w, r, err, "trip or day not found")
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// ---- path and query parameters --------------------------------------------

func tripID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "trip id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// tripDay also reads the {date} segment. Slashes cannot appear in a path
// segment, so days are addressed as dd-mm-yyyy and converted back here.
func tripDay(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	id, ok := tripID(w, r)
	if !ok {
		return uuid.Nil, "", false
	}
	d, err := domain.ParseDate(strings.ReplaceAll(chi.URLParam(r, "date"), "-", "/"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "day must use dd-mm-yyyy")
		return uuid.Nil, "", false
	}
	return id, domain.FormatDate(d), true
}

func tripDayIndex(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, int, bool) {
	id, date, ok := tripDay(w, r)
	if !ok {
		return uuid.Nil, "", 0, false
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "index must be an integer")
		return uuid.Nil, "", 0, false
	}
	return id, date, index, true
}

func optionalInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &v, nil
}
