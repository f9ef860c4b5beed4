package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/pocket-guide/backend/internal/domain"
	"github.com/pkordes/pocket-guide/backend/internal/handler"
)

func tripHandler(svc *mockTripServicer) http.Handler {
	return newHTTPHandler(handler.Deps{Trips: svc})
}

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	want := tripFixture()
	var gotName, gotStart, gotEnd string
	h := tripHandler(&mockTripServicer{
		create: func(_ context.Context, name, start, end string) (domain.Trip, error) {
			gotName, gotStart, gotEnd = name, start, end
			return want, nil
		},
	})

	rec := do(t, h, http.MethodPost, "/trips", map[string]string{
		"name": "Itália", "start": "01/06/2025", "end": "02/06/2025",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/trips/"+want.ID.String(), rec.Header().Get("Location"))
	assert.Equal(t, []string{"Itália", "01/06/2025", "02/06/2025"}, []string{gotName, gotStart, gotEnd})

	var body domain.Trip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, want.ID, body.ID)
	require.Len(t, body.Days, 2)
	assert.Equal(t, "Coliseu", body.Days[0].Activities[0].Name)
}

func TestCreateTrip_MissingDates_422(t *testing.T) {
	h := tripHandler(&mockTripServicer{})

	rec := do(t, h, http.MethodPost, "/trips", map[string]string{"name": "x", "end": "02/06/2025"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
	assert.Contains(t, rec.Body.String(), "start is required")
}

func TestCreateTrip_EmptyBody_422(t *testing.T) {
	h := tripHandler(&mockTripServicer{})

	rec := do(t, h, http.MethodPost, "/trips", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

func TestCreateTrip_ServiceValidation_422(t *testing.T) {
	h := tripHandler(&mockTripServicer{
		create: func(context.Context, string, string, string) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: end date must not be before start date", domain.ErrValidation)
		},
	})

	rec := do(t, h, http.MethodPost, "/trips", map[string]string{"start": "05/01/2025", "end": "01/01/2025"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"validation_error","message":"end date must not be before start date"}}`, rec.Body.String())
}

// ---- GET /trips ------------------------------------------------------------

func TestListTrips_Pagination(t *testing.T) {
	var got domain.PaginationParams
	h := tripHandler(&mockTripServicer{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.Trip, int, error) {
			got = p
			return []domain.Trip{tripFixture()}, 7, nil
		},
	})

	rec := do(t, h, http.MethodGet, "/trips?page=2&limit=500", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaginationParams{Page: 2, Limit: 100}, got)

	var body struct {
		Data       []domain.Trip      `json:"data"`
		Pagination handler.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, handler.Pagination{Page: 2, Limit: 100, Total: 7}, body.Pagination)
}

func TestListTrips_BadPage_422(t *testing.T) {
	h := tripHandler(&mockTripServicer{})

	rec := do(t, h, http.MethodGet, "/trips?page=two", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListTrips_StoreFailure_500(t *testing.T) {
	h := tripHandler(&mockTripServicer{
		listPaged: func(context.Context, domain.PaginationParams) ([]domain.Trip, int, error) {
			return nil, 0, errors.New("disk on fire")
		},
	})

	rec := do(t, h, http.MethodGet, "/trips", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"internal_error","message":"internal server error"}}`, rec.Body.String())
}

// ---- /trips/{id} -----------------------------------------------------------

func TestGetTrip(t *testing.T) {
	want := tripFixture()
	h := tripHandler(&mockTripServicer{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			if id != want.ID {
				return domain.Trip{}, domain.ErrNotFound
			}
			return want, nil
		},
	})

	rec := do(t, h, http.MethodGet, "/trips/"+want.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/trips/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"not_found","message":"trip not found"}}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/trips/not-a-uuid", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDeleteTrip_204(t *testing.T) {
	id := uuid.New()
	var deleted uuid.UUID
	h := tripHandler(&mockTripServicer{
		delete: func(_ context.Context, got uuid.UUID) error {
			deleted = got
			return nil
		},
	})

	rec := do(t, h, http.MethodDelete, "/trips/"+id.String(), nil)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, deleted)
}

func TestToggleTripCompleted(t *testing.T) {
	trip := tripFixture()
	trip.Completed = true
	h := tripHandler(&mockTripServicer{
		toggleCompleted: func(context.Context, uuid.UUID) (domain.Trip, error) { return trip, nil },
	})

	rec := do(t, h, http.MethodPost, "/trips/"+trip.ID.String()+"/completed", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"completed":true`)
}

// ---- day activities --------------------------------------------------------

func TestAddActivity_ConvertsDateSegment(t *testing.T) {
	trip := tripFixture()
	var gotDate string
	var gotActivity domain.TripActivity
	h := tripHandler(&mockTripServicer{
		addActivity: func(_ context.Context, _ uuid.UUID, date string, a domain.TripActivity) (domain.Trip, error) {
			gotDate, gotActivity = date, a
			return trip, nil
		},
	})

	rec := do(t, h, http.MethodPost, "/trips/"+trip.ID.String()+"/days/02-06-2025/activities",
		map[string]any{"name": "Jantar", "isCustom": true})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "02/06/2025", gotDate)
	assert.Equal(t, domain.TripActivity{Name: "Jantar", Custom: true}, gotActivity)
}

func TestAddActivity_BadDate_422(t *testing.T) {
	h := tripHandler(&mockTripServicer{})

	rec := do(t, h, http.MethodPost, "/trips/"+uuid.NewString()+"/days/2025-06-02/activities",
		map[string]any{"name": "Jantar"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "dd-mm-yyyy")
}

func TestAddActivity_UnknownDay_404(t *testing.T) {
	h := tripHandler(&mockTripServicer{
		addActivity: func(context.Context, uuid.UUID, string, domain.TripActivity) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.AddActivity: day 09/09/2025: %w", domain.ErrNotFound)
		},
	})

	rec := do(t, h, http.MethodPost, "/trips/"+uuid.NewString()+"/days/09-09-2025/activities",
		map[string]any{"name": "Jantar"})

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))
}

func TestRenameActivity(t *testing.T) {
	var gotIndex int
	var gotName string
	h := tripHandler(&mockTripServicer{
		renameActivity: func(_ context.Context, _ uuid.UUID, _ string, index int, name string) (domain.Trip, error) {
			gotIndex, gotName = index, name
			return tripFixture(), nil
		},
	})

	rec := do(t, h, http.MethodPut, "/trips/"+uuid.NewString()+"/days/01-06-2025/activities/3",
		map[string]string{"name": "Trastevere"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, gotIndex)
	assert.Equal(t, "Trastevere", gotName)
}

func TestRemoveActivity_BadIndex_422(t *testing.T) {
	h := tripHandler(&mockTripServicer{})

	rec := do(t, h, http.MethodDelete, "/trips/"+uuid.NewString()+"/days/01-06-2025/activities/first", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "index must be an integer")
}

func TestRemoveActivity(t *testing.T) {
	var gotIndex int
	h := tripHandler(&mockTripServicer{
		removeActivity: func(_ context.Context, _ uuid.UUID, _ string, index int) (domain.Trip, error) {
			gotIndex = index
			return tripFixture(), nil
		},
	})

	rec := do(t, h, http.MethodDelete, "/trips/"+uuid.NewString()+"/days/01-06-2025/activities/0", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, gotIndex)
}

func TestMoveActivity(t *testing.T) {
	var gotDirection string
	h := tripHandler(&mockTripServicer{
		moveActivity: func(_ context.Context, _ uuid.UUID, _ string, _ int, direction string) (domain.Trip, error) {
			gotDirection = direction
			return tripFixture(), nil
		},
	})
	target := "/trips/" + uuid.NewString() + "/days/01-06-2025/activities/1/move"

	rec := do(t, h, http.MethodPost, target, map[string]string{"direction": "up"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "up", gotDirection)

	rec = do(t, h, http.MethodPost, target, map[string]string{"direction": "left"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "direction must be one of: up, down")
}
