package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/pocket-guide/backend/internal/domain"
	"github.com/pkordes/pocket-guide/backend/internal/handler"
	"github.com/pkordes/pocket-guide/backend/internal/service"
)

// ---- mocks -----------------------------------------------------------------
// Each mock has one function field per method; set only the ones a test needs.

type mockTripServicer struct {
	create          func(ctx context.Context, name, start, end string) (domain.Trip, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPaged       func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int, error)
	delete          func(ctx context.Context, id uuid.UUID) error
	toggleCompleted func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	addActivity     func(ctx context.Context, id uuid.UUID, date string, a domain.TripActivity) (domain.Trip, error)
	removeActivity  func(ctx context.Context, id uuid.UUID, date string, index int) (domain.Trip, error)
	moveActivity    func(ctx context.Context, id uuid.UUID, date string, index int, direction string) (domain.Trip, error)
	renameActivity  func(ctx context.Context, id uuid.UUID, date string, index int, name string) (domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, name, start, end string) (domain.Trip, error) {
	return m.create(ctx, name, start, end)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripServicer) ToggleCompleted(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.toggleCompleted(ctx, id)
}
func (m *mockTripServicer) AddActivity(ctx context.Context, id uuid.UUID, date string, a domain.TripActivity) (domain.Trip, error) {
	return m.addActivity(ctx, id, date, a)
}
func (m *mockTripServicer) RemoveActivity(ctx context.Context, id uuid.UUID, date string, index int) (domain.Trip, error) {
	return m.removeActivity(ctx, id, date, index)
}
func (m *mockTripServicer) MoveActivity(ctx context.Context, id uuid.UUID, date string, index int, direction string) (domain.Trip, error) {
	return m.moveActivity(ctx, id, date, index, direction)
}
func (m *mockTripServicer) RenameActivity(ctx context.Context, id uuid.UUID, date string, index int, name string) (domain.Trip, error) {
	return m.renameActivity(ctx, id, date, index, name)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockCollectionServicer struct {
	toggle     func(ctx context.Context, kind service.CollectionKind, name string) (bool, error)
	contains   func(ctx context.Context, kind service.CollectionKind, name string) (bool, error)
	list       func(ctx context.Context, kind service.CollectionKind) ([]string, error)
	activities func(ctx context.Context, kind service.CollectionKind) ([]domain.CatalogEntry, error)
}

func (m *mockCollectionServicer) Toggle(ctx context.Context, kind service.CollectionKind, name string) (bool, error) {
	return m.toggle(ctx, kind, name)
}
func (m *mockCollectionServicer) Contains(ctx context.Context, kind service.CollectionKind, name string) (bool, error) {
	return m.contains(ctx, kind, name)
}
func (m *mockCollectionServicer) List(ctx context.Context, kind service.CollectionKind) ([]string, error) {
	return m.list(ctx, kind)
}
func (m *mockCollectionServicer) Activities(ctx context.Context, kind service.CollectionKind) ([]domain.CatalogEntry, error) {
	return m.activities(ctx, kind)
}

var _ handler.CollectionServicer = (*mockCollectionServicer)(nil)

type mockAssetServicer struct {
	resolve func(ctx context.Context, req service.AssetRequest) (service.AssetResult, error)
}

func (m *mockAssetServicer) Resolve(ctx context.Context, req service.AssetRequest) (service.AssetResult, error) {
	return m.resolve(ctx, req)
}

var _ handler.AssetServicer = (*mockAssetServicer)(nil)

type mockCatalogProvider struct {
	current func() (*domain.Catalog, error)
	reload  func(ctx context.Context) error
}

func (m *mockCatalogProvider) Current() (*domain.Catalog, error) { return m.current() }
func (m *mockCatalogProvider) Reload(ctx context.Context) error  { return m.reload(ctx) }

var _ handler.CatalogProvider = (*mockCatalogProvider)(nil)

type mockExportServicer struct {
	export func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server the same way main.go does, minus middleware.
func newHTTPHandler(d handler.Deps) http.Handler {
	return handler.NewServer(d).Routes()
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// errorCode decodes the error envelope and returns its code.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body.Error.Code
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:    uuid.New(),
		Name:  "Itália",
		Start: "01/06/2025",
		End:   "02/06/2025",
		Days: []domain.Day{
			{Date: "01/06/2025", Activities: []domain.TripActivity{{Name: "Coliseu", City: "Roma"}}},
			{Date: "02/06/2025", Activities: []domain.TripActivity{}},
		},
	}
}

func italy() *domain.Catalog {
	return &domain.Catalog{Countries: []domain.Country{{
		Name: "Itália",
		Flag: "🇮🇹",
		Cities: []domain.City{{
			Name: "Roma",
			Activities: []domain.Activity{
				{Name: "Coliseu", SuggestedTime: "2h", MapCoordinates: &domain.Coordinates{Latitude: 41.8902, Longitude: 12.4922}},
				{Name: "Panteão"},
			},
		}},
	}}}
}
