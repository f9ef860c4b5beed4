package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/pocket-guide/backend/internal/domain"
	"github.com/pkordes/pocket-guide/backend/internal/repo"
	"github.com/pkordes/pocket-guide/backend/internal/store"
)

// failingKV is a store.KV whose every call returns err.
type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) Set(context.Context, string, string) error         { return f.err }
func (f failingKV) Remove(context.Context, string) error              { return f.err }

var _ store.KV = failingKV{}

// tripFixture returns a two-day trip. Callers can override fields after calling.
func tripFixture() domain.Trip {
	return domain.Trip{
		Name:  "Itália",
		Start: "01/06/2025",
		End:   "02/06/2025",
		Days: []domain.Day{
			{Date: "01/06/2025", Activities: []domain.TripActivity{{Name: "Coliseu", City: "Roma"}}},
			{Date: "02/06/2025", Activities: []domain.TripActivity{}},
		},
	}
}

func TestTripRepo_Create(t *testing.T) {
	kv := store.NewMemory()
	r := repo.NewTripRepo(kv, nil)
	ctx := context.Background()

	got, err := r.Create(ctx, tripFixture())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be generated")
	assert.Equal(t, "Itália", got.Name)

	raw, ok, err := kv.Get(ctx, repo.TripsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, got.ID.String())
	assert.Contains(t, raw, `"completed":false`)
}

func TestTripRepo_Create_KeepsGivenID(t *testing.T) {
	r := repo.NewTripRepo(store.NewMemory(), nil)
	trip := tripFixture()
	trip.ID = uuid.New()

	got, err := r.Create(context.Background(), trip)

	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.ID)
}

func TestTripRepo_List_CreationOrder(t *testing.T) {
	r := repo.NewTripRepo(store.NewMemory(), nil)
	ctx := context.Background()

	empty, err := r.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, name := range []string{"A", "B", "C"} {
		trip := tripFixture()
		trip.Name = name
		_, err := r.Create(ctx, trip)
		require.NoError(t, err)
	}

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewTripRepo(store.NewMemory(), nil)

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Modify(t *testing.T) {
	r := repo.NewTripRepo(store.NewMemory(), nil)
	ctx := context.Background()
	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	got, err := r.Modify(ctx, created.ID, func(t *domain.Trip) error {
		t.Name = "Toscana"
		t.ID = uuid.New()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Toscana", got.Name)
	assert.Equal(t, created.ID, got.ID, "id is immutable")

	boom := errors.New("boom")
	_, err = r.Modify(ctx, created.ID, func(t *domain.Trip) error {
		t.Name = "discarded"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Toscana", stored.Name)
}

func TestTripRepo_Delete(t *testing.T) {
	r := repo.NewTripRepo(store.NewMemory(), nil)
	ctx := context.Background()
	a, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)
	b, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, a.ID))

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)

	assert.ErrorIs(t, r.Delete(ctx, a.ID), domain.ErrNotFound)
}

func TestTripRepo_MalformedDocumentResetsToEmpty(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, repo.TripsKey, "{not json"))
	r := repo.NewTripRepo(kv, nil)

	got, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = r.Create(ctx, tripFixture())
	require.NoError(t, err)
	got, err = r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestTripRepo_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("disk full")
	r := repo.NewTripRepo(failingKV{err: boom}, nil)

	_, err := r.List(context.Background())

	assert.ErrorIs(t, err, boom)
}
