package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/food-rotation/internal/apperror"
	"github.com/sakif/food-rotation/internal/model"
)

func newTestEntryService(t *testing.T, now string) (*EntryService, *mockStore) {
	t.Helper()
	store := newMockStore()
	return NewEntryService(store, store, fixedClock(t, now), testLogger()), store
}

func addFood(t *testing.T, store *mockStore, name string) *model.Food {
	t.Helper()
	f := &model.Food{Name: name}
	require.NoError(t, store.CreateFood(context.Background(), f))
	return f
}

func int64Ptr(v int64) *int64 { return &v }

func TestEntryCreate_DefaultsToNow(t *testing.T) {
	svc, store := newTestEntryService(t, "2024-01-10T12:34:56Z")
	rice := addFood(t, store, "Rice")

	entry, err := svc.Create(context.Background(), CreateEntryInput{FoodID: int64Ptr(rice.ID)})
	require.NoError(t, err)

	assert.NotZero(t, entry.ID)
	require.NotNil(t, entry.FoodID)
	assert.Equal(t, rice.ID, *entry.FoodID)
	assert.Equal(t, "Rice", entry.FoodName)
	assert.Equal(t, time.Date(2024, 1, 10, 12, 34, 56, 0, time.UTC), entry.Date)
}

func TestEntryCreate_ExplicitDateAndTime(t *testing.T) {
	svc, store := newTestEntryService(t, "2024-01-10T12:00:00Z")
	rice := addFood(t, store, "Rice")

	entry, err := svc.Create(context.Background(), CreateEntryInput{
		FoodID: int64Ptr(rice.ID),
		Date:   "2024-01-08",
		Time:   "07:15",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 8, 7, 15, 0, 0, time.UTC), entry.Date)
}

func TestEntryCreate_PartialDateFallsBackToNow(t *testing.T) {
	svc, store := newTestEntryService(t, "2024-01-10T12:00:00Z")
	rice := addFood(t, store, "Rice")

	entry, err := svc.Create(context.Background(), CreateEntryInput{
		FoodID: int64Ptr(rice.ID),
		Date:   "2024-01-08",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), entry.Date)
}

func TestEntryCreate_UnknownFoodWritesNothing(t *testing.T) {
	svc, store := newTestEntryService(t, "2024-01-10T12:00:00Z")

	_, err := svc.Create(context.Background(), CreateEntryInput{FoodID: int64Ptr(42)})
	assert.ErrorIs(t, err, apperror.ErrInvalidReference)
	assert.Empty(t, store.entries)
}

func TestEntryCreate_Validation(t *testing.T) {
	svc, store := newTestEntryService(t, "2024-01-10T12:00:00Z")
	rice := addFood(t, store, "Rice")

	_, err := svc.Create(context.Background(), CreateEntryInput{})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Create(context.Background(), CreateEntryInput{
		FoodID: int64Ptr(rice.ID),
		Date:   "08/01/2024",
		Time:   "07:15",
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Empty(t, store.entries)
}

func TestEntryList_Since(t *testing.T) {
	svc, store := newTestEntryService(t, "2024-01-10T12:00:00Z")
	rice := addFood(t, store, "Rice")
	store.seedEntry(t, rice, "2024-01-01T08:00:00Z")
	store.seedEntry(t, rice, "2024-01-05T08:00:00Z")
	store.seedEntry(t, rice, "2024-01-07T08:00:00Z")

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 7, all[0].Date.Day())

	recent, err := svc.List(context.Background(), "2024-01-05")
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	_, err = svc.List(context.Background(), "last week")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestEntryUpdateDate(t *testing.T) {
	svc, store := newTestEntryService(t, "2024-01-10T12:00:00Z")
	rice := addFood(t, store, "Rice")
	e := store.seedEntry(t, rice, "2024-01-01T08:00:00Z")

	when, err := svc.UpdateDate(context.Background(), e.ID, "2024-01-02", "19:45")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 19, 45, 0, 0, time.UTC), when)
	assert.Equal(t, when, store.entries[e.ID].Date)

	_, err = svc.UpdateDate(context.Background(), e.ID, "2024-01-02", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.UpdateDate(context.Background(), 999, "2024-01-02", "10:00")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestEntryDelete(t *testing.T) {
	svc, store := newTestEntryService(t, "2024-01-10T12:00:00Z")
	rice := addFood(t, store, "Rice")
	e := store.seedEntry(t, rice, "2024-01-01T08:00:00Z")

	require.NoError(t, svc.Delete(context.Background(), e.ID))
	require.NoError(t, svc.Delete(context.Background(), e.ID))
	assert.Empty(t, store.entries)

	store.failWith = errDatabaseDown
	assert.ErrorIs(t, svc.Delete(context.Background(), 1), errDatabaseDown)
}
