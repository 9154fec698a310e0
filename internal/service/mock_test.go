package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/sakif/food-rotation/internal/apperror"
	"github.com/sakif/food-rotation/internal/model"
	"github.com/sakif/food-rotation/internal/repository"
	"github.com/sakif/food-rotation/internal/rotation"
)

// mockStore is an in-memory stand-in for the SQLite store. It implements
// every repository interface so the services can be tested without a
// database. failWith, when set, is returned by every call.
type mockStore struct {
	foods    map[int64]*model.Food
	entries  map[int64]*model.Entry
	nextID   int64
	failWith error
}

var (
	_ repository.FoodRepository     = (*mockStore)(nil)
	_ repository.EntryRepository    = (*mockStore)(nil)
	_ repository.RotationRepository = (*mockStore)(nil)
)

func newMockStore() *mockStore {
	return &mockStore{
		foods:   make(map[int64]*model.Food),
		entries: make(map[int64]*model.Entry),
	}
}

func (m *mockStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *mockStore) ListFoods(_ context.Context) ([]model.Food, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	foods := make([]model.Food, 0, len(m.foods))
	for _, f := range m.foods {
		foods = append(foods, *f)
	}
	sort.Slice(foods, func(i, j int) bool { return foods[i].Name < foods[j].Name })
	return foods, nil
}

func (m *mockStore) GetFood(_ context.Context, id int64) (*model.Food, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	f, ok := m.foods[id]
	if !ok {
		return nil, apperror.NotFound("food", id)
	}
	out := *f
	return &out, nil
}

func (m *mockStore) FindFoodByName(_ context.Context, name string) (*model.Food, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, f := range m.foods {
		if strings.EqualFold(f.Name, name) {
			out := *f
			return &out, nil
		}
	}
	return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "food not found"}
}

func (m *mockStore) CreateFood(_ context.Context, food *model.Food) error {
	if m.failWith != nil {
		return m.failWith
	}
	for _, f := range m.foods {
		if f.Name == food.Name {
			return apperror.Conflict("food", food.Name)
		}
	}
	food.ID = m.id()
	stored := *food
	m.foods[food.ID] = &stored
	return nil
}

func (m *mockStore) RenameFood(_ context.Context, food *model.Food) error {
	if m.failWith != nil {
		return m.failWith
	}
	existing, ok := m.foods[food.ID]
	if !ok {
		return apperror.NotFound("food", food.ID)
	}
	for _, f := range m.foods {
		if f.ID != food.ID && f.Name == food.Name {
			return apperror.Conflict("food", food.Name)
		}
	}
	existing.Name = food.Name
	for _, e := range m.entries {
		if e.FoodID != nil && *e.FoodID == food.ID {
			e.FoodName = food.Name
		}
	}
	return nil
}

func (m *mockStore) DeleteFood(_ context.Context, id int64, removeEntries bool) error {
	if m.failWith != nil {
		return m.failWith
	}
	for eid, e := range m.entries {
		if e.FoodID == nil || *e.FoodID != id {
			continue
		}
		if removeEntries {
			delete(m.entries, eid)
		} else {
			e.FoodID = nil
		}
	}
	delete(m.foods, id)
	return nil
}

func (m *mockStore) CreateEntry(_ context.Context, entry *model.Entry) error {
	if m.failWith != nil {
		return m.failWith
	}
	entry.ID = m.id()
	stored := *entry
	m.entries[entry.ID] = &stored
	return nil
}

func (m *mockStore) sortedEntries(keep func(model.Entry) bool) []model.Entry {
	out := []model.Entry{}
	for _, e := range m.entries {
		if keep(*e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (m *mockStore) ListEntries(_ context.Context, filter repository.EntryFilter) ([]model.Entry, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.sortedEntries(func(e model.Entry) bool {
		return filter.Since.IsZero() || !e.Date.Before(filter.Since)
	}), nil
}

func (m *mockStore) UpdateEntryDate(_ context.Context, id int64, date time.Time) error {
	if m.failWith != nil {
		return m.failWith
	}
	e, ok := m.entries[id]
	if !ok {
		return apperror.NotFound("entry", id)
	}
	e.Date = date
	return nil
}

func (m *mockStore) DeleteEntry(_ context.Context, id int64) error {
	if m.failWith != nil {
		return m.failWith
	}
	delete(m.entries, id)
	return nil
}

func (m *mockStore) LastEatenByFood(ctx context.Context) ([]repository.LastEaten, error) {
	foods, err := m.ListFoods(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]repository.LastEaten, 0, len(foods))
	for _, f := range foods {
		le := repository.LastEaten{Food: f}
		for _, e := range m.entries {
			if e.FoodID != nil && *e.FoodID == f.ID && (le.LastEaten == nil || e.Date.After(*le.LastEaten)) {
				d := e.Date
				le.LastEaten = &d
			}
		}
		out = append(out, le)
	}
	return out, nil
}

func (m *mockStore) AvailableFoods(ctx context.Context, today time.Time) ([]model.Food, error) {
	rows, err := m.LastEatenByFood(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Food{}
	for _, r := range rows {
		if rotation.IsAvailable(r.LastEaten, today) {
			out = append(out, r.Food)
		}
	}
	return out, nil
}

func (m *mockStore) EntriesSince(_ context.Context, day time.Time) ([]model.Entry, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	start := rotation.Day(day)
	return m.sortedEntries(func(e model.Entry) bool {
		return !rotation.Day(e.Date).Before(start)
	}), nil
}

// seedEntry logs food at the given RFC 3339 time directly in the store.
func (m *mockStore) seedEntry(t *testing.T, food *model.Food, at string) *model.Entry {
	t.Helper()
	when, err := time.Parse(time.RFC3339, at)
	if err != nil {
		t.Fatalf("bad test time %q: %v", at, err)
	}
	id := food.ID
	e := &model.Entry{FoodID: &id, FoodName: food.Name, Date: when}
	if err := m.CreateEntry(context.Background(), e); err != nil {
		t.Fatalf("seeding entry: %v", err)
	}
	return e
}

var errDatabaseDown = errors.New("database is down")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// fixedClock pins "now" to the given RFC 3339 time.
func fixedClock(t *testing.T, at string) Clock {
	t.Helper()
	now, err := time.Parse(time.RFC3339, at)
	if err != nil {
		t.Fatalf("bad clock time %q: %v", at, err)
	}
	return func() time.Time { return now }
}
