// Package repository declares the storage contracts the service layer
// depends on. Implementations live in subpackages (see repository/sqlite).
package repository

import (
	"context"
	"time"

	"github.com/sakif/food-rotation/internal/model"
)

// FoodRepository persists the food catalog.
type FoodRepository interface {
	ListFoods(ctx context.Context) ([]model.Food, error)
	GetFood(ctx context.Context, id int64) (*model.Food, error)
	FindFoodByName(ctx context.Context, name string) (*model.Food, error)
	CreateFood(ctx context.Context, food *model.Food) error
	// RenameFood also rewrites the stored name on every entry still attached
	// to the food.
	RenameFood(ctx context.Context, food *model.Food) error
	// DeleteFood removes the food. With removeEntries its entries are deleted
	// too; otherwise they are detached and keep their recorded name.
	DeleteFood(ctx context.Context, id int64, removeEntries bool) error
}

// EntryFilter narrows ListEntries. A zero Since means no lower bound.
type EntryFilter struct {
	Since time.Time
}

// EntryRepository persists the consumption log.
type EntryRepository interface {
	CreateEntry(ctx context.Context, entry *model.Entry) error
	ListEntries(ctx context.Context, filter EntryFilter) ([]model.Entry, error)
	UpdateEntryDate(ctx context.Context, id int64, date time.Time) error
	DeleteEntry(ctx context.Context, id int64) error
}

// LastEaten pairs a food with the timestamp of its most recent entry.
// LastEaten is nil for foods that were never logged.
type LastEaten struct {
	Food      model.Food
	LastEaten *time.Time
}

// RotationRepository answers the derived rotation queries. today fixes the
// calendar day the queries are evaluated against.
type RotationRepository interface {
	LastEatenByFood(ctx context.Context) ([]LastEaten, error)
	AvailableFoods(ctx context.Context, today time.Time) ([]model.Food, error)
	EntriesSince(ctx context.Context, day time.Time) ([]model.Entry, error)
}
