// Package service contains the business rules of the tracker: input
// validation, name normalization and the rotation derivations.
//
// WHY A SERVICE LAYER?
// Handlers know HTTP, the sqlite package knows SQL, and neither should
// decide that "  Rice " and "Rice" are the same name or what "today" is.
// Services sit between them and depend only on repository interfaces, so
// their tests run against an in-memory mock with a pinned clock.
//
// ERROR HANDLING STRATEGY:
//   - Domain errors (*apperror.AppError) are returned unchanged. They carry
//     a client-safe message and handlers map them to 400 or 404.
//   - Anything else is a storage failure: it is logged here, with the ids
//     involved, and wrapped. The handler turns it into a generic 500, so
//     the log line is the only place the real cause shows up.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/food-rotation/internal/apperror"
	"github.com/sakif/food-rotation/internal/model"
	"github.com/sakif/food-rotation/internal/repository"
)

// MaxFoodNameLength bounds a food name after trimming.
const MaxFoodNameLength = 100

// Clock returns the current time. Services take one so tests can pin "today".
//
// WHY A FUNC AND NOT AN INTERFACE?
// One method, no state. time.Now satisfies it as-is, and a test clock is a
// one-line closure.
type Clock func() time.Time

// FoodService manages the food catalog.
type FoodService struct {
	repo   repository.FoodRepository
	logger *slog.Logger
}

func NewFoodService(repo repository.FoodRepository, logger *slog.Logger) *FoodService {
	return &FoodService{
		repo:   repo,
		logger: logger,
	}
}

// List returns all foods alphabetically.
func (s *FoodService) List(ctx context.Context) ([]model.Food, error) {
	foods, err := s.repo.ListFoods(ctx)
	if err != nil {
		s.logger.Error("failed to list foods", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing foods: %w", err)
	}
	return foods, nil
}

// Lookup finds a food by name ignoring case, the way a client resolves a
// typed name before deciding to create a new food.
func (s *FoodService) Lookup(ctx context.Context, name string) (*model.Food, error) {
	name, err := normalizeFoodName(name)
	if err != nil {
		return nil, err
	}
	return s.repo.FindFoodByName(ctx, name)
}

// Create adds a food. The name is trimmed; a taken name is a conflict.
func (s *FoodService) Create(ctx context.Context, name string) (*model.Food, error) {
	name, err := normalizeFoodName(name)
	if err != nil {
		return nil, err
	}

	food := &model.Food{Name: name}
	if err := s.repo.CreateFood(ctx, food); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create food",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating food: %w", err)
	}

	s.logger.Info("food created",
		slog.Int64("id", food.ID),
		slog.String("name", food.Name),
	)
	return food, nil
}

// Rename changes a food's name and rewrites the name recorded on its
// attached entries.
func (s *FoodService) Rename(ctx context.Context, id int64, name string) (*model.Food, error) {
	name, err := normalizeFoodName(name)
	if err != nil {
		return nil, err
	}

	food := &model.Food{ID: id, Name: name}
	if err := s.repo.RenameFood(ctx, food); err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to rename food",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("renaming food: %w", err)
	}

	s.logger.Info("food renamed",
		slog.Int64("id", food.ID),
		slog.String("name", food.Name),
	)
	return food, nil
}

// Delete removes a food. removeEntries chooses between deleting its entries
// and detaching them (they keep their recorded name).
func (s *FoodService) Delete(ctx context.Context, id int64, removeEntries bool) error {
	if err := s.repo.DeleteFood(ctx, id, removeEntries); err != nil {
		s.logger.Error("failed to delete food",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting food: %w", err)
	}

	s.logger.Info("food deleted",
		slog.Int64("id", id),
		slog.Bool("remove_entries", removeEntries),
	)
	return nil
}

func normalizeFoodName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.ValidationFailed("name", "name is required")
	}
	if len(name) > MaxFoodNameLength {
		return "", apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxFoodNameLength))
	}
	return name, nil
}
