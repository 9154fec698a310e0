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
	"github.com/sakif/food-rotation/internal/rotation"
)

// CreateEntryInput describes a consumption to log. Date (YYYY-MM-DD) and
// Time (HH:MM[:SS]) are read as UTC and only used when both are set;
// otherwise the entry is stamped with the current time.
type CreateEntryInput struct {
	FoodID *int64
	Date   string
	Time   string
}

// EntryService manages the consumption log.
type EntryService struct {
	entries repository.EntryRepository
	foods   repository.FoodRepository
	now     Clock
	logger  *slog.Logger
}

func NewEntryService(
	entries repository.EntryRepository,
	foods repository.FoodRepository,
	now Clock,
	logger *slog.Logger,
) *EntryService {
	return &EntryService{
		entries: entries,
		foods:   foods,
		now:     now,
		logger:  logger,
	}
}

// Create logs that a food was eaten. The food's current name is copied onto
// the entry. An unknown food is rejected and nothing is written.
func (s *EntryService) Create(ctx context.Context, in CreateEntryInput) (*model.Entry, error) {
	if in.FoodID == nil {
		return nil, apperror.ValidationFailed("foodId", "foodId is required")
	}
	foodID := *in.FoodID

	food, err := s.foods.GetFood(ctx, foodID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidReference("foodId", "food", foodID)
		}
		return nil, fmt.Errorf("resolving food %d: %w", foodID, err)
	}

	when := s.now().UTC()
	if strings.TrimSpace(in.Date) != "" && strings.TrimSpace(in.Time) != "" {
		when, err = rotation.ParseDateTime(in.Date, in.Time)
		if err != nil {
			return nil, apperror.ValidationFailed("date", "date must be YYYY-MM-DD and time HH:MM")
		}
	}

	entry := &model.Entry{
		FoodID:   &food.ID,
		FoodName: food.Name,
		Date:     when.Truncate(time.Millisecond),
	}
	if err := s.entries.CreateEntry(ctx, entry); err != nil {
		s.logger.Error("failed to create entry",
			slog.Int64("food_id", foodID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating entry: %w", err)
	}

	s.logger.Info("entry logged",
		slog.Int64("id", entry.ID),
		slog.String("food", entry.FoodName),
		slog.Time("date", entry.Date),
	)
	return entry, nil
}

// List returns entries newest first. since, when non-empty, is a date or
// RFC 3339 timestamp bounding the result from below.
func (s *EntryService) List(ctx context.Context, since string) ([]model.Entry, error) {
	var filter repository.EntryFilter
	if strings.TrimSpace(since) != "" {
		t, err := rotation.ParseSince(since)
		if err != nil {
			return nil, apperror.ValidationFailed("since", "since must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
		}
		filter.Since = t
	}

	entries, err := s.entries.ListEntries(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return entries, nil
}

// UpdateDate moves an entry to a new date and time, both required. It
// returns the stored timestamp.
func (s *EntryService) UpdateDate(ctx context.Context, id int64, date, clock string) (time.Time, error) {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(clock) == "" {
		return time.Time{}, apperror.ValidationFailed("date", "date and time are required")
	}

	when, err := rotation.ParseDateTime(date, clock)
	if err != nil {
		return time.Time{}, apperror.ValidationFailed("date", "date must be YYYY-MM-DD and time HH:MM")
	}

	if err := s.entries.UpdateEntryDate(ctx, id, when); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return time.Time{}, err
		}
		s.logger.Error("failed to update entry",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return time.Time{}, fmt.Errorf("updating entry: %w", err)
	}

	s.logger.Info("entry rescheduled", slog.Int64("id", id), slog.Time("date", when))
	return when, nil
}

// Delete removes an entry. Unknown ids are ignored.
func (s *EntryService) Delete(ctx context.Context, id int64) error {
	if err := s.entries.DeleteEntry(ctx, id); err != nil {
		s.logger.Error("failed to delete entry",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting entry: %w", err)
	}

	s.logger.Info("entry deleted", slog.Int64("id", id))
	return nil
}
