package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/food-rotation/internal/model"
	"github.com/sakif/food-rotation/internal/repository"
	"github.com/sakif/food-rotation/internal/rotation"
)

// RotationService derives the rotation views from the log.
//
// NOTHING IS STORED:
// "Available" and "next available" are functions of the log and today's
// date. Persisting them would mean a job to flip them at midnight and a way
// to fix them up whenever an entry is rescheduled or deleted. Recomputing
// per request is a GROUP BY over one indexed table, which at single-user
// scale is cheaper than keeping a cache honest.
//
// WHERE THE RULE LIVES:
// The arithmetic is in package rotation. Available pushes the cutoff into
// SQL because it only needs the matching rows; NextAvailable needs a row
// for every food, so it fetches last-eaten dates and applies the same rule
// in Go. Both read the cutoff from rotation.RotationCutoff, so they cannot
// disagree about the boundary day.
type RotationService struct {
	repo   repository.RotationRepository
	now    Clock
	logger *slog.Logger
}

func NewRotationService(repo repository.RotationRepository, now Clock, logger *slog.Logger) *RotationService {
	return &RotationService{
		repo:   repo,
		now:    now,
		logger: logger,
	}
}

// NextAvailable lists every food with the day it becomes available again.
func (s *RotationService) NextAvailable(ctx context.Context) ([]model.FoodRotation, error) {
	rows, err := s.repo.LastEatenByFood(ctx)
	if err != nil {
		s.logger.Error("failed to load last eaten dates", slog.String("error", err.Error()))
		return nil, fmt.Errorf("computing next available: %w", err)
	}

	// A single "now" for the whole response, so every row is judged
	// against the same day even if the request straddles midnight.
	today := s.now()
	result := make([]model.FoodRotation, 0, len(rows))
	for _, row := range rows {
		next := rotation.NextAvailable(row.LastEaten, today)
		fr := model.FoodRotation{
			ID:             row.Food.ID,
			Name:           row.Food.Name,
			NextAvailable:  rotation.FormatDate(next),
			DaysUntil:      rotation.DaysUntil(next, today),
			AvailableToday: rotation.IsAvailable(row.LastEaten, today),
		}
		if row.LastEaten != nil {
			last := rotation.FormatTimestamp(*row.LastEaten)
			fr.LastEaten = &last
		}
		result = append(result, fr)
	}
	return result, nil
}

// Available lists the foods that may be eaten today.
func (s *RotationService) Available(ctx context.Context) ([]model.Food, error) {
	foods, err := s.repo.AvailableFoods(ctx, s.now())
	if err != nil {
		s.logger.Error("failed to query available foods", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing available foods: %w", err)
	}
	return foods, nil
}

// Summary lists the entries of the last few calendar days, newest first,
// flagging food names that occur more than once in that window.
//
// Repeated is counted over the window only, not the whole log: it answers
// "did I eat this twice recently", so an older entry outside the window must
// not mark a food that appears once inside it.
func (s *RotationService) Summary(ctx context.Context) ([]model.SummaryEntry, error) {
	start := rotation.SummaryStart(s.now())

	entries, err := s.repo.EntriesSince(ctx, start)
	if err != nil {
		s.logger.Error("failed to load summary entries",
			slog.String("since", rotation.FormatDate(start)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("building summary: %w", err)
	}
	return rotation.MarkRepeated(entries), nil
}
