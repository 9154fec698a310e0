package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("food", 7),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("name", "name is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("food", "Rice"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "InvalidReference wraps ErrInvalidReference",
			err:       InvalidReference("foodId", "food", 3),
			target:    ErrInvalidReference,
			wantMatch: true,
		},
		{
			name:      "InvalidReference does NOT match ErrNotFound",
			err:       InvalidReference("foodId", "food", 3),
			target:    ErrNotFound,
			wantMatch: false,
		},
		{
			name:      "wrapped NotFound still matches",
			err:       fmt.Errorf("renaming food: %w", NotFound("food", 1)),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed does NOT match ErrConflict",
			err:       ValidationFailed("name", "too long"),
			target:    ErrConflict,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("entry", 42),
			wantMessage: "entry not found with id 42",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("name", "name is required"),
			wantMessage: "name is required",
		},
		{
			name:        "Conflict quotes the value",
			err:         Conflict("food", "Rice"),
			wantMessage: `food "Rice" already exists`,
		},
		{
			name:        "InvalidReference names the missing row",
			err:         InvalidReference("foodId", "food", 9),
			wantMessage: "food not found with id 9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("food", 1)
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestFieldIsRecorded(t *testing.T) {
	if err := ValidationFailed("date", "date is required"); err.Field != "date" {
		t.Errorf("Field = %q, want %q", err.Field, "date")
	}
	if err := InvalidReference("foodId", "food", 1); err.Field != "foodId" {
		t.Errorf("Field = %q, want %q", err.Field, "foodId")
	}
}
