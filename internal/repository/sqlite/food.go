package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/food-rotation/internal/apperror"
	"github.com/sakif/food-rotation/internal/model"
	"github.com/sakif/food-rotation/internal/repository"
)

var _ repository.FoodRepository = (*DB)(nil)

// ListFoods returns the whole catalog ordered by name.
func (db *DB) ListFoods(ctx context.Context) ([]model.Food, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name FROM foods ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing foods: %w", err)
	}
	defer rows.Close()

	foods := []model.Food{}
	for rows.Next() {
		var f model.Food
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning food row: %w", err)
		}
		foods = append(foods, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating foods: %w", err)
	}

	return foods, nil
}

// GetFood returns apperror.ErrNotFound if no food has the given id.
func (db *DB) GetFood(ctx context.Context, id int64) (*model.Food, error) {
	var f model.Food
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM foods WHERE id = ?`, id,
	).Scan(&f.ID, &f.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("food", id)
		}
		return nil, fmt.Errorf("sqlite: getting food %d: %w", id, err)
	}
	return &f, nil
}

// FindFoodByName looks a food up ignoring case. An exact match wins over a
// case-insensitive one when both exist.
//
// The UNIQUE index on name is case-sensitive, so "rice" and "Rice" can both
// be in the catalog. COLLATE NOCASE finds either; `ORDER BY name = ? DESC`
// puts the one the user typed exactly first.
func (db *DB) FindFoodByName(ctx context.Context, name string) (*model.Food, error) {
	var f model.Food
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM foods
		 WHERE name = ? COLLATE NOCASE
		 ORDER BY name = ? DESC, id
		 LIMIT 1`,
		name, name,
	).Scan(&f.ID, &f.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("food %q not found", name),
			}
		}
		return nil, fmt.Errorf("sqlite: finding food %q: %w", name, err)
	}
	return &f, nil
}

// CreateFood inserts food and sets its ID. A taken name yields
// apperror.ErrConflict.
func (db *DB) CreateFood(ctx context.Context, food *model.Food) error {
	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO foods (name) VALUES (?)`, food.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("food", food.Name)
		}
		return fmt.Errorf("sqlite: creating food: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading food id: %w", err)
	}
	food.ID = id
	return nil
}

// RenameFood updates the food's name and propagates it onto the entries that
// still reference the food. Detached entries keep the name they had.
//
// WHY A TRANSACTION?
// entries.food_name is a copy of foods.name (see migrate). If the second
// UPDATE failed after the first committed, the catalog would say "Brown
// Rice" while the log and the summary still said "Rice", and nothing would
// ever reconcile them. Inside one transaction both names change or neither
// does. A duplicate name fails the first statement, so entries are never
// touched on a conflict.
func (db *DB) RenameFood(ctx context.Context, food *model.Food) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE foods SET name = ? WHERE id = ?`, food.Name, food.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return apperror.Conflict("food", food.Name)
			}
			return fmt.Errorf("sqlite: renaming food %d: %w", food.ID, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: checking rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return apperror.NotFound("food", food.ID)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE entries SET food_name = ? WHERE food_id = ?`, food.Name, food.ID,
		); err != nil {
			return fmt.Errorf("sqlite: propagating name of food %d: %w", food.ID, err)
		}
		return nil
	})
}

// DeleteFood removes a food. Deleting an unknown id is not an error.
//
// removeEntries chooses what happens to the food's history:
//   - true:  its entries are deleted with it
//   - false: its entries are detached (food_id = NULL) and keep food_name
//
// ORDER INSIDE THE TRANSACTION:
// Entries are handled first. With foreign keys on, deleting the food while
// entries still point at it would fail, and doing the two steps outside a
// transaction could leave a food deleted with dangling references, or
// entries detached from a food that still exists.
func (db *DB) DeleteFood(ctx context.Context, id int64, removeEntries bool) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if removeEntries {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM entries WHERE food_id = ?`, id,
			); err != nil {
				return fmt.Errorf("sqlite: deleting entries of food %d: %w", id, err)
			}
		} else {
			if _, err := tx.ExecContext(ctx,
				`UPDATE entries SET food_id = NULL WHERE food_id = ?`, id,
			); err != nil {
				return fmt.Errorf("sqlite: detaching entries of food %d: %w", id, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM foods WHERE id = ?`, id,
		); err != nil {
			return fmt.Errorf("sqlite: deleting food %d: %w", id, err)
		}
		return nil
	})
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on any error. fn's error is returned unwrapped so domain errors
// (NotFound, Conflict) still match with errors.Is.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}
