package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/sakif/food-rotation/internal/apperror"
	"github.com/sakif/food-rotation/internal/model"
	"github.com/sakif/food-rotation/internal/repository"
	"github.com/sakif/food-rotation/internal/rotation"
)

var _ repository.EntryRepository = (*DB)(nil)

var entryColumns = []string{"id", "food_id", "food_name", "date"}

// CreateEntry inserts entry and sets its ID. The caller is responsible for
// resolving FoodID and filling FoodName with the food's current name.
func (db *DB) CreateEntry(ctx context.Context, entry *model.Entry) error {
	var foodID sql.NullInt64
	if entry.FoodID != nil {
		foodID = sql.NullInt64{Int64: *entry.FoodID, Valid: true}
	}

	query, args, err := builder.Insert("entries").
		Columns("food_id", "food_name", "date").
		Values(foodID, entry.FoodName, rotation.FormatTimestamp(entry.Date)).
		ToSql()
	if err != nil {
		return fmt.Errorf("sqlite: building entry insert: %w", err)
	}

	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: creating entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading entry id: %w", err)
	}
	entry.ID = id
	return nil
}

// ListEntries returns entries newest first, optionally bounded below by
// filter.Since (inclusive, full timestamp precision).
func (db *DB) ListEntries(ctx context.Context, filter repository.EntryFilter) ([]model.Entry, error) {
	q := builder.Select(entryColumns...).
		From("entries").
		OrderBy("date DESC", "id DESC")
	if !filter.Since.IsZero() {
		q = q.Where(sq.GtOrEq{"date": rotation.FormatTimestamp(filter.Since)})
	}

	entries, err := db.queryEntries(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing entries: %w", err)
	}
	return entries, nil
}

// UpdateEntryDate reschedules an entry. Unknown ids yield apperror.ErrNotFound.
func (db *DB) UpdateEntryDate(ctx context.Context, id int64, date time.Time) error {
	query, args, err := builder.Update("entries").
		Set("date", rotation.FormatTimestamp(date)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("sqlite: building entry update: %w", err)
	}

	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: updating entry %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("entry", id)
	}
	return nil
}

// DeleteEntry removes an entry. Deleting an unknown id is not an error.
func (db *DB) DeleteEntry(ctx context.Context, id int64) error {
	query, args, err := builder.Delete("entries").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("sqlite: building entry delete: %w", err)
	}

	if _, err := db.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlite: deleting entry %d: %w", id, err)
	}
	return nil
}

// queryEntries runs a SELECT over entryColumns and scans every row.
func (db *DB) queryEntries(ctx context.Context, q sq.SelectBuilder) ([]model.Entry, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (model.Entry, error) {
	var (
		e      model.Entry
		foodID sql.NullInt64
		date   string
	)
	if err := rows.Scan(&e.ID, &foodID, &e.FoodName, &date); err != nil {
		return model.Entry{}, fmt.Errorf("scanning entry row: %w", err)
	}
	if foodID.Valid {
		id := foodID.Int64
		e.FoodID = &id
	}

	t, err := rotation.ParseTimestamp(date)
	if err != nil {
		return model.Entry{}, fmt.Errorf("entry %d: %w", e.ID, err)
	}
	e.Date = t
	return e, nil
}
