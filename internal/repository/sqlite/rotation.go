package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/sakif/food-rotation/internal/model"
	"github.com/sakif/food-rotation/internal/repository"
	"github.com/sakif/food-rotation/internal/rotation"
)

var _ repository.RotationRepository = (*DB)(nil)

// LastEatenByFood returns every food with the timestamp of its latest entry,
// ordered by name. Detached entries count for no food.
//
// MAX works on the TEXT column because stored dates are fixed-width UTC, so
// the lexicographic maximum is the latest instant. LEFT JOIN keeps foods
// with no entries; their MAX is NULL and LastEaten stays nil.
func (db *DB) LastEatenByFood(ctx context.Context) ([]repository.LastEaten, error) {
	query, args, err := builder.Select("f.id", "f.name", "MAX(e.date)").
		From("foods f").
		LeftJoin("entries e ON e.food_id = f.id").
		GroupBy("f.id", "f.name").
		OrderBy("f.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building last-eaten query: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying last eaten: %w", err)
	}
	defer rows.Close()

	result := []repository.LastEaten{}
	for rows.Next() {
		var (
			le   repository.LastEaten
			last sql.NullString
		)
		if err := rows.Scan(&le.Food.ID, &le.Food.Name, &last); err != nil {
			return nil, fmt.Errorf("sqlite: scanning last-eaten row: %w", err)
		}
		if last.Valid {
			t, err := rotation.ParseTimestamp(last.String)
			if err != nil {
				return nil, fmt.Errorf("sqlite: food %d: %w", le.Food.ID, err)
			}
			le.LastEaten = &t
		}
		result = append(result, le)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating last eaten: %w", err)
	}
	return result, nil
}

// AvailableFoods returns, by name, the foods that may be eaten on today: never
// eaten, or last eaten on or before the rotation cutoff day.
//
// The subquery takes MAX(date) per food before filtering. Filtering first
// would be wrong: a food with one old entry and one recent entry has an old
// entry that passes the cutoff, yet it is not available.
//
// date(e.last_date) truncates the stored timestamp to its calendar day, so
// an entry at 23:59 counts the same as one at 00:01.
func (db *DB) AvailableFoods(ctx context.Context, today time.Time) ([]model.Food, error) {
	cutoff := rotation.FormatDate(rotation.RotationCutoff(today))

	query, args, err := builder.Select("f.id", "f.name").
		From("foods f").
		LeftJoin(`(
			SELECT food_id, MAX(date) AS last_date
			FROM entries
			WHERE food_id IS NOT NULL
			GROUP BY food_id
		) e ON e.food_id = f.id`).
		Where(sq.Or{
			sq.Eq{"e.last_date": nil},
			sq.Expr("date(e.last_date) <= date(?)", cutoff),
		}).
		OrderBy("f.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: building available query: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying available foods: %w", err)
	}
	defer rows.Close()

	foods := []model.Food{}
	for rows.Next() {
		var f model.Food
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning available food: %w", err)
		}
		foods = append(foods, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating available foods: %w", err)
	}
	return foods, nil
}

// EntriesSince returns entries whose calendar date is on or after day,
// newest first. Comparison is by date only; time of day is ignored.
func (db *DB) EntriesSince(ctx context.Context, day time.Time) ([]model.Entry, error) {
	q := builder.Select(entryColumns...).
		From("entries").
		Where(sq.Expr("date(date) >= date(?)", rotation.FormatDate(day))).
		OrderBy("date DESC", "id DESC")

	entries, err := db.queryEntries(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing entries since %s: %w", rotation.FormatDate(day), err)
	}
	return entries, nil
}
