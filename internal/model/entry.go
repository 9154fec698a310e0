package model

import (
	"encoding/json"
	"time"
)

// TimestampLayout is how entry dates are written, both in the database and
// on the wire: UTC, always three millisecond digits, "Z" suffix.
//
// WHY FIXED WIDTH?
// Every stored date has the same length and the same zone, so comparing the
// strings compares the instants. That lets SQLite order and filter the
// date column as plain TEXT (ORDER BY date DESC, date >= ?) without parsing,
// and it matches what a JavaScript client gets from Date.toISOString().
// time.Time's default JSON encoding trims trailing zeros ("…15.25Z",
// "…00Z"), which would break both properties, so Entry encodes its date
// explicitly.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry records that a food was eaten at a point in time.
//
// WHY IS FoodName STORED AND NOT JOINED?
// An entry must keep a readable label even after its food is gone. A
// detaching delete clears FoodID but leaves FoodName, so the history still
// says "Rice". While the food exists, renames are pushed down to its entries
// (see the rename in repository/sqlite), so the copy never drifts from the
// catalog for attached entries.
type Entry struct {
	ID       int64     `json:"id"`
	FoodID   *int64    `json:"food_id"` // nil once the food was deleted with detach
	FoodName string    `json:"food_name"`
	Date     time.Time `json:"date"`
}

// entryFields has Entry's fields but none of its methods, so MarshalJSON can
// embed it without recursing.
type entryFields Entry

// MarshalJSON writes Date in TimestampLayout.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		entryFields
		Date string `json:"date"`
	}{
		entryFields: entryFields(e),
		Date:        e.Date.UTC().Format(TimestampLayout),
	})
}

// SummaryEntry is an entry inside the recent-entries window. Repeated is true
// when the same food name occurs more than once in that window.
type SummaryEntry struct {
	Entry
	Repeated bool `json:"repeated"`
}

// MarshalJSON is needed because the promoted Entry.MarshalJSON would
// otherwise drop Repeated.
func (s SummaryEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		entryFields
		Date     string `json:"date"`
		Repeated bool   `json:"repeated"`
	}{
		entryFields: entryFields(s.Entry),
		Date:        s.Date.UTC().Format(TimestampLayout),
		Repeated:    s.Repeated,
	})
}
