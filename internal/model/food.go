// Package model defines the data structures shared by the store, service and
// HTTP layers.
package model

// Food is a catalog item. Name is trimmed and unique (case-sensitive).
type Food struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FoodRotation is a food annotated with its rotation state as of a given day.
//
// NextAvailable is a calendar date (YYYY-MM-DD). DaysUntil is never negative;
// zero means the food can be eaten today.
type FoodRotation struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	LastEaten      *string `json:"last_eaten"`
	NextAvailable  string  `json:"next_available"`
	DaysUntil      int     `json:"days_until"`
	AvailableToday bool    `json:"available_today"`
}
