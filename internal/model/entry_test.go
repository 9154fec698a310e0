package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryMarshalJSON_KeepsMillisecondDigits(t *testing.T) {
	foodID := int64(3)
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"whole seconds", time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC), "2024-01-02T08:30:00.000Z"},
		{"trailing zero", time.Date(2024, 1, 2, 8, 30, 15, 250_000_000, time.UTC), "2024-01-02T08:30:15.250Z"},
		{"non-UTC input", time.Date(2024, 1, 2, 10, 30, 0, 0, time.FixedZone("CEST", 2*3600)), "2024-01-02T08:30:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(Entry{ID: 1, FoodID: &foodID, FoodName: "Rice", Date: tt.date})
			require.NoError(t, err)

			var got map[string]any
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, tt.want, got["date"])
			assert.EqualValues(t, 1, got["id"])
			assert.EqualValues(t, 3, got["food_id"])
			assert.Equal(t, "Rice", got["food_name"])
		})
	}
}

func TestEntryMarshalJSON_DetachedFoodIsNull(t *testing.T) {
	data, err := json.Marshal(Entry{ID: 2, FoodName: "Toast", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"food_id":null`)
}

func TestSummaryEntryMarshalJSON_KeepsRepeated(t *testing.T) {
	entry := Entry{ID: 5, FoodName: "Eggs", Date: time.Date(2024, 1, 11, 8, 0, 0, 0, time.UTC)}

	data, err := json.Marshal([]SummaryEntry{{Entry: entry, Repeated: true}})
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, true, got[0]["repeated"])
	assert.Equal(t, "2024-01-11T08:00:00.000Z", got[0]["date"])
	assert.Equal(t, "Eggs", got[0]["food_name"])
}
