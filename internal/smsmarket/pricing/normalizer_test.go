package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sms-market/internal/common/clientprotocol"
	"sms-market/internal/common/fivesimprotocol"
	"sms-market/internal/common/smsmanprotocol"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name     string
		prices   fivesimprotocol.PriceMap
		filter   Filter
		expected []clientprotocol.PriceEntry
	}{
		{
			name: "single leaf with country filter",
			prices: fivesimprotocol.PriceMap{
				"usa": {
					"facebook": {
						"virtual51": {Cost: 12, Count: 3, Rate: 0},
					},
				},
			},
			filter: Filter{Country: "usa", Product: "facebook"},
			expected: []clientprotocol.PriceEntry{
				{Country: "usa", Title: "facebook", ID: "usa-facebook-virtual51", Price: 12, Stock: 3, Rate: 0},
			},
		},
		{
			name: "full flatten is sorted at every level",
			prices: fivesimprotocol.PriceMap{
				"russia": {
					"telegram": {
						"beeline": {Cost: 20, Count: 100, Rate: 91.5},
						"any":     {Cost: 15, Count: 211, Rate: 88},
					},
				},
				"england": {
					"telegram": {
						"virtual4": {Cost: 30, Count: 7},
					},
				},
			},
			filter: Filter{},
			expected: []clientprotocol.PriceEntry{
				{Country: "england", Title: "telegram", ID: "england-telegram-virtual4", Price: 30, Stock: 7},
				{Country: "russia", Title: "telegram", ID: "russia-telegram-any", Price: 15, Stock: 211, Rate: 88},
				{Country: "russia", Title: "telegram", ID: "russia-telegram-beeline", Price: 20, Stock: 100, Rate: 91.5},
			},
		},
		{
			name: "country filter drops other countries",
			prices: fivesimprotocol.PriceMap{
				"usa":    {"facebook": {"virtual51": {Cost: 12, Count: 3}}},
				"russia": {"facebook": {"any": {Cost: 5, Count: 9}}},
			},
			filter: Filter{Country: "russia"},
			expected: []clientprotocol.PriceEntry{
				{Country: "russia", Title: "facebook", ID: "russia-facebook-any", Price: 5, Stock: 9},
			},
		},
		{
			name:     "empty input yields empty list",
			prices:   fivesimprotocol.PriceMap{},
			filter:   Filter{},
			expected: []clientprotocol.PriceEntry{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Flatten(test.prices, test.filter))
		})
	}
}

func TestFlattenProducesOneEntryPerTriple(t *testing.T) {
	prices := fivesimprotocol.PriceMap{
		"usa": {
			"facebook": {"virtual51": {Cost: 12, Count: 3}, "virtual8": {Cost: 9, Count: 1}},
			"telegram": {"virtual51": {Cost: 22, Count: 5}},
		},
		"england": {
			"facebook": {"virtual51": {Cost: 11, Count: 2}},
		},
	}

	entries := Flatten(prices, Filter{})
	require.Len(t, entries, 4)

	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		_, duplicate := seen[entry.ID]
		assert.False(t, duplicate, "id %q appears twice", entry.ID)
		seen[entry.ID] = struct{}{}
	}
}

func TestFlattenIsStableAcrossCalls(t *testing.T) {
	prices := fivesimprotocol.PriceMap{
		"usa":     {"facebook": {"virtual51": {Cost: 12, Count: 3}}},
		"russia":  {"telegram": {"any": {Cost: 5, Count: 9}}},
		"england": {"whatsapp": {"virtual4": {Cost: 30, Count: 7}}},
	}

	first := Flatten(prices, Filter{})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Flatten(prices, Filter{}))
	}
}

func TestFlattenRows(t *testing.T) {
	rows := []smsmanprotocol.PriceRow{
		{CountryID: 7, ApplicationID: 2, Cost: 0.21, Count: 140},
		{CountryID: 1, ApplicationID: 5, Cost: 0.18, Count: 12},
	}

	entries := FlattenRows(rows)

	expected := []clientprotocol.PriceEntry{
		{Country: "1", Title: "5", ID: "1-5-smsman", Price: 0.18, Stock: 12},
		{Country: "7", Title: "2", ID: "7-2-smsman", Price: 0.21, Stock: 140},
	}
	assert.Equal(t, expected, entries)
}
