package pricing

import (
	"fmt"
	"sort"
	"strconv"

	"sms-market/internal/common/clientprotocol"
	"sms-market/internal/common/fivesimprotocol"
	"sms-market/internal/common/smsmanprotocol"
)

// Filter narrows a flatten pass. Zero value means full flatten.
type Filter struct {
	Country string
	Product string
}

func (f Filter) matchCountry(country string) bool {
	return f.Country == "" || f.Country == country
}

func (f Filter) matchProduct(product string) bool {
	return f.Product == "" || f.Product == product
}

// Flatten reshapes the vendor's country -> product -> operator nesting
// into the uniform flat list the frontend consumes. Keys are visited in
// sorted order so the output and the generated ids are stable across
// calls; a missing rate stays 0.
func Flatten(prices fivesimprotocol.PriceMap, filter Filter) []clientprotocol.PriceEntry {
	result := make([]clientprotocol.PriceEntry, 0)
	for _, country := range sortedKeys(prices) {
		if !filter.matchCountry(country) {
			continue
		}
		products := prices[country]
		for _, product := range sortedKeys(products) {
			if !filter.matchProduct(product) {
				continue
			}
			operators := products[product]
			for _, operator := range sortedKeys(operators) {
				leaf := operators[operator]
				result = append(result, clientprotocol.PriceEntry{
					Country: country,
					Title:   product,
					ID:      entryID(country, product, operator),
					Price:   leaf.Cost,
					Stock:   leaf.Count,
					Rate:    leaf.Rate,
				})
			}
		}
	}
	return result
}

// FlattenRows maps the other vendor's flat listing into the same shape.
// Field-name differences between the vendors end here.
func FlattenRows(rows []smsmanprotocol.PriceRow) []clientprotocol.PriceEntry {
	result := make([]clientprotocol.PriceEntry, 0, len(rows))
	for _, row := range rows {
		country := strconv.Itoa(row.CountryID)
		title := strconv.Itoa(row.ApplicationID)
		result = append(result, clientprotocol.PriceEntry{
			Country: country,
			Title:   title,
			ID:      entryID(country, title, "smsman"),
			Price:   row.Cost,
			Stock:   row.Count,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

func entryID(country, product, operator string) string {
	return fmt.Sprintf("%s-%s-%s", country, product, operator)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
