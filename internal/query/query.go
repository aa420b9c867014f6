// Package query implements the lookup and aggregation operations consumed by
// the dashboard pages: company profiles, investor profiles, similarity search,
// aggregate market statistics, and the enumeration helpers behind UI pickers.
//
// Every operation is a pure function of (dataset, parameters): nothing in
// this package mutates its input, so all operations are safe to invoke
// concurrently over one shared snapshot. Output is plain structured data;
// formatting is a presentation concern.
package query

import "strings"

// DefaultSimilarLimit is how many similar entities a search returns when the
// caller does not ask for a specific count.
const DefaultSimilarLimit = 5

// containsFold reports whether s contains substr case-insensitively. Entity
// lookups deliberately use substring containment rather than exact match:
// several companies can share one query pool.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
