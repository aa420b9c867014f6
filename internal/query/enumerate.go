package query

import (
	"sort"

	"github.com/fundscope/funding-dashboard/internal/pipeline"
)

// CompanyNames returns the distinct startup names, sorted, for UI pickers.
func CompanyNames(events []pipeline.Event) []string {
	seen := make(map[string]bool)
	var names []string
	for _, event := range events {
		if !seen[event.Startup] {
			seen[event.Startup] = true
			names = append(names, event.Startup)
		}
	}
	sort.Strings(names)
	return names
}

// InvestorNames returns the distinct investor names from the expanded stake
// set, sorted. Unknown tokens were already discarded during expansion.
func InvestorNames(stakes []pipeline.Stake) []string {
	seen := make(map[string]bool)
	var names []string
	for _, stake := range stakes {
		if !seen[stake.Investor] {
			seen[stake.Investor] = true
			names = append(names, stake.Investor)
		}
	}
	sort.Strings(names)
	return names
}

// Years returns the distinct funding years, ascending.
func Years(events []pipeline.Event) []int {
	seen := make(map[int]bool)
	var years []int
	for _, event := range events {
		if !seen[event.Year] {
			seen[event.Year] = true
			years = append(years, event.Year)
		}
	}
	sort.Ints(years)
	return years
}
