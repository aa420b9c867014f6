package query

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundscope/funding-dashboard/internal/pipeline"
)

// SimilarCompany is one row of a similar-company search result.
type SimilarCompany struct {
	Startup         string          `json:"startup"`
	TotalFunding    decimal.Decimal `json:"total_funding"`
	Vertical        string          `json:"vertical"`
	Subvertical     string          `json:"subvertical"`
	City            string          `json:"city"`
	LastFundingDate time.Time       `json:"last_funding_date"`
}

// FindSimilarCompanies finds companies sharing the target's vertical,
// sub-vertical, or city. The target is the first substring match; rows whose
// startup matches the original query are excluded from the candidate pool.
// Candidates are grouped by startup, ordered by summed funding descending.
// An unmatched query yields an empty list, not an error.
func FindSimilarCompanies(events []pipeline.Event, name string, limit int) []SimilarCompany {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	var target *pipeline.Event
	for i := range events {
		if containsFold(events[i].Startup, name) {
			target = &events[i]
			break
		}
	}
	if target == nil {
		return []SimilarCompany{}
	}

	grouped := make(map[string]*SimilarCompany)
	var order []string

	for _, event := range events {
		if containsFold(event.Startup, name) {
			continue
		}
		if event.Vertical != target.Vertical &&
			event.Subvertical != target.Subvertical &&
			event.City != target.City {
			continue
		}

		company, ok := grouped[event.Startup]
		if !ok {
			company = &SimilarCompany{
				Startup:         event.Startup,
				TotalFunding:    decimal.Zero,
				Vertical:        event.Vertical,
				Subvertical:     event.Subvertical,
				City:            event.City,
				LastFundingDate: event.Date,
			}
			grouped[event.Startup] = company
			order = append(order, event.Startup)
		}

		company.TotalFunding = company.TotalFunding.Add(event.Amount)
		if event.Date.After(company.LastFundingDate) {
			company.LastFundingDate = event.Date
		}
	}

	similar := make([]SimilarCompany, 0, len(order))
	for _, startup := range order {
		similar = append(similar, *grouped[startup])
	}

	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].TotalFunding.GreaterThan(similar[j].TotalFunding)
	})

	if len(similar) > limit {
		similar = similar[:limit]
	}
	return similar
}

// SimilarInvestor is one row of a similar-investor search result.
type SimilarInvestor struct {
	Investor        string          `json:"investor"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	InvestmentCount int             `json:"investment_count"`
	Similarity      float64         `json:"similarity"`
}

// investorAggregate accumulates one investor's sector and stage frequencies
// plus deal totals over a single pass of the stake set.
type investorAggregate struct {
	sectors *frequencyCounter
	stages  *frequencyCounter
	total   decimal.Decimal
	count   int
}

// FindSimilarInvestors scores every other investor against the target's
// profile: the top-3 most frequent sectors and top-3 most frequent stages
// among the target's stakes. The similarity score is the mean of the Jaccard
// overlaps of the sector sets and the stage sets, in [0, 1]. Investors whose
// name matches the original query are excluded. An unmatched query yields an
// empty list, not an error.
func FindSimilarInvestors(stakes []pipeline.Stake, name string, limit int) []SimilarInvestor {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	targetSectors := newFrequencyCounter()
	targetStages := newFrequencyCounter()
	targetMatched := false
	for _, stake := range stakes {
		if containsFold(stake.Investor, name) {
			targetSectors.Add(stake.Vertical)
			targetStages.Add(stake.Round)
			targetMatched = true
		}
	}
	if !targetMatched {
		return []SimilarInvestor{}
	}

	targetSectorSet := targetSectors.TopSet(3)
	targetStageSet := targetStages.TopSet(3)

	aggregates := make(map[string]*investorAggregate)
	var order []string
	for _, stake := range stakes {
		agg, ok := aggregates[stake.Investor]
		if !ok {
			agg = &investorAggregate{
				sectors: newFrequencyCounter(),
				stages:  newFrequencyCounter(),
				total:   decimal.Zero,
			}
			aggregates[stake.Investor] = agg
			order = append(order, stake.Investor)
		}
		agg.sectors.Add(stake.Vertical)
		agg.stages.Add(stake.Round)
		agg.total = agg.total.Add(stake.Amount)
		agg.count++
	}

	similar := make([]SimilarInvestor, 0, len(order))
	for _, investor := range order {
		if containsFold(investor, name) {
			continue
		}
		agg := aggregates[investor]
		score := (jaccard(targetSectorSet, agg.sectors.TopSet(3)) +
			jaccard(targetStageSet, agg.stages.TopSet(3))) / 2

		similar = append(similar, SimilarInvestor{
			Investor:        investor,
			TotalAmount:     agg.total,
			InvestmentCount: agg.count,
			Similarity:      score,
		})
	}

	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].Similarity > similar[j].Similarity
	})

	if len(similar) > limit {
		similar = similar[:limit]
	}
	return similar
}

// jaccard computes |a∩b| / |a∪b|. The Jaccard index of two empty sets is
// undefined; it degrades to 0 here to avoid a division by zero.
func jaccard(a, b map[string]bool) float64 {
	union := len(a)
	intersection := 0
	for value := range b {
		if a[value] {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// frequencyCounter counts string occurrences while remembering first-seen
// order, so top-k extraction is deterministic under ties.
type frequencyCounter struct {
	counts map[string]int
	order  []string
}

func newFrequencyCounter() *frequencyCounter {
	return &frequencyCounter{counts: make(map[string]int)}
}

func (f *frequencyCounter) Add(value string) {
	if _, ok := f.counts[value]; !ok {
		f.order = append(f.order, value)
	}
	f.counts[value]++
}

// TopSet returns the k most frequent values as a set, ties resolved by
// first occurrence.
func (f *frequencyCounter) TopSet(k int) map[string]bool {
	ranked := make([]string, len(f.order))
	copy(ranked, f.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return f.counts[ranked[i]] > f.counts[ranked[j]]
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}

	set := make(map[string]bool, len(ranked))
	for _, value := range ranked {
		set[value] = true
	}
	return set
}
