package query

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fundscope/funding-dashboard/internal/errors"
	"github.com/fundscope/funding-dashboard/internal/pipeline"
)

// YearlyActivity is one year of an investor's deal flow.
type YearlyActivity struct {
	Year   int             `json:"year"`
	Deals  int             `json:"deals"`
	Amount decimal.Decimal `json:"amount"`
}

// InvestorProfile aggregates every stake whose investor name matches the
// query.
type InvestorProfile struct {
	Name                string           `json:"name"`
	TotalInvestments    int              `json:"total_investments"`
	TotalAmountInvested decimal.Decimal  `json:"total_amount_invested"`
	AvgInvestment       decimal.Decimal  `json:"avg_investment"`
	RecentInvestments   []pipeline.Stake `json:"recent_investments"`
	BiggestInvestments  []pipeline.Stake `json:"biggest_investments"`
	Sectors             map[string]int   `json:"sectors"`
	Stages              map[string]int   `json:"stages"`
	Cities              map[string]int   `json:"cities"`
	YearlyInvestments   []YearlyActivity `json:"yearly_investments"`
}

const profileHeadSize = 10

// GetInvestorProfile looks up an investor by case-insensitive substring match
// over the expanded stake set. Differently-cased spellings of one investor
// are distinct identities upstream, but a substring query may still pool
// them; totals are invariant either way. Zero matching stakes is the
// recoverable NotFound outcome.
func GetInvestorProfile(stakes []pipeline.Stake, name string) (*InvestorProfile, error) {
	var matches []pipeline.Stake
	for _, stake := range stakes {
		if containsFold(stake.Investor, name) {
			matches = append(matches, stake)
		}
	}

	if len(matches) == 0 {
		return nil, errors.NewNotFoundError("investor", name)
	}

	profile := &InvestorProfile{
		Name:                name,
		TotalInvestments:    len(matches),
		TotalAmountInvested: decimal.Zero,
		Sectors:             make(map[string]int),
		Stages:              make(map[string]int),
		Cities:              make(map[string]int),
	}

	yearly := make(map[int]*YearlyActivity)
	for _, stake := range matches {
		profile.TotalAmountInvested = profile.TotalAmountInvested.Add(stake.Amount)
		profile.Sectors[stake.Vertical]++
		profile.Stages[stake.Round]++
		profile.Cities[stake.City]++

		if _, ok := yearly[stake.Year]; !ok {
			yearly[stake.Year] = &YearlyActivity{Year: stake.Year, Amount: decimal.Zero}
		}
		yearly[stake.Year].Deals++
		yearly[stake.Year].Amount = yearly[stake.Year].Amount.Add(stake.Amount)
	}

	profile.AvgInvestment = profile.TotalAmountInvested.Div(decimal.NewFromInt(int64(len(matches))))

	recent := make([]pipeline.Stake, len(matches))
	copy(recent, matches)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	profile.RecentInvestments = head(recent, profileHeadSize)

	biggest := make([]pipeline.Stake, len(matches))
	copy(biggest, matches)
	sort.SliceStable(biggest, func(i, j int) bool {
		return biggest[i].Amount.GreaterThan(biggest[j].Amount)
	})
	profile.BiggestInvestments = head(biggest, profileHeadSize)

	profile.YearlyInvestments = make([]YearlyActivity, 0, len(yearly))
	for _, activity := range yearly {
		profile.YearlyInvestments = append(profile.YearlyInvestments, *activity)
	}
	sort.Slice(profile.YearlyInvestments, func(i, j int) bool {
		return profile.YearlyInvestments[i].Year < profile.YearlyInvestments[j].Year
	})

	return profile, nil
}

func head(stakes []pipeline.Stake, n int) []pipeline.Stake {
	if len(stakes) > n {
		return stakes[:n]
	}
	return stakes
}
