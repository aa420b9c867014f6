package query

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundscope/funding-dashboard/internal/errors"
	"github.com/fundscope/funding-dashboard/internal/pipeline"
)

// FundingRecord is one entry of a company's funding history.
type FundingRecord struct {
	Date      time.Time       `json:"date"`
	Round     string          `json:"round"`
	Amount    decimal.Decimal `json:"amount"`
	Investors string          `json:"investors"`
}

// CompanyProfile aggregates every funding event whose startup name matches
// the query into one profile.
type CompanyProfile struct {
	Name             string          `json:"name"`
	Industry         string          `json:"industry"`
	Subindustry      string          `json:"subindustry"`
	Location         string          `json:"location"`
	TotalFunding     decimal.Decimal `json:"total_funding"`
	FundingRounds    int             `json:"funding_rounds"`
	FirstFundingDate time.Time       `json:"first_funding_date"`
	LastFundingDate  time.Time       `json:"last_funding_date"`
	History          []FundingRecord `json:"funding_history"`
}

// GetCompanyProfile looks up a company by case-insensitive substring match on
// the startup name. All matching rows form one pool; name, industry and
// location come from the most recent entry, which the pipeline's
// date-descending order puts first. Zero matches is the recoverable NotFound
// outcome.
func GetCompanyProfile(events []pipeline.Event, name string) (*CompanyProfile, error) {
	var matches []pipeline.Event
	for _, event := range events {
		if containsFold(event.Startup, name) {
			matches = append(matches, event)
		}
	}

	if len(matches) == 0 {
		return nil, errors.NewNotFoundError("company", name)
	}

	latest := matches[0]
	profile := &CompanyProfile{
		Name:             latest.Startup,
		Industry:         latest.Vertical,
		Subindustry:      latest.Subvertical,
		Location:         latest.City,
		TotalFunding:     decimal.Zero,
		FundingRounds:    len(matches),
		FirstFundingDate: matches[0].Date,
		LastFundingDate:  matches[0].Date,
		History:          make([]FundingRecord, 0, len(matches)),
	}

	for _, event := range matches {
		profile.TotalFunding = profile.TotalFunding.Add(event.Amount)
		if event.Date.Before(profile.FirstFundingDate) {
			profile.FirstFundingDate = event.Date
		}
		if event.Date.After(profile.LastFundingDate) {
			profile.LastFundingDate = event.Date
		}
		profile.History = append(profile.History, FundingRecord{
			Date:      event.Date,
			Round:     event.Round,
			Amount:    event.Amount,
			Investors: event.Investors,
		})
	}

	sort.SliceStable(profile.History, func(i, j int) bool {
		return profile.History[i].Date.Before(profile.History[j].Date)
	})

	return profile, nil
}
