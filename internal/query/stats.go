package query

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fundscope/funding-dashboard/internal/pipeline"
)

// Overview is the headline metric block of the market statistics page.
type Overview struct {
	TotalDeals          int             `json:"total_deals"`
	TotalStartups       int             `json:"total_startups"`
	TotalFunding        decimal.Decimal `json:"total_funding"`
	AvgFunding          decimal.Decimal `json:"avg_funding"`
	LargestRound        decimal.Decimal `json:"largest_round"`
	LargestRoundStartup string          `json:"largest_round_startup"`
	ActiveInvestors     int             `json:"active_investors"`
}

// MarketOverview computes the headline metrics over the whole dataset.
func MarketOverview(events []pipeline.Event, stakes []pipeline.Stake) Overview {
	overview := Overview{
		TotalDeals:   len(events),
		TotalFunding: decimal.Zero,
		AvgFunding:   decimal.Zero,
		LargestRound: decimal.Zero,
	}

	startups := make(map[string]bool)
	for _, event := range events {
		startups[event.Startup] = true
		overview.TotalFunding = overview.TotalFunding.Add(event.Amount)
		if event.Amount.GreaterThan(overview.LargestRound) {
			overview.LargestRound = event.Amount
			overview.LargestRoundStartup = event.Startup
		}
	}
	overview.TotalStartups = len(startups)

	if len(events) > 0 {
		overview.AvgFunding = overview.TotalFunding.Div(decimal.NewFromInt(int64(len(events))))
	}

	investors := make(map[string]bool)
	for _, stake := range stakes {
		investors[stake.Investor] = true
	}
	overview.ActiveInvestors = len(investors)

	return overview
}

// MonthlyStat is one calendar month's deal flow.
type MonthlyStat struct {
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Deals  int             `json:"deals"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthlyTrend aggregates deal count and funding amount per calendar month,
// in chronological order.
func MonthlyTrend(events []pipeline.Event) []MonthlyStat {
	type yearMonth struct{ year, month int }

	grouped := make(map[yearMonth]*MonthlyStat)
	for _, event := range events {
		key := yearMonth{event.Year, event.Month}
		stat, ok := grouped[key]
		if !ok {
			stat = &MonthlyStat{Year: event.Year, Month: event.Month, Amount: decimal.Zero}
			grouped[key] = stat
		}
		stat.Deals++
		stat.Amount = stat.Amount.Add(event.Amount)
	}

	trend := make([]MonthlyStat, 0, len(grouped))
	for _, stat := range grouped {
		trend = append(trend, *stat)
	}
	sort.Slice(trend, func(i, j int) bool {
		if trend[i].Year != trend[j].Year {
			return trend[i].Year < trend[j].Year
		}
		return trend[i].Month < trend[j].Month
	})

	return trend
}

// GroupStat is one row of a categorical breakdown (sector, stage, or city).
type GroupStat struct {
	Name         string          `json:"name"`
	Deals        int             `json:"deals"`
	TotalFunding decimal.Decimal `json:"total_funding"`
	AvgFunding   decimal.Decimal `json:"avg_funding"`
}

// SectorStats breaks the dataset down by vertical, total funding descending.
func SectorStats(events []pipeline.Event) []GroupStat {
	return groupBy(events, func(e pipeline.Event) string { return e.Vertical })
}

// StageStats breaks the dataset down by canonical funding round, total
// funding descending.
func StageStats(events []pipeline.Event) []GroupStat {
	return groupBy(events, func(e pipeline.Event) string { return e.Round })
}

// CityStats breaks the dataset down by city, total funding descending.
func CityStats(events []pipeline.Event) []GroupStat {
	return groupBy(events, func(e pipeline.Event) string { return e.City })
}

func groupBy(events []pipeline.Event, key func(pipeline.Event) string) []GroupStat {
	grouped := make(map[string]*GroupStat)
	var order []string

	for _, event := range events {
		name := key(event)
		stat, ok := grouped[name]
		if !ok {
			stat = &GroupStat{Name: name, TotalFunding: decimal.Zero, AvgFunding: decimal.Zero}
			grouped[name] = stat
			order = append(order, name)
		}
		stat.Deals++
		stat.TotalFunding = stat.TotalFunding.Add(event.Amount)
	}

	stats := make([]GroupStat, 0, len(order))
	for _, name := range order {
		stat := grouped[name]
		stat.AvgFunding = stat.TotalFunding.Div(decimal.NewFromInt(int64(stat.Deals)))
		stats = append(stats, *stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalFunding.GreaterThan(stats[j].TotalFunding)
	})

	return stats
}

// TopStartup is one row of the top-performer table.
type TopStartup struct {
	Startup      string          `json:"startup"`
	TotalFunding decimal.Decimal `json:"total_funding"`
	Vertical     string          `json:"vertical"`
	City         string          `json:"city"`
}

// TopStartups ranks startups by summed funding, optionally restricted to one
// year (year == 0 means all years).
func TopStartups(events []pipeline.Event, year, limit int) []TopStartup {
	grouped := make(map[string]*TopStartup)
	var order []string

	for _, event := range events {
		if year != 0 && event.Year != year {
			continue
		}
		startup, ok := grouped[event.Startup]
		if !ok {
			startup = &TopStartup{
				Startup:      event.Startup,
				TotalFunding: decimal.Zero,
				Vertical:     event.Vertical,
				City:         event.City,
			}
			grouped[event.Startup] = startup
			order = append(order, event.Startup)
		}
		startup.TotalFunding = startup.TotalFunding.Add(event.Amount)
	}

	top := make([]TopStartup, 0, len(order))
	for _, name := range order {
		top = append(top, *grouped[name])
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TotalFunding.GreaterThan(top[j].TotalFunding)
	})

	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return top
}

// TopInvestor is one row of the top-investor table.
type TopInvestor struct {
	Investor        string          `json:"investor"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	InvestmentCount int             `json:"investment_count"`
}

// TopInvestors ranks expanded investors by total invested amount.
func TopInvestors(stakes []pipeline.Stake, limit int) []TopInvestor {
	grouped := make(map[string]*TopInvestor)
	var order []string

	for _, stake := range stakes {
		investor, ok := grouped[stake.Investor]
		if !ok {
			investor = &TopInvestor{Investor: stake.Investor, TotalAmount: decimal.Zero}
			grouped[stake.Investor] = investor
			order = append(order, stake.Investor)
		}
		investor.TotalAmount = investor.TotalAmount.Add(stake.Amount)
		investor.InvestmentCount++
	}

	top := make([]TopInvestor, 0, len(order))
	for _, name := range order {
		top = append(top, *grouped[name])
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TotalAmount.GreaterThan(top[j].TotalAmount)
	})

	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return top
}

// HeatmapCell is one (year, month) cell of the funding heatmap.
type HeatmapCell struct {
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Deals  int             `json:"deals"`
	Amount decimal.Decimal `json:"amount"`
}

// FundingHeatmap aggregates funding per (year, month) cell, chronological.
func FundingHeatmap(events []pipeline.Event) []HeatmapCell {
	trend := MonthlyTrend(events)

	cells := make([]HeatmapCell, 0, len(trend))
	for _, stat := range trend {
		cells = append(cells, HeatmapCell{
			Year:   stat.Year,
			Month:  stat.Month,
			Deals:  stat.Deals,
			Amount: stat.Amount,
		})
	}
	return cells
}
