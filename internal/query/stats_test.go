package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundscope/funding-dashboard/internal/pipeline"
)

func TestMarketOverview(t *testing.T) {
	overview := MarketOverview(fixtureEvents(), fixtureStakes())

	assert.Equal(t, 6, overview.TotalDeals)
	assert.Equal(t, 4, overview.TotalStartups)
	assert.True(t, overview.TotalFunding.Equal(amt("245")))
	assert.True(t, overview.LargestRound.Equal(amt("100")))
	assert.Equal(t, "PayQuick", overview.LargestRoundStartup)
	assert.Equal(t, 3, overview.ActiveInvestors)
}

func TestMarketOverviewEmpty(t *testing.T) {
	overview := MarketOverview(nil, nil)

	assert.Equal(t, 0, overview.TotalDeals)
	assert.True(t, overview.AvgFunding.IsZero())
	assert.Equal(t, 0, overview.ActiveInvestors)
}

func TestMonthlyTrend(t *testing.T) {
	trend := MonthlyTrend(fixtureEvents())

	require.Len(t, trend, 6)
	assert.Equal(t, 2018, trend[0].Year)
	assert.Equal(t, 7, trend[0].Month)
	assert.Equal(t, 2020, trend[5].Year)
	assert.Equal(t, 6, trend[5].Month)
	assert.True(t, trend[5].Amount.Equal(amt("100")))
}

func TestMonthlyTrendGroups(t *testing.T) {
	events := []pipeline.Event{
		fixtureEvent("A", day(2020, 1, 5), "10", "FinTech", "X", "Mumbai", "Seed", "I"),
		fixtureEvent("B", day(2020, 1, 20), "30", "FinTech", "X", "Mumbai", "Seed", "I"),
	}

	trend := MonthlyTrend(events)
	require.Len(t, trend, 1)
	assert.Equal(t, 2, trend[0].Deals)
	assert.True(t, trend[0].Amount.Equal(amt("40")))
}

func TestSectorStats(t *testing.T) {
	sectors := SectorStats(fixtureEvents())

	require.Len(t, sectors, 2)
	assert.Equal(t, "FinTech", sectors[0].Name)
	assert.Equal(t, 4, sectors[0].Deals)
	assert.True(t, sectors[0].TotalFunding.Equal(amt("190")))
	assert.True(t, sectors[0].AvgFunding.Equal(amt("47.5")))
	assert.Equal(t, "E-Commerce", sectors[1].Name)
}

func TestStageStats(t *testing.T) {
	stages := StageStats(fixtureEvents())

	require.Len(t, stages, 3)
	assert.Equal(t, "Series A", stages[0].Name)
	assert.True(t, stages[0].TotalFunding.Equal(amt("125")))
	assert.Equal(t, "Series B", stages[1].Name)
	assert.Equal(t, "Seed", stages[2].Name)
}

func TestCityStats(t *testing.T) {
	cities := CityStats(fixtureEvents())

	require.Len(t, cities, 3)
	assert.Equal(t, "Mumbai", cities[0].Name)
	assert.True(t, cities[0].TotalFunding.Equal(amt("115")))
	assert.Equal(t, "Bangalore", cities[1].Name)
	assert.Equal(t, "Delhi", cities[2].Name)
}

func TestTopStartups(t *testing.T) {
	top := TopStartups(fixtureEvents(), 0, 15)

	require.Len(t, top, 4)
	assert.Equal(t, "PayQuick", top[0].Startup)
	assert.True(t, top[0].TotalFunding.Equal(amt("130")))
	assert.Equal(t, "LendFast", top[1].Startup)
	assert.Equal(t, "Grocify", top[2].Startup)
	assert.Equal(t, "Shopmato", top[3].Startup)
}

func TestTopStartupsYearFilter(t *testing.T) {
	top := TopStartups(fixtureEvents(), 2020, 15)

	require.Len(t, top, 2)
	assert.Equal(t, "PayQuick", top[0].Startup)
	assert.True(t, top[0].TotalFunding.Equal(amt("100")))
	assert.Equal(t, "Grocify", top[1].Startup)
}

func TestTopStartupsLimit(t *testing.T) {
	top := TopStartups(fixtureEvents(), 0, 2)
	assert.Len(t, top, 2)
}

func TestTopInvestors(t *testing.T) {
	top := TopInvestors(fixtureStakes(), 20)

	require.Len(t, top, 3)
	assert.Equal(t, "Accel", top[0].Investor)
	assert.True(t, top[0].TotalAmount.Equal(amt("165")))
	assert.Equal(t, 3, top[0].InvestmentCount)
	assert.Equal(t, "Tiger Global", top[1].Investor)
	assert.Equal(t, "Matrix", top[2].Investor)
}

func TestFundingHeatmap(t *testing.T) {
	cells := FundingHeatmap(fixtureEvents())

	require.Len(t, cells, 6)
	assert.Equal(t, 2018, cells[0].Year)
	assert.Equal(t, 7, cells[0].Month)
	assert.Equal(t, 1, cells[0].Deals)
	assert.True(t, cells[0].Amount.Equal(amt("5")))
}
