package query

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundscope/funding-dashboard/internal/pipeline"
)

func day(year, month, dayOfMonth int) time.Time {
	return time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fixtureEvent(startup string, date time.Time, amount, vertical, subvertical, city, round, investors string) pipeline.Event {
	return pipeline.Event{
		Startup:     startup,
		Date:        date,
		Amount:      amt(amount),
		Vertical:    vertical,
		Subvertical: subvertical,
		City:        city,
		Round:       round,
		Investors:   investors,
		Year:        date.Year(),
		Month:       int(date.Month()),
		Quarter:     (int(date.Month())-1)/3 + 1,
	}
}

// fixtureEvents mirrors the pipeline's output ordering: date descending.
func fixtureEvents() []pipeline.Event {
	return []pipeline.Event{
		fixtureEvent("PayQuick", day(2020, 6, 15), "100", "FinTech", "Payments", "Mumbai", "Series B", "Accel, Tiger Global"),
		fixtureEvent("Grocify", day(2020, 3, 10), "40", "E-Commerce", "Grocery", "Bangalore", "Series A", "Accel"),
		fixtureEvent("PayQuick", day(2019, 5, 20), "25", "FinTech", "Payments", "Bangalore", "Series A", "Accel"),
		fixtureEvent("LendFast", day(2019, 2, 1), "60", "FinTech", "Lending", "Delhi", "Series A", "Tiger Global, Matrix"),
		fixtureEvent("Shopmato", day(2018, 11, 5), "15", "E-Commerce", "Fashion", "Mumbai", "Seed", "Matrix"),
		fixtureEvent("PayQuick", day(2018, 7, 25), "5", "FinTech", "Payments", "Bangalore", "Seed", "Unknown"),
	}
}

func fixtureStakes() []pipeline.Stake {
	return pipeline.ExpandInvestors(fixtureEvents())
}
