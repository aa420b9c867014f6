package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/fundscope/funding-dashboard/internal/errors"
)

func record(overrides map[string]string) RawRecord {
	r := RawRecord{
		"date":        "2020-01-15",
		"startup":     "Flipmart",
		"amount":      "12.5",
		"vertical":    "E-Commerce",
		"subvertical": "Grocery",
		"city":        "Bangalore",
		"investors":   "Seq Capital",
		"round":       "Series A",
	}
	for k, v := range overrides {
		r[k] = v
	}
	return r
}

func TestNormalizeMissingColumns(t *testing.T) {
	records := []RawRecord{
		{"date": "2020-01-15", "startup": "Flipmart"},
	}

	_, err := Normalize(records)
	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))
}

func TestNormalizeHeaderCasing(t *testing.T) {
	records := []RawRecord{
		{
			"Date":        "2020-01-15",
			" Startup ":   "Flipmart",
			"AMOUNT":      "12.5",
			"Vertical":    "E-Commerce",
			"SubVertical": "Grocery",
			"City":        "Bangalore",
			"Investors":   "Seq Capital",
			"Round":       "Series A",
		},
	}

	events, err := Normalize(records)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Flipmart", events[0].Startup)
	assert.True(t, events[0].Amount.Equal(decimal.RequireFromString("12.5")))
}

func TestNormalizeDropsRows(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]string
	}{
		{"unparseable date", map[string]string{"date": "2015-13-01"}},
		{"empty date", map[string]string{"date": ""}},
		{"empty startup", map[string]string{"startup": "  "}},
		{"nan startup", map[string]string{"startup": "nan"}},
		{"startup that is only a url", map[string]string{"startup": "https://example.com/x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := Normalize([]RawRecord{record(tt.override)})
			require.NoError(t, err)
			assert.Empty(t, events)
		})
	}
}

func TestNormalizeStartupCleaning(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"strips url prefix", "https://www.oyorooms.com OYO Rooms", "OYO Rooms"},
		{"strips quotes", `"Byju's"`, "Byjus"},
		{"trims whitespace", "  Zomato  ", "Zomato"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := Normalize([]RawRecord{record(map[string]string{"startup": tt.raw})})
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, tt.expected, events[0].Startup)
		})
	}
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected decimal.Decimal
	}{
		{"valid decimal", "100.25", decimal.RequireFromString("100.25")},
		{"empty", "", decimal.Zero},
		{"non-numeric", "undisclosed", decimal.Zero},
		{"negative clamps to zero", "-5", decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := Normalize([]RawRecord{record(map[string]string{"amount": tt.raw})})
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.True(t, events[0].Amount.Equal(tt.expected))
			assert.False(t, events[0].Amount.IsNegative())
		})
	}
}

func TestNormalizeCategorySentinels(t *testing.T) {
	events, err := Normalize([]RawRecord{record(map[string]string{
		"vertical":    "",
		"subvertical": "nan",
		"city":        "  ",
		"investors":   "nan",
		"round":       "",
	})})
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, Unknown, events[0].Vertical)
	assert.Equal(t, Unknown, events[0].Subvertical)
	assert.Equal(t, Unknown, events[0].City)
	assert.Equal(t, Unknown, events[0].Investors)
	assert.Equal(t, Unknown, events[0].Round)
}

func TestNormalizeCityAliases(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"Bengaluru", "Bangalore"},
		{"bengaluru", "Bangalore"},
		{"Kormangala", "Bangalore"},
		{"Gurgaon", "Gurugram"},
		{"New Delhi", "Delhi"},
		{"noida", "Delhi NCR"},
		{"Faridabad", "Delhi NCR"},
		{"mumbai", "Mumbai"},
		{"Pune", "Pune"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			events, err := Normalize([]RawRecord{record(map[string]string{"city": tt.raw})})
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, tt.expected, events[0].City)
		})
	}
}

func TestNormalizeCityIdempotent(t *testing.T) {
	// Canonical outputs must survive a second pass unchanged, including the
	// mixed-case "Delhi NCR" that naive title-casing would mangle.
	for _, city := range []string{"Bangalore", "Gurugram", "Delhi", "Delhi NCR"} {
		events, err := Normalize([]RawRecord{record(map[string]string{"city": city})})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, city, events[0].City)
	}
}

func TestNormalizeRoundAliases(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"Seed Round", "Seed"},
		{"Seed Funding", "Seed"},
		{"Angel Round", "Angel"},
		{"Pre-series A", "Pre-Series A"},
		{"Private Equity Round", "Private Equity"},
		{"Debt Funding", "Debt"},
		{"Series B", "Series B"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			events, err := Normalize([]RawRecord{record(map[string]string{"round": tt.raw})})
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, tt.expected, events[0].Round)
		})
	}
}

func TestNormalizeDerivedTimeFields(t *testing.T) {
	events, err := Normalize([]RawRecord{record(map[string]string{"date": "2019-08-07"})})
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, 2019, events[0].Year)
	assert.Equal(t, 8, events[0].Month)
	assert.Equal(t, 3, events[0].Quarter)
	assert.Equal(t, time.August, events[0].Date.Month())
}

func TestNormalizeSortDateDescending(t *testing.T) {
	records := []RawRecord{
		record(map[string]string{"date": "2018-03-01", "startup": "Alpha"}),
		record(map[string]string{"date": "2020-06-15", "startup": "Beta"}),
		record(map[string]string{"date": "2019-01-10", "startup": "Gamma"}),
		record(map[string]string{"date": "2020-06-15", "startup": "Delta"}),
	}

	events, err := Normalize(records)
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, "Beta", events[0].Startup)
	// Ties keep input order (stable sort).
	assert.Equal(t, "Delta", events[1].Startup)
	assert.Equal(t, "Gamma", events[2].Startup)
	assert.Equal(t, "Alpha", events[3].Startup)
}

func TestNormalizeEmptyInput(t *testing.T) {
	events, err := Normalize(nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}
