package pipeline

import (
	"regexp"
	"sort"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fundscope/funding-dashboard/internal/errors"
)

// requiredColumns must all be present (after header normalization) for the
// pipeline to run at all. A missing column is the only fatal failure mode;
// malformed values in individual rows degrade to sentinels instead.
var requiredColumns = []string{
	"date", "startup", "amount", "vertical", "subvertical", "city", "investors", "round",
}

// cityAliases collapses spelling and satellite-city variants into one canonical
// city per metro area. Applied after title-casing, so keys are title-cased.
var cityAliases = map[string]string{
	"Bengaluru":  "Bangalore",
	"Kormangala": "Bangalore",
	"Gurgaon":    "Gurugram",
	"New Delhi":  "Delhi",
	"Noida":      "Delhi NCR",
	"Faridabad":  "Delhi NCR",
}

// canonicalCities is the value set of cityAliases. A city already in canonical
// form is left untouched so that normalization is idempotent.
var canonicalCities = map[string]bool{
	"Bangalore": true,
	"Gurugram":  true,
	"Delhi":     true,
	"Delhi NCR": true,
}

// roundAliases collapses funding-stage label variants. Unmapped labels pass
// through unchanged (Series A-H already arrive canonical).
var roundAliases = map[string]string{
	"Seed Round":           "Seed",
	"Seed Funding":         "Seed",
	"Angel Round":          "Angel",
	"Pre-series A":         "Pre-Series A",
	"Private Equity Round": "Private Equity",
	"Debt Funding":         "Debt",
	"Bridge Round":         "Bridge",
	"Venture Round":        "Venture",
	"Corporate Round":      "Corporate",
}

var (
	urlPrefixPattern = regexp.MustCompile(`^https?://\S+`)
	quoteStripper    = strings.NewReplacer(`"`, "", `'`, "")
)

// Normalize cleans a raw record set into the canonical funding-event set.
//
// Field names are trimmed and lower-cased before lookup. Rows with an
// unparseable date or an unknown startup name are dropped; every other
// malformed field degrades to a sentinel (zero amount, "Unknown" category)
// rather than failing the row. The output is ordered by date descending,
// ties preserving input order, so "most recent" lookups are deterministic.
func Normalize(records []RawRecord) ([]Event, error) {
	events := make([]Event, 0, len(records))
	if len(records) == 0 {
		return events, nil
	}

	first := canonicalKeys(records[0])
	if missing := missingColumns(first); len(missing) > 0 {
		return nil, errors.NewSchemaError("dataset is missing required columns", missing)
	}

	titleCaser := cases.Title(language.English)

	for _, record := range records {
		row := canonicalKeys(record)

		date, err := dateparse.ParseAny(strings.TrimSpace(row["date"]))
		if err != nil {
			continue
		}

		startup := cleanStartup(row["startup"])
		if startup == Unknown {
			continue
		}

		city := cleanCategory(row["city"])
		if city != Unknown {
			city = normalizeCity(city, titleCaser)
		}

		round := cleanCategory(row["round"])
		if canonical, ok := roundAliases[round]; ok {
			round = canonical
		}

		events = append(events, Event{
			Startup:     startup,
			Date:        date,
			Amount:      parseAmount(row["amount"]),
			Vertical:    cleanCategory(row["vertical"]),
			Subvertical: cleanCategory(row["subvertical"]),
			City:        city,
			Round:       round,
			Investors:   cleanCategory(row["investors"]),
			Year:        date.Year(),
			Month:       int(date.Month()),
			Quarter:     (int(date.Month())-1)/3 + 1,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.After(events[j].Date)
	})

	return events, nil
}

// canonicalKeys re-keys a raw record with trimmed, lower-cased column names.
func canonicalKeys(record RawRecord) map[string]string {
	row := make(map[string]string, len(record))
	for key, value := range record {
		row[strings.ToLower(strings.TrimSpace(key))] = value
	}
	return row
}

func missingColumns(row map[string]string) []string {
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := row[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// cleanStartup trims the company name and strips leading URL tokens and quote
// characters. Names that clean down to nothing become the Unknown sentinel.
func cleanStartup(raw string) string {
	name := strings.TrimSpace(raw)
	name = urlPrefixPattern.ReplaceAllString(name, "")
	name = quoteStripper.Replace(name)
	name = strings.TrimSpace(name)
	if name == "" || name == "nan" {
		return Unknown
	}
	return name
}

// cleanCategory trims a categorical value, mapping empty and the literal
// string "nan" to the Unknown sentinel.
func cleanCategory(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" || value == "nan" {
		return Unknown
	}
	return value
}

// parseAmount parses the funding amount in currency millions. Missing,
// unparseable, or negative values become zero, which encodes "undisclosed
// amount"; a malformed amount is never an error.
func parseAmount(raw string) decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// normalizeCity title-cases the city string and applies the alias table.
// Already-canonical cities are returned as-is, keeping the whole mapping
// idempotent ("Delhi NCR" must not re-case to "Delhi Ncr").
func normalizeCity(city string, titleCaser cases.Caser) string {
	if canonicalCities[city] {
		return city
	}
	titled := titleCaser.String(city)
	if canonical, ok := cityAliases[titled]; ok {
		return canonical
	}
	return titled
}
