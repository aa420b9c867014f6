package pipeline

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unknown is the sentinel for missing or malformed categorical values.
const Unknown = "Unknown"

// RawRecord is one uncleaned row of the input file, keyed by column header
// exactly as it appears there. Values are untouched strings.
type RawRecord map[string]string

// Event is one cleaned funding-round record for one startup. The set of
// events is materialized once per pipeline run and never mutated afterwards.
type Event struct {
	Startup     string          `json:"startup"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Vertical    string          `json:"vertical"`
	Subvertical string          `json:"subvertical"`
	City        string          `json:"city"`
	Round       string          `json:"round"`
	Investors   string          `json:"investors"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Quarter     int             `json:"quarter"`
}

// Stake is one (event, investor) pair produced by expanding the comma-joined
// investors field. It carries a read-only copy of the originating event's
// attributes; it has no independent lifecycle.
type Stake struct {
	Investor string          `json:"investor"`
	Startup  string          `json:"startup"`
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Round    string          `json:"round"`
	Vertical string          `json:"vertical"`
	City     string          `json:"city"`
	Year     int             `json:"year"`
}
