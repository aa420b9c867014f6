package pipeline

import "strings"

// ExpandInvestors turns the comma-joined investors field into one Stake per
// (event, investor) pair. Tokens are trimmed; empty tokens and the sentinel
// "unknown" (any casing) are discarded. Investor names keep their original
// casing, so differently-cased spellings remain distinct identities, and
// duplicate identical stakes are preserved as real repeat investments.
func ExpandInvestors(events []Event) []Stake {
	stakes := make([]Stake, 0, len(events))

	for _, event := range events {
		for _, token := range strings.Split(event.Investors, ",") {
			investor := strings.TrimSpace(token)
			if investor == "" || strings.EqualFold(investor, Unknown) {
				continue
			}

			stakes = append(stakes, Stake{
				Investor: investor,
				Startup:  event.Startup,
				Date:     event.Date,
				Amount:   event.Amount,
				Round:    event.Round,
				Vertical: event.Vertical,
				City:     event.City,
				Year:     event.Year,
			})
		}
	}

	return stakes
}
