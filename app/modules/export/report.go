package export

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/scorepad-app/scorepad/app/modules/ledger"
)

// ReportRow is one player's line in the ranked breakdown consumed by the
// document-capture collaborator.
type ReportRow struct {
	Rank     int       `json:"rank"`
	PlayerID uuid.UUID `json:"playerId"`
	Name     string    `json:"name"`
	Total    float64   `json:"total"`
	// Average is the mean over recorded rounds only; a player with no
	// recorded scores averages 0.
	Average float64 `json:"average"`
	// Percent is the player's share of the grand total, 0 when the grand
	// total is not positive.
	Percent float64 `json:"percent"`
	Winner  bool    `json:"winner"`
}

// Report is the full data set behind the printable stats document: ranked
// rows plus the chart geometry. Rendering and pagination are external.
type Report struct {
	Title       string            `json:"title"`
	RoundCount  int               `json:"roundCount"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Axis        ledger.AxisBounds `json:"axis"`
	Rows        []ReportRow       `json:"rows"`
}

// BuildReport assembles the ranked breakdown from the current sheet.
func BuildReport(l *ledger.Ledger, now time.Time) Report {
	standings := l.Standings()

	var grandTotal float64
	for _, st := range standings {
		grandTotal += st.Total
	}

	rows := make([]ReportRow, len(standings))
	for i, st := range standings {
		recorded := 0
		for _, s := range st.Player.Scores {
			if s != nil {
				recorded++
			}
		}
		row := ReportRow{
			Rank:     st.Rank,
			PlayerID: st.Player.ID,
			Name:     st.Player.Name,
			Total:    st.Total,
			Winner:   st.Winner,
		}
		if recorded > 0 {
			row.Average = st.Total / float64(recorded)
		}
		if grandTotal > 0 {
			row.Percent = st.Total / grandTotal * 100
		}
		rows[i] = row
	}

	return Report{
		Title:       l.Title(),
		RoundCount:  l.RoundCount(),
		GeneratedAt: now,
		Axis:        l.Axis(),
		Rows:        rows,
	}
}

// ReportFilename names the stats document after the generation date.
func ReportFilename(now time.Time) string {
	return fmt.Sprintf("score-stats-%s.pdf", now.Format("2006-01-02"))
}
