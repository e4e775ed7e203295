package ledger

import "sort"

// Standing is one row of the ranked breakdown.
type Standing struct {
	Rank   int     `json:"rank"`
	Player Player  `json:"player"`
	Total  float64 `json:"total"`
	Winner bool    `json:"winner"`
}

// Standings ranks players by total, highest first. The sort is stable, so
// players with equal totals keep their insertion order. A player is flagged
// as a winner when it holds the maximum total and that total is positive;
// with an all-zero (or negative) sheet nobody has won yet. Recomputed on
// every call, never cached.
func (l *Ledger) Standings() []Standing {
	out := make([]Standing, len(l.players))
	var maxTotal float64
	for i, p := range l.players {
		total := p.Total()
		if total > maxTotal {
			maxTotal = total
		}
		out[i] = Standing{Player: copyPlayer(p), Total: total}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	for i := range out {
		out[i].Rank = i + 1
		out[i].Winner = maxTotal > 0 && out[i].Total == maxTotal
	}
	return out
}

// ProgressionPoint is one vertex on a player's running-total line.
type ProgressionPoint struct {
	Round int     `json:"round"`
	Total float64 `json:"total"`
}

// Progression returns the player's cumulative line, starting at (0, 0).
// Rounds with no recorded score are skipped entirely rather than drawn as
// flat or interpolated points.
func (p *Player) Progression() []ProgressionPoint {
	points := make([]ProgressionPoint, 1, len(p.Scores)+1)
	points[0] = ProgressionPoint{Round: 0, Total: 0}
	var running float64
	for r, s := range p.Scores {
		if s == nil {
			continue
		}
		running += *s
		points = append(points, ProgressionPoint{Round: r + 1, Total: running})
	}
	return points
}

// AxisBounds frames the progression chart's vertical axis.
type AxisBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Axis computes the chart bounds over every player's cumulative values.
// The max is floored at 10 so an all-zero sheet still renders a visible
// axis, and the min is capped at 0 so positive-only sheets start at zero.
func (l *Ledger) Axis() AxisBounds {
	bounds := AxisBounds{Min: 0, Max: 10}
	for _, p := range l.players {
		for _, pt := range p.Progression() {
			if pt.Total < bounds.Min {
				bounds.Min = pt.Total
			}
			if pt.Total > bounds.Max {
				bounds.Max = pt.Total
			}
		}
	}
	return bounds
}
