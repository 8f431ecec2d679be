// Package scoring computes fantasy point totals from raw counting stats.
// It is a pure transform: no state, no I/O.
package scoring

import "math"

// Rule table: half-point-per-reception scoring with flat yardage bonuses at
// 300 passing / 100 rushing / 100 receiving yards.
const (
	pointsPerPassingYard   = 0.04
	pointsPerPassingTD     = 4.0
	pointsPerInterception  = -1.0
	pointsPerRushingYard   = 0.1
	pointsPerRushingTD     = 6.0
	pointsPerReception     = 0.5
	pointsPerReceivingYard = 0.1
	pointsPerReceivingTD   = 6.0
	pointsPerFumbleLost    = -2.0

	passingYardBonusAt   = 300
	rushingYardBonusAt   = 100
	receivingYardBonusAt = 100
	yardageBonus         = 3.0
)

// StatLine is one player's raw counting stats for a single game. Categories
// a player never appeared in stay zero.
type StatLine struct {
	PassingYards   int `json:"passing_yards"`
	PassingTDs     int `json:"passing_tds"`
	Interceptions  int `json:"interceptions"`
	RushingYards   int `json:"rushing_yards"`
	RushingTDs     int `json:"rushing_tds"`
	Receptions     int `json:"receptions"`
	ReceivingYards int `json:"receiving_yards"`
	ReceivingTDs   int `json:"receiving_tds"`
	FumblesLost    int `json:"fumbles_lost"`
}

// Merge folds another line into s, field by field. Boxscores report each
// category separately, so a dual-threat player arrives as several lines.
func (s StatLine) Merge(other StatLine) StatLine {
	s.PassingYards += other.PassingYards
	s.PassingTDs += other.PassingTDs
	s.Interceptions += other.Interceptions
	s.RushingYards += other.RushingYards
	s.RushingTDs += other.RushingTDs
	s.Receptions += other.Receptions
	s.ReceivingYards += other.ReceivingYards
	s.ReceivingTDs += other.ReceivingTDs
	s.FumblesLost += other.FumblesLost
	return s
}

// Points applies the rule table to a merged line and rounds to one decimal.
func Points(s StatLine) float64 {
	p := float64(s.PassingYards)*pointsPerPassingYard +
		float64(s.PassingTDs)*pointsPerPassingTD +
		float64(s.Interceptions)*pointsPerInterception

	p += float64(s.RushingYards)*pointsPerRushingYard +
		float64(s.RushingTDs)*pointsPerRushingTD

	p += float64(s.Receptions)*pointsPerReception +
		float64(s.ReceivingYards)*pointsPerReceivingYard +
		float64(s.ReceivingTDs)*pointsPerReceivingTD

	p += float64(s.FumblesLost) * pointsPerFumbleLost

	if s.PassingYards >= passingYardBonusAt {
		p += yardageBonus
	}
	if s.RushingYards >= rushingYardBonusAt {
		p += yardageBonus
	}
	if s.ReceivingYards >= receivingYardBonusAt {
		p += yardageBonus
	}

	return math.Round(p*10) / 10
}
