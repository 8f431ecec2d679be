package espn

import (
	"strconv"

	"leagueboard/internal/scoring"
)

// Positional indices into an athlete's stat strings. The API returns each
// category's numbers as a fixed-order string slice, e.g. passing is
// [C/ATT, YDS, AVG, TD, INT, SACKS-YDSLOST, RTG].
const (
	passingYardsIdx  = 1
	passingTDsIdx    = 3
	interceptionsIdx = 4

	rushingYardsIdx = 1
	rushingTDsIdx   = 3

	receptionsIdx     = 0
	receivingYardsIdx = 1
	receivingTDsIdx   = 3

	fumblesLostIdx = 1
)

// statInt reads stats[i] as an integer. Out-of-range and malformed entries
// count as zero; the API uses "--" for categories a player sat out.
func statInt(stats []string, i int) int {
	if i < 0 || i >= len(stats) {
		return 0
	}
	n, err := strconv.Atoi(stats[i])
	if err != nil {
		return 0
	}
	return n
}

// categoryLine maps one category row to a stat line. Categories that do not
// feed the scoring formula produce a zero line.
func categoryLine(category string, stats []string) scoring.StatLine {
	var line scoring.StatLine
	switch category {
	case "passing":
		line.PassingYards = statInt(stats, passingYardsIdx)
		line.PassingTDs = statInt(stats, passingTDsIdx)
		line.Interceptions = statInt(stats, interceptionsIdx)
	case "rushing":
		line.RushingYards = statInt(stats, rushingYardsIdx)
		line.RushingTDs = statInt(stats, rushingTDsIdx)
	case "receiving":
		line.Receptions = statInt(stats, receptionsIdx)
		line.ReceivingYards = statInt(stats, receivingYardsIdx)
		line.ReceivingTDs = statInt(stats, receivingTDsIdx)
	case "fumbles":
		line.FumblesLost = statInt(stats, fumblesLostIdx)
	}
	return line
}
