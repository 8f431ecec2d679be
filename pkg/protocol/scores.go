package protocol

// LiveScores (GET /api/live-scores):
//   success: true
//   players: { "<name|TEAM>": { name, team, stats, points } }
//     stats: passing_yards, passing_tds, interceptions,
//            rushing_yards, rushing_tds,
//            receptions, receiving_yards, receiving_tds,
//            fumbles_lost
//     points: fantasy total, one decimal
//   gamesCount: number of tracked games on the scoreboard
//   allGamesFinal: every tracked game completed
//   games: [ { name: "KC @ LAC", status: "Final" } ]
//
// On a scoreboard fetch failure:
//   500 { success: false, error: "<message>" }   (no players key)
