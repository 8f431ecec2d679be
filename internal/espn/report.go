package espn

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"leagueboard/internal/scoring"
)

// boxscoreFetchLimit caps concurrent summary requests per refresh.
const boxscoreFetchLimit = 4

// Report aggregates one refresh of the tracked games.
type Report struct {
	Players       map[string]PlayerScore
	GamesCount    int
	AllGamesFinal bool
	Games         []GameStatus
}

// PlayerScore is one player's merged stat line and fantasy total.
type PlayerScore struct {
	Name   string           `json:"name"`
	Team   string           `json:"team"`
	Stats  scoring.StatLine `json:"stats"`
	Points float64          `json:"points"`
}

// GameStatus is a tracked game and its human-readable state.
type GameStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Reporter builds scoring reports from the stats API. Reports are cached
// for a short TTL so a burst of page loads costs one upstream round trip.
type Reporter struct {
	client  *Client
	tracked map[string]bool
	clock   clockwork.Clock
	ttl     time.Duration
	log     *zap.Logger

	mu      sync.Mutex
	cached  *Report
	expires time.Time
}

// NewReporter tracks the given team abbreviations. An empty list tracks
// every game on the scoreboard.
func NewReporter(client *Client, trackedTeams []string, ttl time.Duration, clock clockwork.Clock, log *zap.Logger) *Reporter {
	tracked := make(map[string]bool, len(trackedTeams))
	for _, t := range trackedTeams {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			tracked[t] = true
		}
	}
	return &Reporter{
		client:  client,
		tracked: tracked,
		clock:   clock,
		ttl:     ttl,
		log:     log,
	}
}

// Current returns the cached report while it is fresh, otherwise refreshes.
// Concurrent callers during a refresh share the single upstream fetch.
func (r *Reporter) Current(ctx context.Context) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil && r.clock.Now().Before(r.expires) {
		return r.cached, nil
	}

	report, err := r.refresh(ctx)
	if err != nil {
		return nil, err
	}
	r.cached = report
	r.expires = r.clock.Now().Add(r.ttl)
	return report, nil
}

// refresh pulls the scoreboard and the boxscore of every tracked, started
// game. A scoreboard failure fails the whole refresh; a single boxscore
// failure only costs that game's stats.
func (r *Reporter) refresh(ctx context.Context) (*Report, error) {
	sb, err := r.client.Scoreboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch scoreboard: %w", err)
	}

	var matched []Event
	for _, ev := range sb.Events {
		if r.matches(ev) {
			matched = append(matched, ev)
		}
	}

	report := &Report{
		Players:       make(map[string]PlayerScore),
		GamesCount:    len(matched),
		AllGamesFinal: true,
		Games:         make([]GameStatus, 0, len(matched)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(boxscoreFetchLimit)

	for _, ev := range matched {
		report.Games = append(report.Games, GameStatus{
			Name:   ev.ShortName,
			Status: ev.Status.Type.Description,
		})
		if !ev.Status.Type.Completed {
			report.AllGamesFinal = false
		}
		if !ev.Started() {
			continue
		}

		ev := ev
		g.Go(func() error {
			summary, err := r.client.GameSummary(gctx, ev.ID)
			if err != nil {
				r.log.Warn("boxscore fetch failed, skipping game",
					zap.String("event", ev.ID),
					zap.String("game", ev.ShortName),
					zap.Error(err))
				return nil
			}
			players := r.playersFrom(summary)
			mu.Lock()
			for key, ps := range players {
				merge(report.Players, key, ps)
			}
			mu.Unlock()
			return nil
		})
	}

	// Workers swallow their own errors, so Wait only synchronizes.
	_ = g.Wait()

	return report, nil
}

func (r *Reporter) matches(ev Event) bool {
	if len(r.tracked) == 0 {
		return true
	}
	for abbr := range r.tracked {
		if ev.HasTeam(abbr) {
			return true
		}
	}
	return false
}

// playersFrom reduces a boxscore to per-player merged stat lines, keyed
// "name|TEAM". Only tracked teams' blocks contribute.
func (r *Reporter) playersFrom(s Summary) map[string]PlayerScore {
	out := make(map[string]PlayerScore)
	for _, block := range s.Boxscore.Players {
		abbr := strings.ToUpper(block.Team.Abbreviation)
		if len(r.tracked) > 0 && !r.tracked[abbr] {
			continue
		}
		for _, category := range block.Statistics {
			switch category.Name {
			case "passing", "rushing", "receiving", "fumbles":
			default:
				continue
			}
			for _, row := range category.Athletes {
				name := row.Athlete.DisplayName
				if name == "" {
					continue
				}
				key := name + "|" + abbr
				ps := out[key]
				ps.Name = name
				ps.Team = abbr
				ps.Stats = ps.Stats.Merge(categoryLine(category.Name, row.Stats))
				out[key] = ps
			}
		}
	}
	for key, ps := range out {
		ps.Points = scoring.Points(ps.Stats)
		out[key] = ps
	}
	return out
}

func merge(dst map[string]PlayerScore, key string, ps PlayerScore) {
	existing, ok := dst[key]
	if !ok {
		dst[key] = ps
		return
	}
	existing.Stats = existing.Stats.Merge(ps.Stats)
	existing.Points = scoring.Points(existing.Stats)
	dst[key] = existing
}
