package espn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const fixtureScoreboard = `{"events":[
	{"id":"401","name":"Kansas City Chiefs at Los Angeles Chargers","shortName":"KC @ LAC",
	 "status":{"type":{"state":"in","completed":false,"description":"End of 3rd Quarter"}},
	 "competitions":[{"competitors":[
		{"homeAway":"home","team":{"abbreviation":"LAC"}},
		{"homeAway":"away","team":{"abbreviation":"KC"}}]}]},
	{"id":"402","name":"Dallas Cowboys at Philadelphia Eagles","shortName":"DAL @ PHI",
	 "status":{"type":{"state":"post","completed":true,"description":"Final"}},
	 "competitions":[{"competitors":[
		{"homeAway":"home","team":{"abbreviation":"PHI"}},
		{"homeAway":"away","team":{"abbreviation":"DAL"}}]}]},
	{"id":"403","name":"San Francisco 49ers at Seattle Seahawks","shortName":"SF @ SEA",
	 "status":{"type":{"state":"pre","completed":false,"description":"Scheduled"}},
	 "competitions":[{"competitors":[
		{"homeAway":"home","team":{"abbreviation":"SEA"}},
		{"homeAway":"away","team":{"abbreviation":"SF"}}]}]}
]}`

const fixtureSummary401 = `{"boxscore":{"players":[
	{"team":{"abbreviation":"KC"},"statistics":[
		{"name":"passing","athletes":[
			{"athlete":{"id":"3139477","displayName":"Patrick Mahomes"},"stats":["24/38","320","8.4","2","1","2-14","101.2"]}]},
		{"name":"receiving","athletes":[
			{"athlete":{"id":"15847","displayName":"Travis Kelce"},"stats":["5","100","20.0","1","45","7"]}]}]},
	{"team":{"abbreviation":"LAC"},"statistics":[
		{"name":"passing","athletes":[
			{"athlete":{"id":"4038941","displayName":"Justin Herbert"},"stats":["28/41","305","7.4","2","0","3-18","104.9"]}]}]}
]}}`

const fixtureSummary402 = `{"boxscore":{"players":[
	{"team":{"abbreviation":"DAL"},"statistics":[
		{"name":"rushing","athletes":[
			{"athlete":{"id":"4241389","displayName":"CeeDee Lamb"},"stats":["2","12","6.0","0","9"]}]},
		{"name":"receiving","athletes":[
			{"athlete":{"id":"4241389","displayName":"CeeDee Lamb"},"stats":["7","98","14.0","1","28","10"]}]},
		{"name":"fumbles","athletes":[
			{"athlete":{"id":"4241389","displayName":"CeeDee Lamb"},"stats":["1","1","0"]}]}]}
]}}`

// fakeUpstream plays the stats API. Summaries are keyed by event ID; an
// event with no entry answers 500.
type fakeUpstream struct {
	scoreboard       string
	scoreboardStatus int
	summaries        map[string]string

	mu             sync.Mutex
	scoreboardHits int
	summaryHits    map[string]int
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		scoreboard:       fixtureScoreboard,
		scoreboardStatus: http.StatusOK,
		summaries: map[string]string{
			"401": fixtureSummary401,
			"402": fixtureSummary402,
		},
		summaryHits: make(map[string]int),
	}
}

func (f *fakeUpstream) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case scoreboardPath:
			f.mu.Lock()
			f.scoreboardHits++
			f.mu.Unlock()
			if f.scoreboardStatus != http.StatusOK {
				w.WriteHeader(f.scoreboardStatus)
				return
			}
			w.Write([]byte(f.scoreboard))
		case summaryPath:
			id := r.URL.Query().Get("event")
			f.mu.Lock()
			f.summaryHits[id]++
			f.mu.Unlock()
			body, ok := f.summaries[id]
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(body))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func (f *fakeUpstream) hits() (scoreboard int, summaries map[string]int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int, len(f.summaryHits))
	for k, v := range f.summaryHits {
		out[k] = v
	}
	return f.scoreboardHits, out
}

func newTestReporter(t *testing.T, upstream *fakeUpstream, tracked []string, ttl time.Duration, clock clockwork.Clock) *Reporter {
	t.Helper()
	server := httptest.NewServer(upstream.handler())
	t.Cleanup(server.Close)
	return NewReporter(NewClient(server.URL), tracked, ttl, clock, zap.NewNop())
}

func TestReporterBuildsReport(t *testing.T) {
	upstream := newFakeUpstream()
	r := newTestReporter(t, upstream, []string{"KC", "DAL"}, 0, clockwork.NewFakeClock())

	report, err := r.Current(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.GamesCount)
	assert.False(t, report.AllGamesFinal)
	require.Len(t, report.Games, 2)
	assert.Equal(t, GameStatus{Name: "KC @ LAC", Status: "End of 3rd Quarter"}, report.Games[0])
	assert.Equal(t, GameStatus{Name: "DAL @ PHI", Status: "Final"}, report.Games[1])

	mahomes, ok := report.Players["Patrick Mahomes|KC"]
	require.True(t, ok, "players: %v", report.Players)
	assert.Equal(t, 320, mahomes.Stats.PassingYards)
	assert.InDelta(t, 22.8, mahomes.Points, 1e-9)

	kelce := report.Players["Travis Kelce|KC"]
	assert.InDelta(t, 21.5, kelce.Points, 1e-9)

	// Rushing, receiving and the lost fumble all land on one line.
	lamb, ok := report.Players["CeeDee Lamb|DAL"]
	require.True(t, ok)
	assert.Equal(t, 12, lamb.Stats.RushingYards)
	assert.Equal(t, 7, lamb.Stats.Receptions)
	assert.Equal(t, 1, lamb.Stats.FumblesLost)
	assert.InDelta(t, 18.5, lamb.Points, 1e-9)

	// Opponents of tracked teams stay out of the report.
	_, ok = report.Players["Justin Herbert|LAC"]
	assert.False(t, ok)
}

func TestReporterScoreboardFailureFailsRequest(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.scoreboardStatus = http.StatusBadGateway
	r := newTestReporter(t, upstream, []string{"KC"}, 0, clockwork.NewFakeClock())

	_, err := r.Current(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch scoreboard")
	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestReporterOmitsGameWhoseBoxscoreFails(t *testing.T) {
	upstream := newFakeUpstream()
	delete(upstream.summaries, "402")
	r := newTestReporter(t, upstream, []string{"KC", "DAL"}, 0, clockwork.NewFakeClock())

	report, err := r.Current(context.Background())
	require.NoError(t, err, "one bad boxscore must not fail the refresh")

	assert.Equal(t, 2, report.GamesCount)
	_, ok := report.Players["Patrick Mahomes|KC"]
	assert.True(t, ok)
	_, ok = report.Players["CeeDee Lamb|DAL"]
	assert.False(t, ok, "failed game's players must be absent")
}

func TestReporterSkipsBoxscoreBeforeKickoff(t *testing.T) {
	upstream := newFakeUpstream()
	r := newTestReporter(t, upstream, []string{"SF"}, 0, clockwork.NewFakeClock())

	report, err := r.Current(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.GamesCount)
	assert.False(t, report.AllGamesFinal)
	assert.Empty(t, report.Players)

	_, summaries := upstream.hits()
	assert.Zero(t, summaries["403"], "pre-game events have no boxscore to fetch")
}

func TestReporterAllGamesFinal(t *testing.T) {
	upstream := newFakeUpstream()
	r := newTestReporter(t, upstream, []string{"DAL"}, 0, clockwork.NewFakeClock())

	report, err := r.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.GamesCount)
	assert.True(t, report.AllGamesFinal)
}

func TestReporterEmptyTrackedListMatchesEverything(t *testing.T) {
	upstream := newFakeUpstream()
	r := newTestReporter(t, upstream, nil, 0, clockwork.NewFakeClock())

	report, err := r.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.GamesCount)

	// With no filter the other sideline counts too.
	_, ok := report.Players["Justin Herbert|LAC"]
	assert.True(t, ok)
}

func TestReporterCachesWithinTTL(t *testing.T) {
	upstream := newFakeUpstream()
	clock := clockwork.NewFakeClock()
	r := newTestReporter(t, upstream, []string{"KC"}, 30*time.Second, clock)

	first, err := r.Current(context.Background())
	require.NoError(t, err)
	second, err := r.Current(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second, "fresh cache serves the same report")

	hits, _ := upstream.hits()
	assert.Equal(t, 1, hits)

	clock.Advance(31 * time.Second)
	_, err = r.Current(context.Background())
	require.NoError(t, err)

	hits, _ = upstream.hits()
	assert.Equal(t, 2, hits, "expired cache refetches")
}
