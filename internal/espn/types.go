package espn

import "strings"

// Wire shapes for the site API. Only fields the service reads are declared;
// the rest of the payload is ignored on decode.

type Scoreboard struct {
	Events []Event `json:"events"`
}

type Event struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ShortName    string        `json:"shortName"`
	Status       EventStatus   `json:"status"`
	Competitions []Competition `json:"competitions"`
}

type EventStatus struct {
	Type StatusType `json:"type"`
}

// StatusType.State is "pre", "in" or "post"; Description reads like
// "Final" or "End of 3rd Quarter".
type StatusType struct {
	State       string `json:"state"`
	Completed   bool   `json:"completed"`
	Description string `json:"description"`
}

type Competition struct {
	Competitors []Competitor `json:"competitors"`
}

type Competitor struct {
	HomeAway string `json:"homeAway"`
	Team     Team   `json:"team"`
}

type Team struct {
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
}

type Summary struct {
	Boxscore Boxscore `json:"boxscore"`
}

type Boxscore struct {
	Players []TeamPlayers `json:"players"`
}

// TeamPlayers is one side's boxscore: a team plus its stat categories.
type TeamPlayers struct {
	Team       Team           `json:"team"`
	Statistics []StatCategory `json:"statistics"`
}

// StatCategory groups athletes under a category name such as "passing".
type StatCategory struct {
	Name     string        `json:"name"`
	Athletes []AthleteLine `json:"athletes"`
}

// AthleteLine pairs an athlete with their positional stat strings.
type AthleteLine struct {
	Athlete Athlete  `json:"athlete"`
	Stats   []string `json:"stats"`
}

type Athlete struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Started reports whether the game has kicked off; only started games have
// a boxscore worth fetching.
func (e Event) Started() bool {
	return e.Status.Type.State == "in" || e.Status.Type.State == "post"
}

// HasTeam reports whether the team with the given abbreviation plays in
// this event.
func (e Event) HasTeam(abbr string) bool {
	for _, comp := range e.Competitions {
		for _, c := range comp.Competitors {
			if strings.EqualFold(c.Team.Abbreviation, abbr) {
				return true
			}
		}
	}
	return false
}
