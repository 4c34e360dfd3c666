package leaguedata

import "time"

// SeasonStanding is one team's final regular-season line for one season.
// Rank and playoff seed come straight from Yahoo and are never derived.
type SeasonStanding struct {
	Season        int     `json:"season"`
	TeamKey       string  `json:"team_key"`
	TeamName      string  `json:"team_name"`
	Manager       string  `json:"manager"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	Rank          int     `json:"rank"`
	PointsFor     float64 `json:"points_for"`
	PointsAgainst float64 `json:"points_against"`
	PlayoffSeed   *int    `json:"playoff_seed,omitempty"`
}

// MatchupRow is one team's perspective of one game. Every real game produces
// two mirrored rows, so row(team,opp).PointsFor == row(opp,team).PointsAgainst.
type MatchupRow struct {
	Season        int     `json:"season"`
	Week          int     `json:"week"`
	TeamKey       string  `json:"team_key"`
	TeamName      string  `json:"team_name"`
	OppKey        string  `json:"opp_key"`
	OppName       string  `json:"opp_name"`
	PointsFor     float64 `json:"pts_for"`
	PointsAgainst float64 `json:"pts_against"`
}

// ChampionshipRecord identifies a season's champion. Method records which
// detection strategy (and fallback, if any) produced the result.
type ChampionshipRecord struct {
	Season   int    `json:"season"`
	Owner    string `json:"franchise_owner"`
	TeamName string `json:"team_name"`
	Seed     int    `json:"seed"`
	Rank     *int   `json:"rank"`
	Method   string `json:"method"`
}

// OwnerSummary aggregates one franchise owner's championship-bracket history.
type OwnerSummary struct {
	Owner              string   `json:"franchise_owner"`
	DisplayName        string   `json:"display_name,omitempty"`
	Titles             int      `json:"titles"`
	TitlesByYear       []int    `json:"titles_by_year"`
	PlayoffAppearances int      `json:"playoff_appearances"`
	Wins               int      `json:"wins"`
	Losses             int      `json:"losses"`
	Ties               int      `json:"ties"`
	PointsFor          float64  `json:"points_for"`
	PointsAgainst      float64  `json:"points_against"`
	BestSeed           *int     `json:"best_seed"`
	WorstSeed          *int     `json:"worst_seed"`
	WinPct             float64  `json:"win_pct"`
	AvgPointsFor       *float64 `json:"avg_points_for_per_playoff_game"`
	AvgPointsAgainst   *float64 `json:"avg_points_against_per_playoff_game"`
}

// AllTimeRow aggregates regular-season totals for one (team name, manager)
// identity across every season it appeared in.
type AllTimeRow struct {
	TeamName string  `json:"team_name"`
	Manager  string  `json:"manager"`
	Seasons  int     `json:"seasons"`
	Titles   int     `json:"titles"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Ties     int     `json:"ties"`
	WinPct   float64 `json:"win_pct"`
	PointsFor     float64 `json:"pf"`
	PointsAgainst float64 `json:"pa"`
}

// SeasonFinisher is a rank-based season result (champion or runner-up by
// final standings, as opposed to the bracket-resolved champion).
type SeasonFinisher struct {
	Season   int    `json:"season"`
	TeamName string `json:"team_name"`
	Manager  string `json:"manager"`
}

// HighScore is the single-week scoring record.
type HighScore struct {
	Season   int     `json:"season"`
	Week     int     `json:"week"`
	TeamName string  `json:"team_name"`
	Points   float64 `json:"points"`
}

// Blowout is the largest single-week margin of victory.
type Blowout struct {
	Season        int     `json:"season"`
	Week          int     `json:"week"`
	TeamName      string  `json:"team_name"`
	OppName       string  `json:"opp_name"`
	Margin        float64 `json:"margin"`
	PointsFor     float64 `json:"pts_for"`
	PointsAgainst float64 `json:"pts_against"`
}

// WinStreak is a team's longest run of consecutive wins, with the season and
// week at which the streak peaked.
type WinStreak struct {
	TeamName string `json:"team_name"`
	Length   int    `json:"longest_win_streak"`
	Season   int    `json:"season"`
	Week     int    `json:"week"`
}

// Records holds the league-wide records. Each field is nil when no matchup
// data exists to compute it.
type Records struct {
	SingleWeekHigh   *HighScore `json:"single_week_high"`
	SingleWeekMargin *Blowout   `json:"single_week_margin"`
	LongestWinStreak *WinStreak `json:"longest_win_streak"`
}

// APIResponse is the standard envelope for tool responses.
type APIResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Summary  string      `json:"summary"`
	Error    string      `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Seasons   int       `json:"seasons,omitempty"`
	Season    int       `json:"season,omitempty"`
}

// StoreError represents a failure reading the raw data tree.
type StoreError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Season  int    `json:"season,omitempty"`
}

func (e *StoreError) Error() string {
	return e.Message
}
