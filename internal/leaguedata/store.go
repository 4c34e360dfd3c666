package leaguedata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Store provides read-only access to the season tables produced by the raw
// data pull. Implementations never mutate the underlying data.
type Store interface {
	// Seasons returns every season present in the tree, ascending.
	Seasons() ([]int, error)

	// Standings returns one season's final standings, sorted by rank.
	Standings(season int) ([]SeasonStanding, error)

	// Matchups returns one season's matchup rows, two per game, sorted by
	// week then team name.
	Matchups(season int) ([]MatchupRow, error)

	// AllStandings returns standings for every season that has them.
	AllStandings() ([]SeasonStanding, error)

	// AllMatchups returns matchup rows for every season that has them.
	AllMatchups() ([]MatchupRow, error)
}

// FileStore implements Store over the data/raw/{season}/ JSON tree written by
// the pull step: settings.json, standings.json and matchups.json per season.
type FileStore struct {
	root   string
	logger *logrus.Logger
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string, logger *logrus.Logger) *FileStore {
	return &FileStore{root: dir, logger: logger}
}

// flexInt decodes a JSON value that Yahoo serializes sometimes as a number
// and sometimes as a quoted string.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return fmt.Errorf("empty numeric field")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// Some fields arrive as "4.0".
		fv, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		v = int(fv)
	}
	*f = flexInt(v)
	return nil
}

// flexFloat is the float counterpart of flexInt.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return fmt.Errorf("empty numeric field")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid float %q", s)
	}
	*f = flexFloat(v)
	return nil
}

type rawSettings struct {
	Season  flexInt `json:"season"`
	EndWeek flexInt `json:"end_week"`
}

type rawManager struct {
	Nickname string `json:"nickname"`
}

type rawOutcomeTotals struct {
	Wins   flexInt  `json:"wins"`
	Losses flexInt  `json:"losses"`
	Ties   *flexInt `json:"ties"`
}

type rawStandingsBlock struct {
	Rank          flexInt          `json:"rank"`
	PlayoffSeed   *flexInt         `json:"playoff_seed"`
	OutcomeTotals rawOutcomeTotals `json:"outcome_totals"`
}

type rawPoints struct {
	Total flexFloat `json:"total"`
}

type rawTeam struct {
	TeamKey            string            `json:"team_key"`
	Name               string            `json:"name"`
	Managers           []rawManager      `json:"managers"`
	Standings          rawStandingsBlock `json:"standings"`
	TeamPoints         rawPoints         `json:"team_points"`
	TeamPointsAgainst  rawPoints         `json:"team_points_against"`
}

type rawMatchupTeam struct {
	TeamKey    string    `json:"team_key"`
	Name       string    `json:"name"`
	TeamPoints rawPoints `json:"team_points"`
}

type rawGame struct {
	Teams []rawMatchupTeam `json:"teams"`
}

func (s *FileStore) seasonDir(season int) string {
	return filepath.Join(s.root, strconv.Itoa(season))
}

// Seasons returns every season directory that carries a settings file.
func (s *FileStore) Seasons() ([]int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StoreError{Type: "read_error", Message: fmt.Sprintf("failed to read data root %s: %s", s.root, err)}
	}

	var seasons []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		season, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.seasonDir(season), "settings.json")); err != nil {
			s.logger.WithField("season", season).Warn("Season directory has no settings file, skipping")
			continue
		}
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)
	return seasons, nil
}

// Standings loads one season's standings file.
func (s *FileStore) Standings(season int) ([]SeasonStanding, error) {
	path := filepath.Join(s.seasonDir(season), "standings.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StoreError{
			Type:    "not_found",
			Message: fmt.Sprintf("no standings data for season %d: %s", season, err),
			Season:  season,
		}
	}

	var teams []json.RawMessage
	if err := json.Unmarshal(data, &teams); err != nil {
		return nil, &StoreError{
			Type:    "parse_error",
			Message: fmt.Sprintf("failed to parse standings for season %d: %s", season, err),
			Season:  season,
		}
	}

	standings := make([]SeasonStanding, 0, len(teams))
	for i, raw := range teams {
		var t rawTeam
		if err := json.Unmarshal(raw, &t); err != nil || t.TeamKey == "" || t.Name == "" {
			s.logger.WithFields(logrus.Fields{
				"season": season,
				"index":  i,
			}).Warn("Skipping malformed standings row")
			continue
		}

		row := SeasonStanding{
			Season:        season,
			TeamKey:       t.TeamKey,
			TeamName:      t.Name,
			Wins:          int(t.Standings.OutcomeTotals.Wins),
			Losses:        int(t.Standings.OutcomeTotals.Losses),
			Rank:          int(t.Standings.Rank),
			PointsFor:     float64(t.TeamPoints.Total),
			PointsAgainst: float64(t.TeamPointsAgainst.Total),
		}
		if t.Standings.OutcomeTotals.Ties != nil {
			row.Ties = int(*t.Standings.OutcomeTotals.Ties)
		}
		if t.Standings.PlayoffSeed != nil {
			seed := int(*t.Standings.PlayoffSeed)
			row.PlayoffSeed = &seed
		}
		if len(t.Managers) > 0 {
			row.Manager = t.Managers[0].Nickname
		}
		standings = append(standings, row)
	}

	sort.Slice(standings, func(i, j int) bool { return standings[i].Rank < standings[j].Rank })
	return standings, nil
}

// Matchups loads one season's week-indexed matchup file and flattens it into
// two mirrored rows per game. Games that fail to parse are skipped.
func (s *FileStore) Matchups(season int) ([]MatchupRow, error) {
	path := filepath.Join(s.seasonDir(season), "matchups.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StoreError{
			Type:    "not_found",
			Message: fmt.Sprintf("no matchup data for season %d: %s", season, err),
			Season:  season,
		}
	}

	var byWeek map[string][]json.RawMessage
	if err := json.Unmarshal(data, &byWeek); err != nil {
		return nil, &StoreError{
			Type:    "parse_error",
			Message: fmt.Sprintf("failed to parse matchups for season %d: %s", season, err),
			Season:  season,
		}
	}

	var rows []MatchupRow
	for weekStr, games := range byWeek {
		week, err := strconv.Atoi(weekStr)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"season": season,
				"week":   weekStr,
			}).Warn("Skipping matchup week with non-numeric key")
			continue
		}

		for _, rawG := range games {
			var g rawGame
			if err := json.Unmarshal(rawG, &g); err != nil || len(g.Teams) != 2 {
				s.logger.WithFields(logrus.Fields{
					"season": season,
					"week":   week,
				}).Warn("Skipping malformed matchup row")
				continue
			}

			t1, t2 := g.Teams[0], g.Teams[1]
			rows = append(rows,
				MatchupRow{
					Season:        season,
					Week:          week,
					TeamKey:       t1.TeamKey,
					TeamName:      t1.Name,
					OppKey:        t2.TeamKey,
					OppName:       t2.Name,
					PointsFor:     float64(t1.TeamPoints.Total),
					PointsAgainst: float64(t2.TeamPoints.Total),
				},
				MatchupRow{
					Season:        season,
					Week:          week,
					TeamKey:       t2.TeamKey,
					TeamName:      t2.Name,
					OppKey:        t1.TeamKey,
					OppName:       t1.Name,
					PointsFor:     float64(t2.TeamPoints.Total),
					PointsAgainst: float64(t1.TeamPoints.Total),
				},
			)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Week != rows[j].Week {
			return rows[i].Week < rows[j].Week
		}
		return rows[i].TeamName < rows[j].TeamName
	})
	return rows, nil
}

// AllStandings folds every season's standings into one table. Seasons with
// missing or unreadable standings are skipped, not fatal.
func (s *FileStore) AllStandings() ([]SeasonStanding, error) {
	seasons, err := s.Seasons()
	if err != nil {
		return nil, err
	}

	var all []SeasonStanding
	for _, season := range seasons {
		rows, err := s.Standings(season)
		if err != nil {
			s.logger.WithError(err).WithField("season", season).Warn("Skipping season without standings")
			continue
		}
		all = append(all, rows...)
	}
	return all, nil
}

// AllMatchups folds every season's matchup rows into one table. Seasons with
// missing or unreadable matchups are skipped, not fatal.
func (s *FileStore) AllMatchups() ([]MatchupRow, error) {
	seasons, err := s.Seasons()
	if err != nil {
		return nil, err
	}

	var all []MatchupRow
	for _, season := range seasons {
		rows, err := s.Matchups(season)
		if err != nil {
			s.logger.WithError(err).WithField("season", season).Warn("Skipping season without matchups")
			continue
		}
		all = append(all, rows...)
	}
	return all, nil
}
