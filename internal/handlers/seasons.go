package handlers

import (
	"context"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/seasonending/yahoo-history-mcp-server/internal/engine"
	"github.com/seasonending/yahoo-history-mcp-server/internal/leaguedata"
)

// SeasonArgs represents the parameters for the per-season tools
type SeasonArgs struct {
	Season int `json:"season"`
}

// StandingLine is one season standing with its canonical owner attached.
type StandingLine struct {
	leaguedata.SeasonStanding
	Owner            string `json:"franchise_owner"`
	OwnerDisplayName string `json:"owner_display_name"`
}

// BracketGame is one deduplicated championship-bracket game.
type BracketGame struct {
	Week         int     `json:"week"`
	WinnerName   string  `json:"winner_name"`
	WinnerSeed   *int    `json:"winner_seed"`
	WinnerPoints float64 `json:"winner_points"`
	LoserName    string  `json:"loser_name"`
	LoserSeed    *int    `json:"loser_seed"`
	LoserPoints  float64 `json:"loser_points"`
	Tie          bool    `json:"tie,omitempty"`
}

// BracketRound groups one playoff week's championship-bracket games.
type BracketRound struct {
	Name  string        `json:"name"`
	Week  int           `json:"week"`
	Games []BracketGame `json:"games"`
}

// SeasonBracket is the round-by-round championship bracket for one season.
type SeasonBracket struct {
	Season   int                             `json:"season"`
	Window   map[string]int                  `json:"window"`
	Rounds   []BracketRound                  `json:"rounds"`
	Champion *leaguedata.ChampionshipRecord  `json:"champion"`
}

func parseSeasonArg(args map[string]interface{}) (int, error) {
	seasonRaw, exists := args["season"]
	if !exists {
		return 0, fmt.Errorf("season is required and must be a number")
	}
	seasonFloat, ok := seasonRaw.(float64)
	if !ok {
		return 0, fmt.Errorf("season is required and must be a number")
	}
	return int(seasonFloat), nil
}

// GetSeasonStandingsTool returns the MCP tool definition for get_season_standings
func (h *HistoryHandler) GetSeasonStandingsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_season_standings",
		Description: "Get one season's final standings with canonical franchise owners resolved",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"season": map[string]interface{}{
					"type":        "integer",
					"description": "Season year, e.g. 2019",
					"required":    true,
				},
			},
		},
	}
}

// HandleGetSeasonStandings handles the get_season_standings tool call
func (h *HistoryHandler) HandleGetSeasonStandings(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_season_standings")

	season, err := parseSeasonArg(args)
	if err != nil {
		return nil, err
	}

	standings, err := h.store.Standings(season)
	if err != nil {
		h.logger.WithError(err).WithField("season", season).Error("Failed to get season standings")
		return errorResult(fmt.Sprintf("Failed to get standings for season %d: %s", season, err.Error())), nil
	}

	lines := make([]StandingLine, 0, len(standings))
	for _, row := range standings {
		owner := h.resolver.Resolve(row.Manager, row.TeamName)
		lines = append(lines, StandingLine{
			SeasonStanding:   row,
			Owner:            owner,
			OwnerDisplayName: h.resolver.DisplayName(owner),
		})
	}

	return h.respond(lines,
		fmt.Sprintf("Final standings for %d: %d teams", season, len(lines)),
		leaguedata.Metadata{Season: season})
}

// GetSeasonBracketTool returns the MCP tool definition for get_season_bracket
func (h *HistoryHandler) GetSeasonBracketTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_season_bracket",
		Description: "Get one season's championship bracket round by round, with the resolved champion",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"season": map[string]interface{}{
					"type":        "integer",
					"description": "Season year, e.g. 2019",
					"required":    true,
				},
			},
		},
	}
}

// HandleGetSeasonBracket handles the get_season_bracket tool call
func (h *HistoryHandler) HandleGetSeasonBracket(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_season_bracket")

	season, err := parseSeasonArg(args)
	if err != nil {
		return nil, err
	}

	standings, err := h.store.Standings(season)
	if err != nil {
		h.logger.WithError(err).WithField("season", season).Error("Failed to get season standings")
		return errorResult(fmt.Sprintf("Failed to get standings for season %d: %s", season, err.Error())), nil
	}
	matchups, err := h.store.Matchups(season)
	if err != nil {
		h.logger.WithError(err).WithField("season", season).Error("Failed to get season matchups")
		return errorResult(fmt.Sprintf("Failed to get matchups for season %d: %s", season, err.Error())), nil
	}

	window := engine.WindowFor(season, len(standings))
	bracketRows := engine.ChampionshipBracketRows(window, engine.AttachSeeds(standings, matchups))

	bracket := SeasonBracket{
		Season: season,
		Window: map[string]int{
			"start_week": window.StartWeek,
			"end_week":   window.EndWeek,
			"max_seed":   window.MaxSeed,
		},
		Rounds: buildRounds(bracketRows),
	}

	resolver := engine.NewBracketResolver(h.resolver, h.strategy, h.logger)
	bracket.Champion = resolver.ResolveChampion(season, standings, matchups)

	summary := fmt.Sprintf("Championship bracket for %d: %d rounds", season, len(bracket.Rounds))
	if bracket.Champion != nil {
		summary += fmt.Sprintf(" - Champion: %s (%s, seed %d)",
			h.resolver.DisplayName(bracket.Champion.Owner), bracket.Champion.TeamName, bracket.Champion.Seed)
	} else {
		summary += " - no resolvable champion"
	}

	return h.respond(bracket, summary, leaguedata.Metadata{Season: season})
}

// buildRounds groups bracket rows by week and collapses the two mirrored rows
// of each game into one entry. Round names depend on bracket depth: a 3-week
// bracket opens with quarterfinals, a 2-week bracket with semifinals.
func buildRounds(bracketRows []engine.SeededMatchup) []BracketRound {
	byWeek := make(map[int][]engine.SeededMatchup)
	var weeks []int
	for _, m := range bracketRows {
		if _, exists := byWeek[m.Week]; !exists {
			weeks = append(weeks, m.Week)
		}
		byWeek[m.Week] = append(byWeek[m.Week], m)
	}
	sort.Ints(weeks)

	roundNames := []string{"Semifinals", "Championship"}
	if len(weeks) >= 3 {
		roundNames = []string{"Quarterfinals", "Semifinals", "Championship"}
	}

	var rounds []BracketRound
	for i, week := range weeks {
		name := fmt.Sprintf("Round %d", i+1)
		if i < len(roundNames) {
			name = roundNames[i]
		}

		round := BracketRound{Name: name, Week: week}
		seen := make(map[string]bool)
		for _, m := range byWeek[week] {
			key := pairKey(m.TeamName, m.OppName)
			if seen[key] {
				continue
			}
			seen[key] = true

			game := BracketGame{Week: week}
			switch {
			case m.PointsFor >= m.PointsAgainst:
				game.WinnerName, game.WinnerSeed, game.WinnerPoints = m.TeamName, m.MySeed, m.PointsFor
				game.LoserName, game.LoserSeed, game.LoserPoints = m.OppName, m.OppSeed, m.PointsAgainst
			default:
				game.WinnerName, game.WinnerSeed, game.WinnerPoints = m.OppName, m.OppSeed, m.PointsAgainst
				game.LoserName, game.LoserSeed, game.LoserPoints = m.TeamName, m.MySeed, m.PointsFor
			}
			game.Tie = m.PointsFor == m.PointsAgainst
			round.Games = append(round.Games, game)
		}

		sort.Slice(round.Games, func(a, b int) bool {
			return round.Games[a].WinnerName < round.Games[b].WinnerName
		})
		rounds = append(rounds, round)
	}
	return rounds
}

func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}
