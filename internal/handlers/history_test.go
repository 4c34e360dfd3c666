package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/seasonending/yahoo-history-mcp-server/internal/leaguedata"
)

// MockStore is a mock implementation of the leaguedata.Store interface for testing
type MockStore struct {
	SeasonsFunc      func() ([]int, error)
	StandingsFunc    func(season int) ([]leaguedata.SeasonStanding, error)
	MatchupsFunc     func(season int) ([]leaguedata.MatchupRow, error)
	AllStandingsFunc func() ([]leaguedata.SeasonStanding, error)
	AllMatchupsFunc  func() ([]leaguedata.MatchupRow, error)
}

func (m *MockStore) Seasons() ([]int, error) {
	if m.SeasonsFunc != nil {
		return m.SeasonsFunc()
	}
	return nil, errors.New("not implemented")
}

func (m *MockStore) Standings(season int) ([]leaguedata.SeasonStanding, error) {
	if m.StandingsFunc != nil {
		return m.StandingsFunc(season)
	}
	return nil, errors.New("not implemented")
}

func (m *MockStore) Matchups(season int) ([]leaguedata.MatchupRow, error) {
	if m.MatchupsFunc != nil {
		return m.MatchupsFunc(season)
	}
	return nil, errors.New("not implemented")
}

func (m *MockStore) AllStandings() ([]leaguedata.SeasonStanding, error) {
	if m.AllStandingsFunc != nil {
		return m.AllStandingsFunc()
	}
	return nil, errors.New("not implemented")
}

func (m *MockStore) AllMatchups() ([]leaguedata.MatchupRow, error) {
	if m.AllMatchupsFunc != nil {
		return m.AllMatchupsFunc()
	}
	return nil, errors.New("not implemented")
}

func seedOf(s int) *int { return &s }

// fixtureData is a 10-team 2019 season using real franchise team names, so
// the default owner mappings resolve them. The bracket runs weeks 15-16 with
// seeds 1-4; Don't Rock The Goat sweeps it.
func fixtureData() ([]leaguedata.SeasonStanding, []leaguedata.MatchupRow) {
	standings := []leaguedata.SeasonStanding{
		{Season: 2019, TeamKey: "t.1", TeamName: "Don't Rock The Goat", Manager: "Goat", Rank: 1, Wins: 11, Losses: 3, PointsFor: 1500, PointsAgainst: 1300, PlayoffSeed: seedOf(1)},
		{Season: 2019, TeamKey: "t.2", TeamName: "The RDCs", Manager: "Kurt Russel", Rank: 2, Wins: 10, Losses: 4, PointsFor: 1450, PointsAgainst: 1320, PlayoffSeed: seedOf(2)},
		{Season: 2019, TeamKey: "t.3", TeamName: "Ottoman Empire", Manager: "peterO", Rank: 3, Wins: 9, Losses: 5, PointsFor: 1400, PointsAgainst: 1350, PlayoffSeed: seedOf(3)},
		{Season: 2019, TeamKey: "t.4", TeamName: "Food Bag", Manager: "Matt", Rank: 4, Wins: 8, Losses: 6, PointsFor: 1380, PointsAgainst: 1360, PlayoffSeed: seedOf(4)},
	}
	for i, name := range []string{"F1", "F2", "F3", "F4", "F5", "F6"} {
		standings = append(standings, leaguedata.SeasonStanding{
			Season: 2019, TeamKey: "t.x", TeamName: name, Rank: 5 + i,
		})
	}

	pair := func(week int, a string, aPts float64, b string, bPts float64) []leaguedata.MatchupRow {
		return []leaguedata.MatchupRow{
			{Season: 2019, Week: week, TeamName: a, OppName: b, PointsFor: aPts, PointsAgainst: bPts},
			{Season: 2019, Week: week, TeamName: b, OppName: a, PointsFor: bPts, PointsAgainst: aPts},
		}
	}

	var matchups []leaguedata.MatchupRow
	matchups = append(matchups, pair(15, "Don't Rock The Goat", 120, "Food Bag", 100)...)
	matchups = append(matchups, pair(15, "The RDCs", 110, "Ottoman Empire", 105)...)
	matchups = append(matchups, pair(16, "Don't Rock The Goat", 130, "The RDCs", 125)...)
	return standings, matchups
}

func fixtureStore() *MockStore {
	standings, matchups := fixtureData()
	return &MockStore{
		SeasonsFunc:      func() ([]int, error) { return []int{2019}, nil },
		StandingsFunc:    func(season int) ([]leaguedata.SeasonStanding, error) { return standings, nil },
		MatchupsFunc:     func(season int) ([]leaguedata.MatchupRow, error) { return matchups, nil },
		AllStandingsFunc: func() ([]leaguedata.SeasonStanding, error) { return standings, nil },
		AllMatchupsFunc:  func() ([]leaguedata.MatchupRow, error) { return matchups, nil },
	}
}

// envelope mirrors leaguedata.APIResponse with the payload kept raw so each
// test can decode it into the right shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Summary string          `json:"summary"`
}

func decodeResult(t *testing.T, result *mcp.CallToolResult) envelope {
	t.Helper()
	if result == nil {
		t.Fatal("expected a result")
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %+v", result.Content)
	}
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	textContent, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	var env envelope
	if err := json.Unmarshal([]byte(textContent.Text), &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !env.Success {
		t.Fatal("expected a successful response envelope")
	}
	return env
}

func newFixtureHandler(t *testing.T) *HistoryHandler {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return NewHistoryHandler(fixtureStore(), logger)
}

func TestHistoryHandler_ToolDefinitions(t *testing.T) {
	handler := newFixtureHandler(t)

	tools := []struct {
		tool mcp.Tool
		name string
	}{
		{handler.GetChampionsTool(), "get_champions"},
		{handler.GetOwnerSummariesTool(), "get_owner_summaries"},
		{handler.GetAllTimeStandingsTool(), "get_all_time_standings"},
		{handler.GetLeagueRecordsTool(), "get_league_records"},
		{handler.GetSeasonStandingsTool(), "get_season_standings"},
		{handler.GetSeasonBracketTool(), "get_season_bracket"},
	}

	for _, tt := range tools {
		if tt.tool.Name != tt.name {
			t.Errorf("Expected tool name '%s', got '%s'", tt.name, tt.tool.Name)
		}
		if tt.tool.Description == "" {
			t.Errorf("Expected description for tool '%s'", tt.name)
		}
		if tt.tool.InputSchema.Type != "object" {
			t.Errorf("Expected input schema type 'object' for tool '%s'", tt.name)
		}
	}
}

func TestHistoryHandler_HandleGetChampions(t *testing.T) {
	handler := newFixtureHandler(t)

	result, err := handler.HandleGetChampions(context.Background(), map[string]interface{}{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	env := decodeResult(t, result)

	var data struct {
		Strategy          string                                   `json:"strategy"`
		ChampionsBySeason map[string]leaguedata.ChampionshipRecord `json:"champions_by_season"`
		ResolvedSeasons   []int                                    `json:"resolved_seasons"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}

	if data.Strategy != "bracket_undefeated" {
		t.Errorf("strategy = %s, want bracket_undefeated", data.Strategy)
	}
	if len(data.ResolvedSeasons) != 1 || data.ResolvedSeasons[0] != 2019 {
		t.Errorf("resolved seasons = %v, want [2019]", data.ResolvedSeasons)
	}

	champion, exists := data.ChampionsBySeason["2019"]
	if !exists {
		t.Fatal("expected a 2019 champion")
	}
	if champion.Owner != "slater" || champion.Seed != 1 {
		t.Errorf("champion = %s seed %d, want slater seed 1", champion.Owner, champion.Seed)
	}
	if champion.Method != "bracket_undefeated" {
		t.Errorf("method = %s, want bracket_undefeated", champion.Method)
	}
}

func TestHistoryHandler_HandleGetChampions_StrategyArg(t *testing.T) {
	handler := newFixtureHandler(t)

	result, err := handler.HandleGetChampions(context.Background(), map[string]interface{}{
		"strategy": "semifinal_tracking",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	env := decodeResult(t, result)

	var data struct {
		Strategy string `json:"strategy"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if data.Strategy != "semifinal_tracking" {
		t.Errorf("strategy = %s, want semifinal_tracking", data.Strategy)
	}
}

func TestHistoryHandler_HandleGetChampions_StoreError(t *testing.T) {
	logger, _ := test.NewNullLogger()
	store := &MockStore{
		AllStandingsFunc: func() ([]leaguedata.SeasonStanding, error) {
			return nil, errors.New("data root missing")
		},
	}
	handler := NewHistoryHandler(store, logger)

	result, err := handler.HandleGetChampions(context.Background(), map[string]interface{}{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("Expected result to indicate error")
	}
}

func TestHistoryHandler_HandleGetOwnerSummaries(t *testing.T) {
	handler := newFixtureHandler(t)

	result, err := handler.HandleGetOwnerSummaries(context.Background(), map[string]interface{}{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	env := decodeResult(t, result)

	var summaries []leaguedata.OwnerSummary
	if err := json.Unmarshal(env.Data, &summaries); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if len(summaries) != 4 {
		t.Fatalf("got %d summaries, want 4", len(summaries))
	}

	leader := summaries[0]
	if leader.Owner != "slater" || leader.Titles != 1 {
		t.Errorf("leader = %s (%d titles), want slater with 1", leader.Owner, leader.Titles)
	}
	if leader.DisplayName != "Dave Slater" {
		t.Errorf("leader display name = %s, want Dave Slater", leader.DisplayName)
	}
	if leader.Wins != 2 || leader.Losses != 0 {
		t.Errorf("leader record = %d-%d, want 2-0", leader.Wins, leader.Losses)
	}
}

func TestHistoryHandler_HandleGetAllTimeStandings(t *testing.T) {
	handler := newFixtureHandler(t)

	result, err := handler.HandleGetAllTimeStandings(context.Background(), map[string]interface{}{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	env := decodeResult(t, result)

	var rows []leaguedata.AllTimeRow
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("got %d rows, want 10", len(rows))
	}
	if rows[0].TeamName != "Don't Rock The Goat" || rows[0].Titles != 1 {
		t.Errorf("top row = %s (%d titles), want Don't Rock The Goat with 1", rows[0].TeamName, rows[0].Titles)
	}
}

func TestHistoryHandler_HandleGetLeagueRecords(t *testing.T) {
	handler := newFixtureHandler(t)

	result, err := handler.HandleGetLeagueRecords(context.Background(), map[string]interface{}{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	env := decodeResult(t, result)

	var records leaguedata.Records
	if err := json.Unmarshal(env.Data, &records); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if records.SingleWeekHigh == nil || records.SingleWeekHigh.Points != 130 {
		t.Errorf("single week high = %+v, want 130 points", records.SingleWeekHigh)
	}
	if records.LongestWinStreak == nil || records.LongestWinStreak.TeamName != "Don't Rock The Goat" {
		t.Errorf("win streak = %+v, want Don't Rock The Goat", records.LongestWinStreak)
	}
}

func TestHistoryHandler_HandleGetSeasonStandings(t *testing.T) {
	tests := []struct {
		name           string
		args           map[string]interface{}
		storeError     error
		wantError      bool
		expectErrorMsg bool
	}{
		{
			name: "successful request",
			args: map[string]interface{}{"season": float64(2019)},
		},
		{
			name:      "missing season",
			args:      map[string]interface{}{},
			wantError: true,
		},
		{
			name:      "invalid season type",
			args:      map[string]interface{}{"season": "2019"},
			wantError: true,
		},
		{
			name:           "store error",
			args:           map[string]interface{}{"season": float64(1999)},
			storeError:     errors.New("no standings data for season 1999"),
			expectErrorMsg: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			store := fixtureStore()
			if tt.storeError != nil {
				store.StandingsFunc = func(season int) ([]leaguedata.SeasonStanding, error) {
					return nil, tt.storeError
				}
			}
			handler := NewHistoryHandler(store, logger)

			result, err := handler.HandleGetSeasonStandings(context.Background(), tt.args)

			if tt.wantError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.expectErrorMsg {
				if result == nil || !result.IsError {
					t.Error("Expected result to indicate error")
				}
				return
			}

			env := decodeResult(t, result)
			var lines []StandingLine
			if err := json.Unmarshal(env.Data, &lines); err != nil {
				t.Fatalf("failed to decode data: %v", err)
			}
			if len(lines) != 10 {
				t.Fatalf("got %d lines, want 10", len(lines))
			}
			if lines[0].Owner != "slater" || lines[0].OwnerDisplayName != "Dave Slater" {
				t.Errorf("top line owner = %s/%s, want slater/Dave Slater", lines[0].Owner, lines[0].OwnerDisplayName)
			}
		})
	}
}

func TestHistoryHandler_HandleGetSeasonBracket(t *testing.T) {
	handler := newFixtureHandler(t)

	result, err := handler.HandleGetSeasonBracket(context.Background(), map[string]interface{}{
		"season": float64(2019),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	env := decodeResult(t, result)

	var bracket SeasonBracket
	if err := json.Unmarshal(env.Data, &bracket); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}

	if bracket.Season != 2019 {
		t.Errorf("season = %d, want 2019", bracket.Season)
	}
	if bracket.Window["start_week"] != 15 || bracket.Window["end_week"] != 16 || bracket.Window["max_seed"] != 4 {
		t.Errorf("window = %v, want weeks 15-16 with max seed 4", bracket.Window)
	}

	if len(bracket.Rounds) != 2 {
		t.Fatalf("got %d rounds, want 2", len(bracket.Rounds))
	}
	if bracket.Rounds[0].Name != "Semifinals" || bracket.Rounds[1].Name != "Championship" {
		t.Errorf("round names = %s/%s, want Semifinals/Championship", bracket.Rounds[0].Name, bracket.Rounds[1].Name)
	}
	if len(bracket.Rounds[0].Games) != 2 || len(bracket.Rounds[1].Games) != 1 {
		t.Errorf("games per round = %d/%d, want 2/1",
			len(bracket.Rounds[0].Games), len(bracket.Rounds[1].Games))
	}

	final := bracket.Rounds[1].Games[0]
	if final.WinnerName != "Don't Rock The Goat" || final.LoserName != "The RDCs" {
		t.Errorf("final = %s over %s, want Don't Rock The Goat over The RDCs", final.WinnerName, final.LoserName)
	}

	if bracket.Champion == nil {
		t.Fatal("expected a resolved champion")
	}
	if bracket.Champion.Owner != "slater" {
		t.Errorf("champion owner = %s, want slater", bracket.Champion.Owner)
	}
}
