package handlers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/seasonending/yahoo-history-mcp-server/internal/config"
	"github.com/seasonending/yahoo-history-mcp-server/internal/engine"
	"github.com/seasonending/yahoo-history-mcp-server/internal/identity"
	"github.com/seasonending/yahoo-history-mcp-server/internal/leaguedata"
)

// ChampionsArgs represents the parameters for the get_champions tool
type ChampionsArgs struct {
	Strategy string `json:"strategy,omitempty"`
}

// HistoryHandler handles league-history MCP tools over the season tables.
type HistoryHandler struct {
	store    leaguedata.Store
	resolver *identity.Resolver
	strategy engine.ChampionStrategy
	logger   *logrus.Logger
}

// NewHistoryHandler creates a new history handler. The champion-detection
// strategy defaults to bracket-undefeated, matching the published records.
func NewHistoryHandler(store leaguedata.Store, logger *logrus.Logger) *HistoryHandler {
	mappings, err := config.LoadOwnerMappings()
	if err != nil {
		logger.WithError(err).Warn("Failed to load owner mappings, using defaults")
		mappings = config.DefaultOwnerMappings()
	}

	return &HistoryHandler{
		store:    store,
		resolver: identity.NewResolver(mappings),
		strategy: engine.BracketUndefeatedStrategy{},
		logger:   logger,
	}
}

// runEngine loads the full tables and computes the derived output set.
func (h *HistoryHandler) runEngine(strategy engine.ChampionStrategy) (*engine.Output, int, error) {
	standings, err := h.store.AllStandings()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load standings: %w", err)
	}
	matchups, err := h.store.AllMatchups()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load matchups: %w", err)
	}

	seasons := make(map[int]bool)
	for _, row := range standings {
		seasons[row.Season] = true
	}

	eng := engine.NewEngine(h.resolver, strategy, h.logger)
	return eng.Run(standings, matchups), len(seasons), nil
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// respond envelopes data in the standard APIResponse and renders it.
func (h *HistoryHandler) respond(data interface{}, summary string, meta leaguedata.Metadata) (*mcp.CallToolResult, error) {
	meta.Timestamp = time.Now()
	meta.Source = "raw_data"

	response := leaguedata.APIResponse{
		Success:  true,
		Data:     data,
		Summary:  summary,
		Metadata: meta,
	}

	jsonResponse, err := formatJSONResponse(response)
	if err != nil {
		h.logger.WithError(err).Error("Failed to format response")
		return errorResult(fmt.Sprintf("Error formatting response: %s", err.Error())), nil
	}

	return textResult(jsonResponse), nil
}

// GetChampionsTool returns the MCP tool definition for get_champions
func (h *HistoryHandler) GetChampionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_champions",
		Description: "Get the bracket-resolved champion for every season, with the detection method recorded per season",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"strategy": map[string]interface{}{
					"type":        "string",
					"description": "Champion detection strategy: bracket_undefeated (default) or semifinal_tracking",
					"required":    false,
				},
			},
		},
	}
}

// HandleGetChampions handles the get_champions tool call
func (h *HistoryHandler) HandleGetChampions(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_champions")

	strategy := h.strategy
	if strategyRaw, exists := args["strategy"]; exists {
		if str, ok := strategyRaw.(string); ok && str != "" {
			strategy = engine.StrategyByName(str)
		}
	}

	out, seasonCount, err := h.runEngine(strategy)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute champions")
		return errorResult(fmt.Sprintf("Failed to compute champions: %s", err.Error())), nil
	}

	// Seasons without a resolvable bracket are absent from the map; the
	// sorted list makes the gaps visible to the caller.
	resolved := make([]int, 0, len(out.Champions))
	for season := range out.Champions {
		resolved = append(resolved, season)
	}
	sort.Ints(resolved)

	data := map[string]interface{}{
		"strategy":            strategy.Name(),
		"champions_by_season": out.Champions,
		"resolved_seasons":    resolved,
	}

	return h.respond(data,
		fmt.Sprintf("Resolved champions for %d of %d seasons using %s", len(resolved), seasonCount, strategy.Name()),
		leaguedata.Metadata{Seasons: seasonCount})
}

// GetOwnerSummariesTool returns the MCP tool definition for get_owner_summaries
func (h *HistoryHandler) GetOwnerSummariesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_owner_summaries",
		Description: "Get lifetime championship-bracket playoff statistics per franchise owner, sorted by titles then win percentage",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// HandleGetOwnerSummaries handles the get_owner_summaries tool call
func (h *HistoryHandler) HandleGetOwnerSummaries(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_owner_summaries")

	out, seasonCount, err := h.runEngine(h.strategy)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute owner summaries")
		return errorResult(fmt.Sprintf("Failed to compute owner summaries: %s", err.Error())), nil
	}

	summary := fmt.Sprintf("Playoff summaries for %d franchises across %d seasons", len(out.OwnerSummaries), seasonCount)
	if len(out.OwnerSummaries) > 0 {
		leader := out.OwnerSummaries[0]
		summary += fmt.Sprintf(" - Leader: %s (%d titles, %.3f win pct)", leader.DisplayName, leader.Titles, leader.WinPct)
	}

	return h.respond(out.OwnerSummaries, summary, leaguedata.Metadata{Seasons: seasonCount})
}

// GetAllTimeStandingsTool returns the MCP tool definition for get_all_time_standings
func (h *HistoryHandler) GetAllTimeStandingsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_all_time_standings",
		Description: "Get all-time regular-season standings aggregated per team identity, sorted by titles, win percentage, then points for",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// HandleGetAllTimeStandings handles the get_all_time_standings tool call
func (h *HistoryHandler) HandleGetAllTimeStandings(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_all_time_standings")

	standings, err := h.store.AllStandings()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load standings")
		return errorResult(fmt.Sprintf("Failed to load standings: %s", err.Error())), nil
	}

	rows := engine.AllTimeStandings(standings)
	seasons := make(map[int]bool)
	for _, row := range standings {
		seasons[row.Season] = true
	}

	return h.respond(rows,
		fmt.Sprintf("All-time standings for %d team identities across %d seasons", len(rows), len(seasons)),
		leaguedata.Metadata{Seasons: len(seasons)})
}

// GetLeagueRecordsTool returns the MCP tool definition for get_league_records
func (h *HistoryHandler) GetLeagueRecordsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_league_records",
		Description: "Get league-wide records: single-week high score, biggest blowout, and longest win streak",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// HandleGetLeagueRecords handles the get_league_records tool call
func (h *HistoryHandler) HandleGetLeagueRecords(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_league_records")

	matchups, err := h.store.AllMatchups()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load matchups")
		return errorResult(fmt.Sprintf("Failed to load matchups: %s", err.Error())), nil
	}

	records := engine.LeagueRecords(matchups)

	summary := "No matchup data available"
	if records.SingleWeekHigh != nil {
		summary = fmt.Sprintf("High score: %s with %.2f (week %d, %d)",
			records.SingleWeekHigh.TeamName, records.SingleWeekHigh.Points,
			records.SingleWeekHigh.Week, records.SingleWeekHigh.Season)
	}

	return h.respond(records, summary, leaguedata.Metadata{})
}
