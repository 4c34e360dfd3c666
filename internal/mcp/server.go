package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/seasonending/yahoo-history-mcp-server/internal/handlers"
	"github.com/seasonending/yahoo-history-mcp-server/internal/leaguedata"
)

func NewHistoryMCPServer(dataDir string, logger *logrus.Logger) *server.DefaultServer {
	// The store reads the raw per-season JSON tree written by the pull step
	store := leaguedata.NewFileStore(dataDir, logger)

	historyHandler := handlers.NewHistoryHandler(store, logger)

	s := server.NewDefaultServer("League History", "1.0.0")

	if s == nil {
		logger.Error("Failed to create MCP server instance")
		return nil
	}

	logger.Info("MCP server instance created successfully")

	s.HandleListTools(func(ctx context.Context, cursor *string) (*mcp.ListToolsResult, error) {
		tools := []mcp.Tool{
			historyHandler.GetChampionsTool(),
			historyHandler.GetOwnerSummariesTool(),
			historyHandler.GetAllTimeStandingsTool(),
			historyHandler.GetLeagueRecordsTool(),
			historyHandler.GetSeasonStandingsTool(),
			historyHandler.GetSeasonBracketTool(),
		}

		logger.WithField("tools_count", len(tools)).Info("Listing available tools")

		return &mcp.ListToolsResult{
			Tools: tools,
		}, nil
	})

	s.HandleCallTool(func(ctx context.Context, name string, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		logger.WithFields(logrus.Fields{
			"tool": name,
			"args": arguments,
		}).Info("Tool called")

		switch name {
		case "get_champions":
			return historyHandler.HandleGetChampions(ctx, arguments)
		case "get_owner_summaries":
			return historyHandler.HandleGetOwnerSummaries(ctx, arguments)
		case "get_all_time_standings":
			return historyHandler.HandleGetAllTimeStandings(ctx, arguments)
		case "get_league_records":
			return historyHandler.HandleGetLeagueRecords(ctx, arguments)
		case "get_season_standings":
			return historyHandler.HandleGetSeasonStandings(ctx, arguments)
		case "get_season_bracket":
			return historyHandler.HandleGetSeasonBracket(ctx, arguments)
		default:
			logger.WithField("tool", name).Warn("Unknown tool called")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{
						Type: "text",
						Text: "Unknown tool: " + name,
					},
				},
				IsError: true,
			}, nil
		}
	})

	logger.Info("All tools registered successfully")
	return s
}
