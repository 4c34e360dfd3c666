package main

import (
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/seasonending/yahoo-history-mcp-server/internal/mcp"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	dataDir := os.Getenv("LEAGUE_DATA_DIR")
	if dataDir == "" {
		dataDir = "data/raw"
	}

	mcpServer := mcp.NewHistoryMCPServer(dataDir, logger)
	if mcpServer == nil {
		logger.Fatal("Failed to create MCP server")
	}

	logger.WithField("data_dir", dataDir).Info("Starting League History MCP Server...")

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
		os.Exit(1)
	}
}
