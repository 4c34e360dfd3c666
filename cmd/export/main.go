package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/seasonending/yahoo-history-mcp-server/internal/config"
	"github.com/seasonending/yahoo-history-mcp-server/internal/engine"
	"github.com/seasonending/yahoo-history-mcp-server/internal/identity"
	"github.com/seasonending/yahoo-history-mcp-server/internal/leaguedata"
)

// playoffMetrics is the shape of site_data/playoff_metrics.json consumed by
// the site renderer.
type playoffMetrics struct {
	Source map[string]string                     `json:"source"`
	Counts map[string]interface{}                `json:"counts"`
	Champions map[int]leaguedata.ChampionshipRecord `json:"champions_by_season"`
	PerOwner  []leaguedata.OwnerSummary             `json:"per_owner"`
}

func main() {
	var (
		dataDir    = flag.String("data", "data/raw", "raw season data directory")
		siteDir    = flag.String("site", "site_data", "output directory for site JSON")
		reportsDir = flag.String("reports", "reports/csv", "output directory for CSV mirrors")
		strategy   = flag.String("strategy", "bracket_undefeated", "champion detection strategy")
	)
	flag.Parse()

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	mappings, err := config.LoadOwnerMappings()
	if err != nil {
		logger.WithError(err).Warn("Failed to load owner mappings, using defaults")
		mappings = config.DefaultOwnerMappings()
	}

	store := leaguedata.NewFileStore(*dataDir, logger)
	standings, err := store.AllStandings()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load standings")
	}
	matchups, err := store.AllMatchups()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load matchups")
	}

	resolver := identity.NewResolver(mappings)
	eng := engine.NewEngine(resolver, engine.StrategyByName(*strategy), logger)
	out := eng.Run(standings, matchups)

	if err := writeOutputs(logger, *siteDir, *reportsDir, *dataDir, standings, out); err != nil {
		logger.WithError(err).Fatal("Export failed")
	}

	logger.WithFields(logrus.Fields{
		"seasons":    len(out.Champions),
		"franchises": len(out.OwnerSummaries),
	}).Info("Export complete")
}

func writeOutputs(logger *logrus.Logger, siteDir, reportsDir, dataDir string, standings []leaguedata.SeasonStanding, out *engine.Output) error {
	if err := os.MkdirAll(siteDir, 0o755); err != nil {
		return fmt.Errorf("failed to create site data dir: %w", err)
	}
	if err := os.MkdirAll(reportsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create reports dir: %w", err)
	}

	metrics := playoffMetrics{
		Source: map[string]string{"raw_data": dataDir},
		Counts: map[string]interface{}{
			"finishes_rows": len(standings),
			"franchises":    len(out.OwnerSummaries),
			"seasons":       len(out.Champions),
			// Each game appears as two mirrored rows.
			"playoff_games": len(out.BracketRows) / 2,
			"note":          "All playoff stats are championship bracket only (excludes consolation bracket)",
		},
		Champions: out.Champions,
		PerOwner:  out.OwnerSummaries,
	}

	writers := []struct {
		name string
		data interface{}
	}{
		{"playoff_metrics.json", metrics},
		{"champions.json", out.RankChampions},
		{"runnerups.json", out.RunnerUps},
		{"all_time.json", out.AllTime},
		{"records.json", out.Records},
	}
	for _, w := range writers {
		path := filepath.Join(siteDir, w.name)
		if err := writeJSON(path, w.data); err != nil {
			return err
		}
		logger.WithField("path", path).Info("Wrote site data")
	}

	if err := writeFinishersCSV(filepath.Join(reportsDir, "champions.csv"), out.RankChampions); err != nil {
		return err
	}
	if err := writeFinishersCSV(filepath.Join(reportsDir, "runnerups.csv"), out.RunnerUps); err != nil {
		return err
	}
	if err := writeAllTimeCSV(filepath.Join(reportsDir, "all_time.csv"), out.AllTime); err != nil {
		return err
	}

	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeFinishersCSV(path string, finishers []leaguedata.SeasonFinisher) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"season", "team_name", "manager"}); err != nil {
		return err
	}

	sorted := make([]leaguedata.SeasonFinisher, len(finishers))
	copy(sorted, finishers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Season < sorted[j].Season })

	for _, row := range sorted {
		if err := w.Write([]string{strconv.Itoa(row.Season), row.TeamName, row.Manager}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeAllTimeCSV(path string, rows []leaguedata.AllTimeRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"team_name", "manager", "seasons", "titles", "wins", "losses", "ties", "win_pct", "pf", "pa"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.TeamName,
			row.Manager,
			strconv.Itoa(row.Seasons),
			strconv.Itoa(row.Titles),
			strconv.Itoa(row.Wins),
			strconv.Itoa(row.Losses),
			strconv.Itoa(row.Ties),
			strconv.FormatFloat(row.WinPct, 'f', 2, 64),
			strconv.FormatFloat(row.PointsFor, 'f', 2, 64),
			strconv.FormatFloat(row.PointsAgainst, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
