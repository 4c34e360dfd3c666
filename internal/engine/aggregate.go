package engine

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/seasonending/yahoo-history-mcp-server/internal/identity"
	"github.com/seasonending/yahoo-history-mcp-server/internal/leaguedata"
)

// Output holds everything one engine run derives from the season tables. All
// of it is recomputed from scratch each run; nothing is mutated incrementally.
type Output struct {
	// Champions maps season to its bracket-resolved champion. Seasons whose
	// bracket could not be resolved are absent, never zero-filled.
	Champions map[int]leaguedata.ChampionshipRecord

	// BracketRows is the championship-bracket row set across all seasons,
	// the input to the owner summaries.
	BracketRows []SeededMatchup

	OwnerSummaries []leaguedata.OwnerSummary
	AllTime        []leaguedata.AllTimeRow
	Records        leaguedata.Records

	// RankChampions and RunnerUps are the rank-based season results from the
	// final standings, independent of bracket resolution.
	RankChampions []leaguedata.SeasonFinisher
	RunnerUps     []leaguedata.SeasonFinisher
}

// Engine folds the full standings and matchup tables into per-owner,
// per-team and league-wide statistics. It is a pure transformation: no I/O,
// no shared state, safe to re-run against the same inputs.
type Engine struct {
	resolver *identity.Resolver
	bracket  *BracketResolver
	logger   *logrus.Logger
}

// NewEngine creates an Engine using the given champion strategy.
func NewEngine(resolver *identity.Resolver, strategy ChampionStrategy, logger *logrus.Logger) *Engine {
	return &Engine{
		resolver: resolver,
		bracket:  NewBracketResolver(resolver, strategy, logger),
		logger:   logger,
	}
}

// Run computes the full output set from the loaded tables.
func (e *Engine) Run(standings []leaguedata.SeasonStanding, matchups []leaguedata.MatchupRow) *Output {
	standingsBySeason := make(map[int][]leaguedata.SeasonStanding)
	for _, row := range standings {
		standingsBySeason[row.Season] = append(standingsBySeason[row.Season], row)
	}
	matchupsBySeason := make(map[int][]leaguedata.MatchupRow)
	for _, row := range matchups {
		matchupsBySeason[row.Season] = append(matchupsBySeason[row.Season], row)
	}

	seasons := make([]int, 0, len(standingsBySeason))
	for season := range standingsBySeason {
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)

	out := &Output{Champions: make(map[int]leaguedata.ChampionshipRecord)}

	for _, season := range seasons {
		seasonStandings := standingsBySeason[season]
		window := WindowFor(season, len(seasonStandings))
		bracket := ChampionshipBracketRows(window, AttachSeeds(seasonStandings, matchupsBySeason[season]))
		if len(bracket) == 0 {
			continue
		}
		out.BracketRows = append(out.BracketRows, bracket...)

		if record := e.bracket.ResolveChampion(season, seasonStandings, matchupsBySeason[season]); record != nil {
			out.Champions[season] = *record
		}
	}

	out.OwnerSummaries = e.ownerSummaries(standings, standingsBySeason, out.BracketRows, out.Champions)
	out.AllTime = AllTimeStandings(standings)
	out.Records = LeagueRecords(matchups)
	out.RankChampions = SeasonFinishers(standings, 1)
	out.RunnerUps = SeasonFinishers(standings, 2)

	return out
}

// ownerSummaries groups the championship-bracket rows by canonical owner and
// attaches titles and appearance counts. The unknown owner is not a
// reportable franchise and is dropped.
func (e *Engine) ownerSummaries(
	standings []leaguedata.SeasonStanding,
	standingsBySeason map[int][]leaguedata.SeasonStanding,
	bracketRows []SeededMatchup,
	champions map[int]leaguedata.ChampionshipRecord,
) []leaguedata.OwnerSummary {
	type ownerGames struct {
		wins, losses, ties int
		pf, pa             float64
	}

	games := make(map[string]*ownerGames)
	for _, m := range bracketRows {
		owner := e.resolver.Resolve("", m.TeamName)
		if owner == "" || owner == identity.Unknown {
			continue
		}
		g, exists := games[owner]
		if !exists {
			g = &ownerGames{}
			games[owner] = g
		}
		switch {
		case m.PointsFor > m.PointsAgainst:
			g.wins++
		case m.PointsFor < m.PointsAgainst:
			g.losses++
		default:
			g.ties++
		}
		g.pf += m.PointsFor
		g.pa += m.PointsAgainst
	}

	summaries := make([]leaguedata.OwnerSummary, 0, len(games))
	for owner, g := range games {
		summary := leaguedata.OwnerSummary{
			Owner:         owner,
			DisplayName:   e.resolver.DisplayName(owner),
			Wins:          g.wins,
			Losses:        g.losses,
			Ties:          g.ties,
			PointsFor:     round2(g.pf),
			PointsAgainst: round2(g.pa),
		}

		for season, record := range champions {
			if record.Owner == owner {
				summary.TitlesByYear = append(summary.TitlesByYear, season)
			}
		}
		sort.Ints(summary.TitlesByYear)
		summary.Titles = len(summary.TitlesByYear)
		if summary.TitlesByYear == nil {
			summary.TitlesByYear = []int{}
		}

		// Championship-bracket appearances only; a consolation-bracket seed
		// does not count, so each seed is checked against its own season's
		// bracket size.
		for _, row := range standings {
			if e.resolver.Resolve(row.Manager, row.TeamName) != owner || row.PlayoffSeed == nil {
				continue
			}
			maxSeed := ChampionshipBracketMaxSeed(len(standingsBySeason[row.Season]))
			if *row.PlayoffSeed > maxSeed {
				continue
			}
			summary.PlayoffAppearances++
			seed := *row.PlayoffSeed
			if summary.BestSeed == nil || seed < *summary.BestSeed {
				best := seed
				summary.BestSeed = &best
			}
			if summary.WorstSeed == nil || seed > *summary.WorstSeed {
				worst := seed
				summary.WorstSeed = &worst
			}
		}

		total := g.wins + g.losses + g.ties
		if total > 0 {
			summary.WinPct = round3((float64(g.wins) + 0.5*float64(g.ties)) / float64(total))
			avgFor := round2(g.pf / float64(total))
			avgAgainst := round2(g.pa / float64(total))
			summary.AvgPointsFor = &avgFor
			summary.AvgPointsAgainst = &avgAgainst
		}

		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Titles != summaries[j].Titles {
			return summaries[i].Titles > summaries[j].Titles
		}
		if summaries[i].WinPct != summaries[j].WinPct {
			return summaries[i].WinPct > summaries[j].WinPct
		}
		return summaries[i].Owner < summaries[j].Owner
	})
	return summaries
}

// AllTimeStandings aggregates regular-season totals per (team name, manager)
// identity. This is season-agnostic team history, deliberately not
// canonicalized to owners.
func AllTimeStandings(standings []leaguedata.SeasonStanding) []leaguedata.AllTimeRow {
	type key struct{ team, manager string }
	totals := make(map[key]*leaguedata.AllTimeRow)
	seasonsSeen := make(map[key]map[int]bool)
	var order []key

	for _, row := range standings {
		k := key{row.TeamName, row.Manager}
		agg, exists := totals[k]
		if !exists {
			agg = &leaguedata.AllTimeRow{TeamName: row.TeamName, Manager: row.Manager}
			totals[k] = agg
			seasonsSeen[k] = make(map[int]bool)
			order = append(order, k)
		}
		seasonsSeen[k][row.Season] = true
		agg.Wins += row.Wins
		agg.Losses += row.Losses
		agg.Ties += row.Ties
		agg.PointsFor += row.PointsFor
		agg.PointsAgainst += row.PointsAgainst
		if row.Rank == 1 {
			agg.Titles++
		}
	}

	rows := make([]leaguedata.AllTimeRow, 0, len(order))
	for _, k := range order {
		agg := totals[k]
		agg.Seasons = len(seasonsSeen[k])
		games := agg.Wins + agg.Losses + agg.Ties
		if games > 0 {
			agg.WinPct = round2((float64(agg.Wins) + 0.5*float64(agg.Ties)) / float64(games) * 100)
		}
		agg.PointsFor = round2(agg.PointsFor)
		agg.PointsAgainst = round2(agg.PointsAgainst)
		rows = append(rows, *agg)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Titles != rows[j].Titles {
			return rows[i].Titles > rows[j].Titles
		}
		if rows[i].WinPct != rows[j].WinPct {
			return rows[i].WinPct > rows[j].WinPct
		}
		if rows[i].PointsFor != rows[j].PointsFor {
			return rows[i].PointsFor > rows[j].PointsFor
		}
		return rows[i].TeamName < rows[j].TeamName
	})
	return rows
}

// LeagueRecords computes the league-wide records over the full matchup set,
// regular season and playoffs alike. Every field is nil when no matchup data
// exists.
func LeagueRecords(matchups []leaguedata.MatchupRow) leaguedata.Records {
	var records leaguedata.Records
	if len(matchups) == 0 {
		return records
	}

	for _, m := range matchups {
		if records.SingleWeekHigh == nil || m.PointsFor > records.SingleWeekHigh.Points {
			records.SingleWeekHigh = &leaguedata.HighScore{
				Season:   m.Season,
				Week:     m.Week,
				TeamName: m.TeamName,
				Points:   m.PointsFor,
			}
		}

		margin := m.PointsFor - m.PointsAgainst
		if records.SingleWeekMargin == nil || margin > records.SingleWeekMargin.Margin {
			records.SingleWeekMargin = &leaguedata.Blowout{
				Season:        m.Season,
				Week:          m.Week,
				TeamName:      m.TeamName,
				OppName:       m.OppName,
				Margin:        margin,
				PointsFor:     m.PointsFor,
				PointsAgainst: m.PointsAgainst,
			}
		}
	}

	records.LongestWinStreak = longestWinStreak(matchups)
	return records
}

// longestWinStreak scans each team's rows in (season, week) order. A win
// extends the running streak; a loss or a tie resets it to zero. The peak is
// remembered with the season and week at which it was reached.
func longestWinStreak(matchups []leaguedata.MatchupRow) *leaguedata.WinStreak {
	byTeam := make(map[string][]leaguedata.MatchupRow)
	var teams []string
	for _, m := range matchups {
		if _, exists := byTeam[m.TeamName]; !exists {
			teams = append(teams, m.TeamName)
		}
		byTeam[m.TeamName] = append(byTeam[m.TeamName], m)
	}
	sort.Strings(teams)

	var overall *leaguedata.WinStreak
	for _, team := range teams {
		rows := byTeam[team]
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Season != rows[j].Season {
				return rows[i].Season < rows[j].Season
			}
			return rows[i].Week < rows[j].Week
		})

		streak := leaguedata.WinStreak{TeamName: team}
		current := 0
		for _, m := range rows {
			if m.PointsFor > m.PointsAgainst {
				current++
				if current > streak.Length {
					streak.Length = current
					streak.Season = m.Season
					streak.Week = m.Week
				}
			} else {
				current = 0
			}
		}

		if overall == nil || streak.Length > overall.Length {
			s := streak
			overall = &s
		}
	}

	if overall == nil || overall.Length == 0 {
		return nil
	}
	return overall
}

// SeasonFinishers lists the team that finished at the given final-standings
// rank in every season, sorted by season then team name.
func SeasonFinishers(standings []leaguedata.SeasonStanding, rank int) []leaguedata.SeasonFinisher {
	var finishers []leaguedata.SeasonFinisher
	for _, row := range standings {
		if row.Rank == rank {
			finishers = append(finishers, leaguedata.SeasonFinisher{
				Season:   row.Season,
				TeamName: row.TeamName,
				Manager:  row.Manager,
			})
		}
	}
	sort.Slice(finishers, func(i, j int) bool {
		if finishers[i].Season != finishers[j].Season {
			return finishers[i].Season < finishers[j].Season
		}
		return finishers[i].TeamName < finishers[j].TeamName
	})
	return finishers
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
