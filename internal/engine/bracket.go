package engine

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/seasonending/yahoo-history-mcp-server/internal/identity"
	"github.com/seasonending/yahoo-history-mcp-server/internal/leaguedata"
)

// SeededMatchup is a matchup row with both teams' playoff seeds attached.
// A nil seed means the team did not make the postseason.
type SeededMatchup struct {
	leaguedata.MatchupRow
	MySeed  *int `json:"my_seed"`
	OppSeed *int `json:"opp_seed"`
}

// Won reports whether this row's team outscored its opponent.
func (m SeededMatchup) Won() bool {
	return m.PointsFor > m.PointsAgainst
}

// AttachSeeds joins one season's matchup rows against its standings, tagging
// each row with both teams' playoff seeds. Team names are the join key,
// matching how the standings and matchup tables reference teams.
func AttachSeeds(standings []leaguedata.SeasonStanding, matchups []leaguedata.MatchupRow) []SeededMatchup {
	seedLookup := make(map[string]int)
	for _, row := range standings {
		if row.PlayoffSeed != nil {
			seedLookup[row.TeamName] = *row.PlayoffSeed
		}
	}

	seeded := make([]SeededMatchup, 0, len(matchups))
	for _, m := range matchups {
		sm := SeededMatchup{MatchupRow: m}
		if seed, exists := seedLookup[m.TeamName]; exists {
			s := seed
			sm.MySeed = &s
		}
		if seed, exists := seedLookup[m.OppName]; exists {
			s := seed
			sm.OppSeed = &s
		}
		seeded = append(seeded, sm)
	}
	return seeded
}

// ChampionshipBracketRows filters a season's seeded matchups down to the
// championship bracket: playoff weeks only, both teams seeded, and both seeds
// inside the bracket. This drops the consolation bracket, which plays the
// same weeks among the eliminated seeds.
func ChampionshipBracketRows(window PlayoffWindow, seeded []SeededMatchup) []SeededMatchup {
	var bracket []SeededMatchup
	for _, m := range seeded {
		if m.Week < window.StartWeek || m.Week > window.EndWeek {
			continue
		}
		if m.MySeed == nil || m.OppSeed == nil {
			continue
		}
		if *m.MySeed > window.MaxSeed || *m.OppSeed > window.MaxSeed {
			continue
		}
		bracket = append(bracket, m)
	}
	return bracket
}

// ChampionStrategy picks a season's champion from its championship-bracket
// rows. Implementations return the winning team name, the method string
// recorded on the championship record, and false when no champion can be
// determined from the rows.
type ChampionStrategy interface {
	Name() string
	FindChampion(window PlayoffWindow, bracket []SeededMatchup) (team string, method string, ok bool)
}

// BracketUndefeatedStrategy identifies the champion as the team with zero
// losses and at least one win inside the bracket set. Within a
// single-elimination bracket a true champion never loses, so exactly one team
// normally qualifies; with sparse data, ties break by most wins (the team
// that advanced through more rounds), then team name for determinism.
type BracketUndefeatedStrategy struct{}

func (BracketUndefeatedStrategy) Name() string { return "bracket_undefeated" }

func (BracketUndefeatedStrategy) FindChampion(_ PlayoffWindow, bracket []SeededMatchup) (string, string, bool) {
	type record struct {
		team   string
		wins   int
		losses int
	}

	stats := make(map[string]*record)
	var order []string
	for _, m := range bracket {
		rec, exists := stats[m.TeamName]
		if !exists {
			rec = &record{team: m.TeamName}
			stats[m.TeamName] = rec
			order = append(order, m.TeamName)
		}
		if m.PointsFor > m.PointsAgainst {
			rec.wins++
		} else if m.PointsFor < m.PointsAgainst {
			rec.losses++
		}
	}

	var undefeated []*record
	for _, team := range order {
		rec := stats[team]
		if rec.losses == 0 && rec.wins > 0 {
			undefeated = append(undefeated, rec)
		}
	}
	if len(undefeated) == 0 {
		return "", "", false
	}

	sort.Slice(undefeated, func(i, j int) bool {
		if undefeated[i].wins != undefeated[j].wins {
			return undefeated[i].wins > undefeated[j].wins
		}
		return undefeated[i].team < undefeated[j].team
	})
	return undefeated[0].team, "bracket_undefeated", true
}

// SemifinalTrackingStrategy walks the bracket round by round: it takes the
// winners of the semifinal week and requires the championship-week winner to
// have come through them. When the rounds don't line up (ties, byes,
// irregular week counts) it degrades through two named fallbacks, and the
// method string records which one produced the answer.
type SemifinalTrackingStrategy struct{}

func (SemifinalTrackingStrategy) Name() string { return "semifinal_tracking" }

func (SemifinalTrackingStrategy) FindChampion(_ PlayoffWindow, bracket []SeededMatchup) (string, string, bool) {
	if len(bracket) == 0 {
		return "", "", false
	}

	weekSet := make(map[int]bool)
	for _, m := range bracket {
		weekSet[m.Week] = true
	}
	weeks := make([]int, 0, len(weekSet))
	for w := range weekSet {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	championshipWeek := weeks[len(weeks)-1]

	var finalGames []SeededMatchup
	for _, m := range bracket {
		if m.Week == championshipWeek {
			finalGames = append(finalGames, m)
		}
	}

	// A tied semifinal produces no winner here, which pushes resolution
	// into the fallbacks below.
	semifinalWinners := make(map[string]bool)
	if len(weeks) >= 2 {
		semifinalWeek := weeks[len(weeks)-2]
		for _, m := range bracket {
			if m.Week == semifinalWeek && m.Won() {
				semifinalWinners[m.TeamName] = true
			}
		}
	}

	// The championship game is the final-week game between two semifinal
	// winners; its winner is the champion.
	var candidates []string
	for _, m := range finalGames {
		if m.Won() && semifinalWinners[m.TeamName] && semifinalWinners[m.OppName] {
			candidates = append(candidates, m.TeamName)
		}
	}
	if team, ok := pickLowest(candidates); ok {
		return team, "semifinal_tracking", true
	}

	// Fallback: any semifinal winner that won its final-week game.
	candidates = candidates[:0]
	for _, m := range finalGames {
		if m.Won() && semifinalWinners[m.TeamName] {
			candidates = append(candidates, m.TeamName)
		}
	}
	if team, ok := pickLowest(candidates); ok {
		return team, "semifinal_tracking:any_semifinal_winner", true
	}

	// Last resort: highest score of the championship week.
	var best *SeededMatchup
	for i := range finalGames {
		m := finalGames[i]
		if best == nil || m.PointsFor > best.PointsFor ||
			(m.PointsFor == best.PointsFor && m.TeamName < best.TeamName) {
			best = &finalGames[i]
		}
	}
	if best == nil {
		return "", "", false
	}
	return best.TeamName, "semifinal_tracking:highest_score", true
}

func pickLowest(teams []string) (string, bool) {
	if len(teams) == 0 {
		return "", false
	}
	sort.Strings(teams)
	return teams[0], true
}

// StrategyByName returns the champion strategy for a config value, defaulting
// to bracket-undefeated for unknown names.
func StrategyByName(name string) ChampionStrategy {
	if name == "semifinal_tracking" {
		return SemifinalTrackingStrategy{}
	}
	return BracketUndefeatedStrategy{}
}

// BracketResolver turns one season's raw tables into a championship record.
type BracketResolver struct {
	resolver *identity.Resolver
	strategy ChampionStrategy
	logger   *logrus.Logger
}

// NewBracketResolver creates a BracketResolver using the given champion
// strategy.
func NewBracketResolver(resolver *identity.Resolver, strategy ChampionStrategy, logger *logrus.Logger) *BracketResolver {
	return &BracketResolver{resolver: resolver, strategy: strategy, logger: logger}
}

// ResolveChampion determines the season's champion, or nil when the bracket
// data is missing or ambiguous. It never fails: a season that cannot be
// resolved is simply absent from the champions set.
func (b *BracketResolver) ResolveChampion(season int, standings []leaguedata.SeasonStanding, matchups []leaguedata.MatchupRow) *leaguedata.ChampionshipRecord {
	window := WindowFor(season, len(standings))
	bracket := ChampionshipBracketRows(window, AttachSeeds(standings, matchups))
	if len(bracket) == 0 {
		b.logger.WithField("season", season).Warn("No championship bracket games, season left unresolved")
		return nil
	}

	team, method, ok := b.strategy.FindChampion(window, bracket)
	if !ok {
		b.logger.WithFields(logrus.Fields{
			"season":   season,
			"strategy": b.strategy.Name(),
		}).Warn("Champion strategy found no winner, season left unresolved")
		return nil
	}

	record := &leaguedata.ChampionshipRecord{
		Season:   season,
		Owner:    b.resolver.Resolve("", team),
		TeamName: team,
		Method:   method,
	}
	for _, m := range bracket {
		if m.TeamName == team && m.MySeed != nil {
			record.Seed = *m.MySeed
			break
		}
	}
	for _, row := range standings {
		if row.TeamName == team {
			rank := row.Rank
			record.Rank = &rank
			break
		}
	}
	return record
}
