package engine

// PlayoffWindow describes a season's championship bracket: the weeks it spans
// and the highest seed eligible for it. Seeds above MaxSeed play in the
// concurrent consolation bracket.
type PlayoffWindow struct {
	StartWeek int
	EndWeek   int
	MaxSeed   int
}

// ChampionshipBracketMaxSeed returns the highest championship-bracket seed
// for a league of the given size: a 4-team bracket through the 10-team era,
// a 6-team bracket once the league expanded to 12.
func ChampionshipBracketMaxSeed(numTeams int) int {
	if numTeams <= 10 {
		return 4
	}
	return 6
}

// PlayoffWeeks returns the playoff week range for a season. The NFL's final
// regular-season week is never a fantasy playoff week, so brackets end at
// week 16 before the 2021 schedule expansion and week 17 from then on.
// 4-team brackets run 2 weeks; 6-team brackets run 3, except 2008, which
// played a 2-week bracket despite having 12 teams.
func PlayoffWeeks(season, numTeams int) (startWeek, endWeek int) {
	endWeek = 16
	if season >= 2021 {
		endWeek = 17
	}

	numPlayoffWeeks := 3
	if numTeams <= 10 || season == 2008 {
		numPlayoffWeeks = 2
	}

	return endWeek - numPlayoffWeeks + 1, endWeek
}

// WindowFor combines the week range and bracket size for a season. Total for
// every (season, numTeams) pair; it assumes nothing about which seasons exist.
func WindowFor(season, numTeams int) PlayoffWindow {
	start, end := PlayoffWeeks(season, numTeams)
	return PlayoffWindow{
		StartWeek: start,
		EndWeek:   end,
		MaxSeed:   ChampionshipBracketMaxSeed(numTeams),
	}
}
