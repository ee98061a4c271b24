package playerstats

// GameweekStats is one player's already-tabulated performance for one round,
// supplied by the external stats feed. The engine never derives these from raw
// match events.
type GameweekStats struct {
	PlayerID   string
	Gameweek   int
	Goals      int
	Assists    int
	Saves      int
	OwnGoals   int
	CleanSheet bool
	Played     bool
}

// SeasonStats accumulates across rounds while gameweek records reset.
type SeasonStats struct {
	PlayerID    string
	Appearances int
	Goals       int
	Assists     int
	Saves       int
	CleanSheets int
	OwnGoals    int
	TotalPoints int
}
