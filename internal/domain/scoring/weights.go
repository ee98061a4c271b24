package scoring

import (
	"github.com/pitchside/fiveside/internal/domain/player"
	"github.com/pitchside/fiveside/internal/domain/playerstats"
)

// Weights is the per-position scoring table. Clean-sheet and save credit apply
// only to the defensive tier; own goals penalize every position.
type Weights struct {
	Goal       int
	Assist     int
	Save       int
	CleanSheet int
	OwnGoal    int
}

var weightsByPosition = map[player.Position]Weights{
	player.PositionGoalkeeper: {Goal: 6, Assist: 3, Save: 1, CleanSheet: 4, OwnGoal: -2},
	player.PositionHoldingMid: {Goal: 6, Assist: 3, Save: 1, CleanSheet: 4, OwnGoal: -2},
	player.PositionLeftWing:   {Goal: 4, Assist: 3, Save: 0, CleanSheet: 0, OwnGoal: -2},
	player.PositionRightWing:  {Goal: 4, Assist: 3, Save: 0, CleanSheet: 0, OwnGoal: -2},
}

// WeightsFor returns the scoring weights for a position.
func WeightsFor(pos player.Position) Weights {
	return weightsByPosition[pos]
}

// BasePoints computes a player's raw gameweek points before any captain
// multiplier or chip effect. A player who did not play scores nothing.
func BasePoints(pos player.Position, st playerstats.GameweekStats) int {
	if !st.Played {
		return 0
	}

	w := weightsByPosition[pos]
	points := st.Goals*w.Goal + st.Assists*w.Assist + st.Saves*w.Save + st.OwnGoals*w.OwnGoal
	if st.CleanSheet {
		points += w.CleanSheet
	}

	return points
}
