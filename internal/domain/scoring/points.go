package scoring

import (
	"github.com/pitchside/fiveside/internal/domain/player"
	"github.com/pitchside/fiveside/internal/domain/playerstats"
	"github.com/pitchside/fiveside/internal/domain/roster"
)

// PlayerScore is one rostered player's contribution to a gameweek total.
type PlayerScore struct {
	PlayerID      string
	Position      player.Position
	IsStarter     bool
	IsCaptain     bool
	IsViceCaptain bool
	Base          int
	MultNum       int
	MultDen       int
	Counted       int
}

// multiplier resolves the captaincy bonus as a rational factor so the odd
// captain-and-vice-both-played case (x1.5) stays in integer arithmetic.
//
//   - captain played, Triple Captain active: captain x3, vice untouched
//   - captain played, vice absent: captain x2
//   - captain played, vice also played: captain x3/2, vice gets no bonus
//   - captain absent, vice played: vice x2 as stand-in
//   - both absent: no bonus for anyone
func multiplier(isCaptain, isVice, captainPlayed, vicePlayed, tripleCaptain bool) (int, int) {
	switch {
	case isCaptain && captainPlayed && tripleCaptain:
		return 3, 1
	case isCaptain && captainPlayed && vicePlayed:
		return 3, 2
	case isCaptain && captainPlayed:
		return 2, 1
	case isVice && !captainPlayed && vicePlayed:
		return 2, 1
	default:
		return 1, 1
	}
}

// ScoreLineup computes a roster's gameweek points from the lineup as of lock
// time and the finalized stat records. Substitutes contribute nothing unless
// Bench Boost is active, in which case their raw points are added unmultiplied.
// The transfer-cost deduction is applied by the caller.
func ScoreLineup(starters, bench []roster.Pick, captainID, viceCaptainID string, activeChip roster.ChipKind, stats map[string]playerstats.GameweekStats) (int, []PlayerScore) {
	played := func(playerID string) bool {
		st, ok := stats[playerID]
		return ok && st.Played
	}
	captainPlayed := played(captainID)
	vicePlayed := played(viceCaptainID)
	tripleCaptain := activeChip == roster.ChipTripleCaptain

	total := 0
	out := make([]PlayerScore, 0, len(starters)+len(bench))

	for _, pick := range starters {
		base := BasePoints(pick.Position, stats[pick.PlayerID])
		isCaptain := pick.PlayerID == captainID
		isVice := pick.PlayerID == viceCaptainID

		num, den := multiplier(isCaptain, isVice, captainPlayed, vicePlayed, tripleCaptain)
		counted := base * num / den

		total += counted
		out = append(out, PlayerScore{
			PlayerID:      pick.PlayerID,
			Position:      pick.Position,
			IsStarter:     true,
			IsCaptain:     isCaptain,
			IsViceCaptain: isVice,
			Base:          base,
			MultNum:       num,
			MultDen:       den,
			Counted:       counted,
		})
	}

	benchBoost := activeChip == roster.ChipBenchBoost
	for _, pick := range bench {
		base := BasePoints(pick.Position, stats[pick.PlayerID])
		counted := 0
		if benchBoost {
			counted = base
		}

		total += counted
		out = append(out, PlayerScore{
			PlayerID: pick.PlayerID,
			Position: pick.Position,
			Base:     base,
			MultNum:  1,
			MultDen:  1,
			Counted:  counted,
		})
	}

	return total, out
}
