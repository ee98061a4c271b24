package memory

import (
	"github.com/pitchside/fiveside/internal/domain/player"
)

// SeedPlayers is a small five-a-side player pool for local development.
func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "gk-01", Name: "Ivan Mercado", Position: player.PositionGoalkeeper, Price: 95, Rating: 84},
		{ID: "gk-02", Name: "Tomas Reyna", Position: player.PositionGoalkeeper, Price: 88, Rating: 80},
		{ID: "gk-03", Name: "Joao Ferraz", Position: player.PositionGoalkeeper, Price: 76, Rating: 74},
		{ID: "gk-04", Name: "Marek Dvorak", Position: player.PositionGoalkeeper, Price: 70, Rating: 71},
		{ID: "hm-01", Name: "Sandro Albrecht", Position: player.PositionHoldingMid, Price: 110, Rating: 88},
		{ID: "hm-02", Name: "Luka Brozek", Position: player.PositionHoldingMid, Price: 102, Rating: 85},
		{ID: "hm-03", Name: "Rafael Duarte", Position: player.PositionHoldingMid, Price: 96, Rating: 82},
		{ID: "hm-04", Name: "Emre Kaplan", Position: player.PositionHoldingMid, Price: 90, Rating: 79},
		{ID: "hm-05", Name: "Diego Salinas", Position: player.PositionHoldingMid, Price: 84, Rating: 77},
		{ID: "hm-06", Name: "Viktor Hansen", Position: player.PositionHoldingMid, Price: 78, Rating: 75},
		{ID: "lw-01", Name: "Kenji Morata", Position: player.PositionLeftWing, Price: 120, Rating: 90},
		{ID: "lw-02", Name: "Abel Nkemdirim", Position: player.PositionLeftWing, Price: 108, Rating: 86},
		{ID: "lw-03", Name: "Pavel Simic", Position: player.PositionLeftWing, Price: 94, Rating: 81},
		{ID: "lw-04", Name: "Theo Marchetti", Position: player.PositionLeftWing, Price: 82, Rating: 76},
		{ID: "rw-01", Name: "Mateus Fontes", Position: player.PositionRightWing, Price: 118, Rating: 89},
		{ID: "rw-02", Name: "Ousmane Barry", Position: player.PositionRightWing, Price: 104, Rating: 84},
		{ID: "rw-03", Name: "Jonas Lindqvist", Position: player.PositionRightWing, Price: 92, Rating: 80},
		{ID: "rw-04", Name: "Ciro Battaglia", Position: player.PositionRightWing, Price: 80, Rating: 75},
	}
}
