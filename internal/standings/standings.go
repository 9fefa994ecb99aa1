// Package standings ranks a session's players by cumulative point total.
// Lowest total first: in this scoring convention accumulating fewer points
// means winning.
package standings

import (
	"sort"

	"github.com/phorm-app/phorm/internal/models"
)

// Standing pairs a player with their cumulative total
type Standing struct {
	// Player is the ranked player
	Player *models.Player

	// Total is the player's point total across all games
	Total float64
}

// Compute pairs every player with their total (missing entries default to 0)
// and sorts ascending by total. Ties keep the players' original order.
func Compute(players []*models.Player, totals map[string]float64) []Standing {
	result := make([]Standing, 0, len(players))
	for _, player := range players {
		result = append(result, Standing{
			Player: player,
			Total:  totals[player.ID],
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total < result[j].Total
	})

	return result
}
