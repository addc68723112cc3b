// internal/engine/turns.go
package engine

import (
	"github.com/google/uuid"

	"github.com/magnatehq/magnate/internal/models"
)

// nextPlayer returns the player after cur in stable join order, skipping
// eliminated seats and wrapping around. wrapped is true when the order
// passed the first seat again, which marks the end of a full round. Kept
// separate from the transition logic so elimination and skip rules can
// change without touching roll or purchase handling.
func nextPlayer(players []models.Player, cur uuid.UUID) (next uuid.UUID, wrapped bool) {
	idx := -1
	for i, p := range players {
		if p.ID == cur {
			idx = i
			break
		}
	}
	if idx < 0 || len(players) == 0 {
		return cur, false
	}
	for step := 1; step <= len(players); step++ {
		i := (idx + step) % len(players)
		if players[i].Eliminated {
			continue
		}
		return players[i].ID, i <= idx
	}
	return cur, false
}

// firstPlayer returns the first non-eliminated seat by join order.
func firstPlayer(players []models.Player) (uuid.UUID, bool) {
	for _, p := range players {
		if !p.Eliminated {
			return p.ID, true
		}
	}
	return uuid.Nil, false
}
