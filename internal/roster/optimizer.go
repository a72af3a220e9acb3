package roster

import (
	"github.com/dmcalister/gridiron/internal/models"
)

// SlotAssignment records which player fills a lineup slot for a week.
type SlotAssignment struct {
	RosterPlayerID uint            `json:"roster_player_id"`
	PlayerID       uint            `json:"player_id"`
	Name           string          `json:"name"`
	Position       models.Position `json:"position"`
	Points         float64         `json:"points"`
	// Fallback marks a slot filled by a bye-week or inactive player because no
	// healthy alternative existed.
	Fallback bool `json:"fallback,omitempty"`
}

// LineupResult maps each slot of the starting template to its best occupant.
// Slots the roster cannot fill at all map to nil.
type LineupResult struct {
	Week        int                                   `json:"week"`
	Slots       map[models.LineupSlot]*SlotAssignment `json:"slots"`
	TotalPoints float64                               `json:"total_points"`
}

// OptimizeLineup selects the highest-scoring legal lineup for the week. Fixed
// slots are filled in template order before FLEX so the flex pool only sees
// leftovers. Each slot takes the eligible, unassigned player with the most
// applicable points (actual once the week is final, projected otherwise).
// Players on bye or ruled out are skipped while an alternative exists; when
// every candidate is excluded the best of them fills the slot anyway rather
// than leaving it empty. Ties go to the earlier roster entry.
func OptimizeLineup(roster []models.RosterPlayer, week int) LineupResult {
	result := LineupResult{
		Week:  week,
		Slots: make(map[models.LineupSlot]*SlotAssignment, len(models.LineupTemplate)),
	}

	assigned := make(map[uint]bool, models.StarterSlots)

	for _, slot := range models.LineupTemplate {
		pick := pickForSlot(roster, slot, week, assigned)
		result.Slots[slot] = pick
		if pick != nil {
			assigned[pick.RosterPlayerID] = true
			result.TotalPoints += pick.Points
		}
	}

	return result
}

// pickForSlot returns the best unassigned candidate for the slot, preferring
// available players and degrading to excluded ones only when the pool is empty.
func pickForSlot(roster []models.RosterPlayer, slot models.LineupSlot, week int, assigned map[uint]bool) *SlotAssignment {
	var best, bestExcluded *models.RosterPlayer
	var bestPts, bestExcludedPts float64

	for i := range roster {
		rp := &roster[i]
		if assigned[rp.ID] || rp.OnIR() {
			continue
		}
		if !models.EligibleForSlot(slot, rp.Player.Position) {
			continue
		}

		pts := rp.Player.PointsForWeek(week)
		if rp.Player.OnBye(week) || rp.Player.Unavailable() {
			if bestExcluded == nil || pts > bestExcludedPts {
				bestExcluded, bestExcludedPts = rp, pts
			}
			continue
		}
		if best == nil || pts > bestPts {
			best, bestPts = rp, pts
		}
	}

	switch {
	case best != nil:
		return assignment(best, bestPts, false)
	case bestExcluded != nil:
		return assignment(bestExcluded, bestExcludedPts, true)
	default:
		return nil
	}
}

func assignment(rp *models.RosterPlayer, pts float64, fallback bool) *SlotAssignment {
	return &SlotAssignment{
		RosterPlayerID: rp.ID,
		PlayerID:       rp.PlayerID,
		Name:           rp.Player.Name,
		Position:       rp.Player.Position,
		Points:         pts,
		Fallback:       fallback,
	}
}
