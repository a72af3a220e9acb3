package roster

import (
	"github.com/dmcalister/gridiron/internal/models"
)

// positionMinimums are the fewest players a legal roster carries at each
// position. K and DST are exact counts, the rest are floors.
var positionMinimums = map[models.Position]int{
	models.PositionQB: 1,
	models.PositionRB: 2,
	models.PositionWR: 2,
	models.PositionTE: 1,
}

var positionExact = map[models.Position]int{
	models.PositionK:   1,
	models.PositionDST: 1,
}

// ValidateRoster checks a team's full roster against the league rules and
// returns every violation found. An empty slice means the roster is legal.
func ValidateRoster(roster []models.RosterPlayer) []Violation {
	var violations []Violation

	if len(roster) == 0 {
		return []Violation{violationf(CodeEmptyRoster, "roster is empty")}
	}

	violations = append(violations, checkDuplicates(roster)...)
	violations = append(violations, checkRosterSize(roster)...)
	violations = append(violations, checkPositionCounts(roster)...)
	violations = append(violations, checkStarterTemplate(roster)...)
	violations = append(violations, checkIRSlots(roster)...)

	return violations
}

func checkDuplicates(roster []models.RosterPlayer) []Violation {
	var violations []Violation
	seen := make(map[uint]string, len(roster))
	for _, rp := range roster {
		if _, dup := seen[rp.PlayerID]; dup {
			violations = append(violations, violationf(CodeDuplicatePlayer,
				"player %s appears on the roster more than once", rp.Player.Name))
			continue
		}
		seen[rp.PlayerID] = rp.Player.Name
	}
	return violations
}

func checkRosterSize(roster []models.RosterPlayer) []Violation {
	active := models.ActiveCount(roster)
	if active < models.MinRosterSize || active > models.MaxRosterSize {
		return []Violation{violationf(CodeRosterSize,
			"roster has %d active players, must be between %d and %d",
			active, models.MinRosterSize, models.MaxRosterSize)}
	}
	return nil
}

func checkPositionCounts(roster []models.RosterPlayer) []Violation {
	var violations []Violation

	counts := make(map[models.Position]int)
	for _, rp := range roster {
		if rp.OnIR() {
			continue
		}
		counts[rp.Player.Position]++
	}

	for _, pos := range []models.Position{models.PositionQB, models.PositionRB, models.PositionWR, models.PositionTE} {
		if counts[pos] < positionMinimums[pos] {
			violations = append(violations, violationf(CodePositionMinimum,
				"roster needs at least %d %s, has %d", positionMinimums[pos], pos, counts[pos]))
		}
	}

	for _, pos := range []models.Position{models.PositionK, models.PositionDST} {
		if counts[pos] != positionExact[pos] {
			violations = append(violations, violationf(CodePositionExact,
				"roster needs exactly %d %s, has %d", positionExact[pos], pos, counts[pos]))
		}
	}

	return violations
}

func checkStarterTemplate(roster []models.RosterPlayer) []Violation {
	var violations []Violation

	occupants := make(map[models.LineupSlot][]models.RosterPlayer)
	for _, rp := range roster {
		if rp.Slot != models.SlotStarter {
			continue
		}
		occupants[rp.LineupSlot] = append(occupants[rp.LineupSlot], rp)
	}

	for _, slot := range models.LineupTemplate {
		filled := occupants[slot]
		switch {
		case len(filled) == 0:
			violations = append(violations, violationf(CodeSlotUnfilled,
				"starting slot %s is empty", slot))
		case len(filled) > 1:
			violations = append(violations, violationf(CodeSlotOverfilled,
				"starting slot %s has %d occupants", slot, len(filled)))
		default:
			rp := filled[0]
			if !models.EligibleForSlot(slot, rp.Player.Position) {
				violations = append(violations, violationf(CodeSlotIneligible,
					"%s (%s) is not eligible for slot %s", rp.Player.Name, rp.Player.Position, slot))
			}
		}
	}

	return violations
}

func checkIRSlots(roster []models.RosterPlayer) []Violation {
	var violations []Violation

	irCount := 0
	for _, rp := range roster {
		if !rp.OnIR() {
			continue
		}
		irCount++
		if !rp.Player.InjuryStatus.IREligible() {
			violations = append(violations, violationf(CodeIRIneligible,
				"%s is on IR but has status %s", rp.Player.Name, rp.Player.InjuryStatus))
		}
	}

	if irCount > models.MaxIRSlots {
		violations = append(violations, violationf(CodeIRLimit,
			"roster uses %d IR slots, maximum is %d", irCount, models.MaxIRSlots))
	}

	return violations
}
