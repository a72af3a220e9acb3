package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmcalister/gridiron/internal/models"
)

func codes(violations []Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Code)
	}
	return out
}

func TestValidateRoster_LegalRoster(t *testing.T) {
	violations := ValidateRoster(legalRoster())
	assert.Empty(t, violations)
}

func TestValidateRoster_EmptyRoster(t *testing.T) {
	violations := ValidateRoster(nil)
	require.Len(t, violations, 1)
	assert.Equal(t, CodeEmptyRoster, violations[0].Code)
}

func TestValidateRoster_MissingKicker(t *testing.T) {
	violations := ValidateRoster(withoutPosition(legalRoster(), models.PositionK))

	assert.Contains(t, codes(violations), CodePositionExact)
	assert.Contains(t, codes(violations), CodeSlotUnfilled)

	found := false
	for _, v := range violations {
		if v.Code == CodePositionExact {
			assert.Contains(t, v.Message, "K")
			found = true
		}
	}
	assert.True(t, found, "expected a position violation naming K")
}

func TestValidateRoster_DuplicatePlayer(t *testing.T) {
	roster := legalRoster()
	// Same player ID on two roster entries.
	roster[10].PlayerID = roster[2].PlayerID
	roster[10].Player = roster[2].Player

	violations := ValidateRoster(roster)
	assert.Contains(t, codes(violations), CodeDuplicatePlayer)
}

func TestValidateRoster_PositionMinimums(t *testing.T) {
	tests := []struct {
		name string
		pos  models.Position
	}{
		{"no quarterbacks", models.PositionQB},
		{"too few running backs", models.PositionRB},
		{"too few wide receivers", models.PositionWR},
		{"no tight ends", models.PositionTE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := ValidateRoster(withoutPosition(legalRoster(), tt.pos))
			assert.Contains(t, codes(violations), CodePositionMinimum)
		})
	}
}

func TestValidateRoster_RosterSizeBounds(t *testing.T) {
	roster := legalRoster()

	// 14 active players is under the floor.
	short := roster[:14]
	assert.Contains(t, codes(ValidateRoster(short)), CodeRosterSize)

	// A 17th active player is over the ceiling.
	over := append([]models.RosterPlayer{}, roster...)
	over = append(over, bench(17, newPlayer(117, "Roman Wilson", models.PositionWR, 9)))
	assert.Contains(t, codes(ValidateRoster(over)), CodeRosterSize)
}

func TestValidateRoster_FlexRestrictedToSkillPositions(t *testing.T) {
	roster := legalRoster()
	// Swap the FLEX running back for a second kicker.
	roster[6].Player = newPlayer(120, "Harrison Butker", models.PositionK, 10)
	roster[6].PlayerID = 120

	violations := ValidateRoster(roster)
	assert.Contains(t, codes(violations), CodeSlotIneligible)
}

func TestValidateRoster_StarterSlotOverfilled(t *testing.T) {
	roster := legalRoster()
	// Two players labeled QB starter, none at FLEX.
	roster[6].LineupSlot = models.LineupQB
	roster[6].Player = newPlayer(121, "Jalen Hurts", models.PositionQB, 10)
	roster[6].PlayerID = 121

	violations := ValidateRoster(roster)
	assert.Contains(t, codes(violations), CodeSlotOverfilled)
	assert.Contains(t, codes(violations), CodeSlotUnfilled)
}

func TestValidateRoster_IRRules(t *testing.T) {
	t.Run("healthy player in IR slot", func(t *testing.T) {
		roster := legalRoster()
		healthy := newPlayer(130, "Chris Godwin", models.PositionWR, 11)
		roster = append(roster, irEntry(18, healthy))

		violations := ValidateRoster(roster)
		assert.Contains(t, codes(violations), CodeIRIneligible)
	})

	t.Run("too many IR slots", func(t *testing.T) {
		roster := legalRoster()
		for i := 0; i < 3; i++ {
			p := newPlayer(140+uint(i), "Injured Player", models.PositionRB, 11)
			p.InjuryStatus = models.InjuryIR
			roster = append(roster, irEntry(20+uint(i), p))
		}

		violations := ValidateRoster(roster)
		assert.Contains(t, codes(violations), CodeIRLimit)
	})

	t.Run("two valid IR stashes", func(t *testing.T) {
		roster := legalRoster()
		out := newPlayer(150, "Nico Collins", models.PositionWR, 14)
		out.InjuryStatus = models.InjuryOut
		ir := newPlayer(151, "Mark Andrews", models.PositionTE, 14)
		ir.InjuryStatus = models.InjuryIR
		roster = append(roster, irEntry(30, out), irEntry(31, ir))

		assert.Empty(t, ValidateRoster(roster))
	})
}

func TestValidateRoster_IRDoesNotCountAgainstSize(t *testing.T) {
	roster := legalRoster() // 16 active
	stash := newPlayer(160, "Puka Nacua", models.PositionWR, 6)
	stash.InjuryStatus = models.InjuryIR
	roster = append(roster, irEntry(40, stash))

	assert.Empty(t, ValidateRoster(roster))
}
