package roster

import (
	"github.com/dmcalister/gridiron/internal/models"
)

func newPlayer(id uint, name string, pos models.Position, bye int) models.Player {
	return models.Player{
		ID:           id,
		Name:         name,
		Position:     pos,
		ByeWeek:      bye,
		InjuryStatus: models.InjuryHealthy,
		WeekStats:    models.WeekStats{},
	}
}

func withWeek(p models.Player, week int, projected, actual float64, final bool) models.Player {
	p.WeekStats[week] = models.WeekLine{Projected: projected, Actual: actual, Final: final}
	return p
}

func starter(id uint, p models.Player, slot models.LineupSlot) models.RosterPlayer {
	return models.RosterPlayer{ID: id, PlayerID: p.ID, Slot: models.SlotStarter, LineupSlot: slot, Player: p}
}

func bench(id uint, p models.Player) models.RosterPlayer {
	return models.RosterPlayer{ID: id, PlayerID: p.ID, Slot: models.SlotBench, Player: p}
}

func irEntry(id uint, p models.Player) models.RosterPlayer {
	return models.RosterPlayer{ID: id, PlayerID: p.ID, Slot: models.SlotIR, Player: p}
}

// legalRoster builds a 16-man roster that satisfies every league rule:
// 2 QB, 5 RB, 5 WR, 2 TE, 1 K, 1 DST with the full starter template filled.
func legalRoster() []models.RosterPlayer {
	return []models.RosterPlayer{
		starter(1, newPlayer(101, "Josh Allen", models.PositionQB, 12), models.LineupQB),
		starter(2, newPlayer(102, "Bijan Robinson", models.PositionRB, 5), models.LineupRB1),
		starter(3, newPlayer(103, "Saquon Barkley", models.PositionRB, 9), models.LineupRB2),
		starter(4, newPlayer(104, "Justin Jefferson", models.PositionWR, 6), models.LineupWR1),
		starter(5, newPlayer(105, "CeeDee Lamb", models.PositionWR, 7), models.LineupWR2),
		starter(6, newPlayer(106, "Sam LaPorta", models.PositionTE, 8), models.LineupTE),
		starter(7, newPlayer(107, "James Cook", models.PositionRB, 12), models.LineupFLEX),
		starter(8, newPlayer(108, "Justin Tucker", models.PositionK, 14), models.LineupK),
		starter(9, newPlayer(109, "49ers D/ST", models.PositionDST, 9), models.LineupDST),
		bench(10, newPlayer(110, "Jared Goff", models.PositionQB, 8)),
		bench(11, newPlayer(111, "Rachaad White", models.PositionRB, 11)),
		bench(12, newPlayer(112, "Tyjae Spears", models.PositionRB, 7)),
		bench(13, newPlayer(113, "Zay Flowers", models.PositionWR, 13)),
		bench(14, newPlayer(114, "Jordan Addison", models.PositionWR, 6)),
		bench(15, newPlayer(115, "George Pickens", models.PositionWR, 6)),
		bench(16, newPlayer(116, "Dalton Kincaid", models.PositionTE, 12)),
	}
}

// withoutPosition drops every roster entry whose player has the given position.
func withoutPosition(roster []models.RosterPlayer, pos models.Position) []models.RosterPlayer {
	out := make([]models.RosterPlayer, 0, len(roster))
	for _, rp := range roster {
		if rp.Player.Position == pos {
			continue
		}
		out = append(out, rp)
	}
	return out
}
