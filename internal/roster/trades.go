package roster

import (
	"time"

	"github.com/dmcalister/gridiron/internal/models"
)

// TradeInput bundles everything needed to judge a proposed trade: the players
// leaving each side, each team's active roster size before the trade, and the
// league deadline against the evaluation time.
type TradeInput struct {
	FromOut        []models.RosterPlayer
	ToOut          []models.RosterPlayer
	FromActiveSize int
	ToActiveSize   int
	Deadline       time.Time
	Now            time.Time
}

// ValidateTrade checks a proposed trade and returns every violation found.
// Both resulting rosters must stay within league size limits, the deal must
// beat the trade deadline, and IR players may only move in matched pairs
// (an IR player for an active-only return is rejected).
func ValidateTrade(in TradeInput) []Violation {
	var violations []Violation

	if len(in.FromOut) == 0 && len(in.ToOut) == 0 {
		return []Violation{violationf(CodeEmptyTrade, "trade moves no players")}
	}

	if in.Now.After(in.Deadline) {
		violations = append(violations, violationf(CodeDeadlinePassed,
			"trade proposed after the league deadline (%s)", in.Deadline.Format("2006-01-02")))
	}

	violations = append(violations, checkResultingSize("proposing team", in.FromActiveSize, in.FromOut, in.ToOut)...)
	violations = append(violations, checkResultingSize("receiving team", in.ToActiveSize, in.ToOut, in.FromOut)...)

	fromIR := countIR(in.FromOut)
	toIR := countIR(in.ToOut)
	if fromIR != toIR {
		violations = append(violations, violationf(CodeIRMismatch,
			"IR players must be traded for IR players (%d offered, %d returned)", fromIR, toIR))
	}

	return violations
}

// checkResultingSize computes a side's post-trade active roster size. IR
// players change hands without counting toward the limits.
func checkResultingSize(side string, current int, outgoing, incoming []models.RosterPlayer) []Violation {
	size := current - activeLen(outgoing) + activeLen(incoming)
	if size < models.MinRosterSize || size > models.MaxRosterSize {
		return []Violation{violationf(CodeRosterSize,
			"%s would end with %d active players, must be between %d and %d",
			side, size, models.MinRosterSize, models.MaxRosterSize)}
	}
	return nil
}

func activeLen(players []models.RosterPlayer) int {
	n := 0
	for _, rp := range players {
		if !rp.OnIR() {
			n++
		}
	}
	return n
}

func countIR(players []models.RosterPlayer) int {
	n := 0
	for _, rp := range players {
		if rp.OnIR() {
			n++
		}
	}
	return n
}
