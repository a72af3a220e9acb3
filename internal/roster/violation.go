package roster

import "fmt"

// Violation codes returned by the validators. Callers surface the full list at
// once rather than failing on the first problem.
const (
	CodeEmptyRoster     = "empty_roster"
	CodeDuplicatePlayer = "duplicate_player"
	CodeRosterSize      = "roster_size"
	CodePositionMinimum = "position_minimum"
	CodePositionExact   = "position_exact"
	CodeSlotUnfilled    = "slot_unfilled"
	CodeSlotOverfilled  = "slot_overfilled"
	CodeSlotIneligible  = "slot_ineligible"
	CodeIRLimit         = "ir_limit"
	CodeIRIneligible    = "ir_ineligible"
	CodeEmptyTrade      = "empty_trade"
	CodeDeadlinePassed  = "deadline_passed"
	CodeIRMismatch      = "ir_mismatch"
	CodePlayerNotFound  = "player_not_found"
)

// Violation describes one rule broken by a roster, lineup, or trade.
type Violation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func violationf(code, format string, args ...interface{}) Violation {
	return Violation{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (v Violation) Error() string {
	return v.Message
}
