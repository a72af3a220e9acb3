package roster

import (
	"sort"

	"github.com/dmcalister/gridiron/internal/models"
)

// Loss reasons reported on unsuccessful claims.
const (
	ReasonOutbid             = "outbid"
	ReasonInsufficientBudget = "insufficient_budget"
	ReasonLowerPriority      = "lower_priority"
)

// ClaimOutcome is the result of one claim after a waiver cycle runs.
type ClaimOutcome struct {
	Claim  models.WaiverClaim `json:"claim"`
	Won    bool               `json:"won"`
	Reason string             `json:"reason,omitempty"`
	// WinningBid is set on FAAB outcomes for the claimed player.
	WinningBid int `json:"winning_bid,omitempty"`
}

// WaiverState carries each team's remaining FAAB budget and waiver priority
// through a cycle. Winning a claim mutates the state, so a team that lands a
// player competes for its later claims with its new priority and budget.
type WaiverState struct {
	Budgets    map[uint]int `json:"budgets"`
	Priorities map[uint]int `json:"priorities"`
}

// ResolveClaims settles a cycle's claims player by player. Priority mode
// awards each player to the claimant with the lowest priority rank. FAAB mode
// awards to the highest affordable bid, ties broken by priority rank; bids
// over budget are skipped. A winner's priority drops to the back of the order
// and its budget is reduced by the winning bid.
func ResolveClaims(claims []models.WaiverClaim, mode models.WaiverMode, state *WaiverState) []ClaimOutcome {
	outcomes := make([]ClaimOutcome, 0, len(claims))

	for _, group := range groupByPlayer(claims) {
		if mode == models.WaiverModeFAAB {
			outcomes = append(outcomes, resolveFAAB(group, state)...)
		} else {
			outcomes = append(outcomes, resolvePriority(group, state)...)
		}
	}

	return outcomes
}

// groupByPlayer buckets claims by target player, preserving the order players
// first appear so the cycle is deterministic.
func groupByPlayer(claims []models.WaiverClaim) [][]models.WaiverClaim {
	var order []uint
	byPlayer := make(map[uint][]models.WaiverClaim)
	for _, c := range claims {
		if _, seen := byPlayer[c.PlayerID]; !seen {
			order = append(order, c.PlayerID)
		}
		byPlayer[c.PlayerID] = append(byPlayer[c.PlayerID], c)
	}

	groups := make([][]models.WaiverClaim, 0, len(order))
	for _, id := range order {
		groups = append(groups, byPlayer[id])
	}
	return groups
}

func resolvePriority(claims []models.WaiverClaim, state *WaiverState) []ClaimOutcome {
	sorted := make([]models.WaiverClaim, len(claims))
	copy(sorted, claims)
	sort.SliceStable(sorted, func(i, j int) bool {
		return state.Priorities[sorted[i].TeamID] < state.Priorities[sorted[j].TeamID]
	})

	outcomes := make([]ClaimOutcome, 0, len(sorted))
	for i, claim := range sorted {
		if i == 0 {
			outcomes = append(outcomes, ClaimOutcome{Claim: claim, Won: true})
			state.resetPriority(claim.TeamID)
			continue
		}
		outcomes = append(outcomes, ClaimOutcome{Claim: claim, Won: false, Reason: ReasonLowerPriority})
	}
	return outcomes
}

func resolveFAAB(claims []models.WaiverClaim, state *WaiverState) []ClaimOutcome {
	sorted := make([]models.WaiverClaim, len(claims))
	copy(sorted, claims)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Bid != sorted[j].Bid {
			return sorted[i].Bid > sorted[j].Bid
		}
		return state.Priorities[sorted[i].TeamID] < state.Priorities[sorted[j].TeamID]
	})

	winnerIdx := -1
	for i, claim := range sorted {
		if claim.Bid <= state.Budgets[claim.TeamID] {
			winnerIdx = i
			break
		}
	}

	outcomes := make([]ClaimOutcome, 0, len(sorted))
	winningBid := 0
	if winnerIdx >= 0 {
		winningBid = sorted[winnerIdx].Bid
	}

	for i, claim := range sorted {
		switch {
		case i == winnerIdx:
			outcomes = append(outcomes, ClaimOutcome{Claim: claim, Won: true, WinningBid: winningBid})
		case claim.Bid > state.Budgets[claim.TeamID]:
			outcomes = append(outcomes, ClaimOutcome{Claim: claim, Won: false, Reason: ReasonInsufficientBudget, WinningBid: winningBid})
		case winnerIdx >= 0 && claim.Bid < winningBid:
			outcomes = append(outcomes, ClaimOutcome{Claim: claim, Won: false, Reason: ReasonOutbid, WinningBid: winningBid})
		default:
			// Same bid as the winner, lost the priority tie-break.
			outcomes = append(outcomes, ClaimOutcome{Claim: claim, Won: false, Reason: ReasonLowerPriority, WinningBid: winningBid})
		}
	}

	if winnerIdx >= 0 {
		winner := sorted[winnerIdx]
		state.Budgets[winner.TeamID] -= winningBid
		state.resetPriority(winner.TeamID)
	}

	return outcomes
}

// resetPriority moves the team to the back of the waiver order: every team
// behind it steps forward one rank and the winner takes the worst rank.
func (s *WaiverState) resetPriority(teamID uint) {
	old, ok := s.Priorities[teamID]
	if !ok {
		return
	}

	worst := 0
	for _, p := range s.Priorities {
		if p > worst {
			worst = p
		}
	}
	if old == worst {
		return
	}

	for id, p := range s.Priorities {
		if p > old {
			s.Priorities[id] = p - 1
		}
	}
	s.Priorities[teamID] = worst
}
