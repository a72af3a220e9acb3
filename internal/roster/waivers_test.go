package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmcalister/gridiron/internal/models"
)

func claim(id, teamID, playerID uint, bid int) models.WaiverClaim {
	return models.WaiverClaim{ID: id, TeamID: teamID, PlayerID: playerID, Bid: bid}
}

func newState() *WaiverState {
	return &WaiverState{
		Budgets:    map[uint]int{1: 100, 2: 100, 3: 100, 4: 100},
		Priorities: map[uint]int{1: 1, 2: 2, 3: 3, 4: 4},
	}
}

func outcomeFor(t *testing.T, outcomes []ClaimOutcome, teamID uint) ClaimOutcome {
	t.Helper()
	for _, o := range outcomes {
		if o.Claim.TeamID == teamID {
			return o
		}
	}
	t.Fatalf("no outcome for team %d", teamID)
	return ClaimOutcome{}
}

func TestResolveClaims_PriorityMode(t *testing.T) {
	state := newState()
	claims := []models.WaiverClaim{
		claim(1, 3, 900, 0),
		claim(2, 1, 900, 0),
		claim(3, 4, 900, 0),
	}

	outcomes := ResolveClaims(claims, models.WaiverModePriority, state)
	require.Len(t, outcomes, 3)

	assert.True(t, outcomeFor(t, outcomes, 1).Won, "lowest priority rank wins")
	assert.False(t, outcomeFor(t, outcomes, 3).Won)
	assert.Equal(t, ReasonLowerPriority, outcomeFor(t, outcomes, 3).Reason)
	assert.Equal(t, ReasonLowerPriority, outcomeFor(t, outcomes, 4).Reason)
}

func TestResolveClaims_PriorityWinnerMovesToBack(t *testing.T) {
	state := newState()
	claims := []models.WaiverClaim{claim(1, 1, 900, 0)}

	ResolveClaims(claims, models.WaiverModePriority, state)

	assert.Equal(t, 4, state.Priorities[1], "winner takes the worst rank")
	assert.Equal(t, 1, state.Priorities[2], "teams behind the winner move up")
	assert.Equal(t, 2, state.Priorities[3])
	assert.Equal(t, 3, state.Priorities[4])
}

func TestResolveClaims_PriorityCarriesAcrossPlayers(t *testing.T) {
	state := newState()
	// Team 1 claims two players; after winning the first its priority is worst,
	// so team 2 beats it to the second player.
	claims := []models.WaiverClaim{
		claim(1, 1, 900, 0),
		claim(2, 1, 901, 0),
		claim(3, 2, 901, 0),
	}

	outcomes := ResolveClaims(claims, models.WaiverModePriority, state)

	assert.True(t, outcomes[0].Won)
	second := outcomes[1:]
	for _, o := range second {
		if o.Claim.TeamID == 2 {
			assert.True(t, o.Won)
		} else {
			assert.False(t, o.Won)
		}
	}
}

func TestResolveClaims_FAABHighestBidWins(t *testing.T) {
	state := newState()
	claims := []models.WaiverClaim{
		claim(1, 1, 900, 23),
		claim(2, 2, 900, 41),
		claim(3, 3, 900, 17),
	}

	outcomes := ResolveClaims(claims, models.WaiverModeFAAB, state)

	winner := outcomeFor(t, outcomes, 2)
	assert.True(t, winner.Won)
	assert.Equal(t, 41, winner.WinningBid)
	assert.Equal(t, ReasonOutbid, outcomeFor(t, outcomes, 1).Reason)
	assert.Equal(t, ReasonOutbid, outcomeFor(t, outcomes, 3).Reason)
	assert.Equal(t, 59, state.Budgets[2], "winning bid is deducted")
	assert.Equal(t, 100, state.Budgets[1], "losing bids cost nothing")
}

func TestResolveClaims_FAABTieBrokenByPriority(t *testing.T) {
	state := newState()
	claims := []models.WaiverClaim{
		claim(1, 3, 900, 30),
		claim(2, 2, 900, 30),
	}

	outcomes := ResolveClaims(claims, models.WaiverModeFAAB, state)

	assert.True(t, outcomeFor(t, outcomes, 2).Won, "better priority wins the tie")
	loser := outcomeFor(t, outcomes, 3)
	assert.False(t, loser.Won)
	assert.Equal(t, ReasonLowerPriority, loser.Reason)
}

func TestResolveClaims_FAABSkipsOverBudgetBids(t *testing.T) {
	state := newState()
	state.Budgets[1] = 10
	claims := []models.WaiverClaim{
		claim(1, 1, 900, 50), // highest bid but cannot afford it
		claim(2, 2, 900, 25),
	}

	outcomes := ResolveClaims(claims, models.WaiverModeFAAB, state)

	broke := outcomeFor(t, outcomes, 1)
	assert.False(t, broke.Won)
	assert.Equal(t, ReasonInsufficientBudget, broke.Reason)
	assert.True(t, outcomeFor(t, outcomes, 2).Won)
	assert.Equal(t, 75, state.Budgets[2])
	assert.Equal(t, 10, state.Budgets[1])
}

func TestResolveClaims_FAABNobodyCanAfford(t *testing.T) {
	state := newState()
	state.Budgets[1] = 5
	state.Budgets[2] = 5
	claims := []models.WaiverClaim{
		claim(1, 1, 900, 50),
		claim(2, 2, 900, 20),
	}

	outcomes := ResolveClaims(claims, models.WaiverModeFAAB, state)

	for _, o := range outcomes {
		assert.False(t, o.Won)
		assert.Equal(t, ReasonInsufficientBudget, o.Reason)
	}
}

func TestResolveClaims_FAABBudgetCarriesAcrossPlayers(t *testing.T) {
	state := newState()
	state.Budgets[1] = 60
	claims := []models.WaiverClaim{
		claim(1, 1, 900, 50),
		claim(2, 1, 901, 40), // only 10 left after winning the first claim
		claim(3, 2, 901, 15),
	}

	outcomes := ResolveClaims(claims, models.WaiverModeFAAB, state)

	assert.True(t, outcomes[0].Won)
	secondGroup := outcomes[1:]
	for _, o := range secondGroup {
		if o.Claim.TeamID == 1 {
			assert.False(t, o.Won)
			assert.Equal(t, ReasonInsufficientBudget, o.Reason)
		} else {
			assert.True(t, o.Won)
		}
	}
	assert.Equal(t, 10, state.Budgets[1])
	assert.Equal(t, 85, state.Budgets[2])
}

func TestResolveClaims_Empty(t *testing.T) {
	outcomes := ResolveClaims(nil, models.WaiverModeFAAB, newState())
	assert.Empty(t, outcomes)
}
