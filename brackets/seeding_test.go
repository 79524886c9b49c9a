package brackets_test

import (
	"testing"

	"github.com/cueclub/tournament-engine/brackets"
	"github.com/cueclub/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// groupScores builds standings for one group where lower player index means
// a better record.
func groupScores(groupID, players int) []*models.PlayerScore {
	scores := make([]*models.PlayerScore, 0, players)
	for i := 0; i < players; i++ {
		scores = append(scores, &models.PlayerScore{
			PlayerID:  groupID*10 + i,
			GroupID:   groupID,
			Wins:      players - i,
			FramesWon: 2 * (players - i),
		})
	}
	return scores
}

func TestSelectKnockoutFieldPadsToPowerOfTwo(t *testing.T) {
	// Three groups of four: six advance outright, padding fills the
	// quarterfinal bracket up to eight.
	scores := append(groupScores(1, 4), groupScores(2, 4)...)
	scores = append(scores, groupScores(3, 4)...)

	field, round, err := brackets.SelectKnockoutField(scores)
	require.NoError(t, err)
	require.Len(t, field, 8)
	assert.Equal(t, models.RoundQuarterfinals, round)

	ids := make([]int, 0, len(field))
	for _, score := range field {
		ids = append(ids, score.PlayerID)
	}
	// Top two of every group first, then one extra per group until the
	// bracket is full.
	assert.Equal(t, []int{10, 20, 30, 11, 21, 31, 12, 22}, ids)
}

func TestSelectKnockoutFieldExactPowerOfTwo(t *testing.T) {
	scores := append(groupScores(1, 3), groupScores(2, 3)...)

	field, round, err := brackets.SelectKnockoutField(scores)
	require.NoError(t, err)
	require.Len(t, field, 4)
	assert.Equal(t, models.RoundSemifinals, round)
}

func TestSelectKnockoutFieldShortGroups(t *testing.T) {
	// A group with a single member contributes only one player.
	scores := append(groupScores(1, 1), groupScores(2, 2)...)

	field, round, err := brackets.SelectKnockoutField(scores)
	require.NoError(t, err)
	require.Len(t, field, 3)
	assert.Equal(t, models.RoundSemifinals, round)
}

func TestSelectKnockoutFieldSinglePlayer(t *testing.T) {
	field, round, err := brackets.SelectKnockoutField(groupScores(1, 1))
	require.NoError(t, err)
	require.Len(t, field, 1)
	assert.Equal(t, models.RoundFinals, round)
}

func TestSelectKnockoutFieldEmptyStandings(t *testing.T) {
	_, _, err := brackets.SelectKnockoutField(nil)
	assert.ErrorIs(t, err, brackets.ErrNoEligiblePlayers)
}

func TestSelectKnockoutFieldPrefersFramesOnEqualPoints(t *testing.T) {
	scores := []*models.PlayerScore{
		{PlayerID: 1, GroupID: 1, Wins: 2, FramesWon: 4},
		{PlayerID: 2, GroupID: 1, Wins: 2, FramesWon: 6},
		{PlayerID: 3, GroupID: 1, Wins: 0, FramesWon: 1},
		{PlayerID: 4, GroupID: 2, Wins: 2, FramesWon: 5},
		{PlayerID: 5, GroupID: 2, Wins: 1, FramesWon: 3},
		{PlayerID: 6, GroupID: 2, Wins: 0, FramesWon: 2},
	}

	field, _, err := brackets.SelectKnockoutField(scores)
	require.NoError(t, err)
	require.Len(t, field, 4)
	// Player 2 beats player 1 on frames despite equal points.
	assert.Equal(t, 2, field[0].PlayerID)
	assert.Equal(t, 4, field[1].PlayerID)
	assert.Equal(t, 1, field[2].PlayerID)
	assert.Equal(t, 5, field[3].PlayerID)
}
