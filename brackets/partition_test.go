package brackets_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/cueclub/tournament-engine/brackets"
	"github.com/cueclub/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeGroupCreator() brackets.GroupCreator {
	next := 0
	return func(ctx context.Context, group *models.Group) (int, error) {
		next++
		return next, nil
	}
}

func makePlayers(n int) []*models.Player {
	players := make([]*models.Player, 0, n)
	for i := 1; i <= n; i++ {
		players = append(players, &models.Player{ID: i, Nickname: fmt.Sprintf("player-%d", i)})
	}
	return players
}

func TestPartitionIntoGroupsSizes(t *testing.T) {
	tests := []struct {
		players    int
		targetSize int
		wantSizes  []int
	}{
		{players: 4, targetSize: 4, wantSizes: []int{4}},
		{players: 8, targetSize: 4, wantSizes: []int{4, 4}},
		{players: 9, targetSize: 4, wantSizes: []int{5, 4}},
		{players: 3, targetSize: 4, wantSizes: []int{3}},
		{players: 12, targetSize: 4, wantSizes: []int{4, 4, 4}},
		{players: 0, targetSize: 4, wantSizes: []int{0}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_players", tt.players), func(t *testing.T) {
			groups, err := brackets.PartitionIntoGroups(context.Background(), makePlayers(tt.players), tt.targetSize, fakeGroupCreator())
			require.NoError(t, err)
			require.Len(t, groups, len(tt.wantSizes))
			for i, group := range groups {
				assert.Len(t, group.Players, tt.wantSizes[i])
				assert.Equal(t, models.RoundGroup, group.Round)
			}
		})
	}
}

func TestPartitionIntoGroupsDealsRoundRobin(t *testing.T) {
	groups, err := brackets.PartitionIntoGroups(context.Background(), makePlayers(8), 4, fakeGroupCreator())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Players are dealt alternately, so input order determines composition.
	groupA := []int{}
	for _, p := range groups[0].Players {
		groupA = append(groupA, p.ID)
	}
	groupB := []int{}
	for _, p := range groups[1].Players {
		groupB = append(groupB, p.ID)
	}
	assert.Equal(t, []int{1, 3, 5, 7}, groupA)
	assert.Equal(t, []int{2, 4, 6, 8}, groupB)
}

func TestPartitionIntoGroupsNames(t *testing.T) {
	groups, err := brackets.PartitionIntoGroups(context.Background(), makePlayers(12), 4, fakeGroupCreator())
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "Group A", groups[0].Name)
	assert.Equal(t, "Group B", groups[1].Name)
	assert.Equal(t, "Group C", groups[2].Name)
}

func TestPartitionIntoGroupsInvalidTargetSize(t *testing.T) {
	_, err := brackets.PartitionIntoGroups(context.Background(), makePlayers(4), 0, fakeGroupCreator())
	assert.ErrorIs(t, err, brackets.ErrInvalidGroupSize)
}

func TestPartitionIntoGroupsZeroPlayersStillCreatesGroup(t *testing.T) {
	groups, err := brackets.PartitionIntoGroups(context.Background(), nil, 4, fakeGroupCreator())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Empty(t, groups[0].Players)
	assert.Equal(t, "Group A", groups[0].Name)
}
