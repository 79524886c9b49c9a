package brackets_test

import (
	"fmt"
	"testing"

	"github.com/cueclub/tournament-engine/brackets"
	"github.com/cueclub/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinGamesCoverage(t *testing.T) {
	for _, n := range []int{3, 4, 5} {
		t.Run(fmt.Sprintf("%d_players", n), func(t *testing.T) {
			group := &models.Group{ID: 7, Round: models.RoundGroup, Players: makePlayers(n)}
			games := brackets.RoundRobinGames(group)

			require.Len(t, games, n*(n-1)/2)

			// Every unordered pair appears exactly once.
			seen := make(map[[2]int]int)
			for _, game := range games {
				assert.NotEqual(t, game.Player1ID, game.Player2ID)
				assert.Equal(t, 7, game.GroupID)
				assert.Equal(t, models.GameStateUndefined, game.State)
				assert.Nil(t, game.ScoreEditor)

				pair := [2]int{game.Player1ID, game.Player2ID}
				if pair[0] > pair[1] {
					pair[0], pair[1] = pair[1], pair[0]
				}
				seen[pair]++
			}
			for i := 1; i <= n; i++ {
				for j := i + 1; j <= n; j++ {
					assert.Equal(t, 1, seen[[2]int{i, j}], "pair %d vs %d", i, j)
				}
			}
		})
	}
}

func TestRoundRobinGamesDegenerateGroups(t *testing.T) {
	assert.Empty(t, brackets.RoundRobinGames(&models.Group{}))
	assert.Empty(t, brackets.RoundRobinGames(&models.Group{Players: makePlayers(1)}))
}
