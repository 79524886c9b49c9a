package brackets

import "github.com/cueclub/tournament-engine/models"

// RoundRobinGames creates one game for every unordered pair of players in
// the group, in the group's stored order: n members yield n*(n-1)/2 games
// and every member meets every other member exactly once. Groups of zero or
// one player yield no games. Scores start at zero with state Undefined.
func RoundRobinGames(group *models.Group) []*models.Game {
	n := len(group.Players)
	games := make([]*models.Game, 0, n*(n-1)/2)

	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			games = append(games, &models.Game{
				GroupID:   group.ID,
				Player1ID: group.Players[i].ID,
				Player2ID: group.Players[j].ID,
				State:     models.GameStateUndefined,
			})
		}
	}

	return games
}
