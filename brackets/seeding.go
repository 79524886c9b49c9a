package brackets

import (
	"math"

	"github.com/cueclub/tournament-engine/models"
)

// topPlayersPerGroup is how many players advance from each group before the
// field is padded out to a full bracket.
const topPlayersPerGroup = 2

// SelectKnockoutField picks the players advancing from the group stage and
// the knockout round they open. The top two of every group advance first;
// the field is then padded towards the next power of two by repeatedly
// taking the best remaining score of each group, one candidate per group per
// pass, stopping the moment the target is met. If the standings run out of
// candidates before the target is reached the short field is returned as-is
// and the round label shrinks with it.
func SelectKnockoutField(scores []*models.PlayerScore) ([]*models.PlayerScore, models.Round, error) {
	if len(scores) == 0 {
		return nil, 0, ErrNoEligiblePlayers
	}

	pool := make([]*models.PlayerScore, len(scores))
	copy(pool, scores)

	field := make([]*models.PlayerScore, 0, len(scores))
	for i := 0; i < topPlayersPerGroup; i++ {
		for _, leader := range groupLeaders(pool) {
			pool = removeScore(pool, leader)
			field = append(field, leader)
		}
	}

	required := requiredFieldSize(len(field))
	for len(field) < required {
		leaders := groupLeaders(pool)
		if len(leaders) == 0 {
			break
		}
		for _, leader := range leaders {
			pool = removeScore(pool, leader)
			field = append(field, leader)
			if len(field) >= required {
				break
			}
		}
	}

	return field, models.RoundForFieldSize(len(field)), nil
}

// requiredFieldSize is the smallest power of two that fits count players;
// fields of zero or one player need no padding.
func requiredFieldSize(count int) int {
	if count <= 1 {
		return 1
	}
	return 1 << uint(math.Ceil(math.Log2(float64(count))))
}

func removeScore(pool []*models.PlayerScore, target *models.PlayerScore) []*models.PlayerScore {
	for i, score := range pool {
		if score == target {
			return append(pool[:i], pool[i+1:]...)
		}
	}
	return pool
}
