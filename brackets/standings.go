package brackets

import (
	"sort"

	"github.com/cueclub/tournament-engine/models"
)

// outranks reports whether a places strictly above b: points first, frames
// won as the tiebreak. Full ties keep their input order.
func outranks(a, b *models.PlayerScore) bool {
	if a.Points() != b.Points() {
		return a.Points() > b.Points()
	}
	return a.Frames() > b.Frames()
}

// RankStandings returns the scores ordered best-first. The sort is stable,
// so rows that tie on both points and frames stay in input order.
func RankStandings(scores []*models.PlayerScore) []*models.PlayerScore {
	ranked := make([]*models.PlayerScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return outranks(ranked[i], ranked[j])
	})
	return ranked
}

// groupLeaders picks the current best score of every group present in the
// pool, returned in order of each group's first appearance so selection
// stays deterministic.
func groupLeaders(pool []*models.PlayerScore) []*models.PlayerScore {
	best := make(map[int]*models.PlayerScore)
	order := make([]int, 0)

	for _, score := range pool {
		current, ok := best[score.GroupID]
		if !ok {
			best[score.GroupID] = score
			order = append(order, score.GroupID)
			continue
		}
		if outranks(score, current) {
			best[score.GroupID] = score
		}
	}

	leaders := make([]*models.PlayerScore, 0, len(order))
	for _, groupID := range order {
		leaders = append(leaders, best[groupID])
	}
	return leaders
}
