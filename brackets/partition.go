package brackets

import (
	"context"
	"fmt"
	"math"

	"github.com/cueclub/tournament-engine/models"
)

// PartitionIntoGroups divides players into groups of roughly targetSize,
// creating each group through the injected callback and then dealing players
// round-robin: player i goes to group i mod len(groups). Group sizes differ
// by at most one, with the surplus landing in the earliest groups, so the
// input order directly determines group composition. Callers must pass
// players in seeding order (usually signup order).
//
// Zero players still produce one empty group rather than an error.
func PartitionIntoGroups(ctx context.Context, players []*models.Player, targetSize int, createGroup GroupCreator) ([]*models.Group, error) {
	if targetSize < 1 {
		return nil, ErrInvalidGroupSize
	}

	numberOfGroups := int(math.Round(float64(len(players)) / float64(targetSize)))
	if numberOfGroups < 1 {
		numberOfGroups = 1
	}

	groups := make([]*models.Group, 0, numberOfGroups)
	for i := 0; i < numberOfGroups; i++ {
		group := &models.Group{
			Name:  fmt.Sprintf("Group %c", rune('A'+i)),
			Round: models.RoundGroup,
		}
		id, err := createGroup(ctx, group)
		if err != nil {
			return nil, fmt.Errorf("failed to create %q: %w", group.Name, err)
		}
		group.ID = id
		groups = append(groups, group)
	}

	for i, player := range players {
		group := groups[i%numberOfGroups]
		group.Players = append(group.Players, player)
	}

	return groups, nil
}
