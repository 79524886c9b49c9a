package brackets

import (
	"context"
	"fmt"

	"github.com/cueclub/tournament-engine/models"
)

// PairFirstKnockoutRound pairs the seeded field into the opening knockout
// games. The first remaining candidate is matched with the first remaining
// candidate from a different origin group, so group rivals only meet again
// this early when nothing else is left in the pool; in that degenerate case
// the pair is formed within the group rather than stalling. Every pair gets
// its own knockout group named after the round.
func PairFirstKnockoutRound(ctx context.Context, field []*models.PlayerScore, round models.Round, createGroup GroupCreator) ([]*models.Game, error) {
	pool := make([]*models.PlayerScore, len(field))
	copy(pool, field)

	games := make([]*models.Game, 0, len(pool)/2)
	for len(pool) > 0 {
		if len(pool) == 1 {
			return nil, fmt.Errorf("%w: player %d", ErrUnpairablePlayer, pool[0].PlayerID)
		}

		opponent := 1
		for j := 1; j < len(pool); j++ {
			if pool[j].GroupID != pool[0].GroupID {
				opponent = j
				break
			}
		}

		game, err := newKnockoutGame(ctx, pool[0].PlayerID, pool[opponent].PlayerID, round, createGroup)
		if err != nil {
			return nil, err
		}
		games = append(games, game)

		pool = append(pool[:opponent], pool[opponent+1:]...)
		pool = pool[1:]
	}

	return games, nil
}

// PairNextKnockoutRound pairs winners strictly in the given order: (0,1),
// (2,3) and so on. The caller supplies winners in an order that preserves
// bracket adjacency from the previous round.
func PairNextKnockoutRound(ctx context.Context, winners []*models.PlayerScore, round models.Round, createGroup GroupCreator) ([]*models.Game, error) {
	if len(winners)%2 != 0 {
		return nil, fmt.Errorf("%w: %d winners", ErrOddFieldSize, len(winners))
	}

	games := make([]*models.Game, 0, len(winners)/2)
	for i := 0; i < len(winners); i += 2 {
		game, err := newKnockoutGame(ctx, winners[i].PlayerID, winners[i+1].PlayerID, round, createGroup)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}

	return games, nil
}

func newKnockoutGame(ctx context.Context, player1ID, player2ID int, round models.Round, createGroup GroupCreator) (*models.Game, error) {
	group := &models.Group{
		Name:  round.String(),
		Round: round,
		Players: []*models.Player{
			{ID: player1ID},
			{ID: player2ID},
		},
	}
	id, err := createGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("failed to create knockout group for players %d and %d: %w", player1ID, player2ID, err)
	}
	group.ID = id

	return &models.Game{
		GroupID:   id,
		Player1ID: player1ID,
		Player2ID: player2ID,
		State:     models.GameStateUndefined,
	}, nil
}
