package services_test

import (
	"context"
	"testing"

	"github.com/cueclub/tournament-engine/models"
	"github.com/cueclub/tournament-engine/repositories"
	"github.com/cueclub/tournament-engine/scoring"
	"github.com/cueclub/tournament-engine/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// confirmGame plays both sides of the confirmation handshake for one game.
func confirmGame(t *testing.T, e *env, game *models.Game, p1Score, p2Score int) *models.Game {
	t.Helper()
	ctx := context.Background()

	input := services.SubmitScoresInput{
		SubmitterID:  game.Player1ID,
		TournamentID: game.TournamentID,
		GroupID:      game.GroupID,
		Player1ID:    game.Player1ID,
		Player2ID:    game.Player2ID,
		Player1Score: p1Score,
		Player2Score: p2Score,
	}
	claimed, err := e.scores.SubmitScores(ctx, input)
	require.NoError(t, err)
	require.Equal(t, models.GameStatePending, claimed.State)

	input.SubmitterID = game.Player2ID
	confirmed, err := e.scores.SubmitScores(ctx, input)
	require.NoError(t, err)
	require.Equal(t, models.GameStateConfirmed, confirmed.State)
	return confirmed
}

func TestSubmitScoresValidation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.scores.SubmitScores(ctx, services.SubmitScoresInput{
		SubmitterID: 1, TournamentID: 0, GroupID: 1, Player1ID: 1, Player2ID: 2,
	})
	assert.ErrorIs(t, err, services.ErrValidationFailed)

	_, err = e.scores.SubmitScores(ctx, services.SubmitScoresInput{
		SubmitterID: 1, TournamentID: 1, GroupID: 1, Player1ID: 1, Player2ID: 2, Player1Score: -1,
	})
	assert.ErrorIs(t, err, services.ErrValidationFailed)
}

func TestSubmitScoresUnknownGame(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	id := e.seedTournament(t, 4)
	require.NoError(t, e.tournaments.Start(ctx, id))

	_, err := e.scores.SubmitScores(ctx, services.SubmitScoresInput{
		SubmitterID: 1, TournamentID: id, GroupID: 999, Player1ID: 1, Player2ID: 2,
	})
	assert.ErrorIs(t, err, repositories.ErrGameNotFound)
}

func TestSubmitScoresMismatchKeepsGamePending(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	id := e.seedTournament(t, 4)
	require.NoError(t, e.tournaments.Start(ctx, id))

	games, err := e.mem.Games().ListByTournament(ctx, id, nil)
	require.NoError(t, err)
	game := games[0]

	input := services.SubmitScoresInput{
		SubmitterID:  game.Player1ID,
		TournamentID: id,
		GroupID:      game.GroupID,
		Player1ID:    game.Player1ID,
		Player2ID:    game.Player2ID,
		Player1Score: 2,
		Player2Score: 0,
	}
	_, err = e.scores.SubmitScores(ctx, input)
	require.NoError(t, err)

	input.SubmitterID = game.Player2ID
	input.Player1Score, input.Player2Score = 0, 2
	_, err = e.scores.SubmitScores(ctx, input)
	assert.ErrorIs(t, err, scoring.ErrScoreMismatch)

	stored, err := e.mem.Games().Get(ctx, game.Player1ID, game.Player2ID, id, game.GroupID)
	require.NoError(t, err)
	assert.Equal(t, models.GameStatePending, stored.State)
	assert.Equal(t, 2, stored.Player1Score)
	assert.Equal(t, 0, stored.Player2Score)
}

// A write-back computed from a snapshot that another submission has since
// overtaken must be rejected, not applied: a confirmed game stays confirmed.
func TestStaleSubmissionCannotRevertConfirmedGame(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	id := e.seedTournament(t, 4)
	require.NoError(t, e.tournaments.Start(ctx, id))

	games, err := e.mem.Games().ListByTournament(ctx, id, nil)
	require.NoError(t, err)
	game := games[0]

	// Player 1 reads the game and computes a claim from that snapshot.
	snapshot, err := e.mem.Games().Get(ctx, game.Player1ID, game.Player2ID, id, game.GroupID)
	require.NoError(t, err)
	stale, err := scoring.Resolve(snapshot, scoring.Submission{
		SubmitterID:  snapshot.Player1ID,
		Player1Score: 3,
		Player2Score: 0,
	})
	require.NoError(t, err)

	// Before the write lands, both players agree on 2-0.
	confirmGame(t, e, game, 2, 0)

	// The stale write-back is refused and the agreed result stands.
	err = e.mem.Games().SetScores(ctx, nil, snapshot, stale.Player1Score, stale.Player2Score, stale.State, stale.ScoreEditor)
	assert.ErrorIs(t, err, repositories.ErrGameStaleSnapshot)

	stored, err := e.mem.Games().Get(ctx, game.Player1ID, game.Player2ID, id, game.GroupID)
	require.NoError(t, err)
	assert.Equal(t, models.GameStateConfirmed, stored.State)
	assert.Equal(t, 2, stored.Player1Score)
	assert.Equal(t, 0, stored.Player2Score)
}

// Runs a four-player tournament from the draw through the finals: the group
// stage confirms game by game, the last confirmation seeds the final pair,
// and confirming the final leaves the winner on top of nothing left to play.
func TestTournamentRunsToCompletion(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	id := e.seedTournament(t, 4)
	require.NoError(t, e.tournaments.Start(ctx, id))

	games, err := e.mem.Games().ListByTournament(ctx, id, nil)
	require.NoError(t, err)
	require.Len(t, games, 6)

	// Player 1 wins every game, player 2 loses only to player 1, player 3
	// beats only player 4.
	results := map[[2]int][2]int{
		{1, 2}: {2, 0},
		{1, 3}: {2, 1},
		{1, 4}: {2, 0},
		{2, 3}: {2, 1},
		{2, 4}: {2, 0},
		{3, 4}: {2, 1},
	}
	for _, game := range games {
		score := results[[2]int{game.Player1ID, game.Player2ID}]
		confirmGame(t, e, game, score[0], score[1])
	}

	// The last confirmation has seeded the final: top two of the group in a
	// fresh two-player knockout group.
	finalRound := models.RoundFinals
	finalGames, err := e.mem.Games().ListByTournament(ctx, id, &finalRound)
	require.NoError(t, err)
	require.Len(t, finalGames, 1)

	final := finalGames[0]
	assert.Equal(t, 1, final.Player1ID)
	assert.Equal(t, 2, final.Player2ID)
	assert.Equal(t, models.GameStateUndefined, final.State)

	finalGroups, err := e.mem.Groups().ListByTournament(ctx, id, &finalRound)
	require.NoError(t, err)
	require.Len(t, finalGroups, 1)
	assert.Equal(t, "Finals", finalGroups[0].Name)
	require.Len(t, finalGroups[0].Players, 2)

	// Group standings rank by points, then frames won.
	standings, err := e.tournaments.Standings(ctx, id)
	require.NoError(t, err)
	require.Len(t, standings, 4)
	ranked := make([]int, 0, 4)
	for _, score := range standings {
		ranked = append(ranked, score.PlayerID)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, ranked)

	// Confirming the final completes the tournament; no further games are
	// scheduled.
	confirmGame(t, e, final, 3, 1)

	all, err := e.mem.Games().ListByTournament(ctx, id, nil)
	require.NoError(t, err)
	assert.Len(t, all, 7)

	summary, err := e.tournaments.Summary(ctx, id)
	require.NoError(t, err)
	assert.Len(t, summary.Groups, 2)
	assert.Len(t, summary.Games, 7)
	assert.Len(t, summary.Standings, 4)
}

// Eight players and two groups: the group stage promotes the top two of each
// group into semifinals that avoid same-group pairings, then the bracket
// plays down to a confirmed final.
func TestKnockoutLadderFromTwoGroups(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	id := e.seedTournament(t, 8)
	require.NoError(t, e.tournaments.Start(ctx, id))

	games, err := e.mem.Games().ListByTournament(ctx, id, nil)
	require.NoError(t, err)
	require.Len(t, games, 12)

	// In both groups the lower player id wins every game 2-0.
	for _, game := range games {
		p1, p2 := 2, 0
		if game.Player1ID > game.Player2ID {
			p1, p2 = 0, 2
		}
		confirmGame(t, e, game, p1, p2)
	}

	// Group A holds the odd ids, group B the even ones, so 1 and 3 advance
	// from A, 2 and 4 from B.
	semiRound := models.RoundSemifinals
	semis, err := e.mem.Games().ListByTournament(ctx, id, &semiRound)
	require.NoError(t, err)
	require.Len(t, semis, 2)

	assert.Equal(t, 1, semis[0].Player1ID)
	assert.Equal(t, 2, semis[0].Player2ID)
	assert.Equal(t, 3, semis[1].Player1ID)
	assert.Equal(t, 4, semis[1].Player2ID)

	confirmGame(t, e, semis[0], 3, 2)
	confirmGame(t, e, semis[1], 1, 3)

	finalRound := models.RoundFinals
	finals, err := e.mem.Games().ListByTournament(ctx, id, &finalRound)
	require.NoError(t, err)
	require.Len(t, finals, 1)
	assert.Equal(t, 1, finals[0].Player1ID)
	assert.Equal(t, 4, finals[0].Player2ID)

	confirmGame(t, e, finals[0], 4, 2)
}
