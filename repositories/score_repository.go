package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cueclub/tournament-engine/models"
)

type ScoreRepository interface {
	// PlayerScores computes the per-player group-stage standings from the
	// tournament's confirmed games. Это read-проекция: строки считаются
	// заново при каждом вызове и нигде не сохраняются.
	PlayerScores(ctx context.Context, tournamentID int) ([]*models.PlayerScore, error)
}

type postgresScoreRepository struct {
	db *sql.DB
}

func NewPostgresScoreRepository(db *sql.DB) ScoreRepository {
	return &postgresScoreRepository{db: db}
}

func (r *postgresScoreRepository) PlayerScores(ctx context.Context, tournamentID int) ([]*models.PlayerScore, error) {
	// Each confirmed group-stage game contributes one row per side; the
	// outer query folds the sides into win/draw/loss and frame tallies.
	query := `
		WITH sides AS (
			SELECT ga.player1_id AS player_id, ga.group_id,
			       ga.player1_score AS frames_won, ga.player2_score AS frames_lost
			FROM games ga
			JOIN groups gr ON gr.id = ga.group_id
			WHERE ga.tournament_id = $1 AND gr.round_id = $2 AND ga.state = $3
			UNION ALL
			SELECT ga.player2_id, ga.group_id,
			       ga.player2_score, ga.player1_score
			FROM games ga
			JOIN groups gr ON gr.id = ga.group_id
			WHERE ga.tournament_id = $1 AND gr.round_id = $2 AND ga.state = $3
		)
		SELECT player_id, group_id,
		       COUNT(*) FILTER (WHERE frames_won > frames_lost) AS wins,
		       COUNT(*) FILTER (WHERE frames_won < frames_lost) AS losses,
		       COUNT(*) FILTER (WHERE frames_won = frames_lost) AS draws,
		       COALESCE(SUM(frames_won), 0) AS frames_won,
		       COALESCE(SUM(frames_lost), 0) AS frames_lost
		FROM sides
		GROUP BY group_id, player_id
		ORDER BY group_id ASC, player_id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, models.RoundGroup, models.GameStateConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to query player scores for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	scores := make([]*models.PlayerScore, 0)
	for rows.Next() {
		var score models.PlayerScore
		if scanErr := rows.Scan(
			&score.PlayerID,
			&score.GroupID,
			&score.Wins,
			&score.Losses,
			&score.Draws,
			&score.FramesWon,
			&score.FramesLost,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player score row: %w", scanErr)
		}
		scores = append(scores, &score)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player score rows iteration: %w", err)
	}
	return scores, nil
}
