package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cueclub/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrGameNotFound           = errors.New("game not found")
	ErrGameParticipantInvalid = errors.New("game player conflict or invalid")
	ErrGameGroupInvalid       = errors.New("game group conflict or invalid")
	ErrGameStaleSnapshot      = errors.New("game changed since it was read")
)

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game, tournamentID int) error
	// Get loads the single game between the two players in the given group.
	Get(ctx context.Context, player1ID, player2ID, tournamentID, groupID int) (*models.Game, error)
	// SetScores persists a confirmation result computed from the prior
	// snapshot. The update applies only while the stored state and score
	// editor still match that snapshot; a submission that landed in between
	// surfaces as ErrGameStaleSnapshot and the caller must re-read.
	SetScores(ctx context.Context, exec SQLExecutor, prior *models.Game, player1Score, player2Score int, state models.GameState, scoreEditor *int) error
	ListByTournament(ctx context.Context, tournamentID int, round *models.Round) ([]*models.Game, error)
	// CurrentRound is the highest round any of the tournament's games
	// belongs to, or zero when no games exist yet.
	CurrentRound(ctx context.Context, tournamentID int) (models.Round, error)
	// IsRoundCompleted reports whether every game of the current round has
	// reached the Confirmed state.
	IsRoundCompleted(ctx context.Context, tournamentID int) (bool, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

const gameColumns = `id, tournament_id, group_id, player1_id, player2_id, player1_score, player2_score, state, score_editor, created_at`

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game, tournamentID int) error {
	game.TournamentID = tournamentID
	if game.State == "" {
		game.State = models.GameStateUndefined
	}

	query := `
		INSERT INTO games
			(tournament_id, group_id, player1_id, player2_id, player1_score, player2_score, state, score_editor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		game.TournamentID,
		game.GroupID,
		game.Player1ID,
		game.Player2ID,
		game.Player1Score,
		game.Player2Score,
		game.State,
		game.ScoreEditor,
	).Scan(&game.ID, &game.CreatedAt)

	return r.handleGameError(err)
}

func (r *postgresGameRepository) Get(ctx context.Context, player1ID, player2ID, tournamentID, groupID int) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE tournament_id = $1 AND group_id = $2 AND player1_id = $3 AND player2_id = $4`

	game := &models.Game{}
	err := r.db.QueryRowContext(ctx, query, tournamentID, groupID, player1ID, player2ID).Scan(
		&game.ID,
		&game.TournamentID,
		&game.GroupID,
		&game.Player1ID,
		&game.Player2ID,
		&game.Player1Score,
		&game.Player2Score,
		&game.State,
		&game.ScoreEditor,
		&game.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to scan game for players %d/%d in group %d: %w", player1ID, player2ID, groupID, err)
	}
	return game, nil
}

func (r *postgresGameRepository) SetScores(ctx context.Context, exec SQLExecutor, prior *models.Game, player1Score, player2Score int, state models.GameState, scoreEditor *int) error {
	query := `
		UPDATE games
		SET player1_score = $1, player2_score = $2, state = $3, score_editor = $4
		WHERE id = $5 AND state = $6 AND score_editor IS NOT DISTINCT FROM $7`

	result, err := exec.ExecContext(ctx, query, player1Score, player2Score, state, scoreEditor, prior.ID, prior.State, prior.ScoreEditor)
	if err != nil {
		return fmt.Errorf("SetScores: failed to execute query for game %d: %w", prior.ID, err)
	}
	return checkAffectedRows(result, ErrGameStaleSnapshot)
}

func (r *postgresGameRepository) ListByTournament(ctx context.Context, tournamentID int, round *models.Round) ([]*models.Game, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT ga.id, ga.tournament_id, ga.group_id, ga.player1_id, ga.player2_id,
		       ga.player1_score, ga.player2_score, ga.state, ga.score_editor, ga.created_at
		FROM games ga
		JOIN groups gr ON gr.id = ga.group_id
		WHERE ga.tournament_id = $1`)

	args := []interface{}{tournamentID}
	if round != nil {
		queryBuilder.WriteString(" AND gr.round_id = $2")
		args = append(args, *round)
	}
	queryBuilder.WriteString(" ORDER BY gr.round_id ASC, ga.id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		var game models.Game
		if scanErr := rows.Scan(
			&game.ID,
			&game.TournamentID,
			&game.GroupID,
			&game.Player1ID,
			&game.Player2ID,
			&game.Player1Score,
			&game.Player2Score,
			&game.State,
			&game.ScoreEditor,
			&game.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", scanErr)
		}
		games = append(games, &game)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during game rows iteration: %w", err)
	}
	return games, nil
}

func (r *postgresGameRepository) CurrentRound(ctx context.Context, tournamentID int) (models.Round, error) {
	query := `
		SELECT COALESCE(MAX(gr.round_id), 0)
		FROM games ga
		JOIN groups gr ON gr.id = ga.group_id
		WHERE ga.tournament_id = $1`

	var round models.Round
	if err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(&round); err != nil {
		return 0, fmt.Errorf("failed to determine current round for tournament %d: %w", tournamentID, err)
	}
	return round, nil
}

func (r *postgresGameRepository) IsRoundCompleted(ctx context.Context, tournamentID int) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM games ga
		JOIN groups gr ON gr.id = ga.group_id
		WHERE ga.tournament_id = $1
		  AND ga.state <> $2
		  AND gr.round_id = (
			SELECT COALESCE(MAX(g2r.round_id), 0)
			FROM games g2
			JOIN groups g2r ON g2r.id = g2.group_id
			WHERE g2.tournament_id = $1
		  )`

	var remaining int
	if err := r.db.QueryRowContext(ctx, query, tournamentID, models.GameStateConfirmed).Scan(&remaining); err != nil {
		return false, fmt.Errorf("failed to count unconfirmed games for tournament %d: %w", tournamentID, err)
	}
	return remaining == 0, nil
}

func (r *postgresGameRepository) handleGameError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "games_player1_id_fkey", "games_player2_id_fkey":
			return ErrGameParticipantInvalid
		case "games_group_id_fkey":
			return ErrGameGroupInvalid
		}
	}
	return err
}
