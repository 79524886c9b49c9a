package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cueclub/tournament-engine/models"
	"github.com/cueclub/tournament-engine/repositories"
	"github.com/cueclub/tournament-engine/scoring"
)

// SubmitScoresInput - заявка игрока на счёт конкретной партии. SubmitterID
// приходит из слоя идентификации вызывающего; движок ему доверяет.
type SubmitScoresInput struct {
	SubmitterID  int `json:"-"`
	TournamentID int `json:"tournament_id"`
	GroupID      int `json:"group_id"`
	Player1ID    int `json:"player1_id"`
	Player2ID    int `json:"player2_id"`
	Player1Score int `json:"player1_score"`
	Player2Score int `json:"player2_score"`
}

type ScoreService interface {
	// SubmitScores runs one step of the confirmation protocol and, once the
	// write makes the current round fully confirmed, triggers the next
	// round. The returned game reflects the persisted state.
	SubmitScores(ctx context.Context, input SubmitScoresInput) (*models.Game, error)
}

type scoreService struct {
	tx          repositories.Transactor
	games       repositories.GameRepository
	progression TournamentService
	logger      *slog.Logger
}

func NewScoreService(
	tx repositories.Transactor,
	gameRepo repositories.GameRepository,
	progression TournamentService,
	logger *slog.Logger,
) ScoreService {
	return &scoreService{
		tx:          tx,
		games:       gameRepo,
		progression: progression,
		logger:      logger,
	}
}

func (s *scoreService) SubmitScores(ctx context.Context, input SubmitScoresInput) (*models.Game, error) {
	if err := validateSubmitScoresInput(input); err != nil {
		return nil, err
	}

	game, err := s.games.Get(ctx, input.Player1ID, input.Player2ID, input.TournamentID, input.GroupID)
	if err != nil {
		return nil, err
	}

	result, err := scoring.Resolve(game, scoring.Submission{
		SubmitterID:  input.SubmitterID,
		Player1Score: input.Player1Score,
		Player2Score: input.Player2Score,
	})
	if err != nil {
		return nil, err
	}

	// Запись применяется только пока игра не изменилась с момента чтения:
	// устаревшая заявка возвращается как ErrGameStaleSnapshot, а не
	// затирает чужое подтверждение.
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.games.SetScores(ctx, exec, game, result.Player1Score, result.Player2Score, result.State, result.ScoreEditor)
	})
	if err != nil {
		return nil, err
	}

	game.Player1Score = result.Player1Score
	game.Player2Score = result.Player2Score
	game.State = result.State
	game.ScoreEditor = result.ScoreEditor

	if game.State != models.GameStateConfirmed {
		return game, nil
	}

	// Подтверждение могло закрыть последнюю партию раунда - тогда сразу
	// формируем следующий.
	completed, err := s.games.IsRoundCompleted(ctx, input.TournamentID)
	if err != nil {
		return nil, err
	}
	if completed {
		if err := s.progression.StartNextRound(ctx, input.TournamentID); err != nil {
			return nil, fmt.Errorf("round completed but starting the next round failed: %w", err)
		}
		s.logger.Info("round completed",
			slog.Int("tournament_id", input.TournamentID),
			slog.Int("game_id", game.ID))
	}

	return game, nil
}

func validateSubmitScoresInput(input SubmitScoresInput) error {
	switch {
	case input.TournamentID < 1:
		return fmt.Errorf("%w: tournament id is not valid", ErrValidationFailed)
	case input.GroupID < 1:
		return fmt.Errorf("%w: group id is not valid", ErrValidationFailed)
	case input.Player1ID < 1:
		return fmt.Errorf("%w: player 1 id is not valid", ErrValidationFailed)
	case input.Player2ID < 1:
		return fmt.Errorf("%w: player 2 id is not valid", ErrValidationFailed)
	case input.Player1Score < 0:
		return fmt.Errorf("%w: player 1 score is not valid", ErrValidationFailed)
	case input.Player2Score < 0:
		return fmt.Errorf("%w: player 2 score is not valid", ErrValidationFailed)
	}
	return nil
}
