// Package scoring implements the mutual score confirmation protocol: a
// submitted score pair moves a game from Undefined through Pending to
// Confirmed once both players have entered the same numbers.
package scoring

import (
	"errors"

	"github.com/cueclub/tournament-engine/models"
)

var (
	ErrNotAParticipant  = errors.New("only the game's own players can enter its scores")
	ErrAlreadyConfirmed = errors.New("scores have already been agreed by both players")
	ErrScoreMismatch    = errors.New("submitted scores do not match the other player's input")
	ErrInvalidScore     = errors.New("scores must not be negative")
)

// Submission - заявка одного игрока на счёт партии.
type Submission struct {
	SubmitterID  int
	Player1Score int
	Player2Score int
}

// Result - полностью определённое следующее состояние игры. Счёт и
// состояние применяются атомарно либо не применяются вовсе.
type Result struct {
	State        models.GameState
	ScoreEditor  *int
	Player1Score int
	Player2Score int
}

// Resolve применяет заявку к текущему снимку игры и возвращает её новое
// состояние. Правила, в порядке проверки:
//
//  1. счёт может вводить только участник партии;
//  2. подтверждённый счёт неизменяем;
//  3. первая заявка переводит игру в Pending, автор становится score editor;
//  4. автор заявки может переписать свой же неподтверждённый счёт;
//  5. совпадающая заявка второго игрока подтверждает счёт, score editor
//     возвращается к автору исходной заявки;
//  6. Pending без записанного score editor трактуется как первая заявка;
//  7. иначе счёты расходятся - игроки должны договориться и ввести заново.
//
// При ошибке игра логически не меняется.
func Resolve(game *models.Game, sub Submission) (Result, error) {
	if sub.Player1Score < 0 || sub.Player2Score < 0 {
		return Result{}, ErrInvalidScore
	}
	if sub.SubmitterID != game.Player1ID && sub.SubmitterID != game.Player2ID {
		return Result{}, ErrNotAParticipant
	}

	switch {
	case game.State == models.GameStateConfirmed:
		return Result{}, ErrAlreadyConfirmed

	case game.State == models.GameStateUndefined:
		return pendingResult(sub), nil

	case game.ScoreEditor != nil && *game.ScoreEditor == sub.SubmitterID:
		// The claimant revises their own pending claim.
		return pendingResult(sub), nil

	case game.ScoreEditor != nil &&
		sub.Player1Score == game.Player1Score &&
		sub.Player2Score == game.Player2Score:
		editor := *game.ScoreEditor
		return Result{
			State:        models.GameStateConfirmed,
			ScoreEditor:  &editor,
			Player1Score: sub.Player1Score,
			Player2Score: sub.Player2Score,
		}, nil

	case game.ScoreEditor == nil:
		// A pending game without an editor is inconsistent; treat the
		// submission as a fresh claim.
		return pendingResult(sub), nil

	default:
		return Result{}, ErrScoreMismatch
	}
}

func pendingResult(sub Submission) Result {
	editor := sub.SubmitterID
	return Result{
		State:        models.GameStatePending,
		ScoreEditor:  &editor,
		Player1Score: sub.Player1Score,
		Player2Score: sub.Player2Score,
	}
}
