package models

import "time"

// GameState хранится в БД одним символом, как и статусы матчей.
type GameState string

const (
	// GameStateUndefined - ни один из игроков ещё не вводил счёт.
	GameStateUndefined GameState = "U"
	// GameStatePending - счёт введён одним игроком и ждёт подтверждения второго.
	GameStatePending GameState = "P"
	// GameStateConfirmed - оба игрока согласились со счётом, игра закрыта.
	GameStateConfirmed GameState = "C"
)

// Game - одна партия между двумя разными игроками внутри группы.
// Счёт и состояние меняются только через протокол подтверждения
// (scoring.Resolve); ScoreEditor - игрок, чья неподтверждённая заявка
// сейчас записана, nil пока счёт не вводился.
type Game struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	GroupID      int       `json:"group_id" db:"group_id"`
	Player1ID    int       `json:"player1_id" db:"player1_id"`
	Player2ID    int       `json:"player2_id" db:"player2_id"`
	Player1Score int       `json:"player1_score" db:"player1_score"`
	Player2Score int       `json:"player2_score" db:"player2_score"`
	State        GameState `json:"state" db:"state"`
	ScoreEditor  *int      `json:"score_editor,omitempty" db:"score_editor"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
