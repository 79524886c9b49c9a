package services

import "errors"

// Общие ошибки бизнес-правил, используемые в разных сервисах.
var (
	// Ошибки валидации
	ErrValidationFailed       = errors.New("validation failed")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrTournamentInvalidDates = errors.New("tournament end date must be after start date")
	ErrTournamentInvalidRefs  = errors.New("tournament organizer and template must be valid references")

	// Ошибки жизненного цикла турнира
	ErrTournamentAlreadyStarted = errors.New("tournament has already been started")
	ErrTournamentBeforeStart    = errors.New("cannot start tournament before its start date")
	ErrNotEnoughParticipants    = errors.New("tournament has no participants to start")
	ErrNoCurrentRound           = errors.New("tournament has no games to advance")
)
