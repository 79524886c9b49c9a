package models

// Group - фиксированный состав игроков одного раунда. Для группового этапа
// это "Group A", "Group B" и т.д.; в раундах на вылет каждая пара игроков
// получает собственную группу, названную по раунду ("Semifinals").
// Состав заполняется один раз при формировании и далее не меняется.
type Group struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	Name         string `json:"name" db:"name"`
	Round        Round  `json:"round_id" db:"round_id"`

	Players []*Player `json:"players,omitempty" db:"-"`
}
