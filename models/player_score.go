package models

// PlayerScore - строка турнирной таблицы одного игрока в одной группе,
// пересчитываемая по подтверждённым играм. Никогда не хранится как
// авторитетное состояние: это read-проекция, которую отдаёт репозиторий.
type PlayerScore struct {
	PlayerID   int `json:"player_id" db:"player_id"`
	GroupID    int `json:"group_id" db:"group_id"`
	Wins       int `json:"wins" db:"wins"`
	Losses     int `json:"losses" db:"losses"`
	Draws      int `json:"draws" db:"draws"`
	FramesWon  int `json:"frames_won" db:"frames_won"`
	FramesLost int `json:"frames_lost" db:"frames_lost"`
}

// Points is the ranking score: three per win, one per draw, nothing for a
// loss.
func (s *PlayerScore) Points() int {
	return s.Wins*3 + s.Draws
}

// Frames is the ranking tiebreak; only frames won count.
func (s *PlayerScore) Frames() int {
	return s.FramesWon
}
