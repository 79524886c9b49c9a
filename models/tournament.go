package models

import "time"

// Tournament представляет турнир. HasStarted переключается ровно один раз,
// при генерации группового этапа, и назад не откатывается.
type Tournament struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	TemplateID  int       `json:"template_id" db:"template_id"`
	OrganizerID int       `json:"organizer_id" db:"organizer_id"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	HasStarted  bool      `json:"has_started" db:"has_started"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Organizer *Player `json:"organizer,omitempty" db:"-"`
}
