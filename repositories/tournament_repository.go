package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cueclub/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound         = errors.New("tournament not found")
	ErrTournamentNameConflict     = errors.New("tournament name already exists")
	ErrTournamentInvalidOrganizer = errors.New("invalid organizer reference")
	ErrTournamentInvalidTemplate  = errors.New("invalid template reference")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	// SetStarted flips the started flag; the flip happens inside the same
	// transaction that persists the group stage.
	SetStarted(ctx context.Context, exec SQLExecutor, id int) error
	// ListDueForStart returns unstarted tournaments whose start date has
	// passed, for the auto-start scheduler.
	ListDueForStart(ctx context.Context, now time.Time) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, description, template_id, organizer_id, start_date, end_date, has_started, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, description, template_id, organizer_id, start_date, end_date, has_started)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Description, t.TemplateID, t.OrganizerID, t.StartDate, t.EndDate,
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.TemplateID, &t.OrganizerID,
		&t.StartDate, &t.EndDate, &t.HasStarted, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament by id %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments ORDER BY start_date ASC, id ASC`
	return r.queryTournaments(ctx, query)
}

func (r *postgresTournamentRepository) SetStarted(ctx context.Context, exec SQLExecutor, id int) error {
	query := `UPDATE tournaments SET has_started = TRUE WHERE id = $1`
	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("SetStarted: failed to execute query for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) ListDueForStart(ctx context.Context, now time.Time) ([]*models.Tournament, error) {
	query := `
		SELECT ` + tournamentColumns + `
		FROM tournaments
		WHERE has_started = FALSE AND start_date <= $1
		ORDER BY start_date ASC, id ASC`
	return r.queryTournaments(ctx, query, now)
}

func (r *postgresTournamentRepository) queryTournaments(ctx context.Context, query string, args ...interface{}) ([]*models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.TemplateID, &t.OrganizerID,
			&t.StartDate, &t.EndDate, &t.HasStarted, &t.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "tournaments_name_key":
			return ErrTournamentNameConflict
		case "tournaments_organizer_id_fkey":
			return ErrTournamentInvalidOrganizer
		case "tournaments_template_id_fkey":
			return ErrTournamentInvalidTemplate
		}
	}
	return err
}
