package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cueclub/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound         = errors.New("player not found")
	ErrPlayerNicknameConflict = errors.New("player nickname is already in use")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	List(ctx context.Context) ([]*models.Player, error)
	// ListParticipants returns the players signed up for a tournament in
	// signup order; the partitioner relies on that order for seeding.
	ListParticipants(ctx context.Context, tournamentID int) ([]*models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, first_name, last_name, nickname, email, created_at`

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (first_name, last_name, nickname, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.FirstName,
		player.LastName,
		player.Nickname,
		player.Email,
	).Scan(&player.ID, &player.CreatedAt)

	return r.handlePlayerError(err)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	player := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&player.ID,
		&player.FirstName,
		&player.LastName,
		&player.Nickname,
		&player.Email,
		&player.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player by id %d: %w", id, err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players
		SET first_name = $1, last_name = $2, nickname = $3, email = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		player.FirstName,
		player.LastName,
		player.Nickname,
		player.Email,
		player.ID,
	)
	if err != nil {
		return r.handlePlayerError(err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) List(ctx context.Context) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY id ASC`
	return r.queryPlayers(ctx, query)
}

func (r *postgresPlayerRepository) ListParticipants(ctx context.Context, tournamentID int) ([]*models.Player, error) {
	query := `
		SELECT p.id, p.first_name, p.last_name, p.nickname, p.email, p.created_at
		FROM players p
		JOIN tournament_players tp ON tp.player_id = p.id
		WHERE tp.tournament_id = $1
		ORDER BY tp.id ASC`
	return r.queryPlayers(ctx, query, tournamentID)
}

func (r *postgresPlayerRepository) queryPlayers(ctx context.Context, query string, args ...interface{}) ([]*models.Player, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var player models.Player
		if scanErr := rows.Scan(
			&player.ID,
			&player.FirstName,
			&player.LastName,
			&player.Nickname,
			&player.Email,
			&player.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", scanErr)
		}
		players = append(players, &player)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) handlePlayerError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Constraint == "players_nickname_key" {
			return ErrPlayerNicknameConflict
		}
	}
	return err
}
