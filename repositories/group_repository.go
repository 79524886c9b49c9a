package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cueclub/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrGroupPlayerInvalid = errors.New("group member conflict or invalid")
)

type GroupRepository interface {
	// Create persists the group together with any members already present
	// on it and returns the new id.
	Create(ctx context.Context, exec SQLExecutor, group *models.Group) (int, error)
	// AddPlayers records group membership for players dealt in after the
	// group row was created. Membership is written exactly once.
	AddPlayers(ctx context.Context, exec SQLExecutor, groupID int, playerIDs []int) error
	ListByTournament(ctx context.Context, tournamentID int, round *models.Round) ([]*models.Group, error)
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) Create(ctx context.Context, exec SQLExecutor, group *models.Group) (int, error) {
	query := `
		INSERT INTO groups (tournament_id, name, round_id)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		group.TournamentID, group.Name, group.Round,
	).Scan(&group.ID)
	if err != nil {
		return 0, r.handleGroupError(err)
	}

	if len(group.Players) > 0 {
		ids := make([]int, 0, len(group.Players))
		for _, p := range group.Players {
			ids = append(ids, p.ID)
		}
		if err := r.AddPlayers(ctx, exec, group.ID, ids); err != nil {
			return 0, err
		}
	}

	return group.ID, nil
}

func (r *postgresGroupRepository) AddPlayers(ctx context.Context, exec SQLExecutor, groupID int, playerIDs []int) error {
	if len(playerIDs) == 0 {
		return nil
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`INSERT INTO group_players (group_id, player_id, position) VALUES `)

	args := make([]interface{}, 0, len(playerIDs)*3)
	for i, playerID := range playerIDs {
		if i > 0 {
			queryBuilder.WriteString(", ")
		}
		base := i * 3
		queryBuilder.WriteString("($" + strconv.Itoa(base+1) + ", $" + strconv.Itoa(base+2) + ", $" + strconv.Itoa(base+3) + ")")
		args = append(args, groupID, playerID, i)
	}

	if _, err := exec.ExecContext(ctx, queryBuilder.String(), args...); err != nil {
		return r.handleGroupError(fmt.Errorf("failed to add players to group %d: %w", groupID, err))
	}
	return nil
}

func (r *postgresGroupRepository) ListByTournament(ctx context.Context, tournamentID int, round *models.Round) ([]*models.Group, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, tournament_id, name, round_id
		FROM groups
		WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	if round != nil {
		queryBuilder.WriteString(" AND round_id = $2")
		args = append(args, *round)
	}
	queryBuilder.WriteString(" ORDER BY round_id ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	byID := make(map[int]*models.Group)
	for rows.Next() {
		var g models.Group
		if scanErr := rows.Scan(&g.ID, &g.TournamentID, &g.Name, &g.Round); scanErr != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", scanErr)
		}
		groups = append(groups, &g)
		byID[g.ID] = &g
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during group rows iteration: %w", err)
	}

	if len(groups) == 0 {
		return groups, nil
	}
	if err := r.loadMembers(ctx, byID); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *postgresGroupRepository) loadMembers(ctx context.Context, byID map[int]*models.Group) error {
	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query := `
		SELECT gp.group_id, p.id, p.first_name, p.last_name, p.nickname, p.email, p.created_at
		FROM group_players gp
		JOIN players p ON p.id = gp.player_id
		WHERE gp.group_id = ANY($1)
		ORDER BY gp.group_id ASC, gp.position ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID int
		var player models.Player
		if scanErr := rows.Scan(
			&groupID,
			&player.ID,
			&player.FirstName,
			&player.LastName,
			&player.Nickname,
			&player.Email,
			&player.CreatedAt,
		); scanErr != nil {
			return fmt.Errorf("failed to scan group member row: %w", scanErr)
		}
		if group, ok := byID[groupID]; ok {
			group.Players = append(group.Players, &player)
		}
	}
	return rows.Err()
}

func (r *postgresGroupRepository) handleGroupError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "group_players_player_id_fkey":
			return ErrGroupPlayerInvalid
		case "group_players_group_id_fkey":
			return ErrGroupNotFound
		}
	}
	return err
}
