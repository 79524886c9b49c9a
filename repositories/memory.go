package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cueclub/tournament-engine/models"
)

// Memory is an in-memory implementation of every repository interface plus a
// no-op Transactor. It backs the unit tests and doubles as the fake id
// source the bracket generators' callbacks are exercised with. A single
// mutex serializes access, which also gives each game the per-row
// serialization the score protocol relies on.
type Memory struct {
	mu           sync.Mutex
	players      map[int]*models.Player
	participants map[int][]int // tournamentID -> playerIDs in signup order
	tournaments  map[int]*models.Tournament
	groups       map[int]*models.Group
	games        map[int]*models.Game

	nextPlayerID     int
	nextTournamentID int
	nextGroupID      int
	nextGameID       int
}

func NewMemory() *Memory {
	return &Memory{
		players:      make(map[int]*models.Player),
		participants: make(map[int][]int),
		tournaments:  make(map[int]*models.Tournament),
		groups:       make(map[int]*models.Group),
		games:        make(map[int]*models.Game),
	}
}

func (m *Memory) Players() PlayerRepository         { return (*memoryPlayers)(m) }
func (m *Memory) Tournaments() TournamentRepository { return (*memoryTournaments)(m) }
func (m *Memory) Groups() GroupRepository           { return (*memoryGroups)(m) }
func (m *Memory) Games() GameRepository             { return (*memoryGames)(m) }
func (m *Memory) Scores() ScoreRepository           { return (*memoryScores)(m) }
func (m *Memory) Transactor() Transactor            { return (*memoryTransactor)(m) }

// AddParticipant signs a player up for a tournament.
func (m *Memory) AddParticipant(tournamentID, playerID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.participants[tournamentID] = append(m.participants[tournamentID], playerID)
}

type memoryTransactor Memory

// WithinTx runs fn directly: memory writes are immediate, so commit and
// rollback have no meaning here.
func (m *memoryTransactor) WithinTx(ctx context.Context, fn func(exec SQLExecutor) error) error {
	return fn(nil)
}

type memoryPlayers Memory

func (m *memoryPlayers) Create(ctx context.Context, player *models.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPlayerID++
	player.ID = m.nextPlayerID
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now()
	}
	stored := *player
	m.players[player.ID] = &stored
	return nil
}

func (m *memoryPlayers) GetByID(ctx context.Context, id int) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	player, ok := m.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (m *memoryPlayers) Update(ctx context.Context, player *models.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[player.ID]; !ok {
		return ErrPlayerNotFound
	}
	stored := *player
	m.players[player.ID] = &stored
	return nil
}

func (m *memoryPlayers) List(ctx context.Context) ([]*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int, 0, len(m.players))
	for id := range m.players {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	players := make([]*models.Player, 0, len(ids))
	for _, id := range ids {
		copied := *m.players[id]
		players = append(players, &copied)
	}
	return players, nil
}

func (m *memoryPlayers) ListParticipants(ctx context.Context, tournamentID int) ([]*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	players := make([]*models.Player, 0, len(m.participants[tournamentID]))
	for _, id := range m.participants[tournamentID] {
		if player, ok := m.players[id]; ok {
			copied := *player
			players = append(players, &copied)
		}
	}
	return players, nil
}

type memoryTournaments Memory

func (m *memoryTournaments) Create(ctx context.Context, t *models.Tournament) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTournamentID++
	t.ID = m.nextTournamentID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	stored := *t
	m.tournaments[t.ID] = &stored
	return nil
}

func (m *memoryTournaments) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *memoryTournaments) List(ctx context.Context) ([]*models.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tournaments := make([]*models.Tournament, 0, len(m.tournaments))
	for _, t := range m.tournaments {
		copied := *t
		tournaments = append(tournaments, &copied)
	}
	sort.Slice(tournaments, func(i, j int) bool {
		if !tournaments[i].StartDate.Equal(tournaments[j].StartDate) {
			return tournaments[i].StartDate.Before(tournaments[j].StartDate)
		}
		return tournaments[i].ID < tournaments[j].ID
	})
	return tournaments, nil
}

func (m *memoryTournaments) SetStarted(ctx context.Context, exec SQLExecutor, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tournaments[id]
	if !ok {
		return ErrTournamentNotFound
	}
	t.HasStarted = true
	return nil
}

func (m *memoryTournaments) ListDueForStart(ctx context.Context, now time.Time) ([]*models.Tournament, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	due := make([]*models.Tournament, 0)
	for _, t := range all {
		if !t.HasStarted && !t.StartDate.After(now) {
			due = append(due, t)
		}
	}
	return due, nil
}

type memoryGroups Memory

func (m *memoryGroups) Create(ctx context.Context, exec SQLExecutor, group *models.Group) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextGroupID++
	stored := *group
	stored.ID = m.nextGroupID
	stored.Players = append([]*models.Player(nil), group.Players...)
	m.groups[stored.ID] = &stored
	return stored.ID, nil
}

func (m *memoryGroups) AddPlayers(ctx context.Context, exec SQLExecutor, groupID int, playerIDs []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	group, ok := m.groups[groupID]
	if !ok {
		return ErrGroupNotFound
	}
	for _, id := range playerIDs {
		player, ok := m.players[id]
		if !ok {
			player = &models.Player{ID: id}
		}
		group.Players = append(group.Players, player)
	}
	return nil
}

func (m *memoryGroups) ListByTournament(ctx context.Context, tournamentID int, round *models.Round) ([]*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	groups := make([]*models.Group, 0)
	for _, group := range m.groups {
		if group.TournamentID != tournamentID {
			continue
		}
		if round != nil && group.Round != *round {
			continue
		}
		copied := *group
		copied.Players = append([]*models.Player(nil), group.Players...)
		groups = append(groups, &copied)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Round != groups[j].Round {
			return groups[i].Round < groups[j].Round
		}
		return groups[i].ID < groups[j].ID
	})
	return groups, nil
}

type memoryGames Memory

func (m *memoryGames) Create(ctx context.Context, exec SQLExecutor, game *models.Game, tournamentID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.groups[game.GroupID]; !ok {
		return ErrGameGroupInvalid
	}
	m.nextGameID++
	game.ID = m.nextGameID
	game.TournamentID = tournamentID
	if game.State == "" {
		game.State = models.GameStateUndefined
	}
	if game.CreatedAt.IsZero() {
		game.CreatedAt = time.Now()
	}
	stored := *game
	m.games[game.ID] = &stored
	return nil
}

func (m *memoryGames) Get(ctx context.Context, player1ID, player2ID, tournamentID, groupID int) (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, game := range m.games {
		if game.TournamentID == tournamentID && game.GroupID == groupID &&
			game.Player1ID == player1ID && game.Player2ID == player2ID {
			copied := *game
			return &copied, nil
		}
	}
	return nil, ErrGameNotFound
}

func (m *memoryGames) SetScores(ctx context.Context, exec SQLExecutor, prior *models.Game, player1Score, player2Score int, state models.GameState, scoreEditor *int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.games[prior.ID]
	if !ok {
		return ErrGameNotFound
	}
	if game.State != prior.State || !sameEditor(game.ScoreEditor, prior.ScoreEditor) {
		return ErrGameStaleSnapshot
	}
	game.Player1Score = player1Score
	game.Player2Score = player2Score
	game.State = state
	game.ScoreEditor = scoreEditor
	return nil
}

func sameEditor(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (m *memoryGames) ListByTournament(ctx context.Context, tournamentID int, round *models.Round) ([]*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	games := make([]*models.Game, 0)
	for _, game := range m.games {
		if game.TournamentID != tournamentID {
			continue
		}
		if round != nil {
			group, ok := m.groups[game.GroupID]
			if !ok || group.Round != *round {
				continue
			}
		}
		copied := *game
		games = append(games, &copied)
	}
	sort.Slice(games, func(i, j int) bool {
		ri, rj := m.groups[games[i].GroupID].Round, m.groups[games[j].GroupID].Round
		if ri != rj {
			return ri < rj
		}
		return games[i].ID < games[j].ID
	})
	return games, nil
}

func (m *memoryGames) CurrentRound(ctx context.Context, tournamentID int) (models.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentRoundLocked(tournamentID), nil
}

func (m *memoryGames) IsRoundCompleted(ctx context.Context, tournamentID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.currentRoundLocked(tournamentID)
	for _, game := range m.games {
		if game.TournamentID != tournamentID || game.State == models.GameStateConfirmed {
			continue
		}
		if group, ok := m.groups[game.GroupID]; ok && group.Round == current {
			return false, nil
		}
	}
	return true, nil
}

func (m *memoryGames) currentRoundLocked(tournamentID int) models.Round {
	var current models.Round
	for _, game := range m.games {
		if game.TournamentID != tournamentID {
			continue
		}
		if group, ok := m.groups[game.GroupID]; ok && group.Round > current {
			current = group.Round
		}
	}
	return current
}

type memoryScores Memory

func (m *memoryScores) PlayerScores(ctx context.Context, tournamentID int) ([]*models.PlayerScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	type key struct{ groupID, playerID int }
	tally := make(map[key]*models.PlayerScore)

	record := func(groupID, playerID, framesWon, framesLost int) {
		k := key{groupID, playerID}
		score, ok := tally[k]
		if !ok {
			score = &models.PlayerScore{PlayerID: playerID, GroupID: groupID}
			tally[k] = score
		}
		score.FramesWon += framesWon
		score.FramesLost += framesLost
		switch {
		case framesWon > framesLost:
			score.Wins++
		case framesWon < framesLost:
			score.Losses++
		default:
			score.Draws++
		}
	}

	for _, game := range m.games {
		if game.TournamentID != tournamentID || game.State != models.GameStateConfirmed {
			continue
		}
		group, ok := m.groups[game.GroupID]
		if !ok || group.Round != models.RoundGroup {
			continue
		}
		record(game.GroupID, game.Player1ID, game.Player1Score, game.Player2Score)
		record(game.GroupID, game.Player2ID, game.Player2Score, game.Player1Score)
	}

	scores := make([]*models.PlayerScore, 0, len(tally))
	for _, score := range tally {
		scores = append(scores, score)
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].GroupID != scores[j].GroupID {
			return scores[i].GroupID < scores[j].GroupID
		}
		return scores[i].PlayerID < scores[j].PlayerID
	})
	return scores, nil
}
