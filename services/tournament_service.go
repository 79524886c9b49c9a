package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cueclub/tournament-engine/brackets"
	"github.com/cueclub/tournament-engine/models"
	"github.com/cueclub/tournament-engine/repositories"
	"golang.org/x/sync/errgroup"
)

// targetGroupSize - желаемое число игроков в группе при жеребьёвке.
const targetGroupSize = 4

// TournamentSummary aggregates everything a caller needs to render a
// tournament: its groups, all games and the ranked group-stage standings.
type TournamentSummary struct {
	Tournament *models.Tournament    `json:"tournament"`
	Groups     []*models.Group       `json:"groups"`
	Games      []*models.Game        `json:"games"`
	Standings  []*models.PlayerScore `json:"standings"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, tournament *models.Tournament) error
	GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]*models.Tournament, error)

	// Start partitions the participants into groups, generates the
	// round-robin fixtures and flips the started flag, all in one
	// transaction. It fails if the tournament has already been started or
	// its start date has not passed.
	Start(ctx context.Context, tournamentID int) error

	// StartNextRound advances a tournament whose current round is fully
	// confirmed: the group stage seeds the first knockout round, every
	// knockout round but the finals pairs its winners into the next one,
	// and the finals end the tournament. Вызывающий обязан дёргать его не
	// более одного раза на раунд.
	StartNextRound(ctx context.Context, tournamentID int) error

	// AutoStartDue starts every tournament whose start date has passed.
	AutoStartDue(ctx context.Context) error

	Standings(ctx context.Context, tournamentID int) ([]*models.PlayerScore, error)
	Summary(ctx context.Context, tournamentID int) (*TournamentSummary, error)
}

type tournamentService struct {
	tx          repositories.Transactor
	tournaments repositories.TournamentRepository
	players     repositories.PlayerRepository
	groups      repositories.GroupRepository
	games       repositories.GameRepository
	scores      repositories.ScoreRepository
	logger      *slog.Logger
}

func NewTournamentService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	groupRepo repositories.GroupRepository,
	gameRepo repositories.GameRepository,
	scoreRepo repositories.ScoreRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tx:          tx,
		tournaments: tournamentRepo,
		players:     playerRepo,
		groups:      groupRepo,
		games:       gameRepo,
		scores:      scoreRepo,
		logger:      logger,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, tournament *models.Tournament) error {
	if tournament.Name == "" {
		return ErrTournamentNameRequired
	}
	if tournament.OrganizerID < 1 || tournament.TemplateID < 1 {
		return ErrTournamentInvalidRefs
	}
	if !tournament.EndDate.After(tournament.StartDate) {
		return ErrTournamentInvalidDates
	}
	return s.tournaments.Create(ctx, tournament)
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	return s.tournaments.GetByID(ctx, id)
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]*models.Tournament, error) {
	return s.tournaments.List(ctx)
}

func (s *tournamentService) Start(ctx context.Context, tournamentID int) error {
	tournament, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return err
	}
	if tournament.HasStarted {
		return ErrTournamentAlreadyStarted
	}
	if time.Now().Before(tournament.StartDate) {
		return ErrTournamentBeforeStart
	}

	participants, err := s.players.ListParticipants(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to list participants for tournament %d: %w", tournamentID, err)
	}
	if len(participants) == 0 {
		return ErrNotEnoughParticipants
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		groups, err := brackets.PartitionIntoGroups(ctx, participants, targetGroupSize, s.groupCreator(exec, tournamentID))
		if err != nil {
			return err
		}

		for _, group := range groups {
			memberIDs := make([]int, 0, len(group.Players))
			for _, player := range group.Players {
				memberIDs = append(memberIDs, player.ID)
			}
			if err := s.groups.AddPlayers(ctx, exec, group.ID, memberIDs); err != nil {
				return err
			}

			for _, game := range brackets.RoundRobinGames(group) {
				if err := s.games.Create(ctx, exec, game, tournamentID); err != nil {
					return err
				}
			}
		}

		return s.tournaments.SetStarted(ctx, exec, tournamentID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("tournament started",
		slog.Int("tournament_id", tournamentID),
		slog.Int("participants", len(participants)))
	return nil
}

func (s *tournamentService) StartNextRound(ctx context.Context, tournamentID int) error {
	round, err := s.games.CurrentRound(ctx, tournamentID)
	if err != nil {
		return err
	}

	switch {
	case round == models.RoundGroup:
		return s.startFirstKnockoutRound(ctx, tournamentID)
	case round == models.RoundFinals:
		s.logger.Info("finals confirmed, tournament finished", slog.Int("tournament_id", tournamentID))
		return nil
	case round.IsKnockout():
		return s.startNextKnockoutRound(ctx, tournamentID, round)
	default:
		return ErrNoCurrentRound
	}
}

func (s *tournamentService) AutoStartDue(ctx context.Context) error {
	due, err := s.tournaments.ListDueForStart(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to list tournaments due for start: %w", err)
	}

	for _, tournament := range due {
		if err := s.Start(ctx, tournament.ID); err != nil {
			// Одного неудачного турнира недостаточно, чтобы остановить
			// остальные: логируем и идём дальше.
			s.logger.Error("failed to auto-start tournament",
				slog.Int("tournament_id", tournament.ID),
				slog.Any("error", err))
		}
	}
	return nil
}

func (s *tournamentService) Standings(ctx context.Context, tournamentID int) ([]*models.PlayerScore, error) {
	scores, err := s.scores.PlayerScores(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return brackets.RankStandings(scores), nil
}

func (s *tournamentService) Summary(ctx context.Context, tournamentID int) (*TournamentSummary, error) {
	tournament, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	summary := &TournamentSummary{Tournament: tournament}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary.Groups, err = s.groups.ListByTournament(gctx, tournamentID, nil)
		return err
	})
	g.Go(func() error {
		var err error
		summary.Games, err = s.games.ListByTournament(gctx, tournamentID, nil)
		return err
	})
	g.Go(func() error {
		var err error
		summary.Standings, err = s.Standings(gctx, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// groupCreator binds a bracket-generator callback to the transaction and
// tournament the current operation runs under.
func (s *tournamentService) groupCreator(exec repositories.SQLExecutor, tournamentID int) brackets.GroupCreator {
	return func(ctx context.Context, group *models.Group) (int, error) {
		group.TournamentID = tournamentID
		return s.groups.Create(ctx, exec, group)
	}
}

func (s *tournamentService) startFirstKnockoutRound(ctx context.Context, tournamentID int) error {
	scores, err := s.scores.PlayerScores(ctx, tournamentID)
	if err != nil {
		return err
	}

	field, round, err := brackets.SelectKnockoutField(scores)
	if err != nil {
		return fmt.Errorf("failed to seed knockout stage for tournament %d: %w", tournamentID, err)
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		games, err := brackets.PairFirstKnockoutRound(ctx, field, round, s.groupCreator(exec, tournamentID))
		if err != nil {
			return err
		}
		return s.storeGames(ctx, exec, games, tournamentID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("knockout stage started",
		slog.Int("tournament_id", tournamentID),
		slog.Int("field", len(field)),
		slog.String("round", round.String()))
	return nil
}

func (s *tournamentService) startNextKnockoutRound(ctx context.Context, tournamentID int, completed models.Round) error {
	games, err := s.games.ListByTournament(ctx, tournamentID, &completed)
	if err != nil {
		return err
	}

	winners := roundWinners(games)
	round := models.RoundForFieldSize(len(winners))

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		nextGames, err := brackets.PairNextKnockoutRound(ctx, winners, round, s.groupCreator(exec, tournamentID))
		if err != nil {
			return err
		}
		return s.storeGames(ctx, exec, nextGames, tournamentID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("next knockout round started",
		slog.Int("tournament_id", tournamentID),
		slog.String("completed", completed.String()),
		slog.String("round", round.String()))
	return nil
}

func (s *tournamentService) storeGames(ctx context.Context, exec repositories.SQLExecutor, games []*models.Game, tournamentID int) error {
	for _, game := range games {
		if err := s.games.Create(ctx, exec, game, tournamentID); err != nil {
			return err
		}
	}
	return nil
}

// roundWinners picks the winner of every game in a confirmed knockout
// round, in the round's stored order so bracket adjacency carries over.
// Knockout games are best of an odd number of frames and cannot draw.
func roundWinners(games []*models.Game) []*models.PlayerScore {
	winners := make([]*models.PlayerScore, 0, len(games))
	for _, game := range games {
		winnerID := game.Player2ID
		if game.Player1Score > game.Player2Score {
			winnerID = game.Player1ID
		}
		winners = append(winners, &models.PlayerScore{PlayerID: winnerID, GroupID: game.GroupID})
	}
	return winners
}
