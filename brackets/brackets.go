// Package brackets contains the pure scheduling algorithms of the engine:
// group partitioning, round-robin fixtures, standings ranking, knockout
// seeding and bracket pairing. Persistence is injected through GroupCreator
// so every generator stays testable against an in-memory fake.
package brackets

import (
	"context"
	"errors"

	"github.com/cueclub/tournament-engine/models"
)

// GroupCreator persists a freshly built group and returns its id. The
// generators call it mid-algorithm because games reference group ids that
// only the repository can mint.
type GroupCreator func(ctx context.Context, group *models.Group) (int, error)

var (
	ErrInvalidGroupSize  = errors.New("target group size must be positive")
	ErrNoEligiblePlayers = errors.New("no eligible players for the knockout stage")
	ErrOddFieldSize      = errors.New("cannot pair an odd number of players")
	ErrUnpairablePlayer  = errors.New("a player was left without an opponent")
)
