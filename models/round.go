package models

// Round представляет раунды турнира, соответствующие ENUM в БД.
// Числовой порядок отражает ход турнира, а не размер сетки: групповой этап
// идёт первым, дальше лестница на вылет вплоть до финала.
type Round int

const (
	RoundGroup         Round = 1
	RoundKnockout64    Round = 2
	RoundKnockout32    Round = 3
	RoundKnockout16    Round = 4
	RoundKnockout8     Round = 5
	RoundQuarterfinals Round = 6
	RoundSemifinals    Round = 7
	RoundFinals        Round = 8
)

func (r Round) String() string {
	switch r {
	case RoundGroup:
		return "Group"
	case RoundKnockout64:
		return "Knockout 64"
	case RoundKnockout32:
		return "Knockout 32"
	case RoundKnockout16:
		return "Knockout 16"
	case RoundKnockout8:
		return "Knockout 8"
	case RoundQuarterfinals:
		return "Quarterfinals"
	case RoundSemifinals:
		return "Semifinals"
	case RoundFinals:
		return "Finals"
	}
	return "Unknown Round"
}

// IsKnockout reports whether the round is part of the single-elimination
// ladder (everything after the group stage).
func (r Round) IsKnockout() bool {
	return r > RoundGroup
}

// fieldSizeRounds maps a knockout field size onto its round, ordered by
// exclusive lower bound. A field of 5-8 players goes straight to the
// quarterfinals: RoundKnockout8 is a valid tag for filters but is never
// produced here, which keeps the historical bracket labels intact.
var fieldSizeRounds = []struct {
	over  int
	round Round
}{
	{32, RoundKnockout64},
	{16, RoundKnockout32},
	{8, RoundKnockout16},
	{4, RoundQuarterfinals},
	{2, RoundSemifinals},
}

// RoundForFieldSize returns the knockout round to schedule for the given
// number of advancing players.
func RoundForFieldSize(players int) Round {
	for _, t := range fieldSizeRounds {
		if players > t.over {
			return t.round
		}
	}
	return RoundFinals
}
