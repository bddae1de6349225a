package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ecell-auctions/auction-system/models"
	"github.com/ecell-auctions/auction-system/repositories"
)

// LedgerService derives budgets, rosters and rankings from the stored
// tables. It keeps no state of its own: every call reads a fresh snapshot,
// so derived values can never drift from the ledger after external writes.
type LedgerService interface {
	RemainingBudget(ctx context.Context, team string) (int, error)
	Roster(ctx context.Context, team string) ([]models.Player, error)
	TeamRating(ctx context.Context, team string) (int, error)
	RankTeams(ctx context.Context) ([]models.TeamStanding, error)
	SquadSummary(ctx context.Context, team string) (*models.SquadSummary, error)
	UnsoldPlayers(ctx context.Context) ([]models.Player, error)
}

type ledgerService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
}

func NewLedgerService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
) LedgerService {
	return &ledgerService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
	}
}

func (s *ledgerService) RemainingBudget(ctx context.Context, team string) (int, error) {
	t, err := s.teamRepo.GetByName(ctx, nil, team)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return 0, ErrTeamNotFound
		}
		return 0, fmt.Errorf("failed to load team: %w", err)
	}

	spent, err := s.playerRepo.SpentByTeam(ctx, nil, team)
	if err != nil {
		return 0, fmt.Errorf("failed to compute spend: %w", err)
	}
	return t.Budget - spent, nil
}

func (s *ledgerService) Roster(ctx context.Context, team string) ([]models.Player, error) {
	if _, err := s.teamRepo.GetByName(ctx, nil, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	return s.playerRepo.ListByTeam(ctx, nil, team)
}

func (s *ledgerService) TeamRating(ctx context.Context, team string) (int, error) {
	if _, err := s.teamRepo.GetByName(ctx, nil, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return 0, ErrTeamNotFound
		}
		return 0, fmt.Errorf("failed to load team: %w", err)
	}
	return s.playerRepo.RatingByTeam(ctx, nil, team)
}

func (s *ledgerService) RankTeams(ctx context.Context) ([]models.TeamStanding, error) {
	teams, err := s.teamRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	players, err := s.playerRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return rankFromSnapshot(teams, players), nil
}

func (s *ledgerService) SquadSummary(ctx context.Context, team string) (*models.SquadSummary, error) {
	t, err := s.teamRepo.GetByName(ctx, nil, team)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}

	roster, err := s.playerRepo.ListByTeam(ctx, nil, team)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	summary := summaryFromRoster(*t, roster)
	return &summary, nil
}

func (s *ledgerService) UnsoldPlayers(ctx context.Context) ([]models.Player, error) {
	return s.playerRepo.ListUnsold(ctx, nil)
}

// remainingFromSnapshot computes a team's remaining budget from an in-memory
// snapshot. The transaction operations use it against rows read inside their
// own transaction, so the funds check and the write see the same state.
func remainingFromSnapshot(team models.Team, players []models.Player) int {
	spent := 0
	for _, p := range players {
		if p.TeamBought == team.Name {
			spent += p.SoldAmount
		}
	}
	return team.Budget - spent
}

func ratingFromSnapshot(team string, players []models.Player) int {
	rating := 0
	for _, p := range players {
		if p.TeamBought == team {
			rating += p.Rating
		}
	}
	return rating
}

// rankFromSnapshot orders teams by total rating descending, team name
// ascending on ties. Before anyone has bought a rated player every rating is
// zero; in that case the order is plain alphabetical so the opening board
// does not look arbitrary.
func rankFromSnapshot(teams []models.Team, players []models.Player) []models.TeamStanding {
	standings := make([]models.TeamStanding, 0, len(teams))
	allZero := true
	for _, t := range teams {
		rating := ratingFromSnapshot(t.Name, players)
		if rating != 0 {
			allZero = false
		}
		remaining := remainingFromSnapshot(t, players)
		standings = append(standings, models.TeamStanding{
			Team:            t.Name,
			Rating:          rating,
			RemainingBudget: remaining,
			RemainingCr:     models.CroreString(remaining),
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		if allZero || standings[i].Rating == standings[j].Rating {
			return standings[i].Team < standings[j].Team
		}
		return standings[i].Rating > standings[j].Rating
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

func summaryFromRoster(team models.Team, roster []models.Player) models.SquadSummary {
	summary := models.SquadSummary{
		Team:        team.Name,
		PlayerCount: len(roster),
	}
	for _, p := range roster {
		summary.TotalSpend += p.SoldAmount
		summary.TotalRating += p.Rating

		switch p.Role {
		case models.RoleBatter:
			summary.Batters++
		case models.RoleBowler:
			summary.Bowlers++
		case models.RoleAllrounder:
			summary.Allrounders++
		case models.RoleWicketkeeper:
			summary.Wicketkeepers++
		}
		switch p.Nationality {
		case models.NationalityIndian:
			summary.Indian++
		case models.NationalityForeign:
			summary.Foreign++
		}
	}

	summary.RemainingBudget = team.Budget - summary.TotalSpend
	summary.TotalSpendCr = models.CroreString(summary.TotalSpend)
	summary.RemainingCr = models.CroreString(summary.RemainingBudget)
	return summary
}
