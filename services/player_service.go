package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ecell-auctions/auction-system/live"
	"github.com/ecell-auctions/auction-system/models"
	"github.com/ecell-auctions/auction-system/repositories"
)

// PlayerService implements the auction's transaction operations. Every
// mutation is one read-validate-write cycle inside a single database
// transaction, so a failed funds check or a storage error mid-operation
// never leaves budgets and rosters disagreeing.
type PlayerService interface {
	AddPlayer(ctx context.Context, input AddPlayerInput) (*models.Player, error)
	ModifyPlayer(ctx context.Context, id int, input ModifyPlayerInput) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int) error
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	// FindPlayerByName is the operator-facing search step. Names are not
	// unique; on duplicates the oldest player (lowest id) wins, and the
	// returned id should be used for the actual mutation.
	FindPlayerByName(ctx context.Context, name string) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	TickerItems(ctx context.Context) ([]string, error)
}

type AddPlayerInput struct {
	Name        string             `json:"name"`
	SoldAmount  int                `json:"sold_amount"`
	Rating      int                `json:"rating"`
	TeamBought  string             `json:"team_bought"`
	Role        models.PlayerRole  `json:"role"`
	Nationality models.Nationality `json:"nationality"`
}

type ModifyPlayerInput struct {
	Name        string             `json:"name"`
	SoldAmount  int                `json:"sold_amount"`
	Rating      int                `json:"rating"`
	TeamBought  string             `json:"team_bought"`
	Role        models.PlayerRole  `json:"role"`
	Nationality models.Nationality `json:"nationality"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	txRunner   repositories.TxRunner
	hub        *live.Hub
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	txRunner repositories.TxRunner,
	hub *live.Hub,
) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		txRunner:   txRunner,
		hub:        hub,
	}
}

func validatePlayerFields(name string, amount, rating int, role models.PlayerRole, nationality models.Nationality) error {
	if strings.TrimSpace(name) == "" {
		return ErrPlayerNameRequired
	}
	if amount < 0 {
		return ErrNegativeAmount
	}
	if rating < models.RatingMin || rating > models.RatingMax {
		return ErrRatingOutOfRange
	}
	if !role.Valid() {
		return ErrInvalidRole
	}
	if !nationality.Valid() {
		return ErrInvalidNationality
	}
	return nil
}

// availableFor returns how many lakhs the team can still spend, computed
// from rows read through exec so the check shares the mutation's snapshot.
func (s *playerService) availableFor(ctx context.Context, exec repositories.SQLExecutor, teamName string) (int, error) {
	team, err := s.teamRepo.GetByName(ctx, exec, teamName)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return 0, ErrTeamNotFound
		}
		return 0, fmt.Errorf("failed to load team %q: %w", teamName, err)
	}

	spent, err := s.playerRepo.SpentByTeam(ctx, exec, teamName)
	if err != nil {
		return 0, err
	}
	return team.Budget - spent, nil
}

func (s *playerService) AddPlayer(ctx context.Context, input AddPlayerInput) (*models.Player, error) {
	if err := validatePlayerFields(input.Name, input.SoldAmount, input.Rating, input.Role, input.Nationality); err != nil {
		return nil, err
	}

	player := &models.Player{
		Name:        strings.TrimSpace(input.Name),
		SoldAmount:  input.SoldAmount,
		Rating:      input.Rating,
		TeamBought:  input.TeamBought,
		Role:        input.Role,
		Nationality: input.Nationality,
	}
	if player.TeamBought == "" || player.TeamBought == models.TeamUnsold {
		// Unsold players never hold a price.
		player.TeamBought = models.TeamUnsold
		player.SoldAmount = 0
	}

	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if player.Sold() {
			available, err := s.availableFor(ctx, exec, player.TeamBought)
			if err != nil {
				return err
			}
			if available < player.SoldAmount {
				return fmt.Errorf("%w: %s has %d lakhs available, need %d",
					ErrInsufficientFunds, player.TeamBought, available, player.SoldAmount)
			}
		}
		return s.playerRepo.Create(ctx, exec, player)
	})
	if err != nil {
		return nil, err
	}

	if player.Sold() {
		s.announceSale(ctx, player)
	}
	return player, nil
}

func (s *playerService) ModifyPlayer(ctx context.Context, id int, input ModifyPlayerInput) (*models.Player, error) {
	if err := validatePlayerFields(input.Name, input.SoldAmount, input.Rating, input.Role, input.Nationality); err != nil {
		return nil, err
	}

	newTeam := input.TeamBought
	if newTeam == "" {
		newTeam = models.TeamUnsold
	}
	newAmount := input.SoldAmount
	if newTeam == models.TeamUnsold {
		newAmount = 0
	}

	var updated *models.Player
	var previousTeam string

	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		current, err := s.playerRepo.GetByID(ctx, exec, id)
		if err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}
		previousTeam = current.TeamBought

		if newTeam != models.TeamUnsold {
			// The full new amount is checked against the pre-mutation
			// remaining budget, even when only re-pricing the same player;
			// the ledger then absorbs just the delta.
			available, err := s.availableFor(ctx, exec, newTeam)
			if err != nil {
				return err
			}
			if available < newAmount {
				return fmt.Errorf("%w: %s has %d lakhs available, need %d",
					ErrInsufficientFunds, newTeam, available, newAmount)
			}
		}

		current.Name = strings.TrimSpace(input.Name)
		current.SoldAmount = newAmount
		current.Rating = input.Rating
		current.TeamBought = newTeam
		current.Role = input.Role
		current.Nationality = input.Nationality

		if err := s.playerRepo.Update(ctx, exec, current); err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.Sold() && updated.TeamBought != previousTeam {
		s.announceSale(ctx, updated)
	}
	return updated, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	// The sold amount flows back to the old team implicitly: remaining
	// budget is derived, and the row is gone once the transaction commits.
	return s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.playerRepo.GetByID(ctx, exec, id); err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}
		if err := s.playerRepo.Delete(ctx, exec, id); err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}
		return nil
	})
}

func (s *playerService) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) FindPlayerByName(ctx context.Context, name string) (*models.Player, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrPlayerNameRequired
	}
	player, err := s.playerRepo.FirstByName(ctx, nil, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	return s.playerRepo.List(ctx, nil)
}

// TickerItems renders one scroller line per sold player, latest sale first:
// "Bumrah (88) | MI (342)", with a plane marker for foreign players.
func (s *playerService) TickerItems(ctx context.Context) ([]string, error) {
	players, err := s.playerRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	ratings := make(map[string]int)
	for _, p := range players {
		if p.Sold() {
			ratings[p.TeamBought] += p.Rating
		}
	}

	items := make([]string, 0, len(players))
	for _, p := range players {
		if !p.Sold() {
			continue
		}
		marker := ""
		if p.Nationality == models.NationalityForeign {
			marker = " ✈️"
		}
		items = append(items, fmt.Sprintf("%s%s (%d) | %s (%d)",
			p.Name, marker, p.Rating, p.TeamBought, ratings[p.TeamBought]))
	}
	return items, nil
}

func (s *playerService) announceSale(ctx context.Context, player *models.Player) {
	teamRating, err := s.playerRepo.RatingByTeam(ctx, nil, player.TeamBought)
	if err != nil {
		// The sale is already committed; a failed announcement only costs
		// the banner.
		teamRating = player.Rating
	}
	s.hub.BroadcastEvent("SALE", live.SaleEvent{
		PlayerID:   player.ID,
		Player:     player.Name,
		Rating:     player.Rating,
		Team:       player.TeamBought,
		SoldAmount: player.SoldAmount,
		TeamRating: teamRating,
	})
}
