package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ecell-auctions/auction-system/live"
	"github.com/ecell-auctions/auction-system/models"
	"github.com/ecell-auctions/auction-system/repositories"
	"golang.org/x/crypto/bcrypt"
)

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, name string) (*models.Team, error)
	// ListTeams returns every team with its derived remaining budget.
	ListTeams(ctx context.Context) ([]models.Team, error)
	// VerifyTeamSecret gates roster reads for non-privileged callers. Teams
	// created without a secret are readable by anyone.
	VerifyTeamSecret(ctx context.Context, name, secret string) error
	// WipeAll clears both ledger tables in one transaction.
	WipeAll(ctx context.Context) error
}

type CreateTeamInput struct {
	Name   string `json:"name"`
	Budget int    `json:"budget"`
	Secret string `json:"secret,omitempty"`
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	txRunner   repositories.TxRunner
	hub        *live.Hub
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	txRunner repositories.TxRunner,
	hub *live.Hub,
) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		txRunner:   txRunner,
		hub:        hub,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamFieldsRequired
	}
	if input.Budget < 0 {
		return nil, ErrNegativeBudget
	}

	team := &models.Team{
		Name:            name,
		Budget:          input.Budget,
		RemainingBudget: input.Budget,
	}

	if input.Secret != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Secret), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash team secret: %w", err)
		}
		hashStr := string(hash)
		team.SecretHash = &hashStr
	}

	if err := s.teamRepo.Create(ctx, nil, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, name string) (*models.Team, error) {
	team, err := s.teamRepo.GetByName(ctx, nil, name)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	spent, err := s.playerRepo.SpentByTeam(ctx, nil, name)
	if err != nil {
		return nil, err
	}
	team.RemainingBudget = team.Budget - spent
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	for i := range teams {
		spent, err := s.playerRepo.SpentByTeam(ctx, nil, teams[i].Name)
		if err != nil {
			return nil, err
		}
		teams[i].RemainingBudget = teams[i].Budget - spent
	}
	return teams, nil
}

func (s *teamService) VerifyTeamSecret(ctx context.Context, name, secret string) error {
	team, err := s.teamRepo.GetByName(ctx, nil, name)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	if !team.Secured() {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*team.SecretHash), []byte(secret)); err != nil {
		return ErrTeamSecretMismatch
	}
	return nil
}

func (s *teamService) WipeAll(ctx context.Context) error {
	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.playerRepo.DeleteAll(ctx, exec); err != nil {
			return err
		}
		return s.teamRepo.DeleteAll(ctx, exec)
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastEvent("WIPE", nil)
	return nil
}
