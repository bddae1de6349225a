package services

import (
	"context"
	"testing"

	"github.com/ecell-auctions/auction-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type playerServiceFixture struct {
	teams   *fakeTeamRepo
	players *fakePlayerRepo
	svc     PlayerService
	ledger  LedgerService
}

func newPlayerServiceFixture(t *testing.T, teams ...models.Team) *playerServiceFixture {
	t.Helper()

	teamRepo := newFakeTeamRepo()
	for i := range teams {
		require.NoError(t, teamRepo.Create(context.Background(), nil, &teams[i]))
	}
	playerRepo := newFakePlayerRepo()

	return &playerServiceFixture{
		teams:   teamRepo,
		players: playerRepo,
		svc:     NewPlayerService(playerRepo, teamRepo, &fakeTxRunner{}, nil),
		ledger:  NewLedgerService(teamRepo, playerRepo),
	}
}

func (f *playerServiceFixture) remaining(t *testing.T, team string) int {
	t.Helper()
	remaining, err := f.ledger.RemainingBudget(context.Background(), team)
	require.NoError(t, err)
	return remaining
}

func TestAddPlayer_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       AddPlayerInput
		expectedErr error
	}{
		{
			name:        "empty name rejected",
			input:       AddPlayerInput{Name: "   ", SoldAmount: 100, Rating: 50, TeamBought: "CSK", Role: models.RoleBatter, Nationality: models.NationalityIndian},
			expectedErr: ErrPlayerNameRequired,
		},
		{
			name:        "negative amount rejected",
			input:       AddPlayerInput{Name: "Kohli", SoldAmount: -1, Rating: 50, TeamBought: "CSK", Role: models.RoleBatter, Nationality: models.NationalityIndian},
			expectedErr: ErrNegativeAmount,
		},
		{
			name:        "rating above 100 rejected",
			input:       AddPlayerInput{Name: "Kohli", SoldAmount: 100, Rating: 101, TeamBought: "CSK", Role: models.RoleBatter, Nationality: models.NationalityIndian},
			expectedErr: ErrRatingOutOfRange,
		},
		{
			name:        "rating below 0 rejected",
			input:       AddPlayerInput{Name: "Kohli", SoldAmount: 100, Rating: -1, TeamBought: "CSK", Role: models.RoleBatter, Nationality: models.NationalityIndian},
			expectedErr: ErrRatingOutOfRange,
		},
		{
			name:        "unknown role rejected",
			input:       AddPlayerInput{Name: "Kohli", SoldAmount: 100, Rating: 50, TeamBought: "CSK", Role: "Coach", Nationality: models.NationalityIndian},
			expectedErr: ErrInvalidRole,
		},
		{
			name:        "unknown nationality rejected",
			input:       AddPlayerInput{Name: "Kohli", SoldAmount: 100, Rating: 50, TeamBought: "CSK", Role: models.RoleBatter, Nationality: "Martian"},
			expectedErr: ErrInvalidNationality,
		},
		{
			name:        "unknown team rejected",
			input:       AddPlayerInput{Name: "Kohli", SoldAmount: 100, Rating: 50, TeamBought: "RCB", Role: models.RoleBatter, Nationality: models.NationalityIndian},
			expectedErr: ErrTeamNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newPlayerServiceFixture(t, models.Team{Name: "CSK", Budget: 10000})
			_, err := f.svc.AddPlayer(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestAddPlayer_UnsoldForcesZeroAmount(t *testing.T) {
	t.Parallel()

	f := newPlayerServiceFixture(t)
	player, err := f.svc.AddPlayer(context.Background(), AddPlayerInput{
		Name:        "Rahane",
		SoldAmount:  750,
		Rating:      70,
		TeamBought:  models.TeamUnsold,
		Role:        models.RoleBatter,
		Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, player.SoldAmount)
	assert.Equal(t, models.TeamUnsold, player.TeamBought)
	assert.False(t, player.Sold())
}

// Walks the full scenario: add, modify up, reject over-budget modify,
// delete restores the original budget.
func TestPlayerLifecycle_BudgetConsistency(t *testing.T) {
	t.Parallel()

	f := newPlayerServiceFixture(t, models.Team{Name: "CSK", Budget: 10000})
	ctx := context.Background()

	player, err := f.svc.AddPlayer(ctx, AddPlayerInput{
		Name:        "Kohli",
		SoldAmount:  1500,
		Rating:      95,
		TeamBought:  "CSK",
		Role:        models.RoleBatter,
		Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)
	assert.Equal(t, 8500, f.remaining(t, "CSK"))

	_, err = f.svc.ModifyPlayer(ctx, player.ID, ModifyPlayerInput{
		Name:        "Kohli",
		SoldAmount:  2000,
		Rating:      95,
		TeamBought:  "CSK",
		Role:        models.RoleBatter,
		Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)
	assert.Equal(t, 8000, f.remaining(t, "CSK"))

	// Only 8000 remains, so asking 9000 is rejected even though the ledger
	// delta would be 7000.
	_, err = f.svc.ModifyPlayer(ctx, player.ID, ModifyPlayerInput{
		Name:        "Kohli",
		SoldAmount:  9000,
		Rating:      95,
		TeamBought:  "CSK",
		Role:        models.RoleBatter,
		Nationality: models.NationalityIndian,
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 8000, f.remaining(t, "CSK"), "rejected modify must not touch the budget")

	require.NoError(t, f.svc.DeletePlayer(ctx, player.ID))
	assert.Equal(t, 10000, f.remaining(t, "CSK"), "delete must credit the full amount back")
}

func TestAddPlayer_InsufficientFunds(t *testing.T) {
	t.Parallel()

	f := newPlayerServiceFixture(t, models.Team{Name: "CSK", Budget: 1000})
	ctx := context.Background()

	_, err := f.svc.AddPlayer(ctx, AddPlayerInput{
		Name:        "Dhoni",
		SoldAmount:  1001,
		Rating:      90,
		TeamBought:  "CSK",
		Role:        models.RoleWicketkeeper,
		Nationality: models.NationalityIndian,
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 1000, f.remaining(t, "CSK"))

	// Exactly the remaining budget is allowed.
	_, err = f.svc.AddPlayer(ctx, AddPlayerInput{
		Name:        "Dhoni",
		SoldAmount:  1000,
		Rating:      90,
		TeamBought:  "CSK",
		Role:        models.RoleWicketkeeper,
		Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.remaining(t, "CSK"))
}

func TestModifyPlayer_SameTeamChecksFullNewAmount(t *testing.T) {
	t.Parallel()

	f := newPlayerServiceFixture(t, models.Team{Name: "MI", Budget: 1000})
	ctx := context.Background()

	player, err := f.svc.AddPlayer(ctx, AddPlayerInput{
		Name:        "Bumrah",
		SoldAmount:  600,
		Rating:      88,
		TeamBought:  "MI",
		Role:        models.RoleBowler,
		Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)
	require.Equal(t, 400, f.remaining(t, "MI"))

	// Re-pricing to 500 fits inside the 400+delta, but the rule checks the
	// whole asking price against the pre-mutation remaining budget.
	_, err = f.svc.ModifyPlayer(ctx, player.ID, ModifyPlayerInput{
		Name:        "Bumrah",
		SoldAmount:  500,
		Rating:      88,
		TeamBought:  "MI",
		Role:        models.RoleBowler,
		Nationality: models.NationalityIndian,
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 400, f.remaining(t, "MI"))

	// Within the remaining budget the delta applies cleanly.
	_, err = f.svc.ModifyPlayer(ctx, player.ID, ModifyPlayerInput{
		Name:        "Bumrah",
		SoldAmount:  400,
		Rating:      88,
		TeamBought:  "MI",
		Role:        models.RoleBowler,
		Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)
	assert.Equal(t, 600, f.remaining(t, "MI"))
}

func TestModifyPlayer_ReassignmentMovesFunds(t *testing.T) {
	t.Parallel()

	f := newPlayerServiceFixture(t,
		models.Team{Name: "CSK", Budget: 5000},
		models.Team{Name: "RCB", Budget: 7000},
	)
	ctx := context.Background()

	player, err := f.svc.AddPlayer(ctx, AddPlayerInput{
		Name:        "Jadeja",
		SoldAmount:  500,
		Rating:      85,
		TeamBought:  "CSK",
		Role:        models.RoleAllrounder,
		Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)
	require.Equal(t, 4500, f.remaining(t, "CSK"))

	updated, err := f.svc.ModifyPlayer(ctx, player.ID, ModifyPlayerInput{
		Name:        "Jadeja",
		SoldAmount:  500,
		Rating:      85,
		TeamBought:  "RCB",
		Role:        models.RoleAllrounder,
		Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)
	assert.Equal(t, "RCB", updated.TeamBought)

	// 500 credited back to CSK, 500 debited from RCB; the combined
	// initial-minus-spend identity is preserved.
	assert.Equal(t, 5000, f.remaining(t, "CSK"))
	assert.Equal(t, 6500, f.remaining(t, "RCB"))
	assert.Equal(t, 5000+7000-500, f.remaining(t, "CSK")+f.remaining(t, "RCB"))
}

func TestModifyPlayer_ReassignToUnsoldCreditsBack(t *testing.T) {
	t.Parallel()

	f := newPlayerServiceFixture(t, models.Team{Name: "KKR", Budget: 3000})
	ctx := context.Background()

	player, err := f.svc.AddPlayer(ctx, AddPlayerInput{
		Name:        "Russell",
		SoldAmount:  1200,
		Rating:      80,
		TeamBought:  "KKR",
		Role:        models.RoleAllrounder,
		Nationality: models.NationalityForeign,
	})
	require.NoError(t, err)
	require.Equal(t, 1800, f.remaining(t, "KKR"))

	updated, err := f.svc.ModifyPlayer(ctx, player.ID, ModifyPlayerInput{
		Name:        "Russell",
		SoldAmount:  1200,
		Rating:      80,
		TeamBought:  models.TeamUnsold,
		Role:        models.RoleAllrounder,
		Nationality: models.NationalityForeign,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.SoldAmount, "unsold players carry no price")
	assert.Equal(t, 3000, f.remaining(t, "KKR"))
}

func TestModifyPlayer_RatingOnlyChangeIsBudgetNeutral(t *testing.T) {
	t.Parallel()

	f := newPlayerServiceFixture(t, models.Team{Name: "GT", Budget: 4000})
	ctx := context.Background()

	player, err := f.svc.AddPlayer(ctx, AddPlayerInput{
		Name:        "Gill",
		SoldAmount:  800,
		Rating:      70,
		TeamBought:  "GT",
		Role:        models.RoleBatter,
		Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)
	before := f.remaining(t, "GT")

	_, err = f.svc.ModifyPlayer(ctx, player.ID, ModifyPlayerInput{
		Name:        "Gill",
		SoldAmount:  800,
		Rating:      92,
		TeamBought:  "GT",
		Role:        models.RoleWicketkeeper,
		Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)
	assert.Equal(t, before, f.remaining(t, "GT"))
}

func TestModifyPlayer_NotFound(t *testing.T) {
	t.Parallel()

	f := newPlayerServiceFixture(t, models.Team{Name: "CSK", Budget: 10000})
	_, err := f.svc.ModifyPlayer(context.Background(), 42, ModifyPlayerInput{
		Name:        "Ghost",
		SoldAmount:  0,
		Rating:      10,
		TeamBought:  models.TeamUnsold,
		Role:        models.RoleBatter,
		Nationality: models.NationalityIndian,
	})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestDeletePlayer_NotFound(t *testing.T) {
	t.Parallel()

	f := newPlayerServiceFixture(t)
	err := f.svc.DeletePlayer(context.Background(), 7)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestAddPlayer_DuplicateNamesGetDistinctIDs(t *testing.T) {
	t.Parallel()

	f := newPlayerServiceFixture(t,
		models.Team{Name: "CSK", Budget: 10000},
		models.Team{Name: "RCB", Budget: 10000},
	)
	ctx := context.Background()

	first, err := f.svc.AddPlayer(ctx, AddPlayerInput{
		Name: "Virat", SoldAmount: 100, Rating: 60, TeamBought: "CSK",
		Role: models.RoleBatter, Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)

	second, err := f.svc.AddPlayer(ctx, AddPlayerInput{
		Name: "Virat", SoldAmount: 200, Rating: 65, TeamBought: "RCB",
		Role: models.RoleBatter, Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	// Name search resolves to the oldest id; the ambiguity is why
	// mutations are keyed by id.
	found, err := f.svc.FindPlayerByName(ctx, "Virat")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestDeletePlayer_IDsNotReused(t *testing.T) {
	t.Parallel()

	f := newPlayerServiceFixture(t)
	ctx := context.Background()

	first, err := f.svc.AddPlayer(ctx, AddPlayerInput{
		Name: "One", SoldAmount: 0, Rating: 10, TeamBought: models.TeamUnsold,
		Role: models.RoleBowler, Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeletePlayer(ctx, first.ID))

	second, err := f.svc.AddPlayer(ctx, AddPlayerInput{
		Name: "Two", SoldAmount: 0, Rating: 10, TeamBought: models.TeamUnsold,
		Role: models.RoleBowler, Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestTickerItems(t *testing.T) {
	t.Parallel()

	f := newPlayerServiceFixture(t, models.Team{Name: "MI", Budget: 10000})
	ctx := context.Background()

	_, err := f.svc.AddPlayer(ctx, AddPlayerInput{
		Name: "Bumrah", SoldAmount: 900, Rating: 88, TeamBought: "MI",
		Role: models.RoleBowler, Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)
	_, err = f.svc.AddPlayer(ctx, AddPlayerInput{
		Name: "Boult", SoldAmount: 500, Rating: 70, TeamBought: "MI",
		Role: models.RoleBowler, Nationality: models.NationalityForeign,
	})
	require.NoError(t, err)
	_, err = f.svc.AddPlayer(ctx, AddPlayerInput{
		Name: "Benchy", SoldAmount: 0, Rating: 40, TeamBought: models.TeamUnsold,
		Role: models.RoleBatter, Nationality: models.NationalityIndian,
	})
	require.NoError(t, err)

	items, err := f.svc.TickerItems(ctx)
	require.NoError(t, err)

	// Unsold players never appear; latest sale first; foreign players get
	// the plane marker; the team rating is the roster total.
	require.Len(t, items, 2)
	assert.Equal(t, "Boult ✈️ (70) | MI (158)", items[0])
	assert.Equal(t, "Bumrah (88) | MI (158)", items[1])
}

func TestAddPlayer_StorageFailureLeavesNoTrace(t *testing.T) {
	t.Parallel()

	teamRepo := newFakeTeamRepo()
	require.NoError(t, teamRepo.Create(context.Background(), nil, &models.Team{Name: "CSK", Budget: 10000}))
	playerRepo := newFakePlayerRepo()
	svc := NewPlayerService(playerRepo, teamRepo, &fakeTxRunner{err: assert.AnError}, nil)

	_, err := svc.AddPlayer(context.Background(), AddPlayerInput{
		Name: "Kohli", SoldAmount: 1500, Rating: 95, TeamBought: "CSK",
		Role: models.RoleBatter, Nationality: models.NationalityIndian,
	})
	require.Error(t, err)
	assert.Empty(t, playerRepo.players)
}
