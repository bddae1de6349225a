package services

import (
	"context"
	"sort"

	"github.com/ecell-auctions/auction-system/models"
	"github.com/ecell-auctions/auction-system/repositories"
)

// In-memory doubles for the Postgres repositories. The id counter is
// monotonic and never reused, matching the sequence-backed column.

type fakeTxRunner struct {
	err error // when set, simulates a storage failure before commit
}

func (r *fakeTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	if r.err != nil {
		return r.err
	}
	return fn(nil)
}

type fakeTeamRepo struct {
	teams map[string]models.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[string]models.Team)}
}

func (r *fakeTeamRepo) Create(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	if _, exists := r.teams[team.Name]; exists {
		return repositories.ErrTeamNameConflict
	}
	r.teams[team.Name] = *team
	return nil
}

func (r *fakeTeamRepo) GetByName(_ context.Context, _ repositories.SQLExecutor, name string) (*models.Team, error) {
	team, ok := r.teams[name]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := team
	return &copied, nil
}

func (r *fakeTeamRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]models.Team, error) {
	names := make([]string, 0, len(r.teams))
	for name := range r.teams {
		names = append(names, name)
	}
	// name ASC, like the SQL query
	sort.Strings(names)
	teams := make([]models.Team, 0, len(names))
	for _, name := range names {
		teams = append(teams, r.teams[name])
	}
	return teams, nil
}

func (r *fakeTeamRepo) DeleteAll(_ context.Context, _ repositories.SQLExecutor) error {
	r.teams = make(map[string]models.Team)
	return nil
}

type fakePlayerRepo struct {
	players []models.Player
	nextID  int
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{nextID: 1}
}

func (r *fakePlayerRepo) Create(_ context.Context, _ repositories.SQLExecutor, player *models.Player) error {
	player.ID = r.nextID
	r.nextID++
	r.players = append(r.players, *player)
	return nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Player, error) {
	for _, p := range r.players {
		if p.ID == id {
			copied := p
			return &copied, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) FirstByName(_ context.Context, _ repositories.SQLExecutor, name string) (*models.Player, error) {
	var found *models.Player
	for i := range r.players {
		if r.players[i].Name == name {
			if found == nil || r.players[i].ID < found.ID {
				found = &r.players[i]
			}
		}
	}
	if found == nil {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := *found
	return &copied, nil
}

func (r *fakePlayerRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]models.Player, error) {
	players := make([]models.Player, len(r.players))
	copy(players, r.players)
	// id DESC, like the SQL query
	sort.Slice(players, func(i, j int) bool { return players[i].ID > players[j].ID })
	return players, nil
}

func (r *fakePlayerRepo) ListByTeam(_ context.Context, _ repositories.SQLExecutor, team string) ([]models.Player, error) {
	players := make([]models.Player, 0)
	for i := len(r.players) - 1; i >= 0; i-- {
		if r.players[i].TeamBought == team {
			players = append(players, r.players[i])
		}
	}
	return players, nil
}

func (r *fakePlayerRepo) ListUnsold(ctx context.Context, exec repositories.SQLExecutor) ([]models.Player, error) {
	return r.ListByTeam(ctx, exec, models.TeamUnsold)
}

func (r *fakePlayerRepo) SpentByTeam(_ context.Context, _ repositories.SQLExecutor, team string) (int, error) {
	spent := 0
	for _, p := range r.players {
		if p.TeamBought == team {
			spent += p.SoldAmount
		}
	}
	return spent, nil
}

func (r *fakePlayerRepo) RatingByTeam(_ context.Context, _ repositories.SQLExecutor, team string) (int, error) {
	rating := 0
	for _, p := range r.players {
		if p.TeamBought == team {
			rating += p.Rating
		}
	}
	return rating, nil
}

func (r *fakePlayerRepo) Update(_ context.Context, _ repositories.SQLExecutor, player *models.Player) error {
	for i := range r.players {
		if r.players[i].ID == player.ID {
			r.players[i] = *player
			return nil
		}
	}
	return repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	for i := range r.players {
		if r.players[i].ID == id {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return nil
		}
	}
	return repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) DeleteAll(_ context.Context, _ repositories.SQLExecutor) error {
	r.players = nil
	return nil
}
