package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ecell-auctions/auction-system/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	// FirstByName returns the player with the lowest id matching the exact
	// name. Names are not unique, so this is an operator search helper, not a
	// mutation key.
	FirstByName(ctx context.Context, exec SQLExecutor, name string) (*models.Player, error)
	List(ctx context.Context, exec SQLExecutor) ([]models.Player, error)
	ListByTeam(ctx context.Context, exec SQLExecutor, team string) ([]models.Player, error)
	ListUnsold(ctx context.Context, exec SQLExecutor) ([]models.Player, error)
	SpentByTeam(ctx context.Context, exec SQLExecutor, team string) (int, error)
	RatingByTeam(ctx context.Context, exec SQLExecutor, team string) (int, error)
	Update(ctx context.Context, exec SQLExecutor, player *models.Player) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const playerColumns = `id, name, sold_amount, rating, team_bought, role, nationality`

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	// Ids come from the sequence and are never reused, even after deletes.
	query := `
		INSERT INTO players (name, sold_amount, rating, team_bought, role, nationality)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		player.Name,
		player.SoldAmount,
		player.Rating,
		player.TeamBought,
		player.Role,
		player.Nationality,
	).Scan(&player.ID)
	if err != nil {
		return fmt.Errorf("failed to insert player %q: %w", player.Name, err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	return r.scanPlayer(ctx, exec, query, id)
}

func (r *postgresPlayerRepository) FirstByName(ctx context.Context, exec SQLExecutor, name string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE name = $1 ORDER BY id ASC LIMIT 1`
	return r.scanPlayer(ctx, exec, query, name)
}

func (r *postgresPlayerRepository) scanPlayer(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) (*models.Player, error) {
	var player models.Player
	err := r.getExecutor(exec).QueryRowContext(ctx, query, args...).Scan(
		&player.ID,
		&player.Name,
		&player.SoldAmount,
		&player.Rating,
		&player.TeamBought,
		&player.Role,
		&player.Nationality,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}
	return &player, nil
}

// List returns every player, newest sale first.
func (r *postgresPlayerRepository) List(ctx context.Context, exec SQLExecutor) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY id DESC`
	return r.listPlayers(ctx, exec, query)
}

func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, exec SQLExecutor, team string) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE team_bought = $1 ORDER BY id DESC`
	return r.listPlayers(ctx, exec, query, team)
}

func (r *postgresPlayerRepository) ListUnsold(ctx context.Context, exec SQLExecutor) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE team_bought = $1 ORDER BY id DESC`
	return r.listPlayers(ctx, exec, query, models.TeamUnsold)
}

func (r *postgresPlayerRepository) listPlayers(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]models.Player, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var player models.Player
		scanErr := rows.Scan(
			&player.ID,
			&player.Name,
			&player.SoldAmount,
			&player.Rating,
			&player.TeamBought,
			&player.Role,
			&player.Nationality,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", scanErr)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player rows: %w", err)
	}
	return players, nil
}

// SpentByTeam is the roster's total sold amount; the remaining budget is
// always the stored initial budget minus this value, recomputed per query.
func (r *postgresPlayerRepository) SpentByTeam(ctx context.Context, exec SQLExecutor, team string) (int, error) {
	query := `SELECT COALESCE(SUM(sold_amount), 0) FROM players WHERE team_bought = $1`

	var spent int
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, team).Scan(&spent); err != nil {
		return 0, fmt.Errorf("failed to sum spend for team %q: %w", team, err)
	}
	return spent, nil
}

func (r *postgresPlayerRepository) RatingByTeam(ctx context.Context, exec SQLExecutor, team string) (int, error) {
	query := `SELECT COALESCE(SUM(rating), 0) FROM players WHERE team_bought = $1`

	var rating int
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, team).Scan(&rating); err != nil {
		return 0, fmt.Errorf("failed to sum rating for team %q: %w", team, err)
	}
	return rating, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `
		UPDATE players SET
			name = $1,
			sold_amount = $2,
			rating = $3,
			team_bought = $4,
			role = $5,
			nationality = $6
		WHERE id = $7`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		player.Name,
		player.SoldAmount,
		player.Rating,
		player.TeamBought,
		player.Role,
		player.Nationality,
		player.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update player %d: %w", player.ID, err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (r *postgresPlayerRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	if _, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM players`); err != nil {
		return fmt.Errorf("failed to delete all players: %w", err)
	}
	return nil
}
