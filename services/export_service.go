package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ecell-auctions/auction-system/models"
	"github.com/ecell-auctions/auction-system/repositories"
	"github.com/ecell-auctions/auction-system/storage"
	"golang.org/x/sync/errgroup"
)

const (
	exportPlayersFile = "players.csv"
	exportTeamsFile   = "teams.csv"
)

// ExportService renders a CSV snapshot of both ledger tables into the export
// directory served by the static file server, and uploads the same files to
// object storage when an uploader is configured. The snapshot is read-only
// output; it never feeds back into the ledger.
type ExportService interface {
	Export(ctx context.Context) error
}

type exportService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader // optional
	exportDir  string
	logger     *slog.Logger
}

func NewExportService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
	exportDir string,
	logger *slog.Logger,
) ExportService {
	return &exportService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		uploader:   uploader,
		exportDir:  exportDir,
		logger:     logger,
	}
}

func (s *exportService) Export(ctx context.Context) error {
	var teams []models.Team
	var players []models.Player

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.List(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		players, err = s.playerRepo.List(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	playersCSV, err := renderPlayersCSV(players)
	if err != nil {
		return err
	}
	teamsCSV, err := renderTeamsCSV(teams, players)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.exportDir, exportPlayersFile), playersCSV, 0o644); err != nil {
		return fmt.Errorf("failed to write players export: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.exportDir, exportTeamsFile), teamsCSV, 0o644); err != nil {
		return fmt.Errorf("failed to write teams export: %w", err)
	}

	if s.uploader != nil {
		if err := s.upload(ctx, exportPlayersFile, playersCSV); err != nil {
			return err
		}
		if err := s.upload(ctx, exportTeamsFile, teamsCSV); err != nil {
			return err
		}
	}

	s.logger.Info("snapshot exported",
		slog.Int("teams", len(teams)),
		slog.Int("players", len(players)),
	)
	return nil
}

func (s *exportService) upload(ctx context.Context, name string, data []byte) error {
	result, err := s.uploader.Upload(ctx, name, "text/csv", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}
	s.logger.Info("snapshot uploaded", slog.String("key", result.Key), slog.String("location", result.Location))
	return nil
}

func renderPlayersCSV(players []models.Player) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{{"id", "name", "sold_amount", "rating", "team_bought", "role", "nationality"}}
	for _, p := range players {
		records = append(records, []string{
			strconv.Itoa(p.ID),
			p.Name,
			strconv.Itoa(p.SoldAmount),
			strconv.Itoa(p.Rating),
			p.TeamBought,
			string(p.Role),
			string(p.Nationality),
		})
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to render players csv: %w", err)
	}
	return buf.Bytes(), nil
}

func renderTeamsCSV(teams []models.Team, players []models.Player) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{{"team", "budget", "remaining_budget", "rating"}}
	for _, t := range teams {
		records = append(records, []string{
			t.Name,
			strconv.Itoa(t.Budget),
			strconv.Itoa(remainingFromSnapshot(t, players)),
			strconv.Itoa(ratingFromSnapshot(t.Name, players)),
		})
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to render teams csv: %w", err)
	}
	return buf.Bytes(), nil
}
