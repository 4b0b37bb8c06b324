package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dom/league-rest-explorer/internal/ddragon"
	"github.com/dom/league-rest-explorer/internal/domain"
	"github.com/dom/league-rest-explorer/internal/repository"
	"go.uber.org/zap"
)

// LatestVersion asks the champion sync to use Data Dragon's newest release.
const LatestVersion = "latest"

// DataDragon is the subset of the CDN client the champion sync needs.
type DataDragon interface {
	Version() string
	Versions(ctx context.Context) ([]string, error)
	Champions(ctx context.Context, version string) (*ddragon.ChampionsResponse, error)
	ChampionImageURL(version, file string) string
}

type ChampionService struct {
	championRepo repository.ChampionRepository
	dd           DataDragon
	logger       *zap.Logger
}

func NewChampionService(championRepo repository.ChampionRepository, dd DataDragon, logger *zap.Logger) *ChampionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChampionService{
		championRepo: championRepo,
		dd:           dd,
		logger:       logger,
	}
}

func (s *ChampionService) GetAllChampions(ctx context.Context) ([]*domain.Champion, error) {
	return s.championRepo.GetAll(ctx)
}

func (s *ChampionService) GetChampion(ctx context.Context, id string) (*domain.Champion, error) {
	return s.championRepo.GetByID(ctx, id)
}

// SyncFromDataDragon copies the champion list of the configured version into
// the cache and returns how many rows were written.
func (s *ChampionService) SyncFromDataDragon(ctx context.Context) (int, string, error) {
	version, err := s.GetLatestVersion(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("failed to get latest version: %w", err)
	}

	resp, err := s.dd.Champions(ctx, version)
	if err != nil {
		return 0, "", err
	}

	now := time.Now()
	champions := make([]*domain.Champion, 0, len(resp.Data))
	for _, c := range resp.Data {
		tagsJSON, err := json.Marshal(c.Tags)
		if err != nil {
			return 0, "", fmt.Errorf("failed to encode tags for %s: %w", c.ID, err)
		}
		champions = append(champions, &domain.Champion{
			ID:           c.ID,
			Key:          c.Key,
			Name:         c.Name,
			Title:        c.Title,
			ImageURL:     s.dd.ChampionImageURL(version, c.Image.Full),
			Tags:         tagsJSON,
			Version:      version,
			LastSyncedAt: now,
		})
	}

	if err := s.championRepo.UpsertMany(ctx, champions); err != nil {
		return 0, "", fmt.Errorf("failed to upsert champions: %w", err)
	}

	return len(champions), version, nil
}

// SyncIfEmpty seeds an empty cache so the proxy can resolve champion names
// on first start.
func (s *ChampionService) SyncIfEmpty(ctx context.Context) error {
	n, err := s.championRepo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	count, version, err := s.SyncFromDataDragon(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("seeded champion cache", zap.Int("count", count), zap.String("version", version))
	return nil
}

func (s *ChampionService) GetLatestVersion(ctx context.Context) (string, error) {
	if v := s.dd.Version(); v != "" && v != LatestVersion {
		return v, nil
	}

	versions, err := s.dd.Versions(ctx)
	if err != nil {
		return "", err
	}
	return versions[0], nil
}
