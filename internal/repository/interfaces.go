package repository

import (
	"context"

	"github.com/dom/league-rest-explorer/internal/domain"
)

type ChampionRepository interface {
	Upsert(ctx context.Context, champion *domain.Champion) error
	UpsertMany(ctx context.Context, champions []*domain.Champion) error
	GetAll(ctx context.Context) ([]*domain.Champion, error)
	GetByID(ctx context.Context, id string) (*domain.Champion, error)
	GetByKey(ctx context.Context, key string) (*domain.Champion, error)
	// GetByName matches the display name or the Data Dragon ID, ignoring case.
	GetByName(ctx context.Context, name string) (*domain.Champion, error)
	Count(ctx context.Context) (int64, error)
}

type Repositories struct {
	Champion ChampionRepository
}
