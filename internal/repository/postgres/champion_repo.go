package postgres

import (
	"context"
	"strings"

	"github.com/dom/league-rest-explorer/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type championRepository struct {
	db *gorm.DB
}

func NewChampionRepository(db *gorm.DB) *championRepository {
	return &championRepository{db: db}
}

func (r *championRepository) Upsert(ctx context.Context, champion *domain.Champion) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(champion).Error
}

func (r *championRepository) UpsertMany(ctx context.Context, champions []*domain.Champion) error {
	if len(champions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).CreateInBatches(champions, 100).Error
}

func (r *championRepository) GetAll(ctx context.Context) ([]*domain.Champion, error) {
	var champions []*domain.Champion
	err := r.db.WithContext(ctx).Order("name ASC").Find(&champions).Error
	if err != nil {
		return nil, err
	}
	return champions, nil
}

func (r *championRepository) GetByID(ctx context.Context, id string) (*domain.Champion, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *championRepository) GetByKey(ctx context.Context, key string) (*domain.Champion, error) {
	return r.first(ctx, "key = ?", key)
}

func (r *championRepository) GetByName(ctx context.Context, name string) (*domain.Champion, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	return r.first(ctx, "LOWER(name) = ? OR LOWER(id) = ?", n, n)
}

func (r *championRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Champion{}).Count(&n).Error
	return n, err
}

func (r *championRepository) first(ctx context.Context, query string, args ...any) (*domain.Champion, error) {
	var champion domain.Champion
	err := r.db.WithContext(ctx).Where(query, args...).First(&champion).Error
	if err != nil {
		return nil, err
	}
	return &champion, nil
}
