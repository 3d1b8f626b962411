package subscription

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/launchbase/launchbase/internal/models"
	"github.com/uptrace/bun"
)

type Repository interface {
	InitializeDatabase(ctx context.Context) error
	// WithDB returns a repository bound to the given connection or ambient
	// transaction handle.
	WithDB(idb bun.IDB) Repository
	FindLatestByTeam(ctx context.Context, teamID uuid.UUID) (*models.SubscriptionDB, error)
	FindByTeamIDs(ctx context.Context, teamIDs []uuid.UUID) ([]*models.SubscriptionDB, error)
	Insert(ctx context.Context, row *models.SubscriptionDB) error
	Update(ctx context.Context, row *models.SubscriptionDB) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SubscriptionRepository struct {
	db bun.IDB
}

func NewSubscriptionRepository(db bun.IDB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) WithDB(idb bun.IDB) Repository {
	return &SubscriptionRepository{db: idb}
}

func (r *SubscriptionRepository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.SubscriptionDB)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.SubscriptionDB)(nil)).
		Index("idx_subscriptions_team_id").
		Column("team_id").
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *SubscriptionRepository) FindLatestByTeam(ctx context.Context, teamID uuid.UUID) (*models.SubscriptionDB, error) {
	row := new(models.SubscriptionDB)
	err := r.db.NewSelect().
		Model(row).
		Where("team_id = ?", teamID).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *SubscriptionRepository) FindByTeamIDs(ctx context.Context, teamIDs []uuid.UUID) ([]*models.SubscriptionDB, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	var rows []*models.SubscriptionDB
	err := r.db.NewSelect().
		Model(&rows).
		Where("team_id IN (?)", bun.In(teamIDs)).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SubscriptionRepository) Insert(ctx context.Context, row *models.SubscriptionDB) error {
	row.CreatedAt = time.Now()
	row.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(row).Exec(ctx)
	return err
}

func (r *SubscriptionRepository) Update(ctx context.Context, row *models.SubscriptionDB) error {
	row.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(row).
		WherePK().
		Exec(ctx)
	return err
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*models.SubscriptionDB)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
