package team

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
	GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	Create(ctx context.Context, team *models.Team) error
	// UpdateBillingCustomerID persists the gateway-assigned customer id. It
	// always runs on the base connection, never on an ambient transaction, so
	// the link survives a rollback of the surrounding flow.
	UpdateBillingCustomerID(ctx context.Context, teamID uuid.UUID, customerID string) error
}

type TeamRepository struct {
	db *bun.DB
}

func NewTeamRepository(db *bun.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.TeamDB)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.TeamDB)(nil)).
		Index("idx_teams_billing_customer_id").
		Column("billing_customer_id").
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	teamDB := new(models.TeamDB)
	err := r.db.NewSelect().
		Model(teamDB).
		Where("id = ?", teamID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return teamDB.ToTeam(), nil
}

func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	teamDB := models.TeamFromDomain(team)
	teamDB.CreatedAt = time.Now()
	teamDB.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(teamDB).Exec(ctx)
	return err
}

func (r *TeamRepository) UpdateBillingCustomerID(ctx context.Context, teamID uuid.UUID, customerID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.TeamDB)(nil)).
		Set("billing_customer_id = ?", customerID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", teamID).
		Exec(ctx)
	return err
}
