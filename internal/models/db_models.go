package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type SubscriptionDB struct {
	bun.BaseModel `bun:"table:subscriptions,alias:s"`

	ID               uuid.UUID          `bun:"id,pk,type:uuid" json:"id"`
	TeamID           uuid.UUID          `bun:"team_id,notnull,type:uuid" json:"team_id"`
	RemoteID         string             `bun:"remote_id,notnull" json:"remote_id"`
	RemoteItemID     string             `bun:"remote_item_id,notnull" json:"remote_item_id"`
	Status           SubscriptionStatus `bun:"status,notnull" json:"status"`
	ProductID        string             `bun:"product_id,notnull" json:"product_id"`
	PriceID          string             `bun:"price_id,notnull" json:"price_id"`
	TaxIDs           []string           `bun:"tax_ids,type:jsonb" json:"tax_ids"`
	CouponID         *string            `bun:"coupon_id" json:"coupon_id,omitempty"`
	TrialEndsAt      *time.Time         `bun:"trial_ends_at" json:"trial_ends_at,omitempty"`
	NextBillingDate  time.Time          `bun:"next_billing_date,notnull" json:"next_billing_date"`
	NextInvoiceTotal int64              `bun:"next_invoice_total,notnull" json:"next_invoice_total"`
	CreatedAt        time.Time          `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time          `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

type TeamDB struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID                uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name              string    `bun:"name,notnull" json:"name"`
	Slug              string    `bun:"slug,notnull,unique" json:"slug"`
	BillingCustomerID *string   `bun:"billing_customer_id" json:"billing_customer_id,omitempty"`
	BillingCurrency   string    `bun:"billing_currency,notnull" json:"billing_currency"`
	CreatedAt         time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (t *TeamDB) ToTeam() *Team {
	return &Team{
		ID:                t.ID,
		Name:              t.Name,
		Slug:              t.Slug,
		BillingCustomerID: t.BillingCustomerID,
		BillingCurrency:   t.BillingCurrency,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func TeamFromDomain(t *Team) *TeamDB {
	return &TeamDB{
		ID:                t.ID,
		Name:              t.Name,
		Slug:              t.Slug,
		BillingCustomerID: t.BillingCustomerID,
		BillingCurrency:   t.BillingCurrency,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}
