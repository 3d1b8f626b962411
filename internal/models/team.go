package models

import (
	"time"

	"github.com/google/uuid"
)

// Team is the billing-owning aggregate. BillingCustomerID links it to the
// remote gateway customer; Subscription is attached by the subscription
// service, never persisted on the team row.
type Team struct {
	ID                uuid.UUID     `json:"id"`
	Name              string        `json:"name"`
	Slug              string        `json:"slug"`
	BillingCustomerID *string       `json:"billing_customer_id,omitempty"`
	BillingCurrency   string        `json:"billing_currency"`
	Subscription      *Subscription `json:"subscription,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

type User struct {
	ID           uuid.UUID     `json:"id"`
	TeamID       uuid.UUID     `json:"team_id"`
	Email        string        `json:"email"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Subscription *Subscription `json:"subscription,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
