package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/launchbase/launchbase/internal/billing"
	"github.com/launchbase/launchbase/internal/catalog"
	"github.com/launchbase/launchbase/internal/config"
	"github.com/launchbase/launchbase/internal/logger"
	"github.com/launchbase/launchbase/internal/models"
	"github.com/launchbase/launchbase/internal/team"
	"github.com/uptrace/bun"
)

// Service orchestrates a team's subscription lifecycle against the billing
// gateway while keeping the local subscription row consistent with gateway
// truth. Every flow is a sequential request-scoped sequence; there are no
// automatic retries. The gateway wins every race: local state reflects
// whichever process persists last.
type Service struct {
	catalog         *catalog.Catalog
	gateway         billing.Gateway
	subs            Repository
	teams           team.Repository
	trialDays       int64
	cancelProration bool
	log             *slog.Logger
	now             func() time.Time
}

func NewService(c *catalog.Catalog, gw billing.Gateway, subs Repository, teams team.Repository, cfg *config.Config) *Service {
	return &Service{
		catalog:         c,
		gateway:         gw,
		subs:            subs,
		teams:           teams,
		trialDays:       int64(cfg.TrialPeriodDays),
		cancelProration: cfg.CancelProration,
		log:             logger.Log,
		now:             time.Now,
	}
}

// repo returns the subscription repository bound to the ambient transaction
// handle, or the base connection when idb is nil.
func (s *Service) repo(idb bun.IDB) Repository {
	if idb == nil {
		return s.subs
	}
	return s.subs.WithDB(idb)
}

// PaymentDetails is the validated card-and-address input for
// AttachPaymentMethod.
type PaymentDetails struct {
	PaymentMethodID string
	NameOnCard      string
	Line1           string
	Line2           string
	City            string
	State           string
	PostalCode      string
	Country         string
}

// AttachPaymentMethod creates or updates the remote customer for the team and
// makes the given payment method its default. The customer-id write is a
// deliberate non-transactional step: it commits on the base connection so the
// gateway-assigned identity survives even if a surrounding transaction later
// rolls back.
func (s *Service) AttachPaymentMethod(ctx context.Context, t *models.Team, u *models.User, d PaymentDetails) error {
	params := billing.CustomerParams{
		Email:      u.Email,
		Name:       d.NameOnCard,
		TeamID:     t.ID.String(),
		Line1:      d.Line1,
		Line2:      d.Line2,
		City:       d.City,
		State:      d.State,
		PostalCode: d.PostalCode,
		Country:    d.Country,
	}

	if t.BillingCustomerID == nil {
		customerID, err := s.gateway.CreateCustomer(ctx, params)
		if err != nil {
			return err
		}
		if err := s.teams.UpdateBillingCustomerID(ctx, t.ID, customerID); err != nil {
			return fmt.Errorf("failed to persist customer id for team %s: %w", t.ID, err)
		}
		t.BillingCustomerID = &customerID
		s.log.Info("created billing customer", "team_id", t.ID, "customer_id", customerID)
	} else {
		if err := s.gateway.UpdateCustomer(ctx, *t.BillingCustomerID, params); err != nil {
			return err
		}
	}

	if err := s.gateway.AttachPaymentMethod(ctx, *t.BillingCustomerID, d.PaymentMethodID); err != nil {
		return err
	}
	return s.gateway.SetDefaultPaymentMethod(ctx, *t.BillingCustomerID, d.PaymentMethodID)
}

// CreateParams is the validated input to Create and Retry.
type CreateParams struct {
	ProductID string
	PriceID   string
	CouponID  string
	Country   string
	State     string
}

// CreateResult pairs the persisted subscription with the payment client
// secret the caller needs for 3-D-Secure confirmation.
type CreateResult struct {
	Subscription        *models.Subscription
	PaymentClientSecret string
}

// Create starts a remote subscription for the team and persists the local
// row after the gateway confirms. A card decline surfaces as a
// KindPaymentDeclined error; all other gateway failures pass through
// unchanged.
func (s *Service) Create(ctx context.Context, idb bun.IDB, t *models.Team, p CreateParams) (*CreateResult, error) {
	customerID, err := s.customerID(t)
	if err != nil {
		return nil, err
	}

	product := s.catalog.ProductByID(p.ProductID)
	if product == nil {
		return nil, billing.NotFound("product %s not in catalog", p.ProductID)
	}
	price := product.PriceByID(p.PriceID)
	if price == nil {
		return nil, billing.NotFound("price %s not in catalog for product %s", p.PriceID, p.ProductID)
	}

	taxes := s.catalog.TaxesForAddress(p.Country, p.State)
	taxIDs := make([]string, 0, len(taxes))
	for _, tax := range taxes {
		taxIDs = append(taxIDs, tax.ID)
	}

	remote, err := s.gateway.CreateSubscription(ctx, billing.SubscriptionParams{
		CustomerID: customerID,
		PriceID:    price.ID,
		TaxRateIDs: taxIDs,
		CouponID:   p.CouponID,
		TrialDays:  s.trialDays,
	})
	if err != nil {
		return nil, err
	}

	preview, err := s.gateway.UpcomingInvoice(ctx, billing.PreviewParams{CustomerID: customerID})
	if err != nil {
		return nil, err
	}

	row := &models.SubscriptionDB{
		ID:               uuid.New(),
		TeamID:           t.ID,
		RemoteID:         remote.ID,
		RemoteItemID:     remote.ItemID,
		Status:           remote.Status,
		ProductID:        product.ID,
		PriceID:          price.ID,
		TaxIDs:           taxIDs,
		TrialEndsAt:      remote.TrialEnd,
		NextBillingDate:  remote.CurrentPeriodEnd,
		NextInvoiceTotal: preview.Total,
	}
	if p.CouponID != "" {
		row.CouponID = &p.CouponID
	}
	if err := s.repo(idb).Insert(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to persist subscription for team %s: %w", t.ID, err)
	}

	s.log.Info("created subscription",
		"team_id", t.ID, "subscription_id", remote.ID, "price_id", price.ID, "status", remote.Status)

	return &CreateResult{
		Subscription:        s.hydrate(row),
		PaymentClientSecret: remote.PaymentClientSecret,
	}, nil
}

// Retry discards a subscription left incomplete by a failed create and starts
// over: the old remote subscription is canceled and its local row deleted
// before a fresh create runs. The old row is never patched.
func (s *Service) Retry(ctx context.Context, idb bun.IDB, t *models.Team, p CreateParams) (*CreateResult, error) {
	row, err := s.repo(idb).FindLatestByTeam(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, billing.NotFound("no subscription to retry for team %s", t.ID)
	}

	if err := s.gateway.CancelSubscription(ctx, row.RemoteID, false); err != nil {
		return nil, err
	}
	if err := s.repo(idb).Delete(ctx, row.ID); err != nil {
		return nil, fmt.Errorf("failed to delete subscription %s: %w", row.ID, err)
	}

	s.log.Info("discarded incomplete subscription", "team_id", t.ID, "subscription_id", row.RemoteID)

	return s.Create(ctx, idb, t, p)
}

// FindUpdated loads the team's most recent subscription and lazily refreshes
// it from the gateway when the cached row is stale. Two immediate calls with
// no gateway period change perform exactly one remote refresh.
func (s *Service) FindUpdated(ctx context.Context, idb bun.IDB, t *models.Team) (*models.Subscription, error) {
	row, err := s.repo(idb).FindLatestByTeam(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}

	sub := s.hydrate(row)
	if !sub.ShouldUpdate(s.now()) {
		return sub, nil
	}

	customerID, err := s.customerID(t)
	if err != nil {
		return nil, err
	}
	remote, err := s.gateway.RetrieveSubscription(ctx, row.RemoteID)
	if err != nil {
		return nil, err
	}
	preview, err := s.gateway.UpcomingInvoice(ctx, billing.PreviewParams{CustomerID: customerID})
	if err != nil {
		return nil, err
	}

	row.Status = remote.Status
	row.NextBillingDate = remote.CurrentPeriodEnd
	row.NextInvoiceTotal = preview.Total
	if err := s.repo(idb).Update(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to refresh subscription %s: %w", row.ID, err)
	}

	s.log.Info("refreshed subscription from gateway",
		"team_id", t.ID, "subscription_id", row.RemoteID, "status", row.Status)

	return s.hydrate(row), nil
}

// Change commits a price change on the remote subscription (the gateway
// applies its own proration) and persists the updated totals onto the same
// local row.
func (s *Service) Change(ctx context.Context, idb bun.IDB, t *models.Team, sub *models.Subscription, productID, priceID string) (*models.Subscription, error) {
	product := s.catalog.ProductByID(productID)
	if product == nil {
		return nil, billing.NotFound("product %s not in catalog", productID)
	}
	if product.PriceByID(priceID) == nil {
		return nil, billing.NotFound("price %s not in catalog for product %s", priceID, productID)
	}
	customerID, err := s.customerID(t)
	if err != nil {
		return nil, err
	}

	remote, err := s.gateway.UpdateSubscriptionPrice(ctx, sub.RemoteID, sub.RemoteItemID, priceID)
	if err != nil {
		return nil, err
	}
	preview, err := s.gateway.UpcomingInvoice(ctx, billing.PreviewParams{CustomerID: customerID})
	if err != nil {
		return nil, err
	}

	row, err := s.repo(idb).FindLatestByTeam(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, billing.NotFound("no subscription row for team %s", t.ID)
	}
	row.ProductID = productID
	row.PriceID = priceID
	row.Status = remote.Status
	row.NextBillingDate = remote.CurrentPeriodEnd
	row.NextInvoiceTotal = preview.Total
	if err := s.repo(idb).Update(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to persist price change for team %s: %w", t.ID, err)
	}

	s.log.Info("changed subscription price",
		"team_id", t.ID, "subscription_id", sub.RemoteID, "price_id", priceID)

	return s.hydrate(row), nil
}

// Cancel ends the team's subscription remotely and hard-deletes the local
// row. A missing row is a contract violation by the caller, not a user-facing
// condition.
func (s *Service) Cancel(ctx context.Context, idb bun.IDB, t *models.Team) error {
	row, err := s.repo(idb).FindLatestByTeam(ctx, t.ID)
	if err != nil {
		return err
	}
	if row == nil {
		return billing.NotFound("cancel called with no subscription for team %s", t.ID)
	}

	if err := s.gateway.CancelSubscription(ctx, row.RemoteID, s.cancelProration); err != nil {
		return err
	}
	if err := s.repo(idb).Delete(ctx, row.ID); err != nil {
		return fmt.Errorf("failed to delete subscription %s: %w", row.ID, err)
	}

	s.log.Info("canceled subscription", "team_id", t.ID, "subscription_id", row.RemoteID)
	return nil
}

// GetCoupon resolves a coupon for the team's billing currency. A currency
// mismatch is classified distinctly but callers surface it exactly like a
// miss. The redemption-count check needs a live gateway round-trip; it is not
// answerable from catalog config alone.
func (s *Service) GetCoupon(ctx context.Context, t *models.Team, id string) (*models.Coupon, error) {
	c := s.catalog.CouponByID(id)
	if c == nil {
		return nil, billing.NotFound("coupon %s not in catalog", id)
	}
	if c.Currency != "" && c.Currency != strings.ToUpper(t.BillingCurrency) {
		return nil, billing.CurrencyMismatch(id, c.Currency, t.BillingCurrency)
	}

	now := s.now()
	if c.RedeemBy != nil && now.After(*c.RedeemBy) {
		return nil, billing.Expired("coupon %s expired at %s", id, c.RedeemBy.Format(time.RFC3339))
	}
	if c.MaxRedemptions > 0 {
		timesRedeemed, err := s.gateway.RetrieveCouponRedemptions(ctx, id)
		if err != nil {
			return nil, err
		}
		if !c.Usable(now, timesRedeemed) {
			return nil, billing.Expired("coupon %s redemptions exhausted (%d/%d)", id, timesRedeemed, c.MaxRedemptions)
		}
	}
	return c, nil
}

// GetInvoices lists the team's finalized invoices from the gateway.
func (s *Service) GetInvoices(ctx context.Context, t *models.Team) ([]*billing.Invoice, error) {
	customerID, err := s.customerID(t)
	if err != nil {
		return nil, err
	}
	return s.gateway.ListInvoices(ctx, customerID)
}

// AttachToTeams joins each team's most recent subscription onto the aggregate
// in one query. Pure local read, no gateway calls.
func (s *Service) AttachToTeams(ctx context.Context, idb bun.IDB, teams []*models.Team) error {
	ids := make([]uuid.UUID, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	byTeam, err := s.latestByTeam(ctx, idb, ids)
	if err != nil {
		return err
	}
	for _, t := range teams {
		if row, ok := byTeam[t.ID]; ok {
			t.Subscription = s.hydrate(row)
		}
	}
	return nil
}

// AttachToUsers joins each user's team subscription onto the aggregate.
func (s *Service) AttachToUsers(ctx context.Context, idb bun.IDB, users []*models.User) error {
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.TeamID)
	}
	byTeam, err := s.latestByTeam(ctx, idb, ids)
	if err != nil {
		return err
	}
	for _, u := range users {
		if row, ok := byTeam[u.TeamID]; ok {
			u.Subscription = s.hydrate(row)
		}
	}
	return nil
}

func (s *Service) latestByTeam(ctx context.Context, idb bun.IDB, teamIDs []uuid.UUID) (map[uuid.UUID]*models.SubscriptionDB, error) {
	rows, err := s.repo(idb).FindByTeamIDs(ctx, teamIDs)
	if err != nil {
		return nil, err
	}
	byTeam := make(map[uuid.UUID]*models.SubscriptionDB, len(rows))
	for _, row := range rows {
		// Rows are ordered newest first; keep the first per team.
		if _, ok := byTeam[row.TeamID]; !ok {
			byTeam[row.TeamID] = row
		}
	}
	return byTeam, nil
}

func (s *Service) customerID(t *models.Team) (string, error) {
	if t.BillingCustomerID == nil {
		return "", fmt.Errorf("team %s has no billing customer", t.ID)
	}
	return *t.BillingCustomerID, nil
}

// hydrate joins the persisted row with catalog entries by id. Entries that
// have left the catalog stay nil on the domain object.
func (s *Service) hydrate(row *models.SubscriptionDB) *models.Subscription {
	sub := &models.Subscription{
		ID:               row.ID,
		TeamID:           row.TeamID,
		RemoteID:         row.RemoteID,
		RemoteItemID:     row.RemoteItemID,
		Status:           row.Status,
		Product:          s.catalog.ProductByID(row.ProductID),
		Price:            s.catalog.PriceByID(row.PriceID),
		TrialEndsAt:      row.TrialEndsAt,
		NextBillingDate:  row.NextBillingDate,
		NextInvoiceTotal: row.NextInvoiceTotal,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	for _, taxID := range row.TaxIDs {
		if tax := s.catalog.TaxByID(taxID); tax != nil {
			sub.Taxes = append(sub.Taxes, tax)
		}
	}
	if row.CouponID != nil {
		sub.Coupon = s.catalog.CouponByID(*row.CouponID)
	}
	return sub
}
