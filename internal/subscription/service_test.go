package subscription

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/launchbase/launchbase/internal/billing"
	"github.com/launchbase/launchbase/internal/catalog"
	"github.com/launchbase/launchbase/internal/config"
	"github.com/launchbase/launchbase/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeSubRepo struct {
	mu   sync.Mutex
	seq  int
	rows map[uuid.UUID]*models.SubscriptionDB
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{rows: make(map[uuid.UUID]*models.SubscriptionDB)}
}

func (f *fakeSubRepo) InitializeDatabase(context.Context) error { return nil }
func (f *fakeSubRepo) WithDB(bun.IDB) Repository                { return f }

func (f *fakeSubRepo) FindLatestByTeam(_ context.Context, teamID uuid.UUID) (*models.SubscriptionDB, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *models.SubscriptionDB
	for _, row := range f.rows {
		if row.TeamID != teamID {
			continue
		}
		if latest == nil || row.CreatedAt.After(latest.CreatedAt) {
			latest = row
		}
	}
	return latest, nil
}

func (f *fakeSubRepo) FindByTeamIDs(_ context.Context, teamIDs []uuid.UUID) ([]*models.SubscriptionDB, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[uuid.UUID]bool, len(teamIDs))
	for _, id := range teamIDs {
		want[id] = true
	}
	var out []*models.SubscriptionDB
	for _, row := range f.rows {
		if want[row.TeamID] {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeSubRepo) Insert(_ context.Context, row *models.SubscriptionDB) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	row.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Second)
	row.UpdatedAt = row.CreatedAt
	f.rows[row.ID] = row
	return nil
}

func (f *fakeSubRepo) Update(_ context.Context, row *models.SubscriptionDB) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[row.ID]; !ok {
		return errors.New("row not found")
	}
	row.UpdatedAt = row.CreatedAt.Add(time.Minute)
	f.rows[row.ID] = row
	return nil
}

func (f *fakeSubRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

func (f *fakeSubRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func (f *fakeSubRepo) only() *models.SubscriptionDB {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		return row
	}
	return nil
}

type customerUpdate struct {
	teamID     uuid.UUID
	customerID string
}

type fakeTeamRepo struct {
	updates []customerUpdate
}

func (f *fakeTeamRepo) InitializeDatabase(context.Context) error { return nil }
func (f *fakeTeamRepo) GetByID(context.Context, uuid.UUID) (*models.Team, error) {
	return nil, nil
}
func (f *fakeTeamRepo) Create(context.Context, *models.Team) error { return nil }
func (f *fakeTeamRepo) UpdateBillingCustomerID(_ context.Context, teamID uuid.UUID, customerID string) error {
	f.updates = append(f.updates, customerUpdate{teamID: teamID, customerID: customerID})
	return nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func testCatalog() *catalog.Catalog {
	products := []*models.Product{
		{
			ID: "prod_simple", Name: "Simple", Active: true,
			Capabilities: []string{"projects"},
			Prices: []*models.Price{
				{ID: "price_simple_monthly", Active: true, UnitAmount: 1000, Currency: "usd", Interval: models.IntervalMonth, IntervalCount: 1},
			},
		},
		{
			ID: "prod_advanced", Name: "Advanced", Active: true,
			Capabilities: []string{"projects", "sso"},
			Prices: []*models.Price{
				{ID: "price_advanced_monthly", Active: true, UnitAmount: 2500, Currency: "usd", Interval: models.IntervalMonth, IntervalCount: 1},
			},
		},
	}
	redeemBy := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	coupons := []*models.Coupon{
		{ID: "coupon_half", Name: "Half Off", PercentOff: 50, Duration: models.CouponDurationForever},
		{ID: "coupon_eur", AmountOff: 500, Currency: "EUR", Duration: models.CouponDurationOnce},
		{ID: "coupon_limited", PercentOff: 10, Duration: models.CouponDurationOnce, MaxRedemptions: 50},
		{ID: "coupon_dated", PercentOff: 10, Duration: models.CouponDurationOnce, RedeemBy: &redeemBy},
	}
	taxes := []*models.Tax{
		{ID: "txr_de_vat", DisplayName: "VAT", Active: true, Country: "DE", Percentage: 0.19, DisplayPercent: 19},
		{ID: "txr_us_ca_sales", DisplayName: "Sales Tax", Active: true, Override: true, Country: "US", State: "CA", Percentage: 0.0725, DisplayPercent: 7.25},
	}
	return catalog.New("USD", products, taxes, coupons)
}

func testTeam() *models.Team {
	customerID := "cus_test_1"
	return &models.Team{
		ID:                uuid.New(),
		Name:              "Acme",
		Slug:              "acme",
		BillingCustomerID: &customerID,
		BillingCurrency:   "USD",
	}
}

type serviceEnv struct {
	svc   *Service
	gw    *billing.MockGateway
	repo  *fakeSubRepo
	teams *fakeTeamRepo
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	env := &serviceEnv{
		gw:    billing.NewMockGateway(),
		repo:  newFakeSubRepo(),
		teams: &fakeTeamRepo{},
	}
	cfg := &config.Config{TrialPeriodDays: 14, CancelProration: true}
	env.svc = NewService(testCatalog(), env.gw, env.repo, env.teams, cfg)
	env.svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return env
}

func opIndex(ops []string, prefix string) int {
	for i, op := range ops {
		if len(op) >= len(prefix) && op[:len(prefix)] == prefix {
			return i
		}
	}
	return -1
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreatePersistsGatewayTruth(t *testing.T) {
	env := newServiceEnv(t)
	team := testTeam()
	env.gw.Status = models.SubscriptionActive
	env.gw.CurrentPeriodEnd = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	env.gw.Preview = &billing.InvoicePreview{Total: 1000, Currency: "USD"}

	result, err := env.svc.Create(context.Background(), nil, team, CreateParams{
		ProductID: "prod_simple",
		PriceID:   "price_simple_monthly",
		Country:   "DE",
	})
	require.NoError(t, err)

	sub := result.Subscription
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.Equal(t, int64(1000), sub.NextInvoiceTotal)
	assert.Equal(t, env.gw.CurrentPeriodEnd, sub.NextBillingDate)
	assert.Equal(t, "prod_simple", sub.Product.ID)
	assert.Equal(t, "price_simple_monthly", sub.Price.ID)
	require.Len(t, sub.Taxes, 1)
	assert.Equal(t, "txr_de_vat", sub.Taxes[0].ID)

	// Gateway got the resolved tax ids and configured trial.
	params := env.gw.Subscriptions[sub.RemoteID]
	assert.Equal(t, []string{"txr_de_vat"}, params.TaxRateIDs)
	assert.Equal(t, int64(14), params.TrialDays)

	assert.Equal(t, 1, env.repo.count())
}

func TestCreateWithOverrideTaxJurisdiction(t *testing.T) {
	env := newServiceEnv(t)
	team := testTeam()

	result, err := env.svc.Create(context.Background(), nil, team, CreateParams{
		ProductID: "prod_simple",
		PriceID:   "price_simple_monthly",
		Country:   "US",
		State:     "CA",
	})
	require.NoError(t, err)

	params := env.gw.Subscriptions[result.Subscription.RemoteID]
	assert.Equal(t, []string{"txr_us_ca_sales"}, params.TaxRateIDs)
}

func TestCreateUnknownPrice(t *testing.T) {
	env := newServiceEnv(t)

	_, err := env.svc.Create(context.Background(), nil, testTeam(), CreateParams{
		ProductID: "prod_simple",
		PriceID:   "price_advanced_monthly", // belongs to another product
	})
	assert.True(t, billing.IsKind(err, billing.KindNotFound))
	assert.Equal(t, 0, env.repo.count())
}

func TestCreateCardDeclined(t *testing.T) {
	env := newServiceEnv(t)
	env.gw.CreateSubscriptionErr = billing.PaymentDeclined("Your card was declined.")

	_, err := env.svc.Create(context.Background(), nil, testTeam(), CreateParams{
		ProductID: "prod_simple",
		PriceID:   "price_simple_monthly",
	})
	assert.True(t, billing.IsKind(err, billing.KindPaymentDeclined))
	assert.Equal(t, 0, env.repo.count())
}

func TestCreatePassesUnrecognizedGatewayErrorsThrough(t *testing.T) {
	env := newServiceEnv(t)
	boom := errors.New("rate limited")
	env.gw.CreateSubscriptionErr = boom

	_, err := env.svc.Create(context.Background(), nil, testTeam(), CreateParams{
		ProductID: "prod_simple",
		PriceID:   "price_simple_monthly",
	})
	assert.ErrorIs(t, err, boom)
}

// ---------------------------------------------------------------------------
// Retry
// ---------------------------------------------------------------------------

func TestRetryCancelsBeforeRecreating(t *testing.T) {
	env := newServiceEnv(t)
	team := testTeam()

	// A prior create left the team stuck incomplete on the advanced price.
	env.gw.Subscriptions["sub_old"] = billing.SubscriptionParams{PriceID: "price_advanced_monthly"}
	require.NoError(t, env.repo.Insert(context.Background(), &models.SubscriptionDB{
		ID:        uuid.New(),
		TeamID:    team.ID,
		RemoteID:  "sub_old",
		Status:    models.SubscriptionIncomplete,
		ProductID: "prod_advanced",
		PriceID:   "price_advanced_monthly",
	}))

	env.gw.Ops = nil
	result, err := env.svc.Retry(context.Background(), nil, team, CreateParams{
		ProductID: "prod_simple",
		PriceID:   "price_simple_monthly",
	})
	require.NoError(t, err)

	cancelIdx := opIndex(env.gw.Ops, "cancel_subscription sub_old")
	createIdx := opIndex(env.gw.Ops, "create_subscription price_simple_monthly")
	require.GreaterOrEqual(t, cancelIdx, 0)
	require.GreaterOrEqual(t, createIdx, 0)
	assert.Less(t, cancelIdx, createIdx, "old subscription must be canceled before the new create")

	// Only the new row remains, reflecting only the new price.
	assert.Equal(t, 1, env.repo.count())
	row := env.repo.only()
	assert.Equal(t, "price_simple_monthly", row.PriceID)
	assert.Equal(t, result.Subscription.RemoteID, row.RemoteID)
	assert.NotEqual(t, "sub_old", row.RemoteID)
}

func TestRetryWithoutSubscription(t *testing.T) {
	env := newServiceEnv(t)

	_, err := env.svc.Retry(context.Background(), nil, testTeam(), CreateParams{
		ProductID: "prod_simple",
		PriceID:   "price_simple_monthly",
	})
	assert.True(t, billing.IsKind(err, billing.KindNotFound))
}

// ---------------------------------------------------------------------------
// FindUpdated
// ---------------------------------------------------------------------------

func TestFindUpdatedRefreshesStaleRowOnce(t *testing.T) {
	env := newServiceEnv(t)
	team := testTeam()
	now := env.svc.now()

	env.gw.Subscriptions["sub_1"] = billing.SubscriptionParams{PriceID: "price_simple_monthly"}
	env.gw.Status = models.SubscriptionActive
	env.gw.CurrentPeriodEnd = now.AddDate(0, 1, 0)
	env.gw.Preview = &billing.InvoicePreview{Total: 1000}

	require.NoError(t, env.repo.Insert(context.Background(), &models.SubscriptionDB{
		ID:              uuid.New(),
		TeamID:          team.ID,
		RemoteID:        "sub_1",
		Status:          models.SubscriptionActive,
		ProductID:       "prod_simple",
		PriceID:         "price_simple_monthly",
		NextBillingDate: now.Add(-time.Hour), // stale
	}))

	first, err := env.svc.FindUpdated(context.Background(), nil, team)
	require.NoError(t, err)
	assert.Equal(t, env.gw.CurrentPeriodEnd, first.NextBillingDate)
	assert.Equal(t, int64(1000), first.NextInvoiceTotal)

	second, err := env.svc.FindUpdated(context.Background(), nil, team)
	require.NoError(t, err)
	assert.Equal(t, first.NextBillingDate, second.NextBillingDate)

	// The second read trusted the refreshed row: exactly one remote fetch.
	retrieves := 0
	for _, op := range env.gw.Ops {
		if op == "retrieve_subscription sub_1" {
			retrieves++
		}
	}
	assert.Equal(t, 1, retrieves)
}

func TestFindUpdatedFreshRowSkipsGateway(t *testing.T) {
	env := newServiceEnv(t)
	team := testTeam()

	require.NoError(t, env.repo.Insert(context.Background(), &models.SubscriptionDB{
		ID:              uuid.New(),
		TeamID:          team.ID,
		RemoteID:        "sub_1",
		Status:          models.SubscriptionActive,
		ProductID:       "prod_simple",
		PriceID:         "price_simple_monthly",
		NextBillingDate: env.svc.now().AddDate(0, 1, 0),
	}))

	sub, err := env.svc.FindUpdated(context.Background(), nil, team)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Empty(t, env.gw.Ops)
}

func TestFindUpdatedNoSubscription(t *testing.T) {
	env := newServiceEnv(t)

	sub, err := env.svc.FindUpdated(context.Background(), nil, testTeam())
	require.NoError(t, err)
	assert.Nil(t, sub)
}

// ---------------------------------------------------------------------------
// PreviewChange / Change
// ---------------------------------------------------------------------------

func TestPreviewChangeItemizesDiscountsAndTaxes(t *testing.T) {
	env := newServiceEnv(t)
	team := testTeam()

	env.gw.Preview = &billing.InvoicePreview{
		Total: 405,
		Lines: []billing.InvoiceLine{
			{Description: "Unused time on Simple", Amount: -500},
			{Description: "Remaining time on Advanced", Amount: 1250},
		},
		DiscountAmounts: []billing.DiscountAmount{{CouponID: "coupon_half", Amount: 375}},
		TaxAmounts:      []billing.TaxAmount{{TaxRateID: "txr_de_vat", Amount: 71}},
		CouponID:        "coupon_half",
	}

	sub := &models.Subscription{
		RemoteID:     "sub_1",
		RemoteItemID: "si_1",
		Coupon:       testCatalog().CouponByID("coupon_half"),
	}
	preview, err := env.svc.PreviewChange(context.Background(), team, sub, "price_advanced_monthly")
	require.NoError(t, err)

	assert.Equal(t, int64(405), preview.Total)
	assert.Equal(t, "charges", preview.Label)
	require.Len(t, preview.Lines, 2)

	require.Len(t, preview.Discounts, 1)
	assert.Equal(t, int64(-375), preview.Discounts[0].Amount)
	assert.Contains(t, preview.Discounts[0].Description, "Half Off")

	require.Len(t, preview.Taxes, 1)
	assert.Equal(t, "VAT DE (19%)", preview.Taxes[0].Description)
	assert.Equal(t, int64(71), preview.Taxes[0].Amount)
}

func TestPreviewChangeCreditsLabel(t *testing.T) {
	env := newServiceEnv(t)
	env.gw.Preview = &billing.InvoicePreview{Total: -300}

	sub := &models.Subscription{RemoteID: "sub_1", RemoteItemID: "si_1"}
	preview, err := env.svc.PreviewChange(context.Background(), testTeam(), sub, "price_simple_monthly")
	require.NoError(t, err)
	assert.Equal(t, "credits", preview.Label)
}

func TestChangePersistsOntoSameRow(t *testing.T) {
	env := newServiceEnv(t)
	team := testTeam()

	env.gw.Subscriptions["sub_1"] = billing.SubscriptionParams{PriceID: "price_simple_monthly"}
	env.gw.CurrentPeriodEnd = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	env.gw.Preview = &billing.InvoicePreview{Total: 2500}

	rowID := uuid.New()
	require.NoError(t, env.repo.Insert(context.Background(), &models.SubscriptionDB{
		ID:           rowID,
		TeamID:       team.ID,
		RemoteID:     "sub_1",
		RemoteItemID: "si_1",
		Status:       models.SubscriptionActive,
		ProductID:    "prod_simple",
		PriceID:      "price_simple_monthly",
	}))

	sub := &models.Subscription{ID: rowID, RemoteID: "sub_1", RemoteItemID: "si_1"}
	updated, err := env.svc.Change(context.Background(), nil, team, sub, "prod_advanced", "price_advanced_monthly")
	require.NoError(t, err)

	assert.Equal(t, rowID, updated.ID)
	assert.Equal(t, "prod_advanced", updated.Product.ID)
	assert.Equal(t, "price_advanced_monthly", updated.Price.ID)
	assert.Equal(t, int64(2500), updated.NextInvoiceTotal)
	assert.Equal(t, 1, env.repo.count())
}

// ---------------------------------------------------------------------------
// Cancel
// ---------------------------------------------------------------------------

func TestCancelDeletesLocalRow(t *testing.T) {
	env := newServiceEnv(t)
	team := testTeam()

	env.gw.Subscriptions["sub_1"] = billing.SubscriptionParams{PriceID: "price_simple_monthly"}
	require.NoError(t, env.repo.Insert(context.Background(), &models.SubscriptionDB{
		ID:        uuid.New(),
		TeamID:    team.ID,
		RemoteID:  "sub_1",
		Status:    models.SubscriptionActive,
		ProductID: "prod_simple",
		PriceID:   "price_simple_monthly",
	}))

	require.NoError(t, env.svc.Cancel(context.Background(), nil, team))
	assert.Equal(t, 0, env.repo.count())
	assert.NotContains(t, env.gw.Subscriptions, "sub_1")
}

func TestCancelWithoutRowIsContractViolation(t *testing.T) {
	env := newServiceEnv(t)

	err := env.svc.Cancel(context.Background(), nil, testTeam())
	assert.True(t, billing.IsKind(err, billing.KindNotFound))
}

// ---------------------------------------------------------------------------
// AttachPaymentMethod
// ---------------------------------------------------------------------------

func TestAttachPaymentMethodCreatesCustomerOnce(t *testing.T) {
	env := newServiceEnv(t)
	team := testTeam()
	team.BillingCustomerID = nil
	user := &models.User{ID: uuid.New(), TeamID: team.ID, Email: "owner@acme.test"}

	err := env.svc.AttachPaymentMethod(context.Background(), team, user, PaymentDetails{
		PaymentMethodID: "pm_1",
		NameOnCard:      "A. Owner",
		Country:         "DE",
	})
	require.NoError(t, err)

	// The gateway-assigned id was persisted immediately, on the base
	// connection, and mirrored onto the aggregate.
	require.Len(t, env.teams.updates, 1)
	assert.Equal(t, team.ID, env.teams.updates[0].teamID)
	require.NotNil(t, team.BillingCustomerID)
	assert.Equal(t, env.teams.updates[0].customerID, *team.BillingCustomerID)

	assert.Equal(t, "pm_1", env.gw.DefaultPaymentMethods[*team.BillingCustomerID])
}

func TestAttachPaymentMethodUpdatesExistingCustomer(t *testing.T) {
	env := newServiceEnv(t)
	team := testTeam()
	user := &models.User{ID: uuid.New(), TeamID: team.ID, Email: "owner@acme.test"}

	err := env.svc.AttachPaymentMethod(context.Background(), team, user, PaymentDetails{PaymentMethodID: "pm_2"})
	require.NoError(t, err)

	assert.Empty(t, env.teams.updates)
	assert.GreaterOrEqual(t, opIndex(env.gw.Ops, "update_customer cus_test_1"), 0)
	assert.Equal(t, -1, opIndex(env.gw.Ops, "create_customer"))
}

// ---------------------------------------------------------------------------
// GetCoupon
// ---------------------------------------------------------------------------

func TestGetCoupon(t *testing.T) {
	env := newServiceEnv(t)
	team := testTeam()
	ctx := context.Background()

	t.Run("resolves by id", func(t *testing.T) {
		c, err := env.svc.GetCoupon(ctx, team, "coupon_half")
		require.NoError(t, err)
		assert.Equal(t, "Half Off", c.Name)
	})

	t.Run("miss is not found", func(t *testing.T) {
		_, err := env.svc.GetCoupon(ctx, team, "coupon_nope")
		assert.True(t, billing.IsKind(err, billing.KindNotFound))
	})

	t.Run("currency mismatch", func(t *testing.T) {
		_, err := env.svc.GetCoupon(ctx, team, "coupon_eur")
		assert.True(t, billing.IsKind(err, billing.KindCurrencyMismatch))
	})

	t.Run("past redeem-by skips the gateway", func(t *testing.T) {
		env.gw.Ops = nil
		_, err := env.svc.GetCoupon(ctx, team, "coupon_dated")
		assert.True(t, billing.IsKind(err, billing.KindExpired))
		assert.Empty(t, env.gw.Ops)
	})

	t.Run("redemptions exhausted after live check", func(t *testing.T) {
		env.gw.CouponRedemptions["coupon_limited"] = 50
		_, err := env.svc.GetCoupon(ctx, team, "coupon_limited")
		assert.True(t, billing.IsKind(err, billing.KindExpired))
	})

	t.Run("one redemption left is usable", func(t *testing.T) {
		env.gw.CouponRedemptions["coupon_limited"] = 49
		c, err := env.svc.GetCoupon(ctx, team, "coupon_limited")
		require.NoError(t, err)
		assert.Equal(t, "coupon_limited", c.ID)
	})
}

// ---------------------------------------------------------------------------
// Batch joins
// ---------------------------------------------------------------------------

func TestAttachToTeams(t *testing.T) {
	env := newServiceEnv(t)
	withSub := testTeam()
	withSub.ID = uuid.New()
	without := testTeam()
	without.ID = uuid.New()

	require.NoError(t, env.repo.Insert(context.Background(), &models.SubscriptionDB{
		ID:        uuid.New(),
		TeamID:    withSub.ID,
		RemoteID:  "sub_1",
		Status:    models.SubscriptionActive,
		ProductID: "prod_simple",
		PriceID:   "price_simple_monthly",
	}))

	require.NoError(t, env.svc.AttachToTeams(context.Background(), nil, []*models.Team{withSub, without}))

	require.NotNil(t, withSub.Subscription)
	assert.Equal(t, "prod_simple", withSub.Subscription.Product.ID)
	assert.Nil(t, without.Subscription)

	// Join only, no gateway traffic.
	assert.Empty(t, env.gw.Ops)
}

func TestAttachToUsers(t *testing.T) {
	env := newServiceEnv(t)
	team := testTeam()
	user := &models.User{ID: uuid.New(), TeamID: team.ID, Email: "member@acme.test"}

	require.NoError(t, env.repo.Insert(context.Background(), &models.SubscriptionDB{
		ID:        uuid.New(),
		TeamID:    team.ID,
		RemoteID:  "sub_1",
		Status:    models.SubscriptionTrialing,
		ProductID: "prod_advanced",
		PriceID:   "price_advanced_monthly",
	}))

	require.NoError(t, env.svc.AttachToUsers(context.Background(), nil, []*models.User{user}))

	require.NotNil(t, user.Subscription)
	assert.True(t, user.Subscription.HasCapabilities([]string{"sso"}))
}
