package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/launchbase/launchbase/internal/models"
)

// MockGateway is a test double that records calls and returns configurable
// results.
type MockGateway struct {
	mu sync.Mutex

	// Ops journals every gateway call in order, e.g. "create_subscription price_x".
	Ops []string

	// Customers maps teamID -> customerID.
	Customers map[string]string
	// Subscriptions maps subscriptionID -> the params it was created with.
	Subscriptions map[string]SubscriptionParams
	// DefaultPaymentMethods maps customerID -> paymentMethodID.
	DefaultPaymentMethods map[string]string

	// Remote state returned by subscription calls.
	Status           models.SubscriptionStatus
	CurrentPeriodEnd time.Time
	// Preview returned by UpcomingInvoice.
	Preview *InvoicePreview
	// CouponRedemptions maps couponID -> timesRedeemed.
	CouponRedemptions map[string]int64
	// Invoices returned by ListInvoices.
	Invoices []*Invoice

	// Error fields allow tests to inject failures.
	CreateCustomerErr     error
	UpdateCustomerErr     error
	AttachErr             error
	CreateSubscriptionErr error
	RetrieveErr           error
	UpdatePriceErr        error
	CancelErr             error
	RetrieveCouponErr     error
	UpcomingInvoiceErr    error
	ListInvoicesErr       error

	nextCustomerSeq int
	nextSubSeq      int
}

func NewMockGateway() *MockGateway {
	return &MockGateway{
		Customers:             make(map[string]string),
		Subscriptions:         make(map[string]SubscriptionParams),
		DefaultPaymentMethods: make(map[string]string),
		CouponRedemptions:     make(map[string]int64),
		Status:                models.SubscriptionActive,
		CurrentPeriodEnd:      time.Now().AddDate(0, 1, 0),
	}
}

func (m *MockGateway) record(op string) {
	m.Ops = append(m.Ops, op)
}

func (m *MockGateway) CreateCustomer(_ context.Context, p CustomerParams) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("create_customer " + p.TeamID)
	if m.CreateCustomerErr != nil {
		return "", m.CreateCustomerErr
	}
	m.nextCustomerSeq++
	id := fmt.Sprintf("cus_mock_%d", m.nextCustomerSeq)
	m.Customers[p.TeamID] = id
	return id, nil
}

func (m *MockGateway) UpdateCustomer(_ context.Context, customerID string, _ CustomerParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("update_customer " + customerID)
	return m.UpdateCustomerErr
}

func (m *MockGateway) AttachPaymentMethod(_ context.Context, customerID, paymentMethodID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("attach_payment_method " + paymentMethodID)
	return m.AttachErr
}

func (m *MockGateway) SetDefaultPaymentMethod(_ context.Context, customerID, paymentMethodID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("set_default_payment_method " + paymentMethodID)
	if m.AttachErr != nil {
		return m.AttachErr
	}
	m.DefaultPaymentMethods[customerID] = paymentMethodID
	return nil
}

func (m *MockGateway) CreateSubscription(_ context.Context, p SubscriptionParams) (*RemoteSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("create_subscription " + p.PriceID)
	if m.CreateSubscriptionErr != nil {
		return nil, m.CreateSubscriptionErr
	}
	m.nextSubSeq++
	id := fmt.Sprintf("sub_mock_%d", m.nextSubSeq)
	m.Subscriptions[id] = p
	return &RemoteSubscription{
		ID:               id,
		ItemID:           fmt.Sprintf("si_mock_%d", m.nextSubSeq),
		Status:           m.Status,
		CurrentPeriodEnd: m.CurrentPeriodEnd,
	}, nil
}

func (m *MockGateway) RetrieveSubscription(_ context.Context, subscriptionID string) (*RemoteSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("retrieve_subscription " + subscriptionID)
	if m.RetrieveErr != nil {
		return nil, m.RetrieveErr
	}
	if _, ok := m.Subscriptions[subscriptionID]; !ok {
		return nil, fmt.Errorf("billing: unknown subscription %s", subscriptionID)
	}
	return &RemoteSubscription{
		ID:               subscriptionID,
		ItemID:           "si_" + subscriptionID,
		Status:           m.Status,
		CurrentPeriodEnd: m.CurrentPeriodEnd,
	}, nil
}

func (m *MockGateway) UpdateSubscriptionPrice(_ context.Context, subscriptionID, itemID, priceID string) (*RemoteSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("update_subscription_price " + priceID)
	if m.UpdatePriceErr != nil {
		return nil, m.UpdatePriceErr
	}
	p, ok := m.Subscriptions[subscriptionID]
	if !ok {
		return nil, fmt.Errorf("billing: unknown subscription %s", subscriptionID)
	}
	p.PriceID = priceID
	m.Subscriptions[subscriptionID] = p
	return &RemoteSubscription{
		ID:               subscriptionID,
		ItemID:           itemID,
		Status:           m.Status,
		CurrentPeriodEnd: m.CurrentPeriodEnd,
	}, nil
}

func (m *MockGateway) CancelSubscription(_ context.Context, subscriptionID string, prorate bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("cancel_subscription " + subscriptionID)
	if m.CancelErr != nil {
		return m.CancelErr
	}
	if _, ok := m.Subscriptions[subscriptionID]; !ok {
		return fmt.Errorf("billing: subscription %s not found", subscriptionID)
	}
	delete(m.Subscriptions, subscriptionID)
	return nil
}

func (m *MockGateway) RetrieveCouponRedemptions(_ context.Context, couponID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("retrieve_coupon " + couponID)
	if m.RetrieveCouponErr != nil {
		return 0, m.RetrieveCouponErr
	}
	return m.CouponRedemptions[couponID], nil
}

func (m *MockGateway) UpcomingInvoice(_ context.Context, p PreviewParams) (*InvoicePreview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("upcoming_invoice " + p.CustomerID)
	if m.UpcomingInvoiceErr != nil {
		return nil, m.UpcomingInvoiceErr
	}
	if m.Preview != nil {
		return m.Preview, nil
	}
	return &InvoicePreview{}, nil
}

func (m *MockGateway) ListInvoices(_ context.Context, customerID string) ([]*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("list_invoices " + customerID)
	if m.ListInvoicesErr != nil {
		return nil, m.ListInvoicesErr
	}
	return m.Invoices, nil
}
