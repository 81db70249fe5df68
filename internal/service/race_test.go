package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordcommerce/vipps-gateway/internal/events"
	"github.com/nordcommerce/vipps-gateway/internal/lock"
	"github.com/nordcommerce/vipps-gateway/internal/models"
	"github.com/nordcommerce/vipps-gateway/internal/resolver"
	vippsmocks "github.com/nordcommerce/vipps-gateway/internal/vipps/mocks"
)

// Stateful in-memory stores, so concurrent reconciliations observe each
// other's writes the way they would against the database.

type fakePaymentStore struct {
	payments map[uuid.UUID]*models.Payment
	mu       sync.Mutex
}

func newFakePaymentStore(payments ...*models.Payment) *fakePaymentStore {
	s := &fakePaymentStore{payments: make(map[uuid.UUID]*models.Payment)}
	for _, p := range payments {
		cp := *p
		s.payments[p.ID] = &cp
	}
	return s
}

func (s *fakePaymentStore) Create(_ context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[payment.ID]; ok {
		return models.ErrDuplicatePayment
	}
	cp := *payment
	s.payments[payment.ID] = &cp
	return nil
}

func (s *fakePaymentStore) Update(_ context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[payment.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *payment
	s.payments[payment.ID] = &cp
	return nil
}

func (s *fakePaymentStore) FindByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.payments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *payment
	return &cp, nil
}

func (s *fakePaymentStore) FindByRemoteID(_ context.Context, remoteID, gateway string) ([]*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matches []*models.Payment
	for _, payment := range s.payments {
		if payment.RemoteID == remoteID && payment.Gateway == gateway {
			cp := *payment
			matches = append(matches, &cp)
		}
	}
	return matches, nil
}

type fakeOrderStore struct {
	order *models.Order
	mu    sync.Mutex
}

func (s *fakeOrderStore) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil || s.order.ID != id {
		return nil, models.ErrNotFound
	}
	cp := *s.order
	return &cp, nil
}

func (s *fakeOrderStore) Update(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *order
	s.order = &cp
	return nil
}

// A SALE notification and a CANCELLED notification racing for the same
// transaction must serialize on the lock: whichever applies first wins,
// the loser is a noop, and the payment never regresses.
func TestReconcile_RacingChannelsConverge(t *testing.T) {
	order := testOrder()
	payment := testPayment(order, models.PaymentStateNew)

	payments := newFakePaymentStore(payment)
	orders := &fakeOrderStore{order: order}

	engine := NewEngine(EngineConfig{
		GatewayID:     testGateway,
		PublicBaseURL: "https://shop.example.com",
	}, EngineParams{
		Payments:  payments,
		Orders:    orders,
		Client:    vippsmocks.NewMockClient(t),
		Locks:     lock.NewMemory(lock.Options{WaitTimeout: time.Second, Backoff: time.Millisecond, MaxAttempts: 50}, testLogger()),
		Publisher: events.Noop{},
		OrderIDs:  resolver.NewOrderIDChain(),
		Shipping:  resolver.NewShippingMethodsChain(),
		Logger:    testLogger(),
	})

	token := order.AuthToken
	bodies := [][]byte{
		notifyBody(t, "SALE", 0),
		notifyBody(t, "CANCELLED", 0),
	}

	results := make([]*ReconcileResult, len(bodies))
	errs := make([]error, len(bodies))

	var wg sync.WaitGroup
	for i, body := range bodies {
		wg.Add(1)
		go func(i int, body []byte) {
			defer wg.Done()
			results[i], errs[i] = engine.ReconcileFromNotification(context.Background(),
				testGateway, order.ID, payment.RemoteID, token, body)
		}(i, body)
	}
	wg.Wait()

	var applied, noops int
	for i := range bodies {
		// The loser may instead be rejected outright if the winner's
		// terminal transition already cleared the auth token.
		if errs[i] != nil {
			var svcErr *ServiceError
			require.ErrorAs(t, errs[i], &svcErr)
			assert.Equal(t, ErrCodeAccessDenied, svcErr.Code)
			continue
		}
		switch results[i].Outcome {
		case OutcomeApplied:
			applied++
		case OutcomeNoop:
			noops++
		default:
			t.Fatalf("unexpected outcome %q", results[i].Outcome)
		}
	}
	assert.Equal(t, 1, applied, "exactly one channel must win")
	assert.LessOrEqual(t, noops, 1)

	final, err := payments.FindByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.True(t, final.State.IsTerminal())
	assert.Contains(t, []models.PaymentState{
		models.PaymentStateCompleted,
		models.PaymentStateFailed,
	}, final.State)
}

// Replaying the same terminal notification many times must apply exactly
// once.
func TestReconcile_IdempotentReplay(t *testing.T) {
	order := testOrder()
	payment := testPayment(order, models.PaymentStateNew)

	payments := newFakePaymentStore(payment)
	orders := &fakeOrderStore{order: order}

	engine := NewEngine(EngineConfig{
		GatewayID:     testGateway,
		PublicBaseURL: "https://shop.example.com",
	}, EngineParams{
		Payments:  payments,
		Orders:    orders,
		Client:    vippsmocks.NewMockClient(t),
		Locks:     lock.NewMemory(lock.DefaultOptions(), testLogger()),
		Publisher: events.Noop{},
		OrderIDs:  resolver.NewOrderIDChain(),
		Shipping:  resolver.NewShippingMethodsChain(),
		Logger:    testLogger(),
	})

	token := order.AuthToken
	body := notifyBody(t, "SALE", 0)

	result, err := engine.ReconcileFromNotification(context.Background(),
		testGateway, order.ID, payment.RemoteID, token, body)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, result.Outcome)

	// Later replays fail correlation because the terminal transition
	// cleared the auth token. The payment itself stays untouched.
	_, err = engine.ReconcileFromNotification(context.Background(),
		testGateway, order.ID, payment.RemoteID, token, body)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeAccessDenied, svcErr.Code)

	final, err := payments.FindByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStateCompleted, final.State)
}
