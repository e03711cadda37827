package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wheeltrade/backend/internal/domain/billing"
	"github.com/wheeltrade/backend/internal/domain/deal"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.EscrowPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.EscrowPayment), args.Error(1)
}

func (m *MockPaymentRepository) FindByNumber(ctx context.Context, paymentNumber string) (*billing.EscrowPayment, error) {
	args := m.Called(ctx, paymentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.EscrowPayment), args.Error(1)
}

func (m *MockPaymentRepository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*billing.EscrowPayment, error) {
	args := m.Called(ctx, gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.EscrowPayment), args.Error(1)
}

func (m *MockPaymentRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]billing.EscrowPayment, error) {
	args := m.Called(ctx, dealID)
	return args.Get(0).([]billing.EscrowPayment), args.Error(1)
}

func (m *MockPaymentRepository) FindForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]billing.EscrowPayment, error) {
	args := m.Called(ctx, dealerID, filter)
	return args.Get(0).([]billing.EscrowPayment), args.Error(1)
}

func (m *MockPaymentRepository) FindByStatus(ctx context.Context, status billing.PaymentStatus, filter shared.Filter) ([]billing.EscrowPayment, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]billing.EscrowPayment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *billing.EscrowPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) SaveWithLock(ctx context.Context, payment *billing.EscrowPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) CountByStatus(ctx context.Context, status billing.PaymentStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) GeneratePaymentNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) FindByID(ctx context.Context, id uuid.UUID) (*deal.Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deal.Deal), args.Error(1)
}

func (m *MockDealRepository) FindByNumber(ctx context.Context, dealNumber string) (*deal.Deal, error) {
	args := m.Called(ctx, dealNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deal.Deal), args.Error(1)
}

func (m *MockDealRepository) FindAll(ctx context.Context, filter shared.Filter) ([]deal.Deal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]deal.Deal), args.Error(1)
}

func (m *MockDealRepository) FindForDealer(ctx context.Context, dealerID uuid.UUID, filter shared.Filter) ([]deal.Deal, error) {
	args := m.Called(ctx, dealerID, filter)
	return args.Get(0).([]deal.Deal), args.Error(1)
}

func (m *MockDealRepository) FindByStatus(ctx context.Context, dealerID uuid.UUID, status deal.DealStatus, filter shared.Filter) ([]deal.Deal, error) {
	args := m.Called(ctx, dealerID, status, filter)
	return args.Get(0).([]deal.Deal), args.Error(1)
}

func (m *MockDealRepository) FindByVehicle(ctx context.Context, vehicleID uuid.UUID, filter shared.Filter) ([]deal.Deal, error) {
	args := m.Called(ctx, vehicleID, filter)
	return args.Get(0).([]deal.Deal), args.Error(1)
}

func (m *MockDealRepository) FindOpenByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]deal.Deal, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).([]deal.Deal), args.Error(1)
}

func (m *MockDealRepository) FindExpired(ctx context.Context, cutoff time.Time, limit int) ([]deal.Deal, error) {
	args := m.Called(ctx, cutoff, limit)
	return args.Get(0).([]deal.Deal), args.Error(1)
}

func (m *MockDealRepository) Save(ctx context.Context, d *deal.Deal) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDealRepository) SaveWithLock(ctx context.Context, d *deal.Deal) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDealRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealRepository) CountForDealer(ctx context.Context, dealerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, dealerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealRepository) CountByStatus(ctx context.Context, dealerID uuid.UUID, status deal.DealStatus) (int64, error) {
	args := m.Called(ctx, dealerID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealRepository) GenerateDealNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, req *billing.CreateOrderRequest) (*billing.CreateOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CreateOrderResponse), args.Error(1)
}

func (m *MockGateway) QueryOrder(ctx context.Context, gatewayOrderID string) (*billing.QueryOrderResponse, error) {
	args := m.Called(ctx, gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.QueryOrderResponse), args.Error(1)
}

func (m *MockGateway) RefundOrder(ctx context.Context, gatewayOrderID string, amount decimal.Decimal) error {
	args := m.Called(ctx, gatewayOrderID, amount)
	return args.Error(0)
}

func (m *MockGateway) VerifyWebhook(payload []byte, signature string) (*billing.WebhookEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.WebhookEvent), args.Error(1)
}

// =============================================================================
// Fixtures
// =============================================================================

func newAcceptedDeal(t *testing.T, buyerID, sellerID uuid.UUID) *deal.Deal {
	t.Helper()
	d, err := deal.NewDeal("DL-2026-00042", uuid.New(), buyerID, sellerID,
		decimal.NewFromInt(980000), "")
	require.NoError(t, err)
	require.NoError(t, d.Accept(sellerID))
	d.ClearDomainEvents()
	return d
}

func newInitiatedPayment(t *testing.T, d *deal.Deal) *billing.EscrowPayment {
	t.Helper()
	p, err := billing.NewEscrowPayment("PAY-2026-00007", d.ID, d.BuyerDealerID, d.SellerDealerID,
		d.AgreedAmount, "order_9A33XWu170gUlm")
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func newHeldPayment(t *testing.T, d *deal.Deal) *billing.EscrowPayment {
	t.Helper()
	p := newInitiatedPayment(t, d)
	require.NoError(t, p.MarkHeld("pay_29QQoUBi66xm2f"))
	p.ClearDomainEvents()
	return p
}

// =============================================================================
// Tests
// =============================================================================

func TestEscrowService_InitiateEscrow(t *testing.T) {
	ctx := context.Background()
	buyerID := uuid.New()
	sellerID := uuid.New()

	setup := func() (*MockPaymentRepository, *MockDealRepository, *MockGateway, *EscrowService) {
		paymentRepo := new(MockPaymentRepository)
		dealRepo := new(MockDealRepository)
		gateway := new(MockGateway)
		return paymentRepo, dealRepo, gateway, NewEscrowService(paymentRepo, dealRepo, gateway)
	}

	t.Run("opens a collect order for the agreed amount", func(t *testing.T) {
		paymentRepo, dealRepo, gateway, svc := setup()
		d := newAcceptedDeal(t, buyerID, sellerID)

		dealRepo.On("FindByID", ctx, d.ID).Return(d, nil)
		paymentRepo.On("FindByDeal", ctx, d.ID).Return([]billing.EscrowPayment{}, nil)
		paymentRepo.On("GeneratePaymentNumber", ctx).Return("PAY-2026-00007", nil)
		gateway.On("CreateOrder", ctx, mock.MatchedBy(func(req *billing.CreateOrderRequest) bool {
			return req.Amount.Equal(decimal.NewFromInt(980000)) && req.Currency == "INR"
		})).Return(&billing.CreateOrderResponse{
			GatewayOrderID: "order_9A33XWu170gUlm",
			Status:         billing.GatewayOrderPending,
			PaymentLink:    "https://pay.test/checkout/order_9A33XWu170gUlm",
		}, nil)
		paymentRepo.On("Save", ctx, mock.AnythingOfType("*billing.EscrowPayment")).Return(nil)

		resp, err := svc.InitiateEscrow(ctx, buyerID, InitiateEscrowRequest{DealID: d.ID})
		require.NoError(t, err)
		assert.Equal(t, "PAY-2026-00007", resp.PaymentNumber)
		assert.Equal(t, "initiated", resp.Status)
		assert.Equal(t, "https://pay.test/checkout/order_9A33XWu170gUlm", resp.PaymentLink)
		assert.True(t, resp.Amount.Equal(decimal.NewFromInt(980000)))
	})

	t.Run("seller cannot fund the escrow", func(t *testing.T) {
		_, dealRepo, _, svc := setup()
		d := newAcceptedDeal(t, buyerID, sellerID)

		dealRepo.On("FindByID", ctx, d.ID).Return(d, nil)

		_, err := svc.InitiateEscrow(ctx, sellerID, InitiateEscrowRequest{DealID: d.ID})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("deal still negotiating rejected", func(t *testing.T) {
		_, dealRepo, _, svc := setup()
		d, err := deal.NewDeal("DL-2026-00050", uuid.New(), buyerID, sellerID, decimal.NewFromInt(500000), "")
		require.NoError(t, err)

		dealRepo.On("FindByID", ctx, d.ID).Return(d, nil)

		_, err = svc.InitiateEscrow(ctx, buyerID, InitiateEscrowRequest{DealID: d.ID})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "DEAL_NOT_ACCEPTED", derr.Code)
	})

	t.Run("second payment for the same deal rejected", func(t *testing.T) {
		paymentRepo, dealRepo, gateway, svc := setup()
		d := newAcceptedDeal(t, buyerID, sellerID)
		open := newInitiatedPayment(t, d)

		dealRepo.On("FindByID", ctx, d.ID).Return(d, nil)
		paymentRepo.On("FindByDeal", ctx, d.ID).Return([]billing.EscrowPayment{*open}, nil)

		_, err := svc.InitiateEscrow(ctx, buyerID, InitiateEscrowRequest{DealID: d.ID})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "PAYMENT_ALREADY_OPEN", derr.Code)
		gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("failed payment allows retry", func(t *testing.T) {
		paymentRepo, dealRepo, gateway, svc := setup()
		d := newAcceptedDeal(t, buyerID, sellerID)
		failed := newInitiatedPayment(t, d)
		require.NoError(t, failed.MarkFailed("card declined"))

		dealRepo.On("FindByID", ctx, d.ID).Return(d, nil)
		paymentRepo.On("FindByDeal", ctx, d.ID).Return([]billing.EscrowPayment{*failed}, nil)
		paymentRepo.On("GeneratePaymentNumber", ctx).Return("PAY-2026-00008", nil)
		gateway.On("CreateOrder", ctx, mock.Anything).Return(&billing.CreateOrderResponse{
			GatewayOrderID: "order_Bk31Wp9zQ4vNrd",
			Status:         billing.GatewayOrderPending,
			PaymentLink:    "https://pay.test/checkout/order_Bk31Wp9zQ4vNrd",
		}, nil)
		paymentRepo.On("Save", ctx, mock.AnythingOfType("*billing.EscrowPayment")).Return(nil)

		resp, err := svc.InitiateEscrow(ctx, buyerID, InitiateEscrowRequest{DealID: d.ID})
		require.NoError(t, err)
		assert.Equal(t, "PAY-2026-00008", resp.PaymentNumber)
	})
}

func TestEscrowService_HandleWebhook(t *testing.T) {
	ctx := context.Background()
	buyerID := uuid.New()
	sellerID := uuid.New()
	payload := []byte(`{"event":"payment.captured"}`)

	setup := func() (*MockPaymentRepository, *MockGateway, *EscrowService) {
		paymentRepo := new(MockPaymentRepository)
		gateway := new(MockGateway)
		return paymentRepo, gateway, NewEscrowService(paymentRepo, new(MockDealRepository), gateway)
	}

	t.Run("captured callback holds the funds", func(t *testing.T) {
		paymentRepo, gateway, svc := setup()
		d := newAcceptedDeal(t, buyerID, sellerID)
		payment := newInitiatedPayment(t, d)

		gateway.On("VerifyWebhook", payload, "sig").Return(&billing.WebhookEvent{
			EventType:      "payment.captured",
			GatewayOrderID: payment.GatewayOrderID,
			GatewayTxnID:   "pay_29QQoUBi66xm2f",
			Amount:         payment.Amount,
		}, nil)
		paymentRepo.On("FindByGatewayOrderID", ctx, payment.GatewayOrderID).Return(payment, nil)
		paymentRepo.On("SaveWithLock", ctx, payment).Return(nil)

		require.NoError(t, svc.HandleWebhook(ctx, payload, "sig"))
		assert.Equal(t, billing.PaymentStatusHeld, payment.Status)
		assert.Equal(t, "pay_29QQoUBi66xm2f", payment.GatewayTxnID)
		assert.NotNil(t, payment.HeldAt)
	})

	t.Run("duplicate capture acknowledged without change", func(t *testing.T) {
		paymentRepo, gateway, svc := setup()
		d := newAcceptedDeal(t, buyerID, sellerID)
		payment := newHeldPayment(t, d)

		gateway.On("VerifyWebhook", payload, "sig").Return(&billing.WebhookEvent{
			EventType:      "payment.captured",
			GatewayOrderID: payment.GatewayOrderID,
			GatewayTxnID:   payment.GatewayTxnID,
			Amount:         payment.Amount,
		}, nil)
		paymentRepo.On("FindByGatewayOrderID", ctx, payment.GatewayOrderID).Return(payment, nil)

		require.NoError(t, svc.HandleWebhook(ctx, payload, "sig"))
		paymentRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("replayed capture with a different txn id acknowledged", func(t *testing.T) {
		paymentRepo, gateway, svc := setup()
		d := newAcceptedDeal(t, buyerID, sellerID)
		payment := newHeldPayment(t, d)

		gateway.On("VerifyWebhook", payload, "sig").Return(&billing.WebhookEvent{
			EventType:      "payment.captured",
			GatewayOrderID: payment.GatewayOrderID,
			GatewayTxnID:   "pay_later_retry_77f",
			Amount:         payment.Amount,
		}, nil)
		paymentRepo.On("FindByGatewayOrderID", ctx, payment.GatewayOrderID).Return(payment, nil)

		require.NoError(t, svc.HandleWebhook(ctx, payload, "sig"))
		assert.Equal(t, billing.PaymentStatusHeld, payment.Status)
		assert.Equal(t, "pay_29QQoUBi66xm2f", payment.GatewayTxnID)
		paymentRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("captured amount must match", func(t *testing.T) {
		paymentRepo, gateway, svc := setup()
		d := newAcceptedDeal(t, buyerID, sellerID)
		payment := newInitiatedPayment(t, d)

		gateway.On("VerifyWebhook", payload, "sig").Return(&billing.WebhookEvent{
			EventType:      "payment.captured",
			GatewayOrderID: payment.GatewayOrderID,
			GatewayTxnID:   "pay_29QQoUBi66xm2f",
			Amount:         decimal.NewFromInt(1),
		}, nil)
		paymentRepo.On("FindByGatewayOrderID", ctx, payment.GatewayOrderID).Return(payment, nil)

		err := svc.HandleWebhook(ctx, payload, "sig")
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "AMOUNT_MISMATCH", derr.Code)
		assert.Equal(t, billing.PaymentStatusInitiated, payment.Status)
	})

	t.Run("bad signature rejected", func(t *testing.T) {
		paymentRepo, gateway, svc := setup()

		gateway.On("VerifyWebhook", payload, "forged").Return(nil, billing.ErrInvalidSignature)

		err := svc.HandleWebhook(ctx, payload, "forged")
		assert.ErrorIs(t, err, billing.ErrInvalidSignature)
		paymentRepo.AssertNotCalled(t, "FindByGatewayOrderID", mock.Anything, mock.Anything)
	})

	t.Run("failed callback records the reason", func(t *testing.T) {
		paymentRepo, gateway, svc := setup()
		d := newAcceptedDeal(t, buyerID, sellerID)
		payment := newInitiatedPayment(t, d)

		gateway.On("VerifyWebhook", payload, "sig").Return(&billing.WebhookEvent{
			EventType:      "payment.failed",
			GatewayOrderID: payment.GatewayOrderID,
			FailureReason:  "insufficient funds",
		}, nil)
		paymentRepo.On("FindByGatewayOrderID", ctx, payment.GatewayOrderID).Return(payment, nil)
		paymentRepo.On("SaveWithLock", ctx, payment).Return(nil)

		require.NoError(t, svc.HandleWebhook(ctx, payload, "sig"))
		assert.Equal(t, billing.PaymentStatusFailed, payment.Status)
		assert.Equal(t, "insufficient funds", payment.FailureReason)
	})
}

func TestEscrowService_Get(t *testing.T) {
	ctx := context.Background()
	buyerID := uuid.New()
	sellerID := uuid.New()
	d := newAcceptedDeal(t, buyerID, sellerID)
	payment := newHeldPayment(t, d)

	paymentRepo := new(MockPaymentRepository)
	svc := NewEscrowService(paymentRepo, new(MockDealRepository), new(MockGateway))
	paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)

	t.Run("seller may read", func(t *testing.T) {
		resp, err := svc.Get(ctx, sellerID, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, "held", resp.Status)
	})

	t.Run("outsider rejected", func(t *testing.T) {
		_, err := svc.Get(ctx, uuid.New(), payment.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}
