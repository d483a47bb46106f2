package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Danielsio/SIONYX-sub000/internal/events"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
	"github.com/Danielsio/SIONYX-sub000/internal/paymentprovider"
	"github.com/Danielsio/SIONYX-sub000/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetPackage(ctx context.Context, orgID string, id int) (*models.Package, error) {
	args := m.Called(ctx, orgID, id)
	resp, _ := args.Get(0).(*models.Package)
	return resp, args.Error(1)
}

func (m *RepoMock) CreatePurchase(ctx context.Context, p models.Purchase) (int, error) {
	args := m.Called(ctx, p)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) CompletePurchase(ctx context.Context, purchaseUID string) (*models.Purchase, error) {
	args := m.Called(ctx, purchaseUID)
	resp, _ := args.Get(0).(*models.Purchase)
	return resp, args.Error(1)
}

func (m *RepoMock) FailPurchase(ctx context.Context, purchaseUID, status string) error {
	return m.Called(ctx, purchaseUID, status).Error(0)
}

func (m *RepoMock) ListUserPurchases(ctx context.Context, userUID string, limit, offset int) ([]*models.Purchase, error) {
	args := m.Called(ctx, userUID, limit, offset)
	resp, _ := args.Get(0).([]*models.Purchase)
	return resp, args.Error(1)
}

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	resp, _ := args.Get(0).(*models.User)
	return resp, args.Error(1)
}

type ChargerMock struct{ mock.Mock }

func (m *ChargerMock) CreateCharge(reqParams paymentprovider.CreateChargeRequest) (*paymentprovider.CreateChargeResponse, error) {
	args := m.Called(reqParams)
	resp, _ := args.Get(0).(*paymentprovider.CreateChargeResponse)
	return resp, args.Error(1)
}

type ReceiptsMock struct{ mock.Mock }

func (m *ReceiptsMock) PublishReceipt(receipt models.PurchaseReceipt) error {
	return m.Called(receipt).Error(0)
}

type BusMock struct{ mock.Mock }

func (m *BusMock) Publish(ctx context.Context, ev events.Event) error {
	return m.Called(ctx, ev).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var pkg = &models.Package{ID: 3, OrgID: "org1", Name: "2 Hours", Price: 1000,
	DiscountPercent: 10, Minutes: 120, Prints: 5}

func TestPurchaseService_CreatePending(t *testing.T) {
	t.Run("opens purchase with discounted amount", func(t *testing.T) {
		repo, charger := new(RepoMock), new(ChargerMock)
		repo.On("GetPackage", mock.Anything, "org1", 3).Return(pkg, nil).Once()
		repo.On("CreatePurchase", mock.Anything, mock.MatchedBy(func(p models.Purchase) bool {
			return p.OrgID == "org1" && p.UserUID == "u1" && p.PackageID == 3 &&
				p.Amount == 900 && p.UID != ""
		})).Return(11, nil).Once()
		charger.On("CreateCharge", mock.MatchedBy(func(req paymentprovider.CreateChargeRequest) bool {
			return req.Amount == 900 && req.Reference != ""
		})).Return(&paymentprovider.CreateChargeResponse{
			ChargeID:    "ch_1",
			Status:      "pending",
			CheckoutURL: "https://pay.example/ch_1",
		}, nil).Once()

		svc := NewPurchaseService(repo, charger, new(ReceiptsMock), new(BusMock), newNoopLogger())
		got, err := svc.CreatePending(context.Background(), "org1", "u1", 3)
		assert.NoError(t, err)
		assert.Equal(t, 900, got.Amount)
		assert.Equal(t, "https://pay.example/ch_1", got.CheckoutURL)
		assert.NotEmpty(t, got.PurchaseUID)
		repo.AssertExpectations(t)
	})

	t.Run("charge failure marks the purchase failed", func(t *testing.T) {
		repo, charger := new(RepoMock), new(ChargerMock)
		repo.On("GetPackage", mock.Anything, "org1", 3).Return(pkg, nil).Once()
		repo.On("CreatePurchase", mock.Anything, mock.Anything).Return(11, nil).Once()
		charger.On("CreateCharge", mock.Anything).
			Return(nil, errors.New("processor down")).Once()
		repo.On("FailPurchase", mock.Anything, mock.Anything, models.PurchaseStatusFailed).
			Return(nil).Once()

		svc := NewPurchaseService(repo, charger, new(ReceiptsMock), new(BusMock), newNoopLogger())
		_, err := svc.CreatePending(context.Background(), "org1", "u1", 3)
		assert.Error(t, err)
		repo.AssertExpectations(t)
	})
}

func TestPurchaseService_HandleWebhook(t *testing.T) {
	completed := &models.Purchase{UID: "p-uid", OrgID: "org1", UserUID: "u1",
		PackageID: 3, PackageName: "2 Hours", Amount: 900,
		Status: models.PurchaseStatusCompleted}

	t.Run("succeeded credits once and queues receipt", func(t *testing.T) {
		repo, receipts, bus := new(RepoMock), new(ReceiptsMock), new(BusMock)
		repo.On("CompletePurchase", mock.Anything, "p-uid").Return(completed, nil).Once()
		repo.On("GetUser", mock.Anything, "u1").Return(&models.User{
			UID: "u1", FirstName: "Dana", Email: "dana@example.com",
			TimeBalanceSeconds: 7200, PrintBalance: 5,
		}, nil).Once()
		bus.On("Publish", mock.Anything, mock.MatchedBy(func(ev events.Event) bool {
			return ev.Type == events.TypeBalanceUpdated && ev.UserUID == "u1"
		})).Return(nil).Once()
		repo.On("GetPackage", mock.Anything, "org1", 3).Return(pkg, nil).Once()
		receipts.On("PublishReceipt", mock.MatchedBy(func(r models.PurchaseReceipt) bool {
			return r.Email == "dana@example.com" && r.Amount == 900 && r.Minutes == 120
		})).Return(nil).Once()

		svc := NewPurchaseService(repo, new(ChargerMock), receipts, bus, newNoopLogger())
		err := svc.HandleWebhook(context.Background(), paymentprovider.WebhookEvent{
			Reference: "p-uid", Status: "succeeded",
		})
		assert.NoError(t, err)
		receipts.AssertExpectations(t)
		bus.AssertExpectations(t)
	})

	t.Run("replayed delivery is absorbed", func(t *testing.T) {
		repo, receipts, bus := new(RepoMock), new(ReceiptsMock), new(BusMock)
		repo.On("CompletePurchase", mock.Anything, "p-uid").
			Return(nil, repository.ErrPurchaseNotPending).Once()

		svc := NewPurchaseService(repo, new(ChargerMock), receipts, bus, newNoopLogger())
		err := svc.HandleWebhook(context.Background(), paymentprovider.WebhookEvent{
			Reference: "p-uid", Status: "succeeded",
		})
		assert.NoError(t, err)
		bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		receipts.AssertNotCalled(t, "PublishReceipt", mock.Anything)
	})

	t.Run("failed marks the purchase", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("FailPurchase", mock.Anything, "p-uid", models.PurchaseStatusFailed).
			Return(nil).Once()

		svc := NewPurchaseService(repo, new(ChargerMock), new(ReceiptsMock), new(BusMock), newNoopLogger())
		err := svc.HandleWebhook(context.Background(), paymentprovider.WebhookEvent{
			Reference: "p-uid", Status: "failed",
		})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		svc := NewPurchaseService(new(RepoMock), new(ChargerMock), new(ReceiptsMock), new(BusMock), newNoopLogger())
		err := svc.HandleWebhook(context.Background(), paymentprovider.WebhookEvent{
			Reference: "p-uid", Status: "refunded",
		})
		assert.ErrorIs(t, err, ErrUnknownChargeStatus)
	})
}
