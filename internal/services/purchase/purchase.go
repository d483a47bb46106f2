// Package services contains the purchase business logic: opening a pending
// purchase with the card processor, the idempotent webhook completion that
// credits balances, and purchase history.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Danielsio/SIONYX-sub000/internal/events"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
	"github.com/Danielsio/SIONYX-sub000/internal/paymentprovider"
	"github.com/Danielsio/SIONYX-sub000/internal/storage/repository"
)

// ErrUnknownChargeStatus is returned for webhook statuses the service does
// not recognize.
var ErrUnknownChargeStatus = errors.New("unknown charge status")

// PurchaseRepository describes the storage methods the purchase flow needs.
type PurchaseRepository interface {
	GetPackage(ctx context.Context, orgID string, id int) (*models.Package, error)
	CreatePurchase(ctx context.Context, p models.Purchase) (int, error)
	CompletePurchase(ctx context.Context, purchaseUID string) (*models.Purchase, error)
	FailPurchase(ctx context.Context, purchaseUID, status string) error
	ListUserPurchases(ctx context.Context, userUID string, limit, offset int) ([]*models.Purchase, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// ChargeClient opens checkouts with the external processor.
type ChargeClient interface {
	CreateCharge(reqParams paymentprovider.CreateChargeRequest) (*paymentprovider.CreateChargeResponse, error)
}

// ReceiptPublisher queues a purchase receipt email.
type ReceiptPublisher interface {
	PublishReceipt(receipt models.PurchaseReceipt) error
}

// PendingPurchase is what the kiosk needs to continue a purchase.
type PendingPurchase struct {
	PurchaseUID string `json:"purchase_uid"`
	Amount      int    `json:"amount"`
	CheckoutURL string `json:"checkout_url"`
}

// PurchaseService implements the purchase operations.
type PurchaseService struct {
	repo     PurchaseRepository
	charger  ChargeClient
	receipts ReceiptPublisher
	bus      events.Publisher
	log      *slog.Logger
}

// NewPurchaseService creates a new PurchaseService.
func NewPurchaseService(repo PurchaseRepository, charger ChargeClient, receipts ReceiptPublisher, bus events.Publisher, log *slog.Logger) *PurchaseService {
	return &PurchaseService{
		repo:     repo,
		charger:  charger,
		receipts: receipts,
		bus:      bus,
		log:      log,
	}
}

// CreatePending opens a pending purchase for the package and returns the
// processor checkout. The purchase uid doubles as the charge reference.
func (s *PurchaseService) CreatePending(ctx context.Context, orgID, userUID string, packageID int) (*PendingPurchase, error) {
	pkg, err := s.repo.GetPackage(ctx, orgID, packageID)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}

	purchaseUID := uuid.NewString()
	amount := pkg.FinalPrice()
	if _, err := s.repo.CreatePurchase(ctx, models.Purchase{
		UID:         purchaseUID,
		OrgID:       orgID,
		UserUID:     userUID,
		PackageID:   pkg.ID,
		PackageName: pkg.Name,
		Amount:      amount,
	}); err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}

	charge, err := s.charger.CreateCharge(paymentprovider.CreateChargeRequest{
		Amount:      amount,
		Currency:    "ILS",
		Description: pkg.Name,
		Reference:   purchaseUID,
	})
	if err != nil {
		if failErr := s.repo.FailPurchase(ctx, purchaseUID, models.PurchaseStatusFailed); failErr != nil {
			s.log.Error("failed to mark purchase failed", sl.Err(failErr))
		}
		return nil, fmt.Errorf("create charge: %w", err)
	}

	s.log.Info("pending purchase created",
		slog.String("purchase_uid", purchaseUID),
		slog.String("user_uid", userUID),
		slog.Int("amount", amount))
	return &PendingPurchase{
		PurchaseUID: purchaseUID,
		Amount:      amount,
		CheckoutURL: charge.CheckoutURL,
	}, nil
}

// HandleWebhook applies a terminal charge status. "succeeded" completes the
// purchase and credits the balances exactly once; "failed"/"canceled" mark
// it accordingly. Repeat deliveries are absorbed silently.
func (s *PurchaseService) HandleWebhook(ctx context.Context, event paymentprovider.WebhookEvent) error {
	switch event.Status {
	case "succeeded":
		purchase, err := s.repo.CompletePurchase(ctx, event.Reference)
		if errors.Is(err, repository.ErrPurchaseNotPending) {
			s.log.Info("webhook replay ignored", slog.String("purchase_uid", event.Reference))
			return nil
		}
		if err != nil {
			return err
		}
		s.afterCompletion(ctx, purchase)
		return nil
	case "failed":
		return s.absorbNotPending(s.repo.FailPurchase(ctx, event.Reference, models.PurchaseStatusFailed))
	case "canceled":
		return s.absorbNotPending(s.repo.FailPurchase(ctx, event.Reference, models.PurchaseStatusCanceled))
	default:
		return fmt.Errorf("%w: %s", ErrUnknownChargeStatus, event.Status)
	}
}

// History returns the user's purchase history, newest first.
func (s *PurchaseService) History(ctx context.Context, userUID string, limit, offset int) ([]*models.Purchase, error) {
	return s.repo.ListUserPurchases(ctx, userUID, limit, offset)
}

func (s *PurchaseService) absorbNotPending(err error) error {
	if errors.Is(err, repository.ErrPurchaseNotPending) {
		return nil
	}
	return err
}

func (s *PurchaseService) afterCompletion(ctx context.Context, purchase *models.Purchase) {
	user, err := s.repo.GetUser(ctx, purchase.UserUID)
	if err != nil {
		s.log.Error("failed to load buyer after completion", sl.Err(err))
		return
	}

	ev, err := events.NewEvent(events.TypeBalanceUpdated, purchase.OrgID, purchase.UserUID, map[string]any{
		"time_balance_seconds": user.TimeBalanceSeconds,
		"print_balance":        user.PrintBalance,
	})
	if err == nil {
		if err := s.bus.Publish(ctx, ev); err != nil {
			s.log.Warn("failed to publish balance event", sl.Err(err))
		}
	}

	if user.Email == "" {
		return
	}
	pkg, err := s.repo.GetPackage(ctx, purchase.OrgID, purchase.PackageID)
	if err != nil {
		s.log.Warn("failed to load package for receipt", sl.Err(err))
		return
	}
	if err := s.receipts.PublishReceipt(models.PurchaseReceipt{
		Email:       user.Email,
		FullName:    user.FullName(),
		PackageName: purchase.PackageName,
		Amount:      purchase.Amount,
		Minutes:     pkg.Minutes,
		Prints:      pkg.Prints,
	}); err != nil {
		s.log.Warn("failed to queue receipt", sl.Err(err))
	}
}
