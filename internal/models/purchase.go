package models

import "time"

// Purchase statuses. A purchase is created pending and moves to exactly one
// of the terminal statuses; the balance is credited on the pending→completed
// transition only.
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusFailed    = "failed"
	PurchaseStatusCanceled  = "canceled"
)

// Purchase is one attempt by a user to buy a package.
type Purchase struct {
	ID          int
	UID         string // Idempotency key shared with the payment provider
	OrgID       string
	UserUID     string
	PackageID   int
	PackageName string
	Amount      int // Charged amount after discount, smallest currency unit
	Status      string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// PurchaseView is the JSON shape of a purchase returned by the API.
type PurchaseView struct {
	UID         string     `json:"uid"`
	PackageName string     `json:"package_name"`
	Amount      int        `json:"amount"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewPurchaseView converts a stored purchase to its API shape.
func NewPurchaseView(p *Purchase) PurchaseView {
	return PurchaseView{
		UID:         p.UID,
		PackageName: p.PackageName,
		Amount:      p.Amount,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		CompletedAt: p.CompletedAt,
	}
}

// PurchaseReceipt is the payload queued for the notification sender after a
// purchase completes.
type PurchaseReceipt struct {
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	PackageName string `json:"package_name"`
	Amount      int    `json:"amount"`
	Minutes     int    `json:"minutes"`
	Prints      int    `json:"prints"`
}
