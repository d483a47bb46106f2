package models

// Org holds organization metadata presented to kiosk users and managed
// by the admin dashboard.
type Org struct {
	ID             string
	Name           string
	ContactPhone   string
	ContactEmail   string
	OperatingHours string // Week schedule, see lib/hours for the format
}

// AdminContact is the public contact card returned to kiosk clients.
type AdminContact struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	OrgName string `json:"org_name"`
}

// PrintPricing is the per-page pricing an organization charges for prints,
// in the smallest currency unit.
type PrintPricing struct {
	BlackWhite int `json:"black_white" validate:"gte=0"`
	Color      int `json:"color" validate:"gte=0"`
}

// OrgStats is the aggregate snapshot shown on the admin overview page.
type OrgStats struct {
	TotalUsers     int `json:"total_users"`
	ActiveSessions int `json:"active_sessions"`
	UnreadMessages int `json:"unread_messages"`
	PurchasesToday int `json:"purchases_today"`
	RevenueToday   int `json:"revenue_today"`
}
