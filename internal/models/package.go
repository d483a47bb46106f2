package models

// Package is a purchasable bundle of computer time and print credit.
// Price is stored in the smallest currency unit (agorot/cents).
type Package struct {
	ID              int
	OrgID           string
	Name            string
	Price           int
	DiscountPercent int
	Minutes         int
	Prints          int
	IsActive        bool
}

// FinalPrice applies the package discount to the list price.
func (p *Package) FinalPrice() int {
	return p.Price * (100 - p.DiscountPercent) / 100
}

// PackageView is the JSON shape of a package returned by the API.
type PackageView struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Price           int    `json:"price"`
	DiscountPercent int    `json:"discount_percent"`
	FinalPrice      int    `json:"final_price"`
	Minutes         int    `json:"minutes"`
	Prints          int    `json:"prints"`
}

// NewPackageView converts a stored package to its API shape.
func NewPackageView(p *Package) PackageView {
	return PackageView{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
		FinalPrice:      p.FinalPrice(),
		Minutes:         p.Minutes,
		Prints:          p.Prints,
	}
}

// DummyPackage receives package data from an admin JSON request before it
// is converted to a Package.
type DummyPackage struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Price           int    `json:"price" validate:"required,gt=0"`
	DiscountPercent int    `json:"discount_percent" validate:"gte=0,lte=100"`
	Minutes         int    `json:"minutes" validate:"required,gt=0"`
	Prints          int    `json:"prints" validate:"gte=0"`
}
