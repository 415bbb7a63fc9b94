package domain

import "math"

// Order lifecycle statuses. Any status may be set from any other via the
// admin console; only the move into StatusCancelled has side effects.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Review moderation statuses.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

type Product struct {
	ID            string   `db:"id"`
	Name          string   `db:"name"`
	Description   string   `db:"description"`
	Category      string   `db:"category"`
	Price         float64  `db:"price"`
	DiscountPrice *float64 `db:"discount_price"`
	ImageURL      string   `db:"image_url"`
	Stock         int      `db:"stock"`
	Active        bool     `db:"active"`
	CreatedAt     string   `db:"created_at"`
	UpdatedAt     string   `db:"updated_at"`
}

// OnSale reports whether a discount price is set below the list price.
func (p Product) OnSale() bool {
	return p.DiscountPrice != nil && *p.DiscountPrice > 0 && *p.DiscountPrice < p.Price
}

// EffectivePrice is what the customer actually pays: the discount price
// when one is set, the list price otherwise.
func (p Product) EffectivePrice() float64 {
	if p.OnSale() {
		return *p.DiscountPrice
	}
	return p.Price
}

// PercentOff is the rounded discount percentage shown on sale badges.
func (p Product) PercentOff() int {
	if !p.OnSale() || p.Price == 0 {
		return 0
	}
	return int(math.Round((p.Price - *p.DiscountPrice) / p.Price * 100))
}

func (p Product) InStock() bool { return p.Stock > 0 }

type ProductImage struct {
	ID           string `db:"id"`
	ProductID    string `db:"product_id"`
	ImageURL     string `db:"image_url"`
	DisplayOrder int    `db:"display_order"`
	CreatedAt    string `db:"created_at"`
}

type Order struct {
	ID              string  `db:"id"`
	SessionID       string  `db:"session_id"`
	UserID          string  `db:"user_id"`
	CustomerName    string  `db:"customer_name"`
	CustomerEmail   string  `db:"customer_email"`
	CustomerPhone   string  `db:"customer_phone"`
	ShippingAddress string  `db:"shipping_address"`
	TotalAmount     float64 `db:"total_amount"`
	Status          string  `db:"status"`
	CreatedAt       string  `db:"created_at"`
}

type OrderItem struct {
	OrderID   string  `db:"order_id"`
	ProductID string  `db:"product_id"`
	Quantity  int     `db:"quantity"`
	Price     float64 `db:"price"` // unit price snapshot at purchase time
}

type Review struct {
	ID        string `db:"id"`
	ProductID string `db:"product_id"`
	UserID    string `db:"user_id"`
	OrderID   string `db:"order_id"`
	Rating    int    `db:"rating"`
	Comment   string `db:"comment"`
	Status    string `db:"status"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// ReviewSummary aggregates the approved reviews of one product.
type ReviewSummary struct {
	Average   float64
	Total     int
	Histogram [5]int // Histogram[0] counts 1-star, Histogram[4] counts 5-star
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}

// ValidOrderStatus reports whether s is one of the five order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}
