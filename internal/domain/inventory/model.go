package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("inventory item not found")
	ErrInvalid  = errors.New("invalid inventory item")
)

// DefaultExpiryWindow is the number of days ahead that counts as expiring soon.
const DefaultExpiryWindow = 30

type Item struct {
	ID                uuid.UUID `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Quantity          int       `db:"quantity" json:"quantity"`
	Unit              string    `db:"unit" json:"unit"`
	ExpiryDate        *Date     `db:"expiry_date" json:"expiry_date,omitempty"`
	LowStockThreshold int       `db:"low_stock_threshold" json:"low_stock_threshold"`
	Cost              float64   `db:"cost" json:"cost"`
	Supplier          *string   `db:"supplier" json:"supplier,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// IsLowStock reports whether the quantity is at or below the threshold.
func (it *Item) IsLowStock() bool {
	return it.Quantity <= it.LowStockThreshold
}

// DaysUntilExpiry counts calendar days from now's date to the expiry date.
// ok is false for items without an expiry date.
func (it *Item) DaysUntilExpiry(now time.Time) (days int, ok bool) {
	if it.ExpiryDate == nil || it.ExpiryDate.IsZero() {
		return 0, false
	}
	return it.ExpiryDate.DaysSince(DateOf(now)), true
}

// IsExpiringSoon reports whether the item expires within window days,
// including today. Already expired items are not expiring soon.
func (it *Item) IsExpiringSoon(now time.Time, window int) bool {
	days, ok := it.DaysUntilExpiry(now)
	return ok && days >= 0 && days <= window
}

// Expiring pairs an item with the days it has left.
type Expiring struct {
	Item          *Item `json:"item"`
	DaysRemaining int   `json:"days_remaining"`
}

// Alerts is the stock warning summary shown to inventory staff.
type Alerts struct {
	LowStock     []*Item    `json:"low_stock"`
	ExpiringSoon []Expiring `json:"expiring_soon"`
}

// BuildAlerts classifies items, keeping their input order.
func BuildAlerts(items []*Item, now time.Time, window int) Alerts {
	a := Alerts{LowStock: []*Item{}, ExpiringSoon: []Expiring{}}
	for _, it := range items {
		if it.IsLowStock() {
			a.LowStock = append(a.LowStock, it)
		}
		if it.IsExpiringSoon(now, window) {
			days, _ := it.DaysUntilExpiry(now)
			a.ExpiringSoon = append(a.ExpiringSoon, Expiring{Item: it, DaysRemaining: days})
		}
	}
	return a
}
