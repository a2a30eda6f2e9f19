package affiliate

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase event lifecycle. Events are created pending; the transition to
// completed is driven by the payment side, not by this service. Commission is
// computed over completed events only.
const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
	PurchaseFailed    = "failed"
)

type PurchaseEvent struct {
	Id          uint            `json:"id" gorm:"primarykey"`
	CreatedAt   time.Time       `json:"created_at"`
	MemberId    uint            `json:"member_id" gorm:"index;not null"`
	ProductName string          `json:"product_name" gorm:"not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(10,2);not null"`
	Status      string          `json:"status" gorm:"not null;default:pending"`
}
