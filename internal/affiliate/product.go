package affiliate

import (
	"time"

	"github.com/shopspring/decimal"
)

type DigitalProduct struct {
	Id          uint            `json:"id" gorm:"primarykey"`
	CreatedAt   time.Time       `json:"created_at"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	DownloadUrl string          `json:"download_url"`
	IsActive    bool            `json:"is_active" gorm:"not null;default:true"`
}
