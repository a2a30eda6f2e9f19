package affiliate

import (
	"time"

	"github.com/dchest/uniuri"
)

type Member struct {
	Id             uint      `json:"id" gorm:"primarykey"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	FullName       string    `json:"full_name" gorm:"not null"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	WhatsappNumber string    `json:"whatsapp_number" gorm:"not null"`
	Address        string    `json:"address" gorm:"not null"`
	ReferrerId     *uint     `json:"referrer_id"` // set once at registration, never updated
	UniqueLink     string    `json:"unique_link" gorm:"uniqueIndex;not null"`
	IsActive       bool      `json:"is_active" gorm:"not null;default:true"`
}

const linkChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewUniqueLink returns a candidate affiliate link token. Uniqueness is owned
// by the members.unique_link index; callers regenerate on conflict.
func NewUniqueLink() string {
	return uniuri.NewLenChars(8, []byte(linkChars))
}
