package affiliate

import "time"

// Referral is an immutable fact that one member referred another. Written
// exactly once, when the referred member registers through an affiliate link.
// The unique index on ReferredMemberId enforces at most one inbound edge.
type Referral struct {
	Id               uint      `json:"id" gorm:"primarykey"`
	CreatedAt        time.Time `json:"created_at"`
	ReferrerId       uint      `json:"referrer_id" gorm:"index;not null"`
	ReferredMemberId uint      `json:"referred_member_id" gorm:"uniqueIndex;not null"`
}
