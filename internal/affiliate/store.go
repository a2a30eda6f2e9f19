package affiliate

import "github.com/shopspring/decimal"

// Store is the persistence contract the service runs on. The production
// implementation is GormStore; MemStore backs tests and local development.
// Lookup misses surface as ErrNotFound, uniqueness violations as ErrConflict.
type Store interface {
	CreateMember(m *Member) error
	SaveMember(m *Member) error
	MemberByID(id uint) (*Member, error)
	MemberByEmail(email string) (*Member, error)
	MemberByLink(link string) (*Member, error)

	CreateReferral(r *Referral) error
	ReferralsByReferrer(referrerId uint) ([]Referral, error)
	CountReferrals(referrerId uint) (int64, error)
	CountActiveReferrals(referrerId uint) (int64, error)

	CreatePurchase(p *PurchaseEvent) error
	SumCompletedReferredPurchases(referrerId uint) (decimal.Decimal, error)

	CreateNotification(n *NotificationLog) error
	NotificationsByMember(memberId uint) ([]NotificationLog, error)

	CreateProduct(p *DigitalProduct) error
	ActiveProducts() ([]DigitalProduct, error)
}
