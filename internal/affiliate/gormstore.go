package affiliate

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStore persists through gorm/postgres. setupDb enables TranslateError so
// unique index violations arrive as gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: duplicate key", ErrConflict)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (g *GormStore) CreateMember(m *Member) error {
	return storeErr(g.db.Create(m).Error)
}

func (g *GormStore) SaveMember(m *Member) error {
	return storeErr(g.db.Save(m).Error)
}

func (g *GormStore) MemberByID(id uint) (*Member, error) {
	var m Member
	if err := g.db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, storeErr(err)
	}
	return &m, nil
}

func (g *GormStore) MemberByEmail(email string) (*Member, error) {
	var m Member
	if err := g.db.Where("email = ?", email).First(&m).Error; err != nil {
		return nil, storeErr(err)
	}
	return &m, nil
}

func (g *GormStore) MemberByLink(link string) (*Member, error) {
	var m Member
	if err := g.db.Where("unique_link = ?", link).First(&m).Error; err != nil {
		return nil, storeErr(err)
	}
	return &m, nil
}

func (g *GormStore) CreateReferral(r *Referral) error {
	return storeErr(g.db.Create(r).Error)
}

func (g *GormStore) ReferralsByReferrer(referrerId uint) ([]Referral, error) {
	var referrals []Referral
	err := g.db.Where("referrer_id = ?", referrerId).
		Order("created_at DESC").
		Find(&referrals).Error
	return referrals, storeErr(err)
}

func (g *GormStore) CountReferrals(referrerId uint) (int64, error) {
	var n int64
	err := g.db.Model(&Referral{}).
		Where("referrer_id = ?", referrerId).
		Count(&n).Error
	return n, storeErr(err)
}

func (g *GormStore) CountActiveReferrals(referrerId uint) (int64, error) {
	var n int64
	err := g.db.Model(&Referral{}).
		Joins("JOIN members ON members.id = referrals.referred_member_id").
		Where("referrals.referrer_id = ? AND members.is_active = ?", referrerId, true).
		Count(&n).Error
	return n, storeErr(err)
}

func (g *GormStore) CreatePurchase(p *PurchaseEvent) error {
	return storeErr(g.db.Create(p).Error)
}

func (g *GormStore) SumCompletedReferredPurchases(referrerId uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := g.db.Model(&PurchaseEvent{}).
		Select("COALESCE(SUM(purchase_events.amount), 0)").
		Joins("JOIN referrals ON referrals.referred_member_id = purchase_events.member_id").
		Where("referrals.referrer_id = ? AND purchase_events.status = ?", referrerId, PurchaseCompleted).
		Scan(&total).Error
	return total, storeErr(err)
}

func (g *GormStore) CreateNotification(n *NotificationLog) error {
	return storeErr(g.db.Create(n).Error)
}

func (g *GormStore) NotificationsByMember(memberId uint) ([]NotificationLog, error) {
	var logs []NotificationLog
	err := g.db.Where("member_id = ?", memberId).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, storeErr(err)
}

func (g *GormStore) CreateProduct(p *DigitalProduct) error {
	return storeErr(g.db.Create(p).Error)
}

func (g *GormStore) ActiveProducts() ([]DigitalProduct, error) {
	var products []DigitalProduct
	err := g.db.Where("is_active = ?", true).Find(&products).Error
	return products, storeErr(err)
}
