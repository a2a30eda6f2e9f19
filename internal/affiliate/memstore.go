package affiliate

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemStore is an in-memory Store with the same uniqueness semantics as the
// postgres schema. It backs the test suite and local development without a
// database.
type MemStore struct {
	mu            sync.Mutex
	members       map[uint]*Member
	referrals     []Referral
	purchases     []PurchaseEvent
	notifications []NotificationLog
	products      []DigitalProduct
	memberSeq     uint
	referralSeq   uint
	purchaseSeq   uint
	notifSeq      uint
	productSeq    uint
}

func NewMemStore() *MemStore {
	return &MemStore{members: map[uint]*Member{}}
}

func (s *MemStore) CreateMember(m *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.members {
		if other.Email == m.Email {
			return fmt.Errorf("%w: email %s", ErrConflict, m.Email)
		}
		if other.UniqueLink == m.UniqueLink {
			return fmt.Errorf("%w: unique_link %s", ErrConflict, m.UniqueLink)
		}
	}
	s.memberSeq++
	m.Id = s.memberSeq
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	clone := *m
	s.members[m.Id] = &clone
	return nil
}

func (s *MemStore) SaveMember(m *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[m.Id]; !ok {
		return ErrNotFound
	}
	m.UpdatedAt = time.Now()
	clone := *m
	s.members[m.Id] = &clone
	return nil
}

func (s *MemStore) MemberByID(id uint) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *m
	return &clone, nil
}

func (s *MemStore) MemberByEmail(email string) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.Email == email {
			clone := *m
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) MemberByLink(link string) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.UniqueLink == link {
			clone := *m
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) CreateReferral(r *Referral) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.referrals {
		if other.ReferredMemberId == r.ReferredMemberId {
			return fmt.Errorf("%w: referral for member %d", ErrConflict, r.ReferredMemberId)
		}
	}
	s.referralSeq++
	r.Id = s.referralSeq
	r.CreatedAt = time.Now()
	s.referrals = append(s.referrals, *r)
	return nil
}

func (s *MemStore) ReferralsByReferrer(referrerId uint) ([]Referral, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Referral
	for _, r := range s.referrals {
		if r.ReferrerId == referrerId {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id > out[j].Id })
	return out, nil
}

func (s *MemStore) CountReferrals(referrerId uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.referrals {
		if r.ReferrerId == referrerId {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) CountActiveReferrals(referrerId uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.referrals {
		if r.ReferrerId != referrerId {
			continue
		}
		if m, ok := s.members[r.ReferredMemberId]; ok && m.IsActive {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) CreatePurchase(p *PurchaseEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchaseSeq++
	p.Id = s.purchaseSeq
	p.CreatedAt = time.Now()
	s.purchases = append(s.purchases, *p)
	return nil
}

// SetPurchaseStatus stands in for the external payment collaborator that
// drives pending -> completed.
func (s *MemStore) SetPurchaseStatus(id uint, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.purchases {
		if s.purchases[i].Id == id {
			s.purchases[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) SumCompletedReferredPurchases(referrerId uint) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	referred := map[uint]bool{}
	for _, r := range s.referrals {
		if r.ReferrerId == referrerId {
			referred[r.ReferredMemberId] = true
		}
	}
	total := decimal.Zero
	for _, p := range s.purchases {
		if p.Status == PurchaseCompleted && referred[p.MemberId] {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (s *MemStore) CreateNotification(n *NotificationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifSeq++
	n.Id = s.notifSeq
	n.CreatedAt = time.Now()
	s.notifications = append(s.notifications, *n)
	return nil
}

func (s *MemStore) NotificationsByMember(memberId uint) ([]NotificationLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []NotificationLog
	for _, n := range s.notifications {
		if n.MemberId == memberId {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id > out[j].Id })
	return out, nil
}

func (s *MemStore) CreateProduct(p *DigitalProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productSeq++
	p.Id = s.productSeq
	p.CreatedAt = time.Now()
	s.products = append(s.products, *p)
	return nil
}

func (s *MemStore) ActiveProducts() ([]DigitalProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []DigitalProduct
	for _, p := range s.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}
