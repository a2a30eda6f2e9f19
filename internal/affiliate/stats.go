package affiliate

import "github.com/shopspring/decimal"

// Referrers earn 10% of every completed purchase made by members they
// referred. Fixed policy, not configuration.
var commissionRate = decimal.NewFromFloat(0.10)

type MemberStats struct {
	TotalReferrals  int64           `json:"total_referrals"`
	ActiveReferrals int64           `json:"active_referrals"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
}

// MemberStats aggregates the referrer's dashboard numbers. Earnings are summed
// in full precision and rounded to cents once, at the reporting edge. A member
// with no referrals or no completed referred purchases gets zeros, not an
// error.
func (s *Service) MemberStats(referrerId uint) (MemberStats, error) {
	total, err := s.store.CountReferrals(referrerId)
	if err != nil {
		return MemberStats{}, err
	}
	active, err := s.store.CountActiveReferrals(referrerId)
	if err != nil {
		return MemberStats{}, err
	}
	sum, err := s.store.SumCompletedReferredPurchases(referrerId)
	if err != nil {
		return MemberStats{}, err
	}
	return MemberStats{
		TotalReferrals:  total,
		ActiveReferrals: active,
		TotalEarnings:   sum.Mul(commissionRate).Round(2),
	}, nil
}
