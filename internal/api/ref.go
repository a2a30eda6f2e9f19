package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"affiliate-backend/internal/affiliate"
)

type PaginatedRef struct {
	Count    int                  `json:"count"`
	Next     string               `json:"next"`
	Previous string               `json:"previous"`
	Results  []affiliate.Referral `json:"results"`
}

// GetReferrals godoc
// @Summary List referral edges for a referrer
// @Tags referrals
// @Produce json
// @Success 200 {object} PaginatedRef
// @Router /members/{id}/referrals [get]
func GetReferrals(c *gin.Context) {
	app := c.MustGet("app").(*affiliate.App)
	id, ok := memberIdParam(c)
	if !ok {
		return
	}
	page, size, ok := pageParams(c)
	if !ok {
		return
	}
	referrals, err := app.Svc.Referrals(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, paginateRef(referrals, id, page, size))
}

func paginateRef(referrals []affiliate.Referral, memberId uint, page int, size int) (paginatedRef PaginatedRef) {
	paginatedRef.Results = []affiliate.Referral{}
	paginatedRef.Count = len(referrals)
	start := (page - 1) * size
	if start >= len(referrals) {
		return paginatedRef
	}
	end := start + size
	if end > len(referrals) {
		end = len(referrals)
	}
	if end < len(referrals) {
		paginatedRef.Next = fmt.Sprintf("/members/%d/referrals?page=%d&size=%d", memberId, page+1, size)
	}
	if page > 1 {
		paginatedRef.Previous = fmt.Sprintf("/members/%d/referrals?page=%d&size=%d", memberId, page-1, size)
	}
	paginatedRef.Results = referrals[start:end]
	return paginatedRef
}
