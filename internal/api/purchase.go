package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"affiliate-backend/internal/affiliate"
)

// CreatePurchase godoc
// @Summary Record a purchase event for a member
// @Tags purchases
// @Accept json
// @Produce json
// @Success 201 {object} affiliate.PurchaseEvent
// @Router /purchases [post]
func CreatePurchase(c *gin.Context) {
	app := c.MustGet("app").(*affiliate.App)
	var in affiliate.CreatePurchaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Amount positivity is this boundary's contract; the service trusts it.
	if !in.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}
	event, err := app.Svc.RecordPurchase(in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}
