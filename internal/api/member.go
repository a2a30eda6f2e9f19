package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"affiliate-backend/internal/affiliate"
)

// RegisterMember godoc
// @Summary Register a member, optionally through a referrer's affiliate link
// @Tags members
// @Accept json
// @Produce json
// @Success 201 {object} affiliate.Member
// @Router /members [post]
func RegisterMember(c *gin.Context) {
	app := c.MustGet("app").(*affiliate.App)
	var in affiliate.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	member, err := app.Svc.Register(in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func GetMember(c *gin.Context) {
	app := c.MustGet("app").(*affiliate.App)
	id, ok := memberIdParam(c)
	if !ok {
		return
	}
	member, err := app.Svc.MemberByID(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func GetMemberByLink(c *gin.Context) {
	app := c.MustGet("app").(*affiliate.App)
	link := c.Param("link")
	member, err := app.Svc.MemberByLink(link)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func GetMemberStats(c *gin.Context) {
	app := c.MustGet("app").(*affiliate.App)
	id, ok := memberIdParam(c)
	if !ok {
		return
	}
	stats, err := app.Svc.MemberStats(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type activeParams struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func SetMemberActive(c *gin.Context) {
	app := c.MustGet("app").(*affiliate.App)
	id, ok := memberIdParam(c)
	if !ok {
		return
	}
	var params activeParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	member, err := app.Svc.SetMemberActive(id, *params.IsActive)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}
