package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"affiliate-backend/internal/affiliate"
)

type sendNotificationParams struct {
	MemberId       uint   `json:"member_id" binding:"required"`
	Type           string `json:"type" binding:"required,oneof=email whatsapp"`
	EventType      string `json:"event_type" binding:"required,oneof=welcome purchase_confirmation referral_notification"`
	MessageContent string `json:"message_content" binding:"required"`
}

// SendNotification godoc
// @Summary Attempt delivery on one channel and record the outcome
// @Tags notifications
// @Accept json
// @Produce json
// @Success 201 {object} affiliate.NotificationLog
// @Router /notifications [post]
func SendNotification(c *gin.Context) {
	app := c.MustGet("app").(*affiliate.App)
	var params sendNotificationParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, err := app.Svc.Dispatch(params.MemberId, params.Type, params.EventType, params.MessageContent)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

type PaginatedLogs struct {
	Count    int                         `json:"count"`
	Next     string                      `json:"next"`
	Previous string                      `json:"previous"`
	Results  []affiliate.NotificationLog `json:"results"`
}

// GetNotificationLogs returns a member's notification history newest-first.
func GetNotificationLogs(c *gin.Context) {
	app := c.MustGet("app").(*affiliate.App)
	id, ok := memberIdParam(c)
	if !ok {
		return
	}
	page, size, ok := pageParams(c)
	if !ok {
		return
	}
	logs, err := app.Svc.NotificationLogs(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, paginateLogs(logs, id, page, size))
}

func paginateLogs(logs []affiliate.NotificationLog, memberId uint, page int, size int) (paginated PaginatedLogs) {
	paginated.Results = []affiliate.NotificationLog{}
	paginated.Count = len(logs)
	start := (page - 1) * size
	if start >= len(logs) {
		return paginated
	}
	end := start + size
	if end > len(logs) {
		end = len(logs)
	}
	if end < len(logs) {
		paginated.Next = fmt.Sprintf("/members/%d/notifications?page=%d&size=%d", memberId, page+1, size)
	}
	if page > 1 {
		paginated.Previous = fmt.Sprintf("/members/%d/notifications?page=%d&size=%d", memberId, page-1, size)
	}
	paginated.Results = logs[start:end]
	return paginated
}
