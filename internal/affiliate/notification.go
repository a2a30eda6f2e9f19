package affiliate

import "time"

const (
	ChannelEmail    = "email"
	ChannelWhatsapp = "whatsapp"
)

const (
	EventWelcome              = "welcome"
	EventPurchaseConfirmation = "purchase_confirmation"
	EventReferralAlert        = "referral_notification"
)

const (
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationPending = "pending"
)

// Channels lists every delivery channel a dispatchBoth fan-out covers.
var Channels = []string{ChannelEmail, ChannelWhatsapp}

// Sender delivers one message to one destination. Implementations live in
// internal/notify; a failed send is reported through the error and recorded
// on the notification log, never propagated to the business operation.
type Sender interface {
	Send(destination string, content string) error
}

// NotificationLog is an append-only record of a delivery attempt. Status is
// fixed at send time and never revised.
type NotificationLog struct {
	Id             uint       `json:"id" gorm:"primarykey"`
	CreatedAt      time.Time  `json:"created_at"`
	MemberId       uint       `json:"member_id" gorm:"index;not null"`
	Type           string     `json:"type" gorm:"not null"`
	EventType      string     `json:"event_type" gorm:"not null"`
	Status         string     `json:"status" gorm:"not null;default:pending"`
	MessageContent string     `json:"message_content"`
	SentAt         *time.Time `json:"sent_at"`
}

// WsEvent is the payload published to notification_ch@{member_id} so websocket
// clients see new notifications in realtime.
type WsEvent struct {
	Target string          `json:"target"`
	Data   NotificationLog `json:"data"`
}

const WsTargetNotification = "notify"
