package affiliate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"affiliate-backend/internal/app"
	"affiliate-backend/internal/logging"
	"affiliate-backend/internal/telegram"
)

var ctx = context.Background()

// How many times registration regenerates the affiliate link after a
// uniqueness collision before giving up.
const linkAttempts = 5

type Service struct {
	store   Store
	senders map[string]Sender
	rdb     *redis.Client // optional realtime feed, nil disables publishing
}

func NewService(store Store, senders map[string]Sender, rdb *redis.Client) *Service {
	return &Service{
		store:   store,
		senders: senders,
		rdb:     rdb,
	}
}

type RegisterInput struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	WhatsappNumber string `json:"whatsapp_number" binding:"required,min=10"`
	Address        string `json:"address" binding:"required"`
	ReferrerLink   string `json:"referrer_link"`
}

// Register creates a member, records the referral edge when the referrer link
// resolves, and fans out welcome plus referral-alert notifications. A link
// that resolves to nobody is not an error: a stale affiliate link must never
// block a signup.
func (s *Service) Register(in RegisterInput) (*Member, error) {
	if err := validateRegister(in); err != nil {
		return nil, err
	}
	var referrer *Member
	if in.ReferrerLink != "" {
		m, err := s.store.MemberByLink(in.ReferrerLink)
		if err == nil {
			referrer = m
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	if _, err := s.store.MemberByEmail(in.Email); err == nil {
		return nil, fmt.Errorf("%w: email %s is already registered", ErrConflict, in.Email)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	member := &Member{
		FullName:       in.FullName,
		Email:          in.Email,
		WhatsappNumber: in.WhatsappNumber,
		Address:        in.Address,
		IsActive:       true,
	}
	if referrer != nil {
		id := referrer.Id
		member.ReferrerId = &id
	}
	for attempt := 1; ; attempt++ {
		member.UniqueLink = NewUniqueLink()
		err := s.store.CreateMember(member)
		if err == nil {
			break
		}
		// Regenerate on a link collision; a lost race on the email index
		// lands here too and surfaces as the conflict it is.
		if errors.Is(err, ErrConflict) && attempt < linkAttempts {
			continue
		}
		return nil, err
	}
	if referrer != nil {
		edge := &Referral{ReferrerId: referrer.Id, ReferredMemberId: member.Id}
		if err := s.store.CreateReferral(edge); err != nil {
			// The member is already durable; per the consistency model we do
			// not compensate, only record the gap.
			logging.Logger.Error(fmt.Sprintf("referral edge for member %d not recorded: %v", member.Id, err))
		}
	}
	s.DispatchBoth(member.Id, EventWelcome, welcomeMessages(member.FullName, member.UniqueLink))
	if referrer != nil {
		s.DispatchBoth(referrer.Id, EventReferralAlert, referralJoinedMessages(member.FullName))
	}
	s.signupAlert(member)
	return member, nil
}

func validateRegister(in RegisterInput) error {
	if strings.TrimSpace(in.FullName) == "" {
		return fmt.Errorf("%w: full_name is required", ErrValidation)
	}
	if !strings.Contains(in.Email, "@") {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if len(in.WhatsappNumber) < 10 {
		return fmt.Errorf("%w: whatsapp_number must be at least 10 digits", ErrValidation)
	}
	if strings.TrimSpace(in.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrValidation)
	}
	return nil
}

func (s *Service) MemberByID(id uint) (*Member, error) {
	return s.store.MemberByID(id)
}

func (s *Service) MemberByLink(link string) (*Member, error) {
	return s.store.MemberByLink(link)
}

// SetMemberActive flips the active flag. Active-referral counts reflect this
// immediately since they join against current member state.
func (s *Service) SetMemberActive(id uint, active bool) (*Member, error) {
	member, err := s.store.MemberByID(id)
	if err != nil {
		return nil, err
	}
	member.IsActive = active
	if err := s.store.SaveMember(member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *Service) Referrals(referrerId uint) ([]Referral, error) {
	return s.store.ReferralsByReferrer(referrerId)
}

type CreatePurchaseInput struct {
	MemberId    uint            `json:"member_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

// RecordPurchase stores a pending purchase event and fans out the purchase
// confirmation, plus a referral alert when the buyer was referred. The member
// lookup is the only failure point before side effects; amount positivity is
// the transport contract's job.
func (s *Service) RecordPurchase(in CreatePurchaseInput) (*PurchaseEvent, error) {
	member, err := s.store.MemberByID(in.MemberId)
	if err != nil {
		return nil, err
	}
	event := &PurchaseEvent{
		MemberId:    in.MemberId,
		ProductName: in.ProductName,
		Amount:      in.Amount,
		Status:      PurchasePending,
	}
	if err := s.store.CreatePurchase(event); err != nil {
		return nil, err
	}
	s.DispatchBoth(member.Id, EventPurchaseConfirmation, purchaseConfirmedMessages(in.ProductName, in.Amount))
	if member.ReferrerId != nil {
		s.DispatchBoth(*member.ReferrerId, EventReferralAlert, referralPurchasedMessages(member.FullName, in.ProductName, in.Amount))
	}
	s.purchaseAlert(member, event)
	return event, nil
}

// Dispatch attempts delivery on one channel and records the outcome. Delivery
// failure is logged on the record, never returned: the triggering business
// event is complete once its own row is stored.
func (s *Service) Dispatch(memberId uint, channel string, eventType string, content string) (*NotificationLog, error) {
	member, err := s.store.MemberByID(memberId)
	if err != nil {
		return nil, err
	}
	sender, ok := s.senders[channel]
	if !ok {
		return nil, fmt.Errorf("%w: unknown channel %q", ErrValidation, channel)
	}
	destination := member.Email
	if channel == ChannelWhatsapp {
		destination = member.WhatsappNumber
	}
	record := &NotificationLog{
		MemberId:       memberId,
		Type:           channel,
		EventType:      eventType,
		MessageContent: content,
	}
	if err := sender.Send(destination, content); err != nil {
		record.Status = NotificationFailed
		logging.Logger.Error(fmt.Sprintf("%s delivery to member %d failed: %v", channel, memberId, err))
	} else {
		now := time.Now()
		record.Status = NotificationSent
		record.SentAt = &now
	}
	if err := s.store.CreateNotification(record); err != nil {
		return nil, err
	}
	s.publish(record)
	return record, nil
}

// DispatchBoth sends one message per channel. The two sends are independent:
// a failure on one channel neither stops nor fails the other.
func (s *Service) DispatchBoth(memberId uint, eventType string, contents map[string]string) {
	for _, channel := range Channels {
		if _, err := s.Dispatch(memberId, channel, eventType, contents[channel]); err != nil {
			logging.Logger.Error(fmt.Sprintf("dispatch %s/%s to member %d: %v", channel, eventType, memberId, err))
		}
	}
}

func (s *Service) NotificationLogs(memberId uint) ([]NotificationLog, error) {
	return s.store.NotificationsByMember(memberId)
}

type CreateProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	DownloadUrl string          `json:"download_url"`
}

func (s *Service) CreateProduct(in CreateProductInput) (*DigitalProduct, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if !in.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	product := &DigitalProduct{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		DownloadUrl: in.DownloadUrl,
		IsActive:    true,
	}
	if err := s.store.CreateProduct(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) ActiveProducts() ([]DigitalProduct, error) {
	return s.store.ActiveProducts()
}

// publish pushes the record onto the member's realtime channel, best effort.
func (s *Service) publish(record *NotificationLog) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(WsEvent{Target: WsTargetNotification, Data: *record})
	if err != nil {
		return
	}
	_ = s.rdb.Publish(ctx, fmt.Sprintf("notification_ch@%d", record.MemberId), payload).Err()
}

func (s *Service) signupAlert(member *Member) {
	msg := fmt.Sprintf(
		`New Signup Member: %d
[%s](mailto:%s)
Link: %s
%s`,
		member.Id,
		telegram.EscapeMarkdownV2(member.FullName),
		member.Email,
		telegram.EscapeMarkdownV2(member.UniqueLink),
		app.CurrentMessageTime(),
	)
	if member.ReferrerId != nil {
		msg = fmt.Sprintf(`%s
Invited by Member: %d`, msg, *member.ReferrerId)
	}
	_ = telegram.SendMessage(msg, "signup")
}

func (s *Service) purchaseAlert(member *Member, event *PurchaseEvent) {
	msg := fmt.Sprintf(
		`New Purchase Member: %d
%s for \$%s
%s`,
		member.Id,
		telegram.EscapeMarkdownV2(event.ProductName),
		telegram.EscapeMarkdownV2(event.Amount.String()),
		app.CurrentMessageTime(),
	)
	_ = telegram.SendMessage(msg, "finance")
}
