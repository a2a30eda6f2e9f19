package notify

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"

	"affiliate-backend/internal/app"
)

// WhatsappSender posts messages to a WhatsApp Business API gateway.
type WhatsappSender struct {
	client *resty.Client
	url    string
	token  string
}

func NewWhatsappSender() *WhatsappSender {
	return &WhatsappSender{
		client: resty.New().SetTimeout(10 * time.Second),
		url:    app.RemoveTrailingSlash(os.Getenv("WHATSAPP_API_URL")),
		token:  os.Getenv("WHATSAPP_API_TOKEN"),
	}
}

func (s *WhatsappSender) Send(destination string, content string) error {
	if s.url == "" {
		return errors.New("WHATSAPP_API_URL is not set")
	}
	resp, err := s.client.R().
		SetHeader("Authorization", "Bearer "+s.token).
		SetBody(map[string]string{
			"to":      destination,
			"message": content,
		}).
		Post(s.url + "/messages")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("whatsapp gateway returned %s", resp.Status())
	}
	return nil
}
