package affiliate

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Notification content per channel. Email copy leads with the platform, the
// WhatsApp copy is shorter.

func welcomeMessages(fullName string, uniqueLink string) map[string]string {
	return map[string]string{
		ChannelEmail:    fmt.Sprintf("Welcome to our platform, %s! Your unique affiliate link is: %s", fullName, uniqueLink),
		ChannelWhatsapp: fmt.Sprintf("Welcome %s! Start earning with your link: %s", fullName, uniqueLink),
	}
}

func referralJoinedMessages(fullName string) map[string]string {
	return map[string]string{
		ChannelEmail:    fmt.Sprintf("Great news! %s has joined using your referral link.", fullName),
		ChannelWhatsapp: fmt.Sprintf("New referral: %s joined your network!", fullName),
	}
}

func purchaseConfirmedMessages(productName string, amount decimal.Decimal) map[string]string {
	msg := fmt.Sprintf("Purchase confirmed: %s for $%s", productName, amount.String())
	return map[string]string{
		ChannelEmail:    msg,
		ChannelWhatsapp: msg,
	}
}

func referralPurchasedMessages(fullName string, productName string, amount decimal.Decimal) map[string]string {
	msg := fmt.Sprintf("Your referral %s made a purchase: %s for $%s", fullName, productName, amount.String())
	return map[string]string{
		ChannelEmail:    msg,
		ChannelWhatsapp: msg,
	}
}
