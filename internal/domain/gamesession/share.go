package gamesession

import (
	"fmt"
	"net/url"
	"strings"
)

const whatsAppBaseURL = "https://wa.me/"

// WhatsAppURL builds a wa.me link with the prefilled claim message. phone may
// be empty to let the player choose the recipient.
func WhatsAppURL(reward, code, phone string) string {
	message := fmt.Sprintf("Hi, I played your game and won %s. My code is %s", reward, code)
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")

	return whatsAppBaseURL + removeSpaces(phone) + "?text=" + text
}
