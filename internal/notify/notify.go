// Package notify delivers package-ready and cart-recovery emails through
// a channel-agnostic Notifier, backed by Shoutrrr's SMTP URL scheme.
package notify

import (
	"fmt"
	"log"
	"strings"

	"github.com/containrrr/shoutrrr"
)

// Message is a single outbound notification.
type Message struct {
	ToEmail string
	Subject string
	Body    string
	Link    string
}

// Notifier delivers a Message through some external channel.
type Notifier interface {
	Send(msg Message) error
}

// ShoutrrrNotifier sends through Shoutrrr service URLs (SMTP or otherwise).
type ShoutrrrNotifier struct {
	urls []string
}

// NewShoutrrrNotifier builds a notifier over the given comma/newline
// separated Shoutrrr service URLs.
func NewShoutrrrNotifier(urlsConfig string) *ShoutrrrNotifier {
	return &ShoutrrrNotifier{urls: parseURLs(urlsConfig)}
}

// Send dispatches msg through every configured URL, logging (with masked
// credentials) and continuing past per-URL failures rather than
// returning on the first one — one broken channel should not drop the
// notification through every other channel.
func (n *ShoutrrrNotifier) Send(msg Message) error {
	if len(n.urls) == 0 {
		return fmt.Errorf("notify: no shoutrrr urls configured")
	}

	body := msg.Body
	if msg.Link != "" {
		body = fmt.Sprintf("%s\n%s", body, msg.Link)
	}

	var lastErr error
	for _, u := range n.urls {
		if err := shoutrrr.Send(u, body); err != nil {
			log.Printf("notify: send failed to=%s url=%s err=%v", MaskEmail(msg.ToEmail), maskURL(u), err)
			lastErr = err
			continue
		}
		lastErr = nil
	}
	return lastErr
}

// PackageReadyMessage builds the delivery notification for a completed
// training package.
func PackageReadyMessage(toEmail, athleteName, downloadLink string) Message {
	return Message{
		ToEmail: toEmail,
		Subject: "Your training package is ready",
		Body:    fmt.Sprintf("Hi %s, your personalized training package has been generated.", athleteName),
		Link:    downloadLink,
	}
}

// RecoveryMessage builds the abandoned-checkout recovery notification.
func RecoveryMessage(toEmail, recoveryURL string) Message {
	return Message{
		ToEmail: toEmail,
		Subject: "Finish setting up your training plan",
		Body:    "Looks like your checkout didn't complete. Pick up where you left off:",
		Link:    recoveryURL,
	}
}

func parseURLs(urlsStr string) []string {
	urlsStr = strings.ReplaceAll(urlsStr, "\n", ",")
	parts := strings.Split(urlsStr, ",")
	var urls []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}

func maskURL(u string) string {
	if len(u) <= 15 {
		if len(u) <= 5 {
			return u + "••••"
		}
		return u[:5] + "••••"
	}
	return u[:15] + "••••"
}

// MaskEmail keeps the first character of the local part and the first
// character of the domain plus its TLD, masking the rest — enough for an
// operator to recognize the recipient in logs without storing the full
// address unredacted. Invalid or empty input collapses to "***".
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return "***"
	}
	local := email[:at]
	domain := email[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	if dot <= 0 || dot == len(domain)-1 {
		return "***"
	}
	tld := domain[dot+1:]
	return local[:1] + "***@" + domain[:1] + "***." + tld
}
