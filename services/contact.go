package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog/log"
)

// ContactMessage is a message left through the public contact form
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactRelay forwards contact-form messages to the site owner by email and, when a notifier
// is configured, with a short SMS alert. The email decides the outcome; the alert is best effort.
type ContactRelay struct {
	mailer   Mailer
	notifier Notifier
	to       string
}

func NewContactRelay(mailer Mailer, notifier Notifier, to string) *ContactRelay {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ContactRelay{mailer: mailer, notifier: notifier, to: to}
}

func (c *ContactRelay) Relay(ctx context.Context, msg ContactMessage) error {
	body := fmt.Sprintf(`<h2>New contact message</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Subject:</strong> %s</p>
<p>%s</p>`,
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		html.EscapeString(msg.Subject),
		strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"))

	err := c.mailer.Send(ctx, Email{
		To:      []string{c.to},
		Subject: "Contact: " + msg.Subject,
		HTML:    body,
		ReplyTo: msg.Email,
	})
	if err != nil {
		return err
	}

	alert := fmt.Sprintf("New contact from %s <%s>: %s", msg.Name, msg.Email, msg.Subject)
	if err := c.notifier.Notify(ctx, alert); err != nil {
		log.Warn().Err(err).Msg("Contact SMS alert failed")
	}
	return nil
}
