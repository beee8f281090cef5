package mailer

import (
	"context"
	"fmt"

	"ai-concierge-be/pkg/notify"

	"gopkg.in/gomail.v2"
)

// EmailNotifier alerts the CE team inbox about chatbot events. Implements
// notify.Notifier so the dispatcher can fan out to Slack and email alike.
type EmailNotifier struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	teamEmail   string
}

func NewEmailNotifier(host string, port int, username, password, senderEmail, senderName, teamEmail string) *EmailNotifier {
	d := gomail.NewDialer(host, port, username, password)

	return &EmailNotifier{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
		teamEmail:   teamEmail,
	}
}

var _ notify.Notifier = (*EmailNotifier)(nil)

func (s *EmailNotifier) Send(_ context.Context, msg notify.Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", s.teamEmail)
	m.SetHeader("Subject", fmt.Sprintf("%s %s", msg.Icon, msg.Heading))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s</h2>
			<pre style="background: #f5f5f5; padding: 12px; border-radius: 5px;">%s</pre>
			<p style="color: #888;">Session: %s</p>
		</div>
	`, msg.Heading, msg.Body, msg.Session)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send CE alert email: %w", err)
	}
	return nil
}
