/**
 * Copyright 2025-present Profit Bliss
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mailer

import (
	"fmt"

	"profitbliss-backend-go/internal/models"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer delivers outbound email. Callers treat delivery as best-effort:
// signup and resend flows log failures but never fail on them.
type Mailer interface {
	Send(to, subject, html string) error
}

// SMTP sends mail through a configured relay using gomail.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(cfg models.MailConfig) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTP) Send(to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("unable to send mail to %s: %w", to, err)
	}
	return nil
}

// Noop logs instead of sending. Used when no SMTP relay is configured and in
// tests.
type Noop struct{}

func (Noop) Send(to, subject, html string) error {
	zap.L().Info("Mail delivery skipped (no relay configured)",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}

// VerificationEmail renders the verification message for a freshly issued
// token. The link targets the public verify endpoint.
func VerificationEmail(baseURL, token string) (subject, html string) {
	link := fmt.Sprintf("%s/api/auth/verify/%s", baseURL, token)
	html = fmt.Sprintf(`<h2>Welcome to Profit Bliss!</h2>
<p>Please verify your email address by clicking the link below:</p>
<p><a href="%s">Verify Email</a></p>
<p>If the button does not work, copy this link into your browser:</p>
<p>%s</p>
<p>This link expires in 24 hours.</p>`, link, link)
	return "Verify your Profit Bliss account", html
}
