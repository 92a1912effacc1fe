package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"

	"github.com/wneessen/go-mail"
)

// Mailer dispatches a single message. Implementations classify transport
// failures into a *MailError so handlers can map kinds to messages without
// inspecting provider-specific error shapes.
type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type MailErrorKind int

const (
	// MailNotConfigured: SMTP credentials were never provided.
	MailNotConfigured MailErrorKind = iota
	// MailAuthFailed: the SMTP server rejected our credentials.
	MailAuthFailed
	// MailConnectFailed: could not reach the SMTP server.
	MailConnectFailed
	// MailProviderRejected: the server accepted the connection but refused
	// the message.
	MailProviderRejected
)

// MailError is the typed dispatch failure produced at the mail boundary.
type MailError struct {
	Kind MailErrorKind
	Err  error
}

func (e *MailError) Error() string {
	if e.Err != nil {
		return "mail dispatch failed: " + e.Err.Error()
	}
	return "mail dispatch failed"
}

func (e *MailError) Unwrap() error { return e.Err }

// smtpMailer sends through an SMTP relay (Gmail on 587 by default).
type smtpMailer struct {
	client *mail.Client
	from   string
}

func newSMTPMailer(cfg Config) (*smtpMailer, error) {
	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.EmailUser),
		mail.WithPassword(cfg.EmailPassword),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, err
	}
	from := cfg.EmailFrom
	if from == "" {
		from = cfg.EmailUser
	}
	return &smtpMailer{client: client, from: from}, nil
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, text, html string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat("AuthenTech", m.from); err != nil {
		return &MailError{Kind: MailProviderRejected, Err: err}
	}
	if err := msg.To(to); err != nil {
		return &MailError{Kind: MailProviderRejected, Err: err}
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return classifyMailError(err)
	}
	return nil
}

// classifyMailError maps transport errors to kinds once, here. SMTP 53x
// replies are credential problems; anything network-level is a connection
// problem; the rest is the provider refusing the message.
func classifyMailError(err error) *MailError {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch tpErr.Code {
		case 530, 534, 535, 538:
			return &MailError{Kind: MailAuthFailed, Err: err}
		}
		return &MailError{Kind: MailProviderRejected, Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &MailError{Kind: MailConnectFailed, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &MailError{Kind: MailConnectFailed, Err: err}
	}
	return &MailError{Kind: MailProviderRejected, Err: err}
}

// unconfiguredMailer stands in when EMAIL_USER/EMAIL_PASSWORD are unset so
// the send-otp handler can answer with a clear message instead of dialing.
type unconfiguredMailer struct{}

func (unconfiguredMailer) Send(ctx context.Context, to, subject, text, html string) error {
	return &MailError{Kind: MailNotConfigured, Err: errors.New("email credentials not configured")}
}

// otpEmailBodies builds the OTP message. Kept as plain string templates; the
// HTML mirrors what the frontend-branded mail looked like.
func otpEmailBodies(firstname, code string) (subject, text, html string) {
	if firstname == "" {
		firstname = "User"
	}
	subject = "Your Login OTP - AuthenTech"
	text = fmt.Sprintf("Your OTP code is %s. This code will expire in 5 minutes.", code)
	html = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Your Login OTP</h2>
  <p>Hello %s,</p>
  <p>Your OTP code for login is:</p>
  <div style="background-color: #f4f4f4; padding: 20px; text-align: center; margin: 20px 0; border-radius: 8px;">
    <h1 style="color: #007bff; font-size: 32px; margin: 0; letter-spacing: 5px;">%s</h1>
  </div>
  <p style="color: #666; font-size: 14px;">This code will expire in 5 minutes.</p>
  <p style="color: #666; font-size: 14px;">If you didn't request this code, please ignore this email.</p>
</div>`, firstname, code)
	return subject, text, html
}
