package main

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const (
	otpTTL          = 5 * time.Minute
	otpChannelEmail = "email"
)

// OtpManager issues and verifies short-lived numeric codes bound to a user's
// email. Constructed once at startup with its collaborators; the clock is a
// field so tests can pin it.
type OtpManager struct {
	store UserStore
	mail  Mailer
	now   func() time.Time
}

func newOtpManager(store UserStore, mail Mailer) *OtpManager {
	return &OtpManager{store: store, mail: mail, now: time.Now}
}

// Issue generates a fresh challenge for the user, emails the code, and only
// then persists it — a code the user never received must not become the
// active challenge. Any prior challenge is overwritten.
func (m *OtpManager) Issue(ctx context.Context, email string) (*OtpChallenge, error) {
	user, err := m.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	code, err := generateOtpCode()
	if err != nil {
		return nil, err
	}
	ch := &OtpChallenge{
		Code:      code,
		ExpiresAt: m.now().Add(otpTTL),
		SentTo:    otpChannelEmail,
	}

	subject, text, html := otpEmailBodies(user.Firstname, code)
	if err := m.mail.Send(ctx, user.Email, subject, text, html); err != nil {
		return nil, err
	}

	if err := m.store.SetChallenge(ctx, user.ID, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// Verify checks the submitted code against the user's active challenge.
// The challenge is cleared on success before returning, so a code is
// single-use even if the caller fails afterwards. A submission at exactly
// the expiry instant is rejected.
func (m *OtpManager) Verify(ctx context.Context, email, code string) (*User, error) {
	user, err := m.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	ch := user.ActiveOtp()
	if ch == nil || ch.Code != code || !m.now().Before(ch.ExpiresAt) {
		return nil, ErrOtpInvalid
	}

	if err := m.store.SetChallenge(ctx, user.ID, nil); err != nil {
		return nil, err
	}
	return user, nil
}

// generateOtpCode returns a uniformly random 6-digit code in
// [100000, 999999]. No leading zero: the range starts at 100000.
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
