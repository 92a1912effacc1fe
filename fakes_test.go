package main

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// fakeStore is an in-memory UserStore with the same error contract as the
// gorm implementation.
type fakeStore struct {
	mu      sync.Mutex
	users   map[string]*User
	order   []string
	results map[string][]VerificationResult
	nextID  uint

	challengeErr error // forced SetChallenge failure
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   map[string]*User{},
		results: map[string][]VerificationResult{},
	}
}

func (s *fakeStore) CreateUser(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ex := range s.users {
		if ex.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	s.users[u.ID] = &cp
	s.order = append(s.order, u.ID)
	return nil
}

func (s *fakeStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *fakeStore) FindByID(ctx context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeStore) ListUsers(ctx context.Context) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.users[id])
	}
	return out, nil
}

func (s *fakeStore) SetChallenge(ctx context.Context, userID string, ch *OtpChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.challengeErr != nil {
		return s.challengeErr
	}
	u, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if ch == nil {
		u.OtpCode, u.OtpExpiresAt, u.OtpSentTo = nil, nil, nil
		return nil
	}
	code, exp, sentTo := ch.Code, ch.ExpiresAt, ch.SentTo
	u.OtpCode, u.OtpExpiresAt, u.OtpSentTo = &code, &exp, &sentTo
	return nil
}

func (s *fakeStore) AppendResult(ctx context.Context, res *VerificationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	res.ID = s.nextID
	s.results[res.UserID] = append(s.results[res.UserID], *res)
	return nil
}

func (s *fakeStore) ListResults(ctx context.Context, userID string) ([]VerificationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]VerificationResult, len(s.results[userID]))
	copy(out, s.results[userID])
	return out, nil
}

// --------- test-only helpers ---------

func (s *fakeStore) mustUser(id string) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.users[id]
}

func (s *fakeStore) deleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// activeCode returns the stored challenge code, or "" when none is pending.
func (s *fakeStore) activeCode(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.OtpCode == nil {
		return ""
	}
	return *u.OtpCode
}

type sentMail struct {
	to, subject, text, html string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, text, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, text: text, html: html})
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

func testConfig() Config {
	return Config{
		JWTSecret:     "test-secret",
		CookieName:    "token",
		Env:           "development",
		CORSOrigin:    "http://localhost:3000",
		Port:          "5000",
		SMTPHost:      "smtp.test",
		SMTPPort:      587,
		EmailUser:     "otp@test.local",
		EmailPassword: "pw",
	}
}

func newTestAPI() (*api, *fakeStore, *fakeMailer) {
	store := newFakeStore()
	mail := &fakeMailer{}
	return newAPI(testConfig(), store, mail), store, mail
}
