package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	cookieMaxAge    = 28 * 24 * time.Hour
	sessionTokenTTL = 28 * 24 * time.Hour
)

// api bundles the constructed collaborators for every handler. Built once in
// main; no module-level mutable state.
type api struct {
	cfg    Config
	store  UserStore
	otp    *OtpManager
	tokens *TokenSigner
	now    func() time.Time
}

func newAPI(cfg Config, store UserStore, mail Mailer) *api {
	return &api{
		cfg:    cfg,
		store:  store,
		otp:    newOtpManager(store, mail),
		tokens: newTokenSigner(cfg.JWTSecret),
		now:    time.Now,
	}
}

// --------- Helpers (cookie) ---------

// The cookie always lives 28 days client-side, independent of the embedded
// token expiry. Production mode means cross-site frontends: Secure +
// SameSite=None; everything else gets Lax.
func (a *api) setAuthCookie(w http.ResponseWriter, token string) {
	c := &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cookieMaxAge.Seconds()),
	}
	if a.cfg.isProduction() {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, c)
}

func (a *api) clearAuthCookie(w http.ResponseWriter) {
	c := &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
	if a.cfg.isProduction() {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, c)
}

// --------- DTOs ---------

type registerReq struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type sendOtpReq struct {
	Email string `json:"email"`
}

type verifyOtpReq struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

// --------- Handlers ---------

func (a *api) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerReq
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "Please fill in all fields")
		return
	}
	if in.Firstname == "" || in.Lastname == "" || in.Email == "" || in.Password == "" {
		errorJSON(w, http.StatusBadRequest, "Please fill in all fields")
		return
	}

	if a.cfg.JWTSecret == "" {
		log.Println("[auth] JWT_SECRET is not configured")
		errorJSON(w, http.StatusInternalServerError, "Server configuration error")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	u := &User{
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := a.store.CreateUser(r.Context(), u); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			errorJSON(w, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, ErrValidation):
			errorJSON(w, http.StatusBadRequest, "Invalid registration details")
		default:
			errorJSON(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	// Register-flow tokens carry no expiry; the cookie still ages out
	// client-side after 28 days.
	tok, err := a.tokens.Sign(u.ID, 0)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	a.setAuthCookie(w, tok)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    map[string]string{"name": u.Firstname},
		"token":   tok,
	})
}

func (a *api) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var in sendOtpReq
	if err := decodeJSON(r, &in); err != nil || in.Email == "" {
		errorJSON(w, http.StatusBadRequest, "Email is required")
		return
	}

	ch, err := a.otp.Issue(r.Context(), in.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			errorJSON(w, http.StatusNotFound, "User not found")
			return
		}
		var mailErr *MailError
		if errors.As(err, &mailErr) {
			log.Printf("[mail] OTP dispatch to %s failed: %v", in.Email, err)
			errorJSON(w, http.StatusInternalServerError, mailErrorMessage(mailErr))
			return
		}
		errorJSON(w, http.StatusInternalServerError, "Failed to send OTP")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "OTP sent successfully to your email",
		"otpSentTo": []string{ch.SentTo},
	})
}

func mailErrorMessage(e *MailError) string {
	switch e.Kind {
	case MailNotConfigured:
		return "Email service not configured. Please contact administrator."
	case MailAuthFailed:
		return "Email authentication failed. Please check email credentials."
	case MailConnectFailed:
		return "Could not connect to email server. Please try again later."
	default:
		return "Failed to send OTP email"
	}
}

func (a *api) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var in verifyOtpReq
	if err := decodeJSON(r, &in); err != nil || in.Email == "" || in.Otp == "" {
		errorJSON(w, http.StatusBadRequest, "Email and OTP are required")
		return
	}

	user, err := a.otp.Verify(r.Context(), in.Email, in.Otp)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			errorJSON(w, http.StatusNotFound, "User not found")
		case errors.Is(err, ErrOtpInvalid):
			errorJSON(w, http.StatusBadRequest, "Invalid or expired OTP")
		default:
			errorJSON(w, http.StatusInternalServerError, "Verification failed")
		}
		return
	}

	tok, err := a.tokens.Sign(user.ID, sessionTokenTTL)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "Verification failed")
		return
	}
	a.setAuthCookie(w, tok)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   tok,
		"user": map[string]string{
			"name":  user.DisplayName(),
			"email": user.Email,
		},
	})
}

func (a *api) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Stateless tokens: nothing server-side to revoke, just drop the cookie.
	a.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}
