package main

import "time"

// User is the persisted auth user record.
// Handlers convert this to lightweight DTOs for the client; the password
// hash never leaves the process.
type User struct {
	ID           string `gorm:"primaryKey;type:text"` // <-- text PK (uuid string), not bigint
	Firstname    string `gorm:"size:120;not null"`
	Lastname     string `gorm:"size:120;not null"`
	Email        string `gorm:"uniqueIndex;size:320;not null"`
	PasswordHash string `gorm:"size:255;not null"`

	// Active OTP challenge, embedded on the row. The columns are set together
	// or NULL together; at most one challenge per user, last write wins.
	OtpCode      *string    `gorm:"size:6"`
	OtpExpiresAt *time.Time `gorm:"type:timestamptz"`
	OtpSentTo    *string    `gorm:"size:32"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName allows explicit control (optional; defaults to "users").
func (User) TableName() string { return "users" }

// OtpChallenge is the view of the embedded challenge columns.
type OtpChallenge struct {
	Code      string
	ExpiresAt time.Time
	SentTo    string
}

// ActiveOtp returns the embedded challenge, or nil when none is set.
func (u *User) ActiveOtp() *OtpChallenge {
	if u.OtpCode == nil || u.OtpExpiresAt == nil {
		return nil
	}
	ch := OtpChallenge{Code: *u.OtpCode, ExpiresAt: *u.OtpExpiresAt}
	if u.OtpSentTo != nil {
		ch.SentTo = *u.OtpSentTo
	}
	return &ch
}

// DisplayName is what the client shows: firstname, falling back to email.
func (u *User) DisplayName() string {
	if u.Firstname != "" {
		return u.Firstname
	}
	return u.Email
}

// VerificationResult is one append-only document-check record owned by a user.
// Insertion order is the serial PK order; no dedup.
type VerificationResult struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      string    `gorm:"index;type:text;not null"`
	Name        string    `gorm:"type:text;not null"`
	Institution string    `gorm:"type:text;not null"`
	Date        time.Time `gorm:"type:timestamptz;not null"`
}

func (VerificationResult) TableName() string { return "verification_results" }

type resultDTO struct {
	Name        string    `json:"name"`
	Institution string    `json:"institution"`
	Date        time.Time `json:"date"`
}

func toResultDTO(r VerificationResult) resultDTO {
	return resultDTO{Name: r.Name, Institution: r.Institution, Date: r.Date.UTC()}
}
