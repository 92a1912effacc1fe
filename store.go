package main

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// UserStore is the persistence surface the auth core needs. The production
// implementation sits on gorm/Postgres; tests substitute an in-memory fake.
type UserStore interface {
	// CreateUser assigns an id if empty and inserts the record.
	// Returns ErrDuplicateEmail on a unique conflict, ErrValidation when the
	// database rejects the row for other integrity reasons.
	CreateUser(ctx context.Context, u *User) error

	// FindByEmail does an exact-match lookup (no normalization).
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)

	// SetChallenge overwrites the user's challenge columns in one statement;
	// nil clears them. Unconditional update, last write wins.
	SetChallenge(ctx context.Context, userID string, ch *OtpChallenge) error

	AppendResult(ctx context.Context, res *VerificationResult) error
	ListResults(ctx context.Context, userID string) ([]VerificationResult, error)
}

type gormStore struct {
	db *gorm.DB
}

func newGormStore(db *gorm.DB) *gormStore { return &gormStore{db: db} }

func (s *gormStore) CreateUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return classifyPgError(err)
	}
	return nil
}

func (s *gormStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *gormStore) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *gormStore) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *gormStore) SetChallenge(ctx context.Context, userID string, ch *OtpChallenge) error {
	cols := map[string]any{
		"otp_code":       nil,
		"otp_expires_at": nil,
		"otp_sent_to":    nil,
	}
	if ch != nil {
		cols["otp_code"] = ch.Code
		cols["otp_expires_at"] = ch.ExpiresAt
		cols["otp_sent_to"] = ch.SentTo
	}
	res := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *gormStore) AppendResult(ctx context.Context, res *VerificationResult) error {
	return s.db.WithContext(ctx).Create(res).Error
}

func (s *gormStore) ListResults(ctx context.Context, userID string) ([]VerificationResult, error) {
	var out []VerificationResult
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// classifyPgError folds Postgres integrity errors into the store's sentinel
// taxonomy: unique violation -> ErrDuplicateEmail (email is the only unique
// index on users), any other integrity-constraint class -> ErrValidation.
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateEmail
		}
		if pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) ||
			pgerrcode.IsDataException(pgErr.Code) {
			return ErrValidation
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}
