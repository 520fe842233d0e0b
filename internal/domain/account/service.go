package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/neuraq/careadmin/internal/platform/docstore"
)

// ErrInvalid wraps validation failures so handlers can map them to 400.
var ErrInvalid = errors.New("invalid account")

// PasswordHasher turns a plaintext password into the stored form.
type PasswordHasher func(password string) (string, error)

// CreateRequest is the body of POST /users.
type CreateRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	PatientID string `json:"patientId"`
	IsNurse   bool   `json:"is_nurse"`
}

// Service creates accounts. Listing and deleting go through the generic
// screen.
type Service struct {
	store docstore.Store
	hash  PasswordHasher
}

func NewService(store docstore.Store, hash PasswordHasher) *Service {
	return &Service{store: store, hash: hash}
}

const minPasswordLen = 6

func (s *Service) Create(ctx context.Context, req CreateRequest) (Account, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return Account{}, fmt.Errorf("%w: email is required", ErrInvalid)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return Account{}, fmt.Errorf("%w: email %q is not a valid address", ErrInvalid, email)
	}
	if len(req.Password) < minPasswordLen {
		return Account{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalid, minPasswordLen)
	}

	hashed, err := s.hash(req.Password)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}

	a := Account{
		Email:     email,
		PatientID: strings.TrimSpace(req.PatientID),
		IsNurse:   req.IsNurse,
		Role:      roleOf(req.IsNurse),
	}
	id, err := s.store.Insert(ctx, docstore.Users, map[string]any{
		"email":     a.Email,
		"password":  hashed,
		"patientId": a.PatientID,
		"is_nurse":  a.IsNurse,
	})
	if err != nil {
		return Account{}, fmt.Errorf("insert user: %w", err)
	}
	a.ID = id
	return a, nil
}
