package customer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"fuel-storefront/internal/domain"
	custrepo "fuel-storefront/internal/repository/customer"
	tokenrepo "fuel-storefront/internal/repository/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrValidation wraps signup and profile input problems.
	ErrValidation = errors.New("validation failed")
)

const defaultPasswordMin = 6

// Service handles customer signup, login and profile flows.
type Service struct {
	repo        custrepo.Repository
	tokens      *tokenManager
	accessTTL   time.Duration
	passwordMin int
	logger      *zap.Logger
}

// New creates a Service. A zero accessTTL falls back to 48 hours.
func New(repo custrepo.Repository, tokens tokenrepo.Repository, accessTTL time.Duration, logger *zap.Logger) *Service {
	if accessTTL <= 0 {
		accessTTL = 48 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		accessTTL:   accessTTL,
		passwordMin: defaultPasswordMin,
		logger:      logger.Named("customer_service"),
	}
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// ProfileInput is the editable part of a customer profile.
type ProfileInput struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Signup registers a new customer.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Customer, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	fullName := strings.TrimSpace(in.FullName)
	phone := strings.TrimSpace(in.Phone)
	password := strings.TrimSpace(in.Password)
	if email == "" || fullName == "" || phone == "" || password == "" {
		return nil, fmt.Errorf("%w: full name, phone, email and password are required", ErrValidation)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.Create(ctx, domain.Customer{
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     fullName,
		Phone:        phone,
		Address:      strings.TrimSpace(in.Address),
		Role:         domain.RoleCustomer,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("customer registered", zap.String("customer_id", c.ID))
	return c, nil
}

// Login validates credentials and returns an access token plus the customer.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Customer, string, error) {
	password = strings.TrimSpace(password)
	c, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, c.ID, s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return c, access, nil
}

// Logout revokes token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// LookupByToken returns the customer bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.Customer, error) {
	meta, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	c, err := s.repo.GetByID(ctx, meta.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return c, nil
}

// TokenActive reports whether token is stored and unexpired. Lookup failures
// are returned as errors rather than treated as inactive.
func (s *Service) TokenActive(ctx context.Context, token string) (bool, error) {
	return s.tokens.Active(ctx, token)
}

// PurgeExpired deletes every expired access token.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.tokens.PurgeExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge expired tokens: %w", err)
	}
	return n, nil
}

// Profile returns the stored customer.
func (s *Service) Profile(ctx context.Context, customerID string) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, customerID)
}

// UpdateProfile replaces the editable profile fields. Full name and phone stay required.
func (s *Service) UpdateProfile(ctx context.Context, customerID string, in ProfileInput) (*domain.Customer, error) {
	upd := custrepo.ProfileUpdate{
		FullName: strings.TrimSpace(in.FullName),
		Phone:    strings.TrimSpace(in.Phone),
		Address:  strings.TrimSpace(in.Address),
	}
	if upd.FullName == "" || upd.Phone == "" {
		return nil, fmt.Errorf("%w: full name and phone are required", ErrValidation)
	}
	return s.repo.UpdateProfile(ctx, customerID, upd)
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

func validatePassword(p string, min int) error {
	if len(strings.TrimSpace(p)) < min {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, min)
	}
	return nil
}
