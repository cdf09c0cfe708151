package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/profilesapi/profiles-api/internal/core/domain"
	"github.com/profilesapi/profiles-api/internal/core/ports"
)

// AccountService creates accounts and checks their credentials.
type AccountService struct {
	store     ports.AccountStore
	hasher    ports.PasswordHasher
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewAccountService(
	store ports.AccountStore,
	hasher ports.PasswordHasher,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AccountService{
		store:     store,
		hasher:    hasher,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateUser normalizes the email, hashes the password and persists a new
// unprivileged account. An empty password leaves the account without a
// usable password.
func (s *AccountService) CreateUser(ctx context.Context, email, name, password string) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("email", "users must have an email address")
	}

	account := domain.NewAccount(email, name, s.now())
	if err := s.setPassword(account, password); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("account_id", created.ID).Str("email", created.Email).Msg("account created")
	return created, nil
}

// CreateSuperUser creates a regular account and then grants it both the
// staff and superuser flags in a second write.
func (s *AccountService) CreateSuperUser(ctx context.Context, email, name, password string) (*domain.Account, error) {
	account, err := s.CreateUser(ctx, email, name, password)
	if err != nil {
		return nil, err
	}
	if password == "" {
		s.log.Warn().Str("email", account.Email).Msg("creating superuser without a usable password")
	}

	account.IsSuperuser = true
	account.IsStaff = true
	account.UpdatedAt = s.now()
	if err := s.store.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("create superuser: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Str("email", account.Email).Msg("superuser granted")
	return account, nil
}

// Authenticate verifies the credentials of an active account and returns a
// signed token. Unknown emails and wrong passwords are indistinguishable.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (string, *domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("authenticate: %w", err)
	}

	if !account.IsActive || !account.HasUsablePassword() || !s.hasher.Verify(account.PasswordHash, password) {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	account.LastLogin = &now
	if err := s.store.Update(ctx, account); err != nil {
		s.log.Warn().Err(err).Str("account_id", account.ID).Msg("failed to record last login")
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", nil, fmt.Errorf("authenticate: sign token: %w", err)
	}
	return token, account, nil
}

func (s *AccountService) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("email", "must not be empty")
	}
	return s.store.FindByEmail(ctx, email)
}

// GetByID loads the account a token was issued for.
func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if id == "" {
		return nil, domain.ErrAccountNotFound
	}
	return s.store.FindByID(ctx, id)
}

// ChangePassword replaces the stored hash. An empty password makes the
// account unusable for password login.
func (s *AccountService) ChangePassword(ctx context.Context, email, password string) error {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.setPassword(account, password); err != nil {
		return err
	}
	account.UpdatedAt = s.now()
	if err := s.store.Update(ctx, account); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

func (s *AccountService) SetActive(ctx context.Context, email string, active bool) (*domain.Account, error) {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account.IsActive == active {
		return account, nil
	}
	account.IsActive = active
	account.UpdatedAt = s.now()
	if err := s.store.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("set active: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Bool("active", active).Msg("account activation changed")
	return account, nil
}

func (s *AccountService) setPassword(account *domain.Account, password string) error {
	if password == "" {
		account.PasswordHash = s.hasher.Unusable()
		return nil
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	return nil
}

func (s *AccountService) generateToken(account *domain.Account) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":          account.ID,
		"email":        account.Email,
		"is_staff":     account.IsStaff,
		"is_superuser": account.IsSuperuser,
		"iat":          now.Unix(),
		"exp":          now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
