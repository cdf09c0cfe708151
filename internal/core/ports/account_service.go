package ports

import (
	"context"

	"github.com/profilesapi/profiles-api/internal/core/domain"
)

type AccountService interface {
	CreateUser(ctx context.Context, email, name, password string) (*domain.Account, error)
	CreateSuperUser(ctx context.Context, email, name, password string) (*domain.Account, error)
	// Authenticate returns a signed access token for valid credentials.
	Authenticate(ctx context.Context, email, password string) (string, *domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	ChangePassword(ctx context.Context, email, password string) error
	SetActive(ctx context.Context, email string, active bool) (*domain.Account, error)
}
