package ports

import (
	"context"

	"github.com/profilesapi/profiles-api/internal/core/domain"
)

// AccountStore defines persistence for accounts. Implementations enforce
// email uniqueness and report a violation as domain.ErrAccountExists.
type AccountStore interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	// Update persists the mutable fields of an existing account, matched by ID.
	Update(ctx context.Context, account *domain.Account) error
}
