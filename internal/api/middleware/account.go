package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/profilesapi/profiles-api/internal/core/domain"
)

// CtxAccount holds the *domain.Account loaded by LoadAccount.
const CtxAccount = "account"

// AccountLoader resolves the token subject to its current stored account.
type AccountLoader interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

// LoadAccount re-reads the caller's account so that flag changes and
// deactivation apply to tokens issued before them. Must run after Auth.
func LoadAccount(loader AccountLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, _ := c.Get(CtxAccountID).(string)
			if id == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing account identity")
			}

			account, err := loader.GetByID(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, domain.ErrAccountNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
				}
				return err
			}

			c.Set(CtxAccount, account)
			return next(c)
		}
	}
}

// AccountFrom returns the account stored by LoadAccount, or nil.
func AccountFrom(c echo.Context) *domain.Account {
	account, _ := c.Get(CtxAccount).(*domain.Account)
	return account
}
