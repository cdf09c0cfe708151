package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/profilesapi/profiles-api/internal/core/domain"
)

// RequireStaff admits active staff and superuser accounts. Must run after
// LoadAccount.
func RequireStaff() echo.MiddlewareFunc {
	return requireAccount(func(a *domain.Account) bool {
		return a.CanAccessAdmin() || a.HasPermission()
	})
}

// RequireSuperuser admits active superusers only. Must run after LoadAccount.
func RequireSuperuser() echo.MiddlewareFunc {
	return requireAccount((*domain.Account).HasPermission)
}

func requireAccount(allowed func(*domain.Account) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := AccountFrom(c)
			if account == nil || !allowed(account) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
