package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/profilesapi/profiles-api/internal/api/middleware"
	"github.com/profilesapi/profiles-api/internal/core/domain"
)

// ctxActiveAccount returns the caller's account as loaded by the
// LoadAccount middleware. Deactivated accounts are rejected.
func ctxActiveAccount(c echo.Context) (*domain.Account, error) {
	account := middleware.AccountFrom(c)
	if account == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	if !account.IsActive {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "account is inactive")
	}
	return account, nil
}
