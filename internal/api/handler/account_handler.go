package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/profilesapi/profiles-api/internal/api/metrics"
	"github.com/profilesapi/profiles-api/internal/core/domain"
	"github.com/profilesapi/profiles-api/internal/core/ports"
)

// AccountHandler exposes account creation and administration.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Register creates a regular account.
//
// @Summary      Register a new account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      createAccountRequest  true  "Account details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/accounts [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req createAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.service.CreateUser(c.Request().Context(), req.Email, req.Name, req.Password)
	if err != nil {
		metrics.AccountCreateErrorsTotal.WithLabelValues(createErrorReason(err)).Inc()
		return err
	}

	metrics.AccountsCreatedTotal.WithLabelValues("user").Inc()
	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// CreateSuperUser creates an account with both staff and superuser flags.
//
// @Summary      Create a superuser
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSuperUserRequest  true  "Superuser details"
// @Success      201   {object}  accountResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/superusers [post]
func (h *AccountHandler) CreateSuperUser(c echo.Context) error {
	var req createSuperUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.service.CreateSuperUser(c.Request().Context(), req.Email, req.Name, req.Password)
	if err != nil {
		metrics.AccountCreateErrorsTotal.WithLabelValues(createErrorReason(err)).Inc()
		return err
	}

	metrics.AccountsCreatedTotal.WithLabelValues("superuser").Inc()
	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// Me returns the caller's own account.
//
// @Summary      Current account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/accounts/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	account, err := ctxActiveAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change own password
// @Tags         accounts
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  changePasswordRequest  true  "New password"
// @Success      204
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/accounts/me/password [put]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	account, err := ctxActiveAccount(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.ChangePassword(c.Request().Context(), account.Email, req.Password); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Get returns any account by email.
//
// @Summary      Look up an account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Account email"
// @Success      200    {object}  accountResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/admin/accounts/{email} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}

	account, err := h.service.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// SetActive enables or disables an account.
//
// @Summary      Activate or deactivate an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string            true  "Account email"
// @Param        body   body      setActiveRequest  true  "Desired state"
// @Success      200    {object}  accountResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Failure      422    {object}  errorResponse
// @Router       /v1/admin/accounts/{email}/active [patch]
func (h *AccountHandler) SetActive(c echo.Context) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}

	var req setActiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.service.SetActive(c.Request().Context(), email, *req.Active)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

func emailParam(c echo.Context) (string, error) {
	email, err := url.PathUnescape(c.Param("email"))
	if err != nil || email == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	return email, nil
}

func createErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrAccountExists):
		return "exists"
	default:
		return "internal"
	}
}
