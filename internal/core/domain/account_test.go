package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"Test@EXAMPLE.com":      "Test@example.com",
		"  jane@Site.ORG  ":     "jane@site.org",
		"weird@name@Host.COM":   "weird@name@host.com",
		"no-at-sign":            "no-at-sign",
		"   ":                   "",
		"":                      "",
		"UPPER.Local@domain.io": "UPPER.Local@domain.io",
	}
	for in, want := range cases {
		if got := NormalizeEmail(in); got != want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewAccount_Defaults(t *testing.T) {
	now := time.Now().UTC()
	a := NewAccount("jane@example.com", "Jane Doe", now)

	if !a.IsActive {
		t.Fatalf("expected new account to be active")
	}
	if a.IsStaff || a.IsSuperuser {
		t.Fatalf("expected no privileges, got staff=%v superuser=%v", a.IsStaff, a.IsSuperuser)
	}
	if a.HasUsablePassword() {
		t.Fatalf("expected no usable password before one is set")
	}
	if a.FullName() != "Jane Doe" || a.ShortName() != "Jane Doe" {
		t.Fatalf("unexpected names: %q %q", a.FullName(), a.ShortName())
	}
	if a.String() != "jane@example.com" {
		t.Fatalf("unexpected string form: %q", a.String())
	}
}

func TestAccount_HasUsablePassword(t *testing.T) {
	a := &Account{PasswordHash: UnusablePasswordPrefix + "abc"}
	if a.HasUsablePassword() {
		t.Fatalf("expected unusable password")
	}
	a.PasswordHash = "$2a$10$abcdefghijklmnopqrstuv"
	if !a.HasUsablePassword() {
		t.Fatalf("expected usable password")
	}
}

func TestAccount_AuthorizationTiers(t *testing.T) {
	a := &Account{IsActive: true, IsStaff: true, IsSuperuser: true}
	if !a.CanAccessAdmin() || !a.HasPermission() {
		t.Fatalf("active superuser should pass both checks")
	}

	a.IsActive = false
	if a.CanAccessAdmin() || a.HasPermission() {
		t.Fatalf("inactive account must not pass any check")
	}

	staff := &Account{IsActive: true, IsStaff: true}
	if !staff.CanAccessAdmin() {
		t.Fatalf("staff should access admin")
	}
	if staff.HasPermission() {
		t.Fatalf("staff without superuser must not bypass permissions")
	}
}

func TestValidationError_Is(t *testing.T) {
	err := fmt.Errorf("create user: %w", NewValidationError("email", "must be set"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected errors.Is(err, ErrValidation)")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "email" {
		t.Fatalf("expected ValidationError on email, got %v", err)
	}
	if ve.Error() != "email: must be set" {
		t.Fatalf("unexpected message: %q", ve.Error())
	}
}
