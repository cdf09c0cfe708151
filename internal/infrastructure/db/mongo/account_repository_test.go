package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/profilesapi/profiles-api/internal/core/domain"
)

func TestAccountMapping_RoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	login := created.Add(time.Hour)
	in := &domain.Account{
		Email:        "jane@example.com",
		Name:         "Jane",
		PasswordHash: "$2a$04$hash",
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
		LastLogin:    &login,
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	doc := toMongoAccount(in)
	doc.ID = primitive.NewObjectID()
	out := fromMongoAccount(doc)

	if out.ID != doc.ID.Hex() {
		t.Fatalf("expected id %s, got %s", doc.ID.Hex(), out.ID)
	}
	if out.Email != in.Email || out.Name != in.Name || out.PasswordHash != in.PasswordHash {
		t.Fatalf("unexpected identity fields: %+v", out)
	}
	if !out.IsActive || !out.IsStaff || !out.IsSuperuser {
		t.Fatalf("flags lost: %+v", out)
	}
	if !out.CreatedAt.Equal(created) || out.LastLogin == nil || !out.LastLogin.Equal(login) {
		t.Fatalf("timestamps lost: %+v", out)
	}
}

func TestAccountMapping_NoLastLogin(t *testing.T) {
	doc := toMongoAccount(&domain.Account{Email: "a@b.c", CreatedAt: time.Now()})
	if doc.LastLogin != 0 {
		t.Fatalf("expected zero last login, got %d", doc.LastLogin)
	}
	if out := fromMongoAccount(doc); out.LastLogin != nil {
		t.Fatalf("expected nil last login, got %v", out.LastLogin)
	}
}

func TestUnixToTime_Zero(t *testing.T) {
	if !unixToTime(0).IsZero() {
		t.Fatalf("expected zero time")
	}
}
