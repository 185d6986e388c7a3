package auth

import (
	"context"
	"testing"

	"github.com/angelmondragon/autosallon-backend/internal/users"
	"github.com/angelmondragon/autosallon-backend/pkg/db/dbtest"
	"github.com/angelmondragon/autosallon-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
	"github.com/angelmondragon/autosallon-backend/pkg/security"
)

func TestRegisterCreatesGuest(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	svc, err := NewRegisterService(RegisterServiceParams{DB: client, PasswordConfig: testPasswordConfig})
	if err != nil {
		t.Fatalf("build register service: %v", err)
	}

	user, err := svc.Register(ctx, RegisterRequest{Name: " Arta ", Email: "Arta@Example.com", Password: "long-enough"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "arta@example.com" || user.Name != "Arta" || user.Role != enums.UserRoleGuest {
		t.Fatalf("unexpected user %+v", user)
	}

	stored, err := users.NewRepository(client.DB()).FindByEmail(ctx, "ARTA@example.com")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	ok, err := security.VerifyPassword("long-enough", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}

	_, err = svc.Register(ctx, RegisterRequest{Name: "Other", Email: "arta@example.com", Password: "long-enough"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, err := NewRegisterService(RegisterServiceParams{DB: dbtest.Open(t), PasswordConfig: testPasswordConfig})
	if err != nil {
		t.Fatalf("build register service: %v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterRequest{Name: "A", Email: " "}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterRequest{Name: "A", Email: "a@example.com"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty password, got %v", err)
	}
	if _, err := NewRegisterService(RegisterServiceParams{}); err == nil {
		t.Fatal("expected error without db")
	}
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)

	first, err := SeedAdmin(ctx, client, testPasswordConfig, "Admin@Example.com", "first-password")
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if !first.Created || first.User.Role != enums.UserRoleAdmin || first.GeneratedPassword != "" {
		t.Fatalf("unexpected first seed %+v", first)
	}

	second, err := SeedAdmin(ctx, client, testPasswordConfig, "admin@example.com", "")
	if err != nil {
		t.Fatalf("reseed admin: %v", err)
	}
	if second.Created || second.User.ID != first.User.ID {
		t.Fatalf("expected existing admin to be reused, got %+v", second)
	}
	if len(second.GeneratedPassword) != generatedPasswordLength {
		t.Fatalf("expected generated password, got %q", second.GeneratedPassword)
	}

	stored, err := users.NewRepository(client.DB()).FindByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("find admin: %v", err)
	}
	ok, err := security.VerifyPassword(second.GeneratedPassword, stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("generated password does not verify: ok=%v err=%v", ok, err)
	}
}

func TestSeedAdminPromotesGuest(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	repo := users.NewRepository(client.DB())
	guest, err := repo.Create(ctx, users.CreateUserDTO{Email: "owner@example.com", PasswordHash: "x", Name: "Owner"})
	if err != nil {
		t.Fatalf("create guest: %v", err)
	}
	if guest.Role != enums.UserRoleGuest {
		t.Fatalf("expected guest default role, got %s", guest.Role)
	}

	res, err := SeedAdmin(ctx, client, testPasswordConfig, "owner@example.com", "new-password")
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	stored, err := repo.FindByID(ctx, guest.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if res.Created || !stored.IsAdmin() {
		t.Fatalf("expected promotion, got created=%v role=%s", res.Created, stored.Role)
	}
}
