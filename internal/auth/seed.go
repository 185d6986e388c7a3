package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/autosallon-backend/internal/users"
	"github.com/angelmondragon/autosallon-backend/pkg/config"
	"github.com/angelmondragon/autosallon-backend/pkg/db"
	"github.com/angelmondragon/autosallon-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
	"github.com/angelmondragon/autosallon-backend/pkg/security"
	"gorm.io/gorm"
)

const generatedPasswordLength = 20

// SeedResult describes what SeedAdmin did.
type SeedResult struct {
	User *users.UserDTO
	// Created is false when an existing account was promoted.
	Created bool
	// GeneratedPassword is set only when no password was supplied.
	GeneratedPassword string
}

// SeedAdmin creates the admin account, or promotes and resets the password of
// an existing account with the same email. Running it twice is safe.
func SeedAdmin(ctx context.Context, client *db.Client, passwordCfg config.PasswordConfig, email, password string) (*SeedResult, error) {
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	email = users.NormalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin email is required")
	}

	result := &SeedResult{}
	if password == "" {
		generated, err := security.GenerateTempPassword(generatedPasswordLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate password")
		}
		password = generated
		result.GeneratedPassword = generated
	}
	hash, err := security.HashPassword(password, passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	err = client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := users.NewRepository(tx)
		existing, err := repo.FindByEmail(ctx, email)
		switch {
		case err == nil:
			if err := repo.UpdateCredentials(ctx, existing.ID, hash, enums.UserRoleAdmin); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "promote admin")
			}
			existing.PasswordHash = hash
			existing.Role = enums.UserRoleAdmin
			result.User = users.FromModel(existing)
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			user, err := repo.Create(ctx, users.CreateUserDTO{
				Email:        email,
				PasswordHash: hash,
				Name:         "Admin",
				Role:         enums.UserRoleAdmin,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin")
			}
			result.User = users.FromModel(user)
			result.Created = true
			return nil
		default:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
