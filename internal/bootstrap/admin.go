// Package bootstrap crea el primer super_admin en un deployment vacío.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/dropDatabas3/accessway/internal/observability/logger"
	"github.com/dropDatabas3/accessway/internal/security/password"
	"github.com/dropDatabas3/accessway/internal/store/core"
	"github.com/dropDatabas3/accessway/internal/validation"
	"github.com/google/uuid"
)

// EnsureSuperAdmin crea un super_admin inicial si la tabla de admins está
// vacía. Las credenciales vienen de BOOTSTRAP_ADMIN_EMAIL y
// BOOTSTRAP_ADMIN_PASSWORD; sin esas variables es un no-op (con warning,
// porque un deployment sin admins no puede administrarse).
func EnsureSuperAdmin(ctx context.Context, repo core.AdminRepository, hasher *password.Hasher) error {
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return nil
	}

	email := validation.NormalizeEmail(os.Getenv("BOOTSTRAP_ADMIN_EMAIL"))
	pass := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if email == "" || pass == "" {
		logger.L().Warn("no admins exist and BOOTSTRAP_ADMIN_EMAIL/PASSWORD are unset")
		return nil
	}
	if !validation.ValidEmail(email) {
		return fmt.Errorf("BOOTSTRAP_ADMIN_EMAIL inválido")
	}

	hash, err := hasher.Hash(pass)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	a := &core.AdminUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         core.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := repo.CreateAdmin(ctx, a); err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	logger.L().Info("bootstrap super_admin created", logger.AdminID(a.ID))
	return nil
}
