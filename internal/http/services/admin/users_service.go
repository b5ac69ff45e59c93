package admin

import (
	"context"
	"errors"

	dto "github.com/dropDatabas3/accessway/internal/http/dto/admin"
	"github.com/dropDatabas3/accessway/internal/security/password"
	"github.com/dropDatabas3/accessway/internal/store/core"
	"github.com/dropDatabas3/accessway/internal/validation"
	"github.com/google/uuid"
)

// UsersService maneja el CRUD de usuarios admin.
// La creación y el cambio de rol quedan restringidos a super_admin
// (lo exige el controller); acá sólo se valida la forma.
type UsersService struct {
	repo   core.AdminRepository
	hasher *password.Hasher
}

func NewUsersService(repo core.AdminRepository, hasher *password.Hasher) *UsersService {
	return &UsersService{repo: repo, hasher: hasher}
}

func validRole(role string) bool {
	return role == core.RoleAdmin || role == core.RoleSuperAdmin
}

func (s *UsersService) Create(ctx context.Context, req dto.CreateAdminRequest) (*dto.AdminResponse, error) {
	email := validation.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if !validation.ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(req.Password) < minPasswordLen {
		return nil, ErrWeakPassword
	}
	if !validRole(req.Role) {
		return nil, ErrInvalidRole
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, ErrDependency
	}

	a := &core.AdminUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.repo.CreateAdmin(ctx, a); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, ErrDependency
	}

	out := dto.ToAdminResponse(a)
	return &out, nil
}

func (s *UsersService) Get(ctx context.Context, id string) (*dto.AdminResponse, error) {
	a, err := s.repo.GetAdminByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	out := dto.ToAdminResponse(a)
	return &out, nil
}

func (s *UsersService) List(ctx context.Context, limit, offset int) ([]dto.AdminResponse, error) {
	rows, err := s.repo.ListAdmins(ctx, limit, offset)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	out := make([]dto.AdminResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToAdminResponse(&rows[i]))
	}
	return out, nil
}

func (s *UsersService) Update(ctx context.Context, id string, req dto.UpdateAdminRequest) (*dto.AdminResponse, error) {
	upd := core.AdminUpdate{
		IsActive: req.IsActive,
	}
	if req.Email != nil {
		email := validation.NormalizeEmail(*req.Email)
		if !validation.ValidEmail(email) {
			return nil, ErrInvalidEmail
		}
		upd.Email = &email
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLen {
			return nil, ErrWeakPassword
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, ErrDependency
		}
		upd.PasswordHash = &hash
	}
	if req.Role != nil {
		if !validRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		upd.Role = req.Role
	}

	// Degradar o desactivar al último super_admin dejaría el sistema sin
	// nadie que pueda crear usuarios.
	demotes := req.Role != nil && *req.Role != core.RoleSuperAdmin
	deactivates := req.IsActive != nil && !*req.IsActive
	if demotes || deactivates {
		if err := s.guardLastSuperAdmin(ctx, id); err != nil {
			return nil, err
		}
	}

	a, err := s.repo.UpdateAdmin(ctx, id, upd)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	out := dto.ToAdminResponse(a)
	return &out, nil
}

func (s *UsersService) Delete(ctx context.Context, id string) error {
	if err := s.guardLastSuperAdmin(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteAdmin(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// guardLastSuperAdmin falla con ErrLastSuperAdmin si quitar al admin id
// dejaría cero super_admins activos. Para targets que no son super_admin
// activos es no-op.
func (s *UsersService) guardLastSuperAdmin(ctx context.Context, id string) error {
	target, err := s.repo.GetAdminByID(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if target.Role != core.RoleSuperAdmin || !target.IsActive {
		return nil
	}
	n, err := s.repo.CountActiveSuperAdmins(ctx)
	if err != nil {
		return ErrDependency
	}
	if n <= 1 {
		return ErrLastSuperAdmin
	}
	return nil
}
