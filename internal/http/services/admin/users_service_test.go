package admin

import (
	"context"
	"errors"
	"testing"

	dto "github.com/dropDatabas3/accessway/internal/http/dto/admin"
	"github.com/dropDatabas3/accessway/internal/security/password"
	"github.com/dropDatabas3/accessway/internal/store/core"
)

type fakeAdmins struct {
	core.AdminRepository
	byID    map[string]*core.AdminUser
	deleted []string
}

func (f *fakeAdmins) GetAdminByID(ctx context.Context, id string) (*core.AdminUser, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return a, nil
}

func (f *fakeAdmins) UpdateAdmin(ctx context.Context, id string, upd core.AdminUpdate) (*core.AdminUser, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if upd.Role != nil {
		a.Role = *upd.Role
	}
	if upd.IsActive != nil {
		a.IsActive = *upd.IsActive
	}
	return a, nil
}

func (f *fakeAdmins) DeleteAdmin(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAdmins) CountActiveSuperAdmins(ctx context.Context) (int64, error) {
	var n int64
	for _, a := range f.byID {
		if a.Role == core.RoleSuperAdmin && a.IsActive {
			n++
		}
	}
	return n, nil
}

func newUsersEnv(admins ...*core.AdminUser) (*UsersService, *fakeAdmins) {
	repo := &fakeAdmins{byID: map[string]*core.AdminUser{}}
	for _, a := range admins {
		repo.byID[a.ID] = a
	}
	return NewUsersService(repo, password.New(4)), repo
}

func superAdmin(id string) *core.AdminUser {
	return &core.AdminUser{ID: id, Role: core.RoleSuperAdmin, IsActive: true}
}

func plainAdmin(id string) *core.AdminUser {
	return &core.AdminUser{ID: id, Role: core.RoleAdmin, IsActive: true}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUsersDelete_LastSuperAdminBlocked(t *testing.T) {
	svc, repo := newUsersEnv(superAdmin("root"), plainAdmin("minion"))

	if err := svc.Delete(context.Background(), "root"); !errors.Is(err, ErrLastSuperAdmin) {
		t.Fatalf("err = %v, want ErrLastSuperAdmin", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatal("the last super_admin must not be deleted")
	}

	// Un admin común se borra sin problema.
	if err := svc.Delete(context.Background(), "minion"); err != nil {
		t.Fatalf("plain admin delete: %v", err)
	}
}

func TestUsersDelete_SuperAdminWithBackup(t *testing.T) {
	svc, _ := newUsersEnv(superAdmin("root"), superAdmin("backup"))

	if err := svc.Delete(context.Background(), "root"); err != nil {
		t.Fatalf("delete with another active super_admin: %v", err)
	}
	// Ahora "backup" es el último.
	if err := svc.Delete(context.Background(), "backup"); !errors.Is(err, ErrLastSuperAdmin) {
		t.Fatalf("err = %v, want ErrLastSuperAdmin", err)
	}
}

func TestUsersDelete_InactiveBackupDoesNotCount(t *testing.T) {
	backup := superAdmin("backup")
	backup.IsActive = false
	svc, _ := newUsersEnv(superAdmin("root"), backup)

	if err := svc.Delete(context.Background(), "root"); !errors.Is(err, ErrLastSuperAdmin) {
		t.Fatalf("err = %v, want ErrLastSuperAdmin (inactive backup does not count)", err)
	}
}

func TestUsersUpdate_LastSuperAdminDemoteBlocked(t *testing.T) {
	svc, _ := newUsersEnv(superAdmin("root"))

	_, err := svc.Update(context.Background(), "root", dto.UpdateAdminRequest{Role: strPtr(core.RoleAdmin)})
	if !errors.Is(err, ErrLastSuperAdmin) {
		t.Fatalf("demote err = %v, want ErrLastSuperAdmin", err)
	}

	_, err = svc.Update(context.Background(), "root", dto.UpdateAdminRequest{IsActive: boolPtr(false)})
	if !errors.Is(err, ErrLastSuperAdmin) {
		t.Fatalf("deactivate err = %v, want ErrLastSuperAdmin", err)
	}

	// Mantener el rol o re-activar no dispara el guard.
	if _, err := svc.Update(context.Background(), "root", dto.UpdateAdminRequest{Role: strPtr(core.RoleSuperAdmin)}); err != nil {
		t.Fatalf("no-op role update: %v", err)
	}
	if _, err := svc.Update(context.Background(), "root", dto.UpdateAdminRequest{IsActive: boolPtr(true)}); err != nil {
		t.Fatalf("re-activate update: %v", err)
	}
}

func TestUsersUpdate_DemoteWithBackupAllowed(t *testing.T) {
	svc, repo := newUsersEnv(superAdmin("root"), superAdmin("backup"))

	resp, err := svc.Update(context.Background(), "root", dto.UpdateAdminRequest{Role: strPtr(core.RoleAdmin)})
	if err != nil {
		t.Fatalf("demote with backup: %v", err)
	}
	if resp.Role != core.RoleAdmin {
		t.Fatalf("role = %q, want admin", resp.Role)
	}
	if repo.byID["root"].Role != core.RoleAdmin {
		t.Fatal("demotion not persisted")
	}
}
