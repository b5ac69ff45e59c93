package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	dto "github.com/dropDatabas3/accessway/internal/http/dto/auth"
	"github.com/dropDatabas3/accessway/internal/security/password"
	"github.com/dropDatabas3/accessway/internal/security/token"
	"github.com/dropDatabas3/accessway/internal/session"
	"github.com/dropDatabas3/accessway/internal/store/core"
)

// ─── Fakes ───

type fakeAdmins struct {
	core.AdminRepository
	byEmail map[string]*core.AdminUser
	byID    map[string]*core.AdminUser
	touched int
}

func (f *fakeAdmins) GetAdminByEmail(ctx context.Context, email string) (*core.AdminUser, error) {
	a, ok := f.byEmail[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	return a, nil
}

func (f *fakeAdmins) GetAdminByID(ctx context.Context, id string) (*core.AdminUser, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return a, nil
}

func (f *fakeAdmins) TouchAdminLogin(ctx context.Context, id string, at time.Time) error {
	f.touched++
	return nil
}

type fakeClients struct {
	core.ClientRepository
	byEmail  map[string]*core.Client
	byAPIKey map[string]*core.Client
	byID     map[string]*core.Client
}

func (f *fakeClients) GetClientByEmail(ctx context.Context, email string) (*core.Client, error) {
	c, ok := f.byEmail[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	return c, nil
}

func (f *fakeClients) GetClientByAPIKey(ctx context.Context, key string) (*core.Client, error) {
	c, ok := f.byAPIKey[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return c, nil
}

func (f *fakeClients) GetClientByID(ctx context.Context, id string) (*core.Client, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return c, nil
}

func (f *fakeClients) TouchClientLogin(ctx context.Context, id string, at time.Time) error {
	return nil
}

// ─── Harness ───

type env struct {
	hasher   *password.Hasher
	issuer   *token.Issuer
	registry session.Registry
	admins   *fakeAdmins
	clients  *fakeClients
	svc      Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		hasher:   password.New(4),
		issuer:   token.NewIssuer("test-secret", "accessway-test", time.Hour, 0),
		registry: session.NewMemory(),
		admins:   &fakeAdmins{byEmail: map[string]*core.AdminUser{}, byID: map[string]*core.AdminUser{}},
		clients:  &fakeClients{byEmail: map[string]*core.Client{}, byAPIKey: map[string]*core.Client{}, byID: map[string]*core.Client{}},
	}
	e.svc = NewService(Deps{
		Hasher:   e.hasher,
		Issuer:   e.issuer,
		Registry: e.registry,
		Admins:   e.admins,
		Clients:  e.clients,
	})
	return e
}

func (e *env) addClient(t *testing.T, id, email, pass, apiKey string, sites ...string) *core.Client {
	t.Helper()
	hash, err := e.hasher.Hash(pass)
	if err != nil {
		t.Fatal(err)
	}
	c := &core.Client{
		ID: id, Email: email, CompanyName: "Acme", PasswordHash: hash,
		APIKey: apiKey, SiteIDs: sites, IsActive: true,
	}
	e.clients.byEmail[email] = c
	e.clients.byAPIKey[apiKey] = c
	e.clients.byID[id] = c
	return c
}

func (e *env) addAdmin(t *testing.T, id, email, pass, role string) *core.AdminUser {
	t.Helper()
	hash, err := e.hasher.Hash(pass)
	if err != nil {
		t.Fatal(err)
	}
	a := &core.AdminUser{ID: id, Email: email, PasswordHash: hash, Role: role, IsActive: true}
	e.admins.byEmail[email] = a
	e.admins.byID[id] = a
	return a
}

// ─── ClientLogin ───

func TestClientLogin_Password(t *testing.T) {
	e := newEnv(t)
	e.addClient(t, "cli-1", "c@example.com", "pass-12345", "awk_key1")

	resp, err := e.svc.ClientLogin(context.Background(), dto.ClientLoginRequest{
		Email: "C@Example.com", Password: "pass-12345",
	}, SessionMeta{})
	if err != nil {
		t.Fatalf("ClientLogin err: %v", err)
	}
	if resp.Token == "" || resp.Client.ID != "cli-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ExpiresIn <= 0 || resp.ExpiresIn > 3600 {
		t.Fatalf("expiresIn = %d", resp.ExpiresIn)
	}

	// La sesión quedó registrada por digest.
	ok, _ := e.registry.Exists(context.Background(), token.Digest(resp.Token))
	if !ok {
		t.Fatal("login must record a session entry")
	}
}

func TestClientLogin_APIKey(t *testing.T) {
	e := newEnv(t)
	e.addClient(t, "cli-1", "c@example.com", "pass-12345", "awk_key1")

	resp, err := e.svc.ClientLogin(context.Background(), dto.ClientLoginRequest{APIKey: "awk_key1"}, SessionMeta{})
	if err != nil {
		t.Fatalf("ClientLogin err: %v", err)
	}
	if resp.Client.ID != "cli-1" {
		t.Fatalf("unexpected client: %+v", resp.Client)
	}
}

func TestClientLogin_CredentialXOR(t *testing.T) {
	e := newEnv(t)
	e.addClient(t, "cli-1", "c@example.com", "pass-12345", "awk_key1")

	_, err := e.svc.ClientLogin(context.Background(), dto.ClientLoginRequest{}, SessionMeta{})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}

	_, err = e.svc.ClientLogin(context.Background(), dto.ClientLoginRequest{
		Email: "c@example.com", Password: "pass-12345", APIKey: "awk_key1",
	}, SessionMeta{})
	if !errors.Is(err, ErrAmbiguousCredentials) {
		t.Fatalf("err = %v, want ErrAmbiguousCredentials", err)
	}
}

func TestClientLogin_WrongPassword(t *testing.T) {
	e := newEnv(t)
	e.addClient(t, "cli-1", "c@example.com", "pass-12345", "awk_key1")

	_, err := e.svc.ClientLogin(context.Background(), dto.ClientLoginRequest{
		Email: "c@example.com", Password: "wrong",
	}, SessionMeta{})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestClientLogin_UnknownIsSameError(t *testing.T) {
	e := newEnv(t)
	// Cliente inexistente y password incorrecta devuelven el mismo error:
	// no filtrar qué emails existen.
	_, err := e.svc.ClientLogin(context.Background(), dto.ClientLoginRequest{
		Email: "ghost@example.com", Password: "whatever",
	}, SessionMeta{})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestClientLogin_InactiveDenied(t *testing.T) {
	e := newEnv(t)
	c := e.addClient(t, "cli-1", "c@example.com", "pass-12345", "awk_key1")
	c.IsActive = false

	_, err := e.svc.ClientLogin(context.Background(), dto.ClientLoginRequest{APIKey: "awk_key1"}, SessionMeta{})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestClientLogin_SiteScoping(t *testing.T) {
	e := newEnv(t)
	e.addClient(t, "cli-1", "c@example.com", "pass-12345", "awk_key1", "site-a")

	// siteId fuera del set → rechazado
	_, err := e.svc.ClientLogin(context.Background(), dto.ClientLoginRequest{
		APIKey: "awk_key1", SiteID: "site-z",
	}, SessionMeta{})
	if !errors.Is(err, ErrSiteNotAllowed) {
		t.Fatalf("err = %v, want ErrSiteNotAllowed", err)
	}

	// siteId dentro del set → ok
	if _, err := e.svc.ClientLogin(context.Background(), dto.ClientLoginRequest{
		APIKey: "awk_key1", SiteID: "site-a",
	}, SessionMeta{}); err != nil {
		t.Fatalf("scoped login err: %v", err)
	}

	// set vacío = sin restricción
	e.addClient(t, "cli-2", "d@example.com", "pass-12345", "awk_key2")
	if _, err := e.svc.ClientLogin(context.Background(), dto.ClientLoginRequest{
		APIKey: "awk_key2", SiteID: "any-site",
	}, SessionMeta{}); err != nil {
		t.Fatalf("unrestricted login err: %v", err)
	}
}

// ─── AdminLogin ───

func TestAdminLogin_OK(t *testing.T) {
	e := newEnv(t)
	e.addAdmin(t, "adm-1", "a@example.com", "hunter2-hunter2", core.RoleSuperAdmin)

	resp, err := e.svc.AdminLogin(context.Background(), dto.AdminLoginRequest{
		Email: "a@example.com", Password: "hunter2-hunter2",
	}, SessionMeta{IP: "10.0.0.1", UserAgent: "cli"})
	if err != nil {
		t.Fatalf("AdminLogin err: %v", err)
	}
	if resp.Admin.Role != core.RoleSuperAdmin {
		t.Fatalf("unexpected admin: %+v", resp.Admin)
	}
	if e.admins.touched != 1 {
		t.Fatal("login should touch last_login")
	}

	claims := e.issuer.Verify(resp.Token)
	if claims == nil || claims.Type != token.SubjectAdmin || claims.UserID != "adm-1" {
		t.Fatalf("token claims mismatch: %+v", claims)
	}
}

func TestAdminLogin_MissingFields(t *testing.T) {
	e := newEnv(t)
	if _, err := e.svc.AdminLogin(context.Background(), dto.AdminLoginRequest{Password: "x"}, SessionMeta{}); !errors.Is(err, ErrMissingEmail) {
		t.Fatalf("err = %v, want ErrMissingEmail", err)
	}
	if _, err := e.svc.AdminLogin(context.Background(), dto.AdminLoginRequest{Email: "a@b.co"}, SessionMeta{}); !errors.Is(err, ErrMissingPassword) {
		t.Fatalf("err = %v, want ErrMissingPassword", err)
	}
}

// ─── Refresh ───

func TestRefresh_RotatesSession(t *testing.T) {
	e := newEnv(t)
	e.addAdmin(t, "adm-1", "a@example.com", "hunter2-hunter2", core.RoleAdmin)

	login, err := e.svc.AdminLogin(context.Background(), dto.AdminLoginRequest{
		Email: "a@example.com", Password: "hunter2-hunter2",
	}, SessionMeta{})
	if err != nil {
		t.Fatal(err)
	}

	refreshed, err := e.svc.Refresh(context.Background(), "Bearer "+login.Token, SessionMeta{})
	if err != nil {
		t.Fatalf("Refresh err: %v", err)
	}
	if refreshed.Token == login.Token {
		t.Fatal("refresh must mint a new token")
	}

	// El viejo quedó revocado, el nuevo vive.
	if ok, _ := e.registry.Exists(context.Background(), token.Digest(login.Token)); ok {
		t.Fatal("old session must be revoked after refresh")
	}
	if ok, _ := e.registry.Exists(context.Background(), token.Digest(refreshed.Token)); !ok {
		t.Fatal("new session must be recorded")
	}

	// Refrescar el token viejo otra vez falla: ya no está en el registry.
	if _, err := e.svc.Refresh(context.Background(), "Bearer "+login.Token, SessionMeta{}); !errors.Is(err, ErrRevokedToken) {
		t.Fatalf("err = %v, want ErrRevokedToken", err)
	}
}

func TestRefresh_InvalidToken(t *testing.T) {
	e := newEnv(t)
	if _, err := e.svc.Refresh(context.Background(), "Bearer garbage", SessionMeta{}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
	if _, err := e.svc.Refresh(context.Background(), "", SessionMeta{}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestRefresh_InactiveSubject(t *testing.T) {
	e := newEnv(t)
	a := e.addAdmin(t, "adm-1", "a@example.com", "hunter2-hunter2", core.RoleAdmin)

	login, err := e.svc.AdminLogin(context.Background(), dto.AdminLoginRequest{
		Email: "a@example.com", Password: "hunter2-hunter2",
	}, SessionMeta{})
	if err != nil {
		t.Fatal(err)
	}

	a.IsActive = false
	if _, err := e.svc.Refresh(context.Background(), "Bearer "+login.Token, SessionMeta{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

// ─── Session lifetime ───

type recordingRegistry struct {
	session.Registry
	last *core.Session
}

func (r *recordingRegistry) Record(ctx context.Context, e core.Session) error {
	cp := e
	r.last = &cp
	return r.Registry.Record(ctx, e)
}

func TestLogin_SessionLivesForRefreshWindow(t *testing.T) {
	e := newEnv(t)
	reg := &recordingRegistry{Registry: e.registry}
	e.svc = NewService(Deps{
		Hasher: e.hasher, Issuer: e.issuer, Registry: reg,
		Admins: e.admins, Clients: e.clients,
	})
	e.addAdmin(t, "adm-1", "a@example.com", "hunter2-hunter2", core.RoleAdmin)

	if _, err := e.svc.AdminLogin(context.Background(), dto.AdminLoginRequest{
		Email: "a@example.com", Password: "hunter2-hunter2",
	}, SessionMeta{}); err != nil {
		t.Fatal(err)
	}
	if reg.last == nil {
		t.Fatal("login must record a session entry")
	}

	// La entrada vive toda la ventana de refresh, no la vida del access
	// token: un token vencido tiene que seguir siendo refrescable.
	want := time.Now().UTC().Add(e.issuer.RefreshTTL)
	got := reg.last.ExpiresAt
	if got.Before(want.Add(-time.Minute)) || got.After(want.Add(time.Minute)) {
		t.Fatalf("session ExpiresAt = %v, want ~%v (refresh window)", got, want)
	}
	if !got.After(time.Now().UTC().Add(e.issuer.AccessTTL)) {
		t.Fatalf("session ExpiresAt = %v must outlive the access token TTL %v", got, e.issuer.AccessTTL)
	}
}

// ─── Logout ───

func TestLogout_RevokesAndIsIdempotent(t *testing.T) {
	e := newEnv(t)
	e.addAdmin(t, "adm-1", "a@example.com", "hunter2-hunter2", core.RoleAdmin)

	login, err := e.svc.AdminLogin(context.Background(), dto.AdminLoginRequest{
		Email: "a@example.com", Password: "hunter2-hunter2",
	}, SessionMeta{})
	if err != nil {
		t.Fatal(err)
	}

	e.svc.Logout(context.Background(), "Bearer "+login.Token)
	if ok, _ := e.registry.Exists(context.Background(), token.Digest(login.Token)); ok {
		t.Fatal("logout must revoke the session")
	}

	// Logout repetido, sin token, o con basura: nunca falla.
	e.svc.Logout(context.Background(), "Bearer "+login.Token)
	e.svc.Logout(context.Background(), "")
	e.svc.Logout(context.Background(), "Bearer garbage")
}
