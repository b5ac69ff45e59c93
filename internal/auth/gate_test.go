package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/accessway/internal/security/token"
	"github.com/dropDatabas3/accessway/internal/session"
	"github.com/dropDatabas3/accessway/internal/store/core"
)

// ─── Fakes ───

type fakeAdmins struct {
	core.AdminRepository
	byID map[string]*core.AdminUser
	err  error
}

func (f *fakeAdmins) GetAdminByID(ctx context.Context, id string) (*core.AdminUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return a, nil
}

type fakeClients struct {
	core.ClientRepository
	byID map[string]*core.Client
}

func (f *fakeClients) GetClientByID(ctx context.Context, id string) (*core.Client, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return c, nil
}

type errRegistry struct{ session.Registry }

func (errRegistry) Exists(ctx context.Context, digest string) (bool, error) {
	return false, errors.New("registry down")
}

// ─── Harness ───

type gateEnv struct {
	issuer   *token.Issuer
	registry session.Registry
	admins   *fakeAdmins
	clients  *fakeClients
	gate     *Gate
}

func newGateEnv(t *testing.T) *gateEnv {
	t.Helper()
	env := &gateEnv{
		issuer:   token.NewIssuer("test-secret", "accessway-test", time.Hour, 0),
		registry: session.NewMemory(),
		admins:   &fakeAdmins{byID: map[string]*core.AdminUser{}},
		clients:  &fakeClients{byID: map[string]*core.Client{}},
	}
	env.gate = NewGate(env.issuer, env.registry, env.admins, env.clients)
	return env
}

// issueRecorded emite un token y lo registra como sesión viva.
func (e *gateEnv) issueRecorded(t *testing.T, c token.Claims) string {
	t.Helper()
	signed, exp, err := e.issuer.Issue(c, 0)
	if err != nil {
		t.Fatal(err)
	}
	err = e.registry.Record(context.Background(), core.Session{
		TokenDigest: token.Digest(signed),
		SubjectID:   c.SubjectID(),
		ExpiresAt:   exp,
	})
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

// ─── Tests ───

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"Bearer   abc", "abc", true}, // espacios antes del token se toleran
		{"", "", false},
		{"Bearer ", "", false},
		{"bearer abc", "", false}, // prefijo case-sensitive
		{"Basic abc", "", false},
		{"Bearer abc def", "", false}, // espacios internos no
		{"abc", "", false},
	}
	for _, c := range cases {
		got, ok := ExtractBearer(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ExtractBearer(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestResolve_NoToken(t *testing.T) {
	env := newGateEnv(t)
	if _, err := env.gate.Resolve(context.Background(), ""); !errors.Is(err, ErrNoToken) {
		t.Fatalf("err = %v, want ErrNoToken", err)
	}
	if _, err := env.gate.Resolve(context.Background(), "Basic xyz"); !errors.Is(err, ErrNoToken) {
		t.Fatalf("err = %v, want ErrNoToken", err)
	}
}

func TestResolve_InvalidToken(t *testing.T) {
	env := newGateEnv(t)
	if _, err := env.gate.Resolve(context.Background(), "Bearer garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestResolve_RevokedToken(t *testing.T) {
	env := newGateEnv(t)
	// Token válido pero nunca registrado: el registry manda (hard revocation).
	signed, _, err := env.issuer.Issue(token.Claims{Type: token.SubjectAdmin, UserID: "adm-1"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.gate.Resolve(context.Background(), "Bearer "+signed); !errors.Is(err, ErrRevoked) {
		t.Fatalf("err = %v, want ErrRevoked", err)
	}
}

func TestResolve_AdminOK(t *testing.T) {
	env := newGateEnv(t)
	env.admins.byID["adm-1"] = &core.AdminUser{
		ID: "adm-1", Email: "a@example.com", Role: core.RoleSuperAdmin, IsActive: true,
	}
	signed := env.issueRecorded(t, token.Claims{Type: token.SubjectAdmin, UserID: "adm-1"})

	p, err := env.gate.Resolve(context.Background(), "Bearer "+signed)
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if !p.IsAdmin() || !p.IsSuperAdmin() || p.ID != "adm-1" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestResolve_ClientOK(t *testing.T) {
	env := newGateEnv(t)
	env.clients.byID["cli-1"] = &core.Client{
		ID: "cli-1", Email: "c@example.com", CompanyName: "Acme",
		SiteIDs: []string{"site-a"}, IsActive: true,
	}
	signed := env.issueRecorded(t, token.Claims{Type: token.SubjectClient, ClientID: "cli-1"})

	p, err := env.gate.Resolve(context.Background(), "Bearer "+signed)
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if !p.IsClient() || p.CompanyName != "Acme" {
		t.Fatalf("unexpected principal: %+v", p)
	}
	if !p.CanAccessSite("site-a") || p.CanAccessSite("site-b") {
		t.Fatal("site scoping mismatch")
	}
}

func TestResolve_InactiveSubject(t *testing.T) {
	env := newGateEnv(t)
	env.admins.byID["adm-1"] = &core.AdminUser{ID: "adm-1", IsActive: false}
	signed := env.issueRecorded(t, token.Claims{Type: token.SubjectAdmin, UserID: "adm-1"})

	if _, err := env.gate.Resolve(context.Background(), "Bearer "+signed); !errors.Is(err, ErrNotActive) {
		t.Fatalf("err = %v, want ErrNotActive", err)
	}
}

func TestResolve_MissingSubject(t *testing.T) {
	env := newGateEnv(t)
	signed := env.issueRecorded(t, token.Claims{Type: token.SubjectAdmin, UserID: "ghost"})

	if _, err := env.gate.Resolve(context.Background(), "Bearer "+signed); !errors.Is(err, ErrNotActive) {
		t.Fatalf("err = %v, want ErrNotActive", err)
	}
}

func TestResolve_RegistryFailureIsDependency(t *testing.T) {
	env := newGateEnv(t)
	gate := NewGate(env.issuer, errRegistry{}, env.admins, env.clients)

	signed, _, err := env.issuer.Issue(token.Claims{Type: token.SubjectAdmin, UserID: "adm-1"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Falla de infraestructura nunca se disfraza de 401.
	if _, err := gate.Resolve(context.Background(), "Bearer "+signed); !errors.Is(err, ErrDependency) {
		t.Fatalf("err = %v, want ErrDependency", err)
	}
}

func TestResolve_RevokeThenDenied(t *testing.T) {
	env := newGateEnv(t)
	env.admins.byID["adm-1"] = &core.AdminUser{ID: "adm-1", IsActive: true}
	signed := env.issueRecorded(t, token.Claims{Type: token.SubjectAdmin, UserID: "adm-1"})

	if _, err := env.gate.Resolve(context.Background(), "Bearer "+signed); err != nil {
		t.Fatalf("first resolve should pass: %v", err)
	}

	_ = env.registry.Revoke(context.Background(), token.Digest(signed))

	if _, err := env.gate.Resolve(context.Background(), "Bearer "+signed); !errors.Is(err, ErrRevoked) {
		t.Fatalf("err = %v, want ErrRevoked after revocation", err)
	}
}
