package domaingate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/accessway/internal/cache"
	"github.com/dropDatabas3/accessway/internal/store/core"
)

type fakeDomains struct {
	core.DomainRepository
	rows []core.AllowedDomain
	err  error

	calls int
}

func (f *fakeDomains) ListDomains(ctx context.Context, onlyActive bool) ([]core.AllowedDomain, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func domains(names ...string) []core.AllowedDomain {
	out := make([]core.AllowedDomain, 0, len(names))
	for _, n := range names {
		out = append(out, core.AllowedDomain{Domain: n, IsActive: true})
	}
	return out
}

func TestCheck_EmptyListAllowsAll(t *testing.T) {
	g := New(&fakeDomains{}, nil)
	res := g.Check(context.Background(), "https://anything.example", "", "")
	if res.Decision != Allowed {
		t.Fatalf("decision = %v, want Allowed (bootstrap mode)", res.Decision)
	}
	if !res.Permitted() {
		t.Fatal("Allowed must be permitted")
	}
}

func TestCheck_ExactAndSubdomainMatch(t *testing.T) {
	g := New(&fakeDomains{rows: domains("example.com")}, nil)

	res := g.Check(context.Background(), "https://example.com", "", "")
	if res.Decision != Allowed || res.Domain != "example.com" {
		t.Fatalf("exact match: %+v", res)
	}

	res = g.Check(context.Background(), "https://app.example.com:8443/page", "", "")
	if res.Decision != Allowed || res.Domain != "app.example.com" {
		t.Fatalf("subdomain match: %+v", res)
	}
}

func TestCheck_Denied(t *testing.T) {
	g := New(&fakeDomains{rows: domains("example.com")}, nil)

	res := g.Check(context.Background(), "https://evil.org", "", "")
	if res.Decision != Denied {
		t.Fatalf("decision = %v, want Denied", res.Decision)
	}
	if res.Permitted() {
		t.Fatal("Denied must not be permitted")
	}
	if res.Domain != "evil.org" || len(res.AllowList) != 1 {
		t.Fatalf("denied result should carry diagnostics: %+v", res)
	}

	// Sufijo sin punto no es subdominio.
	res = g.Check(context.Background(), "https://evilexample.com", "", "")
	if res.Decision != Denied {
		t.Fatalf("evilexample.com should be denied, got %v", res.Decision)
	}
}

func TestCheck_CandidatePrecedence(t *testing.T) {
	g := New(&fakeDomains{rows: domains("fromorigin.com", "fromreferer.com", "fromhost.com")}, nil)

	// Origin gana sobre Referer y Host.
	res := g.Check(context.Background(), "https://fromorigin.com", "https://fromreferer.com/p", "fromhost.com")
	if res.Domain != "fromorigin.com" {
		t.Fatalf("candidate = %q, want fromorigin.com", res.Domain)
	}

	// Sin Origin: Referer.
	res = g.Check(context.Background(), "", "https://fromreferer.com/p", "fromhost.com")
	if res.Domain != "fromreferer.com" {
		t.Fatalf("candidate = %q, want fromreferer.com", res.Domain)
	}

	// Sin Origin ni Referer: Host (con puerto).
	res = g.Check(context.Background(), "", "", "fromhost.com:8080")
	if res.Domain != "fromhost.com" {
		t.Fatalf("candidate = %q, want fromhost.com", res.Domain)
	}
}

func TestCheck_FailOpenOnStoreError(t *testing.T) {
	g := New(&fakeDomains{err: errors.New("db down")}, nil)

	res := g.Check(context.Background(), "https://whoever.com", "", "")
	if res.Decision != FailOpenAllowed {
		t.Fatalf("decision = %v, want FailOpenAllowed", res.Decision)
	}
	if !res.Permitted() {
		t.Fatal("fail-open must be permitted")
	}
}

func TestCheck_UsesCache(t *testing.T) {
	repo := &fakeDomains{rows: domains("example.com")}
	c := cache.New(time.Minute)
	g := New(repo, c)

	for i := 0; i < 3; i++ {
		if res := g.Check(context.Background(), "https://example.com", "", ""); res.Decision != Allowed {
			t.Fatalf("check %d: %v", i, res.Decision)
		}
	}
	if repo.calls != 1 {
		t.Fatalf("store queried %d times, want 1 (cached)", repo.calls)
	}

	g.Invalidate()
	_ = g.Check(context.Background(), "https://example.com", "", "")
	if repo.calls != 2 {
		t.Fatalf("store queried %d times after Invalidate, want 2", repo.calls)
	}
}

func TestCheck_ServesStaleBeforeFailOpen(t *testing.T) {
	repo := &fakeDomains{rows: domains("example.com")}
	c := cache.New(time.Nanosecond) // fresh vence al instante, queda la copia stale
	g := New(repo, c)

	if res := g.Check(context.Background(), "https://example.com", "", ""); res.Decision != Allowed {
		t.Fatalf("warmup: %v", res.Decision)
	}

	time.Sleep(time.Millisecond) // pasar freshUntil
	repo.err = errors.New("db down")

	// La lista stale se sigue aplicando: denegar sigue siendo denegar,
	// no fail-open.
	res := g.Check(context.Background(), "https://evil.org", "", "")
	if res.Decision != Denied {
		t.Fatalf("decision = %v, want Denied from stale list", res.Decision)
	}

	res = g.Check(context.Background(), "https://example.com", "", "")
	if res.Decision != Allowed {
		t.Fatalf("decision = %v, want Allowed from stale list", res.Decision)
	}
}

func TestCandidateHost(t *testing.T) {
	cases := []struct {
		origin, referer, host string
		want                  string
	}{
		{"https://a.com", "https://b.com", "c.com", "a.com"},
		{"not a url", "https://b.com", "c.com", "b.com"},
		{"", "", "c.com:443", "c.com"},
		{"", "", "", ""},
	}
	for _, c := range cases {
		if got := CandidateHost(c.origin, c.referer, c.host); got != c.want {
			t.Errorf("CandidateHost(%q, %q, %q) = %q, want %q", c.origin, c.referer, c.host, got, c.want)
		}
	}
}
