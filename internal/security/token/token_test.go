package token

import (
	"strings"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// issueExpired firma un token ya vencido con el secreto del issuer.
func issueExpired(t *testing.T, iss *Issuer, c Claims) string {
	t.Helper()
	now := time.Now().UTC()
	c.Issuer = iss.iss
	c.Subject = c.SubjectID()
	c.IssuedAt = jwtv5.NewNumericDate(now.Add(-2 * time.Hour))
	c.NotBefore = jwtv5.NewNumericDate(now.Add(-2 * time.Hour))
	c.ExpiresAt = jwtv5.NewNumericDate(now.Add(-time.Hour))

	signed, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, &c).SignedString(iss.secret)
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}
	return signed
}

func newTestIssuer() *Issuer {
	return NewIssuer("test-secret", "accessway-test", time.Hour, 7*24*time.Hour)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	iss := newTestIssuer()

	signed, exp, err := iss.Issue(Claims{
		Type:   SubjectAdmin,
		UserID: "adm-1",
		Role:   "admin",
		Email:  "admin@example.com",
	}, 0)
	if err != nil {
		t.Fatalf("Issue err: %v", err)
	}
	if until := time.Until(exp); until < 59*time.Minute || until > time.Hour {
		t.Fatalf("expiry should be ~AccessTTL away, got %v", until)
	}

	claims := iss.Verify(signed)
	if claims == nil {
		t.Fatal("Verify returned nil for a freshly issued token")
	}
	if claims.Type != SubjectAdmin || claims.UserID != "adm-1" || claims.Role != "admin" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.SubjectID() != "adm-1" {
		t.Fatalf("SubjectID = %q, want adm-1", claims.SubjectID())
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	signed, _, err := newTestIssuer().Issue(Claims{Type: SubjectClient, ClientID: "cli-1"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	other := NewIssuer("another-secret", "accessway-test", time.Hour, 0)
	if other.Verify(signed) != nil {
		t.Fatal("token signed with a different secret must not verify")
	}
}

func TestVerify_Tampered(t *testing.T) {
	iss := newTestIssuer()
	signed, _, err := iss.Issue(Claims{Type: SubjectClient, ClientID: "cli-1"}, 0)
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token format")
	}
	// corromper el payload
	payload := []byte(parts[1])
	payload[0] ^= 0x01
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if iss.Verify(tampered) != nil {
		t.Fatal("tampered token must not verify")
	}
}

func TestVerify_Garbage(t *testing.T) {
	iss := newTestIssuer()
	for _, raw := range []string{"", "   ", "abc", "a.b.c"} {
		if iss.Verify(raw) != nil {
			t.Fatalf("garbage %q must not verify", raw)
		}
	}
}

func TestVerify_Expired(t *testing.T) {
	iss := newTestIssuer()
	signed := issueExpired(t, iss, Claims{Type: SubjectAdmin, UserID: "adm-1"})

	if iss.Verify(signed) != nil {
		t.Fatal("expired token must not verify")
	}

	// El flujo de refresh sí lo acepta, con la firma intacta.
	claims := iss.VerifyAllowExpired(signed)
	if claims == nil {
		t.Fatal("VerifyAllowExpired should accept an expired but well-signed token")
	}
	if claims.UserID != "adm-1" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestVerifyAllowExpired_StillChecksSignature(t *testing.T) {
	signed := issueExpired(t, newTestIssuer(), Claims{Type: SubjectAdmin, UserID: "adm-1"})
	other := NewIssuer("another-secret", "x", time.Hour, 0)
	if other.VerifyAllowExpired(signed) != nil {
		t.Fatal("VerifyAllowExpired must still reject a bad signature")
	}
}

func TestVerify_RejectsUnknownSubjectType(t *testing.T) {
	iss := newTestIssuer()
	signed, _, err := iss.Issue(Claims{Type: SubjectType("bot"), UserID: "x"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if iss.Verify(signed) != nil {
		t.Fatal("token with unknown subject type must not verify")
	}
}

func TestDigest(t *testing.T) {
	a := Digest("token-a")
	b := Digest("token-b")

	if len(a) != 64 {
		t.Fatalf("digest should be 64 hex chars, got %d", len(a))
	}
	if a == b {
		t.Fatal("different tokens must produce different digests")
	}
	if a != Digest("token-a") {
		t.Fatal("digest must be deterministic")
	}
	if strings.ToLower(a) != a {
		t.Fatal("digest must be lowercase hex")
	}
}
