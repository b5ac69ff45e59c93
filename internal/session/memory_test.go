package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/accessway/internal/store/core"
)

func TestMemory_RecordExistsRevoke(t *testing.T) {
	ctx := context.Background()
	r := NewMemory()

	e := core.Session{
		TokenDigest: "digest-1",
		SubjectID:   "adm-1",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	if err := r.Record(ctx, e); err != nil {
		t.Fatalf("Record err: %v", err)
	}

	ok, err := r.Exists(ctx, "digest-1")
	if err != nil || !ok {
		t.Fatalf("Exists = (%v, %v), want (true, nil)", ok, err)
	}

	if err := r.Revoke(ctx, "digest-1"); err != nil {
		t.Fatalf("Revoke err: %v", err)
	}
	ok, _ = r.Exists(ctx, "digest-1")
	if ok {
		t.Fatal("revoked digest must not exist")
	}
}

func TestMemory_DuplicateDigestIsConflict(t *testing.T) {
	ctx := context.Background()
	r := NewMemory()

	e := core.Session{TokenDigest: "dup", ExpiresAt: time.Now().Add(time.Hour)}
	if err := r.Record(ctx, e); err != nil {
		t.Fatal(err)
	}
	if err := r.Record(ctx, e); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("duplicate Record err = %v, want ErrConflict", err)
	}
}

func TestMemory_RevokeUnknownIsNoop(t *testing.T) {
	r := NewMemory()
	if err := r.Revoke(context.Background(), "never-recorded"); err != nil {
		t.Fatalf("revoking an unknown digest must succeed, got %v", err)
	}
}

func TestMemory_SweepExpired(t *testing.T) {
	ctx := context.Background()
	r := NewMemory()

	_ = r.Record(ctx, core.Session{TokenDigest: "old", ExpiresAt: time.Now().Add(-time.Minute)})
	_ = r.Record(ctx, core.Session{TokenDigest: "live", ExpiresAt: time.Now().Add(time.Hour)})

	n, err := r.SweepExpired(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if ok, _ := r.Exists(ctx, "old"); ok {
		t.Fatal("expired entry should be swept")
	}
	if ok, _ := r.Exists(ctx, "live"); !ok {
		t.Fatal("live entry should survive the sweep")
	}
}
