package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_AllowsUpToMax(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "ip|/login")
		if err != nil {
			t.Fatal(err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}

	res, err := l.Allow(ctx, "ip|/login")
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Fatal("hit over the limit should be denied")
	}
	if res.Remaining != 0 {
		t.Fatalf("Remaining = %d, want 0", res.Remaining)
	}
	if res.RetryAfter <= 0 {
		t.Fatal("denied result should carry a RetryAfter")
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(1, time.Minute)

	if res, _ := l.Allow(ctx, "a"); !res.Allowed {
		t.Fatal("first hit on key a should pass")
	}
	if res, _ := l.Allow(ctx, "a"); res.Allowed {
		t.Fatal("second hit on key a should be denied")
	}
	if res, _ := l.Allow(ctx, "b"); !res.Allowed {
		t.Fatal("key b has its own window")
	}
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(1, 20*time.Millisecond)

	if res, _ := l.Allow(ctx, "k"); !res.Allowed {
		t.Fatal("first hit should pass")
	}
	if res, _ := l.Allow(ctx, "k"); res.Allowed {
		t.Fatal("second hit in the same window should be denied")
	}

	time.Sleep(30 * time.Millisecond)

	if res, _ := l.Allow(ctx, "k"); !res.Allowed {
		t.Fatal("hit in a new window should pass")
	}
}
