package cache

import (
	"testing"
	"time"
)

func TestSetGet_Fresh(t *testing.T) {
	c := New(time.Minute)

	c.Set("k", "v", 0)
	v, ok := c.Get("k", false)
	if !ok || v.(string) != "v" {
		t.Fatalf("Get = (%v, %v), want (v, true)", v, ok)
	}
}

func TestGet_Miss(t *testing.T) {
	c := New(time.Minute)
	if _, ok := c.Get("nope", false); ok {
		t.Fatal("unexpected hit")
	}
	if _, ok := c.Get("nope", true); ok {
		t.Fatal("allowStale must not invent entries")
	}
}

func TestGet_StaleWindow(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", 42, 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond) // pasado freshUntil, dentro de stale

	if _, ok := c.Get("k", false); ok {
		t.Fatal("entry past freshUntil must miss without allowStale")
	}
	v, ok := c.Get("k", true)
	if !ok || v.(int) != 42 {
		t.Fatalf("stale read = (%v, %v), want (42, true)", v, ok)
	}
}

func TestGet_PastStaleWindow(t *testing.T) {
	c := New(time.Minute)
	c.stale = 20 * time.Millisecond // acortar la ventana para el test
	c.Set("k", "v", 5*time.Millisecond)

	time.Sleep(40 * time.Millisecond)

	if _, ok := c.Get("k", true); ok {
		t.Fatal("entry past staleUntil must be gone even with allowStale")
	}
}

func TestSet_TTLBeyondStaleWindow(t *testing.T) {
	c := New(time.Minute)
	c.stale = 10 * time.Millisecond // acortar la ventana para el test
	c.Set("k", "v", 50*time.Millisecond)

	time.Sleep(25 * time.Millisecond) // pasada la ventana stale, aún fresco

	v, ok := c.Get("k", false)
	if !ok || v.(string) != "v" {
		t.Fatalf("entry still fresh must survive the stale horizon, got (%v, %v)", v, ok)
	}
}

func TestSet_Replaces(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", "old", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	c.Set("k", "new", time.Minute)
	v, ok := c.Get("k", false)
	if !ok || v.(string) != "new" {
		t.Fatalf("Get after replace = (%v, %v), want (new, true)", v, ok)
	}
}

func TestDelete(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", "v", 0)
	c.Delete("k")
	if _, ok := c.Get("k", true); ok {
		t.Fatal("deleted entry must be gone")
	}
	c.Delete("k") // idempotente
}

func TestDeletePattern(t *testing.T) {
	c := New(time.Minute)
	c.Set("client:1", "a", 0)
	c.Set("client:1:cfg", "b", 0)
	c.Set("client:2", "c", 0)
	c.Set("other", "d", 0)

	c.DeletePattern("client:1:*")
	if _, ok := c.Get("client:1:cfg", false); ok {
		t.Fatal("client:1:cfg should be gone")
	}
	if _, ok := c.Get("client:1", false); !ok {
		t.Fatal("client:1 should survive the pattern")
	}

	c.DeletePattern("client:*")
	if _, ok := c.Get("client:1", false); ok {
		t.Fatal("client:1 should be gone")
	}
	if _, ok := c.Get("client:2", false); ok {
		t.Fatal("client:2 should be gone")
	}
	if _, ok := c.Get("other", false); !ok {
		t.Fatal("other should survive")
	}

	// sin '*' borra la key literal
	c.DeletePattern("other")
	if _, ok := c.Get("other", false); ok {
		t.Fatal("literal pattern should delete the exact key")
	}
}

func TestStartStop_Idempotent(t *testing.T) {
	c := New(time.Minute)
	c.Start()
	c.Start()
	c.Stop()
	c.Stop()
	c.Start()
	c.Stop()
}
