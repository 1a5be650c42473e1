package session

import (
	"testing"
	"time"

	"statemap/internal/interaction"
)

func TestGetPut(t *testing.T) {
	s := NewStore(2, time.Minute)
	a, b, c := &interaction.Controller{}, &interaction.Controller{}, &interaction.Controller{}
	s.Put("a", a)
	s.Put("b", b)
	if got, ok := s.Get("a"); !ok || got != a {
		t.Fatal("a missing")
	}
	s.Put("c", c)
	if _, ok := s.Get("b"); ok {
		t.Fatal("least recently used entry should have been evicted")
	}
	if _, ok := s.Get("a"); !ok {
		t.Fatal("recently used entry evicted")
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d", s.Len())
	}
}

func TestExpiry(t *testing.T) {
	s := NewStore(10, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	s.Put("x", &interaction.Controller{})

	now = now.Add(59 * time.Second)
	if _, ok := s.Get("x"); !ok {
		t.Fatal("expired too early")
	}
	now = now.Add(59 * time.Second)
	if _, ok := s.Get("x"); !ok {
		t.Fatal("Get should renew the ttl")
	}
	now = now.Add(2 * time.Minute)
	if _, ok := s.Get("x"); ok {
		t.Fatal("idle session not expired")
	}
	if s.Len() != 0 {
		t.Fatal("expired entry not removed")
	}
}

func TestPurgeAndIDs(t *testing.T) {
	s := NewStore(0, 0)
	s.Put("y", &interaction.Controller{})
	s.Purge()
	if s.Len() != 0 {
		t.Fatal("purge left entries")
	}
	id := NewID()
	if !ValidID(id) || ValidID("../etc/passwd") || ValidID("") {
		t.Fatal("ValidID misclassified")
	}
}
