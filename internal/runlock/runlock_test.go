package runlock_test

import (
	"strings"
	"testing"

	"extrasync/internal/runlock"
)

func TestAcquireAndRelease(t *testing.T) {
	lock := runlock.New(t.TempDir())
	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
}

func TestSecondAcquireFailsWhileHeld(t *testing.T) {
	dir := t.TempDir()
	first := runlock.New(dir)
	if err := first.Acquire(); err != nil {
		t.Fatalf("first Acquire returned error: %v", err)
	}
	defer first.Release()

	second := runlock.New(dir)
	err := second.Acquire()
	if err == nil {
		second.Release()
		t.Fatal("expected second acquire to fail")
	}
	if !strings.Contains(err.Error(), "already in progress") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestReacquireAfterRelease(t *testing.T) {
	dir := t.TempDir()
	lock := runlock.New(dir)
	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}

	again := runlock.New(dir)
	if err := again.Acquire(); err != nil {
		t.Fatalf("re-acquire returned error: %v", err)
	}
	again.Release()
}
