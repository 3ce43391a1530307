package core

import (
	"context"
	"testing"
	"time"
)

// TestGoroutineSpawner_RunsBody verifies the default spawner executes fn
// Given: A GoroutineSpawner
// When: Spawn is called
// Then: The body runs off the calling goroutine with a live context
func TestGoroutineSpawner_RunsBody(t *testing.T) {
	// Arrange
	s := GoroutineSpawner{}
	ran := make(chan struct{})

	// Act
	handle, err := s.Spawn(SpawnSpec{Name: "probe"}, func(ctx context.Context) {
		if ctx.Err() != nil {
			t.Error("context should be live inside the body")
		}
		close(ran)
	})

	// Assert
	if err != nil {
		t.Fatalf("Spawn() = %v, want nil", err)
	}
	if handle == nil {
		t.Fatal("Spawn() returned a nil handle")
	}
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("body never ran")
	}
}

// TestGoroutineSpawner_KillCancelsContext verifies the kill path
// Given: A spawned body blocked on its context
// When: Kill is called on the handle
// Then: The context is cancelled and the body unblocks
func TestGoroutineSpawner_KillCancelsContext(t *testing.T) {
	// Arrange
	s := GoroutineSpawner{}
	unblocked := make(chan struct{})
	handle, err := s.Spawn(SpawnSpec{Name: "blocked"}, func(ctx context.Context) {
		<-ctx.Done()
		close(unblocked)
	})
	if err != nil {
		t.Fatalf("Spawn() = %v, want nil", err)
	}

	// Act
	handle.Kill()

	// Assert
	select {
	case <-unblocked:
	case <-time.After(2 * time.Second):
		t.Fatal("Kill did not cancel the body's context")
	}
}

// TestGoroutineSpawner_NilBody verifies the nil-body refusal
// Given: A GoroutineSpawner
// When: Spawn is called with a nil fn
// Then: An error is returned and no handle
func TestGoroutineSpawner_NilBody(t *testing.T) {
	s := GoroutineSpawner{}

	handle, err := s.Spawn(SpawnSpec{Name: "empty"}, nil)

	if err == nil {
		t.Fatal("Spawn(nil) should fail")
	}
	if handle != nil {
		t.Fatal("no handle should be returned on failure")
	}
}

// TestSetSpawner_RoundTrip verifies the process-wide spawner store
// Given: A custom spawner
// When: SetSpawner then CurrentSpawner are called
// Then: The custom spawner is returned, and nil restores the default
func TestSetSpawner_RoundTrip(t *testing.T) {
	t.Cleanup(func() { SetSpawner(nil) })

	// Arrange
	custom := &manualSpawner{}

	// Act
	SetSpawner(custom)

	// Assert
	if got := CurrentSpawner(); got != Spawner(custom) {
		t.Fatalf("CurrentSpawner() = %T, want the custom spawner", got)
	}

	SetSpawner(nil)
	if _, ok := CurrentSpawner().(GoroutineSpawner); !ok {
		t.Fatalf("CurrentSpawner() after reset = %T, want GoroutineSpawner", CurrentSpawner())
	}
}
