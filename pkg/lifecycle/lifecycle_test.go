package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/cohort/pkg/lifecycle"
)

func TestStartupHooks(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	lc.OnStartup(func() { count.Add(1) })
	lc.OnStartup(func() { count.Add(1) })

	if lc.Ready() {
		t.Error("Ready() = true before WaitForStartup")
	}

	lc.WaitForStartup()

	if got := count.Load(); got != 2 {
		t.Errorf("startup hooks run = %d, want 2", got)
	}
	if !lc.Ready() {
		t.Error("Ready() = false after WaitForStartup")
	}
}

func TestShutdownCancelsContext(t *testing.T) {
	lc := lifecycle.New()

	done := make(chan struct{})
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		close(done)
	})

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}

	select {
	case <-done:
	default:
		t.Error("shutdown hook did not run")
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context not cancelled after shutdown")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	lc.OnShutdown(func() { <-release })

	err := lc.Shutdown(10 * time.Millisecond)
	close(release)

	if err == nil {
		t.Error("Shutdown() error = nil, want timeout")
	}
}
