package daemon_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"courses/internal/daemon"
	"courses/internal/logging"
	"courses/internal/testsupport"
)

func TestDaemonServesAndShutsDown(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	var addr string
	deadline := time.Now().Add(5 * time.Second)
	for addr = d.Addr(); addr == ""; addr = d.Addr() {
		if time.Now().After(deadline) {
			t.Fatal("daemon never started listening")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get("http://" + addr + "/api/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("daemon did not shut down")
	}
}

func TestSecondInstanceRefused(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	first, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	defer first.Close()

	if _, err := daemon.New(cfg, logging.NewNop()); err == nil {
		t.Fatal("second instance should be refused while the lock is held")
	}
}
