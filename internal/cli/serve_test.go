package cli

import (
	"context"
	"testing"
	"time"

	"github.com/clipperviz/clipper/internal/config"
	"github.com/clipperviz/clipper/pkg/observability"
)

func TestRunServeStopsOnCancel(t *testing.T) {
	defer observability.Reset()

	cfg := config.Default()
	cfg.Server.Listen = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- runServe(ctx, cfg) }()

	// Let the listener come up before cancelling
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("runServe() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServe() did not stop after cancel")
	}
}

func TestServeCommandRejectsArgs(t *testing.T) {
	var path string
	cmd := newServeCmd(&path)
	cmd.SetArgs([]string{"extra"})
	if err := cmd.Execute(); err == nil {
		t.Error("serve should reject positional arguments")
	}
}
