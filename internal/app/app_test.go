package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/vendingmachine/internal/config"
	testhelpers "github.com/polkiloo/vendingmachine/internal/test"
	"github.com/polkiloo/vendingmachine/internal/worker"
)

type partitionerStub struct {
	passes chan int
}

func (p partitionerStub) EnsureOrderPartitions(_ context.Context, _ time.Time, ahead int) error {
	if p.passes != nil {
		select {
		case p.passes <- ahead:
		default:
		}
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
}

func TestNewPartitionMaintainerUsesConfig(t *testing.T) {
	passes := make(chan int, 1)
	m := newPartitionMaintainer(maintainerParams{
		Partitioner: partitionerStub{passes: passes},
		Config:      &config.Config{PartitionCheckInterval: 15 * time.Minute, PartitionsAhead: 3},
		Logger:      discardLogger(),
	})
	m.Start(context.Background())
	defer m.Stop()

	select {
	case ahead := <-passes:
		if ahead != 3 {
			t.Fatalf("expected 3 partitions ahead from config, got %d", ahead)
		}
	case <-time.After(time.Second):
		t.Fatal("expected an immediate maintenance pass")
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{}
	passes := make(chan int, 1)
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     server,
		Maintainer: worker.NewPartitionMaintainer(partitionerStub{passes: passes}, time.Hour, 1, discardLogger()),
		Config:     &config.Config{ShutdownTimeout: 100 * time.Millisecond},
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := recorder.Start(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}
	// the start context ending must not stop the maintainer
	cancel()

	select {
	case <-passes:
	case <-time.After(time.Second):
		t.Fatal("expected maintainer to run on start")
	}

	done := make(chan error, 1)
	go func() { done <- recorder.Stop(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("on stop failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
	if shutdowner.Calls() != 0 {
		t.Fatalf("graceful stop must not request shutdown, got %d calls", shutdowner.Calls())
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     &http.Server{Addr: "bad addr"},
		Maintainer: worker.NewPartitionMaintainer(partitionerStub{}, time.Hour, 0, discardLogger()),
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	if err := recorder.Start(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = recorder.Stop(context.Background())
}

func TestLifecycleRecorderRunsHooksInFxOrder(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	var order []string
	for _, name := range []string{"storage", "server"} {
		recorder.Append(fx.Hook{
			OnStart: func(context.Context) error { order = append(order, "start "+name); return nil },
			OnStop:  func(context.Context) error { order = append(order, "stop "+name); return nil },
		})
	}

	_ = recorder.Start(context.Background())
	_ = recorder.Stop(context.Background())

	want := []string{"start storage", "start server", "stop server", "stop storage"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}
