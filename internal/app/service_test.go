package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

type stubService struct {
	name     string
	startErr error
	block    bool
	stopped  atomic.Bool
	stopLog  *[]string
}

func (s *stubService) Name() string { return s.name }

func (s *stubService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *stubService) Stop(_ context.Context) error {
	s.stopped.Store(true)
	if s.stopLog != nil {
		*s.stopLog = append(*s.stopLog, s.name)
	}
	return nil
}

func TestRunnerStopsAllServicesWhenOneFails(t *testing.T) {
	failing := &stubService{name: "worker", startErr: errors.New("queue down")}
	blocking := &stubService{name: "http", block: true}

	err := NewRunner(failing, blocking).Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "queue down" {
		t.Fatalf("expected start error, got %v", err)
	}
	if !failing.stopped.Load() || !blocking.stopped.Load() {
		t.Fatalf("all services should be stopped")
	}
}

func TestRunnerReturnsNilOnCancel(t *testing.T) {
	blocking := &stubService{name: "http", block: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewRunner(blocking).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancel should be a clean exit, got %v", err)
	}
	if !blocking.stopped.Load() {
		t.Fatalf("service should be stopped")
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected error for empty runner")
	}
}

func TestRunnerStopsInReverseOrder(t *testing.T) {
	var stopped []string
	httpSvc := &stubService{name: "http", block: true, stopLog: &stopped}
	workerSvc := &stubService{name: "worker", block: true, stopLog: &stopped}
	runner := NewRunner(httpSvc, workerSvc)
	if names := runner.Names(); len(names) != 2 || names[0] != "http" {
		t.Fatalf("unexpected names: %v", names)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(stopped) != 2 || stopped[0] != "worker" || stopped[1] != "http" {
		t.Fatalf("unexpected stop order: %v", stopped)
	}
}

func TestRunnerRejectsNilService(t *testing.T) {
	if err := NewRunner(&stubService{name: "http"}, nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected error for nil service")
	}
}

func TestHTTPServiceServeAndStop(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	svc := NewHTTPService(listener.Addr().String(), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	done := make(chan error, 1)
	go func() { done <- svc.serve(listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status want 204 got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.Stop(ctx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("serve should exit cleanly, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "", want: ModeAll},
		{raw: " API ", want: ModeAPI},
		{raw: "worker", want: ModeWorker},
		{raw: "cron", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseMode(tc.raw)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseMode(%q) err=%v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMode(%q) want %q got %q", tc.raw, tc.want, got)
		}
	}
}
