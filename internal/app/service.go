package app

import (
	"context"
	"errors"
	"os/signal"
	"time"

	"go.uber.org/zap"
)

// Service 服务接口
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner 服务运行器
type Runner struct {
	services []Service
}

// NewRunner 创建服务运行器
func NewRunner(services ...Service) *Runner {
	return &Runner{services: services}
}

// RunWithOptions 运行服务并处理系统信号
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}

	err := runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
	return err
}

// Names 返回已注册服务名，用于启动日志
func (r *Runner) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.services))
	for _, svc := range r.services {
		if svc != nil {
			names = append(names, svc.Name())
		}
	}
	return names
}

// Run 并发启动全部服务，任一服务退出或收到信号后按注册逆序停止
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, logger *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	for _, svc := range r.services {
		if svc == nil {
			return errors.New("service is nil")
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(r.services))
	for _, svc := range r.services {
		go func() {
			if logger != nil {
				logger.Infow("service_start", "service", svc.Name())
			}
			err := svc.Start(ctx)
			if logger != nil {
				logger.Infow("service_exit", "service", svc.Name(), "error", err)
			}
			errCh <- err
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ctx.Err()
	case err := <-errCh:
		runErr = err
	}

	cancel()
	if stopTimeout <= 0 {
		stopTimeout = defaultShutdownTimeout
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	// HTTP 先于 worker 注册，逆序停止保证入队请求被排空
	for i := len(r.services) - 1; i >= 0; i-- {
		svc := r.services[i]
		if err := svc.Stop(stopCtx); err != nil && logger != nil {
			logger.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
		}
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}
