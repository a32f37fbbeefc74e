package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/golang/glog"
)

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun wraps a Runnable with a name.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

// ErrForcedExit is returned by Wait when a second stop signal arrives.
var ErrForcedExit = errors.New("forced exit")

// Runner runs Runnables sharing one context. The first Runnable to
// return cancels the context so the others wind down too.
type Runner struct {
	Context context.Context

	cancel func()
	forced chan struct{}

	lock sync.Mutex
	wg   sync.WaitGroup
	errs AggregatedError
}

// NewRunner creates a runner with a default background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a runner derived from ctx.
func NewRunnerWith(ctx context.Context) *Runner {
	r := &Runner{forced: make(chan struct{})}
	r.Context, r.cancel = context.WithCancel(ctx)
	return r
}

// HandleSignals stops the Runner on CtrlC or SIGTERM, and gives up
// waiting on the second one.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		glog.Infof("%v: stopping", sig)
		r.cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(r.forced)
	}()
	return r
}

// Go spawns Runnables.
func (r *Runner) Go(runners ...Runnable) *Runner {
	for _, runner := range runners {
		name := fmt.Sprintf("%T", runner)
		if named, ok := runner.(Named); ok {
			name = named.Name()
		}
		r.wg.Add(1)
		go r.run(name, runner)
	}
	return r
}

func (r *Runner) run(name string, runner Runnable) {
	defer r.wg.Done()
	defer r.cancel()
	glog.V(4).Infof("Runner[%s] started", name)
	err := runner.Run(r.Context)
	if err == nil || err == context.Canceled {
		glog.V(4).Infof("Runner[%s] stopped", name)
		return
	}
	glog.Errorf("Runner[%s] stopped: %v", name, err)
	r.lock.Lock()
	r.errs.Add(err)
	r.lock.Unlock()
}

// Stop asks all Runnables to stop.
func (r *Runner) Stop() {
	r.cancel()
}

// Wait waits until all Runnables returned, and collects their failures.
// Cancellation isn't a failure.
func (r *Runner) Wait() error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-r.forced:
		return ErrForcedExit
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.errs.Aggregate()
}

// RunWithContextCancel runs fn which doesn't accept a context. onCancel
// is called once the context is done and must unblock fn; the context
// error is returned then.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	if onCancel != nil {
		onCancel()
	}
	<-errCh
	return ctx.Err()
}

// RunWithContextCloser runs fn and closes closer exactly once, either to
// unblock fn on cancel or after fn returned.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	var once sync.Once
	closeFn := func() { once.Do(func() { closer.Close() }) }
	defer closeFn()
	return RunWithContextCancel(ctx, closeFn, fn)
}
