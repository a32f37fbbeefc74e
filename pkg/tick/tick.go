// Package tick provides the periodic tick source and the tick counter the
// door and alarm tasks wait on.
package tick

import (
	"errors"
	"sync"
	"time"
)

// ErrRunning is returned when starting a source that is already running.
var ErrRunning = errors.New("tick source already running")

// Source invokes a callback at a fixed interval between Start and Stop.
type Source interface {
	Start(interval time.Duration, callback func()) error
	Stop()
}

// Ticker is a Source backed by time.Ticker.
type Ticker struct {
	lock   sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}
}

// Start implements Source.
func (t *Ticker) Start(interval time.Duration, callback func()) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.stopCh != nil {
		return ErrRunning
	}
	stopCh, doneCh := make(chan struct{}), make(chan struct{})
	t.stopCh, t.doneCh = stopCh, doneCh
	ticker := time.NewTicker(interval)
	go func() {
		defer close(doneCh)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				callback()
			}
		}
	}()
	return nil
}

// Stop implements Source. No callback runs after Stop returns.
func (t *Ticker) Stop() {
	t.lock.Lock()
	stopCh, doneCh := t.stopCh, t.doneCh
	t.stopCh, t.doneCh = nil, nil
	t.lock.Unlock()
	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}
}
