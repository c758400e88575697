/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package ppmtimer implements the cyclic timer driver: a periodic or
// one-shot callback scheduler used both by the provider protocol machine
// to drive its send cycle and by the discovery engine to watch for peer
// timeout.
package ppmtimer

import (
	"sync"
	"time"
)

// Timer drives a callback either periodically or once, on its own
// goroutine, and can have its period changed or be stopped at any time.
type Timer struct {
	mu       sync.Mutex
	interval time.Duration
	oneShot  bool
	cb       func(now time.Time)
	running  bool
	stopCh   chan struct{}
}

// New creates a Timer that invokes cb every interval (or once, after
// interval, if oneShot is set). The timer does not start until Start is
// called.
func New(interval time.Duration, cb func(now time.Time), oneShot bool) *Timer {
	return &Timer{
		interval: interval,
		oneShot:  oneShot,
		cb:       cb,
	}
}

// Start launches the timer goroutine. Calling Start on an already-running
// timer is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	stopCh := make(chan struct{})
	t.stopCh = stopCh
	interval := t.interval
	oneShot := t.oneShot
	t.mu.Unlock()

	go t.run(stopCh, interval, oneShot)
}

func (t *Timer) run(stopCh chan struct{}, interval time.Duration, oneShot bool) {
	tt := time.NewTimer(interval)
	defer tt.Stop()
	for {
		select {
		case <-stopCh:
			return
		case now := <-tt.C:
			if oneShot {
				// Clear running before invoking cb: a one-shot callback
				// rearms itself by calling Start from inside cb (§4.B),
				// and that call must see the timer as stopped to relaunch
				// the goroutine rather than silently no-op against a
				// still-true running flag.
				t.mu.Lock()
				t.running = false
				t.mu.Unlock()
				t.cb(now)
				return
			}
			t.cb(now)
			t.mu.Lock()
			tt.Reset(t.interval)
			t.mu.Unlock()
		}
	}
}

// SetInterval changes the period applied on the next tick. It does not
// reset a currently pending tick.
func (t *Timer) SetInterval(interval time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interval = interval
}

// Stop halts the timer goroutine. It is safe to call Stop more than once
// or on a timer that was never started.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.running = false
	close(t.stopCh)
}

// Destroy stops the timer and releases its callback reference.
func (t *Timer) Destroy() {
	t.Stop()
	t.mu.Lock()
	t.cb = nil
	t.mu.Unlock()
}

// Running reports whether the timer goroutine is active.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
