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

// Package ppm implements the provider protocol machine: the per-CR cyclic
// data sender, its transmit-buffer staging area, and the process-wide
// shared lock every instance's staging writes and reads go through.
package ppm

import (
	"sync"
	"sync/atomic"
)

// ProcessState is the process-wide PPM state shared by every Instance:
// the staging-buffer lock and the instance refcount that governs its
// lifetime. A ProcessState is not a package global — callers construct
// one and thread it through every Instance they activate, so tests can
// run isolated instances side by side.
type ProcessState struct {
	count   atomic.Int64
	bufLock atomic.Pointer[sync.Mutex]
}

// NewProcessState returns a ProcessState with no active instances and no
// buffer lock; the lock is created lazily on the first Activate.
func NewProcessState() *ProcessState {
	return &ProcessState{}
}

// Acquire registers one more active instance, creating the shared buffer
// lock exactly on the 0->1 edge. Call once from Activate.
func (p *ProcessState) Acquire() {
	if n := p.count.Add(1); n == 1 {
		p.bufLock.Store(&sync.Mutex{})
	}
}

// Release unregisters one instance, destroying the shared buffer lock
// exactly on the 1->0 edge. Call once from Close.
func (p *ProcessState) Release() {
	if n := p.count.Add(-1); n == 0 {
		p.bufLock.Store(nil)
	}
}

// Lock acquires the shared buffer lock. The caller must already hold an
// Acquire (i.e. be an active instance), so the lock is guaranteed to
// exist.
func (p *ProcessState) Lock() {
	p.bufLock.Load().Lock()
}

// Unlock releases the shared buffer lock.
func (p *ProcessState) Unlock() {
	p.bufLock.Load().Unlock()
}

// InstanceCount returns the number of currently active instances.
func (p *ProcessState) InstanceCount() int64 {
	return p.count.Load()
}

// LockCreated reports whether the shared buffer lock currently exists.
func (p *ProcessState) LockCreated() bool {
	return p.bufLock.Load() != nil
}
