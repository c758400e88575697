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

// Package memory provides in-memory hostapi adapters for tests, mirroring
// the inline fakes the teacher repo constructs in its own *_test.go files.
package memory

import (
	"fmt"
	"sync"

	"github.com/fieldbus-io/pnetcore/hostapi"
)

// Link is a hostapi.EthernetLink that records every frame it was asked
// to send.
type Link struct {
	mu         sync.Mutex
	Cyclic     [][]byte
	LLDP       [][]byte
	FailCyclic bool
	FailLLDP   bool
}

// SendCyclic implements hostapi.EthernetLink.
func (l *Link) SendCyclic(frame []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.FailCyclic {
		return 0, fmt.Errorf("memory: simulated cyclic send failure")
	}
	cp := append([]byte(nil), frame...)
	l.Cyclic = append(l.Cyclic, cp)
	return len(cp), nil
}

// SendLLDP implements hostapi.EthernetLink.
func (l *Link) SendLLDP(frame []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.FailLLDP {
		return 0, fmt.Errorf("memory: simulated LLDP send failure")
	}
	cp := append([]byte(nil), frame...)
	l.LLDP = append(l.LLDP, cp)
	return len(cp), nil
}

// LastCyclic returns the most recently sent cyclic frame, or nil.
func (l *Link) LastCyclic() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.Cyclic) == 0 {
		return nil
	}
	return l.Cyclic[len(l.Cyclic)-1]
}

// LastLLDP returns the most recently sent LLDP frame, or nil.
func (l *Link) LastLLDP() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.LLDP) == 0 {
		return nil
	}
	return l.LLDP[len(l.LLDP)-1]
}

// Pool is a hostapi.BufferPool that simply allocates; adequate for tests
// where reuse isn't observed.
type Pool struct{}

// Get implements hostapi.BufferPool.
func (Pool) Get(size int) []byte { return make([]byte, size) }

// Put implements hostapi.BufferPool.
func (Pool) Put([]byte) {}

// Clock is a hostapi.Clock whose value is set explicitly by tests instead
// of tracking wall-clock time.
type Clock struct {
	mu  sync.Mutex
	now uint64
}

// NowMicro implements hostapi.Clock.
func (c *Clock) NowMicro() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set fixes the clock's current value, in microseconds.
func (c *Clock) Set(us uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = us
}

// Advance moves the clock forward by delta microseconds.
func (c *Clock) Advance(delta uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += delta
}

// ARTable is an in-memory hostapi.ARTable.
type ARTable struct {
	mu  sync.Mutex
	ars []hostapi.AR
}

// NewARTable creates a table seeded with the given records.
func NewARTable(ars ...hostapi.AR) *ARTable {
	return &ARTable{ars: ars}
}

// ARs implements hostapi.ARTable.
func (t *ARTable) ARs() []hostapi.AR {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]hostapi.AR, len(t.ars))
	copy(out, t.ars)
	return out
}

// SetInUse flips the InUse flag of the AR at the given handle index.
func (t *ARTable) SetInUse(handle hostapi.ARHandle, inUse bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.ars {
		if t.ars[i].Handle == handle {
			t.ars[i].InUse = inUse
			return
		}
	}
}

// diagKey identifies one diagnostic registry slot.
type diagKey struct {
	ar      hostapi.ARHandle
	api     uint32
	slot    uint16
	subslot uint16
}

// DiagnosticRegistry is an in-memory hostapi.DiagnosticRegistry.
type DiagnosticRegistry struct {
	mu    sync.Mutex
	items map[diagKey]hostapi.DiagnosticItem
	Adds  []hostapi.DiagnosticItem
}

// NewDiagnosticRegistry creates an empty registry.
func NewDiagnosticRegistry() *DiagnosticRegistry {
	return &DiagnosticRegistry{items: make(map[diagKey]hostapi.DiagnosticItem)}
}

// Update implements hostapi.DiagnosticRegistry.
func (r *DiagnosticRegistry) Update(ar hostapi.ARHandle, api uint32, slot, subslot uint16, item hostapi.DiagnosticItem) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := diagKey{ar, api, slot, subslot}
	if _, ok := r.items[k]; !ok {
		return false, nil
	}
	r.items[k] = item
	return true, nil
}

// Add implements hostapi.DiagnosticRegistry.
func (r *DiagnosticRegistry) Add(ar hostapi.ARHandle, api uint32, slot, subslot uint16, item hostapi.DiagnosticItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := diagKey{ar, api, slot, subslot}
	r.items[k] = item
	r.Adds = append(r.Adds, item)
	return nil
}

// Get returns the current item at the given slot, if any.
func (r *DiagnosticRegistry) Get(ar hostapi.ARHandle, api uint32, slot, subslot uint16) (hostapi.DiagnosticItem, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[diagKey{ar, api, slot, subslot}]
	return item, ok
}

// AlarmSender is an in-memory hostapi.AlarmSender that records every
// notification it was asked to send.
type AlarmSender struct {
	mu            sync.Mutex
	Notifications []hostapi.DiagnosticItem
}

// SendPortChangeNotification implements hostapi.AlarmSender.
func (s *AlarmSender) SendPortChangeNotification(ar hostapi.ARHandle, api uint32, slot, subslot uint16, moduleID, submoduleID uint32, item hostapi.DiagnosticItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Notifications = append(s.Notifications, item)
	return nil
}

// Count returns the number of notifications recorded so far.
func (s *AlarmSender) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Notifications)
}

// CMSUNotifier is an in-memory hostapi.CMSUNotifier.
type CMSUNotifier struct {
	mu            sync.Mutex
	Indications   []PPMIndication
}

// PPMIndication records one call to PPMErrorIndication.
type PPMIndication struct {
	AR    hostapi.ARHandle
	CREP  uint16
	Error bool
	Class hostapi.ErrorClass
	Code  hostapi.ErrorCode
}

// PPMErrorIndication implements hostapi.CMSUNotifier.
func (n *CMSUNotifier) PPMErrorIndication(ar hostapi.ARHandle, crep uint16, errorOccurred bool, class hostapi.ErrorClass, code hostapi.ErrorCode) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Indications = append(n.Indications, PPMIndication{ar, crep, errorOccurred, class, code})
}

// IndicationsSnapshot returns a copy of every recorded indication.
func (n *CMSUNotifier) IndicationsSnapshot() []PPMIndication {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]PPMIndication, len(n.Indications))
	copy(out, n.Indications)
	return out
}
