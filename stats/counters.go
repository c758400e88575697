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

// Package stats exposes the daemon's counters over both a JSON debug
// endpoint and a Prometheus registry.
package stats

import "sync/atomic"

// Counters are the atomically-updated counts the daemon tracks across
// the cyclic data and discovery paths.
type Counters struct {
	CyclicSent      atomic.Uint64
	CyclicErrors    atomic.Uint64
	LLDPSent        atomic.Uint64
	LLDPErrors      atomic.Uint64
	PeerMismatches  atomic.Uint64
	PeerLosses      atomic.Uint64
	DiagnosticsSent atomic.Uint64
}

// Snapshot renders the counters as a flat name->value map, suitable for
// both the JSON endpoint and the Prometheus exporter.
func (c *Counters) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"cyclic.sent":      c.CyclicSent.Load(),
		"cyclic.errors":    c.CyclicErrors.Load(),
		"lldp.sent":        c.LLDPSent.Load(),
		"lldp.errors":      c.LLDPErrors.Load(),
		"peer.mismatches":  c.PeerMismatches.Load(),
		"peer.losses":      c.PeerLosses.Load(),
		"diagnostics.sent": c.DiagnosticsSent.Load(),
	}
}

// Reset atomically sets every counter back to 0.
func (c *Counters) Reset() {
	c.CyclicSent.Store(0)
	c.CyclicErrors.Store(0)
	c.LLDPSent.Store(0)
	c.LLDPErrors.Store(0)
	c.PeerMismatches.Store(0)
	c.PeerLosses.Store(0)
	c.DiagnosticsSent.Store(0)
}
