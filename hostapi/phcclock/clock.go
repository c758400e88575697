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

// Package phcclock adapts a NIC's PTP hardware clock to hostapi.Clock,
// for deployments where the cyclic send cadence should track the same
// clock driving the network card's timestamping rather than the host's
// system clock.
package phcclock

import (
	log "github.com/sirupsen/logrus"

	"github.com/fieldbus-io/pnetcore/phc"
)

// Clock reads the PTP hardware clock attached to a network interface.
// Falls back to reporting zero-drift failures through the last known
// good reading rather than panicking: a cyclic sender that can't read
// the clock this tick should still fire on schedule.
type Clock struct {
	iface  string
	method phc.TimeMethod
	lastUs uint64
}

// New builds a Clock reading the PHC device behind iface using method.
func New(iface string, method phc.TimeMethod) *Clock {
	return &Clock{iface: iface, method: method}
}

// NowMicro implements hostapi.Clock.
func (c *Clock) NowMicro() uint64 {
	t, err := phc.Time(c.iface, c.method)
	if err != nil {
		log.Warnf("phcclock: reading %s: %v, reusing last value", c.iface, err)
		return c.lastUs
	}
	c.lastUs = uint64(t.UnixMicro())
	return c.lastUs
}
