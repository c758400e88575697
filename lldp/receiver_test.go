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

package lldp

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fieldbus-io/pnetcore/ethernet"
	"github.com/fieldbus-io/pnetcore/hostapi/memory"
	"github.com/fieldbus-io/pnetcore/profinet"
)

type fakeAlarmBridge struct {
	mu         sync.Mutex
	mismatches int
	peerLosses int
	sendResult bool
}

func (f *fakeAlarmBridge) RemoteMismatch(tempAlias, permAlias string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mismatches++
	return f.sendResult
}

func (f *fakeAlarmBridge) PeerLoss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.peerLosses++
}

func (f *fakeAlarmBridge) count() (mismatches, peerLosses int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mismatches, f.peerLosses
}

func buildTestFrame(t *testing.T) []byte {
	t.Helper()
	link := &memory.Link{}
	tr := NewTransmitter(link, fakeAddr{ip: 0x0a000001}, fakeConfig{testDeviceConfig()}, time.Hour)
	frame, err := tr.buildFrame(testDeviceConfig())
	require.NoError(t, err)
	return frame
}

func TestReceiveParsesPeerFields(t *testing.T) {
	bridge := &fakeAlarmBridge{}
	r := NewReceiver(bridge)

	require.NoError(t, r.Receive(buildTestFrame(t)))

	peer := r.Peer()
	require.Equal(t, "dev", peer.ChassisID)
	require.Equal(t, "p1", peer.PortID)
	require.EqualValues(t, 20, peer.TTLSeconds)
	require.Equal(t, "p1.dev", peer.TempAlias)
}

func TestReceiveFirstFrameAliasMismatchNotifiesAndNoARsCommits(t *testing.T) {
	bridge := &fakeAlarmBridge{sendResult: false}
	r := NewReceiver(bridge)

	require.NoError(t, r.Receive(buildTestFrame(t)))

	mismatches, _ := bridge.count()
	require.Equal(t, 1, mismatches)
	peer := r.Peer()
	require.Equal(t, peer.TempAlias, peer.PermAlias)
}

func TestReceiveSameAliasDoesNotRenotify(t *testing.T) {
	bridge := &fakeAlarmBridge{sendResult: false}
	r := NewReceiver(bridge)
	frame := buildTestFrame(t)

	require.NoError(t, r.Receive(frame))
	require.NoError(t, r.Receive(frame))

	mismatches, _ := bridge.count()
	require.Equal(t, 1, mismatches)
}

func TestReceiveRejectsWrongEtherType(t *testing.T) {
	r := NewReceiver(&fakeAlarmBridge{})
	frame := buildTestFrame(t)
	// Corrupt the EtherType field of the plain Ethernet header.
	frame[2*ethernet.AddrLen] = 0x08
	frame[2*ethernet.AddrLen+1] = 0x00

	require.Error(t, r.Receive(frame))
}

func TestReceiveTruncatedTLVReturnsError(t *testing.T) {
	r := NewReceiver(&fakeAlarmBridge{})
	frame := buildTestFrame(t)

	require.Error(t, r.Receive(frame[:profinet.EthernetHeaderSize+3]))
}

func TestReceivePeerLossFiresAfterTTL(t *testing.T) {
	bridge := &fakeAlarmBridge{}
	r := NewReceiver(bridge)
	defer r.Close()

	cfg := testDeviceConfig()
	cfg.TTLSeconds = 0
	link := &memory.Link{}
	tr := NewTransmitter(link, fakeAddr{}, fakeConfig{cfg}, time.Hour)
	frame, err := tr.buildFrame(cfg)
	require.NoError(t, err)

	require.NoError(t, r.Receive(frame))

	require.Eventually(t, func() bool {
		_, peerLosses := bridge.count()
		return peerLosses > 0
	}, time.Second, time.Millisecond)
}
