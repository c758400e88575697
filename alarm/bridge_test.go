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

package alarm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldbus-io/pnetcore/hostapi"
	"github.com/fieldbus-io/pnetcore/hostapi/memory"
)

func TestRemoteMismatchSendsAppearsAndReportsUncommitted(t *testing.T) {
	ars := memory.NewARTable(hostapi.AR{Handle: hostapi.ARHandle{Index: 1}, InUse: true})
	diags := memory.NewDiagnosticRegistry()
	alarms := &memory.AlarmSender{}
	b := NewBridge(ars, diags, alarms)

	sent := b.RemoteMismatch("port-003.peer", "port-003.old")

	require.True(t, sent)
	require.Equal(t, 1, alarms.Count())
	item, ok := diags.Get(hostapi.ARHandle{Index: 1}, hostapi.APIZero, hostapi.SlotDAP, hostapi.SubslotPort0)
	require.True(t, ok)
	require.Equal(t, hostapi.ChannelPropertyAppears, item.ChannelProperties)
	require.True(t, item.AlarmSpec.ChannelDiagnosis)
}

func TestRemoteMismatchNoMatchSendsDisappears(t *testing.T) {
	ars := memory.NewARTable(hostapi.AR{Handle: hostapi.ARHandle{Index: 1}, InUse: true})
	diags := memory.NewDiagnosticRegistry()
	alarms := &memory.AlarmSender{}
	b := NewBridge(ars, diags, alarms)

	sent := b.RemoteMismatch("port-003.peer", "port-003.peer")

	require.True(t, sent)
	require.Equal(t, 1, alarms.Count())
	require.Equal(t, hostapi.ChannelPropertyDisappears, alarms.Notifications[0].ChannelProperties)
}

func TestRemoteMismatchNoARsInUseReportsNotSent(t *testing.T) {
	ars := memory.NewARTable(hostapi.AR{Handle: hostapi.ARHandle{Index: 1}, InUse: false})
	diags := memory.NewDiagnosticRegistry()
	alarms := &memory.AlarmSender{}
	b := NewBridge(ars, diags, alarms)

	sent := b.RemoteMismatch("port-003.peer", "port-003.old")

	require.False(t, sent)
	require.Equal(t, 0, alarms.Count())
}

func TestPeerLossAlarmsEveryInUseAR(t *testing.T) {
	ars := memory.NewARTable(
		hostapi.AR{Handle: hostapi.ARHandle{Index: 1}, InUse: false},
		hostapi.AR{Handle: hostapi.ARHandle{Index: 2}, InUse: true},
		hostapi.AR{Handle: hostapi.ARHandle{Index: 3}, InUse: true},
	)
	diags := memory.NewDiagnosticRegistry()
	alarms := &memory.AlarmSender{}
	b := NewBridge(ars, diags, alarms)

	b.PeerLoss()

	require.Equal(t, 2, alarms.Count())
	for _, item := range alarms.Notifications {
		require.Equal(t, hostapi.ExtChannelErrorTypeNoPeerDetected, item.ExtChannelErrorType)
		require.True(t, item.Fault)
	}
	_, ok := diags.Get(hostapi.ARHandle{Index: 2}, hostapi.APIZero, hostapi.SlotDAP, hostapi.SubslotPort0)
	require.True(t, ok)
	_, ok = diags.Get(hostapi.ARHandle{Index: 3}, hostapi.APIZero, hostapi.SlotDAP, hostapi.SubslotPort0)
	require.True(t, ok)
}
