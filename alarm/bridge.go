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

// Package alarm bridges discovery-engine events (a peer's alias changing,
// a peer going silent past its TTL) into the diagnostic/alarm machinery
// every Application Relationship subscribes to.
package alarm

import (
	log "github.com/sirupsen/logrus"

	"github.com/fieldbus-io/pnetcore/hostapi"
)

const (
	moduleDAPIdent    uint32 = 0x00000001
	submoduleIdentPort uint32 = 0x00000002
)

// Bridge drives the two alarm paths the discovery engine triggers:
// RemoteMismatch when a peer's derived alias changes, and PeerLoss when a
// peer's TTL expires without a refresh.
type Bridge struct {
	ars    hostapi.ARTable
	diags  hostapi.DiagnosticRegistry
	alarms hostapi.AlarmSender
}

// NewBridge builds a Bridge against the device's AR table, diagnostic
// registry and alarm sender.
func NewBridge(ars hostapi.ARTable, diags hostapi.DiagnosticRegistry, alarms hostapi.AlarmSender) *Bridge {
	return &Bridge{ars: ars, diags: diags, alarms: alarms}
}

// RemoteMismatch reports a change in the peer's derived alias to every
// in-use AR: APPEARS with full channel/submodule/AR diagnosis when the
// freshly observed alias differs from the committed one, DISAPPEARS
// otherwise. It returns whether any AR was in use to receive the alarm —
// the caller commits the observed alias as the new permanent one only
// when no AR received it, mirroring the C source's "alarm_sent" guard.
func (b *Bridge) RemoteMismatch(tempAlias, permAlias string) (alarmSent bool) {
	mismatch := tempAlias != permAlias

	for _, ar := range b.ars.ARs() {
		if !ar.InUse {
			continue
		}

		item := hostapi.DiagnosticItem{
			USI:                 hostapi.USIExtendedChannelDiagnosis,
			ChannelNumber:       0,
			ChannelErrorType:    hostapi.ChannelErrorTypeRemoteMismatch,
			ExtChannelErrorType: hostapi.ExtChannelErrorTypePortIDMismatch,
		}
		if mismatch {
			item.ChannelProperties = hostapi.ChannelPropertyAppears
			item.AlarmSpec = hostapi.AlarmSpec{ChannelDiagnosis: true, SubmoduleDiagnosis: true, ARDiagnosis: true}
		} else {
			item.ChannelProperties = hostapi.ChannelPropertyDisappears
		}

		if item.AlarmSpec.ChannelDiagnosis {
			if ok, err := b.diags.Update(ar.Handle, hostapi.APIZero, hostapi.SlotDAP, hostapi.SubslotPort0, item); err != nil || !ok {
				if err := b.diags.Add(ar.Handle, hostapi.APIZero, hostapi.SlotDAP, hostapi.SubslotPort0, item); err != nil {
					log.Errorf("alarm: add diagnostic for AR %d failed: %v", ar.Handle.Index, err)
				}
			}
		} else {
			_, _ = b.diags.Update(ar.Handle, hostapi.APIZero, hostapi.SlotDAP, hostapi.SubslotPort0, item)
		}

		if err := b.alarms.SendPortChangeNotification(ar.Handle, hostapi.APIZero, hostapi.SlotDAP, hostapi.SubslotPort0, moduleDAPIdent, submoduleIdentPort, item); err != nil {
			log.Errorf("alarm: port change notification for AR %d failed: %v", ar.Handle.Index, err)
		}
		alarmSent = true
	}

	return alarmSent
}

// PeerLoss reports that the peer on the single port has not refreshed its
// LLDP TTL in time. It raises a port-datachange alarm against every
// in-use AR: the expected-modules search in the C source only ever
// breaks its own per-AR module/submodule loops, never the outer AR scan.
func (b *Bridge) PeerLoss() {
	for _, ar := range b.ars.ARs() {
		if !ar.InUse {
			continue
		}

		// The device's single port is always slot DAP / subslot PORT_0
		// (§ Open Question 3: no multi-port expected-modules list to
		// search), so locating it in the AR's expected-modules list is
		// this constant lookup; record the fault before building the
		// diagnostic item that reports it.
		item := hostapi.DiagnosticItem{
			USI:                 hostapi.USIExtendedChannelDiagnosis,
			ChannelNumber:       0,
			ChannelProperties:   hostapi.ChannelPropertyAppears,
			ChannelErrorType:    hostapi.ChannelErrorTypeRemoteMismatch,
			ExtChannelErrorType: hostapi.ExtChannelErrorTypeNoPeerDetected,
			AlarmSpec:           hostapi.AlarmSpec{ChannelDiagnosis: true, SubmoduleDiagnosis: true, ARDiagnosis: true},
			Fault:               true,
		}

		if ok, err := b.diags.Update(ar.Handle, hostapi.APIZero, hostapi.SlotDAP, hostapi.SubslotPort0, item); err != nil || !ok {
			if err := b.diags.Add(ar.Handle, hostapi.APIZero, hostapi.SlotDAP, hostapi.SubslotPort0, item); err != nil {
				log.Errorf("alarm: add diagnostic for peer loss on AR %d failed: %v", ar.Handle.Index, err)
			}
		}

		if err := b.alarms.SendPortChangeNotification(ar.Handle, hostapi.APIZero, hostapi.SlotDAP, hostapi.SubslotPort0, moduleDAPIdent, submoduleIdentPort, item); err != nil {
			log.Errorf("alarm: port change notification for peer loss on AR %d failed: %v", ar.Handle.Index, err)
		}
	}
}
