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

// Package hostapi names the external collaborators the provider protocol
// machine and the discovery engine treat as opaque: the AR table, the
// diagnostic registry, raw Ethernet I/O, the monotonic clock and the
// device configuration accessor. Everything in this package is an
// interface plus the value types its methods exchange; production
// adapters live in hostapi subpackages, test adapters in hostapi/memory.
package hostapi

import (
	"time"

	"github.com/fieldbus-io/pnetcore/ethernet"
)

// EthernetLink sends raw frames on the device's single port. SendCyclic
// and SendLLDP are kept distinct because a real adapter commonly attaches
// different socket priorities or queues to each traffic class.
type EthernetLink interface {
	SendCyclic(frame []byte) (int, error)
	SendLLDP(frame []byte) (int, error)
}

// Clock is a monotonic microsecond clock.
type Clock interface {
	NowMicro() uint64
}

// SystemClock implements Clock using time.Now. Its value is the system
// wall clock in microseconds since the Unix epoch; it is not monotonic and
// moves with any adjustment of the system clock.
type SystemClock struct{}

// NowMicro returns the current wall-clock time in microseconds since the
// Unix epoch.
func (SystemClock) NowMicro() uint64 {
	return uint64(time.Now().UnixMicro())
}

// BufferPool hands out reusable byte buffers for frame construction.
type BufferPool interface {
	Get(size int) []byte
	Put(buf []byte)
}

// ARHandle identifies one Application Relationship the alarm bridge and
// the PPM instance operate against. It is a stable value, not a pointer,
// per the "stable handle" guidance for cyclic-callback back-references.
type ARHandle struct {
	Index uint32
}

// AR is the subset of Application Relationship state the core reads:
// whether the AR is currently in use, and its negotiated peer addresses.
type AR struct {
	Handle      ARHandle
	InUse       bool
	ResponderMAC ethernet.Address // AR.ar_result.cm_responder_mac
	InitiatorMAC ethernet.Address // AR.ar_param.cm_initiator_mac
}

// ARTable is the external accessor for the fixed-size AR record array.
type ARTable interface {
	// ARs returns every AR record, in use or not.
	ARs() []AR
}

// AlarmSpec is the §3 alarm_spec subrecord of a diagnostic item.
type AlarmSpec struct {
	ManufacturerDiagnosis bool
	ChannelDiagnosis      bool
	SubmoduleDiagnosis    bool
	ARDiagnosis           bool
}

// Channel property bits carried on DiagnosticItem.ChannelProperties.
const (
	ChannelPropertyAppears    uint16 = 1 << 0
	ChannelPropertyDisappears uint16 = 1 << 1
)

// USI values the alarm bridge emits.
const (
	USIExtendedChannelDiagnosis uint16 = 0x8000
)

// Channel error types the alarm bridge emits.
const (
	ChannelErrorTypeRemoteMismatch uint16 = 0x00a0
)

// Extended channel error types the alarm bridge emits.
const (
	ExtChannelErrorTypePortIDMismatch  uint16 = 0x0002
	ExtChannelErrorTypeNoPeerDetected  uint16 = 0x0003
)

// DiagnosticItem is the §3 value type the alarm bridge hands to the
// external diagnostic registry.
type DiagnosticItem struct {
	USI                 uint16
	ChannelNumber       uint16
	ChannelProperties   uint16
	ChannelErrorType    uint16
	ExtChannelErrorType uint16
	ExtChannelAddValue  uint16
	AlarmSpec           AlarmSpec

	// Fault records the {DAP, PORT_0} submodule's module/submodule diff
	// state for the peer-loss path (§4.F): set once that submodule is
	// located in the AR's expected-modules list, ahead of the
	// diagnostic update/add/alarm sequence.
	Fault bool
}

// Slot/subslot constants for the device access point and its single port.
const (
	SlotDAP      uint16 = 0
	SubslotPort0 uint16 = 0x8000
	APIZero      uint32 = 0
)

// DiagnosticRegistry is the external accessor for diagnostic items.
// Update reports ok=false when no existing entry was found, in which
// case the caller falls back to Add.
type DiagnosticRegistry interface {
	Update(ar ARHandle, api uint32, slot, subslot uint16, item DiagnosticItem) (ok bool, err error)
	Add(ar ARHandle, api uint32, slot, subslot uint16, item DiagnosticItem) error
}

// AlarmSender delivers the port-change-notification alarm that follows
// every diagnostic update/add in the alarm bridge.
type AlarmSender interface {
	SendPortChangeNotification(ar ARHandle, api uint32, slot, subslot uint16, moduleID, submoduleID uint32, item DiagnosticItem) error
}

// ErrorClass identifies the subsystem reporting a state indication to the
// CMSU entry point.
type ErrorClass uint8

// ErrorClassPPM is the only error class the provider protocol machine
// reports.
const ErrorClassPPM ErrorClass = 1

// ErrorCode qualifies a state indication.
type ErrorCode uint8

// ErrorCodePPMInvalid is reported when a PPM invariant is violated (e.g.
// a reschedule failed while still running).
const ErrorCodePPMInvalid ErrorCode = 1

// CMSUNotifier is the external entry point PPM state indications are
// reported through.
type CMSUNotifier interface {
	PPMErrorIndication(ar ARHandle, crep uint16, errorOccurred bool, class ErrorClass, code ErrorCode)
}

// AddressAccessor resolves the device's configured IPv4 address for the
// LLDP management TLV.
type AddressAccessor interface {
	IPv4Addr() uint32
}

// PeerBoundary is the subset of runtime boundary flags the LLDP
// transmitter consults.
type PeerBoundary struct {
	NotSendLLDPFrames bool
}

// DeviceConfig is the configuration record consumed by the discovery
// engine, per §6 "Configuration fields".
type DeviceConfig struct {
	ChassisID      string
	PortID         string
	TTLSeconds     uint16
	RTClass2Status uint16
	RTClass3Status uint16
	CapANeg        uint8
	CapPHY         uint16
	MAUType        uint16
	EthAddr        ethernet.Address
	Boundary       PeerBoundary
}

// ConfigAccessor fetches the device's configuration record.
type ConfigAccessor interface {
	DeviceConfig() DeviceConfig
}
