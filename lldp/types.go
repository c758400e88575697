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

// Package lldp implements the Link Layer Discovery Protocol engine: the
// periodic identity broadcast, peer-frame parsing, alias derivation and
// peer-TTL watchdog that feed the alarm bridge.
package lldp

import "time"

// LLDPBroadcastRate is the default period of the identity-broadcast
// timer.
const LLDPBroadcastRate = 5 * time.Second

// Standard LLDP TLV types used on the wire.
const (
	TLVTypeEnd        uint8 = 0
	TLVTypeChassisID  uint8 = 1
	TLVTypePortID     uint8 = 2
	TLVTypeTTL        uint8 = 3
	TLVTypeManagement uint8 = 8
	TLVTypeOrgSpecific uint8 = 127
)

// Chassis/Port ID subtypes (IEEE 802.1AB).
const (
	ChassisIDSubtypeMAC  uint8 = 4
	ChassisIDSubtypeName uint8 = 7
	PortIDSubtypeLocal   uint8 = 7
)

// PROFINET organizationally-specific subtypes (under OUI 00-0E-CF).
const (
	PNIOSubtypeDelay      uint8 = 1
	PNIOSubtypePortStatus uint8 = 2
	PNIOSubtypeChassisMAC uint8 = 5
)

// IEEE 802.3 organizationally-specific subtype (under OUI 00-12-0F).
const IEEESubtypeMACPhyConfig uint8 = 1
