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

// Package ethernet holds the fixed-size address type and well-known
// constants shared by the frame codec, the cyclic data provider and the
// discovery engine.
package ethernet

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddrLen is the length in octets of an IEEE 802 MAC address.
const AddrLen = 6

// Address is a 6-octet MAC address.
type Address [AddrLen]byte

// String renders the address in colon-separated hex, e.g. "00:0e:cf:01:02:03".
func (a Address) String() string {
	parts := make([]string, AddrLen)
	for i, b := range a {
		parts[i] = hex.EncodeToString([]byte{b})
	}
	return strings.Join(parts, ":")
}

// IsZero reports whether the address is all-zero.
func (a Address) IsZero() bool {
	return a == Address{}
}

// ParseAddress parses a colon-separated MAC address string.
func ParseAddress(s string) (Address, error) {
	var a Address
	parts := strings.Split(s, ":")
	if len(parts) != AddrLen {
		return a, fmt.Errorf("ethernet: %q is not a valid MAC address", s)
	}
	for i, p := range parts {
		b, err := hex.DecodeString(p)
		if err != nil || len(b) != 1 {
			return a, fmt.Errorf("ethernet: %q is not a valid MAC address", s)
		}
		a[i] = b[0]
	}
	return a, nil
}

// LLDPMulticast is the destination address nearest-bridge LLDPDUs are sent
// to (IEEE 802.1AB).
var LLDPMulticast = Address{0x01, 0x80, 0xc2, 0x00, 0x00, 0x0e}

// EtherType identifies the payload carried directly in an Ethernet frame.
type EtherType uint16

// EtherTypes used by the provider protocol machine and the discovery engine.
const (
	TypeVLAN     EtherType = 0x8100
	TypeProfinet EtherType = 0x8892
	TypeLLDP     EtherType = 0x88cc
)

// OUI is a 3-octet IEEE organizationally unique identifier.
type OUI [3]byte

// OUIProfinet is the PROFIBUS & PROFINET International OUI, used in the
// PROFINET organizationally-specific LLDP TLVs.
var OUIProfinet = OUI{0x00, 0x0e, 0xcf}

// OUIIEEE8023 is the IEEE 802.3 OUI used by the MAC/PHY configuration TLV.
var OUIIEEE8023 = OUI{0x00, 0x12, 0x0f}
