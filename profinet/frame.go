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

package profinet

import (
	"encoding/binary"

	"github.com/fieldbus-io/pnetcore/ethernet"
)

// EthernetHeaderSize is the size of an untagged Ethernet header: two
// addresses plus an EtherType.
const EthernetHeaderSize = 2*ethernet.AddrLen + 2

// VLANTagSize is the size of an IEEE 802.1Q tag inserted between the
// source address and the EtherType.
const VLANTagSize = 4

// EthernetHeader is a plain (untagged) Ethernet header, used by LLDP frames.
type EthernetHeader struct {
	Dst       ethernet.Address
	Src       ethernet.Address
	EtherType ethernet.EtherType
}

// MarshalBinaryTo encodes the header into b.
func (h EthernetHeader) MarshalBinaryTo(b []byte) (int, error) {
	if len(b) < EthernetHeaderSize {
		return 0, ErrBufferOverflow
	}
	pos := copy(b, h.Dst[:])
	pos += copy(b[pos:], h.Src[:])
	binary.BigEndian.PutUint16(b[pos:], uint16(h.EtherType))
	return pos + 2, nil
}

// UnmarshalBinary decodes an untagged Ethernet header from the front of b.
func (h *EthernetHeader) UnmarshalBinary(b []byte) error {
	if len(b) < EthernetHeaderSize {
		return ErrTruncatedFrame
	}
	copy(h.Dst[:], b[0:ethernet.AddrLen])
	copy(h.Src[:], b[ethernet.AddrLen:2*ethernet.AddrLen])
	h.EtherType = ethernet.EtherType(binary.BigEndian.Uint16(b[2*ethernet.AddrLen:]))
	return nil
}

// CyclicFrameHeaderSize is the size of the header prepended to every
// cyclic real-time data frame: Ethernet addresses, a VLAN tag, the
// PROFINET EtherType and the 16-bit Frame ID.
const CyclicFrameHeaderSize = EthernetHeaderSize + VLANTagSize + 2

// CyclicFrameHeader is the VLAN-tagged header carried by every cyclic
// real-time data frame sent or received by the provider protocol machine.
type CyclicFrameHeader struct {
	Dst          ethernet.Address
	Src          ethernet.Address
	VLANPriority uint8  // 3-bit 802.1p priority
	VLANID       uint16 // 12-bit VLAN identifier
	FrameID      uint16
}

// MarshalBinaryTo encodes the header into b, always VLAN-tagged: PROFINET
// cyclic real-time frames require 802.1Q tagging with the configured
// priority so that the frame is scheduled ahead of best-effort traffic.
func (h CyclicFrameHeader) MarshalBinaryTo(b []byte) (int, error) {
	if len(b) < CyclicFrameHeaderSize {
		return 0, ErrBufferOverflow
	}
	pos := copy(b, h.Dst[:])
	pos += copy(b[pos:], h.Src[:])
	binary.BigEndian.PutUint16(b[pos:], uint16(ethernet.TypeVLAN))
	pos += 2
	tci := uint16(h.VLANPriority&0x7)<<13 | (h.VLANID & 0x0fff)
	binary.BigEndian.PutUint16(b[pos:], tci)
	pos += 2
	binary.BigEndian.PutUint16(b[pos:], uint16(ethernet.TypeProfinet))
	pos += 2
	binary.BigEndian.PutUint16(b[pos:], h.FrameID)
	pos += 2
	return pos, nil
}

// UnmarshalBinary decodes a VLAN-tagged cyclic frame header from the
// front of b.
func (h *CyclicFrameHeader) UnmarshalBinary(b []byte) error {
	if len(b) < CyclicFrameHeaderSize {
		return ErrTruncatedFrame
	}
	copy(h.Dst[:], b[0:ethernet.AddrLen])
	copy(h.Src[:], b[ethernet.AddrLen:2*ethernet.AddrLen])
	pos := 2 * ethernet.AddrLen
	if ethernet.EtherType(binary.BigEndian.Uint16(b[pos:])) != ethernet.TypeVLAN {
		return ErrTruncatedFrame
	}
	pos += 2
	tci := binary.BigEndian.Uint16(b[pos:])
	h.VLANPriority = uint8(tci >> 13)
	h.VLANID = tci & 0x0fff
	pos += 2
	if ethernet.EtherType(binary.BigEndian.Uint16(b[pos:])) != ethernet.TypeProfinet {
		return ErrTruncatedFrame
	}
	pos += 2
	h.FrameID = binary.BigEndian.Uint16(b[pos:])
	return nil
}
