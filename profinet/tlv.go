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

// Package profinet implements the wire codec shared by the cyclic data
// provider and the discovery engine: LLDP-style TLV headers, the
// PROFINET/IEEE 802.3 organizationally-specific TLV header, and the
// Ethernet/VLAN framing used by both protocols.
package profinet

import (
	"encoding/binary"
	"fmt"

	"github.com/fieldbus-io/pnetcore/ethernet"
)

// ErrBufferOverflow is returned by every MarshalBinaryTo when the
// destination slice is too small to hold the encoded value.
var ErrBufferOverflow = fmt.Errorf("profinet: buffer too small")

// ErrTruncatedFrame is returned when decoding runs past the end of the
// supplied buffer.
var ErrTruncatedFrame = fmt.Errorf("profinet: truncated frame")

// TLVHeaderSize is the size in octets of an LLDP TLV header.
const TLVHeaderSize = 2

// TLVHeader is the common 2-octet header of every LLDP TLV: a 7-bit type
// and a 9-bit length packed into one big-endian uint16, (type<<9)|length.
type TLVHeader struct {
	Type   uint8
	Length uint16
}

// MarshalBinaryTo encodes the header into b, returning the number of
// octets written.
func (h TLVHeader) MarshalBinaryTo(b []byte) (int, error) {
	if len(b) < TLVHeaderSize {
		return 0, ErrBufferOverflow
	}
	if h.Length > 0x1ff {
		return 0, fmt.Errorf("profinet: TLV length %d exceeds 9-bit field", h.Length)
	}
	v := uint16(h.Type)<<9 | (h.Length & 0x1ff)
	binary.BigEndian.PutUint16(b, v)
	return TLVHeaderSize, nil
}

// UnmarshalBinary decodes a TLV header from the front of b.
func (h *TLVHeader) UnmarshalBinary(b []byte) error {
	if len(b) < TLVHeaderSize {
		return ErrTruncatedFrame
	}
	v := binary.BigEndian.Uint16(b)
	h.Type = uint8(v >> 9)
	h.Length = v & 0x1ff
	return nil
}

// OrgSpecificHeaderSize is the size in octets of an organizationally
// specific TLV's header past the common TLV header: OUI plus subtype.
const OrgSpecificHeaderSize = 4

// OrgSpecificHeader is the header carried by every PROFINET and IEEE
// 802.3 organizationally-specific LLDP TLV.
type OrgSpecificHeader struct {
	OUI     ethernet.OUI
	Subtype uint8
}

// MarshalBinaryTo encodes the header into b.
func (h OrgSpecificHeader) MarshalBinaryTo(b []byte) (int, error) {
	if len(b) < OrgSpecificHeaderSize {
		return 0, ErrBufferOverflow
	}
	copy(b[0:3], h.OUI[:])
	b[3] = h.Subtype
	return OrgSpecificHeaderSize, nil
}

// UnmarshalBinary decodes an organizationally specific TLV header from
// the front of b.
func (h *OrgSpecificHeader) UnmarshalBinary(b []byte) error {
	if len(b) < OrgSpecificHeaderSize {
		return ErrTruncatedFrame
	}
	copy(h.OUI[:], b[0:3])
	h.Subtype = b[3]
	return nil
}

// AppendUint8 appends v to b, bounds-checking len(b).
func AppendUint8(b []byte, pos int, v uint8) (int, error) {
	if pos+1 > len(b) {
		return 0, ErrBufferOverflow
	}
	b[pos] = v
	return pos + 1, nil
}

// AppendUint16 appends v to b in big-endian order, bounds-checking len(b).
func AppendUint16(b []byte, pos int, v uint16) (int, error) {
	if pos+2 > len(b) {
		return 0, ErrBufferOverflow
	}
	binary.BigEndian.PutUint16(b[pos:], v)
	return pos + 2, nil
}

// AppendUint32 appends v to b in big-endian order, bounds-checking len(b).
func AppendUint32(b []byte, pos int, v uint32) (int, error) {
	if pos+4 > len(b) {
		return 0, ErrBufferOverflow
	}
	binary.BigEndian.PutUint32(b[pos:], v)
	return pos + 4, nil
}

// AppendBytes appends v to b, bounds-checking len(b).
func AppendBytes(b []byte, pos int, v []byte) (int, error) {
	if pos+len(v) > len(b) {
		return 0, ErrBufferOverflow
	}
	copy(b[pos:], v)
	return pos + len(v), nil
}
