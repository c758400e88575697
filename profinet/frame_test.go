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
	"testing"

	"github.com/fieldbus-io/pnetcore/ethernet"
	"github.com/stretchr/testify/require"
)

func TestEthernetHeaderRoundTrip(t *testing.T) {
	h := EthernetHeader{
		Dst:       ethernet.LLDPMulticast,
		Src:       ethernet.Address{0x00, 0x0e, 0xcf, 0x01, 0x02, 0x03},
		EtherType: ethernet.TypeLLDP,
	}
	b := make([]byte, EthernetHeaderSize)
	n, err := h.MarshalBinaryTo(b)
	require.NoError(t, err)
	require.Equal(t, EthernetHeaderSize, n)

	var got EthernetHeader
	require.NoError(t, got.UnmarshalBinary(b))
	require.Equal(t, h, got)
}

func TestCyclicFrameHeaderRoundTrip(t *testing.T) {
	h := CyclicFrameHeader{
		Dst:          ethernet.Address{0x01, 0x0e, 0xcf, 0x00, 0x00, 0x01},
		Src:          ethernet.Address{0x00, 0x0e, 0xcf, 0x01, 0x02, 0x03},
		VLANPriority: 6,
		VLANID:       0,
		FrameID:      0xc000,
	}
	b := make([]byte, CyclicFrameHeaderSize)
	n, err := h.MarshalBinaryTo(b)
	require.NoError(t, err)
	require.Equal(t, CyclicFrameHeaderSize, n)

	var got CyclicFrameHeader
	require.NoError(t, got.UnmarshalBinary(b))
	require.Equal(t, h, got)
}

func TestCyclicFrameHeaderRejectsWrongEtherType(t *testing.T) {
	b := make([]byte, CyclicFrameHeaderSize)
	h := EthernetHeader{EtherType: ethernet.TypeLLDP}
	_, err := h.MarshalBinaryTo(b)
	require.NoError(t, err)

	var got CyclicFrameHeader
	require.ErrorIs(t, got.UnmarshalBinary(b), ErrTruncatedFrame)
}

func TestCyclicFrameHeaderTruncated(t *testing.T) {
	var h CyclicFrameHeader
	require.ErrorIs(t, h.UnmarshalBinary(make([]byte, 4)), ErrTruncatedFrame)
}
