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

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/require"

	"github.com/fieldbus-io/pnetcore/ethernet"
)

// TestCyclicFrameHeaderDecodesAsWellFormedVLANFrame cross-checks the
// bytes MarshalBinaryTo produces against an independent decoder, the
// same sanity check niac-go's LLDP builder uses gopacket/layers for.
func TestCyclicFrameHeaderDecodesAsWellFormedVLANFrame(t *testing.T) {
	hdr := CyclicFrameHeader{
		Dst:          ethernet.Address{0x01, 0x0e, 0xcf, 0x00, 0x00, 0x00},
		Src:          ethernet.Address{0x00, 0x0e, 0xcf, 0x01, 0x02, 0x03},
		VLANPriority: 6,
		VLANID:       0,
		FrameID:      0xc000,
	}

	buf := make([]byte, CyclicFrameHeaderSize+2)
	n, err := hdr.MarshalBinaryTo(buf)
	require.NoError(t, err)
	buf = buf[:n]

	pkt := gopacket.NewPacket(buf, layers.LayerTypeEthernet, gopacket.Default)
	require.Nil(t, pkt.ErrorLayer())

	ethLayer := pkt.Layer(layers.LayerTypeEthernet)
	require.NotNil(t, ethLayer)
	eth, ok := ethLayer.(*layers.Ethernet)
	require.True(t, ok)
	require.Equal(t, layers.EthernetTypeDot1Q, eth.EthernetType)

	dot1qLayer := pkt.Layer(layers.LayerTypeDot1Q)
	require.NotNil(t, dot1qLayer)
	dot1q, ok := dot1qLayer.(*layers.Dot1Q)
	require.True(t, ok)
	require.EqualValues(t, 6, dot1q.Priority)
	require.EqualValues(t, 0x8892, uint16(dot1q.Type))
}
