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
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/require"

	"github.com/fieldbus-io/pnetcore/hostapi/memory"
)

// TestTransmittedFrameDecodesAsWellFormedLLDPU cross-checks a built
// frame against gopacket's independent LLDP decoder, the same
// technique niac-go's lldp.go builder uses to validate its own TLV
// construction.
func TestTransmittedFrameDecodesAsWellFormedLLDPU(t *testing.T) {
	link := &memory.Link{}
	tr := NewTransmitter(link, fakeAddr{}, fakeConfig{testDeviceConfig()}, time.Hour)
	frame, err := tr.buildFrame(testDeviceConfig())
	require.NoError(t, err)

	pkt := gopacket.NewPacket(frame, layers.LayerTypeEthernet, gopacket.Default)
	require.Nil(t, pkt.ErrorLayer())

	lldpLayer := pkt.Layer(layers.LayerTypeLinkLayerDiscovery)
	require.NotNil(t, lldpLayer)
	decoded, ok := lldpLayer.(*layers.LinkLayerDiscovery)
	require.True(t, ok)

	require.EqualValues(t, ChassisIDSubtypeName, decoded.ChassisID.Subtype)
	require.Equal(t, "dev", string(decoded.ChassisID.ID))
	require.EqualValues(t, PortIDSubtypeLocal, decoded.PortID.Subtype)
	require.Equal(t, "p1", string(decoded.PortID.ID))
	require.EqualValues(t, 20, decoded.TTL)
}
