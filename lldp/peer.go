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
	"strings"

	"github.com/fieldbus-io/pnetcore/ethernet"
)

// PortStatus is the PROFINET port-status organizationally-specific TLV
// body.
type PortStatus struct {
	RTClass2Status uint16
	RTClass3Status uint16
}

// Delay is the PROFINET line-delay measurement TLV body, big-endian on
// the wire and stored host-endian.
type Delay struct {
	PortRXDelayLocal   uint32
	PortRXDelayRemote  uint32
	PortTXDelayLocal   uint32
	PortTXDelayRemote  uint32
	PortCableDelayLocal uint32
}

// MACPhyConfig is the IEEE 802.3 MAC/PHY configuration TLV body.
type MACPhyConfig struct {
	AutoNegSupported bool
	AutoNegCapability uint16
	OperationalMAUType uint16
}

// PeerRecord is the neighbor state maintained for the device's single
// port: the fields most recently observed on the wire (temp) and the
// alias name committed after a successful alarm round (perm).
type PeerRecord struct {
	ChassisID string
	PortID    string
	TTLSeconds uint16

	TempAlias string
	PermAlias string

	Delay        Delay
	PortStatus   PortStatus
	MAC          ethernet.Address
	MACPhy       MACPhyConfig
}

// DeriveAlias computes the peer alias name from a received Port ID and
// Chassis ID: verbatim if the Port ID already carries a dot-separated
// qualifier, else "portID.chassisID".
func DeriveAlias(portID, chassisID string) string {
	if strings.Contains(portID, ".") {
		return portID
	}
	return portID + "." + chassisID
}
