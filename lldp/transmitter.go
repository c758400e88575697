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
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fieldbus-io/pnetcore/ethernet"
	"github.com/fieldbus-io/pnetcore/hostapi"
	"github.com/fieldbus-io/pnetcore/ppmtimer"
	"github.com/fieldbus-io/pnetcore/profinet"
)

// Transmitter is the process-singleton periodic identity broadcaster.
// It composes one LLDP frame per fire from the device configuration and
// hands it to the Ethernet link, skipping emission while the configured
// "do not send" boundary is set.
type Transmitter struct {
	mu sync.Mutex

	link hostapi.EthernetLink
	addr hostapi.AddressAccessor
	cfg  hostapi.ConfigAccessor

	interval time.Duration
	timer    *ppmtimer.Timer

	outOctets uint64
	outErrors uint64
}

// NewTransmitter builds a Transmitter against the Ethernet link, the
// device's IPv4 address accessor (for the management TLV) and its
// configuration accessor. The broadcast period defaults to
// LLDPBroadcastRate when interval is zero.
func NewTransmitter(link hostapi.EthernetLink, addr hostapi.AddressAccessor, cfg hostapi.ConfigAccessor, interval time.Duration) *Transmitter {
	if interval == 0 {
		interval = LLDPBroadcastRate
	}
	return &Transmitter{link: link, addr: addr, cfg: cfg, interval: interval}
}

// Start arms the periodic broadcast timer.
func (t *Transmitter) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return
	}
	t.timer = ppmtimer.New(t.interval, t.onFire, false)
	t.timer.Start()
}

// Stop tears down the broadcast timer.
func (t *Transmitter) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return
	}
	t.timer.Destroy()
	t.timer = nil
}

func (t *Transmitter) onFire(time.Time) {
	cfg := t.cfg.DeviceConfig()
	if cfg.Boundary.NotSendLLDPFrames {
		log.Infof("lldp: sending LLDP frame skipped")
		return
	}

	frame, err := t.buildFrame(cfg)
	if err != nil {
		log.Errorf("lldp: build frame failed: %v", err)
		return
	}

	if _, err := t.link.SendLLDP(frame); err != nil {
		t.mu.Lock()
		t.outErrors++
		t.mu.Unlock()
		log.Errorf("lldp: send failed: %v", err)
		return
	}
	t.mu.Lock()
	t.outOctets++
	t.mu.Unlock()
}

// buildFrame composes one LLDP-PDU: Ethernet header, mandatory TLVs
// (Chassis ID, Port ID, TTL), the PROFINET-mandatory optional TLVs (Port
// Status, Chassis MAC, IEEE MAC/PHY, Management), and the End TLV.
func (t *Transmitter) buildFrame(cfg hostapi.DeviceConfig) ([]byte, error) {
	buf := make([]byte, 512)

	hdr := profinet.EthernetHeader{Dst: ethernet.LLDPMulticast, Src: cfg.EthAddr, EtherType: ethernet.TypeLLDP}
	pos, err := hdr.MarshalBinaryTo(buf)
	if err != nil {
		return nil, err
	}

	pos, err = appendChassisIDTLV(buf, pos, cfg)
	if err != nil {
		return nil, err
	}
	pos, err = appendPortIDTLV(buf, pos, cfg)
	if err != nil {
		return nil, err
	}
	pos, err = appendTTLTLV(buf, pos, cfg)
	if err != nil {
		return nil, err
	}
	pos, err = appendPortStatusTLV(buf, pos, cfg)
	if err != nil {
		return nil, err
	}
	pos, err = appendChassisMACTLV(buf, pos, cfg)
	if err != nil {
		return nil, err
	}
	pos, err = appendIEEEMACPhyTLV(buf, pos, cfg)
	if err != nil {
		return nil, err
	}
	pos, err = appendManagementTLV(buf, pos, t.addr.IPv4Addr())
	if err != nil {
		return nil, err
	}

	hdr2 := profinet.TLVHeader{Type: TLVTypeEnd, Length: 0}
	pos, err = tlvHeaderTo(buf, pos, hdr2)
	if err != nil {
		return nil, err
	}

	return buf[:pos], nil
}

func tlvHeaderTo(buf []byte, pos int, h profinet.TLVHeader) (int, error) {
	n, err := h.MarshalBinaryTo(buf[pos:])
	if err != nil {
		return 0, err
	}
	return pos + n, nil
}

func appendChassisIDTLV(buf []byte, pos int, cfg hostapi.DeviceConfig) (int, error) {
	if cfg.ChassisID == "" {
		hdr := profinet.TLVHeader{Type: TLVTypeChassisID, Length: uint16(1 + ethernet.AddrLen)}
		pos, err := tlvHeaderTo(buf, pos, hdr)
		if err != nil {
			return 0, err
		}
		pos, err = profinet.AppendUint8(buf, pos, ChassisIDSubtypeMAC)
		if err != nil {
			return 0, err
		}
		return profinet.AppendBytes(buf, pos, cfg.EthAddr[:])
	}

	hdr := profinet.TLVHeader{Type: TLVTypeChassisID, Length: uint16(1 + len(cfg.ChassisID))}
	pos, err := tlvHeaderTo(buf, pos, hdr)
	if err != nil {
		return 0, err
	}
	pos, err = profinet.AppendUint8(buf, pos, ChassisIDSubtypeName)
	if err != nil {
		return 0, err
	}
	return profinet.AppendBytes(buf, pos, []byte(cfg.ChassisID))
}

func appendPortIDTLV(buf []byte, pos int, cfg hostapi.DeviceConfig) (int, error) {
	hdr := profinet.TLVHeader{Type: TLVTypePortID, Length: uint16(1 + len(cfg.PortID))}
	pos, err := tlvHeaderTo(buf, pos, hdr)
	if err != nil {
		return 0, err
	}
	pos, err = profinet.AppendUint8(buf, pos, PortIDSubtypeLocal)
	if err != nil {
		return 0, err
	}
	return profinet.AppendBytes(buf, pos, []byte(cfg.PortID))
}

func appendTTLTLV(buf []byte, pos int, cfg hostapi.DeviceConfig) (int, error) {
	hdr := profinet.TLVHeader{Type: TLVTypeTTL, Length: 2}
	pos, err := tlvHeaderTo(buf, pos, hdr)
	if err != nil {
		return 0, err
	}
	return profinet.AppendUint16(buf, pos, cfg.TTLSeconds)
}

func appendPNIOHeader(buf []byte, pos int, bodyLen uint16) (int, error) {
	hdr := profinet.TLVHeader{Type: TLVTypeOrgSpecific, Length: bodyLen + 3}
	pos, err := tlvHeaderTo(buf, pos, hdr)
	if err != nil {
		return 0, err
	}
	return profinet.AppendBytes(buf, pos, ethernet.OUIProfinet[:])
}

func appendIEEEHeader(buf []byte, pos int, bodyLen uint16) (int, error) {
	hdr := profinet.TLVHeader{Type: TLVTypeOrgSpecific, Length: bodyLen + 3}
	pos, err := tlvHeaderTo(buf, pos, hdr)
	if err != nil {
		return 0, err
	}
	return profinet.AppendBytes(buf, pos, ethernet.OUIIEEE8023[:])
}

func appendPortStatusTLV(buf []byte, pos int, cfg hostapi.DeviceConfig) (int, error) {
	pos, err := appendPNIOHeader(buf, pos, 5)
	if err != nil {
		return 0, err
	}
	pos, err = profinet.AppendUint8(buf, pos, PNIOSubtypePortStatus)
	if err != nil {
		return 0, err
	}
	pos, err = profinet.AppendUint16(buf, pos, cfg.RTClass2Status)
	if err != nil {
		return 0, err
	}
	return profinet.AppendUint16(buf, pos, cfg.RTClass3Status)
}

func appendChassisMACTLV(buf []byte, pos int, cfg hostapi.DeviceConfig) (int, error) {
	pos, err := appendPNIOHeader(buf, pos, uint16(1+ethernet.AddrLen))
	if err != nil {
		return 0, err
	}
	pos, err = profinet.AppendUint8(buf, pos, PNIOSubtypeChassisMAC)
	if err != nil {
		return 0, err
	}
	return profinet.AppendBytes(buf, pos, cfg.EthAddr[:])
}

func appendIEEEMACPhyTLV(buf []byte, pos int, cfg hostapi.DeviceConfig) (int, error) {
	pos, err := appendIEEEHeader(buf, pos, 6)
	if err != nil {
		return 0, err
	}
	pos, err = profinet.AppendUint8(buf, pos, IEEESubtypeMACPhyConfig)
	if err != nil {
		return 0, err
	}
	pos, err = profinet.AppendUint8(buf, pos, cfg.CapANeg)
	if err != nil {
		return 0, err
	}
	pos, err = profinet.AppendUint16(buf, pos, cfg.CapPHY)
	if err != nil {
		return 0, err
	}
	return profinet.AppendUint16(buf, pos, cfg.MAUType)
}

func appendManagementTLV(buf []byte, pos int, ipv4 uint32) (int, error) {
	hdr := profinet.TLVHeader{Type: TLVTypeManagement, Length: 12}
	pos, err := tlvHeaderTo(buf, pos, hdr)
	if err != nil {
		return 0, err
	}
	pos, err = profinet.AppendUint8(buf, pos, 1+4) // address string length, including type octet
	if err != nil {
		return 0, err
	}
	pos, err = profinet.AppendUint8(buf, pos, 1) // address subtype: IPv4
	if err != nil {
		return 0, err
	}
	pos, err = profinet.AppendUint32(buf, pos, ipv4)
	if err != nil {
		return 0, err
	}
	pos, err = profinet.AppendUint8(buf, pos, 1) // interface numbering subtype: unknown
	if err != nil {
		return 0, err
	}
	pos, err = profinet.AppendUint32(buf, pos, 0) // interface number: unknown
	if err != nil {
		return 0, err
	}
	return profinet.AppendUint8(buf, pos, 0) // OID string length: not supported
}

// Stats returns the transmitter's send counters.
func (t *Transmitter) Stats() (outOctets, outErrors uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outOctets, t.outErrors
}
