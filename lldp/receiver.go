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
	"bytes"
	"encoding/binary"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fieldbus-io/pnetcore/ethernet"
	"github.com/fieldbus-io/pnetcore/ppmtimer"
	"github.com/fieldbus-io/pnetcore/profinet"
)

// AlarmBridge is the subset of alarm.Bridge the receiver drives: a
// remote-mismatch notification returning whether any AR received it (the
// receiver commits the observed alias only when it did not), and a
// peer-loss notification fired by the TTL watchdog.
type AlarmBridge interface {
	RemoteMismatch(tempAlias, permAlias string) (alarmSent bool)
	PeerLoss()
}

// Receiver parses incoming LLDP frames for the device's single port,
// maintaining one PeerRecord and rearming a peer-TTL watchdog on every
// fresh TTL TLV.
type Receiver struct {
	mu       sync.Mutex
	alarms   AlarmBridge
	peer     PeerRecord
	watchdog *ppmtimer.Timer
}

// NewReceiver builds a Receiver that reports alias mismatches and peer
// loss through the given alarm bridge.
func NewReceiver(alarms AlarmBridge) *Receiver {
	return &Receiver{alarms: alarms}
}

// Peer returns a copy of the current peer record.
func (r *Receiver) Peer() PeerRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.peer
}

// Close tears down the peer-TTL watchdog, if armed.
func (r *Receiver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.watchdog != nil {
		r.watchdog.Destroy()
		r.watchdog = nil
	}
}

// Receive parses one received frame, starting at its plain Ethernet
// header, walking TLVs until the End-of-LLDPDU marker. Every TLV header
// and body read is bounds-checked against the supplied buffer; a
// malformed or truncated TLV aborts parsing with ErrTruncatedFrame
// instead of reading past the buffer.
func (r *Receiver) Receive(frame []byte) error {
	var hdr profinet.EthernetHeader
	if err := hdr.UnmarshalBinary(frame); err != nil {
		return err
	}
	if hdr.EtherType != ethernet.TypeLLDP {
		return profinet.ErrTruncatedFrame
	}

	pos := profinet.EthernetHeaderSize

	aliasChanged := false
	var ttlFired uint16
	ttlSeen := false

	r.mu.Lock()
	for {
		if pos+profinet.TLVHeaderSize > len(frame) {
			r.mu.Unlock()
			return profinet.ErrTruncatedFrame
		}
		var tlv profinet.TLVHeader
		if err := tlv.UnmarshalBinary(frame[pos:]); err != nil {
			r.mu.Unlock()
			return err
		}
		pos += profinet.TLVHeaderSize

		if tlv.Type == TLVTypeEnd {
			break
		}
		if pos+int(tlv.Length) > len(frame) {
			r.mu.Unlock()
			return profinet.ErrTruncatedFrame
		}
		value := frame[pos : pos+int(tlv.Length)]
		pos += int(tlv.Length)

		switch tlv.Type {
		case TLVTypeChassisID:
			if len(value) < 1 {
				r.mu.Unlock()
				return profinet.ErrTruncatedFrame
			}
			r.peer.ChassisID = string(value[1:])

		case TLVTypePortID:
			if len(value) < 1 {
				r.mu.Unlock()
				return profinet.ErrTruncatedFrame
			}
			r.peer.PortID = string(value[1:])
			alias := DeriveAlias(r.peer.PortID, r.peer.ChassisID)
			if alias != r.peer.TempAlias {
				log.Debugf("lldp: peer alias changed %q -> %q", r.peer.TempAlias, alias)
				r.peer.TempAlias = alias
				aliasChanged = true
			}

		case TLVTypeTTL:
			if len(value) < 2 {
				r.mu.Unlock()
				return profinet.ErrTruncatedFrame
			}
			ttl := binary.BigEndian.Uint16(value)
			r.peer.TTLSeconds = ttl
			ttlSeen = true
			ttlFired = ttl

		case TLVTypeOrgSpecific:
			if err := r.applyOrgSpecific(value); err != nil {
				r.mu.Unlock()
				return err
			}
		}
	}
	tempAlias, permAlias := r.peer.TempAlias, r.peer.PermAlias
	r.mu.Unlock()

	// Alarm-bridge and watchdog calls run outside the peer-record lock,
	// per the reentrancy-safety requirement against the receive path.
	if aliasChanged {
		if !r.alarms.RemoteMismatch(tempAlias, permAlias) {
			r.mu.Lock()
			r.peer.PermAlias = r.peer.TempAlias
			r.mu.Unlock()
		}
	}
	if ttlSeen {
		r.armWatchdog(ttlFired)
	}

	return nil
}

func (r *Receiver) applyOrgSpecific(value []byte) error {
	if len(value) < profinet.OrgSpecificHeaderSize {
		return profinet.ErrTruncatedFrame
	}
	var org profinet.OrgSpecificHeader
	if err := org.UnmarshalBinary(value); err != nil {
		return err
	}
	body := value[profinet.OrgSpecificHeaderSize:]

	switch {
	case bytes.Equal(org.OUI[:], ethernet.OUIProfinet[:]):
		switch org.Subtype {
		case PNIOSubtypePortStatus:
			if len(body) < 4 {
				return profinet.ErrTruncatedFrame
			}
			r.peer.PortStatus.RTClass2Status = binary.BigEndian.Uint16(body[0:2])
			r.peer.PortStatus.RTClass3Status = binary.BigEndian.Uint16(body[2:4])
		case PNIOSubtypeChassisMAC:
			if len(body) < ethernet.AddrLen {
				return profinet.ErrTruncatedFrame
			}
			copy(r.peer.MAC[:], body[:ethernet.AddrLen])
		case PNIOSubtypeDelay:
			if len(body) < 20 {
				return profinet.ErrTruncatedFrame
			}
			r.peer.Delay.PortRXDelayLocal = binary.BigEndian.Uint32(body[0:4])
			r.peer.Delay.PortRXDelayRemote = binary.BigEndian.Uint32(body[4:8])
			r.peer.Delay.PortTXDelayLocal = binary.BigEndian.Uint32(body[8:12])
			r.peer.Delay.PortTXDelayRemote = binary.BigEndian.Uint32(body[12:16])
			r.peer.Delay.PortCableDelayLocal = binary.BigEndian.Uint32(body[16:20])
		}

	case bytes.Equal(org.OUI[:], ethernet.OUIIEEE8023[:]):
		if org.Subtype == IEEESubtypeMACPhyConfig {
			if len(body) < 5 {
				return profinet.ErrTruncatedFrame
			}
			r.peer.MACPhy.AutoNegSupported = body[0]&0x01 != 0
			r.peer.MACPhy.AutoNegCapability = binary.BigEndian.Uint16(body[1:3])
			r.peer.MACPhy.OperationalMAUType = binary.BigEndian.Uint16(body[3:5])
		}
	}
	return nil
}

// armWatchdog creates the peer-TTL watchdog on its first call, or stops,
// rearms and restarts it on every subsequent one.
func (r *Receiver) armWatchdog(ttlSeconds uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()

	interval := time.Duration(ttlSeconds) * time.Second
	if r.watchdog == nil {
		r.watchdog = ppmtimer.New(interval, func(time.Time) { r.alarms.PeerLoss() }, true)
		r.watchdog.Start()
		return
	}
	r.watchdog.Stop()
	r.watchdog.SetInterval(interval)
	r.watchdog.Start()
}
