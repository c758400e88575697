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

// Package rawlink implements hostapi.EthernetLink over an AF_PACKET raw
// socket bound to a single interface, with a classic BPF filter
// restricting delivery to the two EtherTypes this stack cares about.
package rawlink

import (
	"encoding/binary"
	"fmt"
	"net"

	"golang.org/x/net/bpf"
	"golang.org/x/sys/unix"

	"github.com/fieldbus-io/pnetcore/ethernet"
)

func htons(v uint16) uint16 {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return binary.LittleEndian.Uint16(b)
}

// Link is a raw AF_PACKET socket bound to one interface, used for both
// cyclic data frames and LLDP frames.
type Link struct {
	fd      int
	ifindex int
}

// Open binds a raw socket to iface, listening only for frames with
// EtherType 0x8892 (Profinet) or 0x88cc (LLDP).
func Open(iface string) (*Link, error) {
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		return nil, fmt.Errorf("rawlink: resolving %q: %w", iface, err)
	}

	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW, int(htons(unix.ETH_P_ALL)))
	if err != nil {
		return nil, fmt.Errorf("rawlink: opening socket: %w", err)
	}

	l := &Link{fd: fd, ifindex: ifi.Index}

	if err := attachEtherTypeFilter(fd); err != nil {
		unix.Close(fd)
		return nil, err
	}

	addr := unix.SockaddrLinklayer{
		Protocol: htons(unix.ETH_P_ALL),
		Ifindex:  ifi.Index,
	}
	if err := unix.Bind(fd, &addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("rawlink: binding to %q: %w", iface, err)
	}

	return l, nil
}

// etherTypeOffset is where EtherType sits in an untagged Ethernet
// frame, after the destination and source MAC addresses.
const etherTypeOffset = 12

// assembleEtherTypeFilter builds a classic BPF program that accepts
// only Profinet cyclic frames and LLDP frames, rejecting everything
// else the kernel would otherwise deliver for ETH_P_ALL.
func assembleEtherTypeFilter() ([]unix.SockFilter, error) {
	prog, err := bpf.Assemble([]bpf.Instruction{
		bpf.LoadAbsolute{Off: etherTypeOffset, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: uint32(ethernet.TypeProfinet), SkipTrue: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: uint32(ethernet.TypeLLDP), SkipTrue: 1},
		bpf.RetConstant{Val: 0},
		bpf.RetConstant{Val: 0xffff},
	})
	if err != nil {
		return nil, fmt.Errorf("rawlink: assembling filter: %w", err)
	}

	sock := make([]unix.SockFilter, len(prog))
	for i, ins := range prog {
		sock[i] = unix.SockFilter{Code: ins.Op, Jt: ins.Jt, Jf: ins.Jf, K: ins.K}
	}
	return sock, nil
}

func attachEtherTypeFilter(fd int) error {
	sock, err := assembleEtherTypeFilter()
	if err != nil {
		return err
	}
	sockProg := unix.SockFprog{Len: uint16(len(sock)), Filter: &sock[0]}
	return unix.SetsockoptSockFprog(fd, unix.SOL_SOCKET, unix.SO_ATTACH_FILTER, &sockProg)
}

// SendCyclic writes a Profinet cyclic data frame to the wire.
func (l *Link) SendCyclic(frame []byte) (int, error) {
	return unix.Write(l.fd, frame)
}

// SendLLDP writes an LLDP identity frame to the wire.
func (l *Link) SendLLDP(frame []byte) (int, error) {
	return unix.Write(l.fd, frame)
}

// Receive blocks until a frame matching the attached filter arrives,
// copying it into buf.
func (l *Link) Receive(buf []byte) (int, error) {
	return unix.Read(l.fd, buf)
}

// Close releases the underlying socket.
func (l *Link) Close() error {
	return unix.Close(l.fd)
}
