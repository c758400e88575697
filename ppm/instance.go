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

package ppm

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fieldbus-io/pnetcore/ethernet"
	"github.com/fieldbus-io/pnetcore/hostapi"
	"github.com/fieldbus-io/pnetcore/ppmtimer"
	"github.com/fieldbus-io/pnetcore/profinet"
)

// toDuration interprets a microsecond count as a time.Duration.
func toDuration(us uint32) time.Duration {
	return time.Duration(us) * time.Microsecond
}

// DataDescriptor locates one subslot's data, IOPS and IOCS regions within
// an instance's staging buffer.
type DataDescriptor struct {
	API         uint32
	Slot        uint16
	Subslot     uint16
	DataOffset  uint16
	DataLength  uint16
	IOPSOffset  uint16
	IOPSLength  uint8
	IOCSOffset  uint16
	IOCSLength  uint8
}

type descKey struct {
	api     uint32
	slot    uint16
	subslot uint16
}

// ActivateConfig carries everything Activate needs to bring up one
// instance: the CR's negotiated addresses, VLAN/frame parameters, the
// send-clock timing and the staging layout for every subslot the CR
// carries.
type ActivateConfig struct {
	AR              hostapi.ARHandle
	CREP            uint16
	ResponderMAC    ethernet.Address // sa
	InitiatorMAC    ethernet.Address // da
	FrameID         uint16
	VLANPriority    uint8
	VLANID          uint16
	SendClockFactor uint16
	ReductionRatio  uint16
	CSDULength      uint16 // c_sdu_length: total staging-buffer data length
	Descriptors     []DataDescriptor
	StackCycleTime  uint32 // host tick, microseconds
	HardRealTime    bool
}

// Instance is one provider protocol machine, driving cyclic sends for a
// single communication relationship.
type Instance struct {
	mu sync.Mutex

	state State

	proc *ProcessState
	link hostapi.EthernetLink
	clk  hostapi.Clock
	cmsu hostapi.CMSUNotifier

	ar   hostapi.ARHandle
	crep uint16

	sendBuffer []byte
	stageData  []byte

	bufferPos           uint16
	cycleCounterOffset  uint16
	dataStatusOffset    uint16
	transferStatusOffset uint16
	bufferLength        uint16
	cSduLength          uint16

	descriptors map[descKey]DataDescriptor

	sendClockFactor uint16
	reductionRatio  uint16

	controlInterval             uint32
	compensatedControlInterval  uint32

	cycle          uint16
	dataStatus     uint8
	transferStatus uint16

	ciRunning     bool
	firstTransmit bool
	trxCnt        uint64
	outErrors     uint64
	outOctets     uint64

	timer *ppmtimer.Timer
}

// NewInstance creates an instance bound to the given process-wide state,
// Ethernet link, clock and CMSU notifier. The instance starts in
// W_START; call Activate to begin cyclic sending.
func NewInstance(proc *ProcessState, link hostapi.EthernetLink, clk hostapi.Clock, cmsu hostapi.CMSUNotifier) *Instance {
	return &Instance{
		proc:  proc,
		link:  link,
		clk:   clk,
		cmsu:  cmsu,
		state: StateWStart,
	}
}

// State returns the instance's current state.
func (in *Instance) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

func (in *Instance) setState(s State) {
	log.Debugf("ppm: instance for CREP %d: new state %s", in.crep, s)
	in.state = s
}

// Activate brings the instance up: computes the buffer layout, writes
// the fixed frame header, and arms the cyclic send timer.
func (in *Instance) Activate(cfg ActivateConfig) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.state == StateRun {
		return ErrInvalidState
	}

	in.ar = cfg.AR
	in.crep = cfg.CREP
	in.firstTransmit = false

	in.bufferPos = profinet.CyclicFrameHeaderSize
	in.cSduLength = cfg.CSDULength
	in.cycleCounterOffset = in.bufferPos + in.cSduLength
	in.dataStatusOffset = in.cycleCounterOffset + 2
	in.transferStatusOffset = in.dataStatusOffset + 1
	in.bufferLength = in.transferStatusOffset + 2
	in.cycle = 0
	in.transferStatus = 0

	in.descriptors = make(map[descKey]DataDescriptor, len(cfg.Descriptors))
	for _, d := range cfg.Descriptors {
		in.descriptors[descKey{d.API, d.Slot, d.Subslot}] = d
	}
	in.stageData = make([]byte, in.cSduLength)

	in.dataStatus = DataStatusState | DataStatusDataValid | DataStatusStationProblemIndicator

	in.sendBuffer = make([]byte, in.bufferLength)
	header := profinet.CyclicFrameHeader{
		Dst:          cfg.InitiatorMAC,
		Src:          cfg.ResponderMAC,
		VLANPriority: cfg.VLANPriority,
		VLANID:       cfg.VLANID,
		FrameID:      cfg.FrameID,
	}
	if _, err := header.MarshalBinaryTo(in.sendBuffer); err != nil {
		return err
	}

	in.sendClockFactor = cfg.SendClockFactor
	in.reductionRatio = cfg.ReductionRatio
	in.controlInterval = uint32(cfg.SendClockFactor) * uint32(cfg.ReductionRatio) * 1000 / 32

	stackCycle := toDuration(cfg.StackCycleTime)
	in.compensatedControlInterval = uint32(ppmtimer.CompensatedDelay(toDuration(in.controlInterval), stackCycle, cfg.HardRealTime).Microseconds())

	log.Debugf("ppm: CREP %d: starting cyclic sending, period %d us", cfg.CREP, in.controlInterval)

	in.setState(StateRun)
	in.ciRunning = true

	in.proc.Acquire()

	in.timer = ppmtimer.New(toDuration(in.compensatedControlInterval), in.onFire, true)
	in.timer.Start()

	return nil
}

// Close tears the instance down: stops the timer, frees the send buffer,
// and returns the instance to W_START.
func (in *Instance) Close() {
	in.mu.Lock()
	defer in.mu.Unlock()

	log.Debugf("ppm: CREP %d: close", in.crep)
	in.ciRunning = false
	if in.timer != nil {
		in.timer.Destroy()
		in.timer = nil
	}
	in.sendBuffer = nil
	in.descriptors = nil
	in.setState(StateWStart)

	in.proc.Release()
	if !in.proc.LockCreated() {
		in.dataStatus = 0
	}
}

// onFire is the cyclic timer callback: builds the outgoing frame from
// the current staging buffer and hands it to the Ethernet link.
func (in *Instance) onFire(_ time.Time) {
	in.mu.Lock()
	if !in.ciRunning {
		in.mu.Unlock()
		return
	}

	nowUS := in.clk.NowMicro()
	cycleRaw := (nowUS * 4) / 125
	ratio := uint64(in.sendClockFactor) * uint64(in.reductionRatio)
	var cycle uint64
	if ratio == 0 {
		cycle = cycleRaw
	} else if cycleRaw < ratio {
		cycle = ratio
	} else {
		cycle = cycleRaw - (cycleRaw % ratio)
	}
	in.cycle = uint16(cycle)

	in.proc.Lock()
	copy(in.sendBuffer[in.bufferPos:in.bufferPos+in.cSduLength], in.stageData)
	in.proc.Unlock()

	_, _ = profinet.AppendUint16(in.sendBuffer, int(in.cycleCounterOffset), in.cycle)
	in.sendBuffer[in.dataStatusOffset] = in.dataStatus
	_, _ = profinet.AppendUint16(in.sendBuffer, int(in.transferStatusOffset), in.transferStatus)

	frame := in.sendBuffer
	crep := in.crep
	link := in.link
	ciRunning := in.ciRunning
	timer := in.timer
	in.mu.Unlock()

	if !ciRunning {
		return
	}

	if _, err := link.SendCyclic(frame); err != nil {
		in.mu.Lock()
		in.outErrors++
		stillRunning := in.ciRunning
		in.mu.Unlock()
		log.Errorf("ppm: CREP %d: send failed: %v", crep, err)
		if stillRunning && timer != nil {
			timer.Start()
		}
		return
	}

	in.mu.Lock()
	in.outOctets++
	in.trxCnt++
	first := !in.firstTransmit
	if first {
		in.firstTransmit = true
	}
	stillRunning := in.ciRunning
	in.mu.Unlock()

	if first {
		in.cmsu.PPMErrorIndication(in.ar, crep, false, hostapi.ErrorClassPPM, 0)
	}

	if stillRunning && timer != nil {
		timer.Start()
	}
}

// Stats returns the instance's send counters: successful transmissions,
// out-octet count and out-error count.
func (in *Instance) Stats() (trx, outOctets, outErrors uint64) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.trxCnt, in.outOctets, in.outErrors
}
