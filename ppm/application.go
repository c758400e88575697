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

import log "github.com/sirupsen/logrus"

func (in *Instance) descriptor(api uint32, slot, subslot uint16) (DataDescriptor, bool) {
	d, ok := in.descriptors[descKey{api, slot, subslot}]
	return d, ok
}

// SetDataAndIOPS writes application data and IOPS into the staging
// region for one subslot. It fails with ErrNoDescriptor if the subslot is
// unknown (expected after an AR abort), and ErrLengthMismatch if the
// supplied lengths don't match the descriptor. The descriptor lookup comes
// first, and an instance holds descriptors only between Activate and
// Close, so a call outside RUN reports ErrNoDescriptor.
func (in *Instance) SetDataAndIOPS(api uint32, slot, subslot uint16, data, iops []byte) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	d, ok := in.descriptor(api, slot, subslot)
	if !ok {
		log.Debugf("ppm: no data descriptor for set data (api=%d slot=%d subslot=%d)", api, slot, subslot)
		return ErrNoDescriptor
	}
	if in.state != StateRun {
		return ErrInvalidState
	}
	if uint16(len(data)) != d.DataLength || uint8(len(iops)) != d.IOPSLength {
		return ErrLengthMismatch
	}

	in.proc.Lock()
	if len(data) > 0 {
		copy(in.stageData[d.DataOffset:], data)
	}
	if len(iops) > 0 {
		copy(in.stageData[d.IOPSOffset:], iops)
	}
	in.proc.Unlock()

	return nil
}

// SetIOCS writes consumer status into the staging region for one
// subslot. An IOCSLength of zero is accepted silently.
func (in *Instance) SetIOCS(api uint32, slot, subslot uint16, iocs []byte) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	d, ok := in.descriptor(api, slot, subslot)
	if !ok {
		log.Errorf("ppm: no data descriptor for set iocs (api=%d slot=%d subslot=%d)", api, slot, subslot)
		return ErrNoDescriptor
	}
	if in.state != StateRun {
		return ErrInvalidState
	}
	if d.IOCSLength == 0 {
		return nil
	}
	if uint8(len(iocs)) != d.IOCSLength {
		return ErrLengthMismatch
	}

	in.proc.Lock()
	copy(in.stageData[d.IOCSOffset:], iocs)
	in.proc.Unlock()

	return nil
}

// GetDataAndIOPS reads the current staged data and IOPS for one subslot
// into the caller's buffers, returning how many bytes of each were
// written.
func (in *Instance) GetDataAndIOPS(api uint32, slot, subslot uint16, data, iops []byte) (int, int, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	d, ok := in.descriptor(api, slot, subslot)
	if !ok {
		log.Errorf("ppm: no data descriptor for get data (api=%d slot=%d subslot=%d)", api, slot, subslot)
		return 0, 0, ErrNoDescriptor
	}
	if in.state != StateRun {
		return 0, 0, ErrInvalidState
	}
	if len(data) < int(d.DataLength) || len(iops) < int(d.IOPSLength) {
		return 0, 0, ErrBufferTooSmall
	}

	in.proc.Lock()
	copy(data, in.stageData[d.DataOffset:d.DataOffset+d.DataLength])
	copy(iops, in.stageData[d.IOPSOffset:uint16(d.IOPSOffset)+uint16(d.IOPSLength)])
	in.proc.Unlock()

	return int(d.DataLength), int(d.IOPSLength), nil
}

// GetIOCS reads the current staged IOCS for one subslot.
func (in *Instance) GetIOCS(api uint32, slot, subslot uint16, iocs []byte) (int, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	d, ok := in.descriptor(api, slot, subslot)
	if !ok {
		log.Errorf("ppm: no data descriptor for get iocs (api=%d slot=%d subslot=%d)", api, slot, subslot)
		return 0, ErrNoDescriptor
	}
	if in.state != StateRun {
		return 0, ErrInvalidState
	}
	if len(iocs) < int(d.IOCSLength) {
		return 0, ErrBufferTooSmall
	}

	in.proc.Lock()
	copy(iocs, in.stageData[d.IOCSOffset:uint16(d.IOCSOffset)+uint16(d.IOCSLength)])
	in.proc.Unlock()

	return int(d.IOCSLength), nil
}

// SetDataStatusState flips the STATE (primary/backup) bit.
func (in *Instance) SetDataStatusState(primary bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	setBit(&in.dataStatus, DataStatusState, primary)
}

// SetDataStatusRedundancy flips the REDUNDANCY bit.
func (in *Instance) SetDataStatusRedundancy(redundant bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	setBit(&in.dataStatus, DataStatusRedundancy, redundant)
}

// SetDataStatusProvider flips the PROVIDER_STATE bit.
func (in *Instance) SetDataStatusProvider(run bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	setBit(&in.dataStatus, DataStatusProviderState, run)
}

// DataStatus returns the instance's current data_status byte.
func (in *Instance) DataStatus() uint8 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.dataStatus
}

// SetProblemIndicator flips the STATION_PROBLEM_INDICATOR bit (bit 5)
// across every input/MC-provider instance of an AR. The bit is cleared
// when a problem is present and set when the provider is OK — the
// caller passes the set of instances belonging to that AR's input and
// multicast-provider IOCRs.
func SetProblemIndicator(instances []*Instance, problem bool) {
	for _, in := range instances {
		in.mu.Lock()
		setBit(&in.dataStatus, DataStatusStationProblemIndicator, !problem)
		in.mu.Unlock()
	}
}

func setBit(status *uint8, bit uint8, set bool) {
	if set {
		*status |= bit
	} else {
		*status &^= bit
	}
}
