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

// State is one of the two states the provider protocol machine moves
// between: W_START before activation, RUN while cyclically sending.
type State int

// States of the provider protocol machine.
const (
	StateWStart State = iota
	StateRun
)

// String renders the state for logging.
func (s State) String() string {
	switch s {
	case StateWStart:
		return "W_START"
	case StateRun:
		return "RUN"
	default:
		return "<unknown>"
	}
}

// Data status bits. Bit 5, StationProblemIndicator, is 1 when the
// provider is OK and cleared when a problem has been signalled — the
// inverted sense is intentional, not a typo.
const (
	DataStatusState                  uint8 = 1 << 0
	DataStatusRedundancy             uint8 = 1 << 1
	DataStatusDataValid              uint8 = 1 << 2
	DataStatusProviderState          uint8 = 1 << 3
	DataStatusStationProblemIndicator uint8 = 1 << 5
)
