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

import "errors"

// Errors surfaced by the provider protocol machine, per the error kinds
// named for this subsystem.
var (
	ErrInvalidState     = errors.New("ppm: invalid state for this operation")
	ErrLengthMismatch    = errors.New("ppm: supplied length does not match descriptor")
	ErrBufferTooSmall    = errors.New("ppm: caller buffer shorter than descriptor length")
	ErrNoDescriptor      = errors.New("ppm: no data descriptor for this api/slot/subslot")
	ErrTimerCreateFailed = errors.New("ppm: timer could not be created")
)
