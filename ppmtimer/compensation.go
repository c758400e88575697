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

package ppmtimer

import "time"

// CompensatedDelay rounds a wanted delay to the nearest multiple of the
// host's stack cycle time, compensating for the extra half-cycle of
// scheduling jitter a best-effort (non hard-real-time) host introduces.
//
// n is 1 when wanted is at most 1.5 stack cycles; otherwise n is wanted
// rounded to the nearest stack cycle count. A hard-real-time host returns
// n*stackCycle outright; a best-effort host returns n*stackCycle minus
// half a stack cycle, since its actual send will lag by about that much.
func CompensatedDelay(wanted, stackCycle time.Duration, hardRealTime bool) time.Duration {
	var n int64
	if wanted <= stackCycle+stackCycle/2 {
		n = 1
	} else {
		n = int64(wanted+stackCycle/2) / int64(stackCycle)
	}

	delay := time.Duration(n) * stackCycle
	if !hardRealTime {
		delay -= stackCycle / 2
	}
	return delay
}
