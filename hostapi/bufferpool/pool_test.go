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

package bufferpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetReturnsRequestedLength(t *testing.T) {
	p := New(64)
	buf := p.Get(32)
	require.Len(t, buf, 32)
}

func TestGetGrowsBeyondDefaultSize(t *testing.T) {
	p := New(16)
	buf := p.Get(128)
	require.Len(t, buf, 128)
}

func TestPutAllowsReuse(t *testing.T) {
	p := New(64)
	buf := p.Get(64)
	for i := range buf {
		buf[i] = 0xff
	}
	p.Put(buf)

	reused := p.Get(64)
	require.Len(t, reused, 64)
}
