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

package ethernet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressStringRoundTrip(t *testing.T) {
	a := Address{0x00, 0x0e, 0xcf, 0x01, 0x02, 0x03}
	require.Equal(t, "00:0e:cf:01:02:03", a.String())

	parsed, err := ParseAddress(a.String())
	require.NoError(t, err)
	require.Equal(t, a, parsed)
}

func TestParseAddressInvalid(t *testing.T) {
	_, err := ParseAddress("not-a-mac")
	require.Error(t, err)

	_, err = ParseAddress("00:0e:cf:01:02")
	require.Error(t, err)
}

func TestIsZero(t *testing.T) {
	var a Address
	require.True(t, a.IsZero())
	a[0] = 1
	require.False(t, a.IsZero())
}

func TestLLDPMulticastAddress(t *testing.T) {
	require.Equal(t, "01:80:c2:00:00:0e", LLDPMulticast.String())
}
