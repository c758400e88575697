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

package phc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIfaceInfoNoSuchInterface(t *testing.T) {
	_, err := IfaceInfo("lol-does-not-exist")
	require.Error(t, err)
}

func TestIoctlPTPSysOffsetExtendedComputed(t *testing.T) {
	// ioctlPTPSysOffsetExtended is derived once at package init from a
	// fixed magic/command/size triple, so it must never come out zero.
	require.NotZero(t, ioctlPTPSysOffsetExtended)
}
