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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fieldbus-io/pnetcore/hostapi"
)

const testYAML = `
iface: eth0
chassis_id: dut-01
port_id: port-001
ttl_seconds: 20
cap_aneg: 3
cap_phy: 3072
mau_type: 16
eth_addr: "00:0e:cf:01:02:03"
hard_real_time: true
`

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestReadConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pnetd.yaml")
	require.NoError(t, writeFile(path, testYAML))

	c, err := ReadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "dut-01", c.ChassisID)
	require.Equal(t, "port-001", c.PortID)
	require.EqualValues(t, 20, c.TTLSeconds)
	require.True(t, c.HardRealTime)
	require.Equal(t, 5*time.Second, c.LLDPInterval)
	require.Equal(t, 8081, c.MonitoringPort)
}

func TestReadConfigMissingFileErrors(t *testing.T) {
	_, err := ReadConfig("/nonexistent/pnetd.yaml")
	require.Error(t, err)
}

func TestDeviceConfigParsesEthAddr(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pnetd.yaml")
	require.NoError(t, writeFile(path, testYAML))

	c, err := ReadConfig(path)
	require.NoError(t, err)

	dc, err := c.DeviceConfig()
	require.NoError(t, err)
	require.Equal(t, "dut-01", dc.ChassisID)
	require.False(t, dc.EthAddr.IsZero())
}

func TestDeviceConfigRejectsBadEthAddr(t *testing.T) {
	c := &Config{EthAddr: "not-a-mac"}
	_, err := c.DeviceConfig()
	require.Error(t, err)
}

func TestActivateConfigBuildsSingleSubslotDescriptor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pnetd.yaml")
	require.NoError(t, writeFile(path, testYAML+"\ncr:\n  peer_mac: \"01:0e:cf:00:00:00\"\n  api: 0\n"))

	c, err := ReadConfig(path)
	require.NoError(t, err)

	ac, err := c.ActivateConfig(hostapi.ARHandle{Index: 1})
	require.NoError(t, err)
	require.Len(t, ac.Descriptors, 1)
	require.EqualValues(t, 1, ac.Descriptors[0].DataLength)
	require.EqualValues(t, 0, ac.Descriptors[0].DataOffset)
	require.EqualValues(t, 1, ac.Descriptors[0].IOPSOffset)
	require.EqualValues(t, 2, ac.CSDULength)
}

func TestNewAccessorExposesDeviceConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pnetd.yaml")
	require.NoError(t, writeFile(path, testYAML))

	c, err := ReadConfig(path)
	require.NoError(t, err)

	a, err := NewAccessor(c)
	require.NoError(t, err)
	require.Equal(t, "port-001", a.DeviceConfig().PortID)
}
