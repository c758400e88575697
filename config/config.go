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

// Package config loads the daemon's static run configuration: which
// interface to bind, the device's LLDP identity, and the stack's cyclic
// timing parameters.
package config

import (
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"

	"github.com/fieldbus-io/pnetcore/ethernet"
	"github.com/fieldbus-io/pnetcore/hostapi"
	"github.com/fieldbus-io/pnetcore/ppm"
)

// Config specifies pnetd run options.
type Config struct {
	Iface string `yaml:"iface"`

	// LLDP identity, per §6 "Configuration fields".
	ChassisID      string `yaml:"chassis_id"`
	PortID         string `yaml:"port_id"`
	TTLSeconds     uint16 `yaml:"ttl_seconds"`
	RTClass2Status uint16 `yaml:"rt_class2_status"`
	RTClass3Status uint16 `yaml:"rt_class3_status"`
	CapANeg        uint8  `yaml:"cap_aneg"`
	CapPHY         uint16 `yaml:"cap_phy"`
	MAUType        uint16 `yaml:"mau_type"`
	EthAddr        string `yaml:"eth_addr"`

	LLDPInterval      time.Duration `yaml:"lldp_interval"`
	NotSendLLDPFrames bool          `yaml:"not_send_lldp_frames"`

	// Cyclic-send stack timing, per §4 "Timer compensation".
	StackCycleTime time.Duration `yaml:"stack_cycle_time"`
	HardRealTime   bool          `yaml:"hard_real_time"`

	MonitoringPort     int           `yaml:"monitoring_port"`
	PrometheusPort     int           `yaml:"prometheus_port"`
	PrometheusInterval time.Duration `yaml:"prometheus_interval"`

	// PHCDevice, if set, names the network interface whose PTP hardware
	// clock drives the cyclic send cadence instead of the system clock.
	PHCDevice string `yaml:"phc_device"`

	// CR is the single communication relationship pnetd activates on
	// startup. A real stack would learn these parameters from AR/CR
	// connect requests handled by the CM engine (out of scope per §1
	// Non-goals); here they come from static config so the daemon has
	// something concrete to drive.
	CR CRConfig `yaml:"cr"`
}

// CRConfig describes the one statically-configured communication
// relationship pnetd's demo PPM instance provides data for: a single
// subslot carrying fixed-length I/O data, IOPS and IOCS.
type CRConfig struct {
	CREP            uint16        `yaml:"crep"`
	PeerMAC         string        `yaml:"peer_mac"`
	FrameID         uint16        `yaml:"frame_id"`
	VLANPriority    uint8         `yaml:"vlan_priority"`
	VLANID          uint16        `yaml:"vlan_id"`
	SendClockFactor uint16        `yaml:"send_clock_factor"`
	ReductionRatio  uint16        `yaml:"reduction_ratio"`
	API             uint32        `yaml:"api"`
	Slot            uint16        `yaml:"slot"`
	Subslot         uint16        `yaml:"subslot"`
	DataLength      uint16        `yaml:"data_length"`
	IOPSLength      uint8         `yaml:"iops_length"`
	IOCSLength      uint8         `yaml:"iocs_length"`
}

// ReadConfig reads and unmarshals config from path, filling in defaults
// for anything the file leaves zero-valued.
func ReadConfig(path string) (*Config, error) {
	c := &Config{
		LLDPInterval:       5 * time.Second,
		StackCycleTime:     time.Millisecond,
		MonitoringPort:     8081,
		PrometheusPort:     8082,
		PrometheusInterval: 15 * time.Second,
		CR: CRConfig{
			FrameID:         0xc000,
			SendClockFactor: 32,
			ReductionRatio:  1,
			Slot:            1,
			Subslot:         1,
			DataLength:      1,
			IOPSLength:      1,
		},
	}

	cData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(cData, c); err != nil {
		return nil, err
	}

	return c, nil
}

// DeviceConfig renders the LLDP-facing subset of Config as a
// hostapi.DeviceConfig, parsing the configured Ethernet address.
func (c *Config) DeviceConfig() (hostapi.DeviceConfig, error) {
	addr, err := ethernet.ParseAddress(c.EthAddr)
	if err != nil {
		return hostapi.DeviceConfig{}, err
	}

	return hostapi.DeviceConfig{
		ChassisID:      c.ChassisID,
		PortID:         c.PortID,
		TTLSeconds:     c.TTLSeconds,
		RTClass2Status: c.RTClass2Status,
		RTClass3Status: c.RTClass3Status,
		CapANeg:        c.CapANeg,
		CapPHY:         c.CapPHY,
		MAUType:        c.MAUType,
		EthAddr:        addr,
		Boundary:       hostapi.PeerBoundary{NotSendLLDPFrames: c.NotSendLLDPFrames},
	}, nil
}

// ActivateConfig renders Config.CR as a ppm.ActivateConfig for a single
// subslot, ready to pass to Instance.Activate.
func (c *Config) ActivateConfig(ar hostapi.ARHandle) (ppm.ActivateConfig, error) {
	station, err := ethernet.ParseAddress(c.EthAddr)
	if err != nil {
		return ppm.ActivateConfig{}, err
	}
	peer, err := ethernet.ParseAddress(c.CR.PeerMAC)
	if err != nil {
		return ppm.ActivateConfig{}, err
	}

	return ppm.ActivateConfig{
		AR:              ar,
		CREP:            c.CR.CREP,
		ResponderMAC:    station,
		InitiatorMAC:    peer,
		FrameID:         c.CR.FrameID,
		VLANPriority:    c.CR.VLANPriority,
		VLANID:          c.CR.VLANID,
		SendClockFactor: c.CR.SendClockFactor,
		ReductionRatio:  c.CR.ReductionRatio,
		CSDULength:      c.CR.DataLength + uint16(c.CR.IOPSLength) + uint16(c.CR.IOCSLength),
		Descriptors: []ppm.DataDescriptor{{
			API:        c.CR.API,
			Slot:       c.CR.Slot,
			Subslot:    c.CR.Subslot,
			DataOffset: 0,
			DataLength: c.CR.DataLength,
			IOPSOffset: c.CR.DataLength,
			IOPSLength: c.CR.IOPSLength,
			IOCSOffset: c.CR.DataLength + uint16(c.CR.IOPSLength),
			IOCSLength: c.CR.IOCSLength,
		}},
		StackCycleTime: uint32(c.StackCycleTime.Microseconds()),
		HardRealTime:   c.HardRealTime,
	}, nil
}

// Accessor adapts a parsed Config to hostapi.ConfigAccessor, resolving
// the Ethernet address once at construction time rather than on every
// call.
type Accessor struct {
	cfg hostapi.DeviceConfig
}

// NewAccessor builds an Accessor from c, failing if c.EthAddr does not
// parse as a MAC address.
func NewAccessor(c *Config) (*Accessor, error) {
	dc, err := c.DeviceConfig()
	if err != nil {
		return nil, err
	}
	return &Accessor{cfg: dc}, nil
}

// DeviceConfig implements hostapi.ConfigAccessor.
func (a *Accessor) DeviceConfig() hostapi.DeviceConfig {
	return a.cfg
}
