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

package main

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fieldbus-io/pnetcore/alarm"
	"github.com/fieldbus-io/pnetcore/config"
	"github.com/fieldbus-io/pnetcore/hostapi"
	"github.com/fieldbus-io/pnetcore/hostapi/memory"
	"github.com/fieldbus-io/pnetcore/hostapi/phcclock"
	"github.com/fieldbus-io/pnetcore/hostapi/rawlink"
	"github.com/fieldbus-io/pnetcore/lldp"
	"github.com/fieldbus-io/pnetcore/phc"
	"github.com/fieldbus-io/pnetcore/ppm"
	"github.com/fieldbus-io/pnetcore/stats"
)

// demoAR is the single Application Relationship pnetd drives. A real
// deployment learns AR/CR parameters from the CM engine's connect
// request handling, which §1 Non-goals excludes from this module; this
// handle exists so the PPM and diagnostic-registry wiring below has a
// concrete target.
var demoAR = hostapi.ARHandle{Index: 0}

func run(cfgPath string) error {
	cfg, err := config.ReadConfig(cfgPath)
	if err != nil {
		return err
	}

	link, err := rawlink.Open(cfg.Iface)
	if err != nil {
		return err
	}
	defer link.Close()

	accessor, err := config.NewAccessor(cfg)
	if err != nil {
		return err
	}

	counters := &stats.Counters{}
	jsonSrv := stats.NewJSONServer(counters)
	if err := jsonSrv.Start(cfg.MonitoringPort); err != nil {
		return err
	}
	promExporter := stats.NewPrometheusExporter(counters, cfg.PrometheusPort, cfg.PrometheusInterval)
	promExporter.Start()

	ars := memory.NewARTable(hostapi.AR{Handle: demoAR, InUse: true})
	diags := memory.NewDiagnosticRegistry()
	alarmSender := &memory.AlarmSender{}
	bridge := alarm.NewBridge(ars, diags, alarmSender)

	cmsu := &memory.CMSUNotifier{}
	proc := ppm.NewProcessState()

	var clk hostapi.Clock = hostapi.SystemClock{}
	if cfg.PHCDevice != "" {
		clk = phcclock.New(cfg.PHCDevice, phc.MethodSyscallClockGettime)
	}
	instance := ppm.NewInstance(proc, link, clk, cmsu)

	activateCfg, err := cfg.ActivateConfig(demoAR)
	if err != nil {
		return err
	}
	if err := instance.Activate(activateCfg); err != nil {
		return err
	}
	defer instance.Close()

	ipAddr := ipv4Accessor(0)
	tx := lldp.NewTransmitter(link, ipAddr, accessor, cfg.LLDPInterval)
	rx := lldp.NewReceiver(bridge)
	defer rx.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		tx.Start()
		<-ctx.Done()
		tx.Stop()
		return nil
	})

	eg.Go(func() error {
		return receiveLoop(ctx, link, rx)
	})

	log.Infof("pnetd: running on %s", cfg.Iface)
	<-ctx.Done()
	return eg.Wait()
}

// ipv4Accessor is a trivial hostapi.AddressAccessor for a statically
// configured IPv4 address; pnetd has no DHCP/DCP client of its own.
type ipv4Accessor uint32

func (a ipv4Accessor) IPv4Addr() uint32 { return uint32(a) }

// receiveLoop reads frames off link and hands each one to rx, which
// rejects with an error (logged here and dropped) any frame whose
// EtherType is not LLDP; the destination address is not checked.
func receiveLoop(ctx context.Context, link *rawlink.Link, rx *lldp.Receiver) error {
	buf := make([]byte, 1600)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := link.Receive(buf)
		if err != nil {
			log.Errorf("pnetd: receive error: %v", err)
			continue
		}
		if err := rx.Receive(buf[:n]); err != nil {
			log.Debugf("pnetd: dropping frame: %v", err)
		}
	}
}
