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

package stats

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestScrapeRegistersAndSetsGauges(t *testing.T) {
	var c Counters
	c.CyclicSent.Add(4)
	e := NewPrometheusExporter(&c, 0, time.Hour)

	e.scrape()

	metrics, err := e.registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, metrics)

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "pnetcore_cyclic_sent" {
			found = true
			require.EqualValues(t, 4, mf.Metric[0].GetGauge().GetValue())
		}
	}
	require.True(t, found)
}

func TestScrapeReusesGaugeOnSecondPass(t *testing.T) {
	var c Counters
	e := NewPrometheusExporter(&c, 0, time.Hour)

	c.LLDPSent.Add(1)
	e.scrape()
	c.LLDPSent.Add(1)
	e.scrape()

	metrics, err := e.registry.Gather()
	require.NoError(t, err)

	var got *dto.MetricFamily
	for _, mf := range metrics {
		if mf.GetName() == "pnetcore_lldp_sent" {
			got = mf
		}
	}
	require.NotNil(t, got)
	require.Len(t, got.Metric, 1)
	require.EqualValues(t, 2, got.Metric[0].GetGauge().GetValue())
}

func TestFlattenKeyReplacesDotsAndDashes(t *testing.T) {
	require.Equal(t, "pnetcore_peer_mismatches", flattenKey("peer.mismatches"))
	require.Equal(t, "pnetcore_peer_loss_count", flattenKey("peer-loss.count"))
}
