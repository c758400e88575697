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
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// JSONServer serves the current counter snapshot as JSON on a debug
// HTTP endpoint.
type JSONServer struct {
	counters *Counters
}

// NewJSONServer wraps counters for HTTP exposure.
func NewJSONServer(counters *Counters) *JSONServer {
	return &JSONServer{counters: counters}
}

// Start listens on monitoringPort and serves /debug/counters. It
// returns once the listener is established; serving happens in a
// background goroutine, matching the teacher's fire-and-forget debug
// server.
func (s *JSONServer) Start(monitoringPort int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/counters", s.handleRequest)

	addr := fmt.Sprintf(":%d", monitoringPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	go func() {
		if err := http.Serve(ln, mux); err != nil {
			log.Errorf("stats json server stopped: %v", err)
		}
	}()
	return nil
}

func (s *JSONServer) handleRequest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.counters.Snapshot()); err != nil {
		log.Errorf("failed to encode counters: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}
