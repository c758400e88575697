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
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	verbose bool
)

// rootCmd is pnetd's single entry point: it loads its config, wires the
// PPM instance and the LLDP engine to a raw-socket link, and runs until
// signaled.
var rootCmd = &cobra.Command{
	Use:   "pnetd",
	Short: "PROFINET cyclic-data and discovery daemon",
	RunE: func(_ *cobra.Command, _ []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		return run(cfgPath)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "/etc/pnetd.yaml", "path to pnetd config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
