// Copyright 2025 The kbroker Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbroker/kbroker/broker"
	"github.com/kbroker/kbroker/confengine"
	"github.com/kbroker/kbroker/internal/sigs"
	"github.com/kbroker/kbroker/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Kafka broker",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfigOrEmpty(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}

		var logOpts logger.Options
		if cfg.Has("log") {
			if err := cfg.UnpackChild("log", &logOpts); err != nil {
				fmt.Fprintf(os.Stderr, "failed to parse [log]: %v\n", err)
				os.Exit(1)
			}
		}
		logger.SetOptions(logOpts)

		storePath := "/tmp/kraft-combined-logs"
		if cfg.Has("store") {
			var storeCfg struct {
				Path string `toml:"path"`
			}
			if err := cfg.UnpackChild("store", &storeCfg); err != nil {
				fmt.Fprintf(os.Stderr, "failed to parse [store]: %v\n", err)
				os.Exit(1)
			}
			if storeCfg.Path != "" {
				storePath = storeCfg.Path
			}
		}

		srv, err := broker.New(cfg, storePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create broker: %v\n", err)
			os.Exit(1)
		}

		serveErr := make(chan error, 1)
		go func() { serveErr <- srv.Serve() }()

		var reloadTotal int
		for {
			select {
			case <-sigs.Terminate():
				if err := srv.Close(); err != nil {
					logger.Errorf("error closing broker: %v", err)
				}
				return

			case <-sigs.Reload():
				reloadTotal++
				cfg, err := loadConfigOrEmpty(configPath)
				if err != nil {
					logger.Errorf("failed to reload config (count=%d): %v", reloadTotal, err)
					continue
				}
				var logOpts logger.Options
				if cfg.Has("log") {
					if err := cfg.UnpackChild("log", &logOpts); err != nil {
						logger.Errorf("failed to parse [log] on reload (count=%d): %v", reloadTotal, err)
						continue
					}
				}
				logger.SetOptions(logOpts)
				logger.Infof("reloaded logging config (count=%d)", reloadTotal)

			case err := <-serveErr:
				if err != nil {
					logger.Errorf("broker stopped: %v", err)
					os.Exit(1)
				}
				return
			}
		}
	},
	Example: "# kbroker serve --config config.toml",
}

// loadConfigOrEmpty loads path, falling back to an empty Config (so
// every section's defaults apply) when the file is absent or malformed,
// rather than failing startup outright.
func loadConfigOrEmpty(path string) (*confengine.Config, error) {
	cfg, err := confengine.LoadConfigPath(path)
	if err != nil {
		logger.Warnf("failed to load %s, falling back to defaults: %v", path, err)
		return confengine.LoadContent(nil)
	}
	return cfg, nil
}

var configPath string

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "config.toml", "Configuration file path")
	rootCmd.AddCommand(serveCmd)
}
