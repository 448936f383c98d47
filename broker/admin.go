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

package broker

import (
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kbroker/kbroker/common"
	"github.com/kbroker/kbroker/confengine"
	"github.com/kbroker/kbroker/logger"
)

// AdminConfig is the [server.admin] section of config.toml.
type AdminConfig struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`
}

// AdminServer exposes /metrics, /-/logger, /version and /status on a loopback
// HTTP endpoint, separate from the Kafka TCP listener. It is disabled
// by default.
type AdminServer struct {
	config AdminConfig
	router *mux.Router
	server *http.Server
}

// NewAdminServer returns nil when [server.admin].enabled is false or
// absent — callers must check before calling ListenAndServe.
func NewAdminServer(conf *confengine.Config) (*AdminServer, error) {
	var config AdminConfig
	if conf.Has("server.admin") {
		if err := conf.UnpackChild("server.admin", &config); err != nil {
			return nil, err
		}
	}
	if !config.Enabled {
		return nil, nil
	}

	router := mux.NewRouter()
	s := &AdminServer{
		config: config,
		router: router,
		server: &http.Server{
			Handler:      router,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
	}
	s.router.Methods(http.MethodPost).Path("/-/logger").HandlerFunc(s.routeSetLogLevel)
	s.router.Methods(http.MethodGet).Path("/metrics").Handler(promhttp.Handler())
	s.router.Methods(http.MethodGet).Path("/version").HandlerFunc(s.routeVersion)
	s.router.Methods(http.MethodGet).Path("/status").HandlerFunc(s.routeStatus)
	return s, nil
}

// ListenAndServe blocks serving the admin endpoint until it fails or is
// closed.
func (s *AdminServer) ListenAndServe() error {
	l, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	logger.Infof("admin endpoint listening on %s", s.config.Address)
	return s.server.Serve(l)
}

// Close shuts the admin HTTP server down.
func (s *AdminServer) Close() error {
	return s.server.Close()
}

func (s *AdminServer) routeSetLogLevel(w http.ResponseWriter, r *http.Request) {
	level := r.FormValue("level")
	logger.SetLoggerLevel(level)
	w.Write([]byte(`{"status": "success"}`))
}

// routeStatus reports process uptime and worker concurrency. The
// "verbose" query parameter is optional and defaults to false; it is
// coerced through common.Options rather than parsed directly so a
// malformed value (e.g. "?verbose=maybe") surfaces as a 400 instead of
// silently defaulting.
func (s *AdminServer) routeStatus(w http.ResponseWriter, r *http.Request) {
	opts := common.NewOptions()
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			opts.Merge(k, v[0])
		}
	}

	verbose := false
	if opts["verbose"] != nil {
		v, err := opts.GetBool("verbose")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		verbose = v
	}

	type statusResponse struct {
		UptimeSeconds int64  `json:"uptime_seconds"`
		Concurrency   int    `json:"concurrency"`
		StartedAt     int64  `json:"started_at,omitempty"`
		AdminAddress  string `json:"admin_address,omitempty"`
	}
	resp := statusResponse{
		UptimeSeconds: time.Now().Unix() - common.Started(),
		Concurrency:   common.Concurrency(),
	}
	if verbose {
		resp.StartedAt = common.Started()
		resp.AdminAddress = s.config.Address
	}

	w.Header().Set("Content-Type", "application/json")
	body, err := json.Marshal(resp)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Write(body)
}

func (s *AdminServer) routeVersion(w http.ResponseWriter, r *http.Request) {
	info := common.GetBuildInfo()
	w.Header().Set("Content-Type", "application/json")
	body, err := json.Marshal(struct {
		App     string `json:"app"`
		Version string `json:"version"`
		GitHash string `json:"git_hash"`
		Time    string `json:"build_time"`
	}{
		App:     common.App,
		Version: common.Version,
		GitHash: info.GitHash,
		Time:    info.Time,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Write(body)
}
