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

// Package broker hosts the TCP accept loop, the per-connection Kafka
// request driver, and the optional admin HTTP endpoint.
package broker

import (
	"net"

	"github.com/hashicorp/go-multierror"

	"github.com/kbroker/kbroker/confengine"
	"github.com/kbroker/kbroker/logger"
	"github.com/kbroker/kbroker/protocol/kafka/records"
)

// Config is the [server] section of config.toml.
type Config struct {
	Address string `toml:"address"`
}

// Server accepts connections on a TCP listener and spawns one goroutine
// per connection to drive the Kafka request/response loop. There is no
// shared mutable state between connections; the Store below is
// read-only from every connection's point of view.
type Server struct {
	config   Config
	store    *records.Store
	admin    *AdminServer
	listener net.Listener
}

// New builds a Server and its optional admin endpoint from conf. The
// Kafka listener itself is not opened until Serve is called.
func New(conf *confengine.Config, storePath string) (*Server, error) {
	config := Config{Address: "127.0.0.1:9092"}
	if conf.Has("server") {
		if err := conf.UnpackChild("server", &config); err != nil {
			return nil, err
		}
	}

	admin, err := NewAdminServer(conf)
	if err != nil {
		return nil, err
	}

	return &Server{
		config: config,
		store:  records.NewStore(storePath),
		admin:  admin,
	}, nil
}

// Serve opens the Kafka TCP listener and, if configured, the admin HTTP
// endpoint, then blocks accepting connections until the listener is
// closed.
func (s *Server) Serve() error {
	l, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	s.listener = l
	logger.Infof("kafka broker listening on %s", s.config.Address)

	if s.admin != nil {
		go func() {
			if err := s.admin.ListenAndServe(); err != nil {
				logger.Warnf("admin endpoint stopped: %v", err)
			}
		}()
	}

	for {
		conn, err := l.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

// Close releases the Kafka listener and the admin endpoint, aggregating
// failures from both instead of stopping at the first one.
func (s *Server) Close() error {
	var result error
	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if s.admin != nil {
		if err := s.admin.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}
