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
	"bufio"
	"errors"
	"io"
	"net"
	"time"

	"github.com/kbroker/kbroker/common"
	"github.com/kbroker/kbroker/internal/kerrors"
	"github.com/kbroker/kbroker/internal/metrics"
	"github.com/kbroker/kbroker/logger"
	"github.com/kbroker/kbroker/protocol/kafka"
	"github.com/kbroker/kbroker/protocol/kafka/handlers"
	"github.com/kbroker/kbroker/protocol/kafka/records"
)

// handleConn drives one connection: read a request, dispatch it, write
// the response, repeat. Processing within a connection is strictly
// sequential — there is no pipelining, so response order always equals
// request order without any extra bookkeeping.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	metrics.ConnectionsActive.Inc()
	defer metrics.ConnectionsActive.Dec()

	reader := bufio.NewReaderSize(conn, common.ReadWriteBlockSize)
	for {
		if err := serveOneRequest(reader, conn, s.store); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			logger.Errorf("connection %s: %v", conn.RemoteAddr(), err)
			metrics.InternalErrorsTotal.Inc()
			return
		}
	}
}

// serveOneRequest reads exactly one request off reader, dispatches it,
// and writes the response (if any) to conn. Returning io.EOF signals a
// clean connection close; any other error is fatal to the connection.
func serveOneRequest(reader *bufio.Reader, conn net.Conn, store *records.Store) error {
	var sizeBuf [4]byte
	if _, err := io.ReadFull(reader, sizeBuf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return kerrors.Truncated("message_size: %v", err)
	}

	messageSize, _, err := kafka.DecodeInt32(sizeBuf[:], 0)
	if err != nil {
		return err
	}
	if messageSize < 0 {
		return kerrors.Framing("negative message_size %d", messageSize)
	}

	body := make([]byte, messageSize)
	if _, err := io.ReadFull(reader, body); err != nil {
		return kerrors.Truncated("request body (%d bytes): %v", messageSize, err)
	}

	header, bodyOff, err := kafka.DecodeRequestHeaderV2(body, 0)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, handled, err := dispatch(header, body, bodyOff, store)
	if err != nil {
		return err
	}
	if !handled {
		// Unknown request_api_key: no response bytes, connection stays
		// open.
		return nil
	}

	metrics.RequestsTotal.WithLabelValues(metrics.ApiKeyLabel(header.ApiKey)).Inc()
	metrics.HandlerDuration.WithLabelValues(metrics.ApiKeyLabel(header.ApiKey)).Observe(time.Since(start).Seconds())

	out := resp.Frame()
	_, err = conn.Write(out)
	return err
}

// dispatch decodes the body for the API the header names and runs its
// handler. handled is false only for an API key this broker doesn't
// implement.
func dispatch(header kafka.RequestHeaderV2, body []byte, bodyOff int, store *records.Store) (handlers.Response, bool, error) {
	switch kafka.ApiKey(header.ApiKey) {
	case kafka.ApiVersions:
		out := handlers.HandleApiVersions(header.ApiVersion)
		return handlers.Response{
			Kind:          handlers.KindApiVersions,
			CorrelationID: header.CorrelationID,
			ApiVersions:   &out,
		}, true, nil

	case kafka.Fetch:
		req, _, err := handlers.DecodeFetchRequest(body, bodyOff)
		if err != nil {
			return handlers.Response{}, false, err
		}
		out, err := handlers.HandleFetch(store, req)
		if err != nil {
			return handlers.Response{}, false, err
		}
		return handlers.Response{
			Kind:          handlers.KindFetch,
			CorrelationID: header.CorrelationID,
			Fetch:         &out,
		}, true, nil

	case kafka.DescribeTopicPartitions:
		req, _, err := handlers.DecodeDescribeTopicPartitionsRequest(body, bodyOff)
		if err != nil {
			return handlers.Response{}, false, err
		}
		out, err := handlers.HandleDescribeTopicPartitions(store, req)
		if err != nil {
			return handlers.Response{}, false, err
		}
		return handlers.Response{
			Kind:                    handlers.KindDescribeTopicPartitions,
			CorrelationID:           header.CorrelationID,
			DescribeTopicPartitions: &out,
		}, true, nil

	case kafka.Produce:
		req, _, err := handlers.DecodeProduceRequest(body, bodyOff)
		if err != nil {
			return handlers.Response{}, false, err
		}
		out := handlers.HandleProduce(req)
		return handlers.Response{
			Kind:          handlers.KindProduce,
			CorrelationID: header.CorrelationID,
			Produce:       &out,
		}, true, nil

	default:
		return handlers.Response{}, false, nil
	}
}
