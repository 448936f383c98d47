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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbroker/kbroker/confengine"
)

func newEnabledAdminServer(t *testing.T) *AdminServer {
	t.Helper()
	conf, err := confengine.LoadContent([]byte(`
[server.admin]
enabled = true
address = "127.0.0.1:0"
`))
	require.NoError(t, err)

	s, err := NewAdminServer(conf)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

func TestNewAdminServerDisabledByDefault(t *testing.T) {
	conf, err := confengine.LoadContent(nil)
	require.NoError(t, err)

	s, err := NewAdminServer(conf)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestRouteStatusDefaultsToTerse(t *testing.T) {
	s := newEnabledAdminServer(t)
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uptime_seconds"`)
	assert.Contains(t, w.Body.String(), `"concurrency"`)
	assert.NotContains(t, w.Body.String(), `"started_at"`)
}

func TestRouteStatusVerboseIncludesStartedAt(t *testing.T) {
	s := newEnabledAdminServer(t)
	req := httptest.NewRequest(http.MethodGet, "/status?verbose=true", nil)
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"started_at"`)
	assert.Contains(t, w.Body.String(), `"admin_address"`)
}

func TestRouteStatusMalformedVerboseIsBadRequest(t *testing.T) {
	s := newEnabledAdminServer(t)
	req := httptest.NewRequest(http.MethodGet, "/status?verbose=maybe", nil)
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouteVersionReportsAppIdentity(t *testing.T) {
	s := newEnabledAdminServer(t)
	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"app":"kbroker"`)
}
