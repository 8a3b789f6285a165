package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchel-dev/satchel/internal/httpapi"
	"github.com/satchel-dev/satchel/pkg/adapters/memory"
	"github.com/satchel-dev/satchel/pkg/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	manager := session.New(memory.New(), session.WithTTL(time.Hour))
	srv := httptest.NewServer(httpapi.NewHandler(manager, nil))
	t.Cleanup(srv.Close)
	return srv
}

func createSession(t *testing.T, srv *httptest.Server, data map[string]any) string {
	t.Helper()
	body, err := json.Marshal(map[string]any{"data": data})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/sessions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.SessionID)
	return created.SessionID
}

func TestServer_CreateRead(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, map[string]any{"user": "alice"})

	resp, err := http.Get(srv.URL + "/sessions/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "alice", payload.Data["user"])
}

func TestServer_ReadUnknownIs404(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/sessions/never-created")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_WriteThenRead(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, map[string]any{"theme": "light"})

	body, _ := json.Marshal(map[string]any{"data": map[string]any{"theme": "dark"}})
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/sessions/"+id, bytes.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	getResp, err := http.Get(srv.URL + "/sessions/" + id)
	require.NoError(t, err)
	defer getResp.Body.Close()

	var payload struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&payload))
	assert.Equal(t, "dark", payload.Data["theme"])
}

func TestServer_WriteUnknownIs404(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(map[string]any{"data": map[string]any{}})
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/sessions/never-created", bytes.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_DestroyIsIdempotent(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, nil)

	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/sessions/"+id, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/sessions/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_List(t *testing.T) {
	srv := newTestServer(t)
	a := createSession(t, srv, nil)
	b := createSession(t, srv, nil)

	resp, err := http.Get(srv.URL + "/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Sessions []string `json:"sessions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.ElementsMatch(t, []string{a, b}, payload.Sessions)
}

func TestServer_BadPayloadIs400(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/sessions", "application/json", bytes.NewReader([]byte("{broken")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
