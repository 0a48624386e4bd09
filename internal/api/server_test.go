package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/touchtone/internal/dtmf"
)

// fakeDecoder serves a fixed snapshot and a pre-loaded subscriber channel.
type fakeDecoder struct {
	state        dtmf.Snapshot
	tail         chan dtmf.Snapshot
	unsubscribed []string
}

func (f *fakeDecoder) State() dtmf.Snapshot { return f.state }

func (f *fakeDecoder) Subscribe() (string, <-chan dtmf.Snapshot) {
	return "sub-1", f.tail
}

func (f *fakeDecoder) Unsubscribe(id string) {
	f.unsubscribed = append(f.unsubscribed, id)
}

func TestStateHandler(t *testing.T) {
	dec := &fakeDecoder{state: dtmf.Snapshot{Key: "5", Status: "HELD", SNR: 23, Buffer: "12"}}
	mux := NewServer(dec).ServeMux()

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var got dtmf.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, dec.state, got)
}

func TestStateHandlerMethodNotAllowed(t *testing.T) {
	mux := NewServer(&fakeDecoder{}).ServeMux()

	req := httptest.NewRequest(http.MethodPost, "/api/state", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestVersionHandler(t *testing.T) {
	mux := NewServer(&fakeDecoder{}).ServeMux()

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Contains(t, got, "version")
	assert.Contains(t, got, "git_sha")
	assert.Contains(t, got, "build_time")
}

func TestDebugTailStreamsSnapshots(t *testing.T) {
	dec := &fakeDecoder{tail: make(chan dtmf.Snapshot, 4)}
	dec.tail <- dtmf.Snapshot{Key: "1", Status: "DOWN", SNR: 30}
	dec.tail <- dtmf.Snapshot{Key: "1", Status: "UP", SNR: 0}
	// closing the channel ends the stream, so the handler returns and the
	// recorder can be inspected synchronously
	close(dec.tail)

	mux := NewServer(dec).ServeMux()

	req := httptest.NewRequest(http.MethodGet, "/debug/tail", nil)
	req.RemoteAddr = "127.0.0.1:4242"
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, []string{"sub-1"}, dec.unsubscribed)

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, ": ping\n\n"), "missing initial ping: %q", body)

	var keys []string
	for _, line := range strings.Split(body, "\n") {
		payload, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		var snap dtmf.Snapshot
		require.NoError(t, json.Unmarshal([]byte(payload), &snap))
		keys = append(keys, snap.Key+"/"+snap.Status)
	}
	assert.Equal(t, []string{"1/DOWN", "1/UP"}, keys)
}

func TestDebugTailMethodNotAllowed(t *testing.T) {
	dec := &fakeDecoder{tail: make(chan dtmf.Snapshot)}
	mux := NewServer(dec).ServeMux()

	req := httptest.NewRequest(http.MethodDelete, "/debug/tail", nil)
	req.RemoteAddr = "127.0.0.1:4242"
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Empty(t, dec.unsubscribed)
}
