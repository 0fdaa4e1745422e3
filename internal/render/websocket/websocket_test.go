package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vraq/scene/internal/render"
	"github.com/vraq/scene/pkg/core"
	"github.com/vraq/scene/pkg/streaming"
)

// Compile-time interface check.
var _ render.Host = (*Backend)(nil)

// testServer creates an httptest server that upgrades to WebSocket,
// records received messages, and acks scene_reset.
func testServer(t *testing.T) (*httptest.Server, *messageLog) {
	t.Helper()
	ml := &messageLog{}

	upgrader := ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer c.Close()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}

			var env streaming.Envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				continue
			}
			ml.add(env)

			if env.Type == streaming.TypeSceneReset {
				ack := streaming.AckMessage{Type: "ack", For: env.Type}
				data, _ := json.Marshal(ack)
				if err := c.WriteMessage(ws.TextMessage, data); err != nil {
					return
				}
			}
		}
	}))

	return srv, ml
}

type messageLog struct {
	mu       sync.Mutex
	messages []streaming.Envelope
}

func (m *messageLog) add(env streaming.Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, env)
}

func (m *messageLog) all() []streaming.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]streaming.Envelope, len(m.messages))
	copy(cp, m.messages)
	return cp
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestResetSceneWaitsForAck(t *testing.T) {
	srv, ml := testServer(t)
	defer srv.Close()

	b := New(Config{URL: wsURL(srv), Secret: "test"}, nil)
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.ResetScene("a1"))

	msgs := ml.all()
	require.GreaterOrEqual(t, len(msgs), 1)
	assert.Equal(t, streaming.TypeSceneReset, msgs[0].Type)

	var payload streaming.SceneResetPayload
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
	assert.Equal(t, "a1", payload.AnalysisID)
}

func TestFireAndForgetMessages(t *testing.T) {
	srv, ml := testServer(t)
	defer srv.Close()

	b := New(Config{URL: wsURL(srv), Secret: "s"}, nil)
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.ResetScene("a1"))

	marker := core.MarkerDescriptor{ID: "a1:0:R1", Status: core.StatusMissing, Color: "#f44336"}
	require.NoError(t, b.SpawnMarker(marker, true))
	require.NoError(t, b.ApplyTransition(core.TransitionIntent{
		MarkerID: "a1:0:R1",
		Property: core.PropertyScale,
		Target:   0.1,
		Duration: 350 * time.Millisecond,
		Easing:   core.EaseOut,
	}))
	require.NoError(t, b.NotifyHover("a1:0:R1", true))
	require.NoError(t, b.NotifySelection(core.SelectionEvent{MarkerID: "a1:0:R1"}))
	require.NoError(t, b.NotifyStatistics(core.OverallDefectsFound, core.Statistics{Total: 1, Missing: 1}))
	require.NoError(t, b.RemoveMarker("a1:0:R1"))

	// Give a moment for all messages to arrive at server.
	time.Sleep(50 * time.Millisecond)

	types := make(map[string]int)
	for _, m := range ml.all() {
		types[m.Type]++
	}

	assert.Equal(t, 1, types[streaming.TypeSceneReset])
	assert.Equal(t, 1, types[streaming.TypeSpawnMarker])
	assert.Equal(t, 1, types[streaming.TypeTransition])
	assert.Equal(t, 1, types[streaming.TypeHover])
	assert.Equal(t, 1, types[streaming.TypeSelection])
	assert.Equal(t, 1, types[streaming.TypeStatistics])
	assert.Equal(t, 1, types[streaming.TypeRemoveMarker])
}

func TestEnvelopeSerialization(t *testing.T) {
	payload := streaming.RemoveMarkerPayload{MarkerID: "a1:3:C4"}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	env := streaming.Envelope{Type: streaming.TypeRemoveMarker, Payload: raw}
	data, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded streaming.Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, streaming.TypeRemoveMarker, decoded.Type)

	var rp streaming.RemoveMarkerPayload
	require.NoError(t, json.Unmarshal(decoded.Payload, &rp))
	assert.Equal(t, "a1:3:C4", rp.MarkerID)
}
