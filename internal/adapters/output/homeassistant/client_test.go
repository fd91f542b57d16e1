package homeassistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHub(t *testing.T, token string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+token {
				http.Error(w, "401: Unauthorized", http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}
	mux.HandleFunc("/api/config", auth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"version": "2025.1.0", "location_name": "Home"}`))
	}))
	mux.HandleFunc("/api/states", auth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"entity_id": "switch.giot_k1", "state": "on", "attributes": {"friendly_name": "客厅开关一键", "entity_picture": "/big.png"}},
			{"entity_id": "light.main", "state": "off", "attributes": {"friendly_name": "主灯"}}
		]`))
	}))
	mux.HandleFunc("/api/template", auth(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["template"] != devicesTemplate {
			http.Error(w, "bad template", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(`[{"dev1": {"name": "客厅面板", "entities": ["switch.giot_k1", "sensor.giot_t"]}}]`))
	}))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Login(t *testing.T) {
	srv := newHub(t, "secret")
	c := NewClient(5*time.Second, zap.NewNop())

	err := c.Login(context.Background(), srv.URL, "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.False(t, c.IsConfigured())

	require.NoError(t, c.Login(context.Background(), srv.URL+"/", "secret"))
	assert.True(t, c.IsConfigured())
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(time.Second, zap.NewNop())

	_, err := c.GetStates(context.Background())
	assert.Error(t, err)
	_, err = c.GetDevices(context.Background())
	assert.Error(t, err)
}

func TestClient_GetStates(t *testing.T) {
	srv := newHub(t, "secret")
	c := NewClient(5*time.Second, zap.NewNop())
	c.Configure(srv.URL, "secret")

	states, err := c.GetStates(context.Background())
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "switch.giot_k1", states[0].EntityID)
	assert.Equal(t, "on", states[0].State)
	name, ok := states[0].FriendlyName()
	assert.True(t, ok)
	assert.Equal(t, "客厅开关一键", name)
	assert.NotContains(t, states[0].Attributes, "entity_picture")
}

func TestClient_GetDevices(t *testing.T) {
	srv := newHub(t, "secret")
	c := NewClient(5*time.Second, zap.NewNop())
	c.Configure(srv.URL, "secret")

	devices, err := c.GetDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "dev1", devices[0].DeviceID)
	assert.Equal(t, "客厅面板", devices[0].Name)
	assert.Equal(t, []string{"switch.giot_k1", "sensor.giot_t"}, devices[0].Entities)
}

func TestClient_BadToken(t *testing.T) {
	srv := newHub(t, "secret")
	c := NewClient(5*time.Second, zap.NewNop())
	c.Configure(srv.URL, "expired")

	_, err := c.GetStates(context.Background())
	assert.Error(t, err)
	_, err = c.GetDevices(context.Background())
	assert.Error(t, err)
}

func TestDecodeDevices(t *testing.T) {
	devices, err := DecodeDevices([]byte(`[
		{"b": {"name": "B", "entities": ["switch.b"]}, "a": {"name": "A", "entities": []}},
		{"c": {"name": "C", "entities": ["light.c"]}}
	]`))
	require.NoError(t, err)
	require.Len(t, devices, 3)
	assert.Equal(t, "a", devices[0].DeviceID)
	assert.Equal(t, "b", devices[1].DeviceID)
	assert.Equal(t, "C", devices[2].Name)

	devices, err = DecodeDevices([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, devices)

	_, err = DecodeDevices([]byte(`{"not": "a list"}`))
	assert.Error(t, err)
}
