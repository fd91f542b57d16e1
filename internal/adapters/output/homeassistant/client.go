package homeassistant

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"jinding-ha/internal/domain/model"
)

// devicesTemplate asks the hub for every device that owns at least one entity,
// as [{"<device_id>": {"name": ..., "entities": [...]}}].
const devicesTemplate = "{% set devices = states | map(attribute='entity_id') | map('device_id') | unique | reject('eq',None) | list %}" +
	"{%- set ns = namespace(devices = []) %}" +
	"{%- for device in devices %}" +
	"{%- set entities = device_entities(device) | list %}" +
	"{%- if entities %}" +
	"{%- set ns.devices = ns.devices +  [ {device: {'name': device_attr(device, 'name'), 'entities': entities}} ] %}" +
	"{%- endif %}" +
	"{%- endfor %}" +
	"{{ ns.devices | tojson }}"

type Client struct {
	url        string
	token      string
	httpClient *resty.Client
	logger     *zap.Logger
	mu         sync.RWMutex
}

func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: resty.New().
			SetTimeout(timeout).
			SetRetryCount(2).
			SetRetryWaitTime(500 * time.Millisecond).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		logger: logger,
	}
}

func (c *Client) Configure(url, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.url = strings.TrimSuffix(url, "/")
	c.token = token
}

func (c *Client) IsConfigured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.url != "" && c.token != ""
}

// Login probes /api/config with the given credentials and keeps them on success.
func (c *Client) Login(ctx context.Context, url, token string) error {
	url = strings.TrimSuffix(url, "/")

	var hubConfig map[string]interface{}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&hubConfig).
		Get(url + "/api/config")
	if err != nil {
		return fmt.Errorf("contacting home assistant: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("HA API error: %d", resp.StatusCode())
	}

	c.logger.Info("logged into home assistant",
		zap.String("url", url),
		zap.Any("version", hubConfig["version"]),
		zap.Any("location_name", hubConfig["location_name"]),
	)
	c.Configure(url, token)
	return nil
}

// GetStates returns the hub's current entity states.
func (c *Client) GetStates(ctx context.Context) ([]model.RawEntity, error) {
	req, base, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var states []model.RawEntity
	resp, err := req.SetResult(&states).Get(base + "/api/states")
	if err != nil {
		return nil, fmt.Errorf("fetching states: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("HA API error: %d", resp.StatusCode())
	}

	// Pictures and option lists are never used here
	for _, s := range states {
		delete(s.Attributes, "entity_picture")
		delete(s.Attributes, "entity_picture_local")
		delete(s.Attributes, "source_list")
		delete(s.Attributes, "sound_mode_list")
	}

	c.logger.Debug("fetched states", zap.Int("count", len(states)))
	return states, nil
}

// GetDevices renders the device template on the hub and decodes the result.
func (c *Client) GetDevices(ctx context.Context) ([]model.RawDevice, error) {
	req, base, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetBody(map[string]string{"template": devicesTemplate}).
		Post(base + "/api/template")
	if err != nil {
		return nil, fmt.Errorf("fetching devices: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("HA API error: %d", resp.StatusCode())
	}

	devices, err := DecodeDevices(resp.Body())
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched devices", zap.Int("count", len(devices)))
	return devices, nil
}

func (c *Client) request(ctx context.Context) (*resty.Request, string, error) {
	c.mu.RLock()
	url := c.url
	token := c.token
	c.mu.RUnlock()

	if url == "" || token == "" {
		return nil, "", fmt.Errorf("Home Assistant not configured")
	}
	return c.httpClient.R().SetContext(ctx).SetAuthToken(token), url, nil
}

type templateDevice struct {
	Name     string   `json:"name"`
	Entities []string `json:"entities"`
}

// DecodeDevices parses the device template output. Each list element maps one
// device ID to its details; an element with several IDs yields one device per
// ID, in ID order.
func DecodeDevices(data []byte) ([]model.RawDevice, error) {
	var raw []map[string]templateDevice
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding devices: %w", err)
	}

	devices := make([]model.RawDevice, 0, len(raw))
	for _, obj := range raw {
		ids := make([]string, 0, len(obj))
		for id := range obj {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			d := obj[id]
			devices = append(devices, model.RawDevice{
				DeviceID: id,
				Name:     d.Name,
				Entities: d.Entities,
			})
		}
	}
	return devices, nil
}
