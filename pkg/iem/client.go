package iem

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apperrors"
)

// Config holds the connection parameters for the management portal.
type Config struct {
	BaseURL      string
	PortalURL    string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client is the REST client for the device directory and app installation.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a portal client. BaseURL and credentials are required.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("iem base url is required")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("iem client credentials are required")
	}
	if cfg.PortalURL == "" {
		cfg.PortalURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("iem"),
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// getToken returns a cached client-credentials token, fetching a fresh one
// when the cache is empty or about to expire.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token fetch failed: status %d: %s", resp.StatusCode, string(body))
	}

	var result tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("empty token in response")
	}

	c.token = result.AccessToken
	// refresh one minute early so in-flight requests never carry a stale token
	expiresIn := time.Duration(result.ExpiresIn) * time.Second
	if expiresIn > time.Minute {
		expiresIn -= time.Minute
	}
	c.tokenExpiry = time.Now().Add(expiresIn)

	c.logger.Debug("fetched portal token", zap.Time("expiry", c.tokenExpiry))
	return c.token, nil
}

func (c *Client) authorizedGet(ctx context.Context, rawURL string) (*http.Response, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", token)
	return c.httpClient.Do(req)
}

type deviceListResponse struct {
	Data []struct {
		DeviceName   string `json:"deviceName"`
		DeviceID     string `json:"deviceId"`
		DeviceStatus string `json:"deviceStatus"`
	} `json:"data"`
}

// Devices lists every edge device registered in the portal.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	resp, err := c.authorizedGet(ctx, c.cfg.BaseURL+"/devices")
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list devices: status %d: %s", resp.StatusCode, string(body))
	}

	var result deviceListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode device list: %w", err)
	}

	devices := make([]Device, len(result.Data))
	for i, raw := range result.Data {
		devices[i] = Device{
			Name:   raw.DeviceName,
			ID:     raw.DeviceID,
			Status: raw.DeviceStatus,
		}
	}
	return devices, nil
}

type deviceDetailsResponse struct {
	Data []struct {
		Nodes []struct {
			DiscoveryDetailsVO struct {
				SLocalIPAddress string `json:"sLocalIPAddress"`
			} `json:"discoveryDetailsVO"`
		} `json:"nodes"`
	} `json:"data"`
}

// DeviceDetails resolves a device by its portal name and enriches it with
// the local network address reported by the portal service. An unknown name
// wraps apperrors.ErrNotFound.
func (c *Client) DeviceDetails(ctx context.Context, deviceName string) (DetailedDevice, error) {
	devices, err := c.Devices(ctx)
	if err != nil {
		return DetailedDevice{}, err
	}

	var found *Device
	for i := range devices {
		if devices[i].Name == deviceName {
			found = &devices[i]
			break
		}
	}
	if found == nil {
		return DetailedDevice{}, fmt.Errorf("device %q: %w", deviceName, apperrors.ErrNotFound)
	}

	resp, err := c.authorizedGet(ctx, c.cfg.PortalURL+"/devices/"+found.ID)
	if err != nil {
		return DetailedDevice{}, fmt.Errorf("device details %s: %w", found.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return DetailedDevice{}, fmt.Errorf("device details %s: status %d: %s",
			found.ID, resp.StatusCode, string(body))
	}

	var result deviceDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return DetailedDevice{}, fmt.Errorf("decode device details: %w", err)
	}
	if len(result.Data) == 0 || len(result.Data[0].Nodes) == 0 {
		return DetailedDevice{}, fmt.Errorf("device details %s: no nodes in response", found.ID)
	}

	return DetailedDevice{
		Device: *found,
		URL:    result.Data[0].Nodes[0].DiscoveryDetailsVO.SLocalIPAddress,
	}, nil
}

// InstallApp submits an installation batch for one app on one device and
// returns the portal's job identifier. A non-2xx response is surfaced with
// the portal's body verbatim.
func (c *Client) InstallApp(ctx context.Context, deviceID, appID string, configs []InstallConfig) (string, error) {
	infoMap := map[string]any{"devices": []string{deviceID}}
	if len(configs) > 0 {
		infoMap["configs"] = configs
	}
	infoJSON, err := json.Marshal(infoMap)
	if err != nil {
		return "", fmt.Errorf("encode install payload: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormField("infoMap")
	if err != nil {
		return "", fmt.Errorf("build install form: %w", err)
	}
	if _, err := part.Write(infoJSON); err != nil {
		return "", fmt.Errorf("build install form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build install form: %w", err)
	}

	token, err := c.getToken(ctx)
	if err != nil {
		return "", err
	}

	batchURL := fmt.Sprintf("%s/batches?appid=%s&operation=installApplication",
		c.cfg.BaseURL, url.QueryEscape(appID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, batchURL, &body)
	if err != nil {
		return "", fmt.Errorf("create install request: %w", err)
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("install app %s on device %s: %w", appID, deviceID, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("install app %s on device %s: status %d: %s",
			appID, deviceID, resp.StatusCode, string(respBody))
	}

	var result struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decode install response: %w", err)
	}

	jobID := flexibleString(result.Data)
	c.logger.Info("install batch submitted",
		zap.String("device_id", deviceID),
		zap.String("app_id", appID),
		zap.String("job_id", jobID))
	return jobID, nil
}
