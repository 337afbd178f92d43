// internal/toyota/client.go

package toyota

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"climatebridge/internal/logger"
)

const defaultBaseURL = "https://ctpa-oneapi.tceu-ctp-prd.toyotaconnectedeurope.io"

// Client 车联网远程空调接口客户端
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// HTTPStatusError 远程接口返回的非 2xx 应答
type HTTPStatusError struct {
	Status int
	Body   string
}

func (e HTTPStatusError) Error() string {
	return fmt.Sprintf("vehicle api error %d: %s", e.Status, strings.TrimSpace(e.Body))
}

// ClientConfig 客户端配置
type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// RefreshClimateStatus 请求车辆刷新空调状态
// 返回车端是否接受了刷新请求
func (c *Client) RefreshClimateStatus(ctx context.Context, vin string) (bool, error) {
	var resp RefreshResult
	err := c.postJSON(ctx, fmt.Sprintf("/v1/vehicles/%s/climate-status/refresh", vin), nil, &resp)
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}

// GetClimateStatus 拉取车辆空调运行状态
func (c *Client) GetClimateStatus(ctx context.Context, vin string) (*ClimateStatus, error) {
	var resp struct {
		Payload ClimateStatus `json:"payload"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/vehicles/%s/climate-status", vin), &resp); err != nil {
		return nil, err
	}
	return &resp.Payload, nil
}

// UpdateClimateSettings 下发完整空调设置
func (c *Client) UpdateClimateSettings(ctx context.Context, vin string, settings *ClimateSettings) (*StatusResponse, error) {
	logger.Debug("下发空调设置 - VIN: %s, settingsOn: %v, 温度: %.1f°C",
		vin, settings.SettingsOn, settings.Temperature)
	var resp StatusResponse
	if err := c.postJSON(ctx, fmt.Sprintf("/v1/vehicles/%s/climate-settings", vin), settings, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendClimateCommand 发送空调控制指令（engine-start / engine-stop）
func (c *Client) SendClimateCommand(ctx context.Context, vin string, command *ClimateControlCommand) (*StatusResponse, error) {
	logger.Debug("发送空调控制指令 - VIN: %s, 指令: %s", vin, command.Command)
	var resp StatusResponse
	if err := c.postJSON(ctx, fmt.Sprintf("/v1/vehicles/%s/climate-control", vin), command, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetClimateSettings 拉取车辆上一次已知的空调设置
// 实体初始化时使用，拉取失败不致命，调用方回退默认值
func (c *Client) GetClimateSettings(ctx context.Context, vin string) (*ClimateSettings, error) {
	var resp struct {
		Payload ClimateSettings `json:"payload"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/vehicles/%s/climate-settings", vin), &resp); err != nil {
		return nil, err
	}
	return &resp.Payload, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, HTTPStatusError{Status: resp.StatusCode, Body: string(data)}
	}
	return resp, nil
}
