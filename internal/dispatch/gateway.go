package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"aqua_project/internal/config"
	"aqua_project/internal/constants"
)

// GatewayClient posts a notification payload to one outbound channel
// endpoint. Non-2xx responses and success=false bodies are channel
// failures; callers log them and move on.
type GatewayClient struct {
	Name   string
	URL    string
	client *http.Client
}

// GatewayResponse is the body every channel endpoint answers with
type GatewayResponse struct {
	Success    bool `json:"success"`
	Recipients int  `json:"recipients,omitempty"`
}

// NewGatewayClient creates a channel client with a bounded call timeout
func NewGatewayClient(name, url string, timeout time.Duration) *GatewayClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GatewayClient{
		Name:   name,
		URL:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether this channel has an endpoint configured
func (g *GatewayClient) Enabled() bool {
	return g != nil && g.URL != ""
}

// Send posts the payload and checks the gateway's answer
func (g *GatewayClient) Send(ctx context.Context, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s payload marshal failed: %w", g.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s request creation failed: %w", g.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s gateway call failed: %w", g.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s gateway returned status %d", g.Name, resp.StatusCode)
	}

	var result GatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%s gateway response decode failed: %w", g.Name, err)
	}
	if !result.Success {
		return fmt.Errorf("%s gateway reported delivery failure", g.Name)
	}

	return nil
}

// GatewaySet holds one client per notification channel
type GatewaySet struct {
	Push     *GatewayClient
	Email    *GatewayClient
	SMS      *GatewayClient
	Whatsapp *GatewayClient
}

// NewGatewaySet builds the channel clients from configuration. Channels
// without a configured URL stay disabled.
func NewGatewaySet(cfg *config.Config) GatewaySet {
	return GatewaySet{
		Push:     NewGatewayClient(constants.CHANNEL_PUSH, cfg.PushGatewayURL, cfg.GatewayTimeout),
		Email:    NewGatewayClient(constants.CHANNEL_EMAIL, cfg.EmailGatewayURL, cfg.GatewayTimeout),
		SMS:      NewGatewayClient(constants.CHANNEL_SMS, cfg.SMSGatewayURL, cfg.GatewayTimeout),
		Whatsapp: NewGatewayClient(constants.CHANNEL_WHATSAPP, cfg.WhatsappGatewayURL, cfg.GatewayTimeout),
	}
}
