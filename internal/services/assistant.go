package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Errors the inbound-call handler maps to distinct fallback responses.
var (
	ErrAssistantUnavailable = errors.New("assistant call failed")
	ErrMissingCallDetails   = errors.New("assistant response missing call provider details")
	ErrEmptyCallMarkup      = errors.New("assistant returned empty call markup")
)

// AssistantClient issues outbound calls against the voice-assistant
// provider's REST API.
type AssistantClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewAssistantClient(baseURL, apiKey string, logger *zap.Logger) *AssistantClient {
	return &AssistantClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// CallRequest describes one outbound assistant call. Menu and FAQs are
// injected into the assistant's prompt as template variables.
type CallRequest struct {
	PhoneNumberID  string
	AssistantID    string
	CustomerNumber string
	Menu           string
	FAQs           string
}

type callResponse struct {
	PhoneCallProviderDetails *struct {
		Twiml string `json:"twiml"`
	} `json:"phoneCallProviderDetails"`
}

// CreateCall starts an assistant call and returns the call-control markup
// (TwiML) the telephony webhook should answer with.
func (c *AssistantClient) CreateCall(ctx context.Context, req CallRequest) (string, error) {
	payload := map[string]interface{}{
		"phoneNumberId":                  req.PhoneNumberID,
		"phoneCallProviderBypassEnabled": true,
		"assistantId":                    req.AssistantID,
		"customer": map[string]string{
			"number": req.CustomerNumber,
		},
		"assistantOverrides": map[string]interface{}{
			"variableValues": map[string]string{
				"menu": req.Menu,
				"faqs": req.FAQs,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode call payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/call", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build call request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssistantUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("assistant API returned error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail),
		)
		return "", fmt.Errorf("%w: status %d", ErrAssistantUnavailable, resp.StatusCode)
	}

	var call callResponse
	if err := json.NewDecoder(resp.Body).Decode(&call); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingCallDetails, err)
	}
	if call.PhoneCallProviderDetails == nil {
		return "", ErrMissingCallDetails
	}

	twiml := strings.TrimSpace(call.PhoneCallProviderDetails.Twiml)
	if twiml == "" {
		return "", ErrEmptyCallMarkup
	}
	return twiml, nil
}
