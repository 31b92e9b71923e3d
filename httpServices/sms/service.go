package sms

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

	"farmhith/logger"
)

// SMSService posts messages to the SMS gateway. Without a base URL it only logs them.
type SMSService struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	senderID   string
}

func NewSMSService(baseURL, apiKey, senderID string) *SMSService {
	return &SMSService{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		senderID: senderID,
	}
}

// Enabled reports whether a gateway is configured.
func (s *SMSService) Enabled() bool {
	return s.baseURL != ""
}

// SendOTP delivers a login code.
func (s *SMSService) SendOTP(ctx context.Context, phone, code string) error {
	if !s.Enabled() {
		logger.Warning(fmt.Sprintf("SMS gateway not configured, OTP for %s: %s", phone, code))
		return nil
	}

	msg := fmt.Sprintf("%s is your FarmHith login code. It expires in 5 minutes. Do not share it with anyone.", code)
	return s.Send(ctx, phone, msg)
}

// Send posts one message to the gateway.
func (s *SMSService) Send(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(SendRequest{
		To:       phone,
		SenderID: s.senderID,
		Message:  message,
	})
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/messages", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New("SMS gateway returned non-OK status: " + resp.Status)
	}

	var apiResp SendResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &apiResp); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
		if apiResp.Status != "" && !strings.EqualFold(apiResp.Status, "success") && !strings.EqualFold(apiResp.Status, "queued") {
			return fmt.Errorf("sms rejected: %s", apiResp.Message)
		}
	}
	return nil
}
