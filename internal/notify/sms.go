package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Channel delivers a rendered message to a set of recipients.
type Channel interface {
	Send(ctx context.Context, recipients []string, message string) error
}

type smsPayload struct {
	To      []string `json:"to"`
	Message string   `json:"message"`
}

// SMSGatewayChannel sends messages through an HTTP SMS gateway.
type SMSGatewayChannel struct {
	url    string
	token  string
	client *http.Client
}

// SMSOption configures the SMS channel.
type SMSOption func(*SMSGatewayChannel)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) SMSOption {
	return func(ch *SMSGatewayChannel) {
		if client != nil {
			ch.client = client
		}
	}
}

// WithToken sets a bearer token for the gateway.
func WithToken(token string) SMSOption {
	return func(ch *SMSGatewayChannel) {
		ch.token = token
	}
}

// NewSMSGatewayChannel constructs an SMS gateway channel.
func NewSMSGatewayChannel(url string, opts ...SMSOption) (*SMSGatewayChannel, error) {
	if url == "" {
		return nil, errors.New("sms channel: empty url")
	}
	channel := &SMSGatewayChannel{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(channel)
	}
	return channel, nil
}

// Send posts the message for the given recipients.
func (s *SMSGatewayChannel) Send(ctx context.Context, recipients []string, message string) error {
	if s == nil || s.url == "" {
		return errors.New("sms channel: empty url")
	}
	if len(recipients) == 0 {
		return errors.New("sms channel: no recipients")
	}
	payload := smsPayload{To: recipients, Message: message}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms channel: non-2xx response %d", resp.StatusCode)
	}
	return nil
}
