package client

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

	"github.com/LeventeLantos/chat-compose/internal/model"
)

// ErrRejected is returned by Send when the remote API answers with anything but 204.
var ErrRejected = errors.New("message rejected")

// maxListBody caps how much of a listing response is read.
const maxListBody = 8 << 20

type MessagesClient struct {
	baseURL string
	client  *http.Client
}

func NewMessagesClient(baseURL string, timeout time.Duration) *MessagesClient {
	return &MessagesClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type listResponse struct {
	Messages []listItem `json:"messages"`
}

type listItem struct {
	Text   string `json:"text"`
	Status string `json:"status"`
}

type sendRequest struct {
	Text string `json:"text"`
}

func (c *MessagesClient) List(ctx context.Context) ([]model.Message, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/messages", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxListBody {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxListBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d body=%q", resp.StatusCode, string(body))
	}

	var lr listResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w body=%q", err, string(body))
	}

	out := make([]model.Message, 0, len(lr.Messages))
	for _, it := range lr.Messages {
		out = append(out, model.NewMessage(it.Text, model.Status(it.Status)))
	}
	return out, nil
}

func (c *MessagesClient) Send(ctx context.Context, text string) error {
	reqBody, err := json.Marshal(sendRequest{Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages/send", bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused; the body carries no meaning.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: unexpected status code: %d", ErrRejected, resp.StatusCode)
	}
	return nil
}
