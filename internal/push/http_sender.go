package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPSenderConfig configures the group-push HTTP gateway.
type HTTPSenderConfig struct {
	URL      string
	AppID    int
	AppToken string
}

// httpSender posts one group notification to a hosted push gateway that
// resolves subscriber ids to device tokens on its side.
type httpSender struct {
	cfg    HTTPSenderConfig
	client *http.Client
}

// NewHTTPSender creates a Sender backed by the group-push HTTP gateway.
func NewHTTPSender(cfg HTTPSenderConfig) Sender {
	return &httpSender{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type groupPushPayload struct {
	SubIDs   []string `json:"subIDs"`
	AppID    int      `json:"appId"`
	AppToken string   `json:"appToken"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}

// Push sends one notification addressed to all recipients at once.
func (s *httpSender) Push(ctx context.Context, recipientIDs []string, title, message string) error {
	if len(recipientIDs) == 0 {
		return nil
	}
	body, err := json.Marshal(groupPushPayload{
		SubIDs:   recipientIDs,
		AppID:    s.cfg.AppID,
		AppToken: s.cfg.AppToken,
		Title:    title,
		Message:  message,
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send push request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}
	return nil
}
