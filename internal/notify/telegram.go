package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// Telegram delivers pipeline reports to a chat. An unconfigured
// notifier (empty token or chat ID) is valid and drops every send, so
// callers never need to branch on whether notifications are on.
type Telegram struct {
	baseURL    string
	token      string
	chatID     string
	httpClient *http.Client
}

// NewTelegram creates a notifier. Empty token or chatID disables it.
func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		baseURL:    telegramAPIBase,
		token:      token,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether sends will actually go out.
func (t *Telegram) Enabled() bool {
	return t.token != "" && t.chatID != ""
}

// SendText sends an HTML-formatted message.
func (t *Telegram) SendText(ctx context.Context, text string) error {
	if !t.Enabled() {
		log.Printf("[telegram] ⊘ Notifications disabled, dropping message")
		return nil
	}

	form := url.Values{
		"chat_id":    {t.chatID},
		"text":       {text},
		"parse_mode": {"HTML"},
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return t.do(req)
}

// SendDocument uploads a file attachment with a caption.
func (t *Telegram) SendDocument(ctx context.Context, filename string, content []byte, caption string) error {
	if !t.Enabled() {
		log.Printf("[telegram] ⊘ Notifications disabled, dropping document %s", filename)
		return nil
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("chat_id", t.chatID); err != nil {
		return fmt.Errorf("writing chat_id field: %w", err)
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return fmt.Errorf("writing caption field: %w", err)
		}
	}

	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("writing document content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing multipart writer: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendDocument", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return t.do(req)
}

func (t *Telegram) do(req *http.Request) error {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, body)
	}

	var apiResp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("decoding telegram response: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram rejected message: %s", apiResp.Description)
	}

	return nil
}
