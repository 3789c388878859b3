package telegram

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
	"unicode/utf8"

	"twir-bot/internal/domain/ports"
)

// DefaultAPIURL is the public Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

// maxMessageLength is the Bot API limit for a single text message.
const maxMessageLength = 4096

// Bot sends HTML-formatted messages to one chat through the Telegram Bot API.
type Bot struct {
	apiURL     string
	token      string
	chatID     string
	httpClient *http.Client
	logger     ports.Logger
}

var _ ports.Notifier = (*Bot)(nil)

// NewBot creates a Bot posting to chatID. An empty apiURL selects DefaultAPIURL.
func NewBot(apiURL, token, chatID string, timeout time.Duration, logger ports.Logger) *Bot {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Bot{
		apiURL:     strings.TrimRight(apiURL, "/"),
		token:      token,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type forwardMessageRequest struct {
	ChatID     string `json:"chat_id"`
	FromChatID string `json:"from_chat_id"`
	MessageID  int64  `json:"message_id"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      *struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// Send posts text to the configured chat and returns the id of the first
// message. Text over the API limit is sent as several messages split on
// blank lines.
func (b *Bot) Send(ctx context.Context, text string) (int64, error) {
	var firstID int64
	for i, chunk := range splitMessage(text, maxMessageLength) {
		resp, err := b.call(ctx, "sendMessage", sendMessageRequest{
			ChatID:                b.chatID,
			Text:                  chunk,
			ParseMode:             "HTML",
			DisableWebPagePreview: true,
		})
		if err != nil {
			return 0, err
		}
		if i == 0 && resp.Result != nil {
			firstID = resp.Result.MessageID
		}
	}

	if b.logger != nil {
		b.logger.Info(ctx, "message sent to telegram", "chat", b.chatID, "message_id", firstID)
	}
	return firstID, nil
}

// Forward forwards messageID from the configured chat to target.
func (b *Bot) Forward(ctx context.Context, target string, messageID int64) error {
	_, err := b.call(ctx, "forwardMessage", forwardMessageRequest{
		ChatID:     target,
		FromChatID: b.chatID,
		MessageID:  messageID,
	})
	if err != nil {
		return err
	}

	if b.logger != nil {
		b.logger.Info(ctx, "message forwarded", "target", target, "message_id", messageID)
	}
	return nil
}

func (b *Bot) call(ctx context.Context, method string, payload any) (*apiResponse, error) {
	if b.token == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", b.apiURL, b.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		// the url embeds the token
		return nil, fmt.Errorf("perform %s request: %w", method, redact(err, b.token))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}

	var decoded apiResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("telegram %s returned status %d: %w", method, resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !decoded.OK {
		return nil, fmt.Errorf("telegram %s returned status %d: %s", method, resp.StatusCode, decoded.Description)
	}
	return &decoded, nil
}

func redact(err error, token string) error {
	if token == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "<token>"))
}

// splitMessage cuts text into chunks of at most limit bytes, preferring the
// blank lines between rendered links so no markup tag is split.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
			current.Reset()
		}
	}

	for _, block := range strings.SplitAfter(text, "\n\n") {
		if current.Len()+len(block) > limit {
			flush()
		}
		for len(block) > limit {
			cut := cutPoint(block, limit)
			chunks = append(chunks, block[:cut])
			block = block[cut:]
		}
		current.WriteString(block)
	}
	flush()
	return chunks
}

// cutPoint returns where to cut an oversized block: at most limit bytes, on a
// rune boundary and outside any element. A line break before that point wins.
func cutPoint(block string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(block[cut]) {
		cut--
	}

	safe := cut
	head := block[:cut]
	if open := strings.LastIndexByte(head, '<'); open >= 0 {
		// an unterminated tag or an opening tag whose element runs past the cut
		if strings.LastIndexByte(head, '>') < open || !strings.HasPrefix(head[open:], "</") {
			safe = open
		}
	}
	if nl := strings.LastIndexByte(block[:safe], '\n'); nl > 0 {
		safe = nl + 1
	}
	if safe == 0 {
		return cut
	}
	return safe
}
