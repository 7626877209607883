package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notifier is the outbound half of the chat front-end: everything the core
// needs to say back to a user goes through here.
type Notifier interface {
	SendMessage(chatID int64, text string) error
	SendMessageWithMarkup(chatID int64, text string, replyMarkup any) error
}

type Client struct {
	token      string
	apiBaseURL string
	httpClient *http.Client
}

func New(token string) *Client {
	return &Client{
		token:      token,
		apiBaseURL: "https://api.telegram.org",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
}

type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

type KeyboardButton struct {
	Text string `json:"text"`
}

type ReplyKeyboardMarkup struct {
	Keyboard       [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard bool               `json:"resize_keyboard"`
}

func (c *Client) SendMessage(chatID int64, text string) error {
	return c.SendMessageWithMarkup(chatID, text, nil)
}

func (c *Client) SendMessageWithMarkup(chatID int64, text string, replyMarkup any) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if replyMarkup != nil {
		payload["reply_markup"] = replyMarkup
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBaseURL, c.token)

	resp, err := c.httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram sendMessage returned status %d", resp.StatusCode)
	}

	return nil
}
