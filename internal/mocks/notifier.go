package mocks

import (
	"sync"
)

type SentMessage struct {
	ChatID int64
	Text   string
	Markup any
}

// MockNotifier records every outbound chat message so tests can assert on
// what the user would have seen.
type MockNotifier struct {
	mu       sync.Mutex
	Messages []SentMessage
}

func (m *MockNotifier) SendMessage(chatID int64, text string) error {
	return m.SendMessageWithMarkup(chatID, text, nil)
}

func (m *MockNotifier) SendMessageWithMarkup(chatID int64, text string, replyMarkup any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Messages = append(m.Messages, SentMessage{ChatID: chatID, Text: text, Markup: replyMarkup})
	return nil
}

func (m *MockNotifier) LastMessage() *SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Messages) == 0 {
		return nil
	}
	return &m.Messages[len(m.Messages)-1]
}
