package mocks

import (
	"sync"
)

type ProducedMessage struct {
	Topic   string
	Message string
}

type MockStream struct {
	mu       sync.Mutex
	Produced []ProducedMessage
}

func (m *MockStream) ProduceMessage(topic, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Produced = append(m.Produced, ProducedMessage{Topic: topic, Message: message})
	return nil
}

func (m *MockStream) ProducedTopics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	topics := make([]string, 0, len(m.Produced))
	for _, p := range m.Produced {
		topics = append(topics, p.Topic)
	}
	return topics
}
