package common

import (
	"context"
	"sync"
)

// MockMessageProducer records published messages instead of talking to a
// broker.
type MockMessageProducer struct {
	mu       sync.Mutex
	Messages []MockMessage
}

type MockMessage struct {
	Body     []byte
	Key      BindingKey
	Exchange Exchange
}

func (m *MockMessageProducer) Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, MockMessage{Body: msg, Key: key, Exchange: exchange})
	return nil
}

func (m *MockMessageProducer) Published(key BindingKey) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int
	for _, msg := range m.Messages {
		if msg.Key == key {
			n++
		}
	}
	return n
}
