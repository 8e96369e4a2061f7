package activityservice

import (
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/harutoki/blogdeck/internal/common"
)

type MockMessageConsumer struct {
	Deliveries []amqp.Delivery
}

func (m *MockMessageConsumer) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	msgsChan := make(chan amqp.Delivery)

	go func() {
		defer close(msgsChan)

		for _, d := range m.Deliveries {
			if d.Acknowledger == nil {
				d.Acknowledger = mockAcknowledger{}
			}
			msgsChan <- d
		}
	}()

	return msgsChan, nil
}

type mockAcknowledger struct{}

func (mockAcknowledger) Ack(tag uint64, multiple bool) error { return nil }

func (mockAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error { return nil }

func (mockAcknowledger) Reject(tag uint64, requeue bool) error { return nil }
