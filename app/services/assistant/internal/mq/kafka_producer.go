package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaConf struct {
	Broker        []string
	CheckoutTopic string
}

// CheckoutPublisher writes checkout events to Kafka. The zero configuration
// publishes nothing.
type CheckoutPublisher struct {
	w *kafka.Writer
}

func NewCheckoutPublisher(c KafkaConf) *CheckoutPublisher {
	if len(c.Broker) == 0 || c.CheckoutTopic == "" {
		return &CheckoutPublisher{}
	}
	return &CheckoutPublisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(c.Broker...),
		Topic:                  c.CheckoutTopic,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}}
}

func (p *CheckoutPublisher) PublishCheckout(ctx context.Context, evt CheckoutEvent) error {
	if p == nil || p.w == nil {
		return nil
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{Key: []byte(evt.SessionID), Value: body})
}

func (p *CheckoutPublisher) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}
