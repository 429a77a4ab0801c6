package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/celidone/customers/internal/model"
	"github.com/twmb/franz-go/pkg/kgo"
)

const occurredAtHeader = "occurred-at"

// KafkaNotifier produces every event to kafka topic named after event topic, keyed by customer id
// so events of the same customer land in the same partition.
type KafkaNotifier struct {
	client *kgo.Client
	prefix string
}

func NewKafkaNotifier(client *kgo.Client, topicPrefix string) *KafkaNotifier {
	return &KafkaNotifier{client: client, prefix: topicPrefix}
}

// KafkaTopics lists kafka topics the notifier produces to
func KafkaTopics(prefix string) []string {
	return []string{
		prefix + model.TopicCustomerCreated,
		prefix + model.TopicCustomerUpdated,
		prefix + model.TopicCustomerDeleted,
	}
}

func (n *KafkaNotifier) Broadcast(ctx context.Context, e model.Event) error {
	value, err := json.Marshal(&e)
	if err != nil {
		return fmt.Errorf("failed to encode event - %w", err)
	}

	rec := &kgo.Record{
		Topic: n.topic(e.Topic),
		Key:   []byte(e.CustomerID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: occurredAtHeader, Value: []byte(e.OccurredAt.Format(time.RFC3339Nano))},
		},
	}

	if err := n.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce event to %s - %w", rec.Topic, err)
	}
	return nil
}

func (n *KafkaNotifier) topic(name string) string {
	return n.prefix + name
}
