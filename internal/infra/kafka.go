package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/celidone/customers/internal/config"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafka connects to brokers and makes sure every topic exists
func Kafka(ctx context.Context, cfg config.KafkaCfg, topics ...string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID("customers"),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordDeliveryTimeout(cfg.DeliveryTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build kafka client - %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("didn't get response from kafka after sending ping request - %w", err)
	}

	if err := createTopics(ctx, kadm.NewClient(client), cfg, topics); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func createTopics(ctx context.Context, adm *kadm.Client, cfg config.KafkaCfg, topics []string) error {
	res, err := adm.CreateTopics(ctx, cfg.Partitions, cfg.Replicas, nil, topics...)
	if err != nil {
		return fmt.Errorf("failed to create kafka topics - %w", err)
	}

	for _, t := range res.Sorted() {
		if t.Err != nil && !errors.Is(t.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("failed to create kafka topic %s - %w", t.Topic, t.Err)
		}
	}
	return nil
}
