// Package redpanda provides Redpanda/Kafka queue integration.
//
// It publishes retraining tasks and consumes them in the worker binary.
// Producing is transactional so a run is enqueued at most once.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/fairyhunter13/resume-ranker/internal/adapter/observability"
	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// TopicRetrain is the Kafka topic for retraining runs.
const TopicRetrain = "retrain-jobs"

// Producer wraps a Kafka producer and implements domain.Queue.
type Producer struct {
	client *kgo.Client
	// serializes transactions; franz-go allows one open transaction per client
	txn chan struct{}
}

// NewProducer constructs a transactional Producer and ensures the topic exists.
func NewProducer(brokers []string) (*Producer, error) {
	return NewProducerWithTransactionalID(brokers, "resume-ranker-producer")
}

// NewProducerWithTransactionalID constructs a Producer with a custom
// transactional ID so tests can run producers side by side.
func NewProducerWithTransactionalID(brokers []string, transactionalID string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.TransactionalID(transactionalID),
		kgo.RequestRetries(10),
	)
	if err != nil {
		return nil, fmt.Errorf("redpanda client: %w", err)
	}

	if err := createTopicIfNotExists(context.Background(), client, TopicRetrain, 1, 1); err != nil {
		slog.Warn("failed to create topic, it may already exist",
			slog.String("topic", TopicRetrain), slog.Any("error", err))
	}
	return &Producer{client: client, txn: make(chan struct{}, 1)}, nil
}

// EnqueueRetrain publishes the run payload transactionally and returns the
// run id as the task id.
func (p *Producer) EnqueueRetrain(ctx domain.Context, payload domain.RetrainTaskPayload) (string, error) {
	select {
	case p.txn <- struct{}{}:
		defer func() { <-p.txn }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("op=queue.enqueue_retrain: %w", err)
	}
	if err := p.client.BeginTransaction(); err != nil {
		return "", fmt.Errorf("op=queue.enqueue_retrain: begin transaction: %w", err)
	}

	record := &kgo.Record{
		Topic: TopicRetrain,
		Key:   []byte(payload.RunID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "run_id", Value: []byte(payload.RunID)},
			{Key: "triggered_by", Value: []byte(payload.TriggeredBy)},
		},
	}
	e := kgo.AbortingFirstErrPromise(p.client)
	p.client.Produce(ctx, record, e.Promise())
	if err := e.Err(); err != nil {
		if abortErr := p.client.EndTransaction(ctx, kgo.TryAbort); abortErr != nil {
			slog.Error("failed to abort transaction", slog.Any("error", abortErr))
		}
		return "", fmt.Errorf("op=queue.enqueue_retrain: produce: %w", err)
	}
	if err := p.client.EndTransaction(ctx, kgo.TryCommit); err != nil {
		return "", fmt.Errorf("op=queue.enqueue_retrain: commit transaction: %w", err)
	}

	observability.JobsEnqueuedTotal.WithLabelValues("retrain").Inc()
	slog.Info("retrain run enqueued",
		slog.String("topic", TopicRetrain),
		slog.String("run_id", payload.RunID))
	return payload.RunID, nil
}

// Close closes the producer.
func (p *Producer) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
