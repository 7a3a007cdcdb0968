package redpanda

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// Handler executes one retraining run. It owns the run's status transitions;
// the consumer only delivers payloads and commits offsets.
type Handler interface {
	HandleRetrain(ctx context.Context, payload domain.RetrainTaskPayload) error
}

// Consumer reads retraining tasks from the retrain topic. Runs execute one at
// a time; model training is CPU-bound and artifact writes are append-only, so
// there is nothing to gain from concurrency here.
type Consumer struct {
	client  *kgo.Client
	handler Handler
}

// NewConsumer constructs a group consumer on the retrain topic.
func NewConsumer(brokers []string, groupID string, handler Handler) (*Consumer, error) {
	kotelService := kotel.NewKotel(
		kotel.WithTracer(kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))),
	)
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.WithHooks(kotelService.Hooks()...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(TopicRetrain),
		kgo.FetchIsolationLevel(kgo.ReadCommitted()),
		kgo.DisableAutoCommit(),
		kgo.SessionTimeout(30*time.Second),
		kgo.HeartbeatInterval(3*time.Second),
	)
	if err != nil {
		return nil, err
	}
	if err := createTopicIfNotExists(context.Background(), client, TopicRetrain, 1, 1); err != nil {
		slog.Warn("failed to create topic, it may already exist",
			slog.String("topic", TopicRetrain), slog.Any("error", err))
	}
	return &Consumer{client: client, handler: handler}, nil
}

// Start polls until ctx is cancelled. Handler failures are logged and the
// offset is committed anyway; a failed run is recorded in retrain_runs and
// redelivering it would just fail the same way.
func (c *Consumer) Start(ctx context.Context) error {
	slog.Info("retrain consumer started", slog.String("topic", TopicRetrain))
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			slog.Error("fetch error",
				slog.String("topic", topic),
				slog.Int("partition", int(partition)),
				slog.Any("error", err))
		})
		fetches.EachRecord(func(record *kgo.Record) {
			c.processRecord(ctx, record)
		})
		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			slog.Error("offset commit failed", slog.Any("error", err))
		}
	}
}

func (c *Consumer) processRecord(ctx context.Context, record *kgo.Record) {
	var payload domain.RetrainTaskPayload
	if err := json.Unmarshal(record.Value, &payload); err != nil {
		slog.Error("dropping malformed retrain task",
			slog.String("key", string(record.Key)),
			slog.Any("error", err))
		return
	}
	slog.Info("retrain task received",
		slog.String("run_id", payload.RunID),
		slog.String("triggered_by", payload.TriggeredBy))
	if err := c.handler.HandleRetrain(ctx, payload); err != nil {
		slog.Error("retrain task failed",
			slog.String("run_id", payload.RunID),
			slog.Any("error", err))
	}
}

// Close closes the underlying client.
func (c *Consumer) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}
