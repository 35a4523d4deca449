package kafka

import (
	// Go Internal Packages
	"context"
	"encoding/json"

	// Local Packages
	models "payguard/models"

	// External Packages
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

type ProducerConfig struct {
	Brokers []string
	Name    string
	Topic   string
}

// Producer publishes transaction outcome events. Delivery is best-effort:
// produce errors are logged and never reach the pipeline.
type Producer struct {
	Client *kgo.Client
	Config *ProducerConfig
	Logger *zap.Logger
}

// NewEventsProducer creates a producer for the outcome topic with Prometheus
// hooks attached.
func NewEventsProducer(conf *ProducerConfig, metrics *kprom.Metrics, logger *zap.Logger) (*Producer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(conf.Brokers...),    // Connects to Kafka brokers
		kgo.ClientID(conf.Name),             // Identifies this producer
		kgo.DefaultProduceTopic(conf.Topic), // Outcome topic
		kgo.WithHooks(metrics),              // Attaches monitoring hooks
	}

	client, err := kgo.NewClient(opts...)
	if err != nil || client == nil {
		return nil, err
	}

	return &Producer{Client: client, Config: conf, Logger: logger}, nil
}

// Publish sends one outcome event keyed by fingerprint, fire-and-forget.
func (p *Producer) Publish(ctx context.Context, event models.TransactionEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		p.Logger.Error("failed to marshal transaction event", zap.Error(err))
		return
	}

	record := &kgo.Record{Key: []byte(event.Fingerprint), Value: value}
	p.Client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.Logger.Error("failed to publish transaction event",
				zap.String("fingerprint", event.Fingerprint), zap.Error(err))
		}
	})
}

// Close flushes buffered events and releases the client.
func (p *Producer) Close() {
	p.Client.Close()
}
