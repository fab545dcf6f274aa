package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	appconfig "github.com/NMHx2005/lms-backend-sub006/internal/config"
	"github.com/NMHx2005/lms-backend-sub006/internal/domain/entities"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase/interfaces"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// NewSyncProducer builds a producer that waits for all in-sync replicas.
func NewSyncProducer(cfg appconfig.KafkaConfig) (sarama.SyncProducer, error) {
	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Return.Successes = true
	sc.Producer.Retry.Max = 3
	return sarama.NewSyncProducer(cfg.Brokers, sc)
}

// KafkaPaymentPublisher writes settlement events keyed by txn ref, so every
// event of one payment lands on the same partition.
type KafkaPaymentPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

var _ interfaces.IPaymentEventPublisher = (*KafkaPaymentPublisher)(nil)

func NewKafkaPaymentPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) *KafkaPaymentPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &KafkaPaymentPublisher{producer: producer, topic: topic, log: log}
}

func (p *KafkaPaymentPublisher) PublishPaymentSettled(ctx context.Context, evt entities.PaymentSettledEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(evt.TxnRef),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte("payment.settled")},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("publish payment settled %s: %w", evt.TxnRef, err)
	}

	p.log.Debug("[payment][events] settled event published",
		zap.String("txn_ref", evt.TxnRef),
		zap.String("status", string(evt.Status)),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

func (p *KafkaPaymentPublisher) Close() error {
	return p.producer.Close()
}

// NoopPaymentPublisher drops events; used when no brokers are configured.
type NoopPaymentPublisher struct{}

var _ interfaces.IPaymentEventPublisher = NoopPaymentPublisher{}

func (NoopPaymentPublisher) PublishPaymentSettled(context.Context, entities.PaymentSettledEvent) error {
	return nil
}
