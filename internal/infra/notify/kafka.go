package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
)

// bayChangedEvent событие изменения расписания бокса
type bayChangedEvent struct {
	LocationID string    `json:"locationId"`
	BayNumber  int       `json:"bayNumber"`
	OccurredAt time.Time `json:"occurredAt"`
}

// KafkaNotifier публикует события изменения расписания в Kafka.
// Ключ сообщения — locationID, так события одной локации попадают
// в одну партицию и сохраняют порядок.
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	logger   Logger
}

// NewKafkaNotifier создает нотификатор поверх синхронного Kafka-продюсера
func NewKafkaNotifier(brokers []string, topic string, logger Logger) (*KafkaNotifier, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &KafkaNotifier{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}, nil
}

// NotifyBayChanged публикует событие. Ошибка публикации логируется
// и не возвращается вызывающему.
func (n *KafkaNotifier) NotifyBayChanged(_ context.Context, locationID string, bayNumber int) {
	event := bayChangedEvent{
		LocationID: locationID,
		BayNumber:  bayNumber,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("notify: marshal bay changed event: %v", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(locationID),
		Value: sarama.ByteEncoder(payload),
	}

	if _, _, err := n.producer.SendMessage(msg); err != nil {
		n.logger.Error("notify: publish bay changed event, location=%s bay=%d: %v", locationID, bayNumber, err)
		return
	}

	n.logger.Info("notify: bay schedule changed published, location=%s bay=%d", locationID, bayNumber)
}

// Close закрывает Kafka-продюсер
func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}
