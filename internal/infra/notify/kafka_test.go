package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Error(format string, args ...interface{}) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func mockProducer(t *testing.T) *mocks.SyncProducer {
	t.Helper()

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	return mocks.NewSyncProducer(t, cfg)
}

func TestKafkaNotifier_PublishesEvent(t *testing.T) {
	producer := mockProducer(t)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event bayChangedEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event.LocationID != "loc-1" || event.BayNumber != 3 {
			return fmt.Errorf("unexpected event: %+v", event)
		}
		if event.OccurredAt.IsZero() {
			return fmt.Errorf("occurredAt is not set")
		}
		return nil
	})

	log := &recordingLogger{}
	n := &KafkaNotifier{producer: producer, topic: "bay-events", logger: log}

	n.NotifyBayChanged(context.Background(), "loc-1", 3)

	require.NoError(t, producer.Close())
	assert.Len(t, log.infos, 1)
	assert.Empty(t, log.errors)
}

func TestKafkaNotifier_PublishFailureIsSwallowed(t *testing.T) {
	producer := mockProducer(t)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	log := &recordingLogger{}
	n := &KafkaNotifier{producer: producer, topic: "bay-events", logger: log}

	// Ошибка публикации не должна выходить за пределы нотификатора
	n.NotifyBayChanged(context.Background(), "loc-1", 3)

	require.NoError(t, producer.Close())
	assert.Empty(t, log.infos)
	assert.Len(t, log.errors, 1)
}

func TestLogNotifier_WritesToLog(t *testing.T) {
	log := &recordingLogger{}
	n := NewLogNotifier(log)

	n.NotifyBayChanged(context.Background(), "loc-1", 5)

	require.Len(t, log.infos, 1)
	assert.Contains(t, log.infos[0], "loc-1")
	assert.Contains(t, log.infos[0], "5")
}
