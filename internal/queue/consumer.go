package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ResponseSyncer mirrors one recorded response to the export spreadsheet.
// Implemented by the service layer's sheet syncer.
type ResponseSyncer interface {
	SyncOne(ctx context.Context, userID, questionID, surveyID uint64) error
}

// StartResponseSyncConsumer connects to RabbitMQ, declares the
// response.recorded queue (durable), and consumes events, exporting each
// referenced response through the syncer.  The function runs a reconnect
// loop with exponential backoff and keeps running for the life of the
// process; processing failures are logged and the offending message is
// rejected without requeue so a poisoned event cannot wedge the queue.
func StartResponseSyncConsumer(syncer ResponseSyncer) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("sync-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, syncer); err != nil {
			log.Printf("sync-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, syncer ResponseSyncer) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(20, 0, false); err != nil {
		log.Printf("sync-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(recordedQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(recordedQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, syncer); err != nil {
			log.Printf("sync-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, syncer ResponseSyncer) error {
	var ev ResponseRecordedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := syncer.SyncOne(ctx, ev.UserID, ev.QuestionID, ev.SurveyID); err != nil {
		return fmt.Errorf("sync response user=%d question=%d survey=%d: %w",
			ev.UserID, ev.QuestionID, ev.SurveyID, err)
	}
	return nil
}
